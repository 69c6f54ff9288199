package ports

import (
	"context"

	models "github.com/chrisdamba/flighttrouble/internal"
	"github.com/google/uuid"
)

type FlightRepository interface {
	CreateFlight(ctx context.Context, flight *models.Flight) error
	GetFlight(ctx context.Context, id uuid.UUID) (*models.Flight, error)
	ListFlights(ctx context.Context, status models.FlightStatus) ([]models.Flight, error)
	// UpdateFlight writes the flight conditionally on flight.Version and
	// bumps it on success; returns models.ErrVersionConflict on a lost race.
	UpdateFlight(ctx context.Context, flight *models.Flight) error
}

type BookingRepository interface {
	// CreateBooking inserts the booking and persists the flight's seat map
	// in one transaction, conditional on the flight version.
	CreateBooking(ctx context.Context, booking *models.Booking, flight *models.Flight) error
	// UpdateBooking writes the booking and the flight's seat map in one
	// transaction, conditional on the flight version.
	UpdateBooking(ctx context.Context, booking *models.Booking, flight *models.Flight) error
	// UpdateBookingPrice persists only the booking's total, used when a
	// flight's fare rules change.
	UpdateBookingPrice(ctx context.Context, booking *models.Booking) error
	GetBooking(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	GetBookingsByFlight(ctx context.Context, flightID uuid.UUID) ([]models.Booking, error)
	GetBookingsByUser(ctx context.Context, userID uuid.UUID) ([]models.Booking, error)
}

type AircraftRepository interface {
	CreateAircraft(ctx context.Context, aircraft *models.Aircraft) error
	GetAircraft(ctx context.Context, id uuid.UUID) (*models.Aircraft, error)
	ListAircraft(ctx context.Context) ([]models.Aircraft, error)
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, id uuid.UUID) error
	ListUsers(ctx context.Context) ([]models.User, error)
}

type BookingService interface {
	CreateBooking(ctx context.Context, req *models.BookingRequest) (*models.Booking, error)
	AmendBooking(ctx context.Context, id uuid.UUID, passengers []models.Passenger) (*models.Booking, error)
	CancelBooking(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	GetBooking(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	BookingsByUser(ctx context.Context, userID uuid.UUID) ([]models.Booking, error)
}

type FlightService interface {
	CreateFlight(ctx context.Context, req *models.FlightRequest) (*models.Flight, error)
	UpdateFlight(ctx context.Context, id uuid.UUID, req *models.FlightUpdateRequest) (*models.Flight, error)
	CancelFlight(ctx context.Context, id uuid.UUID) (*models.Flight, error)
	GetFlight(ctx context.Context, id uuid.UUID) (*models.Flight, error)
	ListFlights(ctx context.Context, scheduledOnly bool) ([]models.Flight, error)
	CreateAircraft(ctx context.Context, req *models.AircraftRequest) (*models.Aircraft, error)
	GetAircraft(ctx context.Context, id uuid.UUID) (*models.Aircraft, error)
	ListAircraft(ctx context.Context) ([]models.Aircraft, error)
}

type UserService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.User, error)
	UpdateUser(ctx context.Context, id uuid.UUID, req *models.UserUpdateRequest) (*models.User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
	ListUsers(ctx context.Context) ([]models.User, error)
}

// Cache is the byte-level cache used for flight reads; implementations must
// treat a miss as (nil, false, nil).
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Del(ctx context.Context, keys ...string) error
	Close() error
}
