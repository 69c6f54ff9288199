package models

import (
	"time"

	"github.com/google/uuid"
)

type FlightStatus string

const (
	FlightScheduled FlightStatus = "scheduled"
	FlightInFlight  FlightStatus = "in-flight"
	FlightCompleted FlightStatus = "completed"
	FlightCancelled FlightStatus = "cancelled"
)

type BookingStatus string

const (
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// Seat is one entry in a flight's seat map. The map is copied from the
// aircraft when the flight is created; IsBooked reflects the union of all
// non-cancelled bookings on the flight.
type Seat struct {
	SeatNumber string `json:"seat_number"`
	IsBooked   bool   `json:"is_booked"`
}

// FareOption is a meal or baggage choice with its surcharge on top of the
// flight's base price.
type FareOption struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type Aircraft struct {
	ID        uuid.UUID `json:"id"`
	Model     string    `json:"model"`
	Capacity  int       `json:"capacity"`
	Seats     []string  `json:"seats"`
	CreatedAt time.Time `json:"created_at"`
}

type Flight struct {
	ID             uuid.UUID    `json:"id"`
	FlightNumber   string       `json:"flight_number"`
	Airline        string       `json:"airline"`
	AircraftID     uuid.UUID    `json:"aircraft_id"`
	Status         FlightStatus `json:"status"`
	Origin         string       `json:"origin"`
	Destination    string       `json:"destination"`
	Departure      time.Time    `json:"departure"`
	Arrival        time.Time    `json:"arrival"`
	Price          float64      `json:"price"`
	Seats          []Seat       `json:"seats"`
	MealOptions    []FareOption `json:"meal_options"`
	BaggageOptions []FareOption `json:"baggage_options"`

	// Version guards the seat map against lost updates; every write is
	// conditional on the version read.
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Passenger struct {
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	PassportNumber string `json:"passport_number"`
	Email          string `json:"email"`
	SeatNumber     string `json:"seat_number"`
	Meal           string `json:"meal"`
	ExtraBaggage   string `json:"extra_baggage"`
}

type Booking struct {
	ID         uuid.UUID     `json:"id"`
	UserID     uuid.UUID     `json:"user_id"`
	FlightID   uuid.UUID     `json:"flight_id"`
	Status     BookingStatus `json:"status"`
	TotalPrice float64       `json:"total_price"`
	Passengers []Passenger   `json:"passengers"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

type User struct {
	ID           uuid.UUID `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Birthdate    time.Time `json:"birthdate"`
	Gender       string    `json:"gender"`
	Email        string    `json:"email"`
	PhoneNumber  string    `json:"phone_number"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

type PassengerRequest struct {
	FirstName      string `json:"first_name" validate:"required,min=1,max=50"`
	LastName       string `json:"last_name" validate:"required,min=1,max=50"`
	PassportNumber string `json:"passport_number" validate:"required"`
	Email          string `json:"email" validate:"omitempty,email"`
	SeatNumber     string `json:"seat_number" validate:"required,seat_number"`
	Meal           string `json:"meal" validate:"required"`
	ExtraBaggage   string `json:"extra_baggage" validate:"required"`
}

type BookingRequest struct {
	UserID     uuid.UUID          `json:"user_id" validate:"required"`
	FlightID   uuid.UUID          `json:"flight_id" validate:"required"`
	Passengers []PassengerRequest `json:"passengers" validate:"dive"`
}

type AmendBookingRequest struct {
	Passengers []PassengerRequest `json:"passengers" validate:"dive"`
}

type FareOptionRequest struct {
	Name    string  `json:"name" validate:"required"`
	Price   float64 `json:"price" validate:"gte=0"`
	Enabled bool    `json:"enabled"`
}

type FlightRequest struct {
	FlightNumber   string              `json:"flight_number" validate:"required"`
	Airline        string              `json:"airline" validate:"required"`
	AircraftID     uuid.UUID           `json:"aircraft_id" validate:"required"`
	Origin         string              `json:"origin" validate:"required"`
	Destination    string              `json:"destination" validate:"required"`
	Departure      time.Time           `json:"departure" validate:"required"`
	Arrival        time.Time           `json:"arrival" validate:"required"`
	Price          float64             `json:"price" validate:"gte=0"`
	MealOptions    []FareOptionRequest `json:"meal_options" validate:"dive"`
	BaggageOptions []FareOptionRequest `json:"baggage_options" validate:"dive"`
}

// FlightUpdateRequest carries optional fields; nil means keep the current
// value.
type FlightUpdateRequest struct {
	FlightNumber   *string             `json:"flight_number"`
	Airline        *string             `json:"airline"`
	AircraftID     *uuid.UUID          `json:"aircraft_id"`
	Origin         *string             `json:"origin"`
	Destination    *string             `json:"destination"`
	Departure      *time.Time          `json:"departure"`
	Arrival        *time.Time          `json:"arrival"`
	Price          *float64            `json:"price"`
	MealOptions    []FareOptionRequest `json:"meal_options" validate:"dive"`
	BaggageOptions []FareOptionRequest `json:"baggage_options" validate:"dive"`
}

type AircraftRequest struct {
	Model string   `json:"model" validate:"required"`
	Seats []string `json:"seats" validate:"required,min=1,dive,seat_number"`
}

type RegisterRequest struct {
	FirstName   string    `json:"first_name" validate:"required,min=1,max=50"`
	LastName    string    `json:"last_name" validate:"required,min=1,max=50"`
	Birthdate   time.Time `json:"birthdate" validate:"required,past_date"`
	Gender      string    `json:"gender" validate:"required,valid_gender"`
	Email       string    `json:"email" validate:"required,email"`
	PhoneNumber string    `json:"phone_number" validate:"required"`
	Password    string    `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UserUpdateRequest struct {
	FirstName   *string    `json:"first_name"`
	LastName    *string    `json:"last_name"`
	Birthdate   *time.Time `json:"birthdate"`
	Gender      *string    `json:"gender" validate:"omitempty,valid_gender"`
	Email       *string    `json:"email" validate:"omitempty,email"`
	PhoneNumber *string    `json:"phone_number"`
	Role        *Role      `json:"role" validate:"omitempty,valid_role"`
}

// ToPassengers converts validated request records into domain passengers.
func ToPassengers(reqs []PassengerRequest) []Passenger {
	passengers := make([]Passenger, len(reqs))
	for i, r := range reqs {
		passengers[i] = Passenger{
			FirstName:      r.FirstName,
			LastName:       r.LastName,
			PassportNumber: r.PassportNumber,
			Email:          r.Email,
			SeatNumber:     r.SeatNumber,
			Meal:           r.Meal,
			ExtraBaggage:   r.ExtraBaggage,
		}
	}
	return passengers
}
