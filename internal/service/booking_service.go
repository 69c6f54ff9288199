package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	models "github.com/chrisdamba/flighttrouble/internal"
	"github.com/chrisdamba/flighttrouble/internal/cache"
	"github.com/chrisdamba/flighttrouble/internal/metrics"
	"github.com/chrisdamba/flighttrouble/internal/ports"
	"github.com/google/uuid"
)

// maxSeatRetries bounds how often a lifecycle operation re-runs
// validate-and-apply after losing an optimistic write on the flight.
const maxSeatRetries = 3

type bookingService struct {
	bookings ports.BookingRepository
	flights  ports.FlightRepository
	users    ports.UserRepository
	cache    ports.Cache
}

func NewBookingService(bookings ports.BookingRepository, flights ports.FlightRepository,
	users ports.UserRepository, c ports.Cache) *bookingService {
	return &bookingService{
		bookings: bookings,
		flights:  flights,
		users:    users,
		cache:    c,
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, req *models.BookingRequest) (*models.Booking, error) {
	if len(req.Passengers) == 0 {
		return nil, models.ErrMissingPassengers
	}

	user, err := s.users.GetUser(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("resolving user: %w", err)
	}

	passengers := models.ToPassengers(req.Passengers)

	var booking *models.Booking
	err = s.withFlightRetry(ctx, req.FlightID, func(flight *models.Flight) error {
		if flight.Status == models.FlightCancelled {
			return models.ErrFlightCancelled
		}
		if err := flight.BookSeats(models.SeatNumbers(passengers)); err != nil {
			return err
		}
		total, err := flight.BookingTotal(passengers)
		if err != nil {
			return err
		}
		booking = &models.Booking{
			ID:         uuid.New(),
			UserID:     user.ID,
			FlightID:   flight.ID,
			Status:     models.BookingConfirmed,
			TotalPrice: total,
			Passengers: passengers,
		}
		return s.bookings.CreateBooking(ctx, booking, flight)
	})
	if err != nil {
		return nil, err
	}

	metrics.IncBookingCreated()
	s.invalidateFlight(ctx, booking.FlightID)
	return booking, nil
}

func (s *bookingService) AmendBooking(ctx context.Context, id uuid.UUID, passengers []models.Passenger) (*models.Booking, error) {
	if len(passengers) == 0 {
		return nil, models.ErrMissingPassengers
	}

	booking, err := s.bookings.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.Status == models.BookingCancelled {
		return nil, models.ErrBookingCancelled
	}

	oldSeats := models.SeatNumbers(booking.Passengers)

	err = s.withFlightRetry(ctx, booking.FlightID, func(flight *models.Flight) error {
		// The old seats are released and the new ones reserved in one
		// netted pass, so a seat kept across the edit is left alone.
		if err := flight.UpdateSeats(models.SeatNumbers(passengers), oldSeats); err != nil {
			return err
		}
		total, err := flight.BookingTotal(passengers)
		if err != nil {
			return err
		}
		booking.Passengers = passengers
		booking.TotalPrice = total
		return s.bookings.UpdateBooking(ctx, booking, flight)
	})
	if err != nil {
		return nil, err
	}

	s.invalidateFlight(ctx, booking.FlightID)
	return booking, nil
}

// CancelBooking releases the booking's seats and freezes its price at the
// last computed value.
func (s *bookingService) CancelBooking(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	booking, err := s.bookings.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.Status == models.BookingCancelled {
		return nil, models.ErrBookingCancelled
	}

	err = s.withFlightRetry(ctx, booking.FlightID, func(flight *models.Flight) error {
		if err := flight.ClearSeats(models.SeatNumbers(booking.Passengers)); err != nil {
			return err
		}
		booking.Status = models.BookingCancelled
		return s.bookings.UpdateBooking(ctx, booking, flight)
	})
	if err != nil {
		return nil, err
	}

	metrics.IncBookingCancelled()
	s.invalidateFlight(ctx, booking.FlightID)
	return booking, nil
}

func (s *bookingService) GetBooking(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	return s.bookings.GetBooking(ctx, id)
}

func (s *bookingService) BookingsByUser(ctx context.Context, userID uuid.UUID) ([]models.Booking, error) {
	if _, err := s.users.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.bookings.GetBookingsByUser(ctx, userID)
}

// withFlightRetry re-fetches the flight and re-runs fn until the conditional
// write succeeds or the retry budget runs out. fn must apply all seat-map
// mutations to the flight it is handed, never to an earlier copy.
func (s *bookingService) withFlightRetry(ctx context.Context, flightID uuid.UUID, fn func(*models.Flight) error) error {
	for attempt := 0; attempt < maxSeatRetries; attempt++ {
		flight, err := s.flights.GetFlight(ctx, flightID)
		if err != nil {
			return err
		}
		err = fn(flight)
		if errors.Is(err, models.ErrVersionConflict) {
			metrics.IncSeatConflict()
			continue
		}
		return err
	}
	return models.ErrVersionConflict
}

func (s *bookingService) invalidateFlight(ctx context.Context, flightID uuid.UUID) {
	if s.cache == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	_ = s.cache.Del(ctx, cache.InvalidationKeys(flightID)...)
}
