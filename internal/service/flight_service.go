package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	models "github.com/chrisdamba/flighttrouble/internal"
	"github.com/chrisdamba/flighttrouble/internal/cache"
	"github.com/chrisdamba/flighttrouble/internal/metrics"
	"github.com/chrisdamba/flighttrouble/internal/ports"
	"github.com/google/uuid"
)

// Option templates mirror the airline's standard catalogue; a flight that
// enables an option without a price falls back to the template price.
var mealTemplate = []models.FareOption{
	{Name: "standard", Price: 0},
	{Name: "vegetarian", Price: 0},
	{Name: "kosher", Price: 0},
}

var baggageTemplate = []models.FareOption{
	{Name: "0kg", Price: 0},
	{Name: "10kg", Price: 20},
	{Name: "15kg", Price: 25},
	{Name: "20kg", Price: 30},
}

type flightService struct {
	flights  ports.FlightRepository
	bookings ports.BookingRepository
	aircraft ports.AircraftRepository
	booker   ports.BookingService
	cache    ports.Cache
}

func NewFlightService(flights ports.FlightRepository, bookings ports.BookingRepository,
	aircraft ports.AircraftRepository, booker ports.BookingService, c ports.Cache) *flightService {
	return &flightService{
		flights:  flights,
		bookings: bookings,
		aircraft: aircraft,
		booker:   booker,
		cache:    c,
	}
}

func (s *flightService) CreateFlight(ctx context.Context, req *models.FlightRequest) (*models.Flight, error) {
	aircraft, err := s.aircraft.GetAircraft(ctx, req.AircraftID)
	if err != nil {
		return nil, fmt.Errorf("resolving aircraft: %w", err)
	}

	if err := validateRoute(req.Origin, req.Destination, req.Departure, req.Arrival); err != nil {
		return nil, err
	}

	flight := &models.Flight{
		ID:             uuid.New(),
		FlightNumber:   req.FlightNumber,
		Airline:        req.Airline,
		AircraftID:     aircraft.ID,
		Status:         models.FlightScheduled,
		Origin:         strings.TrimSpace(req.Origin),
		Destination:    strings.TrimSpace(req.Destination),
		Departure:      req.Departure,
		Arrival:        req.Arrival,
		Price:          req.Price,
		Seats:          aircraft.SeatMap(),
		MealOptions:    parseOptions(req.MealOptions, mealTemplate),
		BaggageOptions: parseOptions(req.BaggageOptions, baggageTemplate),
	}

	if err := s.flights.CreateFlight(ctx, flight); err != nil {
		return nil, fmt.Errorf("creating flight: %w", err)
	}

	s.invalidate(ctx, flight.ID)
	return flight, nil
}

func (s *flightService) UpdateFlight(ctx context.Context, id uuid.UUID, req *models.FlightUpdateRequest) (*models.Flight, error) {
	var updated *models.Flight
	var fareChanged bool

	err := s.withRetry(ctx, id, func(flight *models.Flight) error {
		if req.AircraftID != nil && *req.AircraftID != flight.AircraftID {
			current, err := s.aircraft.GetAircraft(ctx, flight.AircraftID)
			if err != nil {
				return fmt.Errorf("resolving current aircraft: %w", err)
			}
			replacement, err := s.aircraft.GetAircraft(ctx, *req.AircraftID)
			if err != nil {
				return fmt.Errorf("resolving replacement aircraft: %w", err)
			}
			if !current.SameSeats(replacement) {
				return models.ErrSeatLayoutMismatch
			}
			flight.AircraftID = replacement.ID
		}

		origin, destination := flight.Origin, flight.Destination
		if req.Origin != nil {
			origin = strings.TrimSpace(*req.Origin)
		}
		if req.Destination != nil {
			destination = strings.TrimSpace(*req.Destination)
		}
		departure, arrival := flight.Departure, flight.Arrival
		if req.Departure != nil {
			departure = *req.Departure
		}
		if req.Arrival != nil {
			arrival = *req.Arrival
		}
		if err := validateRoute(origin, destination, departure, arrival); err != nil {
			return err
		}

		newPrice := flight.Price
		if req.Price != nil {
			if *req.Price < 0 {
				return fmt.Errorf("invalid price %v", *req.Price)
			}
			newPrice = *req.Price
		}
		newMeals := flight.MealOptions
		if len(req.MealOptions) > 0 {
			newMeals = parseOptions(req.MealOptions, mealTemplate)
		}
		newBaggage := flight.BaggageOptions
		if len(req.BaggageOptions) > 0 {
			newBaggage = parseOptions(req.BaggageOptions, baggageTemplate)
		}

		// Compared before overwriting, so a fare change is actually
		// detected and dependent bookings get repriced.
		fareChanged = newPrice != flight.Price ||
			!sameOptions(newMeals, flight.MealOptions) ||
			!sameOptions(newBaggage, flight.BaggageOptions)

		if req.FlightNumber != nil {
			flight.FlightNumber = *req.FlightNumber
		}
		if req.Airline != nil {
			flight.Airline = *req.Airline
		}
		flight.Origin = origin
		flight.Destination = destination
		flight.Departure = departure
		flight.Arrival = arrival
		flight.Price = newPrice
		flight.MealOptions = newMeals
		flight.BaggageOptions = newBaggage

		updated = flight
		return s.flights.UpdateFlight(ctx, flight)
	})
	if err != nil {
		return nil, err
	}

	if fareChanged {
		s.repriceBookings(ctx, updated)
	}

	s.invalidate(ctx, id)
	return updated, nil
}

// CancelFlight transitions the flight to its terminal state and cascades
// cancellation to every non-cancelled booking. The cascade is best-effort:
// one failing booking does not block the others.
func (s *flightService) CancelFlight(ctx context.Context, id uuid.UUID) (*models.Flight, error) {
	var cancelled *models.Flight
	err := s.withRetry(ctx, id, func(flight *models.Flight) error {
		if err := flight.Cancel(); err != nil {
			return err
		}
		cancelled = flight
		return s.flights.UpdateFlight(ctx, flight)
	})
	if err != nil {
		return nil, err
	}
	metrics.IncFlightCancelled()

	bookings, err := s.bookings.GetBookingsByFlight(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("listing bookings for cancelled flight: %w", err)
	}
	for _, booking := range bookings {
		if booking.Status == models.BookingCancelled {
			continue
		}
		if _, err := s.booker.CancelBooking(ctx, booking.ID); err != nil {
			log.Printf("cancel booking %s on flight %s: %v", booking.ID, id, err)
		}
	}

	s.invalidate(ctx, id)
	return cancelled, nil
}

func (s *flightService) GetFlight(ctx context.Context, id uuid.UUID) (*models.Flight, error) {
	key := cache.FlightKey(id)
	if b, ok := s.cacheGet(ctx, key); ok {
		var flight models.Flight
		if err := json.Unmarshal(b, &flight); err == nil {
			return &flight, nil
		}
	}

	flight, err := s.flights.GetFlight(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, key, flight)
	return flight, nil
}

func (s *flightService) ListFlights(ctx context.Context, scheduledOnly bool) ([]models.Flight, error) {
	key := cache.FlightListKey()
	status := models.FlightStatus("")
	if scheduledOnly {
		key = cache.ScheduledFlightListKey()
		status = models.FlightScheduled
	}

	if b, ok := s.cacheGet(ctx, key); ok {
		var flights []models.Flight
		if err := json.Unmarshal(b, &flights); err == nil {
			return flights, nil
		}
	}

	flights, err := s.flights.ListFlights(ctx, status)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, key, flights)
	return flights, nil
}

func (s *flightService) CreateAircraft(ctx context.Context, req *models.AircraftRequest) (*models.Aircraft, error) {
	aircraft := &models.Aircraft{
		ID:    uuid.New(),
		Model: req.Model,
		Seats: req.Seats,
	}
	if err := s.aircraft.CreateAircraft(ctx, aircraft); err != nil {
		return nil, fmt.Errorf("creating aircraft: %w", err)
	}
	return aircraft, nil
}

func (s *flightService) GetAircraft(ctx context.Context, id uuid.UUID) (*models.Aircraft, error) {
	return s.aircraft.GetAircraft(ctx, id)
}

func (s *flightService) ListAircraft(ctx context.Context) ([]models.Aircraft, error) {
	return s.aircraft.ListAircraft(ctx)
}

// repriceBookings recomputes the total of every non-cancelled booking after
// a fare change. Failures are logged and skipped so one stale booking does
// not wedge the flight update.
func (s *flightService) repriceBookings(ctx context.Context, flight *models.Flight) {
	bookings, err := s.bookings.GetBookingsByFlight(ctx, flight.ID)
	if err != nil {
		log.Printf("listing bookings for reprice on flight %s: %v", flight.ID, err)
		return
	}
	for i := range bookings {
		booking := &bookings[i]
		if booking.Status == models.BookingCancelled {
			continue
		}
		total, err := flight.BookingTotal(booking.Passengers)
		if err != nil {
			log.Printf("reprice booking %s on flight %s: %v", booking.ID, flight.ID, err)
			continue
		}
		booking.TotalPrice = total
		if err := s.bookings.UpdateBookingPrice(ctx, booking); err != nil {
			log.Printf("saving repriced booking %s: %v", booking.ID, err)
		}
	}
}

func (s *flightService) withRetry(ctx context.Context, flightID uuid.UUID, fn func(*models.Flight) error) error {
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

func (s *flightService) cacheGet(ctx context.Context, key string) ([]byte, bool) {
	if s.cache == nil {
		return nil, false
	}
	b, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		log.Printf("cache get %s: %v", key, err)
		return nil, false
	}
	return b, ok
}

func (s *flightService) cacheSet(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	b, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, b); err != nil {
		log.Printf("cache set %s: %v", key, err)
	}
}

func (s *flightService) invalidate(ctx context.Context, flightID uuid.UUID) {
	if s.cache == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	if err := s.cache.Del(ctx, cache.InvalidationKeys(flightID)...); err != nil {
		log.Printf("cache invalidate flight %s: %v", flightID, err)
	}
}

func validateRoute(origin, destination string, departure, arrival time.Time) error {
	if strings.EqualFold(strings.TrimSpace(origin), strings.TrimSpace(destination)) {
		return fmt.Errorf("origin %q cannot equal destination", origin)
	}
	if !departure.Before(arrival) {
		return fmt.Errorf("departure must be before arrival")
	}
	return nil
}

// parseOptions keeps the enabled options from the request, defaulting to the
// first template entry when nothing is enabled.
func parseOptions(reqs []models.FareOptionRequest, template []models.FareOption) []models.FareOption {
	var options []models.FareOption
	for _, r := range reqs {
		if !r.Enabled {
			continue
		}
		options = append(options, models.FareOption{Name: r.Name, Price: r.Price})
	}
	if len(options) == 0 {
		return []models.FareOption{template[0]}
	}
	return options
}

func sameOptions(a, b []models.FareOption) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
