package models

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrFlightNotFound   = errors.New("flight not found")
	ErrBookingNotFound  = errors.New("booking not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrAircraftNotFound = errors.New("aircraft not found")

	ErrMissingPassengers = errors.New("passengers required")
	ErrBookingCancelled  = errors.New("booking already cancelled")
	ErrFlightCancelled   = errors.New("flight already cancelled")

	// ErrVersionConflict is returned when a conditional flight write loses
	// the race against a concurrent writer.
	ErrVersionConflict = errors.New("flight was modified concurrently")

	ErrSeatLayoutMismatch = errors.New("aircraft seat layouts differ")
	ErrEmailTaken         = errors.New("email already in use")
	ErrBadCredentials     = errors.New("invalid email or password")
)

// InvalidSeatsError reports seat numbers that do not exist on the flight.
type InvalidSeatsError struct {
	Seats []string
}

func (e *InvalidSeatsError) Error() string {
	return fmt.Sprintf("seats %s not found on flight", strings.Join(e.Seats, ", "))
}

// BookedSeatsError reports seats requested for inclusion that are already
// booked by another passenger.
type BookedSeatsError struct {
	Seats []string
}

func (e *BookedSeatsError) Error() string {
	return fmt.Sprintf("seats %s are already booked", strings.Join(e.Seats, ", "))
}

// OptionNotFoundError reports a meal or baggage selection that matches none
// of the flight's configured options.
type OptionNotFoundError struct {
	Kind string
	Name string
}

func (e *OptionNotFoundError) Error() string {
	return fmt.Sprintf("%s option %q not offered on flight", e.Kind, e.Name)
}
