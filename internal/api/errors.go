package api

import (
	"errors"

	models "github.com/chrisdamba/flighttrouble/internal"
	"github.com/chrisdamba/flighttrouble/internal/utils"
)

func apiErrorFrom(err error) utils.ApiError {
	var invalidSeats *models.InvalidSeatsError
	var bookedSeats *models.BookedSeatsError
	var optionNotFound *models.OptionNotFoundError

	switch {
	case errors.Is(err, models.ErrFlightNotFound),
		errors.Is(err, models.ErrBookingNotFound),
		errors.Is(err, models.ErrUserNotFound),
		errors.Is(err, models.ErrAircraftNotFound):
		return utils.NewNotFound(err.Error())

	case errors.Is(err, models.ErrMissingPassengers),
		errors.As(err, &invalidSeats),
		errors.As(err, &optionNotFound):
		return utils.NewBadRequest(err.Error())

	case errors.As(err, &bookedSeats),
		errors.Is(err, models.ErrBookingCancelled),
		errors.Is(err, models.ErrFlightCancelled),
		errors.Is(err, models.ErrVersionConflict),
		errors.Is(err, models.ErrSeatLayoutMismatch),
		errors.Is(err, models.ErrEmailTaken):
		return utils.NewConflict(err.Error())

	case errors.Is(err, models.ErrBadCredentials):
		return utils.NewUnauthorized(err.Error())

	default:
		return utils.NewInternalServerError(err.Error())
	}
}
