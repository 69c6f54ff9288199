package validator

import (
	"regexp"
	"time"

	models "github.com/chrisdamba/flighttrouble/internal"
	"github.com/go-playground/validator/v10"
)

// Seat numbers look like "12A": row then cabin letter.
var seatNumberRe = regexp.MustCompile(`^[0-9]{1,3}[A-K]$`)

type CustomValidator struct {
	validator *validator.Validate
}

func NewCustomValidator() *CustomValidator {
	v := validator.New()
	v.RegisterValidation("seat_number", validateSeatNumber)
	v.RegisterValidation("past_date", validatePastDate)
	v.RegisterValidation("valid_gender", validateGender)
	v.RegisterValidation("valid_role", validateRole)

	return &CustomValidator{validator: v}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func validateSeatNumber(fl validator.FieldLevel) bool {
	return seatNumberRe.MatchString(fl.Field().String())
}

func validatePastDate(fl validator.FieldLevel) bool {
	date, ok := fl.Field().Interface().(time.Time)
	if !ok {
		return false
	}
	return date.Before(time.Now())
}

func validateGender(fl validator.FieldLevel) bool {
	supported := map[string]bool{
		"Male":   true,
		"Female": true,
		"Others": true,
	}
	return supported[fl.Field().String()]
}

func validateRole(fl validator.FieldLevel) bool {
	switch models.Role(fl.Field().String()) {
	case models.RoleCustomer, models.RoleAdmin:
		return true
	}
	return false
}
