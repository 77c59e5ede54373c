package validator

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"seatwise/pkg/logger"
	"seatwise/pkg/model"
	"seatwise/pkg/wallclock"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

// SettingValidator checks stored settings documents and administrator patches.
// It registers the two domain formats as custom tags: "wallclock" for HH:mm
// times of day and "datekey" for YYYY-MM-DD blackout dates.
type SettingValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewSettingValidator(log *logger.Logger) (*SettingValidator, error) {
	v := validator.New()

	if err := v.RegisterValidation("wallclock", func(fl validator.FieldLevel) bool {
		return wallclock.IsValid(fl.Field().String())
	}); err != nil {
		return nil, fmt.Errorf("failed to register wallclock validation: %w", err)
	}

	if err := v.RegisterValidation("datekey", func(fl validator.FieldLevel) bool {
		_, err := time.Parse("2006-01-02", fl.Field().String())
		return err == nil
	}); err != nil {
		return nil, fmt.Errorf("failed to register datekey validation: %w", err)
	}

	return &SettingValidator{
		validate: v,
		logger:   log,
	}, nil
}

func (v *SettingValidator) Validate(setting *model.ReservationSetting) error {
	if err := v.validate.Struct(setting); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return translateValidationErrors(validationErrs)
		}
		return err
	}

	return v.checkWindows(setting)
}

func (v *SettingValidator) ValidateUpdate(update *model.ReservationSettingUpdate) error {
	if err := v.validate.Struct(update); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

// checkWindows rejects windows whose start lies after their end. Bookings are
// admitted by time of day, so an inverted window would make every start time
// unbookable.
func (v *SettingValidator) checkWindows(setting *model.ReservationSetting) error {
	windows := []struct {
		name     string
		from, to string
	}{
		{"BookableFrom", setting.BookableFrom, setting.BookableTo},
		{"KitchenFrom", setting.KitchenFrom, setting.KitchenTo},
		{"BarFrom", setting.BarFrom, setting.BarTo},
	}

	var errs ValidationErrors
	for _, w := range windows {
		if w.from == "" || w.to == "" {
			continue
		}
		lo, err := wallclock.Minutes(w.from)
		if err != nil {
			continue
		}
		hi, err := wallclock.Minutes(w.to)
		if err != nil {
			continue
		}
		if lo > hi {
			errs = append(errs, ValidationError{
				Field:   w.name,
				Message: fmt.Sprintf("window start %s must not be after its end %s", w.from, w.to),
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "email":
			message = fmt.Sprintf("%s must contain valid email addresses", err.Field())
		case "wallclock":
			message = fmt.Sprintf("%s must be a time of day in HH:mm format", err.Field())
		case "datekey":
			message = fmt.Sprintf("%s must contain dates in YYYY-MM-DD format", err.Field())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
