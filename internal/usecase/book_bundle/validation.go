package book_bundle

import (
	"fmt"
	"net/mail"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/scheduling"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

const maxContactFieldLen = 255

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.BundleID <= 0 {
		return fmt.Errorf("%w: bundleID must be positive", ErrInvalidInput)
	}
	if req.CustomerID <= 0 {
		return fmt.Errorf("%w: customerID must be positive", ErrInvalidInput)
	}
	if req.VehicleID != nil && *req.VehicleID <= 0 {
		return fmt.Errorf("%w: vehicleID must be positive", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}
	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}
	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return validateContact(req.CustomerInfo)
}

// validateContact имя обязательно, нужен хотя бы один способ связи
func validateContact(c domain.CustomerContact) error {
	if c.Name == "" {
		return fmt.Errorf("%w: customer name is required", ErrInvalidInput)
	}
	if c.Phone == "" && c.Email == "" {
		return fmt.Errorf("%w: customer phone or email is required", ErrInvalidInput)
	}
	for _, v := range []string{c.Name, c.Phone, c.Email} {
		if len(v) > maxContactFieldLen {
			return fmt.Errorf("%w: contact fields must not exceed %d characters", ErrInvalidInput, maxContactFieldLen)
		}
	}
	if c.Email != "" {
		if _, err := mail.ParseAddress(c.Email); err != nil {
			return fmt.Errorf("%w: invalid email: %v", ErrInvalidInput, err)
		}
	}
	return nil
}

// validateNotPast проверяет, что дата и время начала еще не наступили
func validateNotPast(date time.Time, start types.TimeString, now time.Time) error {
	if scheduling.IsDateInPast(date, now) {
		return ErrDateInPast
	}
	if scheduling.HasStarted(date, start, now) {
		return fmt.Errorf("%w: start time %s has already passed", ErrDateInPast, start)
	}
	return nil
}
