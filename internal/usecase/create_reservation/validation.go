package create_reservation

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/scheduling"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.CustomerID <= 0 {
		return fmt.Errorf("%w: customerID must be positive", ErrInvalidInput)
	}

	for name, id := range map[string]*int64{"staffID": req.StaffID, "vehicleID": req.VehicleID, "businessID": req.BusinessID} {
		if id != nil && *id <= 0 {
			return fmt.Errorf("%w: %s must be positive", ErrInvalidInput, name)
		}
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if err := validateInterval(req.StartTime, req.EndTime); err != nil {
		return err
	}

	if req.ServiceDescriptor == "" {
		return fmt.Errorf("%w: serviceDescriptor is required", ErrInvalidInput)
	}
	if len(req.ServiceDescriptor) > domain.MaxServiceDescriptorLen {
		return fmt.Errorf("%w: serviceDescriptor exceeds %d characters", ErrInvalidInput, domain.MaxServiceDescriptorLen)
	}

	if req.Price != nil && req.Price.IsNegative() {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// validateInterval проверяет формат времени, порядок и длительность
func validateInterval(start, end types.TimeString) error {
	if start.IsZero() || end.IsZero() {
		return fmt.Errorf("%w: startTime and endTime are required", ErrInvalidInput)
	}
	if err := start.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}
	if err := end.Validate(); err != nil {
		return fmt.Errorf("%w: invalid endTime format: %v", ErrInvalidInput, err)
	}
	if !start.IsBefore(end) {
		return fmt.Errorf("%w: startTime must be before endTime", ErrInvalidInput)
	}

	duration := start.MinutesUntil(end)
	if duration < domain.MinServiceDurationMinutes || duration > domain.MaxServiceDurationMinutes {
		return fmt.Errorf("%w: duration must be between %d and %d minutes",
			ErrInvalidInput, domain.MinServiceDurationMinutes, domain.MaxServiceDurationMinutes)
	}

	return nil
}

// validateNotPast проверяет, что дата не в прошлом, а для сегодняшней даты время начала еще не наступило
func validateNotPast(date time.Time, start types.TimeString, now time.Time) error {
	if scheduling.IsDateInPast(date, now) {
		return ErrDateInPast
	}
	if scheduling.HasStarted(date, start, now) {
		return fmt.Errorf("%w: start time %s has already passed", ErrDateInPast, start)
	}
	return nil
}
