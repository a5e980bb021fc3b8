package update_reservation

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/scheduling"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ReservationID <= 0 {
		return fmt.Errorf("%w: reservationID must be positive", ErrInvalidInput)
	}
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	p := req.Patch
	if p.IsEmpty() {
		return fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}
	if p.Date != nil && p.Date.IsZero() {
		return fmt.Errorf("%w: date must not be empty", ErrInvalidInput)
	}
	for name, ts := range map[string]*types.TimeString{"startTime": p.StartTime, "endTime": p.EndTime} {
		if ts == nil {
			continue
		}
		if err := ts.Validate(); err != nil || ts.IsZero() {
			return fmt.Errorf("%w: invalid %s", ErrInvalidInput, name)
		}
	}
	if p.StaffID != nil && *p.StaffID <= 0 {
		return fmt.Errorf("%w: staffID must be positive", ErrInvalidInput)
	}
	if p.VehicleID != nil && *p.VehicleID <= 0 {
		return fmt.Errorf("%w: vehicleID must be positive", ErrInvalidInput)
	}
	if p.ServiceDescriptor != nil {
		if *p.ServiceDescriptor == "" || len(*p.ServiceDescriptor) > domain.MaxServiceDescriptorLen {
			return fmt.Errorf("%w: serviceDescriptor must be 1..%d characters", ErrInvalidInput, domain.MaxServiceDescriptorLen)
		}
	}
	if p.Price != nil && p.Price.IsNegative() {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}
	if p.Notes != nil && len(*p.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	if p.Status != nil {
		if !p.Status.IsValid() {
			return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *p.Status)
		}
		if p.Status.IsTerminal() {
			return ErrTerminalStatus
		}
	}

	return nil
}

// validateSlot проверяет интервал после применения патча
func validateSlot(r domain.Reservation, now time.Time) error {
	if !r.Interval().IsValid() {
		return fmt.Errorf("%w: startTime must be before endTime", ErrInvalidInput)
	}
	duration := r.Interval().DurationMinutes()
	if duration < domain.MinServiceDurationMinutes || duration > domain.MaxServiceDurationMinutes {
		return fmt.Errorf("%w: duration must be between %d and %d minutes",
			ErrInvalidInput, domain.MinServiceDurationMinutes, domain.MaxServiceDurationMinutes)
	}
	if scheduling.IsDateInPast(r.Date, now) {
		return ErrDateInPast
	}
	if scheduling.HasStarted(r.Date, r.StartTime, now) {
		return fmt.Errorf("%w: start time %s has already passed", ErrDateInPast, r.StartTime)
	}
	return nil
}

// businessOnly истина, если патч меняет поля, которые выставляет только бизнес
func businessOnly(p domain.ReservationPatch) bool {
	return p.Status != nil || p.Price != nil || p.StaffID != nil || p.ClearStaff
}

// touchesStaff истина, если патч назначает или снимает сотрудника
func touchesStaff(p domain.ReservationPatch) bool {
	return p.StaffID != nil || p.ClearStaff
}
