package scheduling

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

var (
	// ErrInvalidDuration длительность вне допустимых границ
	ErrInvalidDuration = errors.New("scheduling: invalid duration")

	// ErrInvalidInterval шаг генерации вне допустимых границ
	ErrInvalidInterval = errors.New("scheduling: invalid slot interval")

	// ErrInvalidWindow время открытия не раньше времени закрытия
	ErrInvalidWindow = errors.New("scheduling: invalid open window")
)

// GenerateSlots перечисляет кандидатов [start, start+duration) начиная с openTime с шагом interval
// Слот, который заканчивается позже closeTime, не выдается
func GenerateSlots(openTime, closeTime types.TimeString, durationMinutes, intervalMinutes int) ([]domain.Slot, error) {
	if durationMinutes < domain.MinServiceDurationMinutes || durationMinutes > domain.MaxServiceDurationMinutes {
		return nil, fmt.Errorf("%w: %d minutes", ErrInvalidDuration, durationMinutes)
	}
	if intervalMinutes <= 0 {
		intervalMinutes = domain.DefaultSlotIntervalMinutes
	}
	if intervalMinutes < domain.MinSlotIntervalMinutes || intervalMinutes > domain.MaxSlotIntervalMinutes {
		return nil, fmt.Errorf("%w: %d minutes", ErrInvalidInterval, intervalMinutes)
	}
	if !(domain.Slot{Start: openTime, End: closeTime}).IsValid() {
		return nil, fmt.Errorf("%w: %s-%s", ErrInvalidWindow, openTime, closeTime)
	}

	slots := make([]domain.Slot, 0, openTime.MinutesUntil(closeTime)/intervalMinutes+1)
	for start := openTime.Minutes(); start+durationMinutes <= closeTime.Minutes(); start += intervalMinutes {
		s, err := types.NewTimeStringFromMinutes(start)
		if err != nil {
			return nil, err
		}
		e, err := types.NewTimeStringFromMinutes(start + durationMinutes)
		if err != nil {
			return nil, err
		}
		slots = append(slots, domain.Slot{Start: s, End: e})
	}

	return slots, nil
}

// DropStarted убирает слоты, которые уже начались к моменту now (только для сегодняшней даты)
func DropStarted(slots []domain.Slot, date, now time.Time) []domain.Slot {
	now = now.UTC()
	if !IsSameDay(date, now) {
		return slots
	}

	current := types.NewTimeString(now)
	out := make([]domain.Slot, 0, len(slots))
	for _, s := range slots {
		if !s.Start.IsBefore(current) {
			out = append(out, s)
		}
	}
	return out
}

// FreeSlots оставляет только слоты без конфликтов в заданной области
// Используется тот же предикат, что и при проверке бронирования
func FreeSlots(slots []domain.Slot, scope domain.ConflictScope, existing []*domain.Reservation) []domain.Slot {
	out := make([]domain.Slot, 0, len(slots))
	for _, s := range slots {
		if !HasConflict(s, scope, existing) {
			out = append(out, s)
		}
	}
	return out
}
