package scheduling

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// AvailabilityReader источник недельного расписания и особых дней
// Оба метода возвращают nil, nil если записи нет
type AvailabilityReader interface {
	FindSpecialDay(ctx context.Context, businessID int64, date time.Time) (*domain.SpecialDayAvailability, error)
	FindWeekly(ctx context.Context, businessID int64, day time.Weekday) (*domain.BusinessAvailability, error)
}

// Resolver определяет эффективные часы работы бизнеса на дату
type Resolver struct {
	reader AvailabilityReader
}

// NewResolver создает Resolver
func NewResolver(reader AvailabilityReader) *Resolver {
	return &Resolver{reader: reader}
}

// Resolve возвращает часы работы бизнеса на дату
// Закрытый день - нормальный результат, ошибка только при сбое хранилища
func (r *Resolver) Resolve(ctx context.Context, businessID int64, date time.Time) (domain.OpenHours, error) {
	special, err := r.reader.FindSpecialDay(ctx, businessID, DateOnly(date))
	if err != nil {
		return domain.OpenHours{}, fmt.Errorf("resolve special day: %w", err)
	}

	// Особый день без собственных часов берет часы из недельного шаблона,
	// поэтому шаблон читаем в обоих случаях
	weekly, err := r.reader.FindWeekly(ctx, businessID, date.Weekday())
	if err != nil {
		return domain.OpenHours{}, fmt.Errorf("resolve weekly pattern: %w", err)
	}

	return ResolveHours(special, weekly), nil
}

// ResolveHours применяет приоритет: особый день > недельный шаблон > закрыто
func ResolveHours(special *domain.SpecialDayAvailability, weekly *domain.BusinessAvailability) domain.OpenHours {
	if special != nil {
		if !special.IsOpen {
			return domain.Closed(domain.HoursFromSpecialDay, special.Reason)
		}
		if special.HasCustomHours() {
			return domain.OpenHours{
				IsOpen:    true,
				OpenTime:  special.OpenTime,
				CloseTime: special.CloseTime,
				Source:    domain.HoursFromSpecialDay,
				Reason:    special.Reason,
			}
		}
		if weekly != nil && weekly.HasHours() {
			return domain.OpenHours{
				IsOpen:    true,
				OpenTime:  weekly.OpenTime,
				CloseTime: weekly.CloseTime,
				Source:    domain.HoursFromSpecialDay,
				Reason:    special.Reason,
			}
		}
		// Открыт, но часов взять неоткуда
		return domain.Closed(domain.HoursFromSpecialDay, special.Reason)
	}

	if weekly == nil {
		return domain.Closed(domain.HoursClosedDefault, nil)
	}
	if !weekly.IsOpen || !weekly.HasHours() {
		return domain.Closed(domain.HoursFromWeekly, nil)
	}

	return domain.OpenHours{
		IsOpen:    true,
		OpenTime:  weekly.OpenTime,
		CloseTime: weekly.CloseTime,
		Source:    domain.HoursFromWeekly,
	}
}

// DateOnly отбрасывает время, оставляя дату в UTC
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// IsSameDay проверяет, что две даты относятся к одному и тому же дню
func IsSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// HasStarted проверяет, что время start сегодняшней даты уже наступило
func HasStarted(date time.Time, start types.TimeString, now time.Time) bool {
	now = now.UTC()
	return IsSameDay(date, now) && start.IsBefore(types.NewTimeString(now))
}

// IsDateInPast проверяет, что дата раньше сегодняшнего дня
func IsDateInPast(date, now time.Time) bool {
	return DateOnly(date).Before(DateOnly(now.UTC()))
}
