package scheduling

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// ConflictQuery запрос на поиск пересечений: либо Execute, либо Skip
type ConflictQuery interface {
	isConflictQuery()
}

// Execute выполнить поиск пересечений в области Scope на дату Date
type Execute struct {
	Scope     domain.ConflictScope
	Date      time.Time
	ExcludeID *int64 // собственный ID при обновлении
}

// Skip поиск не нужен: у бронирования нет ни сотрудника, ни бизнеса
type Skip struct{}

func (Execute) isConflictQuery() {}
func (Skip) isConflictQuery()    {}

// QueryFor строит запрос пересечений для бронирования
func QueryFor(staffID, businessID *int64, date time.Time, excludeID *int64) ConflictQuery {
	scope, ok := domain.ScopeOf(staffID, businessID)
	if !ok {
		return Skip{}
	}
	return Execute{Scope: scope, Date: DateOnly(date), ExcludeID: excludeID}
}

// HasConflict истина, если candidate пересекается хотя бы с одним активным бронированием из области scope
func HasConflict(candidate domain.Slot, scope domain.ConflictScope, existing []*domain.Reservation) bool {
	return FindConflict(candidate, scope, existing) != nil
}

// FindConflict возвращает первое пересекающееся бронирование или nil
func FindConflict(candidate domain.Slot, scope domain.ConflictScope, existing []*domain.Reservation) *domain.Reservation {
	for _, r := range existing {
		if !r.IsActive() || !scope.Covers(r) {
			continue
		}
		if candidate.Overlaps(r.Interval()) {
			return r
		}
	}
	return nil
}

// ScopeReader читает активные бронирования области на дату
// Внутри транзакции реализация блокирует прочитанные строки
type ScopeReader interface {
	ListActiveInScope(ctx context.Context, scope domain.ConflictScope, date time.Time, excludeID *int64) ([]*domain.Reservation, error)
}

// Conflict найденное пересечение
type Conflict struct {
	Scope domain.ScopeKind
	With  *domain.Reservation
}

// Detector проверяет кандидата на пересечения с сохраненными бронированиями
type Detector struct {
	reader ScopeReader
}

// NewDetector создает Detector
func NewDetector(reader ScopeReader) *Detector {
	return &Detector{reader: reader}
}

// Check возвращает найденный конфликт или nil
func (d *Detector) Check(ctx context.Context, query ConflictQuery, candidate domain.Slot) (*Conflict, error) {
	switch q := query.(type) {
	case Skip:
		return nil, nil
	case Execute:
		existing, err := d.reader.ListActiveInScope(ctx, q.Scope, q.Date, q.ExcludeID)
		if err != nil {
			return nil, fmt.Errorf("list reservations in scope: %w", err)
		}
		if r := FindConflict(candidate, q.Scope, existing); r != nil {
			return &Conflict{Scope: q.Scope.Kind, With: r}, nil
		}
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown conflict query %T", query)
	}
}
