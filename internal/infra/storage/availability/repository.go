package availability

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/pgerrors"
	"github.com/m04kA/SMC-SchedulingService/pkg/psqlbuilder"
)

const (
	weeklyTable  = "business_availability"
	specialTable = "special_day_availability"
)

var weeklyColumns = []string{
	"id",
	"business_id",
	"day_of_week",
	"is_open",
	"open_time",
	"close_time",
	"created_at",
	"updated_at",
}

var specialColumns = []string{
	"id",
	"business_id",
	"special_date",
	"is_open",
	"open_time",
	"close_time",
	"reason",
	"created_at",
	"updated_at",
}

// Repository репозиторий недельного расписания и особых дней
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписания
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// UpsertWeekly создает или обновляет запись недельного шаблона для дня недели
func (r *Repository) UpsertWeekly(ctx context.Context, a *domain.BusinessAvailability) (*domain.BusinessAvailability, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(weeklyTable).
		Columns("business_id", "day_of_week", "is_open", "open_time", "close_time").
		Values(a.BusinessID, int(a.DayOfWeek), a.IsOpen, a.OpenTime, a.CloseTime).
		Suffix(`ON CONFLICT (business_id, day_of_week) DO UPDATE SET
			is_open = EXCLUDED.is_open,
			open_time = EXCLUDED.open_time,
			close_time = EXCLUDED.close_time,
			updated_at = NOW()
		RETURNING id, created_at, updated_at`).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: UpsertWeekly - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, mapWriteError("UpsertWeekly", err)
	}

	return a, nil
}

// ListWeekly возвращает недельный шаблон бизнеса, упорядоченный по дню недели
func (r *Repository) ListWeekly(ctx context.Context, businessID int64) ([]*domain.BusinessAvailability, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(weeklyColumns...).
		From(weeklyTable).
		Where(squirrel.Eq{"business_id": businessID}).
		OrderBy("day_of_week ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListWeekly - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListWeekly - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*domain.BusinessAvailability, 0, 7)
	for rows.Next() {
		a, err := scanWeekly(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListWeekly - scan: %w", ErrScanRow, err)
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListWeekly - rows iteration: %w", ErrScanRow, err)
	}

	return result, nil
}

// FindWeekly возвращает запись шаблона для дня недели или nil, если ее нет
func (r *Repository) FindWeekly(ctx context.Context, businessID int64, day time.Weekday) (*domain.BusinessAvailability, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(weeklyColumns...).
		From(weeklyTable).
		Where(squirrel.Eq{"business_id": businessID, "day_of_week": int(day)}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FindWeekly - build select query: %v", ErrBuildQuery, err)
	}

	a, err := scanWeekly(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: FindWeekly - scan: %w", ErrScanRow, err)
	}

	return a, nil
}

// UpsertSpecialDay создает или обновляет переопределение на дату
func (r *Repository) UpsertSpecialDay(ctx context.Context, s *domain.SpecialDayAvailability) (*domain.SpecialDayAvailability, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(specialTable).
		Columns("business_id", "special_date", "is_open", "open_time", "close_time", "reason").
		Values(s.BusinessID, s.Date, s.IsOpen, s.OpenTime, s.CloseTime, s.Reason).
		Suffix(`ON CONFLICT (business_id, special_date) DO UPDATE SET
			is_open = EXCLUDED.is_open,
			open_time = EXCLUDED.open_time,
			close_time = EXCLUDED.close_time,
			reason = EXCLUDED.reason,
			updated_at = NOW()
		RETURNING id, created_at, updated_at`).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: UpsertSpecialDay - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, mapWriteError("UpsertSpecialDay", err)
	}

	return s, nil
}

// FindSpecialDay возвращает переопределение на дату или nil, если его нет
func (r *Repository) FindSpecialDay(ctx context.Context, businessID int64, date time.Time) (*domain.SpecialDayAvailability, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(specialColumns...).
		From(specialTable).
		Where(squirrel.Eq{"business_id": businessID, "special_date": date}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FindSpecialDay - build select query: %v", ErrBuildQuery, err)
	}

	s, err := scanSpecial(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: FindSpecialDay - scan: %w", ErrScanRow, err)
	}

	return s, nil
}

// ListSpecialDays возвращает переопределения за период (границы опциональны)
func (r *Repository) ListSpecialDays(ctx context.Context, businessID int64, from, to *time.Time) ([]*domain.SpecialDayAvailability, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(specialColumns...).
		From(specialTable).
		Where(squirrel.Eq{"business_id": businessID}).
		OrderBy("special_date ASC")

	if from != nil {
		builder = builder.Where(squirrel.GtOrEq{"special_date": *from})
	}
	if to != nil {
		builder = builder.Where(squirrel.LtOrEq{"special_date": *to})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListSpecialDays - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListSpecialDays - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*domain.SpecialDayAvailability, 0)
	for rows.Next() {
		s, err := scanSpecial(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListSpecialDays - scan: %w", ErrScanRow, err)
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListSpecialDays - rows iteration: %w", ErrScanRow, err)
	}

	return result, nil
}

// DeleteSpecialDay удаляет переопределение на дату
func (r *Repository) DeleteSpecialDay(ctx context.Context, businessID int64, date time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(specialTable).
		Where(squirrel.Eq{"business_id": businessID, "special_date": date}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: DeleteSpecialDay - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DeleteSpecialDay - execute delete: %w", ErrExecQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DeleteSpecialDay - rows affected: %w", ErrExecQuery, err)
	}
	if affected == 0 {
		return ErrSpecialDayNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanWeekly(row rowScanner) (*domain.BusinessAvailability, error) {
	var a domain.BusinessAvailability
	var day int
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&a.ID,
		&a.BusinessID,
		&day,
		&a.IsOpen,
		&a.OpenTime,
		&a.CloseTime,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	a.DayOfWeek = time.Weekday(day)
	a.CreatedAt = createdAt.Time
	a.UpdatedAt = updatedAt.Time
	return &a, nil
}

func scanSpecial(row rowScanner) (*domain.SpecialDayAvailability, error) {
	var s domain.SpecialDayAvailability
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&s.ID,
		&s.BusinessID,
		&s.Date,
		&s.IsOpen,
		&s.OpenTime,
		&s.CloseTime,
		&s.Reason,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time
	return &s, nil
}

func mapWriteError(op string, err error) error {
	if pgerrors.IsCheckViolation(err) {
		return fmt.Errorf("%w: %s - constraint %s", ErrInvalidHours, op, pgerrors.Constraint(err))
	}
	return fmt.Errorf("%w: %s - execute: %w", ErrExecQuery, op, err)
}
