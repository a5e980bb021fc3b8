package bundle

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/psqlbuilder"
)

// Repository репозиторий пакетов услуг и их погашений
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория пакетов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает пакет вместе с его услугами
// Внутри транзакции строка пакета блокируется (FOR UPDATE), чтобы счетчик погашений менялся последовательно
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Bundle, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(
		"id",
		"business_id",
		"name",
		"description",
		"total_duration_minutes",
		"total_price",
		"is_active",
		"valid_from",
		"valid_until",
		"max_redemptions",
		"current_redemptions",
		"created_at",
		"updated_at",
	).
		From("bundles").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var b domain.Bundle
	var maxRedemptions sql.NullInt64
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&b.ID,
		&b.BusinessID,
		&b.Name,
		&b.Description,
		&b.TotalDurationMinutes,
		&b.TotalPrice,
		&b.IsActive,
		&b.ValidFrom,
		&b.ValidUntil,
		&maxRedemptions,
		&b.CurrentRedemptions,
		&createdAt,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBundleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan bundle: %w", ErrScanRow, err)
	}

	if maxRedemptions.Valid {
		m := int(maxRedemptions.Int64)
		b.MaxRedemptions = &m
	}
	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time

	b.Items, err = r.listItems(ctx, executor, b.ID)
	if err != nil {
		return nil, err
	}

	return &b, nil
}

func (r *Repository) listItems(ctx context.Context, executor DBExecutor, bundleID int64) ([]domain.BundleItem, error) {
	query, args, err := psqlbuilder.Select(
		"id",
		"bundle_id",
		"service_id",
		"service_name",
		"duration_minutes",
		"position",
	).
		From("bundle_items").
		Where(squirrel.Eq{"bundle_id": bundleID}).
		OrderBy("position ASC, id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: listItems - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: listItems - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	items := make([]domain.BundleItem, 0)
	for rows.Next() {
		var item domain.BundleItem
		if err := rows.Scan(
			&item.ID,
			&item.BundleID,
			&item.ServiceID,
			&item.ServiceName,
			&item.DurationMinutes,
			&item.Position,
		); err != nil {
			return nil, fmt.Errorf("%w: listItems - scan item: %w", ErrScanRow, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: listItems - rows iteration: %w", ErrScanRow, err)
	}

	return items, nil
}

// IncrementRedemptions увеличивает счетчик погашений, только если лимит не исчерпан
// Возвращает ErrSoldOut, если условное обновление не затронуло строку
func (r *Repository) IncrementRedemptions(ctx context.Context, bundleID int64) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bundles").
		Set("current_redemptions", squirrel.Expr("current_redemptions + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": bundleID}).
		Where(squirrel.Or{
			squirrel.Eq{"max_redemptions": nil},
			squirrel.Expr("current_redemptions < max_redemptions"),
		}).
		Suffix("RETURNING current_redemptions").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: IncrementRedemptions - build update query: %v", ErrBuildQuery, err)
	}

	var current int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrSoldOut
	}
	if err != nil {
		return 0, fmt.Errorf("%w: IncrementRedemptions - execute update: %w", ErrExecQuery, err)
	}

	return current, nil
}

// DecrementRedemptions уменьшает счетчик погашений, не опуская его ниже нуля
func (r *Repository) DecrementRedemptions(ctx context.Context, bundleID int64) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bundles").
		Set("current_redemptions", squirrel.Expr("GREATEST(current_redemptions - 1, 0)")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": bundleID}).
		Suffix("RETURNING current_redemptions").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: DecrementRedemptions - build update query: %v", ErrBuildQuery, err)
	}

	var current int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrBundleNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("%w: DecrementRedemptions - execute update: %w", ErrExecQuery, err)
	}

	return current, nil
}

// CreateServiceRecords создает записи по каждой услуге пакета со статусом pending
func (r *Repository) CreateServiceRecords(ctx context.Context, reservationID int64, b *domain.Bundle) ([]domain.BundleServiceRecord, error) {
	if len(b.Items) == 0 {
		return []domain.BundleServiceRecord{}, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Insert("bundle_service_records").
		Columns("reservation_id", "bundle_id", "service_id", "service_name", "status")
	for _, item := range b.Items {
		builder = builder.Values(reservationID, b.ID, item.ServiceID, item.ServiceName, domain.BundleServicePending)
	}

	query, args, err := builder.
		Suffix("RETURNING id, reservation_id, bundle_id, service_id, service_name, status, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateServiceRecords - build insert query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: CreateServiceRecords - execute insert: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	records := make([]domain.BundleServiceRecord, 0, len(b.Items))
	for rows.Next() {
		var rec domain.BundleServiceRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.ReservationID,
			&rec.BundleID,
			&rec.ServiceID,
			&rec.ServiceName,
			&rec.Status,
			&rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: CreateServiceRecords - scan record: %w", ErrScanRow, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: CreateServiceRecords - rows iteration: %w", ErrScanRow, err)
	}

	return records, nil
}

// CancelServiceRecords помечает все записи услуг бронирования как cancelled
func (r *Repository) CancelServiceRecords(ctx context.Context, reservationID int64) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bundle_service_records").
		Set("status", domain.BundleServiceCancelled).
		Where(squirrel.Eq{"reservation_id": reservationID}).
		Where(squirrel.NotEq{"status": domain.BundleServiceCancelled}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CancelServiceRecords - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: CancelServiceRecords - execute update: %w", ErrExecQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: CancelServiceRecords - rows affected: %w", ErrExecQuery, err)
	}

	return affected, nil
}

// CompleteServiceRecords помечает незавершенные записи услуг бронирования как completed
func (r *Repository) CompleteServiceRecords(ctx context.Context, reservationID int64) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bundle_service_records").
		Set("status", domain.BundleServiceCompleted).
		Set("completed_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"reservation_id": reservationID}).
		Where(squirrel.Eq{"status": []domain.BundleServiceStatus{domain.BundleServicePending, domain.BundleServiceInProgress}}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CompleteServiceRecords - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: CompleteServiceRecords - execute update: %w", ErrExecQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: CompleteServiceRecords - rows affected: %w", ErrExecQuery, err)
	}

	return affected, nil
}

// ListServiceRecords возвращает записи услуг бронирования
func (r *Repository) ListServiceRecords(ctx context.Context, reservationID int64) ([]domain.BundleServiceRecord, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"reservation_id",
		"bundle_id",
		"service_id",
		"service_name",
		"status",
		"completed_at",
		"created_at",
	).
		From("bundle_service_records").
		Where(squirrel.Eq{"reservation_id": reservationID}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListServiceRecords - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListServiceRecords - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	records := make([]domain.BundleServiceRecord, 0)
	for rows.Next() {
		var rec domain.BundleServiceRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.ReservationID,
			&rec.BundleID,
			&rec.ServiceID,
			&rec.ServiceName,
			&rec.Status,
			&rec.CompletedAt,
			&rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: ListServiceRecords - scan record: %w", ErrScanRow, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListServiceRecords - rows iteration: %w", ErrScanRow, err)
	}

	return records, nil
}
