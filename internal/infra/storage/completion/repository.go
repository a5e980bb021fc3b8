package completion

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/pgerrors"
	"github.com/m04kA/SMC-SchedulingService/pkg/psqlbuilder"
)

// Repository репозиторий побочных записей завершения: история обслуживания и списания со склада
// Вызывается только внутри транзакции завершения бронирования
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// CreateHistory записывает историю обслуживания автомобиля
func (r *Repository) CreateHistory(ctx context.Context, rec *domain.ServiceHistoryRecord) (*domain.ServiceHistoryRecord, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("service_history").
		Columns(
			"reservation_id",
			"customer_id",
			"vehicle_id",
			"business_id",
			"staff_id",
			"service_descriptor",
			"service_date",
			"price",
			"notes",
		).
		Values(
			rec.ReservationID,
			rec.CustomerID,
			rec.VehicleID,
			rec.BusinessID,
			rec.StaffID,
			rec.ServiceDescriptor,
			rec.ServiceDate,
			rec.Price,
			rec.Notes,
		).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateHistory - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&rec.ID, &rec.CreatedAt)
	if pgerrors.IsUniqueViolation(err) {
		return nil, ErrHistoryExists
	}
	if err != nil {
		return nil, fmt.Errorf("%w: CreateHistory - execute insert: %w", ErrExecQuery, err)
	}

	return rec, nil
}

// ConsumeProduct списывает товар со склада и записывает расход
// Списание условное (quantity >= списываемого), поэтому остаток не уходит в минус
func (r *Repository) ConsumeProduct(ctx context.Context, usage domain.ProductUsage, reservationID int64, historyID *int64) (*domain.InventoryUsage, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("inventory_products").
		Set("quantity", squirrel.Expr("quantity - ?", usage.Quantity)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": usage.ProductID}).
		Where(squirrel.GtOrEq{"quantity": usage.Quantity}).
		Suffix("RETURNING quantity").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ConsumeProduct - build update query: %v", ErrBuildQuery, err)
	}

	var remaining int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&remaining)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, r.explainMissedDecrement(ctx, executor, usage.ProductID)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: ConsumeProduct - execute update: %w", ErrExecQuery, err)
	}

	rec := &domain.InventoryUsage{
		ProductID:        usage.ProductID,
		ReservationID:    reservationID,
		HistoryRecordID:  historyID,
		Quantity:         usage.Quantity,
		RemainingInStock: remaining,
	}

	query, args, err = psqlbuilder.Insert("inventory_usage").
		Columns("product_id", "reservation_id", "history_record_id", "quantity", "remaining_in_stock").
		Values(rec.ProductID, rec.ReservationID, rec.HistoryRecordID, rec.Quantity, rec.RemainingInStock).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ConsumeProduct - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&rec.ID, &rec.CreatedAt); err != nil {
		return nil, fmt.Errorf("%w: ConsumeProduct - execute insert: %w", ErrExecQuery, err)
	}

	return rec, nil
}

// explainMissedDecrement различает отсутствие товара и нехватку остатка
func (r *Repository) explainMissedDecrement(ctx context.Context, executor DBExecutor, productID int64) error {
	query, args, err := psqlbuilder.Select("quantity").
		From("inventory_products").
		Where(squirrel.Eq{"id": productID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: ConsumeProduct - build select query: %v", ErrBuildQuery, err)
	}

	var quantity int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&quantity)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: id=%d", ErrProductNotFound, productID)
	}
	if err != nil {
		return fmt.Errorf("%w: ConsumeProduct - select quantity: %w", ErrExecQuery, err)
	}

	return fmt.Errorf("%w: product id=%d has %d left", ErrInsufficientStock, productID, quantity)
}
