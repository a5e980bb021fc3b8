package reporting

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// Repository read-only выгрузки для внешних модулей (лояльность, аналитика)
// Работает мимо транзакций бронирования и не берет блокировок
type Repository struct {
	db *sqlx.DB
}

// NewRepository оборачивает *sql.DB в sqlx для сканирования в структуры
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: sqlx.NewDb(db, "postgres")}
}

// ListCompletedSince возвращает завершенные бронирования начиная с момента since
func (r *Repository) ListCompletedSince(ctx context.Context, since time.Time, limit int) ([]CompletedReservation, error) {
	const query = `
		SELECT id, customer_id, business_id, bundle_id, price, completed_at
		FROM reservations
		WHERE status = 'completed'
		  AND completed_at >= $1
		ORDER BY completed_at ASC, id ASC
		LIMIT $2
	`

	out := make([]CompletedReservation, 0)
	if err := r.db.SelectContext(ctx, &out, query, since, limit); err != nil {
		return nil, fmt.Errorf("%w: ListCompletedSince: %w", ErrQuery, err)
	}
	return out, nil
}

// DailyStats количество бронирований и выручка по дням и статусам за период
func (r *Repository) DailyStats(ctx context.Context, businessID int64, from, to time.Time) ([]DailyStat, error) {
	const query = `
		SELECT reservation_date,
		       status,
		       COUNT(*)                 AS reservations,
		       COALESCE(SUM(price), 0)  AS revenue
		FROM reservations
		WHERE business_id = $1
		  AND reservation_date BETWEEN $2 AND $3
		GROUP BY reservation_date, status
		ORDER BY reservation_date ASC, status ASC
	`

	out := make([]DailyStat, 0)
	if err := r.db.SelectContext(ctx, &out, query, businessID, from, to); err != nil {
		return nil, fmt.Errorf("%w: DailyStats: %w", ErrQuery, err)
	}
	return out, nil
}

// ExportReservations массовая выгрузка статуса, даты и цены бронирований бизнеса за период
func (r *Repository) ExportReservations(ctx context.Context, businessID int64, from, to time.Time) ([]ReservationRow, error) {
	const query = `
		SELECT id, customer_id, business_id, reservation_date, status, price
		FROM reservations
		WHERE business_id = $1
		  AND reservation_date BETWEEN $2 AND $3
		ORDER BY reservation_date ASC, start_time ASC
	`

	out := make([]ReservationRow, 0)
	if err := r.db.SelectContext(ctx, &out, query, businessID, from, to); err != nil {
		return nil, fmt.Errorf("%w: ExportReservations: %w", ErrQuery, err)
	}
	return out, nil
}
