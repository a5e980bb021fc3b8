package reporting

import (
	"time"

	"github.com/shopspring/decimal"
)

// CompletedReservation строка выгрузки для модулей лояльности и промо
type CompletedReservation struct {
	ReservationID int64               `db:"id"`
	CustomerID    int64               `db:"customer_id"`
	BusinessID    *int64              `db:"business_id"`
	BundleID      *int64              `db:"bundle_id"`
	Price         decimal.NullDecimal `db:"price"`
	CompletedAt   time.Time           `db:"completed_at"`
}

// DailyStat агрегат по дате и статусу для аналитики
type DailyStat struct {
	Date    time.Time       `db:"reservation_date"`
	Status  string          `db:"status"`
	Count   int64           `db:"reservations"`
	Revenue decimal.Decimal `db:"revenue"`
}

// ReservationRow строка массовой выгрузки бронирований
type ReservationRow struct {
	ID         int64               `db:"id"`
	CustomerID int64               `db:"customer_id"`
	BusinessID *int64              `db:"business_id"`
	Date       time.Time           `db:"reservation_date"`
	Status     string              `db:"status"`
	Price      decimal.NullDecimal `db:"price"`
}
