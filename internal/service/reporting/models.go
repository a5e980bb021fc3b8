package reporting

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	reportingRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/reporting"
)

// CompletedReservationResponse строка выгрузки для лояльности и промо
type CompletedReservationResponse struct {
	ReservationID int64     `json:"reservationId"`
	CustomerID    int64     `json:"customerId"`
	BusinessID    *int64    `json:"businessId,omitempty"`
	BundleID      *int64    `json:"bundleId,omitempty"`
	Price         *string   `json:"price,omitempty"`
	CompletedAt   time.Time `json:"completedAt"`
}

// DailyStatResponse агрегат за день по статусу
type DailyStatResponse struct {
	Date    string `json:"date"`
	Status  string `json:"status"`
	Count   int64  `json:"count"`
	Revenue string `json:"revenue"`
}

// ReservationRowResponse строка массовой выгрузки
type ReservationRowResponse struct {
	ID         int64   `json:"id"`
	CustomerID int64   `json:"customerId"`
	BusinessID *int64  `json:"businessId,omitempty"`
	Date       string  `json:"date"`
	Status     string  `json:"status"`
	Price      *string `json:"price,omitempty"`
}

func fromCompleted(rows []reportingRepo.CompletedReservation) []CompletedReservationResponse {
	out := make([]CompletedReservationResponse, 0, len(rows))
	for _, r := range rows {
		item := CompletedReservationResponse{
			ReservationID: r.ReservationID,
			CustomerID:    r.CustomerID,
			BusinessID:    r.BusinessID,
			BundleID:      r.BundleID,
			CompletedAt:   r.CompletedAt,
		}
		if r.Price.Valid {
			p := r.Price.Decimal.StringFixed(2)
			item.Price = &p
		}
		out = append(out, item)
	}
	return out
}

func fromDailyStats(rows []reportingRepo.DailyStat) []DailyStatResponse {
	out := make([]DailyStatResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, DailyStatResponse{
			Date:    r.Date.Format(domain.DateFormat),
			Status:  r.Status,
			Count:   r.Count,
			Revenue: r.Revenue.StringFixed(2),
		})
	}
	return out
}

func fromRows(rows []reportingRepo.ReservationRow) []ReservationRowResponse {
	out := make([]ReservationRowResponse, 0, len(rows))
	for _, r := range rows {
		item := ReservationRowResponse{
			ID:         r.ID,
			CustomerID: r.CustomerID,
			BusinessID: r.BusinessID,
			Date:       r.Date.Format(domain.DateFormat),
			Status:     r.Status,
		}
		if r.Price.Valid {
			p := r.Price.Decimal.StringFixed(2)
			item.Price = &p
		}
		out = append(out, item)
	}
	return out
}
