package complete_reservation

import (
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/service/reservations/models"
	completeReservation "github.com/m04kA/SMC-SchedulingService/internal/usecase/complete_reservation"
)

// ProductUsedRequest израсходованный товар
type ProductUsedRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// CompleteReservationRequest HTTP request model
type CompleteReservationRequest struct {
	Notes        *string              `json:"notes,omitempty"`
	ProductsUsed []ProductUsedRequest `json:"productsUsed,omitempty"`
}

// InventoryUsageResponse списание со склада
type InventoryUsageResponse struct {
	ProductID        int64 `json:"productId"`
	Quantity         int   `json:"quantity"`
	RemainingInStock int   `json:"remainingInStock"`
}

// CompleteReservationResponse HTTP response model
type CompleteReservationResponse struct {
	ReservationID   int64                       `json:"reservationId"`
	HistoryRecordID *int64                      `json:"historyRecordId,omitempty"`
	Reservation     *models.ReservationResponse `json:"reservation"`
	Usage           []InventoryUsageResponse    `json:"usage"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CompleteReservationRequest) ToUseCaseRequest(reservationID, userID int64) *completeReservation.Request {
	products := make([]domain.ProductUsage, 0, len(r.ProductsUsed))
	for _, p := range r.ProductsUsed {
		products = append(products, domain.ProductUsage{ProductID: p.ProductID, Quantity: p.Quantity})
	}

	return &completeReservation.Request{
		ReservationID: reservationID,
		UserID:        userID,
		Notes:         r.Notes,
		ProductsUsed:  products,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP модель
func FromUseCaseResponse(resp *completeReservation.Response) *CompleteReservationResponse {
	out := &CompleteReservationResponse{
		ReservationID:   resp.ReservationID,
		HistoryRecordID: resp.HistoryRecordID,
		Reservation:     models.FromDomainReservation(resp.Reservation),
		Usage:           make([]InventoryUsageResponse, 0, len(resp.Usage)),
	}
	for _, u := range resp.Usage {
		out.Usage = append(out.Usage, InventoryUsageResponse{
			ProductID:        u.ProductID,
			Quantity:         u.Quantity,
			RemainingInStock: u.RemainingInStock,
		})
	}
	return out
}
