package create_reservation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/service/reservations/models"
	createReservation "github.com/m04kA/SMC-SchedulingService/internal/usecase/create_reservation"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// CreateReservationRequest HTTP request model
type CreateReservationRequest struct {
	StaffID           *int64           `json:"staffId,omitempty"`
	VehicleID         *int64           `json:"vehicleId,omitempty"`
	BusinessID        *int64           `json:"businessId,omitempty"`
	Date              string           `json:"date"`      // "2025-10-15"
	StartTime         string           `json:"startTime"` // "10:00"
	EndTime           string           `json:"endTime"`   // "11:00"
	ServiceDescriptor string           `json:"serviceDescriptor"`
	Price             *decimal.Decimal `json:"price,omitempty"`
	Notes             *string          `json:"notes,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
// customerID берется из заголовка авторизации, а не из тела
func (r *CreateReservationRequest) ToUseCaseRequest(customerID int64) (*createReservation.Request, error) {
	date, err := handlers.ParseDate(r.Date)
	if err != nil {
		return nil, fmt.Errorf("date: %w", err)
	}
	start, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, fmt.Errorf("startTime: %w", err)
	}
	end, err := types.NewTimeStringFromString(r.EndTime)
	if err != nil {
		return nil, fmt.Errorf("endTime: %w", err)
	}

	return &createReservation.Request{
		CustomerID:        customerID,
		StaffID:           r.StaffID,
		VehicleID:         r.VehicleID,
		BusinessID:        r.BusinessID,
		Date:              date,
		StartTime:         start,
		EndTime:           end,
		ServiceDescriptor: r.ServiceDescriptor,
		Price:             r.Price,
		Notes:             r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP модель
func FromUseCaseResponse(resp *createReservation.Response) *models.ReservationResponse {
	return models.FromDomainReservation(resp.Reservation)
}
