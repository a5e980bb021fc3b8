package update_reservation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	updateReservation "github.com/m04kA/SMC-SchedulingService/internal/usecase/update_reservation"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// UpdateReservationRequest HTTP request model
// Передаются только изменяемые поля
type UpdateReservationRequest struct {
	Date              *string          `json:"date,omitempty"`
	StartTime         *string          `json:"startTime,omitempty"`
	EndTime           *string          `json:"endTime,omitempty"`
	StaffID           *int64           `json:"staffId,omitempty"`
	ClearStaff        bool             `json:"clearStaff,omitempty"` // Снять назначенного мастера
	VehicleID         *int64           `json:"vehicleId,omitempty"`
	ServiceDescriptor *string          `json:"serviceDescriptor,omitempty"`
	Status            *string          `json:"status,omitempty"`
	Price             *decimal.Decimal `json:"price,omitempty"`
	Notes             *string          `json:"notes,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *UpdateReservationRequest) ToUseCaseRequest(reservationID, userID int64) (*updateReservation.Request, error) {
	patch := domain.ReservationPatch{
		StaffID:           r.StaffID,
		ClearStaff:        r.ClearStaff,
		VehicleID:         r.VehicleID,
		ServiceDescriptor: r.ServiceDescriptor,
		Price:             r.Price,
		Notes:             r.Notes,
	}

	if r.Date != nil {
		date, err := handlers.ParseDate(*r.Date)
		if err != nil {
			return nil, fmt.Errorf("date: %w", err)
		}
		patch.Date = &date
	}
	if r.StartTime != nil {
		start, err := types.NewTimeStringFromString(*r.StartTime)
		if err != nil {
			return nil, fmt.Errorf("startTime: %w", err)
		}
		patch.StartTime = &start
	}
	if r.EndTime != nil {
		end, err := types.NewTimeStringFromString(*r.EndTime)
		if err != nil {
			return nil, fmt.Errorf("endTime: %w", err)
		}
		patch.EndTime = &end
	}
	if r.Status != nil {
		status := domain.ReservationStatus(*r.Status)
		if !status.IsValid() {
			return nil, fmt.Errorf("unknown status %q", *r.Status)
		}
		patch.Status = &status
	}

	return &updateReservation.Request{
		ReservationID: reservationID,
		UserID:        userID,
		Patch:         patch,
	}, nil
}
