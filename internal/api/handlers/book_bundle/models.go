package book_bundle

import (
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/service/reservations/models"
	bookBundle "github.com/m04kA/SMC-SchedulingService/internal/usecase/book_bundle"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// CustomerInfoRequest контакты клиента
type CustomerInfoRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

// BookBundleRequest HTTP request model
type BookBundleRequest struct {
	Date         string              `json:"date"`
	StartTime    string              `json:"startTime"`
	CustomerInfo CustomerInfoRequest `json:"customerInfo"`
	VehicleID    *int64              `json:"vehicleId,omitempty"`
	Notes        *string             `json:"notes,omitempty"`
}

// BookBundleResponse HTTP response model
type BookBundleResponse struct {
	ReservationID  int64                                `json:"reservationId"`
	BundleID       int64                                `json:"bundleId"`
	Reservation    *models.ReservationResponse          `json:"reservation"`
	ServiceRecords []models.BundleServiceRecordResponse `json:"serviceRecords"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *BookBundleRequest) ToUseCaseRequest(bundleID, customerID int64) (*bookBundle.Request, error) {
	date, err := handlers.ParseDate(r.Date)
	if err != nil {
		return nil, fmt.Errorf("date: %w", err)
	}
	start, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, fmt.Errorf("startTime: %w", err)
	}

	return &bookBundle.Request{
		BundleID:   bundleID,
		CustomerID: customerID,
		Date:       date,
		StartTime:  start,
		CustomerInfo: domain.CustomerContact{
			Name:  r.CustomerInfo.Name,
			Phone: r.CustomerInfo.Phone,
			Email: r.CustomerInfo.Email,
		},
		VehicleID: r.VehicleID,
		Notes:     r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP модель
func FromUseCaseResponse(resp *bookBundle.Response) *BookBundleResponse {
	return &BookBundleResponse{
		ReservationID:  resp.ReservationID,
		BundleID:       resp.BundleID,
		Reservation:    models.FromDomainReservation(resp.Reservation),
		ServiceRecords: models.FromDomainServiceRecords(resp.ServiceRecords),
	}
}
