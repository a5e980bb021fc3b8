package models

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// Request модели

// ListByCustomerRequest запрос бронирований клиента
type ListByCustomerRequest struct {
	UserID int64
	Status *string
}

// ListByBusinessRequest запрос бронирований бизнеса
type ListByBusinessRequest struct {
	UserID           int64
	BusinessID       int64
	StaffID          *int64
	From             *time.Time
	To               *time.Time
	Status           *string
	IncludeCancelled bool
}

// ToDomainFilter конвертирует запрос в фильтр репозитория
func (r *ListByBusinessRequest) ToDomainFilter() (domain.ReservationFilter, error) {
	filter := domain.ReservationFilter{
		BusinessID:       r.BusinessID,
		StaffID:          r.StaffID,
		From:             r.From,
		To:               r.To,
		IncludeCancelled: r.IncludeCancelled,
	}
	if r.From != nil && r.To != nil && r.To.Before(*r.From) {
		return filter, fmt.Errorf("'to' is before 'from'")
	}
	if r.Status != nil {
		status, err := ToDomainStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}
	return filter, nil
}

// ToDomainStatus проверяет и конвертирует статус
func ToDomainStatus(s string) (domain.ReservationStatus, error) {
	status := domain.ReservationStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("unknown status %q", s)
	}
	return status, nil
}

// Response модели

// RescheduleEntryResponse запись истории переносов
type RescheduleEntryResponse struct {
	Date          string    `json:"date"`
	StartTime     string    `json:"startTime"`
	EndTime       string    `json:"endTime"`
	RescheduledBy string    `json:"rescheduledBy"`
	Reason        *string   `json:"reason,omitempty"`
	RescheduledAt time.Time `json:"rescheduledAt"`
}

// CustomerInfoResponse контакты клиента
type CustomerInfoResponse struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// ReservationResponse бронирование
type ReservationResponse struct {
	ID                int64                     `json:"id"`
	CustomerID        int64                     `json:"customerId"`
	StaffID           *int64                    `json:"staffId,omitempty"`
	VehicleID         *int64                    `json:"vehicleId,omitempty"`
	BusinessID        *int64                    `json:"businessId,omitempty"`
	BundleID          *int64                    `json:"bundleId,omitempty"`
	Date              string                    `json:"date"`
	StartTime         string                    `json:"startTime"`
	EndTime           string                    `json:"endTime"`
	ServiceDescriptor string                    `json:"serviceDescriptor"`
	Status            string                    `json:"status"`
	Price             *string                   `json:"price,omitempty"`
	Notes             string                    `json:"notes,omitempty"`
	CustomerInfo      *CustomerInfoResponse     `json:"customerInfo,omitempty"`
	RescheduleHistory []RescheduleEntryResponse `json:"rescheduleHistory"`
	ReminderSent      bool                      `json:"reminderSent"`
	FollowUpSent      bool                      `json:"followUpSent"`
	CancelledAt       *time.Time                `json:"cancelledAt,omitempty"`
	CompletedAt       *time.Time                `json:"completedAt,omitempty"`
	CreatedAt         time.Time                 `json:"createdAt"`
	UpdatedAt         time.Time                 `json:"updatedAt"`
}

// ReservationListResponse список бронирований
type ReservationListResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
	Total        int                   `json:"total"`
}

// BundleServiceRecordResponse прогресс услуги внутри пакета
type BundleServiceRecordResponse struct {
	ServiceID   int64      `json:"serviceId"`
	ServiceName string     `json:"serviceName"`
	Status      string     `json:"status"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// Методы конвертации

// FromDomainReservation конвертирует бронирование в DTO
func FromDomainReservation(r *domain.Reservation) *ReservationResponse {
	if r == nil {
		return nil
	}

	resp := &ReservationResponse{
		ID:                r.ID,
		CustomerID:        r.CustomerID,
		StaffID:           r.StaffID,
		VehicleID:         r.VehicleID,
		BusinessID:        r.BusinessID,
		BundleID:          r.BundleID,
		Date:              r.Date.Format(domain.DateFormat),
		StartTime:         r.StartTime.String(),
		EndTime:           r.EndTime.String(),
		ServiceDescriptor: r.ServiceDescriptor,
		Status:            string(r.Status),
		Notes:             r.Notes,
		RescheduleHistory: make([]RescheduleEntryResponse, 0, len(r.RescheduleHistory)),
		ReminderSent:      r.ReminderSent,
		FollowUpSent:      r.FollowUpSent,
		CancelledAt:       r.CancelledAt,
		CompletedAt:       r.CompletedAt,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
	if r.Price != nil {
		p := r.Price.StringFixed(2)
		resp.Price = &p
	}
	if r.CustomerInfo != nil {
		resp.CustomerInfo = &CustomerInfoResponse{
			Name:  r.CustomerInfo.Name,
			Phone: r.CustomerInfo.Phone,
			Email: r.CustomerInfo.Email,
		}
	}
	for _, h := range r.RescheduleHistory {
		resp.RescheduleHistory = append(resp.RescheduleHistory, RescheduleEntryResponse{
			Date:          h.Date.Format(domain.DateFormat),
			StartTime:     h.StartTime.String(),
			EndTime:       h.EndTime.String(),
			RescheduledBy: string(h.RescheduledBy),
			Reason:        h.Reason,
			RescheduledAt: h.RescheduledAt,
		})
	}
	return resp
}

// FromDomainReservationList конвертирует список бронирований в DTO
func FromDomainReservationList(list []*domain.Reservation) *ReservationListResponse {
	resp := &ReservationListResponse{
		Reservations: make([]ReservationResponse, 0, len(list)),
		Total:        len(list),
	}
	for _, r := range list {
		resp.Reservations = append(resp.Reservations, *FromDomainReservation(r))
	}
	return resp
}

// FromDomainServiceRecords конвертирует записи услуг пакета в DTO
func FromDomainServiceRecords(records []domain.BundleServiceRecord) []BundleServiceRecordResponse {
	out := make([]BundleServiceRecordResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, BundleServiceRecordResponse{
			ServiceID:   rec.ServiceID,
			ServiceName: rec.ServiceName,
			Status:      string(rec.Status),
			CompletedAt: rec.CompletedAt,
		})
	}
	return out
}
