package notify

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// Message JSON-представление события для брокера
type Message struct {
	ID          string              `json:"id"`
	Type        string              `json:"type"`
	RecipientID int64               `json:"recipientId"`
	Actor       *string             `json:"actor,omitempty"`
	OccurredAt  time.Time           `json:"occurredAt"`
	Reservation ReservationSnapshot `json:"reservation"`
}

// ReservationSnapshot снимок бронирования на момент события
type ReservationSnapshot struct {
	ID                int64   `json:"id"`
	CustomerID        int64   `json:"customerId"`
	BusinessID        *int64  `json:"businessId,omitempty"`
	StaffID           *int64  `json:"staffId,omitempty"`
	VehicleID         *int64  `json:"vehicleId,omitempty"`
	BundleID          *int64  `json:"bundleId,omitempty"`
	Date              string  `json:"date"`
	StartTime         string  `json:"startTime"`
	EndTime           string  `json:"endTime"`
	ServiceDescriptor string  `json:"serviceDescriptor"`
	Status            string  `json:"status"`
	Price             *string `json:"price,omitempty"`
	CustomerName      *string `json:"customerName,omitempty"`
	CustomerPhone     *string `json:"customerPhone,omitempty"`
	CustomerEmail     *string `json:"customerEmail,omitempty"`
	RescheduleCount   int     `json:"rescheduleCount"`
}

// NewMessage строит сообщение из доменного события
func NewMessage(event domain.ReservationEvent) Message {
	r := event.Reservation

	snapshot := ReservationSnapshot{
		ID:                r.ID,
		CustomerID:        r.CustomerID,
		BusinessID:        r.BusinessID,
		StaffID:           r.StaffID,
		VehicleID:         r.VehicleID,
		BundleID:          r.BundleID,
		Date:              r.Date.Format(domain.DateFormat),
		StartTime:         r.StartTime.String(),
		EndTime:           r.EndTime.String(),
		ServiceDescriptor: r.ServiceDescriptor,
		Status:            string(r.Status),
		RescheduleCount:   len(r.RescheduleHistory),
	}
	if r.Price != nil {
		p := r.Price.StringFixed(2)
		snapshot.Price = &p
	}
	if r.CustomerInfo != nil {
		snapshot.CustomerName = &r.CustomerInfo.Name
		snapshot.CustomerPhone = &r.CustomerInfo.Phone
		snapshot.CustomerEmail = &r.CustomerInfo.Email
	}

	msg := Message{
		ID:          event.ID,
		Type:        string(event.Type),
		RecipientID: event.RecipientID,
		OccurredAt:  event.OccurredAt.UTC(),
		Reservation: snapshot,
	}
	if event.Actor != nil {
		a := string(*event.Actor)
		msg.Actor = &a
	}
	return msg
}

// Encode сериализует событие в JSON
func Encode(event domain.ReservationEvent) ([]byte, error) {
	body, err := json.Marshal(NewMessage(event))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncode, err)
	}
	return body, nil
}
