package domain

import "time"

// EventType is the kind of reservation notification
type EventType string

const (
	EventReservationCreated     EventType = "reservation.created"
	EventReservationRescheduled EventType = "reservation.rescheduled"
	EventReservationCancelled   EventType = "reservation.cancelled"
	EventReservationCompleted   EventType = "reservation.completed"
	EventReservationReminder    EventType = "reservation.reminder"
	EventReservationFollowUp    EventType = "reservation.follow_up"
)

// ReservationEvent is published to the notification collaborator
// after a reservation change is committed
type ReservationEvent struct {
	ID          string
	Type        EventType
	RecipientID int64
	Actor       *Actor
	OccurredAt  time.Time
	Reservation Reservation
}
