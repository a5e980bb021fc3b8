package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// ReservationStatus represents the lifecycle state of a reservation
type ReservationStatus string

const (
	StatusScheduled  ReservationStatus = "scheduled"
	StatusConfirmed  ReservationStatus = "confirmed"
	StatusInProgress ReservationStatus = "in_progress"
	StatusCompleted  ReservationStatus = "completed"
	StatusCancelled  ReservationStatus = "cancelled"
)

// transitions lists the allowed next states for each status.
// Terminal states have no entry.
var transitions = map[ReservationStatus][]ReservationStatus{
	StatusScheduled:  {StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled},
	StatusConfirmed:  {StatusInProgress, StatusCompleted, StatusCancelled},
	StatusInProgress: {StatusCompleted},
}

// IsValid returns true if the status is one of the known statuses
func (s ReservationStatus) IsValid() bool {
	switch s {
	case StatusScheduled, StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal returns true for completed and cancelled
func (s ReservationStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransitionTo reports whether next is reachable from s in one step
func (s ReservationStatus) CanTransitionTo(next ReservationStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Actor identifies who initiated a change
type Actor string

const (
	ActorCustomer Actor = "customer"
	ActorBusiness Actor = "business"
)

// RescheduleEntry is a snapshot of the reservation time before a reschedule
type RescheduleEntry struct {
	Date          time.Time
	StartTime     types.TimeString
	EndTime       types.TimeString
	RescheduledBy Actor
	Reason        *string
	RescheduledAt time.Time
}

// CustomerContact holds contact data supplied at bundle booking time
type CustomerContact struct {
	Name  string
	Phone string
	Email string
}

// Reservation represents a booked time interval for one customer
type Reservation struct {
	ID         int64
	CustomerID int64
	StaffID    *int64
	VehicleID  *int64
	BusinessID *int64
	BundleID   *int64

	Date      time.Time
	StartTime types.TimeString
	EndTime   types.TimeString

	ServiceDescriptor string
	Status            ReservationStatus
	Price             *decimal.Decimal
	Notes             string
	CustomerInfo      *CustomerContact

	RescheduleHistory []RescheduleEntry

	ReminderSent  bool
	FollowUpSent  bool
	FollowUpDueAt *time.Time

	CancelledAt *time.Time
	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Interval returns the reservation's [start, end) slot
func (r *Reservation) Interval() Slot {
	return Slot{Start: r.StartTime, End: r.EndTime}
}

// IsActive returns true if the reservation still occupies its time
func (r *Reservation) IsActive() bool {
	return r.Status != StatusCancelled
}

// IsCancelled returns true if the reservation has been cancelled
func (r *Reservation) IsCancelled() bool {
	return r.Status == StatusCancelled
}

// CanBeRescheduled returns true if date and time may still change
func (r *Reservation) CanBeRescheduled() bool {
	return r.Status == StatusScheduled || r.Status == StatusConfirmed
}

// CanBeCancelled returns true if the reservation may move to cancelled
func (r *Reservation) CanBeCancelled() bool {
	return r.Status.CanTransitionTo(StatusCancelled)
}

// CanBeCompleted returns true if the reservation may move to completed
func (r *Reservation) CanBeCompleted() bool {
	return r.Status.CanTransitionTo(StatusCompleted)
}

// IsBundle returns true if the reservation redeems a bundle
func (r *Reservation) IsBundle() bool {
	return r.BundleID != nil
}

// ReservationPatch carries optional fields for a partial update.
// A nil field is left untouched.
type ReservationPatch struct {
	Date              *time.Time
	StartTime         *types.TimeString
	EndTime           *types.TimeString
	StaffID           *int64
	ClearStaff        bool
	VehicleID         *int64
	ServiceDescriptor *string
	Status            *ReservationStatus
	Price             *decimal.Decimal
	Notes             *string
}

// TouchesSchedule returns true if the patch changes date, time or staff
func (p ReservationPatch) TouchesSchedule() bool {
	return p.Date != nil || p.StartTime != nil || p.EndTime != nil || p.StaffID != nil || p.ClearStaff
}

// IsEmpty returns true if the patch changes nothing
func (p ReservationPatch) IsEmpty() bool {
	return !p.TouchesSchedule() && p.VehicleID == nil && p.ServiceDescriptor == nil &&
		p.Status == nil && p.Price == nil && p.Notes == nil
}

// Apply returns a copy of r with the patch applied
func (p ReservationPatch) Apply(r Reservation) Reservation {
	if p.Date != nil {
		r.Date = *p.Date
	}
	if p.StartTime != nil {
		r.StartTime = *p.StartTime
	}
	if p.EndTime != nil {
		r.EndTime = *p.EndTime
	}
	if p.ClearStaff {
		r.StaffID = nil
	} else if p.StaffID != nil {
		id := *p.StaffID
		r.StaffID = &id
	}
	if p.VehicleID != nil {
		id := *p.VehicleID
		r.VehicleID = &id
	}
	if p.ServiceDescriptor != nil {
		r.ServiceDescriptor = *p.ServiceDescriptor
	}
	if p.Status != nil {
		r.Status = *p.Status
	}
	if p.Price != nil {
		price := *p.Price
		r.Price = &price
	}
	if p.Notes != nil {
		r.Notes = *p.Notes
	}
	return r
}

// ReservationFilter фильтр списка бронирований бизнеса
type ReservationFilter struct {
	BusinessID       int64      // Обязательный параметр
	StaffID          *int64     // Фильтр по сотруднику
	From             *time.Time // Начало периода (включительно)
	To               *time.Time // Конец периода (включительно)
	Status           *ReservationStatus
	IncludeCancelled bool
}
