package domain

// Slot generation defaults
const (
	DefaultSlotIntervalMinutes = 30
)

// Business validation constants
const (
	MinServiceDurationMinutes = 5
	MaxServiceDurationMinutes = 480 // 8 hours
	MinSlotIntervalMinutes    = 5
	MaxSlotIntervalMinutes    = 240
	MaxNotesLength            = 2000
	MaxReasonLength           = 500
	MaxServiceDescriptorLen   = 255
	MaxProductsPerCompletion  = 50
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Notes line written on cancellation
const (
	CancellationNotePrefix  = "Cancellation reason: "
	CancellationNoteDefault = "Cancelled"
)

// ActiveStatuses статусы, занимающие время в расписании
var ActiveStatuses = []ReservationStatus{
	StatusScheduled,
	StatusConfirmed,
	StatusInProgress,
	StatusCompleted,
}

// UpcomingStatuses статусы бронирований, которым нужно напоминание
var UpcomingStatuses = []ReservationStatus{
	StatusScheduled,
	StatusConfirmed,
}
