package domain

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// BusinessAvailability is the weekly open-hours pattern for one day of week
type BusinessAvailability struct {
	ID         int64
	BusinessID int64
	DayOfWeek  time.Weekday
	IsOpen     bool
	OpenTime   types.TimeString
	CloseTime  types.TimeString
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// HasHours returns true if both open and close times are set and ordered
func (a *BusinessAvailability) HasHours() bool {
	return Slot{Start: a.OpenTime, End: a.CloseTime}.IsValid()
}

// SpecialDayAvailability overrides the weekly pattern for a single date.
// Zero OpenTime/CloseTime mean "no custom hours".
type SpecialDayAvailability struct {
	ID         int64
	BusinessID int64
	Date       time.Time
	IsOpen     bool
	OpenTime   types.TimeString
	CloseTime  types.TimeString
	Reason     *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// HasCustomHours returns true if the override carries its own hours
func (s *SpecialDayAvailability) HasCustomHours() bool {
	return Slot{Start: s.OpenTime, End: s.CloseTime}.IsValid()
}

// HoursSource tells which rule produced the effective hours
type HoursSource string

const (
	HoursFromSpecialDay HoursSource = "special_day"
	HoursFromWeekly     HoursSource = "weekly"
	HoursClosedDefault  HoursSource = "default"
)

// OpenHours is the effective result of resolving a business's hours for a date.
// A closed day is a normal result, not an error.
type OpenHours struct {
	IsOpen    bool
	OpenTime  types.TimeString
	CloseTime types.TimeString
	Source    HoursSource
	Reason    *string
}

// Closed builds a closed result
func Closed(source HoursSource, reason *string) OpenHours {
	return OpenHours{IsOpen: false, Source: source, Reason: reason}
}

// Window returns the open interval
func (h OpenHours) Window() Slot {
	return Slot{Start: h.OpenTime, End: h.CloseTime}
}

// Contains returns true if the business is open and slot fits in open hours
func (h OpenHours) Contains(slot Slot) bool {
	return h.IsOpen && slot.Within(h.Window())
}
