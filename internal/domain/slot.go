package domain

import "github.com/m04kA/SMC-SchedulingService/pkg/types"

// Slot is a half-open time interval [Start, End) within one day
type Slot struct {
	Start types.TimeString
	End   types.TimeString
}

// DurationMinutes returns the slot length
func (s Slot) DurationMinutes() int {
	return s.Start.MinutesUntil(s.End)
}

// IsValid returns true if both ends are set and Start < End
func (s Slot) IsValid() bool {
	return !s.Start.IsZero() && !s.End.IsZero() && s.Start.IsBefore(s.End)
}

// Overlaps reports whether two half-open intervals intersect.
// Touching endpoints do not overlap.
func (s Slot) Overlaps(other Slot) bool {
	return s.Start.IsBefore(other.End) && other.Start.IsBefore(s.End)
}

// Within returns true if s lies entirely inside outer
func (s Slot) Within(outer Slot) bool {
	return !s.Start.IsBefore(outer.Start) && !s.End.IsAfter(outer.End)
}
