package domain

import (
	"errors"
	"fmt"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to ReservationStatus
		allowed  bool
	}{
		{StatusScheduled, StatusConfirmed, true},
		{StatusScheduled, StatusCancelled, true},
		{StatusConfirmed, StatusInProgress, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusInProgress, StatusCompleted, true},
		{StatusInProgress, StatusCancelled, false},
		{StatusConfirmed, StatusScheduled, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusScheduled, false},
		{StatusCancelled, StatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}

	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.False(t, StatusInProgress.IsTerminal())
}

// Полная матрица переходов: все, чего нет в allowed, запрещено
func TestStatusTransitionMatrix(t *testing.T) {
	all := []ReservationStatus{StatusScheduled, StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled}
	allowed := map[ReservationStatus][]ReservationStatus{
		StatusScheduled:  {StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled},
		StatusConfirmed:  {StatusInProgress, StatusCompleted, StatusCancelled},
		StatusInProgress: {StatusCompleted},
	}

	for _, from := range all {
		for _, to := range all {
			assert.Equal(t, slices.Contains(allowed[from], to), from.CanTransitionTo(to),
				"%s -> %s", from, to)
		}
	}
}

func TestSlotOverlaps(t *testing.T) {
	slot := func(s, e string) Slot {
		return Slot{Start: types.MustTimeString(s), End: types.MustTimeString(e)}
	}

	assert.True(t, slot("10:00", "11:00").Overlaps(slot("10:30", "11:30")))
	assert.True(t, slot("10:00", "11:00").Overlaps(slot("10:15", "10:45")))
	assert.False(t, slot("10:00", "11:00").Overlaps(slot("11:00", "12:00")))
	assert.False(t, slot("11:00", "12:00").Overlaps(slot("10:00", "11:00")))
	assert.True(t, slot("09:00", "10:00").Within(slot("09:00", "17:00")))
	assert.False(t, slot("16:30", "17:30").Within(slot("09:00", "17:00")))
}

func TestReservationPatch(t *testing.T) {
	base := Reservation{
		ID:        1,
		StaffID:   ptr.Ptr(int64(5)),
		Date:      time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC),
		StartTime: types.MustTimeString("10:00"),
		EndTime:   types.MustTimeString("11:00"),
		Notes:     "first",
	}

	notesOnly := ReservationPatch{Notes: ptr.Ptr("second")}
	assert.False(t, notesOnly.TouchesSchedule())
	assert.Equal(t, "second", notesOnly.Apply(base).Notes)

	moveStaff := ReservationPatch{ClearStaff: true}
	assert.True(t, moveStaff.TouchesSchedule())
	assert.Nil(t, moveStaff.Apply(base).StaffID)
	assert.NotNil(t, base.StaffID)

	assert.True(t, ReservationPatch{}.IsEmpty())
}

func TestConflictScope(t *testing.T) {
	staffScope, ok := ScopeOf(ptr.Ptr(int64(7)), ptr.Ptr(int64(1)))
	assert.True(t, ok)
	assert.Equal(t, ScopeStaff, staffScope.Kind)

	businessScope, ok := ScopeOf(nil, ptr.Ptr(int64(1)))
	assert.True(t, ok)
	assert.Equal(t, ScopeBusiness, businessScope.Kind)

	_, ok = ScopeOf(nil, nil)
	assert.False(t, ok)

	sameStaff := &Reservation{StaffID: ptr.Ptr(int64(7))}
	otherStaff := &Reservation{StaffID: ptr.Ptr(int64(8)), BusinessID: ptr.Ptr(int64(1))}
	wholeBusiness := &Reservation{BusinessID: ptr.Ptr(int64(1))}

	assert.True(t, staffScope.Covers(sameStaff))
	assert.False(t, staffScope.Covers(otherStaff))
	assert.True(t, staffScope.Covers(wholeBusiness))

	assert.True(t, businessScope.Covers(otherStaff))
	assert.True(t, businessScope.Covers(wholeBusiness))
	assert.False(t, businessScope.Covers(sameStaff))
}

func TestBundleCapacityAndValidity(t *testing.T) {
	now := time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)
	b := Bundle{
		MaxRedemptions:     ptr.Ptr(2),
		CurrentRedemptions: 1,
		ValidFrom:          ptr.Ptr(now.Add(-time.Hour)),
		ValidUntil:         ptr.Ptr(now.Add(time.Hour)),
		Items: []BundleItem{
			{DurationMinutes: 60},
			{DurationMinutes: 45},
		},
	}

	assert.True(t, b.HasCapacity())
	assert.True(t, b.IsWithinValidity(now))
	assert.False(t, b.IsWithinValidity(now.Add(2*time.Hour)))
	assert.Equal(t, 105, b.DurationMinutes())

	b.CurrentRedemptions = 2
	assert.False(t, b.HasCapacity())

	b.MaxRedemptions = nil
	assert.True(t, b.HasCapacity())
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, OutcomeSuccess, Outcome(nil))
	assert.Equal(t, OutcomeConflict, Outcome(fmt.Errorf("create: %w", ErrConflict)))
	assert.Equal(t, OutcomeNotFound, Outcome(fmt.Errorf("bundle %w", ErrNotFound)))
	assert.Equal(t, OutcomeRejected, Outcome(fmt.Errorf("x: %w", ErrUnavailable)))
	assert.Equal(t, OutcomeRejected, Outcome(ErrUnauthorized))
	assert.Equal(t, OutcomeError, Outcome(errors.New("boom")))
}
