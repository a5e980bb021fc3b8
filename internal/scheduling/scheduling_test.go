package scheduling

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

func ts(s string) types.TimeString { return types.MustTimeString(s) }

func slot(s, e string) domain.Slot { return domain.Slot{Start: ts(s), End: ts(e)} }

func reservation(id int64, staff *int64, business *int64, s, e string, status domain.ReservationStatus) *domain.Reservation {
	return &domain.Reservation{
		ID:         id,
		StaffID:    staff,
		BusinessID: business,
		StartTime:  ts(s),
		EndTime:    ts(e),
		Status:     status,
	}
}

func TestGenerateSlots_OpenNineToFive(t *testing.T) {
	slots, err := GenerateSlots(ts("09:00"), ts("17:00"), 60, 30)
	require.NoError(t, err)

	require.Len(t, slots, 15)
	assert.Equal(t, "09:00", slots[0].Start.String())
	assert.Equal(t, "10:00", slots[0].End.String())
	assert.Equal(t, "16:00", slots[len(slots)-1].Start.String())
	for _, s := range slots {
		assert.False(t, s.End.IsAfter(ts("17:00")), "slot %s-%s ends after close", s.Start, s.End)
		assert.Equal(t, 60, s.DurationMinutes())
	}
}

func TestGenerateSlots_Bounds(t *testing.T) {
	_, err := GenerateSlots(ts("09:00"), ts("17:00"), 2, 30)
	assert.ErrorIs(t, err, ErrInvalidDuration)

	_, err = GenerateSlots(ts("09:00"), ts("17:00"), 60, 1)
	assert.ErrorIs(t, err, ErrInvalidInterval)

	_, err = GenerateSlots(ts("17:00"), ts("09:00"), 60, 30)
	assert.ErrorIs(t, err, ErrInvalidWindow)

	slots, err := GenerateSlots(ts("09:00"), ts("09:45"), 60, 30)
	require.NoError(t, err)
	assert.Empty(t, slots)

	slots, err = GenerateSlots(ts("09:00"), ts("10:00"), 60, 0)
	require.NoError(t, err)
	assert.Len(t, slots, 1)
}

func TestGenerateSlots_Restartable(t *testing.T) {
	first, err := GenerateSlots(ts("08:00"), ts("12:00"), 45, 15)
	require.NoError(t, err)
	second, err := GenerateSlots(ts("08:00"), ts("12:00"), 45, 15)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestHasConflict_StaffScope(t *testing.T) {
	staff := ptr.Ptr(int64(10))
	scope, _ := domain.ScopeOf(staff, nil)
	existing := []*domain.Reservation{reservation(1, staff, nil, "10:00", "11:00", domain.StatusScheduled)}

	// overlapping half hour
	assert.True(t, HasConflict(slot("10:30", "11:30"), scope, existing))
	// touching boundary
	assert.False(t, HasConflict(slot("11:00", "12:00"), scope, existing))
	assert.False(t, HasConflict(slot("09:00", "10:00"), scope, existing))

	existing[0].Status = domain.StatusCancelled
	assert.False(t, HasConflict(slot("10:30", "11:30"), scope, existing))
}

func TestHasConflict_BusinessScope(t *testing.T) {
	business := ptr.Ptr(int64(3))
	scope, _ := domain.ScopeOf(nil, business)
	existing := []*domain.Reservation{
		reservation(1, ptr.Ptr(int64(10)), business, "10:00", "11:00", domain.StatusConfirmed),
		reservation(2, nil, ptr.Ptr(int64(4)), "12:00", "13:00", domain.StatusConfirmed),
	}

	assert.True(t, HasConflict(slot("10:30", "11:00"), scope, existing))
	assert.False(t, HasConflict(slot("12:00", "13:00"), scope, existing))
}

func TestFreeSlots_AreSound(t *testing.T) {
	business := ptr.Ptr(int64(3))
	scope, _ := domain.ScopeOf(nil, business)
	existing := []*domain.Reservation{
		reservation(1, nil, business, "10:00", "11:00", domain.StatusScheduled),
		reservation(2, nil, business, "13:15", "14:00", domain.StatusInProgress),
	}

	window := slot("09:00", "17:00")
	candidates, err := GenerateSlots(window.Start, window.End, 60, 30)
	require.NoError(t, err)

	free := FreeSlots(candidates, scope, existing)
	require.NotEmpty(t, free)
	assert.Less(t, len(free), len(candidates))
	for _, s := range free {
		assert.False(t, HasConflict(s, scope, existing))
		assert.True(t, s.Within(window))
	}
}

func TestDropStarted(t *testing.T) {
	slots, err := GenerateSlots(ts("09:00"), ts("12:00"), 60, 60)
	require.NoError(t, err)

	date := time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC)

	left := DropStarted(slots, date, now)
	require.Len(t, left, 2)
	assert.Equal(t, "10:00", left[0].Start.String())

	assert.Len(t, DropStarted(slots, date.AddDate(0, 0, 1), now), 3)
}

func TestDropStarted_NowInOtherZone(t *testing.T) {
	slots, err := GenerateSlots(ts("09:00"), ts("12:00"), 60, 60)
	require.NoError(t, err)

	// 4 мая 23:30 в UTC-3 это уже 5 мая 02:30 по UTC
	zone := time.FixedZone("UTC-3", -3*60*60)
	now := time.Date(2026, 5, 4, 23, 30, 0, 0, zone)

	assert.Len(t, DropStarted(slots, time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC), now), 3)
	assert.Len(t, DropStarted(slots, time.Date(2026, 5, 5, 0, 0, 0, 0, time.UTC), now), 3)

	// 5 мая 07:30 в UTC-3 это 10:30 по UTC: слоты 09:00 и 10:00 уже начались
	now = time.Date(2026, 5, 5, 7, 30, 0, 0, zone)
	left := DropStarted(slots, time.Date(2026, 5, 5, 0, 0, 0, 0, time.UTC), now)
	require.Len(t, left, 1)
	assert.Equal(t, "11:00", left[0].Start.String())
}

func TestIsDateInPast_NowInOtherZone(t *testing.T) {
	zone := time.FixedZone("UTC+5", 5*60*60)
	// 5 мая 01:00 в UTC+5 это еще 4 мая по UTC
	now := time.Date(2026, 5, 5, 1, 0, 0, 0, zone)

	assert.False(t, IsDateInPast(time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC), now))
	assert.True(t, IsDateInPast(time.Date(2026, 5, 3, 0, 0, 0, 0, time.UTC), now))
}

func TestHasStarted(t *testing.T) {
	date := time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC)

	assert.True(t, HasStarted(date, ts("09:00"), time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC)))
	assert.False(t, HasStarted(date, ts("10:00"), time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC)))
	assert.False(t, HasStarted(date.AddDate(0, 0, 1), ts("09:00"), time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC)))

	// 4 мая 12:30 в UTC+5 это 07:30 по UTC
	zone := time.FixedZone("UTC+5", 5*60*60)
	assert.False(t, HasStarted(date, ts("09:00"), time.Date(2026, 5, 4, 12, 30, 0, 0, zone)))
	assert.True(t, HasStarted(date, ts("07:00"), time.Date(2026, 5, 4, 12, 30, 0, 0, zone)))
}

func TestResolveHours(t *testing.T) {
	weekly := &domain.BusinessAvailability{IsOpen: true, OpenTime: ts("09:00"), CloseTime: ts("17:00")}
	closedWeekly := &domain.BusinessAvailability{IsOpen: false}

	tests := []struct {
		name    string
		special *domain.SpecialDayAvailability
		weekly  *domain.BusinessAvailability
		open    bool
		window  string
		source  domain.HoursSource
	}{
		{"no records", nil, nil, false, "", domain.HoursClosedDefault},
		{"weekly open", nil, weekly, true, "09:00-17:00", domain.HoursFromWeekly},
		{"weekly closed", nil, closedWeekly, false, "", domain.HoursFromWeekly},
		{
			"special closed overrides weekly",
			&domain.SpecialDayAvailability{IsOpen: false, Reason: ptr.Ptr("holiday")},
			weekly, false, "", domain.HoursFromSpecialDay,
		},
		{
			"special custom hours",
			&domain.SpecialDayAvailability{IsOpen: true, OpenTime: ts("12:00"), CloseTime: ts("15:00")},
			closedWeekly, true, "12:00-15:00", domain.HoursFromSpecialDay,
		},
		{
			"special open inherits weekly hours",
			&domain.SpecialDayAvailability{IsOpen: true},
			weekly, true, "09:00-17:00", domain.HoursFromSpecialDay,
		},
		{
			"special open without any hours",
			&domain.SpecialDayAvailability{IsOpen: true},
			nil, false, "", domain.HoursFromSpecialDay,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hours := ResolveHours(tt.special, tt.weekly)
			assert.Equal(t, tt.open, hours.IsOpen)
			assert.Equal(t, tt.source, hours.Source)
			if tt.open {
				assert.Equal(t, tt.window, hours.OpenTime.String()+"-"+hours.CloseTime.String())
			}
		})
	}
}

type stubAvailability struct {
	special map[string]*domain.SpecialDayAvailability
	weekly  map[time.Weekday]*domain.BusinessAvailability
	err     error
}

func (s *stubAvailability) FindSpecialDay(ctx context.Context, businessID int64, date time.Time) (*domain.SpecialDayAvailability, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.special[date.Format(domain.DateFormat)], nil
}

func (s *stubAvailability) FindWeekly(ctx context.Context, businessID int64, day time.Weekday) (*domain.BusinessAvailability, error) {
	return s.weekly[day], nil
}

func TestResolver_Resolve(t *testing.T) {
	monday := time.Date(2026, 5, 4, 15, 0, 0, 0, time.UTC)
	reader := &stubAvailability{
		special: map[string]*domain.SpecialDayAvailability{
			"2026-05-11": {IsOpen: false},
		},
		weekly: map[time.Weekday]*domain.BusinessAvailability{
			time.Monday: {IsOpen: true, OpenTime: ts("09:00"), CloseTime: ts("17:00")},
		},
	}
	resolver := NewResolver(reader)

	hours, err := resolver.Resolve(context.Background(), 1, monday)
	require.NoError(t, err)
	assert.True(t, hours.IsOpen)

	hours, err = resolver.Resolve(context.Background(), 1, monday.AddDate(0, 0, 7))
	require.NoError(t, err)
	assert.False(t, hours.IsOpen)

	hours, err = resolver.Resolve(context.Background(), 1, monday.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.False(t, hours.IsOpen)
	assert.Equal(t, domain.HoursClosedDefault, hours.Source)

	reader.err = errors.New("db down")
	_, err = resolver.Resolve(context.Background(), 1, monday)
	assert.Error(t, err)
}

type stubScopeReader struct {
	reservations []*domain.Reservation
	calls        int
}

func (s *stubScopeReader) ListActiveInScope(ctx context.Context, scope domain.ConflictScope, date time.Time, excludeID *int64) ([]*domain.Reservation, error) {
	s.calls++
	out := make([]*domain.Reservation, 0)
	for _, r := range s.reservations {
		if excludeID != nil && r.ID == *excludeID {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func TestDetector_Check(t *testing.T) {
	staff := ptr.Ptr(int64(10))
	reader := &stubScopeReader{reservations: []*domain.Reservation{
		reservation(1, staff, nil, "10:00", "11:00", domain.StatusScheduled),
	}}
	detector := NewDetector(reader)
	date := time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC)

	conflict, err := detector.Check(context.Background(), QueryFor(staff, nil, date, nil), slot("10:30", "11:30"))
	require.NoError(t, err)
	require.NotNil(t, conflict)
	assert.Equal(t, domain.ScopeStaff, conflict.Scope)
	assert.Equal(t, int64(1), conflict.With.ID)

	conflict, err = detector.Check(context.Background(), QueryFor(staff, nil, date, nil), slot("11:00", "12:00"))
	require.NoError(t, err)
	assert.Nil(t, conflict)

	// собственное бронирование не конфликтует само с собой
	conflict, err = detector.Check(context.Background(), QueryFor(staff, nil, date, ptr.Ptr(int64(1))), slot("10:30", "11:30"))
	require.NoError(t, err)
	assert.Nil(t, conflict)

	calls := reader.calls
	query := QueryFor(nil, nil, date, nil)
	assert.IsType(t, Skip{}, query)
	conflict, err = detector.Check(context.Background(), query, slot("10:30", "11:30"))
	require.NoError(t, err)
	assert.Nil(t, conflict)
	assert.Equal(t, calls, reader.calls)
}
