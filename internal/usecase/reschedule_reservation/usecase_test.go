package reschedule_reservation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/scheduling"
	"github.com/m04kA/SMC-SchedulingService/internal/usecase/usecasetest"
	"github.com/m04kA/SMC-SchedulingService/pkg/clock"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

const (
	businessID = int64(10)
	staffID    = int64(7)
	customerID = int64(100)
	ownerID    = int64(500)
	strangerID = int64(999)
)

var (
	now  = time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)
	date = time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)
)

type env struct {
	store    *usecasetest.Store
	notifier *usecasetest.Notifier
	cache    *usecasetest.Cache
	metrics  *usecasetest.Metrics
	uc       *UseCase
}

func newEnv(t *testing.T) *env {
	t.Helper()

	store := usecasetest.NewStore(now)
	store.OpenEveryDay(businessID, "09:00", "18:00")
	repo := store.ReservationRepo()

	e := &env{
		store:    store,
		notifier: &usecasetest.Notifier{},
		cache:    usecasetest.NewCache(),
		metrics:  usecasetest.NewMetrics(),
	}
	e.uc = NewUseCase(
		repo,
		&usecasetest.Access{Members: map[int64][]int64{businessID: {ownerID}}},
		scheduling.NewDetector(repo),
		scheduling.NewResolver(store.AvailabilityRepo()),
		store.TxManager(),
		e.notifier,
		e.cache,
		e.metrics,
		clock.Fixed{At: now},
		logger.NewNop(),
	)
	return e
}

func (e *env) put(start, end string, status domain.ReservationStatus) int64 {
	return e.store.Put(domain.Reservation{
		CustomerID: customerID,
		StaffID:    ptr.Ptr(staffID),
		BusinessID: ptr.Ptr(businessID),
		Date:       date,
		StartTime:  types.MustTimeString(start),
		EndTime:    types.MustTimeString(end),
		Status:     status,
		Notes:      "original",
	})
}

func moveRequest(id, userID int64, day time.Time, start, end string) *Request {
	return &Request{
		ReservationID: id,
		UserID:        userID,
		Date:          day,
		StartTime:     types.MustTimeString(start),
		EndTime:       types.MustTimeString(end),
	}
}

func TestExecute_AppendsHistorySnapshot(t *testing.T) {
	e := newEnv(t)
	id := e.put("10:00", "11:00", domain.StatusScheduled)

	req := moveRequest(id, customerID, date.AddDate(0, 0, 1), "14:00", "15:00")
	req.Reason = ptr.Ptr("traffic")

	resp, err := e.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	r := resp.Reservation
	assert.Equal(t, date.AddDate(0, 0, 1), r.Date)
	assert.Equal(t, "14:00", r.StartTime.String())
	assert.Equal(t, "15:00", r.EndTime.String())
	assert.Equal(t, domain.StatusScheduled, r.Status)
	assert.Equal(t, "original", r.Notes)

	require.Len(t, r.RescheduleHistory, 1)
	entry := r.RescheduleHistory[0]
	assert.Equal(t, date, entry.Date)
	assert.Equal(t, "10:00", entry.StartTime.String())
	assert.Equal(t, "11:00", entry.EndTime.String())
	assert.Equal(t, domain.ActorCustomer, entry.RescheduledBy)
	assert.Equal(t, "traffic", *entry.Reason)
	assert.Equal(t, now, entry.RescheduledAt)

	events := e.notifier.Events()
	require.Len(t, events, 1)
	assert.Equal(t, domain.EventReservationRescheduled, events[0].Type)
	assert.Equal(t, domain.ActorCustomer, *events[0].Actor)

	assert.ElementsMatch(t, []string{
		usecasetest.DayKey(businessID, date),
		usecasetest.DayKey(businessID, date.AddDate(0, 0, 1)),
	}, e.cache.Invalidated())
}

func TestExecute_HistoryGrowsByOnePerReschedule(t *testing.T) {
	e := newEnv(t)
	id := e.put("09:00", "10:00", domain.StatusConfirmed)

	moves := []struct{ start, end string }{
		{"10:00", "11:00"},
		{"12:30", "13:00"},
		{"15:00", "16:45"},
		{"09:00", "09:30"},
	}

	prevStart, prevEnd := "09:00", "10:00"
	for i, m := range moves {
		resp, err := e.uc.Execute(context.Background(), moveRequest(id, ownerID, date, m.start, m.end))
		require.NoError(t, err)

		history := resp.Reservation.RescheduleHistory
		require.Len(t, history, i+1)
		last := history[i]
		assert.Equal(t, prevStart, last.StartTime.String())
		assert.Equal(t, prevEnd, last.EndTime.String())
		assert.Equal(t, domain.ActorBusiness, last.RescheduledBy)

		prevStart, prevEnd = m.start, m.end
	}

	stored, ok := e.store.Reservation(id)
	require.True(t, ok)
	assert.Len(t, stored.RescheduleHistory, len(moves))
}

func TestExecute_ExcludesItselfFromConflictCheck(t *testing.T) {
	e := newEnv(t)
	id := e.put("10:00", "11:00", domain.StatusScheduled)

	_, err := e.uc.Execute(context.Background(), moveRequest(id, customerID, date, "10:30", "11:30"))
	assert.NoError(t, err)
}

func TestExecute_ConflictWithAnotherReservation(t *testing.T) {
	e := newEnv(t)
	id := e.put("10:00", "11:00", domain.StatusScheduled)
	e.put("13:00", "14:00", domain.StatusConfirmed)

	_, err := e.uc.Execute(context.Background(), moveRequest(id, customerID, date, "13:30", "14:30"))
	assert.ErrorIs(t, err, ErrStaffNotAvailable)
	assert.ErrorIs(t, err, domain.ErrConflict)

	stored, _ := e.store.Reservation(id)
	assert.Equal(t, "10:00", stored.StartTime.String())
	assert.Empty(t, stored.RescheduleHistory)
	assert.Empty(t, e.notifier.Events())
}

func TestExecute_Unauthorized(t *testing.T) {
	e := newEnv(t)
	id := e.put("10:00", "11:00", domain.StatusScheduled)

	_, err := e.uc.Execute(context.Background(), moveRequest(id, strangerID, date, "12:00", "13:00"))
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestExecute_NotFound(t *testing.T) {
	e := newEnv(t)

	_, err := e.uc.Execute(context.Background(), moveRequest(404, customerID, date, "12:00", "13:00"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestExecute_TerminalStatusCannotMove(t *testing.T) {
	for _, status := range []domain.ReservationStatus{domain.StatusInProgress, domain.StatusCompleted, domain.StatusCancelled} {
		t.Run(string(status), func(t *testing.T) {
			e := newEnv(t)
			id := e.put("10:00", "11:00", status)

			_, err := e.uc.Execute(context.Background(), moveRequest(id, customerID, date, "12:00", "13:00"))
			assert.ErrorIs(t, err, ErrCannotReschedule)
		})
	}
}

func TestExecute_ClosedDay(t *testing.T) {
	e := newEnv(t)
	id := e.put("10:00", "11:00", domain.StatusScheduled)
	closed := date.AddDate(0, 0, 2)
	e.store.SetSpecialDay(domain.SpecialDayAvailability{BusinessID: businessID, Date: closed, IsOpen: false})

	_, err := e.uc.Execute(context.Background(), moveRequest(id, customerID, closed, "12:00", "13:00"))
	assert.ErrorIs(t, err, ErrBusinessClosed)
	assert.ErrorIs(t, err, domain.ErrUnavailable)
}

func TestExecute_Validation(t *testing.T) {
	e := newEnv(t)
	id := e.put("10:00", "11:00", domain.StatusScheduled)

	_, err := e.uc.Execute(context.Background(), moveRequest(id, customerID, date, "12:00", "11:00"))
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = e.uc.Execute(context.Background(), moveRequest(id, customerID, now.AddDate(0, 0, -3), "12:00", "13:00"))
	assert.ErrorIs(t, err, ErrDateInPast)

	long := moveRequest(id, customerID, date, "12:00", "13:00")
	long.Reason = ptr.Ptr(string(make([]byte, domain.MaxReasonLength+1)))
	_, err = e.uc.Execute(context.Background(), long)
	assert.ErrorIs(t, err, domain.ErrValidation)
}
