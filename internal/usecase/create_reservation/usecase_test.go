package create_reservation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/reservation"
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
)

var (
	now  = time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC) // понедельник
	date = time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)
)

type env struct {
	store    *usecasetest.Store
	repo     *usecasetest.Reservations
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
		repo:     repo,
		notifier: &usecasetest.Notifier{},
		cache:    usecasetest.NewCache(),
		metrics:  usecasetest.NewMetrics(),
	}
	e.uc = NewUseCase(
		repo,
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

func staffRequest(start, end string) *Request {
	return &Request{
		CustomerID:        customerID,
		StaffID:           ptr.Ptr(staffID),
		BusinessID:        ptr.Ptr(businessID),
		Date:              date,
		StartTime:         types.MustTimeString(start),
		EndTime:           types.MustTimeString(end),
		ServiceDescriptor: "Full detail",
	}
}

func TestExecute_CreatesScheduledReservation(t *testing.T) {
	e := newEnv(t)

	req := staffRequest("10:00", "11:00")
	req.Price = ptr.Ptr(decimal.RequireFromString("49.90"))
	req.Notes = ptr.Ptr("white car")

	resp, err := e.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	r := resp.Reservation
	assert.NotZero(t, r.ID)
	assert.Equal(t, domain.StatusScheduled, r.Status)
	assert.Equal(t, "white car", r.Notes)
	assert.True(t, r.Price.Equal(decimal.RequireFromString("49.90")))
	assert.Empty(t, r.RescheduleHistory)

	events := e.notifier.Events()
	require.Len(t, events, 1)
	assert.Equal(t, domain.EventReservationCreated, events[0].Type)
	assert.Equal(t, r.ID, events[0].ReservationID)

	assert.Equal(t, []string{usecasetest.DayKey(businessID, date)}, e.cache.Invalidated())
	assert.Equal(t, 1, e.metrics.Outcome(operation, domain.OutcomeSuccess))
}

func TestExecute_OverlapForSameStaffIsConflict(t *testing.T) {
	e := newEnv(t)

	_, err := e.uc.Execute(context.Background(), staffRequest("10:00", "11:00"))
	require.NoError(t, err)

	_, err = e.uc.Execute(context.Background(), staffRequest("10:30", "11:30"))
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.ErrorIs(t, err, ErrStaffNotAvailable)
	assert.Len(t, e.store.Reservations(), 1)
	assert.Equal(t, 1, e.metrics.Outcome(operation, domain.OutcomeConflict))
}

func TestExecute_TouchingBoundaryIsAllowed(t *testing.T) {
	e := newEnv(t)

	_, err := e.uc.Execute(context.Background(), staffRequest("10:00", "11:00"))
	require.NoError(t, err)

	_, err = e.uc.Execute(context.Background(), staffRequest("11:00", "12:00"))
	assert.NoError(t, err)
	assert.Len(t, e.store.Reservations(), 2)
}

func TestExecute_OtherStaffDoesNotConflict(t *testing.T) {
	e := newEnv(t)

	_, err := e.uc.Execute(context.Background(), staffRequest("10:00", "11:00"))
	require.NoError(t, err)

	other := staffRequest("10:00", "11:00")
	other.StaffID = ptr.Ptr(int64(8))
	_, err = e.uc.Execute(context.Background(), other)
	assert.NoError(t, err)
}

func TestExecute_CancelledReservationFreesTime(t *testing.T) {
	e := newEnv(t)
	e.store.Put(domain.Reservation{
		CustomerID: 1, StaffID: ptr.Ptr(staffID), BusinessID: ptr.Ptr(businessID), Date: date,
		StartTime: types.MustTimeString("10:00"), EndTime: types.MustTimeString("11:00"),
		Status: domain.StatusCancelled,
	})

	_, err := e.uc.Execute(context.Background(), staffRequest("10:00", "11:00"))
	assert.NoError(t, err)
}

func TestExecute_BusinessScopeWithoutStaff(t *testing.T) {
	e := newEnv(t)

	req := staffRequest("10:00", "11:00")
	req.StaffID = nil
	_, err := e.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	// Бронирование без сотрудника занимает весь бизнес, в том числе для сотрудников
	_, err = e.uc.Execute(context.Background(), staffRequest("10:30", "11:30"))
	assert.ErrorIs(t, err, ErrStaffNotAvailable)

	sameBusiness := staffRequest("10:15", "10:45")
	sameBusiness.StaffID = nil
	_, err = e.uc.Execute(context.Background(), sameBusiness)
	assert.ErrorIs(t, err, ErrBusinessNotAvailable)
}

func TestExecute_NoScopeSkipsConflictCheck(t *testing.T) {
	e := newEnv(t)

	req := staffRequest("10:00", "11:00")
	req.StaffID = nil
	req.BusinessID = nil

	_, err := e.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	_, err = e.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Len(t, e.store.Reservations(), 2)
	assert.Empty(t, e.cache.Invalidated())
}

func TestExecute_OpenHoursGuard(t *testing.T) {
	e := newEnv(t)
	e.store.SetSpecialDay(domain.SpecialDayAvailability{BusinessID: businessID, Date: date, IsOpen: false})

	_, err := e.uc.Execute(context.Background(), staffRequest("10:00", "11:00"))
	assert.ErrorIs(t, err, ErrBusinessClosed)
	assert.ErrorIs(t, err, domain.ErrUnavailable)

	next := date.AddDate(0, 0, 1)
	late := staffRequest("17:30", "18:30")
	late.Date = next
	_, err = e.uc.Execute(context.Background(), late)
	assert.ErrorIs(t, err, ErrOutsideOpenHours)
}

func TestExecute_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *Request)
	}{
		{"no customer", func(r *Request) { r.CustomerID = 0 }},
		{"end before start", func(r *Request) { r.EndTime = types.MustTimeString("09:30") }},
		{"equal times", func(r *Request) { r.EndTime = r.StartTime }},
		{"too short", func(r *Request) { r.EndTime = types.MustTimeString("10:04") }},
		{"empty descriptor", func(r *Request) { r.ServiceDescriptor = "" }},
		{"negative price", func(r *Request) { r.Price = ptr.Ptr(decimal.NewFromInt(-1)) }},
		{"bad staff id", func(r *Request) { r.StaffID = ptr.Ptr(int64(0)) }},
		{"no date", func(r *Request) { r.Date = time.Time{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t)
			req := staffRequest("10:00", "11:00")
			tt.mutate(req)

			_, err := e.uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.ErrorIs(t, err, domain.ErrValidation)
			assert.Empty(t, e.store.Reservations())
		})
	}
}

func TestExecute_PastDate(t *testing.T) {
	e := newEnv(t)

	past := staffRequest("10:00", "11:00")
	past.Date = now.AddDate(0, 0, -1)
	_, err := e.uc.Execute(context.Background(), past)
	assert.ErrorIs(t, err, ErrDateInPast)

	startedToday := staffRequest("07:00", "09:30")
	startedToday.Date = now
	startedToday.BusinessID = nil
	_, err = e.uc.Execute(context.Background(), startedToday)
	assert.ErrorIs(t, err, ErrDateInPast)
}

func TestExecute_StorageOverlapIsConflict(t *testing.T) {
	e := newEnv(t)
	e.repo.CreateErr = reservationRepo.ErrOverlap

	_, err := e.uc.Execute(context.Background(), staffRequest("10:00", "11:00"))
	assert.ErrorIs(t, err, ErrStaffNotAvailable)
}

func TestExecute_StorageFailureIsInternal(t *testing.T) {
	e := newEnv(t)
	e.repo.CreateErr = errors.New("connection reset")

	_, err := e.uc.Execute(context.Background(), staffRequest("10:00", "11:00"))
	assert.ErrorIs(t, err, ErrInternal)
	assert.Empty(t, e.notifier.Events())
	assert.Equal(t, 1, e.metrics.Outcome(operation, domain.OutcomeError))
}

func TestExecute_ConcurrentCreationNeverDoubleBooks(t *testing.T) {
	e := newEnv(t)

	starts := []string{"10:00", "10:15", "10:30", "10:45", "11:00", "11:15", "11:30", "11:45"}

	var wg sync.WaitGroup
	for _, start := range starts {
		for i := 0; i < 3; i++ {
			wg.Add(1)
			go func(start string) {
				defer wg.Done()
				s := types.MustTimeString(start)
				end, _ := s.AddMinutes(60)
				_, _ = e.uc.Execute(context.Background(), staffRequest(start, end.String()))
			}(start)
		}
	}
	wg.Wait()

	stored := e.store.Reservations()
	require.NotEmpty(t, stored)
	for i := range stored {
		for j := i + 1; j < len(stored); j++ {
			assert.False(t, stored[i].Interval().Overlaps(stored[j].Interval()),
				"reservations %d and %d overlap", stored[i].ID, stored[j].ID)
		}
	}
}
