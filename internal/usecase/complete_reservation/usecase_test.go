package complete_reservation

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/usecase/usecasetest"
	"github.com/m04kA/SMC-SchedulingService/pkg/clock"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

const (
	businessID = int64(10)
	customerID = int64(100)
	ownerID    = int64(500)
	vehicleID  = int64(33)
	waxID      = int64(71)
	shampooID  = int64(72)
)

var (
	now  = time.Date(2025, 6, 3, 12, 0, 0, 0, time.UTC)
	date = time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)
)

type env struct {
	store    *usecasetest.Store
	notifier *usecasetest.Notifier
	uc       *UseCase
}

func newEnv(t *testing.T) *env {
	t.Helper()

	store := usecasetest.NewStore(now)
	store.SetStock(waxID, 10)
	store.SetStock(shampooID, 2)

	e := &env{store: store, notifier: &usecasetest.Notifier{}}
	e.uc = NewUseCase(
		store.ReservationRepo(),
		store.CompletionRepo(),
		store.BundleRepo(),
		&usecasetest.Access{Members: map[int64][]int64{businessID: {ownerID}}},
		store.TxManager(),
		e.notifier,
		usecasetest.NewMetrics(),
		24*time.Hour,
		clock.Fixed{At: now},
		logger.NewNop(),
	)
	return e
}

func (e *env) put(status domain.ReservationStatus, vehicle *int64) int64 {
	return e.store.Put(domain.Reservation{
		CustomerID:        customerID,
		BusinessID:        ptr.Ptr(businessID),
		VehicleID:         vehicle,
		Date:              date,
		StartTime:         types.MustTimeString("10:00"),
		EndTime:           types.MustTimeString("11:00"),
		ServiceDescriptor: "Interior detail",
		Price:             ptr.Ptr(decimal.RequireFromString("120.00")),
		Status:            status,
	})
}

func TestExecute_WithVehicleWritesHistoryAndUsage(t *testing.T) {
	e := newEnv(t)
	id := e.put(domain.StatusInProgress, ptr.Ptr(vehicleID))

	resp, err := e.uc.Execute(context.Background(), &Request{
		ReservationID: id,
		UserID:        ownerID,
		Notes:         ptr.Ptr("scratches on rear bumper"),
		ProductsUsed: []domain.ProductUsage{
			{ProductID: waxID, Quantity: 3},
			{ProductID: shampooID, Quantity: 1},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, id, resp.ReservationID)
	require.NotNil(t, resp.HistoryRecordID)
	assert.Equal(t, domain.StatusCompleted, resp.Reservation.Status)
	require.NotNil(t, resp.Reservation.FollowUpDueAt)
	assert.Equal(t, now.Add(24*time.Hour), *resp.Reservation.FollowUpDueAt)
	assert.Equal(t, now, *resp.Reservation.CompletedAt)

	history, ok := e.store.History(id)
	require.True(t, ok)
	assert.Equal(t, *resp.HistoryRecordID, history.ID)
	assert.Equal(t, vehicleID, history.VehicleID)
	assert.Equal(t, "Interior detail", history.ServiceDescriptor)
	assert.Equal(t, "scratches on rear bumper", history.Notes)

	assert.Equal(t, 7, e.store.Stock(waxID))
	assert.Equal(t, 1, e.store.Stock(shampooID))
	usage := e.store.Usage()
	require.Len(t, usage, 2)
	for _, u := range usage {
		assert.Equal(t, resp.HistoryRecordID, u.HistoryRecordID)
		assert.Equal(t, id, u.ReservationID)
	}

	events := e.notifier.Events()
	require.Len(t, events, 1)
	assert.Equal(t, domain.EventReservationCompleted, events[0].Type)
}

func TestExecute_WithoutVehicleHasNoHistory(t *testing.T) {
	e := newEnv(t)
	id := e.put(domain.StatusScheduled, nil)

	resp, err := e.uc.Execute(context.Background(), &Request{ReservationID: id, UserID: ownerID})
	require.NoError(t, err)

	assert.Nil(t, resp.HistoryRecordID)
	_, ok := e.store.History(id)
	assert.False(t, ok)
}

func TestExecute_InsufficientStockRollsBackEverything(t *testing.T) {
	e := newEnv(t)
	id := e.put(domain.StatusConfirmed, ptr.Ptr(vehicleID))

	_, err := e.uc.Execute(context.Background(), &Request{
		ReservationID: id,
		UserID:        ownerID,
		ProductsUsed: []domain.ProductUsage{
			{ProductID: waxID, Quantity: 2},
			{ProductID: shampooID, Quantity: 5},
		},
	})
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.ErrorIs(t, err, domain.ErrValidation)

	stored, _ := e.store.Reservation(id)
	assert.Equal(t, domain.StatusConfirmed, stored.Status)
	assert.Nil(t, stored.CompletedAt)
	_, ok := e.store.History(id)
	assert.False(t, ok)
	assert.Equal(t, 10, e.store.Stock(waxID))
	assert.Empty(t, e.store.Usage())
	assert.Empty(t, e.notifier.Events())
}

func TestExecute_UnknownProduct(t *testing.T) {
	e := newEnv(t)
	id := e.put(domain.StatusScheduled, nil)

	_, err := e.uc.Execute(context.Background(), &Request{
		ReservationID: id,
		UserID:        ownerID,
		ProductsUsed:  []domain.ProductUsage{{ProductID: 9999, Quantity: 1}},
	})
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestExecute_CompletesBundleServices(t *testing.T) {
	e := newEnv(t)
	bundle := domain.Bundle{
		BusinessID: businessID,
		IsActive:   true,
		Items:      []domain.BundleItem{{ServiceID: 1, ServiceName: "Wash"}, {ServiceID: 2, ServiceName: "Polish"}},
	}
	bundle.ID = e.store.AddBundle(bundle)

	id := e.store.Put(domain.Reservation{
		CustomerID: customerID,
		BusinessID: ptr.Ptr(businessID),
		BundleID:   ptr.Ptr(bundle.ID),
		Date:       date,
		StartTime:  types.MustTimeString("10:00"),
		EndTime:    types.MustTimeString("12:00"),
		Status:     domain.StatusInProgress,
	})
	_, err := e.store.BundleRepo().CreateServiceRecords(context.Background(), id, &bundle)
	require.NoError(t, err)

	_, err = e.uc.Execute(context.Background(), &Request{ReservationID: id, UserID: ownerID})
	require.NoError(t, err)

	records := e.store.ServiceRecords(id)
	require.Len(t, records, 2)
	for _, rec := range records {
		assert.Equal(t, domain.BundleServiceCompleted, rec.Status)
		assert.NotNil(t, rec.CompletedAt)
	}
}

func TestExecute_Rejections(t *testing.T) {
	t.Run("terminal status", func(t *testing.T) {
		for _, status := range []domain.ReservationStatus{domain.StatusCancelled, domain.StatusCompleted} {
			e := newEnv(t)
			id := e.put(status, nil)
			_, err := e.uc.Execute(context.Background(), &Request{ReservationID: id, UserID: ownerID})
			assert.ErrorIs(t, err, ErrCannotComplete)
		}
	})

	t.Run("customer cannot complete business reservation", func(t *testing.T) {
		e := newEnv(t)
		id := e.put(domain.StatusScheduled, nil)
		_, err := e.uc.Execute(context.Background(), &Request{ReservationID: id, UserID: customerID})
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("duplicate product", func(t *testing.T) {
		e := newEnv(t)
		id := e.put(domain.StatusScheduled, nil)
		_, err := e.uc.Execute(context.Background(), &Request{
			ReservationID: id,
			UserID:        ownerID,
			ProductsUsed:  []domain.ProductUsage{{ProductID: waxID, Quantity: 1}, {ProductID: waxID, Quantity: 2}},
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("not found", func(t *testing.T) {
		e := newEnv(t)
		_, err := e.uc.Execute(context.Background(), &Request{ReservationID: 404, UserID: ownerID})
		assert.ErrorIs(t, err, ErrReservationNotFound)
	})
}
