package reservations

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-SchedulingService/internal/service/access"
	"github.com/m04kA/SMC-SchedulingService/internal/service/reservations/models"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

type fakeRepo struct {
	items      map[int64]*domain.Reservation
	lastFilter domain.ReservationFilter
}

func (r *fakeRepo) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	res, ok := r.items[id]
	if !ok {
		return nil, reservationRepo.ErrReservationNotFound
	}
	return res, nil
}

func (r *fakeRepo) ListByCustomer(ctx context.Context, customerID int64, status *domain.ReservationStatus) ([]*domain.Reservation, error) {
	var out []*domain.Reservation
	for _, res := range r.items {
		if res.CustomerID == customerID && (status == nil || res.Status == *status) {
			out = append(out, res)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListByFilter(ctx context.Context, filter domain.ReservationFilter) ([]*domain.Reservation, error) {
	r.lastFilter = filter
	return nil, nil
}

type fakeBundles struct{}

func (fakeBundles) ListServiceRecords(ctx context.Context, reservationID int64) ([]domain.BundleServiceRecord, error) {
	return []domain.BundleServiceRecord{
		{ReservationID: reservationID, ServiceID: 1, ServiceName: "Wash", Status: domain.BundleServicePending},
		{ReservationID: reservationID, ServiceID: 2, ServiceName: "Wax", Status: domain.BundleServicePending},
	}, nil
}

// fakeAccess: клиент 7, сотрудник бизнеса 100
type fakeAccess struct{}

func (fakeAccess) ActorFor(ctx context.Context, userID int64, r *domain.Reservation) (domain.Actor, error) {
	switch userID {
	case r.CustomerID:
		return domain.ActorCustomer, nil
	case 100:
		return domain.ActorBusiness, nil
	}
	return "", access.ErrAccessDenied
}

func (fakeAccess) RequireMember(ctx context.Context, userID, businessID int64) error {
	if userID == 100 {
		return nil
	}
	return access.ErrAccessDenied
}

func newService() *Service {
	repo := &fakeRepo{items: map[int64]*domain.Reservation{
		1: {
			ID: 1, CustomerID: 7, BusinessID: ptr.Ptr(int64(5)),
			Date:      time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
			StartTime: types.MustTimeString("10:00"), EndTime: types.MustTimeString("11:00"),
			Status: domain.StatusScheduled,
		},
		2: {
			ID: 2, CustomerID: 7, BusinessID: ptr.Ptr(int64(5)), BundleID: ptr.Ptr(int64(3)),
			Date:      time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC),
			StartTime: types.MustTimeString("10:00"), EndTime: types.MustTimeString("12:00"),
			Status: domain.StatusCancelled,
		},
	}}
	return NewService(repo, fakeBundles{}, fakeAccess{}, logger.NewNop())
}

func TestGetByID(t *testing.T) {
	s := newService()

	resp, err := s.GetByID(context.Background(), 1, 7)
	require.NoError(t, err)
	assert.Equal(t, "2026-04-01", resp.Date)
	assert.Equal(t, "10:00", resp.StartTime)

	_, err = s.GetByID(context.Background(), 1, 100)
	assert.NoError(t, err)

	_, err = s.GetByID(context.Background(), 1, 9)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = s.GetByID(context.Background(), 404, 7)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListByCustomer(t *testing.T) {
	s := newService()

	resp, err := s.ListByCustomer(context.Background(), &models.ListByCustomerRequest{UserID: 7, Status: ptr.Ptr("cancelled")})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Total)
	assert.Equal(t, int64(2), resp.Reservations[0].ID)

	_, err = s.ListByCustomer(context.Background(), &models.ListByCustomerRequest{UserID: 7, Status: ptr.Ptr("archived")})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestListByBusiness(t *testing.T) {
	s := newService()
	from := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC)

	_, err := s.ListByBusiness(context.Background(), &models.ListByBusinessRequest{
		UserID: 100, BusinessID: 5, From: &from, To: &to, IncludeCancelled: true,
	})
	require.NoError(t, err)

	_, err = s.ListByBusiness(context.Background(), &models.ListByBusinessRequest{UserID: 7, BusinessID: 5})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = s.ListByBusiness(context.Background(), &models.ListByBusinessRequest{UserID: 100, BusinessID: 5, From: &to, To: &from})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestListServiceRecords(t *testing.T) {
	s := newService()

	records, err := s.ListServiceRecords(context.Background(), 2, 7)
	require.NoError(t, err)
	assert.Len(t, records, 2)

	records, err = s.ListServiceRecords(context.Background(), 1, 7)
	require.NoError(t, err)
	assert.Empty(t, records)
}
