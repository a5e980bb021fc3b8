package access

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/integrations/businessdirectory"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
)

type fakeDirectory struct {
	businesses map[int64]*businessdirectory.Business
	err        error
}

func (d *fakeDirectory) GetBusiness(ctx context.Context, businessID int64) (*businessdirectory.Business, error) {
	if d.err != nil {
		return nil, d.err
	}
	b, ok := d.businesses[businessID]
	if !ok {
		return nil, businessdirectory.ErrBusinessNotFound
	}
	return b, nil
}

func newService(err error) *Service {
	dir := &fakeDirectory{
		businesses: map[int64]*businessdirectory.Business{
			1: {ID: 1, OwnerID: 100, StaffIDs: []int64{200}},
		},
		err: err,
	}
	return NewService(dir, logger.NewNop())
}

func TestActorFor(t *testing.T) {
	r := &domain.Reservation{ID: 9, CustomerID: 7, BusinessID: ptr.Ptr(int64(1))}

	tests := []struct {
		name    string
		userID  int64
		want    domain.Actor
		wantErr error
	}{
		{"customer", 7, domain.ActorCustomer, nil},
		{"owner", 100, domain.ActorBusiness, nil},
		{"staff", 200, domain.ActorBusiness, nil},
		{"stranger", 300, "", domain.ErrUnauthorized},
	}

	s := newService(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actor, err := s.ActorFor(context.Background(), tt.userID, r)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, actor)
		})
	}
}

func TestActorFor_NoBusiness(t *testing.T) {
	r := &domain.Reservation{ID: 9, CustomerID: 7}

	_, err := newService(nil).ActorFor(context.Background(), 100, r)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestActorFor_UnknownBusinessIsDenied(t *testing.T) {
	r := &domain.Reservation{ID: 9, CustomerID: 7, BusinessID: ptr.Ptr(int64(55))}

	_, err := newService(nil).ActorFor(context.Background(), 100, r)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestRequireMember(t *testing.T) {
	s := newService(nil)

	assert.NoError(t, s.RequireMember(context.Background(), 100, 1))
	assert.ErrorIs(t, s.RequireMember(context.Background(), 300, 1), ErrAccessDenied)
	assert.ErrorIs(t, s.RequireMember(context.Background(), 100, 55), domain.ErrNotFound)

	failing := newService(errors.New("timeout"))
	assert.ErrorIs(t, failing.RequireMember(context.Background(), 100, 1), ErrInternal)
}
