package get_business_reservations

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/service/access"
	"github.com/m04kA/SMC-SchedulingService/internal/service/reservations/models"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
)

type fakeService struct {
	got *models.ListByBusinessRequest
	err error
}

func (f *fakeService) ListByBusiness(ctx context.Context, req *models.ListByBusinessRequest) (*models.ReservationListResponse, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.ReservationListResponse{Reservations: []models.ReservationResponse{}}, nil
}

func serve(svc *fakeService, path string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.Use(middleware.Auth)
	r.HandleFunc("/businesses/{businessId}/reservations", NewHandler(svc, logger.NewNop()).Handle)

	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set(middleware.UserIDHeader, "500")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandle_ParsesFilter(t *testing.T) {
	svc := &fakeService{}
	rec := serve(svc, "/businesses/10/reservations?staffId=7&from=2025-06-01&to=2025-06-30&status=confirmed&includeCancelled=true")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, int64(10), svc.got.BusinessID)
	assert.Equal(t, int64(500), svc.got.UserID)
	assert.Equal(t, int64(7), *svc.got.StaffID)
	assert.Equal(t, "2025-06-30", svc.got.To.Format("2006-01-02"))
	assert.Equal(t, "confirmed", *svc.got.Status)
	assert.True(t, svc.got.IncludeCancelled)
}

func TestHandle_Errors(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, serve(&fakeService{}, "/businesses/10/reservations?from=June").Code)
	assert.Equal(t, http.StatusBadRequest, serve(&fakeService{}, "/businesses/10/reservations?includeCancelled=maybe").Code)
	assert.Equal(t, http.StatusForbidden, serve(&fakeService{err: access.ErrAccessDenied}, "/businesses/10/reservations").Code)
}
