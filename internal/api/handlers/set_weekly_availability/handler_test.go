package set_weekly_availability

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/service/availability"
	"github.com/m04kA/SMC-SchedulingService/internal/service/availability/models"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
)

type fakeService struct {
	got *models.SetWeeklyRequest
	err error
}

func (f *fakeService) SetWeekly(ctx context.Context, req *models.SetWeeklyRequest) (*models.WeeklyResponse, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.WeeklyResponse{BusinessID: req.BusinessID}, nil
}

func serve(svc *fakeService, body string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.Use(middleware.Auth)
	r.HandleFunc("/businesses/{businessId}/availability", NewHandler(svc, logger.NewNop()).Handle).Methods(http.MethodPut)

	req := httptest.NewRequest(http.MethodPut, "/businesses/10/availability", strings.NewReader(body))
	req.Header.Set(middleware.UserIDHeader, "500")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

const body = `{"days":[{"dayOfWeek":1,"isOpen":true,"openTime":"09:00","closeTime":"18:00"}]}`

func TestHandle(t *testing.T) {
	svc := &fakeService{}
	rec := serve(svc, body)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, int64(500), svc.got.UserID)
	assert.Equal(t, int64(10), svc.got.BusinessID)
	require.Len(t, svc.got.Days, 1)
	assert.Equal(t, "09:00", svc.got.Days[0].OpenTime)
}

func TestHandle_Errors(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, serve(&fakeService{}, `{"days":`).Code)
	assert.Equal(t, http.StatusBadRequest, serve(&fakeService{err: availability.ErrInvalidInput}, body).Code)
	assert.Equal(t, http.StatusForbidden,
		serve(&fakeService{err: fmt.Errorf("access: %w", domain.ErrUnauthorized)}, body).Code)
	assert.Equal(t, http.StatusInternalServerError, serve(&fakeService{err: availability.ErrInternal}, body).Code)
}
