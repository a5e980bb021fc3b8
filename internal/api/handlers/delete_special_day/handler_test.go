package delete_special_day

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/service/availability"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
)

type fakeService struct {
	date time.Time
	err  error
}

func (f *fakeService) DeleteSpecialDay(ctx context.Context, userID, businessID int64, date time.Time) error {
	f.date = date
	return f.err
}

func serve(svc *fakeService, target string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.Use(middleware.Auth)
	r.HandleFunc("/businesses/{businessId}/special-days/{date}", NewHandler(svc, logger.NewNop()).Handle).
		Methods(http.MethodDelete)

	req := httptest.NewRequest(http.MethodDelete, target, nil)
	req.Header.Set(middleware.UserIDHeader, "500")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandle(t *testing.T) {
	svc := &fakeService{}
	rec := serve(svc, "/businesses/10/special-days/2025-12-31")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC), svc.date)
}

func TestHandle_Errors(t *testing.T) {
	target := "/businesses/10/special-days/2025-12-31"

	assert.Equal(t, http.StatusBadRequest, serve(&fakeService{}, "/businesses/10/special-days/31-12-2025").Code)
	assert.Equal(t, http.StatusNotFound, serve(&fakeService{err: availability.ErrSpecialDayNotFound}, target).Code)
	assert.Equal(t, http.StatusForbidden,
		serve(&fakeService{err: fmt.Errorf("access: %w", domain.ErrUnauthorized)}, target).Code)
	assert.Equal(t, http.StatusInternalServerError, serve(&fakeService{err: availability.ErrInternal}, target).Code)
}
