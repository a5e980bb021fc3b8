package get_completed_reservations

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-SchedulingService/internal/service/reporting"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
)

type fakeService struct {
	since time.Time
	limit int
	err   error
}

func (f *fakeService) CompletedSince(ctx context.Context, since time.Time, limit int) ([]reporting.CompletedReservationResponse, error) {
	f.since, f.limit = since, limit
	return nil, f.err
}

func serve(svc *fakeService, target string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/reports/completed", NewHandler(svc, logger.NewNop()).Handle).Methods(http.MethodGet)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandle(t *testing.T) {
	svc := &fakeService{}
	rec := serve(svc, "/reports/completed?since=2025-06-01T00:00:00Z&limit=50")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 50, svc.limit)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), svc.since.UTC())
	assert.JSONEq(t, `{"reservations":null,"total":0}`, rec.Body.String())
}

func TestHandle_Errors(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, serve(&fakeService{}, "/reports/completed").Code)
	assert.Equal(t, http.StatusBadRequest, serve(&fakeService{}, "/reports/completed?since=2025-06-01T00:00:00Z&limit=x").Code)
	assert.Equal(t, http.StatusBadRequest,
		serve(&fakeService{err: reporting.ErrInvalidInput}, "/reports/completed?since=2025-06-01T00:00:00Z").Code)
	assert.Equal(t, http.StatusInternalServerError,
		serve(&fakeService{err: reporting.ErrInternal}, "/reports/completed?since=2025-06-01T00:00:00Z").Code)
}
