package get_daily_stats

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/service/reporting"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
)

type fakeService struct{ err error }

func (f fakeService) DailyStats(ctx context.Context, userID, businessID int64, from, to time.Time) ([]reporting.DailyStatResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []reporting.DailyStatResponse{{Date: "2025-06-03", Status: "completed", Count: 4, Revenue: "320.00"}}, nil
}

func serve(svc fakeService, target string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.Use(middleware.Auth)
	r.HandleFunc("/businesses/{businessId}/reports/daily", NewHandler(svc, logger.NewNop()).Handle).Methods(http.MethodGet)

	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.Header.Set(middleware.UserIDHeader, "500")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandle(t *testing.T) {
	rec := serve(fakeService{}, "/businesses/10/reports/daily?from=2025-06-01&to=2025-06-30")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp DailyStatsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(10), resp.BusinessID)
	require.Len(t, resp.Stats, 1)
	assert.Equal(t, "320.00", resp.Stats[0].Revenue)
}

func TestHandle_Errors(t *testing.T) {
	target := "/businesses/10/reports/daily?from=2025-06-01&to=2025-06-30"

	assert.Equal(t, http.StatusBadRequest, serve(fakeService{}, "/businesses/10/reports/daily?to=2025-06-30").Code)
	assert.Equal(t, http.StatusBadRequest, serve(fakeService{err: reporting.ErrInvalidInput}, target).Code)
	assert.Equal(t, http.StatusForbidden, serve(fakeService{err: fmt.Errorf("x: %w", domain.ErrUnauthorized)}, target).Code)
	assert.Equal(t, http.StatusInternalServerError, serve(fakeService{err: reporting.ErrInternal}, target).Code)
}
