package book_bundle

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	bookBundle "github.com/m04kA/SMC-SchedulingService/internal/usecase/book_bundle"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
)

type fakeUseCase struct {
	got *bookBundle.Request
	err error
}

func (f *fakeUseCase) Execute(ctx context.Context, req *bookBundle.Request) (*bookBundle.Response, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &bookBundle.Response{
		ReservationID: 31,
		BundleID:      req.BundleID,
		Reservation:   &domain.Reservation{ID: 31, BundleID: &req.BundleID, Status: domain.StatusScheduled},
		ServiceRecords: []domain.BundleServiceRecord{
			{ServiceID: 1, ServiceName: "Wash", Status: domain.BundleServicePending},
		},
	}, nil
}

func serve(uc *fakeUseCase, body string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.Use(middleware.Auth)
	r.HandleFunc("/bundles/{bundleId}/book", NewHandler(uc, logger.NewNop()).Handle).Methods(http.MethodPost)

	req := httptest.NewRequest(http.MethodPost, "/bundles/2/book", strings.NewReader(body))
	req.Header.Set(middleware.UserIDHeader, "100")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

const body = `{"date":"2025-06-03","startTime":"10:00","customerInfo":{"name":"Alex","phone":"+100200300"}}`

func TestHandle(t *testing.T) {
	uc := &fakeUseCase{}
	rec := serve(uc, body)
	require.Equal(t, http.StatusCreated, rec.Code)

	assert.Equal(t, int64(2), uc.got.BundleID)
	assert.Equal(t, int64(100), uc.got.CustomerID)
	assert.Equal(t, "Alex", uc.got.CustomerInfo.Name)

	var resp BookBundleResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(31), resp.ReservationID)
	assert.Equal(t, int64(2), resp.BundleID)
	require.Len(t, resp.ServiceRecords, 1)
	assert.Equal(t, "pending", resp.ServiceRecords[0].Status)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{bookBundle.ErrBundleNotFound, http.StatusNotFound},
		{bookBundle.ErrBundleInactive, http.StatusConflict},
		{bookBundle.ErrBundleOutOfValidity, http.StatusConflict},
		{bookBundle.ErrBundleSoldOut, http.StatusConflict},
		{bookBundle.ErrOutsideOpenHours, http.StatusUnprocessableEntity},
		{bookBundle.ErrInvalidInput, http.StatusBadRequest},
		{bookBundle.ErrInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, serve(&fakeUseCase{err: tt.err}, body).Code, tt.err.Error())
	}
}
