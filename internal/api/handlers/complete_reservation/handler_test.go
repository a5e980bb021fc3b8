package complete_reservation

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
	completeReservation "github.com/m04kA/SMC-SchedulingService/internal/usecase/complete_reservation"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
)

type fakeUseCase struct {
	got *completeReservation.Request
	err error
}

func (f *fakeUseCase) Execute(ctx context.Context, req *completeReservation.Request) (*completeReservation.Response, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	usage := make([]domain.InventoryUsage, 0, len(req.ProductsUsed))
	for _, p := range req.ProductsUsed {
		usage = append(usage, domain.InventoryUsage{ProductID: p.ProductID, Quantity: p.Quantity, RemainingInStock: 10})
	}
	return &completeReservation.Response{
		ReservationID:   req.ReservationID,
		HistoryRecordID: ptr.Ptr(int64(77)),
		Reservation:     &domain.Reservation{ID: req.ReservationID, Status: domain.StatusCompleted},
		Usage:           usage,
	}, nil
}

func serve(uc *fakeUseCase, body string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.Use(middleware.Auth)
	r.HandleFunc("/reservations/{reservationId}/complete", NewHandler(uc, logger.NewNop()).Handle).Methods(http.MethodPost)

	req := httptest.NewRequest(http.MethodPost, "/reservations/8/complete", strings.NewReader(body))
	req.Header.Set(middleware.UserIDHeader, "500")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandle(t *testing.T) {
	uc := &fakeUseCase{}
	rec := serve(uc, `{"notes":"all good","productsUsed":[{"productId":3,"quantity":2}]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, uc.got.ProductsUsed, 1)
	assert.Equal(t, domain.ProductUsage{ProductID: 3, Quantity: 2}, uc.got.ProductsUsed[0])

	var resp CompleteReservationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(8), resp.ReservationID)
	assert.Equal(t, int64(77), *resp.HistoryRecordID)
	assert.Equal(t, "completed", resp.Reservation.Status)
	require.Len(t, resp.Usage, 1)
	assert.Equal(t, 10, resp.Usage[0].RemainingInStock)
}

func TestHandle_EmptyBody(t *testing.T) {
	uc := &fakeUseCase{}
	require.Equal(t, http.StatusOK, serve(uc, "").Code)
	assert.Empty(t, uc.got.ProductsUsed)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{completeReservation.ErrInsufficientStock, http.StatusBadRequest},
		{completeReservation.ErrProductNotFound, http.StatusNotFound},
		{completeReservation.ErrAccessDenied, http.StatusForbidden},
		{completeReservation.ErrCannotComplete, http.StatusConflict},
		{completeReservation.ErrInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, serve(&fakeUseCase{err: tt.err}, "").Code, tt.err.Error())
	}
}
