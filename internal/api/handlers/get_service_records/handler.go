package get_service_records

import (
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
)

const (
	msgInvalidReservationID = "некорректный ID бронирования"
	msgMissingUserID        = "отсутствует ID пользователя"
	msgFailed               = "не удалось получить услуги пакета"
)

type Handler struct {
	service ReservationService
	logger  Logger
}

func NewHandler(service ReservationService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/reservations/{reservationId}/services
// Прогресс услуг пакетного бронирования
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	reservationID, err := handlers.PathID(r, "reservationId")
	if err != nil {
		h.logger.Warn("GET /reservations/{id}/services - Invalid reservation ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidReservationID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	records, err := h.service.ListServiceRecords(r.Context(), reservationID, userID)
	if err != nil {
		if handlers.StatusFor(err) == http.StatusInternalServerError {
			h.logger.Error("GET /reservations/{id}/services - Failed: reservation_id=%d, error=%v", reservationID, err)
		} else {
			h.logger.Warn("GET /reservations/{id}/services - Rejected: reservation_id=%d, error=%v", reservationID, err)
		}
		handlers.RespondDomainError(w, err, msgFailed)
		return
	}

	h.logger.Info("GET /reservations/{id}/services - Records retrieved: reservation_id=%d, count=%d", reservationID, len(records))
	handlers.RespondJSON(w, http.StatusOK, records)
}
