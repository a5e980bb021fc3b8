package get_special_days

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/service/availability"
)

const (
	msgInvalidBusinessID = "некорректный ID бизнеса"
	msgInvalidRange      = "некорректный диапазон дат, ожидается YYYY-MM-DD"
)

type Handler struct {
	service AvailabilityService
	logger  Logger
}

func NewHandler(service AvailabilityService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/businesses/{businessId}/special-days
// Query params: from, to (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	businessID, err := handlers.PathID(r, "businessId")
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/special-days - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	q := r.URL.Query()
	from, err := handlers.OptionalDate(q.Get("from"))
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/special-days - Invalid from: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRange)
		return
	}
	to, err := handlers.OptionalDate(q.Get("to"))
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/special-days - Invalid to: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRange)
		return
	}

	result, err := h.service.ListSpecialDays(r.Context(), businessID, from, to)
	if err != nil {
		if errors.Is(err, availability.ErrInvalidInput) {
			h.logger.Warn("GET /businesses/{id}/special-days - Invalid range: business_id=%d, error=%v", businessID, err)
			handlers.RespondBadRequest(w, msgInvalidRange)
			return
		}
		h.logger.Error("GET /businesses/{id}/special-days - Failed to list special days: business_id=%d, error=%v",
			businessID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /businesses/{id}/special-days - Special days retrieved: business_id=%d, count=%d",
		businessID, len(result.Days))
	handlers.RespondJSON(w, http.StatusOK, result)
}
