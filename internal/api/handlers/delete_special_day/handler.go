package delete_special_day

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
)

const (
	msgInvalidBusinessID = "некорректный ID бизнеса"
	msgMissingUserID     = "отсутствует ID пользователя"
	msgInvalidDate       = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgDeleteFailed      = "не удалось удалить особый день"
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

// Handle DELETE /api/v1/businesses/{businessId}/special-days/{date}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	businessID, err := handlers.PathID(r, "businessId")
	if err != nil {
		h.logger.Warn("DELETE /businesses/{id}/special-days/{date} - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("DELETE /businesses/{id}/special-days/{date} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	date, err := handlers.ParseDate(mux.Vars(r)["date"])
	if err != nil {
		h.logger.Warn("DELETE /businesses/{id}/special-days/{date} - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	if err := h.service.DeleteSpecialDay(r.Context(), userID, businessID, date); err != nil {
		if handlers.StatusFor(err) == http.StatusInternalServerError {
			h.logger.Error("DELETE /businesses/{id}/special-days/{date} - Failed to delete special day: business_id=%d, error=%v",
				businessID, err)
		} else {
			h.logger.Warn("DELETE /businesses/{id}/special-days/{date} - Rejected: business_id=%d, user_id=%d, error=%v",
				businessID, userID, err)
		}
		handlers.RespondDomainError(w, err, msgDeleteFailed)
		return
	}

	h.logger.Info("DELETE /businesses/{id}/special-days/{date} - Special day deleted: business_id=%d, date=%s",
		businessID, mux.Vars(r)["date"])
	w.WriteHeader(http.StatusNoContent)
}
