package get_daily_stats

import (
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/service/reporting"
)

const (
	msgInvalidBusinessID = "некорректный ID бизнеса"
	msgMissingUserID     = "отсутствует ID пользователя"
	msgInvalidPeriod     = "некорректный период, ожидаются from и to в формате YYYY-MM-DD"
	msgForbidden         = "доступ запрещен"
)

// DailyStatsResponse HTTP response model
type DailyStatsResponse struct {
	BusinessID int64                         `json:"businessId"`
	Stats      []reporting.DailyStatResponse `json:"stats"`
}

type Handler struct {
	service ReportingService
	logger  Logger
}

func NewHandler(service ReportingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/businesses/{businessId}/reports/daily?from=&to=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	businessID, err := handlers.PathID(r, "businessId")
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/reports/daily - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /businesses/{id}/reports/daily - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	q := r.URL.Query()
	from, errFrom := handlers.ParseDate(q.Get("from"))
	to, errTo := handlers.ParseDate(q.Get("to"))
	if errFrom != nil || errTo != nil {
		h.logger.Warn("GET /businesses/{id}/reports/daily - Invalid period: from=%q, to=%q", q.Get("from"), q.Get("to"))
		handlers.RespondBadRequest(w, msgInvalidPeriod)
		return
	}

	stats, err := h.service.DailyStats(r.Context(), userID, businessID, from, to)
	if err != nil {
		switch handlers.StatusFor(err) {
		case http.StatusForbidden:
			h.logger.Warn("GET /businesses/{id}/reports/daily - Access denied: business_id=%d, user_id=%d", businessID, userID)
			handlers.RespondForbidden(w, msgForbidden)
		case http.StatusBadRequest:
			h.logger.Warn("GET /businesses/{id}/reports/daily - Invalid period: business_id=%d, error=%v", businessID, err)
			handlers.RespondBadRequest(w, msgInvalidPeriod)
		default:
			h.logger.Error("GET /businesses/{id}/reports/daily - Failed to build stats: business_id=%d, error=%v",
				businessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /businesses/{id}/reports/daily - Stats built: business_id=%d, rows=%d", businessID, len(stats))
	handlers.RespondJSON(w, http.StatusOK, &DailyStatsResponse{BusinessID: businessID, Stats: stats})
}
