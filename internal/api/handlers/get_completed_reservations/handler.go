package get_completed_reservations

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/service/reporting"
)

const (
	msgInvalidSince = "некорректный параметр since, ожидается RFC3339"
	msgInvalidLimit = "некорректный параметр limit"
)

// CompletedReservationsResponse HTTP response model
type CompletedReservationsResponse struct {
	Reservations []reporting.CompletedReservationResponse `json:"reservations"`
	Total        int                                      `json:"total"`
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

// Handle GET /api/v1/reports/completed?since=&limit=
// Выгрузка для модулей лояльности и промо
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	since, err := time.Parse(time.RFC3339, q.Get("since"))
	if err != nil {
		h.logger.Warn("GET /reports/completed - Invalid since: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSince)
		return
	}

	limit := 0
	if raw := q.Get("limit"); raw != "" {
		if limit, err = strconv.Atoi(raw); err != nil {
			h.logger.Warn("GET /reports/completed - Invalid limit: %v", err)
			handlers.RespondBadRequest(w, msgInvalidLimit)
			return
		}
	}

	rows, err := h.service.CompletedSince(r.Context(), since, limit)
	if err != nil {
		if errors.Is(err, reporting.ErrInvalidInput) {
			h.logger.Warn("GET /reports/completed - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidLimit)
			return
		}
		h.logger.Error("GET /reports/completed - Failed to list completed reservations: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /reports/completed - Listed: since=%s, rows=%d", since.Format(time.RFC3339), len(rows))
	handlers.RespondJSON(w, http.StatusOK, &CompletedReservationsResponse{Reservations: rows, Total: len(rows)})
}
