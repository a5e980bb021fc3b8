package complete_reservation

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	completeReservation "github.com/m04kA/SMC-SchedulingService/internal/usecase/complete_reservation"
)

const (
	msgInvalidReservationID   = "некорректный ID бронирования"
	msgMissingUserID          = "отсутствует ID пользователя"
	msgInvalidRequestBody     = "некорректное тело запроса"
	msgInvalidInput           = "некорректные данные завершения"
	msgInsufficientStock      = "недостаточно товара на складе"
	msgNotFound               = "бронирование не найдено"
	msgProductNotFound        = "товар не найден"
	msgForbidden              = "завершить бронирование может только бизнес"
	msgCannotComplete         = "бронирование нельзя завершить в текущем статусе"
	msgConcurrentModification = "бронирование изменено параллельно, попробуйте еще раз"
)

type Handler struct {
	useCase CompleteReservationUseCase
	logger  Logger
}

func NewHandler(useCase CompleteReservationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/reservations/{reservationId}/complete
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	reservationID, err := handlers.PathID(r, "reservationId")
	if err != nil {
		h.logger.Warn("POST /reservations/{id}/complete - Invalid reservation ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidReservationID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /reservations/{id}/complete - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CompleteReservationRequest
	if r.ContentLength != 0 {
		if err := handlers.DecodeJSON(r, &req); err != nil {
			h.logger.Warn("POST /reservations/{id}/complete - Invalid request body: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)
			return
		}
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(reservationID, userID))
	if err != nil {
		switch {
		case errors.Is(err, completeReservation.ErrInsufficientStock):
			h.logger.Warn("POST /reservations/{id}/complete - Insufficient stock: reservation_id=%d, error=%v", reservationID, err)
			handlers.RespondBadRequest(w, msgInsufficientStock)

		case errors.Is(err, completeReservation.ErrInvalidInput):
			h.logger.Warn("POST /reservations/{id}/complete - Invalid input: reservation_id=%d, error=%v", reservationID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, completeReservation.ErrReservationNotFound):
			h.logger.Warn("POST /reservations/{id}/complete - Reservation not found: reservation_id=%d", reservationID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, completeReservation.ErrProductNotFound):
			h.logger.Warn("POST /reservations/{id}/complete - Product not found: reservation_id=%d, error=%v", reservationID, err)
			handlers.RespondNotFound(w, msgProductNotFound)

		case errors.Is(err, completeReservation.ErrAccessDenied):
			h.logger.Warn("POST /reservations/{id}/complete - Access denied: reservation_id=%d, user_id=%d", reservationID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, completeReservation.ErrCannotComplete):
			h.logger.Warn("POST /reservations/{id}/complete - Cannot complete: reservation_id=%d", reservationID)
			handlers.RespondConflict(w, msgCannotComplete)

		case errors.Is(err, completeReservation.ErrConcurrentUpdate):
			h.logger.Warn("POST /reservations/{id}/complete - Concurrent update: reservation_id=%d", reservationID)
			handlers.RespondConflict(w, msgConcurrentModification)

		default:
			h.logger.Error("POST /reservations/{id}/complete - Failed to complete reservation: reservation_id=%d, error=%v",
				reservationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /reservations/{id}/complete - Reservation completed successfully: reservation_id=%d, history_record_id=%v",
		reservationID, result.HistoryRecordID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
