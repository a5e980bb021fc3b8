package reschedule_reservation

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/service/reservations/models"
	rescheduleReservation "github.com/m04kA/SMC-SchedulingService/internal/usecase/reschedule_reservation"
)

const (
	msgInvalidReservationID   = "некорректный ID бронирования"
	msgMissingUserID          = "отсутствует ID пользователя"
	msgInvalidRequestBody     = "некорректное тело запроса"
	msgInvalidDateTime        = "некорректный формат даты или времени, ожидается YYYY-MM-DD и HH:MM"
	msgInvalidInput           = "некорректные данные переноса"
	msgDateInPast             = "нельзя перенести на время в прошлом"
	msgNotFound               = "бронирование не найдено"
	msgForbidden              = "переносить может только клиент или бизнес"
	msgCannotReschedule       = "бронирование нельзя перенести в текущем статусе"
	msgUnavailable            = "бизнес не работает в выбранное время"
	msgSlotTaken              = "выбранное время уже занято"
	msgConcurrentModification = "бронирование изменено параллельно, попробуйте еще раз"
)

type Handler struct {
	useCase RescheduleReservationUseCase
	logger  Logger
}

func NewHandler(useCase RescheduleReservationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/reservations/{reservationId}/reschedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	reservationID, err := handlers.PathID(r, "reservationId")
	if err != nil {
		h.logger.Warn("POST /reservations/{id}/reschedule - Invalid reservation ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidReservationID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /reservations/{id}/reschedule - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req RescheduleReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reservations/{id}/reschedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(reservationID, userID)
	if err != nil {
		h.logger.Warn("POST /reservations/{id}/reschedule - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, rescheduleReservation.ErrDateInPast):
			h.logger.Warn("POST /reservations/{id}/reschedule - Date in past: reservation_id=%d", reservationID)
			handlers.RespondBadRequest(w, msgDateInPast)

		case errors.Is(err, rescheduleReservation.ErrInvalidInput):
			h.logger.Warn("POST /reservations/{id}/reschedule - Invalid input: reservation_id=%d, error=%v", reservationID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, rescheduleReservation.ErrReservationNotFound):
			h.logger.Warn("POST /reservations/{id}/reschedule - Reservation not found: reservation_id=%d", reservationID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, rescheduleReservation.ErrAccessDenied):
			h.logger.Warn("POST /reservations/{id}/reschedule - Access denied: reservation_id=%d, user_id=%d",
				reservationID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, rescheduleReservation.ErrCannotReschedule):
			h.logger.Warn("POST /reservations/{id}/reschedule - Cannot reschedule: reservation_id=%d", reservationID)
			handlers.RespondConflict(w, msgCannotReschedule)

		case errors.Is(err, rescheduleReservation.ErrBusinessClosed),
			errors.Is(err, rescheduleReservation.ErrOutsideOpenHours):
			h.logger.Warn("POST /reservations/{id}/reschedule - Business unavailable: reservation_id=%d, error=%v", reservationID, err)
			handlers.RespondDomainError(w, err, msgUnavailable)

		case errors.Is(err, rescheduleReservation.ErrStaffNotAvailable),
			errors.Is(err, rescheduleReservation.ErrBusinessNotAvailable):
			h.logger.Warn("POST /reservations/{id}/reschedule - Slot taken: reservation_id=%d", reservationID)
			handlers.RespondConflict(w, msgSlotTaken)

		case errors.Is(err, rescheduleReservation.ErrConcurrentUpdate):
			h.logger.Warn("POST /reservations/{id}/reschedule - Concurrent update: reservation_id=%d", reservationID)
			handlers.RespondConflict(w, msgConcurrentModification)

		default:
			h.logger.Error("POST /reservations/{id}/reschedule - Failed to reschedule: reservation_id=%d, error=%v",
				reservationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /reservations/{id}/reschedule - Reservation rescheduled successfully: reservation_id=%d, user_id=%d",
		reservationID, userID)
	handlers.RespondJSON(w, http.StatusOK, models.FromDomainReservation(result.Reservation))
}
