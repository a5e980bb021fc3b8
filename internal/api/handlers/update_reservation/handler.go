package update_reservation

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/service/reservations/models"
	updateReservation "github.com/m04kA/SMC-SchedulingService/internal/usecase/update_reservation"
)

const (
	msgInvalidReservationID   = "некорректный ID бронирования"
	msgMissingUserID          = "отсутствует ID пользователя"
	msgInvalidRequestBody     = "некорректное тело запроса"
	msgInvalidFields          = "некорректные значения полей"
	msgTerminalStatus         = "для завершения и отмены используйте отдельные операции"
	msgInvalidInput           = "некорректные данные бронирования"
	msgNotFound               = "бронирование не найдено"
	msgForbidden              = "доступ запрещен"
	msgReservationClosed      = "бронирование уже завершено или отменено"
	msgInvalidTransition      = "недопустимый переход статуса"
	msgUnavailable            = "бизнес не работает в выбранное время"
	msgSlotTaken              = "выбранное время уже занято"
	msgConcurrentModification = "бронирование изменено параллельно, попробуйте еще раз"
)

type Handler struct {
	useCase UpdateReservationUseCase
	logger  Logger
}

func NewHandler(useCase UpdateReservationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/reservations/{reservationId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	reservationID, err := handlers.PathID(r, "reservationId")
	if err != nil {
		h.logger.Warn("PATCH /reservations/{id} - Invalid reservation ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidReservationID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /reservations/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req UpdateReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /reservations/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(reservationID, userID)
	if err != nil {
		h.logger.Warn("PATCH /reservations/{id} - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidFields)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, updateReservation.ErrTerminalStatus):
			h.logger.Warn("PATCH /reservations/{id} - Terminal status via update: reservation_id=%d", reservationID)
			handlers.RespondBadRequest(w, msgTerminalStatus)

		case errors.Is(err, updateReservation.ErrInvalidInput),
			errors.Is(err, updateReservation.ErrDateInPast):
			h.logger.Warn("PATCH /reservations/{id} - Invalid input: reservation_id=%d, error=%v", reservationID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, updateReservation.ErrReservationNotFound):
			h.logger.Warn("PATCH /reservations/{id} - Reservation not found: reservation_id=%d", reservationID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, updateReservation.ErrAccessDenied):
			h.logger.Warn("PATCH /reservations/{id} - Access denied: reservation_id=%d, user_id=%d", reservationID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, updateReservation.ErrReservationClosed):
			h.logger.Warn("PATCH /reservations/{id} - Reservation closed: reservation_id=%d", reservationID)
			handlers.RespondConflict(w, msgReservationClosed)

		case errors.Is(err, updateReservation.ErrInvalidTransition):
			h.logger.Warn("PATCH /reservations/{id} - Invalid transition: reservation_id=%d, error=%v", reservationID, err)
			handlers.RespondConflict(w, msgInvalidTransition)

		case errors.Is(err, updateReservation.ErrBusinessClosed),
			errors.Is(err, updateReservation.ErrOutsideOpenHours):
			h.logger.Warn("PATCH /reservations/{id} - Business unavailable: reservation_id=%d", reservationID)
			handlers.RespondDomainError(w, err, msgUnavailable)

		case errors.Is(err, updateReservation.ErrStaffNotAvailable),
			errors.Is(err, updateReservation.ErrBusinessNotAvailable):
			h.logger.Warn("PATCH /reservations/{id} - Slot taken: reservation_id=%d", reservationID)
			handlers.RespondConflict(w, msgSlotTaken)

		case errors.Is(err, updateReservation.ErrConcurrentUpdate):
			h.logger.Warn("PATCH /reservations/{id} - Concurrent update: reservation_id=%d", reservationID)
			handlers.RespondConflict(w, msgConcurrentModification)

		default:
			h.logger.Error("PATCH /reservations/{id} - Failed to update reservation: reservation_id=%d, error=%v",
				reservationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /reservations/{id} - Reservation updated successfully: reservation_id=%d, user_id=%d",
		reservationID, userID)
	handlers.RespondJSON(w, http.StatusOK, models.FromDomainReservation(result.Reservation))
}
