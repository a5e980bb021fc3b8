package create_reservation

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	createReservation "github.com/m04kA/SMC-SchedulingService/internal/usecase/create_reservation"
)

const (
	msgMissingUserID          = "отсутствует ID пользователя"
	msgInvalidRequestBody     = "некорректное тело запроса"
	msgInvalidDateTime        = "некорректный формат даты или времени, ожидается YYYY-MM-DD и HH:MM"
	msgInvalidInput           = "некорректные данные бронирования"
	msgDateInPast             = "нельзя забронировать время в прошлом"
	msgBusinessClosed         = "бизнес закрыт в выбранную дату"
	msgOutsideOpenHours       = "выбранное время вне часов работы"
	msgStaffNotAvailable      = "мастер занят в выбранное время"
	msgBusinessNotAvailable   = "выбранное время уже занято"
	msgConcurrentModification = "слот только что заняли, попробуйте еще раз"
)

type Handler struct {
	useCase CreateReservationUseCase
	logger  Logger
}

func NewHandler(useCase CreateReservationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/reservations
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /reservations - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reservations - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом даты и времени)
	useCaseReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("POST /reservations - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createReservation.ErrDateInPast):
			h.logger.Warn("POST /reservations - Date in past: user_id=%d, date=%s", userID, req.Date)
			handlers.RespondBadRequest(w, msgDateInPast)

		case errors.Is(err, createReservation.ErrInvalidInput):
			h.logger.Warn("POST /reservations - Invalid input: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, createReservation.ErrBusinessClosed):
			h.logger.Warn("POST /reservations - Business closed: user_id=%d, business_id=%v", userID, req.BusinessID)
			handlers.RespondDomainError(w, err, msgBusinessClosed)

		case errors.Is(err, createReservation.ErrOutsideOpenHours):
			h.logger.Warn("POST /reservations - Outside open hours: user_id=%d, business_id=%v", userID, req.BusinessID)
			handlers.RespondDomainError(w, err, msgOutsideOpenHours)

		case errors.Is(err, createReservation.ErrStaffNotAvailable):
			h.logger.Warn("POST /reservations - Staff not available: user_id=%d, staff_id=%v", userID, req.StaffID)
			handlers.RespondConflict(w, msgStaffNotAvailable)

		case errors.Is(err, createReservation.ErrBusinessNotAvailable):
			h.logger.Warn("POST /reservations - Business not available: user_id=%d, business_id=%v", userID, req.BusinessID)
			handlers.RespondConflict(w, msgBusinessNotAvailable)

		case errors.Is(err, createReservation.ErrConcurrentUpdate):
			h.logger.Warn("POST /reservations - Concurrent update: user_id=%d", userID)
			handlers.RespondConflict(w, msgConcurrentModification)

		default:
			h.logger.Error("POST /reservations - Failed to create reservation: user_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("POST /reservations - Reservation created successfully: reservation_id=%d, user_id=%d",
		result.Reservation.ID, userID)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
