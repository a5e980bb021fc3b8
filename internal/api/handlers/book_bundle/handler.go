package book_bundle

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	bookBundle "github.com/m04kA/SMC-SchedulingService/internal/usecase/book_bundle"
)

const (
	msgInvalidBundleID        = "некорректный ID пакета"
	msgMissingUserID          = "отсутствует ID пользователя"
	msgInvalidRequestBody     = "некорректное тело запроса"
	msgInvalidDateTime        = "некорректный формат даты или времени, ожидается YYYY-MM-DD и HH:MM"
	msgInvalidInput           = "некорректные данные бронирования"
	msgDateInPast             = "нельзя забронировать время в прошлом"
	msgBundleNotFound         = "пакет не найден"
	msgBundleInactive         = "пакет недоступен для бронирования"
	msgBundleOutOfValidity    = "срок действия пакета истек или еще не начался"
	msgBundleSoldOut          = "лимит бронирований пакета исчерпан"
	msgBusinessClosed         = "бизнес закрыт в выбранную дату"
	msgOutsideOpenHours       = "пакет не помещается в часы работы"
	msgSlotTaken              = "выбранное время уже занято"
	msgConcurrentModification = "слот только что заняли, попробуйте еще раз"
)

type Handler struct {
	useCase BookBundleUseCase
	logger  Logger
}

func NewHandler(useCase BookBundleUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bundles/{bundleId}/book
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bundleID, err := handlers.PathID(r, "bundleId")
	if err != nil {
		h.logger.Warn("POST /bundles/{id}/book - Invalid bundle ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBundleID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bundles/{id}/book - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req BookBundleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bundles/{id}/book - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(bundleID, userID)
	if err != nil {
		h.logger.Warn("POST /bundles/{id}/book - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, bookBundle.ErrDateInPast):
			h.logger.Warn("POST /bundles/{id}/book - Date in past: bundle_id=%d, user_id=%d", bundleID, userID)
			handlers.RespondBadRequest(w, msgDateInPast)

		case errors.Is(err, bookBundle.ErrInvalidInput):
			h.logger.Warn("POST /bundles/{id}/book - Invalid input: bundle_id=%d, error=%v", bundleID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, bookBundle.ErrBundleNotFound):
			h.logger.Warn("POST /bundles/{id}/book - Bundle not found: bundle_id=%d", bundleID)
			handlers.RespondNotFound(w, msgBundleNotFound)

		case errors.Is(err, bookBundle.ErrBundleInactive):
			h.logger.Warn("POST /bundles/{id}/book - Bundle inactive: bundle_id=%d", bundleID)
			handlers.RespondConflict(w, msgBundleInactive)

		case errors.Is(err, bookBundle.ErrBundleOutOfValidity):
			h.logger.Warn("POST /bundles/{id}/book - Bundle out of validity: bundle_id=%d", bundleID)
			handlers.RespondConflict(w, msgBundleOutOfValidity)

		case errors.Is(err, bookBundle.ErrBundleSoldOut):
			h.logger.Warn("POST /bundles/{id}/book - Bundle sold out: bundle_id=%d", bundleID)
			handlers.RespondConflict(w, msgBundleSoldOut)

		case errors.Is(err, bookBundle.ErrBusinessClosed):
			h.logger.Warn("POST /bundles/{id}/book - Business closed: bundle_id=%d", bundleID)
			handlers.RespondDomainError(w, err, msgBusinessClosed)

		case errors.Is(err, bookBundle.ErrOutsideOpenHours):
			h.logger.Warn("POST /bundles/{id}/book - Outside open hours: bundle_id=%d, start=%s", bundleID, req.StartTime)
			handlers.RespondDomainError(w, err, msgOutsideOpenHours)

		case errors.Is(err, bookBundle.ErrBusinessNotAvailable):
			h.logger.Warn("POST /bundles/{id}/book - Slot taken: bundle_id=%d", bundleID)
			handlers.RespondConflict(w, msgSlotTaken)

		case errors.Is(err, bookBundle.ErrConcurrentUpdate):
			h.logger.Warn("POST /bundles/{id}/book - Concurrent update: bundle_id=%d", bundleID)
			handlers.RespondConflict(w, msgConcurrentModification)

		default:
			h.logger.Error("POST /bundles/{id}/book - Failed to book bundle: bundle_id=%d, user_id=%d, error=%v",
				bundleID, userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bundles/{id}/book - Bundle booked successfully: bundle_id=%d, reservation_id=%d, user_id=%d",
		bundleID, result.ReservationID, userID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
