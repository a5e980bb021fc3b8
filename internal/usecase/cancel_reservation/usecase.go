package cancel_reservation

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-SchedulingService/pkg/txmanager"
)

const operation = "cancel"

// UseCase use case для отмены бронирования
type UseCase struct {
	reservationRepo ReservationRepository
	bundleRepo      BundleRepository
	access          AccessChecker
	txManager       TransactionManager
	notifier        Notifier
	cache           SlotCache
	metrics         Metrics
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	bundleRepo BundleRepository,
	access AccessChecker,
	txManager TransactionManager,
	notifier Notifier,
	cache SlotCache,
	metrics Metrics,
	timeProvider TimeProvider,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		bundleRepo:      bundleRepo,
		access:          access,
		txManager:       txManager,
		notifier:        notifier,
		cache:           cache,
		metrics:         metrics,
		timeProvider:    timeProvider,
		logger:          logger,
	}
}

// Execute выполняет отмену бронирования
// Повторная отмена не ошибка: статус применяется заново и дописывается еще одна строка заметки.
// Для пакетного бронирования счетчик погашений и записи услуг меняются в той же транзакции, только при первой отмене
func (uc *UseCase) Execute(ctx context.Context, req *Request) (resp *Response, err error) {
	uc.logger.Info("CancelReservation: reservation=%d, user=%d", req.ReservationID, req.UserID)

	defer func() { uc.metrics.IncReservationOutcome(operation, domain.Outcome(err)) }()

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CancelReservation: validation failed: %v", err)
		return nil, err
	}

	// 2. Права: отменять может клиент или бизнес бронирования
	current, err := uc.reservationRepo.GetByID(ctx, req.ReservationID)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			uc.logger.Warn("CancelReservation: reservation id=%d not found", req.ReservationID)
			return nil, ErrReservationNotFound
		}
		uc.logger.Error("CancelReservation: failed to get reservation id=%d: %v", req.ReservationID, err)
		return nil, fmt.Errorf("%w: failed to get reservation: %w", ErrInternal, err)
	}
	actor, err := uc.access.ActorFor(ctx, req.UserID, current)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			uc.logger.Warn("CancelReservation: user=%d has no access to reservation id=%d", req.UserID, req.ReservationID)
			return nil, ErrAccessDenied
		}
		uc.logger.Error("CancelReservation: access check failed: %v", err)
		return nil, fmt.Errorf("%w: access check failed: %w", ErrInternal, err)
	}

	now := uc.timeProvider.Now()
	note := cancellationNote(req.Reason)

	var (
		updated          *domain.Reservation
		alreadyCancelled bool
		released         bool
	)

	// 3. Сериализуемая транзакция: статус, заметка, счетчик пакета
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		r, err := uc.reservationRepo.GetByID(txCtx, req.ReservationID)
		if err != nil {
			if errors.Is(err, reservationRepo.ErrReservationNotFound) {
				return ErrReservationNotFound
			}
			return fmt.Errorf("%w: failed to get reservation: %w", ErrInternal, err)
		}

		alreadyCancelled = r.IsCancelled()
		if !alreadyCancelled && !r.CanBeCancelled() {
			return fmt.Errorf("%w: status %s", ErrCannotCancel, r.Status)
		}

		r.Status = domain.StatusCancelled
		r.Notes = appendNote(r.Notes, note)
		if r.CancelledAt == nil {
			r.CancelledAt = &now
		}

		updated, err = uc.reservationRepo.Update(txCtx, r)
		if err != nil {
			return fmt.Errorf("%w: failed to update reservation: %w", ErrInternal, err)
		}

		if alreadyCancelled || !r.IsBundle() {
			return nil
		}

		// Погашение пакета возвращается вместе с отменой
		left, err := uc.bundleRepo.DecrementRedemptions(txCtx, *r.BundleID)
		if err != nil {
			return fmt.Errorf("%w: failed to release bundle redemption: %w", ErrInternal, err)
		}
		cancelled, err := uc.bundleRepo.CancelServiceRecords(txCtx, r.ID)
		if err != nil {
			return fmt.Errorf("%w: failed to cancel bundle services: %w", ErrInternal, err)
		}
		released = true
		uc.logger.Info("CancelReservation: bundle id=%d redemptions=%d, %d service records cancelled",
			*r.BundleID, left, cancelled)
		return nil
	})
	if err != nil {
		err = uc.mapTxError(err)
		return nil, err
	}

	if alreadyCancelled {
		uc.logger.Info("CancelReservation: reservation id=%d was already cancelled, note appended", updated.ID)
		return &Response{Success: true, AlreadyCancelled: true, Reservation: updated}, nil
	}

	uc.logger.Info("CancelReservation: reservation id=%d cancelled by %s", updated.ID, actor)

	// 4. После фиксации: метрика пакета, кэш, уведомление
	if released {
		uc.metrics.IncBundleRedemption("down")
	}
	if updated.BusinessID != nil {
		if cacheErr := uc.cache.InvalidateDay(ctx, *updated.BusinessID, updated.Date); cacheErr != nil {
			uc.logger.Warn("CancelReservation: failed to invalidate slots cache: %v", cacheErr)
		}
	}
	uc.notifier.Notify(ctx, domain.EventReservationCancelled, *updated, &actor)

	return &Response{Success: true, Reservation: updated}, nil
}

// mapTxError логирует и приводит ошибку транзакции к ошибке use case
func (uc *UseCase) mapTxError(err error) error {
	if errors.Is(err, txmanager.ErrSerialization) {
		uc.logger.Warn("CancelReservation: serialization retries exhausted: %v", err)
		return fmt.Errorf("%w: %v", ErrConcurrentUpdate, err)
	}
	if domain.Outcome(err) == domain.OutcomeError {
		uc.logger.Error("CancelReservation: %v", err)
		if errors.Is(err, ErrInternal) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrInternal, err)
	}
	uc.logger.Warn("CancelReservation: rejected: %v", err)
	return err
}
