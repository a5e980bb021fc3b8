package create_reservation

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-SchedulingService/internal/scheduling"
	"github.com/m04kA/SMC-SchedulingService/pkg/txmanager"
)

const operation = "create"

// UseCase use case для создания бронирования
type UseCase struct {
	reservationRepo ReservationRepository
	conflicts       ConflictChecker
	hours           HoursResolver
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
	conflicts ConflictChecker,
	hours HoursResolver,
	txManager TransactionManager,
	notifier Notifier,
	cache SlotCache,
	metrics Metrics,
	timeProvider TimeProvider,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		conflicts:       conflicts,
		hours:           hours,
		txManager:       txManager,
		notifier:        notifier,
		cache:           cache,
		metrics:         metrics,
		timeProvider:    timeProvider,
		logger:          logger,
	}
}

// Execute выполняет use case создания бронирования
// Проверка пересечений и вставка идут в одной сериализуемой транзакции
func (uc *UseCase) Execute(ctx context.Context, req *Request) (resp *Response, err error) {
	uc.logger.Info("CreateReservation: customer=%d, date=%s, time=%s-%s",
		req.CustomerID, req.Date.Format(domain.DateFormat), req.StartTime, req.EndTime)

	defer func() { uc.metrics.IncReservationOutcome(operation, domain.Outcome(err)) }()

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateReservation: validation failed: %v", err)
		return nil, err
	}

	// 2. Дата и время не в прошлом
	now := uc.timeProvider.Now()
	if err := validateNotPast(req.Date, req.StartTime, now); err != nil {
		uc.logger.Warn("CreateReservation: %v", err)
		return nil, err
	}

	date := scheduling.DateOnly(req.Date)
	slot := domain.Slot{Start: req.StartTime, End: req.EndTime}

	reservation := &domain.Reservation{
		CustomerID:        req.CustomerID,
		StaffID:           req.StaffID,
		VehicleID:         req.VehicleID,
		BusinessID:        req.BusinessID,
		Date:              date,
		StartTime:         req.StartTime,
		EndTime:           req.EndTime,
		ServiceDescriptor: req.ServiceDescriptor,
		Status:            domain.StatusScheduled,
		Price:             req.Price,
	}
	if req.Notes != nil {
		reservation.Notes = *req.Notes
	}

	var created *domain.Reservation

	// 3. Сериализуемая транзакция: часы работы, пересечения, вставка
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 3.1. Интервал в пределах часов работы бизнеса
		if req.BusinessID != nil {
			hours, err := uc.hours.Resolve(txCtx, *req.BusinessID, date)
			if err != nil {
				return fmt.Errorf("%w: failed to resolve open hours: %w", ErrInternal, err)
			}
			if !hours.IsOpen {
				return ErrBusinessClosed
			}
			if !hours.Contains(slot) {
				return fmt.Errorf("%w: open %s-%s", ErrOutsideOpenHours, hours.OpenTime, hours.CloseTime)
			}
		}

		// 3.2. Пересечения с активными бронированиями
		query := scheduling.QueryFor(req.StaffID, req.BusinessID, date, nil)
		conflict, err := uc.conflicts.Check(txCtx, query, slot)
		if err != nil {
			return fmt.Errorf("%w: failed to check conflicts: %w", ErrInternal, err)
		}
		if conflict != nil {
			return conflictError(conflict.Scope, conflict.With)
		}

		// 3.3. Вставка
		created, err = uc.reservationRepo.Create(txCtx, reservation)
		if err != nil {
			if errors.Is(err, reservationRepo.ErrOverlap) {
				return overlapError(req.StaffID)
			}
			return fmt.Errorf("%w: failed to create reservation: %w", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		err = uc.mapTxError(err)
		return nil, err
	}

	uc.logger.Info("CreateReservation: created reservation id=%d for customer=%d", created.ID, created.CustomerID)

	// 4. После фиксации: кэш и уведомление
	if created.BusinessID != nil {
		if cacheErr := uc.cache.InvalidateDay(ctx, *created.BusinessID, created.Date); cacheErr != nil {
			uc.logger.Warn("CreateReservation: failed to invalidate slots cache: %v", cacheErr)
		}
	}
	actor := domain.ActorCustomer
	uc.notifier.Notify(ctx, domain.EventReservationCreated, *created, &actor)

	return &Response{Reservation: created}, nil
}

// mapTxError логирует и приводит ошибку транзакции к ошибке use case
func (uc *UseCase) mapTxError(err error) error {
	if errors.Is(err, txmanager.ErrSerialization) {
		uc.logger.Warn("CreateReservation: serialization retries exhausted: %v", err)
		return fmt.Errorf("%w: %v", ErrConcurrentUpdate, err)
	}
	if domain.Outcome(err) == domain.OutcomeError {
		uc.logger.Error("CreateReservation: %v", err)
		if errors.Is(err, ErrInternal) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrInternal, err)
	}
	uc.logger.Warn("CreateReservation: rejected: %v", err)
	return err
}

func conflictError(scope domain.ScopeKind, with *domain.Reservation) error {
	if scope == domain.ScopeStaff {
		return fmt.Errorf("%w: overlaps reservation id=%d (%s-%s)", ErrStaffNotAvailable, with.ID, with.StartTime, with.EndTime)
	}
	return fmt.Errorf("%w: overlaps reservation id=%d (%s-%s)", ErrBusinessNotAvailable, with.ID, with.StartTime, with.EndTime)
}

func overlapError(staffID *int64) error {
	if staffID != nil {
		return ErrStaffNotAvailable
	}
	return ErrBusinessNotAvailable
}
