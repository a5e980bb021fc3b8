package book_bundle

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	bundleRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/bundle"
	reservationRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-SchedulingService/internal/scheduling"
	"github.com/m04kA/SMC-SchedulingService/pkg/txmanager"
)

const operation = "book_bundle"

// UseCase use case для бронирования пакета услуг
type UseCase struct {
	reservationRepo ReservationRepository
	bundleRepo      BundleRepository
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
	bundleRepo BundleRepository,
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
		bundleRepo:      bundleRepo,
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

// Execute бронирует пакет услуг
// Бронирование, счетчик погашений и записи услуг пишутся одной транзакцией
func (uc *UseCase) Execute(ctx context.Context, req *Request) (resp *Response, err error) {
	uc.logger.Info("BookBundle: bundle=%d, customer=%d, date=%s, start=%s",
		req.BundleID, req.CustomerID, req.Date.Format(domain.DateFormat), req.StartTime)

	defer func() { uc.metrics.IncReservationOutcome(operation, domain.Outcome(err)) }()

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("BookBundle: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()
	if err := validateNotPast(req.Date, req.StartTime, now); err != nil {
		uc.logger.Warn("BookBundle: %v", err)
		return nil, err
	}
	date := scheduling.DateOnly(req.Date)

	var (
		created *domain.Reservation
		records []domain.BundleServiceRecord
	)

	// 2. Сериализуемая транзакция
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 2.1. Предусловия пакета, строго по порядку
		bundle, err := uc.bundleRepo.GetByID(txCtx, req.BundleID)
		if err != nil {
			if errors.Is(err, bundleRepo.ErrBundleNotFound) {
				return ErrBundleNotFound
			}
			return fmt.Errorf("%w: failed to get bundle: %w", ErrInternal, err)
		}
		if !bundle.IsActive {
			return ErrBundleInactive
		}
		if !bundle.IsWithinValidity(now) {
			return ErrBundleOutOfValidity
		}
		if !bundle.HasCapacity() {
			return fmt.Errorf("%w: %d of %d used", ErrBundleSoldOut, bundle.CurrentRedemptions, *bundle.MaxRedemptions)
		}

		// 2.2. Интервал по суммарной длительности услуг
		duration := bundle.DurationMinutes()
		if duration <= 0 {
			return fmt.Errorf("%w: bundle has no services", ErrBundleInactive)
		}
		end, err := req.StartTime.AddMinutes(duration)
		if err != nil {
			return fmt.Errorf("%w: %d minutes from %s crosses midnight", ErrOutsideOpenHours, duration, req.StartTime)
		}
		slot := domain.Slot{Start: req.StartTime, End: end}

		// 2.3. Часы работы и пересечения по всему бизнесу
		hours, err := uc.hours.Resolve(txCtx, bundle.BusinessID, date)
		if err != nil {
			return fmt.Errorf("%w: failed to resolve open hours: %w", ErrInternal, err)
		}
		if !hours.IsOpen {
			return ErrBusinessClosed
		}
		if !hours.Contains(slot) {
			return fmt.Errorf("%w: %s-%s, open %s-%s", ErrOutsideOpenHours, slot.Start, slot.End, hours.OpenTime, hours.CloseTime)
		}

		businessID := bundle.BusinessID
		conflict, err := uc.conflicts.Check(txCtx, scheduling.QueryFor(nil, &businessID, date, nil), slot)
		if err != nil {
			return fmt.Errorf("%w: failed to check conflicts: %w", ErrInternal, err)
		}
		if conflict != nil {
			return fmt.Errorf("%w: overlaps reservation id=%d (%s-%s)",
				ErrBusinessNotAvailable, conflict.With.ID, conflict.With.StartTime, conflict.With.EndTime)
		}

		// 2.4. Бронирование, погашение, записи услуг
		price := bundle.TotalPrice
		contact := req.CustomerInfo
		reservation := &domain.Reservation{
			CustomerID:        req.CustomerID,
			VehicleID:         req.VehicleID,
			BusinessID:        &businessID,
			BundleID:          &bundle.ID,
			Date:              date,
			StartTime:         slot.Start,
			EndTime:           slot.End,
			ServiceDescriptor: bundle.Name,
			Status:            domain.StatusScheduled,
			Price:             &price,
			CustomerInfo:      &contact,
		}
		if req.Notes != nil {
			reservation.Notes = *req.Notes
		}

		created, err = uc.reservationRepo.Create(txCtx, reservation)
		if err != nil {
			if errors.Is(err, reservationRepo.ErrOverlap) {
				return ErrBusinessNotAvailable
			}
			return fmt.Errorf("%w: failed to create reservation: %w", ErrInternal, err)
		}

		if _, err := uc.bundleRepo.IncrementRedemptions(txCtx, bundle.ID); err != nil {
			if errors.Is(err, bundleRepo.ErrSoldOut) {
				return ErrBundleSoldOut
			}
			return fmt.Errorf("%w: failed to increment redemptions: %w", ErrInternal, err)
		}

		records, err = uc.bundleRepo.CreateServiceRecords(txCtx, created.ID, bundle)
		if err != nil {
			return fmt.Errorf("%w: failed to create bundle service records: %w", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		err = uc.mapTxError(err)
		return nil, err
	}

	uc.logger.Info("BookBundle: reservation id=%d created for bundle id=%d, %d services",
		created.ID, req.BundleID, len(records))

	// 3. После фиксации: метрика, кэш, уведомление
	uc.metrics.IncBundleRedemption("up")
	if cacheErr := uc.cache.InvalidateDay(ctx, *created.BusinessID, created.Date); cacheErr != nil {
		uc.logger.Warn("BookBundle: failed to invalidate slots cache: %v", cacheErr)
	}
	actor := domain.ActorCustomer
	uc.notifier.Notify(ctx, domain.EventReservationCreated, *created, &actor)

	return &Response{
		ReservationID:  created.ID,
		BundleID:       req.BundleID,
		Reservation:    created,
		ServiceRecords: records,
	}, nil
}

// mapTxError логирует и приводит ошибку транзакции к ошибке use case
func (uc *UseCase) mapTxError(err error) error {
	if errors.Is(err, txmanager.ErrSerialization) {
		uc.logger.Warn("BookBundle: serialization retries exhausted: %v", err)
		return fmt.Errorf("%w: %v", ErrConcurrentUpdate, err)
	}
	if domain.Outcome(err) == domain.OutcomeError {
		uc.logger.Error("BookBundle: %v", err)
		if errors.Is(err, ErrInternal) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrInternal, err)
	}
	uc.logger.Warn("BookBundle: rejected: %v", err)
	return err
}
