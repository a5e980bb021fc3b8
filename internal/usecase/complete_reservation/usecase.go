package complete_reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	completionRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/completion"
	reservationRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-SchedulingService/pkg/txmanager"
)

const operation = "complete"

// UseCase use case для завершения бронирования
type UseCase struct {
	reservationRepo ReservationRepository
	completionRepo  CompletionRepository
	bundleRepo      BundleRepository
	access          AccessChecker
	txManager       TransactionManager
	notifier        Notifier
	metrics         Metrics
	followUpDelay   time.Duration
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
// followUpDelay - через сколько после завершения клиенту уходит запрос отзыва
func NewUseCase(
	reservationRepo ReservationRepository,
	completionRepo CompletionRepository,
	bundleRepo BundleRepository,
	access AccessChecker,
	txManager TransactionManager,
	notifier Notifier,
	metrics Metrics,
	followUpDelay time.Duration,
	timeProvider TimeProvider,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		completionRepo:  completionRepo,
		bundleRepo:      bundleRepo,
		access:          access,
		txManager:       txManager,
		notifier:        notifier,
		metrics:         metrics,
		followUpDelay:   followUpDelay,
		timeProvider:    timeProvider,
		logger:          logger,
	}
}

// Execute выполняет завершение бронирования
// Статус, история обслуживания, списание товаров и записи услуг пакета пишутся одной транзакцией
func (uc *UseCase) Execute(ctx context.Context, req *Request) (resp *Response, err error) {
	uc.logger.Info("CompleteReservation: reservation=%d, user=%d, products=%d",
		req.ReservationID, req.UserID, len(req.ProductsUsed))

	defer func() { uc.metrics.IncReservationOutcome(operation, domain.Outcome(err)) }()

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CompleteReservation: validation failed: %v", err)
		return nil, err
	}

	// 2. Права: завершает бизнес; бронирование без бизнеса - сам клиент
	current, err := uc.reservationRepo.GetByID(ctx, req.ReservationID)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			uc.logger.Warn("CompleteReservation: reservation id=%d not found", req.ReservationID)
			return nil, ErrReservationNotFound
		}
		uc.logger.Error("CompleteReservation: failed to get reservation id=%d: %v", req.ReservationID, err)
		return nil, fmt.Errorf("%w: failed to get reservation: %w", ErrInternal, err)
	}
	actor, err := uc.access.ActorFor(ctx, req.UserID, current)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			uc.logger.Warn("CompleteReservation: user=%d has no access to reservation id=%d", req.UserID, req.ReservationID)
			return nil, ErrAccessDenied
		}
		uc.logger.Error("CompleteReservation: access check failed: %v", err)
		return nil, fmt.Errorf("%w: access check failed: %w", ErrInternal, err)
	}
	if current.BusinessID != nil && actor != domain.ActorBusiness {
		uc.logger.Warn("CompleteReservation: customer=%d cannot complete business reservation id=%d", req.UserID, req.ReservationID)
		return nil, ErrAccessDenied
	}

	now := uc.timeProvider.Now()
	followUpAt := now.Add(uc.followUpDelay)

	var (
		updated   *domain.Reservation
		historyID *int64
		usage     []domain.InventoryUsage
	)

	// 3. Сериализуемая транзакция: все записи создаются вместе или не создаются вовсе
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		historyID = nil

		r, err := uc.reservationRepo.GetByID(txCtx, req.ReservationID)
		if err != nil {
			if errors.Is(err, reservationRepo.ErrReservationNotFound) {
				return ErrReservationNotFound
			}
			return fmt.Errorf("%w: failed to get reservation: %w", ErrInternal, err)
		}

		// 3.1. Статус
		if !r.CanBeCompleted() {
			return fmt.Errorf("%w: status %s", ErrCannotComplete, r.Status)
		}
		r.Status = domain.StatusCompleted
		r.CompletedAt = &now
		r.FollowUpDueAt = &followUpAt
		if req.Notes != nil && *req.Notes != "" {
			if r.Notes == "" {
				r.Notes = *req.Notes
			} else {
				r.Notes += "\n" + *req.Notes
			}
		}

		updated, err = uc.reservationRepo.Update(txCtx, r)
		if err != nil {
			return fmt.Errorf("%w: failed to update reservation: %w", ErrInternal, err)
		}

		// 3.2. История обслуживания автомобиля
		if r.VehicleID != nil {
			rec := &domain.ServiceHistoryRecord{
				ReservationID:     r.ID,
				CustomerID:        r.CustomerID,
				VehicleID:         *r.VehicleID,
				BusinessID:        r.BusinessID,
				StaffID:           r.StaffID,
				ServiceDescriptor: r.ServiceDescriptor,
				ServiceDate:       r.Date,
				Price:             r.Price,
			}
			if req.Notes != nil {
				rec.Notes = *req.Notes
			}
			created, err := uc.completionRepo.CreateHistory(txCtx, rec)
			if err != nil {
				return fmt.Errorf("%w: failed to create service history: %w", ErrInternal, err)
			}
			historyID = &created.ID
		}

		// 3.3. Списание товаров, по одной записи на товар
		usage = make([]domain.InventoryUsage, 0, len(req.ProductsUsed))
		for _, p := range req.ProductsUsed {
			u, err := uc.completionRepo.ConsumeProduct(txCtx, p, r.ID, historyID)
			if err != nil {
				switch {
				case errors.Is(err, completionRepo.ErrProductNotFound):
					return fmt.Errorf("%w: id=%d", ErrProductNotFound, p.ProductID)
				case errors.Is(err, completionRepo.ErrInsufficientStock):
					return fmt.Errorf("%w: product id=%d, requested %d", ErrInsufficientStock, p.ProductID, p.Quantity)
				}
				return fmt.Errorf("%w: failed to consume product id=%d: %w", ErrInternal, p.ProductID, err)
			}
			usage = append(usage, *u)
		}

		// 3.4. Услуги пакета
		if r.IsBundle() {
			if _, err := uc.bundleRepo.CompleteServiceRecords(txCtx, r.ID); err != nil {
				return fmt.Errorf("%w: failed to complete bundle services: %w", ErrInternal, err)
			}
		}

		return nil
	})
	if err != nil {
		err = uc.mapTxError(err)
		return nil, err
	}

	uc.logger.Info("CompleteReservation: reservation id=%d completed by %s, %d products consumed",
		updated.ID, actor, len(usage))

	// 4. После фиксации: уведомление
	uc.notifier.Notify(ctx, domain.EventReservationCompleted, *updated, &actor)

	return &Response{
		ReservationID:   updated.ID,
		HistoryRecordID: historyID,
		Reservation:     updated,
		Usage:           usage,
	}, nil
}

// mapTxError логирует и приводит ошибку транзакции к ошибке use case
func (uc *UseCase) mapTxError(err error) error {
	if errors.Is(err, txmanager.ErrSerialization) {
		uc.logger.Warn("CompleteReservation: serialization retries exhausted: %v", err)
		return fmt.Errorf("%w: %v", ErrConcurrentUpdate, err)
	}
	if domain.Outcome(err) == domain.OutcomeError {
		uc.logger.Error("CompleteReservation: %v", err)
		if errors.Is(err, ErrInternal) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrInternal, err)
	}
	uc.logger.Warn("CompleteReservation: rejected: %v", err)
	return err
}
