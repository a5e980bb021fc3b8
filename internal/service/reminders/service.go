package reminders

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/scheduling"
)

const defaultBatchSize = 100

// Result итог одного запуска диспетчера
type Result struct {
	RemindersSent int
	FollowUpsSent int
	Failed        int
}

// Dispatcher рассылает напоминания о завтрашних визитах и запросы отзыва после завершения
// Флаг отправки ставится только после успешной публикации, поэтому неудачные попадут в следующий запуск
type Dispatcher struct {
	repo      ReservationRepository
	notifier  Notifier
	clock     TimeProvider
	logger    Logger
	batchSize int
}

// NewDispatcher создает диспетчер
func NewDispatcher(repo ReservationRepository, notifier Notifier, clock TimeProvider, logger Logger, batchSize int) *Dispatcher {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &Dispatcher{
		repo:      repo,
		notifier:  notifier,
		clock:     clock,
		logger:    logger,
		batchSize: batchSize,
	}
}

// Run выполняет один проход рассылки
func (d *Dispatcher) Run(ctx context.Context) (Result, error) {
	var res Result
	now := d.clock.Now()
	tomorrow := scheduling.DateOnly(now).AddDate(0, 0, 1)

	due, err := d.repo.ListDueReminders(ctx, tomorrow, d.batchSize)
	if err != nil {
		d.logger.Error("Dispatcher: failed to list reminders for %s: %v", tomorrow.Format(domain.DateFormat), err)
		return res, fmt.Errorf("%w: list reminders: %w", ErrInternal, err)
	}
	for _, r := range due {
		if d.send(ctx, domain.EventReservationReminder, r, d.repo.MarkReminderSent) {
			res.RemindersSent++
		} else {
			res.Failed++
		}
	}

	followUps, err := d.repo.ListDueFollowUps(ctx, now, d.batchSize)
	if err != nil {
		d.logger.Error("Dispatcher: failed to list follow-ups: %v", err)
		return res, fmt.Errorf("%w: list follow-ups: %w", ErrInternal, err)
	}
	for _, r := range followUps {
		if d.send(ctx, domain.EventReservationFollowUp, r, d.repo.MarkFollowUpSent) {
			res.FollowUpsSent++
		} else {
			res.Failed++
		}
	}

	d.logger.Info("Dispatcher: reminders=%d, follow-ups=%d, failed=%d", res.RemindersSent, res.FollowUpsSent, res.Failed)
	return res, nil
}

func (d *Dispatcher) send(ctx context.Context, eventType domain.EventType, r *domain.Reservation, mark func(ctx context.Context, id int64) error) bool {
	if err := d.notifier.NotifyNow(ctx, eventType, *r); err != nil {
		d.logger.Warn("Dispatcher: %s for reservation id=%d not sent: %v", eventType, r.ID, err)
		return false
	}
	if err := mark(ctx, r.ID); err != nil {
		// Событие ушло, но флаг не записан: возможна повторная отправка
		d.logger.Error("Dispatcher: failed to mark %s for reservation id=%d: %v", eventType, r.ID, err)
		return false
	}
	return true
}
