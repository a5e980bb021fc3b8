package notify

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

const (
	outcomeSent   = "sent"
	outcomeFailed = "failed"
)

// Notifier отправляет события после фиксации изменений
// Отправка асинхронная и best-effort: ошибка пишется в лог и в метрику, но не возвращается вызывающему
type Notifier struct {
	publisher Publisher
	metrics   Metrics
	clock     TimeProvider
	logger    Logger
	timeout   time.Duration

	wg sync.WaitGroup
}

// NewNotifier создает Notifier
// metrics может быть nil
func NewNotifier(publisher Publisher, metrics Metrics, clock TimeProvider, logger Logger, timeout time.Duration) *Notifier {
	return &Notifier{
		publisher: publisher,
		metrics:   metrics,
		clock:     clock,
		logger:    logger,
		timeout:   timeout,
	}
}

// Notify публикует событие о бронировании в фоне
func (n *Notifier) Notify(ctx context.Context, eventType domain.EventType, r domain.Reservation, actor *domain.Actor) {
	event := domain.ReservationEvent{
		ID:          uuid.NewString(),
		Type:        eventType,
		RecipientID: r.CustomerID,
		Actor:       actor,
		OccurredAt:  n.clock.Now(),
		Reservation: r,
	}

	// Запрос может завершиться раньше публикации, поэтому отвязываемся от его отмены
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), n.timeout)

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		defer cancel()
		_ = n.publish(pubCtx, event)
	}()
}

// NotifyNow публикует событие синхронно и возвращает ошибку (для диспетчера напоминаний,
// которому нужно знать, отмечать ли бронирование как уведомленное)
func (n *Notifier) NotifyNow(ctx context.Context, eventType domain.EventType, r domain.Reservation) error {
	event := domain.ReservationEvent{
		ID:          uuid.NewString(),
		Type:        eventType,
		RecipientID: r.CustomerID,
		OccurredAt:  n.clock.Now(),
		Reservation: r,
	}

	pubCtx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()
	return n.publish(pubCtx, event)
}

func (n *Notifier) publish(ctx context.Context, event domain.ReservationEvent) error {
	if err := n.publisher.Publish(ctx, event); err != nil {
		n.logger.Error("Notifier: failed to publish %s for reservation id=%d: %v", event.Type, event.Reservation.ID, err)
		n.count(event.Type, outcomeFailed)
		return err
	}
	n.count(event.Type, outcomeSent)
	return nil
}

func (n *Notifier) count(eventType domain.EventType, outcome string) {
	if n.metrics != nil {
		n.metrics.IncNotification(string(eventType), outcome)
	}
}

// Close дожидается фоновых публикаций и закрывает publisher
func (n *Notifier) Close() error {
	n.wg.Wait()
	return n.publisher.Close()
}
