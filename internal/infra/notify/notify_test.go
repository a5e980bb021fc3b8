package notify

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/config"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/clock"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

type fakePublisher struct {
	mu     sync.Mutex
	events []domain.ReservationEvent
	err    error
	closed bool
}

func (p *fakePublisher) Publish(ctx context.Context, event domain.ReservationEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func (p *fakePublisher) Close() error {
	p.closed = true
	return nil
}

type fakeMetrics struct {
	mu     sync.Mutex
	counts map[string]int
}

func (m *fakeMetrics) IncNotification(eventType, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.counts == nil {
		m.counts = map[string]int{}
	}
	m.counts[eventType+"/"+outcome]++
}

var now = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func sampleReservation() domain.Reservation {
	price := decimal.RequireFromString("49.9")
	return domain.Reservation{
		ID:                42,
		CustomerID:        7,
		BusinessID:        ptr.Ptr(int64(3)),
		Date:              time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC),
		StartTime:         types.MustTimeString("10:00"),
		EndTime:           types.MustTimeString("11:30"),
		ServiceDescriptor: "Full detail",
		Status:            domain.StatusScheduled,
		Price:             &price,
		CustomerInfo:      &domain.CustomerContact{Name: "Ann", Phone: "+100", Email: "ann@example.com"},
	}
}

func TestNotifier_PublishesEventWithID(t *testing.T) {
	pub := &fakePublisher{}
	m := &fakeMetrics{}
	n := NewNotifier(pub, m, clock.Fixed{At: now}, logger.NewNop(), time.Second)

	actor := domain.ActorCustomer
	n.Notify(context.Background(), domain.EventReservationCreated, sampleReservation(), &actor)
	require.NoError(t, n.Close())

	require.Len(t, pub.events, 1)
	ev := pub.events[0]
	_, err := uuid.Parse(ev.ID)
	assert.NoError(t, err)
	assert.Equal(t, domain.EventReservationCreated, ev.Type)
	assert.Equal(t, int64(7), ev.RecipientID)
	assert.Equal(t, now, ev.OccurredAt)
	assert.True(t, pub.closed)
	assert.Equal(t, 1, m.counts["reservation.created/sent"])
}

func TestNotifier_FailureIsSwallowed(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	m := &fakeMetrics{}
	n := NewNotifier(pub, m, clock.Fixed{At: now}, logger.NewNop(), time.Second)

	n.Notify(context.Background(), domain.EventReservationCancelled, sampleReservation(), nil)
	require.NoError(t, n.Close())

	assert.Equal(t, 1, m.counts["reservation.cancelled/failed"])
}

func TestNotifier_SurvivesCancelledRequestContext(t *testing.T) {
	pub := &fakePublisher{}
	n := NewNotifier(pub, nil, clock.Fixed{At: now}, logger.NewNop(), time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	n.Notify(ctx, domain.EventReservationCompleted, sampleReservation(), nil)
	cancel()
	require.NoError(t, n.Close())

	assert.Len(t, pub.events, 1)
}

func TestNotifyNow_ReturnsError(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	n := NewNotifier(pub, nil, clock.Fixed{At: now}, logger.NewNop(), time.Second)

	err := n.NotifyNow(context.Background(), domain.EventReservationReminder, sampleReservation())
	assert.Error(t, err)
}

func TestEncode(t *testing.T) {
	actor := domain.ActorBusiness
	body, err := Encode(domain.ReservationEvent{
		ID:          "evt-1",
		Type:        domain.EventReservationRescheduled,
		RecipientID: 7,
		Actor:       &actor,
		OccurredAt:  now,
		Reservation: sampleReservation(),
	})
	require.NoError(t, err)

	var msg Message
	require.NoError(t, json.Unmarshal(body, &msg))

	assert.Equal(t, "reservation.rescheduled", msg.Type)
	assert.Equal(t, "business", *msg.Actor)
	assert.Equal(t, "2026-03-12", msg.Reservation.Date)
	assert.Equal(t, "10:00", msg.Reservation.StartTime)
	assert.Equal(t, "11:30", msg.Reservation.EndTime)
	assert.Equal(t, "49.90", *msg.Reservation.Price)
	assert.Equal(t, "Ann", *msg.Reservation.CustomerName)
	assert.Nil(t, msg.Reservation.StaffID)
}

func TestNewPublisher_SelectsDriver(t *testing.T) {
	pub, err := NewPublisher(config.NotificationsConfig{Driver: config.NotifyDriverLog}, logger.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &LogPublisher{}, pub)

	pub, err = NewPublisher(config.NotificationsConfig{
		Driver:       config.NotifyDriverKafka,
		KafkaBrokers: "k1:9092",
		KafkaTopic:   "reservation-events",
	}, logger.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &KafkaPublisher{}, pub)
	assert.NoError(t, pub.Close())

	_, err = NewPublisher(config.NotificationsConfig{Driver: "smtp"}, logger.NewNop())
	assert.ErrorIs(t, err, ErrConnect)
}
