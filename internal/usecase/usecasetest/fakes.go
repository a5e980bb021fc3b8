package usecasetest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/service/access"
)

// Access проверка доступа по списку участников бизнеса
type Access struct {
	Members map[int64][]int64 // businessID -> userIDs
}

// ActorFor клиент бронирования или участник бизнеса, иначе access.ErrAccessDenied
func (a *Access) ActorFor(ctx context.Context, userID int64, r *domain.Reservation) (domain.Actor, error) {
	if r.CustomerID == userID {
		return domain.ActorCustomer, nil
	}
	if r.BusinessID != nil {
		for _, id := range a.Members[*r.BusinessID] {
			if id == userID {
				return domain.ActorBusiness, nil
			}
		}
	}
	return "", access.ErrAccessDenied
}

// SentEvent отправленное уведомление
type SentEvent struct {
	Type          domain.EventType
	ReservationID int64
	Actor         *domain.Actor
}

// Notifier запоминает уведомления
type Notifier struct {
	mu     sync.Mutex
	events []SentEvent
}

func (n *Notifier) Notify(ctx context.Context, eventType domain.EventType, r domain.Reservation, actor *domain.Actor) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, SentEvent{Type: eventType, ReservationID: r.ID, Actor: actor})
}

// Events возвращает отправленные уведомления
func (n *Notifier) Events() []SentEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]SentEvent(nil), n.events...)
}

// Cache in-memory кэш слотов, запоминающий инвалидации
type Cache struct {
	mu          sync.Mutex
	entries     map[string][]domain.Slot
	invalidated []string
}

// NewCache создает пустой кэш
func NewCache() *Cache {
	return &Cache{entries: make(map[string][]domain.Slot)}
}

func dayKey(businessID int64, date time.Time) string {
	return fmt.Sprintf("%d:%s", businessID, date.Format(domain.DateFormat))
}

func variantKey(businessID int64, date time.Time, durationMinutes, intervalMinutes int) string {
	return fmt.Sprintf("%s:%d:%d", dayKey(businessID, date), durationMinutes, intervalMinutes)
}

func (c *Cache) Get(ctx context.Context, businessID int64, date time.Time, durationMinutes, intervalMinutes int) ([]domain.Slot, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	slots, ok := c.entries[variantKey(businessID, date, durationMinutes, intervalMinutes)]
	return append([]domain.Slot(nil), slots...), ok, nil
}

func (c *Cache) Set(ctx context.Context, businessID int64, date time.Time, durationMinutes, intervalMinutes int, slots []domain.Slot) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[variantKey(businessID, date, durationMinutes, intervalMinutes)] = append([]domain.Slot(nil), slots...)
	return nil
}

func (c *Cache) InvalidateDay(ctx context.Context, businessID int64, date time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	prefix := dayKey(businessID, date)
	for key := range c.entries {
		if len(key) > len(prefix) && key[:len(prefix)+1] == prefix+":" {
			delete(c.entries, key)
		}
	}
	c.invalidated = append(c.invalidated, prefix)
	return nil
}

// Invalidated возвращает ключи "business:date" инвалидированных дней
func (c *Cache) Invalidated() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.invalidated...)
}

// Len число закэшированных вариантов
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// DayKey ключ дня в формате Invalidated
func DayKey(businessID int64, date time.Time) string {
	return dayKey(businessID, date)
}

// Metrics считает исходы операций
type Metrics struct {
	mu          sync.Mutex
	outcomes    map[string]int
	redemptions map[string]int
}

// NewMetrics создает счетчики
func NewMetrics() *Metrics {
	return &Metrics{outcomes: make(map[string]int), redemptions: make(map[string]int)}
}

func (m *Metrics) IncReservationOutcome(operation, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes[operation+":"+outcome]++
}

func (m *Metrics) IncBundleRedemption(direction string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.redemptions[direction]++
}

// Outcome число операций с данным исходом
func (m *Metrics) Outcome(operation, outcome string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.outcomes[operation+":"+outcome]
}

// Redemptions число изменений счетчика погашений в направлении direction
func (m *Metrics) Redemptions(direction string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.redemptions[direction]
}
