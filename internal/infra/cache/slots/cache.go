package slots

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

const keyPrefix = "slots"

// Store общий интерфейс Redis-кэша и заглушки
type Store interface {
	Get(ctx context.Context, businessID int64, date time.Time, durationMinutes, intervalMinutes int) ([]domain.Slot, bool, error)
	Set(ctx context.Context, businessID int64, date time.Time, durationMinutes, intervalMinutes int, slots []domain.Slot) error
	InvalidateDay(ctx context.Context, businessID int64, date time.Time) error
	InvalidateBusiness(ctx context.Context, businessID int64) error
}

var (
	_ Store = (*Cache)(nil)
	_ Store = Nop{}
)

// Cache кэш свободных слотов на день в Redis
// Все варианты (длительность, шаг) одного дня лежат в одном hash, поэтому инвалидация - один DEL
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache создает кэш слотов
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

type cachedSlot struct {
	Start string `json:"s"`
	End   string `json:"e"`
}

// Get возвращает закэшированные слоты; ok=false, если записи нет
func (c *Cache) Get(ctx context.Context, businessID int64, date time.Time, durationMinutes, intervalMinutes int) ([]domain.Slot, bool, error) {
	raw, err := c.client.HGet(ctx, dayKey(businessID, date), variantField(durationMinutes, intervalMinutes)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: get: %v", ErrCache, err)
	}

	var cached []cachedSlot
	if err := json.Unmarshal(raw, &cached); err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	out := make([]domain.Slot, 0, len(cached))
	for _, s := range cached {
		start, err := types.NewTimeStringFromString(s.Start)
		if err != nil {
			return nil, false, fmt.Errorf("%w: %v", ErrDecode, err)
		}
		end, err := types.NewTimeStringFromString(s.End)
		if err != nil {
			return nil, false, fmt.Errorf("%w: %v", ErrDecode, err)
		}
		out = append(out, domain.Slot{Start: start, End: end})
	}
	return out, true, nil
}

// Set сохраняет слоты дня с TTL
func (c *Cache) Set(ctx context.Context, businessID int64, date time.Time, durationMinutes, intervalMinutes int, slots []domain.Slot) error {
	cached := make([]cachedSlot, 0, len(slots))
	for _, s := range slots {
		cached = append(cached, cachedSlot{Start: s.Start.String(), End: s.End.String()})
	}

	raw, err := json.Marshal(cached)
	if err != nil {
		return fmt.Errorf("%w: encode: %v", ErrCache, err)
	}

	key := dayKey(businessID, date)
	pipe := c.client.TxPipeline()
	pipe.HSet(ctx, key, variantField(durationMinutes, intervalMinutes), raw)
	pipe.Expire(ctx, key, c.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: set: %v", ErrCache, err)
	}
	return nil
}

// InvalidateDay удаляет все варианты слотов бизнеса на дату
func (c *Cache) InvalidateDay(ctx context.Context, businessID int64, date time.Time) error {
	if err := c.client.Del(ctx, dayKey(businessID, date)).Err(); err != nil {
		return fmt.Errorf("%w: invalidate: %v", ErrCache, err)
	}
	return nil
}

// InvalidateBusiness удаляет слоты бизнеса на все даты (после смены недельного шаблона)
func (c *Cache) InvalidateBusiness(ctx context.Context, businessID int64) error {
	iter := c.client.Scan(ctx, 0, businessPattern(businessID), 100).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("%w: scan: %v", ErrCache, err)
	}
	if len(keys) == 0 {
		return nil
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("%w: invalidate business: %v", ErrCache, err)
	}
	return nil
}

func businessPattern(businessID int64) string {
	return fmt.Sprintf("%s:%d:*", keyPrefix, businessID)
}

func dayKey(businessID int64, date time.Time) string {
	return fmt.Sprintf("%s:%d:%s", keyPrefix, businessID, date.Format(domain.DateFormat))
}

func variantField(durationMinutes, intervalMinutes int) string {
	return fmt.Sprintf("%d:%d", durationMinutes, intervalMinutes)
}

// Nop кэш-заглушка, когда Redis выключен
type Nop struct{}

func (Nop) Get(ctx context.Context, businessID int64, date time.Time, durationMinutes, intervalMinutes int) ([]domain.Slot, bool, error) {
	return nil, false, nil
}

func (Nop) Set(ctx context.Context, businessID int64, date time.Time, durationMinutes, intervalMinutes int, slots []domain.Slot) error {
	return nil
}

func (Nop) InvalidateDay(ctx context.Context, businessID int64, date time.Time) error {
	return nil
}

func (Nop) InvalidateBusiness(ctx context.Context, businessID int64) error {
	return nil
}
