package availability

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/servicehub/booking-engine/internal/domain"
)

// Cache кеш вычисленной доступности в Redis.
//
// Ключ - hash availability:{providerID}, поле - {serviceID}:{from}:{days}.
// Любая мутация бронирований исполнителя сбрасывает весь его hash одним DEL
// (под блокировкой исполнителя, до ее освобождения), поэтому свежесозданное
// бронирование никогда не видно как свободный слот. TTL страхует от
// инвалидации, пропущенной внешними писателями.
type Cache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// ErrCacheMiss возвращается, когда записи в кеше нет
var ErrCacheMiss = errors.New("availability.cache: miss")

// New создает кеш доступности с заданным TTL
func New(client redis.Cmdable, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// key ключ hash для исполнителя
func key(providerID int64) string {
	return fmt.Sprintf("availability:%d", providerID)
}

// field поле hash для конкретного запроса доступности
func field(serviceID int64, from time.Time, days int) string {
	return fmt.Sprintf("%d:%s:%d", serviceID, from.Format(domain.DateFormat), days)
}

// Get возвращает закешированный список слотов или ErrCacheMiss
func (c *Cache) Get(ctx context.Context, providerID, serviceID int64, from time.Time, days int) ([]domain.Slot, error) {
	raw, err := c.client.HGet(ctx, key(providerID), field(serviceID, from, days)).Result()
	if err == redis.Nil {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("availability.cache: get: %w", err)
	}

	var slots []domain.Slot
	if err := json.Unmarshal([]byte(raw), &slots); err != nil {
		return nil, fmt.Errorf("availability.cache: unmarshal: %w", err)
	}

	return slots, nil
}

// Set сохраняет вычисленный список слотов
func (c *Cache) Set(ctx context.Context, providerID, serviceID int64, from time.Time, days int, slots []domain.Slot) error {
	raw, err := json.Marshal(slots)
	if err != nil {
		return fmt.Errorf("availability.cache: marshal: %w", err)
	}

	k := key(providerID)
	if err := c.client.HSet(ctx, k, field(serviceID, from, days), raw).Err(); err != nil {
		return fmt.Errorf("availability.cache: set: %w", err)
	}
	if err := c.client.Expire(ctx, k, c.ttl).Err(); err != nil {
		return fmt.Errorf("availability.cache: expire: %w", err)
	}

	return nil
}

// Invalidate сбрасывает всю закешированную доступность исполнителя
func (c *Cache) Invalidate(ctx context.Context, providerID int64) error {
	if err := c.client.Del(ctx, key(providerID)).Err(); err != nil {
		return fmt.Errorf("availability.cache: invalidate: %w", err)
	}
	return nil
}
