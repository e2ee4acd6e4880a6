// Package availability кеширует результат расчёта доступности в Redis.
//
// Ключи версионируются глобальным счётчиком: любая запись бронирования делает INCR,
// и все ранее посчитанные ответы перестают читаться, истекая по TTL.
package availability

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

const (
	defaultPrefix = "availability"
	defaultTTL    = time.Minute
)

// Cache кеш доступных слотов
type Cache struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

// New создает кеш. prefix и ttl подставляются по умолчанию, если не заданы.
func New(rdb *redis.Client, prefix string, ttl time.Duration) *Cache {
	if prefix == "" {
		prefix = defaultPrefix
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Cache{rdb: rdb, prefix: prefix, ttl: ttl}
}

type cachedSlot struct {
	StartTime types.TimeString `json:"s"`
	EndTime   types.TimeString `json:"e"`
	StaffID   int64            `json:"id"`
	StaffName string           `json:"n"`
	Price     float64          `json:"p"`
}

// Version возвращает текущую версию данных. Отсутствующий ключ = версия 0.
// Версию нужно прочитать до загрузки данных из БД и передать в Set.
func (c *Cache) Version(ctx context.Context) (int64, error) {
	v, err := c.rdb.Get(ctx, c.versionKey()).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%w: Version: %w", ErrCache, err)
	}
	return v, nil
}

// Get возвращает закешированный результат. found = false при промахе.
func (c *Cache) Get(ctx context.Context, version int64, q domain.AvailabilityQuery) (map[string][]domain.TimeSlot, bool, error) {
	raw, err := c.rdb.Get(ctx, c.Key(version, q)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: Get: %w", ErrCache, err)
	}

	var entry map[string][]cachedSlot
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, false, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	result := make(map[string][]domain.TimeSlot, len(entry))
	for date, slots := range entry {
		converted := make([]domain.TimeSlot, 0, len(slots))
		for _, s := range slots {
			converted = append(converted, domain.TimeSlot{
				Start:     s.StartTime,
				End:       s.EndTime,
				StaffID:   s.StaffID,
				StaffName: s.StaffName,
				Price:     s.Price,
			})
		}
		result[date] = converted
	}

	return result, true, nil
}

// Set сохраняет результат под версией, прочитанной до расчёта
func (c *Cache) Set(ctx context.Context, version int64, q domain.AvailabilityQuery, result map[string][]domain.TimeSlot) error {
	entry := make(map[string][]cachedSlot, len(result))
	for date, slots := range result {
		converted := make([]cachedSlot, 0, len(slots))
		for _, s := range slots {
			converted = append(converted, cachedSlot{
				StartTime: s.Start,
				EndTime:   s.End,
				StaffID:   s.StaffID,
				StaffName: s.StaffName,
				Price:     s.Price,
			})
		}
		entry[date] = converted
	}

	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}

	if err := c.rdb.Set(ctx, c.Key(version, q), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("%w: Set: %w", ErrCache, err)
	}
	return nil
}

// Invalidate делает все закешированные ответы недоступными
func (c *Cache) Invalidate(ctx context.Context) error {
	if err := c.rdb.Incr(ctx, c.versionKey()).Err(); err != nil {
		return fmt.Errorf("%w: Invalidate: %w", ErrCache, err)
	}
	return nil
}

// Key строит ключ ответа: prefix:v<version>:<type>:<staff|all>:<from>:<to>
func (c *Cache) Key(version int64, q domain.AvailabilityQuery) string {
	staff := "all"
	if q.StaffID != nil {
		staff = strconv.FormatInt(*q.StaffID, 10)
	}
	return fmt.Sprintf("%s:v%d:%d:%s:%s:%s",
		c.prefix, version, q.AppointmentTypeID, staff,
		domain.DateKey(q.DateFrom), domain.DateKey(q.DateTo))
}

func (c *Cache) versionKey() string {
	return c.prefix + ":version"
}
