package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"qbooking/internal/app/dto"
	"qbooking/internal/app/policies"
)

const keyPrefix = "qbooking:calendar:"

// CalendarCache stores built months in redis. Every room type has a version
// counter that is part of each entry key, so Bump orphans old entries and the
// TTL reclaims them.
type CalendarCache struct {
	client goredis.UniversalClient
	ttl    time.Duration
}

func NewCalendarCache(client goredis.UniversalClient, ttl time.Duration) *CalendarCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CalendarCache{client: client, ttl: ttl}
}

func (c *CalendarCache) Get(ctx context.Context, key policies.CalendarKey) (dto.AvailableDates, int64, bool, error) {
	version, err := c.version(ctx, key.PropertyID, key.RoomTypeID)
	if err != nil {
		return dto.AvailableDates{}, 0, false, err
	}
	raw, err := c.client.Get(ctx, entryKey(key, version)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return dto.AvailableDates{}, version, false, nil
	}
	if err != nil {
		return dto.AvailableDates{}, version, false, err
	}
	var out dto.AvailableDates
	if err := json.Unmarshal(raw, &out); err != nil {
		return dto.AvailableDates{}, version, false, fmt.Errorf("decode cached calendar: %w", err)
	}
	return out, version, true, nil
}

// Set writes under the version read before the month was built. After a Bump
// nobody reads that key again and the TTL reclaims it.
func (c *CalendarCache) Set(ctx context.Context, key policies.CalendarKey, version int64, value dto.AvailableDates) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, entryKey(key, version), raw, c.ttl).Err()
}

func (c *CalendarCache) Bump(ctx context.Context, propertyID, roomTypeID int64) error {
	return c.client.Incr(ctx, versionKey(propertyID, roomTypeID)).Err()
}

func (c *CalendarCache) version(ctx context.Context, propertyID, roomTypeID int64) (int64, error) {
	v, err := c.client.Get(ctx, versionKey(propertyID, roomTypeID)).Int64()
	if errors.Is(err, goredis.Nil) {
		return 0, nil
	}
	return v, err
}

func versionKey(propertyID, roomTypeID int64) string {
	return keyPrefix + "v:" + strconv.FormatInt(propertyID, 10) + ":" + strconv.FormatInt(roomTypeID, 10)
}

func entryKey(key policies.CalendarKey, version int64) string {
	return keyPrefix + key.String() + ":v" + strconv.FormatInt(version, 10)
}

var _ policies.CalendarCache = (*CalendarCache)(nil)
