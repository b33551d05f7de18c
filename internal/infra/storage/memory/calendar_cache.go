package memory

import (
	"context"
	"strconv"
	"sync"
	"time"

	"qbooking/internal/app/dto"
	"qbooking/internal/app/policies"
)

type cachedMonth struct {
	value   dto.AvailableDates
	version int64
	expires time.Time
}

// CalendarCache is the single-process fallback for the redis cache.
type CalendarCache struct {
	mu       sync.Mutex
	ttl      time.Duration
	entries  map[string]cachedMonth
	versions map[string]int64
	now      func() time.Time
}

func NewCalendarCache(ttl time.Duration) *CalendarCache {
	return &CalendarCache{
		ttl:      ttl,
		entries:  make(map[string]cachedMonth),
		versions: make(map[string]int64),
		now:      time.Now,
	}
}

func (c *CalendarCache) Get(ctx context.Context, key policies.CalendarKey) (dto.AvailableDates, int64, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	version := c.versions[scopeKey(key.PropertyID, key.RoomTypeID)]
	entry, ok := c.entries[key.String()]
	if !ok || entry.version != version || c.now().After(entry.expires) {
		return dto.AvailableDates{}, version, false, nil
	}
	return entry.value, version, true, nil
}

// Set drops the month when the room type was bumped after version was read.
func (c *CalendarCache) Set(ctx context.Context, key policies.CalendarKey, version int64, value dto.AvailableDates) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if version != c.versions[scopeKey(key.PropertyID, key.RoomTypeID)] {
		return nil
	}
	c.entries[key.String()] = cachedMonth{
		value:   value,
		version: version,
		expires: c.now().Add(c.ttl),
	}
	return nil
}

func (c *CalendarCache) Bump(ctx context.Context, propertyID, roomTypeID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.versions[scopeKey(propertyID, roomTypeID)]++
	return nil
}

func scopeKey(propertyID, roomTypeID int64) string {
	return strconv.FormatInt(propertyID, 10) + ":" + strconv.FormatInt(roomTypeID, 10)
}

var _ policies.CalendarCache = (*CalendarCache)(nil)
