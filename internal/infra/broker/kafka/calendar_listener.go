package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/IBM/sarama"

	"qbooking/internal/app/policies"
)

// Deduplicator reports whether an event id was already processed, recording it otherwise.
type Deduplicator interface {
	Seen(ctx context.Context, eventID string) (bool, error)
}

// CalendarListener bumps the cached calendar of a room type whenever another
// instance publishes an inventory change for it.
type CalendarListener struct {
	Cache policies.CalendarCache
	Inbox Deduplicator
}

type inventoryEnvelope struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		PropertyID int64 `json:"property_id"`
		RoomTypeID int64 `json:"room_type_id"`
	} `json:"data"`
}

func (l CalendarListener) Handle(ctx context.Context, msg *sarama.ConsumerMessage) error {
	var evt inventoryEnvelope
	if err := json.Unmarshal(msg.Value, &evt); err != nil {
		return fmt.Errorf("decode cloudevent: %w", err)
	}
	if !changesInventory(evt.Type) {
		return nil
	}
	if l.Inbox != nil && evt.ID != "" {
		seen, err := l.Inbox.Seen(ctx, evt.ID)
		if err != nil {
			return err
		}
		if seen {
			return nil
		}
	}
	return l.Cache.Bump(ctx, evt.Data.PropertyID, evt.Data.RoomTypeID)
}

func changesInventory(eventType string) bool {
	return strings.HasPrefix(eventType, "inventory.rooms_reserved") ||
		strings.HasPrefix(eventType, "inventory.rooms_released")
}

var _ MessageHandler = CalendarListener{}
