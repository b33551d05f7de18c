package memory

import (
	"context"
	"log/slog"
	"sync"

	appoutbox "qbooking/internal/app/outbox"
)

// Outbox buffers records until flush, then hands them to Sink (if any).
// Without a broker the sink just logs what would have been published.
type Outbox struct {
	mu      sync.Mutex
	records []appoutbox.EventRecord
	Sink    func(ctx context.Context, records []appoutbox.EventRecord) error
}

func NewOutbox() *Outbox {
	return &Outbox{}
}

// NewLoggingOutbox logs every flushed event.
func NewLoggingOutbox(logger *slog.Logger) *Outbox {
	return &Outbox{Sink: func(ctx context.Context, records []appoutbox.EventRecord) error {
		for _, rec := range records {
			logger.InfoContext(ctx, "domain event", "event", rec.Name, "aggregate", rec.Aggregate, "id", rec.ID)
		}
		return nil
	}}
}

func (o *Outbox) Add(ctx context.Context, record appoutbox.EventRecord) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.records = append(o.records, record)
	return nil
}

func (o *Outbox) Flush(ctx context.Context) error {
	o.mu.Lock()
	records := o.records
	o.records = nil
	o.mu.Unlock()
	if o.Sink == nil || len(records) == 0 {
		return nil
	}
	return o.Sink(ctx, records)
}

// Pending reports buffered records; used by tests.
func (o *Outbox) Pending() []appoutbox.EventRecord {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]appoutbox.EventRecord(nil), o.records...)
}

var _ appoutbox.Outbox = (*Outbox)(nil)
