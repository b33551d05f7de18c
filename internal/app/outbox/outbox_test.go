package outbox

import (
	"context"
	"testing"
	"time"

	"qbooking/internal/domain/shared/events"
)

type stubEvent struct{}

func (stubEvent) EventName() string     { return "inventory.rooms_reserved" }
func (stubEvent) AggregateID() string   { return "5/12" }
func (stubEvent) OccurredAt() time.Time { return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC) }

type sliceOutbox struct {
	records []EventRecord
}

func (s *sliceOutbox) Add(ctx context.Context, rec EventRecord) error {
	s.records = append(s.records, rec)
	return nil
}

func (s *sliceOutbox) Flush(ctx context.Context) error { return nil }

func TestRecordDomainEventsStampsCorrelation(t *testing.T) {
	box := &sliceOutbox{}
	ctx := WithCorrelationID(context.Background(), "req-42")
	enc := JSONEventEncoder{IDGenerator: func() string { return "evt-1" }}

	if err := RecordDomainEvents(ctx, box, enc, []events.DomainEvent{stubEvent{}}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if len(box.records) != 1 {
		t.Fatalf("expected one record, got %d", len(box.records))
	}
	rec := box.records[0]
	if rec.ID != "evt-1" || rec.Name != "inventory.rooms_reserved" || rec.Aggregate != "5/12" {
		t.Fatalf("unexpected record %+v", rec)
	}
	if rec.Headers[CorrelationHeader] != "req-42" {
		t.Fatalf("correlation header missing: %+v", rec.Headers)
	}
}

func TestRecordDomainEventsWithoutEvents(t *testing.T) {
	box := &sliceOutbox{}
	if err := RecordDomainEvents(context.Background(), box, nil, nil); err != nil {
		t.Fatalf("record: %v", err)
	}
	if len(box.records) != 0 {
		t.Fatalf("nothing should be recorded")
	}
}
