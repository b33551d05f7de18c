package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

type fakeQueue struct {
	pending []*Message
	sent    []string
	failed  map[string]time.Time
}

func (q *fakeQueue) Claim(ctx context.Context, workerID string) (*Message, error) {
	if len(q.pending) == 0 {
		return nil, nil
	}
	msg := q.pending[0]
	q.pending = q.pending[1:]
	return msg, nil
}

func (q *fakeQueue) MarkSent(ctx context.Context, id string) error {
	q.sent = append(q.sent, id)
	return nil
}

func (q *fakeQueue) MarkFailed(ctx context.Context, id string, next time.Time, reason string) error {
	if q.failed == nil {
		q.failed = map[string]time.Time{}
	}
	q.failed[id] = next
	return nil
}

type published struct {
	topic   string
	key     string
	payload []byte
	headers map[string]string
}

type fakeProducer struct {
	err  error
	sent []published
}

func (p *fakeProducer) Publish(ctx context.Context, topic, key string, payload []byte, headers map[string]string) error {
	if p.err != nil {
		return p.err
	}
	p.sent = append(p.sent, published{topic: topic, key: key, payload: payload, headers: headers})
	return nil
}

func TestWorkerPublishesCloudEvent(t *testing.T) {
	queue := &fakeQueue{pending: []*Message{{
		ID:         "evt-1",
		Name:       "inventory.rooms_reserved",
		Payload:    []byte(`{"rooms_count":2}`),
		Aggregate:  "5/12",
		OccurredAt: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
	}}}
	producer := &fakeProducer{}
	w := &Worker{Queue: queue, Producer: producer, TopicPrefix: "dev."}

	if err := w.drain(context.Background()); err != nil {
		t.Fatalf("drain: %v", err)
	}
	if len(producer.sent) != 1 {
		t.Fatalf("expected one message, got %d", len(producer.sent))
	}
	msg := producer.sent[0]
	if msg.topic != "dev.inventory.events.v1" {
		t.Fatalf("unexpected topic %q", msg.topic)
	}
	if msg.key != "5/12" {
		t.Fatalf("unexpected key %q", msg.key)
	}
	if msg.headers["content-type"] != "application/cloudevents+json" {
		t.Fatalf("missing content-type header: %v", msg.headers)
	}
	var evt struct {
		ID     string         `json:"id"`
		Type   string         `json:"type"`
		Source string         `json:"source"`
		Data   map[string]int `json:"data"`
	}
	if err := json.Unmarshal(msg.payload, &evt); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if evt.ID != "evt-1" || evt.Type != "inventory.rooms_reserved.v1" || evt.Source != "app://qbooking" {
		t.Fatalf("unexpected envelope %+v", evt)
	}
	if evt.Data["rooms_count"] != 2 {
		t.Fatalf("unexpected data %+v", evt.Data)
	}
	if len(queue.sent) != 1 || queue.sent[0] != "evt-1" {
		t.Fatalf("expected evt-1 marked sent, got %v", queue.sent)
	}
}

func TestWorkerBacksOffOnPublishFailure(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	queue := &fakeQueue{pending: []*Message{{ID: "evt-1", Name: "inventory.rooms_released", Payload: []byte(`{}`), Attempts: 1}}}
	w := &Worker{
		Queue:    queue,
		Producer: &fakeProducer{err: errors.New("broker down")},
		Backoff:  []time.Duration{time.Second, 5 * time.Second},
		Now:      func() time.Time { return now },
	}

	claimed, err := w.ProcessOnce(context.Background())
	if err != nil || !claimed {
		t.Fatalf("ProcessOnce = %v, %v", claimed, err)
	}
	next, ok := queue.failed["evt-1"]
	if !ok {
		t.Fatalf("expected evt-1 marked failed")
	}
	if want := now.Add(5 * time.Second); !next.Equal(want) {
		t.Fatalf("next attempt = %v, want %v", next, want)
	}
	if len(queue.sent) != 0 {
		t.Fatalf("nothing should be marked sent")
	}
}

func TestWorkerRequiresDependencies(t *testing.T) {
	w := &Worker{}
	if err := w.Run(context.Background()); !errors.Is(err, ErrWorkerNotConfigured) {
		t.Fatalf("expected ErrWorkerNotConfigured, got %v", err)
	}
}
