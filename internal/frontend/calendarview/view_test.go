package calendarview

import (
	"context"
	"errors"
	"sync"
	"testing"

	"qbooking/internal/client/bookingapi"
	"qbooking/internal/frontend/notify"
)

type fakeCalendar struct {
	mu      sync.Mutex
	queries []bookingapi.CalendarQuery
	err     error
	gates   []chan struct{}
	started chan struct{}
}

func (f *fakeCalendar) GetAvailableDates(ctx context.Context, q bookingapi.CalendarQuery) (bookingapi.CalendarData, error) {
	f.mu.Lock()
	idx := len(f.queries)
	f.queries = append(f.queries, q)
	var gate chan struct{}
	if idx < len(f.gates) {
		gate = f.gates[idx]
	}
	f.mu.Unlock()
	if f.started != nil {
		f.started <- struct{}{}
	}
	if gate != nil {
		<-gate
	}
	if f.err != nil {
		return bookingapi.CalendarData{}, f.err
	}
	return bookingapi.CalendarData{Year: q.Year, Month: q.Month, TotalRooms: 5, RoomTypeName: "Deluxe"}, nil
}

func (f *fakeCalendar) query(i int) bookingapi.CalendarQuery {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queries[i]
}

func TestNavigationWrapsAcrossYears(t *testing.T) {
	client := &fakeCalendar{}
	view := New(client, &notify.Recorder{}, 5, 12, 1, 2025, 12)
	ctx := context.Background()

	if err := view.Next(ctx); err != nil {
		t.Fatalf("next: %v", err)
	}
	if y, m := view.Month(); y != 2026 || m != 1 {
		t.Fatalf("after next got %d-%d, want 2026-1", y, m)
	}
	if err := view.Prev(ctx); err != nil {
		t.Fatalf("prev: %v", err)
	}
	if err := view.Prev(ctx); err != nil {
		t.Fatalf("prev: %v", err)
	}
	if y, m := view.Month(); y != 2025 || m != 11 {
		t.Fatalf("after prev got %d-%d, want 2025-11", y, m)
	}
	q := client.query(0)
	if q.Year != 2026 || q.Month != 1 || q.PropertyID != 5 || q.RoomTypeID != 12 || q.RoomsCount != 1 {
		t.Fatalf("unexpected first query %+v", q)
	}
	data, ok := view.Data()
	if !ok || data.Month != 11 {
		t.Fatalf("expected november data on screen, got %+v ok=%v", data, ok)
	}
}

func TestNavigationDisabledWhileLoading(t *testing.T) {
	release := make(chan struct{})
	client := &fakeCalendar{gates: []chan struct{}{release}, started: make(chan struct{}, 2)}
	view := New(client, &notify.Recorder{}, 1, 1, 1, 2025, 6)

	done := make(chan error, 1)
	go func() { done <- view.Load(context.Background()) }()
	<-client.started

	if !view.Loading() {
		t.Fatal("expected view to be loading")
	}
	if _, ok := view.Data(); ok {
		t.Fatal("no data should be shown while loading")
	}
	if err := view.Next(context.Background()); !errors.Is(err, ErrLoading) {
		t.Fatalf("expected ErrLoading, got %v", err)
	}
	if y, m := view.Month(); y != 2025 || m != 6 {
		t.Fatalf("month changed while loading: %d-%d", y, m)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("load: %v", err)
	}
	if view.Loading() {
		t.Fatal("expected loading to clear")
	}
}

func TestSupersededResponseIsDropped(t *testing.T) {
	slow := make(chan struct{})
	client := &fakeCalendar{gates: []chan struct{}{slow}, started: make(chan struct{}, 2)}
	view := New(client, &notify.Recorder{}, 1, 1, 1, 2025, 6)

	done := make(chan error, 1)
	go func() { done <- view.Load(context.Background()) }()
	<-client.started

	if err := view.SetRoomsCount(context.Background(), 3); err != nil {
		t.Fatalf("set rooms: %v", err)
	}
	<-client.started
	close(slow)
	if err := <-done; !errors.Is(err, ErrStale) {
		t.Fatalf("expected first response to be stale, got %v", err)
	}
	if q := client.query(1); q.RoomsCount != 3 {
		t.Fatalf("expected refetch with 3 rooms, got %d", q.RoomsCount)
	}
	if _, ok := view.Data(); !ok {
		t.Fatal("expected newer response on screen")
	}
}

func TestCloseDropsInFlightResponse(t *testing.T) {
	release := make(chan struct{})
	client := &fakeCalendar{gates: []chan struct{}{release}, started: make(chan struct{}, 1)}
	view := New(client, &notify.Recorder{}, 1, 1, 1, 2025, 6)

	done := make(chan error, 1)
	go func() { done <- view.Load(context.Background()) }()
	<-client.started
	view.Close()
	close(release)
	if err := <-done; !errors.Is(err, ErrStale) {
		t.Fatalf("expected stale after close, got %v", err)
	}
	if _, ok := view.Data(); ok {
		t.Fatal("closed view must not show data")
	}
}

func TestLoadFailureNotifies(t *testing.T) {
	rec := &notify.Recorder{}
	client := &fakeCalendar{err: errors.New("boom")}
	view := New(client, rec, 1, 1, 1, 2025, 6)

	if err := view.Load(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	entries := rec.Entries()
	if len(entries) != 1 || entries[0].Level != notify.Error || entries[0].Message != MsgLoadFailed {
		t.Fatalf("unexpected notifications %+v", entries)
	}
	if view.Loading() {
		t.Fatal("loading must clear after failure")
	}
}
