// Package calendarview drives the "available dates" modal: one month of
// day-level availability with previous/next navigation.
package calendarview

import (
	"context"
	"errors"
	"sync"

	"qbooking/internal/client/bookingapi"
	"qbooking/internal/domain/calendar"
	"qbooking/internal/frontend/notify"
)

const MsgLoadFailed = "Could not load the availability calendar"

var (
	ErrLoading = errors.New("calendarview: navigation disabled while loading")
	ErrStale   = errors.New("calendarview: response superseded")
)

type CalendarClient interface {
	GetAvailableDates(ctx context.Context, q bookingapi.CalendarQuery) (bookingapi.CalendarData, error)
}

// View keeps the month on screen. Every navigation refetches; nothing is cached.
type View struct {
	client     CalendarClient
	notifier   notify.Notifier
	propertyID int64
	roomTypeID int64

	mu         sync.Mutex
	year       int
	month      int
	roomsCount int
	loading    bool
	data       *bookingapi.CalendarData
	generation uint64
}

func New(client CalendarClient, notifier notify.Notifier, propertyID, roomTypeID int64, roomsCount, year, month int) *View {
	m := calendar.Normalize(year, month)
	if roomsCount < 1 {
		roomsCount = 1
	}
	return &View{
		client:     client,
		notifier:   notifier,
		propertyID: propertyID,
		roomTypeID: roomTypeID,
		roomsCount: roomsCount,
		year:       m.Year,
		month:      int(m.Month),
	}
}

func (v *View) Month() (year, month int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.year, v.month
}

func (v *View) Loading() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loading
}

// Data returns the month on screen. Nothing is returned while a fetch is in flight.
func (v *View) Data() (bookingapi.CalendarData, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.loading || v.data == nil {
		return bookingapi.CalendarData{}, false
	}
	return *v.data, true
}

// Load fetches the current month.
func (v *View) Load(ctx context.Context) error {
	v.mu.Lock()
	query, gen := v.begin()
	v.mu.Unlock()
	return v.fetch(ctx, query, gen)
}

func (v *View) Next(ctx context.Context) error {
	return v.navigate(ctx, calendar.NextMonth)
}

func (v *View) Prev(ctx context.Context) error {
	return v.navigate(ctx, calendar.PrevMonth)
}

// SetRoomsCount refetches with a new room count, superseding any fetch in flight.
func (v *View) SetRoomsCount(ctx context.Context, rooms int) error {
	if rooms < 1 {
		rooms = 1
	}
	v.mu.Lock()
	v.roomsCount = rooms
	query, gen := v.begin()
	v.mu.Unlock()
	return v.fetch(ctx, query, gen)
}

// Close drops whatever is in flight.
func (v *View) Close() {
	v.mu.Lock()
	v.generation++
	v.loading = false
	v.data = nil
	v.mu.Unlock()
}

func (v *View) navigate(ctx context.Context, step func(y, m int) (int, int)) error {
	v.mu.Lock()
	if v.loading {
		v.mu.Unlock()
		return ErrLoading
	}
	v.year, v.month = step(v.year, v.month)
	query, gen := v.begin()
	v.mu.Unlock()
	return v.fetch(ctx, query, gen)
}

// begin must be called with mu held.
func (v *View) begin() (bookingapi.CalendarQuery, uint64) {
	v.generation++
	v.loading = true
	v.data = nil
	return bookingapi.CalendarQuery{
		PropertyID: v.propertyID,
		RoomTypeID: v.roomTypeID,
		Year:       v.year,
		Month:      v.month,
		RoomsCount: v.roomsCount,
	}, v.generation
}

func (v *View) fetch(ctx context.Context, query bookingapi.CalendarQuery, gen uint64) error {
	data, err := v.client.GetAvailableDates(ctx, query)

	v.mu.Lock()
	if gen != v.generation {
		v.mu.Unlock()
		return ErrStale
	}
	v.loading = false
	if err == nil {
		v.data = &data
	}
	v.mu.Unlock()

	if err != nil {
		if v.notifier != nil {
			v.notifier.Notify(MsgLoadFailed, notify.Error)
		}
		return err
	}
	return nil
}
