// Package gate implements the "book now" flow of the room detail view: check
// that the stay is still available, then hand over to the booking page.
package gate

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"qbooking/internal/client/bookingapi"
	"qbooking/internal/frontend/counter"
	"qbooking/internal/frontend/notify"
)

const (
	MsgChooseDates = "Please choose check-in and check-out dates"
	MsgAvailable   = "Rooms are available! Redirecting to booking..."
	MsgFailed      = "Could not check availability, please try again"
	BookingPath    = "/booking"
)

type AvailabilityClient interface {
	CheckAvailability(ctx context.Context, q bookingapi.BookingQuery) (bookingapi.AvailabilityResult, error)
}

type Navigator interface {
	Navigate(route string)
}

type NavigatorFunc func(route string)

func (f NavigatorFunc) Navigate(route string) { f(route) }

// Outcome tells the caller which branch a Check took.
type Outcome int

const (
	MissingDates Outcome = iota
	Busy
	Navigated
	Shortfall
	Failed
	Stale
)

func (o Outcome) String() string {
	return [...]string{"missing-dates", "busy", "navigated", "shortfall", "failed", "stale"}[o]
}

type Request struct {
	PropertyID int64
	RoomTypeID int64
	CheckIn    string
	CheckOut   string
	Guests     counter.GuestSelection
}

// Gate serializes checks from one trigger: while a check is in flight a second
// one is ignored. Invalidate drops the answer of the check in flight.
type Gate struct {
	Client    AvailabilityClient
	Notifier  notify.Notifier
	Navigator Navigator
	OnClose   func()

	mu         sync.Mutex
	busy       bool
	generation uint64
}

func (g *Gate) Busy() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.busy
}

// Invalidate is called when a parameter changes or the view closes.
func (g *Gate) Invalidate() {
	g.mu.Lock()
	g.generation++
	g.mu.Unlock()
}

func (g *Gate) Check(ctx context.Context, req Request) Outcome {
	if strings.TrimSpace(req.CheckIn) == "" || strings.TrimSpace(req.CheckOut) == "" {
		g.Notifier.Notify(MsgChooseDates, notify.Warning)
		return MissingDates
	}

	g.mu.Lock()
	if g.busy {
		g.mu.Unlock()
		return Busy
	}
	g.busy = true
	gen := g.generation
	g.mu.Unlock()
	defer func() {
		g.mu.Lock()
		g.busy = false
		g.mu.Unlock()
	}()

	query := bookingapi.BookingQuery{
		PropertyID:  req.PropertyID,
		RoomTypeID:  req.RoomTypeID,
		CheckIn:     req.CheckIn,
		CheckOut:    req.CheckOut,
		RoomsCount:  req.Guests.RoomsCount,
		TotalGuests: req.Guests.TotalGuests(),
		Adults:      req.Guests.Adults,
		Children:    req.Guests.Children,
	}
	result, err := g.Client.CheckAvailability(ctx, query)

	if g.stale(gen) {
		return Stale
	}
	switch {
	case err != nil:
		g.Notifier.Notify(MsgFailed, notify.Error)
		return Failed
	case !result.Available:
		g.Notifier.Notify(shortfallMessage(result.AvailableRooms, query.RoomsCount), notify.Error)
		return Shortfall
	default:
		g.Notifier.Notify(MsgAvailable, notify.Success)
		if g.OnClose != nil {
			g.OnClose()
		}
		g.Navigator.Navigate(BookingRoute(query))
		return Navigated
	}
}

func (g *Gate) stale(gen uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return gen != g.generation
}

func shortfallMessage(available, requested int) string {
	return fmt.Sprintf("Only %d room(s) left for these dates, you asked for %d. Please reduce the number of rooms.", available, requested)
}

// BookingRoute keeps the parameter order the booking page expects, which
// url.Values would sort away.
func BookingRoute(q bookingapi.BookingQuery) string {
	params := []struct{ key, value string }{
		{"propertyId", strconv.FormatInt(q.PropertyID, 10)},
		{"roomTypeId", strconv.FormatInt(q.RoomTypeID, 10)},
		{"checkIn", q.CheckIn},
		{"checkOut", q.CheckOut},
		{"roomsCount", strconv.Itoa(q.RoomsCount)},
		{"adults", strconv.Itoa(q.Adults)},
		{"children", strconv.Itoa(q.Children)},
	}
	var b strings.Builder
	b.WriteString(BookingPath)
	for i, p := range params {
		if i == 0 {
			b.WriteByte('?')
		} else {
			b.WriteByte('&')
		}
		b.WriteString(p.key)
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.value))
	}
	return b.String()
}
