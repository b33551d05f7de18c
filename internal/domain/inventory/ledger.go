package inventory

import (
	"context"
	"errors"
	"time"

	"qbooking/internal/domain/shared/daterange"
	"qbooking/internal/domain/shared/events"
)

var (
	ErrInsufficientRooms   = errors.New("inventory: not enough rooms available")
	ErrReservationNotFound = errors.New("inventory: reservation not found")
	ErrReservationInactive = errors.New("inventory: reservation already cancelled")
	ErrConcurrentUpdate    = errors.New("inventory: ledger modified concurrently")
)

type ReservationID string

type ReservationStatus string

const (
	StatusHeld      ReservationStatus = "HELD"
	StatusCancelled ReservationStatus = "CANCELLED"
)

// Reservation consumes RoomsCount rooms on every night of Range while held.
type Reservation struct {
	ID          ReservationID
	Range       daterange.DateRange
	RoomsCount  int
	Adults      int
	Children    int
	GuestName   string
	Status      ReservationStatus
	CreatedAt   time.Time
	CancelledAt time.Time
}

func (r Reservation) Active() bool {
	return r.Status == StatusHeld
}

// Ledger is the aggregate of every reservation made against one room type.
type Ledger struct {
	PropertyID   PropertyID
	RoomTypeID   RoomTypeID
	Reservations []Reservation
	Version      int64
	events.EventRecorder
}

type LedgerRepository interface {
	Ledger(ctx context.Context, propertyID PropertyID, roomTypeID RoomTypeID) (*Ledger, error)
	ByReservation(ctx context.Context, id ReservationID) (*Ledger, error)
	Save(ctx context.Context, ledger *Ledger) error
}

func NewLedger(propertyID PropertyID, roomTypeID RoomTypeID) *Ledger {
	return &Ledger{PropertyID: propertyID, RoomTypeID: roomTypeID}
}

// Clone copies the ledger state without pending events.
func (l *Ledger) Clone() *Ledger {
	out := &Ledger{PropertyID: l.PropertyID, RoomTypeID: l.RoomTypeID, Version: l.Version}
	out.Reservations = append([]Reservation(nil), l.Reservations...)
	return out
}

// Occupied returns the number of rooms held on the given night.
func (l *Ledger) Occupied(night time.Time) int {
	night = daterange.Day(night)
	occupied := 0
	for _, r := range l.Reservations {
		if r.Active() && r.Range.ContainsDate(night) {
			occupied += r.RoomsCount
		}
	}
	return occupied
}

// FreeRooms is never negative even when inventory shrank below existing holds.
func (l *Ledger) FreeRooms(totalRooms int, night time.Time) int {
	free := totalRooms - l.Occupied(night)
	if free < 0 {
		return 0
	}
	return free
}

// AvailableRooms is the minimum number of free rooms over every night of dr.
func (l *Ledger) AvailableRooms(totalRooms int, dr daterange.DateRange) int {
	var holds []Reservation
	for _, r := range l.Reservations {
		if r.Active() && r.Range.Overlaps(dr) {
			holds = append(holds, r)
		}
	}
	available := totalRooms
	dr.EachNight(func(night time.Time) {
		free := totalRooms
		for _, r := range holds {
			if r.Range.ContainsDate(night) {
				free -= r.RoomsCount
			}
		}
		if free < available {
			available = free
		}
	})
	if available < 0 {
		return 0
	}
	return available
}

type ReserveParams struct {
	ID         ReservationID
	Range      daterange.DateRange
	RoomsCount int
	Adults     int
	Children   int
	GuestName  string
}

// Reserve holds rooms for the range if every night has enough free rooms.
func (l *Ledger) Reserve(rt *RoomType, params ReserveParams, now time.Time) (Reservation, error) {
	if err := params.Range.Validate(); err != nil {
		return Reservation{}, err
	}
	if params.RoomsCount < 1 {
		return Reservation{}, ErrInvalidRoomsCount
	}
	if available := l.AvailableRooms(rt.TotalRooms, params.Range); available < params.RoomsCount {
		l.Record(OverbookingPrevented{
			PropertyID: l.PropertyID, RoomTypeID: l.RoomTypeID, Range: params.Range,
			Requested: params.RoomsCount, Available: available, At: now.UTC(),
		})
		return Reservation{}, ErrInsufficientRooms
	}
	res := Reservation{
		ID:         params.ID,
		Range:      params.Range,
		RoomsCount: params.RoomsCount,
		Adults:     params.Adults,
		Children:   params.Children,
		GuestName:  params.GuestName,
		Status:     StatusHeld,
		CreatedAt:  now.UTC(),
	}
	l.Reservations = append(l.Reservations, res)
	l.Record(RoomsReserved{
		ReservationID: res.ID, PropertyID: l.PropertyID, RoomTypeID: l.RoomTypeID,
		Range: res.Range, RoomsCount: res.RoomsCount, At: res.CreatedAt,
	})
	return res, nil
}

// Release cancels a held reservation and returns its rooms to the pool.
func (l *Ledger) Release(id ReservationID, now time.Time) error {
	for i := range l.Reservations {
		r := &l.Reservations[i]
		if r.ID != id {
			continue
		}
		if !r.Active() {
			return ErrReservationInactive
		}
		r.Status = StatusCancelled
		r.CancelledAt = now.UTC()
		l.Record(RoomsReleased{
			ReservationID: r.ID, PropertyID: l.PropertyID, RoomTypeID: l.RoomTypeID,
			Range: r.Range, RoomsCount: r.RoomsCount, At: r.CancelledAt,
		})
		return nil
	}
	return ErrReservationNotFound
}

func (l *Ledger) Reservation(id ReservationID) (Reservation, bool) {
	for _, r := range l.Reservations {
		if r.ID == id {
			return r, true
		}
	}
	return Reservation{}, false
}
