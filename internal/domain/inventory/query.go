package inventory

import (
	"errors"
	"fmt"
	"time"

	"qbooking/internal/domain/shared/daterange"
)

var (
	ErrInvalidBookingQuery    = errors.New("inventory: invalid booking query")
	ErrCheckInInPast          = errors.New("check-in date is in the past")
	ErrInvalidRoomsCount      = errors.New("rooms count must be at least 1")
	ErrInvalidAdults          = errors.New("at least one adult is required")
	ErrInvalidChildren        = errors.New("children must not be negative")
	ErrGuestsMismatch         = errors.New("total guests must equal adults plus children")
	ErrRoomsExceedInventory   = errors.New("rooms count exceeds room type inventory")
	ErrAdultsExceedCapacity   = errors.New("adults exceed room type capacity")
	ErrChildrenExceedCapacity = errors.New("children exceed room type capacity")
	ErrStayTooLong            = fmt.Errorf("stay must not exceed %d nights", MaxStayNights)
)

// MaxStayNights bounds a single booking query.
const MaxStayNights = 365

// BookingQuery asks whether RoomsCount rooms of a room type are free for Range.
type BookingQuery struct {
	PropertyID  PropertyID
	RoomTypeID  RoomTypeID
	Range       daterange.DateRange
	RoomsCount  int
	Adults      int
	Children    int
	TotalGuests int
}

// Validate checks the query against the room type limits. A zero TotalGuests
// means the caller left it to be derived.
func (q BookingQuery) Validate(rt *RoomType, today time.Time) error {
	if err := q.Range.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidBookingQuery, err)
	}
	if q.Range.CheckIn.Before(daterange.Day(today)) {
		return fmt.Errorf("%w: %w", ErrInvalidBookingQuery, ErrCheckInInPast)
	}
	if q.Range.Nights() > MaxStayNights {
		return fmt.Errorf("%w: %w", ErrInvalidBookingQuery, ErrStayTooLong)
	}
	var problem error
	switch {
	case q.RoomsCount < 1:
		problem = ErrInvalidRoomsCount
	case q.Adults < 1:
		problem = ErrInvalidAdults
	case q.Children < 0:
		problem = ErrInvalidChildren
	case q.TotalGuests != 0 && q.TotalGuests != q.Adults+q.Children:
		problem = ErrGuestsMismatch
	case q.RoomsCount > rt.TotalRooms:
		problem = ErrRoomsExceedInventory
	case q.Adults > rt.MaxAdults:
		problem = ErrAdultsExceedCapacity
	case q.Children > rt.MaxChildren:
		problem = ErrChildrenExceedCapacity
	}
	if problem != nil {
		return fmt.Errorf("%w: %w", ErrInvalidBookingQuery, problem)
	}
	return nil
}

type AvailabilityResult struct {
	Available      bool
	AvailableRooms int
}

// Check answers the query from the ledger without mutating it.
func (l *Ledger) Check(rt *RoomType, q BookingQuery) AvailabilityResult {
	rooms := l.AvailableRooms(rt.TotalRooms, q.Range)
	return AvailabilityResult{Available: rooms >= q.RoomsCount, AvailableRooms: rooms}
}
