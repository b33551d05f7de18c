package policies

import (
	"context"
	"fmt"

	"qbooking/internal/app/dto"
)

// CalendarKey identifies one cached month as seen on one day; the day is part of
// the key so past/today flags never outlive midnight.
type CalendarKey struct {
	PropertyID int64
	RoomTypeID int64
	Year       int
	Month      int
	RoomsCount int
	Today      string
}

func (k CalendarKey) String() string {
	return fmt.Sprintf("%d:%d:%04d-%02d:r%d:%s", k.PropertyID, k.RoomTypeID, k.Year, k.Month, k.RoomsCount, k.Today)
}

// CalendarCache stores built months. Bump invalidates every month of a room type.
// Get reports the room type version it looked under; a month built after that
// miss must be Set with the same version, so a Bump in between orphans it.
type CalendarCache interface {
	Get(ctx context.Context, key CalendarKey) (dto.AvailableDates, int64, bool, error)
	Set(ctx context.Context, key CalendarKey, version int64, value dto.AvailableDates) error
	Bump(ctx context.Context, propertyID, roomTypeID int64) error
}
