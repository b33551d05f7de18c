package inventory

import (
	"context"
	"errors"
	"fmt"

	"qbooking/internal/domain/shared/money"
)

var (
	ErrPropertyNotFound = errors.New("inventory: property not found")
	ErrRoomTypeNotFound = errors.New("inventory: room type not found")
	ErrInvalidRoomType  = errors.New("inventory: invalid room type")
)

type PropertyID int64

type RoomTypeID int64

type Property struct {
	ID   PropertyID
	Name string
}

// RoomType is a bookable category of room within a property. TotalRooms is the
// inventory shared by every reservation of this type.
type RoomType struct {
	ID           RoomTypeID
	PropertyID   PropertyID
	Name         string
	TotalRooms   int
	MaxAdults    int
	MaxChildren  int
	BasePrice    money.Money
	WeekendPrice money.Money
}

type PropertyRepository interface {
	Property(ctx context.Context, id PropertyID) (*Property, error)
	Save(ctx context.Context, property *Property) error
}

type RoomTypeRepository interface {
	RoomType(ctx context.Context, propertyID PropertyID, id RoomTypeID) (*RoomType, error)
	ListByProperty(ctx context.Context, propertyID PropertyID) ([]*RoomType, error)
	Save(ctx context.Context, roomType *RoomType) error
}

func (rt *RoomType) Validate() error {
	switch {
	case rt.ID <= 0 || rt.PropertyID <= 0:
		return fmt.Errorf("%w: identifiers must be positive", ErrInvalidRoomType)
	case rt.TotalRooms < 1:
		return fmt.Errorf("%w: total rooms must be at least 1", ErrInvalidRoomType)
	case rt.MaxAdults < 1:
		return fmt.Errorf("%w: max adults must be at least 1", ErrInvalidRoomType)
	case rt.MaxChildren < 0:
		return fmt.Errorf("%w: max children must not be negative", ErrInvalidRoomType)
	case rt.BasePrice.Amount < 0 || rt.WeekendPrice.Amount < 0:
		return fmt.Errorf("%w: prices must not be negative", ErrInvalidRoomType)
	}
	if rt.BasePrice.Currency == "" {
		rt.BasePrice.Currency = money.DefaultCurrency
	}
	if rt.WeekendPrice.Currency == "" {
		rt.WeekendPrice.Currency = rt.BasePrice.Currency
	}
	if rt.WeekendPrice.Currency != rt.BasePrice.Currency {
		return fmt.Errorf("%w: %w", ErrInvalidRoomType, money.ErrCurrencyMismatch)
	}
	return nil
}

// Currency is the currency every price of the room type is quoted in.
func (rt *RoomType) Currency() string {
	if rt.BasePrice.Currency == "" {
		return money.DefaultCurrency
	}
	return rt.BasePrice.Currency
}
