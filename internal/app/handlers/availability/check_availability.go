package availability

import (
	"context"
	"fmt"

	"qbooking/internal/app/dto"
	"qbooking/internal/app/policies"
	"qbooking/internal/app/queries"
	"qbooking/internal/app/uow"
	"qbooking/internal/domain/inventory"
	"qbooking/internal/domain/shared/daterange"
)

const checkAvailabilityKey = "availability.check"

type CheckAvailabilityQuery struct {
	dto.CheckAvailabilityRequest
}

func (q CheckAvailabilityQuery) Key() string { return checkAvailabilityKey }

// CheckAvailabilityHandler answers whether N rooms are free for every night of a stay.
type CheckAvailabilityHandler struct {
	UoWFactory uow.UoWFactory
	Clock      policies.Clock
}

func (h *CheckAvailabilityHandler) Handle(ctx context.Context, q CheckAvailabilityQuery) (dto.AvailabilityResult, error) {
	dr, err := daterange.Parse(q.CheckIn, q.CheckOut)
	if err != nil {
		return dto.AvailabilityResult{}, fmt.Errorf("%w: %w", inventory.ErrInvalidBookingQuery, err)
	}
	query := inventory.BookingQuery{
		PropertyID:  inventory.PropertyID(q.PropertyID),
		RoomTypeID:  inventory.RoomTypeID(q.RoomTypeID),
		Range:       dr,
		RoomsCount:  q.RoomsCount,
		Adults:      q.Adults,
		Children:    q.Children,
		TotalGuests: q.TotalGuests,
	}

	var result inventory.AvailabilityResult
	err = uow.Run(ctx, h.UoWFactory, uow.TxOptions{ReadOnly: true}, func(ctx context.Context, unit uow.UnitOfWork) error {
		rt, err := unit.RoomTypes().RoomType(ctx, query.PropertyID, query.RoomTypeID)
		if err != nil {
			return err
		}
		if err := query.Validate(rt, h.Clock.Today()); err != nil {
			return err
		}
		ledger, err := unit.Ledgers().Ledger(ctx, query.PropertyID, query.RoomTypeID)
		if err != nil {
			return err
		}
		result = ledger.Check(rt, query)
		return nil
	})
	if err != nil {
		return dto.AvailabilityResult{}, err
	}
	return dto.MapAvailability(result), nil
}

var _ queries.Handler[CheckAvailabilityQuery, dto.AvailabilityResult] = (*CheckAvailabilityHandler)(nil)
