package booking

import (
	"context"
	"fmt"
	"time"

	"qbooking/internal/app/commands"
	"qbooking/internal/app/dto"
	"qbooking/internal/app/middleware"
	"qbooking/internal/app/outbox"
	"qbooking/internal/app/policies"
	"qbooking/internal/app/uow"
	"qbooking/internal/domain/calendar"
	"qbooking/internal/domain/inventory"
	"qbooking/internal/domain/pricing"
	"qbooking/internal/domain/shared/daterange"
)

const reserveRoomsKey = "booking.reserve_rooms"

type ReserveRoomsCommand struct {
	dto.ReserveRoomsRequest
	ReservationID   string `validate:"required"`
	IdempotencyKeyV string
}

func (c ReserveRoomsCommand) Key() string { return reserveRoomsKey }

func (c ReserveRoomsCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c ReserveRoomsCommand) ResultPrototype() any { return &dto.ReservationResult{} }

// ReserveRoomsHandler re-checks availability inside the unit of work and holds
// the rooms, so two guests racing for the last room cannot both succeed.
type ReserveRoomsHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Clock      policies.Clock
}

func (h *ReserveRoomsHandler) Handle(ctx context.Context, cmd ReserveRoomsCommand) (*dto.ReservationResult, error) {
	dr, err := daterange.Parse(cmd.CheckIn, cmd.CheckOut)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", inventory.ErrInvalidBookingQuery, err)
	}
	query := inventory.BookingQuery{
		PropertyID: inventory.PropertyID(cmd.PropertyID),
		RoomTypeID: inventory.RoomTypeID(cmd.RoomTypeID),
		Range:      dr,
		RoomsCount: cmd.RoomsCount,
		Adults:     cmd.Adults,
		Children:   cmd.Children,
	}

	var result *dto.ReservationResult
	err = uow.Run(ctx, h.UoWFactory, uow.TxOptions{}, func(ctx context.Context, unit uow.UnitOfWork) error {
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
		hs, err := unit.Holidays().Overlapping(ctx, dr.CheckIn, dr.CheckOut.AddDate(0, 0, -1))
		if err != nil {
			return err
		}
		quote, err := pricing.QuoteStay(rt, dr, query.RoomsCount, calendar.HolidaySet(hs))
		if err != nil {
			return err
		}

		reservation, err := ledger.Reserve(rt, inventory.ReserveParams{
			ID:         inventory.ReservationID(cmd.ReservationID),
			Range:      dr,
			RoomsCount: query.RoomsCount,
			Adults:     query.Adults,
			Children:   query.Children,
			GuestName:  cmd.GuestName,
		}, h.now())
		if err != nil {
			return err
		}
		if err := unit.Ledgers().Save(ctx, ledger); err != nil {
			return err
		}
		if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.encoder(), ledger.DrainEvents()); err != nil {
			return err
		}
		result = &dto.ReservationResult{
			ReservationID: string(reservation.ID),
			PropertyID:    int64(ledger.PropertyID),
			RoomTypeID:    int64(ledger.RoomTypeID),
			Status:        string(reservation.Status),
			Nights:        dr.Nights(),
			Total:         quote.Total.Amount,
			Currency:      quote.Total.Currency,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (h *ReserveRoomsHandler) now() time.Time {
	return h.Clock.Instant()
}

func (h *ReserveRoomsHandler) encoder() outbox.EventEncoder {
	if h.Encoder != nil {
		return h.Encoder
	}
	return outbox.JSONEventEncoder{}
}

var (
	_ commands.Handler[ReserveRoomsCommand, *dto.ReservationResult] = (*ReserveRoomsHandler)(nil)
	_ middleware.IdempotentCommand                                 = ReserveRoomsCommand{}
)
