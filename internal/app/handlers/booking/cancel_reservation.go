package booking

import (
	"context"

	"qbooking/internal/app/commands"
	"qbooking/internal/app/dto"
	"qbooking/internal/app/outbox"
	"qbooking/internal/app/policies"
	"qbooking/internal/app/uow"
	"qbooking/internal/domain/inventory"
)

const cancelReservationKey = "booking.cancel_reservation"

type CancelReservationCommand struct {
	ReservationID string `validate:"required"`
}

func (c CancelReservationCommand) Key() string { return cancelReservationKey }

type CancelReservationHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Clock      policies.Clock
}

func (h *CancelReservationHandler) Handle(ctx context.Context, cmd CancelReservationCommand) (*dto.CancellationResult, error) {
	id := inventory.ReservationID(cmd.ReservationID)
	var result *dto.CancellationResult
	err := uow.Run(ctx, h.UoWFactory, uow.TxOptions{}, func(ctx context.Context, unit uow.UnitOfWork) error {
		ledger, err := unit.Ledgers().ByReservation(ctx, id)
		if err != nil {
			return err
		}
		if err := ledger.Release(id, h.Clock.Instant()); err != nil {
			return err
		}
		if err := unit.Ledgers().Save(ctx, ledger); err != nil {
			return err
		}
		encoder := h.Encoder
		if encoder == nil {
			encoder = outbox.JSONEventEncoder{}
		}
		if err := outbox.RecordDomainEvents(ctx, h.Outbox, encoder, ledger.DrainEvents()); err != nil {
			return err
		}
		result = &dto.CancellationResult{
			ReservationID: cmd.ReservationID,
			PropertyID:    int64(ledger.PropertyID),
			RoomTypeID:    int64(ledger.RoomTypeID),
			Status:        string(inventory.StatusCancelled),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

var _ commands.Handler[CancelReservationCommand, *dto.CancellationResult] = (*CancelReservationHandler)(nil)
