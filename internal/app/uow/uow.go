package uow

import (
	"context"

	"qbooking/internal/domain/calendar"
	"qbooking/internal/domain/inventory"
)

// UnitOfWork coordinates repositories inside a transaction boundary.
type UnitOfWork interface {
	Properties() inventory.PropertyRepository
	RoomTypes() inventory.RoomTypeRepository
	Ledgers() inventory.LedgerRepository
	Holidays() calendar.HolidayRepository

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// UoWFactory starts unit of work instances.
type UoWFactory interface {
	Begin(ctx context.Context, opts TxOptions) (UnitOfWork, error)
}

// TxOptions configure transaction boundaries.
type TxOptions struct {
	ReadOnly bool
}
