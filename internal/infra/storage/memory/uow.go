package memory

import (
	"context"
	"errors"

	"qbooking/internal/app/uow"
	"qbooking/internal/domain/calendar"
	"qbooking/internal/domain/inventory"
)

// Factory wires in-memory repositories into a unit-of-work boundary.
type Factory struct {
	PropertiesRepo inventory.PropertyRepository
	RoomTypesRepo  inventory.RoomTypeRepository
	LedgersRepo    inventory.LedgerRepository
	HolidaysRepo   calendar.HolidayRepository
}

var ErrFactoryMisconfigured = errors.New("memory: unit of work factory misconfigured")

// Begin starts a lightweight boundary. Isolation comes from the ledger
// repository's version check rather than from the unit itself.
func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.PropertiesRepo == nil || f.RoomTypesRepo == nil || f.LedgersRepo == nil || f.HolidaysRepo == nil {
		return nil, ErrFactoryMisconfigured
	}
	return &Unit{factory: f}, nil
}

type Unit struct {
	factory Factory
}

func (u *Unit) Properties() inventory.PropertyRepository { return u.factory.PropertiesRepo }

func (u *Unit) RoomTypes() inventory.RoomTypeRepository { return u.factory.RoomTypesRepo }

func (u *Unit) Ledgers() inventory.LedgerRepository { return u.factory.LedgersRepo }

func (u *Unit) Holidays() calendar.HolidayRepository { return u.factory.HolidaysRepo }

func (u *Unit) Commit(ctx context.Context) error { return nil }

func (u *Unit) Rollback(ctx context.Context) error { return nil }
