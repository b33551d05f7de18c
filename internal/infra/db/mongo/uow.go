package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"

	"qbooking/internal/app/uow"
	"qbooking/internal/domain/calendar"
	"qbooking/internal/domain/inventory"
)

// Factory wires Mongo transactions into the generic UnitOfWork interface.
type Factory struct {
	DB *mongo.Database

	PropertiesRepo inventory.PropertyRepository
	RoomTypesRepo  inventory.RoomTypeRepository
	LedgersRepo    inventory.LedgerRepository
	HolidaysRepo   calendar.HolidayRepository
}

var ErrUnitOfWorkNotConfigured = errors.New("mongo: unit of work factory missing database")

// NewFactory builds the repositories on db.
func NewFactory(db *mongo.Database) Factory {
	return Factory{
		DB:             db,
		PropertiesRepo: NewPropertyRepository(db),
		RoomTypesRepo:  NewRoomTypeRepository(db),
		LedgersRepo:    NewLedgerRepository(db),
		HolidaysRepo:   NewHolidayRepository(db),
	}
}

// Begin starts a MongoDB session/transaction.
func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.DB == nil {
		return nil, ErrUnitOfWorkNotConfigured
	}
	session, err := f.DB.Client().StartSession()
	if err != nil {
		return nil, err
	}
	txnOpts := options.Transaction().SetReadConcern(f.DB.ReadConcern()).SetWriteConcern(f.DB.WriteConcern())
	if opts.ReadOnly {
		txnOpts = txnOpts.SetReadConcern(readconcern.Snapshot())
	}
	if err := session.StartTransaction(txnOpts); err != nil {
		session.EndSession(ctx)
		return nil, err
	}
	return &Unit{
		session:    session,
		properties: f.PropertiesRepo,
		roomTypes:  f.RoomTypesRepo,
		ledgers:    f.LedgersRepo,
		holidays:   f.HolidaysRepo,
	}, nil
}

type Unit struct {
	session mongo.Session

	properties inventory.PropertyRepository
	roomTypes  inventory.RoomTypeRepository
	ledgers    inventory.LedgerRepository
	holidays   calendar.HolidayRepository
}

func (u *Unit) Properties() inventory.PropertyRepository { return u.properties }

func (u *Unit) RoomTypes() inventory.RoomTypeRepository { return u.roomTypes }

func (u *Unit) Ledgers() inventory.LedgerRepository { return u.ledgers }

func (u *Unit) Holidays() calendar.HolidayRepository { return u.holidays }

func (u *Unit) Commit(ctx context.Context) error {
	defer u.session.EndSession(ctx)
	return u.session.CommitTransaction(ctx)
}

func (u *Unit) Rollback(ctx context.Context) error {
	defer u.session.EndSession(ctx)
	return u.session.AbortTransaction(ctx)
}

// InjectContext ensures Mongo session is available in context for downstream repos.
func (u *Unit) InjectContext(ctx context.Context) context.Context {
	return mongo.NewSessionContext(ctx, u.session)
}

var _ uow.UoWFactory = Factory{}
