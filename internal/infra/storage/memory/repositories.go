package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"qbooking/internal/domain/calendar"
	"qbooking/internal/domain/inventory"
)

// PropertyRepository keeps properties in memory.
type PropertyRepository struct {
	mu    sync.RWMutex
	items map[inventory.PropertyID]inventory.Property
}

func NewPropertyRepository() *PropertyRepository {
	return &PropertyRepository{items: make(map[inventory.PropertyID]inventory.Property)}
}

func (r *PropertyRepository) Property(ctx context.Context, id inventory.PropertyID) (*inventory.Property, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.items[id]
	if !ok {
		return nil, inventory.ErrPropertyNotFound
	}
	return &p, nil
}

func (r *PropertyRepository) Save(ctx context.Context, property *inventory.Property) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[property.ID] = *property
	return nil
}

type roomTypeKey struct {
	property inventory.PropertyID
	roomType inventory.RoomTypeID
}

// RoomTypeRepository keeps room types in memory, returning copies.
type RoomTypeRepository struct {
	mu    sync.RWMutex
	items map[roomTypeKey]inventory.RoomType
}

func NewRoomTypeRepository() *RoomTypeRepository {
	return &RoomTypeRepository{items: make(map[roomTypeKey]inventory.RoomType)}
}

func (r *RoomTypeRepository) RoomType(ctx context.Context, propertyID inventory.PropertyID, id inventory.RoomTypeID) (*inventory.RoomType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rt, ok := r.items[roomTypeKey{propertyID, id}]
	if !ok {
		return nil, inventory.ErrRoomTypeNotFound
	}
	return &rt, nil
}

func (r *RoomTypeRepository) ListByProperty(ctx context.Context, propertyID inventory.PropertyID) ([]*inventory.RoomType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*inventory.RoomType
	for key, rt := range r.items {
		if key.property == propertyID {
			rt := rt
			out = append(out, &rt)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *RoomTypeRepository) Save(ctx context.Context, roomType *inventory.RoomType) error {
	if err := roomType.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[roomTypeKey{roomType.PropertyID, roomType.ID}] = *roomType
	return nil
}

// LedgerRepository stores ledgers by value and enforces optimistic versioning,
// so concurrent reservations on the same room type cannot both commit.
type LedgerRepository struct {
	mu    sync.RWMutex
	items map[roomTypeKey]*inventory.Ledger
}

func NewLedgerRepository() *LedgerRepository {
	return &LedgerRepository{items: make(map[roomTypeKey]*inventory.Ledger)}
}

// Ledger returns a detached copy, lazily starting an empty ledger.
func (r *LedgerRepository) Ledger(ctx context.Context, propertyID inventory.PropertyID, roomTypeID inventory.RoomTypeID) (*inventory.Ledger, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if l, ok := r.items[roomTypeKey{propertyID, roomTypeID}]; ok {
		return l.Clone(), nil
	}
	return inventory.NewLedger(propertyID, roomTypeID), nil
}

func (r *LedgerRepository) ByReservation(ctx context.Context, id inventory.ReservationID) (*inventory.Ledger, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, l := range r.items {
		if _, ok := l.Reservation(id); ok {
			return l.Clone(), nil
		}
	}
	return nil, inventory.ErrReservationNotFound
}

func (r *LedgerRepository) Save(ctx context.Context, ledger *inventory.Ledger) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := roomTypeKey{ledger.PropertyID, ledger.RoomTypeID}
	current, ok := r.items[key]
	currentVersion := int64(0)
	if ok {
		currentVersion = current.Version
	}
	if currentVersion != ledger.Version {
		return inventory.ErrConcurrentUpdate
	}
	ledger.Version++
	r.items[key] = ledger.Clone()
	return nil
}

// HolidayRepository keeps holidays ordered by start date.
type HolidayRepository struct {
	mu    sync.RWMutex
	items []calendar.Holiday
}

func NewHolidayRepository() *HolidayRepository {
	return &HolidayRepository{}
}

func (r *HolidayRepository) Overlapping(ctx context.Context, from, to time.Time) ([]calendar.Holiday, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []calendar.Holiday
	for _, h := range r.items {
		if !h.To.Before(from) && !h.From.After(to) {
			out = append(out, h)
		}
	}
	return out, nil
}

func (r *HolidayRepository) Save(ctx context.Context, holiday calendar.Holiday) error {
	if err := holiday.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, holiday)
	sort.SliceStable(r.items, func(i, j int) bool { return r.items[i].From.Before(r.items[j].From) })
	return nil
}
