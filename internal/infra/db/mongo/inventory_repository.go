package mongo

import (
	"context"
	"errors"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"qbooking/internal/domain/calendar"
	"qbooking/internal/domain/inventory"
	"qbooking/internal/domain/shared/daterange"
	"qbooking/internal/domain/shared/money"
)

type PropertyRepository struct {
	col *mongo.Collection
}

func NewPropertyRepository(db *mongo.Database) *PropertyRepository {
	return &PropertyRepository{col: db.Collection("properties")}
}

type propertyDocument struct {
	ID   int64  `bson:"_id"`
	Name string `bson:"name"`
}

func (r *PropertyRepository) Property(ctx context.Context, id inventory.PropertyID) (*inventory.Property, error) {
	var doc propertyDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": int64(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, inventory.ErrPropertyNotFound
		}
		return nil, err
	}
	return &inventory.Property{ID: inventory.PropertyID(doc.ID), Name: doc.Name}, nil
}

func (r *PropertyRepository) Save(ctx context.Context, p *inventory.Property) error {
	doc := propertyDocument{ID: int64(p.ID), Name: p.Name}
	_, err := r.col.UpdateByID(ctx, doc.ID, bson.M{"$set": doc}, options.Update().SetUpsert(true))
	return err
}

type RoomTypeRepository struct {
	col *mongo.Collection
}

func NewRoomTypeRepository(db *mongo.Database) *RoomTypeRepository {
	col := db.Collection("room_types")
	_, _ = col.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys:    bson.D{{Key: "property_id", Value: 1}, {Key: "room_type_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return &RoomTypeRepository{col: col}
}

type roomTypeDocument struct {
	ID           string      `bson:"_id"`
	PropertyID   int64       `bson:"property_id"`
	RoomTypeID   int64       `bson:"room_type_id"`
	Name         string      `bson:"name"`
	TotalRooms   int         `bson:"total_rooms"`
	MaxAdults    int         `bson:"max_adults"`
	MaxChildren  int         `bson:"max_children"`
	BasePrice    money.Money `bson:"base_price"`
	WeekendPrice money.Money `bson:"weekend_price"`
}

func (d roomTypeDocument) toDomain() *inventory.RoomType {
	return &inventory.RoomType{
		ID:           inventory.RoomTypeID(d.RoomTypeID),
		PropertyID:   inventory.PropertyID(d.PropertyID),
		Name:         d.Name,
		TotalRooms:   d.TotalRooms,
		MaxAdults:    d.MaxAdults,
		MaxChildren:  d.MaxChildren,
		BasePrice:    d.BasePrice,
		WeekendPrice: d.WeekendPrice,
	}
}

func (r *RoomTypeRepository) RoomType(ctx context.Context, propertyID inventory.PropertyID, id inventory.RoomTypeID) (*inventory.RoomType, error) {
	var doc roomTypeDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": compositeID(propertyID, id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, inventory.ErrRoomTypeNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *RoomTypeRepository) ListByProperty(ctx context.Context, propertyID inventory.PropertyID) ([]*inventory.RoomType, error) {
	cur, err := r.col.Find(ctx, bson.M{"property_id": int64(propertyID)}, options.Find().SetSort(bson.D{{Key: "room_type_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []*inventory.RoomType
	for cur.Next(ctx) {
		var doc roomTypeDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toDomain())
	}
	return out, cur.Err()
}

func (r *RoomTypeRepository) Save(ctx context.Context, rt *inventory.RoomType) error {
	if err := rt.Validate(); err != nil {
		return err
	}
	doc := roomTypeDocument{
		ID:           compositeID(rt.PropertyID, rt.ID),
		PropertyID:   int64(rt.PropertyID),
		RoomTypeID:   int64(rt.ID),
		Name:         rt.Name,
		TotalRooms:   rt.TotalRooms,
		MaxAdults:    rt.MaxAdults,
		MaxChildren:  rt.MaxChildren,
		BasePrice:    rt.BasePrice,
		WeekendPrice: rt.WeekendPrice,
	}
	_, err := r.col.UpdateByID(ctx, doc.ID, bson.M{"$set": doc}, options.Update().SetUpsert(true))
	return err
}

// LedgerRepository keeps one document per room type with its reservations embedded.
type LedgerRepository struct {
	col *mongo.Collection
}

func NewLedgerRepository(db *mongo.Database) *LedgerRepository {
	col := db.Collection("agg_ledger")
	_, _ = col.Indexes().CreateOne(context.Background(), mongo.IndexModel{Keys: bson.D{{Key: "reservations.id", Value: 1}}})
	return &LedgerRepository{col: col}
}

type ledgerDocument struct {
	ID           string                `bson:"_id"`
	PropertyID   int64                 `bson:"property_id"`
	RoomTypeID   int64                 `bson:"room_type_id"`
	Reservations []reservationDocument `bson:"reservations"`
	Version      int64                 `bson:"version"`
}

type reservationDocument struct {
	ID          string    `bson:"id"`
	CheckIn     time.Time `bson:"check_in"`
	CheckOut    time.Time `bson:"check_out"`
	RoomsCount  int       `bson:"rooms_count"`
	Adults      int       `bson:"adults"`
	Children    int       `bson:"children"`
	GuestName   string    `bson:"guest_name"`
	Status      string    `bson:"status"`
	CreatedAt   time.Time `bson:"created_at"`
	CancelledAt time.Time `bson:"cancelled_at,omitempty"`
}

func (r *LedgerRepository) Ledger(ctx context.Context, propertyID inventory.PropertyID, roomTypeID inventory.RoomTypeID) (*inventory.Ledger, error) {
	var doc ledgerDocument
	err := r.col.FindOne(ctx, bson.M{"_id": compositeID(propertyID, roomTypeID)}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return inventory.NewLedger(propertyID, roomTypeID), nil
	}
	if err != nil {
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *LedgerRepository) ByReservation(ctx context.Context, id inventory.ReservationID) (*inventory.Ledger, error) {
	var doc ledgerDocument
	if err := r.col.FindOne(ctx, bson.M{"reservations.id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, inventory.ErrReservationNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

// Save writes the ledger only if nobody else saved since it was read.
func (r *LedgerRepository) Save(ctx context.Context, l *inventory.Ledger) error {
	doc := newLedgerDocument(l)
	filter := bson.M{"_id": doc.ID, "version": l.Version}
	doc.Version = l.Version + 1
	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$set": doc}, options.Update().SetUpsert(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return inventory.ErrConcurrentUpdate
		}
		return err
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return inventory.ErrConcurrentUpdate
	}
	l.Version = doc.Version
	return nil
}

func newLedgerDocument(l *inventory.Ledger) ledgerDocument {
	doc := ledgerDocument{
		ID:           compositeID(l.PropertyID, l.RoomTypeID),
		PropertyID:   int64(l.PropertyID),
		RoomTypeID:   int64(l.RoomTypeID),
		Reservations: make([]reservationDocument, 0, len(l.Reservations)),
		Version:      l.Version,
	}
	for _, res := range l.Reservations {
		doc.Reservations = append(doc.Reservations, reservationDocument{
			ID:          string(res.ID),
			CheckIn:     res.Range.CheckIn,
			CheckOut:    res.Range.CheckOut,
			RoomsCount:  res.RoomsCount,
			Adults:      res.Adults,
			Children:    res.Children,
			GuestName:   res.GuestName,
			Status:      string(res.Status),
			CreatedAt:   res.CreatedAt,
			CancelledAt: res.CancelledAt,
		})
	}
	return doc
}

func (d ledgerDocument) toAggregate() *inventory.Ledger {
	l := inventory.NewLedger(inventory.PropertyID(d.PropertyID), inventory.RoomTypeID(d.RoomTypeID))
	l.Version = d.Version
	for _, res := range d.Reservations {
		l.Reservations = append(l.Reservations, inventory.Reservation{
			ID:          inventory.ReservationID(res.ID),
			Range:       daterange.DateRange{CheckIn: res.CheckIn.UTC(), CheckOut: res.CheckOut.UTC()},
			RoomsCount:  res.RoomsCount,
			Adults:      res.Adults,
			Children:    res.Children,
			GuestName:   res.GuestName,
			Status:      inventory.ReservationStatus(res.Status),
			CreatedAt:   res.CreatedAt.UTC(),
			CancelledAt: res.CancelledAt.UTC(),
		})
	}
	return l
}

type HolidayRepository struct {
	col *mongo.Collection
}

func NewHolidayRepository(db *mongo.Database) *HolidayRepository {
	col := db.Collection("holidays")
	_, _ = col.Indexes().CreateOne(context.Background(), mongo.IndexModel{Keys: bson.D{{Key: "from", Value: 1}, {Key: "to", Value: 1}}})
	return &HolidayRepository{col: col}
}

type holidayDocument struct {
	Name             string    `bson:"name"`
	From             time.Time `bson:"from"`
	To               time.Time `bson:"to"`
	SurchargePercent int       `bson:"surcharge_percent"`
}

func (r *HolidayRepository) Overlapping(ctx context.Context, from, to time.Time) ([]calendar.Holiday, error) {
	filter := bson.M{"to": bson.M{"$gte": from}, "from": bson.M{"$lte": to}}
	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "from", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []calendar.Holiday
	for cur.Next(ctx) {
		var doc holidayDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, calendar.Holiday{
			Name: doc.Name, From: doc.From.UTC(), To: doc.To.UTC(), SurchargePercent: doc.SurchargePercent,
		})
	}
	return out, cur.Err()
}

// Save upserts by name and start date so fixture reloads stay idempotent.
func (r *HolidayRepository) Save(ctx context.Context, h calendar.Holiday) error {
	if err := h.Validate(); err != nil {
		return err
	}
	doc := holidayDocument{Name: h.Name, From: h.From.UTC(), To: h.To.UTC(), SurchargePercent: h.SurchargePercent}
	filter := bson.M{"name": doc.Name, "from": doc.From}
	_, err := r.col.UpdateOne(ctx, filter, bson.M{"$set": doc}, options.Update().SetUpsert(true))
	return err
}

func compositeID(propertyID inventory.PropertyID, roomTypeID inventory.RoomTypeID) string {
	return strconv.FormatInt(int64(propertyID), 10) + "/" + strconv.FormatInt(int64(roomTypeID), 10)
}
