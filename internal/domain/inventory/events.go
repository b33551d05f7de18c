package inventory

import (
	"strconv"
	"time"

	"qbooking/internal/domain/shared/daterange"
)

type RoomsReserved struct {
	ReservationID ReservationID       `json:"reservation_id"`
	PropertyID    PropertyID          `json:"property_id"`
	RoomTypeID    RoomTypeID          `json:"room_type_id"`
	Range         daterange.DateRange `json:"range"`
	RoomsCount    int                 `json:"rooms_count"`
	At            time.Time           `json:"at"`
}

func (e RoomsReserved) EventName() string     { return "inventory.rooms_reserved" }
func (e RoomsReserved) AggregateID() string   { return ledgerAggregateID(e.PropertyID, e.RoomTypeID) }
func (e RoomsReserved) OccurredAt() time.Time { return e.At }

type RoomsReleased struct {
	ReservationID ReservationID       `json:"reservation_id"`
	PropertyID    PropertyID          `json:"property_id"`
	RoomTypeID    RoomTypeID          `json:"room_type_id"`
	Range         daterange.DateRange `json:"range"`
	RoomsCount    int                 `json:"rooms_count"`
	At            time.Time           `json:"at"`
}

func (e RoomsReleased) EventName() string     { return "inventory.rooms_released" }
func (e RoomsReleased) AggregateID() string   { return ledgerAggregateID(e.PropertyID, e.RoomTypeID) }
func (e RoomsReleased) OccurredAt() time.Time { return e.At }

type OverbookingPrevented struct {
	PropertyID PropertyID          `json:"property_id"`
	RoomTypeID RoomTypeID          `json:"room_type_id"`
	Range      daterange.DateRange `json:"range"`
	Requested  int                 `json:"requested"`
	Available  int                 `json:"available"`
	At         time.Time           `json:"at"`
}

func (e OverbookingPrevented) EventName() string     { return "inventory.overbooking_prevented" }
func (e OverbookingPrevented) AggregateID() string   { return ledgerAggregateID(e.PropertyID, e.RoomTypeID) }
func (e OverbookingPrevented) OccurredAt() time.Time { return e.At }

func ledgerAggregateID(propertyID PropertyID, roomTypeID RoomTypeID) string {
	return strconv.FormatInt(int64(propertyID), 10) + "/" + strconv.FormatInt(int64(roomTypeID), 10)
}
