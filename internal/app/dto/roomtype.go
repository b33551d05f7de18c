package dto

import "qbooking/internal/domain/inventory"

// RoomType carries the limits the guest and room counters are bounded by.
type RoomType struct {
	ID           int64  `json:"id"`
	PropertyID   int64  `json:"propertyId"`
	PropertyName string `json:"propertyName,omitempty"`
	Name         string `json:"name"`
	TotalRooms   int    `json:"totalRooms"`
	MaxAdults    int    `json:"maxAdults"`
	MaxChildren  int    `json:"maxChildren"`
	BasePrice    int64  `json:"basePrice"`
	WeekendPrice int64  `json:"weekendPrice"`
	Currency     string `json:"currency"`
}

func MapRoomType(rt *inventory.RoomType, property *inventory.Property) RoomType {
	out := RoomType{
		ID:           int64(rt.ID),
		PropertyID:   int64(rt.PropertyID),
		Name:         rt.Name,
		TotalRooms:   rt.TotalRooms,
		MaxAdults:    rt.MaxAdults,
		MaxChildren:  rt.MaxChildren,
		BasePrice:    rt.BasePrice.Amount,
		WeekendPrice: rt.WeekendPrice.Amount,
		Currency:     rt.Currency(),
	}
	if property != nil {
		out.PropertyName = property.Name
	}
	return out
}
