package dto

import "qbooking/internal/domain/inventory"

// CheckAvailabilityRequest is the body of POST /bookings/check-availability.
type CheckAvailabilityRequest struct {
	PropertyID  int64  `json:"propertyId" validate:"required,gt=0"`
	RoomTypeID  int64  `json:"roomTypeId" validate:"required,gt=0"`
	CheckIn     string `json:"checkIn" validate:"required,datetime=2006-01-02"`
	CheckOut    string `json:"checkOut" validate:"required,datetime=2006-01-02"`
	RoomsCount  int    `json:"roomsCount" validate:"required,gte=1"`
	TotalGuests int    `json:"totalGuests" validate:"gte=0"`
	Adults      int    `json:"adults" validate:"required,gte=1"`
	Children    int    `json:"children" validate:"gte=0"`
}

type AvailabilityResult struct {
	Available      bool `json:"available"`
	AvailableRooms int  `json:"availableRooms"`
}

func MapAvailability(r inventory.AvailabilityResult) AvailabilityResult {
	return AvailabilityResult{Available: r.Available, AvailableRooms: r.AvailableRooms}
}
