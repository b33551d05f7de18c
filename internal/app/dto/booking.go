package dto

// ReserveRoomsRequest is the body of POST /bookings.
type ReserveRoomsRequest struct {
	PropertyID int64  `json:"propertyId" validate:"required,gt=0"`
	RoomTypeID int64  `json:"roomTypeId" validate:"required,gt=0"`
	CheckIn    string `json:"checkIn" validate:"required,datetime=2006-01-02"`
	CheckOut   string `json:"checkOut" validate:"required,datetime=2006-01-02"`
	RoomsCount int    `json:"roomsCount" validate:"required,gte=1"`
	Adults     int    `json:"adults" validate:"required,gte=1"`
	Children   int    `json:"children" validate:"gte=0"`
	GuestName  string `json:"guestName" validate:"required,max=120"`
}

type ReservationResult struct {
	ReservationID string `json:"reservationId"`
	PropertyID    int64  `json:"propertyId"`
	RoomTypeID    int64  `json:"roomTypeId"`
	Status        string `json:"status"`
	Nights        int    `json:"nights"`
	Total         int64  `json:"total"`
	Currency      string `json:"currency"`
}

type CancellationResult struct {
	ReservationID string `json:"reservationId"`
	PropertyID    int64  `json:"propertyId"`
	RoomTypeID    int64  `json:"roomTypeId"`
	Status        string `json:"status"`
}

func (r *ReservationResult) CalendarScope() (int64, int64) { return r.PropertyID, r.RoomTypeID }

func (r *CancellationResult) CalendarScope() (int64, int64) { return r.PropertyID, r.RoomTypeID }
