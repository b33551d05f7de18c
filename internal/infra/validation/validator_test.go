package validation

import (
	"context"
	"errors"
	"testing"

	"qbooking/internal/app/dto"
)

func TestValidatorReportsJSONFieldNames(t *testing.T) {
	v := New()
	err := v.Validate(context.Background(), dto.CheckAvailabilityRequest{
		PropertyID: 5,
		RoomTypeID: 12,
		CheckIn:    "06/01/2025",
		CheckOut:   "2025-06-03",
		Adults:     2,
	})
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	var verr *Error
	if !errors.As(err, &verr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if _, ok := verr.Fields["checkIn"]; !ok {
		t.Fatalf("expected checkIn error, got %v", verr.Fields)
	}
	if _, ok := verr.Fields["roomsCount"]; !ok {
		t.Fatalf("expected roomsCount error, got %v", verr.Fields)
	}
	if _, ok := verr.Fields["checkOut"]; ok {
		t.Fatalf("checkOut is valid, got %v", verr.Fields)
	}
}

func TestValidatorAcceptsValidRequest(t *testing.T) {
	v := New()
	err := v.Validate(context.Background(), dto.CheckAvailabilityRequest{
		PropertyID: 5,
		RoomTypeID: 12,
		CheckIn:    "2025-06-01",
		CheckOut:   "2025-06-03",
		RoomsCount: 1,
		Adults:     2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
