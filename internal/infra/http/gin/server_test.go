package ginserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	gin "github.com/gin-gonic/gin"

	"qbooking/internal/app/commands"
	"qbooking/internal/app/dto"
	availabilityapp "qbooking/internal/app/handlers/availability"
	bookingapp "qbooking/internal/app/handlers/booking"
	inventoryapp "qbooking/internal/app/handlers/inventory"
	"qbooking/internal/app/middleware"
	"qbooking/internal/app/queries"
	"qbooking/internal/domain/inventory"
	"qbooking/internal/infra/obs"
	"qbooking/internal/infra/validation"
)

type testEnvelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestRouter(t *testing.T, qbus queries.Bus, cbus commands.Bus) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	return NewRouter(obs.Middleware{}, obs.HealthHandlers{}, Handlers{
		Availability: AvailabilityHandler{Queries: qbus},
		Booking:      BookingHandler{Commands: cbus, NewID: func() string { return "res-1" }},
		Inventory:    InventoryHandler{Queries: qbus},
	})
}

func perform(router *gin.Engine, method, target, body string, headers map[string]string) (*httptest.ResponseRecorder, testEnvelope) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	var env testEnvelope
	_ = json.Unmarshal(rec.Body.Bytes(), &env)
	return rec, env
}

func TestCheckAvailabilityEnvelope(t *testing.T) {
	qbus := queries.NewInMemoryBus()
	var got availabilityapp.CheckAvailabilityQuery
	queries.RegisterHandler[availabilityapp.CheckAvailabilityQuery, dto.AvailabilityResult](qbus,
		queries.HandlerFunc[availabilityapp.CheckAvailabilityQuery, dto.AvailabilityResult](
			func(ctx context.Context, q availabilityapp.CheckAvailabilityQuery) (dto.AvailabilityResult, error) {
				got = q
				return dto.AvailabilityResult{Available: true, AvailableRooms: 4}, nil
			}))
	router := newTestRouter(t, qbus, commands.NewInMemoryBus())

	body := `{"propertyId":5,"roomTypeId":12,"checkIn":"2025-06-01","checkOut":"2025-06-03","roomsCount":1,"totalGuests":2,"adults":2,"children":0}`
	rec, env := perform(router, http.MethodPost, "/api/v1/bookings/check-availability", body, nil)

	if rec.Code != http.StatusOK || !env.Success {
		t.Fatalf("unexpected response %d %s", rec.Code, rec.Body.String())
	}
	var data dto.AvailabilityResult
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if !data.Available || data.AvailableRooms != 4 {
		t.Fatalf("unexpected data %+v", data)
	}
	if got.PropertyID != 5 || got.RoomTypeID != 12 || got.CheckIn != "2025-06-01" || got.TotalGuests != 2 {
		t.Fatalf("query not bound: %+v", got)
	}
}

func TestErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"validation", &validation.Error{Fields: map[string]string{"checkIn": "is required"}}, http.StatusBadRequest, "checkIn: is required"},
		{"booking query", fmt.Errorf("%w: %w", inventory.ErrInvalidBookingQuery, inventory.ErrAdultsExceedCapacity), http.StatusBadRequest, inventory.ErrAdultsExceedCapacity.Error()},
		{"not found", inventory.ErrRoomTypeNotFound, http.StatusNotFound, "room type not found"},
		{"conflict", inventory.ErrInsufficientRooms, http.StatusConflict, "not enough rooms"},
		{"idempotency", middleware.ErrIdempotencyKeyReused, http.StatusConflict, "idempotency key"},
		{"internal", fmt.Errorf("mongo: connection reset"), http.StatusInternalServerError, "internal error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			qbus := queries.NewInMemoryBus()
			queries.RegisterHandler[availabilityapp.CheckAvailabilityQuery, dto.AvailabilityResult](qbus,
				queries.HandlerFunc[availabilityapp.CheckAvailabilityQuery, dto.AvailabilityResult](
					func(context.Context, availabilityapp.CheckAvailabilityQuery) (dto.AvailabilityResult, error) {
						return dto.AvailabilityResult{}, tc.err
					}))
			router := newTestRouter(t, qbus, commands.NewInMemoryBus())
			rec, env := perform(router, http.MethodPost, "/api/v1/bookings/check-availability", `{"propertyId":5}`, nil)
			if rec.Code != tc.status {
				t.Fatalf("status = %d, want %d", rec.Code, tc.status)
			}
			if env.Success {
				t.Fatalf("expected success=false")
			}
			if !strings.Contains(env.Message, tc.message) {
				t.Fatalf("message %q does not contain %q", env.Message, tc.message)
			}
			if strings.Contains(env.Message, "mongo") {
				t.Fatalf("internal detail leaked: %q", env.Message)
			}
		})
	}
}

func TestMalformedBodyIsBadRequest(t *testing.T) {
	router := newTestRouter(t, queries.NewInMemoryBus(), commands.NewInMemoryBus())
	rec, env := perform(router, http.MethodPost, "/api/v1/bookings/check-availability", `{"propertyId":`, nil)
	if rec.Code != http.StatusBadRequest || env.Success {
		t.Fatalf("expected 400 envelope, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestAvailableDatesBindsQueryString(t *testing.T) {
	qbus := queries.NewInMemoryBus()
	var got availabilityapp.GetAvailableDatesQuery
	queries.RegisterHandler[availabilityapp.GetAvailableDatesQuery, dto.AvailableDates](qbus,
		queries.HandlerFunc[availabilityapp.GetAvailableDatesQuery, dto.AvailableDates](
			func(ctx context.Context, q availabilityapp.GetAvailableDatesQuery) (dto.AvailableDates, error) {
				got = q
				return dto.AvailableDates{RoomTypeName: "Deluxe", MonthName: "June", TotalRooms: 5}, nil
			}))
	router := newTestRouter(t, qbus, commands.NewInMemoryBus())

	rec, env := perform(router, http.MethodGet, "/api/v1/bookings/available-dates?propertyId=5&roomTypeId=12&year=2025&month=6&roomsCount=2", "", nil)
	if rec.Code != http.StatusOK || !env.Success {
		t.Fatalf("unexpected response %d %s", rec.Code, rec.Body.String())
	}
	if got.Year != 2025 || got.Month != 6 || got.RoomsCount != 2 || got.RoomTypeID != 12 {
		t.Fatalf("query not bound: %+v", got)
	}
	var data dto.AvailableDates
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if data.RoomTypeName != "Deluxe" || data.TotalRooms != 5 {
		t.Fatalf("unexpected data %+v", data)
	}
}

func TestCreateBookingPassesIdempotencyKey(t *testing.T) {
	cbus := commands.NewInMemoryBus()
	var got bookingapp.ReserveRoomsCommand
	commands.RegisterHandler[bookingapp.ReserveRoomsCommand, *dto.ReservationResult](cbus,
		commands.HandlerFunc[bookingapp.ReserveRoomsCommand, *dto.ReservationResult](
			func(ctx context.Context, cmd bookingapp.ReserveRoomsCommand) (*dto.ReservationResult, error) {
				got = cmd
				return &dto.ReservationResult{ReservationID: cmd.ReservationID, Status: "HELD", Total: 3000000}, nil
			}))
	router := newTestRouter(t, queries.NewInMemoryBus(), cbus)

	body := `{"propertyId":5,"roomTypeId":12,"checkIn":"2025-06-01","checkOut":"2025-06-03","roomsCount":1,"adults":2,"children":0,"guestName":"Lan"}`
	rec, env := perform(router, http.MethodPost, "/api/v1/bookings", body, map[string]string{"Idempotency-Key": "abc"})
	if rec.Code != http.StatusCreated || !env.Success {
		t.Fatalf("unexpected response %d %s", rec.Code, rec.Body.String())
	}
	if got.IdempotencyKeyV != "abc" || got.ReservationID != "res-1" || got.GuestName != "Lan" {
		t.Fatalf("command not built: %+v", got)
	}
}

func TestRoomTypeRejectsNonNumericID(t *testing.T) {
	qbus := queries.NewInMemoryBus()
	queries.RegisterHandler[inventoryapp.GetRoomTypeQuery, dto.RoomType](qbus,
		queries.HandlerFunc[inventoryapp.GetRoomTypeQuery, dto.RoomType](
			func(context.Context, inventoryapp.GetRoomTypeQuery) (dto.RoomType, error) {
				return dto.RoomType{ID: 12}, nil
			}))
	router := newTestRouter(t, qbus, commands.NewInMemoryBus())

	rec, _ := perform(router, http.MethodGet, "/api/v1/properties/five/room-types/12", "", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	rec, env := perform(router, http.MethodGet, "/api/v1/properties/5/room-types/12", "", nil)
	if rec.Code != http.StatusOK || !env.Success {
		t.Fatalf("expected 200, got %d %s", rec.Code, rec.Body.String())
	}
}
