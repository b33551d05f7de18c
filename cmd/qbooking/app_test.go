package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"qbooking/internal/app/dto"
	"qbooking/internal/infra/config"
	ginserver "qbooking/internal/infra/http/gin"
	"qbooking/internal/infra/obs"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestApp(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.Defaults()
	cfg.Timezone = "UTC"

	app, err := buildApplication(context.Background(), cfg, logger)
	if err != nil {
		t.Fatalf("build application: %v", err)
	}
	t.Cleanup(app.Close)
	err = app.importFixtures(context.Background(), inventoryFixtures{
		Properties: []propertyFixture{{
			ID: 5, Name: "Riverside",
			RoomTypes: []roomTypeFixture{{
				ID: 12, Name: "Deluxe", TotalRooms: 5, MaxAdults: 2, MaxChildren: 2,
				BasePrice: 1_000_000, WeekendPrice: 1_200_000, Currency: "VND",
			}},
		}},
	}, logger)
	if err != nil {
		t.Fatalf("import fixtures: %v", err)
	}
	return ginserver.NewRouter(obs.Middleware{Logger: logger}, app.health, app.handlers)
}

func do(t *testing.T, router http.Handler, method, path string, body any, headers map[string]string) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %s %s: %v (%s)", method, path, err, rec.Body.String())
	}
	return rec.Code, env
}

func stay() (checkIn, checkOut time.Time) {
	checkIn = time.Now().UTC().AddDate(0, 0, 40)
	checkIn = time.Date(checkIn.Year(), checkIn.Month(), checkIn.Day(), 0, 0, 0, 0, time.UTC)
	return checkIn, checkIn.AddDate(0, 0, 2)
}

func reserveBody(rooms int) dto.ReserveRoomsRequest {
	in, out := stay()
	return dto.ReserveRoomsRequest{
		PropertyID: 5, RoomTypeID: 12,
		CheckIn: in.Format("2006-01-02"), CheckOut: out.Format("2006-01-02"),
		RoomsCount: rooms, Adults: 2, GuestName: "Nguyen Van A",
	}
}

func checkBody(rooms int) dto.CheckAvailabilityRequest {
	r := reserveBody(rooms)
	return dto.CheckAvailabilityRequest{
		PropertyID: r.PropertyID, RoomTypeID: r.RoomTypeID, CheckIn: r.CheckIn, CheckOut: r.CheckOut,
		RoomsCount: rooms, Adults: 2, TotalGuests: 2,
	}
}

func TestCheckThenReserveUntilSoldOut(t *testing.T) {
	router := newTestApp(t)

	code, env := do(t, router, http.MethodPost, "/api/v1/bookings/check-availability", checkBody(5), nil)
	if code != http.StatusOK || !env.Success {
		t.Fatalf("check: %d %+v", code, env)
	}
	var avail dto.AvailabilityResult
	_ = json.Unmarshal(env.Data, &avail)
	if !avail.Available || avail.AvailableRooms != 5 {
		t.Fatalf("expected 5 free rooms, got %+v", avail)
	}

	code, env = do(t, router, http.MethodPost, "/api/v1/bookings", reserveBody(5), nil)
	if code != http.StatusCreated {
		t.Fatalf("reserve: %d %+v", code, env)
	}

	code, env = do(t, router, http.MethodPost, "/api/v1/bookings/check-availability", checkBody(1), nil)
	if code != http.StatusOK {
		t.Fatalf("check after reserve: %d %+v", code, env)
	}
	_ = json.Unmarshal(env.Data, &avail)
	if avail.Available || avail.AvailableRooms != 0 {
		t.Fatalf("expected sold out, got %+v", avail)
	}

	code, env = do(t, router, http.MethodPost, "/api/v1/bookings", reserveBody(1), nil)
	if code != http.StatusConflict || env.Success {
		t.Fatalf("expected 409 on overbooking, got %d %+v", code, env)
	}
}

func TestReserveBumpsCachedCalendar(t *testing.T) {
	router := newTestApp(t)
	in, _ := stay()
	path := fmt.Sprintf("/api/v1/bookings/available-dates?propertyId=5&roomTypeId=12&year=%d&month=%d", in.Year(), int(in.Month()))

	roomsOn := func() int {
		code, env := do(t, router, http.MethodGet, path, nil, nil)
		if code != http.StatusOK {
			t.Fatalf("available dates: %d %+v", code, env)
		}
		var data dto.AvailableDates
		if err := json.Unmarshal(env.Data, &data); err != nil {
			t.Fatalf("decode calendar: %v", err)
		}
		for _, d := range data.Calendar {
			if d.Day == in.Day() {
				return d.AvailableRooms
			}
		}
		t.Fatalf("day %d missing from calendar", in.Day())
		return 0
	}

	if got := roomsOn(); got != 5 {
		t.Fatalf("expected 5 rooms before reserve, got %d", got)
	}
	if code, env := do(t, router, http.MethodPost, "/api/v1/bookings", reserveBody(2), nil); code != http.StatusCreated {
		t.Fatalf("reserve: %d %+v", code, env)
	}
	if got := roomsOn(); got != 3 {
		t.Fatalf("expected cached calendar to refresh to 3 rooms, got %d", got)
	}
}

func TestReserveIsIdempotent(t *testing.T) {
	router := newTestApp(t)
	headers := map[string]string{"Idempotency-Key": "retry-1"}

	_, first := do(t, router, http.MethodPost, "/api/v1/bookings", reserveBody(1), headers)
	code, second := do(t, router, http.MethodPost, "/api/v1/bookings", reserveBody(1), headers)
	if code != http.StatusCreated {
		t.Fatalf("replay: %d %+v", code, second)
	}
	var a, b dto.ReservationResult
	_ = json.Unmarshal(first.Data, &a)
	_ = json.Unmarshal(second.Data, &b)
	if a.ReservationID == "" || a.ReservationID != b.ReservationID {
		t.Fatalf("expected the same reservation, got %q and %q", a.ReservationID, b.ReservationID)
	}

	_, env := do(t, router, http.MethodPost, "/api/v1/bookings/check-availability", checkBody(1), nil)
	var avail dto.AvailabilityResult
	_ = json.Unmarshal(env.Data, &avail)
	if avail.AvailableRooms != 4 {
		t.Fatalf("replay must not book twice, free rooms %d", avail.AvailableRooms)
	}
}

func TestCancelReleasesRooms(t *testing.T) {
	router := newTestApp(t)
	_, env := do(t, router, http.MethodPost, "/api/v1/bookings", reserveBody(3), nil)
	var res dto.ReservationResult
	_ = json.Unmarshal(env.Data, &res)

	code, env := do(t, router, http.MethodDelete, "/api/v1/bookings/"+res.ReservationID, nil, nil)
	if code != http.StatusOK || !env.Success {
		t.Fatalf("cancel: %d %+v", code, env)
	}
	code, _ = do(t, router, http.MethodDelete, "/api/v1/bookings/"+res.ReservationID, nil, nil)
	if code != http.StatusConflict {
		t.Fatalf("second cancel should conflict, got %d", code)
	}
	_, env = do(t, router, http.MethodPost, "/api/v1/bookings/check-availability", checkBody(5), nil)
	var avail dto.AvailabilityResult
	_ = json.Unmarshal(env.Data, &avail)
	if !avail.Available {
		t.Fatalf("rooms should be free again, got %+v", avail)
	}
}

func TestUnknownRoomTypeIsNotFound(t *testing.T) {
	router := newTestApp(t)
	code, env := do(t, router, http.MethodGet, "/api/v1/properties/5/room-types/99", nil, nil)
	if code != http.StatusNotFound || env.Success {
		t.Fatalf("expected 404, got %d %+v", code, env)
	}
}

func TestListRoomTypesOfProperty(t *testing.T) {
	router := newTestApp(t)
	code, env := do(t, router, http.MethodGet, "/api/v1/properties/5/room-types", nil, nil)
	if code != http.StatusOK {
		t.Fatalf("list: %d %+v", code, env)
	}
	var rts []dto.RoomType
	_ = json.Unmarshal(env.Data, &rts)
	if len(rts) != 1 || rts[0].ID != 12 || rts[0].PropertyName != "Riverside" || rts[0].TotalRooms != 5 {
		t.Fatalf("unexpected room types %+v", rts)
	}

	code, _ = do(t, router, http.MethodGet, "/api/v1/properties/99/room-types", nil, nil)
	if code != http.StatusNotFound {
		t.Fatalf("unknown property should be 404, got %d", code)
	}
}

func TestOverlongStayIsBadRequest(t *testing.T) {
	router := newTestApp(t)
	body := checkBody(1)
	body.CheckOut = "9999-12-31"
	code, env := do(t, router, http.MethodPost, "/api/v1/bookings/check-availability", body, nil)
	if code != http.StatusBadRequest || env.Success {
		t.Fatalf("expected 400, got %d %+v", code, env)
	}
}
