package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"qbooking/internal/app/dto"
	"qbooking/internal/infra/config"
)

type fakeAPI struct {
	mu       sync.Mutex
	checks   []dto.CheckAvailabilityRequest
	result   dto.AvailabilityResult
	roomType dto.RoomType
}

func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()
	write := func(w http.ResponseWriter, data any) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "data": data})
	}
	mux.HandleFunc("GET /api/v1/properties/5/room-types/12", func(w http.ResponseWriter, r *http.Request) {
		write(w, f.roomType)
	})
	mux.HandleFunc("POST /api/v1/bookings/check-availability", func(w http.ResponseWriter, r *http.Request) {
		var req dto.CheckAvailabilityRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		f.mu.Lock()
		f.checks = append(f.checks, req)
		f.mu.Unlock()
		write(w, f.result)
	})
	return mux
}

func (f *fakeAPI) recorded() []dto.CheckAvailabilityRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]dto.CheckAvailabilityRequest(nil), f.checks...)
}

func runCLI(t *testing.T, api *fakeAPI, args ...string) (string, string, error) {
	t.Helper()
	srv := httptest.NewServer(api.handler())
	t.Cleanup(srv.Close)
	var stdout, stderr bytes.Buffer
	app := newApp(config.ClientConfig{APIURL: srv.URL + "/api/v1", APITimeout: 2 * time.Second, Timezone: "UTC"}, &stdout, &stderr)
	err := app.Run(append([]string{"qbooking"}, args...))
	return stdout.String(), stderr.String(), err
}

func futureStay() (string, string) {
	in := time.Now().UTC().AddDate(0, 0, 10)
	return in.Format("2006-01-02"), in.AddDate(0, 0, 2).Format("2006-01-02")
}

func TestCheckPrintsBookingRoute(t *testing.T) {
	api := &fakeAPI{
		result:   dto.AvailabilityResult{Available: true, AvailableRooms: 4},
		roomType: dto.RoomType{ID: 12, PropertyID: 5, Name: "Deluxe", TotalRooms: 5, MaxAdults: 2, MaxChildren: 2},
	}
	in, out := futureStay()
	stdout, stderr, err := runCLI(t, api, "check", "--property", "5", "--room-type", "12",
		"--check-in", in, "--check-out", out, "--adults", "2")
	if err != nil {
		t.Fatalf("check failed: %v (%s)", err, stderr)
	}
	want := "/booking?propertyId=5&roomTypeId=12&checkIn=" + in + "&checkOut=" + out + "&roomsCount=1&adults=2&children=0"
	if strings.TrimSpace(stdout) != want {
		t.Fatalf("route = %q, want %q", stdout, want)
	}
	if checks := api.recorded(); len(checks) != 1 || checks[0].TotalGuests != 2 {
		t.Fatalf("unexpected requests %+v", checks)
	}
}

func TestCheckClampsGuestsToRoomType(t *testing.T) {
	api := &fakeAPI{
		result:   dto.AvailabilityResult{Available: true, AvailableRooms: 1},
		roomType: dto.RoomType{ID: 12, PropertyID: 5, Name: "Single", TotalRooms: 1, MaxAdults: 1, MaxChildren: 0},
	}
	in, out := futureStay()
	_, stderr, err := runCLI(t, api, "check", "--property", "5", "--room-type", "12",
		"--check-in", in, "--check-out", out, "--adults", "3", "--rooms", "2")
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if !strings.Contains(stderr, "adults limited to 1") || !strings.Contains(stderr, "rooms limited to 1") {
		t.Fatalf("expected clamp warnings, got %q", stderr)
	}
	if q := api.recorded()[0]; q.Adults != 1 || q.RoomsCount != 1 {
		t.Fatalf("expected clamped query, got %+v", q)
	}
}

func TestCheckWithoutDatesSendsNothing(t *testing.T) {
	api := &fakeAPI{roomType: dto.RoomType{ID: 12, PropertyID: 5, TotalRooms: 5, MaxAdults: 2}}
	_, stderr, err := runCLI(t, api, "check", "--property", "5", "--room-type", "12")
	if !errors.Is(err, errNotBooked) {
		t.Fatalf("expected errNotBooked, got %v", err)
	}
	if n := len(api.recorded()); n != 0 {
		t.Fatalf("no availability request expected, got %d", n)
	}
	if !strings.Contains(stderr, "[warning]") {
		t.Fatalf("expected a warning toast, got %q", stderr)
	}
}

func TestCheckRejectsPastCheckIn(t *testing.T) {
	api := &fakeAPI{}
	past := time.Now().UTC().AddDate(0, 0, -3).Format("2006-01-02")
	if _, _, err := runCLI(t, api, "check", "--property", "5", "--room-type", "12", "--check-in", past); err == nil {
		t.Fatal("expected past check-in to be rejected")
	}
}

func TestVerboseLogsRequestsThroughServiceLogger(t *testing.T) {
	api := &fakeAPI{
		result:   dto.AvailabilityResult{Available: true, AvailableRooms: 4},
		roomType: dto.RoomType{ID: 12, PropertyID: 5, Name: "Deluxe", TotalRooms: 5, MaxAdults: 2, MaxChildren: 2},
	}
	in, out := futureStay()
	_, stderr, err := runCLI(t, api, "--verbose", "check", "--property", "5", "--room-type", "12",
		"--check-in", in, "--check-out", out)
	if err != nil {
		t.Fatalf("check failed: %v (%s)", err, stderr)
	}
	if !strings.Contains(stderr, `"msg":"api request"`) || !strings.Contains(stderr, `"service":"qbooking"`) {
		t.Fatalf("expected structured request log, got %q", stderr)
	}

	_, stderr, _ = runCLI(t, api, "check", "--property", "5", "--room-type", "12",
		"--check-in", in, "--check-out", out)
	if strings.Contains(stderr, "api request") {
		t.Fatalf("requests are only logged with --verbose, got %q", stderr)
	}
}
