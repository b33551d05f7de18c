package calendarview

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"qbooking/internal/app/dto"
)

func TestStateOfPrecedence(t *testing.T) {
	tests := []struct {
		name string
		day  dto.DayInfo
		want CellState
	}{
		{"past beats everything", dto.DayInfo{IsPast: true, IsAvailable: true, IsWeekend: true, IsHoliday: true}, StatePast},
		{"sold out beats today", dto.DayInfo{IsToday: true, IsAvailable: false}, StateSoldOut},
		{"today beats holiday", dto.DayInfo{IsToday: true, IsHoliday: true, IsAvailable: true}, StateToday},
		{"holiday beats weekend", dto.DayInfo{IsHoliday: true, IsWeekend: true, IsAvailable: true}, StateHoliday},
		{"weekend", dto.DayInfo{IsWeekend: true, IsAvailable: true}, StateWeekend},
		{"available", dto.DayInfo{IsAvailable: true}, StateAvailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StateOf(tt.day); got != tt.want {
				t.Fatalf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func octoberDays() []dto.DayInfo {
	days := make([]dto.DayInfo, 31)
	for i := range days {
		days[i] = dto.DayInfo{
			Date:           fmt.Sprintf("2025-10-%02d", i+1),
			Day:            i + 1,
			IsAvailable:    true,
			AvailableRooms: 3,
			PricePerRoom:   1_200_000,
		}
	}
	return days
}

func TestCellsStartOnFirstWeekday(t *testing.T) {
	// 2025-10-01 is a Wednesday.
	cells := Cells(octoberDays())
	if len(cells) != 34 {
		t.Fatalf("expected 3 blanks + 31 days, got %d cells", len(cells))
	}
	for i := 0; i < 3; i++ {
		if cells[i].State != StateBlank {
			t.Fatalf("cell %d should be blank", i)
		}
	}
	if cells[3].Day.Day != 1 {
		t.Fatalf("first day lands on cell %d", cells[3].Day.Day)
	}
	weeks := Weeks(cells)
	if len(weeks) != 5 {
		t.Fatalf("expected 5 weeks, got %d", len(weeks))
	}
	for _, w := range weeks {
		if len(w) != 7 {
			t.Fatalf("week has %d cells", len(w))
		}
	}
}

func TestLabels(t *testing.T) {
	avail := Cell{State: StateAvailable, Day: dto.DayInfo{AvailableRooms: 2, PricePerRoom: 850_000}}
	if got := avail.Label(5, "VND"); got != "2/5 850,000 VND" {
		t.Fatalf("available label %q", got)
	}
	sold := Cell{State: StateSoldOut}
	if got := sold.Label(5, "VND"); got != "Sold out" {
		t.Fatalf("sold out label %q", got)
	}
	past := Cell{State: StatePast, Day: dto.DayInfo{AvailableRooms: 4, PricePerRoom: 1}}
	if got := past.Label(5, "VND"); got != "" {
		t.Fatalf("past label %q", got)
	}
}

func TestFormatPrice(t *testing.T) {
	tests := map[int64]string{
		0:         "0 VND",
		999:       "999 VND",
		1000:      "1,000 VND",
		850000:    "850,000 VND",
		1_500_000: "1.5M",
		2_000_000: "2M",
	}
	for in, want := range tests {
		if got := formatPrice(in, "VND"); got != want {
			t.Errorf("formatPrice(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestRenderShowsPastDayAsPast(t *testing.T) {
	days := octoberDays()
	// 2025-10-04 is a Saturday.
	days[3].IsPast = true
	days[3].IsWeekend = true
	days[4].AvailableRooms = 0
	days[4].IsAvailable = false

	var buf bytes.Buffer
	err := Render(&buf, dto.AvailableDates{
		Calendar: days, MonthName: "October", Year: 2025, TotalRooms: 5, Currency: "VND", RoomTypeName: "Deluxe",
		Summary: dto.CalendarSummary{TotalDays: 31, AvailableDays: 29, UnavailableDays: 2, AvailabilityRate: 93.55},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "October 2025") {
		t.Fatalf("missing title:\n%s", out)
	}
	if !strings.Contains(out, "Sold out") {
		t.Fatalf("missing sold out label:\n%s", out)
	}
	if strings.Contains(out, " 4w") {
		t.Fatalf("past weekend day rendered as weekend:\n%s", out)
	}
	if !strings.Contains(out, "29 of 31 days available (93.55%)") {
		t.Fatalf("missing summary:\n%s", out)
	}
}
