package calendar

import (
	"testing"
	"time"

	"qbooking/internal/domain/shared/money"
)

func TestMonthNavigationWrapsYears(t *testing.T) {
	cases := []struct {
		name      string
		year      int
		month     int
		wantNextY int
		wantNextM int
		wantPrevY int
		wantPrevM int
	}{
		{"january", 2025, 1, 2025, 2, 2024, 12},
		{"december", 2025, 12, 2026, 1, 2025, 11},
		{"mid year", 2025, 6, 2025, 7, 2025, 5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ny, nm := NextMonth(tc.year, tc.month)
			if ny != tc.wantNextY || nm != tc.wantNextM {
				t.Fatalf("next: got %d-%d want %d-%d", ny, nm, tc.wantNextY, tc.wantNextM)
			}
			py, pm := PrevMonth(tc.year, tc.month)
			if py != tc.wantPrevY || pm != tc.wantPrevM {
				t.Fatalf("prev: got %d-%d want %d-%d", py, pm, tc.wantPrevY, tc.wantPrevM)
			}
		})
	}
}

func TestMonthNavigationRoundTrip(t *testing.T) {
	for year := 1999; year <= 2031; year++ {
		for month := 1; month <= 12; month++ {
			if y, m := PrevMonth(NextMonth(year, month)); y != year || m != month {
				t.Fatalf("prev(next(%d,%d)) = (%d,%d)", year, month, y, m)
			}
			if y, m := NextMonth(PrevMonth(year, month)); y != year || m != month {
				t.Fatalf("next(prev(%d,%d)) = (%d,%d)", year, month, y, m)
			}
		}
	}
}

func TestNormalizeFoldsOutOfRangeMonths(t *testing.T) {
	if got := Normalize(2025, 0); got.Year != 2024 || got.Month != time.December {
		t.Fatalf("month 0: got %+v", got)
	}
	if got := Normalize(2025, 13); got.Year != 2026 || got.Month != time.January {
		t.Fatalf("month 13: got %+v", got)
	}
	if _, err := NewMonth(2025, 13); err == nil {
		t.Fatal("expected error for month 13")
	}
}

func TestBuildMonthFlagsAndSummary(t *testing.T) {
	june := Month{Year: 2025, Month: time.June}
	today := time.Date(2025, time.June, 10, 15, 30, 0, 0, time.UTC)
	holidays := HolidaySet{{
		Name: "Summer fest", From: time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC),
		To: time.Date(2025, 6, 21, 0, 0, 0, 0, time.UTC), SurchargePercent: 10,
	}}
	soldOut := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	days, summary := BuildMonth(MonthInput{
		Month:      june,
		Today:      today,
		RoomsCount: 2,
		Holidays:   holidays,
		FreeRooms: func(night time.Time) int {
			if night.Equal(soldOut) {
				return 1
			}
			return 5
		},
		Price: func(time.Time) money.Money { return money.Must(100, "VND") },
	})

	if len(days) != 30 {
		t.Fatalf("expected 30 days, got %d", len(days))
	}
	if !days[0].IsPast || days[0].IsAvailable || days[0].AvailableRooms != 0 {
		t.Fatalf("june 1 should be past and unavailable: %+v", days[0])
	}
	if !days[9].IsToday || !days[9].IsAvailable {
		t.Fatalf("june 10 should be today and available: %+v", days[9])
	}
	if days[14].IsAvailable || days[14].AvailableRooms != 1 {
		t.Fatalf("june 15 should be short of rooms: %+v", days[14])
	}
	if !days[19].IsHoliday || days[19].HolidayName != "Summer fest" {
		t.Fatalf("june 20 should be a holiday: %+v", days[19])
	}
	if !days[6].IsWeekend {
		t.Fatalf("june 7 2025 is a saturday: %+v", days[6])
	}
	// 9 past days and one short day.
	if summary.TotalDays != 30 || summary.AvailableDays != 20 || summary.UnavailableDays != 10 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if summary.AvailabilityRate != 66.67 {
		t.Fatalf("expected rate 66.67, got %v", summary.AvailabilityRate)
	}
}
