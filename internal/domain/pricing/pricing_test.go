package pricing

import (
	"testing"
	"time"

	"qbooking/internal/domain/calendar"
	"qbooking/internal/domain/inventory"
	"qbooking/internal/domain/shared/daterange"
	"qbooking/internal/domain/shared/money"
)

func TestNightlyRateAppliesWeekendAndHoliday(t *testing.T) {
	rt := &inventory.RoomType{
		BasePrice:    money.Must(1_000_000, "VND"),
		WeekendPrice: money.Must(1_200_000, "VND"),
	}
	holidays := calendar.HolidaySet{{
		Name:             "National Day",
		From:             time.Date(2025, 9, 2, 0, 0, 0, 0, time.UTC),
		To:               time.Date(2025, 9, 2, 0, 0, 0, 0, time.UTC),
		SurchargePercent: 15,
	}}

	cases := []struct {
		name string
		date time.Time
		want int64
	}{
		{"weekday", time.Date(2025, 9, 3, 0, 0, 0, 0, time.UTC), 1_000_000},
		{"saturday", time.Date(2025, 9, 6, 0, 0, 0, 0, time.UTC), 1_200_000},
		{"holiday tuesday", time.Date(2025, 9, 2, 0, 0, 0, 0, time.UTC), 1_150_000},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NightlyRate(rt, tc.date, holidays)
			if got.Amount != tc.want || got.Currency != "VND" {
				t.Fatalf("got %+v want %d VND", got, tc.want)
			}
		})
	}
}

func TestQuoteStaySumsNightsTimesRooms(t *testing.T) {
	rt := &inventory.RoomType{BasePrice: money.Must(500, "VND"), WeekendPrice: money.Must(700, "VND")}
	// friday and saturday nights
	dr, err := daterange.Parse("2025-06-06", "2025-06-08")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	q, err := QuoteStay(rt, dr, 2, nil)
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if len(q.Nights) != 2 || q.Total.Amount != (500+700)*2 {
		t.Fatalf("unexpected quote %+v", q)
	}
}
