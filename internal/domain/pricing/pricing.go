package pricing

import (
	"errors"
	"time"

	"qbooking/internal/domain/calendar"
	"qbooking/internal/domain/inventory"
	"qbooking/internal/domain/shared/daterange"
	"qbooking/internal/domain/shared/money"
)

var ErrNoNights = errors.New("pricing: range has no nights")

// NightlyRate returns the price of one room for the night starting on date.
// Weekend rate replaces the base rate; a holiday surcharge applies on top.
func NightlyRate(rt *inventory.RoomType, date time.Time, holidays calendar.HolidaySet) money.Money {
	rate := rt.BasePrice
	if calendar.IsWeekend(date) && rt.WeekendPrice.Amount > 0 {
		rate = rt.WeekendPrice
	}
	if rate.Currency == "" {
		rate.Currency = rt.Currency()
	}
	if h, ok := holidays.Lookup(date); ok && h.SurchargePercent > 0 {
		rate = rate.Percent(100 + int64(h.SurchargePercent))
	}
	return rate
}

type NightPrice struct {
	Date    time.Time
	PerRoom money.Money
}

type Quote struct {
	Nights     []NightPrice
	RoomsCount int
	Total      money.Money
}

// QuoteStay prices every night of the range for the requested number of rooms.
func QuoteStay(rt *inventory.RoomType, dr daterange.DateRange, rooms int, holidays calendar.HolidaySet) (Quote, error) {
	if dr.Nights() < 1 {
		return Quote{}, ErrNoNights
	}
	q := Quote{RoomsCount: rooms, Total: money.Zero(rt.Currency())}
	var err error
	dr.EachNight(func(night time.Time) {
		if err != nil {
			return
		}
		rate := NightlyRate(rt, night, holidays)
		q.Nights = append(q.Nights, NightPrice{Date: night, PerRoom: rate})
		q.Total, err = q.Total.Add(rate.Multiply(int64(rooms)))
	})
	if err != nil {
		return Quote{}, err
	}
	return q, nil
}
