package calendar

import (
	"context"
	"errors"
	"time"

	"qbooking/internal/domain/shared/daterange"
)

var ErrInvalidHoliday = errors.New("calendar: invalid holiday")

// Holiday spans From..To inclusive. SurchargePercent raises nightly rates.
type Holiday struct {
	Name             string
	From             time.Time
	To               time.Time
	SurchargePercent int
}

func (h Holiday) Validate() error {
	if h.Name == "" || h.From.IsZero() || h.To.IsZero() || h.To.Before(h.From) || h.SurchargePercent < 0 {
		return ErrInvalidHoliday
	}
	return nil
}

func (h Holiday) Covers(date time.Time) bool {
	date = daterange.Day(date)
	return !date.Before(daterange.Day(h.From)) && !date.After(daterange.Day(h.To))
}

type HolidayRepository interface {
	// Overlapping returns holidays that intersect [from, to].
	Overlapping(ctx context.Context, from, to time.Time) ([]Holiday, error)
	Save(ctx context.Context, holiday Holiday) error
}

type HolidaySet []Holiday

// Lookup returns the first holiday covering date.
func (s HolidaySet) Lookup(date time.Time) (Holiday, bool) {
	for _, h := range s {
		if h.Covers(date) {
			return h, true
		}
	}
	return Holiday{}, false
}
