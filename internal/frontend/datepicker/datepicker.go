// Package datepicker validates the check-in and check-out inputs of the booking form.
package datepicker

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"qbooking/internal/domain/shared/daterange"
)

var (
	ErrBeforeMinimum   = errors.New("date is before the earliest selectable day")
	ErrCheckOutNotLate = errors.New("check-out must be after check-in")
)

// Picker holds two ISO dates, either of which may still be empty.
type Picker struct {
	min      time.Time
	checkIn  string
	checkOut string
}

// New returns a picker that refuses dates before min (usually today).
func New(min time.Time) *Picker {
	return &Picker{min: daterange.Day(min)}
}

func (p *Picker) Min() string { return p.min.Format(daterange.DayLayout) }

func (p *Picker) CheckIn() string { return p.checkIn }

func (p *Picker) CheckOut() string { return p.checkOut }

// SetCheckIn accepts an empty value to clear the field. A check-out that no
// longer follows the new check-in is cleared.
func (p *Picker) SetCheckIn(value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		p.checkIn = ""
		return nil
	}
	day, err := p.parse(value)
	if err != nil {
		return err
	}
	p.checkIn = value
	if p.checkOut != "" {
		out, _ := daterange.ParseDay(p.checkOut)
		if !out.After(day) {
			p.checkOut = ""
		}
	}
	return nil
}

func (p *Picker) SetCheckOut(value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		p.checkOut = ""
		return nil
	}
	day, err := p.parse(value)
	if err != nil {
		return err
	}
	if p.checkIn != "" {
		in, _ := daterange.ParseDay(p.checkIn)
		if !day.After(in) {
			return ErrCheckOutNotLate
		}
	}
	p.checkOut = value
	return nil
}

// Complete reports whether both dates are chosen.
func (p *Picker) Complete() bool {
	return p.checkIn != "" && p.checkOut != ""
}

// Range returns the chosen stay when both ends are set.
func (p *Picker) Range() (daterange.DateRange, bool) {
	if !p.Complete() {
		return daterange.DateRange{}, false
	}
	dr, err := daterange.Parse(p.checkIn, p.checkOut)
	if err != nil {
		return daterange.DateRange{}, false
	}
	return dr, true
}

func (p *Picker) parse(value string) (time.Time, error) {
	day, err := daterange.ParseDay(value)
	if err != nil {
		return time.Time{}, err
	}
	if day.Before(p.min) {
		return time.Time{}, fmt.Errorf("%w: %s < %s", ErrBeforeMinimum, value, p.Min())
	}
	return day, nil
}
