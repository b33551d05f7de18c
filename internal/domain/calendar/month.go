package calendar

import (
	"errors"
	"math"
	"time"

	"qbooking/internal/domain/shared/money"
)

var ErrInvalidMonth = errors.New("calendar: month must be within 1..12")

// Month identifies one calendar month of one year.
type Month struct {
	Year  int
	Month time.Month
}

func NewMonth(year, month int) (Month, error) {
	if month < 1 || month > 12 || year < 1 {
		return Month{}, ErrInvalidMonth
	}
	return Month{Year: year, Month: time.Month(month)}, nil
}

// Normalize folds out-of-range months into neighbouring years, so month 0 is
// December of the previous year and month 13 is January of the next.
func Normalize(year, month int) Month {
	idx := year*12 + (month - 1)
	y := idx / 12
	m := idx % 12
	if m < 0 {
		m += 12
		y--
	}
	return Month{Year: y, Month: time.Month(m + 1)}
}

func NextMonth(year, month int) (int, int) {
	m := Normalize(year, month).Next()
	return m.Year, int(m.Month)
}

func PrevMonth(year, month int) (int, int) {
	m := Normalize(year, month).Prev()
	return m.Year, int(m.Month)
}

func (m Month) Next() Month { return Normalize(m.Year, int(m.Month)+1) }

func (m Month) Prev() Month { return Normalize(m.Year, int(m.Month)-1) }

func (m Month) First() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

func (m Month) Last() time.Time {
	return m.First().AddDate(0, 1, -1)
}

func (m Month) Days() int {
	return m.Last().Day()
}

func (m Month) Name() string {
	return m.Month.String()
}

func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// Day is the availability of one night of a month.
type Day struct {
	Date           time.Time
	IsPast         bool
	IsToday        bool
	IsWeekend      bool
	IsHoliday      bool
	HolidayName    string
	IsAvailable    bool
	AvailableRooms int
	PricePerRoom   money.Money
}

type Summary struct {
	TotalDays        int
	AvailableDays    int
	UnavailableDays  int
	AvailabilityRate float64
}

type MonthInput struct {
	Month      Month
	Today      time.Time
	RoomsCount int
	Holidays   HolidaySet
	FreeRooms  func(night time.Time) int
	Price      func(night time.Time) money.Money
}

// BuildMonth lays out every day of the month in order and aggregates the summary.
// Past days never count as available.
func BuildMonth(in MonthInput) ([]Day, Summary) {
	today := time.Date(in.Today.Year(), in.Today.Month(), in.Today.Day(), 0, 0, 0, 0, time.UTC)
	rooms := in.RoomsCount
	if rooms < 1 {
		rooms = 1
	}
	total := in.Month.Days()
	days := make([]Day, 0, total)
	summary := Summary{TotalDays: total}
	for date := in.Month.First(); date.Month() == in.Month.Month; date = date.AddDate(0, 0, 1) {
		d := Day{
			Date:      date,
			IsPast:    date.Before(today),
			IsToday:   date.Equal(today),
			IsWeekend: IsWeekend(date),
		}
		if h, ok := in.Holidays.Lookup(date); ok {
			d.IsHoliday = true
			d.HolidayName = h.Name
		}
		if !d.IsPast && in.FreeRooms != nil {
			d.AvailableRooms = in.FreeRooms(date)
		}
		d.IsAvailable = !d.IsPast && d.AvailableRooms >= rooms
		if in.Price != nil {
			d.PricePerRoom = in.Price(date)
		}
		if d.IsAvailable {
			summary.AvailableDays++
		}
		days = append(days, d)
	}
	summary.UnavailableDays = summary.TotalDays - summary.AvailableDays
	if summary.TotalDays > 0 {
		rate := float64(summary.AvailableDays) * 100 / float64(summary.TotalDays)
		summary.AvailabilityRate = math.Round(rate*100) / 100
	}
	return days, summary
}
