package dto

import (
	"qbooking/internal/domain/calendar"
	"qbooking/internal/domain/shared/daterange"
)

// AvailableDatesRequest is bound from the query string of GET /bookings/available-dates.
type AvailableDatesRequest struct {
	PropertyID int64 `form:"propertyId" json:"propertyId" validate:"required,gt=0"`
	RoomTypeID int64 `form:"roomTypeId" json:"roomTypeId" validate:"required,gt=0"`
	Year       int   `form:"year" json:"year" validate:"required,gte=1970,lte=9999"`
	Month      int   `form:"month" json:"month" validate:"required,gte=1,lte=12"`
	RoomsCount int   `form:"roomsCount" json:"roomsCount" validate:"omitempty,gte=1"`
}

type DayInfo struct {
	Date           string `json:"date"`
	Day            int    `json:"day"`
	IsPast         bool   `json:"isPast"`
	IsToday        bool   `json:"isToday"`
	IsWeekend      bool   `json:"isWeekend"`
	IsHoliday      bool   `json:"isHoliday"`
	HolidayName    string `json:"holidayName,omitempty"`
	IsAvailable    bool   `json:"isAvailable"`
	AvailableRooms int    `json:"availableRooms"`
	PricePerRoom   int64  `json:"pricePerRoom"`
}

type CalendarSummary struct {
	TotalDays        int     `json:"totalDays"`
	AvailableDays    int     `json:"availableDays"`
	UnavailableDays  int     `json:"unavailableDays"`
	AvailabilityRate float64 `json:"availabilityRate"`
}

type AvailableDates struct {
	Calendar     []DayInfo       `json:"calendar"`
	Summary      CalendarSummary `json:"summary"`
	RoomTypeName string          `json:"roomTypeName"`
	MonthName    string          `json:"monthName"`
	Year         int             `json:"year"`
	Month        int             `json:"month"`
	TotalRooms   int             `json:"totalRooms"`
	Currency     string          `json:"currency"`
}

func MapDays(days []calendar.Day) []DayInfo {
	out := make([]DayInfo, 0, len(days))
	for _, d := range days {
		out = append(out, DayInfo{
			Date:           d.Date.Format(daterange.DayLayout),
			Day:            d.Date.Day(),
			IsPast:         d.IsPast,
			IsToday:        d.IsToday,
			IsWeekend:      d.IsWeekend,
			IsHoliday:      d.IsHoliday,
			HolidayName:    d.HolidayName,
			IsAvailable:    d.IsAvailable,
			AvailableRooms: d.AvailableRooms,
			PricePerRoom:   d.PricePerRoom.Amount,
		})
	}
	return out
}

func MapSummary(s calendar.Summary) CalendarSummary {
	return CalendarSummary{
		TotalDays:        s.TotalDays,
		AvailableDays:    s.AvailableDays,
		UnavailableDays:  s.UnavailableDays,
		AvailabilityRate: s.AvailabilityRate,
	}
}

type HolidayDTO struct {
	Name             string `json:"name"`
	FromDate         string `json:"fromDate"`
	ToDate           string `json:"toDate"`
	SurchargePercent int    `json:"surchargePercent"`
}

type HolidayCollection struct {
	Year  int          `json:"year"`
	Items []HolidayDTO `json:"items"`
}

func MapHolidays(year int, hs []calendar.Holiday) HolidayCollection {
	items := make([]HolidayDTO, 0, len(hs))
	for _, h := range hs {
		items = append(items, HolidayDTO{
			Name:             h.Name,
			FromDate:         h.From.Format(daterange.DayLayout),
			ToDate:           h.To.Format(daterange.DayLayout),
			SurchargePercent: h.SurchargePercent,
		})
	}
	return HolidayCollection{Year: year, Items: items}
}
