package calendarview

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"qbooking/internal/app/dto"
	"qbooking/internal/client/bookingapi"
	"qbooking/internal/domain/shared/daterange"
)

type CellState string

const (
	StateBlank     CellState = "blank"
	StatePast      CellState = "past"
	StateSoldOut   CellState = "sold-out"
	StateToday     CellState = "today"
	StateHoliday   CellState = "holiday"
	StateWeekend   CellState = "weekend"
	StateAvailable CellState = "available"
)

// StateOf picks the first matching state: past, sold out, today, holiday,
// weekend, available.
func StateOf(d dto.DayInfo) CellState {
	switch {
	case d.IsPast:
		return StatePast
	case !d.IsAvailable:
		return StateSoldOut
	case d.IsToday:
		return StateToday
	case d.IsHoliday:
		return StateHoliday
	case d.IsWeekend:
		return StateWeekend
	default:
		return StateAvailable
	}
}

type Cell struct {
	State CellState
	Day   dto.DayInfo
}

// Label is what the cell shows under the day number.
func (c Cell) Label(totalRooms int, currency string) string {
	switch c.State {
	case StateBlank, StatePast:
		return ""
	case StateSoldOut:
		return "Sold out"
	default:
		return fmt.Sprintf("%d/%d %s", c.Day.AvailableRooms, totalRooms, formatPrice(c.Day.PricePerRoom, currency))
	}
}

// Cells prepends one blank per weekday before the first returned day (Sunday = 0).
func Cells(days []dto.DayInfo) []Cell {
	if len(days) == 0 {
		return nil
	}
	lead := 0
	if first, err := daterange.ParseDay(days[0].Date); err == nil {
		lead = int(first.Weekday())
	}
	out := make([]Cell, 0, lead+len(days))
	for i := 0; i < lead; i++ {
		out = append(out, Cell{State: StateBlank})
	}
	for _, d := range days {
		out = append(out, Cell{State: StateOf(d), Day: d})
	}
	return out
}

// Weeks splits cells into rows of seven, padding the last row.
func Weeks(cells []Cell) [][]Cell {
	var rows [][]Cell
	for len(cells) > 0 {
		n := min(7, len(cells))
		row := append([]Cell(nil), cells[:n]...)
		for len(row) < 7 {
			row = append(row, Cell{State: StateBlank})
		}
		rows = append(rows, row)
		cells = cells[n:]
	}
	return rows
}

var weekdayHeaders = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

var stateMarks = map[CellState]string{
	StatePast:      " ",
	StateSoldOut:   "x",
	StateToday:     "*",
	StateHoliday:   "H",
	StateWeekend:   "w",
	StateAvailable: " ",
}

const cellWidth = 16

// Render paints the month as a text grid with one two-line row per week.
func Render(w io.Writer, data bookingapi.CalendarData) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %d  %s (%d rooms)\n", data.MonthName, data.Year, data.RoomTypeName, data.TotalRooms)
	for _, h := range weekdayHeaders {
		fmt.Fprintf(&b, "%-*s", cellWidth, h)
	}
	b.WriteString("\n")
	for _, week := range Weeks(Cells(data.Calendar)) {
		for _, c := range week {
			if c.State == StateBlank {
				fmt.Fprintf(&b, "%-*s", cellWidth, "")
				continue
			}
			fmt.Fprintf(&b, "%-*s", cellWidth, fmt.Sprintf("%2d%s", c.Day.Day, stateMarks[c.State]))
		}
		b.WriteString("\n")
		for _, c := range week {
			fmt.Fprintf(&b, "%-*s", cellWidth, c.Label(data.TotalRooms, data.Currency))
		}
		b.WriteString("\n")
	}
	s := data.Summary
	fmt.Fprintf(&b, "%d of %d days available (%.2f%%)\n", s.AvailableDays, s.TotalDays, s.AvailabilityRate)
	b.WriteString("* today  H holiday  w weekend  x sold out\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// formatPrice prints whole currency units with thousands separators; prices
// of a million and up are shortened (1,500,000 VND -> 1.5M).
func formatPrice(amount int64, currency string) string {
	if amount >= 1_000_000 {
		m := float64(amount) / 1_000_000
		s := strconv.FormatFloat(m, 'f', 2, 64)
		s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
		return s + "M"
	}
	return groupThousands(amount) + currencySuffix(currency)
}

func currencySuffix(currency string) string {
	if currency == "" {
		return ""
	}
	return " " + currency
}

func groupThousands(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var out []byte
	for i := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, s[i])
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}
