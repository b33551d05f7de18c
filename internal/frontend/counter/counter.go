// Package counter holds the bounded adults, children and rooms steppers of the
// room detail view.
package counter

type Field int

const (
	Adults Field = iota
	Children
	Rooms
)

func (f Field) String() string {
	switch f {
	case Adults:
		return "adults"
	case Children:
		return "children"
	case Rooms:
		return "rooms"
	default:
		return "unknown"
	}
}

// Limits come from the room type being booked.
type Limits struct {
	TotalRooms  int
	MaxAdults   int
	MaxChildren int
}

// GuestSelection is a snapshot of the counters.
type GuestSelection struct {
	Adults     int
	Children   int
	RoomsCount int
}

// TotalGuests is derived on every call and never stored.
func (s GuestSelection) TotalGuests() int {
	return s.Adults + s.Children
}

// Counter starts at one adult, no children and one room. Steps past a bound
// are ignored.
type Counter struct {
	limits Limits
	values [3]int
}

func New(limits Limits) *Counter {
	c := &Counter{values: [3]int{Adults: 1, Children: 0, Rooms: 1}}
	c.SetLimits(limits)
	return c
}

// SetLimits applies new room type limits and pulls current values into range.
func (c *Counter) SetLimits(limits Limits) {
	if limits.TotalRooms < 1 {
		limits.TotalRooms = 1
	}
	if limits.MaxAdults < 1 {
		limits.MaxAdults = 1
	}
	if limits.MaxChildren < 0 {
		limits.MaxChildren = 0
	}
	c.limits = limits
	for _, f := range []Field{Adults, Children, Rooms} {
		c.values[f] = clamp(c.values[f], c.min(f), c.max(f))
	}
}

func (c *Counter) Limits() Limits { return c.limits }

func (c *Counter) Value(f Field) int { return c.values[f] }

func (c *Counter) CanIncrement(f Field) bool { return c.values[f] < c.max(f) }

func (c *Counter) CanDecrement(f Field) bool { return c.values[f] > c.min(f) }

// Increment reports whether the value changed.
func (c *Counter) Increment(f Field) bool {
	if !c.CanIncrement(f) {
		return false
	}
	c.values[f]++
	return true
}

// Decrement reports whether the value changed.
func (c *Counter) Decrement(f Field) bool {
	if !c.CanDecrement(f) {
		return false
	}
	c.values[f]--
	return true
}

func (c *Counter) Selection() GuestSelection {
	return GuestSelection{Adults: c.values[Adults], Children: c.values[Children], RoomsCount: c.values[Rooms]}
}

func (c *Counter) TotalGuests() int { return c.Selection().TotalGuests() }

func (c *Counter) min(f Field) int {
	if f == Children {
		return 0
	}
	return 1
}

func (c *Counter) max(f Field) int {
	switch f {
	case Adults:
		return c.limits.MaxAdults
	case Children:
		return c.limits.MaxChildren
	default:
		return c.limits.TotalRooms
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
