package policies

import (
	"time"

	"qbooking/internal/domain/shared/daterange"
)

// Clock resolves "today" in the property time zone.
type Clock struct {
	Now      func() time.Time
	Location *time.Location
}

func (c Clock) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c Clock) Instant() time.Time {
	return c.now().UTC()
}

func (c Clock) Today() time.Time {
	return daterange.Today(c.now(), c.Location)
}
