package date

import "time"

// Calendar decides which days are business days: weekdays that are not in its
// holiday set. It is built once from an already-filtered list of holidays and
// never mutated afterwards, so it is safe to share across concurrent lookups.
type Calendar struct {
	holidays map[Date]struct{}
}

// NewCalendar returns a Calendar observing the given holidays.
func NewCalendar(holidays ...Date) *Calendar {
	c := &Calendar{holidays: make(map[Date]struct{}, len(holidays))}
	for _, d := range holidays {
		c.holidays[d] = struct{}{}
	}
	return c
}

// Len returns the number of holidays in the calendar.
func (c *Calendar) Len() int { return len(c.holidays) }

// IsHoliday reports whether the day is in the holiday set, regardless of weekday.
func (c *Calendar) IsHoliday(d Date) bool {
	_, ok := c.holidays[d]
	return ok
}

// IsBusinessDay reports whether d is a weekday outside the holiday set.
func (c *Calendar) IsBusinessDay(d Date) bool {
	if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return false
	}
	return !c.IsHoliday(d)
}

// NextBusinessDay returns the smallest business day on or after d.
//
// The scan is a linear forward walk one day at a time. It always terminates:
// weekends recur every seven days and holidays are a finite set, so a weekday
// outside the set is always reached.
func (c *Calendar) NextBusinessDay(d Date) Date {
	for !c.IsBusinessDay(d) {
		d = d.Add(1)
	}
	return d
}
