package hours

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/javiermolinar/venuegrid/internal/dateutil"
)

// Resolver returns the business hours in effect on a date.
type Resolver interface {
	For(date time.Time) BusinessHours
}

// Override replaces the weekly hours for a single date.
type Override struct {
	Date  string `json:"date" toml:"date"` // YYYY-MM-DD
	Hours BusinessHours
}

// Weekly is a Resolver backed by a per-weekday table and per-date overrides.
type Weekly struct {
	days      [7]BusinessHours // indexed by time.Weekday, Sunday = 0
	overrides map[string]BusinessHours
}

// NewWeekly builds a resolver. days is indexed by time.Weekday.
func NewWeekly(days [7]BusinessHours, overrides ...Override) (*Weekly, error) {
	for i, d := range days {
		if err := d.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", time.Weekday(i), err)
		}
	}
	w := &Weekly{days: days, overrides: make(map[string]BusinessHours, len(overrides))}
	for _, o := range overrides {
		if _, err := time.Parse(dateutil.DateLayout, o.Date); err != nil {
			return nil, fmt.Errorf("override %q: %w", o.Date, dateutil.ErrInvalidDateFormat)
		}
		if err := o.Hours.Validate(); err != nil {
			return nil, fmt.Errorf("override %s: %w", o.Date, err)
		}
		w.overrides[o.Date] = o.Hours
	}
	return w, nil
}

// Uniform returns a table with the same hours every day of the week.
func Uniform(h BusinessHours) [7]BusinessHours {
	var days [7]BusinessHours
	for i := range days {
		days[i] = h
	}
	return days
}

// ForWeekday returns the weekly entry. Out-of-range indices are closed.
func (w *Weekly) ForWeekday(weekday int) BusinessHours {
	if weekday < 0 || weekday > 6 {
		return Closed
	}
	return w.days[weekday]
}

// For returns the override for date if present, else the weekly entry.
func (w *Weekly) For(date time.Time) BusinessHours {
	if h, ok := w.overrides[date.Format(dateutil.DateLayout)]; ok {
		return h
	}
	return w.ForWeekday(int(date.Weekday()))
}

// Overrides returns the override list sorted by date.
func (w *Weekly) Overrides() []Override {
	out := make([]Override, 0, len(w.overrides))
	for d, h := range w.overrides {
		out = append(out, Override{Date: d, Hours: h})
	}
	slices.SortFunc(out, func(a, b Override) int { return strings.Compare(a.Date, b.Date) })
	return out
}
