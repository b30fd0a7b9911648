// Package occurrence computes recurrence dates and the due predicate used to
// select work for a dispatch run.
//
// Two rules exist. A monthly rule fires on a fixed day of the month; when
// that day does not exist in a month (31 in April) the date clamps to the
// last day of that month, and the configured day is applied again for the
// following month, so 31 yields Jan 31, Feb 28, Mar 31. An interval rule
// fires every N days. Time of day and location of the reference date are
// preserved.
package occurrence

import (
	"errors"
	"fmt"
	"time"
)

const (
	// DefaultLookback bounds how far in the past a missed occurrence is
	// still honored.
	DefaultLookback = 24 * time.Hour

	// DefaultLimit caps the number of due items handled in one run.
	DefaultLimit = 100
)

// ErrInvalidRule is returned by Rule.Validate.
var ErrInvalidRule = errors.New("occurrence: invalid rule")

// Kind selects how the next occurrence is computed.
type Kind uint8

const (
	KindInterval Kind = iota
	KindMonthly
)

func (k Kind) String() string {
	switch k {
	case KindMonthly:
		return "monthly"
	case KindInterval:
		return "interval"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Rule is a recurrence definition.
type Rule struct {
	Kind         Kind
	DayOfMonth   int
	IntervalDays int
}

// Monthly returns a rule firing on day of every month.
func Monthly(day int) Rule {
	return Rule{Kind: KindMonthly, DayOfMonth: day}
}

// Interval returns a rule firing every days days.
func Interval(days int) Rule {
	return Rule{Kind: KindInterval, IntervalDays: days}
}

// Validate checks the rule parameters.
func (r Rule) Validate() error {
	switch r.Kind {
	case KindMonthly:
		if r.DayOfMonth < 1 || r.DayOfMonth > 31 {
			return fmt.Errorf("%w: day of month %d out of range 1-31", ErrInvalidRule, r.DayOfMonth)
		}
	case KindInterval:
		if r.IntervalDays < 1 {
			return fmt.Errorf("%w: interval must be at least one day, got %d", ErrInvalidRule, r.IntervalDays)
		}
	default:
		return fmt.Errorf("%w: unknown kind %s", ErrInvalidRule, r.Kind)
	}
	return nil
}

// Next returns the first occurrence strictly after ref.
//
// For monthly rules the day of ref's month is set to DayOfMonth; if that is
// not after ref the same day of the following month is used. Interval rules
// add IntervalDays calendar days.
func Next(r Rule, ref time.Time) (time.Time, error) {
	if err := r.Validate(); err != nil {
		return time.Time{}, err
	}

	if r.Kind == KindInterval {
		return ref.AddDate(0, 0, r.IntervalDays), nil
	}

	candidate := dayInMonth(ref, ref.Year(), ref.Month(), r.DayOfMonth)
	if !candidate.After(ref) {
		candidate = dayInMonth(ref, ref.Year(), ref.Month()+1, r.DayOfMonth)
	}
	return candidate, nil
}

// First returns the initial occurrence for a rule created at now: the
// computation starts from the beginning of now's day, so a monthly day equal
// to today rolls over to next month.
func First(r Rule, now time.Time) (time.Time, error) {
	return Next(r, StartOfDay(now))
}

// Upcoming returns the next n occurrences after from.
func Upcoming(r Rule, from time.Time, n int) ([]time.Time, error) {
	out := make([]time.Time, 0, max(n, 0))
	cur := from
	for range n {
		next, err := Next(r, cur)
		if err != nil {
			return nil, err
		}
		out = append(out, next)
		cur = next
	}
	return out, nil
}

// StartOfDay truncates t to midnight in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// dayInMonth builds the date (year, month, day) with the clock of ref,
// clamping day to the month length. month may overflow; time.Date
// normalizes it.
func dayInMonth(ref time.Time, year int, month time.Month, day int) time.Time {
	first := time.Date(year, month, 1, ref.Hour(), ref.Minute(), ref.Second(), ref.Nanosecond(), ref.Location())
	day = min(day, daysIn(first.Year(), first.Month(), ref.Location()))
	return first.AddDate(0, 0, day-1)
}

func daysIn(year int, month time.Month, loc *time.Location) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}
