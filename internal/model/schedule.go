package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrymomot/remindr/internal/occurrence"
)

// ScheduleType selects the recurrence of a legacy schedule.
type ScheduleType string

const (
	ScheduleMonthly  ScheduleType = "monthly"
	ScheduleInterval ScheduleType = "interval"
)

// MaxScheduleIntervalDays bounds interval schedules on the write path.
const MaxScheduleIntervalDays = 365

// Schedule is the legacy per-recipient recurrence. It lives alongside the
// group model and references its own template.
type Schedule struct {
	NextSendDate time.Time    `json:"nextSendDate"`
	LastSentDate *time.Time   `json:"lastSentDate,omitempty"`
	ID           string       `json:"id"`
	RecipientID  string       `json:"recipientId" validate:"required"`
	TemplateID   string       `json:"templateId" validate:"required"`
	Type         ScheduleType `json:"scheduleType" validate:"required,oneof=monthly interval"`
	DayOfMonth   int          `json:"dayOfMonth,omitempty"`
	IntervalDays int          `json:"intervalDays,omitempty"`
	Active       bool         `json:"active"`
}

// Validate checks the write-path constraints of a schedule: dayOfMonth is
// required (1-31) for monthly schedules and intervalDays (1-365) for
// interval ones.
func (s *Schedule) Validate() error {
	if err := validate.Struct(s); err != nil {
		return errors.Join(ErrInvalidSchedule, err)
	}
	switch s.Type {
	case ScheduleMonthly:
		if s.DayOfMonth < 1 || s.DayOfMonth > 31 {
			return fmt.Errorf("%w: day of month must be between 1 and 31", ErrInvalidSchedule)
		}
	case ScheduleInterval:
		if s.IntervalDays < 1 || s.IntervalDays > MaxScheduleIntervalDays {
			return fmt.Errorf("%w: interval days must be between 1 and %d", ErrInvalidSchedule, MaxScheduleIntervalDays)
		}
	}
	return nil
}

// Rule converts the schedule settings into an occurrence rule.
func (s *Schedule) Rule() occurrence.Rule {
	if s.Type == ScheduleMonthly {
		return occurrence.Monthly(s.DayOfMonth)
	}
	return occurrence.Interval(s.IntervalDays)
}
