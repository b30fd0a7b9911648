package job

import (
	"errors"
	"time"

	"github.com/robfig/cron/v3"
)

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// ParseSchedule parses a five-field cron expression or a descriptor such
// as "@hourly".
func ParseSchedule(expr string) (cron.Schedule, error) {
	s, err := cronParser.Parse(expr)
	if err != nil {
		return nil, errors.Join(ErrInvalidSchedule, err)
	}
	return s, nil
}

// cronSchedule adapts cron.Schedule to river.PeriodicSchedule.
type cronSchedule struct {
	schedule cron.Schedule
}

func (c cronSchedule) Next(current time.Time) time.Time {
	return c.schedule.Next(current)
}
