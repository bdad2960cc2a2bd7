package scheduler

import (
	"fmt"
	"time"

	"github.com/robfig/cron"
)

// cronSchedule adapts a robfig/cron schedule to the Schedule interface.
type cronSchedule struct {
	spec  string
	inner cron.Schedule
}

// ParseCron parses a standard 5-field cron expression into a Schedule.
// Examples:
//   - "*/5 * * * *"  - every 5 minutes
//   - "0 3 * * *"    - every day at 03:00
func ParseCron(spec string) (Schedule, error) {
	inner, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid cron expression %q: %w", spec, err)
	}
	return &cronSchedule{spec: spec, inner: inner}, nil
}

// Next returns the next activation time after t.
func (s *cronSchedule) Next(t time.Time) time.Time {
	return s.inner.Next(t)
}

// String returns the original cron expression.
func (s *cronSchedule) String() string {
	return s.spec
}

// Every returns a Schedule that fires at the given fixed interval.
// Intervals below one second are rounded up, matching cron.Every.
func Every(interval time.Duration) Schedule {
	return &cronSchedule{
		spec:  fmt.Sprintf("@every %s", interval),
		inner: cron.Every(interval),
	}
}
