package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"
)

// NextFire computes the next fire instant for a schedule time: the next
// occurrence today if it is still ahead of now, otherwise the same time
// tomorrow, in local time.
func NextFire(scheduleTime string, now time.Time) (time.Time, error) {
	spec, err := CronSpec(scheduleTime)
	if err != nil {
		return time.Time{}, err
	}

	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return time.Time{}, err
	}

	return schedule.Next(now), nil
}
