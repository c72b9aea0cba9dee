package queries

import (
	"time"

	"service-booking/internal/pkg/errs"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

var ErrInvalidSchedule = errs.NewKind("service date must be YYYY-MM-DD and time HH:MM", errs.ErrValidationFailed)

// SplitSchedule renders t as separate date and time strings in loc.
func SplitSchedule(t time.Time, loc *time.Location) (string, string) {
	local := t.In(loc)
	return local.Format(DateLayout), local.Format(TimeLayout)
}

// ParseSchedule combines a date and a wall-clock time in loc.
func ParseSchedule(date, clock string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout+" "+TimeLayout, date+" "+clock, loc)
	if err != nil {
		return time.Time{}, errs.Wrap(ErrInvalidSchedule, err.Error())
	}
	return t, nil
}
