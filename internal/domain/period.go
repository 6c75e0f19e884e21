package domain

import (
	"fmt"
	"time"
)

// Period is the bucket granularity of a timeseries
type Period string

const (
	PeriodHour  Period = "hour"
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// ParsePeriod validates a raw period name
func ParsePeriod(raw string) (Period, error) {
	switch p := Period(raw); p {
	case PeriodHour, PeriodDay, PeriodWeek, PeriodMonth:
		return p, nil
	default:
		return "", NewValidationError("period", fmt.Sprintf("unsupported period %q (supported: hour, day, week, month)", raw))
	}
}

// BucketKey truncates a unix timestamp to the bucket it belongs to, in UTC.
// Keys of one period sort lexicographically in chronological order.
//
// Week keys are YYYY-WW where WW is the Monday-based week of the year:
// days before the first Monday of January fall in week 00.
func (p Period) BucketKey(timestamp int64) string {
	t := time.Unix(timestamp, 0).UTC()
	switch p {
	case PeriodHour:
		return t.Format("2006-01-02 15:00")
	case PeriodWeek:
		return fmt.Sprintf("%04d-%02d", t.Year(), mondayWeekOfYear(t))
	case PeriodMonth:
		return t.Format("2006-01")
	default:
		return t.Format("2006-01-02")
	}
}

func mondayWeekOfYear(t time.Time) int {
	dayOfYear := t.YearDay() - 1
	daysSinceMonday := (int(t.Weekday()) + 6) % 7
	return (dayOfYear + 7 - daysSinceMonday) / 7
}
