package analyzer

import (
	"time"

	"github.com/maxbolgarin/errm"
)

const dateLayout = "2006-01-02"

// ParseDateRange parses optional ISO calendar dates into an inclusive
// report window: the start date begins at midnight UTC, the end date
// covers the whole day. Empty strings yield zero times, which Analyze
// resolves to its defaults.
func ParseDateRange(start, end string) (time.Time, time.Time, error) {
	var startTime, endTime time.Time

	if start != "" {
		parsed, err := time.Parse(dateLayout, start)
		if err != nil {
			return time.Time{}, time.Time{}, errm.Wrap(err, "invalid start date")
		}
		startTime = parsed
	}
	if end != "" {
		parsed, err := time.Parse(dateLayout, end)
		if err != nil {
			return time.Time{}, time.Time{}, errm.Wrap(err, "invalid end date")
		}
		endTime = parsed.AddDate(0, 0, 1).Add(-time.Millisecond)
	}

	if !startTime.IsZero() && !endTime.IsZero() && endTime.Before(startTime) {
		return time.Time{}, time.Time{}, errm.New("end date is before start date")
	}
	return startTime, endTime, nil
}
