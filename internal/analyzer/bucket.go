package analyzer

import (
	"time"

	"github.com/avolkov/locstat/internal/model"
)

// bucketTime maps an instant onto its date bucket. Week buckets align to
// Monday, month buckets to the first of the month.
func bucketTime(t time.Time, groupBy model.GroupBy) time.Time {
	t = t.In(time.UTC)
	switch groupBy {
	case model.GroupByWeek:
		day := startOfDay(t)
		offset := (int(day.Weekday()) + 6) % 7 // Monday = 0
		return day.AddDate(0, 0, -offset)
	case model.GroupByMonth:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	default:
		return startOfDay(t)
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
