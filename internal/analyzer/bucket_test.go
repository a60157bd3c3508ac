package analyzer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/avolkov/locstat/internal/model"
)

func TestBucketTime(t *testing.T) {
	// 2024-03-13 is a Wednesday.
	ts := time.Date(2024, 3, 13, 17, 42, 9, 0, time.UTC)

	tests := []struct {
		name    string
		groupBy model.GroupBy
		in      time.Time
		want    time.Time
	}{
		{
			name:    "day strips the time of day",
			groupBy: model.GroupByDay,
			in:      ts,
			want:    time.Date(2024, 3, 13, 0, 0, 0, 0, time.UTC),
		},
		{
			name:    "week snaps back to monday",
			groupBy: model.GroupByWeek,
			in:      ts,
			want:    time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC),
		},
		{
			name:    "monday stays on monday",
			groupBy: model.GroupByWeek,
			in:      time.Date(2024, 3, 11, 8, 0, 0, 0, time.UTC),
			want:    time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC),
		},
		{
			name:    "sunday belongs to the preceding monday",
			groupBy: model.GroupByWeek,
			in:      time.Date(2024, 3, 17, 23, 59, 0, 0, time.UTC),
			want:    time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC),
		},
		{
			name:    "month snaps to the first",
			groupBy: model.GroupByMonth,
			in:      ts,
			want:    time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, bucketTime(tt.in, tt.groupBy))
		})
	}
}

func TestBucketTimeNormalizesZone(t *testing.T) {
	zone := time.FixedZone("UTC+5", 5*60*60)
	local := time.Date(2024, 3, 13, 2, 0, 0, 0, zone) // 2024-03-12 21:00 UTC
	assert.Equal(t, time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC), bucketTime(local, model.GroupByDay))
}
