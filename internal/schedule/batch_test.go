package schedule

import (
	"testing"
	"time"

	"seatrota/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestScheduledBatch(t *testing.T) {
	tests := []struct {
		name string
		date time.Time
		want Batch
	}{
		// March 2026: the 2nd is a Monday.
		{"week1 monday", day(2026, 3, 2), Batch1},
		{"week1 tuesday", day(2026, 3, 3), Batch1},
		{"week1 wednesday", day(2026, 3, 4), Batch1},
		{"week1 thursday", day(2026, 3, 5), Batch2},
		{"week1 friday", day(2026, 3, 6), Batch2},
		{"week1 saturday", day(2026, 3, 7), BatchNone},
		{"week1 sunday", day(2026, 3, 8), BatchNone},
		{"week1 second friday", day(2026, 3, 13), Batch2},
		{"week2 monday", day(2026, 3, 16), Batch2},
		{"week2 wednesday", day(2026, 3, 18), Batch2},
		{"week2 thursday", day(2026, 3, 19), Batch1},
		{"week2 friday", day(2026, 3, 20), Batch1},
		{"31st", day(2026, 3, 31), Batch2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ScheduledBatch(tt.date))
		})
	}
}

func TestScheduledBatch_FirstTuesdayAndTwentiethThursday(t *testing.T) {
	// 2026-08-04 is the first Tuesday of August, 2026-08-20 a Thursday.
	require.Equal(t, time.Tuesday, day(2026, 8, 4).Weekday())
	require.Equal(t, time.Thursday, day(2026, 8, 20).Weekday())

	assert.Equal(t, Batch1, ScheduledBatch(day(2026, 8, 4)))
	assert.Equal(t, Batch1, ScheduledBatch(day(2026, 8, 20)))
}

func TestScheduledBatch_WeekBoundary(t *testing.T) {
	// 2026-05-14 and 2026-05-15 are Thursday and Friday on either side of the split.
	assert.Equal(t, 1, WeekOfMonth(day(2026, 5, 14)))
	assert.Equal(t, 2, WeekOfMonth(day(2026, 5, 15)))
	assert.Equal(t, Batch2, ScheduledBatch(day(2026, 5, 14)))
	assert.Equal(t, Batch1, ScheduledBatch(day(2026, 5, 15)))
}

func TestBatches_NeverShareADay(t *testing.T) {
	b1 := &model.User{BatchNumber: 1}
	b2 := &model.User{BatchNumber: 2}

	start := day(2026, 1, 1)
	for i := 0; i < 366; i++ {
		d := start.AddDate(0, 0, i)
		s1, s2 := IsScheduledDay(b1, d), IsScheduledDay(b2, d)
		if s1 && s2 {
			t.Fatalf("%s scheduled for both batches", d.Format(model.DateLayout))
		}
		if IsWeekday(d) && !s1 && !s2 {
			t.Fatalf("weekday %s scheduled for nobody", d.Format(model.DateLayout))
		}
		if ScheduledBatch(d) != ScheduledBatch(d) {
			t.Fatalf("ScheduledBatch not deterministic for %s", d)
		}
	}
}

func TestIsScheduledDay_InvalidBatch(t *testing.T) {
	assert.False(t, IsScheduledDay(&model.User{BatchNumber: 3}, day(2026, 3, 2)))
	assert.False(t, IsScheduledDay(nil, day(2026, 3, 2)))
}

func TestNextScheduledDate(t *testing.T) {
	b1 := &model.User{BatchNumber: 1}

	// From Thursday 2026-03-05 batch 1 is next in on Monday the 9th.
	next, ok := NextScheduledDate(b1, day(2026, 3, 5))
	require.True(t, ok)
	assert.Equal(t, day(2026, 3, 9), next)

	// The start day is included.
	next, ok = NextScheduledDate(b1, day(2026, 3, 9))
	require.True(t, ok)
	assert.Equal(t, day(2026, 3, 9), next)

	_, ok = NextScheduledDate(&model.User{BatchNumber: 9}, day(2026, 3, 5))
	assert.False(t, ok)
}

func TestDescribeDay(t *testing.T) {
	info := DescribeDay(day(2026, 3, 3))
	assert.Equal(t, "2026-03-03", info.Date)
	assert.Equal(t, "Tue", info.DayOfWeek)
	assert.Equal(t, 1, info.WeekOfMonth)
	assert.True(t, info.IsWeekday)
	require.NotNil(t, info.ScheduledBatch)
	assert.Equal(t, 1, *info.ScheduledBatch)
	assert.Equal(t, "Batch 1 is scheduled for this date", info.Message)

	weekend := DescribeDay(day(2026, 3, 7))
	assert.Nil(t, weekend.ScheduledBatch)
	assert.Equal(t, "No batch scheduled for this date", weekend.Message)
}
