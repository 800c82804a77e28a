// Package schedule implements the two-batch rotation.
//
// Each month is split at the 14th. In week 1 batch 1 owns Mon-Wed and batch 2
// owns Thu-Fri; in week 2 the halves swap. Weekends belong to nobody.
package schedule

import (
	"fmt"
	"seatrota/pkg/model"
	"time"
)

type Batch int

const (
	BatchNone Batch = 0
	Batch1    Batch = 1
	Batch2    Batch = 2
)

const (
	week1LastDay = 14

	// MaxLookahead bounds NextScheduledDate.
	MaxLookahead = 30
)

func (b Batch) Valid() bool {
	return b == Batch1 || b == Batch2
}

// WeekOfMonth returns 1 for days 1-14 and 2 for the rest of the month.
func WeekOfMonth(date time.Time) int {
	if date.Day() <= week1LastDay {
		return 1
	}
	return 2
}

func IsWeekday(date time.Time) bool {
	wd := date.Weekday()
	return wd >= time.Monday && wd <= time.Friday
}

func isMonToWed(date time.Time) bool {
	wd := date.Weekday()
	return wd >= time.Monday && wd <= time.Wednesday
}

// ScheduledBatch returns the batch that owns date, or BatchNone on weekends.
// date is read as a calendar day; callers pass a normalized day.
func ScheduledBatch(date time.Time) Batch {
	if !IsWeekday(date) {
		return BatchNone
	}
	firstHalf := isMonToWed(date)
	if WeekOfMonth(date) == 1 {
		if firstHalf {
			return Batch1
		}
		return Batch2
	}
	if firstHalf {
		return Batch2
	}
	return Batch1
}

// IsScheduledDay reports whether date belongs to the user's batch. Users with
// an out-of-range batch number are never scheduled.
func IsScheduledDay(user *model.User, date time.Time) bool {
	if user == nil {
		return false
	}
	b := Batch(user.BatchNumber)
	return b.Valid() && ScheduledBatch(date) == b
}

// NextScheduledDate scans from (inclusive) for up to MaxLookahead days and
// returns the first day scheduled for the user. ok is false when none is
// found in the window.
func NextScheduledDate(user *model.User, from time.Time) (day time.Time, ok bool) {
	start := model.Day(from, time.UTC)
	for i := 0; i < MaxLookahead; i++ {
		d := start.AddDate(0, 0, i)
		if IsScheduledDay(user, d) {
			return d, true
		}
	}
	return time.Time{}, false
}

// Info describes the rotation for one day.
type Info struct {
	Date           string `json:"date"`
	DayOfWeek      string `json:"day_of_week"`
	WeekOfMonth    int    `json:"week_of_month"`
	IsWeekday      bool   `json:"is_weekday"`
	ScheduledBatch *int   `json:"scheduled_batch"`
	Message        string `json:"message"`
}

func DescribeDay(date time.Time) Info {
	info := Info{
		Date:        date.Format(model.DateLayout),
		DayOfWeek:   date.Weekday().String()[:3],
		WeekOfMonth: WeekOfMonth(date),
		IsWeekday:   IsWeekday(date),
		Message:     "No batch scheduled for this date",
	}
	if b := ScheduledBatch(date); b != BatchNone {
		n := int(b)
		info.ScheduledBatch = &n
		info.Message = fmt.Sprintf("Batch %d is scheduled for this date", n)
	}
	return info
}
