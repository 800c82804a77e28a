package testutil

import (
	"fmt"
	"time"

	"seatrota/internal/schedule"
	"seatrota/pkg/model"
)

// Users returns n active users of batch with ids prefix-00, prefix-01, ...
func Users(batch, n int, prefix string) []*model.User {
	users := make([]*model.User, 0, n)
	for i := 0; i < n; i++ {
		users = append(users, &model.User{
			ID:          fmt.Sprintf("%s-%02d", prefix, i),
			Name:        fmt.Sprintf("Integration %s %d", prefix, i),
			BatchNumber: batch,
			SquatNumber: i%10 + 1,
			Role:        model.RoleUser,
			IsActive:    true,
		})
	}
	return users
}

func Admin(id string) *model.User {
	return &model.User{ID: id, BatchNumber: 1, SquatNumber: 1, Role: model.RoleAdmin, IsActive: true}
}

// FutureDayFor returns the first day at least a week ahead that belongs to
// batch. Tests use it to stay clear of the same-day opening hour.
func FutureDayFor(batch schedule.Batch) time.Time {
	d := model.Day(time.Now(), time.UTC).AddDate(0, 0, 7)
	for schedule.ScheduledBatch(d) != batch {
		d = d.AddDate(0, 0, 1)
	}
	return d
}
