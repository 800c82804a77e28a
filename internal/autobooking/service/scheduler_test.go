package service

import (
	"context"
	"testing"
	"time"

	"seatrota/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewScheduler_RejectsBadSchedule(t *testing.T) {
	f := newFixture(t, func(c *config.Config) { c.AutoBookingSchedule = "every day at midnight" })

	_, err := NewScheduler(f.orchestrator(), f.clock, f.cfg)
	assert.Error(t, err)
}

func TestScheduler_TriggerDefaultsToToday(t *testing.T) {
	f := newFixture(t)
	f.addUsers(1, 2, "b1")

	s, err := NewScheduler(f.orchestrator(), f.clock, f.cfg)
	require.NoError(t, err)
	assert.Nil(t, s.LastRun())

	report, err := s.TriggerAutoBooking(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-02", report.Date)
	assert.Equal(t, 2, report.Successful)

	last := s.LastRun()
	require.NotNil(t, last)
	assert.Equal(t, TriggerManual, last.Trigger)
	assert.Same(t, report, last.Report)
	assert.Empty(t, last.Error)
}

func TestScheduler_TriggerExplicitDate(t *testing.T) {
	f := newFixture(t)
	s, err := NewScheduler(f.orchestrator(), f.clock, f.cfg)
	require.NoError(t, err)

	report, err := s.TriggerAutoBooking(context.Background(), &saturday)
	require.NoError(t, err)
	assert.False(t, report.Scheduled)
}

func TestScheduler_Status(t *testing.T) {
	f := newFixture(t, func(c *config.Config) { c.AutoBookingEnabled = false })
	s, err := NewScheduler(f.orchestrator(), f.clock, f.cfg)
	require.NoError(t, err)
	require.NoError(t, s.Start())
	defer s.Stop(context.Background())

	f.clock.Advance(2*time.Hour + 5*time.Minute)

	st := s.Status()
	assert.Equal(t, "running", st.Status)
	assert.Equal(t, "2h 5m", st.Uptime)
	assert.Equal(t, int64(7500), st.UptimeSeconds)
	assert.Equal(t, "UTC", st.Timezone)
	assert.Equal(t, "2026-03-02", st.Today)
	assert.False(t, st.AutoBooking)
	assert.Nil(t, st.NextRun)
	assert.Nil(t, st.LastRun)
}

func TestScheduler_StartRegistersNextRun(t *testing.T) {
	f := newFixture(t)
	s, err := NewScheduler(f.orchestrator(), f.clock, f.cfg)
	require.NoError(t, err)
	require.NoError(t, s.Start())
	defer s.Stop(context.Background())

	require.Eventually(t, func() bool {
		return s.Status().NextRun != nil
	}, time.Second, 10*time.Millisecond)

	next := *s.Status().NextRun
	assert.Equal(t, 0, next.Hour())
	assert.Equal(t, 1, next.Minute())
}
