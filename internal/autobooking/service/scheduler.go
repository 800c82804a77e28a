package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"seatrota/pkg/clock"
	"seatrota/pkg/config"
	"seatrota/pkg/logger"
	"seatrota/pkg/model"

	"github.com/robfig/cron/v3"
)

const (
	TriggerSchedule = "schedule"
	TriggerManual   = "manual"

	runTimeout = 5 * time.Minute
)

type RunRecord struct {
	Trigger    string    `json:"trigger"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Report     *Report   `json:"report,omitempty"`
	Error      string    `json:"error,omitempty"`
}

type Status struct {
	Status        string     `json:"status"`
	StartedAt     time.Time  `json:"started_at"`
	Uptime        string     `json:"uptime"`
	UptimeSeconds int64      `json:"uptime_seconds"`
	Timezone      string     `json:"timezone"`
	Today         string     `json:"today"`
	AutoBooking   bool       `json:"auto_booking_enabled"`
	Schedule      string     `json:"schedule"`
	NextRun       *time.Time `json:"next_run,omitempty"`
	LastRun       *RunRecord `json:"last_run"`
}

// Scheduler fires the orchestrator on a cron schedule in the business
// timezone and remembers the most recent run.
type Scheduler struct {
	orchestrator *Orchestrator
	cron         *cron.Cron
	clock        clock.Clock
	location     *time.Location
	spec         string
	enabled      bool
	log          *logger.Logger

	startedAt time.Time
	entry     cron.EntryID

	mu      sync.RWMutex
	lastRun *RunRecord
}

func NewScheduler(orchestrator *Orchestrator, clk clock.Clock, cfg *config.Config) (*Scheduler, error) {
	if _, err := cron.ParseStandard(cfg.AutoBookingSchedule); err != nil {
		return nil, fmt.Errorf("invalid auto-booking schedule %q: %w", cfg.AutoBookingSchedule, err)
	}
	return &Scheduler{
		orchestrator: orchestrator,
		cron:         cron.New(cron.WithLocation(cfg.Location)),
		clock:        clk,
		location:     cfg.Location,
		spec:         cfg.AutoBookingSchedule,
		enabled:      cfg.AutoBookingEnabled,
		log:          cfg.Log,
		startedAt:    clk.Now(),
	}, nil
}

// Start registers the recurring run. It is a no-op when auto-booking is
// disabled; manual triggers keep working.
func (s *Scheduler) Start() error {
	if !s.enabled {
		s.log.Info("Auto-booking schedule disabled")
		return nil
	}
	id, err := s.cron.AddFunc(s.spec, s.runScheduled)
	if err != nil {
		return fmt.Errorf("schedule auto-booking: %w", err)
	}
	s.entry = id
	s.cron.Start()
	s.log.Info("Auto-booking scheduled", "schedule", s.spec, "timezone", s.location.String())
	return nil
}

// Stop waits for a running job to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
		s.log.Info("Auto-booking scheduler stopped")
	case <-ctx.Done():
		s.log.Warn("Auto-booking scheduler stop timed out", "error", ctx.Err())
	}
}

func (s *Scheduler) runScheduled() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	if _, err := s.run(ctx, TriggerSchedule, s.today()); err != nil {
		s.log.Error("Scheduled auto-booking failed", "error", err)
	}
}

// TriggerAutoBooking runs the orchestrator for date, or for today when date
// is nil.
func (s *Scheduler) TriggerAutoBooking(ctx context.Context, date *time.Time) (*Report, error) {
	day := s.today()
	if date != nil {
		day = *date
	}
	return s.run(ctx, TriggerManual, day)
}

func (s *Scheduler) today() time.Time {
	return model.Day(s.clock.Now(), s.location)
}

func (s *Scheduler) run(ctx context.Context, trigger string, date time.Time) (*Report, error) {
	record := &RunRecord{Trigger: trigger, StartedAt: s.clock.Now()}

	report, err := s.orchestrator.RunAutoBooking(ctx, date)

	record.FinishedAt = s.clock.Now()
	record.Report = report
	if err != nil {
		record.Error = err.Error()
	}

	s.mu.Lock()
	s.lastRun = record
	s.mu.Unlock()

	return report, err
}

func (s *Scheduler) LastRun() *RunRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastRun
}

func (s *Scheduler) Status() Status {
	now := s.clock.Now()
	uptime := now.Sub(s.startedAt)

	st := Status{
		Status:        "running",
		StartedAt:     s.startedAt,
		Uptime:        fmt.Sprintf("%dh %dm", int(uptime.Hours()), int(uptime.Minutes())%60),
		UptimeSeconds: int64(uptime.Seconds()),
		Timezone:      s.location.String(),
		Today:         s.today().Format(model.DateLayout),
		AutoBooking:   s.enabled,
		Schedule:      s.spec,
		LastRun:       s.LastRun(),
	}
	if s.entry != 0 {
		if next := s.cron.Entry(s.entry).Next; !next.IsZero() {
			st.NextRun = &next
		}
	}
	return st
}
