package scheduler

import (
	"log"
	"time"

	"github.com/go-co-op/gocron"
)

// Sweeper drops idle sessions.
type Sweeper interface {
	Sweep() int
	Len() int
}

// Gauge receives the live session count after each sweep.
type Gauge interface {
	SetActiveSessions(n int)
}

// Scheduler periodically evicts idle visitor sessions.
type Scheduler struct {
	scheduler *gocron.Scheduler
	sweeper   Sweeper
	gauge     Gauge
	interval  time.Duration
}

// New creates a new Scheduler. gauge may be nil.
func New(interval time.Duration, sweeper Sweeper, gauge Gauge) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		sweeper:   sweeper,
		gauge:     gauge,
		interval:  interval,
	}
}

// Start schedules the sweep job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	interval := s.interval
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	_, err := s.scheduler.Every(interval).SingletonMode().Do(s.RunOnce)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// RunOnce performs a single sweep.
func (s *Scheduler) RunOnce() {
	removed := s.sweeper.Sweep()
	live := s.sweeper.Len()
	if removed > 0 {
		log.Printf("scheduler: evicted %d idle sessions, %d live", removed, live)
	}
	if s.gauge != nil {
		s.gauge.SetActiveSessions(live)
	}
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
