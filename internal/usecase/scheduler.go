package usecase

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/treasurehunter/watcher/internal/domain"
)

// RoundRunner runs a single pass over the watch targets
type RoundRunner interface {
	RunRound(ctx context.Context, targets []domain.WatchTarget) domain.RoundReport
}

// SchedulerConfig holds configuration for the scheduler
type SchedulerConfig struct {
	RoundInterval time.Duration // pause after each round
	MaxRounds     int           // 0 runs until cancelled
}

// SchedulerStatus is a point-in-time view of the scheduler
type SchedulerStatus struct {
	Running           bool                `json:"running"`
	StartedAt         time.Time           `json:"startedAt,omitempty"`
	RoundsCompleted   int                 `json:"roundsCompleted"`
	TotalAlerts       int                 `json:"totalAlerts"`
	TotalFetchErrors  int                 `json:"totalFetchErrors"`
	TotalNotifyErrors int                 `json:"totalNotifyErrors"`
	LastRound         *domain.RoundReport `json:"lastRound,omitempty"`
}

// Scheduler repeats rounds with a fixed delay until its context is cancelled
type Scheduler struct {
	runner    RoundRunner
	targets   []domain.WatchTarget
	interval  time.Duration
	maxRounds int

	mutex  sync.RWMutex
	status SchedulerStatus
}

// NewScheduler creates a scheduler over a fixed, validated set of targets
func NewScheduler(runner RoundRunner, targets []domain.WatchTarget, config SchedulerConfig) (*Scheduler, error) {
	if len(targets) == 0 {
		return nil, fmt.Errorf("%w: at least one target is required", domain.ErrInvalidTarget)
	}
	for _, t := range targets {
		if err := t.Validate(); err != nil {
			return nil, err
		}
	}

	interval := config.RoundInterval
	if interval < 0 {
		interval = 0
	}

	owned := make([]domain.WatchTarget, len(targets))
	copy(owned, targets)

	return &Scheduler{
		runner:    runner,
		targets:   owned,
		interval:  interval,
		maxRounds: config.MaxRounds,
	}, nil
}

// Run executes rounds until ctx is cancelled or MaxRounds is reached.
// Cancellation is a clean exit and returns nil.
func (s *Scheduler) Run(ctx context.Context) error {
	s.mutex.Lock()
	s.status.Running = true
	s.status.StartedAt = time.Now()
	s.mutex.Unlock()

	defer func() {
		s.mutex.Lock()
		s.status.Running = false
		s.mutex.Unlock()
	}()

	log.Printf("[SCHEDULER] Watching %d targets, round interval %s", len(s.targets), s.interval)

	for round := 1; ; round++ {
		if ctx.Err() != nil {
			log.Printf("[SCHEDULER] Stopped before round %d", round)
			return nil
		}

		report := s.runner.RunRound(ctx, s.targets)
		s.record(report)

		if report.Cancelled || ctx.Err() != nil {
			log.Printf("[SCHEDULER] Stopped during round %d", round)
			return nil
		}

		if s.maxRounds > 0 && round >= s.maxRounds {
			log.Printf("[SCHEDULER] Completed %d rounds", round)
			return nil
		}

		log.Printf("[SCHEDULER] Round %d complete. Sleeping %s before next round", round, s.interval)
		if !sleepContext(ctx, s.interval) {
			log.Printf("[SCHEDULER] Stopped after round %d", round)
			return nil
		}
	}
}

// Targets returns a copy of the watched targets
func (s *Scheduler) Targets() []domain.WatchTarget {
	out := make([]domain.WatchTarget, len(s.targets))
	copy(out, s.targets)
	return out
}

// Status returns a snapshot of the scheduler state
func (s *Scheduler) Status() SchedulerStatus {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	status := s.status
	if s.status.LastRound != nil {
		last := *s.status.LastRound
		status.LastRound = &last
	}
	return status
}

func (s *Scheduler) record(report domain.RoundReport) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !report.Cancelled {
		s.status.RoundsCompleted++
	}
	s.status.TotalAlerts += report.Alerts
	s.status.TotalFetchErrors += report.FetchErrors
	s.status.TotalNotifyErrors += report.NotifyErrors
	s.status.LastRound = &report
}
