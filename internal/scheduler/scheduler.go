// Package scheduler runs the recurring background jobs: the daily cache
// refresh, the daily notification cycle and the periodic OTP sweep.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"domainwatch/internal/scheduler/metrics"
)

// JobFunc performs one run of a scheduled job.
type JobFunc func(ctx context.Context) error

type job struct {
	name    string
	run     JobFunc
	running atomic.Bool

	// exactly one of these is set
	hour   int
	period time.Duration
	daily  bool
}

// Scheduler owns a set of jobs and runs each on its own schedule until
// the context is cancelled. A trigger that fires while the previous run
// of the same job is still in flight is skipped, not queued.
type Scheduler struct {
	jobs    []*job
	logger  *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

type Option func(*Scheduler)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Scheduler) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Scheduler) { s.metrics = m }
}

// WithClock overrides the wall clock used to compute daily run times.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

func New(opts ...Option) *Scheduler {
	s := &Scheduler{
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Daily registers a job that runs once per day at the given local hour.
func (s *Scheduler) Daily(name string, hour int, fn JobFunc) {
	s.jobs = append(s.jobs, &job{name: name, run: fn, hour: hour, daily: true})
}

// Every registers a job that runs on a fixed interval.
func (s *Scheduler) Every(name string, period time.Duration, fn JobFunc) {
	s.jobs = append(s.jobs, &job{name: name, run: fn, period: period})
}

// Run blocks until ctx is cancelled and all in-flight job runs have
// returned.
func (s *Scheduler) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for _, j := range s.jobs {
		wg.Add(1)
		go func(j *job) {
			defer wg.Done()
			if j.daily {
				s.runDaily(ctx, &wg, j)
			} else {
				s.runEvery(ctx, &wg, j)
			}
		}(j)
	}
	wg.Wait()
}

func (s *Scheduler) runDaily(ctx context.Context, wg *sync.WaitGroup, j *job) {
	for {
		wait := time.Until(nextDaily(s.now(), j.hour))
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			s.trigger(ctx, wg, j)
		}
	}
}

func (s *Scheduler) runEvery(ctx context.Context, wg *sync.WaitGroup, j *job) {
	ticker := time.NewTicker(j.period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.trigger(ctx, wg, j)
		}
	}
}

func (s *Scheduler) trigger(ctx context.Context, wg *sync.WaitGroup, j *job) {
	if !j.running.CompareAndSwap(false, true) {
		s.logger.Warn("previous run still in flight, skipping", "job", j.name)
		s.metrics.RecordSkip(j.name)
		return
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer j.running.Store(false)
		start := s.now()
		err := j.run(ctx)
		s.metrics.RecordRun(j.name, err)
		if err != nil {
			s.logger.Error("scheduled job failed", "job", j.name, "duration", s.now().Sub(start), "error", err)
			return
		}
		s.logger.Info("scheduled job completed", "job", j.name, "duration", s.now().Sub(start))
	}()
}

// nextDaily returns the next occurrence of the given local hour strictly
// after now.
func nextDaily(now time.Time, hour int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
