// Package scheduler runs periodic maintenance on cron schedules: report
// regeneration and audit trail cleanup.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// JobFunc is the body of a scheduled job.
type JobFunc func(ctx context.Context) error

type job struct {
	name     string
	schedule string
	run      JobFunc
	entryID  cron.EntryID
	running  bool
}

// Scheduler owns a cron instance and a set of named jobs. A job that is
// still running when its next tick fires is skipped for that tick.
type Scheduler struct {
	cron    *cron.Cron
	timeout time.Duration

	mu         sync.RWMutex
	jobs       map[string]*job
	isRunning  bool
	cancelFunc context.CancelFunc
}

// New creates a scheduler. Each job run gets a context bounded by timeout.
func New(timeout time.Duration) *Scheduler {
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &Scheduler{
		cron:    cron.New(cron.WithParser(newParser())),
		timeout: timeout,
		jobs:    make(map[string]*job),
	}
}

func newParser() cron.Parser {
	return cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
}

// ValidateCronSchedule checks a standard five-field cron expression.
func ValidateCronSchedule(schedule string) error {
	_, err := newParser().Parse(schedule)
	return err
}

// Add registers a job. Jobs may be added before or after Start.
func (s *Scheduler) Add(name, schedule string, run JobFunc) error {
	if err := ValidateCronSchedule(schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s' for %s: %w", schedule, name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("job %s already scheduled", name)
	}

	j := &job{name: name, schedule: schedule, run: run}
	entryID, err := s.cron.AddFunc(schedule, func() { s.execute(j) })
	if err != nil {
		return fmt.Errorf("failed to schedule %s: %w", name, err)
	}
	j.entryID = entryID
	s.jobs[name] = j

	log.Printf("Scheduler: %s scheduled with '%s'", name, schedule)
	return nil
}

// Start begins firing jobs. The scheduler stops on its own when ctx is done.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return
	}

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true
	log.Printf("Scheduler: started with %d jobs", len(s.jobs))

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()
}

// Stop stops firing new jobs and waits for running ones to complete.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	cancel := s.cancelFunc
	s.cancelFunc = nil
	s.mu.Unlock()

	ctx := s.cron.Stop()
	<-ctx.Done()
	if cancel != nil {
		cancel()
	}

	log.Printf("Scheduler: stopped")
}

func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRun returns when the named job fires next, or nil if the scheduler
// is stopped or the job is unknown.
func (s *Scheduler) NextRun(name string) *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	j, ok := s.jobs[name]
	if !ok || !s.isRunning {
		return nil
	}
	t := s.cron.Entry(j.entryID).Next
	return &t
}

// RunNow runs the named job synchronously, outside its schedule.
func (s *Scheduler) RunNow(name string) error {
	s.mu.RLock()
	j, ok := s.jobs[name]
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("job %s not found", name)
	}
	return s.execute(j)
}

func (s *Scheduler) execute(j *job) error {
	s.mu.Lock()
	if j.running {
		s.mu.Unlock()
		log.Printf("Scheduler: %s skipped (already running)", j.name)
		return nil
	}
	j.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		j.running = false
		s.mu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	if err := j.run(ctx); err != nil {
		log.Printf("Scheduler: %s failed after %s: %v", j.name, time.Since(start).Round(time.Millisecond), err)
		return err
	}
	log.Printf("Scheduler: %s completed in %s", j.name, time.Since(start).Round(time.Millisecond))
	return nil
}
