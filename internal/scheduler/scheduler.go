// Package scheduler wires up the cron trigger that periodically fires the
// ingestion pipeline, isolating any failure so the process keeps running.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
)

// Runner executes one pipeline run for a search term.
type Runner interface {
	Run(ctx context.Context, searchTerm string) error
}

// Status reports whether the scheduler is active and which trigger entries
// are registered.
type Status struct {
	Running bool     `json:"running"`
	Jobs    []string `json:"jobs"`
}

// Scheduler wraps robfig/cron and manages the scrape trigger. Scheduled
// firings and on-demand triggers share the same RunNow path.
type Scheduler struct {
	cron       *cron.Cron
	runner     Runner
	searchTerm string
	spec       string // cron spec, e.g. "0 9 * * THU"
	started    atomic.Bool
}

// New creates a Scheduler firing at the given cron spec with the default
// search term. Panics inside a firing are caught by the cron recovery chain
// and by RunNow itself, so one bad run never unregisters the trigger.
func New(runner Runner, searchTerm, spec string) *Scheduler {
	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(cron.DefaultLogger),
			cron.WithChain(cron.Recover(cron.DefaultLogger)),
		),
		runner:     runner,
		searchTerm: searchTerm,
		spec:       spec,
	}
}

// Start registers the trigger and starts the scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.RunNow(ctx, s.searchTerm)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	s.started.Store(true)
	log.Printf("[scheduler] Cron started — spec: %s, term: %q", s.spec, s.searchTerm)
	return nil
}

// Stop shuts down the scheduler. Already-running firings finish on their own.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.started.Store(false)
	log.Println("[scheduler] Cron stopped")
}

// RunNow fires one pipeline run synchronously. It is the single execution
// path for both scheduled and on-demand triggers: failures and panics are
// logged here and never reach the host process.
func (s *Scheduler) RunNow(ctx context.Context, searchTerm string) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[scheduler] Pipeline run panicked: %v", r)
		}
	}()

	if err := s.runner.Run(ctx, searchTerm); err != nil {
		log.Printf("[scheduler] Pipeline run failed: %v", err)
	}
}

// Status reports scheduler state and registered trigger entries.
func (s *Scheduler) Status() Status {
	entries := s.cron.Entries()
	jobs := make([]string, 0, len(entries))
	for _, e := range entries {
		jobs = append(jobs, fmt.Sprintf("entry %d: %s (next %s)",
			e.ID, s.spec, e.Next.Format(time.RFC3339)))
	}
	return Status{Running: s.started.Load(), Jobs: jobs}
}
