package refresh

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the batch refresh job on a cron spec.
type Scheduler struct {
	cron *cron.Cron
	job  *Job
	ctx  context.Context
}

// NewScheduler creates a scheduler bound to ctx; a cancelled ctx stops the
// in-flight run at the next page boundary.
func NewScheduler(ctx context.Context, job *Job) *Scheduler {
	return &Scheduler{
		cron: cron.New(),
		job:  job,
		ctx:  ctx,
	}
}

// Register adds the refresh task under the given cron spec.
func (s *Scheduler) Register(spec string) error {
	if _, err := s.cron.AddFunc(spec, s.runOnce); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler. When runNow is set the job also fires
// immediately in the background, warming today's caches on deploy.
func (s *Scheduler) Start(runNow bool) {
	s.cron.Start()
	log.Println("Refresh scheduler started")
	if runNow {
		go s.runOnce()
	}
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("Refresh scheduler stopped")
}

func (s *Scheduler) runOnce() {
	now := time.Now().UTC()
	report, err := s.job.Run(s.ctx, now)
	if err != nil {
		log.Printf("Error: batch refresh run failed: %v", err)
		return
	}
	for _, msg := range report.Errors {
		log.Printf("Batch refresh item failure: %s", msg)
	}
}
