// Package refresh rebuilds per-user cosmic snapshots on a schedule so the
// morning read path hits a warm cache.
package refresh

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"lunary-backend/internal/cosmic"
	"lunary-backend/internal/model"
	"lunary-backend/internal/notification"
)

// SnapshotBuilder is the slice of the cosmic service the job needs.
type SnapshotBuilder interface {
	GlobalData(ctx context.Context, t time.Time) (*model.GlobalCosmicData, error)
	BuildForSubscriber(sub *model.Subscriber, global *model.GlobalCosmicData, now time.Time) (*model.CosmicSnapshot, error)
}

// Store is the slice of the persistence layer the job needs.
type Store interface {
	ListNotifySubscribers(ctx context.Context, page, pageSize int) ([]model.Subscriber, error)
	SaveSnapshot(ctx context.Context, snap *model.CosmicSnapshot) error
}

// Dispatcher hands completed snapshots to the push delivery pool.
type Dispatcher interface {
	Dispatch(job notification.Job)
}

const (
	defaultPageSize   = 100
	maxReportedErrors = 10
)

// Report summarizes one batch run. Errors is bounded to the first
// maxReportedErrors failures; Failed counts all of them.
type Report struct {
	Processed int      `json:"processed"`
	Failed    int      `json:"failed"`
	Errors    []string `json:"errors,omitempty"`
}

// Job is the scheduled batch refresh.
type Job struct {
	store    Store
	builder  SnapshotBuilder
	notifier Dispatcher // nil disables push delivery
	pageSize int
}

// NewJob creates a batch refresh job. notifier may be nil.
func NewJob(store Store, builder SnapshotBuilder, notifier Dispatcher, pageSize int) *Job {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &Job{store: store, builder: builder, notifier: notifier, pageSize: pageSize}
}

// Run pages through eligible subscribers and rebuilds each one's snapshot
// against the global row for now. A single user's failure is logged and
// counted, never aborts the run. Re-running the same day is safe because
// snapshot persistence upserts. The context is checked between pages;
// cancellation stops picking up new pages without touching in-flight work.
func (j *Job) Run(ctx context.Context, now time.Time) (*Report, error) {
	// The global row must exist before any per-user build; resolving it
	// here also warms the day's cache for the lazy read path.
	global, err := j.builder.GlobalData(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("resolve global cosmic data: %w", err)
	}

	report := &Report{}
	for page := 1; ; page++ {
		if err := ctx.Err(); err != nil {
			log.Printf("Batch refresh cancelled after page %d: %v", page-1, err)
			return report, err
		}

		subs, err := j.store.ListNotifySubscribers(ctx, page, j.pageSize)
		if err != nil {
			return report, fmt.Errorf("list subscribers page %d: %w", page, err)
		}
		if len(subs) == 0 {
			break
		}

		for i := range subs {
			j.refreshOne(ctx, &subs[i], global, now, report)
		}
	}

	log.Printf("Batch refresh finished: %d processed, %d failed", report.Processed, report.Failed)
	return report, nil
}

// refreshOne builds and persists one user's snapshot, isolating failures.
func (j *Job) refreshOne(ctx context.Context, sub *model.Subscriber, global *model.GlobalCosmicData, now time.Time, report *Report) {
	snap, err := j.builder.BuildForSubscriber(sub, global, now)
	if err != nil {
		j.recordFailure(report, sub.UserID, err)
		return
	}
	if err := j.store.SaveSnapshot(ctx, snap); err != nil {
		j.recordFailure(report, sub.UserID, err)
		return
	}
	report.Processed++

	// Push delivery is downstream of persistence; its failures are the
	// worker pool's problem and never affect the snapshot's status.
	if j.notifier != nil {
		j.notifier.Dispatch(notification.Job{
			UserID:  sub.UserID,
			Title:   "Your cosmic snapshot is ready",
			Message: snapshotTeaser(snap),
		})
	}
}

func (j *Job) recordFailure(report *Report, userID int64, err error) {
	report.Failed++
	log.Printf("Error refreshing snapshot for user %d: %v", userID, err)
	if len(report.Errors) < maxReportedErrors {
		report.Errors = append(report.Errors, fmt.Sprintf("user %d: %v", userID, err))
	}
}

// snapshotTeaser picks the push body from the snapshot's highlights.
func snapshotTeaser(snap *model.CosmicSnapshot) string {
	var highlights []cosmic.Highlight
	if err := json.Unmarshal(snap.Highlights, &highlights); err == nil {
		for _, h := range highlights {
			if h.Kind != "greeting" {
				return h.Message
			}
		}
	}
	return "A fresh look at your sky is waiting."
}
