// Package invalidation clears every derived cache for a user after their
// birth chart changes. The sweep is best-effort cache coherence, not a
// transaction: the birth-chart write already succeeded, and one stale
// cache table is never worth blocking the user's mutation.
package invalidation

import (
	"context"
	"log"
)

// Store is the slice of the persistence layer the coordinator sweeps.
// Satisfied by store.Store.
type Store interface {
	DeleteSnapshots(ctx context.Context, userID int64) error
	ClearSynastryReports(ctx context.Context, userID int64) error
	ClearDailyHoroscopes(ctx context.Context, userID int64) error
	ClearMonthlyInsights(ctx context.Context, userID int64) error
	ClearCosmicReports(ctx context.Context, userID int64) error
	ClearJournalPatterns(ctx context.Context, userID int64) error
	ClearPatternAnalyses(ctx context.Context, userID int64) error
	ClearYearAnalyses(ctx context.Context, userID int64) error
	ResetFriendSynastryScores(ctx context.Context, userID int64) error
}

// Result records the outcome of one downstream clear.
type Result struct {
	Name string
	Err  error
}

// Coordinator runs the enumerated sweep.
type Coordinator struct {
	store Store
}

// NewCoordinator creates a coordinator over the given store.
func NewCoordinator(s Store) *Coordinator {
	return &Coordinator{store: s}
}

type operation struct {
	name string
	run  func(context.Context, int64) error
}

func (c *Coordinator) operations() []operation {
	return []operation{
		{"synastry_reports", c.store.ClearSynastryReports},
		{"daily_horoscopes", c.store.ClearDailyHoroscopes},
		{"monthly_insights", c.store.ClearMonthlyInsights},
		{"cosmic_snapshots", c.store.DeleteSnapshots},
		{"cosmic_reports", c.store.ClearCosmicReports},
		{"journal_patterns", c.store.ClearJournalPatterns},
		{"pattern_analyses", c.store.ClearPatternAnalyses},
		{"year_analyses", c.store.ClearYearAnalyses},
		// Column reset, not a row delete: friendships survive.
		{"friend_synastry_scores", c.store.ResetFriendSynastryScores},
	}
}

// InvalidateDerivedCaches clears every downstream store for the user.
// All-settled: each operation runs regardless of earlier failures, and
// failures are logged rather than propagated. The per-operation results
// are returned for observability.
func (c *Coordinator) InvalidateDerivedCaches(ctx context.Context, userID int64) []Result {
	ops := c.operations()
	results := make([]Result, 0, len(ops))
	for _, op := range ops {
		err := op.run(ctx, userID)
		if err != nil {
			log.Printf("Warning: invalidation of %s for user %d failed: %v", op.name, userID, err)
		}
		results = append(results, Result{Name: op.name, Err: err})
	}
	return results
}
