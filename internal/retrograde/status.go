package retrograde

import (
	"fmt"
	"time"
)

// BadgeLevel is the gamified survival badge.
type BadgeLevel string

const (
	BadgeNone   BadgeLevel = ""
	BadgeBronze BadgeLevel = "bronze"
	BadgeSilver BadgeLevel = "silver"
	BadgeGold   BadgeLevel = "gold"
)

// CompletedWindow is how long after a period's end the "survived" state
// (and its gold badge) remains claimable.
const CompletedWindow = 3 * 24 * time.Hour

// Badge day thresholds. Product constants, no documented derivation.
const (
	bronzeDays = 3
	silverDays = 10
)

// Status is the derived retrograde state at an instant. Never stored.
type Status struct {
	IsActive     bool       `json:"is_active"`
	IsCompleted  bool       `json:"is_completed"`
	SurvivalDays int        `json:"survival_days"`
	Badge        BadgeLevel `json:"badge"`
	Period       *Period    `json:"period,omitempty"`
}

// StatusAt scans the table for a period containing now, then for one whose
// end is within the completed window. Otherwise inactive.
func (t *Table) StatusAt(now time.Time) Status {
	for i := range t.periods {
		p := &t.periods[i]
		if !now.Before(p.Start) && !now.After(p.End) {
			days := survivalDays(p, now)
			return Status{
				IsActive:     true,
				SurvivalDays: days,
				Badge:        activeBadge(days),
				Period:       p,
			}
		}
	}

	// Most recent period that ended within the window wins.
	var completed *Period
	for i := range t.periods {
		p := &t.periods[i]
		if now.After(p.End) && !now.After(p.End.Add(CompletedWindow)) {
			if completed == nil || p.End.After(completed.End) {
				completed = p
			}
		}
	}
	if completed != nil {
		return Status{
			IsCompleted:  true,
			SurvivalDays: survivalDays(completed, now),
			Badge:        BadgeGold,
			Period:       completed,
		}
	}

	return Status{}
}

// survivalDays counts elapsed days since the period started, with the
// start day as day 1, clamped to the period length.
func survivalDays(p *Period, now time.Time) int {
	days := int(now.Sub(p.Start).Hours()/24) + 1
	max := int(p.End.Sub(p.Start).Hours()/24) + 1
	if days > max {
		days = max
	}
	if days < 1 {
		days = 1
	}
	return days
}

func activeBadge(days int) BadgeLevel {
	switch {
	case days >= silverDays:
		return BadgeSilver
	case days >= bronzeDays:
		return BadgeBronze
	default:
		return BadgeNone
	}
}

// ActiveSpaceSlug derives the stable community-space identifier for the
// retrograde period in effect at now. The slug is built from the period's
// start month so a period spanning a month boundary keeps one slug
// throughout. Empty when nothing is active or completed.
func (t *Table) ActiveSpaceSlug(now time.Time) string {
	status := t.StatusAt(now)
	if status.Period == nil {
		return ""
	}
	p := status.Period
	return fmt.Sprintf("%s-retrograde-%s", p.Planet, p.Start.UTC().Format("2006-01"))
}
