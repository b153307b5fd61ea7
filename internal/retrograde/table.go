// Package retrograde holds the static calendar of retrograde windows and
// the status queries derived from it. The table is versioned reference
// data maintained by hand; nothing at runtime computes or mutates it.
package retrograde

import (
	"fmt"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"lunary-backend/internal/astro"
)

// Period is one retrograde window for a planet. Periods for the same
// planet never overlap.
type Period struct {
	Planet astro.Body
	Sign   astro.Sign
	Start  time.Time
	End    time.Time
}

// Table is an immutable, ordered set of retrograde periods.
type Table struct {
	periods []Period
}

// NewTable validates and orders the given periods.
func NewTable(periods []Period) (*Table, error) {
	sorted := make([]Period, len(periods))
	copy(sorted, periods)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start.Before(sorted[j].Start) })

	seen := make(map[astro.Body]Period)
	for _, p := range sorted {
		if !p.Start.Before(p.End) {
			return nil, fmt.Errorf("retrograde period for %s: start %s is not before end %s", p.Planet, p.Start, p.End)
		}
		if prev, ok := seen[p.Planet]; ok && p.Start.Before(prev.End) {
			return nil, fmt.Errorf("retrograde periods for %s overlap at %s", p.Planet, p.Start)
		}
		seen[p.Planet] = p
	}
	return &Table{periods: sorted}, nil
}

// Periods returns a copy of the table contents.
func (t *Table) Periods() []Period {
	out := make([]Period, len(t.periods))
	copy(out, t.periods)
	return out
}

func mustDate(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DefaultTable is the shipped 2024-2026 calendar.
func DefaultTable() *Table {
	t, err := NewTable([]Period{
		{astro.Mercury, astro.Aries, mustDate(2024, time.April, 1), mustDate(2024, time.April, 25)},
		{astro.Mercury, astro.Virgo, mustDate(2024, time.August, 5), mustDate(2024, time.August, 28)},
		{astro.Mercury, astro.Sagittarius, mustDate(2024, time.November, 25), mustDate(2024, time.December, 15)},
		{astro.Mars, astro.Leo, mustDate(2024, time.December, 6), mustDate(2025, time.February, 23)},
		{astro.Venus, astro.Aries, mustDate(2025, time.March, 1), mustDate(2025, time.April, 12)},
		{astro.Mercury, astro.Aries, mustDate(2025, time.March, 14), mustDate(2025, time.April, 7)},
		{astro.Mercury, astro.Leo, mustDate(2025, time.July, 17), mustDate(2025, time.August, 11)},
		{astro.Mercury, astro.Sagittarius, mustDate(2025, time.November, 9), mustDate(2025, time.November, 29)},
		{astro.Mercury, astro.Pisces, mustDate(2026, time.February, 25), mustDate(2026, time.March, 20)},
		{astro.Mercury, astro.Cancer, mustDate(2026, time.June, 29), mustDate(2026, time.July, 23)},
		{astro.Mercury, astro.Scorpio, mustDate(2026, time.October, 24), mustDate(2026, time.November, 13)},
	})
	if err != nil {
		// The shipped calendar is validated by tests; a bad entry is a
		// programming error.
		panic(err)
	}
	return t
}

type yamlPeriod struct {
	Planet string `yaml:"planet"`
	Sign   string `yaml:"sign"`
	Start  string `yaml:"start"`
	End    string `yaml:"end"`
}

// Load reads a table override file. Dates use YYYY-MM-DD.
func Load(path string) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var entries []yamlPeriod
	if err := yaml.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parse retrograde table %s: %w", path, err)
	}

	periods := make([]Period, 0, len(entries))
	for i, e := range entries {
		body, ok := astro.BodyFromName(e.Planet)
		if !ok {
			return nil, fmt.Errorf("retrograde table entry %d: unknown planet %q", i, e.Planet)
		}
		sign, ok := signFromName(e.Sign)
		if !ok {
			return nil, fmt.Errorf("retrograde table entry %d: unknown sign %q", i, e.Sign)
		}
		start, err := time.Parse("2006-01-02", e.Start)
		if err != nil {
			return nil, fmt.Errorf("retrograde table entry %d: %w", i, err)
		}
		end, err := time.Parse("2006-01-02", e.End)
		if err != nil {
			return nil, fmt.Errorf("retrograde table entry %d: %w", i, err)
		}
		periods = append(periods, Period{Planet: body, Sign: sign, Start: start, End: end})
	}
	return NewTable(periods)
}

func signFromName(name string) (astro.Sign, bool) {
	for s := astro.Aries; s <= astro.Pisces; s++ {
		if s.String() == name {
			return s, true
		}
	}
	return 0, false
}
