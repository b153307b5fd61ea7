package cosmic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/datatypes"

	"lunary-backend/internal/astro"
	"lunary-backend/internal/model"
)

// ErrNoBirthData marks a user with neither a stored chart nor a birthday;
// nothing personalized can be built for them.
var ErrNoBirthData = errors.New("subscriber has no birth chart or birthday")

const maxHighlights = 4

// ParseBirthChart decodes the stored chart column into natal positions.
func ParseBirthChart(raw datatypes.JSON) ([]astro.NatalPosition, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var stored []model.BirthChartPosition
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, fmt.Errorf("decode birth chart: %w", err)
	}

	natal := make([]astro.NatalPosition, 0, len(stored))
	for _, p := range stored {
		body, ok := astro.BodyFromName(p.Body)
		if !ok {
			return nil, fmt.Errorf("birth chart references unknown body %q", p.Body)
		}
		lon := astro.NormalizeLongitude(p.Longitude)
		natal = append(natal, astro.NatalPosition{
			Body:      body,
			Longitude: lon,
			Sign:      astro.SignFromLongitude(lon),
			Degree:    astro.DegreeInSign(lon),
		})
	}
	return natal, nil
}

// natalFromBirthday degrades to a sun-sign-only chart when the user has a
// birthday but never entered full birth data.
func (s *Service) natalFromBirthday(birthday time.Time) ([]astro.NatalPosition, error) {
	lon, err := s.eph.EclipticLongitude(astro.Sun, birthday.UTC())
	if err != nil {
		return nil, fmt.Errorf("compute natal sun for birthday %s: %w", birthday.Format("2006-01-02"), err)
	}
	return []astro.NatalPosition{{
		Body:      astro.Sun,
		Longitude: lon,
		Sign:      astro.SignFromLongitude(lon),
		Degree:    astro.DegreeInSign(lon),
	}}, nil
}

// BuildSnapshotWithGlobal combines the already-built global day row with
// one user's natal chart. Timezone and locale only affect the wording of
// highlights, never the underlying computation.
func (s *Service) BuildSnapshotWithGlobal(userID int64, global *model.GlobalCosmicData, timezone, locale, displayName string, chart []astro.NatalPosition, now time.Time) (*model.CosmicSnapshot, error) {
	if global == nil {
		return nil, errors.New("global cosmic data is required")
	}
	if len(chart) == 0 {
		return nil, ErrNoBirthData
	}

	var positions []PositionEntry
	if err := json.Unmarshal(global.PlanetaryPositions, &positions); err != nil {
		return nil, fmt.Errorf("decode global positions for %s: %w", global.Date, err)
	}

	transiting := make(map[astro.Body]float64, len(positions))
	for _, p := range positions {
		body, ok := astro.BodyFromName(p.Body)
		if !ok {
			continue
		}
		transiting[body] = p.Longitude
	}

	aspects := astro.TransitAspects(transiting, chart)

	transits := make([]PersonalTransit, 0, len(aspects))
	byNatal := make(map[astro.Body]PersonalAspect)
	for _, a := range aspects {
		transits = append(transits, PersonalTransit{
			Transiting: a.Transiting.String(),
			Natal:      a.Natal.String(),
			Aspect:     string(a.Aspect),
			Orb:        a.Orb,
		})
		if _, seen := byNatal[a.Natal]; !seen { // aspects arrive tightest first
			byNatal[a.Natal] = PersonalAspect{
				Natal:      a.Natal.String(),
				Transiting: a.Transiting.String(),
				Aspect:     string(a.Aspect),
				Orb:        a.Orb,
			}
		}
	}
	summaries := make([]PersonalAspect, 0, len(byNatal))
	for _, pos := range chart {
		if sum, ok := byNatal[pos.Body]; ok {
			summaries = append(summaries, sum)
		}
	}

	highlights := s.buildHighlights(global, aspects, chart, timezone, locale, displayName, now)

	transitsJSON, err := json.Marshal(transits)
	if err != nil {
		return nil, fmt.Errorf("marshal personal transits: %w", err)
	}
	aspectsJSON, err := json.Marshal(summaries)
	if err != nil {
		return nil, fmt.Errorf("marshal personal aspects: %w", err)
	}
	highlightsJSON, err := json.Marshal(highlights)
	if err != nil {
		return nil, fmt.Errorf("marshal highlights: %w", err)
	}

	return &model.CosmicSnapshot{
		UserID:           userID,
		Date:             global.Date,
		GlobalDate:       global.Date,
		PersonalTransits: transitsJSON,
		PersonalAspects:  aspectsJSON,
		Highlights:       highlightsJSON,
		ComputedAt:       now.UTC(),
	}, nil
}

func (s *Service) buildHighlights(global *model.GlobalCosmicData, aspects []astro.TransitAspect, chart []astro.NatalPosition, timezone, locale, displayName string, now time.Time) []Highlight {
	highlights := []Highlight{{
		Kind:    "greeting",
		Message: fmt.Sprintf("%s, your sky for %s", greetName(displayName), localDate(global.Date, timezone, locale)),
	}}

	if len(aspects) > 0 {
		a := aspects[0]
		highlights = append(highlights, Highlight{
			Kind:    "transit",
			Message: fmt.Sprintf("transiting %s %s your natal %s (orb %.1f°)", a.Transiting, a.Aspect, a.Natal, a.Orb),
		})
	}

	anchor, err := dayAnchor(global.Date)
	if err != nil {
		anchor = now.UTC()
	}

	if global.RetrogradeActive {
		status := s.retro.StatusAt(anchor)
		if status.Period != nil {
			highlights = append(highlights, Highlight{
				Kind:    "retrograde",
				Message: fmt.Sprintf("%s retrograde, survival day %d", status.Period.Planet, status.SurvivalDays),
			})
		}
	}

	if global.EclipseActive {
		for _, ev := range eclipsesNear(anchor) {
			rel := astro.CheckEclipseRelevance(ev, chart, astro.DefaultEclipseOrb)
			if !rel.IsRelevant {
				continue
			}
			highlights = append(highlights, Highlight{
				Kind:    "eclipse",
				Message: fmt.Sprintf("the %s eclipse in %s touches your natal %s", ev.Kind, ev.Sign, rel.ClosestAspect.Body),
			})
			break
		}
	}

	if len(highlights) > maxHighlights {
		highlights = highlights[:maxHighlights]
	}
	return highlights
}

func greetName(displayName string) string {
	name := strings.TrimSpace(displayName)
	if name == "" {
		return "Stargazer"
	}
	return name
}

// localDate renders the cache day in the user's timezone conventions.
// Formatting only; the cache key stays UTC.
func localDate(date, timezone, locale string) string {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	if loc, err := time.LoadLocation(timezone); err == nil && timezone != "" {
		day = day.In(loc)
	}
	layout := "Monday, January 2"
	if strings.HasPrefix(strings.ToLower(locale), "en-gb") {
		layout = "Monday, 2 January"
	}
	return day.Format(layout)
}

// SnapshotFor returns the user's snapshot for the day containing now,
// building it lazily against the global cache on a miss.
func (s *Service) SnapshotFor(ctx context.Context, userID int64, now time.Time) (*model.CosmicSnapshot, error) {
	date := DateKey(now)

	snap, err := s.store.GetSnapshot(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	if snap != nil {
		return snap, nil
	}

	sub, err := s.store.GetSubscriber(ctx, userID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, ErrNoBirthData
	}

	global, err := s.GlobalData(ctx, now)
	if err != nil {
		return nil, err
	}

	snap, err = s.BuildForSubscriber(sub, global, now)
	if err != nil {
		return nil, err
	}
	if err := s.store.SaveSnapshot(ctx, snap); err != nil {
		return nil, err
	}
	return snap, nil
}

// BuildForSubscriber resolves the subscriber's birth data, preferring the
// stored chart and degrading to a birthday-derived sun placement.
func (s *Service) BuildForSubscriber(sub *model.Subscriber, global *model.GlobalCosmicData, now time.Time) (*model.CosmicSnapshot, error) {
	chart, err := ParseBirthChart(sub.BirthChart)
	if err != nil {
		return nil, err
	}
	if len(chart) == 0 {
		if sub.Birthday == nil {
			return nil, ErrNoBirthData
		}
		chart, err = s.natalFromBirthday(*sub.Birthday)
		if err != nil {
			return nil, err
		}
	}
	return s.BuildSnapshotWithGlobal(sub.UserID, global, sub.Timezone, sub.Locale, sub.DisplayName, chart, now)
}

// InvalidateSnapshot clears the user's snapshot rows. Best effort: it runs
// inline on write paths that must not fail the user's primary mutation, so
// failures are logged and swallowed.
func (s *Service) InvalidateSnapshot(ctx context.Context, userID int64) {
	if err := s.store.DeleteSnapshots(ctx, userID); err != nil {
		log.Printf("Warning: failed to invalidate cosmic snapshots for user %d: %v", userID, err)
	}
}
