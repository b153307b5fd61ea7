package cosmic

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"lunary-backend/internal/astro"
	"lunary-backend/internal/model"
	"lunary-backend/internal/retrograde"
)

// Store is the slice of the persistence layer the cosmic service needs.
// Satisfied by store.Store.
type Store interface {
	GetGlobalCosmicData(ctx context.Context, date string) (*model.GlobalCosmicData, error)
	SaveGlobalCosmicData(ctx context.Context, row *model.GlobalCosmicData) error
	GetSnapshot(ctx context.Context, userID int64, date string) (*model.CosmicSnapshot, error)
	SaveSnapshot(ctx context.Context, snap *model.CosmicSnapshot) error
	DeleteSnapshots(ctx context.Context, userID int64) error
	GetSubscriber(ctx context.Context, userID int64) (*model.Subscriber, error)
}

// Service is the two-tier cosmic cache: a day-scoped global snapshot
// shared by all users, and per-user snapshots derived from it.
type Service struct {
	store Store
	eph   astro.Ephemeris
	retro *retrograde.Table
}

// NewService creates the cache service.
func NewService(s Store, eph astro.Ephemeris, retro *retrograde.Table) *Service {
	return &Service{store: s, eph: eph, retro: retro}
}

// DateKey formats an instant as the UTC calendar-day cache key.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// dayAnchor is the instant the global snapshot is computed for: noon UTC
// of the keyed day, so positions represent the middle of the day.
func dayAnchor(date string) (time.Time, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid cosmic date key %q: %w", date, err)
	}
	return day.Add(12 * time.Hour), nil
}

// GlobalData returns the global cosmic row for the day containing t,
// building and persisting it on a cache miss. Read and batch warm-up
// share this one path, so both get the same upsert consistency guarantee.
func (s *Service) GlobalData(ctx context.Context, t time.Time) (*model.GlobalCosmicData, error) {
	date := DateKey(t)

	row, err := s.store.GetGlobalCosmicData(ctx, date)
	if err != nil {
		return nil, err
	}
	if row != nil {
		return row, nil
	}

	row, err = s.buildGlobalData(date, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	if err := s.store.SaveGlobalCosmicData(ctx, row); err != nil {
		return nil, err
	}
	return row, nil
}

// buildGlobalData computes the shared snapshot for one day. Pure function
// of the date apart from the computedAt stamp; a concurrent builder
// producing the same row makes the upsert race harmless.
func (s *Service) buildGlobalData(date string, computedAt time.Time) (*model.GlobalCosmicData, error) {
	anchor, err := dayAnchor(date)
	if err != nil {
		return nil, err
	}

	positions := make([]PositionEntry, 0, len(astro.Bodies))
	longitudes := make(map[astro.Body]float64, len(astro.Bodies))
	for _, body := range astro.Bodies {
		lon, err := s.eph.EclipticLongitude(body, anchor)
		if err != nil {
			return nil, fmt.Errorf("compute position of %s for %s: %w", body, date, err)
		}
		longitudes[body] = lon
		positions = append(positions, PositionEntry{
			Body:       body.String(),
			Sign:       astro.SignFromLongitude(lon).String(),
			Degree:     astro.DegreeInSign(lon),
			Longitude:  lon,
			Retrograde: s.bodyRetrograde(body, anchor),
		})
	}

	phase, err := astro.MoonPhase(s.eph, anchor)
	if err != nil {
		return nil, fmt.Errorf("compute moon phase for %s: %w", date, err)
	}

	retroStatus := s.retro.StatusAt(anchor)
	events := s.significantEvents(anchor, phase, longitudes, retroStatus)
	ingresses, err := s.ingressEvents(anchor)
	if err != nil {
		return nil, err
	}
	events = append(events, ingresses...)
	eclipses := eclipsesNear(anchor)

	moonJSON, err := json.Marshal(phase)
	if err != nil {
		return nil, fmt.Errorf("marshal moon phase: %w", err)
	}
	posJSON, err := json.Marshal(positions)
	if err != nil {
		return nil, fmt.Errorf("marshal positions: %w", err)
	}
	eventsJSON, err := json.Marshal(events)
	if err != nil {
		return nil, fmt.Errorf("marshal events: %w", err)
	}

	return &model.GlobalCosmicData{
		Date:               date,
		MoonPhase:          moonJSON,
		PlanetaryPositions: posJSON,
		SignificantEvents:  eventsJSON,
		EclipseActive:      len(eclipses) > 0,
		RetrogradeActive:   retroStatus.IsActive,
		ComputedAt:         computedAt,
	}, nil
}

func (s *Service) bodyRetrograde(body astro.Body, t time.Time) bool {
	for _, p := range s.retro.Periods() {
		if p.Planet == body && !t.Before(p.Start) && !t.After(p.End) {
			return true
		}
	}
	return false
}

// ingressEvents reports bodies that changed sign over the 24 hours leading
// up to the anchor. The scan refines each crossing, so the entered sign is
// correct even when the crossing happened minutes before the anchor.
func (s *Service) ingressEvents(anchor time.Time) ([]GlobalEvent, error) {
	windowStart := anchor.Add(-24 * time.Hour)
	var events []GlobalEvent
	for _, body := range astro.Bodies {
		segments, err := astro.ComputeSignSegments(s.eph, body, windowStart, anchor)
		if err != nil {
			return nil, fmt.Errorf("scan sign ingress for %s: %w", body, err)
		}
		for _, segs := range segments {
			for _, seg := range segs {
				// The segment reaching the anchor that began inside the
				// window is the sign the body just entered.
				if !seg.End.Equal(anchor) || seg.Start.Equal(windowStart) {
					continue
				}
				events = append(events, GlobalEvent{
					Kind:        "ingress",
					Description: fmt.Sprintf("%s enters %s", body, seg.Sign),
					Bodies:      []string{body.String()},
				})
			}
		}
	}
	return events, nil
}

// significantEvents assembles the day's headline list: principal moon
// phases, active retrogrades, nearby eclipses, and tight mutual aspects
// between transiting bodies.
func (s *Service) significantEvents(anchor time.Time, phase astro.MoonPhaseInfo, longitudes map[astro.Body]float64, retroStatus retrograde.Status) []GlobalEvent {
	events := []GlobalEvent{}

	if phase.Phase == "new moon" || phase.Phase == "full moon" {
		events = append(events, GlobalEvent{
			Kind:        "moon_phase",
			Description: fmt.Sprintf("%s in %s", phase.Phase, phase.Sign),
			Bodies:      []string{astro.Moon.String()},
		})
	}

	if retroStatus.IsActive && retroStatus.Period != nil {
		p := retroStatus.Period
		events = append(events, GlobalEvent{
			Kind:        "retrograde",
			Description: fmt.Sprintf("%s retrograde in %s, day %d", p.Planet, p.Sign, retroStatus.SurvivalDays),
			Bodies:      []string{p.Planet.String()},
		})
	}

	for _, ev := range eclipsesNear(anchor) {
		events = append(events, GlobalEvent{
			Kind:        "eclipse",
			Description: fmt.Sprintf("%s eclipse in %s", ev.Kind, ev.Sign),
		})
	}

	// Mutual aspects between transiting bodies, tight orb only.
	const mutualOrb = 1.5
	for i, a := range astro.Bodies {
		for _, b := range astro.Bodies[i+1:] {
			kind, orb, found := astro.MatchAspect(astro.AngularSeparation(longitudes[a], longitudes[b]))
			if !found || orb > mutualOrb {
				continue
			}
			events = append(events, GlobalEvent{
				Kind:        "aspect",
				Description: fmt.Sprintf("%s %s %s", a, kind, b),
				Bodies:      []string{a.String(), b.String()},
				Orb:         orb,
			})
		}
	}

	return events
}
