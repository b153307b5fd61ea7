package astro

import "time"

// EclipseKind distinguishes solar from lunar eclipses.
type EclipseKind string

const (
	SolarEclipse EclipseKind = "solar"
	LunarEclipse EclipseKind = "lunar"
)

// EclipseEvent is a precomputed eclipse from the reference calendar.
// Read-only to this package.
type EclipseEvent struct {
	Peak              time.Time   `json:"peak"`
	Kind              EclipseKind `json:"kind"`
	Obscuration       float64     `json:"obscuration"`
	EclipticLongitude float64     `json:"ecliptic_longitude"`
	Sign              Sign        `json:"sign"`
}

// NatalPosition is one placement from a user's birth chart.
type NatalPosition struct {
	Body      Body    `json:"body"`
	Longitude float64 `json:"longitude"`
	Sign      Sign    `json:"sign"`
	Degree    float64 `json:"degree"`
}

// AspectHit records a natal planet within orb of a reference point.
type AspectHit struct {
	Body Body    `json:"body"`
	Orb  float64 `json:"orb"`
}

// EclipseRelevance is the result of scoring an eclipse against a chart.
type EclipseRelevance struct {
	IsRelevant      bool        `json:"is_relevant"`
	AffectedPlanets []AspectHit `json:"affected_planets"`
	ClosestAspect   *AspectHit  `json:"closest_aspect"`
}

// DefaultEclipseOrb is the product's relevance orb in degrees.
const DefaultEclipseOrb = 3.0

// CheckEclipseRelevance reports which natal planets sit within orb degrees
// of the eclipse point. Pure and stateless; called on demand.
func CheckEclipseRelevance(eclipse EclipseEvent, natal []NatalPosition, orb float64) EclipseRelevance {
	if orb <= 0 {
		orb = DefaultEclipseOrb
	}

	var result EclipseRelevance
	for _, pos := range natal {
		sep := AngularSeparation(pos.Longitude, eclipse.EclipticLongitude)
		if sep <= orb {
			result.AffectedPlanets = append(result.AffectedPlanets, AspectHit{Body: pos.Body, Orb: sep})
		}
		if result.ClosestAspect == nil || sep < result.ClosestAspect.Orb {
			result.ClosestAspect = &AspectHit{Body: pos.Body, Orb: sep}
		}
	}
	result.IsRelevant = len(result.AffectedPlanets) > 0
	return result
}
