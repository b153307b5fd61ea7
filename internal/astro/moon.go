package astro

import (
	"math"
	"time"
)

// MoonPhaseInfo describes the moon at an instant: phase name, fraction of
// the disk illuminated, and the moon's zodiac sign.
type MoonPhaseInfo struct {
	Phase        string  `json:"phase"`
	Illumination float64 `json:"illumination"`
	Sign         Sign    `json:"sign"`
	Elongation   float64 `json:"elongation"`
}

var phaseNames = [...]string{
	"new moon", "waxing crescent", "first quarter", "waxing gibbous",
	"full moon", "waning gibbous", "last quarter", "waning crescent",
}

// PhaseFromElongation buckets the sun-moon elongation (degrees, 0-360)
// into the eight traditional phase names. Each bucket is 45° wide,
// centered on the principal phases.
func PhaseFromElongation(elongation float64) string {
	e := NormalizeLongitude(elongation)
	idx := int(math.Floor((e+22.5)/45)) % 8
	return phaseNames[idx]
}

// MoonPhase computes the phase from the solar and lunar longitudes at t.
// Illumination uses the standard (1 - cos e) / 2 approximation.
func MoonPhase(eph Ephemeris, t time.Time) (MoonPhaseInfo, error) {
	sunLon, err := eph.EclipticLongitude(Sun, t)
	if err != nil {
		return MoonPhaseInfo{}, err
	}
	moonLon, err := eph.EclipticLongitude(Moon, t)
	if err != nil {
		return MoonPhaseInfo{}, err
	}

	elongation := NormalizeLongitude(moonLon - sunLon)
	return MoonPhaseInfo{
		Phase:        PhaseFromElongation(elongation),
		Illumination: (1 - math.Cos(elongation*math.Pi/180)) / 2,
		Sign:         SignFromLongitude(moonLon),
		Elongation:   elongation,
	}, nil
}
