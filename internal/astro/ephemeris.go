package astro

import (
	"fmt"
	"time"

	"github.com/soniakeys/meeus/v3/base"
	"github.com/soniakeys/meeus/v3/coord"
	"github.com/soniakeys/meeus/v3/elliptic"
	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/moonposition"
	"github.com/soniakeys/meeus/v3/nutation"
	pp "github.com/soniakeys/meeus/v3/planetposition"
	"github.com/soniakeys/meeus/v3/pluto"
	"github.com/soniakeys/meeus/v3/solar"
	"github.com/soniakeys/unit"
)

// Ephemeris produces the geocentric ecliptic longitude of a body at an
// instant. Implementations must be safe for concurrent use.
type Ephemeris interface {
	EclipticLongitude(body Body, t time.Time) (float64, error)
}

// MeeusEphemeris computes positions with the Meeus/VSOP87 routines.
// Planet theories are loaded once at construction; lookups afterwards are
// pure computation.
type MeeusEphemeris struct {
	earth   *pp.V87Planet
	planets map[Body]*pp.V87Planet
}

var vsop87Bodies = map[Body]int{
	Mercury: pp.Mercury,
	Venus:   pp.Venus,
	Mars:    pp.Mars,
	Jupiter: pp.Jupiter,
	Saturn:  pp.Saturn,
	Uranus:  pp.Uranus,
	Neptune: pp.Neptune,
}

// NewMeeusEphemeris loads the VSOP87 planet theories from dataDir.
func NewMeeusEphemeris(dataDir string) (*MeeusEphemeris, error) {
	earth, err := pp.LoadPlanetPath(pp.Earth, dataDir)
	if err != nil {
		return nil, fmt.Errorf("load VSOP87 earth theory: %w", err)
	}

	planets := make(map[Body]*pp.V87Planet, len(vsop87Bodies))
	for body, ibody := range vsop87Bodies {
		p, err := pp.LoadPlanetPath(ibody, dataDir)
		if err != nil {
			return nil, fmt.Errorf("load VSOP87 theory for %s: %w", body, err)
		}
		planets[body] = p
	}

	return &MeeusEphemeris{earth: earth, planets: planets}, nil
}

// EclipticLongitude returns the geocentric ecliptic longitude in degrees,
// normalized to [0, 360).
func (e *MeeusEphemeris) EclipticLongitude(body Body, t time.Time) (float64, error) {
	jd := julian.TimeToJD(t.UTC())

	switch body {
	case Sun:
		return NormalizeLongitude(solar.ApparentLongitude(base.J2000Century(jd)).Deg()), nil
	case Moon:
		lon, _, _ := moonposition.Position(jd)
		return NormalizeLongitude(lon.Deg()), nil
	case Pluto:
		ra, dec := pluto.Astrometric(jd, e.earth)
		return e.equatorialToEclipticLon(jd, ra, dec), nil
	default:
		p, ok := e.planets[body]
		if !ok {
			return 0, fmt.Errorf("no ephemeris theory for body %s", body)
		}
		ra, dec := elliptic.Position(p, e.earth, jd)
		return e.equatorialToEclipticLon(jd, ra, dec), nil
	}
}

func (e *MeeusEphemeris) equatorialToEclipticLon(jd float64, ra unit.RA, dec unit.Angle) float64 {
	obl := coord.NewObliquity(nutation.MeanObliquity(jd))
	ecl := new(coord.Ecliptic).EqToEcl(&coord.Equatorial{RA: ra, Dec: dec}, obl)
	return NormalizeLongitude(ecl.Lon.Deg())
}
