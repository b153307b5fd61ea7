package astro

import "sort"

// AspectKind is one of the classic Ptolemaic aspects.
type AspectKind string

const (
	Conjunction AspectKind = "conjunction"
	Sextile     AspectKind = "sextile"
	Square      AspectKind = "square"
	Trine       AspectKind = "trine"
	Opposition  AspectKind = "opposition"
)

type aspectDef struct {
	kind  AspectKind
	angle float64
	orb   float64
}

// Product orbs, widest first so a conjunction beats a wide sextile.
var aspectDefs = []aspectDef{
	{Conjunction, 0, 8},
	{Opposition, 180, 8},
	{Trine, 120, 6},
	{Square, 90, 6},
	{Sextile, 60, 4},
}

// TransitAspect is one aspect between a transiting body and a natal placement.
type TransitAspect struct {
	Transiting Body       `json:"transiting"`
	Natal      Body       `json:"natal"`
	Aspect     AspectKind `json:"aspect"`
	Orb        float64    `json:"orb"`
}

// MatchAspect returns the tightest aspect formed by an angular separation,
// or false when the separation falls outside every orb.
func MatchAspect(separation float64) (AspectKind, float64, bool) {
	bestOrb := 0.0
	var bestKind AspectKind
	found := false
	for _, def := range aspectDefs {
		orb := separation - def.angle
		if orb < 0 {
			orb = -orb
		}
		if orb <= def.orb && (!found || orb < bestOrb) {
			bestKind, bestOrb, found = def.kind, orb, true
		}
	}
	return bestKind, bestOrb, found
}

// TransitAspects computes every aspect between the transiting positions and
// the natal chart, tightest first.
func TransitAspects(transiting map[Body]float64, natal []NatalPosition) []TransitAspect {
	var aspects []TransitAspect
	for _, body := range Bodies {
		lon, ok := transiting[body]
		if !ok {
			continue
		}
		for _, pos := range natal {
			kind, orb, found := MatchAspect(AngularSeparation(lon, pos.Longitude))
			if !found {
				continue
			}
			aspects = append(aspects, TransitAspect{
				Transiting: body, Natal: pos.Body, Aspect: kind, Orb: orb,
			})
		}
	}
	sort.Slice(aspects, func(i, j int) bool { return aspects[i].Orb < aspects[j].Orb })
	return aspects
}
