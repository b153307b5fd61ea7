package astro

import "math"

// Body identifies a celestial body tracked by the product.
type Body int

const (
	Sun Body = iota
	Moon
	Mercury
	Venus
	Mars
	Jupiter
	Saturn
	Uranus
	Neptune
	Pluto
)

// Bodies lists every tracked body in display order.
var Bodies = []Body{Sun, Moon, Mercury, Venus, Mars, Jupiter, Saturn, Uranus, Neptune, Pluto}

var bodyNames = map[Body]string{
	Sun:     "sun",
	Moon:    "moon",
	Mercury: "mercury",
	Venus:   "venus",
	Mars:    "mars",
	Jupiter: "jupiter",
	Saturn:  "saturn",
	Uranus:  "uranus",
	Neptune: "neptune",
	Pluto:   "pluto",
}

func (b Body) String() string {
	if name, ok := bodyNames[b]; ok {
		return name
	}
	return "unknown"
}

// BodyFromName performs the reverse lookup, used when deserializing stored charts.
func BodyFromName(name string) (Body, bool) {
	for b, n := range bodyNames {
		if n == name {
			return b, true
		}
	}
	return 0, false
}

// Sign is a zodiac sign index, 0 = Aries through 11 = Pisces.
type Sign int

const (
	Aries Sign = iota
	Taurus
	Gemini
	Cancer
	Leo
	Virgo
	Libra
	Scorpio
	Sagittarius
	Capricorn
	Aquarius
	Pisces
)

var signNames = [...]string{
	"aries", "taurus", "gemini", "cancer", "leo", "virgo",
	"libra", "scorpio", "sagittarius", "capricorn", "aquarius", "pisces",
}

func (s Sign) String() string {
	if s < 0 || int(s) >= len(signNames) {
		return "unknown"
	}
	return signNames[s]
}

// NormalizeLongitude maps any angle in degrees into [0, 360).
func NormalizeLongitude(lon float64) float64 {
	lon = math.Mod(lon, 360)
	if lon < 0 {
		lon += 360
	}
	return lon
}

// SignFromLongitude derives the zodiac sign from an ecliptic longitude.
// An exact 30° boundary belongs to the higher sign.
func SignFromLongitude(lon float64) Sign {
	return Sign(int(NormalizeLongitude(lon)/30) % 12)
}

// DegreeInSign returns the position within its sign, [0, 30).
func DegreeInSign(lon float64) float64 {
	return math.Mod(NormalizeLongitude(lon), 30)
}

// AngularSeparation returns the shortest angular distance between two
// ecliptic longitudes, in [0, 180].
func AngularSeparation(a, b float64) float64 {
	d := math.Abs(NormalizeLongitude(a) - NormalizeLongitude(b))
	if d > 180 {
		d = 360 - d
	}
	return d
}
