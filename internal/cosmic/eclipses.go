package cosmic

import (
	"time"

	"lunary-backend/internal/astro"
)

// eclipseWindow is how close to an eclipse peak a day must be for the
// global snapshot to flag the eclipse and for relevance highlights to fire.
const eclipseWindow = 48 * time.Hour

func eclipseAt(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

// referenceEclipses is the shipped 2024-2026 eclipse calendar. Static
// reference data, never computed at runtime.
var referenceEclipses = []astro.EclipseEvent{
	{Peak: eclipseAt(2024, time.March, 25, 7, 12), Kind: astro.LunarEclipse, Obscuration: 0.96, EclipticLongitude: 185.1, Sign: astro.Libra},
	{Peak: eclipseAt(2024, time.April, 8, 18, 17), Kind: astro.SolarEclipse, Obscuration: 1.0, EclipticLongitude: 19.4, Sign: astro.Aries},
	{Peak: eclipseAt(2024, time.September, 18, 2, 44), Kind: astro.LunarEclipse, Obscuration: 0.09, EclipticLongitude: 355.7, Sign: astro.Pisces},
	{Peak: eclipseAt(2024, time.October, 2, 18, 45), Kind: astro.SolarEclipse, Obscuration: 0.93, EclipticLongitude: 190.1, Sign: astro.Libra},
	{Peak: eclipseAt(2025, time.March, 14, 6, 58), Kind: astro.LunarEclipse, Obscuration: 1.0, EclipticLongitude: 173.9, Sign: astro.Virgo},
	{Peak: eclipseAt(2025, time.March, 29, 10, 47), Kind: astro.SolarEclipse, Obscuration: 0.94, EclipticLongitude: 9.0, Sign: astro.Aries},
	{Peak: eclipseAt(2025, time.September, 7, 18, 11), Kind: astro.LunarEclipse, Obscuration: 1.0, EclipticLongitude: 345.4, Sign: astro.Pisces},
	{Peak: eclipseAt(2025, time.September, 21, 19, 42), Kind: astro.SolarEclipse, Obscuration: 0.86, EclipticLongitude: 179.1, Sign: astro.Virgo},
	{Peak: eclipseAt(2026, time.February, 17, 12, 12), Kind: astro.SolarEclipse, Obscuration: 0.96, EclipticLongitude: 328.9, Sign: astro.Aquarius},
	{Peak: eclipseAt(2026, time.March, 3, 11, 34), Kind: astro.LunarEclipse, Obscuration: 1.0, EclipticLongitude: 162.9, Sign: astro.Virgo},
	{Peak: eclipseAt(2026, time.August, 12, 17, 46), Kind: astro.SolarEclipse, Obscuration: 1.0, EclipticLongitude: 140.0, Sign: astro.Leo},
	{Peak: eclipseAt(2026, time.August, 28, 4, 13), Kind: astro.LunarEclipse, Obscuration: 0.93, EclipticLongitude: 334.9, Sign: astro.Pisces},
}

// eclipsesNear returns the reference eclipses whose peak falls inside the
// window around t.
func eclipsesNear(t time.Time) []astro.EclipseEvent {
	var near []astro.EclipseEvent
	for _, ev := range referenceEclipses {
		d := t.Sub(ev.Peak)
		if d < 0 {
			d = -d
		}
		if d <= eclipseWindow {
			near = append(near, ev)
		}
	}
	return near
}
