package astro

import (
	"fmt"
	"time"
)

// SignSegment is a contiguous interval during which a body occupies one
// zodiac sign. A body retrograding back into a sign it already left
// produces a second, later segment for that sign.
type SignSegment struct {
	Body  Body      `json:"body"`
	Sign  Sign      `json:"sign"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

const (
	ingressStep       = 24 * time.Hour
	ingressIterations = 20 // halving a 24h window 20 times gives sub-minute precision
)

// ComputeSignSegments scans [scanStart, scanEnd] with daily steps and
// refines each sign change with a binary search over the preceding 24
// hours. Segments are returned grouped per sign, ordered by start, and
// their union covers the whole scan range. An ephemeris failure aborts the
// scan; the caller decides whether to retry the full range.
func ComputeSignSegments(eph Ephemeris, body Body, scanStart, scanEnd time.Time) (map[Sign][]SignSegment, error) {
	if !scanEnd.After(scanStart) {
		return nil, fmt.Errorf("scan end %s is not after scan start %s", scanEnd, scanStart)
	}

	signAt := func(t time.Time) (Sign, error) {
		lon, err := eph.EclipticLongitude(body, t)
		if err != nil {
			return 0, fmt.Errorf("ephemeris lookup for %s at %s: %w", body, t, err)
		}
		return SignFromLongitude(lon), nil
	}

	currentSign, err := signAt(scanStart)
	if err != nil {
		return nil, err
	}

	segments := make(map[Sign][]SignSegment)
	segmentStart := scanStart
	prev := scanStart

	for done := false; !done; {
		t := prev.Add(ingressStep)
		if !t.Before(scanEnd) {
			t = scanEnd
			done = true
		}

		sign, err := signAt(t)
		if err != nil {
			return nil, err
		}

		if sign != currentSign {
			ingress, err := refineIngress(eph, body, currentSign, prev, t)
			if err != nil {
				return nil, err
			}
			segments[currentSign] = append(segments[currentSign], SignSegment{
				Body: body, Sign: currentSign, Start: segmentStart, End: ingress,
			})
			currentSign = sign
			segmentStart = ingress
		}
		prev = t
	}

	segments[currentSign] = append(segments[currentSign], SignSegment{
		Body: body, Sign: currentSign, Start: segmentStart, End: scanEnd,
	})
	return segments, nil
}

// refineIngress binary-searches (lo, hi] for the instant the body leaves
// from. Invariant: sign(lo) == from, sign(hi) != from.
func refineIngress(eph Ephemeris, body Body, from Sign, lo, hi time.Time) (time.Time, error) {
	for i := 0; i < ingressIterations; i++ {
		mid := lo.Add(hi.Sub(lo) / 2)
		lon, err := eph.EclipticLongitude(body, mid)
		if err != nil {
			return time.Time{}, fmt.Errorf("ephemeris lookup for %s at %s: %w", body, mid, err)
		}
		if SignFromLongitude(lon) == from {
			lo = mid
		} else {
			hi = mid
		}
	}
	return hi, nil
}
