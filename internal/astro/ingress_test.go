package astro

import (
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEphemeris drives the scanner with a synthetic motion model.
type fakeEphemeris struct {
	lonAt func(body Body, t time.Time) (float64, error)
}

func (f fakeEphemeris) EclipticLongitude(body Body, t time.Time) (float64, error) {
	return f.lonAt(body, t)
}

// linearMotion moves a body at rate degrees per day from base at epoch.
func linearMotion(epoch time.Time, base, rate float64) fakeEphemeris {
	return fakeEphemeris{lonAt: func(_ Body, t time.Time) (float64, error) {
		days := t.Sub(epoch).Hours() / 24
		return NormalizeLongitude(base + rate*days), nil
	}}
}

func allSegments(bySign map[Sign][]SignSegment) []SignSegment {
	var all []SignSegment
	for _, segs := range bySign {
		all = append(all, segs...)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Start.Before(all[j].Start) })
	return all
}

func TestComputeSignSegments_CoversScanRange(t *testing.T) {
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(40 * 24 * time.Hour)
	eph := linearMotion(start, 25, 1) // crosses 30°, 60°... during the scan

	segments, err := ComputeSignSegments(eph, Mars, start, end)
	require.NoError(t, err)

	all := allSegments(segments)
	require.NotEmpty(t, all)

	assert.Equal(t, start, all[0].Start)
	assert.Equal(t, end, all[len(all)-1].End)
	for i := 1; i < len(all); i++ {
		assert.Equal(t, all[i-1].End, all[i].Start, "segments must be contiguous")
	}
}

func TestComputeSignSegments_IngressPrecision(t *testing.T) {
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(10 * 24 * time.Hour)
	// 25.5° + 1°/day crosses the 30° boundary 4.5 days in.
	eph := linearMotion(start, 25.5, 1)
	trueIngress := start.Add(4*24*time.Hour + 12*time.Hour)

	segments, err := ComputeSignSegments(eph, Mars, start, end)
	require.NoError(t, err)

	ariesSegs := segments[Aries]
	require.Len(t, ariesSegs, 1)
	assert.WithinDuration(t, trueIngress, ariesSegs[0].End, time.Minute)

	taurusSegs := segments[Taurus]
	require.Len(t, taurusSegs, 1)
	assert.Equal(t, ariesSegs[0].End, taurusSegs[0].Start)
}

func TestComputeSignSegments_RetrogradeReentry(t *testing.T) {
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(30 * 24 * time.Hour)

	// Direct into Taurus, retrograde back into Aries, direct into Taurus
	// again: two disjoint segments for each sign.
	eph := fakeEphemeris{lonAt: func(_ Body, t time.Time) (float64, error) {
		d := t.Sub(start).Hours() / 24
		switch {
		case d <= 10:
			return 28 + 0.5*d, nil // crosses 30° at day 4
		case d <= 20:
			return 33 - 0.5*(d-10), nil // back across 30° at day 16
		default:
			return 28 + 0.5*(d-20), nil // crosses 30° again at day 24
		}
	}}

	segments, err := ComputeSignSegments(eph, Mercury, start, end)
	require.NoError(t, err)

	assert.Len(t, segments[Aries], 2, "retrograde re-entry must produce a second Aries segment")
	assert.Len(t, segments[Taurus], 2)

	// Re-entry segments stay ordered and disjoint.
	aries := segments[Aries]
	assert.True(t, aries[0].End.Before(aries[1].Start) || aries[0].End.Equal(aries[1].Start))
}

func TestComputeSignSegments_EphemerisErrorAbortsScan(t *testing.T) {
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	boom := errors.New("ephemeris data unavailable")
	calls := 0
	eph := fakeEphemeris{lonAt: func(_ Body, _ time.Time) (float64, error) {
		calls++
		if calls > 3 {
			return 0, boom
		}
		return 10, nil
	}}

	_, err := ComputeSignSegments(eph, Venus, start, start.Add(20*24*time.Hour))
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestComputeSignSegments_RejectsEmptyRange(t *testing.T) {
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	eph := linearMotion(start, 0, 1)

	_, err := ComputeSignSegments(eph, Sun, start, start)
	assert.Error(t, err)
}
