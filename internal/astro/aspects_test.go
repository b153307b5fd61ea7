package astro

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchAspect(t *testing.T) {
	testCases := []struct {
		name         string
		separation   float64
		expectedKind AspectKind
		expectedOrb  float64
		found        bool
	}{
		{"Exact conjunction", 0, Conjunction, 0, true},
		{"Wide conjunction", 7.5, Conjunction, 7.5, true},
		{"Sextile", 62, Sextile, 2, true},
		{"Square", 88.5, Square, 1.5, true},
		{"Trine", 120, Trine, 0, true},
		{"Opposition", 174, Opposition, 6, true},
		{"Nothing", 40, "", 0, false},
		{"Sextile out of orb", 65, "", 0, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			kind, orb, found := MatchAspect(tc.separation)

			assert.Equal(t, tc.found, found)
			if tc.found {
				assert.Equal(t, tc.expectedKind, kind)
				assert.InDelta(t, tc.expectedOrb, orb, 1e-9)
			}
		})
	}
}

func TestTransitAspects(t *testing.T) {
	transiting := map[Body]float64{
		Sun:  10,
		Mars: 102,
	}
	natal := []NatalPosition{
		{Body: Moon, Longitude: 11},    // sun conjunct moon, orb 1
		{Body: Venus, Longitude: 190},  // sun opposite venus, orb 0
		{Body: Saturn, Longitude: 150}, // aspect-free from both
	}

	aspects := TransitAspects(transiting, natal)
	require.NotEmpty(t, aspects)

	// Tightest first.
	for i := 1; i < len(aspects); i++ {
		assert.LessOrEqual(t, aspects[i-1].Orb, aspects[i].Orb)
	}

	assert.Equal(t, Sun, aspects[0].Transiting)
	assert.Equal(t, Venus, aspects[0].Natal)
	assert.Equal(t, Opposition, aspects[0].Aspect)
	assert.Zero(t, aspects[0].Orb)
}

func TestTransitAspects_EmptyInputs(t *testing.T) {
	assert.Empty(t, TransitAspects(nil, []NatalPosition{{Body: Sun, Longitude: 5}}))
	assert.Empty(t, TransitAspects(map[Body]float64{Sun: 5}, nil))
}
