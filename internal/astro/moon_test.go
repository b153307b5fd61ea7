package astro

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhaseFromElongation(t *testing.T) {
	testCases := []struct {
		elongation float64
		expected   string
	}{
		{0, "new moon"},
		{44, "waxing crescent"},
		{90, "first quarter"},
		{135, "waxing gibbous"},
		{180, "full moon"},
		{225, "waning gibbous"},
		{270, "last quarter"},
		{315, "waning crescent"},
		{350, "new moon"}, // within the new-moon bucket again
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, PhaseFromElongation(tc.elongation))
		})
	}
}

func TestMoonPhase(t *testing.T) {
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	// Sun at 71°, moon at 251°: exact opposition, full moon in Sagittarius.
	eph := fakeEphemeris{lonAt: func(body Body, _ time.Time) (float64, error) {
		if body == Sun {
			return 71, nil
		}
		return 251, nil
	}}

	info, err := MoonPhase(eph, at)
	require.NoError(t, err)

	assert.Equal(t, "full moon", info.Phase)
	assert.InDelta(t, 1.0, info.Illumination, 1e-9)
	assert.Equal(t, Sagittarius, info.Sign)
	assert.InDelta(t, 180, info.Elongation, 1e-9)
}

func TestMoonPhase_NewMoonDark(t *testing.T) {
	eph := fakeEphemeris{lonAt: func(Body, time.Time) (float64, error) { return 120, nil }}

	info, err := MoonPhase(eph, time.Now())
	require.NoError(t, err)

	assert.Equal(t, "new moon", info.Phase)
	assert.InDelta(t, 0, info.Illumination, 1e-9)
}
