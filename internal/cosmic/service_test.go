package cosmic

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lunary-backend/internal/astro"
	"lunary-backend/internal/model"
	"lunary-backend/internal/retrograde"
)

// fakeStore is an in-memory cosmic.Store.
type fakeStore struct {
	globals         map[string]*model.GlobalCosmicData
	snapshots       map[string]*model.CosmicSnapshot
	subscribers     map[int64]*model.Subscriber
	saveGlobalCalls int
	deleteErr       error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		globals:     make(map[string]*model.GlobalCosmicData),
		snapshots:   make(map[string]*model.CosmicSnapshot),
		subscribers: make(map[int64]*model.Subscriber),
	}
}

func snapKey(userID int64, date string) string { return fmt.Sprintf("%d/%s", userID, date) }

func (f *fakeStore) GetGlobalCosmicData(_ context.Context, date string) (*model.GlobalCosmicData, error) {
	return f.globals[date], nil
}

func (f *fakeStore) SaveGlobalCosmicData(_ context.Context, row *model.GlobalCosmicData) error {
	f.saveGlobalCalls++
	f.globals[row.Date] = row
	return nil
}

func (f *fakeStore) GetSnapshot(_ context.Context, userID int64, date string) (*model.CosmicSnapshot, error) {
	return f.snapshots[snapKey(userID, date)], nil
}

func (f *fakeStore) SaveSnapshot(_ context.Context, snap *model.CosmicSnapshot) error {
	f.snapshots[snapKey(snap.UserID, snap.Date)] = snap
	return nil
}

func (f *fakeStore) DeleteSnapshots(_ context.Context, userID int64) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for key, snap := range f.snapshots {
		if snap.UserID == userID {
			delete(f.snapshots, key)
		}
	}
	return nil
}

func (f *fakeStore) GetSubscriber(_ context.Context, userID int64) (*model.Subscriber, error) {
	return f.subscribers[userID], nil
}

// fixedEphemeris serves constant longitudes per body.
type fixedEphemeris map[astro.Body]float64

func (f fixedEphemeris) EclipticLongitude(body astro.Body, _ time.Time) (float64, error) {
	lon, ok := f[body]
	if !ok {
		return 0, fmt.Errorf("no fixture longitude for %s", body)
	}
	return lon, nil
}

func testEphemeris() fixedEphemeris {
	return fixedEphemeris{
		astro.Sun:     353.9, // Pisces, matching mid-March
		astro.Moon:    173.9, // opposition: full moon
		astro.Mercury: 358.2,
		astro.Venus:   5.1,
		astro.Mars:    107.5,
		astro.Jupiter: 73.2,
		astro.Saturn:  352.8,
		astro.Uranus:  54.5,
		astro.Neptune: 359.6,
		astro.Pluto:   303.1,
	}
}

func testService(store *fakeStore) *Service {
	table, _ := retrograde.NewTable([]retrograde.Period{{
		Planet: astro.Mercury,
		Sign:   astro.Aries,
		Start:  time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
		End:    time.Date(2025, 4, 7, 0, 0, 0, 0, time.UTC),
	}})
	return NewService(store, testEphemeris(), table)
}

func TestGlobalData_BuildsOnceAndCaches(t *testing.T) {
	store := newFakeStore()
	svc := testService(store)
	at := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

	first, err := svc.GlobalData(context.Background(), at)
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, "2025-03-14", first.Date)
	assert.Equal(t, 1, store.saveGlobalCalls)

	second, err := svc.GlobalData(context.Background(), at)
	require.NoError(t, err)
	assert.Equal(t, 1, store.saveGlobalCalls, "second read must hit the cache")
	assert.Equal(t, first.PlanetaryPositions, second.PlanetaryPositions)
}

func TestGlobalData_Contents(t *testing.T) {
	store := newFakeStore()
	svc := testService(store)
	// 2025-03-14: lunar eclipse day, Mercury retrograde day one.
	at := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

	row, err := svc.GlobalData(context.Background(), at)
	require.NoError(t, err)

	assert.True(t, row.EclipseActive)
	assert.True(t, row.RetrogradeActive)

	var positions []PositionEntry
	require.NoError(t, json.Unmarshal(row.PlanetaryPositions, &positions))
	assert.Len(t, positions, len(astro.Bodies))

	bySign := make(map[string]string)
	for _, p := range positions {
		bySign[p.Body] = p.Sign
		if p.Body == "mercury" {
			assert.True(t, p.Retrograde)
		}
	}
	assert.Equal(t, "pisces", bySign["sun"])
	assert.Equal(t, "virgo", bySign["moon"])

	var phase astro.MoonPhaseInfo
	require.NoError(t, json.Unmarshal(row.MoonPhase, &phase))
	assert.Equal(t, "full moon", phase.Phase)

	var events []GlobalEvent
	require.NoError(t, json.Unmarshal(row.SignificantEvents, &events))
	kinds := make(map[string]bool)
	for _, ev := range events {
		kinds[ev.Kind] = true
	}
	assert.True(t, kinds["moon_phase"])
	assert.True(t, kinds["retrograde"])
	assert.True(t, kinds["eclipse"])
}

// funcEphemeris lets one test give a body time-dependent motion.
type funcEphemeris func(body astro.Body, t time.Time) (float64, error)

func (f funcEphemeris) EclipticLongitude(body astro.Body, t time.Time) (float64, error) {
	return f(body, t)
}

func TestGlobalData_IngressEvent(t *testing.T) {
	store := newFakeStore()
	fixed := testEphemeris()
	anchor := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	// The sun crosses into Gemini six hours before the anchor; everything
	// else stands still.
	eph := funcEphemeris(func(body astro.Body, at time.Time) (float64, error) {
		if body == astro.Sun {
			return 60 + at.Sub(anchor.Add(-6*time.Hour)).Hours()*0.05, nil
		}
		return fixed.EclipticLongitude(body, at)
	})

	table, err := retrograde.NewTable(nil)
	require.NoError(t, err)
	svc := NewService(store, eph, table)

	row, err := svc.GlobalData(context.Background(), anchor)
	require.NoError(t, err)

	var events []GlobalEvent
	require.NoError(t, json.Unmarshal(row.SignificantEvents, &events))

	var ingress *GlobalEvent
	for i := range events {
		if events[i].Kind == "ingress" {
			require.Nil(t, ingress, "only the sun changed sign")
			ingress = &events[i]
		}
	}
	require.NotNil(t, ingress)
	assert.Equal(t, "sun enters gemini", ingress.Description)
	assert.Equal(t, []string{"sun"}, ingress.Bodies)
}

func TestBuildSnapshotWithGlobal(t *testing.T) {
	store := newFakeStore()
	svc := testService(store)
	now := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

	global, err := svc.GlobalData(context.Background(), now)
	require.NoError(t, err)

	chart := []astro.NatalPosition{
		{Body: astro.Sun, Longitude: 353.9, Sign: astro.Pisces, Degree: 23.9}, // exact conjunction with transiting sun
		{Body: astro.Moon, Longitude: 120, Sign: astro.Leo, Degree: 0},
	}

	snap, err := svc.BuildSnapshotWithGlobal(42, global, "Europe/London", "en-GB", "Sam", chart, now)
	require.NoError(t, err)

	assert.Equal(t, int64(42), snap.UserID)
	assert.Equal(t, global.Date, snap.Date)
	assert.Equal(t, global.Date, snap.GlobalDate)

	var transits []PersonalTransit
	require.NoError(t, json.Unmarshal(snap.PersonalTransits, &transits))
	require.NotEmpty(t, transits)
	assert.Equal(t, "sun", transits[0].Transiting)
	assert.Equal(t, "sun", transits[0].Natal)
	assert.Equal(t, "conjunction", transits[0].Aspect)
	assert.Zero(t, transits[0].Orb)

	var highlights []Highlight
	require.NoError(t, json.Unmarshal(snap.Highlights, &highlights))
	require.NotEmpty(t, highlights)
	assert.Contains(t, highlights[0].Message, "Sam")
}

func TestBuildSnapshotWithGlobal_RequiresChart(t *testing.T) {
	store := newFakeStore()
	svc := testService(store)
	now := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

	global, err := svc.GlobalData(context.Background(), now)
	require.NoError(t, err)

	_, err = svc.BuildSnapshotWithGlobal(1, global, "", "", "", nil, now)
	assert.ErrorIs(t, err, ErrNoBirthData)
}

func TestSnapshotFor_LazyBuildAndCache(t *testing.T) {
	store := newFakeStore()
	svc := testService(store)
	now := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

	chart, err := json.Marshal([]model.BirthChartPosition{
		{Body: "sun", Sign: "leo", Degree: 12, Longitude: 132},
	})
	require.NoError(t, err)
	store.subscribers[7] = &model.Subscriber{UserID: 7, DisplayName: "Mia", BirthChart: chart}

	snap, err := svc.SnapshotFor(context.Background(), 7, now)
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, "2025-03-14", snap.Date)

	// The lazy build also warmed the global cache.
	assert.Equal(t, 1, store.saveGlobalCalls)

	again, err := svc.SnapshotFor(context.Background(), 7, now)
	require.NoError(t, err)
	assert.Equal(t, snap.ComputedAt, again.ComputedAt, "second read must return the stored snapshot")
}

func TestSnapshotFor_BirthdayOnlyFallback(t *testing.T) {
	store := newFakeStore()
	svc := testService(store)
	now := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

	birthday := time.Date(1994, 8, 2, 0, 0, 0, 0, time.UTC)
	store.subscribers[9] = &model.Subscriber{UserID: 9, Birthday: &birthday}

	snap, err := svc.SnapshotFor(context.Background(), 9, now)
	require.NoError(t, err)
	require.NotNil(t, snap)

	var aspects []PersonalAspect
	require.NoError(t, json.Unmarshal(snap.PersonalAspects, &aspects))
	for _, a := range aspects {
		assert.Equal(t, "sun", a.Natal, "birthday-only charts carry just the natal sun")
	}
}

func TestSnapshotFor_NoBirthData(t *testing.T) {
	store := newFakeStore()
	svc := testService(store)
	store.subscribers[3] = &model.Subscriber{UserID: 3}

	_, err := svc.SnapshotFor(context.Background(), 3, time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, ErrNoBirthData)

	_, err = svc.SnapshotFor(context.Background(), 404, time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, ErrNoBirthData)
}

func TestInvalidateSnapshot_SwallowsFailure(t *testing.T) {
	store := newFakeStore()
	store.deleteErr = fmt.Errorf("connection reset")
	svc := testService(store)

	// Must not panic or propagate: the caller is a write path.
	svc.InvalidateSnapshot(context.Background(), 42)
}

func TestDateKey_UTC(t *testing.T) {
	loc, err := time.LoadLocation("America/Los_Angeles")
	require.NoError(t, err)

	// Late evening in LA is already the next UTC day.
	at := time.Date(2025, 3, 14, 20, 0, 0, 0, loc)
	assert.Equal(t, "2025-03-15", DateKey(at))
}
