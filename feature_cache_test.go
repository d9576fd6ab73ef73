package neogeosync_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/saulfrancisco-ruizacevedo/go-neogeosync"
	"github.com/saulfrancisco-ruizacevedo/go-neogeosync/mocks"
	"github.com/saulfrancisco-ruizacevedo/go-neogeosync/models"
)

func pointFeature(id string, p orb.Point) *models.Feature {
	return &models.Feature{
		Identifier: id,
		CRS:        neogeosync.CRSWGS84,
		Geometry:   p,
	}
}

func startCache(t *testing.T, fetcher neogeosync.FeatureFetcher, parallelism int) *neogeosync.FeatureCache {
	t.Helper()
	cache := neogeosync.NewFeatureCache(fetcher, parallelism)
	cache.Start(context.Background())
	t.Cleanup(func() { _ = cache.Close() })
	return cache
}

// loadRecorder collects onLoaded callbacks.
type loadRecorder struct {
	mu    sync.Mutex
	calls map[neogeosync.GeoIdentifier][]*models.Feature
}

func newLoadRecorder() *loadRecorder {
	return &loadRecorder{calls: make(map[neogeosync.GeoIdentifier][]*models.Feature)}
}

func (r *loadRecorder) onLoaded(id neogeosync.GeoIdentifier, f *models.Feature) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls[id] = append(r.calls[id], f)
}

func (r *loadRecorder) count(id neogeosync.GeoIdentifier) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls[id])
}

func TestFeatureCache_CoalescesPendingRequests(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := mocks.NewMockFeatureFetcher(ctrl)

	release := make(chan struct{})
	fetcher.EXPECT().
		FetchFeature(gomock.Any(), neogeosync.GeoIdentifier("A")).
		DoAndReturn(func(ctx context.Context, id neogeosync.GeoIdentifier) (*models.Feature, error) {
			<-release
			return pointFeature("A", orb.Point{1, 2}), nil
		}).
		Times(1)

	cache := startCache(t, fetcher, 2)
	rec := newLoadRecorder()

	cache.GetOrLoad([]neogeosync.GeoIdentifier{"A"}, neogeosync.CRSWGS84, rec.onLoaded)
	cache.GetOrLoad([]neogeosync.GeoIdentifier{"A", "A"}, neogeosync.CRSWGS84, rec.onLoaded)
	assert.Equal(t, neogeosync.EntryPending, cache.State("A"))

	close(release)
	require.Eventually(t, func() bool { return cache.State("A") == neogeosync.EntryResolved },
		time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool { return rec.count("A") == 1 }, time.Second, 5*time.Millisecond)

	// Resolved identifiers are a no-op: no fetch and no callback.
	cache.GetOrLoad([]neogeosync.GeoIdentifier{"A"}, neogeosync.CRSWGS84, rec.onLoaded)
	assert.Never(t, func() bool { return rec.count("A") > 1 }, 50*time.Millisecond, 5*time.Millisecond)

	f, ok := cache.Get("A")
	require.True(t, ok)
	assert.Equal(t, orb.Point{1, 2}, f.Geometry)
}

func TestFeatureCache_FailuresAreNeverRetried(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := mocks.NewMockFeatureFetcher(ctrl)
	fetcher.EXPECT().
		FetchFeature(gomock.Any(), neogeosync.GeoIdentifier("X")).
		Return(nil, neogeosync.ErrFeatureFetchFailed).
		Times(1)
	fetcher.EXPECT().
		FetchFeature(gomock.Any(), neogeosync.GeoIdentifier("Y")).
		Return(pointFeature("Y", orb.Point{3, 4}), nil).
		Times(1)

	cache := startCache(t, fetcher, 2)
	rec := newLoadRecorder()

	cache.GetOrLoad([]neogeosync.GeoIdentifier{"X", "Y"}, neogeosync.CRSWGS84, rec.onLoaded)
	require.Eventually(t, func() bool { return rec.count("X") == 1 && rec.count("Y") == 1 },
		time.Second, 5*time.Millisecond)

	rec.mu.Lock()
	assert.Nil(t, rec.calls["X"][0], "failed fetch reports a nil feature")
	assert.NotNil(t, rec.calls["Y"][0], "one failure does not abort the batch")
	rec.mu.Unlock()

	cache.GetOrLoad([]neogeosync.GeoIdentifier{"X"}, neogeosync.CRSWGS84, rec.onLoaded)
	assert.Never(t, func() bool { return rec.count("X") > 1 }, 50*time.Millisecond, 5*time.Millisecond)
	assert.Equal(t, neogeosync.EntryFailed, cache.State("X"))

	_, ok := cache.Get("X")
	assert.False(t, ok)
}

func TestFeatureCache_EmptyFetchIsNegative(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := mocks.NewMockFeatureFetcher(ctrl)
	fetcher.EXPECT().FetchFeature(gomock.Any(), gomock.Any()).Return(nil, nil).Times(1)

	cache := startCache(t, fetcher, 1)
	cache.GetOrLoad([]neogeosync.GeoIdentifier{"E"}, neogeosync.CRSWGS84, nil)

	require.Eventually(t, func() bool { return cache.State("E") == neogeosync.EntryFailed },
		time.Second, 5*time.Millisecond)
}

func TestFeatureCache_BoundedParallelism(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := mocks.NewMockFeatureFetcher(ctrl)

	var inFlight, maxInFlight atomic.Int32
	started := make(chan neogeosync.GeoIdentifier, 3)
	release := make(chan struct{}, 3)

	fetcher.EXPECT().
		FetchFeature(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, id neogeosync.GeoIdentifier) (*models.Feature, error) {
			n := inFlight.Add(1)
			for {
				m := maxInFlight.Load()
				if n <= m || maxInFlight.CompareAndSwap(m, n) {
					break
				}
			}
			started <- id
			<-release
			inFlight.Add(-1)
			return pointFeature(string(id), orb.Point{0, 0}), nil
		}).
		Times(3)

	cache := startCache(t, fetcher, 2)
	cache.GetOrLoad([]neogeosync.GeoIdentifier{"A", "B", "C"}, neogeosync.CRSWGS84, nil)

	first := <-started
	second := <-started
	assert.ElementsMatch(t, []neogeosync.GeoIdentifier{"A", "B"}, []neogeosync.GeoIdentifier{first, second})
	assert.Never(t, func() bool { return len(started) > 0 }, 50*time.Millisecond, 5*time.Millisecond)
	assert.Equal(t, neogeosync.EntryPending, cache.State("C"))

	release <- struct{}{}
	select {
	case id := <-started:
		assert.Equal(t, neogeosync.GeoIdentifier("C"), id)
	case <-time.After(time.Second):
		t.Fatal("third fetch did not start after a slot was freed")
	}

	release <- struct{}{}
	release <- struct{}{}
	require.Eventually(t, func() bool {
		for _, id := range []neogeosync.GeoIdentifier{"A", "B", "C"} {
			if cache.State(id) != neogeosync.EntryResolved {
				return false
			}
		}
		return true
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(2), maxInFlight.Load())
}

func TestFeatureCache_ReprojectsOnIngestion(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := mocks.NewMockFeatureFetcher(ctrl)
	fetcher.EXPECT().
		FetchFeature(gomock.Any(), neogeosync.GeoIdentifier("P")).
		Return(&models.Feature{CRS: neogeosync.CRSWGS84, Geometry: orb.Point{180, 0}}, nil)

	cache := startCache(t, fetcher, 1)
	cache.GetOrLoad([]neogeosync.GeoIdentifier{"P"}, neogeosync.CRSWebMercator, nil)

	require.Eventually(t, func() bool { return cache.State("P") == neogeosync.EntryResolved },
		time.Second, 5*time.Millisecond)

	f, ok := cache.Get("P")
	require.True(t, ok)
	assert.Equal(t, neogeosync.CRSWebMercator, f.CRS)
	assert.Equal(t, "P", f.Identifier)
	p, ok := f.Geometry.(orb.Point)
	require.True(t, ok)
	assert.InDelta(t, 20037508.34, p[0], 0.01)
	assert.InDelta(t, 0, p[1], 0.01)
}

func TestFeatureCache_ReprojectsLAEAFeatures(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := mocks.NewMockFeatureFetcher(ctrl)
	// 50°N 5°E and 52°N 10°E in ETRS89 / LAEA Europe.
	fetcher.EXPECT().
		FetchFeature(gomock.Any(), neogeosync.GeoIdentifier("L")).
		Return(&models.Feature{
			CRS:      neogeosync.CRSLAEAEurope,
			Geometry: orb.LineString{{3962799.45, 2999718.85}, {4321000, 3210000}},
		}, nil)

	cache := startCache(t, fetcher, 1)
	cache.GetOrLoad([]neogeosync.GeoIdentifier{"L"}, neogeosync.CRSWebMercator, nil)

	require.Eventually(t, func() bool { return cache.State("L") == neogeosync.EntryResolved },
		time.Second, 5*time.Millisecond)

	f, ok := cache.Get("L")
	require.True(t, ok)
	assert.Equal(t, neogeosync.CRSWebMercator, f.CRS)
	line, ok := f.Geometry.(orb.LineString)
	require.True(t, ok)
	for i, want := range []orb.Point{{5, 50}, {10, 52}} {
		merc := project.WGS84.ToMercator(want)
		assert.InDelta(t, merc[0], line[i][0], 0.5)
		assert.InDelta(t, merc[1], line[i][1], 0.5)
	}
}

func TestFeatureCache_UnsupportedProjectionIsNegative(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := mocks.NewMockFeatureFetcher(ctrl)
	fetcher.EXPECT().
		FetchFeature(gomock.Any(), gomock.Any()).
		Return(&models.Feature{CRS: "EPSG:25832", Geometry: orb.Point{1, 1}}, nil)

	cache := startCache(t, fetcher, 1)
	rec := newLoadRecorder()
	cache.GetOrLoad([]neogeosync.GeoIdentifier{"U"}, neogeosync.CRSWebMercator, rec.onLoaded)

	require.Eventually(t, func() bool { return rec.count("U") == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, neogeosync.EntryFailed, cache.State("U"))
}

func TestFeatureCache_Store(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := mocks.NewMockFeatureFetcher(ctrl)

	cache := startCache(t, fetcher, 1)
	cache.Store("S", pointFeature("S", orb.Point{5, 5}))
	cache.Store("", pointFeature("ignored", orb.Point{0, 0}))

	// Stored features are never fetched.
	cache.GetOrLoad([]neogeosync.GeoIdentifier{"S", ""}, neogeosync.CRSWGS84, nil)

	f, ok := cache.Get("S")
	require.True(t, ok)
	assert.Equal(t, orb.Point{5, 5}, f.Geometry)
	assert.Equal(t, 1, cache.Len())
	assert.Equal(t, neogeosync.EntryAbsent, cache.State("missing"))
}

func TestFeatureCache_CloseForgetsUnfinishedFetches(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := mocks.NewMockFeatureFetcher(ctrl)

	started := make(chan struct{})
	fetcher.EXPECT().
		FetchFeature(gomock.Any(), neogeosync.GeoIdentifier("A")).
		DoAndReturn(func(ctx context.Context, _ neogeosync.GeoIdentifier) (*models.Feature, error) {
			close(started)
			<-ctx.Done()
			return nil, ctx.Err()
		})

	cache := neogeosync.NewFeatureCache(fetcher, 1)
	cache.Start(context.Background())
	rec := newLoadRecorder()
	cache.GetOrLoad([]neogeosync.GeoIdentifier{"A", "B"}, neogeosync.CRSWGS84, rec.onLoaded)
	<-started
	assert.Equal(t, neogeosync.EntryPending, cache.State("B"))

	require.NoError(t, cache.Close())

	assert.Equal(t, neogeosync.EntryAbsent, cache.State("A"), "an interrupted fetch is not a failure")
	assert.Equal(t, neogeosync.EntryAbsent, cache.State("B"), "a queued fetch must not stay pending")
	assert.Zero(t, cache.Len())
	assert.Zero(t, rec.count("A"))
}
