package neogeosync

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.trai.ch/zerr"

	"github.com/saulfrancisco-ruizacevedo/go-neogeosync/internal/workerpool"
	"github.com/saulfrancisco-ruizacevedo/go-neogeosync/models"
)

// DefaultParallelism is the number of feature fetches allowed in flight at once.
const DefaultParallelism = 10

// EntryState is the lifecycle state of one cache entry.
type EntryState int

const (
	// EntryAbsent means the identifier was never requested.
	EntryAbsent EntryState = iota
	// EntryPending means a fetch is queued or in flight.
	EntryPending
	// EntryResolved means the feature is available.
	EntryResolved
	// EntryFailed is a permanent negative entry; the identifier is never fetched again.
	EntryFailed
)

func (s EntryState) String() string {
	switch s {
	case EntryPending:
		return "pending"
	case EntryResolved:
		return "resolved"
	case EntryFailed:
		return "failed"
	default:
		return "absent"
	}
}

// LoadedFunc is called once per fetched identifier, with a nil feature when the fetch failed.
// It runs on a fetch worker goroutine.
type LoadedFunc func(id GeoIdentifier, feature *models.Feature)

type cacheEntry struct {
	state   EntryState
	feature *models.Feature
}

// FeatureCache is the single owner of loaded features, keyed by GeoIdentifier.
//
// Every identifier is fetched at most once per session: the pending state blocks
// duplicate dispatch and failures are cached as permanent negative entries. Fetches run
// on a bounded worker pool so that a query result with hundreds of identifiers cannot
// flood the feature service. Entries are never evicted.
type FeatureCache struct {
	fetcher FeatureFetcher
	pool    *workerpool.Pool
	reproj  *Reprojector
	logger  *slog.Logger

	mu      sync.Mutex
	entries map[GeoIdentifier]*cacheEntry
}

// CacheOption configures a FeatureCache.
type CacheOption func(*FeatureCache)

// WithCacheLogger sets the logger.
func WithCacheLogger(l *slog.Logger) CacheOption {
	return func(c *FeatureCache) { c.logger = l }
}

// WithReprojector replaces the default WGS84/Web Mercator reprojector.
func WithReprojector(r *Reprojector) CacheOption {
	return func(c *FeatureCache) { c.reproj = r }
}

// NewFeatureCache creates a cache loading through fetcher with at most parallelism
// fetches in flight. Fetches queue until Start is called.
func NewFeatureCache(fetcher FeatureFetcher, parallelism int, opts ...CacheOption) *FeatureCache {
	if parallelism < 1 {
		parallelism = DefaultParallelism
	}
	c := &FeatureCache{
		fetcher: fetcher,
		pool:    workerpool.New(parallelism),
		reproj:  NewReprojector(),
		logger:  slog.Default(),
		entries: make(map[GeoIdentifier]*cacheEntry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start launches the fetch workers. They stop when ctx is cancelled or Close is called.
func (c *FeatureCache) Start(ctx context.Context) {
	c.pool.Start(ctx)
}

// Close stops the fetch workers and waits for in-flight fetches to return. Identifiers
// whose fetch had not completed are forgotten rather than left pending.
func (c *FeatureCache) Close() error {
	return c.pool.Close()
}

// GetOrLoad makes sure every identifier is either cached or being fetched.
//
// Identifiers never seen before are marked pending and submitted for fetching exactly
// once; onLoaded fires once for each of them when its fetch completes. Identifiers that
// are already pending or resolved are left alone and do not trigger onLoaded, so callers
// re-derive their view from the cache after each notification instead of relying on
// one callback per caller.
//
// Parameters:
//   - ids: The identifiers to load. Duplicates and empty values are ignored.
//   - target: The reference system features are reprojected into before they are stored.
//   - onLoaded: Optional completion callback.
func (c *FeatureCache) GetOrLoad(ids []GeoIdentifier, target string, onLoaded LoadedFunc) {
	var missing []GeoIdentifier

	c.mu.Lock()
	for _, id := range ids {
		if id == "" {
			continue
		}
		if e, ok := c.entries[id]; ok {
			cacheRequests.WithLabelValues(e.state.String()).Inc()
			continue
		}
		cacheRequests.WithLabelValues("miss").Inc()
		c.entries[id] = &cacheEntry{state: EntryPending}
		missing = append(missing, id)
	}
	c.mu.Unlock()

	for _, id := range missing {
		if !c.pool.Submit(func(ctx context.Context) { c.load(ctx, id, target, onLoaded) }) {
			c.forget(id)
		}
	}

	if len(missing) > 0 {
		c.logger.Debug("queued feature fetches", "count", len(missing), "queued", c.pool.Pending())
	}
}

// Get returns the resolved feature for id. Pending, failed and unknown identifiers return false.
func (c *FeatureCache) Get(id GeoIdentifier) (*models.Feature, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[id]
	if !ok || e.state != EntryResolved {
		return nil, false
	}
	return e.feature, true
}

// State returns the lifecycle state of id.
func (c *FeatureCache) State(id GeoIdentifier) EntryState {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[id]; ok {
		return e.state
	}
	return EntryAbsent
}

// Store records a feature resolved outside the cache, e.g. from a map click.
// The feature must already be in the map's reference system.
func (c *FeatureCache) Store(id GeoIdentifier, feature *models.Feature) {
	if id == "" || feature == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[id] = &cacheEntry{state: EntryResolved, feature: feature}
}

// Len returns the number of known identifiers in any state.
func (c *FeatureCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *FeatureCache) load(ctx context.Context, id GeoIdentifier, target string, onLoaded LoadedFunc) {
	if ctx.Err() != nil {
		c.forget(id)
		return
	}

	start := time.Now()
	feature, err := c.fetcher.FetchFeature(ctx, id)
	featureFetchDuration.Observe(time.Since(start).Seconds())

	// A fetch cut short by shutdown is not a failure of the identifier.
	if err != nil && ctx.Err() != nil {
		c.forget(id)
		return
	}

	if err == nil && feature == nil {
		err = zerr.With(zerr.Wrap(ErrEmptyFeatureCollection, "fetch feature"), "identifier", string(id))
	}
	if err == nil {
		feature, err = c.ingest(id, feature, target)
	}

	c.mu.Lock()
	entry := c.entries[id]
	if entry == nil {
		entry = &cacheEntry{}
		c.entries[id] = entry
	}
	if err != nil {
		entry.state, entry.feature = EntryFailed, nil
	} else {
		entry.state, entry.feature = EntryResolved, feature
	}
	c.mu.Unlock()

	if err != nil {
		featureFetches.WithLabelValues("failure").Inc()
		zerr.Log(ctx, c.logger, err)
		feature = nil
	} else {
		featureFetches.WithLabelValues("success").Inc()
	}

	if onLoaded != nil {
		onLoaded(id, feature)
	}
}

// forget drops the pending mark of a fetch that never completed, so a later
// GetOrLoad can request the identifier again.
func (c *FeatureCache) forget(id GeoIdentifier) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[id]; ok && e.state == EntryPending {
		delete(c.entries, id)
	}
}

// ingest reprojects the feature once, so readers always see the target reference system.
func (c *FeatureCache) ingest(id GeoIdentifier, f *models.Feature, target string) (*models.Feature, error) {
	out := *f
	if out.Identifier == "" {
		out.Identifier = string(id)
	}
	if target == "" || target == f.CRS {
		return &out, nil
	}
	g, err := c.reproj.Reproject(f.Geometry, f.CRS, target)
	if err != nil {
		return nil, zerr.With(err, "identifier", string(id))
	}
	out.Geometry = g
	out.CRS = target
	return &out, nil
}
