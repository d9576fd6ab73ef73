package neogeosync

import (
	"context"
	"log/slog"
	"math"
	"sync/atomic"

	"github.com/paulmach/orb"
	"go.trai.ch/zerr"

	"github.com/saulfrancisco-ruizacevedo/go-neogeosync/models"
)

const eventBuffer = 256

// Collaborators are the external components a SyncController drives.
type Collaborators struct {
	Executor QueryExecutor
	Graph    GraphModel
	Notifier GraphEventNotifier
	Map      TileMapWidget
	Features FeatureSource
}

// ChooserListener is told when the click disambiguation list opens or closes.
// candidates is nil when open is false.
type ChooserListener func(open bool, at orb.Point, candidates []ClickCandidate)

// ControllerState is a point-in-time view of a running controller.
type ControllerState struct {
	GraphFollowsMap bool
	MapFollowsGraph bool
	Zoom            float64
	Bounds          models.BBox
	Visible         []GeoIdentifier
	Highlighted     GeoIdentifier
	ChooserOpen     bool
	// Dispatched is the sequence number of the last bounds query sent.
	Dispatched uint64
	// LastApplied is the sequence number of the last query result patched into the graph.
	LastApplied uint64
}

// SyncController keeps the graph view and the map view in step.
//
// "Graph follows map" turns viewport changes into bounds queries whose results patch
// the graph. "Map follows graph" projects the graph's nodes onto the map's vector layer
// and the graph selection onto its highlight layer. The toggles are independent.
//
// All state is owned by a single event loop started with Run. Map events, toggle calls,
// query results and feature arrivals are posted to that loop, so reconcilers never run
// concurrently with each other.
type SyncController struct {
	executor QueryExecutor
	graph    GraphModel
	notifier GraphEventNotifier
	widget   TileMapWidget
	cache    FeatureSource
	logger   *slog.Logger

	builder           BoundsQueryBuilder
	fields            BBoxFields
	reproj            *Reprojector
	mapCRS            string
	boundsCRS         string
	vector            VectorLayerReconciler
	selection         SelectionReconciler
	reconciler        *GraphReconciler
	detailZoom        float64
	centerOnSelection bool
	onChooser         ChooserListener

	events       chan func()
	done         chan struct{}
	started      atomic.Bool
	seq          atomic.Uint64
	resyncQueued atomic.Bool

	// Loop-owned.
	ctx             context.Context
	graphFollowsMap bool
	mapFollowsGraph bool
	zoom            float64
	bounds          models.BBox
	haveBounds      bool
	selected        *SelectedItem
	visible         *VisibleSet
	highlight       *SelectionSet
	chooser         *Chooser
	beforeChooser   *SelectedItem
}

// ControllerOption configures a SyncController.
type ControllerOption func(*SyncController)

// WithControllerLogger sets the logger.
func WithControllerLogger(l *slog.Logger) ControllerOption {
	return func(c *SyncController) { c.logger = l }
}

// WithControllerReprojector replaces the reprojector used between the map's reference
// system and the one node bounding boxes are stored in.
func WithControllerReprojector(r *Reprojector) ControllerOption {
	return func(c *SyncController) { c.reproj = r }
}

// WithChooserListener registers the callback for the click disambiguation list.
func WithChooserListener(fn ChooserListener) ControllerOption {
	return func(c *SyncController) { c.onChooser = fn }
}

// NewSyncController wires a controller and subscribes to the map's events.
// Events arriving before Run are buffered.
func NewSyncController(cfg Config, collab Collaborators, opts ...ControllerOption) *SyncController {
	c := &SyncController{
		executor:          collab.Executor,
		graph:             collab.Graph,
		notifier:          collab.Notifier,
		widget:            collab.Map,
		cache:             collab.Features,
		logger:            slog.Default(),
		builder:           cfg.QueryBuilder(),
		reproj:            NewReprojector(),
		boundsCRS:         cfg.Bounds.CRS,
		detailZoom:        cfg.Sync.DetailZoom,
		centerOnSelection: cfg.Sync.CenterOnSelection,
		events:            make(chan func(), eventBuffer),
		done:              make(chan struct{}),
		ctx:               context.Background(),
		graphFollowsMap:   cfg.Sync.GraphFollowsMap,
		mapFollowsGraph:   cfg.Sync.MapFollowsGraph,
		visible:           NewVisibleSet(),
		highlight:         &SelectionSet{},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.fields = c.builder.Fields

	c.mapCRS = c.widget.CRS()
	c.vector = VectorLayerReconciler{Mapper: cfg.Mapper(), Target: c.mapCRS, OnLoaded: c.featureLoaded}
	c.selection = SelectionReconciler{
		Mapper:          cfg.Mapper(),
		Target:          c.mapCRS,
		OnLoaded:        c.featureLoaded,
		FeatureIDFilter: cfg.Click.FeatureIDFilter,
	}
	c.reconciler = NewGraphReconciler(cfg.Sync.DiscardStaleResults, c.logger)

	c.widget.OnBoundsChanged(func(b models.BBox) { c.post(func() { c.handleBounds(b) }) })
	c.widget.OnZoomChanged(func(z float64) { c.post(func() { c.handleZoom(z) }) })
	c.widget.OnFeatureClick(func(fc FeatureClick) { c.post(func() { c.handleClick(fc) }) })
	return c
}

// Run processes events until ctx is cancelled. It must be called once.
func (c *SyncController) Run(ctx context.Context) error {
	if !c.started.CompareAndSwap(false, true) {
		return zerr.Wrap(ErrControllerStopped, "sync controller already started")
	}
	defer close(c.done)

	c.ctx = ctx
	c.logger.Info("sync controller started",
		"graph_follows_map", c.graphFollowsMap,
		"map_follows_graph", c.mapFollowsGraph,
		"detail_zoom", c.detailZoom,
	)
	c.resync()

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("sync controller stopped")
			return nil
		case fn := <-c.events:
			fn()
		}
	}
}

// SetGraphFollowsMap toggles bounds-driven graph queries. Turning it on queries the
// current viewport right away.
func (c *SyncController) SetGraphFollowsMap(on bool) {
	c.post(func() {
		c.graphFollowsMap = on
		if on {
			c.maybeDispatch()
		}
	})
}

// SetMapFollowsGraph toggles the projection of the graph onto the map. Turning it off
// empties both vector layers.
func (c *SyncController) SetMapFollowsGraph(on bool) {
	c.post(func() {
		c.mapFollowsGraph = on
		if on {
			c.resync()
			return
		}
		c.vector.Clear(c.visible)
		c.highlight.clear()
		c.widget.Render(nil, nil)
	})
}

// SelectItem reports a selection made in the graph view. A nil item clears it.
func (c *SyncController) SelectItem(item *SelectedItem) {
	c.post(func() {
		c.selected = item
		if c.mapFollowsGraph && c.centerOnSelection {
			c.centerOn(item)
		}
		c.resync()
	})
}

// GraphChanged reports a graph model change made outside the controller.
func (c *SyncController) GraphChanged() {
	c.post(c.resync)
}

// ChooserHover previews the candidate with featureID.
func (c *SyncController) ChooserHover(featureID string) {
	c.post(func() {
		if n, ok := c.chooser.Hover(featureID); ok {
			c.selectNode(n)
		}
	})
}

// ChooserCommit selects the candidate with featureID and closes the list.
func (c *SyncController) ChooserCommit(featureID string) {
	c.post(func() {
		if n, ok := c.chooser.Commit(featureID); ok {
			c.selectNode(n)
			c.closeChooser()
		}
	})
}

// ChooserDismiss closes the list without a selection, restoring the selection that
// was active before it opened.
func (c *SyncController) ChooserDismiss() {
	c.post(c.dismissChooser)
}

// State returns a snapshot taken on the event loop.
func (c *SyncController) State(ctx context.Context) (ControllerState, error) {
	ch := make(chan ControllerState, 1)
	if !c.post(func() { ch <- c.snapshot() }) {
		return ControllerState{}, ErrControllerStopped
	}
	select {
	case s := <-ch:
		return s, nil
	case <-c.done:
		return ControllerState{}, ErrControllerStopped
	case <-ctx.Done():
		return ControllerState{}, ctx.Err()
	}
}

func (c *SyncController) post(fn func()) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.events <- fn:
		return true
	case <-c.done:
		return false
	}
}

func (c *SyncController) snapshot() ControllerState {
	return ControllerState{
		GraphFollowsMap: c.graphFollowsMap,
		MapFollowsGraph: c.mapFollowsGraph,
		Zoom:            c.zoom,
		Bounds:          c.bounds,
		Visible:         c.visible.Identifiers(),
		Highlighted:     c.highlight.Identifier(),
		ChooserOpen:     c.chooser.Open(),
		Dispatched:      c.seq.Load(),
		LastApplied:     c.reconciler.LastApplied(),
	}
}

func (c *SyncController) handleBounds(b models.BBox) {
	c.bounds, c.haveBounds = b, true
	c.maybeDispatch()
}

// handleZoom only dispatches when the zoom crosses into the detail range; other zoom
// changes come with a bounds change of their own.
func (c *SyncController) handleZoom(z float64) {
	prev := c.zoom
	c.zoom = z
	if prev < c.detailZoom && z >= c.detailZoom {
		c.maybeDispatch()
	}
}

func (c *SyncController) maybeDispatch() {
	if !c.graphFollowsMap || !c.haveBounds {
		return
	}
	if c.zoom < c.detailZoom {
		c.logger.Debug("zoom below detail level, skipping bounds query", "zoom", c.zoom, "detail_zoom", c.detailZoom)
		return
	}

	bounds := c.bounds
	if c.boundsCRS != "" {
		b, err := c.reproj.ReprojectBBox(c.bounds, c.mapCRS, c.boundsCRS)
		if err != nil {
			zerr.Log(c.ctx, c.logger, err)
			return
		}
		bounds = b
	}
	query, params, err := c.builder.Build(bounds, "")
	if err != nil {
		zerr.Log(c.ctx, c.logger, err)
		return
	}

	seq := c.seq.Add(1)
	ctx := c.ctx
	c.logger.Debug("dispatching bounds query", "seq", seq, "bounds", bounds.String())
	go func() {
		result, err := c.reconciler.Fetch(ctx, seq, c.executor, query, params)
		c.post(func() { c.receive(seq, result, err) })
	}()
}

func (c *SyncController) receive(seq uint64, result *models.GraphResult, err error) {
	if c.reconciler.Receive(c.ctx, seq, result, err, c.graph, c.notifier) == OutcomeApplied {
		c.resync()
	}
}

func (c *SyncController) handleClick(click FeatureClick) {
	for _, f := range click.Features {
		if f != nil && f.Identifier != "" {
			c.cache.Store(GeoIdentifier(f.Identifier), f)
		}
	}
	if c.chooser.Open() {
		c.dismissChooser()
	}

	res := c.selection.ResolveClick(click.FeatureIDs, c.graph.Nodes())
	switch res.Outcome {
	case ClickSelect:
		c.selectNode(res.Node)
	case ClickChoose:
		c.chooser = NewChooser(click.Coordinate, res.Candidates)
		c.beforeChooser = c.selected
		if c.onChooser != nil {
			c.onChooser(true, click.Coordinate, c.chooser.Candidates())
		}
	default:
		c.logger.Debug("map click matched no graph node", "features", len(click.FeatureIDs))
	}
}

// selectNode selects n in the graph view on behalf of the map.
func (c *SyncController) selectNode(n *models.GraphNode) {
	item := NodeItem(n)
	c.notifier.SelectItem(n)
	c.notifier.OnItemSelected(*item)
	c.selected = item
	c.resync()
}

func (c *SyncController) dismissChooser() {
	if !c.chooser.Open() {
		return
	}
	if c.chooser.Dismiss() {
		prev := c.beforeChooser
		if prev != nil && prev.Kind == ItemNode && prev.Node != nil {
			c.notifier.SelectItem(prev.Node)
			c.notifier.OnItemSelected(*prev)
		} else {
			c.notifier.OnItemSelected(SelectedItem{Kind: ItemCanvas})
		}
		c.selected = prev
		c.resync()
	}
	c.closeChooser()
}

func (c *SyncController) closeChooser() {
	c.chooser = nil
	c.beforeChooser = nil
	if c.onChooser != nil {
		c.onChooser(false, orb.Point{}, nil)
	}
}

// centerOn moves the map to the centre of the node's stored bounding box unless it is
// already there at two-decimal precision. The centre is converted from the bounding
// box system into the map's.
func (c *SyncController) centerOn(item *SelectedItem) {
	if item == nil || item.Kind != ItemNode {
		return
	}
	b, ok := c.fields.Of(item.Node)
	if !ok {
		return
	}
	target := b.Center()
	if c.boundsCRS != "" {
		p, err := c.reproj.ReprojectPoint(target, c.boundsCRS, c.mapCRS)
		if err != nil {
			zerr.Log(c.ctx, c.logger, zerr.With(err, "node", item.Node.ID))
			return
		}
		target = p
	}
	if samePoint(c.widget.Center(), target) {
		return
	}
	c.widget.CenterOn(target)
}

func samePoint(a, b orb.Point) bool {
	return round2(a[0]) == round2(b[0]) && round2(a[1]) == round2(b[1])
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// resync re-derives both vector layers from the graph and the cache and renders them.
func (c *SyncController) resync() {
	if !c.mapFollowsGraph {
		return
	}
	res := c.vector.Sync(c.graph.Nodes(), c.cache, c.visible)
	highlightChanged := c.selection.Sync(c.selected, c.cache, c.highlight)
	c.widget.Render(c.visible.Features(), c.highlight.Feature())

	if res.Changed() || highlightChanged {
		c.logger.Debug("map layers updated",
			"visible", c.visible.Len(),
			"removed", len(res.Removed),
			"highlighted", string(c.highlight.Identifier()),
		)
	}
}

// featureLoaded runs on a fetch worker. Bursts of arrivals collapse into one resync.
func (c *SyncController) featureLoaded(GeoIdentifier, *models.Feature) {
	if !c.resyncQueued.CompareAndSwap(false, true) {
		return
	}
	if !c.post(func() {
		c.resyncQueued.Store(false)
		c.resync()
	}) {
		c.resyncQueued.Store(false)
	}
}
