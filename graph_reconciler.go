package neogeosync

import (
	"context"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.trai.ch/zerr"

	"github.com/saulfrancisco-ruizacevedo/go-neogeosync/models"
)

// GraphPatch is the delta between the live graph and a completed query result.
type GraphPatch struct {
	NodesToAdd         []*models.GraphNode
	NodesToRemove      []string
	RelationshipsToAdd []*models.Edge
}

// Empty reports whether the patch changes nothing.
func (p GraphPatch) Empty() bool {
	return len(p.NodesToAdd) == 0 && len(p.NodesToRemove) == 0 && len(p.RelationshipsToAdd) == 0
}

// ComputePatch diffs the live graph against fetched.
//
// Nodes absent from fetched are removed, fetched nodes not yet present are added, and
// fetched relationships are added unless already present or referencing a node outside
// fetched. Applying the patch leaves the graph's node-id set equal to fetched's.
func ComputePatch(nodes []*models.GraphNode, rels []*models.Edge, fetched *models.GraphResult) GraphPatch {
	if fetched == nil {
		fetched = &models.GraphResult{}
	}
	want := fetched.NodeIDs()

	have := make(map[string]struct{}, len(nodes))
	var patch GraphPatch
	for _, n := range nodes {
		have[n.ID] = struct{}{}
		if _, ok := want[n.ID]; !ok {
			patch.NodesToRemove = append(patch.NodesToRemove, n.ID)
		}
	}

	queued := make(map[string]struct{}, len(fetched.Nodes))
	for _, n := range fetched.Nodes {
		if _, ok := have[n.ID]; ok {
			continue
		}
		if _, ok := queued[n.ID]; ok {
			continue
		}
		queued[n.ID] = struct{}{}
		patch.NodesToAdd = append(patch.NodesToAdd, n)
	}

	haveRel := make(map[string]struct{}, len(rels))
	for _, r := range rels {
		haveRel[r.ID] = struct{}{}
	}
	for _, r := range fetched.Edges {
		if _, ok := haveRel[r.ID]; ok {
			continue
		}
		_, src := want[r.Source]
		_, dst := want[r.Target]
		if !src || !dst {
			continue
		}
		haveRel[r.ID] = struct{}{}
		patch.RelationshipsToAdd = append(patch.RelationshipsToAdd, r)
	}
	return patch
}

// Phase is the step a sync cycle has reached.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseQueryDispatched
	PhaseResultReceived
	PhasePatchComputed
	PhasePatchApplied
)

func (p Phase) String() string {
	switch p {
	case PhaseQueryDispatched:
		return "query-dispatched"
	case PhaseResultReceived:
		return "result-received"
	case PhasePatchComputed:
		return "patch-computed"
	case PhasePatchApplied:
		return "patch-applied"
	default:
		return "idle"
	}
}

// Outcome is how a sync cycle ended.
type Outcome string

const (
	OutcomeApplied Outcome = "applied"
	OutcomeStale   Outcome = "stale"
	OutcomeFailed  Outcome = "failed"
)

// GraphReconciler patches the live graph with bounds query results.
//
// Every cycle carries a sequence number assigned at dispatch. With DiscardStale set, a
// result whose sequence is not newer than the last applied one is dropped, so a slow
// query for an old viewport can never overwrite a newer graph.
type GraphReconciler struct {
	DiscardStale bool

	logger *slog.Logger

	mu          sync.Mutex
	phase       Phase
	lastApplied uint64
}

// NewGraphReconciler creates a reconciler. A nil logger means slog.Default().
func NewGraphReconciler(discardStale bool, logger *slog.Logger) *GraphReconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &GraphReconciler{DiscardStale: discardStale, logger: logger}
}

// Phase returns the phase of the most recent cycle.
func (g *GraphReconciler) Phase() Phase {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.phase
}

// LastApplied returns the sequence number of the last applied result.
func (g *GraphReconciler) LastApplied() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastApplied
}

func (g *GraphReconciler) setPhase(p Phase) {
	g.mu.Lock()
	g.phase = p
	g.mu.Unlock()
}

// Run executes one complete cycle: query, diff, apply.
// Query failures and stale results leave the graph untouched and are reported through
// the returned Outcome, never as an error.
func (g *GraphReconciler) Run(ctx context.Context, seq uint64, executor QueryExecutor, query string,
	params map[string]interface{}, graph GraphModel, notifier GraphEventNotifier) Outcome {
	result, err := g.Fetch(ctx, seq, executor, query, params)
	return g.Receive(ctx, seq, result, err, graph, notifier)
}

// Fetch runs the query of cycle seq. It is safe to call from any goroutine.
func (g *GraphReconciler) Fetch(ctx context.Context, seq uint64, executor QueryExecutor, query string,
	params map[string]interface{}) (*models.GraphResult, error) {
	ctx, span := tracer.Start(ctx, "neogeosync.BoundsQuery", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(attribute.Int64("sync.seq", int64(seq)))

	g.setPhase(PhaseQueryDispatched)
	result, err := executor.RunGraph(ctx, query, params)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if result == nil {
		result = &models.GraphResult{}
	}
	span.SetAttributes(
		attribute.Int("graph.nodes", len(result.Nodes)),
		attribute.Int("graph.relationships", len(result.Edges)),
	)
	return result, nil
}

// Receive applies the outcome of Fetch for cycle seq. It must run on the goroutine that
// owns graph.
func (g *GraphReconciler) Receive(ctx context.Context, seq uint64, result *models.GraphResult, err error,
	graph GraphModel, notifier GraphEventNotifier) Outcome {
	if err != nil {
		g.setPhase(PhaseIdle)
		graphQueries.WithLabelValues(string(OutcomeFailed)).Inc()
		zerr.Log(ctx, g.logger, zerr.With(zerr.Wrap(err, ErrQueryFailed.Error()), "seq", seq))
		return OutcomeFailed
	}
	g.setPhase(PhaseResultReceived)

	g.mu.Lock()
	if g.DiscardStale && seq <= g.lastApplied {
		last := g.lastApplied
		g.phase = PhaseIdle
		g.mu.Unlock()
		graphQueries.WithLabelValues(string(OutcomeStale)).Inc()
		g.logger.Debug("discarding stale graph result", "seq", seq, "last_applied", last)
		return OutcomeStale
	}
	g.mu.Unlock()

	patch := ComputePatch(graph.Nodes(), graph.Relationships(), result)
	g.setPhase(PhasePatchComputed)

	Apply(patch, graph, notifier)

	g.mu.Lock()
	g.phase = PhasePatchApplied
	if seq > g.lastApplied {
		g.lastApplied = seq
	}
	g.mu.Unlock()

	graphQueries.WithLabelValues(string(OutcomeApplied)).Inc()
	patchSize.WithLabelValues("add").Observe(float64(len(patch.NodesToAdd)))
	patchSize.WithLabelValues("remove").Observe(float64(len(patch.NodesToRemove)))
	patchSize.WithLabelValues("relationships").Observe(float64(len(patch.RelationshipsToAdd)))
	g.logger.Debug("applied graph patch",
		"seq", seq,
		"added", len(patch.NodesToAdd),
		"removed", len(patch.NodesToRemove),
		"relationships", len(patch.RelationshipsToAdd),
	)

	g.setPhase(PhaseIdle)
	return OutcomeApplied
}

// Apply writes patch into graph and notifies the view once.
// Incident relationships are removed before their node so no relationship ever points
// at a missing node.
func Apply(patch GraphPatch, graph GraphModel, notifier GraphEventNotifier) {
	for _, id := range patch.NodesToRemove {
		graph.RemoveConnectedRelationships(id)
		graph.RemoveNode(id)
	}
	if len(patch.NodesToAdd) > 0 {
		graph.AddNodes(patch.NodesToAdd)
	}
	if len(patch.RelationshipsToAdd) > 0 {
		graph.AddRelationships(patch.RelationshipsToAdd)
	}

	notifier.UpdateVisualization(VisualizationFlags{
		UpdateNodes:         true,
		UpdateRelationships: true,
		RestartSimulation:   true,
	})
	notifier.GraphModelChanged()
}
