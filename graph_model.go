package neogeosync

import (
	"sync"

	"github.com/saulfrancisco-ruizacevedo/go-neogeosync/models"
)

// MemoryGraph is an in-memory GraphModel. Adds are idempotent on id and the
// insertion order of nodes and relationships is preserved.
type MemoryGraph struct {
	mu    sync.RWMutex
	nodes []*models.GraphNode
	rels  []*models.Edge
}

var _ GraphModel = (*MemoryGraph)(nil)

// NewMemoryGraph returns a graph seeded with result, which may be nil.
func NewMemoryGraph(result *models.GraphResult) *MemoryGraph {
	g := &MemoryGraph{}
	if result != nil {
		g.AddNodes(result.Nodes)
		g.AddRelationships(result.Edges)
	}
	return g
}

func (g *MemoryGraph) Nodes() []*models.GraphNode {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]*models.GraphNode(nil), g.nodes...)
}

func (g *MemoryGraph) Relationships() []*models.Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]*models.Edge(nil), g.rels...)
}

func (g *MemoryGraph) AddNodes(nodes []*models.GraphNode) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, n := range nodes {
		if n == nil || g.nodeIndex(n.ID) >= 0 {
			continue
		}
		g.nodes = append(g.nodes, n)
	}
}

func (g *MemoryGraph) RemoveNode(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if i := g.nodeIndex(id); i >= 0 {
		g.nodes = append(g.nodes[:i], g.nodes[i+1:]...)
	}
}

func (g *MemoryGraph) RemoveConnectedRelationships(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	kept := g.rels[:0]
	for _, r := range g.rels {
		if r.Source != id && r.Target != id {
			kept = append(kept, r)
		}
	}
	for i := len(kept); i < len(g.rels); i++ {
		g.rels[i] = nil
	}
	g.rels = kept
}

func (g *MemoryGraph) AddRelationships(rels []*models.Edge) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, r := range rels {
		if r == nil || g.relIndex(r.ID) >= 0 {
			continue
		}
		g.rels = append(g.rels, r)
	}
}

// Snapshot returns the current graph as a GraphResult.
func (g *MemoryGraph) Snapshot() *models.GraphResult {
	return &models.GraphResult{Nodes: g.Nodes(), Edges: g.Relationships()}
}

func (g *MemoryGraph) nodeIndex(id string) int {
	for i, n := range g.nodes {
		if n.ID == id {
			return i
		}
	}
	return -1
}

func (g *MemoryGraph) relIndex(id string) int {
	for i, r := range g.rels {
		if r.ID == id {
			return i
		}
	}
	return -1
}
