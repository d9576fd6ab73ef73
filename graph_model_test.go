package neogeosync_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/saulfrancisco-ruizacevedo/go-neogeosync"
	"github.com/saulfrancisco-ruizacevedo/go-neogeosync/models"
)

func TestMemoryGraph_AddsAreIdempotent(t *testing.T) {
	g := neogeosync.NewMemoryGraph(nil)

	g.AddNodes([]*models.GraphNode{geoNode("n1", "A"), geoNode("n2", "B")})
	g.AddNodes([]*models.GraphNode{geoNode("n1", "A"), nil})
	g.AddRelationships([]*models.Edge{edge("r1", "n1", "n2")})
	g.AddRelationships([]*models.Edge{edge("r1", "n1", "n2"), nil})

	assert.Equal(t, []string{"n1", "n2"}, nodeIDs(g.Nodes()))
	assert.Len(t, g.Relationships(), 1)
}

func TestMemoryGraph_RemoveConnectedRelationships(t *testing.T) {
	g := neogeosync.NewMemoryGraph(graphOf([]int{1, 2, 3}, [][2]int{{1, 2}, {2, 3}, {3, 1}}))

	g.RemoveConnectedRelationships("n1")
	g.RemoveNode("n1")
	g.RemoveNode("missing")

	assert.Equal(t, []string{"n2", "n3"}, nodeIDs(g.Nodes()))
	rels := g.Relationships()
	if assert.Len(t, rels, 1) {
		assert.Equal(t, "r2-3", rels[0].ID)
	}

	snap := g.Snapshot()
	assert.Len(t, snap.Nodes, 2)
	assert.Len(t, snap.Edges, 1)
}
