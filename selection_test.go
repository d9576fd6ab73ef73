package neogeosync_test

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saulfrancisco-ruizacevedo/go-neogeosync"
	"github.com/saulfrancisco-ruizacevedo/go-neogeosync/models"
)

func selectionReconciler() neogeosync.SelectionReconciler {
	return neogeosync.SelectionReconciler{Mapper: testMapper, FeatureIDFilter: "ProtectedSite"}
}

func TestSelection_HoldsAtMostOneFeature(t *testing.T) {
	source := newStaticSource("A", "B")
	sel := &neogeosync.SelectionSet{}
	r := selectionReconciler()

	edgeItem := &neogeosync.SelectedItem{Kind: neogeosync.ItemRelationship, Edge: edge("r1", "n1", "n2")}
	canvas := &neogeosync.SelectedItem{Kind: neogeosync.ItemCanvas}

	steps := []struct {
		item *neogeosync.SelectedItem
		want neogeosync.GeoIdentifier
	}{
		{neogeosync.NodeItem(geoNode("n1", "A")), "A"},
		{neogeosync.NodeItem(geoNode("n2", "B")), "B"},
		{neogeosync.NodeItem(geoNode("n2", "B")), "B"},
		{edgeItem, ""},
		{neogeosync.NodeItem(geoNode("n1", "A")), "A"},
		{neogeosync.NodeItem(geoNode("n9", "")), ""},
		{neogeosync.NodeItem(geoNode("n2", "B")), "B"},
		{canvas, ""},
		{nil, ""},
	}
	for i, step := range steps {
		r.Sync(step.item, source, sel)
		assert.LessOrEqual(t, sel.Len(), 1, "step %d", i)
		assert.Equal(t, step.want, sel.Identifier(), "step %d", i)
		if step.want != "" {
			require.NotNil(t, sel.Feature(), "step %d", i)
			assert.Equal(t, string(step.want), sel.Feature().Identifier)
		}
	}
}

func TestSelection_ReportsChanges(t *testing.T) {
	source := newStaticSource("A")
	sel := &neogeosync.SelectionSet{}
	r := selectionReconciler()

	assert.True(t, r.Sync(neogeosync.NodeItem(geoNode("n1", "A")), source, sel))
	assert.False(t, r.Sync(neogeosync.NodeItem(geoNode("n1", "A")), source, sel))
	assert.True(t, r.Sync(nil, source, sel))
	assert.False(t, r.Sync(nil, source, sel))
}

func TestSelection_LoadsMissingFeature(t *testing.T) {
	source := newStaticSource()
	sel := &neogeosync.SelectionSet{}
	r := selectionReconciler()

	item := neogeosync.NodeItem(geoNode("n1", "A"))
	r.Sync(item, source, sel)
	assert.Zero(t, sel.Len())
	assert.Equal(t, identifiers("A"), source.requests())

	source.Store("A", &models.Feature{Identifier: "A"})
	assert.True(t, r.Sync(item, source, sel))
	assert.Equal(t, neogeosync.GeoIdentifier("A"), sel.Identifier())
}

func TestResolveClick(t *testing.T) {
	nodes := []*models.GraphNode{geoNode("n1", "A"), geoNode("n2", "B"), geoNode("n3", "C")}
	r := selectionReconciler()

	t.Run("no candidates", func(t *testing.T) {
		res := r.ResolveClick(nil, nodes)
		assert.Equal(t, neogeosync.ClickNothing, res.Outcome)
	})

	t.Run("unknown feature", func(t *testing.T) {
		res := r.ResolveClick([]string{"ProtectedSite.Z"}, nodes)
		assert.Equal(t, neogeosync.ClickNothing, res.Outcome)
	})

	t.Run("filtered out", func(t *testing.T) {
		res := r.ResolveClick([]string{"Road.12"}, nodes)
		assert.Equal(t, neogeosync.ClickNothing, res.Outcome)
	})

	t.Run("single candidate selects", func(t *testing.T) {
		res := r.ResolveClick([]string{"ProtectedSite.B", "ProtectedSite.B", "Road.1"}, nodes)
		require.Equal(t, neogeosync.ClickSelect, res.Outcome)
		assert.Equal(t, "n2", res.Node.ID)
	})

	t.Run("overlap opens a chooser", func(t *testing.T) {
		res := r.ResolveClick([]string{"ProtectedSite.A", "ProtectedSite.C"}, nodes)
		require.Equal(t, neogeosync.ClickChoose, res.Outcome)
		assert.Nil(t, res.Node)
		require.Len(t, res.Candidates, 2)
		assert.Equal(t, "n1", res.Candidates[0].Node.ID)
		assert.Equal(t, "n3", res.Candidates[1].Node.ID)
	})

	t.Run("empty filter keeps all", func(t *testing.T) {
		open := neogeosync.SelectionReconciler{Mapper: testMapper}
		res := open.ResolveClick([]string{"ProtectedSite.A"}, nodes)
		assert.Equal(t, neogeosync.ClickSelect, res.Outcome)
	})
}

func TestChooser(t *testing.T) {
	candidates := []neogeosync.ClickCandidate{
		{FeatureID: "ProtectedSite.A", Node: geoNode("n1", "A")},
		{FeatureID: "ProtectedSite.B", Node: geoNode("n2", "B")},
	}

	t.Run("hover then commit", func(t *testing.T) {
		c := neogeosync.NewChooser(orb.Point{1, 2}, candidates)
		require.True(t, c.Open())
		assert.Equal(t, orb.Point{1, 2}, c.At())

		n, ok := c.Hover("ProtectedSite.B")
		require.True(t, ok)
		assert.Equal(t, "n2", n.ID)
		assert.Equal(t, "ProtectedSite.B", c.Previewed())

		_, ok = c.Hover("ProtectedSite.Z")
		assert.False(t, ok)

		n, ok = c.Commit("ProtectedSite.A")
		require.True(t, ok)
		assert.Equal(t, "n1", n.ID)
		assert.False(t, c.Open())

		_, ok = c.Commit("ProtectedSite.B")
		assert.False(t, ok, "a closed chooser selects nothing")
	})

	t.Run("dismiss closes without selection", func(t *testing.T) {
		c := neogeosync.NewChooser(orb.Point{}, candidates)
		c.Hover("ProtectedSite.A")

		assert.True(t, c.Dismiss())
		assert.False(t, c.Open())
		assert.Empty(t, c.Previewed())
		assert.False(t, c.Dismiss())
	})
}
