package neogeosync_test

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saulfrancisco-ruizacevedo/go-neogeosync"
	"github.com/saulfrancisco-ruizacevedo/go-neogeosync/models"
)

func defaultBuilder() neogeosync.BoundsQueryBuilder {
	return neogeosync.DefaultConfig().QueryBuilder()
}

func TestBoundsQueryBuilder_Build(t *testing.T) {
	b := defaultBuilder()
	b.Label = "Schutzgebiet_v2"

	query, params, err := b.Build(models.BBox{MinX: 0, MinY: 0, MaxX: 10, MaxY: 10}, "")
	require.NoError(t, err)

	assert.Equal(t, "MATCH (n:`Schutzgebiet_v2`)\n"+
		"WHERE toFloat(n.`x_max`) >= $minX\n"+
		"  AND toFloat(n.`x_min`) <= $maxX\n"+
		"  AND toFloat(n.`y_max`) >= $minY\n"+
		"  AND toFloat(n.`y_min`) <= $maxY\n"+
		"OPTIONAL MATCH (n)-[r]-(m)\n"+
		"RETURN n, r, m", query)
	assert.Equal(t, map[string]interface{}{"minX": 0.0, "minY": 0.0, "maxX": 10.0, "maxY": 10.0}, params)
}

func TestBoundsQueryBuilder_LabelFilterAndNoNeighbors(t *testing.T) {
	b := defaultBuilder()
	b.Label = "Ignored"
	b.IncludeNeighbors = false

	query, _, err := b.Build(models.BBox{MinX: 1, MinY: 2, MaxX: 3, MaxY: 4}, "Protected`Site")
	require.NoError(t, err)
	assert.Contains(t, query, "MATCH (n:`Protected``Site`)")
	assert.NotContains(t, query, "OPTIONAL MATCH")
	assert.True(t, strings.HasSuffix(query, "\nRETURN n"))
}

func TestBoundsQueryBuilder_NoLabel(t *testing.T) {
	query, _, err := defaultBuilder().Build(models.BBox{MaxX: 1, MaxY: 1}, "")
	require.NoError(t, err)
	assert.Contains(t, query, "MATCH (n)\n")
}

func TestBoundsQueryBuilder_Errors(t *testing.T) {
	_, _, err := defaultBuilder().Build(models.BBox{MinX: 5, MaxX: 1, MaxY: 1}, "")
	require.ErrorIs(t, err, neogeosync.ErrInvalidBounds)

	_, _, err = defaultBuilder().Build(models.BBox{MinX: math.NaN(), MaxX: 1, MaxY: 1}, "")
	require.ErrorIs(t, err, neogeosync.ErrInvalidBounds)

	b := defaultBuilder()
	b.Fields.MaxY = " "
	_, _, err = b.Build(models.BBox{MaxX: 1, MaxY: 1}, "")
	require.ErrorIs(t, err, neogeosync.ErrInvalidIdentifier)
}

// The Go predicate and the generated query must agree on which nodes overlap.
func TestBoundsQueryBuilder_MatchesOverlapPredicate(t *testing.T) {
	viewport := models.BBox{MinX: 0, MinY: 0, MaxX: 10, MaxY: 10}
	_, params, err := defaultBuilder().Build(viewport, "")
	require.NoError(t, err)

	matches := func(node models.BBox) bool {
		return node.MaxX >= params["minX"].(float64) &&
			node.MinX <= params["maxX"].(float64) &&
			node.MaxY >= params["minY"].(float64) &&
			node.MinY <= params["maxY"].(float64)
	}

	overlapping := models.BBox{MinX: 5, MinY: 5, MaxX: 15, MaxY: 15}
	disjoint := models.BBox{MinX: 20, MinY: 20, MaxX: 30, MaxY: 30}

	assert.True(t, matches(overlapping))
	assert.False(t, matches(disjoint))
	assert.Equal(t, matches(overlapping), viewport.Intersects(overlapping))
	assert.Equal(t, matches(disjoint), viewport.Intersects(disjoint))
}

func TestBBoxFields_Of(t *testing.T) {
	fields := defaultBuilder().Fields

	node := &models.GraphNode{ID: "n1", Properties: map[string]interface{}{
		"x_min": 1.5, "y_min": int64(2), "x_max": "3.5", "y_max": 4,
	}}
	b, ok := fields.Of(node)
	require.True(t, ok)
	assert.Equal(t, models.BBox{MinX: 1.5, MinY: 2, MaxX: 3.5, MaxY: 4}, b)
	assert.Equal(t, map[string]interface{}{"x_min": 1.5, "y_min": 2.0, "x_max": 3.5, "y_max": 4.0}, fields.Props(b))

	_, ok = fields.Of(&models.GraphNode{ID: "n2", Properties: map[string]interface{}{"x_min": 1.0}})
	assert.False(t, ok)

	_, ok = fields.Of(&models.GraphNode{ID: "n3", Properties: map[string]interface{}{
		"x_min": "abc", "y_min": 0.0, "x_max": 1.0, "y_max": 1.0,
	}})
	assert.False(t, ok)

	_, ok = fields.Of(nil)
	assert.False(t, ok)
}
