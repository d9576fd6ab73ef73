package neogeosync

import (
	"strconv"
	"strings"

	"go.trai.ch/zerr"

	"github.com/saulfrancisco-ruizacevedo/go-neogeosync/models"
)

// BBoxFields names the four numeric node properties holding a node's bounding box.
type BBoxFields struct {
	MinX string
	MinY string
	MaxX string
	MaxY string
}

// Of reads the bounding box stored on node. Numbers stored as strings are accepted.
func (f BBoxFields) Of(node *models.GraphNode) (models.BBox, bool) {
	if node == nil {
		return models.BBox{}, false
	}
	var vals [4]float64
	for i, key := range []string{f.MinX, f.MinY, f.MaxX, f.MaxY} {
		v, ok := toFloat(node.Properties[key])
		if !ok {
			return models.BBox{}, false
		}
		vals[i] = v
	}
	b := models.BBox{MinX: vals[0], MinY: vals[1], MaxX: vals[2], MaxY: vals[3]}
	return b, b.Valid()
}

// Props returns b keyed by the field names, ready to be SET on a node.
func (f BBoxFields) Props(b models.BBox) map[string]interface{} {
	return map[string]interface{}{
		f.MinX: b.MinX,
		f.MinY: b.MinY,
		f.MaxX: b.MaxX,
		f.MaxY: b.MaxY,
	}
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// BoundsQueryBuilder produces the graph query selecting nodes whose stored bounding
// box overlaps a viewport.
//
// The builder does not know about zoom levels. Callers must not invoke it for coarse
// zoom levels, since an unbounded viewport would select the whole graph.
type BoundsQueryBuilder struct {
	// Label restricts matched nodes to a label. Empty matches every node.
	Label string
	// Fields names the bbox properties. Values are compared with toFloat so that
	// string-typed imports still match.
	Fields BBoxFields
	// IncludeNeighbors adds the matched nodes' one-hop relationships and neighbours.
	IncludeNeighbors bool
}

// Build returns the bounds query and its parameters.
// labelFilter overrides Label when non-empty.
//
// Parameters:
//   - bounds: The viewport bounds, in the reference system the node bbox properties use.
//   - labelFilter: An optional label to restrict the match to.
//
// Returns:
//
//	The query text, its parameter map, or ErrInvalidBounds / ErrInvalidIdentifier.
func (b BoundsQueryBuilder) Build(bounds models.BBox, labelFilter string) (string, map[string]interface{}, error) {
	if !bounds.Valid() {
		return "", nil, zerr.With(zerr.Wrap(ErrInvalidBounds, "build bounds query"), "bounds", bounds.String())
	}

	label := b.Label
	if labelFilter != "" {
		label = labelFilter
	}

	fields := []string{b.Fields.MinX, b.Fields.MinY, b.Fields.MaxX, b.Fields.MaxY}
	for _, f := range fields {
		if strings.TrimSpace(f) == "" {
			return "", nil, zerr.With(zerr.Wrap(ErrInvalidIdentifier, "bounding box property is empty"), "fields", fields)
		}
	}

	var q strings.Builder
	q.WriteString("MATCH (n")
	if label != "" {
		q.WriteString(":")
		q.WriteString(quoteIdentifier(label))
	}
	q.WriteString(")\nWHERE ")
	q.WriteString(toFloatProperty("n", b.Fields.MaxX) + " >= $minX")
	q.WriteString("\n  AND " + toFloatProperty("n", b.Fields.MinX) + " <= $maxX")
	q.WriteString("\n  AND " + toFloatProperty("n", b.Fields.MaxY) + " >= $minY")
	q.WriteString("\n  AND " + toFloatProperty("n", b.Fields.MinY) + " <= $maxY")
	if b.IncludeNeighbors {
		q.WriteString("\nOPTIONAL MATCH (n)-[r]-(m)\nRETURN n, r, m")
	} else {
		q.WriteString("\nRETURN n")
	}

	params := map[string]interface{}{
		"minX": bounds.MinX,
		"minY": bounds.MinY,
		"maxX": bounds.MaxX,
		"maxY": bounds.MaxY,
	}
	return q.String(), params, nil
}

func toFloatProperty(alias, prop string) string {
	return "toFloat(" + alias + "." + quoteIdentifier(prop) + ")"
}

// quoteIdentifier backtick-quotes a label or property name, escaping embedded backticks.
func quoteIdentifier(s string) string {
	return "`" + strings.ReplaceAll(s, "`", "``") + "`"
}
