// Package models contains the data transfer objects shared by the synchronization engine.
// The structs in this file represent a generic graph structure as returned by a Neo4j
// query, decoupled from the driver types so that reconcilers and tests never depend on
// a live database.
package models

// GraphNode represents a generic node from a Neo4j graph.
// It captures the essential components of any node: its unique ElementId, its labels,
// and its properties. The geographic identifier of a node lives in Properties under a
// configurable key.
type GraphNode struct {
	// ID is the unique internal identifier assigned by Neo4j to the node (ElementId).
	ID string `json:"id"`

	// Labels is a slice of strings containing all the labels attached to the node (e.g., ["ProtectedSite"]).
	Labels []string `json:"labels"`

	// Properties is a map containing the key-value properties of the node.
	Properties map[string]interface{} `json:"properties"`
}

// StringProperty returns the property stored under key when it is a non-empty string.
func (n *GraphNode) StringProperty(key string) (string, bool) {
	if n == nil || n.Properties == nil {
		return "", false
	}
	s, ok := n.Properties[key].(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// Edge represents a generic relationship (or edge) between two nodes in a Neo4j graph.
// It includes the relationship's unique ID, its type, its properties, and the unique
// ElementIds of the source and target nodes it connects.
type Edge struct {
	// ID is the unique internal identifier assigned by Neo4j to the relationship (ElementId).
	ID string `json:"id"`

	// Source is the ElementId of the node where the relationship starts.
	Source string `json:"source"`

	// Target is the ElementId of the node where the relationship ends.
	Target string `json:"target"`

	// Type is the relationship's type (e.g., "LOCATED_IN", "BORDERS").
	Type string `json:"type"`

	// Properties is a map containing the key-value properties of the relationship.
	Properties map[string]interface{} `json:"properties"`
}

// GraphResult is a top-level container for a graph query result.
// A bounds query always produces one; an empty result is a valid outcome and
// means that no node intersects the viewport.
type GraphResult struct {
	// Nodes contains all the unique nodes retrieved by the query.
	Nodes []*GraphNode `json:"nodes"`

	// Edges contains all the unique relationships retrieved by the query.
	Edges []*Edge `json:"edges"`
}

// NodeIDs returns the set of node ids contained in the result.
func (g *GraphResult) NodeIDs() map[string]struct{} {
	ids := make(map[string]struct{}, len(g.Nodes))
	for _, n := range g.Nodes {
		ids[n.ID] = struct{}{}
	}
	return ids
}
