package neogeosync

import (
	"context"

	"github.com/paulmach/orb"

	"github.com/saulfrancisco-ruizacevedo/go-neogeosync/models"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mock_interfaces.go -package=mocks

// GeoIdentifier is the opaque URL-like key joining a graph node to a geographic feature.
type GeoIdentifier string

// ItemKind tells which kind of graph element is selected.
type ItemKind string

const (
	ItemNode         ItemKind = "node"
	ItemRelationship ItemKind = "relationship"
	ItemCanvas       ItemKind = "canvas"
)

// SelectedItem is the graph view's current selection.
type SelectedItem struct {
	Kind ItemKind
	Node *models.GraphNode
	Edge *models.Edge
}

// NodeItem wraps a node as a selection.
func NodeItem(n *models.GraphNode) *SelectedItem {
	return &SelectedItem{Kind: ItemNode, Node: n}
}

// VisualizationFlags controls what the graph renderer redraws.
type VisualizationFlags struct {
	UpdateNodes         bool
	UpdateRelationships bool
	RestartSimulation   bool
}

// FeatureClick is a click on the map with the ids of all features under the pointer.
type FeatureClick struct {
	Coordinate orb.Point
	FeatureIDs []string
	// Features optionally carries the clicked features, already in the map's reference
	// system. Those with an Identifier are stored in the feature cache.
	Features []*models.Feature
}

// QueryExecutor runs an arbitrary graph query and returns its nodes and relationships.
type QueryExecutor interface {
	// RunGraph executes query with params. An empty result is not an error.
	RunGraph(ctx context.Context, query string, params map[string]interface{}) (*models.GraphResult, error)
}

// GraphModel is the live graph shown by the graph view.
// Add operations must be idempotent on id.
type GraphModel interface {
	Nodes() []*models.GraphNode
	Relationships() []*models.Edge
	AddNodes(nodes []*models.GraphNode)
	RemoveNode(id string)
	RemoveConnectedRelationships(id string)
	AddRelationships(rels []*models.Edge)
}

// GraphEventNotifier forwards selection and model changes to the graph view.
type GraphEventNotifier interface {
	SelectItem(node *models.GraphNode)
	OnItemSelected(item SelectedItem)
	UpdateVisualization(flags VisualizationFlags)
	GraphModelChanged()
}

// TileMapWidget is the map view. The engine consumes its events and feeds it vector data;
// it never renders tiles itself.
type TileMapWidget interface {
	OnBoundsChanged(fn func(bounds models.BBox))
	OnZoomChanged(fn func(zoom float64))
	OnFeatureClick(fn func(click FeatureClick))

	// CRS is the reference system the map displays features in.
	CRS() string
	Center() orb.Point
	CenterOn(p orb.Point)

	// Render replaces the vector layer with visible and the highlight layer with selected (may be nil).
	Render(visible []*models.Feature, selected *models.Feature)
}

// FeatureFetcher loads a single feature in its native reference system.
type FeatureFetcher interface {
	FetchFeature(ctx context.Context, id GeoIdentifier) (*models.Feature, error)
}
