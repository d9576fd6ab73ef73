package neogeosync

import (
	"context"
	"log/slog"
	"reflect"
	"sync"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/saulfrancisco-ruizacevedo/gocypher"
	"go.trai.ch/zerr"

	"github.com/saulfrancisco-ruizacevedo/go-neogeosync/models"
)

// GraphManager is the central access point to the graph database.
// It runs bounds queries for the sync engine, hands out typed geo repositories and
// performs cross-entity operations like creating relationships.
type GraphManager struct {
	runner DBRunner
	logger *slog.Logger
	// schemaCache stores parsed geoSchema values to avoid costly reflection on every call.
	schemaCache sync.Map
}

var _ QueryExecutor = (*GraphManager)(nil)

// ManagerOption configures a GraphManager.
type ManagerOption func(*GraphManager)

// WithManagerLogger sets the logger.
func WithManagerLogger(l *slog.Logger) ManagerOption {
	return func(gm *GraphManager) { gm.logger = l }
}

// NewGraphManager creates a new instance of the GraphManager.
func NewGraphManager(runner DBRunner, opts ...ManagerOption) *GraphManager {
	gm := &GraphManager{runner: runner, logger: slog.Default()}
	for _, opt := range opts {
		opt(gm)
	}
	return gm
}

// GeoRepositoryFor creates a repository for the geo-tagged struct type T, reusing the
// manager's schema cache.
func GeoRepositoryFor[T any](gm *GraphManager) (*GeoRepository[T], error) {
	schema, err := gm.schemaFor(reflect.TypeOf((*T)(nil)).Elem())
	if err != nil {
		return nil, err
	}
	return &GeoRepository[T]{runner: gm.runner, schema: schema}, nil
}

// RunGraph executes query and maps every node, relationship and path in the result
// into a de-duplicated GraphResult. It implements QueryExecutor.
//
// Unlike FindGraph, zero records is not an error: a bounds query over an empty
// viewport legitimately returns nothing, and the sync engine must then clear the graph.
func (gm *GraphManager) RunGraph(ctx context.Context, query string, params map[string]interface{}) (*models.GraphResult, error) {
	eagerResult, err := gm.runner.Run(ctx, query, params)
	if err != nil {
		return nil, zerr.Wrap(err, ErrQueryFailed.Error())
	}

	graph := graphFromRecords(eagerResult.Records)
	gm.logger.Debug("graph query returned",
		"records", len(eagerResult.Records),
		"nodes", len(graph.Nodes),
		"relationships", len(graph.Edges),
	)
	return graph, nil
}

// FindGraph executes a graph query defined by a gocypher.QueryBuilder and maps the result
// into a generic graph structure composed of nodes and edges.
//
// The caller is responsible for constructing a valid query via the QueryBuilder, including
// a RETURN clause that specifies which nodes and relationships should be included in the
// final graph. For example, `RETURN n, r, m`.
//
// Parameters:
//   - ctx: The context for the query execution.
//   - qb: A pointer to a configured gocypher.QueryBuilder instance that defines the graph to retrieve.
//
// Returns:
//   - A pointer to a models.GraphResult containing the de-duplicated nodes and edges from the query.
//   - An ErrNotFound error if the query executes successfully but returns zero records.
//   - Any other error encountered during query building or execution.
func (gm *GraphManager) FindGraph(ctx context.Context, qb *gocypher.QueryBuilder) (*models.GraphResult, error) {
	query, params, err := qb.Build()
	if err != nil {
		return nil, zerr.Wrap(err, "could not build query")
	}

	eagerResult, err := gm.runner.Run(ctx, query, params)
	if err != nil {
		return nil, zerr.Wrap(err, ErrQueryFailed.Error())
	}
	if len(eagerResult.Records) == 0 {
		return nil, ErrNotFound
	}
	return graphFromRecords(eagerResult.Records), nil
}

// Neighborhood returns the node carrying id together with its one-hop relationships
// and neighbours. A node without relationships comes back alone. It returns ErrNotFound
// when no node carries id.
func (gm *GraphManager) Neighborhood(ctx context.Context, mapper IdentityMapper, id GeoIdentifier) (*models.GraphResult, error) {
	qb := gocypher.NewQueryBuilder().
		Match(gocypher.N("n", "").WithProperties(map[string]interface{}{
			quoteIdentifier(mapper.IdentifierProperty): string(id),
		})).
		OptionalMatch(
			gocypher.NRef("n"),
			gocypher.R("r", ""),
			gocypher.N("m", ""),
		).
		Return("n", "r", "m")

	graph, err := gm.FindGraph(ctx, qb)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "neighborhood"), "identifier", string(id))
	}
	return graph, nil
}

// CreateRelation creates a directed relationship between two existing geo entities.
// Both entities are matched by their GeoIdentifier.
func (gm *GraphManager) CreateRelation(ctx context.Context, fromEntity any, toEntity any, relType string, relProps map[string]interface{}) error {
	fromSchema, fromID, err := gm.schemaAndIdentifier(fromEntity)
	if err != nil {
		return err
	}
	toSchema, toID, err := gm.schemaAndIdentifier(toEntity)
	if err != nil {
		return err
	}

	qb := gocypher.NewQueryBuilder().
		Match(gocypher.N("a", fromSchema.Label).WithProperties(map[string]interface{}{
			quoteIdentifier(fromSchema.IdentifierProp): fromID,
		})).
		Match(gocypher.N("b", toSchema.Label).WithProperties(map[string]interface{}{
			quoteIdentifier(toSchema.IdentifierProp): toID,
		})).
		Create(
			gocypher.N("a", ""), // Reference the 'a' alias without its label
			gocypher.R("r", relType).To().WithProperties(relProps),
			gocypher.N("b", ""),
		)

	query, params, err := qb.Build()
	if err != nil {
		return zerr.Wrap(err, "could not build query")
	}
	if _, err := gm.runner.Run(ctx, query, params); err != nil {
		return zerr.With(zerr.Wrap(err, ErrQueryFailed.Error()), "type", relType)
	}
	return nil
}

// SaveBounds writes b onto the node carrying id, for nodes described by a config-driven
// query builder rather than a tagged struct. The builder's Label and Fields are used.
func (gm *GraphManager) SaveBounds(ctx context.Context, qb BoundsQueryBuilder, mapper IdentityMapper, id GeoIdentifier, b models.BBox) error {
	return saveBounds(ctx, gm.runner, qb.Label, mapper.IdentifierProperty, qb.Fields, id, b)
}

// schemaAndIdentifier retrieves an entity's schema and GeoIdentifier value.
func (gm *GraphManager) schemaAndIdentifier(entity any) (*geoSchema, string, error) {
	val := reflect.ValueOf(entity)
	if val.Kind() != reflect.Ptr || val.IsNil() {
		return nil, "", zerr.Wrap(ErrInvalidSchema, "entity must be a non-nil pointer")
	}

	schema, err := gm.schemaFor(val.Elem().Type())
	if err != nil {
		return nil, "", err
	}
	id := val.Elem().FieldByName(schema.IdentifierField).String()
	if id == "" {
		return nil, "", zerr.With(zerr.Wrap(ErrInvalidIdentifier, "entity has no geo identifier"), "label", schema.Label)
	}
	return schema, id, nil
}

// schemaFor loads a type's schema from the cache, parsing its tags on first use.
func (gm *GraphManager) schemaFor(typ reflect.Type) (*geoSchema, error) {
	if cached, ok := gm.schemaCache.Load(typ); ok {
		return cached.(*geoSchema), nil
	}
	schema, err := parseGeoSchema(typ)
	if err != nil {
		return nil, err
	}
	gm.schemaCache.Store(typ, schema)
	return schema, nil
}

// graphFromRecords collects the graph elements of every record value, de-duplicated by
// element id. Paths and lists are flattened; nulls from OPTIONAL MATCH are skipped.
func graphFromRecords(records []*neo4j.Record) *models.GraphResult {
	c := graphCollector{
		graph: &models.GraphResult{
			Nodes: make([]*models.GraphNode, 0),
			Edges: make([]*models.Edge, 0),
		},
		seenNodes: make(map[string]bool),
		seenEdges: make(map[string]bool),
	}
	for _, record := range records {
		for _, value := range record.Values {
			c.add(value)
		}
	}
	return c.graph
}

type graphCollector struct {
	graph     *models.GraphResult
	seenNodes map[string]bool
	seenEdges map[string]bool
}

func (c *graphCollector) add(value any) {
	switch v := value.(type) {
	case neo4j.Node:
		if !c.seenNodes[v.ElementId] {
			c.graph.Nodes = append(c.graph.Nodes, &models.GraphNode{
				ID:         v.ElementId,
				Labels:     v.Labels,
				Properties: v.Props,
			})
			c.seenNodes[v.ElementId] = true
		}
	case neo4j.Relationship:
		if !c.seenEdges[v.ElementId] {
			c.graph.Edges = append(c.graph.Edges, &models.Edge{
				ID:         v.ElementId,
				Source:     v.StartElementId,
				Target:     v.EndElementId,
				Type:       v.Type,
				Properties: v.Props,
			})
			c.seenEdges[v.ElementId] = true
		}
	case neo4j.Path:
		for _, n := range v.Nodes {
			c.add(n)
		}
		for _, r := range v.Relationships {
			c.add(r)
		}
	case []any:
		for _, item := range v {
			c.add(item)
		}
	}
}
