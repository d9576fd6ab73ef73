package neogeosync

import (
	"context"
	"reflect"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/saulfrancisco-ruizacevedo/gocypher"
	"go.trai.ch/zerr"

	"github.com/saulfrancisco-ruizacevedo/go-neogeosync/models"
)

// GeoRepository provides typed access to geo-tagged nodes of type T. It relies on
// `geo` struct tags to map struct fields to node properties.
type GeoRepository[T any] struct {
	runner DBRunner
	schema *geoSchema
}

// NewGeoRepository creates a new generic repository for the type T.
// It parses the struct tags of T to understand its mapping to a Neo4j node.
//
// Parameters:
//   - runner: An instance of DBRunner, used to execute all Cypher queries.
//
// Returns:
//
//	A new GeoRepository instance or an error wrapping ErrInvalidSchema if the struct
//	tags are invalid.
func NewGeoRepository[T any](runner DBRunner) (*GeoRepository[T], error) {
	schema, err := parseGeoTags[T]()
	if err != nil {
		return nil, err
	}
	return &GeoRepository[T]{runner: runner, schema: schema}, nil
}

// Label returns the node label of T.
func (r *GeoRepository[T]) Label() string {
	return r.schema.Label
}

// Mapper returns the identity mapper for T's nodes.
func (r *GeoRepository[T]) Mapper() IdentityMapper {
	return r.schema.mapper()
}

// QueryBuilder returns a bounds query builder restricted to T's label and bbox properties.
func (r *GeoRepository[T]) QueryBuilder() BoundsQueryBuilder {
	return r.schema.queryBuilder()
}

// Save creates a new node or updates an existing one.
// It uses a MERGE query on the GeoIdentifier; all other tagged fields are set on the node.
//
// Parameters:
//   - ctx: The context for the query execution.
//   - entity: A pointer to the struct instance to be saved.
//
// Returns:
//
//	An error if the entity has no identifier or the query fails.
func (r *GeoRepository[T]) Save(ctx context.Context, entity *T) error {
	val := reflect.ValueOf(entity).Elem()
	id := val.FieldByName(r.schema.IdentifierField).String()
	if id == "" {
		return zerr.With(zerr.Wrap(ErrInvalidIdentifier, "entity has no geo identifier"), "label", r.schema.Label)
	}
	mergeProps := map[string]interface{}{quoteIdentifier(r.schema.IdentifierProp): id}

	setProps := make(map[string]interface{})
	for fieldName, propName := range r.schema.Mappings {
		if fieldName != r.schema.IdentifierField {
			// The property is prefixed with 'n.' for the SET clause.
			setProps["n."+quoteIdentifier(propName)] = val.FieldByName(fieldName).Interface()
		}
	}

	qb := gocypher.NewQueryBuilder().
		Merge(gocypher.N("n", r.schema.Label).WithProperties(mergeProps)).
		Set(setProps).
		Return("n")

	return r.exec(ctx, qb)
}

// FindByGeoIdentifier retrieves the entity carrying id.
//
// Returns:
//
//	A pointer to the found entity, ErrNotFound if no record is found, or another
//	error if the query or mapping fails.
func (r *GeoRepository[T]) FindByGeoIdentifier(ctx context.Context, id GeoIdentifier) (*T, error) {
	// 1. Build the query using gocypher.
	props := map[string]interface{}{quoteIdentifier(r.schema.IdentifierProp): string(id)}
	query, params, err := gocypher.NewQueryBuilder().
		Match(gocypher.N("n", r.schema.Label).WithProperties(props)).
		Return("n").
		Build()
	if err != nil {
		return nil, zerr.Wrap(err, "could not build query")
	}

	// 2. Execute the query using the runner.
	eagerResult, err := r.runner.Run(ctx, query, params)
	if err != nil {
		return nil, zerr.Wrap(err, ErrQueryFailed.Error())
	}

	// 3. Process the result records. Duplicate identifiers resolve to the first node.
	if len(eagerResult.Records) == 0 {
		return nil, ErrNotFound
	}
	node, err := nodeFromRecord(eagerResult.Records[0], "n")
	if err != nil {
		return nil, err
	}

	// 4. Map the node properties to a new struct instance.
	entity := new(T)
	mapNodeToStruct(node, entity, r.schema)
	return entity, nil
}

// FindInBounds returns every entity whose stored bounding box overlaps bounds.
// An empty slice is returned when nothing overlaps.
func (r *GeoRepository[T]) FindInBounds(ctx context.Context, bounds models.BBox) ([]*T, error) {
	query, params, err := r.schema.queryBuilder().Build(bounds, "")
	if err != nil {
		return nil, err
	}

	eagerResult, err := r.runner.Run(ctx, query, params)
	if err != nil {
		return nil, zerr.Wrap(err, ErrQueryFailed.Error())
	}

	entities := make([]*T, 0, len(eagerResult.Records))
	for _, record := range eagerResult.Records {
		node, err := nodeFromRecord(record, "n")
		if err != nil {
			return nil, err
		}
		entity := new(T)
		mapNodeToStruct(node, entity, r.schema)
		entities = append(entities, entity)
	}
	return entities, nil
}

// SaveBounds writes a bounding box onto the node carrying id, so that later bounds
// queries can find it. It returns ErrNotFound when no node carries id.
func (r *GeoRepository[T]) SaveBounds(ctx context.Context, id GeoIdentifier, b models.BBox) error {
	return saveBounds(ctx, r.runner, r.schema.Label, r.schema.IdentifierProp, r.schema.Bounds, id, b)
}

// SaveFeatureBounds computes the bounding box of feature and writes it onto the node
// carrying the feature's identifier.
func (r *GeoRepository[T]) SaveFeatureBounds(ctx context.Context, feature *models.Feature) (models.BBox, error) {
	if feature == nil || feature.Identifier == "" {
		return models.BBox{}, zerr.Wrap(ErrInvalidIdentifier, "feature has no identifier")
	}
	b, ok := feature.BBox()
	if !ok {
		return models.BBox{}, zerr.With(zerr.Wrap(ErrInvalidBounds, "feature has no geometry"), "identifier", feature.Identifier)
	}
	return b, r.SaveBounds(ctx, GeoIdentifier(feature.Identifier), b)
}

// Delete removes the node carrying id together with its relationships.
func (r *GeoRepository[T]) Delete(ctx context.Context, id GeoIdentifier) error {
	props := map[string]interface{}{quoteIdentifier(r.schema.IdentifierProp): string(id)}
	qb := gocypher.NewQueryBuilder().
		Match(gocypher.N("n", r.schema.Label).WithProperties(props)).
		DetachDelete("n")
	return r.exec(ctx, qb)
}

// CountInGraph returns the number of nodes with T's label.
func (r *GeoRepository[T]) CountInGraph(ctx context.Context) (int64, error) {
	query := "MATCH (n:" + quoteIdentifier(r.schema.Label) + ") RETURN count(n) AS total"
	eagerResult, err := r.runner.Run(ctx, query, nil)
	if err != nil {
		return 0, zerr.Wrap(err, ErrQueryFailed.Error())
	}
	if len(eagerResult.Records) == 0 {
		return 0, nil
	}
	total, _ := eagerResult.Records[0].Get("total")
	n, _ := total.(int64)
	return n, nil
}

func (r *GeoRepository[T]) exec(ctx context.Context, qb *gocypher.QueryBuilder) error {
	query, params, err := qb.Build()
	if err != nil {
		return zerr.Wrap(err, "could not build query")
	}
	if _, err := r.runner.Run(ctx, query, params); err != nil {
		return zerr.With(zerr.Wrap(err, ErrQueryFailed.Error()), "label", r.schema.Label)
	}
	return nil
}

// saveBounds sets the bbox properties on the node whose identProp equals id. An empty
// label matches nodes of any label.
func saveBounds(ctx context.Context, runner DBRunner, label, identProp string, fields BBoxFields, id GeoIdentifier, b models.BBox) error {
	if !b.Valid() {
		return zerr.With(zerr.Wrap(ErrInvalidBounds, "save bounds"), "bounds", b.String())
	}
	if identProp == "" {
		return zerr.Wrap(ErrInvalidIdentifier, "identifier property is empty")
	}

	setProps := make(map[string]interface{}, 4)
	for prop, v := range fields.Props(b) {
		if prop == "" {
			return zerr.Wrap(ErrInvalidIdentifier, "bounding box property is empty")
		}
		setProps["n."+quoteIdentifier(prop)] = v
	}

	query, params, err := gocypher.NewQueryBuilder().
		Match(gocypher.N("n", label).WithProperties(map[string]interface{}{
			quoteIdentifier(identProp): string(id),
		})).
		Set(setProps).
		Return("n").
		Build()
	if err != nil {
		return zerr.Wrap(err, "could not build query")
	}

	eagerResult, err := runner.Run(ctx, query, params)
	if err != nil {
		return zerr.With(zerr.Wrap(err, ErrQueryFailed.Error()), "identifier", string(id))
	}
	if len(eagerResult.Records) == 0 {
		return zerr.With(zerr.Wrap(ErrNotFound, "save bounds"), "identifier", string(id))
	}
	return nil
}

func nodeFromRecord(record *neo4j.Record, key string) (neo4j.Node, error) {
	value, ok := record.Get(key)
	if !ok {
		return neo4j.Node{}, zerr.With(zerr.New("return value missing from query result"), "key", key)
	}
	node, ok := value.(neo4j.Node)
	if !ok {
		return neo4j.Node{}, zerr.With(zerr.New("return value is not a node"), "key", key)
	}
	return node, nil
}

// mapNodeToStruct populates a struct's fields from a node's properties, based on the
// parsed schema. Bounding box fields accept any numeric or numeric-string value.
func mapNodeToStruct(node neo4j.Node, entity any, schema *geoSchema) {
	val := reflect.ValueOf(entity).Elem()

	for fieldName, propName := range schema.Mappings {
		field := val.FieldByName(fieldName)
		if !field.IsValid() || !field.CanSet() {
			continue
		}

		propValue, ok := node.Props[propName]
		if !ok || propValue == nil {
			continue
		}

		if field.Kind() == reflect.Float64 {
			if f, ok := toFloat(propValue); ok {
				field.SetFloat(f)
			}
			continue
		}

		pv := reflect.ValueOf(propValue)
		switch {
		case pv.Type().AssignableTo(field.Type()):
			field.Set(pv)
		case pv.Type().ConvertibleTo(field.Type()) && pv.Kind() != reflect.String:
			field.Set(pv.Convert(field.Type()))
		}
	}
}
