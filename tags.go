package neogeosync

import (
	"reflect"
	"strings"

	"go.trai.ch/zerr"
)

// Roles a field can take in a `geo` struct tag.
const (
	roleIdentifier = "identifier"
	roleFeatureID  = "featureid"
	roleMinX       = "minx"
	roleMinY       = "miny"
	roleMaxX       = "maxx"
	roleMaxY       = "maxy"
)

// geoSchema holds the parsed `geo` tag information for a specific struct type.
// It is cached by the GraphManager to avoid costly reflection on every operation.
//
// Tag syntax, comma separated: an optional role, then property:<name>.
//
//	type ProtectedSite struct {
//		_    struct{} `geo:"label:ProtectedSite"`
//		ID   string   `geo:"identifier,property:gml:identifier"`
//		MinX float64  `geo:"minx,property:x_min"`
//		Name string   `geo:"property:name"`
//	}
type geoSchema struct {
	// Label is the graph node label, defaulting to the struct's name.
	Label string
	// IdentifierField and IdentifierProp locate the GeoIdentifier.
	IdentifierField string
	IdentifierProp  string
	// FeatureIDField and FeatureIDProp locate the feature id; both may be empty.
	FeatureIDField string
	FeatureIDProp  string
	// Bounds names the bbox properties; BoundsFields the struct fields holding them,
	// ordered min x, min y, max x, max y.
	Bounds       BBoxFields
	BoundsFields [4]string
	// Mappings maps struct field names to their corresponding database property names.
	Mappings map[string]string
}

// parseGeoSchema inspects a struct type and extracts its `geo` tags.
func parseGeoSchema(typ reflect.Type) (*geoSchema, error) {
	if typ == nil {
		return nil, zerr.Wrap(ErrInvalidSchema, "type is nil")
	}
	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		return nil, zerr.With(zerr.Wrap(ErrInvalidSchema, "type is not a struct"), "type", typ.String())
	}

	schema := &geoSchema{
		Label:    typ.Name(),
		Mappings: make(map[string]string),
	}
	bounds := map[string]int{roleMinX: 0, roleMinY: 1, roleMaxX: 2, roleMaxY: 3}
	var boundsProps [4]string

	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		tag := field.Tag.Get("geo")
		if tag == "" {
			continue
		}

		if label, ok := strings.CutPrefix(tag, "label:"); ok {
			schema.Label = label
			continue
		}

		role, prop := "", ""
		for _, part := range strings.Split(tag, ",") {
			if name, ok := strings.CutPrefix(part, "property:"); ok {
				prop = name
				continue
			}
			role = part
		}
		if prop == "" {
			return nil, zerr.With(zerr.Wrap(ErrInvalidSchema, "field is missing 'property' tag component"),
				"field", field.Name)
		}

		switch role {
		case "":
		case roleIdentifier:
			if field.Type.Kind() != reflect.String {
				return nil, zerr.With(zerr.Wrap(ErrInvalidSchema, "identifier field must be a string"), "field", field.Name)
			}
			schema.IdentifierField, schema.IdentifierProp = field.Name, prop
		case roleFeatureID:
			schema.FeatureIDField, schema.FeatureIDProp = field.Name, prop
		case roleMinX, roleMinY, roleMaxX, roleMaxY:
			if field.Type.Kind() != reflect.Float64 {
				return nil, zerr.With(zerr.Wrap(ErrInvalidSchema, "bounding box field must be a float64"), "field", field.Name)
			}
			schema.BoundsFields[bounds[role]] = field.Name
			boundsProps[bounds[role]] = prop
		default:
			return nil, zerr.With(zerr.With(zerr.Wrap(ErrInvalidSchema, "unknown geo tag role"), "field", field.Name), "role", role)
		}
		schema.Mappings[field.Name] = prop
	}

	if schema.IdentifierField == "" {
		return nil, zerr.With(zerr.Wrap(ErrInvalidSchema, "no 'identifier' tag defined"), "type", typ.Name())
	}
	for i, f := range schema.BoundsFields {
		if f == "" {
			return nil, zerr.With(zerr.With(zerr.Wrap(ErrInvalidSchema, "bounding box tag missing"), "type", typ.Name()),
				"role", []string{roleMinX, roleMinY, roleMaxX, roleMaxY}[i])
		}
	}
	schema.Bounds = BBoxFields{MinX: boundsProps[0], MinY: boundsProps[1], MaxX: boundsProps[2], MaxY: boundsProps[3]}

	return schema, nil
}

// parseGeoTags is a generic convenience wrapper around parseGeoSchema.
func parseGeoTags[T any]() (*geoSchema, error) {
	return parseGeoSchema(reflect.TypeOf((*T)(nil)).Elem())
}

// queryBuilder returns a bounds query builder matching the schema's label and bbox properties.
func (s *geoSchema) queryBuilder() BoundsQueryBuilder {
	return BoundsQueryBuilder{Label: s.Label, Fields: s.Bounds}
}

// mapper returns the identity mapper for nodes of this schema.
func (s *geoSchema) mapper() IdentityMapper {
	return IdentityMapper{IdentifierProperty: s.IdentifierProp, FeatureIDProperty: s.FeatureIDProp}
}
