package models

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// BBox is an axis-aligned bounding box in a fixed reference coordinate system.
type BBox struct {
	MinX float64 `json:"min_x" yaml:"min_x"`
	MinY float64 `json:"min_y" yaml:"min_y"`
	MaxX float64 `json:"max_x" yaml:"max_x"`
	MaxY float64 `json:"max_y" yaml:"max_y"`
}

// BBoxFromBound converts an orb bound into a BBox.
func BBoxFromBound(b orb.Bound) BBox {
	return BBox{MinX: b.Min[0], MinY: b.Min[1], MaxX: b.Max[0], MaxY: b.Max[1]}
}

// Bound returns the box as an orb.Bound.
func (b BBox) Bound() orb.Bound {
	return orb.Bound{Min: orb.Point{b.MinX, b.MinY}, Max: orb.Point{b.MaxX, b.MaxY}}
}

// Valid reports whether all coordinates are finite and min <= max on both axes.
func (b BBox) Valid() bool {
	for _, v := range []float64{b.MinX, b.MinY, b.MaxX, b.MaxY} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return b.MinX <= b.MaxX && b.MinY <= b.MaxY
}

// Intersects is the axis-aligned overlap test used by the bounds query:
// other.MaxX >= b.MinX AND other.MinX <= b.MaxX AND other.MaxY >= b.MinY AND other.MinY <= b.MaxY.
// Touching edges count as overlap.
func (b BBox) Intersects(other BBox) bool {
	return b.Bound().Intersects(other.Bound())
}

// Center returns the centre point of the box.
func (b BBox) Center() orb.Point {
	return b.Bound().Center()
}

// String renders the box in WFS/WMS bbox order.
func (b BBox) String() string {
	return fmt.Sprintf("%f,%f,%f,%f", b.MinX, b.MinY, b.MaxX, b.MaxY)
}

// Viewport is the visible map region as reported by the map widget.
type Viewport struct {
	Zoom   float64 `json:"zoom"`
	Bounds BBox    `json:"bounds"`
}

// Feature is a geometry plus attributes loaded from the mapping domain.
type Feature struct {
	// Identifier is the URL-like key joining the feature to a graph node (gml:identifier).
	Identifier string `json:"identifier"`

	// FeatureID is the feature id reported by the map service (gml:id).
	FeatureID string `json:"feature_id"`

	// CRS names the reference system Geometry is expressed in (e.g., "EPSG:3857").
	CRS string `json:"crs"`

	Geometry   orb.Geometry           `json:"-"`
	Properties map[string]interface{} `json:"properties"`
}

// BBox returns the bounding box of the feature geometry, or false when it has none.
func (f *Feature) BBox() (BBox, bool) {
	if f == nil || f.Geometry == nil {
		return BBox{}, false
	}
	return BBoxFromBound(f.Geometry.Bound()), true
}
