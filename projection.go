package neogeosync

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"
	"go.trai.ch/zerr"

	"github.com/saulfrancisco-ruizacevedo/go-neogeosync/internal/geodesy"
	"github.com/saulfrancisco-ruizacevedo/go-neogeosync/models"
)

// Reference systems with built-in transforms.
const (
	CRSWGS84       = "EPSG:4326"
	CRSWebMercator = "EPSG:3857"
	// CRSLAEAEurope is ETRS89 / LAEA Europe, the system the INSPIRE feature services publish in.
	CRSLAEAEurope = "EPSG:3035"
	// CRSAustriaLambert is MGI / Austria Lambert, used for node bounding boxes.
	CRSAustriaLambert = "EPSG:31287"
	CRSAustriaGKM31   = "EPSG:31258"
)

// crsAliases maps alternative spellings onto the canonical code.
var crsAliases = map[string]string{
	"urn:ogc:def:crs:EPSG::4326":  CRSWGS84,
	"CRS:84":                      CRSWGS84,
	"EPSG:900913":                 CRSWebMercator,
	"urn:ogc:def:crs:EPSG::3857":  CRSWebMercator,
	"urn:ogc:def:crs:EPSG::3035":  CRSLAEAEurope,
	"urn:ogc:def:crs:EPSG::31287": CRSAustriaLambert,
	"urn:ogc:def:crs:EPSG::31258": CRSAustriaGKM31,
}

// bboxEdgeSteps is how many segments each edge of a box is split into before reprojection.
const bboxEdgeSteps = 8

type crsPair struct{ from, to string }

// Reprojector transforms geometries between reference systems.
// Systems without a direct transform are chained through WGS84. Custom transforms can
// be registered for systems not built in.
type Reprojector struct {
	transforms map[crsPair]orb.Projection
}

// NewReprojector returns a Reprojector knowing WGS84, Web Mercator, LAEA Europe and the
// two Austrian MGI systems.
func NewReprojector() *Reprojector {
	r := &Reprojector{transforms: make(map[crsPair]orb.Projection)}
	r.Register(CRSWGS84, CRSWebMercator, project.WGS84.ToMercator)
	r.Register(CRSWebMercator, CRSWGS84, project.Mercator.ToWGS84)
	for _, code := range geodesy.Codes() {
		sys, _ := geodesy.Lookup(code)
		r.Register(code, CRSWGS84, sys.ToWGS84)
		r.Register(CRSWGS84, code, sys.FromWGS84)
	}
	return r
}

// Register adds a point transform from one reference system to another.
func (r *Reprojector) Register(from, to string, proj orb.Projection) {
	r.transforms[crsPair{canonicalCRS(from), canonicalCRS(to)}] = proj
}

// Reproject returns a copy of g expressed in to. The input geometry is never modified.
func (r *Reprojector) Reproject(g orb.Geometry, from, to string) (orb.Geometry, error) {
	proj, err := r.transform(from, to)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, nil
	}
	if proj == nil {
		return orb.Clone(g), nil
	}
	return project.Geometry(orb.Clone(g), proj), nil
}

// ReprojectPoint transforms a single point.
func (r *Reprojector) ReprojectPoint(p orb.Point, from, to string) (orb.Point, error) {
	proj, err := r.transform(from, to)
	if err != nil {
		return orb.Point{}, err
	}
	if proj == nil {
		return p, nil
	}
	return proj(p), nil
}

// ReprojectBBox returns the box enclosing b's outline expressed in to. Edges are
// densified first, so the curved image of a straight edge stays inside the result.
func (r *Reprojector) ReprojectBBox(b models.BBox, from, to string) (models.BBox, error) {
	proj, err := r.transform(from, to)
	if err != nil {
		return models.BBox{}, err
	}
	if proj == nil {
		return b, nil
	}

	corners := [5]orb.Point{
		{b.MinX, b.MinY}, {b.MaxX, b.MinY}, {b.MaxX, b.MaxY}, {b.MinX, b.MaxY}, {b.MinX, b.MinY},
	}
	first := proj(corners[0])
	out := orb.Bound{Min: first, Max: first}
	for i := 0; i < 4; i++ {
		a, c := corners[i], corners[i+1]
		for s := 1; s <= bboxEdgeSteps; s++ {
			t := float64(s) / bboxEdgeSteps
			out = out.Extend(proj(orb.Point{a[0] + t*(c[0]-a[0]), a[1] + t*(c[1]-a[1])}))
		}
	}
	return models.BBoxFromBound(out), nil
}

// transform returns a nil projection for identical systems.
func (r *Reprojector) transform(from, to string) (orb.Projection, error) {
	from, to = canonicalCRS(from), canonicalCRS(to)
	if from != "" && from == to {
		return nil, nil
	}
	if proj, ok := r.transforms[crsPair{from, to}]; ok {
		return proj, nil
	}
	toWGS, ok := r.transforms[crsPair{from, CRSWGS84}]
	fromWGS, ok2 := r.transforms[crsPair{CRSWGS84, to}]
	if ok && ok2 {
		return func(p orb.Point) orb.Point { return fromWGS(toWGS(p)) }, nil
	}
	return nil, zerr.With(zerr.With(zerr.Wrap(ErrUnsupportedProjection, "reproject"), "from", from), "to", to)
}

func canonicalCRS(code string) string {
	if c, ok := crsAliases[code]; ok {
		return c
	}
	return code
}
