// Package geodesy converts coordinates between WGS84 longitude/latitude and the
// projected reference systems the feature services and graph data use.
package geodesy

import (
	"math"
	"sort"

	"github.com/paulmach/orb"
)

const (
	deg    = math.Pi / 180
	arcsec = deg / 3600
)

// Ellipsoid is a reference ellipsoid given by its semi-major axis in metres and its
// inverse flattening.
type Ellipsoid struct {
	A    float64
	InvF float64
}

// Reference ellipsoids.
var (
	WGS84      = Ellipsoid{A: 6378137, InvF: 298.257223563}
	GRS80      = Ellipsoid{A: 6378137, InvF: 298.257222101}
	Bessel1841 = Ellipsoid{A: 6377397.155, InvF: 299.1528128}
)

// E2 returns the squared first eccentricity.
func (e Ellipsoid) E2() float64 {
	f := 1 / e.InvF
	return f * (2 - f)
}

// toGeocentric converts radians on the ellipsoid surface to earth-centred metres.
func (e Ellipsoid) toGeocentric(lon, lat float64) (x, y, z float64) {
	e2 := e.E2()
	sinLat, cosLat := math.Sincos(lat)
	nu := e.A / math.Sqrt(1-e2*sinLat*sinLat)
	return nu * cosLat * math.Cos(lon), nu * cosLat * math.Sin(lon), nu * (1 - e2) * sinLat
}

func (e Ellipsoid) fromGeocentric(x, y, z float64) (lon, lat float64) {
	e2 := e.E2()
	p := math.Hypot(x, y)
	lon = math.Atan2(y, x)
	lat = math.Atan2(z, p*(1-e2))
	for i := 0; i < 10; i++ {
		sinLat := math.Sin(lat)
		nu := e.A / math.Sqrt(1-e2*sinLat*sinLat)
		next := math.Atan2(z+e2*nu*sinLat, p)
		if math.Abs(next-lat) < 1e-14 {
			return lon, next
		}
		lat = next
	}
	return lon, lat
}

// Helmert is a seven-parameter shift from a local datum to WGS84 in the position
// vector convention of proj's towgs84: translations in metres, rotations in arc
// seconds, scale in parts per million.
type Helmert struct {
	Tx, Ty, Tz float64
	Rx, Ry, Rz float64
	S          float64
}

func (h Helmert) forward(x, y, z float64) (float64, float64, float64) {
	rx, ry, rz := h.Rx*arcsec, h.Ry*arcsec, h.Rz*arcsec
	m := 1 + h.S*1e-6
	return h.Tx + m*(x-rz*y+ry*z),
		h.Ty + m*(rz*x+y-rx*z),
		h.Tz + m*(-ry*x+rx*y+z)
}

// inverse uses the transposed rotation, exact to well below a millimetre for the
// small angles datum shifts use.
func (h Helmert) inverse(x, y, z float64) (float64, float64, float64) {
	rx, ry, rz := h.Rx*arcsec, h.Ry*arcsec, h.Rz*arcsec
	m := 1 + h.S*1e-6
	x, y, z = (x-h.Tx)/m, (y-h.Ty)/m, (z-h.Tz)/m
	return x + rz*y - ry*z,
		-rz*x + y + rx*z,
		ry*x - rx*y + z
}

// Projection maps geodetic radians on its ellipsoid to grid metres and back.
type Projection interface {
	Forward(lon, lat float64) (x, y float64)
	Inverse(x, y float64) (lon, lat float64)
}

// System is a projected reference system. A nil Shift means the datum coincides
// with WGS84 at map accuracy, as ETRS89 does.
type System struct {
	Ellipsoid  Ellipsoid
	Shift      *Helmert
	Projection Projection
}

// FromWGS84 projects a WGS84 longitude/latitude point given in degrees.
func (s System) FromWGS84(p orb.Point) orb.Point {
	lon, lat := p[0]*deg, p[1]*deg
	if s.Shift != nil {
		x, y, z := WGS84.toGeocentric(lon, lat)
		x, y, z = s.Shift.inverse(x, y, z)
		lon, lat = s.Ellipsoid.fromGeocentric(x, y, z)
	}
	x, y := s.Projection.Forward(lon, lat)
	return orb.Point{x, y}
}

// ToWGS84 returns the WGS84 longitude/latitude in degrees of a grid point.
func (s System) ToWGS84(p orb.Point) orb.Point {
	lon, lat := s.Projection.Inverse(p[0], p[1])
	if s.Shift != nil {
		x, y, z := s.Ellipsoid.toGeocentric(lon, lat)
		x, y, z = s.Shift.forward(x, y, z)
		lon, lat = WGS84.fromGeocentric(x, y, z)
	}
	return orb.Point{lon / deg, lat / deg}
}

// MGI is the Austrian datum shift shared by the Austrian Lambert and Gauss-Krüger systems.
var MGI = Helmert{Tx: 577.326, Ty: 90.129, Tz: 463.919, Rx: 5.137, Ry: 1.474, Rz: 5.297, S: 2.4232}

var systems = map[string]System{
	// ETRS89 / LAEA Europe
	"EPSG:3035": {
		Ellipsoid:  GRS80,
		Projection: LambertAzimuthalEqualArea(GRS80, 52, 10, 4321000, 3210000),
	},
	// MGI / Austria Lambert
	"EPSG:31287": {
		Ellipsoid:  Bessel1841,
		Shift:      &MGI,
		Projection: LambertConformalConic(Bessel1841, 47.5, 13+1.0/3, 49, 46, 400000, 400000),
	},
	// MGI / Austria GK M31
	"EPSG:31258": {
		Ellipsoid:  Bessel1841,
		Shift:      &MGI,
		Projection: TransverseMercator(Bessel1841, 0, 13+1.0/3, 1, 450000, -5000000),
	},
}

// Lookup returns the system registered under an EPSG code such as "EPSG:3035".
func Lookup(code string) (System, bool) {
	s, ok := systems[code]
	return s, ok
}

// Codes returns the registered codes in sorted order.
func Codes() []string {
	codes := make([]string, 0, len(systems))
	for c := range systems {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return codes
}
