package geodesy

import "math"

// Formulas follow the ellipsoidal forms of EPSG Guidance Note 7-2.

type laea struct {
	a, e, e2   float64
	lon0, lat0 float64
	fe, fn     float64

	qp, rq, d    float64
	sinB0, cosB0 float64
}

// LambertAzimuthalEqualArea returns the oblique Lambert azimuthal equal-area projection
// centred on lat0/lon0 (degrees).
func LambertAzimuthalEqualArea(ell Ellipsoid, lat0, lon0, fe, fn float64) Projection {
	e2 := ell.E2()
	p := &laea{a: ell.A, e: math.Sqrt(e2), e2: e2, lon0: lon0 * deg, lat0: lat0 * deg, fe: fe, fn: fn}
	p.qp = p.q(math.Pi / 2)
	p.rq = p.a * math.Sqrt(p.qp/2)
	b0 := asin(p.q(p.lat0) / p.qp)
	p.sinB0, p.cosB0 = math.Sincos(b0)
	sinLat0, cosLat0 := math.Sincos(p.lat0)
	p.d = p.a * (cosLat0 / math.Sqrt(1-e2*sinLat0*sinLat0)) / (p.rq * p.cosB0)
	return p
}

func (p *laea) q(phi float64) float64 {
	s := math.Sin(phi)
	return (1 - p.e2) * (s/(1-p.e2*s*s) - 1/(2*p.e)*math.Log((1-p.e*s)/(1+p.e*s)))
}

func (p *laea) Forward(lon, lat float64) (float64, float64) {
	beta := asin(p.q(lat) / p.qp)
	sinB, cosB := math.Sincos(beta)
	sinL, cosL := math.Sincos(lon - p.lon0)
	b := p.rq * math.Sqrt(2/(1+p.sinB0*sinB+p.cosB0*cosB*cosL))
	return p.fe + b*p.d*cosB*sinL,
		p.fn + b/p.d*(p.cosB0*sinB-p.sinB0*cosB*cosL)
}

func (p *laea) Inverse(x, y float64) (float64, float64) {
	dx, dy := x-p.fe, y-p.fn
	rho := math.Hypot(dx/p.d, p.d*dy)
	if rho < 1e-9 {
		return p.lon0, p.lat0
	}
	c := 2 * asin(rho/(2*p.rq))
	sinC, cosC := math.Sincos(c)
	beta := asin(cosC*p.sinB0 + p.d*dy*sinC*p.cosB0/rho)
	lon := p.lon0 + math.Atan2(dx*sinC, p.d*rho*p.cosB0*cosC-p.d*p.d*dy*p.sinB0*sinC)

	e4 := p.e2 * p.e2
	e6 := e4 * p.e2
	lat := beta +
		(p.e2/3+31*e4/180+517*e6/5040)*math.Sin(2*beta) +
		(23*e4/360+251*e6/3780)*math.Sin(4*beta) +
		(761*e6/45360)*math.Sin(6*beta)
	return lon, lat
}

type lcc struct {
	a, e     float64
	lon0     float64
	fe, fn   float64
	n, f, rf float64
}

// LambertConformalConic returns the two standard parallel Lambert conformal conic
// projection with false origin at lat0/lon0 (degrees).
func LambertConformalConic(ell Ellipsoid, lat0, lon0, lat1, lat2, fe, fn float64) Projection {
	p := &lcc{a: ell.A, e: math.Sqrt(ell.E2()), lon0: lon0 * deg, fe: fe, fn: fn}
	phi1, phi2 := lat1*deg, lat2*deg
	m1, t1 := p.m(phi1), p.t(phi1)
	if math.Abs(phi1-phi2) < 1e-12 {
		p.n = math.Sin(phi1)
	} else {
		p.n = (math.Log(m1) - math.Log(p.m(phi2))) / (math.Log(t1) - math.Log(p.t(phi2)))
	}
	p.f = m1 / (p.n * math.Pow(t1, p.n))
	p.rf = p.a * p.f * math.Pow(p.t(lat0*deg), p.n)
	return p
}

func (p *lcc) m(phi float64) float64 {
	s := math.Sin(phi)
	return math.Cos(phi) / math.Sqrt(1-p.e*p.e*s*s)
}

func (p *lcc) t(phi float64) float64 {
	s := math.Sin(phi)
	return math.Tan(math.Pi/4-phi/2) / math.Pow((1-p.e*s)/(1+p.e*s), p.e/2)
}

func (p *lcc) Forward(lon, lat float64) (float64, float64) {
	r := p.a * p.f * math.Pow(p.t(lat), p.n)
	theta := p.n * (lon - p.lon0)
	return p.fe + r*math.Sin(theta), p.fn + p.rf - r*math.Cos(theta)
}

func (p *lcc) Inverse(x, y float64) (float64, float64) {
	dx, dy := x-p.fe, p.rf-(y-p.fn)
	r := math.Copysign(math.Hypot(dx, dy), p.n)
	if p.n < 0 {
		dx, dy = -dx, -dy
	}
	theta := math.Atan2(dx, dy)
	t := math.Pow(r/(p.a*p.f), 1/p.n)

	lat := math.Pi/2 - 2*math.Atan(t)
	for i := 0; i < 15; i++ {
		s := math.Sin(lat)
		next := math.Pi/2 - 2*math.Atan(t*math.Pow((1-p.e*s)/(1+p.e*s), p.e/2))
		if math.Abs(next-lat) < 1e-14 {
			lat = next
			break
		}
		lat = next
	}
	return theta/p.n + p.lon0, lat
}

type tmerc struct {
	a, e2, ep2, k0 float64
	lon0, m0       float64
	fe, fn         float64
}

// TransverseMercator returns the transverse Mercator projection with natural origin at
// lat0/lon0 (degrees) and scale factor k0. The series is accurate to well below a
// millimetre within a few degrees of the central meridian.
func TransverseMercator(ell Ellipsoid, lat0, lon0, k0, fe, fn float64) Projection {
	e2 := ell.E2()
	p := &tmerc{a: ell.A, e2: e2, ep2: e2 / (1 - e2), k0: k0, lon0: lon0 * deg, fe: fe, fn: fn}
	p.m0 = p.meridian(lat0 * deg)
	return p
}

// meridian returns the meridian arc length from the equator to phi.
func (p *tmerc) meridian(phi float64) float64 {
	e2 := p.e2
	e4 := e2 * e2
	e6 := e4 * e2
	return p.a * ((1-e2/4-3*e4/64-5*e6/256)*phi -
		(3*e2/8+3*e4/32+45*e6/1024)*math.Sin(2*phi) +
		(15*e4/256+45*e6/1024)*math.Sin(4*phi) -
		(35*e6/3072)*math.Sin(6*phi))
}

func (p *tmerc) Forward(lon, lat float64) (float64, float64) {
	sinP, cosP := math.Sincos(lat)
	tanP := sinP / cosP
	nu := p.a / math.Sqrt(1-p.e2*sinP*sinP)
	t := tanP * tanP
	c := p.ep2 * cosP * cosP
	a := (lon - p.lon0) * cosP
	a2 := a * a

	x := p.fe + p.k0*nu*(a+
		(1-t+c)*a*a2/6+
		(5-18*t+t*t+72*c-58*p.ep2)*a*a2*a2/120)
	y := p.fn + p.k0*(p.meridian(lat)-p.m0+nu*tanP*(a2/2+
		(5-t+9*c+4*c*c)*a2*a2/24+
		(61-58*t+t*t+600*c-330*p.ep2)*a2*a2*a2/720))
	return x, y
}

func (p *tmerc) Inverse(x, y float64) (float64, float64) {
	e2 := p.e2
	e4 := e2 * e2
	e6 := e4 * e2
	mu := (p.m0 + (y-p.fn)/p.k0) / (p.a * (1 - e2/4 - 3*e4/64 - 5*e6/256))
	sq := math.Sqrt(1 - e2)
	e1 := (1 - sq) / (1 + sq)
	e12 := e1 * e1
	phi1 := mu +
		(3*e1/2-27*e1*e12/32)*math.Sin(2*mu) +
		(21*e12/16-55*e12*e12/32)*math.Sin(4*mu) +
		(151*e1*e12/96)*math.Sin(6*mu) +
		(1097*e12*e12/512)*math.Sin(8*mu)

	sinP, cosP := math.Sincos(phi1)
	tanP := sinP / cosP
	w := 1 - e2*sinP*sinP
	nu1 := p.a / math.Sqrt(w)
	rho1 := p.a * (1 - e2) / (w * math.Sqrt(w))
	t1 := tanP * tanP
	c1 := p.ep2 * cosP * cosP
	d := (x - p.fe) / (nu1 * p.k0)
	d2 := d * d

	lat := phi1 - (nu1*tanP/rho1)*(d2/2-
		(5+3*t1+10*c1-4*c1*c1-9*p.ep2)*d2*d2/24+
		(61+90*t1+298*c1+45*t1*t1-252*p.ep2-3*c1*c1)*d2*d2*d2/720)
	lon := p.lon0 + (d-
		(1+2*t1+c1)*d*d2/6+
		(5-2*c1+28*t1-3*c1*c1+8*p.ep2+24*t1*t1)*d*d2*d2/120)/cosP
	return lon, lat
}

// asin clamps rounding noise just outside [-1, 1].
func asin(v float64) float64 {
	return math.Asin(math.Max(-1, math.Min(1, v)))
}
