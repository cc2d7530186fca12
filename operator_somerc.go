package geodesy

import "math"

var somercGamut = []OpParameter{
	flagParam("inv"),
	ellipsoidParam("ellps"),
	realParam("lon_0", 0),
	realParam("lat_0", 0),
	realParam("x_0", 0),
	realParam("y_0", 0),
	realParam("k_0", 1),
}

// somercParams is the precomputed invariant state derived once from an
// ellipsoid and the projection's origin (spec §4.3.4): the conformal
// sphere's scale c, the log-space constant k relating geodetic and
// conformal latitude at lat_0, and the scaled radius kR. Every
// forward/inverse call reuses these instead of rederiving them.
type somercParams struct {
	e, hlfE      float64
	c, k, kR     float64
	roneES       float64
	sinp0, cosp0 float64
}

// newSomercOp builds the Swiss oblique Mercator operator: a
// double-projection through a conformal sphere tangent at lat_0, used
// historically for CH1903/LV03 (spec §4.3.4).
func newSomercOp(raw RawParameters, _ Context) (*Op, error) {
	params, err := ParseParameters(raw, somercGamut)
	if err != nil {
		return nil, err
	}

	ell := params.Ellipsoid(0)
	e2 := ell.EccentricitySquared()
	e := math.Sqrt(e2)
	hlfE := 0.5 * e
	oneES := 1 - e2
	roneES := 1 / oneES

	// lon_0, x_0 and y_0 are declared in the GAMUT and validated, but (as
	// in the original) never enter the forward/inverse math below: the
	// projection's plane coordinates are the conformal-sphere (lonpp,
	// latpp) pair scaled by kR, full stop.
	lat0 := params.RealValue("lat_0") * math.Pi / 180

	sinLat0, cosLat0 := math.Sin(lat0), math.Cos(lat0)
	cosLat0sq := cosLat0 * cosLat0
	c := math.Sqrt(1 + e2*cosLat0sq*cosLat0sq*roneES)
	sinp0 := sinLat0 / c
	phip0 := aasin(sinp0)
	cosp0 := math.Cos(phip0)
	sp0 := sinLat0 * e

	// k is the additive log-space constant relating the geodetic
	// origin latitude to the conformal-sphere origin latitude; kept in
	// log space (rather than exponentiated into a multiplicative
	// factor) so the inverse's Newton iteration can use it directly,
	// exactly as the original does.
	k := math.Log(math.Tan(math.Pi/4+phip0/2)) -
		c*(math.Log(math.Tan(math.Pi/4+lat0/2))-hlfE*math.Log((1+sp0)/(1-sp0)))

	kR := params.RealValue("k_0") * ell.A * math.Sqrt(oneES) / (1 - sp0*sp0)

	sp := somercParams{
		e:      e,
		hlfE:   hlfE,
		c:      c,
		k:      k,
		kR:     kR,
		roneES: roneES,
		sinp0:  sinp0,
		cosp0:  cosp0,
	}
	params.Real["_e"] = sp.e
	params.Real["_hlfE"] = sp.hlfE
	params.Real["_c"] = sp.c
	params.Real["_k"] = sp.k
	params.Real["_kR"] = sp.kR
	params.Real["_roneES"] = sp.roneES
	params.Real["_sinp0"] = sp.sinp0
	params.Real["_cosp0"] = sp.cosp0

	return &Op{
		descriptor: OpDescriptor{Definition: raw.Definition, Fwd: somercFwd, Inv: somercInv},
		params:     params,
	}, nil
}

// oneTol is how far aasin lets its argument overshoot [-1, 1] before
// treating it as a genuine domain error rather than floating-point
// round-off (spec §4.3.4 Ancillary).
const oneTol = 1.00000000000001

// aasin is an arcsine tolerant of arguments that overshoot [-1, 1] by a
// small floating-point margin: it clamps to ±π/2 within oneTol of the
// unit interval, and returns NaN beyond it rather than silently
// clamping a genuinely out-of-domain value.
func aasin(v float64) float64 {
	if math.Abs(v) > oneTol {
		return math.NaN()
	}
	if v >= 1 {
		return math.Pi / 2
	}
	if v <= -1 {
		return -math.Pi / 2
	}
	return math.Asin(v)
}

func somercParamsOf(op *Op) somercParams {
	return somercParams{
		e:      op.params.RealValue("_e"),
		hlfE:   op.params.RealValue("_hlfE"),
		c:      op.params.RealValue("_c"),
		k:      op.params.RealValue("_k"),
		kR:     op.params.RealValue("_kR"),
		roneES: op.params.RealValue("_roneES"),
		sinp0:  op.params.RealValue("_sinp0"),
		cosp0:  op.params.RealValue("_cosp0"),
	}
}

func somercFwd(op *Op, _ Context, coords *CoordinateSet) int {
	p := somercParamsOf(op)
	n := coords.Len()
	success := 0
	for i := 0; i < n; i++ {
		v := coords.Get(i)
		lon, lat := v[0], v[1]

		sp := p.e * math.Sin(lat)
		latp := 2*math.Atan(math.Exp(p.c*(math.Log(math.Tan(math.Pi/4+lat/2))-p.hlfE*math.Log((1+sp)/(1-sp)))+p.k)) - math.Pi/2

		lonp := p.c * lon
		cp := math.Cos(latp)
		latpp := aasin(p.cosp0*math.Sin(latp) - p.sinp0*cp*math.Cos(lonp))
		lonpp := aasin(cp * math.Sin(lonp) / math.Cos(latpp))

		x := p.kR * lonpp
		y := p.kR * math.Log(math.Tan(math.Pi/4+latpp/2))

		v[0], v[1] = x, y
		coords.Set(i, v)
		if !math.IsNaN(x) && !math.IsNaN(y) {
			success++
		}
	}
	return success
}

// somercInvIterations bounds the Newton iteration recovering geodetic
// latitude from the conformal-sphere latitude; 6 iterations converge to
// well inside 1e-10 radians for any terrestrial ellipsoid eccentricity
// (spec §4.3.4, §7: non-convergence reduces the success count, it never
// panics).
const somercInvIterations = 6

func somercInv(op *Op, _ Context, coords *CoordinateSet) int {
	p := somercParamsOf(op)
	n := coords.Len()
	success := 0
	for i := 0; i < n; i++ {
		v := coords.Get(i)
		x, y := v[0], v[1]

		latpp := 2*(math.Atan(math.Exp(y/p.kR)) - math.Pi/4)
		lonpp := x / p.kR
		cp := math.Cos(latpp)

		latp := aasin(p.cosp0*math.Sin(latpp) + p.sinp0*cp*math.Cos(lonpp))
		lonp := aasin(cp * math.Sin(lonpp) / math.Cos(latp))
		con := (p.k - math.Log(math.Tan(math.Pi/4+latp/2))) / p.c

		converged := false
		for iter := 0; iter < somercInvIterations; iter++ {
			esp := p.e * math.Sin(latp)
			deltaP := (con + math.Log(math.Tan(math.Pi/4+latp/2)) - p.hlfE*math.Log((1+esp)/(1-esp))) *
				(1 - esp*esp) * math.Cos(latp) * p.roneES
			latp -= deltaP
			if math.Abs(deltaP) < 1e-10 {
				converged = true
				break
			}
		}

		lon := lonp / p.c
		lat := latp

		v[0], v[1] = lon, lat
		coords.Set(i, v)
		if converged && !math.IsNaN(lon) && !math.IsNaN(lat) {
			success++
		}
	}
	return success
}
