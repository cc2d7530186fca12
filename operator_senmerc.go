package geodesy

import "math"

var senmercGamut = []OpParameter{
	flagParam("inv"),
	ellipsoidParamDefault("ellps", "WGS84"),
}

// newSenmercOp builds the "Sensat Mercator" operator (spec §4.3.3): a
// plain spherical Mercator projection of (lon, lat) on the ellipsoid's
// semi-major axis, paired with a 3D height rescale by 1/cos(lat) in the
// forward direction. It is not a secant projection — there is no true-
// scale parallel parameter, only the ellipsoid's radius.
func newSenmercOp(raw RawParameters, _ Context) (*Op, error) {
	params, err := ParseParameters(raw, senmercGamut)
	if err != nil {
		return nil, err
	}

	return &Op{
		descriptor: OpDescriptor{Definition: raw.Definition, Fwd: senmercFwd, Inv: senmercInv},
		params:     params,
	}, nil
}

// senmercFwd projects (lon, lat) to (x, y) on the sphere of radius a.
// The height coordinate is rescaled by 1/cos(lat), the projection's
// local linear scale factor at that latitude; this grows without bound
// toward the poles, where it is allowed to go to +Inf/NaN rather than
// being clamped (spec §7 Open Question: senmerc at the poles).
func senmercFwd(op *Op, _ Context, coords *CoordinateSet) int {
	a := op.params.Ellipsoid(0).A

	n := coords.Len()
	success := 0
	for i := 0; i < n; i++ {
		v := coords.Get(i)
		lon, lat := v[0], v[1]

		x := a * lon
		y := a * math.Log(math.Tan(math.Pi/4+lat/2))
		z := v[2] / math.Cos(lat)

		v[0], v[1], v[2] = x, y, z
		coords.Set(i, v)
		if !math.IsNaN(x) && !math.IsNaN(y) {
			success++
		}
	}
	return success
}

// senmercInv is the inverse Mercator: the height factor undoes with a
// multiply by cos(lat), the mirror of the forward division.
func senmercInv(op *Op, _ Context, coords *CoordinateSet) int {
	a := op.params.Ellipsoid(0).A

	n := coords.Len()
	success := 0
	for i := 0; i < n; i++ {
		v := coords.Get(i)
		x, y := v[0], v[1]

		lon := x / a
		lat := 2*math.Atan(math.Exp(y/a)) - math.Pi/2
		z := v[2] * math.Cos(lat)

		v[0], v[1], v[2] = lon, lat, z
		coords.Set(i, v)
		if !math.IsNaN(lon) && !math.IsNaN(lat) {
			success++
		}
	}
	return success
}
