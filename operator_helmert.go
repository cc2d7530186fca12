package geodesy

import "math"

var helmertGamut = []OpParameter{
	flagParam("inv"),
	textParam("datum", ""),
	realParam("tx", 0),
	realParam("ty", 0),
	realParam("tz", 0),
	realParam("s", 0),
	realParam("rx", 0),
	realParam("ry", 0),
	realParam("rz", 0),
}

// newHelmertOp builds the 7-parameter (Bursa-Wolf) datum-shift operator
// (SPEC_FULL §HELMERT), ported from the predecessor library's
// Cartesian.applyTransform/ConvertDatum. It works on geocentric
// cartesian (x, y, z), not geographic coordinates — pair it with a
// geographic<->geocentric conversion step in the pipeline.
//
// datum=<name> is a convenience that supplies tx/ty/tz/s/rx/ry/rz from
// the named datum's published transform-to-WGS84 when the caller omits
// them; any parameter given explicitly overrides the datum's value.
func newHelmertOp(raw RawParameters, _ Context) (*Op, error) {
	args := raw.Args
	if datumName, ok := args["datum"]; ok && datumName != "" {
		datum, err := LookupDatum(datumName)
		if err != nil {
			return nil, err
		}
		withDefaults := map[string]string{
			"tx": formatFloat(datum.Transform[0]),
			"ty": formatFloat(datum.Transform[1]),
			"tz": formatFloat(datum.Transform[2]),
			"s":  formatFloat(datum.Transform[3]),
			"rx": formatFloat(datum.Transform[4]),
			"ry": formatFloat(datum.Transform[5]),
			"rz": formatFloat(datum.Transform[6]),
		}
		for k, v := range args {
			withDefaults[k] = v
		}
		args = withDefaults
	}

	params, err := ParseParameters(RawParameters{
		Definition: raw.Definition,
		Name:       raw.Name,
		Args:       args,
		Globals:    raw.Globals,
	}, helmertGamut)
	if err != nil {
		return nil, err
	}

	return &Op{
		descriptor: OpDescriptor{Definition: raw.Definition, Fwd: helmertFwd, Inv: helmertInv},
		params:     params,
	}, nil
}

const arcsecToRadians = math.Pi / (180 * 3600)

func helmertApply(params ParsedParameters, sign float64, v [4]float64) [4]float64 {
	tx := sign * params.RealValue("tx")
	ty := sign * params.RealValue("ty")
	tz := sign * params.RealValue("tz")
	s1 := sign*params.RealValue("s")/1e6 + 1
	rx := sign * params.RealValue("rx") * arcsecToRadians
	ry := sign * params.RealValue("ry") * arcsecToRadians
	rz := sign * params.RealValue("rz") * arcsecToRadians

	x, y, z := v[0], v[1], v[2]
	v[0] = tx + x*s1 - y*rz + z*ry
	v[1] = ty + x*rz + y*s1 - z*rx
	v[2] = tz - x*ry + y*rx + z*s1
	return v
}

func helmertFwd(op *Op, _ Context, coords *CoordinateSet) int {
	n := coords.Len()
	for i := 0; i < n; i++ {
		coords.Set(i, helmertApply(op.params, 1, coords.Get(i)))
	}
	return n
}

// helmertInv applies the small-angle inverse: negate every parameter
// and reapply. Exact for a pure translation, a first-order
// approximation for the scale and the rotations — the same approximation the
// predecessor library's ConvertDatum makes, adequate at arc-second
// rotation magnitudes.
func helmertInv(op *Op, _ Context, coords *CoordinateSet) int {
	n := coords.Len()
	for i := 0; i < n; i++ {
		coords.Set(i, helmertApply(op.params, -1, coords.Get(i)))
	}
	return n
}
