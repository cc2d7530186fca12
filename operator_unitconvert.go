package geodesy

var unitconvertGamut = []OpParameter{
	flagParam("inv"),
	textParam("xy_in", "m"),
	textParam("xy_out", "m"),
	textParam("z_in", "m"),
	textParam("z_out", "m"),
}

// newUnitConvertOp builds the unitconvert operator (spec §4.2): a pure
// linear rescale of the horizontal pair and the height, each governed by
// its own named unit and independent of the other. Units are resolved
// once at construction time and the resulting factors cached in Real so
// the kernel is a pair of multiplies per coordinate.
func newUnitConvertOp(raw RawParameters, _ Context) (*Op, error) {
	params, err := ParseParameters(raw, unitconvertGamut)
	if err != nil {
		return nil, err
	}

	xyIn, err := lookupLinearUnit(params.TextValue("xy_in"))
	if err != nil {
		return nil, err
	}
	xyOut, err := lookupLinearUnit(params.TextValue("xy_out"))
	if err != nil {
		return nil, err
	}
	zIn, err := lookupLinearUnit(params.TextValue("z_in"))
	if err != nil {
		return nil, err
	}
	zOut, err := lookupLinearUnit(params.TextValue("z_out"))
	if err != nil {
		return nil, err
	}

	params.Real["xy_factor"] = xyIn / xyOut
	params.Real["z_factor"] = zIn / zOut

	return &Op{
		descriptor: OpDescriptor{Definition: raw.Definition, Fwd: unitconvertFwd, Inv: unitconvertInv},
		params:     params,
	}, nil
}

func unitconvertFwd(op *Op, _ Context, coords *CoordinateSet) int {
	xyFactor := op.params.RealValue("xy_factor")
	zFactor := op.params.RealValue("z_factor")
	n := coords.Len()
	for i := 0; i < n; i++ {
		v := coords.Get(i)
		v[0] *= xyFactor
		v[1] *= xyFactor
		v[2] *= zFactor
		coords.Set(i, v)
	}
	return n
}

func unitconvertInv(op *Op, _ Context, coords *CoordinateSet) int {
	xyFactor := 1 / op.params.RealValue("xy_factor")
	zFactor := 1 / op.params.RealValue("z_factor")
	n := coords.Len()
	for i := 0; i < n; i++ {
		v := coords.Get(i)
		v[0] *= xyFactor
		v[1] *= xyFactor
		v[2] *= zFactor
		coords.Set(i, v)
	}
	return n
}
