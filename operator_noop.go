package geodesy

// noopGamut holds only the universal inv flag: longlat and its aliases
// take no other parameters.
var noopGamut = []OpParameter{flagParam("inv")}

// newNoopOp builds the identity operator under any of its aliases
// (spec §4.3.1): longlat, latlong, latlon, lonlat, noop. It never
// touches the coordinate buffer; inv is accepted but has no effect
// since identity is its own inverse.
func newNoopOp(raw RawParameters, _ Context) (*Op, error) {
	return newLeafOp(raw, noopGamut, noopKernel, noopKernel)
}

func noopKernel(_ *Op, _ Context, coords *CoordinateSet) int {
	return coords.Len()
}
