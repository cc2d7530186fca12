package geodesy

// builtinOperators returns the operator constructor table every new
// Context starts with (spec §4.3): the identity aliases, the unit
// rescaler, the two map projections, and the geocentric datum shift.
func builtinOperators() map[string]OpConstructor {
	return map[string]OpConstructor{
		"noop":    newNoopOp,
		"longlat": newNoopOp,
		"latlong": newNoopOp,
		"latlon":  newNoopOp,
		"lonlat":  newNoopOp,

		"unitconvert": newUnitConvertOp,
		"senmerc":     newSenmercOp,
		"somerc":      newSomercOp,
		"helmert":     newHelmertOp,
	}
}
