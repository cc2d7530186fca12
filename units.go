package geodesy

import "github.com/pkg/errors"

// linearUnit is a named unit of length with its conversion to metres.
// Values and identifiers follow PROJ's units table (src/units.cpp), the
// same source the predecessor library cites for its own unit list.
type linearUnit struct {
	Key       string
	ToMeters  float64
}

var linearUnits = buildLinearUnits([]linearUnit{
	{"km", 1000.0},
	{"m", 1.0},
	{"dm", 0.1},
	{"cm", 0.01},
	{"mm", 0.001},
	{"kmi", 1852.0},            // international nautical mile
	{"in", 0.0254},             // international inch
	{"ft", 0.3048},             // international foot
	{"yd", 0.9144},             // international yard
	{"mi", 1609.344},           // international statute mile
	{"fath", 1.8288},           // international fathom
	{"ch", 20.1168},            // international chain
	{"link", 0.201168},         // international link
	{"us-in", 100.0 / 3937.0},  // U.S. surveyor's inch
	{"us-ft", 1200.0 / 3937.0}, // U.S. surveyor's foot
	{"us-yd", 3600.0 / 3937.0}, // U.S. surveyor's yard
	{"us-ch", 79200.0 / 3937.0},  // U.S. surveyor's chain
	{"us-mi", 6336000.0 / 3937.0}, // U.S. surveyor's statute mile
	{"ind-yd", 0.91439523},     // Indian yard
	{"ind-ft", 0.30479841},     // Indian foot
	{"ind-ch", 20.11669506},    // Indian chain
})

func buildLinearUnits(units []linearUnit) map[string]linearUnit {
	m := make(map[string]linearUnit, len(units))
	for _, u := range units {
		m[u.Key] = u
	}
	return m
}

// lookupLinearUnit returns the metres-per-unit factor for key, failing
// with ErrMalformedValue when key is not in the units table (spec §4.2).
func lookupLinearUnit(key string) (float64, error) {
	u, ok := linearUnits[key]
	if !ok {
		return 0, errors.Wrapf(ErrMalformedValue, "unknown linear unit %q", key)
	}
	return u.ToMeters, nil
}
