package geodesy

import (
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

/* - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - -  */
/* Ellipsoid and datum registry, adapted for the somerc/senmerc/helmert operator kernels.         */
/* Ellipsoid parameters and Helmert transforms below are the standard published reference         */
/* values for each datum; see latlon-ellipsoidal-datum.go in the predecessor geodesy library.      */
/* - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - -  */

// Ellipsoid is a reference ellipsoid: semimajor axis a, semiminor axis b,
// and flattening f = (a-b)/a.
type Ellipsoid struct {
	Name string
	A    float64
	B    float64
	F    float64
}

// Eccentricity returns the first eccentricity e.
func (e Ellipsoid) Eccentricity() float64 {
	return math.Sqrt(2*e.F - e.F*e.F)
}

// EccentricitySquared returns e².
func (e Ellipsoid) EccentricitySquared() float64 {
	ecc := e.Eccentricity()
	return ecc * ecc
}

// DefaultEllipsoidName is the GAMUT fallback used when an operator's
// "ellps" parameter is absent (spec §3, §4.5).
const DefaultEllipsoidName = "GRS80"

var ellipsoids = map[string]Ellipsoid{
	"WGS84":         {Name: "WGS84", A: 6378137, B: 6356752.314245, F: 1 / 298.257223563},
	"GRS80":         {Name: "GRS80", A: 6378137, B: 6356752.314140, F: 1 / 298.257222101},
	"Airy1830":      {Name: "Airy1830", A: 6377563.396, B: 6356256.909, F: 1 / 299.3249646},
	"AiryModified":  {Name: "AiryModified", A: 6377340.189, B: 6356034.448, F: 1 / 299.3249646},
	"Bessel1841":    {Name: "Bessel1841", A: 6377397.155, B: 6356078.962818, F: 1 / 299.1528128},
	"Clarke1866":    {Name: "Clarke1866", A: 6378206.4, B: 6356583.8, F: 1 / 294.978698214},
	"Clarke1880IGN": {Name: "Clarke1880IGN", A: 6378249.2, B: 6356515.0, F: 1 / 293.466021294},
	"Intl1924":      {Name: "Intl1924", A: 6378388, B: 6356911.946, F: 1 / 297}, // aka Hayford
	"WGS72":         {Name: "WGS72", A: 6378135, B: 6356750.5, F: 1 / 298.26},
}

// LookupEllipsoid resolves a named ellipsoid, or constructs a sphere of
// radius r when name is a bare numeric radius (e.g. ellps=6371000 for a
// spherical earth).
func LookupEllipsoid(name string) (Ellipsoid, error) {
	if name == "" {
		name = DefaultEllipsoidName
	}
	if e, ok := ellipsoids[name]; ok {
		return e, nil
	}
	if r, err := strconv.ParseFloat(name, 64); err == nil {
		return Ellipsoid{Name: name, A: r, B: r, F: 0}, nil
	}
	return Ellipsoid{}, errors.Wrapf(ErrMalformedValue, "unknown ellipsoid %q", name)
}

// Datum pairs a reference ellipsoid with the 7-parameter Helmert transform
// that converts a geocentric coordinate on that datum to/from WGS84.
// Transform order is (tx, ty, tz, s, rx, ry, rz): translations in metres,
// scale in parts-per-million, rotations in arc-seconds.
type Datum struct {
	Name      string
	Ellipsoid Ellipsoid
	Transform [7]float64
}

var datums = map[string]Datum{
	"WGS84":      {Name: "WGS84", Ellipsoid: ellipsoids["WGS84"], Transform: [7]float64{0, 0, 0, 0, 0, 0, 0}},
	"ED50":       {Name: "ED50", Ellipsoid: ellipsoids["Intl1924"], Transform: [7]float64{89.5, 93.8, 123.1, -1.2, 0.0, 0.0, 0.156}},
	"Irl1975":    {Name: "Irl1975", Ellipsoid: ellipsoids["AiryModified"], Transform: [7]float64{-482.530, 130.596, -564.557, -8.150, 1.042, 0.214, 0.631}},
	"NAD27":      {Name: "NAD27", Ellipsoid: ellipsoids["Clarke1866"], Transform: [7]float64{8, -160, -176, 0, 0, 0, 0}},
	"NAD83":      {Name: "NAD83", Ellipsoid: ellipsoids["GRS80"], Transform: [7]float64{0.9956, -1.9103, -0.5215, -0.00062, 0.025915, 0.009426, 0.011599}},
	"NTF":        {Name: "NTF", Ellipsoid: ellipsoids["Clarke1880IGN"], Transform: [7]float64{168, 60, -320, 0, 0, 0, 0}},
	"OSGB36":     {Name: "OSGB36", Ellipsoid: ellipsoids["Airy1830"], Transform: [7]float64{-446.448, 125.157, -542.060, 20.4894, -0.1502, -0.2470, -0.8421}},
	"Potsdam":    {Name: "Potsdam", Ellipsoid: ellipsoids["Bessel1841"], Transform: [7]float64{-582, -105, -414, -8.3, 1.04, 0.35, -3.08}},
	"TokyoJapan": {Name: "TokyoJapan", Ellipsoid: ellipsoids["Bessel1841"], Transform: [7]float64{148, -507, -685, 0, 0, 0, 0}},
	"WGS72":      {Name: "WGS72", Ellipsoid: ellipsoids["WGS72"], Transform: [7]float64{0, 0, -4.5, -0.22, 0, 0, 0.554}},
}

// LookupDatum resolves a named datum for the helmert operator's datum=
// convenience parameter.
func LookupDatum(name string) (Datum, error) {
	if d, ok := datums[strings.TrimSpace(name)]; ok {
		return d, nil
	}
	return Datum{}, errors.Wrapf(ErrMalformedValue, "unknown datum %q", name)
}
