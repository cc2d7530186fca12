package geodesy

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// dmsFieldSeparator splits a sexagesimal string into its degree/minute/
// second fields: any run of characters that isn't a digit or a decimal
// point is treated as a separator (°, ′, ″, spaces, commas, ...).
var dmsFieldSeparator = regexp.MustCompile(`[^0-9.]+`)

// Wrap90 folds degrees into latitude's valid range [-90, 90] by
// reflecting at the poles (e.g. 91 -> 89, -91 -> -89), the way a
// triangle wave folds back on itself at each half-period.
func Wrap90(degrees float64) float64 {
	if degrees >= -90 && degrees <= 90 {
		return degrees
	}
	const amplitude, period = 90.0, 360.0
	return 4*amplitude/period*math.Abs(floorMod(degrees-period/4, period)-period/2) - amplitude
}

// Wrap180 folds degrees into longitude's valid range [-180, 180] by
// wrapping around the antimeridian (e.g. 181 -> -179, -181 -> 179).
func Wrap180(degrees float64) float64 {
	if degrees >= -180 && degrees <= 180 {
		return degrees
	}
	const amplitude, period = 180.0, 360.0
	return floorMod(2*amplitude*degrees/period-period/2, period) - amplitude
}

// Wrap360 folds degrees into a bearing's valid range [0, 360] (e.g.
// 361 -> 1, -1 -> 359).
func Wrap360(degrees float64) float64 {
	if degrees >= 0 && degrees <= 360 {
		return degrees
	}
	const amplitude, period = 180.0, 360.0
	return floorMod(2*amplitude*degrees/period, period)
}

// floorMod is Euclidean modulo: unlike Go's math.Mod (which follows the
// sign of x), floorMod(x, m) is always in [0, m) for m > 0. The Wrap*
// helpers above build their triangle/sawtooth waves on top of it.
func floorMod(x, m float64) float64 {
	return math.Mod(math.Mod(x, m)+m, m)
}

func invalid(s string) error {
	return fmt.Errorf("invalid degree: '%s'", s)
}

// ParseDegrees parses a coordinate component given as plain signed
// decimal degrees or as sexagesimal degrees/minutes/seconds, optionally
// suffixed with a compass letter (N, S, E, W), into decimal degrees. It
// is the flexible text-entry path cmd/geodesyctl uses for its -lat/-lon
// flags (SPEC_FULL §CLI) before handing coordinates to
// NewFromGeographic. Accepted examples: "-3.62", "3 37 12W",
// "3°37′12″W". Field separators may be any run of non-digit,
// non-decimal-point characters.
func ParseDegrees(s string) (float64, error) {
	orig := s
	s = strings.TrimSpace(s)

	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f, nil
	}
	if len(s) == 0 {
		return 0, invalid(orig)
	}

	negative := s[0] == '-'
	if s[0] == '-' || s[0] == '+' {
		s = s[1:]
	}
	s = strings.TrimSpace(s)
	if len(s) == 0 {
		return 0, invalid(orig)
	}

	switch s[len(s)-1] {
	case 'S', 'W':
		negative = true
		s = s[:len(s)-1]
	case 'N', 'E':
		s = s[:len(s)-1]
	}
	s = strings.TrimSpace(s)

	fields := dmsFieldSeparator.Split(s, -1)
	if fields[0] == "" {
		return 0, invalid(orig)
	}
	if fields[len(fields)-1] == "" {
		fields = fields[:len(fields)-1]
	}

	// Each successive field (degrees, minutes, seconds, ...) contributes
	// at 1/60th the weight of the one before it.
	sum, weight := 0.0, 1.0
	for _, field := range fields {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return 0, invalid(orig)
		}
		sum += v * weight
		weight /= 60.0
	}

	if negative {
		sum = -sum
	}
	return sum, nil
}
