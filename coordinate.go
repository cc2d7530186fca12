package geodesy

import "math"

// CoordinateSet is a flat, mutable buffer of 4D coordinates (spec §3, §4.1).
// Each coordinate occupies 4 consecutive f64 slots; angular values are
// stored in radians, linear values in metres, time in seconds. This is the
// engine's hot path: Get/Set do no allocation.
type CoordinateSet struct {
	buffer []float64
}

const coordDim = 4

// NewCoordinateSet wraps buf directly (no copy). It fails when buf's
// length is not a multiple of 4.
func NewCoordinateSet(buf []float64) (*CoordinateSet, error) {
	if len(buf)%coordDim != 0 {
		return nil, ErrBadCoordLength
	}
	return &CoordinateSet{buffer: buf}, nil
}

// NewFromGeographic builds a coordinate set from a flat buffer of
// (lat, lon, h, t) quadruples in degrees, converting angles to radians and
// swapping to the internal (lon, lat, h, t) order.
func NewFromGeographic(buf []float64) (*CoordinateSet, error) {
	cs, err := NewCoordinateSet(append([]float64(nil), buf...))
	if err != nil {
		return nil, err
	}
	for i := 0; i < cs.Len(); i++ {
		base := i * coordDim
		lat := cs.buffer[base]
		lon := cs.buffer[base+1]
		cs.buffer[base] = lon * math.Pi / 180
		cs.buffer[base+1] = lat * math.Pi / 180
	}
	return cs, nil
}

// NewFromGIS builds a coordinate set from a flat buffer of (lon, lat, h, t)
// quadruples in degrees, converting angles to radians. No axis swap.
func NewFromGIS(buf []float64) (*CoordinateSet, error) {
	cs, err := NewCoordinateSet(append([]float64(nil), buf...))
	if err != nil {
		return nil, err
	}
	for i := 0; i < cs.Len(); i++ {
		base := i * coordDim
		cs.buffer[base] *= math.Pi / 180
		cs.buffer[base+1] *= math.Pi / 180
	}
	return cs, nil
}

// Len returns the number of 4-tuples in the set.
func (c *CoordinateSet) Len() int {
	return len(c.buffer) / coordDim
}

// Get returns the i'th coordinate as a 4-element array.
func (c *CoordinateSet) Get(i int) [4]float64 {
	base := i * coordDim
	return [4]float64{c.buffer[base], c.buffer[base+1], c.buffer[base+2], c.buffer[base+3]}
}

// Set writes the i'th coordinate in place.
func (c *CoordinateSet) Set(i int, v [4]float64) {
	base := i * coordDim
	c.buffer[base] = v[0]
	c.buffer[base+1] = v[1]
	c.buffer[base+2] = v[2]
	c.buffer[base+3] = v[3]
}

// Raw returns the underlying flat buffer (lon, lat, h, t / radians form).
func (c *CoordinateSet) Raw() []float64 {
	return c.buffer
}

// ToGeographic reads the set out as a flat buffer of (lat, lon, h, t)
// quadruples in degrees — the inverse of NewFromGeographic.
func (c *CoordinateSet) ToGeographic() []float64 {
	out := make([]float64, len(c.buffer))
	copy(out, c.buffer)
	for i := 0; i < c.Len(); i++ {
		base := i * coordDim
		lon := out[base]
		lat := out[base+1]
		out[base] = lat * 180 / math.Pi
		out[base+1] = lon * 180 / math.Pi
	}
	return out
}

// ToGIS reads the set out as a flat buffer of (lon, lat, h, t) quadruples
// in degrees — the inverse of NewFromGIS.
func (c *CoordinateSet) ToGIS() []float64 {
	out := make([]float64, len(c.buffer))
	copy(out, c.buffer)
	for i := 0; i < c.Len(); i++ {
		base := i * coordDim
		out[base] *= 180 / math.Pi
		out[base+1] *= 180 / math.Pi
	}
	return out
}
