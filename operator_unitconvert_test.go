package geodesy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitConvert_KmToMetres(t *testing.T) {
	ctx := NewContext()
	handle, err := ctx.Op("unitconvert xy_in=km xy_out=m z_in=km z_out=m")
	require.NoError(t, err)

	coords, err := NewCoordinateSet([]float64{1, 2, 3, 0})
	require.NoError(t, err)

	n, err := ctx.Apply(handle, Fwd, coords)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	v := coords.Get(0)
	assert.InDelta(t, 1000, v[0], 1e-9)
	assert.InDelta(t, 2000, v[1], 1e-9)
	assert.InDelta(t, 3000, v[2], 1e-9)
}

func TestUnitConvert_RoundTrip_USFeetUSYards(t *testing.T) {
	ctx := NewContext()
	handle, err := ctx.Op("unitconvert xy_in=us-ft xy_out=us-yd")
	require.NoError(t, err)

	orig := []float64{3, 0, 0, 0}
	coords, err := NewCoordinateSet(append([]float64(nil), orig...))
	require.NoError(t, err)

	_, err = ctx.Apply(handle, Fwd, coords)
	require.NoError(t, err)
	assert.InDelta(t, 1, coords.Get(0)[0], 1e-9) // 3 us-ft == 1 us-yd

	_, err = ctx.Apply(handle, Inv, coords)
	require.NoError(t, err)
	assert.InDelta(t, orig[0], coords.Get(0)[0], 1e-9)
}

func TestUnitConvert_UnknownUnit(t *testing.T) {
	ctx := NewContext()
	_, err := ctx.Op("unitconvert xy_in=furlongs")
	require.ErrorIs(t, err, ErrMalformedValue)
}
