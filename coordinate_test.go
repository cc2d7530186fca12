package geodesy

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCoordinateSet_RejectsBadLength(t *testing.T) {
	_, err := NewCoordinateSet([]float64{1, 2, 3})
	require.ErrorIs(t, err, ErrBadCoordLength)
}

func TestNewFromGeographic_SwapsAndConverts(t *testing.T) {
	cs, err := NewFromGeographic([]float64{51.5, -0.1, 10, 0})
	require.NoError(t, err)
	require.Equal(t, 1, cs.Len())

	v := cs.Get(0)
	assert.InDelta(t, -0.1*math.Pi/180, v[0], 1e-12) // lon
	assert.InDelta(t, 51.5*math.Pi/180, v[1], 1e-12)  // lat
	assert.Equal(t, 10.0, v[2])

	back := cs.ToGeographic()
	assert.InDelta(t, 51.5, back[0], 1e-9)
	assert.InDelta(t, -0.1, back[1], 1e-9)
}

func TestNewFromGIS_NoSwap(t *testing.T) {
	cs, err := NewFromGIS([]float64{-0.1, 51.5, 10, 0})
	require.NoError(t, err)
	v := cs.Get(0)
	assert.InDelta(t, -0.1*math.Pi/180, v[0], 1e-12)
	assert.InDelta(t, 51.5*math.Pi/180, v[1], 1e-12)

	back := cs.ToGIS()
	assert.InDelta(t, -0.1, back[0], 1e-9)
	assert.InDelta(t, 51.5, back[1], 1e-9)
}

func TestCoordinateSet_SetGet(t *testing.T) {
	cs, err := NewCoordinateSet(make([]float64, 8))
	require.NoError(t, err)
	require.Equal(t, 2, cs.Len())

	cs.Set(1, [4]float64{1, 2, 3, 4})
	assert.Equal(t, [4]float64{0, 0, 0, 0}, cs.Get(0))
	assert.Equal(t, [4]float64{1, 2, 3, 4}, cs.Get(1))
}
