package geodesy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseParameters_MissingRequired(t *testing.T) {
	gamut := []OpParameter{requiredRealParam("lat_0")}
	_, err := ParseParameters(RawParameters{Name: "somerc", Args: map[string]string{}}, gamut)
	require.ErrorIs(t, err, ErrMissingParameter)
}

func TestParseParameters_UnknownKey(t *testing.T) {
	gamut := []OpParameter{realParam("k_0", 1)}
	_, err := ParseParameters(RawParameters{Name: "x", Args: map[string]string{"bogus": "1"}}, gamut)
	require.ErrorIs(t, err, ErrUnknownParameter)
}

func TestParseParameters_MalformedReal(t *testing.T) {
	gamut := []OpParameter{realParam("k_0", 1)}
	_, err := ParseParameters(RawParameters{Name: "x", Args: map[string]string{"k_0": "abc"}}, gamut)
	require.ErrorIs(t, err, ErrMalformedValue)
}

func TestParseParameters_DefaultsAndGlobals(t *testing.T) {
	gamut := []OpParameter{realParam("k_0", 1), ellipsoidParam("ellps")}
	params, err := ParseParameters(RawParameters{
		Name:    "x",
		Args:    map[string]string{},
		Globals: map[string]string{"ellps": "WGS84"},
	}, gamut)
	require.NoError(t, err)
	assert.Equal(t, 1.0, params.RealValue("k_0"))
	assert.Equal(t, "WGS84", params.Ellipsoid(0).Name)
}

func TestOp_Apply_LeafIdentity(t *testing.T) {
	op, err := newLeafOp(RawParameters{Definition: "noop"}, noopGamut, noopKernel, noopKernel)
	require.NoError(t, err)

	coords, err := NewCoordinateSet([]float64{1, 2, 3, 4})
	require.NoError(t, err)

	n, err := op.Apply(nil, coords, Fwd)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, [4]float64{1, 2, 3, 4}, coords.Get(0))
}

func TestOp_Apply_InvFlagFlipsDirection(t *testing.T) {
	calledFwd, calledInv := false, false
	fwd := func(_ *Op, _ Context, c *CoordinateSet) int { calledFwd = true; return c.Len() }
	inv := func(_ *Op, _ Context, c *CoordinateSet) int { calledInv = true; return c.Len() }

	op, err := newLeafOp(RawParameters{
		Definition: "x inv",
		Args:       map[string]string{"inv": ""},
	}, []OpParameter{flagParam("inv")}, fwd, inv)
	require.NoError(t, err)

	coords, err := NewCoordinateSet([]float64{0, 0, 0, 0})
	require.NoError(t, err)

	_, err = op.Apply(nil, coords, Fwd)
	require.NoError(t, err)
	assert.True(t, calledInv, "inv flag should run the inverse kernel on a forward apply")
	assert.False(t, calledFwd)
}

func TestOp_Apply_CompositeReportsMinSuccess(t *testing.T) {
	full := func(_ *Op, _ Context, c *CoordinateSet) int { return c.Len() }
	partial := func(_ *Op, _ Context, c *CoordinateSet) int { return 1 }

	a, err := newLeafOp(RawParameters{Definition: "a"}, nil, full, full)
	require.NoError(t, err)
	b, err := newLeafOp(RawParameters{Definition: "b"}, nil, partial, partial)
	require.NoError(t, err)

	composite := &Op{descriptor: OpDescriptor{Definition: "a|b"}, steps: []*Op{a, b}}

	coords, err := NewCoordinateSet(make([]float64, 12)) // 3 coordinates
	require.NoError(t, err)

	n, err := composite.Apply(nil, coords, Fwd)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestOp_Apply_NoInverse(t *testing.T) {
	fwdOnly := func(_ *Op, _ Context, c *CoordinateSet) int { return c.Len() }
	op, err := newLeafOp(RawParameters{Definition: "x"}, nil, fwdOnly, nil)
	require.NoError(t, err)

	coords, err := NewCoordinateSet([]float64{0, 0, 0, 0})
	require.NoError(t, err)

	_, err = op.Apply(nil, coords, Inv)
	require.ErrorIs(t, err, ErrNoInverse)
}
