package geodesy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupEllipsoid_Named(t *testing.T) {
	e, err := LookupEllipsoid("WGS84")
	require.NoError(t, err)
	assert.Equal(t, 6378137.0, e.A)
}

func TestLookupEllipsoid_DefaultsWhenEmpty(t *testing.T) {
	e, err := LookupEllipsoid("")
	require.NoError(t, err)
	assert.Equal(t, "GRS80", e.Name)
}

func TestLookupEllipsoid_BareRadiusIsSphere(t *testing.T) {
	e, err := LookupEllipsoid("6371000")
	require.NoError(t, err)
	assert.Equal(t, 6371000.0, e.A)
	assert.Equal(t, 6371000.0, e.B)
	assert.Equal(t, 0.0, e.F)
}

func TestLookupEllipsoid_Unknown(t *testing.T) {
	_, err := LookupEllipsoid("not-a-real-ellipsoid")
	require.ErrorIs(t, err, ErrMalformedValue)
}

func TestLookupDatum(t *testing.T) {
	d, err := LookupDatum("OSGB36")
	require.NoError(t, err)
	assert.Equal(t, "Airy1830", d.Ellipsoid.Name)
	assert.InDelta(t, -446.448, d.Transform[0], 1e-9)
}

func TestLookupDatum_Unknown(t *testing.T) {
	_, err := LookupDatum("nope")
	require.ErrorIs(t, err, ErrMalformedValue)
}
