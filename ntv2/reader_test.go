package ntv2

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildTestGridOrder assembles a minimal, well-formed 2x2 NTv2 byte
// stream under the given byte order, covering a one-degree-square cell,
// so reader.go's header parsing, subgrid parsing, east-to-west ->
// west-to-east column reordering and byte-order detection can all be exercised
// without a real distributed grid file.
func buildTestGridOrder(t *testing.T, order binary.ByteOrder) []byte {
	t.Helper()
	buf := &bytes.Buffer{}

	writeHeaderRecord := func(name string, value interface{}) {
		var nameBytes [8]byte
		copy(nameBytes[:], name)
		buf.Write(nameBytes[:])
		switch v := value.(type) {
		case int32:
			var b [8]byte
			order.PutUint32(b[:4], uint32(v))
			buf.Write(b[:])
		case float64:
			var b [8]byte
			order.PutUint64(b[:], math.Float64bits(v))
			buf.Write(b[:])
		case string:
			var b [8]byte
			copy(b[:], v)
			buf.Write(b[:])
		default:
			t.Fatalf("unsupported header value type %T", v)
		}
	}

	// overview header
	writeHeaderRecord("NUM_OREC", int32(11))
	writeHeaderRecord("NUM_SREC", int32(11))
	writeHeaderRecord("NUM_FILE", int32(1))
	writeHeaderRecord("GS_TYPE ", "SECONDS ")
	writeHeaderRecord("VERSION ", "TEST    ")
	writeHeaderRecord("SYSTEM_F", "WGS84   ")
	writeHeaderRecord("SYSTEM_T", "WGS84   ")
	writeHeaderRecord("MAJOR_F ", 6378137.0)
	writeHeaderRecord("MINOR_F ", 6356752.3)
	writeHeaderRecord("MAJOR_T ", 6378137.0)
	writeHeaderRecord("MINOR_T ", 6356752.3)

	// subgrid header: 1 degree square, 2x2 nodes
	writeHeaderRecord("SUB_NAME", "TEST    ")
	writeHeaderRecord("PARENT  ", "NONE    ")
	writeHeaderRecord("CREATED ", "01012020")
	writeHeaderRecord("UPDATED ", "01012020")
	writeHeaderRecord("S_LAT   ", 0.0)
	writeHeaderRecord("N_LAT   ", 3600.0)
	writeHeaderRecord("E_LONG  ", 0.0)
	writeHeaderRecord("W_LONG  ", 3600.0)
	writeHeaderRecord("LAT_INC ", 3600.0)
	writeHeaderRecord("LONG_INC", 3600.0)
	writeHeaderRecord("GS_COUNT", int32(4))

	writeData := func(ns, ew, nsAcc, ewAcc float32) {
		var b [16]byte
		order.PutUint32(b[0:4], math.Float32bits(ns))
		order.PutUint32(b[4:8], math.Float32bits(ew))
		order.PutUint32(b[8:12], math.Float32bits(nsAcc))
		order.PutUint32(b[12:16], math.Float32bits(ewAcc))
		buf.Write(b[:])
	}

	// file order: south row first, each row east (fileCol 0) to west.
	writeData(10, 20, 0, 0) // south, east   -> canonical col 1
	writeData(30, 40, 0, 0) // south, west   -> canonical col 0
	writeData(50, 60, 0, 0) // north, east   -> canonical col 1
	writeData(70, 80, 0, 0) // north, west   -> canonical col 0

	return buf.Bytes()
}

// buildTestGrid is the little-endian fixture used by most of this
// file's tests.
func buildTestGrid(t *testing.T) []byte {
	t.Helper()
	return buildTestGridOrder(t, binary.LittleEndian)
}

// buildTestGridBigEndian is the big-endian counterpart, used to prove
// detectOrder's big-endian branch actually round-trips a grid rather
// than being exercised only incidentally.
func buildTestGridBigEndian(t *testing.T) []byte {
	t.Helper()
	return buildTestGridOrder(t, binary.BigEndian)
}

func TestRead_ParsesHeaderAndReordersRows(t *testing.T) {
	g, err := Read(bytes.NewReader(buildTestGrid(t)))
	require.NoError(t, err)
	assert.Equal(t, "TEST", g.Name())
	assert.Equal(t, 2, g.rows)
	assert.Equal(t, 2, g.cols)

	// south-west node (row 0, col 0) came from the south/west file record (30, 40).
	dlon, dlat, ok := g.Shift(g.wLon, g.sLat)
	require.True(t, ok)
	assert.InDelta(t, 30*arcsecToRadians, dlat, 1e-15)
	assert.InDelta(t, -40*arcsecToRadians, dlon, 1e-15)

	// south-east node (row 0, col 1) came from the south/east file record (10, 20).
	dlon, dlat, ok = g.Shift(0, g.sLat)
	require.True(t, ok)
	assert.InDelta(t, 10*arcsecToRadians, dlat, 1e-15)
	assert.InDelta(t, -20*arcsecToRadians, dlon, 1e-15)
}

func TestRead_DetectsBigEndian(t *testing.T) {
	g, err := Read(bytes.NewReader(buildTestGridBigEndian(t)))
	require.NoError(t, err)
	assert.Equal(t, "TEST", g.Name())
	assert.Equal(t, 2, g.rows)
	assert.Equal(t, 2, g.cols)

	dlon, dlat, ok := g.Shift(g.wLon, g.sLat)
	require.True(t, ok)
	assert.InDelta(t, 30*arcsecToRadians, dlat, 1e-15)
	assert.InDelta(t, -40*arcsecToRadians, dlon, 1e-15)

	dlon, dlat, ok = g.Shift(0, g.sLat)
	require.True(t, ok)
	assert.InDelta(t, 10*arcsecToRadians, dlat, 1e-15)
	assert.InDelta(t, -20*arcsecToRadians, dlon, 1e-15)
}

func TestRead_OutOfBounds(t *testing.T) {
	g, err := Read(bytes.NewReader(buildTestGrid(t)))
	require.NoError(t, err)
	_, _, ok := g.Shift(10, 10)
	assert.False(t, ok)
}

func TestRead_Center(t *testing.T) {
	g, err := Read(bytes.NewReader(buildTestGrid(t)))
	require.NoError(t, err)
	lon, lat, ok := g.Center()
	require.True(t, ok)
	assert.InDelta(t, -0.5*math.Pi/180, lon, 1e-9)
	assert.InDelta(t, 0.5*math.Pi/180, lat, 1e-9)
}

func TestRead_Truncated(t *testing.T) {
	_, err := Read(bytes.NewReader(make([]byte, 10)))
	require.ErrorIs(t, err, ErrTruncated)
}

func TestRead_WrongGSType(t *testing.T) {
	raw := buildTestGrid(t)
	// GS_TYPE value lives at record 3, offset 3*16+8 in the overview header.
	copy(raw[3*16+8:3*16+16], "DEGREES ")
	_, err := Read(bytes.NewReader(raw))
	require.ErrorIs(t, err, ErrUnsupportedGS)
}
