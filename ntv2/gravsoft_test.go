package ntv2

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGravsoft_WriteReadRoundTrip(t *testing.T) {
	orig, err := Read(bytes.NewReader(buildTestGrid(t)))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteGravsoft(&buf, orig))

	got, err := ReadGravsoft(&buf)
	require.NoError(t, err)

	require.Equal(t, orig.rows, got.rows)
	require.Equal(t, orig.cols, got.cols)
	assert.InDelta(t, orig.sLat, got.sLat, 1e-9)
	assert.InDelta(t, orig.wLon, got.wLon, 1e-9)

	for row := 0; row < orig.rows; row++ {
		for col := 0; col < orig.cols; col++ {
			assert.InDelta(t, orig.shifts[row][col][0], got.shifts[row][col][0], 1e-9, "row %d col %d lat shift", row, col)
			assert.InDelta(t, orig.shifts[row][col][1], got.shifts[row][col][1], 1e-9, "row %d col %d lon shift", row, col)
		}
	}
}

func TestReadGravsoft_InvertedBoundsRejected(t *testing.T) {
	bad := "0 1 0 1 1 1\n1 2 3 4\n"
	_, err := ReadGravsoft(bytes.NewReader([]byte(bad)))
	require.ErrorIs(t, err, ErrBadHeader)
}

func TestReadGravsoft_TruncatedRowsRejected(t *testing.T) {
	bad := "1 0 0 1 1 1\n1 2 3 4\n"
	_, err := ReadGravsoft(bytes.NewReader([]byte(bad)))
	require.ErrorIs(t, err, ErrTruncated)
}
