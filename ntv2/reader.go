// Package ntv2 reads NTv2 binary grid-shift files (spec §4.4): the
// format national mapping agencies (Canada, Australia, France, ...)
// publish for datum-shift corrections, a regular lat/long grid of
// (north, east) shift values at each node.
//
// This package never imports the root geodesy package. Grid implements
// geodesy.Grid structurally (same method set, no shared type), so a
// Context can register an *ntv2.Grid without either package depending
// on the other.
package ntv2

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"

	"github.com/pkg/errors"
)

// recordSize is the width, in bytes, of every fixed-format record in an
// NTv2 file: an 8-byte field name followed by an 8-byte value. Data
// records reuse the same 16-byte stride for four float32 fields.
const recordSize = 16

const headerRecordCount = 11 // 11 records * 16 bytes = 176-byte header

var (
	ErrTruncated     = errors.New("ntv2: file truncated")
	ErrBadHeader     = errors.New("ntv2: malformed header")
	ErrMultiSubgrid  = errors.New("ntv2: multiple subgrids not supported")
	ErrUnsupportedGS = errors.New("ntv2: grid-shift type not SECONDS")
)

const arcsecToRadians = math.Pi / (180 * 3600)

// Grid is an in-memory NTv2 shift grid: a regular lat/lon mesh of
// (north, east) corrections in radians, indexed south-to-north,
// west-to-east, with bilinear interpolation between nodes.
type Grid struct {
	name string

	sLat, wLon     float64 // radians, south-west corner
	latInc, lonInc float64 // radians, node spacing
	rows, cols     int

	// shifts[row][col] holds (dlat, dlon) in radians, row 0 = south,
	// col 0 = west.
	shifts [][][2]float64
}

// Read parses an NTv2 binary grid-shift file containing exactly one
// subgrid (spec §4.4 Non-goals: multi-subgrid hierarchies are out of
// scope). Endianness is auto-detected from the overview header's
// NUM_OREC field.
func Read(r io.Reader) (*Grid, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "ntv2: read")
	}
	if len(raw) < headerRecordCount*recordSize {
		return nil, ErrTruncated
	}

	order, numSubgrids, err := detectOrder(raw)
	if err != nil {
		return nil, err
	}

	overview := raw[:headerRecordCount*recordSize]
	gsType := fieldString(overview, 3)
	if gsType != "SECONDS" {
		return nil, errors.Wrapf(ErrUnsupportedGS, "got %q", gsType)
	}
	if numSubgrids != 1 {
		return nil, errors.Wrapf(ErrMultiSubgrid, "NUM_FILE=%d", numSubgrids)
	}

	offset := headerRecordCount * recordSize
	if len(raw) < offset+headerRecordCount*recordSize {
		return nil, ErrTruncated
	}
	sub := raw[offset : offset+headerRecordCount*recordSize]
	offset += headerRecordCount * recordSize

	name := fieldString(sub, 0)
	sLatSec := fieldFloat64(sub, order, 4)
	nLatSec := fieldFloat64(sub, order, 5)
	eLonSec := fieldFloat64(sub, order, 6)
	wLonSec := fieldFloat64(sub, order, 7)
	latIncSec := fieldFloat64(sub, order, 8)
	lonIncSec := fieldFloat64(sub, order, 9)
	gsCount := int(fieldInt32(sub, order, 10))

	if gsCount <= 0 {
		return nil, errors.Wrap(ErrBadHeader, "GS_COUNT")
	}
	if len(raw) < offset+gsCount*recordSize {
		return nil, ErrTruncated
	}

	rows := int(math.Round((nLatSec-sLatSec)/latIncSec)) + 1
	cols := int(math.Round((wLonSec-eLonSec)/lonIncSec)) + 1
	if rows <= 0 || cols <= 0 || rows*cols != gsCount {
		return nil, errors.Wrapf(ErrBadHeader, "grid dimensions %dx%d != GS_COUNT %d", rows, cols, gsCount)
	}

	// Records appear south-to-north by row; within each row, the field
	// longitude (stored positive-west) increases from east to west, so
	// the first record of every row is that row's eastmost node. Flip
	// each row's column order to land on our west-to-east canonical
	// layout, and negate longitude to the positive-east convention.
	shifts := make([][][2]float64, rows)
	for row := 0; row < rows; row++ {
		shifts[row] = make([][2]float64, cols)
		for fileCol := 0; fileCol < cols; fileCol++ {
			rec := raw[offset:]
			nsShift := float64(fieldFloat32(rec, order, 0))
			ewShift := float64(fieldFloat32(rec, order, 1))
			offset += recordSize

			col := cols - 1 - fileCol
			shifts[row][col] = [2]float64{
				nsShift * arcsecToRadians,
				-ewShift * arcsecToRadians, // sign canonicalization: west-positive -> east-positive
			}
		}
	}

	return &Grid{
		name:   name,
		sLat:   sLatSec * arcsecToRadians,
		wLon:   -wLonSec * arcsecToRadians,
		latInc: latIncSec * arcsecToRadians,
		lonInc: lonIncSec * arcsecToRadians,
		rows:   rows,
		cols:   cols,
		shifts: shifts,
	}, nil
}

// Name returns the subgrid's SUB_NAME field.
func (g *Grid) Name() string { return g.name }

// Shift returns the bilinearly interpolated (dlon, dlat) correction in
// radians at (lon, lat), also in radians, and false when the point
// falls outside the grid's coverage.
func (g *Grid) Shift(lon, lat float64) (dlon, dlat float64, ok bool) {
	fRow := (lat - g.sLat) / g.latInc
	fCol := (lon - g.wLon) / g.lonInc
	if fRow < 0 || fCol < 0 || fRow > float64(g.rows-1) || fCol > float64(g.cols-1) {
		return 0, 0, false
	}

	r0 := int(math.Floor(fRow))
	c0 := int(math.Floor(fCol))
	r1, c1 := r0+1, c0+1
	if r1 > g.rows-1 {
		r1 = r0
	}
	if c1 > g.cols-1 {
		c1 = c0
	}

	tr := fRow - float64(r0)
	tc := fCol - float64(c0)

	lerp := func(a, b float64) float64 { return a + tc*(b-a) }

	dlat00, dlon00 := g.shifts[r0][c0][0], g.shifts[r0][c0][1]
	dlat01, dlon01 := g.shifts[r0][c1][0], g.shifts[r0][c1][1]
	dlat10, dlon10 := g.shifts[r1][c0][0], g.shifts[r1][c0][1]
	dlat11, dlon11 := g.shifts[r1][c1][0], g.shifts[r1][c1][1]

	latTop, latBottom := lerp(dlat00, dlat01), lerp(dlat10, dlat11)
	lonTop, lonBottom := lerp(dlon00, dlon01), lerp(dlon10, dlon11)

	dlat = latTop + tr*(latBottom-latTop)
	dlon = lonTop + tr*(lonBottom-lonTop)
	return dlon, dlat, true
}

// Center returns the grid's bounding-box midpoint, used only by a
// Context's nearest-grid spatial index.
func (g *Grid) Center() (lon, lat float64, ok bool) {
	lon = g.wLon + float64(g.cols-1)*g.lonInc/2
	lat = g.sLat + float64(g.rows-1)*g.latInc/2
	return lon, lat, true
}

// byteOrder is the subset of binary.ByteOrder this package needs,
// resolved once from the overview header's NUM_OREC sentinel.
type byteOrder = binary.ByteOrder

// detectOrder reads the overview header's first record under both byte
// orders and keeps whichever produces a sane record: the field-name
// half must read back as the literal string "NUM_OREC" (endianness
// doesn't affect ASCII bytes, but a genuinely malformed/truncated file
// can fail this independently of the numeric check) AND the value half
// must equal headerRecordCount. Most NTv2 files are little-endian
// (Windows/DOS origin) but some distributions ship big-endian.
func detectOrder(raw []byte) (byteOrder, int32, error) {
	if fieldName(raw, 0) == "NUM_OREC" && numOrec(raw, binary.LittleEndian) == headerRecordCount {
		return binary.LittleEndian, fieldInt32(raw, binary.LittleEndian, 2), nil
	}
	if fieldName(raw, 0) == "NUM_OREC" && numOrec(raw, binary.BigEndian) == headerRecordCount {
		return binary.BigEndian, fieldInt32(raw, binary.BigEndian, 2), nil
	}
	return nil, 0, errors.Wrap(ErrBadHeader, "NUM_OREC")
}

// fieldName reads a header record's field-name half: the first 8 bytes
// of the record, trimmed of NUL/trailing-space padding.
func fieldName(raw []byte, record int) string {
	off := record * recordSize
	return string(bytes.TrimRight(raw[off:off+8], " \x00"))
}

func numOrec(raw []byte, order byteOrder) int32 {
	return fieldInt32(raw, order, 0)
}

// fieldInt32 reads the value half of the record'th 16-byte record as a
// little/big-endian int32 (the value half starts 8 bytes into the
// record and is itself 4 bytes, the trailing 4 bytes are padding).
func fieldInt32(raw []byte, order byteOrder, record int) int32 {
	off := record*recordSize + 8
	return int32(order.Uint32(raw[off : off+4]))
}

// fieldFloat32 reads one of a data record's four packed float32 values.
func fieldFloat32(raw []byte, order byteOrder, slot int) float32 {
	off := slot * 4
	bits := order.Uint32(raw[off : off+4])
	return math.Float32frombits(bits)
}

// fieldFloat64 reads the value half of a header record as a
// little/big-endian float64.
func fieldFloat64(raw []byte, order byteOrder, record int) float64 {
	off := record*recordSize + 8
	bits := order.Uint64(raw[off : off+8])
	return math.Float64frombits(bits)
}

// fieldString reads the value half of a header record (the ASCII
// counterpart to fieldInt32/fieldFloat64), trimmed of NUL and
// trailing-space padding.
func fieldString(raw []byte, record int) string {
	off := record*recordSize + 8
	return string(bytes.TrimRight(raw[off:off+8], " \x00"))
}
