package ntv2

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// WriteGravsoft renders a Grid as a Gravsoft-style text grid (spec §4.4
// output form (b), §6 "Gravsoft text grid"): one header line of six
// whitespace-separated f64s in degrees, `lat_max lat_min lon_min
// lon_max dlat dlon`, followed by one line per row of `rows * cols`
// interleaved `lat_corr lon_corr` pairs in seconds-of-arc, NW->SE
// row-major (first row is the northernmost, first pair in a row is the
// westernmost node).
func WriteGravsoft(w io.Writer, g *Grid) error {
	latMin := g.sLat * 180 / math.Pi
	latMax := (g.sLat + float64(g.rows-1)*g.latInc) * 180 / math.Pi
	lonMin := g.wLon * 180 / math.Pi
	lonMax := (g.wLon + float64(g.cols-1)*g.lonInc) * 180 / math.Pi
	latIncDeg := g.latInc * 180 / math.Pi
	lonIncDeg := g.lonInc * 180 / math.Pi

	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "%.8f %.8f %.8f %.8f %.8f %.8f\n", latMax, latMin, lonMin, lonMax, latIncDeg, lonIncDeg); err != nil {
		return errors.Wrap(err, "ntv2: write gravsoft header")
	}

	for row := g.rows - 1; row >= 0; row-- { // file is north-to-south, grid is south-to-north
		for col := 0; col < g.cols; col++ {
			latCorr := g.shifts[row][col][0] / arcsecToRadians
			lonCorr := g.shifts[row][col][1] / arcsecToRadians
			if _, err := fmt.Fprintf(bw, "%.6f %.6f ", latCorr, lonCorr); err != nil {
				return errors.Wrap(err, "ntv2: write gravsoft row")
			}
		}
		if _, err := bw.WriteString("\n"); err != nil {
			return errors.Wrap(err, "ntv2: write gravsoft row")
		}
	}
	return bw.Flush()
}

// ReadGravsoft parses the text grid WriteGravsoft produces back into a
// Grid (SPEC_FULL supplement: Gravsoft as an independent input format,
// not only an NTv2 bridge target).
func ReadGravsoft(r io.Reader) (*Grid, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	latMax, latMin, lonMin, lonMax, latIncDeg, lonIncDeg, ok := readGravsoftHeader(sc)
	if !ok {
		return nil, errors.Wrap(ErrBadHeader, "gravsoft: missing header")
	}
	if latMax < latMin || lonMax < lonMin {
		return nil, errors.Wrap(ErrBadHeader, "gravsoft: lat_max/lon_max must not be below lat_min/lon_min")
	}

	rows := int(math.Round((latMax-latMin)/latIncDeg)) + 1
	cols := int(math.Round((lonMax-lonMin)/lonIncDeg)) + 1
	if rows <= 0 || cols <= 0 {
		return nil, errors.Wrap(ErrBadHeader, "gravsoft: non-positive grid dimensions")
	}

	fileRows, err := readGravsoftValues(sc, rows, cols)
	if err != nil {
		return nil, err
	}

	shifts := make([][][2]float64, rows)
	for row := 0; row < rows; row++ {
		shifts[row] = make([][2]float64, cols)
		fileRow := rows - 1 - row // file is north-to-south, grid is south-to-north
		for col := 0; col < cols; col++ {
			pair := fileRows[fileRow][col]
			shifts[row][col] = [2]float64{
				pair[0] * arcsecToRadians,
				pair[1] * arcsecToRadians,
			}
		}
	}

	return &Grid{
		name:   "gravsoft",
		sLat:   latMin * math.Pi / 180,
		wLon:   lonMin * math.Pi / 180,
		latInc: latIncDeg * math.Pi / 180,
		lonInc: lonIncDeg * math.Pi / 180,
		rows:   rows,
		cols:   cols,
		shifts: shifts,
	}, nil
}

func readGravsoftHeader(sc *bufio.Scanner) (latMax, latMin, lonMin, lonMax, latInc, lonInc float64, ok bool) {
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 6 {
			return 0, 0, 0, 0, 0, 0, false
		}
		vals := make([]float64, 6)
		for i, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return 0, 0, 0, 0, 0, 0, false
			}
			vals[i] = v
		}
		return vals[0], vals[1], vals[2], vals[3], vals[4], vals[5], true
	}
	return 0, 0, 0, 0, 0, 0, false
}

// readGravsoftValues reads rows*cols interleaved (lat_corr, lon_corr)
// pairs from however many lines hold them (a row may wrap multiple text
// lines or pack several rows per line; only the running pair count
// matters, though each line must hold whole pairs).
func readGravsoftValues(sc *bufio.Scanner, rows, cols int) ([][][2]float64, error) {
	flat := make([][2]float64, 0, rows*cols)
	for sc.Scan() && len(flat) < rows*cols {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields)%2 != 0 {
			return nil, errors.Wrap(ErrBadHeader, "gravsoft: odd number of values on a row")
		}
		for i := 0; i < len(fields); i += 2 {
			lat, err := strconv.ParseFloat(fields[i], 64)
			if err != nil {
				return nil, errors.Wrapf(ErrBadHeader, "value %q", fields[i])
			}
			lon, err := strconv.ParseFloat(fields[i+1], 64)
			if err != nil {
				return nil, errors.Wrapf(ErrBadHeader, "value %q", fields[i+1])
			}
			flat = append(flat, [2]float64{lat, lon})
		}
	}
	if len(flat) != rows*cols {
		return nil, errors.Wrapf(ErrTruncated, "got %d node pairs, want %d", len(flat), rows*cols)
	}

	out := make([][][2]float64, rows)
	for row := 0; row < rows; row++ {
		out[row] = flat[row*cols : (row+1)*cols]
	}
	return out, nil
}
