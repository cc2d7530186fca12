// Command geodesyctl applies a transformation pipeline definition to a
// single coordinate given on the command line (SPEC_FULL §CLI).
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/golang/glog"

	"github.com/chartkit/geodesy"
)

func main() {
	var (
		def     = flag.String("def", "noop", "pipeline definition, steps separated by '|'")
		lat     = flag.String("lat", "", "latitude, decimal degrees or DMS (e.g. \"51 28 40.37N\")")
		lon     = flag.String("lon", "", "longitude, decimal degrees or DMS")
		height  = flag.Float64("h", 0, "height/elevation, metres")
		inverse = flag.Bool("inverse", false, "apply the pipeline's inverse mapping instead of forward")
	)
	flag.Parse()
	defer glog.Flush()

	if *lat == "" || *lon == "" {
		fmt.Fprintln(os.Stderr, "geodesyctl: -lat and -lon are required")
		flag.Usage()
		os.Exit(2)
	}

	latDeg, err := geodesy.ParseDegrees(*lat)
	if err != nil {
		glog.Exitf("geodesyctl: bad -lat: %v", err)
	}
	lonDeg, err := geodesy.ParseDegrees(*lon)
	if err != nil {
		glog.Exitf("geodesyctl: bad -lon: %v", err)
	}

	geo, err := geodesy.New(*def)
	if err != nil {
		glog.Exitf("geodesyctl: compiling %q: %v", *def, err)
	}

	coords, err := geodesy.NewFromGeographic([]float64{latDeg, lonDeg, *height, 0})
	if err != nil {
		glog.Exitf("geodesyctl: %v", err)
	}

	direction := "forward"
	var n int
	if *inverse {
		direction = "inverse"
		n, err = geo.Inverse(coords)
	} else {
		n, err = geo.Forward(coords)
	}
	if err != nil {
		glog.Exitf("geodesyctl: %s: %v", direction, err)
	}

	v := coords.Get(0)
	fmt.Printf("%d/1 succeeded: x=%.10f y=%.10f z=%.4f t=%.4f\n", n, v[0], v[1], v[2], v[3])
}
