package geodesy

import (
	"sync"

	"github.com/golang/glog"
)

// Geo is the package's facade (spec §4.6): a single pipeline definition
// bound to one Context, with coordinate-set convenience methods so
// callers rarely need to touch Context/Op/OpHandle directly.
//
// Compilation is deferred to the first Forward/Inverse/RoundTrip call
// rather than done by New/NewWithContext, so a caller can RegisterGrid
// after constructing a Geo for a grid-referencing definition and still
// have the first compile see it.
type Geo struct {
	ctx        Context
	definition string

	once    sync.Once
	handle  OpHandle
	compErr error
}

// New binds definition to a fresh Context preloaded with the builtin
// operator set. The definition is not compiled until the first
// Forward/Inverse/RoundTrip call.
func New(definition string) (*Geo, error) {
	return NewWithContext(NewContext(), definition)
}

// NewWithContext binds definition to an existing Context, letting
// callers share one Context (and its registered grids/macros) across
// several pipelines. The definition is not compiled until the first
// Forward/Inverse/RoundTrip call.
func NewWithContext(ctx Context, definition string) (*Geo, error) {
	return &Geo{ctx: ctx, definition: definition}, nil
}

// RegisterGrid registers a shift grid (e.g. an *ntv2.Grid) under key on
// the facade's underlying Context, so a grid-referencing operator in
// the pipeline can find it. Call this before the first Forward/Inverse/
// RoundTrip call for the grid to be visible to compilation.
func (g *Geo) RegisterGrid(key string, grid Grid) error {
	return g.ctx.RegisterGrid(key, grid)
}

// compile resolves the definition into an OpHandle on first use and
// caches the result (success or failure) for subsequent calls.
func (g *Geo) compile() (OpHandle, error) {
	g.once.Do(func() {
		g.handle, g.compErr = g.ctx.Op(g.definition)
	})
	return g.handle, g.compErr
}

// Forward applies the pipeline's forward mapping to coords in place,
// returning the count of coordinates successfully converted.
func (g *Geo) Forward(coords *CoordinateSet) (int, error) {
	handle, err := g.compile()
	if err != nil {
		return 0, err
	}
	return g.ctx.Apply(handle, Fwd, coords)
}

// Inverse applies the pipeline's inverse mapping to coords in place.
func (g *Geo) Inverse(coords *CoordinateSet) (int, error) {
	handle, err := g.compile()
	if err != nil {
		return 0, err
	}
	return g.ctx.Apply(handle, Inv, coords)
}

// RoundTrip applies Forward then Inverse to a copy of coords, returning
// the recovered coordinates and the minimum of the two success counts;
// it fails with ErrCountMismatch when the two stages don't agree on how
// many coordinates survived (spec §4.6).
func (g *Geo) RoundTrip(coords *CoordinateSet) (*CoordinateSet, int, error) {
	buf := append([]float64(nil), coords.Raw()...)
	rt, err := NewCoordinateSet(buf)
	if err != nil {
		return nil, 0, err
	}

	fwdN, err := g.Forward(rt)
	if err != nil {
		return nil, 0, err
	}
	invN, err := g.Inverse(rt)
	if err != nil {
		return nil, 0, err
	}
	if fwdN != invN {
		glog.Warningf("geodesy: round-trip count mismatch: forward=%d inverse=%d", fwdN, invN)
		return rt, 0, ErrCountMismatch
	}
	return rt, fwdN, nil
}
