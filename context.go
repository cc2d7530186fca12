package geodesy

import (
	"strings"
	"sync"
	"sync/atomic"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"golang.org/x/exp/maps"
)

// maxMacroDepth bounds resource/macro expansion (spec §4.5): a
// definition that recurses through more than this many resource
// substitutions is rejected rather than looped on.
const maxMacroDepth = 8

// ParseProj is the seam for the "+proj=" sentinel (spec §6, §1
// Out-of-scope): lexing a PROJ-style projection string into this
// engine's own pipeline grammar is an external collaborator's job, not
// this package's. The default is the identity function; a host that
// embeds a PROJ-string lexer replaces this package variable before
// calling Op on a definition containing "+proj=".
var ParseProj = func(definition string) (string, error) {
	return definition, nil
}

// Context is the engine's single entry point (spec §3, §5): it compiles
// definition strings into operator handles, applies them to coordinate
// sets, and owns the operator, resource and grid registries. A Context
// is safe for concurrent use; construction-mutating calls (Op,
// RegisterOperator, RegisterResource, RegisterGrid) take an exclusive
// lock, while Apply only needs a read lock over the handle table.
type Context interface {
	Op(definition string) (OpHandle, error)
	Apply(handle OpHandle, dir Direction, coords *CoordinateSet) (int, error)
	RegisterOperator(name string, ctor OpConstructor)
	RegisterResource(name, definition string)
	RegisterGrid(key string, grid Grid) error
	Grid(key string) (Grid, bool)
	Globals() map[string]string
	OperatorNames() []string
	GridKeys() []string
	FindGrid(lon, lat float64) (string, bool)
}

// context is the default Context implementation.
type context struct {
	mu sync.RWMutex

	operators map[string]OpConstructor
	resources map[string]string
	grids     map[string]Grid
	gridIndex *gridIndex

	handles map[OpHandle]*Op
	nextID  uint64

	globals map[string]string
}

// NewContext builds a Context preloaded with the builtin operator set
// and GRS80-default globals (spec §4.5).
func NewContext() Context {
	return &context{
		operators: builtinOperators(),
		resources: map[string]string{},
		grids:     map[string]Grid{},
		gridIndex: newGridIndex(),
		handles:   map[OpHandle]*Op{},
		globals:   map[string]string{"ellps": DefaultEllipsoidName},
	}
}

func (c *context) Globals() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return maps.Clone(c.globals)
}

func (c *context) RegisterOperator(name string, ctor OpConstructor) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.operators[name] = ctor
}

func (c *context) RegisterResource(name, definition string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	glog.V(1).Infof("geodesy: registering resource %q: %s", name, definition)
	c.resources[name] = definition
}

func (c *context) RegisterGrid(key string, grid Grid) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if grid == nil {
		return errors.Wrapf(ErrMissingGrid, "register %q", key)
	}
	c.grids[key] = grid
	if lon, lat, ok := grid.Center(); ok {
		c.gridIndex.insert(key, lon, lat)
	}
	glog.V(1).Infof("geodesy: registered grid %q", key)
	return nil
}

func (c *context) Grid(key string) (Grid, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	g, ok := c.grids[key]
	return g, ok
}

func (c *context) GridKeys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return maps.Keys(c.grids)
}

func (c *context) OperatorNames() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return maps.Keys(c.operators)
}

// FindGrid is a read-only convenience (spec SPEC_FULL §GRID REGISTRY)
// returning the nearest registered grid's key to (lon, lat), backed by
// an r-tree so it stays off the per-coordinate hot path.
func (c *context) FindGrid(lon, lat float64) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gridIndex.nearest(lon, lat)
}

// Op compiles definition into a handle, expanding macros and building a
// composite Op when the definition chains multiple steps with "|"
// (spec §4.5).
func (c *context) Op(definition string) (OpHandle, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if strings.Contains(definition, "+proj=") {
		expanded, err := ParseProj(definition)
		if err != nil {
			return 0, errors.Wrapf(err, "parse_proj %q", definition)
		}
		definition = expanded
	}

	op, err := c.build(definition, nil, 0)
	if err != nil {
		return 0, err
	}
	id := OpHandle(atomic.AddUint64(&c.nextID, 1))
	op.id = id
	c.handles[id] = op
	return id, nil
}

func (c *context) Apply(handle OpHandle, dir Direction, coords *CoordinateSet) (int, error) {
	c.mu.RLock()
	op, ok := c.handles[handle]
	c.mu.RUnlock()
	if !ok {
		return 0, errors.Wrapf(ErrUnknownHandle, "%d", handle)
	}
	return op.Apply(c, coords, dir)
}

// build parses definition, a "|"-separated chain of steps, into an Op
// tree. extraGlobals carries per-invocation overrides down into a
// macro's own body when expanding a resource.
func (c *context) build(definition string, extraGlobals map[string]string, depth int) (*Op, error) {
	if depth > maxMacroDepth {
		return nil, errors.Wrapf(ErrDefinitionTooDeep, "%q", definition)
	}

	tokens := splitSteps(definition)
	if len(tokens) == 0 {
		return nil, errors.Wrapf(ErrUnknownOperator, "empty definition")
	}
	if len(tokens) == 1 {
		return c.buildStep(tokens[0], extraGlobals, depth)
	}

	steps := make([]*Op, 0, len(tokens))
	for _, tok := range tokens {
		step, err := c.buildStep(tok, extraGlobals, depth)
		if err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}
	return &Op{descriptor: OpDescriptor{Definition: definition}, steps: steps}, nil
}

// buildStep resolves a single step (no "|" left in it) against the
// operator registry, then the macro/resource registry, in that order.
// The "+proj=" sentinel form is handled once, up front, in Op.
func (c *context) buildStep(step string, extraGlobals map[string]string, depth int) (*Op, error) {
	name, args := tokenizeStep(step)
	if name == "" {
		return nil, errors.Wrapf(ErrUnknownOperator, "%q", step)
	}

	globals := mergeGlobals(c.globals, extraGlobals)

	if ctor, ok := c.operators[name]; ok {
		return ctor(RawParameters{Definition: step, Name: name, Args: args, Globals: globals}, c)
	}

	if body, ok := c.resources[name]; ok {
		merged := mergeGlobals(globals, args)
		glog.V(2).Infof("geodesy: expanding resource %q -> %q (depth %d)", name, body, depth+1)
		return c.build(body, merged, depth+1)
	}

	return nil, errors.Wrapf(ErrUnknownOperator, "%q", name)
}

// splitSteps splits a pipeline definition on "|", trimming whitespace
// and dropping empty segments produced by stray separators.
func splitSteps(definition string) []string {
	parts := strings.Split(definition, "|")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// tokenizeStep splits one step into its operator name and its
// whitespace-separated key=value / bare-flag arguments.
func tokenizeStep(step string) (string, map[string]string) {
	fields := strings.Fields(step)
	if len(fields) == 0 {
		return "", nil
	}

	name := fields[0]
	args := map[string]string{}
	for _, f := range fields[1:] {
		if k, v, found := strings.Cut(f, "="); found {
			args[k] = v
		} else {
			args[f] = ""
		}
	}
	return name, args
}

func mergeGlobals(base, overrides map[string]string) map[string]string {
	merged := make(map[string]string, len(base)+len(overrides))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range overrides {
		merged[k] = v
	}
	return merged
}
