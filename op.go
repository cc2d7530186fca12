package geodesy

import (
	"strconv"

	"github.com/pkg/errors"
)

// Direction selects which closed-form mapping an operator applies.
type Direction int

const (
	Fwd Direction = iota
	Inv
)

// Flip returns the opposite direction.
func (d Direction) Flip() Direction {
	if d == Fwd {
		return Inv
	}
	return Fwd
}

// Kernel is the shape every operator's forward and inverse mapping share
// (spec §4.3): mutate coords in place, return the count of coordinates
// successfully converted. Kernels never abort on a bad sample — they
// write back whatever the mapping produced for it (possibly NaN) and
// count only the samples they consider valid.
type Kernel func(op *Op, ctx Context, coords *CoordinateSet) int

// ParamKind is the declared type of a GAMUT parameter (spec §3).
type ParamKind int

const (
	KindFlag ParamKind = iota
	KindReal
	KindText
	KindEllipsoid
)

// OpParameter is one entry in an operator's parameter schema (GAMUT).
type OpParameter struct {
	Kind        ParamKind
	Key         string
	DefaultReal float64
	HasDefault  bool
	DefaultText string
}

func flagParam(key string) OpParameter { return OpParameter{Kind: KindFlag, Key: key} }

func realParam(key string, def float64) OpParameter {
	return OpParameter{Kind: KindReal, Key: key, DefaultReal: def, HasDefault: true}
}

func requiredRealParam(key string) OpParameter {
	return OpParameter{Kind: KindReal, Key: key}
}

func textParam(key, def string) OpParameter {
	return OpParameter{Kind: KindText, Key: key, DefaultText: def, HasDefault: true}
}

func ellipsoidParam(key string) OpParameter {
	return OpParameter{Kind: KindEllipsoid, Key: key, DefaultText: DefaultEllipsoidName, HasDefault: true}
}

// ellipsoidParamDefault is ellipsoidParam with an operator-specific
// fallback ellipsoid name, for the handful of operators whose GAMUT
// defaults away from the package-wide DefaultEllipsoidName.
func ellipsoidParamDefault(key, name string) OpParameter {
	return OpParameter{Kind: KindEllipsoid, Key: key, DefaultText: name, HasDefault: true}
}

// RawParameters is a step's un-validated definition text, already split
// into an operator name plus its key=value/flag tokens, with the
// context's global defaults available as a fallback.
type RawParameters struct {
	Definition string
	Name       string
	Args       map[string]string
	Globals    map[string]string
}

// ParsedParameters is the post-validation view an operator kernel
// consumes (spec §3): typed maps keyed by name, plus the resolved
// ellipsoid. Operator constructors may extend Real with precomputed
// quantities so the hot loop never re-derives them.
type ParsedParameters struct {
	Name  string
	Flags map[string]bool
	Real  map[string]float64
	Text  map[string]string
	Ellps []Ellipsoid
}

// Flag reports whether a boolean parameter was set.
func (p ParsedParameters) Flag(key string) bool { return p.Flags[key] }

// RealValue returns a real parameter's resolved value.
func (p ParsedParameters) RealValue(key string) float64 { return p.Real[key] }

// TextValue returns a text parameter's resolved value.
func (p ParsedParameters) TextValue(key string) string { return p.Text[key] }

// Ellipsoid returns the i'th resolved ellipsoid parameter (almost always
// just one, at index 0, defaulting to GRS80 per spec §3/§4.5).
func (p ParsedParameters) Ellipsoid(i int) Ellipsoid {
	if i < len(p.Ellps) {
		return p.Ellps[i]
	}
	e, _ := LookupEllipsoid(DefaultEllipsoidName)
	return e
}

// ParseParameters validates raw against gamut and builds the typed,
// defaulted view a kernel consumes. Construction fails when a required
// parameter is missing or a supplied key is not in the schema (spec §3).
func ParseParameters(raw RawParameters, gamut []OpParameter) (ParsedParameters, error) {
	allowed := make(map[string]OpParameter, len(gamut))
	for _, p := range gamut {
		allowed[p.Key] = p
	}
	for key := range raw.Args {
		if key == "inv" {
			continue // every operator implicitly accepts the inv flag
		}
		if _, ok := allowed[key]; !ok {
			return ParsedParameters{}, errors.Wrapf(ErrUnknownParameter, "%s: %q", raw.Name, key)
		}
	}

	parsed := ParsedParameters{
		Name:  raw.Name,
		Flags: map[string]bool{},
		Real:  map[string]float64{},
		Text:  map[string]string{},
	}

	if _, present := raw.Args["inv"]; present {
		parsed.Flags["inv"] = true
	}

	for _, p := range gamut {
		switch p.Kind {
		case KindFlag:
			_, present := raw.Args[p.Key]
			parsed.Flags[p.Key] = present
		case KindReal:
			if v, present := raw.Args[p.Key]; present {
				f, err := strconv.ParseFloat(v, 64)
				if err != nil {
					return ParsedParameters{}, errors.Wrapf(ErrMalformedValue, "%s: %s=%q", raw.Name, p.Key, v)
				}
				parsed.Real[p.Key] = f
				continue
			}
			if g, present := raw.Globals[p.Key]; present {
				f, err := strconv.ParseFloat(g, 64)
				if err == nil {
					parsed.Real[p.Key] = f
					continue
				}
			}
			if p.HasDefault {
				parsed.Real[p.Key] = p.DefaultReal
				continue
			}
			return ParsedParameters{}, errors.Wrapf(ErrMissingParameter, "%s: %s", raw.Name, p.Key)
		case KindText:
			if v, present := raw.Args[p.Key]; present {
				parsed.Text[p.Key] = v
				continue
			}
			if g, present := raw.Globals[p.Key]; present {
				parsed.Text[p.Key] = g
				continue
			}
			if p.HasDefault {
				parsed.Text[p.Key] = p.DefaultText
				continue
			}
			return ParsedParameters{}, errors.Wrapf(ErrMissingParameter, "%s: %s", raw.Name, p.Key)
		case KindEllipsoid:
			name := p.DefaultText
			if v, present := raw.Args[p.Key]; present {
				name = v
			} else if g, present := raw.Globals[p.Key]; present && p.DefaultText == DefaultEllipsoidName {
				// The context-wide ellipsoid only replaces the package-wide
				// default; an operator-specific default (ellipsoidParamDefault)
				// is kept.
				name = g
			}
			e, err := LookupEllipsoid(name)
			if err != nil {
				return ParsedParameters{}, errors.Wrapf(err, "%s", raw.Name)
			}
			parsed.Ellps = append(parsed.Ellps, e)
		}
	}

	return parsed, nil
}

// OpHandle is an opaque, process-unique token identifying a compiled
// pipeline (spec §3, §4.5).
type OpHandle uint64

// OpDescriptor is an operator's immutable identity: its original
// definition text and its kernels (Inv is nil when the operator defines
// no inverse).
type OpDescriptor struct {
	Definition string
	Fwd        Kernel
	Inv        Kernel
}

// Op is an instantiated operator or pipeline (spec §3): immutable after
// construction, holding parsed parameters and, for a composite, its
// ordered sub-steps.
type Op struct {
	descriptor OpDescriptor
	params     ParsedParameters
	steps      []*Op
	id         OpHandle
}

// OpConstructor builds an Op from a step's raw parameters, with ctx
// available so sub-steps and macros can resolve (spec §4.5).
type OpConstructor func(raw RawParameters, ctx Context) (*Op, error)

// newLeafOp is the common constructor shape most operators use: a single
// leaf with the given kernels and parameter schema (no sub-steps).
func newLeafOp(raw RawParameters, gamut []OpParameter, fwd, inv Kernel) (*Op, error) {
	params, err := ParseParameters(raw, gamut)
	if err != nil {
		return nil, err
	}
	return &Op{
		descriptor: OpDescriptor{Definition: raw.Definition, Fwd: fwd, Inv: inv},
		params:     params,
	}, nil
}

// Apply runs this Op over coords in the given direction, returning the
// count of coordinates successfully converted (spec §4.5).
func (o *Op) Apply(ctx Context, coords *CoordinateSet, dir Direction) (int, error) {
	if len(o.steps) == 0 {
		return o.applyLeaf(ctx, coords, dir)
	}

	n := coords.Len()
	minSuccess := n
	if dir == Fwd {
		for _, step := range o.steps {
			got, err := step.Apply(ctx, coords, Fwd)
			if err != nil {
				return 0, err
			}
			if got < minSuccess {
				minSuccess = got
			}
		}
		return minSuccess, nil
	}

	for i := len(o.steps) - 1; i >= 0; i-- {
		got, err := o.steps[i].Apply(ctx, coords, Inv)
		if err != nil {
			return 0, err
		}
		if got < minSuccess {
			minSuccess = got
		}
	}
	return minSuccess, nil
}

func (o *Op) applyLeaf(ctx Context, coords *CoordinateSet, dir Direction) (int, error) {
	effective := dir
	if o.params.Flag("inv") {
		effective = dir.Flip()
	}
	if effective == Fwd {
		if o.descriptor.Fwd == nil {
			return 0, errors.Wrapf(ErrNoInverse, "%s", o.descriptor.Definition)
		}
		return o.descriptor.Fwd(o, ctx, coords), nil
	}
	if o.descriptor.Inv == nil {
		return 0, errors.Wrapf(ErrNoInverse, "%s", o.descriptor.Definition)
	}
	return o.descriptor.Inv(o, ctx, coords), nil
}

// Steps returns the textual definitions of an Op's sub-steps, in order
// (empty for a leaf operator). Used for introspection (spec §4.5).
func (o *Op) Steps() []string {
	out := make([]string, len(o.steps))
	for i, s := range o.steps {
		out[i] = s.descriptor.Definition
	}
	return out
}

// Params returns the parsed parameters of the step at index, or of the
// operator itself when it is a leaf and index is 0.
func (o *Op) Params(index int) (ParsedParameters, error) {
	if len(o.steps) == 0 {
		if index > 0 {
			return ParsedParameters{}, ErrBadStepIndex
		}
		return o.params, nil
	}
	if index < 0 || index >= len(o.steps) {
		return ParsedParameters{}, ErrBadStepIndex
	}
	return o.steps[index].params, nil
}
