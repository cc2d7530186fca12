package geodesy

import "github.com/pkg/errors"

// Sentinel errors for the engine's construction-time and apply-time failure
// modes (spec §7). Numeric-sample failures never surface as errors — they
// reduce a kernel's reported success count instead.
var (
	ErrUnknownOperator   = errors.New("unknown operator name")
	ErrUnknownParameter  = errors.New("unknown parameter key")
	ErrMissingParameter  = errors.New("missing required parameter")
	ErrMalformedValue    = errors.New("malformed parameter value")
	ErrMissingGrid       = errors.New("missing grid")
	ErrUnknownHandle     = errors.New("unknown operator id")
	ErrBadStepIndex      = errors.New("bad step index")
	ErrCountMismatch     = errors.New("forward/inverse count mismatch")
	ErrNoInverse         = errors.New("operator has no inverse")
	ErrDefinitionTooDeep = errors.New("definition-too-deep")
	ErrBadCoordLength    = errors.New("coordinate buffer length must be a multiple of 4")
)
