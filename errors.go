package strongmotion

import "errors"

// Sentinel errors for the fixed vocabulary of invariant violations and
// configuration problems. Step-level and stream-level failures are not
// represented as errors; they are recorded in a Trace/Stream's failure
// list instead (see Fail).
var (
	ErrNptsMismatch     = errors.New("len(data) does not match npts")
	ErrSamplingRate     = errors.New("sampling_rate must be > 0")
	ErrUnitsUnknown     = errors.New("units not in recognized set")
	ErrCodeEmpty        = errors.New("network/station/channel code must not be empty")
	ErrTimingMismatch   = errors.New("traces in stream do not share timing")
	ErrDuplicateChannel = errors.New("duplicate channel id in collection")
	ErrNonOrthogonal    = errors.New("horizontal channels are not orthogonal")
	ErrUnknownStep      = errors.New("unknown processing step name")
	ErrMissingArg       = errors.New("processing step missing required argument")
	ErrInvalidEnum      = errors.New("invalid enum value")
	ErrWorkspaceExists  = errors.New("record already exists; overwrite not requested")
	ErrWorkspaceClosed  = errors.New("workspace is closed")
)

// ErrorClass classifies why an operation failed. Every error
// surfaced out of this module's public API can be classified so a
// driver can decide whether to recover locally or abort.
type ErrorClass int

const (
	ClassMalformedInput ErrorClass = iota
	ClassUnits
	ClassValidation
	ClassStepFailure
	ClassStepInternal
	ClassWorkspaceIO
	ClassConfig
)

func (c ErrorClass) String() string {
	switch c {
	case ClassMalformedInput:
		return "MalformedInput"
	case ClassUnits:
		return "UnitsError"
	case ClassValidation:
		return "ValidationError"
	case ClassStepFailure:
		return "StepFailure"
	case ClassStepInternal:
		return "StepInternalError"
	case ClassWorkspaceIO:
		return "WorkspaceIOError"
	case ClassConfig:
		return "ConfigError"
	default:
		return "Unknown"
	}
}

// ClassifiedError pairs an ErrorClass with the underlying cause so
// callers at the driver boundary can branch on classification without
// string matching.
type ClassifiedError struct {
	Class ErrorClass
	Op    string
	Err   error
}

func (e *ClassifiedError) Error() string {
	if e.Op == "" {
		return e.Class.String() + ": " + e.Err.Error()
	}
	return e.Class.String() + ": " + e.Op + ": " + e.Err.Error()
}

func (e *ClassifiedError) Unwrap() error { return e.Err }

// NewClassifiedError constructs a ClassifiedError, in the spirit of
// errors.Join(err, errors.New("...")) wrapping but
// retaining the class for driver-level branching.
func NewClassifiedError(class ErrorClass, op string, err error) error {
	if err == nil {
		return nil
	}
	return &ClassifiedError{Class: class, Op: op, Err: err}
}
