package projector

import "fmt"

// FlagKind is the projector's outcome taxonomy: which phase, if any,
// raised a sticky error.
type FlagKind uint8

const (
	// NoError means every phase that ran completed cleanly.
	NoError FlagKind = iota
	// TooManyVars is raised by New when len(vars) exceeds cfg.MaxEvars.
	TooManyVars
	// NonLinear is raised by AddLiteral when an arithmetic literal
	// mentions a term kind other than constant/polynomial/uninterpreted.
	NonLinear
	// BadArithLiteral is raised when the ArithProjector rejects a
	// constraint or a variable it needs a model value for.
	BadArithLiteral
	// ErrorInEval is raised when the Model cannot evaluate a surviving
	// EVar during value-closure.
	ErrorInEval
	// ErrorInConvert is raised when a Model value has no term
	// representation in the TermStore.
	ErrorInConvert
	// ErrorInSubst is raised when TermSubstitutor.Apply fails for a
	// literal during value-closure.
	ErrorInSubst
)

func (k FlagKind) String() string {
	switch k {
	case NoError:
		return "no-error"
	case TooManyVars:
		return "too-many-vars"
	case NonLinear:
		return "non-linear"
	case BadArithLiteral:
		return "bad-arith-literal"
	case ErrorInEval:
		return "error-in-eval"
	case ErrorInConvert:
		return "error-in-convert"
	case ErrorInSubst:
		return "error-in-subst"
	default:
		return "unknown-flag"
	}
}

// Flag is the projector's outcome: first-error sticky. The zero Flag is
// NoError.
type Flag struct {
	Kind FlagKind
	Err  error
}

// IsError reports whether the flag denotes a failed run.
func (f Flag) IsError() bool {
	return f.Kind != NoError
}

// Error implements the error interface so a caller that wants a plain Go
// error can use the flag directly; Kind stays the authoritative,
// machine-readable signal.
func (f Flag) Error() string {
	if !f.IsError() {
		return "projector: no error"
	}
	if f.Err != nil {
		return fmt.Sprintf("projector: %s: %s", f.Kind, f.Err)
	}
	return fmt.Sprintf("projector: %s", f.Kind)
}
