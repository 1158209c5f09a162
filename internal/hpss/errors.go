package hpss

import "fmt"

// ErrorKind classifies the failure modes the core can report upward.
// None of these are recovered or retried inside the core (spec §7).
type ErrorKind int

const (
	// ErrKindInfeasible means the Feasibility Oracle rejected the
	// request before any sampling ran (spec §4.D, I4).
	ErrKindInfeasible ErrorKind = iota
	// ErrKindInvalidArguments means N<1, M<1, T not in [0,1], or the
	// stratification depth fell outside the supported [1,8] range
	// after clamping.
	ErrKindInvalidArguments
	// ErrKindUniverseUnavailable wraps a failure from the Universe
	// handle's Size or EnumerateStratum operations.
	ErrKindUniverseUnavailable
	// ErrKindShortfall means a set could not be filled to M distinct
	// items despite a feasible verdict — an operator-visible bug
	// signal indicating the universe is smaller or differently
	// partitioned than declared.
	ErrKindShortfall
	// ErrKindCancelled means cooperative cancellation was observed.
	ErrKindCancelled
)

func (k ErrorKind) String() string {
	switch k {
	case ErrKindInfeasible:
		return "Infeasible"
	case ErrKindInvalidArguments:
		return "InvalidArguments"
	case ErrKindUniverseUnavailable:
		return "UniverseUnavailable"
	case ErrKindShortfall:
		return "Shortfall"
	case ErrKindCancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

// CoreError is the single error type returned by this package's public
// operations. Callers distinguish kinds with errors.As and (*CoreError).Kind.
type CoreError struct {
	Kind    ErrorKind
	Verdict *Verdict // populated only for ErrKindInfeasible
	SetIdx  int      // populated only for ErrKindShortfall
	Have    int      // populated only for ErrKindShortfall
	Need    int      // populated only for ErrKindShortfall
	Cause   error    // wrapped underlying error, if any
}

func (e *CoreError) Error() string {
	switch e.Kind {
	case ErrKindInfeasible:
		return fmt.Sprintf("hpss: request is infeasible: %s", e.Verdict.Recommendation)
	case ErrKindInvalidArguments:
		if e.Cause != nil {
			return fmt.Sprintf("hpss: invalid arguments: %v", e.Cause)
		}
		return "hpss: invalid arguments"
	case ErrKindUniverseUnavailable:
		return fmt.Sprintf("hpss: universe unavailable: %v", e.Cause)
	case ErrKindShortfall:
		return fmt.Sprintf("hpss: shortfall in set %d: have %d, need %d", e.SetIdx, e.Have, e.Need)
	case ErrKindCancelled:
		return "hpss: generation cancelled"
	default:
		return "hpss: unknown error"
	}
}

func (e *CoreError) Unwrap() error { return e.Cause }

func errInvalidArguments(cause error) *CoreError {
	return &CoreError{Kind: ErrKindInvalidArguments, Cause: cause}
}

func errUniverseUnavailable(cause error) *CoreError {
	return &CoreError{Kind: ErrKindUniverseUnavailable, Cause: cause}
}

func errInfeasible(v Verdict) *CoreError {
	return &CoreError{Kind: ErrKindInfeasible, Verdict: &v}
}

func errShortfall(setIdx, have, need int) *CoreError {
	return &CoreError{Kind: ErrKindShortfall, SetIdx: setIdx, Have: have, Need: need}
}

func errCancelled() *CoreError {
	return &CoreError{Kind: ErrKindCancelled}
}
