package graze

import "fmt"

// Kind classifies an Error the way a caller programmatically branches on
// failure: by what went wrong, not by a Go type.
type Kind string

const (
	InvalidOption   Kind = "invalid_option"
	PatternRequired Kind = "pattern_required"
	InvalidPattern  Kind = "invalid_pattern"
	PathNotFound    Kind = "path_not_found"
	Timeout         Kind = "timeout"
)

// Error is the error type Search returns for every failure in the Kind
// taxonomy. Kind identifies which of the taxonomy's cases applies; Unwrap
// exposes the underlying cause (a *syntax.Error from regexp/syntax, an
// os *PathError, context.DeadlineExceeded, ...) for callers that want it.
// Failures outside the taxonomy -- the caller's context being cancelled,
// or the working directory being unreadable -- are returned unwrapped.
type Error struct {
	Kind  Kind
	Path  string // set for PathNotFound
	cause error
}

func (e *Error) Error() string {
	switch e.Kind {
	case PathNotFound:
		return fmt.Sprintf("graze: path not found: %s", e.Path)
	case PatternRequired:
		return "graze: pattern is required for this output_mode"
	case Timeout:
		return "graze: timeout"
	default:
		if e.cause != nil {
			return fmt.Sprintf("graze: %s: %v", e.Kind, e.cause)
		}
		return fmt.Sprintf("graze: %s", e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.cause }

// IsKind reports whether err is a *graze.Error of the given Kind, the
// idiomatic way to branch on the error taxonomy without a type assertion
// at every call site.
func IsKind(err error, kind Kind) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == kind
}
