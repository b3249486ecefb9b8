package physics

import (
	"errors"
	"fmt"
)

// ErrorKind classifies compilation and runtime failures.
type ErrorKind int

const (
	UnknownBodyReference ErrorKind = iota + 1
	InvalidJointIdArity
	DegenerateGeometry
	UnknownForceTarget
	UnknownJoint
	InvalidDocument
)

func (k ErrorKind) String() string {
	switch k {
	case UnknownBodyReference:
		return "unknown body reference"
	case InvalidJointIdArity:
		return "invalid joint id arity"
	case DegenerateGeometry:
		return "degenerate geometry"
	case UnknownForceTarget:
		return "unknown force target"
	case UnknownJoint:
		return "unknown joint"
	case InvalidDocument:
		return "invalid document"
	default:
		return fmt.Sprintf("error kind %d", int(k))
	}
}

// Error is the typed failure returned by the compiler and the runner.
// ID names the element, joint or force at fault; Ref is the body id that
// failed to resolve. Expected and Actual carry counts where relevant.
type Error struct {
	Kind     ErrorKind
	ID       string
	Ref      string
	Expected int
	Actual   int
	Detail   string
}

func (e *Error) Error() string {
	switch e.Kind {
	case UnknownBodyReference:
		return fmt.Sprintf("%s: %q references body %q", e.Kind, e.ID, e.Ref)
	case InvalidJointIdArity:
		return fmt.Sprintf("%s: %q has %d segments, want 2 or 3", e.Kind, e.ID, e.Actual)
	case DegenerateGeometry:
		if e.Detail != "" {
			return fmt.Sprintf("%s: %q: %s", e.Kind, e.ID, e.Detail)
		}
		return fmt.Sprintf("%s: %q has %d points, want at least %d", e.Kind, e.ID, e.Actual, e.Expected)
	case UnknownForceTarget:
		return fmt.Sprintf("%s: force %q targets body %q", e.Kind, e.ID, e.Ref)
	case UnknownJoint:
		return fmt.Sprintf("%s: %q", e.Kind, e.ID)
	default:
		if e.Detail != "" {
			return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
		}
		return e.Kind.String()
	}
}

// IsKind reports whether err, or anything it wraps, is an *Error of kind k.
func IsKind(err error, k ErrorKind) bool {
	var pe *Error
	if !errors.As(err, &pe) {
		return false
	}
	return pe.Kind == k
}

func newUnknownBody(id, ref string) *Error {
	return &Error{Kind: UnknownBodyReference, ID: id, Ref: ref}
}
