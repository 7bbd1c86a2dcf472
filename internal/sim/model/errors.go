package model

import "fmt"

// PreconditionViolation is raised (as a panic value) on programming errors:
// self-pairing, lookups of unmet players, negative computed values and unhandled
// enum cases. It is never recovered inside the engine.
type PreconditionViolation struct {
	Op     string
	Detail string
}

func (e *PreconditionViolation) Error() string {
	return fmt.Sprintf("precondition violated in %s: %s", e.Op, e.Detail)
}

// Require panics with a PreconditionViolation when cond is false.
func Require(cond bool, op string, format string, args ...any) {
	if cond {
		return
	}
	panic(&PreconditionViolation{Op: op, Detail: fmt.Sprintf(format, args...)})
}

// RequirePair panics when a and b are the same player or either is invalid.
func RequirePair(op string, a, b PlayerID) {
	if a == b {
		panic(&PreconditionViolation{Op: op, Detail: fmt.Sprintf("self pairing %s", a)})
	}
	if !a.Valid() || !b.Valid() {
		panic(&PreconditionViolation{Op: op, Detail: fmt.Sprintf("invalid pairing %s/%s", a, b)})
	}
}

// Unhandled panics for a switch arm that should be unreachable.
func Unhandled(op string, v any) {
	panic(&PreconditionViolation{Op: op, Detail: fmt.Sprintf("unhandled case %v", v)})
}
