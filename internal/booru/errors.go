package booru

import (
	"errors"
	"fmt"
)

// Sentinel errors for board API operations.
//
// ErrConnection covers transport-level failures (DNS, refused connections,
// timeouts, upstream overload); callers may retry. ErrData covers responses
// that cannot be interpreted as the expected payload; retrying with the same
// query will not help.
var (
	ErrConnection = errors.New("booru: connection failure")
	ErrData       = errors.New("booru: unexpected response data")
)

// Error wraps an underlying error with operation context.
type Error struct {
	Op  string // Operation: "posts", "postByID", "tags", "comments", "deleted"
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("booru %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// wrapError creates an Error with operation context.
func wrapError(op string, err error) error {
	return &Error{Op: op, Err: err}
}
