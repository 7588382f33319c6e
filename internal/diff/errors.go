package diff

import (
	"errors"
	"fmt"

	"apidiff/internal/apinode"
)

// ErrMalformed is matched by every *MalformedError.
var ErrMalformed = errors.New("malformed input")

// MalformedError reports a declaration that could not be compared: a node
// missing a field its kind requires, or a comment the tokenizer rejected.
type MalformedError struct {
	Name   string
	Kind   apinode.Kind
	Reason string
	Err    error
}

func malformed(n *apinode.Node, reason string, err error) *MalformedError {
	e := &MalformedError{Reason: reason, Err: err}
	if n != nil {
		e.Name = n.Name
		e.Kind = n.Kind
	}
	return e
}

func (e *MalformedError) Error() string {
	msg := fmt.Sprintf("%s %q: %s", e.Kind, e.Name, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MalformedError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrMalformed) hold.
func (e *MalformedError) Is(target error) bool { return target == ErrMalformed }
