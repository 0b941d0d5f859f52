package apierrors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrFieldRequired = errors.New("form field is required")
	ErrFieldRepeated = errors.New("form field given more than once")
	ErrTemplate      = errors.New("template execution failed")
)

// Kind identifies the source of a failure.
type Kind int

const (
	KindUnknown Kind = iota
	KindStorage
	KindRender
	KindBadRequest
)

func (k Kind) String() string {
	switch k {
	case KindStorage:
		return "storage"
	case KindRender:
		return "render"
	case KindBadRequest:
		return "bad_request"
	default:
		return "unknown"
	}
}

// Error is the single error type handlers deal with. Op names the failing
// operation for logs; it is never written to the client.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func Storage(op string, err error) error {
	return &Error{Kind: KindStorage, Op: op, Err: err}
}

func Render(err error) error {
	return &Error{Kind: KindRender, Op: "render", Err: err}
}

func BadRequest(op string, err error) error {
	return &Error{Kind: KindBadRequest, Op: op, Err: err}
}

// KindOf reports the Kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// StatusFor maps an error to the HTTP status sent to the client.
func StatusFor(err error) int {
	switch KindOf(err) {
	case KindBadRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
