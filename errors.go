package blockdoc

import (
	"errors"
	"fmt"
)

//
// Errors (typed + path aware)
//

var (
	ErrMissingType     = errors.New("missing type")
	ErrInvalidType     = errors.New("invalid type")
	ErrInvalidText     = errors.New("text must be a string")
	ErrMissingID       = errors.New("relationship data missing id")
	ErrExpectedObject  = errors.New("expected JSON object")
	ErrExpectedArray   = errors.New("expected JSON array")
	ErrInvalidNumber   = errors.New("invalid number")
	ErrUnexpectedToken = errors.New("unexpected JSON token")

	ErrInvalidRegistry    = errors.New("inconsistent node registry")
	ErrNoFixedPoint       = errors.New("normalization did not converge")
	ErrInvalidSelection   = errors.New("selection does not point at a text leaf")
	ErrNoSelection        = errors.New("editor has no selection")
	ErrFeatureDisabled    = errors.New("feature is disabled for this document")
	ErrUnsupportedCommand = errors.New("unsupported command")
	ErrInvalidFeatures    = errors.New("invalid feature configuration")
	ErrUnknownComponent   = errors.New("unknown component block")
	ErrInvalidProps       = errors.New("component props do not match schema")
	ErrInvalidHref        = errors.New("link requires an href")
)

type Error struct {
	Op   string // "decode", "node", "text", "normalize", "command"
	Path string // e.g. "[3].children[1]"
	Err  error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("blockdoc %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("blockdoc %s at %s: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func wrap(op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Path: path, Err: err}
}

// ValidationError describes a structural problem found without repairing it.
type ValidationError struct {
	Path    string
	Message string
	Node    *Node // Optional reference to problematic node
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}
