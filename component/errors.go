package component

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrAmbiguousDiscriminant = errors.New("discriminant validates as both string and boolean")
	ErrInvalidDiscriminant   = errors.New("discriminant must be a select or checkbox form")
	ErrMissingBranch         = errors.New("conditional has no branch for discriminant value")
	ErrUnexpectedBranch      = errors.New("conditional branch matches no discriminant value")
	ErrInvalidDefault        = errors.New("default value does not validate")
	ErrUnknownInput          = errors.New("unknown form input")
	ErrDuplicateField        = errors.New("duplicate field name")
	ErrDuplicateOption       = errors.New("duplicate option value")
	ErrMissingListKey        = errors.New("relationship has no list key")
	ErrInvalidSlot           = errors.New("child slot must be block or inline")
	ErrNilSchema             = errors.New("nil schema")
	ErrUnknownComponent      = errors.New("unknown component block")
	ErrSchemaMismatch        = errors.New("component schema differs between declarations")
	ErrShape                 = errors.New("value does not match schema")
	ErrInvalidReorder        = errors.New("invalid array reorder")
	ErrNotStaged             = errors.New("media value is not a staged upload")
)

// SchemaError reports a configuration error at a schema path.
type SchemaError struct {
	Path string
	Err  error
}

func (e *SchemaError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("component schema: %v", e.Err)
	}
	return fmt.Sprintf("component schema at %s: %v", e.Path, e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }

// ValueError reports a persisted value that cannot be read with its schema.
type ValueError struct {
	Path string
	Err  error
}

func (e *ValueError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("component value: %v", e.Err)
	}
	return fmt.Sprintf("component value at %s: %v", e.Path, e.Err)
}

func (e *ValueError) Unwrap() error { return e.Err }

// FieldProblem is a value-validity failure shown at one field when the host
// forces validation.
type FieldProblem struct {
	Path    []any
	Message string
}

func (p *FieldProblem) Error() string {
	return fmt.Sprintf("%s: %s", formatPath(p.Path), p.Message)
}

func formatPath(path []any) string {
	if len(path) == 0 {
		return "."
	}
	parts := make([]string, len(path))
	for i, seg := range path {
		parts[i] = fmt.Sprint(seg)
	}
	return strings.Join(parts, ".")
}

func joinPath(base, seg string) string {
	if base == "" {
		return seg
	}
	return base + "." + seg
}
