package purifier

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation matches every *ValidationError
	ErrValidation = errors.New("invalid source statement")
	// ErrUnsupported matches every *UnsupportedError
	ErrUnsupported = errors.New("unsupported feature")
	// ErrKeySchemaRequired is returned when an upsert envelope has no key schema to key its state by
	ErrKeySchemaRequired = errors.New("key schema is required for ENVELOPE DEBEZIUM UPSERT")
)

// ValidationError reports an illegal combination of statement clauses.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func validationErrorf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// UnsupportedError reports a feature that is known but not supported yet. Issue is the
// tracking issue of the feature.
type UnsupportedError struct {
	Feature string
	Issue   int
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("%s not yet supported (tracking issue #%d)", e.Feature, e.Issue)
}

func (e *UnsupportedError) Is(target error) bool { return target == ErrUnsupported }
