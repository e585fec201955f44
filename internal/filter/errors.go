package filter

import (
	"errors"
	"fmt"
)

// ErrorKind tags the reason a filter value was rejected
type ErrorKind string

const (
	KindInteger         ErrorKind = "INTEGER"
	KindLong            ErrorKind = "LONG"
	KindFloat           ErrorKind = "FLOAT"
	KindDouble          ErrorKind = "DOUBLE"
	KindDate            ErrorKind = "DATE"
	KindDateFormat      ErrorKind = "DATE_FORMAT"
	KindUUID            ErrorKind = "UUID"
	KindUnsupportedType ErrorKind = "UNSUPPORTED_TYPE"
)

// Error is returned for every value or configuration the engine cannot use.
// Field is empty for configuration-level failures (KindDateFormat)
type Error struct {
	Kind     ErrorKind
	Field    string
	Value    string
	TypeName string
	Err      error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindDateFormat:
		return fmt.Sprintf("invalid date format: unable to use %q as date format: %v", e.Value, e.Err)
	case KindUnsupportedType:
		return fmt.Sprintf("unsupported filter type %q for field %q (valid types are %s)", e.TypeName, e.Field, validTypeNames())
	}
	if e.Err != nil {
		return fmt.Sprintf("field %q: invalid %s value %q: %v", e.Field, e.TypeName, e.Value, e.Err)
	}
	return fmt.Sprintf("field %q: invalid %s value %q", e.Field, e.TypeName, e.Value)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of the first *Error in err's chain
func KindOf(err error) (ErrorKind, bool) {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind, true
	}
	return "", false
}
