package workload

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a ParseError.
type ErrorKind int

const (
	KindMissingSeparator ErrorKind = iota + 1
	KindNonNumericField
	KindFieldRangeOverflow
	KindFieldCount
	KindEmptyComputation
)

var (
	ErrMissingSeparator   = errors.New("missing separator")
	ErrNonNumericField    = errors.New("non-numeric field")
	ErrFieldRangeOverflow = errors.New("field out of range")
	ErrFieldCount         = errors.New("unexpected field count")
	ErrEmptyComputation   = errors.New("computation must be at least 1")
)

func (k ErrorKind) sentinel() error {
	switch k {
	case KindMissingSeparator:
		return ErrMissingSeparator
	case KindNonNumericField:
		return ErrNonNumericField
	case KindFieldRangeOverflow:
		return ErrFieldRangeOverflow
	case KindFieldCount:
		return ErrFieldCount
	case KindEmptyComputation:
		return ErrEmptyComputation
	default:
		return nil
	}
}

// String returns a human-readable representation of the kind.
func (k ErrorKind) String() string {
	if err := k.sentinel(); err != nil {
		return err.Error()
	}
	return "unknown"
}

// ParseError reports a malformed workload line.
type ParseError struct {
	Line  int // 1-based line number in the source
	Text  string
	Kind  ErrorKind
	Field string // offending field or separator, if known
	Err   error  // underlying cause, may be nil
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("line %d: %s", e.Line, e.Kind)
	if e.Field != "" {
		msg += fmt.Sprintf(" %q", e.Field)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Text != "" {
		msg += fmt.Sprintf(" (in %q)", e.Text)
	}
	return msg
}

// Unwrap exposes both the kind sentinel and the underlying cause.
func (e *ParseError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if s := e.Kind.sentinel(); s != nil {
		errs = append(errs, s)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// IOError reports a workload file that could not be opened or read.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s workload %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }
