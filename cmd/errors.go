package cmd

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/kilianp07/edfsim/core/workload"
)

// Process exit codes.
const (
	ExitFailure = 1
	ExitUsage   = 2
	ExitIO      = 3
	ExitParse   = 4
	ExitConfig  = 5
)

type usageError struct{ err error }

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

type configError struct{ err error }

func (e *configError) Error() string { return "configuration: " + e.err.Error() }
func (e *configError) Unwrap() error { return e.err }

// ExitCode maps an error returned by Execute to a process exit code.
func ExitCode(err error) int {
	var (
		ue *usageError
		ce *configError
		ie *workload.IOError
		pe *workload.ParseError
	)
	switch {
	case err == nil:
		return 0
	case errors.As(err, &ue):
		return ExitUsage
	case errors.As(err, &ie):
		return ExitIO
	case errors.As(err, &pe):
		return ExitParse
	case errors.As(err, &ce):
		return ExitConfig
	default:
		return ExitFailure
	}
}

// Describe renders err as a message for the error stream, distinguishing
// every workload failure kind.
func Describe(err error) string {
	var (
		ue *usageError
		ie *workload.IOError
		pe *workload.ParseError
	)
	switch {
	case errors.As(err, &ue):
		return fmt.Sprintf("usage error: %v (see --help)", ue.err)
	case errors.As(err, &ie):
		switch {
		case errors.Is(err, fs.ErrNotExist):
			return fmt.Sprintf("workload file not found: %s", ie.Path)
		case errors.Is(err, fs.ErrPermission):
			return fmt.Sprintf("permission denied reading workload file: %s", ie.Path)
		default:
			return fmt.Sprintf("cannot read workload file %s: %v", ie.Path, ie.Err)
		}
	case errors.As(err, &pe):
		return describeParse(pe)
	default:
		return err.Error()
	}
}

func describeParse(pe *workload.ParseError) string {
	var msg string
	switch pe.Kind {
	case workload.KindMissingSeparator:
		msg = fmt.Sprintf("missing separator %q", pe.Field)
	case workload.KindNonNumericField:
		msg = "non-numeric field"
		if pe.Field != "" {
			msg += " " + pe.Field
		}
	case workload.KindFieldRangeOverflow:
		msg = fmt.Sprintf("field %s out of range (context cost must be 0-255, other fields 0-65535)", pe.Field)
	case workload.KindFieldCount:
		msg = fmt.Sprintf("unexpected or missing field %s", pe.Field)
	case workload.KindEmptyComputation:
		msg = "computation must be at least 1"
	default:
		return pe.Error()
	}
	if pe.Text != "" {
		return fmt.Sprintf("workload line %d: %s: %s", pe.Line, msg, pe.Text)
	}
	return fmt.Sprintf("workload line %d: %s", pe.Line, msg)
}
