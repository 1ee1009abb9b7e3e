package models

import (
	"errors"
	"fmt"
)

// ErrorKind classifies calculation failures.
type ErrorKind string

const (
	KindDataUnavailable     ErrorKind = "DataUnavailable"
	KindUndefinedRatio      ErrorKind = "UndefinedRatio"
	KindInsufficientHistory ErrorKind = "InsufficientHistory"
	KindUnexpectedFailure   ErrorKind = "UnexpectedFailure"
)

// Sentinels for errors.Is checks against a CalcError's kind.
var (
	ErrDataUnavailable     = errors.New("data not available")
	ErrUndefinedRatio      = errors.New("ratio is undefined")
	ErrInsufficientHistory = errors.New("insufficient history")
	ErrUnexpectedFailure   = errors.New("unexpected failure")
)

// ErrMetricNotFound is wrapped by the DataUnavailable error a metric
// reader returns when no candidate label exists.
var ErrMetricNotFound = errors.New("metric not found")

// ErrNoDividend is wrapped when a PEGY score has no dividend to add.
var ErrNoDividend = errors.New("no dividend paid in the trailing year")

// CalcError is a failure scoped to one metric, ratio, or growth figure.
type CalcError struct {
	Kind   ErrorKind
	Op     string // e.g. "total_debt", "read metric"
	Detail string
	Err    error
}

func (e *CalcError) Error() string {
	msg := e.Detail
	if msg == "" {
		msg = e.sentinel().Error()
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *CalcError) Unwrap() error { return e.Err }

// Is matches the sentinel for the error's kind.
func (e *CalcError) Is(target error) bool {
	return target == e.sentinel()
}

func (e *CalcError) sentinel() error {
	switch e.Kind {
	case KindDataUnavailable:
		return ErrDataUnavailable
	case KindUndefinedRatio:
		return ErrUndefinedRatio
	case KindInsufficientHistory:
		return ErrInsufficientHistory
	}
	return ErrUnexpectedFailure
}

// Unavailable builds a DataUnavailable error.
func Unavailable(op, format string, args ...any) *CalcError {
	return &CalcError{Kind: KindDataUnavailable, Op: op, Detail: fmt.Sprintf(format, args...)}
}

// Undefined builds an UndefinedRatio error.
func Undefined(op, format string, args ...any) *CalcError {
	return &CalcError{Kind: KindUndefinedRatio, Op: op, Detail: fmt.Sprintf(format, args...)}
}

// Insufficient builds an InsufficientHistory error.
func Insufficient(op, format string, args ...any) *CalcError {
	return &CalcError{Kind: KindInsufficientHistory, Op: op, Detail: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of err; anything that is not a CalcError is an
// UnexpectedFailure.
func KindOf(err error) ErrorKind {
	var ce *CalcError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindUnexpectedFailure
}
