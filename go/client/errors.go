/*
   Copyright 2025 The typedsql Authors
	 See https://github.com/typedsql/typedsql/blob/master/LICENSE
*/

package client

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

const maxStackLength = 50

// ErrorKind classifies where in the prepare/bind/execute/fetch sequence an
// error surfaced.
type ErrorKind int

const (
	ErrConnection ErrorKind = iota
	ErrPrepare
	ErrBindArity
	ErrExecute
	ErrFetch
)

func (this ErrorKind) String() string {
	switch this {
	case ErrConnection:
		return "connection"
	case ErrPrepare:
		return "prepare"
	case ErrBindArity:
		return "bind-arity"
	case ErrExecute:
		return "execute"
	case ErrFetch:
		return "fetch"
	}
	return "unknown"
}

// Error is the type that implements the error interface for this layer.
// It carries the kind, the underlying err (server messages preserved
// verbatim) and its stacktrace.
type Error struct {
	Kind       ErrorKind
	Err        error
	StackTrace string
}

func (this *Error) Error() string {
	return fmt.Sprintf("%s: %s%s", this.Kind, this.Err.Error(), this.StackTrace)
}

func (this *Error) Unwrap() error {
	return this.Err
}

// WrapError annotates the given error with a kind and a stack trace.
func WrapError(kind ErrorKind, err error) *Error {
	return &Error{Kind: kind, Err: err, StackTrace: GetStackTrace()}
}

// Errorf builds a kinded error from a format string.
func Errorf(kind ErrorKind, format string, args ...interface{}) *Error {
	return WrapError(kind, fmt.Errorf(format, args...))
}

// IsKind tells whether err (or anything it wraps) is an Error of the given
// kind.
func IsKind(err error, kind ErrorKind) bool {
	var layerErr *Error
	if errors.As(err, &layerErr) {
		return layerErr.Kind == kind
	}
	return false
}

func GetStackTrace() string {
	stackBuf := make([]uintptr, maxStackLength)
	length := runtime.Callers(3, stackBuf[:])
	stack := stackBuf[:length]

	trace := ""
	frames := runtime.CallersFrames(stack)
	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.File, "runtime/") {
			trace = trace + fmt.Sprintf("\n\tFile: %s, Line: %d. Function: %s", frame.File, frame.Line, frame.Function)
		}
		if !more {
			break
		}
	}
	return trace
}
