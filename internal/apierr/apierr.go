// Package apierr defines the error shape shared by every domain error the
// CLI raises: a type discriminant, a fixed name and message, and a stack
// trace captured where the error was composed.
//
// New error kinds embed Base and build it with New, passing their own
// constructor so that its frames are left out of the trace:
//
//	func newThingError(detail string) *ThingError {
//		return &ThingError{
//			Base:   apierr.New(apierr.UnexpectedError, "ThingError", "thing failed", newThingError),
//			Detail: detail,
//		}
//	}
package apierr

import (
	"errors"
	"fmt"
	"reflect"
	"runtime"

	pkgerrors "github.com/pkg/errors"
)

// Type discriminates the two families of domain errors.
type Type string

const (
	// BusinessError is an expected, user-facing failure.
	BusinessError Type = "BusinessError"
	// UnexpectedError is a failure the caller did not plan for.
	UnexpectedError Type = "UnexpectedError"
)

// Error is implemented by every error embedding Base.
type Error interface {
	error
	ErrorType() Type
	ErrorName() string
	ErrorMessage() string
	ErrorStack() string
	StackTrace() pkgerrors.StackTrace
}

// Base carries the fields common to all domain errors.
type Base struct {
	Type    Type   `json:"type"`
	Name    string `json:"name"`
	Message string `json:"message"`
	Stack   string `json:"stack"`

	trace pkgerrors.StackTrace
}

// New stamps a Base with its identity and captures the current stack.
// Frames up to and including composer are dropped; if composer is nil or
// is not on the stack, the trace starts at the caller of New.
func New(t Type, name, message string, composer any) Base {
	trace := trimThrough(capture(), funcName(New))
	if composer != nil {
		trace = trimThrough(trace, funcName(composer))
	}
	return Base{
		Type:    t,
		Name:    name,
		Message: message,
		Stack:   formatStack(name, message, trace),
		trace:   trace,
	}
}

func (b *Base) Error() string { return fmt.Sprintf("%s: %s", b.Name, b.Message) }

// ErrorType returns the discriminant.
func (b *Base) ErrorType() Type { return b.Type }

// ErrorName returns the fixed name of the error kind.
func (b *Base) ErrorName() string { return b.Name }

// ErrorMessage returns the fixed message of the error kind.
func (b *Base) ErrorMessage() string { return b.Message }

// ErrorStack returns the rendered stack, headed by name and message.
func (b *Base) ErrorStack() string { return b.Stack }

// StackTrace returns the frames captured by New.
func (b *Base) StackTrace() pkgerrors.StackTrace { return b.trace }

// As reports whether err is, or wraps, a domain error.
func As(err error) (Error, bool) {
	var e Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

func capture() pkgerrors.StackTrace {
	st, ok := pkgerrors.WithStack(errMarker).(interface {
		StackTrace() pkgerrors.StackTrace
	})
	if !ok {
		return nil
	}
	return st.StackTrace()
}

var errMarker = errors.New("stack marker")

func trimThrough(trace pkgerrors.StackTrace, name string) pkgerrors.StackTrace {
	if name == "" {
		return trace
	}
	for i, f := range trace {
		if frameName(f) == name {
			return trace[i+1:]
		}
	}
	return trace
}

func funcName(fn any) string {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return ""
	}
	f := runtime.FuncForPC(v.Pointer())
	if f == nil {
		return ""
	}
	return f.Name()
}

func frameName(f pkgerrors.Frame) string {
	fn := runtime.FuncForPC(uintptr(f) - 1)
	if fn == nil {
		return ""
	}
	return fn.Name()
}

// formatStack renders the header line followed by one "at" line per frame.
func formatStack(name, message string, trace pkgerrors.StackTrace) string {
	s := fmt.Sprintf("%s: %s", name, message)
	for _, f := range trace {
		s += fmt.Sprintf("\n    at %n (%s:%d)", f, f, f)
	}
	return s
}
