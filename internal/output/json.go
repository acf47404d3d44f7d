package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/davecgh/go-spew/spew"
	pkgerrors "github.com/pkg/errors"

	"github.com/port402/anything-cli/internal/apierr"
)

// PrintJSON writes v to w as JSON, indented when w is a terminal.
func PrintJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	if IsTerminal(w) {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

// CallResult is printed after a successful echo call.
type CallResult struct {
	Host          string `json:"host"`
	Authorization string `json:"authorization"`
	URL           string `json:"url"`
	Method        string `json:"method"`
	MailAddress   string `json:"mailAddress"`
}

// FailureResult is printed when a call fails.
type FailureResult struct {
	ErrorName    string `json:"errorName"`
	ErrorMessage string `json:"errorMessage"`
	StackTrace   string `json:"stackTrace"`
	Error        any    `json:"error"`
}

// NewFailureResult describes err. Domain errors are embedded as structured
// values; anything else is reported by the type name of its cause with a
// dump of the cause. Errors without a trace get one captured here.
func NewFailureResult(err error) *FailureResult {
	if e, ok := apierr.As(err); ok {
		return &FailureResult{
			ErrorName:    e.ErrorName(),
			ErrorMessage: e.ErrorMessage(),
			StackTrace:   e.ErrorStack(),
			Error:        e,
		}
	}
	cause := pkgerrors.Cause(err)
	name := fmt.Sprintf("%T", cause)
	return &FailureResult{
		ErrorName:    name,
		ErrorMessage: cause.Error(),
		StackTrace:   fmt.Sprintf("%s: %s%+v", name, cause.Error(), traceOf(err)),
		Error:        dump.Sdump(cause),
	}
}

type stackTracer interface {
	StackTrace() pkgerrors.StackTrace
}

func traceOf(err error) pkgerrors.StackTrace {
	var st stackTracer
	if !errors.As(err, &st) {
		st = pkgerrors.WithStack(err).(stackTracer)
	}
	return st.StackTrace()
}

var dump = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// PrintFailure writes the failure object for err to w.
func PrintFailure(w io.Writer, err error) error {
	return PrintJSON(w, NewFailureResult(err))
}
