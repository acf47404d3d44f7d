// Package output handles terminal detection and output formatting.
package output

import (
	"io"
	"os"

	"golang.org/x/term"
)

// IsTerminal returns true if w is a file connected to a terminal.
// When false, output is being piped, redirected or buffered.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
