// Package diag prints non-fatal diagnostics: tolerated malformed input,
// informational validator findings, and anything else the core recovers
// from rather than failing on. It never sits on the core decode/encode/
// validate error path itself — those return hwperr values, not print
// anything. Output is colorized only when the destination is an actual
// terminal (spec's tools are meant to compose in scripts/pipes too).
package diag

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Printer writes colorized diagnostics to an io.Writer, falling back to
// plain text when the writer isn't a terminal (or isn't an *os.File at
// all, e.g. a buffer in a test).
type Printer struct {
	w       io.Writer
	colored bool
}

// NewPrinter builds a Printer targeting w. Coloring is auto-detected from
// w when it's an *os.File; pass forceColor to override (e.g. --color).
func NewPrinter(w io.Writer, forceColor *bool) *Printer {
	colored := false
	if f, ok := w.(*os.File); ok {
		colored = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	if forceColor != nil {
		colored = *forceColor
	}
	return &Printer{w: w, colored: colored}
}

// Warn prints a yellow "warning:"-prefixed line for tolerated, non-fatal
// input problems (e.g. an unmodeled record kind skipped during decode).
func (p *Printer) Warn(format string, args ...any) {
	p.print(color.FgYellow, "warning", format, args...)
}

// Info prints a cyan informational line (e.g. validator word-count).
func (p *Printer) Info(format string, args ...any) {
	p.print(color.FgCyan, "info", format, args...)
}

// Fail prints a red line for a structural check failure, without itself
// causing the process to exit; the caller decides the exit code.
func (p *Printer) Fail(format string, args ...any) {
	p.print(color.FgRed, "fail", format, args...)
}

func (p *Printer) print(attr color.Attribute, label, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if !p.colored {
		fmt.Fprintf(p.w, "%s: %s\n", label, msg)
		return
	}
	c := color.New(attr)
	c.Fprintf(p.w, "%s", label)
	fmt.Fprintf(p.w, ": %s\n", msg)
}
