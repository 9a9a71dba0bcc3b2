package harvest

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"commonsmeta/pkg/metadata"
)

// Printer writes the human-readable report.
type Printer struct {
	w       io.Writer
	heading *color.Color
	section *color.Color
	err     error
}

// NewPrinter creates a Printer writing to w. Headings are colored only
// when useColor is set and w is a terminal.
func NewPrinter(w io.Writer, useColor bool) *Printer {
	return newPrinter(w, useColor && isTerminal(w))
}

func newPrinter(w io.Writer, colored bool) *Printer {
	p := &Printer{
		w:       w,
		heading: color.New(color.FgHiCyan, color.Bold),
		section: color.New(color.FgYellow, color.Underline),
	}
	for _, c := range []*color.Color{p.heading, p.section} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Err returns the first write error, if any.
func (p *Printer) Err() error {
	return p.err
}

func (p *Printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

// Section starts a part of the report (one per driver step).
func (p *Printer) Section(title string) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintln(p.w, p.section.Sprint("== "+title+" =="))
}

// Heading prints a file or category title.
func (p *Printer) Heading(title string) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintln(p.w, p.heading.Sprint(title))
}

// Line prints one metadata line.
func (p *Printer) Line(l metadata.Line) {
	p.printf("%s\n", l.String())
}

// Lines prints metadata lines in order.
func (p *Printer) Lines(lines []metadata.Line) {
	for _, l := range lines {
		p.Line(l)
	}
}

// Pair prints "key -> value".
func (p *Printer) Pair(key, value string) {
	p.printf("%s%s%s\n", key, metadata.Separator, value)
}

// List prints "title -> [a, b, c]".
func (p *Printer) List(title string, items []string) {
	p.Pair(title, "["+strings.Join(items, ", ")+"]")
}

// Blank prints the separator between records.
func (p *Printer) Blank() {
	p.printf("\n")
}
