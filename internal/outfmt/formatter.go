package outfmt

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
)

// Formatter writes command results in the mode held by its context.
type Formatter struct {
	ctx    context.Context
	out    io.Writer
	errOut io.Writer
	tw     *tabwriter.Writer
	header *color.Color
}

// NewFormatter creates a Formatter. Table headers are bold unless color is
// disabled globally (NO_COLOR, --color=never or a non-terminal).
func NewFormatter(ctx context.Context, out, errOut io.Writer) *Formatter {
	return &Formatter{
		ctx:    ctx,
		out:    out,
		errOut: errOut,
		tw:     tabwriter.NewWriter(out, 0, 4, 2, ' ', 0),
		header: color.New(color.Bold),
	}
}

// Output writes data in a structured mode. It does nothing in Text mode so
// callers can fall through to a table.
func (f *Formatter) Output(data any) error {
	mode := ModeFromContext(f.ctx)
	if mode == Text && GetTemplate(f.ctx) == "" {
		return nil
	}
	result, err := ApplyQuery(data, GetQuery(f.ctx))
	if err != nil {
		return err
	}
	if tmpl := GetTemplate(f.ctx); tmpl != "" {
		generic, err := toGeneric(result)
		if err != nil {
			return err
		}
		return WriteTemplate(f.out, generic, tmpl)
	}
	switch mode {
	case JSONL:
		return WriteJSONLines(f.out, result)
	case YAML:
		return WriteYAML(f.out, result)
	default:
		return WriteJSONMaybeCompact(f.out, result, IsCompact(f.ctx))
	}
}

// Structured reports whether Output will write something.
func (f *Formatter) Structured() bool {
	return IsStructured(f.ctx) || GetTemplate(f.ctx) != ""
}

// StartTable writes table headers and returns true in Text mode.
func (f *Formatter) StartTable(headers ...string) bool {
	if f.Structured() {
		return false
	}
	_, _ = fmt.Fprintln(f.tw, f.header.Sprint(strings.Join(headers, "\t")))
	return true
}

// Row writes one table row.
func (f *Formatter) Row(columns ...string) {
	_, _ = fmt.Fprintln(f.tw, strings.Join(columns, "\t"))
}

// EndTable flushes the table.
func (f *Formatter) EndTable() error {
	return f.tw.Flush()
}

// Empty reports an empty result on stderr.
func (f *Formatter) Empty(message string) {
	_, _ = fmt.Fprintln(f.errOut, message)
}

// KeyValues prints label/value pairs for a single entity in Text mode.
func (f *Formatter) KeyValues(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		_, _ = fmt.Fprintf(f.tw, "%s\t%s\n", f.header.Sprint(pairs[i]+":"), pairs[i+1])
	}
	return f.tw.Flush()
}
