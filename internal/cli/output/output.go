// Package output renders command results as text, markdown or JSON.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"golang.org/x/term"
)

// Mode selects how results are rendered.
type Mode string

// Output modes.
const (
	ModeAuto     Mode = "auto"
	ModeText     Mode = "text"
	ModeMarkdown Mode = "markdown"
	ModeJSON     Mode = "json"
)

// Modes lists the accepted values of the --output flag.
var Modes = []string{string(ModeAuto), string(ModeText), string(ModeMarkdown), string(ModeJSON)}

// Styles holds the text mode styles.
type Styles struct {
	Header  lipgloss.Style
	Warning lipgloss.Style
}

func newStyles(lr *lipgloss.Renderer) Styles {
	return Styles{
		Header:  lr.NewStyle().Bold(true),
		Warning: lr.NewStyle().Foreground(lipgloss.Color("214")),
	}
}

// Renderer writes command output in the selected mode.
type Renderer struct {
	w      io.Writer
	errW   io.Writer
	mode   Mode
	isTTY  bool
	styles Styles
}

// NewRenderer creates a renderer. Auto mode renders text when w is a
// terminal and markdown otherwise.
func NewRenderer(w, errW io.Writer, mode Mode) *Renderer {
	isTTY := false
	if f, ok := w.(*os.File); ok {
		isTTY = term.IsTerminal(int(f.Fd())) //nolint:gosec // fd fits in int
	}
	return NewRendererWithTTY(w, errW, mode, isTTY)
}

// NewRendererWithTTY creates a renderer with explicit terminal detection.
func NewRendererWithTTY(w, errW io.Writer, mode Mode, isTTY bool) *Renderer {
	if mode == "" {
		mode = ModeAuto
	}
	return &Renderer{
		w:      w,
		errW:   errW,
		mode:   mode,
		isTTY:  isTTY,
		styles: newStyles(lipgloss.NewRenderer(w)),
	}
}

// Styles returns the text mode styles. They render plain text unless the
// output writer is a color terminal.
func (r *Renderer) Styles() Styles {
	return r.styles
}

// EffectiveMode resolves ModeAuto against the terminal.
func (r *Renderer) EffectiveMode() Mode {
	if r.mode != ModeAuto {
		return r.mode
	}
	if r.isTTY {
		return ModeText
	}
	return ModeMarkdown
}

// IsTTY reports whether output goes to a terminal.
func (r *Renderer) IsTTY() bool {
	return r.isTTY
}

// Writer returns the output writer.
func (r *Renderer) Writer() io.Writer {
	return r.w
}

// Println writes a line to the output.
func (r *Renderer) Println(a ...any) {
	_, _ = fmt.Fprintln(r.w, a...)
}

// Printf writes formatted output.
func (r *Renderer) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(r.w, format, a...)
}

// Warning writes a warning to the error writer.
func (r *Renderer) Warning(msg string) {
	_, _ = fmt.Fprintln(r.errW, r.styles.Warning.Render("Warning: "+msg))
}

// Header writes a section header in the effective mode.
func (r *Renderer) Header(level int, title string) {
	if r.EffectiveMode() == ModeMarkdown {
		r.Println(FormatHeader(level, title))
		r.Println("")
		return
	}
	r.Println(r.styles.Header.Render(title))
	r.Println(strings.Repeat("─", len([]rune(title))))
}

// JSON writes v as indented JSON.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON output: %w", err)
	}
	return nil
}

// Table writes rows under header as a box-drawn table in text mode and a
// markdown table otherwise.
func (r *Renderer) Table(header []string, rows [][]string) {
	t := table.NewWriter()
	t.SetOutputMirror(r.w)
	t.SetStyle(table.StyleLight)

	headerRow := make(table.Row, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	t.AppendHeader(headerRow)
	for _, cells := range rows {
		row := make(table.Row, len(cells))
		for i, c := range cells {
			row[i] = c
		}
		t.AppendRow(row)
	}

	if r.EffectiveMode() == ModeMarkdown {
		t.RenderMarkdown()
		return
	}
	t.Render()
}

// KeyValue writes a labelled value in the effective mode.
func (r *Renderer) KeyValue(key, value string) {
	if r.EffectiveMode() == ModeMarkdown {
		r.Println(FormatKeyValue(key, value))
		return
	}
	r.Printf("%-14s %s\n", key+":", value)
}

// FormatHeader formats a markdown header.
func FormatHeader(level int, title string) string {
	if level < 1 {
		level = 1
	}
	return strings.Repeat("#", level) + " " + title
}

// FormatKeyValue formats a markdown list item with a bold key.
func FormatKeyValue(key, value string) string {
	return fmt.Sprintf("- **%s:** %s", key, value)
}
