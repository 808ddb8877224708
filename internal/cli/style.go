package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

type palette struct {
	Base00 lipgloss.Color // Background
	Base01 lipgloss.Color // Surface
	Base02 lipgloss.Color // Selection
	Base03 lipgloss.Color // Muted
	Base04 lipgloss.Color // Subtle
	Base05 lipgloss.Color // Text
	Base06 lipgloss.Color // Bright Text
	Base07 lipgloss.Color
	Base08 lipgloss.Color
	Base09 lipgloss.Color
	Base0A lipgloss.Color
	Base0B lipgloss.Color
	Base0C lipgloss.Color
	Base0D lipgloss.Color
	Base0E lipgloss.Color
	Base0F lipgloss.Color
}

var (
	cyan   = lipgloss.Color("#08bdba")
	teal   = lipgloss.Color("#3ddbd9")
	blue1  = lipgloss.Color("#78a9ff")
	pink   = lipgloss.Color("#ee5396")
	green  = lipgloss.Color("#42be65")
	purple = lipgloss.Color("#be95ff")
	blue2  = lipgloss.Color("#33b1ff")
	pink2  = lipgloss.Color("#ff7eb6")
	blue3  = lipgloss.Color("#82cfff")

	// Oxocarbon Dark Palette
	//
	// Source: https://github.com/nyoom-engineering/oxoc
	oxoc = palette{
		Base00: lipgloss.Color("#161616"),
		Base01: lipgloss.Color("#262626"),
		Base02: lipgloss.Color("#393939"),
		Base03: lipgloss.Color("#525252"),
		Base04: lipgloss.Color("#dde1e6"),
		Base05: lipgloss.Color("#f2f4f8"),
		Base06: lipgloss.Color("#ffffff"),
		Base07: cyan,
		Base08: teal,
		Base09: blue1,
		Base0A: pink,
		Base0B: blue2,
		Base0C: pink2,
		Base0D: green,
		Base0E: purple,
		Base0F: blue3,
	}
)

// Styles holds the lipgloss styles used by command output.
type Styles struct {
	Header  lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style
	Muted   lipgloss.Style
	Accent  lipgloss.Style
	Match   lipgloss.Style
	Path    lipgloss.Style
}

// NewStyles returns the Oxocarbon styles.
func NewStyles() *Styles {
	fg := func(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }
	return &Styles{
		Header:  fg(oxoc.Base0E).Bold(true),
		Success: fg(oxoc.Base0D),
		Error:   fg(oxoc.Base0C),
		Warning: fg(oxoc.Base0A),
		Info:    fg(oxoc.Base09),
		Muted:   fg(oxoc.Base03),
		Accent:  fg(oxoc.Base07),
		Match:   fg(oxoc.Base0F).Bold(true),
		Path:    fg(oxoc.Base08),
	}
}

// Printer writes styled command output. Errors go to errOut, everything
// else to out.
type Printer struct {
	Styles *Styles
	out    io.Writer
	errOut io.Writer
}

func NewPrinter(out, errOut io.Writer) *Printer {
	return &Printer{Styles: NewStyles(), out: out, errOut: errOut}
}

func (p *Printer) mark(w io.Writer, style lipgloss.Style, symbol, msg string) {
	fmt.Fprintf(w, "%s %s\n", style.Render(symbol), msg)
}

func (p *Printer) PrintHeader(msg string) {
	fmt.Fprintln(p.out, p.Styles.Header.Render(msg))
}

func (p *Printer) PrintSuccess(msg string) { p.mark(p.out, p.Styles.Success, "✔", msg) }

func (p *Printer) PrintError(msg string) { p.mark(p.errOut, p.Styles.Error, "✘", msg) }

func (p *Printer) PrintWarning(msg string) { p.mark(p.out, p.Styles.Warning, "⚠", msg) }

func (p *Printer) PrintInfo(msg string) { p.mark(p.out, p.Styles.Info, "ℹ", msg) }

// PrintListItem prints "label: value" with a muted label.
func (p *Printer) PrintListItem(label, value string) {
	fmt.Fprintf(p.out, "%s: %s\n", p.Styles.Muted.Render(label), value)
}

func (p *Printer) FormatPath(path string) string { return p.Styles.Path.Render(path) }

func (p *Printer) FormatTerm(term string) string { return p.Styles.Accent.Render(term) }
