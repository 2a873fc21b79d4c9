// Package console renders human-readable command output.
package console

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Palette colours, ANSI 256.
const (
	colorAccent  = "39"
	colorSuccess = "42"
	colorDanger  = "203"
	colorMuted   = "245"
)

type styles struct {
	banner  lipgloss.Style
	step    lipgloss.Style
	success lipgloss.Style
	failure lipgloss.Style
	muted   lipgloss.Style
	title   lipgloss.Style
}

func newStyles(r *lipgloss.Renderer, color bool) styles {
	if !color {
		plain := r.NewStyle()
		return styles{banner: plain, step: plain, success: plain, failure: plain, muted: plain, title: plain}
	}
	return styles{
		banner: r.NewStyle().
			Foreground(lipgloss.Color(colorAccent)).
			Bold(true),
		step: r.NewStyle().
			Bold(true),
		success: r.NewStyle().
			Foreground(lipgloss.Color(colorSuccess)),
		failure: r.NewStyle().
			Foreground(lipgloss.Color(colorDanger)).
			Bold(true),
		muted: r.NewStyle().
			Foreground(lipgloss.Color(colorMuted)),
		title: r.NewStyle().
			Foreground(lipgloss.Color(colorAccent)),
	}
}

// Printer writes step-by-step command output.
type Printer struct {
	out    io.Writer
	styles styles
}

// New returns a Printer writing to out. Colour is only applied when color is
// set and out supports it.
func New(out io.Writer, color bool) *Printer {
	r := lipgloss.NewRenderer(out)
	return &Printer{
		out:    out,
		styles: newStyles(r, color),
	}
}

// ShouldColor reports whether output to f should be styled.
func ShouldColor(f *os.File, enabled bool) bool {
	if !enabled || os.Getenv("NO_COLOR") != "" {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Banner prints a section title.
func (p *Printer) Banner(title string) {
	p.println(p.styles.banner.Render("=== " + title + " ==="))
}

// Step prints a numbered step header preceded by a blank line.
func (p *Printer) Step(n int, format string, args ...any) {
	p.println("")
	p.println(p.styles.step.Render(fmt.Sprintf("%d. ", n) + fmt.Sprintf(format, args...)))
}

// Success prints a ✓ line.
func (p *Printer) Success(format string, args ...any) {
	p.println(p.styles.success.Render("✓") + " " + fmt.Sprintf(format, args...))
}

// Failure prints a ✗ line.
func (p *Printer) Failure(format string, args ...any) {
	p.println(p.styles.failure.Render("✗") + " " + fmt.Sprintf(format, args...))
}

// Skip prints a – line for a step that did not run.
func (p *Printer) Skip(format string, args ...any) {
	p.println(p.styles.muted.Render("– " + fmt.Sprintf(format, args...)))
}

// Detail prints an indented line under the current step.
func (p *Printer) Detail(format string, args ...any) {
	p.println("  " + fmt.Sprintf(format, args...))
}

// Item prints the head of a numbered result block; its fields follow as
// Field lines.
func (p *Printer) Item(n int, title string) {
	p.println("")
	p.println(fmt.Sprintf("%d. ", n) + p.styles.title.Render(title))
}

// Field prints an indented field of a result block.
func (p *Printer) Field(format string, args ...any) {
	p.println("   " + fmt.Sprintf(format, args...))
}

// Line prints an unindented line.
func (p *Printer) Line(format string, args ...any) {
	p.println(fmt.Sprintf(format, args...))
}

// Blank prints an empty line.
func (p *Printer) Blank() {
	p.println("")
}

func (p *Printer) println(s string) {
	_, _ = io.WriteString(p.out, strings.TrimRight(s, " ")+"\n")
}
