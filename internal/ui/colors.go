package ui

import (
	"github.com/charmbracelet/lipgloss"
)

var styles = NewPalette("#7D56F4", "#04B575", "#FF0000", "#FFA500", "#626262")

// interface Painter defines coloring text with [lipgloss] styles
type Painter interface {
	On(string, lipgloss.Color) string // Sets background color
	As(string, lipgloss.Color) string // Sets foreground color
}

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	r     *lipgloss.Renderer
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
	index lipgloss.Style
	tab   lipgloss.Style
	act   lipgloss.Style
}

var _ Painter = (*Palette)(nil)

// NewPalette builds a palette for the default (stdout) renderer.
func NewPalette(t, s, e, w, h string) *Palette {
	return NewPaletteFor(lipgloss.DefaultRenderer(), t, s, e, w, h)
}

// NewPaletteFor builds a palette whose color profile follows r, so a non-terminal writer gets plain text.
func NewPaletteFor(r *lipgloss.Renderer, t, s, e, w, h string) *Palette {
	return &Palette{
		r:     r,
		title: newBold(r, t).MarginBottom(1),
		ok:    newBold(r, s),
		err:   newBold(r, e),
		warn:  newStyle(r, w),
		help:  newEm(r, h),
		index: newStyle(r, h),
		tab:   newStyle(r, h).Padding(0, 1),
		act:   newBold(r, s).Padding(0, 1).Underline(true),
	}
}

func (p *Palette) On(s string, c lipgloss.Color) string {
	return p.r.NewStyle().Background(c).Render(s)
}

func (p *Palette) As(s string, c lipgloss.Color) string {
	return p.r.NewStyle().Foreground(c).Render(s)
}

func NewStyle(fg string) lipgloss.Style {
	return newStyle(lipgloss.DefaultRenderer(), fg)
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}

func newStyle(r *lipgloss.Renderer, fg string) lipgloss.Style {
	return r.NewStyle().Foreground(lipgloss.Color(fg))
}

func newBold(r *lipgloss.Renderer, fg string) lipgloss.Style {
	return newStyle(r, fg).Bold(true)
}

func newEm(r *lipgloss.Renderer, fg string) lipgloss.Style {
	return newStyle(r, fg).Italic(true)
}
