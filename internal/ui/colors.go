package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/waslerr/internal/notify"
)

var styles = NewPalette("#C084FC", "#04B575", "#FF5F87", "#FFA500", "#626262")

// interface Painter defines coloring text with [lipgloss] styles
type Painter interface {
	On(string, lipgloss.Color) string // Sets background color
	As(string, lipgloss.Color) string // Sets foreground color
}

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title  lipgloss.Style
	ok     lipgloss.Style
	err    lipgloss.Style
	warn   lipgloss.Style
	help   lipgloss.Style
	accent lipgloss.Style
	muted  lipgloss.Style
	card   lipgloss.Style
	toast  lipgloss.Style
	bar    lipgloss.Style
	side   lipgloss.Style

	accentColor lipgloss.Color
}

func NewPalette(t, s, e, w, h string) *Palette {
	return &Palette{
		title:       NewBold(t).MarginBottom(1),
		ok:          NewBold(s),
		err:         NewBold(e),
		warn:        NewStyle(w),
		help:        NewEm(h),
		accent:      NewBold(t),
		muted:       NewStyle(h),
		card:        lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color(h)).Padding(0, 1),
		toast:       lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
		bar:         lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderBottom(true).BorderForeground(lipgloss.Color(h)),
		side:        lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderRight(true).BorderForeground(lipgloss.Color(t)).PaddingRight(1),
		accentColor: lipgloss.Color(t),
	}
}

func (p *Palette) On(s string, c lipgloss.Color) string {
	return lipgloss.NewStyle().Background(c).Render(s)
}

func (p *Palette) As(s string, c lipgloss.Color) string {
	return lipgloss.NewStyle().Foreground(c).Render(s)
}

// forKind returns the toast style for a notification kind.
func (p *Palette) forKind(k notify.Kind) lipgloss.Style {
	switch k {
	case notify.KindSuccess:
		return p.toast.BorderForeground(p.ok.GetForeground()).Foreground(p.ok.GetForeground())
	case notify.KindError:
		return p.toast.BorderForeground(p.err.GetForeground()).Foreground(p.err.GetForeground())
	default:
		return p.toast.BorderForeground(p.accentColor).Foreground(p.accentColor)
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}
