package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/spotsearch/internal/models"
	"github.com/mattn/go-runewidth"
)

// DefaultTitleWidth is the visual width titles are cut to by [TextPresenter].
const DefaultTitleWidth = 48

const noResults = "No results found."

// Presenter displays controller output.
type Presenter interface {
	// Status replaces the status line.
	Status(msg string)
	// Render replaces the visible result list wholesale.
	Render(kind models.Kind, items []models.Item)
	// Clear removes any visible results.
	Clear()
}

// Controls reports which user actions are currently available.
type Controls struct {
	LoginEnabled  bool
	LogoutEnabled bool
	SearchEnabled bool
}

// StatusLine is the status shown after a search completes.
func StatusLine(kind models.Kind, n int) string {
	if n == 0 {
		return noResults
	}
	return fmt.Sprintf("Found %d %s.", n, kind.Plural())
}

// Truncate cuts s to width terminal cells for display, marking the cut with an ellipsis.
func Truncate(s string, width int) string {
	if width <= 0 {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}

// TextPresenter writes statuses and result rows to a writer.
type TextPresenter struct {
	mu      sync.Mutex
	w       io.Writer
	width   int
	palette *Palette
}

var _ Presenter = (*TextPresenter)(nil)

// NewTextPresenter creates a presenter that truncates titles to width cells.
func NewTextPresenter(w io.Writer, width int) *TextPresenter {
	if width <= 0 {
		width = DefaultTitleWidth
	}
	return &TextPresenter{
		w:       w,
		width:   width,
		palette: NewPaletteFor(lipgloss.NewRenderer(w), "#7D56F4", "#04B575", "#FF0000", "#FFA500", "#626262"),
	}
}

func (p *TextPresenter) Status(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.w, p.palette.warn.Render(msg))
}

func (p *TextPresenter) Render(kind models.Kind, items []models.Item) {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintln(p.w, p.palette.ok.Render(StatusLine(kind, len(items))))

	pad := len(fmt.Sprint(len(items))) + 2
	indent := strings.Repeat(" ", pad)
	for i, item := range items {
		ordinal := fmt.Sprintf("%*s", pad, fmt.Sprintf("%d.", i+1))
		fmt.Fprintf(p.w, "%s %s\n", p.palette.index.Render(ordinal), Truncate(item.Title, p.width))
		fmt.Fprintf(p.w, "%s %s\n", indent, item.Line())
		fmt.Fprintf(p.w, "%s %s\n", indent, p.palette.help.Render(item.CoverURL))
	}
}

// Clear is a no-op for append-only output.
func (p *TextPresenter) Clear() {}

// ChannelPresenter forwards presenter calls to a bubbletea [Model] as messages.
type ChannelPresenter struct {
	updates chan tea.Msg
}

var _ Presenter = (*ChannelPresenter)(nil)

func NewChannelPresenter(buffer int) *ChannelPresenter {
	return &ChannelPresenter{updates: make(chan tea.Msg, buffer)}
}

func (p *ChannelPresenter) Status(msg string) { p.updates <- statusMsg(msg) }

func (p *ChannelPresenter) Render(kind models.Kind, items []models.Item) {
	p.updates <- resultsMsg(kind, items)
}

func (p *ChannelPresenter) Clear() { p.updates <- clearedMsg() }

// Updates is read by the model; it is never closed.
func (p *ChannelPresenter) Updates() <-chan tea.Msg { return p.updates }
