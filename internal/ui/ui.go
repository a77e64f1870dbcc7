package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotsearch/internal/models"
)

// Actions are the controller operations the TUI can trigger.
type Actions interface {
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Search(ctx context.Context, kind models.Kind, query string) error
	Controls() Controls
}

// Focus is the widget receiving key presses.
type Focus int

const (
	InputFocus Focus = iota
	ListFocus
)

// Options configures a [Model].
type Options struct {
	Actions Actions
	Updates <-chan tea.Msg
	Logger  *log.Logger
	Kind    models.Kind
	Status  string
}

// Model represents the TUI application state.
type Model struct {
	ctx      context.Context
	actions  Actions
	updates  <-chan tea.Msg
	logger   *log.Logger
	kind     models.Kind
	focus    Focus
	input    textinput.Model
	results  list.Model
	spinner  spinner.Model
	help     help.Model
	keys     keyMap
	controls Controls
	status   string
	busy     string
	selected *models.Item
	width    int
	height   int
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, opts Options) *Model {
	kind := opts.Kind
	if !kind.Valid() {
		kind = models.KindTrack
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	input := textinput.New()
	input.Placeholder = "Search Spotify"
	input.CharLimit = 200
	input.Focus()

	results := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	results.SetShowHelp(false)
	results.SetShowStatusBar(false)
	results.SetFilteringEnabled(false)
	results.Title = "Results"

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	m := &Model{
		ctx:     ctx,
		actions: opts.Actions,
		updates: opts.Updates,
		logger:  logger,
		kind:    kind,
		focus:   InputFocus,
		input:   input,
		results: results,
		spinner: spin,
		help:    help.New(),
		keys:    newKeyMap(),
		status:  opts.Status,
	}
	m.refreshControls()
	return m
}

// Init starts the cursor blink and begins listening for presenter updates.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.waitForUpdate())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(msg.Width-6, 10)
		m.results.SetSize(msg.Width-4, max(msg.Height-10, 3))
		return m, nil

	case spinner.TickMsg:
		if m.busy == "" {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case Msg:
		return m.handleMsg(msg)

	case tea.KeyMsg:
		return m.handleKeys(msg)
	}

	return m.updateFocused(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgStatus:
		m.status = msg.data.(string)
		return m, m.waitForUpdate()

	case MsgResults:
		data := msg.data.(resultsData)
		m.selected = nil
		cmd := m.results.SetItems(toListItems(data.items))
		m.status = StatusLine(data.kind, len(data.items))
		m.results.Title = fmt.Sprintf("%s results", data.kind.Label())
		m.results.ResetSelected()
		if len(data.items) == 0 {
			m.focus = InputFocus
			m.input.Focus()
		}
		return m, tea.Batch(cmd, m.waitForUpdate())

	case MsgCleared:
		m.selected = nil
		cmd := m.results.SetItems(nil)
		m.results.Title = "Results"
		return m, tea.Batch(cmd, m.waitForUpdate())

	case MsgActionDone:
		data := msg.data.(actionData)
		m.busy = ""
		m.refreshControls()
		if data.err != nil {
			m.logger.Debug("action failed", "action", data.action, "error", data.err)
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.nextKind):
		m.kind = cycleKind(m.kind, 1)
		return m, nil
	case key.Matches(msg, m.keys.prevKind):
		m.kind = cycleKind(m.kind, -1)
		return m, nil
	case key.Matches(msg, m.keys.login):
		return m, m.run("login", m.actions.Login)
	case key.Matches(msg, m.keys.logout):
		return m, m.run("logout", m.actions.Logout)
	case msg.String() == "ctrl+l" || msg.String() == "ctrl+o":
		return m, nil
	}

	switch m.focus {
	case InputFocus:
		return m.handleInputKeys(msg)
	default:
		return m.handleListKeys(msg)
	}
}

func (m *Model) handleInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		query := strings.TrimSpace(m.input.Value())
		if query == "" || m.busy != "" {
			return m, nil
		}
		kind := m.kind
		return m, m.run("search", func(ctx context.Context) error {
			return m.actions.Search(ctx, kind, query)
		})
	case "down":
		if len(m.results.Items()) > 0 {
			m.focus = ListFocus
			m.input.Blur()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc", "/":
		m.focus = InputFocus
		return m, m.input.Focus()
	case "enter":
		if it, ok := m.results.SelectedItem().(resultItem); ok {
			item := it.item
			m.selected = &item
			m.logger.Debug("Clicked item", "id", item.ID, "type", item.Kind, "title", item.Title, "cover", item.CoverURL)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.results, cmd = m.results.Update(msg)
	return m, cmd
}

func (m *Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case InputFocus:
		m.input, cmd = m.input.Update(msg)
	case ListFocus:
		m.results, cmd = m.results.Update(msg)
	}
	return m, cmd
}

// run executes action off the update loop and reports back with [MsgActionDone].
func (m *Model) run(name string, action func(context.Context) error) tea.Cmd {
	if m.busy != "" {
		return nil
	}
	m.busy = name
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		return actionDoneMsg(name, action(m.ctx))
	})
}

func (m *Model) waitForUpdate() tea.Cmd {
	if m.updates == nil {
		return nil
	}
	return func() tea.Msg {
		msg, ok := <-m.updates
		if !ok {
			return nil
		}
		return msg
	}
}

func (m *Model) refreshControls() {
	if m.actions != nil {
		m.controls = m.actions.Controls()
	}
	m.keys.apply(m.controls)
}

func cycleKind(k models.Kind, step int) models.Kind {
	n := len(models.Kinds)
	for i, kind := range models.Kinds {
		if kind == k {
			return models.Kinds[((i+step)%n+n)%n]
		}
	}
	return models.KindTrack
}

// View renders the search screen.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(styles.title.Render("spotsearch"))
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n\n")
	if len(m.results.Items()) > 0 {
		b.WriteString(m.results.View())
		b.WriteString("\n")
	}
	if m.selected != nil {
		b.WriteString(styles.help.Render(fmt.Sprintf("cover: %s", m.selected.CoverURL)))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *Model) renderTabs() string {
	tabs := make([]string, len(models.Kinds))
	for i, kind := range models.Kinds {
		if kind == m.kind {
			tabs[i] = styles.act.Render(kind.Label())
		} else {
			tabs[i] = styles.tab.Render(kind.Label())
		}
	}
	return strings.Join(tabs, " ")
}

func (m *Model) renderStatus() string {
	status := m.status
	if status == "" {
		status = "(Not logged in)"
		if m.controls.LogoutEnabled {
			status = "Logged in."
		}
	}
	if m.busy != "" {
		return fmt.Sprintf("%s %s", m.spinner.View(), status)
	}
	if strings.Contains(strings.ToLower(status), "error") || strings.HasPrefix(status, "Token request failed") {
		return styles.err.Render(status)
	}
	return styles.ok.Render(status)
}

// Kind returns the selected search kind.
func (m *Model) Kind() models.Kind { return m.kind }

// Focused returns the widget that receives key presses.
func (m *Model) Focused() Focus { return m.focus }

// StatusText returns the current status line.
func (m *Model) StatusText() string { return m.status }
