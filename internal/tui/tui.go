package tui

import (
	"fmt"
	rand "math/rand/v2"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/lox/handbits/internal/trace"
	"github.com/lox/handbits/poker"
)

type keyMap struct {
	Deal  key.Binding
	Trace key.Binding
	Up    key.Binding
	Down  key.Binding
	Quit  key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Deal, k.Trace, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Deal, k.Trace}, {k.Up, k.Down, k.Quit}}
}

var defaultKeys = keyMap{
	Deal: key.NewBinding(
		key.WithKeys(" ", "enter", "d"),
		key.WithHelp("space", "deal"),
	),
	Trace: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "toggle trace"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "scroll up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "scroll down"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// Model is the Bubble Tea model for the interactive dealer
type Model struct {
	deck   *poker.Deck
	logger *log.Logger

	traceView viewport.Model
	help      help.Model
	keys      keyMap

	hand      []poker.Card
	trace     trace.Trace
	dealt     int
	tally     [poker.NumCategories]int
	showTrace bool
	quitting  bool

	width  int
	height int
}

// NewModel creates a dealer model drawing hands from rng
func NewModel(logger *log.Logger, rng *rand.Rand) *Model {
	vp := viewport.New(80, 10)
	vp.SetContent("")

	return &Model{
		deck:      poker.NewDeck(rng),
		logger:    logger.WithPrefix("tui"),
		traceView: vp,
		help:      help.New(),
		keys:      defaultKeys,
		showTrace: true,
	}
}

// Init implements tea.Model; the first hand waits for a key press
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages in the TUI
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.resizeTrace()
		m.logger.Debug("Updating dimensions", "width", m.width, "height", m.height)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Deal):
			m.Deal()
			return m, nil
		case key.Matches(msg, m.keys.Trace):
			m.showTrace = !m.showTrace
			m.resizeTrace()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.traceView, cmd = m.traceView.Update(msg)
	return m, cmd
}

// Deal shuffles, deals five cards and classifies them.
func (m *Model) Deal() {
	m.deck.Shuffle()
	hand := m.deck.DealHand()

	tr, err := trace.Classify(hand)
	if err != nil {
		// Cards from the deck are always valid
		m.logger.Error("Failed to classify dealt hand", "hand", hand, "error", err)
		return
	}

	m.hand = hand
	m.trace = tr
	m.dealt++
	m.tally[tr.Result.Category]++
	m.traceView.SetContent(trace.Render(tr))
	m.traceView.GotoTop()
	m.logger.Debug("Dealt hand", "hand", hand, "category", tr.Result.Name())
}

// Result returns the latest classification and whether a hand has been dealt
func (m *Model) Result() (poker.Result, bool) {
	return m.trace.Result, m.dealt > 0
}

// Dealt returns the number of hands dealt so far
func (m *Model) Dealt() int {
	return m.dealt
}

// Tally returns how many times category has been dealt
func (m *Model) Tally(c poker.Category) int {
	return m.tally[c]
}

// ShowTrace reports whether the trace pane is visible
func (m *Model) ShowTrace() bool {
	return m.showTrace
}

func (m *Model) resizeTrace() {
	if m.width == 0 || m.height == 0 {
		return
	}
	// header, hand box, result, tally and help take about ten lines
	m.traceView.Width = max(m.width-2, 1)
	m.traceView.Height = max(m.height-12, 1)
}

// View renders the TUI
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var sections []string
	sections = append(sections, HeaderStyle.Render("handbits: five card classifier"))

	if m.dealt == 0 {
		sections = append(sections, InfoStyle.Render("Press space to deal a hand."))
	} else {
		sections = append(sections,
			HandStyle.Render(trace.RenderHand(m.hand)),
			trace.RenderResult(m.trace.Result),
			TallyStyle.Render(m.renderTally()),
		)
		if m.showTrace {
			sections = append(sections, TracePaneStyle.Render(m.traceView.View()))
		}
	}

	sections = append(sections, m.help.View(m.keys))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) renderTally() string {
	parts := []string{fmt.Sprintf("%d dealt", m.dealt)}
	for i, n := range m.tally {
		if n > 0 {
			parts = append(parts, fmt.Sprintf("%s: %d", poker.Category(i), n))
		}
	}
	return strings.Join(parts, " | ")
}
