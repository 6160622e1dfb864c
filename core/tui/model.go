// Package tui is a terminal chat client for the persona orchestrator. It
// keeps the conversation history client-side and sends the whole history
// on every turn, like the web client does.
package tui

import (
	"context"
	"strings"

	"github.com/andrelmaraujo/mandacaru/core/conversation"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
)

// Greeting opens every conversation on behalf of the Motivator.
const Greeting = "Opa! Vi que você quer empreender. Me conta mais dessa ideia aí!"

const (
	headerHeight = 2
	footerHeight = 3
)

// Turner runs one conversational turn.
type Turner interface {
	Turn(ctx context.Context, history conversation.History) ([]conversation.Message, error)
}

type turnResultMsg struct {
	messages []conversation.Message
	err      error
}

// Model is the bubbletea model of the chat screen.
type Model struct {
	ctx    context.Context
	turner Turner

	history  conversation.History
	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	renderer *glamour.TermRenderer
	styles   Styles

	waiting bool
	err     error
}

// New creates a chat model seeded with the greeting.
func New(ctx context.Context, turner Turner) Model {
	styles := DefaultStyles()

	ti := textinput.New()
	ti.Placeholder = "Conta sua ideia... (Enter envia, Esc sai)"
	ti.Prompt = "> "
	ti.PromptStyle = styles.Prompt
	ti.CharLimit = 4096
	ti.Width = 76
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		ctx:      ctx,
		turner:   turner,
		history:  conversation.History{conversation.AgentText("Compadre", Greeting)},
		input:    ti,
		viewport: viewport.New(80, 20),
		spinner:  sp,
		renderer: newRenderer(76),
		styles:   styles,
	}
	m.viewport.SetContent(m.renderHistory())
	return m
}

// History returns a copy of the conversation so far.
func (m Model) History() conversation.History {
	return m.history.Clone()
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			return m.send()
		}

	case tea.WindowSizeMsg:
		width := msg.Width - 2
		height := msg.Height - headerHeight - footerHeight
		if width < 1 {
			width = 1
		}
		if height < 1 {
			height = 1
		}
		m.viewport.Width = width
		m.viewport.Height = height
		m.input.Width = width - 4
		if r := newRenderer(width - 4); r != nil {
			m.renderer = r
		}
		m.refresh()
		return m, nil

	case turnResultMsg:
		m.waiting = false
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.history = m.history.Append(msg.messages...)
		}
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		if !m.waiting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// send appends the typed message and starts a turn. Input is ignored while
// a turn is in flight.
func (m Model) send() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" || m.waiting {
		return m, nil
	}

	m.history = m.history.Append(conversation.UserText(text))
	m.input.Reset()
	m.waiting = true
	m.err = nil
	m.refresh()

	return m, tea.Batch(m.spinner.Tick, m.runTurn(m.history.Clone()))
}

func (m Model) runTurn(history conversation.History) tea.Cmd {
	return func() tea.Msg {
		msgs, err := m.turner.Turn(m.ctx, history)
		return turnResultMsg{messages: msgs, err: err}
	}
}

func (m *Model) refresh() {
	m.viewport.SetContent(m.renderHistory())
	m.viewport.GotoBottom()
}

func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(m.styles.Title.Render("🌵 Mandacaru.ai"))
	sb.WriteString("\n\n")
	sb.WriteString(m.viewport.View())
	sb.WriteString("\n")

	switch {
	case m.waiting:
		sb.WriteString(m.spinner.View() + " " + m.styles.Help.Render("pensando..."))
	case m.err != nil:
		sb.WriteString(m.styles.Error.Render("Erro: " + m.err.Error()))
	default:
		sb.WriteString(m.styles.Help.Render("Enter envia · Esc sai"))
	}
	sb.WriteString("\n")
	sb.WriteString(m.input.View())
	return sb.String()
}
