package cli

import (
	"context"
	"strings"

	"github.com/alexanderramin/autofin/internal/assistant"
	"github.com/alexanderramin/autofin/internal/cli/formatter"
	"github.com/alexanderramin/autofin/internal/domain"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// chromeHeight is the number of lines taken by the header, status line and
// prompt around the transcript viewport.
const chromeHeight = 5

// turnDoneMsg carries the reply of a turn that ran off the update loop.
type turnDoneMsg struct {
	text string
}

// chatModel is the bubbletea Model for the interactive chat.
type chatModel struct {
	ctx       context.Context
	assistant *assistant.Assistant

	input textinput.Model
	vp    viewport.Model
	spin  spinner.Model

	lines    []string
	width    int
	height   int
	pending  bool
	quitting bool
}

func newChatModel(ctx context.Context, a *assistant.Assistant) chatModel {
	ti := textinput.New()
	ti.Focus()
	ti.Prompt = ""
	ti.Placeholder = "Ask about your EMI, a claim or insurance coverage"
	ti.CharLimit = 500

	sp := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(formatter.StylePurple))

	m := chatModel{
		ctx:       ctx,
		assistant: a,
		input:     ti,
		vp:        viewport.New(0, 0),
		spin:      sp,
	}
	m.lines = []string{formatter.FormatWelcome(a.Session().Mode())}
	return m
}

// ── bubbletea interface ──────────────────────────────────────────────────────

func (m chatModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.vp.Width = msg.Width
		m.vp.Height = max(msg.Height-chromeHeight, 3)
		m.input.Width = max(msg.Width-8, 10)
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case turnDoneMsg:
		m.pending = false
		m.appendReply(msg.text)
		return m, nil

	case spinner.TickMsg:
		if !m.pending {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m chatModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.quitting = true
		return m, tea.Quit
	case tea.KeyPgUp, tea.KeyPgDown:
		var cmd tea.Cmd
		m.vp, cmd = m.vp.Update(msg)
		return m, cmd
	case tea.KeyEnter:
		if m.pending {
			return m, nil
		}
		text := strings.TrimSpace(m.input.Value())
		m.input.Reset()
		if text == "" {
			return m, nil
		}
		return m.handleInput(text)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m chatModel) View() string {
	if m.quitting {
		return ""
	}

	identity := m.assistant.Session().Identity()
	header := formatter.StylePurple.Render("autofin") + "  " +
		formatter.ModeBadge(m.assistant.Session().Mode()) + "  " +
		formatter.VerifiedBadge(identity)
	sep := formatter.Dim(strings.Repeat("─", max(m.width, 20)))

	var body string
	if m.height > 0 {
		body = m.vp.View()
	} else {
		body = strings.Join(m.lines, "\n\n")
	}

	status := formatter.Dim("enter: send  pgup/pgdn: scroll  /help  /clear  /quit")
	if m.pending {
		status = m.spin.View() + " " + formatter.Dim("Thinking...")
	}

	prompt := formatter.StyleGreen.Render("you") + formatter.Dim(" › ") + m.input.View()
	return strings.Join([]string{header, sep, body, sep, status, prompt}, "\n")
}

// ── input handling ───────────────────────────────────────────────────────────

func (m chatModel) handleInput(text string) (tea.Model, tea.Cmd) {
	switch strings.ToLower(text) {
	case "/quit", "/exit":
		m.quitting = true
		return m, tea.Quit
	case "/clear":
		m.assistant.Clear()
		m.lines = []string{formatter.FormatWelcome(m.assistant.Session().Mode()), formatter.Dim("Session cleared.")}
		m.refresh()
		return m, nil
	case "/help":
		m.push(formatter.FormatHelp())
		return m, nil
	case "/whoami":
		if id := m.assistant.Session().Identity(); id.OK {
			m.push(formatter.FormatVerification(id))
		} else {
			m.push(formatter.Dim("Not verified yet."))
		}
		return m, nil
	}

	m.push(formatter.FormatUser(text))

	// Rule mode answers from local records, so the turn runs inline.
	if m.assistant.Session().Mode() == domain.ModeRule {
		m.appendReply(m.assistant.Handle(m.ctx, text))
		return m, nil
	}

	m.pending = true
	a, ctx := m.assistant, m.ctx
	return m, tea.Batch(m.spin.Tick, func() tea.Msg {
		return turnDoneMsg{text: a.Handle(ctx, text)}
	})
}

func (m *chatModel) appendReply(text string) {
	intent := domain.IntentUnknown
	if steps := m.assistant.Session().Transcript(); len(steps) > 0 {
		intent = steps[len(steps)-1].Intent
	}
	m.push(formatter.FormatReply(text, intent))
}

func (m *chatModel) push(block string) {
	m.lines = append(m.lines, block)
	m.refresh()
}

func (m *chatModel) refresh() {
	m.vp.SetContent(strings.Join(m.lines, "\n\n"))
	m.vp.GotoBottom()
}
