// Package tui hosts the chat widget in a terminal.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/echomind/echomind/internal/model/chat"
	"github.com/echomind/echomind/internal/widget"
)

const (
	headerHeight = 3
	footerHeight = 4
)

var (
	titleStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFDF5")).Background(lipgloss.Color("63")).Padding(0, 1)
	subtitleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#AFAFAF"))
	userStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).PaddingLeft(2)
	assistantStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	placeholderStyle = assistantStyle.Italic(true)
	speakerStyle     = lipgloss.NewStyle().Bold(true)
	statusStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	inputBoxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("63")).Padding(0, 1)
)

// exchangeDoneMsg signals that a submitted draft has been answered.
type exchangeDoneMsg struct{}

// Model is the bubbletea model wrapping a widget.
type Model struct {
	ctx    context.Context
	widget *widget.Widget

	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model

	ready  bool
	width  int
	height int
}

// New builds the model. ctx scopes outbound requests.
func New(ctx context.Context, w *widget.Widget) Model {
	ti := textinput.New()
	ti.Placeholder = "How are you feeling...?"
	ti.Prompt = "> "
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true)

	return Model{
		ctx:     ctx,
		widget:  w,
		input:   ti,
		spinner: sp,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.widget.Close()
			return m, tea.Quit
		case tea.KeyEnter:
			return m.submit()
		case tea.KeyPgUp, tea.KeyPgDown:
			return m.scroll(msg)
		}

		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.widget.SetDraft(m.input.Value())
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		vpHeight := msg.Height - headerHeight - footerHeight
		if vpHeight < 1 {
			vpHeight = 1
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width, vpHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = vpHeight
		}
		m.input.Width = msg.Width - 8
		m.refresh()
		return m, nil

	case tea.MouseMsg:
		return m.scroll(msg)

	case exchangeDoneMsg:
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	m.widget.SetDraft(m.input.Value())
	done, ok := m.widget.Submit(m.ctx)
	if !ok {
		return m, nil
	}

	m.input.SetValue(m.widget.Draft())
	m.refresh()
	return m, waitForExchange(done)
}

func (m Model) scroll(msg tea.Msg) (tea.Model, tea.Cmd) {
	if !m.ready {
		return m, nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func waitForExchange(done <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-done
		return exchangeDoneMsg{}
	}
}

func (m *Model) refresh() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("EchoMind"))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render("Your AI-Powered Emotional Co-Pilot"))
	b.WriteString("\n\n")

	if m.ready {
		b.WriteString(m.viewport.View())
	} else {
		b.WriteString(m.renderTranscript())
	}
	b.WriteString("\n")

	status := "enter: send • esc: quit"
	if m.widget.InFlight() > 0 {
		status = m.spinner.View() + " waiting for EchoMind… " + status
	}
	b.WriteString(statusStyle.Render(status))
	b.WriteString("\n")
	b.WriteString(inputBoxStyle.Render(m.input.View()))

	return b.String()
}

func (m Model) renderTranscript() string {
	entries := m.widget.Transcript()
	lines := make([]string, 0, len(entries))
	for _, entry := range entries {
		lines = append(lines, m.renderEntry(entry))
	}
	return strings.Join(lines, "\n\n")
}

func (m Model) renderEntry(entry widget.Entry) string {
	style := assistantStyle
	switch {
	case entry.Placeholder:
		style = placeholderStyle
	case entry.Role == chat.RoleUser:
		style = userStyle
	}
	if m.width > 4 {
		style = style.Width(m.width - 4)
	}

	return style.Render(speakerStyle.Render(widget.Speaker(entry.Role)+":") + " " + entry.Text)
}
