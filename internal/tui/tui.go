package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fernwheel/branchtalk/internal/dialogue"
	"github.com/fernwheel/branchtalk/internal/engine"
)

type sessionState int

const (
	statePlaying sessionState = iota
	stateChoosing
	stateEnded
	stateError
)

type transcriptLine struct {
	speaker string
	text    string
	player  bool
}

type model struct {
	state      sessionState
	eng        *engine.Engine
	st         *dialogue.State
	cursor     int
	viewport   viewport.Model
	transcript []transcriptLine
	width      int
	height     int
	err        error
}

var (
	speakerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true)

	playerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EEEEEE")).
			Background(lipgloss.Color("#5F5F87")).
			Bold(true).
			PaddingLeft(1)

	lineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	choiceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#BBBBBB")).
			PaddingLeft(2)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true)

	disabledStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#555555")).
			PaddingLeft(2).
			Strikethrough(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#3C3C3C")).
			PaddingLeft(2).
			Foreground(lipgloss.Color("#AAAAAA"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true).
			Underline(true)
)

// NewModel starts the engine's conversation and wraps it for playback.
func NewModel(eng *engine.Engine) model {
	m := model{eng: eng}
	st, ok := eng.Start()
	if !ok {
		m.state = stateError
		m.err = fmt.Errorf("script %q has nowhere to start", eng.Script().Title)
		return m
	}
	m.ingest(st, ok)
	return m
}

func (m model) Init() tea.Cmd {
	return nil
}

// ingest records a new conversation state: it appends the spoken line to the
// transcript and decides whether the next step is a menu, a keypress, or the
// end of the conversation.
func (m *model) ingest(st *dialogue.State, ok bool) {
	if !ok {
		m.st = nil
		m.state = stateEnded
		return
	}
	m.st = st
	m.transcript = append(m.transcript, transcriptLine{
		speaker: st.Subtitle.Speaker,
		text:    st.Subtitle.Text,
		player:  m.eng.Script().IsPlayerEntry(st.Subtitle.Entry),
	})
	if st.HasValidPCResponses() && !st.HasPCAutoResponse() {
		m.state = stateChoosing
		m.cursor = m.firstEnabled()
		return
	}
	m.state = statePlaying
}

func (m *model) firstEnabled() int {
	for i, r := range m.st.PCResponses {
		if r != nil && r.Enabled {
			return i
		}
	}
	return 0
}

func (m *model) moveCursor(step int) {
	n := len(m.st.PCResponses)
	for i := m.cursor + step; i >= 0 && i < n; i += step {
		r := m.st.PCResponses[i]
		if r != nil && r.Enabled {
			m.cursor = i
			return
		}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			return m, tea.Quit

		case "r":
			m.eng.Reset()
			m.transcript = nil
			m.ingest(m.eng.Start())
			m.syncViewport()
			return m, nil

		case "up", "k":
			if m.state == stateChoosing {
				m.moveCursor(-1)
			}
			return m, nil

		case "down", "j":
			if m.state == stateChoosing {
				m.moveCursor(1)
			}
			return m, nil

		case "enter", " ":
			switch m.state {
			case statePlaying:
				m.ingest(m.eng.Advance(m.st))
			case stateChoosing:
				if m.cursor < len(m.st.PCResponses) {
					m.ingest(m.eng.Choose(m.st.PCResponses[m.cursor]))
				}
			case stateEnded, stateError:
				return m, tea.Quit
			}
			m.syncViewport()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = int(float64(msg.Width) * 0.75)
		m.viewport.Height = msg.Height - 8
		m.syncViewport()
	}

	return m, nil
}

func (m *model) syncViewport() {
	if m.viewport.Width == 0 {
		return
	}
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

func (m model) View() string {
	var s string

	switch m.state {
	case statePlaying, stateChoosing, stateEnded:
		mainView := lipgloss.JoinHorizontal(lipgloss.Top,
			m.viewport.View(),
			m.renderPanel(),
		)
		s = lipgloss.JoinVertical(lipgloss.Left,
			mainView,
			"\n"+m.renderPrompt(),
			"\n"+helpStyle.Render("enter: continue  up/down: choose  r: restart  q: quit"),
		)

	case stateError:
		s = fmt.Sprintf("\n  Error: %v\n\nPress q to quit.", m.err)
	}

	return "\n" + s + "\n"
}

func (m model) renderPrompt() string {
	switch m.state {
	case stateChoosing:
		var b strings.Builder
		for i, r := range m.st.PCResponses {
			if r == nil {
				continue
			}
			switch {
			case !r.Enabled:
				b.WriteString(disabledStyle.Render(r.Text.Text) + "\n")
			case i == m.cursor:
				b.WriteString(selectedStyle.Render("> "+r.Text.Text) + "\n")
			default:
				b.WriteString(choiceStyle.Render(r.Text.Text) + "\n")
			}
		}
		return b.String()

	case stateEnded:
		return helpStyle.Render("The conversation is over. Press enter to quit, r to replay.")

	default:
		return helpStyle.Render("...")
	}
}

func (m model) renderTranscript() string {
	width := m.viewport.Width
	var b strings.Builder
	for _, line := range m.transcript {
		if line.text == "" {
			continue
		}
		style := speakerStyle
		if line.player {
			style = playerStyle
		}
		b.WriteString(style.Render(line.speaker) + "\n")
		b.WriteString(lineStyle.Width(width).Render(line.text) + "\n\n")
	}
	return b.String()
}

func (m model) renderPanel() string {
	title := titleStyle.Render(m.eng.Script().Title) + "\n\n"

	flagsTitle := titleStyle.Render("KNOWN") + "\n"
	flags := ""
	if names := m.eng.Flags(); len(names) == 0 {
		flags = "(nothing yet)\n"
	} else {
		for _, name := range names {
			flags += "- " + name + "\n"
		}
	}

	panelWidth := int(float64(m.width) * 0.23)
	return panelStyle.Width(panelWidth).Height(m.viewport.Height).Render(title + flagsTitle + flags)
}

// Run plays the engine's conversation in an alt-screen terminal UI.
func Run(eng *engine.Engine) error {
	p := tea.NewProgram(NewModel(eng), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
