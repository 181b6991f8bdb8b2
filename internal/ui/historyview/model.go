package historyview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nbelhadj/pdf2ticket/internal/history"
	"github.com/nbelhadj/pdf2ticket/internal/theme"
)

// CloseMsg signals the parent to close the history panel.
type CloseMsg struct{}

// Model is the Bubble Tea model for the submission history panel.
type Model struct {
	viewport    viewport.Model
	submissions []history.Submission
	loadErr     error
	width       int
	height      int
}

// New creates a history panel model.
func New(width, height int) Model {
	vp := viewport.New(width-8, contentHeight(height))
	return Model{
		viewport: vp,
		width:    width,
		height:   height,
	}
}

// SetSubmissions replaces the displayed history.
func (m *Model) SetSubmissions(subs []history.Submission, err error) {
	m.submissions = subs
	m.loadErr = err
	m.viewport.SetContent(m.renderList())
	m.viewport.GotoTop()
}

// Update handles scrolling and the close key.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		return m, func() tea.Msg { return CloseMsg{} }
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the history panel.
func (m Model) View() string {
	title := theme.TitleStyle.Render("Submission history")

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		m.viewport.View(),
	)

	return theme.PanelStyle.
		Width(m.width - 4).
		Render(content)
}

// renderList builds the scrollable history body, newest first.
func (m Model) renderList() string {
	if m.loadErr != nil {
		return theme.ErrorStyle.Render("Could not load history: " + m.loadErr.Error())
	}
	if len(m.submissions) == 0 {
		return theme.HelpStyle.Render("No submissions yet.")
	}

	var lines []string
	for _, s := range m.submissions {
		marker := theme.OutcomeStyle(s.Success).Render(outcomeMarker(s.Success))
		header := fmt.Sprintf(
			"%s %s  %s",
			marker,
			s.CreatedAt.Local().Format("2006-01-02 15:04"),
			s.TicketName,
		)
		lines = append(lines, header)

		if s.Success {
			lines = append(lines, theme.HelpStyle.Render(
				"    "+s.TaskID+"  "+s.TaskURL,
			))
		} else if s.Message != "" {
			lines = append(lines, theme.ErrorStyle.Render("    "+s.Message))
		}
	}

	return strings.Join(lines, "\n")
}

func outcomeMarker(success bool) string {
	if success {
		return "✓"
	}
	return "✗"
}

// SetSize updates the panel dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width - 8
	m.viewport.Height = contentHeight(height)
}

func contentHeight(height int) int {
	h := height - 6
	if h < 4 {
		h = 4
	}
	return h
}
