package preview

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nbelhadj/pdf2ticket/internal/backend/extraction"
	"github.com/nbelhadj/pdf2ticket/internal/model"
	"github.com/nbelhadj/pdf2ticket/internal/theme"
	"github.com/nbelhadj/pdf2ticket/internal/wizard"
)

// Model is the Bubble Tea model for the preview step. It shows the
// normalized ticket payload next to the raw AI output, plus the
// submission outcome once one exists.
type Model struct {
	viewport viewport.Model

	payload    *model.TicketPayload
	warnings   []string
	extraction *extraction.Result
	outcome    *wizard.Outcome
	busy       bool

	width  int
	height int
}

// New creates a preview model.
func New(width, height int) Model {
	vp := viewport.New(width-8, contentHeight(height))
	return Model{
		viewport: vp,
		width:    width,
		height:   height,
	}
}

// SetData refreshes the previewed state from the wizard.
func (m *Model) SetData(
	payload *model.TicketPayload,
	warnings []string,
	result *extraction.Result,
	outcome *wizard.Outcome,
	busy bool,
) {
	m.payload = payload
	m.warnings = warnings
	m.extraction = result
	m.outcome = outcome
	m.busy = busy
	m.viewport.SetContent(m.renderContent())
}

// Update handles scrolling within the preview.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the preview step.
func (m Model) View() string {
	title := theme.TitleStyle.Render("Preview ticket")

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		m.viewport.View(),
	)

	return theme.PanelStyle.
		Width(m.width - 4).
		Render(content)
}

// renderContent builds the scrollable preview body.
func (m Model) renderContent() string {
	if m.payload == nil {
		return theme.HelpStyle.Render("No extraction result yet.")
	}

	var sections []string

	label := func(name, value string) string {
		return theme.LabelStyle.Render(name+": ") + value
	}

	sections = append(sections,
		label("Name", m.payload.Name),
		label("Priority", fmt.Sprintf(
			"%s (%d)",
			theme.PriorityStyle(m.payload.Priority).
				Render(theme.PriorityLabel(m.payload.Priority)),
			m.payload.Priority,
		)),
		label("Status", m.payload.Status),
	)

	if m.payload.Description != "" {
		sections = append(sections, "", label("Description", ""), m.payload.Description)
	}

	for _, w := range m.warnings {
		sections = append(sections, theme.WarningStyle.Render("⚠ "+w))
	}

	if m.extraction != nil {
		sections = append(sections, "",
			theme.LabelStyle.Render("AI output")+
				theme.HelpStyle.Render(" (document "+m.extraction.DocumentID+")"),
			renderRawOutput(m.extraction.Output),
		)
	}

	if m.busy {
		sections = append(sections, "", theme.HelpStyle.Render("Submitting..."))
	} else if m.outcome != nil {
		sections = append(sections, "", m.renderOutcome())
	}

	return strings.Join(sections, "\n")
}

// renderOutcome renders the terminal submission result, including
// per-field validation messages when the backend supplied them.
func (m Model) renderOutcome() string {
	var lines []string

	style := theme.OutcomeStyle(m.outcome.Success)
	if m.outcome.Success {
		lines = append(lines,
			style.Render("✓ "+m.outcome.Message),
			theme.LabelStyle.Render("Task: ")+m.outcome.TaskID,
			theme.LabelStyle.Render("URL: ")+m.outcome.TaskURL,
		)
	} else {
		lines = append(lines, style.Render("✗ "+m.outcome.Message))
		for _, f := range m.outcome.Fields {
			lines = append(lines, theme.ErrorStyle.Render(
				"  "+f.FieldPath()+": "+f.Msg,
			))
		}
	}

	return strings.Join(lines, "\n")
}

// renderRawOutput pretty-prints the AI's structured output.
func renderRawOutput(doc model.Document) string {
	data, err := json.MarshalIndent(doc.Value(), "", "  ")
	if err != nil {
		return theme.HelpStyle.Render("(unrenderable output)")
	}
	return string(data)
}

// SetSize updates the preview dimensions.
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
