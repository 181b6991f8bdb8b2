package promptform

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nbelhadj/pdf2ticket/internal/theme"
)

// PromptSubmittedMsg is dispatched when the user confirms the extraction
// form; the parent triggers the extraction call.
type PromptSubmittedMsg struct {
	SystemPrompt string
	Description  string
}

// PromptCancelMsg is dispatched when the user aborts the form.
type PromptCancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	systemPrompt string
	description  string
}

// Model is the Bubble Tea model for the extraction prompt form.
type Model struct {
	form     *huh.Form
	fb       *formBindings
	fileName string
	width    int
	height   int
}

// New creates a prompt form model pre-filled with the configured default
// system prompt.
func New(defaultPrompt string, width, height int) Model {
	return Model{
		fb:     &formBindings{systemPrompt: defaultPrompt},
		width:  width,
		height: height,
	}
}

// Start initializes the form for a new extraction of the given file.
// Previous description input is discarded; the system prompt keeps any
// edits the user made on an earlier attempt.
func (m *Model) Start(fileName string) tea.Cmd {
	m.fileName = fileName
	m.fb.description = ""
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the prompt form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		prompt := m.fb.systemPrompt
		description := m.fb.description
		m.form = nil
		return m, func() tea.Msg {
			return PromptSubmittedMsg{
				SystemPrompt: prompt,
				Description:  description,
			}
		}
	}
	if m.form.State == huh.StateAborted {
		m.form = nil
		return m, func() tea.Msg { return PromptCancelMsg{} }
	}

	return m, cmd
}

// View renders the prompt form.
func (m Model) View() string {
	title := theme.TitleStyle.Render("Extract: " + m.fileName)

	body := ""
	if m.form != nil {
		body = m.form.View()
	}

	content := lipgloss.JoinVertical(lipgloss.Left, title, body)

	return theme.PanelStyle.
		Width(m.width - 4).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("System prompt").
				Description("Instructions for the AI extraction.").
				Value(&m.fb.systemPrompt).
				Validate(validatePrompt),
			huh.NewInput().
				Title("Description").
				Placeholder("Optional document note...").
				Value(&m.fb.description),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func validatePrompt(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("system prompt is required")
	}
	return nil
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 6
	if h < 10 {
		h = 10
	}
	return h
}
