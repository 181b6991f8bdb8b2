package filepick

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/bubbles/filepicker"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nbelhadj/pdf2ticket/internal/model"
	"github.com/nbelhadj/pdf2ticket/internal/theme"
)

// FileChosenMsg is dispatched when a PDF has been picked and read.
type FileChosenMsg struct {
	File model.File
}

// FileErrorMsg is dispatched when the picked file could not be read.
type FileErrorMsg struct {
	Err error
}

// Model is the Bubble Tea model for the file selection step.
type Model struct {
	picker   filepicker.Model
	selected string
	width    int
	height   int
}

// New creates a file picker rooted at the user's home directory that
// only offers PDF files.
func New(width, height int) Model {
	fp := filepicker.New()
	fp.AllowedTypes = []string{".pdf"}
	if home, err := os.UserHomeDir(); err == nil {
		fp.CurrentDirectory = home
	}
	fp.Height = contentHeight(height)

	return Model{
		picker: fp,
		width:  width,
		height: height,
	}
}

// Init returns the initial command for the file picker.
func (m Model) Init() tea.Cmd {
	return m.picker.Init()
}

// Update handles messages for the file selection step. Picking a file
// kicks off a command that reads it from disk and reports back with a
// FileChosenMsg or FileErrorMsg.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	if didSelect, path := m.picker.DidSelectFile(msg); didSelect {
		m.selected = path
		return m, tea.Batch(cmd, readFile(path))
	}

	return m, cmd
}

// readFile loads the picked file's bytes off the update loop.
func readFile(path string) tea.Cmd {
	return func() tea.Msg {
		data, err := os.ReadFile(path)
		if err != nil {
			return FileErrorMsg{Err: fmt.Errorf("reading %s: %w", path, err)}
		}
		return FileChosenMsg{File: model.File{
			Name:        filepath.Base(path),
			Data:        data,
			ContentType: "application/pdf",
		}}
	}
}

// Selected returns the path of the picked file, if any.
func (m Model) Selected() string {
	return m.selected
}

// View renders the file selection step.
func (m Model) View() string {
	title := theme.TitleStyle.Render("Select a PDF")

	var status string
	if m.selected != "" {
		status = theme.SuccessStyle.Render("Selected: " + m.selected)
	} else {
		status = theme.HelpStyle.Render("Pick the document to turn into a ticket.")
	}

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		status,
		"",
		m.picker.View(),
	)

	return theme.PanelStyle.
		Width(m.width - 4).
		Render(content)
}

// SetSize updates the step dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.picker.Height = contentHeight(height)
}

func contentHeight(height int) int {
	h := height - 8
	if h < 4 {
		h = 4
	}
	return h
}
