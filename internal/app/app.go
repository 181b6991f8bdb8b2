// Package app holds the root Bubble Tea model: it routes messages
// between the wizard state machine, the per-step views, and the
// submission history store.
package app

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nbelhadj/pdf2ticket/internal/history"
	"github.com/nbelhadj/pdf2ticket/internal/keys"
	"github.com/nbelhadj/pdf2ticket/internal/theme"
	"github.com/nbelhadj/pdf2ticket/internal/ui"
	"github.com/nbelhadj/pdf2ticket/internal/ui/filepick"
	"github.com/nbelhadj/pdf2ticket/internal/ui/historyview"
	"github.com/nbelhadj/pdf2ticket/internal/ui/preview"
	"github.com/nbelhadj/pdf2ticket/internal/ui/promptform"
	"github.com/nbelhadj/pdf2ticket/internal/wizard"
)

// historyLoadedMsg carries the loaded submission history to the UI.
type historyLoadedMsg struct {
	submissions []history.Submission
	err         error
}

// historyRecordedMsg reports the result of persisting an attempt.
type historyRecordedMsg struct {
	err error
}

// Model is the root Bubble Tea model.
type Model struct {
	layout ui.Layout
	keys   *keys.KeyMap

	wiz   *wizard.Wizard
	store history.Store

	filePick    filepick.Model
	promptForm  promptform.Model
	previewView preview.Model
	historyView historyview.Model
	spin        spinner.Model

	showHistory bool
	ready       bool

	// flash is a transient message outside the wizard's own error state
	// (e.g. a file read failure or a history write problem).
	flash string
}

// New creates the root model. store may be nil when the history database
// could not be opened; the wizard still works, attempts are just not
// recorded.
func New(wiz *wizard.Wizard, store history.Store, defaultPrompt string) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		keys:        keys.DefaultKeyMap(),
		wiz:         wiz,
		store:       store,
		filePick:    filepick.New(80, 24),
		promptForm:  promptform.New(defaultPrompt, 80, 24),
		previewView: preview.New(80, 24),
		historyView: historyview.New(80, 24),
		spin:        sp,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return m.filePick.Init()
}

// Update handles messages and dispatches to the active step view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		w := m.layout.ContentWidth()
		h := m.layout.ContentHeight()
		m.filePick.SetSize(w, h)
		m.promptForm.SetSize(w, h)
		m.previewView.SetSize(w, h)
		m.historyView.SetSize(w, h)
		return m.updateActiveView(msg)

	case spinner.TickMsg:
		if !m.wiz.Busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		m.refreshPreview()
		return m, cmd

	case filepick.FileChosenMsg:
		m.flash = ""
		// Errors land in the wizard's own error state for display.
		m.wiz.SelectFile(msg.File)
		return m, nil

	case filepick.FileErrorMsg:
		m.flash = msg.Err.Error()
		return m, nil

	case promptform.PromptSubmittedMsg:
		cmd, err := m.wiz.StartExtraction(msg.SystemPrompt, msg.Description)
		if err != nil {
			// The wizard keeps the error; reopen the form for a retry.
			return m, m.promptForm.Start(m.selectedFileName())
		}
		return m, tea.Batch(cmd, m.spin.Tick)

	case promptform.PromptCancelMsg:
		m.wiz.Back()
		return m, nil

	case wizard.ExtractionDoneMsg:
		if !m.wiz.ApplyExtraction(msg) {
			return m, nil
		}
		if m.wiz.Step() == wizard.StepExtract {
			// Extraction failed; the error is in the status bar.
			return m, m.promptForm.Start(m.selectedFileName())
		}
		m.refreshPreview()
		return m, nil

	case wizard.SubmissionDoneMsg:
		if !m.wiz.ApplySubmission(msg) {
			return m, nil
		}
		m.refreshPreview()
		return m, m.recordOutcome()

	case historyRecordedMsg:
		if msg.err != nil {
			m.flash = "history not recorded: " + msg.err.Error()
		}
		return m, nil

	case historyLoadedMsg:
		m.historyView.SetSubmissions(msg.submissions, msg.err)
		return m, nil

	case historyview.CloseMsg:
		m.showHistory = false
		return m, nil

	case tea.KeyMsg:
		if model, cmd, handled := m.handleGlobalKey(msg); handled {
			return model, cmd
		}
	}

	return m.updateActiveView(msg)
}

// handleGlobalKey processes keys that are not owned by the active view.
func (m Model) handleGlobalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	step := m.wiz.Step()

	switch {
	case msg.String() == "ctrl+c":
		return m, tea.Quit, true

	case key.Matches(msg, m.keys.Quit):
		// Plain q quits outside text entry steps.
		if !m.showHistory && step != wizard.StepExtract {
			return m, tea.Quit, true
		}

	case key.Matches(msg, m.keys.Reset):
		m.wiz.Reset()
		m.showHistory = false
		m.flash = ""
		return m, m.filePick.Init(), true

	case key.Matches(msg, m.keys.Continue):
		if step == wizard.StepSelectFile && !m.showHistory {
			if err := m.wiz.AdvanceToExtract(); err != nil {
				m.flash = err.Error()
				return m, nil, true
			}
			m.flash = ""
			return m, m.promptForm.Start(m.selectedFileName()), true
		}

	case key.Matches(msg, m.keys.Submit):
		if step == wizard.StepPreview && !m.showHistory {
			cmd, err := m.wiz.StartSubmission()
			if err != nil {
				if err != wizard.ErrInFlight {
					m.flash = err.Error()
				}
				return m, nil, true
			}
			m.flash = ""
			m.refreshPreview()
			return m, tea.Batch(cmd, m.spin.Tick), true
		}

	case key.Matches(msg, m.keys.History):
		if (step == wizard.StepPreview || step == wizard.StepDone) && !m.showHistory {
			m.showHistory = true
			return m, m.loadHistory(), true
		}

	case key.Matches(msg, m.keys.Back):
		if !m.showHistory && (step == wizard.StepPreview || step == wizard.StepDone) {
			if err := m.wiz.Back(); err != nil {
				return m, nil, true
			}
			if m.wiz.Step() == wizard.StepExtract {
				return m, m.promptForm.Start(m.selectedFileName()), true
			}
			m.refreshPreview()
			return m, nil, true
		}
	}

	return m, nil, false
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if m.showHistory {
		m.historyView, cmd = m.historyView.Update(msg)
		return m, cmd
	}

	switch m.wiz.Step() {
	case wizard.StepSelectFile:
		m.filePick, cmd = m.filePick.Update(msg)
	case wizard.StepExtract:
		m.promptForm, cmd = m.promptForm.Update(msg)
	case wizard.StepPreview, wizard.StepDone:
		m.previewView, cmd = m.previewView.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader("PDF → Ticket", m.stepIndicator())
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.statusHints())

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// renderContent returns the rendered string for the active view.
func (m Model) renderContent() string {
	if m.showHistory {
		return m.historyView.View()
	}

	switch m.wiz.Step() {
	case wizard.StepSelectFile:
		return m.filePick.View()
	case wizard.StepExtract:
		return m.promptForm.View()
	case wizard.StepPreview, wizard.StepDone:
		return m.previewView.View()
	default:
		return ""
	}
}

// stepIndicator describes the wizard's position for the header.
func (m Model) stepIndicator() string {
	if m.showHistory {
		return "history"
	}

	var n int
	switch m.wiz.Step() {
	case wizard.StepSelectFile:
		n = 1
	case wizard.StepExtract:
		n = 2
	case wizard.StepPreview:
		n = 3
	case wizard.StepDone:
		n = 4
	}

	indicator := fmt.Sprintf("step %d/4: %s", n, m.wiz.Step())
	if m.wiz.Busy() {
		indicator = m.spin.View() + " " + indicator
	}
	return indicator
}

// statusHints returns the status bar content: an error when one is
// pending, otherwise the keyboard hints for the active step.
func (m Model) statusHints() string {
	if msg := m.currentError(); msg != "" {
		return theme.ErrorStyle.Render(msg)
	}

	if m.showHistory {
		return fmt.Sprintf(
			"%s down | %s up | %s back",
			m.keys.Down.Help().Key,
			m.keys.Up.Help().Key,
			m.keys.Back.Help().Key,
		)
	}

	switch m.wiz.Step() {
	case wizard.StepSelectFile:
		if m.wiz.SelectedFile() != nil {
			return "c continue | ctrl+r start over | q quit"
		}
		return "enter pick file | q quit"
	case wizard.StepExtract:
		return "enter next field | esc back | ctrl+r start over"
	case wizard.StepPreview:
		if m.wiz.Busy() {
			return "submitting..."
		}
		return "s submit | h history | esc back | ctrl+r start over | q quit"
	case wizard.StepDone:
		return "h history | ctrl+r new ticket | q quit"
	default:
		return ""
	}
}

// currentError picks the message to surface: wizard state first, then
// transient app-level problems.
func (m Model) currentError() string {
	if msg := m.wiz.Err(); msg != "" {
		return msg
	}
	return m.flash
}

// refreshPreview pushes the wizard's current derived state into the
// preview view.
func (m *Model) refreshPreview() {
	m.previewView.SetData(
		m.wiz.Payload(),
		m.wiz.Warnings(),
		m.wiz.Extraction(),
		m.wiz.Outcome(),
		m.wiz.Busy(),
	)
}

// selectedFileName returns the chosen file's name for display.
func (m Model) selectedFileName() string {
	if f := m.wiz.SelectedFile(); f != nil {
		return f.Name
	}
	return ""
}

// recordOutcome persists the completed attempt to the history store.
func (m Model) recordOutcome() tea.Cmd {
	if m.store == nil {
		return nil
	}

	outcome := m.wiz.Outcome()
	payload := m.wiz.Payload()
	if outcome == nil || payload == nil {
		return nil
	}

	sub := history.Submission{
		TicketName: payload.Name,
		Priority:   payload.Priority,
		Status:     payload.Status,
		Success:    outcome.Success,
		TaskID:     outcome.TaskID,
		TaskURL:    outcome.TaskURL,
		Message:    outcome.Message,
	}
	if f := m.wiz.SelectedFile(); f != nil {
		sub.FileName = f.Name
	}
	if ex := m.wiz.Extraction(); ex != nil {
		sub.DocumentID = ex.DocumentID
	}

	store := m.store
	return func() tea.Msg {
		err := store.RecordSubmission(context.Background(), sub)
		return historyRecordedMsg{err: err}
	}
}

// loadHistory fetches recent submissions for the history panel.
func (m Model) loadHistory() tea.Cmd {
	store := m.store
	if store == nil {
		return func() tea.Msg {
			return historyLoadedMsg{}
		}
	}
	return func() tea.Msg {
		subs, err := store.GetSubmissions(context.Background(), 50)
		return historyLoadedMsg{submissions: subs, err: err}
	}
}
