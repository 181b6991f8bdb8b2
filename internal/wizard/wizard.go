// Package wizard implements the four-step submission flow: select a PDF,
// run AI extraction, preview the normalized ticket, submit it. The Wizard
// is the single owner of the flow's state; transition methods are the
// only mutators, and the two network calls run as Bubble Tea commands
// whose results are applied back through Apply* methods.
package wizard

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nbelhadj/pdf2ticket/internal/backend/extraction"
	"github.com/nbelhadj/pdf2ticket/internal/backend/ticket"
	"github.com/nbelhadj/pdf2ticket/internal/model"
	"github.com/nbelhadj/pdf2ticket/internal/normalize"
)

// Step identifies the wizard's current position in the flow.
type Step int

const (
	StepSelectFile Step = iota
	StepExtract
	StepPreview
	StepDone
)

// String returns the step's display name.
func (s Step) String() string {
	switch s {
	case StepSelectFile:
		return "select file"
	case StepExtract:
		return "extract"
	case StepPreview:
		return "preview"
	case StepDone:
		return "done"
	default:
		return "unknown"
	}
}

// maxUploadSize mirrors the extraction backend's upload limit so doomed
// requests are rejected before any bytes leave the machine.
const maxUploadSize = 10 * 1024 * 1024

// Outcome is the terminal result of a submission attempt. Success is
// derived strictly from the submission client's result kind, never from
// an externally supplied flag.
type Outcome struct {
	Success bool
	Message string
	TaskID  string
	TaskURL string

	// Fields carries per-field validation detail when the backend
	// rejected the payload with a 422.
	Fields []ticket.FieldError
}

// Extractor is the extraction backend contract the wizard depends on.
type Extractor interface {
	Extract(
		ctx context.Context,
		file model.File,
		systemPrompt string,
		description string,
	) (*extraction.Result, error)
}

// Submitter is the ticket backend contract the wizard depends on.
type Submitter interface {
	Submit(ctx context.Context, payload model.TicketPayload) (*ticket.Result, error)
}

// ExtractionDoneMsg carries a completed extraction call back to the
// wizard. Generation lets stale completions (finishing after a reset) be
// discarded instead of overwriting fresh state.
type ExtractionDoneMsg struct {
	Generation int
	Result     *extraction.Result
	Err        error
}

// SubmissionDoneMsg carries a completed submission call back to the wizard.
type SubmissionDoneMsg struct {
	Generation int
	Result     *ticket.Result
	Err        error
}

// Wizard is the state machine driving the submission pipeline. It is not
// safe for concurrent use; a single Bubble Tea update loop owns it.
type Wizard struct {
	extractor  Extractor
	submitter  Submitter
	normalizer *normalize.Normalizer

	step       Step
	file       *model.File
	extraction *extraction.Result
	payload    *model.TicketPayload
	warnings   []string
	outcome    *Outcome
	errMsg     string
	busy       bool
	generation int
}

// New creates a wizard at the select-file step.
func New(ex Extractor, sub Submitter, n *normalize.Normalizer) *Wizard {
	return &Wizard{
		extractor:  ex,
		submitter:  sub,
		normalizer: n,
		step:       StepSelectFile,
	}
}

// Step returns the current step.
func (w *Wizard) Step() Step { return w.step }

// Busy reports whether a network call is in flight.
func (w *Wizard) Busy() bool { return w.busy }

// Err returns the current user-facing error message, if any.
func (w *Wizard) Err() string { return w.errMsg }

// SelectedFile returns the file chosen in the first step, or nil.
func (w *Wizard) SelectedFile() *model.File { return w.file }

// Extraction returns the stored extraction result, or nil.
func (w *Wizard) Extraction() *extraction.Result { return w.extraction }

// Payload returns the normalized ticket payload for preview, or nil
// before a successful extraction.
func (w *Wizard) Payload() *model.TicketPayload { return w.payload }

// Warnings returns coercion warnings from the last normalization.
func (w *Wizard) Warnings() []string { return w.warnings }

// Outcome returns the submission outcome, or nil before submission.
func (w *Wizard) Outcome() *Outcome { return w.outcome }

// SelectFile records the chosen file. Valid only in the select-file
// step. Choosing a file invalidates everything derived from a previous
// choice: extraction result, preview payload, outcome, and error.
func (w *Wizard) SelectFile(file model.File) error {
	if w.busy {
		return ErrInFlight
	}
	if w.step != StepSelectFile {
		return w.unexpectedState("select a file")
	}
	if err := preflight(file); err != nil {
		w.errMsg = err.Error()
		return err
	}

	w.file = &file
	w.extraction = nil
	w.payload = nil
	w.warnings = nil
	w.outcome = nil
	w.errMsg = ""
	return nil
}

// AdvanceToExtract moves to the extract step. Valid only in the
// select-file step with a file chosen; without one it is a no-op
// returning an InputError.
func (w *Wizard) AdvanceToExtract() error {
	if w.busy {
		return ErrInFlight
	}
	if w.step != StepSelectFile {
		return w.unexpectedState("advance to extract")
	}
	if w.file == nil {
		return &InputError{Message: "select a PDF file first"}
	}
	w.step = StepExtract
	w.errMsg = ""
	return nil
}

// StartExtraction begins the extraction call. Valid only in the extract
// step with a non-empty system prompt. The returned command performs the
// upload and yields an ExtractionDoneMsg.
func (w *Wizard) StartExtraction(systemPrompt, description string) (tea.Cmd, error) {
	if w.busy {
		return nil, ErrInFlight
	}
	if w.step != StepExtract {
		return nil, w.unexpectedState("run extraction")
	}
	if strings.TrimSpace(systemPrompt) == "" {
		err := &InputError{Message: "system prompt must not be empty"}
		w.errMsg = err.Message
		return nil, err
	}

	w.errMsg = ""
	w.busy = true

	gen := w.generation
	file := *w.file
	ex := w.extractor
	return func() tea.Msg {
		result, err := ex.Extract(
			context.Background(), file, systemPrompt, description,
		)
		return ExtractionDoneMsg{Generation: gen, Result: result, Err: err}
	}, nil
}

// ApplyExtraction folds a completed extraction back into the wizard.
// It reports whether the message was applied; stale completions from a
// generation that has since been reset are discarded.
func (w *Wizard) ApplyExtraction(msg ExtractionDoneMsg) bool {
	if msg.Generation != w.generation {
		return false
	}
	w.busy = false

	if msg.Err != nil {
		w.errMsg = msg.Err.Error()
		return true
	}

	w.extraction = msg.Result
	payload, warnings := w.normalizer.Normalize(msg.Result.Output)
	w.payload = &payload
	w.warnings = warnings
	w.step = StepPreview
	return true
}

// StartSubmission begins the ticket submission. Valid only in the
// preview step with an extraction stored. The payload was produced by
// the normalizer and is sent as-is. The returned command performs the
// POST and yields a SubmissionDoneMsg.
func (w *Wizard) StartSubmission() (tea.Cmd, error) {
	if w.busy {
		return nil, ErrInFlight
	}
	if w.step != StepPreview {
		return nil, w.unexpectedState("submit the ticket")
	}
	if w.extraction == nil || w.payload == nil {
		return nil, &InputError{Message: "nothing to submit: run extraction first"}
	}

	w.errMsg = ""
	w.outcome = nil
	w.busy = true

	gen := w.generation
	payload := *w.payload
	sub := w.submitter
	return func() tea.Msg {
		result, err := sub.Submit(context.Background(), payload)
		return SubmissionDoneMsg{Generation: gen, Result: result, Err: err}
	}, nil
}

// ApplySubmission folds a completed submission back into the wizard.
// Success moves to the done step; failure stores a failed outcome and
// stays in preview so the user can retry explicitly.
func (w *Wizard) ApplySubmission(msg SubmissionDoneMsg) bool {
	if msg.Generation != w.generation {
		return false
	}
	w.busy = false

	if msg.Err != nil {
		outcome := &Outcome{Success: false, Message: msg.Err.Error()}
		if tErr, ok := ticket.AsError(msg.Err); ok {
			outcome.Fields = tErr.Fields
		}
		w.outcome = outcome
		return true
	}

	w.outcome = &Outcome{
		Success: true,
		Message: msg.Result.Message,
		TaskID:  msg.Result.TaskID,
		TaskURL: msg.Result.URL,
	}
	w.step = StepDone
	return true
}

// Back moves one step backward and clears the error. Leaving preview or
// done also clears the submission outcome. A no-op in the first step.
func (w *Wizard) Back() error {
	if w.busy {
		return ErrInFlight
	}

	switch w.step {
	case StepSelectFile:
		// Already at the start.
	case StepExtract:
		w.step = StepSelectFile
	case StepPreview:
		w.step = StepExtract
		w.outcome = nil
	case StepDone:
		w.step = StepPreview
		w.outcome = nil
	}
	w.errMsg = ""
	return nil
}

// Reset returns unconditionally to the select-file step with all derived
// state cleared. Any in-flight call keeps running but its completion is
// discarded by the generation check.
func (w *Wizard) Reset() {
	w.generation++
	w.step = StepSelectFile
	w.file = nil
	w.extraction = nil
	w.payload = nil
	w.warnings = nil
	w.outcome = nil
	w.errMsg = ""
	w.busy = false
}

// unexpectedState resets the wizard and returns the defect signal. The
// reset keeps the UI usable instead of wedging it in a broken state.
func (w *Wizard) unexpectedState(op string) error {
	step := w.step
	w.Reset()
	return &UnexpectedStateError{Op: op, Step: step}
}

// preflight rejects files the extraction backend would refuse anyway:
// anything that is not a .pdf and anything over the upload size limit.
func preflight(file model.File) error {
	if !strings.HasSuffix(strings.ToLower(file.Name), ".pdf") {
		return &InputError{Message: "invalid file type: only PDF files are allowed"}
	}
	if len(file.Data) == 0 {
		return &InputError{Message: "file is empty"}
	}
	if len(file.Data) > maxUploadSize {
		return &InputError{Message: "file size exceeds the 10MB upload limit"}
	}
	return nil
}
