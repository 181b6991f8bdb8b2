package model

// MaxTicketNameLength is the hard limit the ticket backend enforces on
// the name field. Longer names are rejected with a validation error, so
// the normalizer truncates before submission.
const MaxTicketNameLength = 250

// Priority levels accepted by the ticket backend (lower = more urgent).
const (
	PriorityUrgent = 1
	PriorityHigh   = 2
	PriorityNormal = 3
	PriorityLow    = 4
)

// DefaultStatus is the status applied when the extraction carries none.
// It must match a status in the target list's workflow.
const DefaultStatus = "To Do"

// TicketPayload is the normalized, fully validated request body for the
// ticket-creation endpoint. Instances produced by the normalizer always
// satisfy the field constraints; nothing downstream re-validates.
type TicketPayload struct {
	// Name is the ticket title. Non-empty, at most MaxTicketNameLength
	// characters.
	Name string `json:"name"`

	// Description is the ticket body. May be empty, in which case it is
	// omitted from the request.
	Description string `json:"description,omitempty"`

	// Priority is in [PriorityUrgent, PriorityLow].
	Priority int `json:"priority"`

	// Status is a non-blank workflow status.
	Status string `json:"status"`
}
