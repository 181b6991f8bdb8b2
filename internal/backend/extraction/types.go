package extraction

import (
	"errors"

	"github.com/nbelhadj/pdf2ticket/internal/model"
)

// Result holds a successful extraction response.
type Result struct {
	// DocumentID identifies the stored document on the extraction backend.
	DocumentID string

	// Output is the structured value produced by the AI. Its shape is
	// entirely up to the model; the normalizer narrows it later.
	Output model.Document
}

// Error is a classified extraction failure. The message is suitable for
// display to the user verbatim.
type Error struct {
	Message string

	// Network marks transport-level failures (DNS, connection refused,
	// timeout) as opposed to errors reported by the backend itself.
	Network bool
}

func (e *Error) Error() string {
	return e.Message
}

// IsNetworkError reports whether err (or any error in its chain) is an
// extraction Error caused by a transport failure.
func IsNetworkError(err error) bool {
	var exErr *Error
	return errors.As(err, &exErr) && exErr.Network
}

// response is the wire shape of the extraction backend's reply. Success
// and error replies share one envelope distinguished by the status field.
type response struct {
	Status             string         `json:"status"`
	DocumentID         string         `json:"document_id"`
	AIStructuredOutput model.Document `json:"ai_structured_output"`
	ErrorMessage       string         `json:"error_message"`
	ModelUsed          string         `json:"model_used,omitempty"`
}

// errorDetail is the fallback error body shape used by the backend's
// framework for unhandled errors (e.g. {"detail": "..."}).
type errorDetail struct {
	Detail string `json:"detail"`
}
