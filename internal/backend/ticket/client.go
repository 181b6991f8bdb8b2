// Package ticket wraps the HTTP contract of the ticket-creation backend:
// a JSON POST of a validated payload, answered with the created task's
// coordinates or a classified error.
package ticket

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/nbelhadj/pdf2ticket/internal/model"
)

// createPath is the backend's ticket creation endpoint.
const createPath = "/create-ticket"

// Client is a thin HTTP client for the ticket backend. One request per
// call; there is no retry and no idempotency key, so a re-submit after a
// failure is always an explicit user action.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a ticket client for the given base URL. token is
// optional; when non-empty it is sent as a Bearer credential.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Submit posts the payload and classifies the response. The payload is
// sent exactly as given; validation happened in the normalizer. The
// returned error is always an *Error when the call fails.
func (c *Client) Submit(
	ctx context.Context,
	payload model.TicketPayload,
) (*Result, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, &Error{
			Kind:    KindUnexpectedFormat,
			Message: fmt.Sprintf("encoding ticket payload: %v", err),
		}
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.baseURL+createPath, bytes.NewReader(data),
	)
	if err != nil {
		return nil, &Error{
			Kind:    KindAPI,
			Message: fmt.Sprintf("creating request: %v", err),
		}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{
			Kind:    KindNetwork,
			Message: fmt.Sprintf("could not reach ticket service: %v", err),
		}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{
			Kind:    KindNetwork,
			Message: fmt.Sprintf("reading ticket response: %v", err),
		}
	}

	return classifyResponse(resp.StatusCode, respBody)
}

// classifyResponse maps an HTTP status and body onto a Result or Error,
// in contract priority order: conforming success, malformed success,
// validation detail, generic detail, message field, raw fallback.
func classifyResponse(statusCode int, body []byte) (*Result, error) {
	if statusCode >= 200 && statusCode < 300 {
		var r successResponse
		if err := json.Unmarshal(body, &r); err == nil &&
			r.Message != "" && r.TaskID != "" && r.URL != "" {
			return &Result{
				Message: r.Message,
				TaskID:  r.TaskID,
				URL:     r.URL,
			}, nil
		}
		// A 2xx that violates the contract is still a failure: nothing
		// can be displayed or recorded about the created task.
		return nil, &Error{
			Kind:       KindUnexpectedFormat,
			StatusCode: statusCode,
			Message:    "unexpected success response format from ticket service",
		}
	}

	if statusCode == http.StatusUnprocessableEntity {
		var v validationResponse
		if err := json.Unmarshal(body, &v); err == nil && len(v.Detail) > 0 {
			msgs := make([]string, 0, len(v.Detail))
			for _, f := range v.Detail {
				msgs = append(msgs, f.Msg)
			}
			return nil, &Error{
				Kind:       KindValidation,
				StatusCode: statusCode,
				Message:    strings.Join(msgs, "; "),
				Fields:     v.Detail,
			}
		}
	}

	// Generic error bodies: {"detail": <string or structure>} first,
	// then {"message": "..."}.
	var generic struct {
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(body, &generic); err == nil {
		if len(generic.Detail) > 0 && string(generic.Detail) != "null" {
			return nil, &Error{
				Kind:       KindAPI,
				StatusCode: statusCode,
				Message: fmt.Sprintf(
					"ticket service error (%d): %s",
					statusCode, stringifyDetail(generic.Detail),
				),
			}
		}
		if generic.Message != "" {
			return nil, &Error{
				Kind:       KindAPI,
				StatusCode: statusCode,
				Message:    generic.Message,
			}
		}
	}

	msg := fmt.Sprintf(
		"ticket service error (%d %s)", statusCode, http.StatusText(statusCode),
	)
	if text := strings.TrimSpace(string(body)); text != "" {
		msg += ": " + text
	}
	return nil, &Error{
		Kind:       KindAPI,
		StatusCode: statusCode,
		Message:    msg,
	}
}

// stringifyDetail renders a detail value for display: plain strings are
// unquoted, anything structured stays as compact JSON.
func stringifyDetail(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
