// Package extraction wraps the HTTP contract of the AI extraction
// backend: a multipart upload of a PDF plus a system prompt, answered
// with either a structured AI output or a classified error.
package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/nbelhadj/pdf2ticket/internal/model"
)

// uploadPath is the extraction backend's upload-and-process endpoint.
const uploadPath = "/api/v1/documents"

// Client is a thin HTTP client for the extraction backend. It performs a
// single request per call; failures are never retried here, the user
// re-triggers explicitly.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates an extraction client for the given base URL. token
// is optional; when non-empty it is sent as a Bearer credential for
// deployments that put the backend behind auth.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// Extract uploads the file with the given system prompt and optional
// description, and classifies the response. The returned error is always
// an *Error when the call fails.
func (c *Client) Extract(
	ctx context.Context,
	file model.File,
	systemPrompt string,
	description string,
) (*Result, error) {
	body, contentType, err := buildMultipartBody(file, systemPrompt, description)
	if err != nil {
		return nil, &Error{Message: fmt.Sprintf("encoding upload: %v", err)}
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.baseURL+uploadPath, body,
	)
	if err != nil {
		return nil, &Error{Message: fmt.Sprintf("creating request: %v", err)}
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{
			Message: fmt.Sprintf("could not reach extraction service: %v", err),
			Network: true,
		}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{
			Message: fmt.Sprintf("reading extraction response: %v", err),
			Network: true,
		}
	}

	return classifyResponse(resp.StatusCode, respBody)
}

// classifyResponse maps an HTTP status and body onto a Result or Error.
func classifyResponse(statusCode int, body []byte) (*Result, error) {
	if statusCode >= 200 && statusCode < 300 {
		var r response
		if err := json.Unmarshal(body, &r); err == nil {
			switch r.Status {
			case "success":
				return &Result{
					DocumentID: r.DocumentID,
					Output:     r.AIStructuredOutput,
				}, nil
			case "error":
				if r.ErrorMessage != "" {
					return nil, &Error{Message: r.ErrorMessage}
				}
			}
		}
		return nil, &Error{
			Message: "unexpected response format from extraction service",
		}
	}

	var r response
	if err := json.Unmarshal(body, &r); err == nil && r.ErrorMessage != "" {
		return nil, &Error{
			Message: fmt.Sprintf("extraction failed (%d): %s", statusCode, r.ErrorMessage),
		}
	}

	var d errorDetail
	if err := json.Unmarshal(body, &d); err == nil && d.Detail != "" {
		return nil, &Error{
			Message: fmt.Sprintf("extraction failed (%d): %s", statusCode, d.Detail),
		}
	}

	return nil, &Error{
		Message: fmt.Sprintf(
			"extraction failed (%d %s)", statusCode, http.StatusText(statusCode),
		),
	}
}

// buildMultipartBody encodes the upload form: the file part plus the
// system_prompt field and, when provided, the description field.
func buildMultipartBody(
	file model.File,
	systemPrompt string,
	description string,
) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(
		`form-data; name="file"; filename=%q`, file.Name,
	))
	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/pdf"
	}
	header.Set("Content-Type", contentType)

	part, err := w.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("creating file part: %w", err)
	}
	if _, err := part.Write(file.Data); err != nil {
		return nil, "", fmt.Errorf("writing file part: %w", err)
	}

	if err := w.WriteField("system_prompt", systemPrompt); err != nil {
		return nil, "", fmt.Errorf("writing system_prompt field: %w", err)
	}
	if description != "" {
		if err := w.WriteField("description", description); err != nil {
			return nil, "", fmt.Errorf("writing description field: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("finalizing multipart body: %w", err)
	}

	return &buf, w.FormDataContentType(), nil
}
