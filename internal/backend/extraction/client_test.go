package extraction

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/nbelhadj/pdf2ticket/internal/model"
)

func testFile() model.File {
	return model.File{
		Name:        "invoice.pdf",
		Data:        []byte("%PDF-1.4 test"),
		ContentType: "application/pdf",
	}
}

func TestExtractSuccess(t *testing.T) {
	var gotPath, gotPrompt, gotDescription, gotFileName string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path

		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parsing multipart form: %v", err)
		}
		gotPrompt = r.FormValue("system_prompt")
		gotDescription = r.FormValue("description")

		f, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("reading file part: %v", err)
		}
		defer f.Close()
		gotFileName = header.Filename
		if _, err := io.ReadAll(f); err != nil {
			t.Fatalf("reading file content: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"status": "success",
			"document_id": "d1",
			"ai_structured_output": {"name": "Invoice #42", "priority": "2"}
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	result, err := c.Extract(
		context.Background(), testFile(), "Extract invoice total", "march invoice",
	)
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}

	if gotPath != "/api/v1/documents" {
		t.Errorf("request path = %q", gotPath)
	}
	if gotPrompt != "Extract invoice total" {
		t.Errorf("system_prompt = %q", gotPrompt)
	}
	if gotDescription != "march invoice" {
		t.Errorf("description = %q", gotDescription)
	}
	if gotFileName != "invoice.pdf" {
		t.Errorf("filename = %q", gotFileName)
	}

	if result.DocumentID != "d1" {
		t.Errorf("DocumentID = %q", result.DocumentID)
	}
	name, ok := result.Output.StringField("name")
	if !ok || name != "Invoice #42" {
		t.Errorf("output name = %q (ok=%v)", name, ok)
	}
}

func TestExtractOmitsEmptyDescription(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parsing multipart form: %v", err)
		}
		if _, ok := r.MultipartForm.Value["description"]; ok {
			t.Error("empty description was sent as a form field")
		}
		w.Write([]byte(`{"status":"success","document_id":"d2","ai_structured_output":null}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	if _, err := c.Extract(context.Background(), testFile(), "prompt", ""); err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
}

func TestExtractSendsBearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer sekrit" {
			t.Errorf("Authorization = %q", got)
		}
		w.Write([]byte(`{"status":"success","document_id":"d3","ai_structured_output":{}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "sekrit")
	if _, err := c.Extract(context.Background(), testFile(), "prompt", ""); err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
}

func TestExtractClassification(t *testing.T) {
	cases := []struct {
		name        string
		status      int
		body        string
		wantMessage string
		wantNetwork bool
	}{
		{
			name:        "2xx error envelope",
			status:      http.StatusOK,
			body:        `{"status":"error","error_message":"PDF contained no extractable text content."}`,
			wantMessage: "PDF contained no extractable text content.",
		},
		{
			name:        "2xx unrecognizable shape",
			status:      http.StatusOK,
			body:        `{"totally": "unrelated"}`,
			wantMessage: "unexpected response format from extraction service",
		},
		{
			name:        "2xx non-JSON body",
			status:      http.StatusOK,
			body:        `<html>hello</html>`,
			wantMessage: "unexpected response format from extraction service",
		},
		{
			name:        "non-2xx with error envelope",
			status:      http.StatusBadRequest,
			body:        `{"status":"error","error_message":"Invalid file type."}`,
			wantMessage: "extraction failed (400): Invalid file type.",
		},
		{
			name:        "non-2xx with detail body",
			status:      http.StatusServiceUnavailable,
			body:        `{"detail":"AI service unavailable"}`,
			wantMessage: "extraction failed (503): AI service unavailable",
		},
		{
			name:        "non-2xx with unparseable body",
			status:      http.StatusBadGateway,
			body:        `garbage`,
			wantMessage: "extraction failed (502 Bad Gateway)",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			c := NewClient(srv.URL, "")
			_, err := c.Extract(context.Background(), testFile(), "prompt", "")
			if err == nil {
				t.Fatal("expected an error")
			}

			var exErr *Error
			if !errors.As(err, &exErr) {
				t.Fatalf("error is %T, want *Error", err)
			}
			if exErr.Message != tc.wantMessage {
				t.Errorf("message = %q, want %q", exErr.Message, tc.wantMessage)
			}
			if exErr.Network != tc.wantNetwork {
				t.Errorf("Network = %v, want %v", exErr.Network, tc.wantNetwork)
			}
		})
	}
}

func TestExtractTransportFailure(t *testing.T) {
	// A server that is already closed refuses connections.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewClient(srv.URL, "")
	_, err := c.Extract(context.Background(), testFile(), "prompt", "")
	if err == nil {
		t.Fatal("expected an error")
	}

	if !IsNetworkError(err) {
		t.Errorf("transport failure not tagged as network error: %v", err)
	}
	if !strings.Contains(err.Error(), "could not reach extraction service") {
		t.Errorf("message = %q", err.Error())
	}
}
