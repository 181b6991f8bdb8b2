package model

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestValidate(t *testing.T) {
	cases := []struct {
		name        string
		cfg         AppConfig
		wantMissing []string
	}{
		{
			name: "both URLs present",
			cfg: AppConfig{
				Extraction: BackendConfig{BaseURL: "http://localhost:8000"},
				Ticket:     BackendConfig{BaseURL: "http://localhost:9000"},
			},
		},
		{
			name:        "both URLs absent",
			cfg:         AppConfig{},
			wantMissing: []string{"extraction.base_url", "ticket.base_url"},
		},
		{
			name: "ticket URL absent",
			cfg: AppConfig{
				Extraction: BackendConfig{BaseURL: "http://localhost:8000"},
			},
			wantMissing: []string{"ticket.base_url"},
		},
		{
			name: "whitespace is not a URL",
			cfg: AppConfig{
				Extraction: BackendConfig{BaseURL: "   "},
				Ticket:     BackendConfig{BaseURL: "http://localhost:9000"},
			},
			wantMissing: []string{"extraction.base_url"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if len(tc.wantMissing) == 0 {
				if err != nil {
					t.Fatalf("Validate returned %v", err)
				}
				return
			}

			var cfgErr *ConfigurationError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("error is %T, want *ConfigurationError", err)
			}
			if len(cfgErr.Missing) != len(tc.wantMissing) {
				t.Fatalf("Missing = %v, want %v", cfgErr.Missing, tc.wantMissing)
			}
			for i, want := range tc.wantMissing {
				if cfgErr.Missing[i] != want {
					t.Errorf("Missing[%d] = %q, want %q", i, cfgErr.Missing[i], want)
				}
			}
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Prompt.System == "" {
		t.Error("default system prompt is empty")
	}
	if cfg.History.Path == "" {
		t.Error("default history path is empty")
	}
	if cfg.Extraction.BaseURL != "" || cfg.Ticket.BaseURL != "" {
		t.Error("backend URLs defaulted to non-empty values")
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `extraction:
  base_url: http://extract.example.com
ticket:
  base_url: http://tickets.example.com
prompt:
  system: custom prompt
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Extraction.BaseURL != "http://extract.example.com" {
		t.Errorf("extraction base URL = %q", cfg.Extraction.BaseURL)
	}
	if cfg.Ticket.BaseURL != "http://tickets.example.com" {
		t.Errorf("ticket base URL = %q", cfg.Ticket.BaseURL)
	}
	if cfg.Prompt.System != "custom prompt" {
		t.Errorf("system prompt = %q", cfg.Prompt.System)
	}
	if cfg.History.Path == "" {
		t.Error("history path default lost when loading a partial file")
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `extraction:
  base_url: http://file.example.com
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}

	t.Setenv("PDF2TICKET_EXTRACTION_URL", "http://env.example.com")
	t.Setenv("PDF2TICKET_TICKET_URL", "http://env-tickets.example.com")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Extraction.BaseURL != "http://env.example.com" {
		t.Errorf("extraction base URL = %q, want the env value", cfg.Extraction.BaseURL)
	}
	if cfg.Ticket.BaseURL != "http://env-tickets.example.com" {
		t.Errorf("ticket base URL = %q, want the env value", cfg.Ticket.BaseURL)
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	in := &AppConfig{
		Extraction: BackendConfig{BaseURL: "http://extract.example.com"},
		Ticket:     BackendConfig{BaseURL: "http://tickets.example.com"},
		Prompt:     PromptConfig{System: "saved prompt"},
		History:    HistoryConfig{Path: "/tmp/history.db"},
	}
	if err := SaveConfig(path, in); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	out, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig after save: %v", err)
	}

	if *out != *in {
		t.Errorf("round trip changed the config:\n got %+v\nwant %+v", *out, *in)
	}
}
