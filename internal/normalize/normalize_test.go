package normalize

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/nbelhadj/pdf2ticket/internal/model"
)

// fixedClock makes generated default names deterministic.
func fixedClock() time.Time {
	return time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
}

func newTestNormalizer() *Normalizer {
	return NewWithClock(fixedClock)
}

func obj(fields map[string]any) model.Document {
	return model.NewDocument(fields)
}

func TestNormalizeNameDefault(t *testing.T) {
	n := newTestNormalizer()

	cases := []struct {
		name string
		doc  model.Document
	}{
		{"missing name", obj(map[string]any{"description": "x"})},
		{"empty name", obj(map[string]any{"name": ""})},
		{"non-string name", obj(map[string]any{"name": 42.0})},
		{"non-object document", model.NewDocument("just a string")},
		{"null document", model.NewDocument(nil)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			payload, _ := n.Normalize(tc.doc)
			want := "Task from PDF - 2025-03-14T09:26:53Z"
			if payload.Name != want {
				t.Errorf("Name = %q, want %q", payload.Name, want)
			}
			if len([]rune(payload.Name)) > model.MaxTicketNameLength {
				t.Errorf("default name exceeds %d characters", model.MaxTicketNameLength)
			}
		})
	}
}

func TestNormalizeNameTruncation(t *testing.T) {
	n := newTestNormalizer()

	long := strings.Repeat("a", 400)
	payload, _ := n.Normalize(obj(map[string]any{"name": long}))

	if got := len([]rune(payload.Name)); got != model.MaxTicketNameLength {
		t.Errorf("truncated name length = %d, want %d", got, model.MaxTicketNameLength)
	}
	if !strings.HasPrefix(long, payload.Name) {
		t.Error("truncation changed the name content")
	}

	// Names at or under the limit pass through untouched.
	short := strings.Repeat("b", model.MaxTicketNameLength)
	payload, _ = n.Normalize(obj(map[string]any{"name": short}))
	if payload.Name != short {
		t.Errorf("name at the limit was modified: %q", payload.Name)
	}
}

func TestNormalizePriority(t *testing.T) {
	n := newTestNormalizer()

	valid := []struct {
		input any
		want  int
	}{
		{"1", 1}, {"2", 2}, {"3", 3}, {"4", 4},
		{float64(1), 1}, {float64(2), 2}, {float64(3), 3}, {float64(4), 4},
		{1, 1}, {4, 4},
		{" 2 ", 2},
	}
	for _, tc := range valid {
		payload, warnings := n.Normalize(obj(map[string]any{"priority": tc.input}))
		if payload.Priority != tc.want {
			t.Errorf("priority %v: got %d, want %d", tc.input, payload.Priority, tc.want)
		}
		if len(warnings) != 0 {
			t.Errorf("priority %v: unexpected warnings %v", tc.input, warnings)
		}
	}

	invalid := []any{
		float64(0), float64(5), float64(-1), float64(2.5),
		"abc", "", "5", nil, true,
		[]any{"2"},
	}
	for _, input := range invalid {
		payload, _ := n.Normalize(obj(map[string]any{"priority": input}))
		if payload.Priority != model.PriorityNormal {
			t.Errorf("priority %v: got %d, want fallback %d",
				input, payload.Priority, model.PriorityNormal)
		}
	}

	// Invalid values warn; absent values do not.
	_, warnings := n.Normalize(obj(map[string]any{"priority": "abc"}))
	if len(warnings) == 0 {
		t.Error("invalid priority produced no warning")
	}
	_, warnings = n.Normalize(obj(map[string]any{}))
	if len(warnings) != 0 {
		t.Errorf("absent priority produced warnings %v", warnings)
	}
}

func TestNormalizeStatus(t *testing.T) {
	n := newTestNormalizer()

	fallbacks := []any{"", "   ", "\t\n", 7.0, nil, true}
	for _, input := range fallbacks {
		payload, _ := n.Normalize(obj(map[string]any{"status": input}))
		if payload.Status != model.DefaultStatus {
			t.Errorf("status %v: got %q, want %q", input, payload.Status, model.DefaultStatus)
		}
	}

	payload, _ := n.Normalize(obj(map[string]any{"status": "In Review"}))
	if payload.Status != "In Review" {
		t.Errorf("valid status modified: %q", payload.Status)
	}
}

func TestNormalizeDescription(t *testing.T) {
	n := newTestNormalizer()

	t.Run("description wins", func(t *testing.T) {
		payload, _ := n.Normalize(obj(map[string]any{
			"description": "from description",
			"details":     "from details",
		}))
		if payload.Description != "from description" {
			t.Errorf("Description = %q", payload.Description)
		}
	})

	t.Run("details is the fallback", func(t *testing.T) {
		payload, _ := n.Normalize(obj(map[string]any{"details": "from details"}))
		if payload.Description != "from details" {
			t.Errorf("Description = %q", payload.Description)
		}
	})

	t.Run("small extraction is embedded", func(t *testing.T) {
		payload, _ := n.Normalize(obj(map[string]any{"name": "x"}))
		if !strings.HasPrefix(payload.Description, defaultDescription) {
			t.Errorf("Description = %q", payload.Description)
		}
		if !strings.Contains(payload.Description, "```json") {
			t.Error("small extraction was not embedded as a fenced block")
		}
		if !strings.Contains(payload.Description, `"name":"x"`) {
			t.Errorf("embedded extraction missing content: %q", payload.Description)
		}
	})

	t.Run("large extraction is omitted", func(t *testing.T) {
		payload, _ := n.Normalize(obj(map[string]any{
			"name": "x",
			"blob": strings.Repeat("y", 1200),
		}))
		if payload.Description != defaultDescription {
			t.Errorf("Description = %q, want bare default", payload.Description)
		}
	})

	t.Run("non-object extraction is not embedded", func(t *testing.T) {
		payload, _ := n.Normalize(model.NewDocument("bare string"))
		if payload.Description != defaultDescription {
			t.Errorf("Description = %q, want bare default", payload.Description)
		}
	})
}

func TestNormalizeIsIdempotent(t *testing.T) {
	n := newTestNormalizer()
	doc := obj(map[string]any{
		"name":     "Invoice #42",
		"priority": "2",
		"extra":    []any{"a", "b"},
	})

	first, firstWarnings := n.Normalize(doc)
	second, secondWarnings := n.Normalize(doc)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("normalize is not deterministic: %+v vs %+v", first, second)
	}
	if !reflect.DeepEqual(firstWarnings, secondWarnings) {
		t.Errorf("warnings differ across calls: %v vs %v", firstWarnings, secondWarnings)
	}
}

func TestNormalizeFullPayload(t *testing.T) {
	n := newTestNormalizer()

	payload, warnings := n.Normalize(obj(map[string]any{
		"name":     "Invoice #42",
		"priority": "2",
	}))

	if payload.Name != "Invoice #42" {
		t.Errorf("Name = %q", payload.Name)
	}
	if payload.Priority != model.PriorityHigh {
		t.Errorf("Priority = %d, want %d", payload.Priority, model.PriorityHigh)
	}
	if payload.Status != model.DefaultStatus {
		t.Errorf("Status = %q, want %q", payload.Status, model.DefaultStatus)
	}
	if !strings.HasPrefix(payload.Description, defaultDescription) {
		t.Errorf("Description = %q", payload.Description)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
}
