// Package normalize converts the loosely typed AI extraction output into
// the strict ticket payload the submission backend accepts. It is the
// single validation gate in the pipeline: malformed input degrades to
// defaults instead of failing, and the result is always fully valid.
package normalize

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/nbelhadj/pdf2ticket/internal/model"
)

// defaultDescription is used when the extraction carries neither a
// description nor a details field.
const defaultDescription = "Task created from PDF content."

// maxEmbeddedExtractionLength bounds the serialized extraction that gets
// embedded into the description for traceability. Larger extractions are
// omitted to keep the payload small.
const maxEmbeddedExtractionLength = 1000

// Normalizer builds ticket payloads from extraction documents. The clock
// is injectable so generated default names are deterministic under test.
type Normalizer struct {
	now func() time.Time
}

// New returns a Normalizer using the wall clock.
func New() *Normalizer {
	return &Normalizer{now: time.Now}
}

// NewWithClock returns a Normalizer using the given clock.
func NewWithClock(now func() time.Time) *Normalizer {
	return &Normalizer{now: now}
}

// Normalize converts an extraction document into a valid TicketPayload.
// It never fails: missing or malformed fields fall back to defaults. The
// returned warnings describe any coercions that silently degraded; they
// are informational only and never block submission.
func (n *Normalizer) Normalize(doc model.Document) (model.TicketPayload, []string) {
	var warnings []string

	payload := model.TicketPayload{
		Name:        n.normalizeName(doc),
		Description: n.normalizeDescription(doc),
		Priority:    model.PriorityNormal,
		Status:      model.DefaultStatus,
	}

	if priority, warning := normalizePriority(doc); warning != "" {
		warnings = append(warnings, warning)
	} else {
		payload.Priority = priority
	}

	if status, ok := doc.StringField("status"); ok && strings.TrimSpace(status) != "" {
		payload.Status = status
	}

	return payload, warnings
}

// normalizeName returns the extraction's name field when it is a
// non-empty string, otherwise a generated default. Either way the result
// is truncated to the backend's hard limit.
func (n *Normalizer) normalizeName(doc model.Document) string {
	name, ok := doc.StringField("name")
	if !ok || name == "" {
		name = "Task from PDF - " + n.now().UTC().Format(time.RFC3339)
	}
	return truncate(name, model.MaxTicketNameLength)
}

// normalizeDescription prefers the extraction's description, then its
// details field, then a fixed default. When the default is used and the
// extraction is a small object, the raw extraction is embedded as a
// fenced JSON block so the ticket keeps a trace of what the AI produced.
func (n *Normalizer) normalizeDescription(doc model.Document) string {
	if desc, ok := doc.StringField("description"); ok && desc != "" {
		return desc
	}
	if details, ok := doc.StringField("details"); ok && details != "" {
		return details
	}

	desc := defaultDescription
	if doc.IsObject() {
		if serialized, ok := doc.Serialize(); ok &&
			len(serialized) < maxEmbeddedExtractionLength {
			desc += "\n\n```json\n" + serialized + "\n```"
		}
	}
	return desc
}

// normalizePriority coerces the extraction's priority field into an
// integer in [PriorityUrgent, PriorityLow]. Numeric strings are parsed.
// Anything else yields a warning and the caller falls back to Normal.
func normalizePriority(doc model.Document) (int, string) {
	raw, ok := doc.Field("priority")
	if !ok || raw == nil {
		return model.PriorityNormal, ""
	}

	var value int
	switch v := raw.(type) {
	case float64:
		// JSON numbers decode as float64; only whole values qualify.
		if v != math.Trunc(v) {
			return 0, fmt.Sprintf("non-integer priority %v, using Normal", v)
		}
		value = int(v)
	case int:
		value = v
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, fmt.Sprintf("unparseable priority %q, using Normal", v)
		}
		value = parsed
	default:
		return 0, fmt.Sprintf("priority has unsupported type %T, using Normal", raw)
	}

	if value < model.PriorityUrgent || value > model.PriorityLow {
		return 0, fmt.Sprintf("priority %d out of range 1-4, using Normal", value)
	}
	return value, ""
}

// truncate limits s to at most max characters.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
