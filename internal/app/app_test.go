package app

import (
	"strings"
	"testing"

	"github.com/nbelhadj/pdf2ticket/internal/normalize"
	"github.com/nbelhadj/pdf2ticket/internal/wizard"
)

func TestHistoryHintsComeFromKeymap(t *testing.T) {
	m := New(wizard.New(nil, nil, normalize.New()), nil, "prompt")
	m.showHistory = true

	hints := m.statusHints()

	for _, want := range []string{
		m.keys.Down.Help().Key,
		m.keys.Up.Help().Key,
		m.keys.Back.Help().Key,
	} {
		if !strings.Contains(hints, want) {
			t.Errorf("history hints %q missing binding %q", hints, want)
		}
	}
}
