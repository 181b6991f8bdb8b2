package testutil

import (
	"testing"

	"github.com/nbelhadj/pdf2ticket/internal/history"
)

// NewHistoryStore creates an in-memory submission history store with all
// migrations applied. It automatically closes the store when the test
// completes.
func NewHistoryStore(t *testing.T) *history.SQLiteStore {
	t.Helper()

	s, err := history.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})

	return s
}
