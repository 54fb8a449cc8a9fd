package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/taxledger/internal/ledger"
)

// createTestStore creates a new store in a temp directory for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ledger.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRecord creates a record with the given key fields.
func createTestRecord(userID, ic string, income float64) ledger.TaxRecord {
	return ledger.TaxRecord{
		UserID:         userID,
		IdentityNumber: ic,
		Income:         income,
		TotalRelief:    9000,
		TaxPayable:     0,
	}
}
