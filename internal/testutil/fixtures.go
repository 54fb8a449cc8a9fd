package testutil

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/roach88/taxledger/internal/ledger"
)

// Script joins lines into an input stream, one answer per prompt.
func Script(lines ...string) io.Reader {
	if len(lines) == 0 {
		return strings.NewReader("")
	}
	return strings.NewReader(strings.Join(lines, "\n") + "\n")
}

// WriteLedger writes l as a CSV ledger under a fresh temp dir and returns the
// file path.
func WriteLedger(t *testing.T, l ledger.Ledger) string {
	t.Helper()
	var buf bytes.Buffer
	if err := ledger.Encode(&buf, l); err != nil {
		t.Fatalf("encode ledger: %v", err)
	}
	path := filepath.Join(t.TempDir(), "tax_data.csv")
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatalf("write ledger: %v", err)
	}
	return path
}
