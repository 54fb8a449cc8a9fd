package session

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/taxledger/internal/ledger"
	"github.com/roach88/taxledger/internal/testutil"
)

type harness struct {
	out   *bytes.Buffer
	store *ledger.CSVStore
}

func newHarness(t *testing.T, path string) *harness {
	t.Helper()
	if path == "" {
		path = filepath.Join(t.TempDir(), "tax_data.csv")
	}
	return &harness{
		out:   &bytes.Buffer{},
		store: ledger.NewCSVStore(path, quietLogger()),
	}
}

func (h *harness) run(t *testing.T, in io.Reader) (*Result, error) {
	t.Helper()
	s := New(Options{
		In:     in,
		Out:    h.out,
		Store:  h.store,
		Logger: quietLogger(),
		IDs:    testutil.NewFixedIDGenerator("sess-1"),
	})
	return s.Run(context.Background())
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRun_NewUserFullFlow(t *testing.T) {
	h := newHarness(t, "")

	res, err := h.run(t, testutil.Script(
		"U1",
		"12345",        // too short
		"123456789012", // valid
		"0000",         // wrong password
		"9012",
		"abc", // not a number
		"-5",  // negative
		"60000",
		"1,2,3,9,x",
		"3000",  // spouse income, eligible
		"2",     // children
		"10000", // medical, capped
	))
	require.NoError(t, err)

	assert.Equal(t, "sess-1", res.SessionID)
	assert.True(t, res.IsNew)
	assert.Equal(t, ledger.TaxRecord{
		UserID:         "U1",
		IdentityNumber: "123456789012",
		Income:         60000,
		TotalRelief:    37000,
		TaxPayable:     690,
	}, res.Record)
	assert.Equal(t, 23000.0, res.Assessment.Taxable)
	require.Len(t, res.Relief.Lines, 3)
	require.Len(t, res.Ledger, 1)

	out := h.out.String()
	assert.Contains(t, out, "Invalid IC number")
	assert.Contains(t, out, "New user U1")
	assert.Contains(t, out, "Incorrect password. 2 attempt(s) left.")
	assert.Contains(t, out, "Please enter a valid number.")
	assert.Contains(t, out, "The amount cannot be negative.")
	assert.Contains(t, out, "Invalid selection: 9")
	assert.Contains(t, out, "Invalid selection: x")
	assert.Contains(t, out, "Your tax payable is: RM 690.00")
	assert.Contains(t, out, "Tax records:")

	persisted, err := h.store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ledger.Ledger{res.Record}, persisted)
}

func TestRun_ReturningUserReplacesRecord(t *testing.T) {
	path := testutil.WriteLedger(t, ledger.Ledger{
		{UserID: "U0", IdentityNumber: "000000000001", Income: 1, TotalRelief: 9000, TaxPayable: 0},
		{UserID: "U1", IdentityNumber: "123456789012", Income: 10000, TotalRelief: 9000, TaxPayable: 0},
		{UserID: "U2", IdentityNumber: "000000000002", Income: 2, TotalRelief: 9000, TaxPayable: 0},
	})
	h := newHarness(t, path)

	res, err := h.run(t, testutil.Script("U1", "123456789012", "9012", "50000", ""))
	require.NoError(t, err)

	assert.False(t, res.IsNew)
	assert.Contains(t, h.out.String(), "Welcome back, U1.")
	assert.Equal(t, 2460.0, res.Record.TaxPayable)

	require.Len(t, res.Ledger, 3)
	assert.Equal(t, "U0", res.Ledger[0].UserID)
	assert.Equal(t, "U2", res.Ledger[1].UserID)
	assert.Equal(t, "U1", res.Ledger[2].UserID)
	assert.Equal(t, 50000.0, res.Ledger[2].Income)
}

func TestRun_MismatchRejected(t *testing.T) {
	path := testutil.WriteLedger(t, ledger.Ledger{
		{UserID: "U1", IdentityNumber: "123456789012", Income: 10000, TotalRelief: 9000},
	})
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	h := newHarness(t, path)
	_, err = h.run(t, testutil.Script("U2", "123456789012"))
	require.ErrorIs(t, err, ErrEntryRejected)
	assert.Contains(t, h.out.String(), "do not match our records")

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestRun_ThreeBadPasswords(t *testing.T) {
	h := newHarness(t, "")

	_, err := h.run(t, testutil.Script("U1", "123456789012", "1", "2", "3"))
	require.ErrorIs(t, err, ErrAuthFailed)
	assert.Contains(t, h.out.String(), "Incorrect password. 1 attempt(s) left.")
	assert.Contains(t, h.out.String(), "Too many failed attempts.")

	_, statErr := os.Stat(h.store.Path())
	assert.True(t, os.IsNotExist(statErr), "nothing should be written")
}

func TestRun_InputClosed(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
	}{
		{"no input", nil},
		{"after user id", []string{"U1"}},
		{"during password", []string{"U1", "123456789012", "1"}},
		{"during reliefs", []string{"U1", "123456789012", "9012", "1000", "4"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, "")
			_, err := h.run(t, testutil.Script(tt.lines...))
			require.ErrorIs(t, err, ErrInputClosed)
		})
	}
}

func TestRun_SpouseIncomeTooHigh(t *testing.T) {
	h := newHarness(t, "")

	res, err := h.run(t, testutil.Script("U1", "123456789012", "9012", "30000", "1", "5000"))
	require.NoError(t, err)

	assert.Contains(t, h.out.String(), "Spouse income exceeds RM 4,000.00")
	assert.Empty(t, res.Relief.Lines)
	assert.Equal(t, 9000.0, res.Record.TotalRelief)
	assert.Equal(t, 630.0, res.Record.TaxPayable)
}

func TestRun_DuplicateSelectionAskedOnce(t *testing.T) {
	h := newHarness(t, "")

	res, err := h.run(t, testutil.Script("U1", "123456789012", "9012", "20000", "3, 3", "500"))
	require.NoError(t, err)

	assert.Equal(t, 9500.0, res.Record.TotalRelief)
	assert.Equal(t, 105.0, res.Record.TaxPayable)
}

func TestRun_ChildCountValidation(t *testing.T) {
	h := newHarness(t, "")

	res, err := h.run(t, testutil.Script("U1", "123456789012", "9012", "200000", "2", "two", "-1", "13"))
	require.NoError(t, err)

	out := h.out.String()
	assert.Contains(t, out, "Please enter a whole number.")
	assert.Contains(t, out, "The number cannot be negative.")
	assert.Equal(t, 9000.0+12*8000, res.Record.TotalRelief)
}

type failingStore struct {
	err error
}

func (f failingStore) Load(context.Context) (ledger.Ledger, error) { return nil, f.err }
func (f failingStore) Upsert(context.Context, ledger.TaxRecord) error { return f.err }
func (f failingStore) List(context.Context) (ledger.Ledger, error) { return nil, f.err }

func TestRun_StorageErrorPropagates(t *testing.T) {
	storageErr := &ledger.StorageError{Op: "load", Path: "x.csv", Err: errors.New("disk on fire")}
	s := New(Options{
		In:     testutil.Script("U1", "123456789012"),
		Out:    io.Discard,
		Store:  failingStore{err: storageErr},
		Logger: quietLogger(),
	})

	_, err := s.Run(context.Background())
	require.Error(t, err)
	assert.True(t, ledger.IsStorageError(err))
	assert.NotEmpty(t, s.ID(), "default generator should produce an ID")
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr error
	}{
		{"0", 0, nil},
		{"  1500.50 ", 1500.5, nil},
		{"12,000", 12000, nil},
		{"8,000", 8000, nil},
		{"1,234,567.89", 1234567.89, nil},
		{"1,5", 0, ErrNotANumber},
		{"1,2,3", 0, ErrNotANumber},
		{"12,00", 0, ErrNotANumber},
		{",100", 0, ErrNotANumber},
		{"1000,000", 0, ErrNotANumber},
		{"-1,000", 0, ErrNegativeAmount},
		{"abc", 0, ErrNotANumber},
		{"", 0, ErrNotANumber},
		{"NaN", 0, ErrNotANumber},
		{"Inf", 0, ErrNotANumber},
		{"-1", 0, ErrNegativeAmount},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAmount(tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
