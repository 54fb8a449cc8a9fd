package batch

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/taxledger/internal/ledger"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRun_Intake(t *testing.T) {
	f, err := Load(filepath.Join("testdata", "intake.yaml"))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "tax_data.csv")
	st := ledger.NewCSVStore(path, quietLogger())

	res, err := Run(context.Background(), f, st, quietLogger())
	require.NoError(t, err)

	assert.Equal(t, "april-intake", res.Name)
	assert.Equal(t, 3, res.Saved)
	assert.Equal(t, 2, res.Failed)

	statuses := make([]string, len(res.Outcomes))
	for i, o := range res.Outcomes {
		statuses[i] = o.Status
		assert.Equal(t, i, o.Index)
	}
	assert.Equal(t, []string{StatusSaved, StatusAuthFailed, StatusRejected, StatusSaved, StatusSaved}, statuses)

	// U1: 9000 + spouse 4000 + 2 children 16000 + medical 8000 = 37000; 23000 at 3%.
	assert.True(t, res.Outcomes[0].IsNew)
	assert.Equal(t, 37000.0, res.Outcomes[0].TotalRelief)
	assert.Equal(t, 690.0, res.Outcomes[0].TaxPayable)

	// U4: spouse earns too much so the spouse claim is dropped; lifestyle capped.
	assert.Equal(t, 11500.0, res.Outcomes[3].TotalRelief)
	assert.Equal(t, 165.0, res.Outcomes[3].TaxPayable)

	// U1 again: returning user, row replaced and moved to the end.
	assert.False(t, res.Outcomes[4].IsNew)
	assert.Equal(t, 9000.0, res.Outcomes[4].TotalRelief)
	assert.Equal(t, 7260.0, res.Outcomes[4].TaxPayable)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "intake_ledger", data)
}

type brokenStore struct{}

func (brokenStore) Load(context.Context) (ledger.Ledger, error) { return ledger.Ledger{}, nil }
func (brokenStore) List(context.Context) (ledger.Ledger, error) { return ledger.Ledger{}, nil }
func (brokenStore) Upsert(context.Context, ledger.TaxRecord) error {
	return &ledger.StorageError{Op: "upsert", Err: errors.New("read-only")}
}

func TestRun_StorageErrorStops(t *testing.T) {
	f := &File{
		Name: "x",
		Submissions: []Submission{
			{UserID: "U1", IdentityNumber: "111111111111", Password: "1111"},
			{UserID: "U2", IdentityNumber: "222222222222", Password: "2222"},
		},
	}

	res, err := Run(context.Background(), f, brokenStore{}, quietLogger())
	require.Error(t, err)
	assert.True(t, ledger.IsStorageError(err))
	assert.Empty(t, res.Outcomes)
}

func TestClaimsFor(t *testing.T) {
	low, high := 1000.0, 9000.0

	got := claimsFor(Submission{SpouseIncome: &low})
	assert.Equal(t, 4000.0, got["spouse"])

	got = claimsFor(Submission{SpouseIncome: &high, Claims: map[string]float64{"spouse": 4000, "medical": 1}})
	_, hasSpouse := got["spouse"]
	assert.False(t, hasSpouse)
	assert.Equal(t, 1.0, got["medical"])

	src := map[string]float64{"spouse": 4000}
	claimsFor(Submission{SpouseIncome: &high, Claims: src})
	assert.Equal(t, 4000.0, src["spouse"], "input claims must not be modified")
}
