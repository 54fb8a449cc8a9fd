package ledger

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Column names, in file order.
const (
	ColumnID         = "ID"
	ColumnIC         = "IC Number"
	ColumnIncome     = "Income"
	ColumnTaxRelief  = "Tax Relief"
	ColumnTaxPayable = "Tax Payable"
)

// Header is the exact header row written to every ledger file.
var Header = []string{ColumnID, ColumnIC, ColumnIncome, ColumnTaxRelief, ColumnTaxPayable}

// CSVStore keeps the ledger in a single CSV file.
type CSVStore struct {
	path   string
	logger *slog.Logger
}

var _ Store = (*CSVStore)(nil)

// NewCSVStore returns a store backed by the file at path. The file is not
// touched until the first Load or Upsert.
func NewCSVStore(path string, logger *slog.Logger) *CSVStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVStore{path: path, logger: logger}
}

// Path returns the backing file path.
func (s *CSVStore) Path() string {
	return s.path
}

// Load reads the whole ledger. A missing file yields an empty ledger.
func (s *CSVStore) Load(ctx context.Context) (Ledger, error) {
	if err := ctx.Err(); err != nil {
		return nil, &StorageError{Op: "load", Path: s.path, Err: err}
	}

	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Debug("ledger file not found, starting empty", "path", s.path)
		return Ledger{}, nil
	}
	if err != nil {
		return nil, &StorageError{Op: "load", Path: s.path, Err: err}
	}
	defer f.Close()

	l, err := Decode(f)
	if err != nil {
		return nil, &StorageError{Op: "load", Path: s.path, Err: err}
	}
	s.logger.Debug("ledger loaded", "path", s.path, "records", len(l))
	return l, nil
}

// List is Load under the name the display layer uses.
func (s *CSVStore) List(ctx context.Context) (Ledger, error) {
	return s.Load(ctx)
}

// Upsert replaces or inserts rec and rewrites the file.
func (s *CSVStore) Upsert(ctx context.Context, rec TaxRecord) error {
	l, err := s.Load(ctx)
	if err != nil {
		var se *StorageError
		if errors.As(err, &se) {
			se.Op = "upsert"
		}
		return err
	}

	rec.IdentityNumber = NormalizeIdentity(rec.IdentityNumber)
	l = l.Upsert(rec)

	if err := s.write(l); err != nil {
		return &StorageError{Op: "upsert", Path: s.path, Err: err}
	}
	s.logger.Debug("ledger record saved", "path", s.path, "ic_number", rec.IdentityNumber, "records", len(l))
	return nil
}

// write replaces the file contents with l via a temp file and rename.
// An existing file keeps its permission bits; a new one gets 0644.
func (s *CSVStore) write(l Ledger) (err error) {
	perm := fs.FileMode(0644)
	if fi, statErr := os.Stat(s.path); statErr == nil {
		perm = fi.Mode().Perm()
	} else if !errors.Is(statErr, fs.ErrNotExist) {
		return fmt.Errorf("stat ledger file: %w", statErr)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = Encode(tmp, l); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Chmod(tmp.Name(), perm); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err = os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace ledger file: %w", err)
	}
	return nil
}

// Encode writes l as CSV with the standard header.
func Encode(w io.Writer, l Ledger) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, r := range l {
		row := []string{
			r.UserID,
			NormalizeIdentity(r.IdentityNumber),
			formatAmount(r.Income),
			formatAmount(r.TotalRelief),
			formatAmount(r.TaxPayable),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	return nil
}

// Decode parses a ledger file. Empty input is an empty ledger.
func Decode(r io.Reader) (Ledger, error) {
	cr := csv.NewReader(r)
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(rows) == 0 {
		return Ledger{}, nil
	}

	cols, err := headerIndex(rows[0])
	if err != nil {
		return nil, err
	}

	l := make(Ledger, 0, len(rows)-1)
	for i, row := range rows[1:] {
		line := i + 2
		rec := TaxRecord{
			UserID:         row[cols[ColumnID]],
			IdentityNumber: NormalizeIdentity(strings.TrimSpace(row[cols[ColumnIC]])),
		}
		amounts := []struct {
			col string
			dst *float64
		}{
			{ColumnIncome, &rec.Income},
			{ColumnTaxRelief, &rec.TotalRelief},
			{ColumnTaxPayable, &rec.TaxPayable},
		}
		for _, a := range amounts {
			v, err := strconv.ParseFloat(strings.TrimSpace(row[cols[a.col]]), 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: column %q: %w", line, a.col, err)
			}
			*a.dst = v
		}
		l = append(l, rec)
	}
	return l, nil
}

// headerIndex maps each required column to its position in header.
func headerIndex(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		idx[name] = i
	}
	for _, want := range Header {
		if _, ok := idx[want]; !ok {
			return nil, fmt.Errorf("header: missing column %q", want)
		}
	}
	return idx, nil
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
