package store

import (
	"context"
	"fmt"

	"github.com/roach88/taxledger/internal/ledger"
)

var _ ledger.Store = (*Store)(nil)

// Load returns every record ordered by seq.
// Returns an empty ledger (not nil) if the table is empty.
func (s *Store) Load(ctx context.Context) (ledger.Ledger, error) {
	l, err := s.readAll(ctx)
	if err != nil {
		return nil, &ledger.StorageError{Op: "load", Path: s.path, Err: err}
	}
	return l, nil
}

// List is Load under the name the display layer uses.
func (s *Store) List(ctx context.Context) (ledger.Ledger, error) {
	return s.Load(ctx)
}

func (s *Store) readAll(ctx context.Context) (ledger.Ledger, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, ic_number, income, tax_relief, tax_payable
		FROM tax_records
		ORDER BY seq ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query tax records: %w", err)
	}
	defer rows.Close()

	l := ledger.Ledger{}
	for rows.Next() {
		var rec ledger.TaxRecord
		if err := rows.Scan(&rec.UserID, &rec.IdentityNumber, &rec.Income, &rec.TotalRelief, &rec.TaxPayable); err != nil {
			return nil, fmt.Errorf("scan tax record: %w", err)
		}
		rec.IdentityNumber = ledger.NormalizeIdentity(rec.IdentityNumber)
		l = append(l, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tax records: %w", err)
	}
	return l, nil
}
