package store

import (
	"context"
	"fmt"

	"github.com/roach88/taxledger/internal/ledger"
)

// Upsert replaces the row for rec's identity number, or inserts one.
// The delete and insert run in one transaction; the new row takes the next
// seq so it sorts last.
func (s *Store) Upsert(ctx context.Context, rec ledger.TaxRecord) error {
	rec.IdentityNumber = ledger.NormalizeIdentity(rec.IdentityNumber)
	if err := s.upsert(ctx, rec); err != nil {
		return &ledger.StorageError{Op: "upsert", Path: s.path, Err: err}
	}
	return nil
}

func (s *Store) upsert(ctx context.Context, rec ledger.TaxRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	if _, err := tx.ExecContext(ctx, `DELETE FROM tax_records WHERE ic_number = ?`, rec.IdentityNumber); err != nil {
		return fmt.Errorf("delete existing record: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO tax_records
		(user_id, ic_number, income, tax_relief, tax_payable)
		VALUES (?, ?, ?, ?, ?)
	`,
		rec.UserID,
		rec.IdentityNumber,
		rec.Income,
		rec.TotalRelief,
		rec.TaxPayable,
	)
	if err != nil {
		return fmt.Errorf("insert record: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
