package ledger

import (
	"context"
	"strings"
)

// IdentityLength is the fixed length of an identity number.
const IdentityLength = 12

// TaxRecord is one persisted submission.
type TaxRecord struct {
	UserID         string  `json:"user_id"`
	IdentityNumber string  `json:"ic_number"`
	Income         float64 `json:"income"`
	TotalRelief    float64 `json:"tax_relief"`
	TaxPayable     float64 `json:"tax_payable"`
}

// Ledger is the ordered set of records, one per identity number.
type Ledger []TaxRecord

// Store is the record store contract shared by the CSV and SQLite backends.
type Store interface {
	// Load returns every record. A store with no backing data yet returns an
	// empty ledger and no error.
	Load(ctx context.Context) (Ledger, error)

	// Upsert normalizes rec.IdentityNumber, replaces any row with the same
	// identity and persists the result.
	Upsert(ctx context.Context, rec TaxRecord) error

	// List returns every record for display.
	List(ctx context.Context) (Ledger, error)
}

// NormalizeIdentity left-pads id with zeros to IdentityLength characters.
// Longer values are returned unchanged.
func NormalizeIdentity(id string) string {
	if len(id) >= IdentityLength {
		return id
	}
	return strings.Repeat("0", IdentityLength-len(id)) + id
}

// Upsert returns a new ledger without any row for rec's identity number and
// with rec appended. The receiver is not modified.
func (l Ledger) Upsert(rec TaxRecord) Ledger {
	rec.IdentityNumber = NormalizeIdentity(rec.IdentityNumber)
	out := make(Ledger, 0, len(l)+1)
	for _, r := range l {
		if NormalizeIdentity(r.IdentityNumber) == rec.IdentityNumber {
			continue
		}
		out = append(out, r)
	}
	return append(out, rec)
}

// FindByIdentity returns the first record whose identity number equals id.
func (l Ledger) FindByIdentity(id string) (TaxRecord, bool) {
	for _, r := range l {
		if r.IdentityNumber == id {
			return r, true
		}
	}
	return TaxRecord{}, false
}

// HasUser reports whether any record carries userID.
func (l Ledger) HasUser(userID string) bool {
	for _, r := range l {
		if r.UserID == userID {
			return true
		}
	}
	return false
}
