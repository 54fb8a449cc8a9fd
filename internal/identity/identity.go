// Package identity gates access by identity number.
//
// The password for an identity is its last four characters. This is a
// convenience login, not a security boundary. Only the length of the identity
// is checked; non-digit characters are accepted.
package identity

import "github.com/roach88/taxledger/internal/ledger"

// Length is the required identity length.
const Length = ledger.IdentityLength

// PasswordLength is the number of trailing identity characters that form the
// password.
const PasswordLength = 4

// ValidFormat reports whether id has the required length.
func ValidFormat(id string) bool {
	return len(id) == Length
}

// Password returns the password derived from id, or "" if id is malformed.
func Password(id string) string {
	if !ValidFormat(id) {
		return ""
	}
	return id[Length-PasswordLength:]
}

// Verify reports whether id is well formed and password matches it.
func Verify(id, password string) bool {
	return ValidFormat(id) && password == id[Length-PasswordLength:]
}

// CheckEntry decides whether the userID and identity pair may submit against
// the ledger l, and whether it is a first submission.
//
//   - empty ledger, or neither value on record: allowed, new
//   - identity on record under the same userID: allowed, returning
//   - anything else: rejected
func CheckEntry(userID, id string, l ledger.Ledger) (allowed, isNew bool) {
	if len(l) == 0 {
		return true, true
	}

	rec, icFound := l.FindByIdentity(id)
	if !icFound && !l.HasUser(userID) {
		return true, true
	}
	if icFound && rec.UserID == userID {
		return true, false
	}
	return false, false
}
