// Package session runs the interactive submission flow.
//
// A session reads one answer per line and walks the user through:
//
//  1. user ID
//  2. IC number, re-asked until it has 12 characters
//  3. entry check against the ledger (mismatched pairs are rejected)
//  4. password, at most MaxPasswordAttempts tries
//  5. annual income, re-asked until it is a non-negative number
//  6. relief selection and per-category amounts
//  7. tax assessment, ledger upsert and a listing of all records
//
// All parsing and retry policy lives here; the identity, relief, tax and
// ledger packages only ever see validated values.
package session
