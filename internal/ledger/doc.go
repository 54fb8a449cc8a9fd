// Package ledger holds the persisted tax records and the CSV-backed store.
//
// A Ledger is an ordered list of TaxRecord with at most one row per identity
// number. Submitting a record for an identity that is already present
// replaces the old row: the old row is removed and the new one is appended,
// so other rows keep their relative order.
//
// # File Format
//
//	ID,IC Number,Income,Tax Relief,Tax Payable
//	U1,001234567890,50000,13000,2220
//
// The IC Number column is always read as text and left-padded with zeros to
// 12 characters, so numeric-looking identities keep their leading zeros.
// Columns are matched by header name.
//
// A missing file is an empty ledger. Upserts rewrite the whole file through
// a temporary file in the same directory followed by a rename.
//
// # Concurrency
//
// Single writer. There is no file lock; two processes upserting against the
// same file race and the last rename wins.
package ledger
