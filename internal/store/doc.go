// Package store provides a SQLite-backed ledger with the same contract as the
// CSV store in package ledger.
//
// # Schema
//
//   - tax_records: one row per ic_number (UNIQUE)
//   - seq INTEGER PRIMARY KEY AUTOINCREMENT gives the display order
//
// Upsert deletes the existing row for the identity and inserts the new one in
// a single transaction, so a replaced record takes a fresh seq and moves to
// the end, exactly like the CSV ledger.
//
// # Database Configuration
//
//   - WAL mode: readers don't block the writer
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//
// The ledger is selected when the configured path ends in .db, .sqlite or
// .sqlite3.
package store
