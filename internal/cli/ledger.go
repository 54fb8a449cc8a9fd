package cli

import (
	"log/slog"

	"github.com/roach88/taxledger/internal/ledger"
	"github.com/roach88/taxledger/internal/store"
)

// openLedger opens the ledger at path with the backend its extension selects.
// The returned close function is non-nil whenever err is nil.
func openLedger(path string, logger *slog.Logger) (ledger.Store, func() error, error) {
	if store.IsDatabasePath(path) {
		logger.Debug("opening sqlite ledger", "path", path)
		st, err := store.Open(path)
		if err != nil {
			return nil, nil, &ledger.StorageError{Op: "open", Path: path, Err: err}
		}
		return st, st.Close, nil
	}
	logger.Debug("opening csv ledger", "path", path)
	return ledger.NewCSVStore(path, logger), func() error { return nil }, nil
}
