package ledger

import (
	"errors"
	"fmt"
)

// StorageError reports a failed read or write of the backing store.
type StorageError struct {
	// Op is the store operation: "load" or "upsert".
	Op string

	// Path is the backing file.
	Path string

	// Err is the underlying cause.
	Err error
}

func (e *StorageError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("storage %s %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// IsStorageError reports whether err is or wraps a *StorageError.
func IsStorageError(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
