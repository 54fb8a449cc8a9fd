package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

// ExportResult is the export command payload.
type ExportResult struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
	Records     int    `json:"records"`
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "export <dest>",
		Short: "Copy every record into another ledger",
		Long: `Copy every record from the current ledger into dest.

The backend of dest is chosen by its extension, so this converts between CSV
and SQLite ledgers. Records are upserted: rows already in dest with other IC
numbers are kept.

Example:
  taxledger export ./records.db
  taxledger --ledger ./records.db export ./tax_data.csv`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(rootOpts, args[0], cmd)
		},
	}
}

func runExport(opts *RootOptions, dest string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)
	logger := newLogger(opts, cmd.ErrOrStderr())
	ctx := commandContext(cmd)

	if filepath.Clean(dest) == filepath.Clean(opts.Ledger) {
		return formatter.Fail(ExitCommandError, ErrCodeInvalidInput, "destination is the current ledger", nil)
	}

	src, closeSrc, err := openLedger(opts.Ledger, logger)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStorage, "failed to open ledger", err)
	}
	defer closeSrc()

	records, err := src.Load(ctx)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStorage, "failed to read ledger", err)
	}

	dst, closeDst, err := openLedger(dest, logger)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStorage, "failed to open destination", err)
	}
	defer closeDst()

	for _, rec := range records {
		if err := dst.Upsert(ctx, rec); err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeStorage, "failed to write destination", err)
		}
	}

	result := ExportResult{Source: opts.Ledger, Destination: dest, Records: len(records)}
	if formatter.IsJSON() {
		return formatter.Success(result)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d record(s) from %s to %s\n", result.Records, result.Source, result.Destination)
	return nil
}
