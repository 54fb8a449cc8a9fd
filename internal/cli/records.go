package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/taxledger/internal/ledger"
)

// NewRecordsCommand creates the records command.
func NewRecordsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "records",
		Short: "List all records in the ledger",
		Long: `List every record in the ledger, in file order.

A ledger file that does not exist yet is shown as empty.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecords(rootOpts, cmd)
		},
	}
}

func runRecords(opts *RootOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)
	logger := newLogger(opts, cmd.ErrOrStderr())

	st, closeLedger, err := openLedger(opts.Ledger, logger)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStorage, "failed to open ledger", err)
	}
	defer closeLedger()

	records, err := st.List(commandContext(cmd))
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStorage, "failed to read ledger", err)
	}
	formatter.VerboseLog("Read %d record(s) from %s", len(records), opts.Ledger)

	if formatter.IsJSON() {
		if records == nil {
			records = ledger.Ledger{}
		}
		return formatter.Success(records)
	}
	return ledger.WriteTable(cmd.OutOrStdout(), records)
}
