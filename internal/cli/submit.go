package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/taxledger/internal/batch"
	"github.com/roach88/taxledger/internal/money"
)

// NewSubmitCommand creates the submit command.
func NewSubmitCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "submit <batch.yaml>",
		Short: "Submit records from a YAML batch file",
		Long: `Submit many records at once from a YAML batch file.

Every submission passes the same checks as an interactive session: password,
user ID / IC number pairing, relief aggregation and tax. Submissions that fail
a check are reported and skipped; the command then exits with status 1.

Example:
  taxledger submit ./intake.yaml
  taxledger submit --format json --ledger ./records.db ./intake.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSubmit(rootOpts, args[0], cmd)
		},
	}
}

func runSubmit(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)
	logger := newLogger(opts, cmd.ErrOrStderr())

	f, err := batch.Load(path)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeInvalidInput, "failed to load batch", err)
	}
	formatter.VerboseLog("Loaded batch %q with %d submission(s)", f.Name, len(f.Submissions))

	st, closeLedger, err := openLedger(opts.Ledger, logger)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStorage, "failed to open ledger", err)
	}
	defer func() {
		if closeErr := closeLedger(); closeErr != nil {
			logger.Error("error closing ledger", "error", closeErr)
		}
	}()

	result, err := batch.Run(commandContext(cmd), f, st, logger)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStorage, "batch stopped", err)
	}

	if formatter.IsJSON() {
		if err := formatter.Success(result); err != nil {
			return err
		}
	} else {
		writeBatchResult(cmd, result)
	}

	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d submission(s) failed", result.Failed))
	}
	return nil
}

func writeBatchResult(cmd *cobra.Command, r *batch.Result) {
	w := cmd.OutOrStdout()
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tID\tIC Number\tStatus\tTax Payable")
	for _, o := range r.Outcomes {
		payable := "-"
		if o.Status == batch.StatusSaved {
			payable = money.Format(o.TaxPayable)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", o.Index+1, o.UserID, o.IdentityNumber, o.Status, payable)
	}
	tw.Flush()

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Batch %s: %d saved, %d failed\n", r.Name, r.Saved, r.Failed)
}
