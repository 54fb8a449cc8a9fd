package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/taxledger/internal/identity"
	"github.com/roach88/taxledger/internal/ledger"
)

// CheckOptions holds flags for the check command.
type CheckOptions struct {
	*RootOptions
	UserID string
	IC     string
}

// CheckResult is the check command payload.
type CheckResult struct {
	UserID  string `json:"user_id"`
	IC      string `json:"ic_number"`
	Allowed bool   `json:"allowed"`
	IsNew   bool   `json:"is_new"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check whether a user ID and IC number may submit",
		Long: `Check a user ID and IC number pair against the ledger.

A pair is allowed when neither value is on record (new user) or when the IC
number is on record under the same user ID (returning user). Any other
combination is rejected and the command exits with status 1.

Example:
  taxledger check --user U1 --ic 123456789012`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.UserID, "user", "", "user ID (required)")
	cmd.Flags().StringVar(&opts.IC, "ic", "", "IC number (required)")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("ic")

	return cmd
}

func runCheck(opts *CheckOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	st, closeLedger, err := openLedger(opts.Ledger, logger)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStorage, "failed to open ledger", err)
	}
	defer closeLedger()

	records, err := st.Load(commandContext(cmd))
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStorage, "failed to read ledger", err)
	}

	result := CheckResult{UserID: opts.UserID, IC: opts.IC}
	result.Allowed, result.IsNew = identity.CheckEntry(opts.UserID, ledger.NormalizeIdentity(opts.IC), records)

	if formatter.IsJSON() {
		if err := formatter.Success(result); err != nil {
			return err
		}
	} else {
		w := cmd.OutOrStdout()
		switch {
		case !result.Allowed:
			fmt.Fprintf(w, "Rejected: %s / %s does not match the records on file.\n", opts.UserID, opts.IC)
		case result.IsNew:
			fmt.Fprintf(w, "Allowed: %s is a new user.\n", opts.UserID)
		default:
			fmt.Fprintf(w, "Allowed: %s is a returning user.\n", opts.UserID)
		}
		if !identity.ValidFormat(opts.IC) {
			fmt.Fprintf(w, "Note: IC number must be %d characters to log in.\n", identity.Length)
		}
	}

	if !result.Allowed {
		return NewExitError(ExitFailure, "entry rejected")
	}
	return nil
}
