package cli

import (
	"errors"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/taxledger/internal/ledger"
	"github.com/roach88/taxledger/internal/session"
)

// SessionOptions holds flags for the session command.
type SessionOptions struct {
	*RootOptions

	// IDs allows overriding the session ID generator (for testing).
	// If nil, defaults to session.UUIDv7Generator.
	IDs session.IDGenerator
}

// NewSessionCommand creates the session command.
func NewSessionCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SessionOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "session",
		Short: "Start an interactive tax submission",
		Long: `Log in with a user ID and IC number, enter income and reliefs, and save
the computed tax to the ledger.

The password is the last 4 characters of the IC number. Three wrong
passwords end the session. With --format json, prompts go to stderr and the
result is written to stdout as JSON.

Example:
  taxledger session
  taxledger session --ledger ./records.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(opts, cmd)
		},
	}

	return cmd
}

func runSession(opts *SessionOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	st, closeLedger, err := openLedger(opts.Ledger, logger)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStorage, "failed to open ledger", err)
	}
	defer func() {
		if closeErr := closeLedger(); closeErr != nil {
			logger.Error("error closing ledger", "error", closeErr)
		}
	}()

	var prompts io.Writer = cmd.OutOrStdout()
	if formatter.IsJSON() {
		prompts = cmd.ErrOrStderr()
	}

	s := session.New(session.Options{
		In:     cmd.InOrStdin(),
		Out:    prompts,
		Store:  st,
		Logger: logger,
		IDs:    opts.IDs,
	})
	formatter.TraceID = s.ID()

	res, err := s.Run(commandContext(cmd))
	switch {
	case err == nil:
	case errors.Is(err, session.ErrEntryRejected):
		return formatter.Fail(ExitFailure, ErrCodeRejected, "entry rejected", err)
	case errors.Is(err, session.ErrAuthFailed):
		return formatter.Fail(ExitFailure, ErrCodeAuthFailed, "login failed", err)
	case errors.Is(err, session.ErrInputClosed):
		return formatter.Fail(ExitCommandError, ErrCodeInputClosed, "session aborted", err)
	case ledger.IsStorageError(err):
		return formatter.Fail(ExitCommandError, ErrCodeStorage, "ledger error", err)
	default:
		return formatter.Fail(ExitCommandError, ErrCodeInvalidInput, "session failed", err)
	}

	if formatter.IsJSON() {
		return formatter.Success(res)
	}
	return nil
}
