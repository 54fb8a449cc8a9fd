package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/roach88/taxledger/internal/money"
	"github.com/roach88/taxledger/internal/relief"
	"github.com/roach88/taxledger/internal/session"
	"github.com/roach88/taxledger/internal/tax"
)

// CalcOptions holds flags for the calc command.
type CalcOptions struct {
	*RootOptions
	Income float64
	Relief float64
	Claims map[string]string
}

// CalcResult is the calc command payload.
type CalcResult struct {
	tax.Assessment
	Reliefs *relief.Summary `json:"reliefs,omitempty"`
}

// NewCalcCommand creates the calc command.
func NewCalcCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CalcOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Compute tax without touching the ledger",
		Long: `Compute tax payable for an income.

Relief is either given directly as a total with --relief, or built from
relief claims with --claim (base relief of RM 9,000 is always included).

Example:
  taxledger calc --income 60000 --relief 13000
  taxledger calc --income 60000 --claim child=2 --claim medical=10000`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCalc(opts, cmd)
		},
	}

	cmd.Flags().Float64Var(&opts.Income, "income", 0, "annual income (required)")
	cmd.Flags().Float64Var(&opts.Relief, "relief", 0, "total relief amount")
	cmd.Flags().StringToStringVar(&opts.Claims, "claim", nil, "relief claim as category=value (repeatable)")
	_ = cmd.MarkFlagRequired("income")
	cmd.MarkFlagsMutuallyExclusive("relief", "claim")

	return cmd
}

func runCalc(opts *CalcOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	if opts.Income < 0 {
		return formatter.Fail(ExitCommandError, ErrCodeInvalidInput, "income must not be negative", nil)
	}

	var result CalcResult
	if cmd.Flags().Changed("relief") {
		if opts.Relief < 0 {
			return formatter.Fail(ExitCommandError, ErrCodeInvalidInput, "relief must not be negative", nil)
		}
		result.Assessment = tax.Assess(opts.Income, opts.Relief)
	} else {
		claims, err := parseClaims(opts.Claims)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeInvalidInput, "invalid --claim", err)
		}
		for name := range claims {
			if _, ok := relief.Default().Lookup(name); !ok {
				formatter.VerboseLog("ignoring unknown relief category %q", name)
			}
		}
		summary := relief.Apply(claims)
		result.Reliefs = &summary
		result.Assessment = tax.Assess(opts.Income, summary.Total)
	}

	if formatter.IsJSON() {
		return formatter.Success(result)
	}
	writeAssessment(cmd, result)
	return nil
}

func parseClaims(raw map[string]string) (relief.Claims, error) {
	claims := make(relief.Claims, len(raw))
	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		v, err := session.ParseAmount(raw[name])
		if err != nil {
			return nil, fmt.Errorf("%s=%s: %w", name, raw[name], err)
		}
		claims[name] = v
	}
	return claims, nil
}

func writeAssessment(cmd *cobra.Command, r CalcResult) {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Income:          %s\n", money.Format(r.Income))
	if r.Reliefs != nil {
		fmt.Fprintf(w, "Base relief:     %s\n", money.Format(r.Reliefs.Base))
		for _, line := range r.Reliefs.Lines {
			fmt.Fprintf(w, "  %-14s %s\n", line.Category+":", money.Format(line.Allowed))
		}
	}
	fmt.Fprintf(w, "Total relief:    %s\n", money.Format(r.Relief))
	fmt.Fprintf(w, "Taxable income:  %s\n", money.Format(r.Taxable))
	fmt.Fprintf(w, "Tax rate:        %.0f%%\n", r.Rate*100)
	fmt.Fprintf(w, "Tax payable:     %s\n", money.Format(r.Tax))
}
