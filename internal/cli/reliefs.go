package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/taxledger/internal/money"
	"github.com/roach88/taxledger/internal/relief"
)

// ReliefsResult is the reliefs command payload.
type ReliefsResult struct {
	Base       float64           `json:"base"`
	Categories []relief.Category `json:"categories"`
}

// NewReliefsCommand creates the reliefs command.
func NewReliefsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "reliefs",
		Short:         "List relief categories and their caps",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReliefs(rootOpts, cmd)
		},
	}
}

func runReliefs(opts *RootOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)
	result := ReliefsResult{
		Base:       relief.BaseRelief,
		Categories: relief.Default().Categories(),
	}

	if formatter.IsJSON() {
		return formatter.Success(result)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Base individual relief: %s\n\n", money.Format(result.Base))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tCategory\tMode\tCap")
	for i, c := range result.Categories {
		limit := money.Format(c.Cap)
		if c.Mode == relief.PerUnit {
			limit = fmt.Sprintf("%s each, up to %d", limit, c.MaxUnits)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", i+1, c.Name, c.Mode, limit)
	}
	return tw.Flush()
}
