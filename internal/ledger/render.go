package ledger

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/roach88/taxledger/internal/money"
)

// NoRecords is printed in place of an empty table.
const NoRecords = "No records found."

// WriteTable renders l as an aligned text table with formatted amounts.
func WriteTable(w io.Writer, l Ledger) error {
	if len(l) == 0 {
		_, err := fmt.Fprintln(w, NoRecords)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(Header, "\t"))
	for _, r := range l {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			r.UserID,
			r.IdentityNumber,
			money.Format(r.Income),
			money.Format(r.TotalRelief),
			money.Format(r.TaxPayable),
		)
	}
	return tw.Flush()
}
