// Package money holds the currency helpers shared by the tax and ledger packages.
//
// Amounts are float64 ringgit. Rounding is half away from zero at 2 decimal
// places.
package money

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Currency is the display prefix for all amounts.
const Currency = "RM"

var printer = message.NewPrinter(language.English)

// Round2 rounds v to two decimal places, half away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Format renders v as a grouped currency string, e.g. "RM 12,345.60".
func Format(v float64) string {
	return printer.Sprintf("%s %.2f", Currency, Round2(v))
}
