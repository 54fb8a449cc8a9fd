// Package tax computes income tax payable from income and total relief.
//
// The schedule is a flat tier table, not a marginal one: the whole taxable
// amount is charged at the rate of the single tier it falls into. Tier upper
// bounds are inclusive.
//
//	taxable = max(0, income - relief)
//	tax     = round2(taxable * rate(tier(taxable)))
//
// All functions are pure and never fail. Negative income simply clamps the
// taxable amount to zero.
package tax
