package tax

import (
	"math"

	"github.com/roach88/taxledger/internal/money"
)

// Bracket is one tier of the schedule.
// UpTo is the inclusive upper bound of taxable income for this tier.
type Bracket struct {
	UpTo float64
	Rate float64
}

// Schedule is an ordered list of brackets with strictly increasing UpTo.
// The last bracket must be unbounded (UpTo = +Inf).
type Schedule []Bracket

// DefaultSchedule is the resident individual tier table.
var DefaultSchedule = Schedule{
	{UpTo: 5_000, Rate: 0},
	{UpTo: 20_000, Rate: 0.01},
	{UpTo: 35_000, Rate: 0.03},
	{UpTo: 50_000, Rate: 0.06},
	{UpTo: 70_000, Rate: 0.11},
	{UpTo: 100_000, Rate: 0.19},
	{UpTo: 400_000, Rate: 0.25},
	{UpTo: 600_000, Rate: 0.26},
	{UpTo: 2_000_000, Rate: 0.28},
	{UpTo: math.Inf(1), Rate: 0.30},
}

// Assessment is the breakdown of one tax computation.
type Assessment struct {
	Income  float64 `json:"income"`
	Relief  float64 `json:"relief"`
	Taxable float64 `json:"taxable"`
	Rate    float64 `json:"rate"`
	Tax     float64 `json:"tax"`
}

// Bracket returns the tier that taxable falls into.
func (s Schedule) Bracket(taxable float64) Bracket {
	for _, b := range s {
		if taxable <= b.UpTo {
			return b
		}
	}
	// Unreachable with an unbounded last tier; NaN lands here.
	return s[len(s)-1]
}

// Assess computes the tax breakdown for income after totalRelief.
func (s Schedule) Assess(income, totalRelief float64) Assessment {
	taxable := math.Max(0, income-totalRelief)
	b := s.Bracket(taxable)
	return Assessment{
		Income:  income,
		Relief:  totalRelief,
		Taxable: taxable,
		Rate:    b.Rate,
		Tax:     money.Round2(taxable * b.Rate),
	}
}

// Calculate returns the tax payable, rounded to 2 decimals.
func (s Schedule) Calculate(income, totalRelief float64) float64 {
	return s.Assess(income, totalRelief).Tax
}

// Assess applies DefaultSchedule.
func Assess(income, totalRelief float64) Assessment {
	return DefaultSchedule.Assess(income, totalRelief)
}

// Calculate applies DefaultSchedule.
func Calculate(income, totalRelief float64) float64 {
	return DefaultSchedule.Calculate(income, totalRelief)
}
