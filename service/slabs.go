package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"taxbot/domain"
)

var ErrInvalidSlabTable = errors.New("invalid slab table")

// Slab taxes the income between the previous slab's UpTo and its own UpTo at Rate.
// A nil UpTo marks the open-ended top slab.
type Slab struct {
	UpTo *decimal.Decimal `yaml:"up_to,omitempty" json:"up_to,omitempty"`
	Rate decimal.Decimal  `yaml:"rate" json:"rate"`
}

type SlabTable []Slab

func bounded(upTo int64, rate string) Slab {
	u := decimal.NewFromInt(upTo)
	return Slab{UpTo: &u, Rate: decimal.RequireFromString(rate)}
}

func open(rate string) Slab {
	return Slab{Rate: decimal.RequireFromString(rate)}
}

// OldRegimeSlabs returns the pre-rebate slabs for the deduction-based regime.
func OldRegimeSlabs() SlabTable {
	return SlabTable{
		bounded(250_000, "0"),
		bounded(500_000, "0.05"),
		bounded(1_000_000, "0.20"),
		open("0.30"),
	}
}

// NewRegimeSlabs returns the pre-rebate slabs for the concessional regime.
func NewRegimeSlabs() SlabTable {
	return SlabTable{
		bounded(300_000, "0"),
		bounded(600_000, "0.05"),
		bounded(900_000, "0.10"),
		bounded(1_200_000, "0.15"),
		bounded(1_500_000, "0.20"),
		open("0.30"),
	}
}

// Validate checks that bounds strictly increase, rates lie in [0, 1]
// and only the last slab is open-ended.
func (t SlabTable) Validate() error {
	if len(t) == 0 {
		return fmt.Errorf("%w: no slabs", ErrInvalidSlabTable)
	}
	prev := decimal.Zero
	for i, s := range t {
		if s.Rate.IsNegative() || s.Rate.GreaterThan(decimal.NewFromInt(1)) {
			return fmt.Errorf("%w: slab %d rate %s outside [0, 1]", ErrInvalidSlabTable, i, s.Rate)
		}
		last := i == len(t)-1
		if s.UpTo == nil {
			if !last {
				return fmt.Errorf("%w: slab %d is open-ended but not last", ErrInvalidSlabTable, i)
			}
			continue
		}
		if last {
			return fmt.Errorf("%w: last slab must be open-ended", ErrInvalidSlabTable)
		}
		if !s.UpTo.GreaterThan(prev) {
			return fmt.Errorf("%w: slab %d bound %s does not exceed %s", ErrInvalidSlabTable, i, s.UpTo, prev)
		}
		prev = *s.UpTo
	}
	return nil
}

// String renders the table as "250000@0,500000@0.05,...,@0.3".
func (t SlabTable) String() string {
	parts := make([]string, len(t))
	for i, s := range t {
		bound := ""
		if s.UpTo != nil {
			bound = s.UpTo.String()
		}
		parts[i] = bound + "@" + s.Rate.String()
	}
	return strings.Join(parts, ",")
}

// Tax applies each slab's rate only to the part of income inside that slab.
func (t SlabTable) Tax(income decimal.Decimal) (decimal.Decimal, error) {
	if income.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: income %s is negative", domain.ErrInvalidArgument, income)
	}

	tax := decimal.Zero
	lower := decimal.Zero
	for _, s := range t {
		if !income.GreaterThan(lower) {
			break
		}
		upper := income
		if s.UpTo != nil {
			upper = decimal.Min(income, *s.UpTo)
		}
		tax = tax.Add(upper.Sub(lower).Mul(s.Rate))
		if s.UpTo == nil {
			break
		}
		lower = *s.UpTo
	}
	return tax, nil
}

// Regime computes base tax from the table and adds 4% cess rounded to paise.
func (t SlabTable) Regime(income decimal.Decimal) (domain.RegimeResult, error) {
	base, err := t.Tax(income)
	if err != nil {
		return domain.RegimeResult{}, err
	}
	cess := base.Mul(CessRate).Round(2)
	return domain.RegimeResult{
		BaseTax:  base,
		Cess:     cess,
		TotalTax: base.Add(cess),
	}, nil
}

// CalculateOldRegimeTax expects taxable income already reduced by deductions
// and clamped to zero by the caller.
func CalculateOldRegimeTax(taxableIncome decimal.Decimal) (domain.RegimeResult, error) {
	return OldRegimeSlabs().Regime(taxableIncome)
}

// CalculateNewRegimeTax taxes gross income; no deductions apply.
func CalculateNewRegimeTax(income decimal.Decimal) (domain.RegimeResult, error) {
	return NewRegimeSlabs().Regime(income)
}

// GetBetterRegime picks the lower total tax. Equal totals go to the old regime
// so the answer never depends on argument order.
func GetBetterRegime(oldResult, newResult domain.RegimeResult) domain.Recommendation {
	savings := oldResult.TotalTax.Sub(newResult.TotalTax).Abs()
	if newResult.TotalTax.LessThan(oldResult.TotalTax) {
		return domain.Recommendation{Regime: domain.NewRegime, Savings: savings}
	}
	return domain.Recommendation{Regime: domain.OldRegime, Savings: savings}
}
