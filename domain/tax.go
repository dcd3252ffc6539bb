package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrInvalidArgument is returned for amounts the engine refuses to compute with.
var ErrInvalidArgument = errors.New("invalid argument")

type Regime string

const (
	OldRegime Regime = "Old Regime"
	NewRegime Regime = "New Regime"
)

// TaxInput holds the six amounts a taxpayer enters. Deductions are summed as-is;
// statutory caps are advisory and never applied here.
type TaxInput struct {
	Income          decimal.Decimal `json:"income"`
	Investments     decimal.Decimal `json:"investments"`
	HealthInsurance decimal.Decimal `json:"health_insurance"`
	HomeLoan        decimal.Decimal `json:"home_loan"`
	EduLoan         decimal.Decimal `json:"edu_loan"`
	HRA             decimal.Decimal `json:"hra"`
}

// Deductions returns the five deduction amounts in display order.
func (in TaxInput) Deductions() []decimal.Decimal {
	return []decimal.Decimal{in.Investments, in.HealthInsurance, in.HomeLoan, in.EduLoan, in.HRA}
}

func (in TaxInput) TotalDeductions() decimal.Decimal {
	return decimal.Sum(decimal.Zero, in.Deductions()...)
}

// OldRegimeTaxable is income less all deductions, floored at zero.
func (in TaxInput) OldRegimeTaxable() decimal.Decimal {
	return decimal.Max(decimal.Zero, in.Income.Sub(in.TotalDeductions()))
}

// NewRegimeTaxable is gross income; the new regime disallows these deductions.
func (in TaxInput) NewRegimeTaxable() decimal.Decimal {
	return in.Income
}

func (in TaxInput) Normalized() TaxInput {
	return TaxInput{
		Income:          Paise(in.Income),
		Investments:     Paise(in.Investments),
		HealthInsurance: Paise(in.HealthInsurance),
		HomeLoan:        Paise(in.HomeLoan),
		EduLoan:         Paise(in.EduLoan),
		HRA:             Paise(in.HRA),
	}
}

type RegimeResult struct {
	BaseTax  decimal.Decimal `json:"base_tax"`
	Cess     decimal.Decimal `json:"cess"`
	TotalTax decimal.Decimal `json:"total_tax"`
}

// Normalized rounds every amount to paise. Cess is already whole paise, so
// the total still equals base plus cess.
func (r RegimeResult) Normalized() RegimeResult {
	return RegimeResult{BaseTax: Paise(r.BaseTax), Cess: Paise(r.Cess), TotalTax: Paise(r.TotalTax)}
}

type Recommendation struct {
	Regime  Regime          `json:"regime"`
	Savings decimal.Decimal `json:"savings"`
}

// TaxComparison is everything one calculation produces.
type TaxComparison struct {
	Input           TaxInput        `json:"input"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	OldTaxable      decimal.Decimal `json:"old_regime_taxable"`
	NewTaxable      decimal.Decimal `json:"new_regime_taxable"`
	Old             RegimeResult    `json:"old_regime"`
	New             RegimeResult    `json:"new_regime"`
	Recommendation  Recommendation  `json:"recommendation"`
	Tips            []string        `json:"tips"`
}

// Normalized puts every amount in c on the two-decimal scale. A comparison
// decoded from JSON and the one it was encoded from are equal once both are
// normalized.
func (c TaxComparison) Normalized() TaxComparison {
	c.Input = c.Input.Normalized()
	c.TotalDeductions = Paise(c.TotalDeductions)
	c.OldTaxable = Paise(c.OldTaxable)
	c.NewTaxable = Paise(c.NewTaxable)
	c.Old = c.Old.Normalized()
	c.New = c.New.Normalized()
	c.Recommendation.Savings = Paise(c.Recommendation.Savings)
	return c
}
