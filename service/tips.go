package service

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"taxbot/domain"
)

type tipRule struct {
	name    string
	applies func(in domain.TaxInput) bool
	message func(in domain.TaxInput) string
}

func fixed(msg string) func(domain.TaxInput) string {
	return func(domain.TaxInput) string { return msg }
}

func always(domain.TaxInput) bool { return true }

func headroom(limit, used decimal.Decimal) string {
	return domain.FormatRupees(limit.Sub(used))
}

// taxSavingRules is evaluated top to bottom; each rule adds at most one tip.
// HRA is not consulted.
func taxSavingRules() []tipRule {
	return []tipRule{
		{
			name:    "80c-headroom",
			applies: func(in domain.TaxInput) bool { return in.Investments.LessThan(Section80CLimit) },
			message: func(in domain.TaxInput) string {
				return fmt.Sprintf("Invest %s more in Section 80C instruments (PPF, ELSS, NSC, tax-saving FD, life insurance) to use the full %s limit.",
					headroom(Section80CLimit, in.Investments), domain.FormatRupees(Section80CLimit))
			},
		},
		{
			name:    "80d-missing",
			applies: func(in domain.TaxInput) bool { return in.HealthInsurance.IsZero() },
			message: fixed(fmt.Sprintf("Buy a health insurance policy for yourself and your family; premiums up to %s are deductible under Section 80D.",
				domain.FormatRupees(Section80DLimit))),
		},
		{
			name: "80d-headroom",
			applies: func(in domain.TaxInput) bool {
				return in.HealthInsurance.IsPositive() && in.HealthInsurance.LessThan(Section80DLimit)
			},
			message: func(in domain.TaxInput) string {
				return fmt.Sprintf("You can claim %s more under Section 80D by raising your health cover or adding a policy for your parents.",
					headroom(Section80DLimit, in.HealthInsurance))
			},
		},
		{
			name:    "24b-missing",
			applies: func(in domain.TaxInput) bool { return in.HomeLoan.IsZero() },
			message: fixed(fmt.Sprintf("If you plan to buy a home, interest on a home loan up to %s a year is deductible under Section 24(b).",
				domain.FormatRupees(Section24bLimit))),
		},
		{
			name: "24b-headroom",
			applies: func(in domain.TaxInput) bool {
				return in.HomeLoan.IsPositive() && in.HomeLoan.LessThan(Section24bLimit)
			},
			message: func(in domain.TaxInput) string {
				return fmt.Sprintf("Your home loan interest leaves %s of the Section 24(b) limit unused.",
					headroom(Section24bLimit, in.HomeLoan))
			},
		},
		{
			name:    "80e-missing",
			applies: func(in domain.TaxInput) bool { return in.EduLoan.IsZero() },
			message: fixed("Interest on an education loan for higher studies is fully deductible under Section 80E for up to 8 years."),
		},
		{
			name:    "80e-claimed",
			applies: func(in domain.TaxInput) bool { return in.EduLoan.IsPositive() },
			message: func(in domain.TaxInput) string {
				return fmt.Sprintf("Keep your lender's interest certificate: the full %s of education loan interest is deductible under Section 80E.",
					domain.FormatRupees(in.EduLoan))
			},
		},
		{
			name:    "80ccd1b",
			applies: func(in domain.TaxInput) bool { return in.Income.GreaterThan(decimal.NewFromInt(500_000)) },
			message: fixed(fmt.Sprintf("Contribute up to %s to NPS for an extra deduction under Section 80CCD(1B), over and above the 80C limit.",
				domain.FormatRupees(Section80CCD1BLimit))),
		},
		{
			name:    "declare-regime",
			applies: always,
			message: fixed("Declare your chosen regime to your employer at the start of the year so that TDS matches your final liability."),
		},
		{
			name:    "keep-proofs",
			applies: always,
			message: fixed("Keep rent receipts and investment proofs ready well before the return filing deadline."),
		},
	}
}

func matchingRules(in domain.TaxInput) []tipRule {
	return lo.Filter(taxSavingRules(), func(r tipRule, _ int) bool {
		return r.applies(in)
	})
}

// GetTaxSavingTips returns the advice that applies to in, in rule order.
func GetTaxSavingTips(in domain.TaxInput) []string {
	return lo.Map(matchingRules(in), func(r tipRule, _ int) string {
		return r.message(in)
	})
}
