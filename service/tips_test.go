package service

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxbot/domain"
)

func ruleNames(in domain.TaxInput) []string {
	return lo.Map(matchingRules(in), func(r tipRule, _ int) string { return r.name })
}

func TestGetTaxSavingTips_NoInvestmentsNoInsurance(t *testing.T) {
	in := domain.TaxInput{Income: amount(1_000_000)}

	tips := GetTaxSavingTips(in)

	require.Len(t, tips, 7)
	assert.Equal(t, "Invest Rs. 150,000.00 more in Section 80C instruments (PPF, ELSS, NSC, tax-saving FD, life insurance) to use the full Rs. 150,000.00 limit.", tips[0])
	assert.Contains(t, tips[1], "Buy a health insurance policy")
	assert.Contains(t, tips[1], "Rs. 25,000.00")
	assert.Equal(t, []string{
		"80c-headroom", "80d-missing", "24b-missing", "80e-missing", "80ccd1b", "declare-regime", "keep-proofs",
	}, ruleNames(in))
}

func TestGetTaxSavingTips_StableOrder(t *testing.T) {
	in := domain.TaxInput{Income: amount(800_000), Investments: amount(40_000)}

	first := GetTaxSavingTips(in)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, GetTaxSavingTips(in))
	}
}

func TestGetTaxSavingTips_FullyUsedDeductions(t *testing.T) {
	in := domain.TaxInput{
		Income:          amount(1_000_000),
		Investments:     amount(150_000),
		HealthInsurance: amount(25_000),
		HomeLoan:        amount(200_000),
	}

	assert.Equal(t, []string{"80e-missing", "80ccd1b", "declare-regime", "keep-proofs"}, ruleNames(in))
}

func TestGetTaxSavingTips_PartialDeductions(t *testing.T) {
	in := domain.TaxInput{
		Income:          amount(400_000),
		Investments:     amount(100_000),
		HealthInsurance: amount(10_000),
		HomeLoan:        amount(50_000),
		EduLoan:         amount(30_000),
	}

	tips := GetTaxSavingTips(in)

	assert.Equal(t, []string{
		"80c-headroom", "80d-headroom", "24b-headroom", "80e-claimed", "declare-regime", "keep-proofs",
	}, ruleNames(in))
	assert.Contains(t, tips[0], "Invest Rs. 50,000.00 more")
	assert.Contains(t, tips[1], "Rs. 15,000.00 more under Section 80D")
	assert.Contains(t, tips[2], "Rs. 150,000.00 of the Section 24(b) limit")
	assert.Contains(t, tips[3], "Rs. 30,000.00 of education loan interest")
}

func TestGetTaxSavingTips_IgnoresHRA(t *testing.T) {
	base := domain.TaxInput{Income: amount(900_000)}
	withHRA := base
	withHRA.HRA = amount(120_000)

	assert.Equal(t, GetTaxSavingTips(base), GetTaxSavingTips(withHRA))
}
