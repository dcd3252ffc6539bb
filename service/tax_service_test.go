package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxbot/domain"
	"taxbot/repository"
)

type failingCache struct {
	getCalls int
	setCalls int
}

func (f *failingCache) Get(context.Context, string) (string, bool, error) {
	f.getCalls++
	return "", false, errors.New("cache down")
}

func (f *failingCache) Set(context.Context, string, string) error {
	f.setCalls++
	return errors.New("cache down")
}

func exampleInput() domain.TaxInput {
	return domain.TaxInput{
		Income:          amount(1_000_000),
		Investments:     amount(150_000),
		HealthInsurance: amount(25_000),
		HomeLoan:        amount(200_000),
	}
}

func TestCompare_ExampleScenario(t *testing.T) {
	svc, err := NewTaxService(nil)
	require.NoError(t, err)

	cmp, err := svc.Compare(context.Background(), exampleInput())
	require.NoError(t, err)

	assertAmount(t, "375000.00", cmp.TotalDeductions)
	assertAmount(t, "625000.00", cmp.OldTaxable)
	assertAmount(t, "1000000.00", cmp.NewTaxable)
	assertAmount(t, "39000.00", cmp.Old.TotalTax)
	assertAmount(t, "62400.00", cmp.New.TotalTax)
	assert.Equal(t, domain.OldRegime, cmp.Recommendation.Regime)
	assertAmount(t, "23400.00", cmp.Recommendation.Savings)
	assert.Len(t, cmp.Tips, 4)
}

func TestCompare_ZeroIncome(t *testing.T) {
	svc, err := NewTaxService(nil)
	require.NoError(t, err)

	cmp, err := svc.Compare(context.Background(), domain.TaxInput{})
	require.NoError(t, err)

	for _, r := range []domain.RegimeResult{cmp.Old, cmp.New} {
		assert.True(t, r.BaseTax.IsZero())
		assert.True(t, r.Cess.IsZero())
		assert.True(t, r.TotalTax.IsZero())
	}
	assert.Equal(t, domain.OldRegime, cmp.Recommendation.Regime)
}

func TestCompare_HighIncomeFavoursNewRegime(t *testing.T) {
	svc, err := NewTaxService(nil)
	require.NoError(t, err)

	cmp, err := svc.Compare(context.Background(), domain.TaxInput{Income: amount(2_000_000)})
	require.NoError(t, err)

	assert.Equal(t, domain.NewRegime, cmp.Recommendation.Regime)
	assert.True(t, cmp.Recommendation.Savings.Equal(cmp.Old.TotalTax.Sub(cmp.New.TotalTax)))
}

func TestCompare_RejectsNegativeAmounts(t *testing.T) {
	svc, err := NewTaxService(nil)
	require.NoError(t, err)

	in := exampleInput()
	in.EduLoan = amount(-10)

	_, err = svc.Compare(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	assert.Contains(t, err.Error(), "edu_loan")
}

func TestCompare_RejectsHugeAmounts(t *testing.T) {
	svc, err := NewTaxService(nil)
	require.NoError(t, err)

	_, err = svc.Compare(context.Background(), domain.TaxInput{Income: MaxAmount.Add(amount(1))})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestCompare_UsesCache(t *testing.T) {
	cache := repository.NewMemoryCache(0)
	svc, err := NewTaxService(cache)
	require.NoError(t, err)

	first, err := svc.Compare(context.Background(), exampleInput())
	require.NoError(t, err)
	assert.Equal(t, 1, cache.Len())

	second, err := svc.Compare(context.Background(), exampleInput())
	require.NoError(t, err)
	assert.Equal(t, 1, cache.Len())

	assert.Equal(t, first.Old, second.Old)
	assert.Equal(t, first.New, second.New)
	assert.Equal(t, first, second)
}

func TestCompare_CachedResultMatchesFresh(t *testing.T) {
	cache := repository.NewMemoryCache(0)
	cached, err := NewTaxService(cache)
	require.NoError(t, err)
	uncached, err := NewTaxService(nil)
	require.NoError(t, err)

	inputs := []domain.TaxInput{
		exampleInput(),
		{},
		{Income: amount(100_000), Investments: amount(150_000)},
		{Income: decimal.RequireFromString("300001.50"), HRA: decimal.RequireFromString("1250.000")},
		{Income: decimal.New(12, 5)},
	}
	for _, in := range inputs {
		fresh, err := uncached.Compare(context.Background(), in)
		require.NoError(t, err)
		_, err = cached.Compare(context.Background(), in)
		require.NoError(t, err)
		hit, err := cached.Compare(context.Background(), in)
		require.NoError(t, err)

		assert.Equal(t, fresh, hit, in.Income.String())
		assert.Equal(t, int32(-2), hit.Old.BaseTax.Exponent())
		assert.Equal(t, int32(-2), hit.Input.Income.Exponent())
	}
}

func TestCompare_SavingsMatchDisplayedTotals(t *testing.T) {
	svc, err := NewTaxService(nil)
	require.NoError(t, err)

	cmp, err := svc.Compare(context.Background(), domain.TaxInput{Income: decimal.RequireFromString("1234567.89")})
	require.NoError(t, err)

	assert.True(t, cmp.Recommendation.Savings.Equal(cmp.Old.TotalTax.Sub(cmp.New.TotalTax).Abs()))
	assert.True(t, cmp.Old.TotalTax.Equal(cmp.Old.BaseTax.Add(cmp.Old.Cess)))
	assert.True(t, cmp.New.TotalTax.Equal(cmp.New.BaseTax.Add(cmp.New.Cess)))
}

func TestValidateInput_ExponentBounds(t *testing.T) {
	rejected := map[string]decimal.Decimal{
		"tiny exponent":     decimal.New(1, -3_000_000),
		"huge exponent":     decimal.New(1, 3_000_000),
		"negative huge":     decimal.New(-1, 3_000_000),
		"zero tiny":         decimal.New(0, -3_000_000),
		"sub paisa":         decimal.RequireFromString("100.001"),
		"just over maximum": decimal.New(11, 11),
		"too many digits":   decimal.New(1, 13),
	}
	for name, v := range rejected {
		start := time.Now()
		err := ValidateInput(domain.TaxInput{Income: v})
		assert.ErrorIs(t, err, domain.ErrInvalidArgument, name)
		assert.Less(t, time.Since(start), 100*time.Millisecond, name)
	}

	accepted := map[string]decimal.Decimal{
		"trailing zeros":  decimal.RequireFromString("150000.000"),
		"paise":           decimal.RequireFromString("150000.25"),
		"positive exp":    decimal.New(15, 5),
		"maximum":         MaxAmount,
		"maximum via exp": decimal.New(1, 12),
	}
	for name, v := range accepted {
		assert.NoError(t, ValidateInput(domain.TaxInput{Income: v}), name)
	}
}

func TestCompare_CacheFailureIsNotFatal(t *testing.T) {
	cache := &failingCache{}
	svc, err := NewTaxService(cache)
	require.NoError(t, err)

	cmp, err := svc.Compare(context.Background(), exampleInput())
	require.NoError(t, err)
	assertAmount(t, "39000.00", cmp.Old.TotalTax)
	assert.Equal(t, 1, cache.getCalls)
	assert.Equal(t, 1, cache.setCalls)
}

func TestCompare_CustomSlabs(t *testing.T) {
	flat := SlabTable{bounded(100_000, "0"), open("0.10")}
	svc, err := NewTaxService(nil, WithSlabs(nil, flat))
	require.NoError(t, err)

	cmp, err := svc.Compare(context.Background(), domain.TaxInput{Income: amount(600_000)})
	require.NoError(t, err)

	assertAmount(t, "50000.00", cmp.New.BaseTax)
	assertAmount(t, "2000.00", cmp.New.Cess)
	assertAmount(t, "33800.00", cmp.Old.TotalTax)
}

func TestCompare_CacheKeyDependsOnSlabs(t *testing.T) {
	defaults, err := NewTaxService(nil)
	require.NoError(t, err)
	custom, err := NewTaxService(nil, WithSlabs(nil, SlabTable{open("0.10")}))
	require.NoError(t, err)

	assert.NotEqual(t, defaults.cacheKey(exampleInput()), custom.cacheKey(exampleInput()))
	assert.Equal(t, defaults.cacheKey(exampleInput()), defaults.cacheKey(exampleInput()))
}

func TestNewTaxService_InvalidSlabs(t *testing.T) {
	_, err := NewTaxService(nil, WithSlabs(SlabTable{bounded(10, "0")}, nil))
	assert.ErrorIs(t, err, ErrInvalidSlabTable)
}
