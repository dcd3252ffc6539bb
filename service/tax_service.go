package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"taxbot/domain"
	"taxbot/repository"
)

var log = logrus.WithField("module", "service")

type TaxService struct {
	oldSlabs SlabTable
	newSlabs SlabTable
	cache    repository.CacheRepository
}

type Option func(*TaxService)

// WithSlabs replaces the default slab tables. Nil tables keep the defaults.
func WithSlabs(oldSlabs, newSlabs SlabTable) Option {
	return func(s *TaxService) {
		if oldSlabs != nil {
			s.oldSlabs = oldSlabs
		}
		if newSlabs != nil {
			s.newSlabs = newSlabs
		}
	}
}

// NewTaxService creates a TaxService. cache may be nil to disable caching.
func NewTaxService(cache repository.CacheRepository, opts ...Option) (*TaxService, error) {
	s := &TaxService{
		oldSlabs: OldRegimeSlabs(),
		newSlabs: NewRegimeSlabs(),
		cache:    cache,
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.oldSlabs.Validate(); err != nil {
		return nil, fmt.Errorf("old regime: %w", err)
	}
	if err := s.newSlabs.Validate(); err != nil {
		return nil, fmt.Errorf("new regime: %w", err)
	}
	return s, nil
}

// ValidateInput rejects negative or absurdly large amounts and amounts finer
// than a paisa.
func ValidateInput(in domain.TaxInput) error {
	fields := []struct {
		name  string
		value decimal.Decimal
	}{
		{"income", in.Income},
		{"investments", in.Investments},
		{"health_insurance", in.HealthInsurance},
		{"home_loan", in.HomeLoan},
		{"edu_loan", in.EduLoan},
		{"hra", in.HRA},
	}
	for _, f := range fields {
		if err := validateAmount(f.name, f.value); err != nil {
			return err
		}
	}
	return nil
}

// validateAmount checks the exponent before any comparison: comparing
// decimals rescales them, which costs time and memory linear in the exponent.
func validateAmount(name string, v decimal.Decimal) error {
	exp := int64(v.Exponent())
	if exp > 0 && int64(v.NumDigits())+exp > maxAmountDigits {
		return fmt.Errorf("%w: %s exceeds %s", domain.ErrInvalidArgument, name, domain.FormatRupees(MaxAmount))
	}
	if exp < minAmountExponent || (exp < -AmountScale && !v.Equal(v.Truncate(AmountScale))) {
		return fmt.Errorf("%w: %s has more than %d decimal places", domain.ErrInvalidArgument, name, AmountScale)
	}
	if v.IsNegative() {
		return fmt.Errorf("%w: %s must not be negative", domain.ErrInvalidArgument, name)
	}
	if v.GreaterThan(MaxAmount) {
		return fmt.Errorf("%w: %s exceeds %s", domain.ErrInvalidArgument, name, domain.FormatRupees(MaxAmount))
	}
	return nil
}

// Compare runs both regimes over in and recommends the cheaper one. Every
// amount in the result is normalized to paise, whether computed or cached.
func (s *TaxService) Compare(ctx context.Context, in domain.TaxInput) (domain.TaxComparison, error) {
	if err := ValidateInput(in); err != nil {
		return domain.TaxComparison{}, err
	}

	key := s.cacheKey(in)
	if cached, ok := s.lookup(ctx, key); ok {
		return cached, nil
	}

	oldTaxable := in.OldRegimeTaxable()
	newTaxable := in.NewRegimeTaxable()

	oldResult, err := s.oldSlabs.Regime(oldTaxable)
	if err != nil {
		return domain.TaxComparison{}, fmt.Errorf("old regime: %w", err)
	}
	newResult, err := s.newSlabs.Regime(newTaxable)
	if err != nil {
		return domain.TaxComparison{}, fmt.Errorf("new regime: %w", err)
	}
	// Savings are taken from the totals as displayed, in whole paise.
	oldResult, newResult = oldResult.Normalized(), newResult.Normalized()

	rules := matchingRules(in)
	tips := make([]string, 0, len(rules))
	names := make([]string, 0, len(rules))
	for _, r := range rules {
		tips = append(tips, r.message(in))
		names = append(names, r.name)
	}

	cmp := domain.TaxComparison{
		Input:           in,
		TotalDeductions: in.TotalDeductions(),
		OldTaxable:      oldTaxable,
		NewTaxable:      newTaxable,
		Old:             oldResult,
		New:             newResult,
		Recommendation:  GetBetterRegime(oldResult, newResult),
		Tips:            tips,
	}.Normalized()

	log.WithFields(logrus.Fields{
		"regime":  cmp.Recommendation.Regime,
		"savings": cmp.Recommendation.Savings.StringFixed(2),
		"tips":    strings.Join(names, ","),
	}).Debug("tax comparison computed")

	s.store(ctx, key, cmp)
	return cmp, nil
}

func (s *TaxService) lookup(ctx context.Context, key string) (domain.TaxComparison, bool) {
	if s.cache == nil {
		return domain.TaxComparison{}, false
	}
	raw, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		log.Warnf("cache get failed: %v", err)
		return domain.TaxComparison{}, false
	}
	if !ok {
		return domain.TaxComparison{}, false
	}
	var cmp domain.TaxComparison
	if err := json.Unmarshal([]byte(raw), &cmp); err != nil {
		log.Warnf("discarding unreadable cache entry %s: %v", key, err)
		return domain.TaxComparison{}, false
	}
	return cmp.Normalized(), true
}

func (s *TaxService) store(ctx context.Context, key string, cmp domain.TaxComparison) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(cmp)
	if err != nil {
		log.Warnf("cache encode failed: %v", err)
		return
	}
	if err := s.cache.Set(ctx, key, string(raw)); err != nil {
		log.Warnf("cache set failed: %v", err)
	}
}

// cacheKey digests every input amount together with both slab tables, so
// services configured with different tables never share entries.
func (s *TaxService) cacheKey(in domain.TaxInput) string {
	d := xxhash.New()
	for _, v := range append([]decimal.Decimal{in.Income}, in.Deductions()...) {
		d.WriteString(v.String())
		d.WriteString("|")
	}
	for _, t := range []SlabTable{s.oldSlabs, s.newSlabs} {
		d.WriteString(t.String())
		d.WriteString("|")
	}
	return fmt.Sprintf("%016x", d.Sum64())
}
