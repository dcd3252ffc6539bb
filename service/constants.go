package service

import "github.com/shopspring/decimal"

var (
	CessRate = decimal.RequireFromString("0.04")

	// Advisory statutory caps. They drive tips only and are never enforced.
	Section80CLimit     = decimal.NewFromInt(150_000) // PPF, ELSS, NSC, tax-saving FD, LIC
	Section80DLimit     = decimal.NewFromInt(25_000)  // health insurance, self & family
	Section24bLimit     = decimal.NewFromInt(200_000) // home loan interest, self-occupied
	Section80CCD1BLimit = decimal.NewFromInt(50_000)  // additional NPS contribution

	MaxAmount = decimal.NewFromInt(1_000_000_000_000) // 1 lakh crore

	maxAmountDigits = int64(len(MaxAmount.String()))
)

const (
	// AmountScale is the number of fractional digits money carries (paise).
	AmountScale = 2

	// minAmountExponent is the finest exponent inspected before an amount is
	// compared, so trailing zeros like 150000.000 are still accepted.
	minAmountExponent = -18
)
