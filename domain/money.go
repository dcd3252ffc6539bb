package domain

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// CurrencyPrefix is written before every amount instead of the rupee sign,
// which the core PDF fonts cannot encode.
const CurrencyPrefix = "Rs."

// FormatAmount renders v with thousands separators and two decimals. The
// digits come from the decimal itself so large amounts stay exact.
func FormatAmount(v decimal.Decimal) string {
	fixed := v.StringFixed(2)
	sign := ""
	if rest, ok := strings.CutPrefix(fixed, "-"); ok {
		sign, fixed = "-", rest
	}
	whole, frac, _ := strings.Cut(fixed, ".")
	return sign + groupThousands(whole) + "." + frac
}

func groupThousands(digits string) string {
	if n, err := strconv.ParseInt(digits, 10, 64); err == nil {
		return message.NewPrinter(language.English).Sprintf("%d", n)
	}

	var b strings.Builder
	head := len(digits) % 3
	if head == 0 {
		head = 3
	}
	b.WriteString(digits[:head])
	for i := head; i < len(digits); i += 3 {
		b.WriteByte(',')
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// FormatRupees renders v as "Rs. 1,234.50".
func FormatRupees(v decimal.Decimal) string {
	return CurrencyPrefix + " " + FormatAmount(v)
}

// Paise rounds v to two decimals and rebuilds it from its text form, so two
// equal amounts share one representation whether freshly computed or decoded.
func Paise(v decimal.Decimal) decimal.Decimal {
	return decimal.RequireFromString(v.StringFixed(2))
}
