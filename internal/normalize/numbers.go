package normalize

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

var errNegative = errors.New("negative value")

var maxCount = decimal.NewFromInt(math.MaxInt64)

var currencyReplacer = strings.NewReplacer(
	"$", "", "€", "", "£", "", "¥", "", "₴", "", "₽", "",
	"USD", "", "EUR", "", "GBP", "", "UAH", "",
	"usd", "", "eur", "", "gbp", "", "uah", "",
	" ", "", "\u00a0", "", "\u202f", "", "'", "", "_", "",
)

// ParseAmount converts a locale-formatted number ("$1,234.50", "1.234,50 €") into a decimal.
// The second result is true when the input was blank.
func ParseAmount(raw string, decimalComma bool) (decimal.Decimal, bool, error) {
	s := strings.TrimSpace(raw)
	if s == "" || strings.EqualFold(s, "nan") || strings.EqualFold(s, "null") {
		return decimal.Zero, true, nil
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}

	s = currencyReplacer.Replace(s)
	s = normalizeSeparators(s, decimalComma)
	if s == "" {
		return decimal.Zero, false, fmt.Errorf("no digits in %q", raw)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("parse number %q: %w", raw, err)
	}
	if negative {
		d = d.Neg()
	}
	return d, false, nil
}

// ParseNonNegative parses an additive metric; blanks are zero and negatives are rejected.
func ParseNonNegative(raw string, decimalComma bool) (decimal.Decimal, error) {
	d, _, err := ParseAmount(raw, decimalComma)
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: %s", errNegative, raw)
	}
	return d, nil
}

// ParseCount parses a non-negative whole number such as clicks.
func ParseCount(raw string, decimalComma bool) (int64, error) {
	d, err := ParseNonNegative(raw, decimalComma)
	if err != nil {
		return 0, err
	}
	if !d.Equal(d.Truncate(0)) {
		return 0, fmt.Errorf("count %q is not a whole number", raw)
	}
	if d.GreaterThan(maxCount) {
		return 0, fmt.Errorf("count %q overflows int64", raw)
	}
	return d.IntPart(), nil
}

// normalizeSeparators leaves at most one '.' as the decimal point. When both separators
// appear, the last one is the decimal separator regardless of decimalComma.
func normalizeSeparators(s string, decimalComma bool) string {
	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")

	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			return strings.Replace(strings.ReplaceAll(s, ".", ""), ",", ".", 1)
		}
		return strings.ReplaceAll(s, ",", "")
	case lastComma >= 0:
		if decimalComma {
			return strings.Replace(s, ",", ".", 1)
		}
		return strings.ReplaceAll(s, ",", "")
	case lastDot >= 0 && decimalComma && strings.Count(s, ".") > 1:
		return strings.ReplaceAll(s, ".", "")
	default:
		return s
	}
}
