package payload

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatAmount renders an amount with exactly two decimal places.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// NormalizeAmount parses a decimal string and formats it like FormatAmount.
// Malformed input yields "".
func NormalizeAmount(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return ""
	}
	return FormatAmount(d)
}
