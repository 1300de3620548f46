package scrapers

import (
	"strings"

	"github.com/shopspring/decimal"
)

var priceCleaner = strings.NewReplacer("€", "", "EUR", "", " ", "", " ", "")

// ParsePrice parses a locale-formatted price string. Spanish sites
// write "1.299,99" (dot thousands, comma decimal); APIs sometimes emit
// "1299.99" or "549,00". A missing or unparseable price yields an
// invalid NullDecimal, which callers map to "out of stock" rather than
// dropping the item.
func ParsePrice(raw string) decimal.NullDecimal {
	s := priceCleaner.Replace(strings.TrimSpace(raw))
	if s == "" {
		return decimal.NullDecimal{}
	}

	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")

	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastComma > lastDot {
			// "1.299,99": dots are thousands separators
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			// "1,299.99": commas are thousands separators
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		// "549,00": comma is the decimal separator
		s = strings.ReplaceAll(s, ",", ".")
	}

	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}
}
