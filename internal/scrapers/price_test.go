package scrapers

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		want  string
		valid bool
	}{
		{"plain", "549.99", "549.99", true},
		{"comma decimal", "549,99", "549.99", true},
		{"euro suffix", "549,99 €", "549.99", true},
		{"euro prefix", "€1.299,00", "1299", true},
		{"eur word", "19.90 EUR", "19.9", true},
		{"dot thousands comma decimal", "1.299,99", "1299.99", true},
		{"comma thousands dot decimal", "1,299.99", "1299.99", true},
		{"nbsp", "549,99 €", "549.99", true},
		{"integer", "42", "42", true},
		{"empty", "", "", false},
		{"garbage", "precio no disponible", "", false},
		{"negative", "-5,00", "", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ParsePrice(tc.raw)
			if got.Valid != tc.valid {
				t.Fatalf("ParsePrice(%q) valid = %v, want %v", tc.raw, got.Valid, tc.valid)
			}
			if !tc.valid {
				return
			}
			want, err := decimal.NewFromString(tc.want)
			if err != nil {
				t.Fatalf("bad test value %q: %v", tc.want, err)
			}
			if !got.Decimal.Equal(want) {
				t.Fatalf("ParsePrice(%q) = %s, want %s", tc.raw, got.Decimal, want)
			}
		})
	}
}
