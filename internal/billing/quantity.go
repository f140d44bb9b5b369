// Package billing turns bill lines into taxable values, tax amounts, and
// totals. It owns rounding (2 decimals, half up) and the per-line discount
// policy. Everything here is pure and tolerant of partially-filled rows:
// a row that cannot be computed yields zeros, never an error, because the
// calculator runs on every keystroke of a live form.
package billing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// quantitySeparators are accepted between tokens of a quantity expression.
// '×' is included so the normalized display form parses back to the same
// quantity when an edited bill is resubmitted.
var quantitySeparators = func(r rune) bool {
	return r == 'x' || r == 'X' || r == '*' || r == '×'
}

// ParseQuantity resolves a quantity expression such as "5x3x2" or "10*2"
// into the product of its tokens and a normalized display form ("5×3×2").
// Every token must parse as a positive number; anything else fails closed
// (ok=false) so the caller can fall back to Nos×Length×Height instead of
// silently producing a wrong quantity.
func ParseQuantity(expr string) (qty decimal.Decimal, display string, ok bool) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return decimal.Zero, "", false
	}

	tokens := strings.FieldsFunc(expr, quantitySeparators)
	if len(tokens) == 0 {
		return decimal.Zero, "", false
	}
	// FieldsFunc swallows empty tokens, so "5xx3" would sneak through as
	// two tokens; reject expressions with adjacent or dangling separators.
	if countSeparators(expr) != len(tokens)-1 {
		return decimal.Zero, "", false
	}

	product := decimal.NewFromInt(1)
	parts := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		n, err := decimal.NewFromString(tok)
		if err != nil || !n.IsPositive() {
			return decimal.Zero, "", false
		}
		product = product.Mul(n)
		parts = append(parts, n.String())
	}
	return product, strings.Join(parts, "×"), true
}

func countSeparators(expr string) int {
	count := 0
	for _, r := range expr {
		if quantitySeparators(r) {
			count++
		}
	}
	return count
}

// FallbackQuantity computes Nos×Length×Height. Unset (zero or negative)
// length and height count as 1 so a bare "Nos" row still yields its count;
// an unset Nos yields zero, matching the calculator's degrade-to-zero rule
// for incomplete rows.
func FallbackQuantity(nos, length, height decimal.Decimal) decimal.Decimal {
	if !nos.IsPositive() {
		return decimal.Zero
	}
	return nos.Mul(dimension(length)).Mul(dimension(height))
}

func dimension(d decimal.Decimal) decimal.Decimal {
	if d.IsPositive() {
		return d
	}
	return decimal.NewFromInt(1)
}

// ResolveQuantity applies the expression when present and valid, otherwise
// falls back to the dimensional product. The returned display is empty when
// the fallback was used.
func ResolveQuantity(expr string, nos, length, height decimal.Decimal) (qty decimal.Decimal, display string) {
	if expr != "" {
		if q, disp, ok := ParseQuantity(expr); ok {
			return q, disp
		}
	}
	return FallbackQuantity(nos, length, height), ""
}
