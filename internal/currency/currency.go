// Package currency normalizes Brazilian formatted amounts ("1.234.567,89").
//
// The same algorithm exists in two forms: a row-wise Go function and a
// PostgreSQL expression that can be pushed down into aggregations. Both must
// produce identical values for identical input.
package currency

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// numberPattern is shared by both forms. It avoids '?' so the SQL form
// survives sqlx.Rebind.
const numberPattern = `^-{0,1}([0-9]+\.{0,1}[0-9]*|\.[0-9]+)$`

var number = regexp.MustCompile(numberPattern)

// maxAmount is the largest magnitude both forms accept; larger values do not
// fit a float64 and normalize to 0.
const maxAmount = "1.7976931348623157e308"

// clean applies the textual transformation: thousands separators are
// dropped and the decimal comma becomes a dot.
func clean(raw string) string {
	s := strings.ReplaceAll(raw, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	return strings.Trim(s, " ")
}

// Parse converts raw to a float. Malformed input yields 0.
func Parse(raw string) float64 {
	s := clean(raw)
	if !number.MatchString(s) {
		return 0
	}
	val, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return val
}

// ParseValue is Parse for optional fields; nil is treated as "0".
func ParseValue(raw *string) float64 {
	if raw == nil {
		return 0
	}
	return Parse(*raw)
}

// Amount is the exact form used when summing many values.
func Amount(raw *string) decimal.Decimal {
	if raw == nil {
		return decimal.Zero
	}
	s := clean(*raw)
	if !number.MatchString(s) {
		return decimal.Zero
	}
	if _, err := strconv.ParseFloat(s, 64); err != nil {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// SQL returns the push-down form of the normalizer for a text column. The
// result is a numeric expression suitable for SUM and ORDER BY.
func SQL(column string) string {
	cleaned := fmt.Sprintf(`BTRIM(REPLACE(REPLACE(COALESCE(%s, '0'), '.', ''), ',', '.'), ' ')`, column)
	return fmt.Sprintf(
		`(CASE WHEN %[1]s ~ '%[2]s' THEN (CASE WHEN ABS((%[1]s)::numeric) <= %[3]s THEN (%[1]s)::numeric ELSE 0 END) ELSE 0 END)`,
		cleaned, numberPattern, maxAmount)
}

// Float converts an exact sum to the float emitted in responses. Sums past
// the float64 range saturate at ±math.MaxFloat64.
func Float(d decimal.Decimal) float64 {
	f := d.InexactFloat64()
	switch {
	case math.IsInf(f, 1):
		return math.MaxFloat64
	case math.IsInf(f, -1):
		return -math.MaxFloat64
	}
	return f
}
