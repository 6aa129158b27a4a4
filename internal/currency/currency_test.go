package currency

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want float64
	}{
		{"thousands and decimals", "1.234.567,89", 1234567.89},
		{"decimals only", "500,50", 500.5},
		{"thousands only", "2.000", 2000},
		{"integer", "42", 42},
		{"negative", "-1.000,25", -1000.25},
		{"leading comma", ",5", 0.5},
		{"trailing comma", "7,", 7},
		{"surrounding spaces", "  10,00 ", 10},
		{"empty", "", 0},
		{"garbage", "abc", 0},
		{"currency prefix", "R$ 10,00", 0},
		{"two commas", "1,2,3", 0},
		{"exponent", "1e5", 0},
		{"only separators", ".,", 0},
		{"beyond float64", "1" + strings.Repeat("0", 400), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Parse(tt.in), 1e-9)
		})
	}
}

func TestParseValue_Nil(t *testing.T) {
	assert.Equal(t, float64(0), ParseValue(nil))

	v := "3,25"
	assert.Equal(t, 3.25, ParseValue(&v))
}

func TestAmount_MatchesParse(t *testing.T) {
	inputs := []string{"1.234.567,89", "500,50", "", "x", "7,", ",5", "-2,10", "0,01", "1" + strings.Repeat("0", 400), "-" + strings.Repeat("9", 310)}
	for _, in := range inputs {
		in := in
		got := Amount(&in)
		assert.InDelta(t, Parse(in), got.InexactFloat64(), 1e-9, "input %q", in)
	}
	assert.True(t, Amount(nil).Equal(decimal.Zero))
}

func TestAmount_ExactSums(t *testing.T) {
	a, b := "0,10", "0,20"
	sum := Amount(&a).Add(Amount(&b))
	assert.True(t, sum.Equal(decimal.RequireFromString("0.3")))
	assert.Equal(t, 0.3, Float(sum))
}

func TestFloat_Saturates(t *testing.T) {
	huge := "1" + strings.Repeat("0", 308)
	d := Amount(&huge)
	require.False(t, d.IsZero())

	sum := d.Add(d)
	assert.Equal(t, math.MaxFloat64, Float(sum))
	assert.Equal(t, -math.MaxFloat64, Float(sum.Neg()))

	_, err := json.Marshal(Float(sum))
	assert.NoError(t, err)
}

func TestSQL(t *testing.T) {
	expr := SQL("valor_empenhado")

	assert.Contains(t, expr, "COALESCE(valor_empenhado, '0')")
	assert.Contains(t, expr, "::numeric")
	assert.Contains(t, expr, numberPattern)
	assert.Contains(t, expr, "<= "+maxAmount)
	assert.False(t, strings.Contains(expr, "?"), "expression must survive placeholder rebinding")
}
