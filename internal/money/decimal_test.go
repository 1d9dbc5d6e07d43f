package money_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orbitpay/ledger/internal/money"
)

func TestNew(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{input: "0", want: "0.000000"},
		{input: "100.50", want: "100.500000"},
		{input: "-3.2", want: "-3.200000"},
		{input: " 42 ", want: "42.000000"},
		{input: "0.0000001", want: "0.000000"},
		{input: "abc", wantErr: true},
		{input: "1.2.3", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := money.New(tt.input)

			if tt.wantErr {
				require.ErrorIs(t, err, money.ErrMalformedNumber)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestAddExactness(t *testing.T) {
	// The classic binary-float failure: 0.1 + 0.2 must be exactly 0.3.
	a := money.MustNew("0.1")
	b := money.MustNew("0.2")

	sum := a.Add(b)

	assert.True(t, sum.Equal(money.MustNew("0.3")))
	assert.Equal(t, "0.300000", sum.String())
}

func TestRepeatedArithmeticConserves(t *testing.T) {
	total := money.Zero()
	step := money.MustNew("0.000001")

	for i := 0; i < 1000; i++ {
		total = total.Add(step)
	}

	assert.True(t, total.Equal(money.MustNew("0.001")))
}

func TestSubAndNeg(t *testing.T) {
	a := money.MustNew("100.5")
	b := money.MustNew("50.25")

	assert.Equal(t, "50.250000", a.Sub(b).String())
	assert.Equal(t, "-100.500000", a.Neg().String())
	assert.Equal(t, "100.500000", a.Neg().Abs().String())
}

func TestDiv(t *testing.T) {
	a := money.MustNew("10")

	t.Run("non-terminating quotient rounds half-up at scale", func(t *testing.T) {
		got, err := a.Div(money.MustNew("3"), 6)
		require.NoError(t, err)
		assert.Equal(t, "3.333333", got.String())
	})

	t.Run("explicit scale", func(t *testing.T) {
		got, err := a.Div(money.MustNew("4"), 1)
		require.NoError(t, err)
		assert.Equal(t, "2.5", got.Fixed(1))
	})

	t.Run("division by zero", func(t *testing.T) {
		_, err := a.Div(money.Zero(), 6)
		require.ErrorIs(t, err, money.ErrDivisionByZero)
	})
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		percent string
		scale   int32
		want    string
	}{
		{name: "ten percent", value: "1000", percent: "10", scale: 6, want: "100.000000"},
		{name: "fee rate", value: "250", percent: "2.5", scale: 6, want: "6.250000"},
		{name: "half-up at scale 2", value: "100.005", percent: "100", scale: 2, want: "100.01"},
		{name: "tiny amount", value: "0.000001", percent: "50", scale: 6, want: "0.000001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := money.MustNew(tt.value)
			got := v.Percentage(money.MustNew(tt.percent), tt.scale)
			assert.Equal(t, tt.want, got.Fixed(tt.scale))
		})
	}
}

func TestRoundHalfUp(t *testing.T) {
	assert.Equal(t, "100.01", money.MustNew("100.005").Round(2).Fixed(2))
	assert.Equal(t, "100.00", money.MustNew("100.004").Round(2).Fixed(2))
	assert.Equal(t, "1.000000", money.MustNew("0.9999995").Round(6).String())
}

func TestComparisons(t *testing.T) {
	small := money.MustNew("1.000001")
	big := money.MustNew("1.000002")

	assert.Equal(t, -1, small.Cmp(big))
	assert.True(t, small.LessThan(big))
	assert.True(t, big.GreaterThan(small))
	assert.True(t, small.LessThanOrEqual(small))
	assert.False(t, small.Equal(big))

	// Trailing zeros do not affect equality.
	assert.True(t, money.MustNew("1.50").Equal(money.MustNew("1.5")))
}

func TestSignQueries(t *testing.T) {
	assert.True(t, money.Zero().IsZero())
	assert.True(t, money.MustNew("0.000001").IsPositive())
	assert.True(t, money.MustNew("-0.000001").IsNegative())
	assert.False(t, money.Zero().IsPositive())
	assert.False(t, money.Zero().IsNegative())
}

func TestJSONRoundTrip(t *testing.T) {
	type payload struct {
		Amount money.Decimal `json:"amount"`
	}

	out, err := json.Marshal(payload{Amount: money.MustNew("100.5")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":"100.500000"}`, string(out))

	var in payload
	require.NoError(t, json.Unmarshal([]byte(`{"amount":"42.25"}`), &in))
	assert.True(t, in.Amount.Equal(money.MustNew("42.25")))

	// Bare numbers are accepted too.
	require.NoError(t, json.Unmarshal([]byte(`{"amount":7}`), &in))
	assert.True(t, in.Amount.Equal(money.FromInt(7)))

	var bad payload
	require.Error(t, json.Unmarshal([]byte(`{"amount":"not-a-number"}`), &bad))
}
