package amount

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testIssuer = "rf1BiGeXwwQoi8Z2ueFYTEXSwuJYfV2Jpn"

func TestToCanonicalRaw(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"integer", "100", "100"},
		{"leading zeros", "0010", "10"},
		{"fraction", "0.1", "0.1"},
		{"trailing zeros", "10.500000", "10.5"},
		{"max precision", "1.000001", "1.000001"},
		{"zero", "0", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToCanonical(Raw(tt.input), nil)
			require.NoError(t, err)
			assert.Equal(t, CurrencyAmount{Currency: NativeCurrency, Value: tt.want}, got)

			in, _ := decimal.NewFromString(tt.input)
			out, _ := decimal.NewFromString(got.Value)
			assert.True(t, in.Equal(out), "magnitude changed: %s -> %s", tt.input, got.Value)
		})
	}
}

func TestToCanonicalRawRejects(t *testing.T) {
	for _, input := range []string{"", "-1", "1e6", "1.0000001", "abc", "1.", ".5", "10 ", "100000000001", "NaN"} {
		t.Run(input, func(t *testing.T) {
			_, err := ToCanonical(Raw(input), nil)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidAmount))
		})
	}
}

func TestToCanonicalIssued(t *testing.T) {
	got, err := ToCanonical(CurrencyAmount{Currency: "usd", Issuer: testIssuer, Value: "1"}, nil)
	require.NoError(t, err)
	assert.Equal(t, CurrencyAmount{Currency: "USD", Issuer: testIssuer, Value: "1"}, got)

	hexCode := "0158415500000000c1f76ff6ecb0bac600000000"
	got, err = ToCanonical(CurrencyAmount{Currency: hexCode, Issuer: testIssuer, Value: "1.5e-3"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "0158415500000000C1F76FF6ECB0BAC600000000", got.Currency)
	assert.Equal(t, "1.5e-3", got.Value)
}

func TestToCanonicalMergesValueOnly(t *testing.T) {
	prev := &CurrencyAmount{Currency: "USD", Issuer: testIssuer, Value: "1"}

	got, err := ToCanonical(CurrencyAmount{Value: "2.5"}, prev)
	require.NoError(t, err)
	assert.Equal(t, CurrencyAmount{Currency: "USD", Issuer: testIssuer, Value: "2.5"}, got)
	assert.Equal(t, "1", prev.Value, "previous amount must not be mutated")

	native := &CurrencyAmount{Currency: NativeCurrency, Value: "1"}
	got, err = ToCanonical(CurrencyAmount{Value: "007"}, native)
	require.NoError(t, err)
	assert.Equal(t, Native("7"), got)
}

func TestToCanonicalIssuedRejects(t *testing.T) {
	tests := []struct {
		name  string
		input CurrencyAmount
	}{
		{"missing issuer", CurrencyAmount{Currency: "USD", Value: "1"}},
		{"bad issuer", CurrencyAmount{Currency: "USD", Issuer: "rNotAnAddress", Value: "1"}},
		{"negative", CurrencyAmount{Currency: "USD", Issuer: testIssuer, Value: "-1"}},
		{"garbage", CurrencyAmount{Currency: "USD", Issuer: testIssuer, Value: "1x"}},
		{"bad currency", CurrencyAmount{Currency: "US", Issuer: testIssuer, Value: "1"}},
		{"xrp with issuer", CurrencyAmount{Currency: "XRP", Issuer: testIssuer, Value: "1"}},
		{"too precise", CurrencyAmount{Currency: "USD", Issuer: testIssuer, Value: "1.2345678901234567"}},
		{"no currency", CurrencyAmount{Value: "1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ToCanonical(tt.input, nil)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidAmount))
		})
	}

	_, err := ToCanonical(nil, nil)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestDropsConversion(t *testing.T) {
	drops, err := ToDrops("100")
	require.NoError(t, err)
	assert.Equal(t, "100000000", drops)

	drops, err = ToDrops("0.000001")
	require.NoError(t, err)
	assert.Equal(t, "1", drops)

	xrp, err := FromDrops("100000000")
	require.NoError(t, err)
	assert.Equal(t, "100", xrp)

	xrp, err = FromDrops("1")
	require.NoError(t, err)
	assert.Equal(t, "0.000001", xrp)

	_, err = FromDrops("1.5")
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestDecimalArithmeticIsExact(t *testing.T) {
	a, err := ParseNative("0.1")
	require.NoError(t, err)
	b, err := ParseNative("0.2")
	require.NoError(t, err)
	assert.Equal(t, "0.3", a.Add(b).String())
}

func TestRoundUpToDrops(t *testing.T) {
	v := decimal.RequireFromString("20.00000001")
	assert.Equal(t, "20.000001", RoundUpToDrops(v).String())
	assert.Equal(t, "20", RoundUpToDrops(decimal.RequireFromString("20.00000000")).String())
}

func TestEqual(t *testing.T) {
	a := CurrencyAmount{Currency: "USD", Issuer: testIssuer, Value: "1.0"}
	b := CurrencyAmount{Currency: "0000000000000000000000005553440000000000", Issuer: testIssuer, Value: "1"}
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(Native("1")))
	assert.True(t, Native("1.50").Equal(Native("1.5")))
}
