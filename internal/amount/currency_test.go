package amount

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeCurrencyCode(t *testing.T) {
	tests := []struct {
		name string
		code string
		want string
	}{
		{"native", "XRP", "XRP"},
		{"iso", "USD", "USD"},
		{"iso lowercase", "eur", "EUR"},
		{"standard hex", "0000000000000000000000005553440000000000", "USD"},
		{"standard hex lowercase", "0000000000000000000000005553440000000000", "USD"},
		{"ascii hex", "534F4C4F00000000000000000000000000000000", "SOLO"},
		{"fake xrp", "0000000000000000000000005852500000000000", "FakeXRP"},
		{"opaque hex", "0158415500000000C1F76FF6ECB0BAC600000000", "0158..."},
		{"empty", "", UnknownCurrency},
		{"too long", "USDX", UnknownCurrency},
		{"odd hex", "0158415500000000C1F76FF6ECB0BAC60000000", UnknownCurrency},
		{"non hex", "ZZ58415500000000C1F76FF6ECB0BAC600000000", UnknownCurrency},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeCurrencyCode(tt.code))
		})
	}
}

func TestNormalizeCurrencyCodeIsTotal(t *testing.T) {
	inputs := []string{"\x00\x00\x00", "€€", "????????????????????????????????????????", "0000000000000000000000000000000000000000"}
	for _, in := range inputs {
		assert.NotPanics(t, func() {
			assert.NotEmpty(t, NormalizeCurrencyCode(in))
		})
	}
}

func TestCurrencyKey(t *testing.T) {
	key, err := CurrencyKey("usd")
	require.NoError(t, err)
	assert.Equal(t, "0000000000000000000000005553440000000000", key)

	key, err = CurrencyKey(NativeCurrency)
	require.NoError(t, err)
	assert.Equal(t, "0000000000000000000000000000000000000000", key)

	assert.True(t, SameCurrency("USD", "0000000000000000000000005553440000000000"))
	assert.False(t, SameCurrency("USD", "EUR"))
	assert.False(t, SameCurrency("USD", "nope"))
}

func TestCanonicalCurrencyRejects(t *testing.T) {
	for _, code := range []string{"XRP", "xrp", "0000000000000000000000000000000000000000", "US", ""} {
		_, err := CanonicalCurrency(code)
		assert.ErrorIs(t, err, ErrInvalidCurrency, code)
	}
}
