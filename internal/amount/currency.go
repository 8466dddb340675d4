package amount

import (
	"encoding/hex"
	"errors"
	"strings"
)

const (
	// NativeCurrency is the code used for XRP, the ledger's base unit.
	NativeCurrency = "XRP"

	// UnknownCurrency is the display string for codes that cannot be rendered.
	UnknownCurrency = "Unknown"

	// currencyHexLen is the length of a 160-bit currency code in hex digits.
	currencyHexLen = 40
)

// ErrInvalidCurrency is returned when a currency code is neither a 3-character
// ISO-style code nor a 160-bit hex code.
var ErrInvalidCurrency = errors.New("invalid currency code")

// isoCurrencyChars are the characters rippled accepts in a 3-character code.
const isoCurrencyChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789?!@#$%^&*<>(){}[]|"

func isISOCode(code string) bool {
	if len(code) != 3 {
		return false
	}
	for i := 0; i < len(code); i++ {
		if !strings.ContainsRune(isoCurrencyChars, rune(code[i])) {
			return false
		}
	}
	return true
}

func isHexCode(code string) bool {
	if len(code) != currencyHexLen {
		return false
	}
	_, err := hex.DecodeString(code)
	return err == nil
}

// CanonicalCurrency returns the stored form of an issued currency code:
// ISO codes uppercased, hex codes uppercased. XRP is not an issued currency.
func CanonicalCurrency(code string) (string, error) {
	switch {
	case isISOCode(code):
		upper := strings.ToUpper(code)
		if upper == NativeCurrency {
			return "", ErrInvalidCurrency
		}
		return upper, nil
	case isHexCode(code):
		upper := strings.ToUpper(code)
		// The all-zero code is reserved for XRP.
		if strings.Trim(upper, "0") == "" {
			return "", ErrInvalidCurrency
		}
		return upper, nil
	default:
		return "", ErrInvalidCurrency
	}
}

// CurrencyKey returns the 40-hex form of a currency code, used for equality.
// ISO codes are expanded to the standard 160-bit layout (bytes 12-14).
func CurrencyKey(code string) (string, error) {
	if code == NativeCurrency {
		return strings.Repeat("0", currencyHexLen), nil
	}
	canonical, err := CanonicalCurrency(code)
	if err != nil {
		return "", err
	}
	if len(canonical) == currencyHexLen {
		return canonical, nil
	}
	var raw [20]byte
	copy(raw[12:15], canonical)
	return strings.ToUpper(hex.EncodeToString(raw[:])), nil
}

// SameCurrency reports whether two codes denote the same currency.
func SameCurrency(a, b string) bool {
	ka, err := CurrencyKey(a)
	if err != nil {
		return false
	}
	kb, err := CurrencyKey(b)
	if err != nil {
		return false
	}
	return ka == kb
}

// IsStandardHex reports whether a 40-hex code uses the standard layout, where only
// bytes 12 through 14 carry an ASCII code.
func IsStandardHex(code string) bool {
	raw, ok := decodeHexCode(code)
	if !ok {
		return false
	}
	for i, b := range raw {
		if i >= 12 && i < 15 {
			continue
		}
		if b != 0 {
			return false
		}
	}
	return raw[12] != 0
}

func decodeHexCode(code string) ([]byte, bool) {
	if len(code) != currencyHexLen {
		return nil, false
	}
	raw, err := hex.DecodeString(code)
	if err != nil {
		return nil, false
	}
	return raw, true
}

// NormalizeCurrencyCode renders a currency code for display. It never fails:
// malformed input is rendered as UnknownCurrency.
func NormalizeCurrencyCode(code string) string {
	if code == NativeCurrency {
		return code
	}
	if isISOCode(code) {
		return strings.ToUpper(code)
	}
	raw, ok := decodeHexCode(code)
	if !ok {
		return UnknownCurrency
	}
	var text string
	switch {
	case IsStandardHex(code):
		text = string(raw[12:15])
	case raw[0] != 0:
		// Non-standard codes: printable ASCII content is shown as text.
		text = strings.Trim(string(raw), "\x00")
	}
	if display, ok := displayText(text); ok {
		return display
	}
	return strings.ToUpper(code[:4]) + "..."
}

func displayText(text string) (string, bool) {
	if text == "" || !isPrintable(text) {
		return "", false
	}
	clean := strings.TrimSpace(strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(text))
	if clean == "" {
		return "", false
	}
	if strings.EqualFold(clean, NativeCurrency) {
		return "FakeXRP", true
	}
	return clean, true
}

func isPrintable(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\n' || c == '\r' {
			continue
		}
		if c < 0x20 || c > 0x7E {
			return false
		}
	}
	return true
}
