package fields

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// Fixed hex widths used by transaction fields.
const (
	Hash128Len = 32
	Hash256Len = 64
)

// Hash256 validates a 256-bit identifier such as an InvoiceID or CheckID.
func Hash256(s string) (string, error) {
	return fixedHex(s, Hash256Len)
}

// Hash128 validates a 128-bit identifier such as an EmailHash.
func Hash128(s string) (string, error) {
	return fixedHex(s, Hash128Len)
}

// Blob validates a variable-length hex blob.
func Blob(s string) (string, error) {
	return fixedHex(s, 0)
}

// fixedHex checks that s is even-length hex of the given width (any width when
// width is 0) and returns it uppercased.
func fixedHex(s string, width int) (string, error) {
	if len(s)%2 != 0 {
		return "", fmt.Errorf("%w: odd length %d", ErrInvalidHex, len(s))
	}
	if width > 0 && len(s) != width {
		return "", fmt.Errorf("%w: expected %d hex digits, got %d", ErrInvalidHex, width, len(s))
	}
	if _, err := hex.DecodeString(s); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidHex, err)
	}
	return strings.ToUpper(s), nil
}
