// Package fields holds the normalizers for recurring transaction field shapes:
// accounts, destinations with tags, ripple-epoch timestamps and hex identifiers.
//
// Every normalizer is pure and rejects out-of-domain input instead of coercing it.
package fields

import (
	"errors"
	"fmt"

	addresscodec "github.com/Peersyst/xrpl-go/address-codec"
)

// Normalization errors
var (
	ErrInvalidHex         = errors.New("invalid hex")
	ErrInvalidDestination = errors.New("invalid destination")
	ErrInvalidAccount     = errors.New("invalid account")
	ErrInvalidTimestamp   = errors.New("invalid timestamp")
)

// Account validates a classic address.
func Account(address string) (string, error) {
	if address == "" {
		return "", fmt.Errorf("%w: empty address", ErrInvalidAccount)
	}
	if !addresscodec.IsValidClassicAddress(address) {
		return "", fmt.Errorf("%w: %q", ErrInvalidAccount, address)
	}
	return address, nil
}
