// Package amount models ledger values: XRP amounts and issued currency amounts,
// their canonical string forms, and the conversion from loose user input.
package amount

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	addresscodec "github.com/Peersyst/xrpl-go/address-codec"
	"github.com/shopspring/decimal"
)

const (
	// NativeDecimals is the number of fractional digits an XRP value can carry.
	NativeDecimals = 6

	// MaxIssuedDigits is the number of significant digits an issued value can carry.
	MaxIssuedDigits = 16
)

var (
	// ErrInvalidAmount is returned for values that cannot be represented on the ledger.
	ErrInvalidAmount = errors.New("invalid amount")

	// DropsPerXRP is the number of drops in one XRP.
	DropsPerXRP = decimal.New(1, NativeDecimals)

	// MaxNative is the total XRP supply; no amount can exceed it.
	MaxNative = decimal.New(100_000_000_000, 0)

	plainDecimal  = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)
	issuedDecimal = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?([eE][-+]?[0-9]+)?$`)
	dropsPattern  = regexp.MustCompile(`^[0-9]+$`)
)

// CurrencyAmount is the canonical form of a ledger value. Native amounts carry
// NativeCurrency and no issuer; Value is expressed in XRP, not drops.
type CurrencyAmount struct {
	Currency string `json:"currency"`
	Issuer   string `json:"issuer,omitempty"`
	Value    string `json:"value"`
}

// Loose is the input accepted wherever a CurrencyAmount can be set.
// It is implemented by Raw and CurrencyAmount only.
type Loose interface {
	isLoose()
}

// Raw is a bare decimal string; it always denotes an XRP amount.
type Raw string

func (Raw) isLoose()            {}
func (CurrencyAmount) isLoose() {}

// Native builds an XRP amount without validation.
func Native(value string) CurrencyAmount {
	return CurrencyAmount{Currency: NativeCurrency, Value: value}
}

// IsNative reports whether the amount is denominated in XRP.
func (a CurrencyAmount) IsNative() bool {
	return a.Currency == NativeCurrency && a.Issuer == ""
}

// Decimal returns the value as an exact decimal.
func (a CurrencyAmount) Decimal() (decimal.Decimal, error) {
	d, err := decimal.NewFromString(a.Value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, a.Value)
	}
	return d, nil
}

// Equal compares two amounts by currency key, issuer and numeric value.
func (a CurrencyAmount) Equal(b CurrencyAmount) bool {
	if a.IsNative() != b.IsNative() || a.Issuer != b.Issuer {
		return false
	}
	if !a.IsNative() && !SameCurrency(a.Currency, b.Currency) {
		return false
	}
	da, errA := a.Decimal()
	db, errB := b.Decimal()
	return errA == nil && errB == nil && da.Equal(db)
}

// String renders the amount as "<value> <display code>".
func (a CurrencyAmount) String() string {
	return a.Value + " " + NormalizeCurrencyCode(a.Currency)
}

// Validate checks the invariants of a canonical amount.
func (a CurrencyAmount) Validate() error {
	if a.Currency == NativeCurrency {
		if a.Issuer != "" {
			return fmt.Errorf("%w: XRP amount cannot have an issuer", ErrInvalidAmount)
		}
		_, err := ParseNative(a.Value)
		return err
	}
	if _, err := CanonicalCurrency(a.Currency); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAmount, err)
	}
	if a.Issuer == "" {
		return fmt.Errorf("%w: issued amount requires an issuer", ErrInvalidAmount)
	}
	if !addresscodec.IsValidClassicAddress(a.Issuer) {
		return fmt.Errorf("%w: invalid issuer %q", ErrInvalidAmount, a.Issuer)
	}
	_, err := ParseIssued(a.Value)
	return err
}

// ParseNative validates an XRP value and returns it exactly.
func ParseNative(value string) (decimal.Decimal, error) {
	if !plainDecimal.MatchString(value) {
		return decimal.Zero, fmt.Errorf("%w: %q is not a plain decimal", ErrInvalidAmount, value)
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, value)
	}
	if !d.Equal(d.Truncate(NativeDecimals)) {
		return decimal.Zero, fmt.Errorf("%w: %q has more than %d decimals", ErrInvalidAmount, value, NativeDecimals)
	}
	if d.GreaterThan(MaxNative) {
		return decimal.Zero, fmt.Errorf("%w: %q exceeds the XRP supply", ErrInvalidAmount, value)
	}
	return d, nil
}

// ParseIssued validates an issued currency value and returns it exactly.
func ParseIssued(value string) (decimal.Decimal, error) {
	if !issuedDecimal.MatchString(value) {
		return decimal.Zero, fmt.Errorf("%w: %q is not a decimal", ErrInvalidAmount, value)
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, value)
	}
	if significantDigits(d) > MaxIssuedDigits {
		return decimal.Zero, fmt.Errorf("%w: %q has more than %d significant digits", ErrInvalidAmount, value, MaxIssuedDigits)
	}
	return d, nil
}

func significantDigits(d decimal.Decimal) int {
	if d.IsZero() {
		return 1
	}
	digits := strings.TrimLeft(d.Coefficient().String(), "-")
	return len(strings.TrimRight(digits, "0"))
}

// ToCanonical converts loose input into a validated CurrencyAmount. For a
// structured input that only carries a value, currency and issuer are taken
// from prev.
func ToCanonical(loose Loose, prev *CurrencyAmount) (CurrencyAmount, error) {
	switch v := loose.(type) {
	case Raw:
		d, err := ParseNative(string(v))
		if err != nil {
			return CurrencyAmount{}, err
		}
		return Native(d.String()), nil
	case CurrencyAmount:
		merged := v
		if merged.Currency == "" && prev != nil {
			merged.Currency = prev.Currency
			if merged.Issuer == "" {
				merged.Issuer = prev.Issuer
			}
		}
		if merged.Currency == "" {
			return CurrencyAmount{}, fmt.Errorf("%w: currency is required", ErrInvalidAmount)
		}
		if merged.Currency == NativeCurrency && merged.Issuer == "" {
			return ToCanonical(Raw(merged.Value), nil)
		}
		if err := merged.Validate(); err != nil {
			return CurrencyAmount{}, err
		}
		merged.Currency, _ = CanonicalCurrency(merged.Currency)
		return merged, nil
	case nil:
		return CurrencyAmount{}, fmt.Errorf("%w: no value", ErrInvalidAmount)
	default:
		return CurrencyAmount{}, fmt.Errorf("%w: unsupported input %T", ErrInvalidAmount, loose)
	}
}

// ToDrops converts an XRP value to its drops string.
func ToDrops(value string) (string, error) {
	d, err := ParseNative(value)
	if err != nil {
		return "", err
	}
	return d.Mul(DropsPerXRP).String(), nil
}

// FromDrops converts a drops string to an XRP value, dropping insignificant zeros.
func FromDrops(drops string) (string, error) {
	if !dropsPattern.MatchString(drops) {
		return "", fmt.Errorf("%w: %q is not a drops amount", ErrInvalidAmount, drops)
	}
	d, err := decimal.NewFromString(drops)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidAmount, drops)
	}
	return d.Div(DropsPerXRP).String(), nil
}

// RoundUpToDrops rounds an XRP value up to the nearest whole drop.
func RoundUpToDrops(value decimal.Decimal) decimal.Decimal {
	return value.RoundCeil(NativeDecimals)
}
