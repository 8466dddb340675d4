package exchange

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ErrorKind names one reason a liquidity report is unsafe.
type ErrorKind string

const (
	BookEmpty               ErrorKind = "BookEmpty"
	InsufficientDepth       ErrorKind = "InsufficientDepth"
	ReverseLiquidityMissing ErrorKind = "ReverseLiquidityMissing"
	MaxSpreadExceeded       ErrorKind = "MaxSpreadExceeded"
	MaxSlippageExceeded     ErrorKind = "MaxSlippageExceeded"
)

// Report is the outcome of one liquidity evaluation.
//
// Rate is Counter consumed per Base unit filled, rounded half-up to
// RateDecimals; Price is its inverse, the quote shown to users. Filled and
// Consumed are exact.
type Report struct {
	Safe     bool
	Rate     decimal.Decimal
	Price    decimal.Decimal
	Errors   []ErrorKind
	Filled   decimal.Decimal
	Consumed decimal.Decimal
}

// Has reports whether the report carries kind.
func (r *Report) Has(kind ErrorKind) bool {
	for _, k := range r.Errors {
		if k == kind {
			return true
		}
	}
	return false
}

func (r *Report) String() string {
	if r.Safe {
		return "safe at " + r.Rate.StringFixed(RateDecimals)
	}
	kinds := make([]string, len(r.Errors))
	for i, k := range r.Errors {
		kinds[i] = string(k)
	}
	return "unsafe: " + strings.Join(kinds, ", ")
}
