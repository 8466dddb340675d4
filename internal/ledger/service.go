// Package ledger is the wallet's view of a rippled server: the request and
// result types of the handful of API methods the wallet needs, a Service
// implementation over any transport that can carry a method call, and
// decorators for rate limiting and caching.
package ledger

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/LeJamon/goXRPLwallet/internal/amount"
)

// Service defines the ledger queries and submissions the wallet performs.
type Service interface {
	// AccountLines returns the trust lines of account, optionally limited to
	// lines with peer. All result pages are followed.
	AccountLines(ctx context.Context, account, peer string) (*AccountLinesResult, error)

	// AccountInfo returns the account root of account in the last validated ledger.
	AccountInfo(ctx context.Context, account string) (*AccountInfoResult, error)

	// LedgerEntry returns a single ledger object by its index.
	LedgerEntry(ctx context.Context, index string) (*LedgerEntryResult, error)

	// BookOffers returns one side of an order book.
	BookOffers(ctx context.Context, req BookOffersRequest) (*BookOffersResult, error)

	// Submit submits a signed transaction blob.
	Submit(ctx context.Context, blob string) (*SubmitResult, error)

	// Validate looks up a submitted transaction by hash.
	Validate(ctx context.Context, hash string) (*ValidationResult, error)
}

// TrustLine represents a trust line as returned by account_lines
type TrustLine struct {
	Account        string `json:"account"`
	Balance        string `json:"balance"`
	Currency       string `json:"currency"`
	Limit          string `json:"limit"`
	LimitPeer      string `json:"limit_peer"`
	QualityIn      uint32 `json:"quality_in,omitempty"`
	QualityOut     uint32 `json:"quality_out,omitempty"`
	NoRipple       bool   `json:"no_ripple,omitempty"`
	NoRipplePeer   bool   `json:"no_ripple_peer,omitempty"`
	Authorized     bool   `json:"authorized,omitempty"`
	PeerAuthorized bool   `json:"peer_authorized,omitempty"`
	Freeze         bool   `json:"freeze,omitempty"`
	FreezePeer     bool   `json:"freeze_peer,omitempty"`
}

// AccountLinesResult contains the trust lines of an account
type AccountLinesResult struct {
	Account     string      `json:"account"`
	Lines       []TrustLine `json:"lines"`
	LedgerIndex uint32      `json:"ledger_index"`
	LedgerHash  string      `json:"ledger_hash,omitempty"`
	Validated   bool        `json:"validated"`
	Marker      any         `json:"marker,omitempty"`
}

// Line returns the trust line for currency with peer, if any.
func (r *AccountLinesResult) Line(peer, currency string) (TrustLine, bool) {
	for _, line := range r.Lines {
		if line.Account == peer && amount.SameCurrency(line.Currency, currency) {
			return line, true
		}
	}
	return TrustLine{}, false
}

// AccountData is the AccountRoot ledger object of an account
type AccountData struct {
	Account      string `json:"Account"`
	Balance      string `json:"Balance"`
	Flags        uint32 `json:"Flags"`
	OwnerCount   uint32 `json:"OwnerCount"`
	Sequence     uint32 `json:"Sequence"`
	TransferRate uint32 `json:"TransferRate,omitempty"`
	Domain       string `json:"Domain,omitempty"`
	RegularKey   string `json:"RegularKey,omitempty"`
}

// AccountInfoResult is the result of account_info
type AccountInfoResult struct {
	AccountData AccountData `json:"account_data"`
	LedgerIndex uint32      `json:"ledger_index,omitempty"`
	Validated   bool        `json:"validated"`
}

// LedgerEntryResult is the result of ledger_entry in JSON form
type LedgerEntryResult struct {
	Index       string         `json:"index"`
	LedgerIndex uint32         `json:"ledger_index"`
	Node        map[string]any `json:"node"`
	Validated   bool           `json:"validated"`
}

// Issue names one side of an order book. Issuer is empty for the native
// currency.
type Issue struct {
	Currency string `json:"currency"`
	Issuer   string `json:"issuer,omitempty"`
}

// IsNative reports whether the issue is the native currency.
func (i Issue) IsNative() bool {
	return i.Currency == amount.NativeCurrency
}

func (i Issue) String() string {
	if i.IsNative() {
		return i.Currency
	}
	return i.Currency + "/" + i.Issuer
}

// BookOffersRequest selects the offers that give TakerGets in exchange for
// TakerPays.
type BookOffersRequest struct {
	TakerGets Issue  `json:"taker_gets"`
	TakerPays Issue  `json:"taker_pays"`
	Taker     string `json:"taker,omitempty"`
	Limit     uint32 `json:"limit,omitempty"`
}

// BookOffer represents an offer in an order book. Amounts are kept in their
// wire form; use DecodeAmount to read them.
type BookOffer struct {
	Account         string `json:"Account"`
	BookDirectory   string `json:"BookDirectory,omitempty"`
	Flags           uint32 `json:"Flags"`
	Sequence        uint32 `json:"Sequence"`
	TakerGets       any    `json:"TakerGets"`
	TakerPays       any    `json:"TakerPays"`
	Index           string `json:"index,omitempty"`
	Quality         string `json:"quality"`
	OwnerFunds      string `json:"owner_funds,omitempty"`
	TakerGetsFunded any    `json:"taker_gets_funded,omitempty"`
	TakerPaysFunded any    `json:"taker_pays_funded,omitempty"`
}

// BookOffersResult contains one side of an order book
type BookOffersResult struct {
	LedgerIndex uint32      `json:"ledger_index,omitempty"`
	Offers      []BookOffer `json:"offers"`
	Validated   bool        `json:"validated"`
}

// SubmitResult contains the preliminary result of a submission
type SubmitResult struct {
	EngineResult        string         `json:"engine_result"`
	EngineResultCode    int            `json:"engine_result_code"`
	EngineResultMessage string         `json:"engine_result_message"`
	Accepted            bool           `json:"accepted"`
	Applied             bool           `json:"applied"`
	Broadcast           bool           `json:"broadcast"`
	Kept                bool           `json:"kept"`
	Queued              bool           `json:"queued"`
	TxBlob              string         `json:"tx_blob"`
	TxJSON              map[string]any `json:"tx_json"`
}

// Hash returns the transaction hash reported with the submission.
func (r *SubmitResult) Hash() string {
	h, _ := r.TxJSON["hash"].(string)
	return h
}

// ValidationResult reports what the ledger knows about a submitted transaction.
type ValidationResult struct {
	Hash        string `json:"hash"`
	Found       bool   `json:"found"`
	Validated   bool   `json:"validated"`
	Result      string `json:"result,omitempty"`
	LedgerIndex uint32 `json:"ledger_index,omitempty"`
}

// DecodeAmount reads a wire amount: a drops string for the native currency or
// a {currency, issuer, value} object. Issued values in exponent notation are
// rewritten as plain decimals.
func DecodeAmount(v any) (amount.CurrencyAmount, error) {
	switch x := v.(type) {
	case string:
		xrp, err := amount.FromDrops(x)
		if err != nil {
			return amount.CurrencyAmount{}, err
		}
		return amount.Native(xrp), nil
	case map[string]any:
		currency, _ := x["currency"].(string)
		issuer, _ := x["issuer"].(string)
		value, _ := x["value"].(string)
		d, err := decimal.NewFromString(value)
		if err != nil {
			return amount.CurrencyAmount{}, fmt.Errorf("%w: %q", amount.ErrInvalidAmount, value)
		}
		if currency == amount.NativeCurrency && issuer == "" {
			return amount.Native(d.String()), nil
		}
		return amount.CurrencyAmount{Currency: currency, Issuer: issuer, Value: d.String()}, nil
	default:
		return amount.CurrencyAmount{}, fmt.Errorf("%w: unexpected %T", amount.ErrInvalidAmount, v)
	}
}
