package tx

import (
	"github.com/LeJamon/goXRPLwallet/internal/amount"
	"github.com/LeJamon/goXRPLwallet/internal/fields"
	"github.com/LeJamon/goXRPLwallet/internal/flags"
)

func (t *Transaction) amountField(name string) (amount.CurrencyAmount, bool) {
	raw, ok := t.fields[name]
	if !ok {
		return amount.CurrencyAmount{}, false
	}
	a, err := amountFromWire(raw)
	if err != nil {
		return amount.CurrencyAmount{}, false
	}
	return a, true
}

func (t *Transaction) stringField(name string) (string, bool) {
	s, ok := t.fields[name].(string)
	return s, ok
}

func (t *Transaction) uint32Field(name string) (uint32, bool) {
	n, ok := t.fields[name].(uint32)
	return n, ok
}

// Account returns the signing account.
func (t *Transaction) Account() string {
	s, _ := t.stringField("Account")
	return s
}

// SetAccount sets the signing account.
func (t *Transaction) SetAccount(address string) error {
	return t.Set("Account", address)
}

// Destination returns the destination with its tag and display name.
func (t *Transaction) Destination() (fields.Destination, bool) {
	v, ok := t.Get("Destination")
	if !ok {
		return fields.Destination{}, false
	}
	return v.(fields.Destination), true
}

// SetDestination sets the destination address and tag. A Destination carrying
// a Name also records it as a display annotation.
func (t *Transaction) SetDestination(d fields.Loose) error {
	return t.Set("Destination", d)
}

// SetDestinationName attaches a display name to the destination. It is never
// serialized and is allowed after signing.
func (t *Transaction) SetDestinationName(name string) {
	if name == "" {
		delete(t.names, "Destination")
		return
	}
	t.names["Destination"] = name
}

// Amount returns the delivered amount.
func (t *Transaction) Amount() (amount.CurrencyAmount, bool) {
	return t.amountField("Amount")
}

// SetAmount sets Amount. A CurrencyAmount with only a value keeps the current
// currency and issuer.
func (t *Transaction) SetAmount(a amount.Loose) error {
	return t.Set("Amount", a)
}

// SendMax returns the maximum the sender is willing to spend.
func (t *Transaction) SendMax() (amount.CurrencyAmount, bool) {
	return t.amountField("SendMax")
}

// SetSendMax sets SendMax.
func (t *Transaction) SetSendMax(a amount.Loose) error {
	return t.Set("SendMax", a)
}

// DeliverMin returns the minimum delivered amount.
func (t *Transaction) DeliverMin() (amount.CurrencyAmount, bool) {
	return t.amountField("DeliverMin")
}

// SetDeliverMin sets DeliverMin.
func (t *Transaction) SetDeliverMin(a amount.Loose) error {
	return t.Set("DeliverMin", a)
}

// LimitAmount returns a trust line limit.
func (t *Transaction) LimitAmount() (amount.CurrencyAmount, bool) {
	return t.amountField("LimitAmount")
}

// SetLimitAmount sets LimitAmount.
func (t *Transaction) SetLimitAmount(a amount.Loose) error {
	return t.Set("LimitAmount", a)
}

func (t *Transaction) TakerGets() (amount.CurrencyAmount, bool) {
	return t.amountField("TakerGets")
}

func (t *Transaction) SetTakerGets(a amount.Loose) error {
	return t.Set("TakerGets", a)
}

func (t *Transaction) TakerPays() (amount.CurrencyAmount, bool) {
	return t.amountField("TakerPays")
}

func (t *Transaction) SetTakerPays(a amount.Loose) error {
	return t.Set("TakerPays", a)
}

// InvoiceID returns the 256-bit invoice identifier.
func (t *Transaction) InvoiceID() (string, bool) {
	return t.stringField("InvoiceID")
}

// SetInvoiceID sets InvoiceID from 64 hex digits in either case.
func (t *Transaction) SetInvoiceID(id string) error {
	return t.Set("InvoiceID", id)
}

// CheckID returns the check being cashed or cancelled.
func (t *Transaction) CheckID() (string, bool) {
	return t.stringField("CheckID")
}

// SetCheckID sets CheckID.
func (t *Transaction) SetCheckID(id string) error {
	return t.Set("CheckID", id)
}

// Expiration returns the expiration as an ISO-8601 string.
func (t *Transaction) Expiration() (string, bool) {
	v, ok := t.Get("Expiration")
	if !ok {
		return "", false
	}
	return v.(string), true
}

// SetExpiration sets Expiration from an ISO-8601 string.
func (t *Transaction) SetExpiration(iso string) error {
	return t.Set("Expiration", iso)
}

// Fee returns the fee in drops.
func (t *Transaction) Fee() (string, bool) {
	return t.stringField("Fee")
}

// SetFee sets the fee in drops.
func (t *Transaction) SetFee(drops string) error {
	return t.Set("Fee", drops)
}

func (t *Transaction) Sequence() (uint32, bool) {
	return t.uint32Field("Sequence")
}

func (t *Transaction) SetSequence(seq uint32) error {
	return t.Set("Sequence", seq)
}

func (t *Transaction) LastLedgerSequence() (uint32, bool) {
	return t.uint32Field("LastLedgerSequence")
}

func (t *Transaction) SetLastLedgerSequence(seq uint32) error {
	return t.Set("LastLedgerSequence", seq)
}

// SigningPubKey returns the public key the transaction is signed with.
func (t *Transaction) SigningPubKey() (string, bool) {
	return t.stringField("SigningPubKey")
}

// SetSigningPubKey sets the public key the transaction will be signed with.
func (t *Transaction) SetSigningPubKey(pubKey string) error {
	return t.Set("SigningPubKey", pubKey)
}

// TxnSignature returns the attached signature.
func (t *Transaction) TxnSignature() (string, bool) {
	return t.stringField("TxnSignature")
}

// Flags returns the flag mask. The second result distinguishes an explicit zero
// from an unset field.
func (t *Transaction) Flags() (uint32, bool) {
	return t.uint32Field("Flags")
}

// FlagSet parses the flag mask with the variant's flag table.
func (t *Transaction) FlagSet() flags.Set {
	mask, _ := t.Flags()
	return flags.Parse(t.flagEntity(), mask)
}

// HasFlag reports whether a named flag is set.
func (t *Transaction) HasFlag(name string) bool {
	return t.FlagSet().Has(name)
}

// SetFlags replaces the flag mask with the OR of the named flags.
func (t *Transaction) SetFlags(names ...string) error {
	if names == nil {
		names = []string{}
	}
	return t.Set("Flags", names)
}

// SetFlagsMask replaces the flag mask. Zero is stored as an explicit empty mask
// and serialized, unlike an unset field.
func (t *Transaction) SetFlagsMask(mask uint32) error {
	return t.Set("Flags", mask)
}

// AddFlags ORs the named flags into the current mask, keeping any bits
// already set.
func (t *Transaction) AddFlags(names ...string) error {
	bits, err := flags.Mask(t.flagEntity(), names...)
	if err != nil {
		return &FieldError{Field: "Flags", Err: err}
	}
	current, _ := t.Flags()
	return t.SetFlagsMask(current | bits)
}
