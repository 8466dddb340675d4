package tx

import (
	"fmt"
)

// Validate checks that every required field is present and that the variant's
// cross-field rules hold.
func (t *Transaction) Validate() error {
	for _, spec := range Fields(t.typ) {
		if spec.Required && !t.Has(spec.Name) {
			return &FieldError{Field: spec.Name, Err: ErrMissingRequiredField}
		}
	}

	switch t.typ {
	case TypePayment:
		return t.validatePayment()
	case TypeCheckCash:
		_, hasAmount := t.Amount()
		_, hasDeliverMin := t.DeliverMin()
		if hasAmount == hasDeliverMin {
			return fmt.Errorf("%w: CheckCash needs exactly one of Amount and DeliverMin", ErrInvalidTransaction)
		}
	case TypeAccountDelete:
		if dest, _ := t.Destination(); dest.Address == t.Account() {
			return fmt.Errorf("%w: cannot delete an account into itself", ErrInvalidTransaction)
		}
	case TypeTrustSet:
		if limit, _ := t.LimitAmount(); limit.IsNative() {
			return fmt.Errorf("%w: trust line limit must be an issued amount", ErrInvalidTransaction)
		}
	case TypeOfferCreate:
		gets, _ := t.TakerGets()
		pays, _ := t.TakerPays()
		if gets.IsNative() && pays.IsNative() {
			return fmt.Errorf("%w: offer cannot trade XRP for XRP", ErrInvalidTransaction)
		}
	case TypeEscrowCreate:
		if a, _ := t.Amount(); !a.IsNative() {
			return fmt.Errorf("%w: escrow amount must be XRP", ErrInvalidTransaction)
		}
	}
	return nil
}

func (t *Transaction) validatePayment() error {
	amt, _ := t.Amount()
	dest, _ := t.Destination()
	sendMax, hasSendMax := t.SendMax()
	if amt.IsNative() {
		if dest.Address == t.Account() {
			return fmt.Errorf("%w: XRP payment to self", ErrInvalidTransaction)
		}
		if hasSendMax && sendMax.IsNative() {
			return fmt.Errorf("%w: SendMax is redundant on an XRP payment", ErrInvalidTransaction)
		}
	}
	if _, hasDeliverMin := t.DeliverMin(); hasDeliverMin && !t.HasFlag("tfPartialPayment") {
		return fmt.Errorf("%w: DeliverMin requires tfPartialPayment", ErrInvalidTransaction)
	}
	return nil
}
