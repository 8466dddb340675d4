// Package tx models the transaction variants a wallet builds and signs. Each
// variant declares its fields in a table; every field is read and written
// through the normalizer its kind selects, so a Transaction only ever holds
// canonical wire values.
package tx

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/LeJamon/goXRPLwallet/internal/fields"
	"github.com/LeJamon/goXRPLwallet/internal/flags"
)

// Common errors
var (
	ErrFrozen                 = errors.New("transaction is signed and can no longer be modified")
	ErrUndeclaredField        = errors.New("field not declared for transaction type")
	ErrMissingRequiredField   = errors.New("missing required field")
	ErrInvalidTransactionType = errors.New("invalid transaction type")
	ErrInvalidValue           = errors.New("invalid field value")
	ErrInvalidTransaction     = errors.New("invalid transaction")
)

// Transaction is a single ledger transaction of one variant. The zero value is
// not usable; construct with New, FromJSON or FromMap.
//
// A Transaction is not safe for concurrent mutation. Once a signature is
// attached it is frozen and every mutator returns ErrFrozen.
type Transaction struct {
	typ    Type
	fields map[string]any
	// names holds display-only annotations keyed by field; never serialized.
	names  map[string]string
	frozen bool
}

// New returns an empty transaction of the given variant.
func New(t Type) (*Transaction, error) {
	if _, ok := specTables[t]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTransactionType, t)
	}
	return &Transaction{
		typ:    t,
		fields: make(map[string]any),
		names:  make(map[string]string),
	}, nil
}

// FromJSON parses a transaction from its ledger JSON form.
func FromJSON(data []byte) (*Transaction, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("decode transaction: %w", err)
	}
	return FromMap(m)
}

// FromMap parses a transaction from a decoded JSON object. Declared fields are
// normalized eagerly; undeclared fields (Memos, Paths, ...) are kept as is.
func FromMap(m map[string]any) (*Transaction, error) {
	name, _ := m["TransactionType"].(string)
	t, ok := TypeFromName(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTransactionType, name)
	}
	txn, err := New(t)
	if err != nil {
		return nil, err
	}
	table := specTables[t]

	for key, raw := range m {
		if key == "TransactionType" {
			continue
		}
		spec, declared := table[key]
		if !declared {
			if dest, ok := txn.fieldOfKind(KindDestination); ok && key == destinationTagField {
				if _, present := m[dest]; !present {
					return nil, &FieldError{
						Field: key,
						Err:   fmt.Errorf("%w: tag without %s", fields.ErrInvalidDestination, dest),
					}
				}
				continue
			}
			txn.fields[key] = passthrough(raw)
			continue
		}
		value, err := fromWire(spec, raw)
		if err != nil {
			return nil, &FieldError{Field: key, Err: err}
		}
		if spec.Kind == KindDestination {
			value, err = destinationFromWire(value, m[destinationTagField])
			if err != nil {
				return nil, &FieldError{Field: key, Err: err}
			}
		}
		if err := txn.Set(key, value); err != nil {
			return nil, err
		}
	}
	return txn, nil
}

func destinationFromWire(address any, tag any) (any, error) {
	s, ok := address.(string)
	if !ok {
		return nil, fmt.Errorf("%w: destination must be a string", fields.ErrInvalidDestination)
	}
	dest := fields.Destination{Address: s}
	if tag != nil {
		n, err := toUint32(tag)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", fields.ErrInvalidDestination, err)
		}
		dest.Tag = fields.Tag(n)
	}
	return dest, nil
}

// passthrough converts top-level JSON numbers of undeclared fields to the
// uint32 form the binary codec expects; everything else is kept verbatim.
func passthrough(raw any) any {
	n, ok := raw.(json.Number)
	if !ok {
		return raw
	}
	if v, err := strconv.ParseUint(n.String(), 10, 32); err == nil {
		return uint32(v)
	}
	return raw
}

// Type returns the transaction variant.
func (t *Transaction) Type() Type {
	return t.typ
}

// Frozen reports whether a signature has been attached.
func (t *Transaction) Frozen() bool {
	return t.frozen
}

// Spec returns the declaration of a field.
func (t *Transaction) Spec(name string) (FieldSpec, bool) {
	spec, ok := specTables[t.typ][name]
	return spec, ok
}

// fieldOfKind returns the name of the declared field of kind, if any.
func (t *Transaction) fieldOfKind(kind Kind) (string, bool) {
	for name, spec := range specTables[t.typ] {
		if spec.Kind == kind {
			return name, true
		}
	}
	return "", false
}

// Get returns the normalized value of a declared field: a string for accounts,
// hex and fees, amount.CurrencyAmount for amounts, fields.Destination for
// destinations, an ISO-8601 string for times and uint32 for integers and flags.
func (t *Transaction) Get(name string) (any, bool) {
	spec, ok := t.Spec(name)
	if !ok {
		return nil, false
	}
	return t.decode(spec)
}

// Set validates value and writes the canonical wire form of a declared field.
// On error the previous value is left intact.
func (t *Transaction) Set(name string, value any) error {
	if t.frozen {
		return &FieldError{Field: name, Err: ErrFrozen}
	}
	spec, ok := t.Spec(name)
	if !ok {
		return &FieldError{Field: name, Err: ErrUndeclaredField}
	}
	updates, err := t.normalize(spec, value)
	if err != nil {
		return &FieldError{Field: name, Err: err}
	}
	for key, v := range updates {
		if v == nil {
			delete(t.fields, key)
			continue
		}
		t.fields[key] = v
	}
	if spec.Kind == KindDestination {
		delete(t.names, name)
		if d, ok := value.(fields.Destination); ok && d.Name != "" {
			t.names[name] = d.Name
		}
	}
	return nil
}

// Unset removes a declared field.
func (t *Transaction) Unset(name string) error {
	if t.frozen {
		return &FieldError{Field: name, Err: ErrFrozen}
	}
	spec, ok := t.Spec(name)
	if !ok {
		return &FieldError{Field: name, Err: ErrUndeclaredField}
	}
	delete(t.fields, name)
	delete(t.names, name)
	if spec.Kind == KindDestination {
		delete(t.fields, destinationTagField)
	}
	return nil
}

// Has reports whether a field is present on the wire.
func (t *Transaction) Has(name string) bool {
	_, ok := t.fields[name]
	return ok
}

// Flatten returns the wire map of the transaction. Display annotations are not
// included. The result is a copy.
func (t *Transaction) Flatten() map[string]any {
	out := make(map[string]any, len(t.fields)+1)
	for k, v := range t.fields {
		out[k] = deepCopy(v)
	}
	out["TransactionType"] = t.typ.String()
	return out
}

// MarshalJSON encodes the wire map.
func (t *Transaction) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Flatten())
}

// Snapshot returns a frozen deep copy for display layers.
func (t *Transaction) Snapshot() *Transaction {
	c := t.Clone()
	c.frozen = true
	return c
}

// Clone returns a deep copy that keeps the frozen state of t.
func (t *Transaction) Clone() *Transaction {
	c := &Transaction{
		typ:    t.typ,
		fields: make(map[string]any, len(t.fields)),
		names:  make(map[string]string, len(t.names)),
		frozen: t.frozen,
	}
	for k, v := range t.fields {
		c.fields[k] = deepCopy(v)
	}
	for k, v := range t.names {
		c.names[k] = v
	}
	return c
}

// AttachSignature sets TxnSignature and freezes the transaction.
func (t *Transaction) AttachSignature(signature string) error {
	if err := t.Set("TxnSignature", signature); err != nil {
		return err
	}
	t.frozen = true
	return nil
}

func (t *Transaction) flagEntity() flags.Entity {
	return flags.Entity(t.typ.String())
}

func deepCopy(v any) any {
	switch x := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(x))
		for k, inner := range x {
			m[k] = deepCopy(inner)
		}
		return m
	case []any:
		s := make([]any, len(x))
		for i, inner := range x {
			s[i] = deepCopy(inner)
		}
		return s
	default:
		return v
	}
}
