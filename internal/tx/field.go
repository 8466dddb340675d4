package tx

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/LeJamon/goXRPLwallet/internal/amount"
	"github.com/LeJamon/goXRPLwallet/internal/fields"
	"github.com/LeJamon/goXRPLwallet/internal/flags"
)

// Kind selects the normalizer backing a field.
type Kind int

const (
	KindAccount Kind = iota
	KindDestination
	KindAmount
	KindFee
	KindUInt32
	KindTime
	KindHash256
	KindHash128
	KindBlob
	KindFlags
)

func (k Kind) String() string {
	switch k {
	case KindAccount:
		return "account"
	case KindDestination:
		return "destination"
	case KindAmount:
		return "amount"
	case KindFee:
		return "fee"
	case KindUInt32:
		return "uint32"
	case KindTime:
		return "time"
	case KindHash256:
		return "hash256"
	case KindHash128:
		return "hash128"
	case KindBlob:
		return "blob"
	case KindFlags:
		return "flags"
	default:
		return "unknown"
	}
}

// FieldSpec declares one field of a transaction variant.
type FieldSpec struct {
	Name     string
	Kind     Kind
	Required bool
}

// destinationTagField is written alongside a KindDestination field.
const destinationTagField = "DestinationTag"

// FieldError reports a rejected read or write of a single field.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %s: %v", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// normalize validates user-facing input for a field and returns the wire values
// to write. A nil value in the result removes that wire field.
func (t *Transaction) normalize(spec FieldSpec, value any) (map[string]any, error) {
	switch spec.Kind {
	case KindAccount:
		s, ok := value.(string)
		if !ok {
			return nil, unexpected(spec, value)
		}
		addr, err := fields.Account(s)
		if err != nil {
			return nil, err
		}
		return map[string]any{spec.Name: addr}, nil

	case KindDestination:
		var loose fields.Loose
		switch v := value.(type) {
		case string:
			loose = fields.Address(v)
		case fields.Loose:
			loose = v
		default:
			return nil, unexpected(spec, value)
		}
		dest, err := fields.ParseDestination(loose)
		if err != nil {
			return nil, err
		}
		out := map[string]any{spec.Name: dest.Address, destinationTagField: nil}
		if dest.Tag != nil {
			out[destinationTagField] = *dest.Tag
		}
		return out, nil

	case KindAmount:
		var loose amount.Loose
		switch v := value.(type) {
		case string:
			loose = amount.Raw(v)
		case amount.Loose:
			loose = v
		default:
			return nil, unexpected(spec, value)
		}
		var prev *amount.CurrencyAmount
		if current, ok := t.amountField(spec.Name); ok {
			prev = &current
		}
		canonical, err := amount.ToCanonical(loose, prev)
		if err != nil {
			return nil, err
		}
		wire, err := amountToWire(canonical)
		if err != nil {
			return nil, err
		}
		return map[string]any{spec.Name: wire}, nil

	case KindFee:
		s, ok := value.(string)
		if !ok {
			return nil, unexpected(spec, value)
		}
		xrp, err := amount.FromDrops(s)
		if err != nil {
			return nil, err
		}
		drops, err := amount.ToDrops(xrp)
		if err != nil {
			return nil, err
		}
		return map[string]any{spec.Name: drops}, nil

	case KindUInt32:
		n, err := toUint32(value)
		if err != nil {
			return nil, err
		}
		return map[string]any{spec.Name: n}, nil

	case KindTime:
		var seconds uint32
		var err error
		switch v := value.(type) {
		case string:
			seconds, err = fields.ToRippleTime(v)
		case time.Time:
			seconds, err = fields.TimeToRipple(v)
		default:
			seconds, err = toUint32(value)
		}
		if err != nil {
			return nil, err
		}
		return map[string]any{spec.Name: seconds}, nil

	case KindHash256, KindHash128, KindBlob:
		s, ok := value.(string)
		if !ok {
			return nil, unexpected(spec, value)
		}
		var norm string
		var err error
		switch spec.Kind {
		case KindHash256:
			norm, err = fields.Hash256(s)
		case KindHash128:
			norm, err = fields.Hash128(s)
		default:
			norm, err = fields.Blob(s)
		}
		if err != nil {
			return nil, err
		}
		return map[string]any{spec.Name: norm}, nil

	case KindFlags:
		var mask uint32
		var err error
		switch v := value.(type) {
		case []string:
			mask, err = flags.Mask(t.flagEntity(), v...)
		case flags.Set:
			mask, err = flags.Build(t.flagEntity(), v)
		default:
			mask, err = toUint32(value)
		}
		if err != nil {
			return nil, err
		}
		return map[string]any{spec.Name: mask}, nil
	}
	return nil, fmt.Errorf("%w: unsupported kind %s", ErrInvalidValue, spec.Kind)
}

// decode returns the typed value of a field from its wire form.
func (t *Transaction) decode(spec FieldSpec) (any, bool) {
	raw, ok := t.fields[spec.Name]
	if !ok {
		return nil, false
	}
	switch spec.Kind {
	case KindDestination:
		dest := fields.Destination{Address: raw.(string), Name: t.names[spec.Name]}
		if tag, ok := t.fields[destinationTagField].(uint32); ok {
			dest.Tag = fields.Tag(tag)
		}
		return dest, true
	case KindAmount:
		a, err := amountFromWire(raw)
		if err != nil {
			return nil, false
		}
		return a, true
	case KindTime:
		return fields.FromRippleTime(raw.(uint32)), true
	default:
		return raw, true
	}
}

// fromWire converts a value decoded from ledger JSON into the input accepted by
// normalize for the field's kind.
func fromWire(spec FieldSpec, raw any) (any, error) {
	switch spec.Kind {
	case KindAmount:
		return amountFromWire(raw)
	case KindUInt32, KindTime, KindFlags:
		return toUint32(raw)
	default:
		return raw, nil
	}
}

func amountToWire(a amount.CurrencyAmount) (any, error) {
	if a.IsNative() {
		return amount.ToDrops(a.Value)
	}
	return map[string]any{
		"currency": a.Currency,
		"issuer":   a.Issuer,
		"value":    a.Value,
	}, nil
}

func amountFromWire(raw any) (amount.CurrencyAmount, error) {
	switch v := raw.(type) {
	case string:
		xrp, err := amount.FromDrops(v)
		if err != nil {
			return amount.CurrencyAmount{}, err
		}
		return amount.Native(xrp), nil
	case map[string]any:
		currency, _ := v["currency"].(string)
		issuer, _ := v["issuer"].(string)
		value, _ := v["value"].(string)
		return amount.CurrencyAmount{Currency: currency, Issuer: issuer, Value: value}, nil
	case amount.CurrencyAmount:
		return v, nil
	default:
		return amount.CurrencyAmount{}, fmt.Errorf("%w: unexpected amount %T", amount.ErrInvalidAmount, raw)
	}
}

func toUint32(value any) (uint32, error) {
	switch v := value.(type) {
	case uint32:
		return v, nil
	case int:
		if v < 0 || uint64(v) > math.MaxUint32 {
			return 0, fmt.Errorf("%w: %d out of uint32 range", ErrInvalidValue, v)
		}
		return uint32(v), nil
	case int64:
		if v < 0 || v > math.MaxUint32 {
			return 0, fmt.Errorf("%w: %d out of uint32 range", ErrInvalidValue, v)
		}
		return uint32(v), nil
	case uint64:
		if v > math.MaxUint32 {
			return 0, fmt.Errorf("%w: %d out of uint32 range", ErrInvalidValue, v)
		}
		return uint32(v), nil
	case float64:
		if v < 0 || v > math.MaxUint32 || v != math.Trunc(v) {
			return 0, fmt.Errorf("%w: %v is not a uint32", ErrInvalidValue, v)
		}
		return uint32(v), nil
	case json.Number:
		n, err := strconv.ParseUint(v.String(), 10, 32)
		if err != nil {
			return 0, fmt.Errorf("%w: %s is not a uint32", ErrInvalidValue, v)
		}
		return uint32(n), nil
	default:
		return 0, fmt.Errorf("%w: unexpected %T", ErrInvalidValue, value)
	}
}

func unexpected(spec FieldSpec, value any) error {
	return fmt.Errorf("%w: %s field does not accept %T", ErrInvalidValue, spec.Kind, value)
}
