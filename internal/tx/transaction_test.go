package tx

import (
	"encoding/json"
	"strings"
	"testing"

	binarycodec "github.com/Peersyst/xrpl-go/binary-codec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeJamon/goXRPLwallet/internal/amount"
	"github.com/LeJamon/goXRPLwallet/internal/fields"
	"github.com/LeJamon/goXRPLwallet/internal/flags"
)

const (
	testAccount     = "rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh"
	testDestination = "rfkE1aSy9G8Upk4JssnwBxhEv5p4mn2KTy"
	testIssuer      = "rf1BiGeXwwQoi8Z2ueFYTEXSwuJYfV2Jpn"
	testInvoiceID   = "6F1DFD1D0FE8A32E40E1F2C05CF1C15545BAB56B617F9C6C2D63A6B704BEF59B"
)

const checkCreateJSON = `{
	"TransactionType": "CheckCreate",
	"Account": "rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh",
	"Destination": "rfkE1aSy9G8Upk4JssnwBxhEv5p4mn2KTy",
	"DestinationTag": 1,
	"SendMax": "100000000",
	"Expiration": 570113521,
	"InvoiceID": "6F1DFD1D0FE8A32E40E1F2C05CF1C15545BAB56B617F9C6C2D63A6B704BEF59B",
	"Fee": "12",
	"Sequence": 5,
	"Memos": [{"Memo": {"MemoData": "72656E74"}}]
}`

func newPayment(t *testing.T) *Transaction {
	t.Helper()
	p, err := New(TypePayment)
	require.NoError(t, err)
	require.NoError(t, p.SetAccount(testAccount))
	require.NoError(t, p.SetDestination(fields.Address(testDestination)))
	require.NoError(t, p.SetAmount(amount.Raw("10")))
	return p
}

func TestNewSetsType(t *testing.T) {
	c, err := New(TypeCheckCreate)
	require.NoError(t, err)
	assert.Equal(t, TypeCheckCreate, c.Type())
	assert.Equal(t, "CheckCreate", c.Flatten()["TransactionType"])

	_, err = New(Type(999))
	assert.ErrorIs(t, err, ErrInvalidTransactionType)
}

func TestFromJSONParsesDeclaredFields(t *testing.T) {
	c, err := FromJSON([]byte(checkCreateJSON))
	require.NoError(t, err)

	sendMax, ok := c.SendMax()
	require.True(t, ok)
	assert.Equal(t, amount.CurrencyAmount{Currency: "XRP", Value: "100"}, sendMax)

	exp, ok := c.Expiration()
	require.True(t, ok)
	assert.Equal(t, "2018-01-24T12:52:01.000Z", exp)

	dest, ok := c.Destination()
	require.True(t, ok)
	assert.Equal(t, fields.Destination{Address: testDestination, Tag: fields.Tag(1)}, dest)

	id, ok := c.InvoiceID()
	require.True(t, ok)
	assert.Equal(t, testInvoiceID, id)

	seq, ok := c.Sequence()
	require.True(t, ok)
	assert.Equal(t, uint32(5), seq)
}

func TestFromJSONRejects(t *testing.T) {
	tt := []struct {
		description string
		json        string
		target      error
	}{
		{"unknown type", `{"TransactionType":"Bogus"}`, ErrInvalidTransactionType},
		{"bad invoice", `{"TransactionType":"Payment","InvoiceID":"XYZ"}`, fields.ErrInvalidHex},
		{"bad destination tag", `{"TransactionType":"Payment","Destination":"rfkE1aSy9G8Upk4JssnwBxhEv5p4mn2KTy","DestinationTag":-1}`, fields.ErrInvalidDestination},
		{"bad amount", `{"TransactionType":"Payment","Amount":"1.5"}`, amount.ErrInvalidAmount},
		{"tag without destination", `{"TransactionType":"Payment","DestinationTag":7}`, fields.ErrInvalidDestination},
	}

	for _, tc := range tt {
		t.Run(tc.description, func(t *testing.T) {
			_, err := FromJSON([]byte(tc.json))
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.target)
		})
	}
}

func TestJSONRoundTripKeepsUndeclaredFields(t *testing.T) {
	c, err := FromJSON([]byte(checkCreateJSON))
	require.NoError(t, err)

	first, err := json.Marshal(c)
	require.NoError(t, err)

	again, err := FromJSON(first)
	require.NoError(t, err)
	second, err := json.Marshal(again)
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
	assert.Contains(t, string(first), `"Memos":[{"Memo":{"MemoData":"72656E74"}}]`)
	assert.Contains(t, string(first), `"DestinationTag":1`)
}

func TestSendMaxSetGet(t *testing.T) {
	c, err := New(TypeCheckCreate)
	require.NoError(t, err)

	require.NoError(t, c.SetSendMax(amount.Raw("100")))
	got, _ := c.SendMax()
	assert.Equal(t, amount.CurrencyAmount{Currency: "XRP", Value: "100"}, got)
	assert.Equal(t, "100000000", c.Flatten()["SendMax"])

	issued := amount.CurrencyAmount{Currency: "USD", Issuer: testIssuer, Value: "1"}
	require.NoError(t, c.SetSendMax(issued))
	got, _ = c.SendMax()
	assert.Equal(t, issued, got)
}

func TestNativeAmountStoredAsDrops(t *testing.T) {
	p := newPayment(t)
	require.NoError(t, p.SetAmount(amount.Raw("010")))

	got, ok := p.Amount()
	require.True(t, ok)
	assert.Equal(t, amount.CurrencyAmount{Currency: "XRP", Value: "10"}, got)
	assert.Equal(t, "10000000", p.Flatten()["Amount"])
}

func TestValueOnlyAmountKeepsIssuer(t *testing.T) {
	p := newPayment(t)
	require.NoError(t, p.SetAmount(amount.CurrencyAmount{Currency: "USD", Issuer: testIssuer, Value: "1"}))
	require.NoError(t, p.SetAmount(amount.CurrencyAmount{Value: "2"}))

	got, _ := p.Amount()
	assert.Equal(t, amount.CurrencyAmount{Currency: "USD", Issuer: testIssuer, Value: "2"}, got)
}

func TestFailedSetKeepsPreviousValue(t *testing.T) {
	p := newPayment(t)

	err := p.SetAmount(amount.Raw("-1"))
	var fieldErr *FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "Amount", fieldErr.Field)
	assert.ErrorIs(t, err, amount.ErrInvalidAmount)

	got, _ := p.Amount()
	assert.Equal(t, "10", got.Value)

	require.NoError(t, p.SetInvoiceID(strings.ToLower(testInvoiceID)))
	assert.ErrorIs(t, p.SetInvoiceID("abc"), fields.ErrInvalidHex)
	id, _ := p.InvoiceID()
	assert.Equal(t, testInvoiceID, id)

	assert.ErrorIs(t, p.SetDestination(fields.Address(testDestination+":007")), fields.ErrInvalidDestination)
	dest, _ := p.Destination()
	assert.Equal(t, testDestination, dest.Address)
}

func TestUndeclaredField(t *testing.T) {
	p := newPayment(t)
	assert.ErrorIs(t, p.Set("LimitAmount", amount.Raw("1")), ErrUndeclaredField)
	assert.ErrorIs(t, p.Set("Account", 42), ErrInvalidValue)
}

func TestDestinationTagReplacedAndCleared(t *testing.T) {
	p := newPayment(t)
	require.NoError(t, p.SetDestination(fields.Address(testDestination+":42")))
	assert.Equal(t, uint32(42), p.Flatten()["DestinationTag"])

	require.NoError(t, p.SetDestination(fields.Address(testDestination)))
	assert.NotContains(t, p.Flatten(), "DestinationTag")
}

func TestDestinationNameIsDisplayOnly(t *testing.T) {
	p := newPayment(t)
	require.NoError(t, p.SetDestination(fields.Destination{Address: testDestination, Name: "Alice"}))

	dest, _ := p.Destination()
	assert.Equal(t, "Alice", dest.Name)

	out, err := json.Marshal(p)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "Alice")
	for _, v := range p.Flatten() {
		assert.NotEqual(t, "Alice", v)
	}
}

func TestFlags(t *testing.T) {
	p := newPayment(t)

	_, ok := p.Flags()
	assert.False(t, ok)
	assert.NotContains(t, p.Flatten(), "Flags")

	require.NoError(t, p.SetFlags("tfPartialPayment", "tfNoRippleDirect"))
	mask, ok := p.Flags()
	require.True(t, ok)
	assert.Equal(t, flags.TfPartialPayment|flags.TfNoRippleDirect, mask)

	require.NoError(t, p.SetFlagsMask(0))
	mask, ok = p.Flags()
	assert.True(t, ok)
	assert.Zero(t, mask)
	assert.Equal(t, uint32(0), p.Flatten()["Flags"])

	require.NoError(t, p.AddFlags("tfPartialPayment"))
	require.NoError(t, p.AddFlags("tfLimitQuality"))
	assert.True(t, p.HasFlag("tfPartialPayment"))
	assert.True(t, p.HasFlag("tfLimitQuality"))

	assert.ErrorIs(t, p.SetFlags("tfSetNoRipple"), flags.ErrUnknownFlag)
	assert.True(t, p.HasFlag("tfPartialPayment"))
}

func TestFrozenAfterSignature(t *testing.T) {
	p := newPayment(t)
	require.NoError(t, p.AttachSignature("3045022100ABCDEF"))
	assert.True(t, p.Frozen())

	assert.ErrorIs(t, p.SetAmount(amount.Raw("11")), ErrFrozen)
	assert.ErrorIs(t, p.SetFlags("tfPartialPayment"), ErrFrozen)
	assert.ErrorIs(t, p.Unset("Amount"), ErrFrozen)

	got, _ := p.Amount()
	assert.Equal(t, "10", got.Value)
}

func TestSnapshotIsIndependent(t *testing.T) {
	p := newPayment(t)
	require.NoError(t, p.SetAmount(amount.CurrencyAmount{Currency: "USD", Issuer: testIssuer, Value: "5"}))

	snap := p.Snapshot()
	assert.True(t, snap.Frozen())
	assert.ErrorIs(t, snap.SetFee("12"), ErrFrozen)

	require.NoError(t, p.SetAmount(amount.CurrencyAmount{Value: "6"}))
	got, _ := snap.Amount()
	assert.Equal(t, "5", got.Value)

	snap.Flatten()["Amount"].(map[string]any)["value"] = "7"
	got, _ = snap.Amount()
	assert.Equal(t, "5", got.Value)
}

func TestTimeFields(t *testing.T) {
	c, err := New(TypeCheckCreate)
	require.NoError(t, err)

	require.NoError(t, c.SetExpiration("2018-01-24T12:52:01.000Z"))
	assert.Equal(t, uint32(570113521), c.Flatten()["Expiration"])

	assert.ErrorIs(t, c.SetExpiration("2018-01-24T12:52:01.500Z"), fields.ErrInvalidTimestamp)
	exp, _ := c.Expiration()
	assert.Equal(t, "2018-01-24T12:52:01.000Z", exp)
}

func TestValidate(t *testing.T) {
	tt := []struct {
		description string
		build       func(t *testing.T) *Transaction
		wantErr     error
	}{
		{
			description: "valid payment",
			build:       newPayment,
		},
		{
			description: "missing destination",
			build: func(t *testing.T) *Transaction {
				p := newPayment(t)
				require.NoError(t, p.Unset("Destination"))
				return p
			},
			wantErr: ErrMissingRequiredField,
		},
		{
			description: "xrp to self",
			build: func(t *testing.T) *Transaction {
				p := newPayment(t)
				require.NoError(t, p.SetDestination(fields.Address(testAccount)))
				return p
			},
			wantErr: ErrInvalidTransaction,
		},
		{
			description: "check cash with both amounts",
			build: func(t *testing.T) *Transaction {
				c, err := New(TypeCheckCash)
				require.NoError(t, err)
				require.NoError(t, c.SetAccount(testAccount))
				require.NoError(t, c.SetCheckID(testInvoiceID))
				require.NoError(t, c.SetAmount(amount.Raw("1")))
				require.NoError(t, c.SetDeliverMin(amount.Raw("1")))
				return c
			},
			wantErr: ErrInvalidTransaction,
		},
		{
			description: "trust set with xrp limit",
			build: func(t *testing.T) *Transaction {
				ts, err := New(TypeTrustSet)
				require.NoError(t, err)
				require.NoError(t, ts.SetAccount(testAccount))
				require.NoError(t, ts.SetLimitAmount(amount.Raw("1")))
				return ts
			},
			wantErr: ErrInvalidTransaction,
		},
		{
			description: "account delete to other account",
			build: func(t *testing.T) *Transaction {
				d, err := New(TypeAccountDelete)
				require.NoError(t, err)
				require.NoError(t, d.SetAccount(testAccount))
				require.NoError(t, d.SetDestination(fields.Address(testDestination+":9")))
				return d
			},
		},
	}

	for _, tc := range tt {
		t.Run(tc.description, func(t *testing.T) {
			err := tc.build(t).Validate()
			if tc.wantErr == nil {
				require.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	p := newPayment(t)
	require.NoError(t, p.SetFee("12"))
	require.NoError(t, p.SetSequence(7))
	require.NoError(t, p.SetFlagsMask(0))

	blob, err := p.Encode()
	require.NoError(t, err)

	decoded, err := binarycodec.Decode(blob)
	require.NoError(t, err)
	assert.Equal(t, "Payment", decoded["TransactionType"])
	assert.Equal(t, testAccount, decoded["Account"])
	assert.Equal(t, testDestination, decoded["Destination"])
	assert.Equal(t, "10000000", decoded["Amount"])

	signing, err := p.EncodeForSigning()
	require.NoError(t, err)
	assert.Equal(t, []byte{'S', 'T', 'X', 0}, signing[:4])

	id, err := Hash(blob)
	require.NoError(t, err)
	assert.Len(t, id, 64)
}

func TestSignInEncodesAsAccountSet(t *testing.T) {
	s, err := New(TypeSignIn)
	require.NoError(t, err)
	require.NoError(t, s.SetAccount(testAccount))
	require.NoError(t, s.SetFee("0"))
	require.NoError(t, s.SetSequence(0))
	assert.False(t, s.Type().Submittable())
	assert.Equal(t, "SignIn", s.Flatten()["TransactionType"])

	blob, err := s.Encode()
	require.NoError(t, err)
	decoded, err := binarycodec.Decode(blob)
	require.NoError(t, err)
	assert.Equal(t, "AccountSet", decoded["TransactionType"])
}
