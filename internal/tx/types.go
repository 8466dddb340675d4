package tx

// Type represents a transaction type code
type Type uint16

// Transaction type codes from rippled, limited to the types a wallet builds.
const (
	TypeInvalid Type = 0xFFFF // Invalid/unknown type

	TypePayment       Type = 0  // ttPAYMENT
	TypeEscrowCreate  Type = 1  // ttESCROW_CREATE
	TypeEscrowFinish  Type = 2  // ttESCROW_FINISH
	TypeAccountSet    Type = 3  // ttACCOUNT_SET
	TypeEscrowCancel  Type = 4  // ttESCROW_CANCEL
	TypeSetRegularKey Type = 5  // ttREGULAR_KEY_SET
	TypeOfferCreate   Type = 7  // ttOFFER_CREATE
	TypeOfferCancel   Type = 8  // ttOFFER_CANCEL
	TypeCheckCreate   Type = 16 // ttCHECK_CREATE
	TypeCheckCash     Type = 17 // ttCHECK_CASH
	TypeCheckCancel   Type = 18 // ttCHECK_CANCEL
	TypeTrustSet      Type = 20 // ttTRUST_SET
	TypeAccountDelete Type = 21 // ttACCOUNT_DELETE

	// TypeSignIn is a wallet pseudo-transaction proving control of an account.
	// It has no ledger code; it is signed but never submitted.
	TypeSignIn Type = 0xFFFE
)

var typeNames = map[Type]string{
	TypePayment:       "Payment",
	TypeEscrowCreate:  "EscrowCreate",
	TypeEscrowFinish:  "EscrowFinish",
	TypeAccountSet:    "AccountSet",
	TypeEscrowCancel:  "EscrowCancel",
	TypeSetRegularKey: "SetRegularKey",
	TypeOfferCreate:   "OfferCreate",
	TypeOfferCancel:   "OfferCancel",
	TypeCheckCreate:   "CheckCreate",
	TypeCheckCash:     "CheckCash",
	TypeCheckCancel:   "CheckCancel",
	TypeTrustSet:      "TrustSet",
	TypeAccountDelete: "AccountDelete",
	TypeSignIn:        "SignIn",
}

var typesByName = func() map[string]Type {
	m := make(map[string]Type, len(typeNames))
	for t, name := range typeNames {
		m[name] = t
	}
	return m
}()

// String returns the string name of the transaction type
func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "Unknown"
}

// TypeFromName returns the Type for a TransactionType string
func TypeFromName(name string) (Type, bool) {
	t, ok := typesByName[name]
	return t, ok
}

// Submittable reports whether transactions of this type may be sent to the network.
func (t Type) Submittable() bool {
	_, known := typeNames[t]
	return known && t != TypeSignIn
}

// wireType is the TransactionType used when serializing. A sign-in is encoded
// as an AccountSet carrying only common fields.
func (t Type) wireType() string {
	if t == TypeSignIn {
		return TypeAccountSet.String()
	}
	return t.String()
}
