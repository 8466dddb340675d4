package flags

// Universal transaction flags
const (
	TfFullyCanonicalSig uint32 = 0x80000000
)

// Payment flags
const (
	TfNoRippleDirect uint32 = 0x00010000
	TfPartialPayment uint32 = 0x00020000
	TfLimitQuality   uint32 = 0x00040000
)

// TrustSet flags
const (
	TfSetfAuth      uint32 = 0x00010000
	TfSetNoRipple   uint32 = 0x00020000
	TfClearNoRipple uint32 = 0x00040000
	TfSetFreeze     uint32 = 0x00100000
	TfClearFreeze   uint32 = 0x00200000
)

// AccountSet flags
const (
	TfRequireDestTag  uint32 = 0x00010000
	TfOptionalDestTag uint32 = 0x00020000
	TfRequireAuth     uint32 = 0x00040000
	TfOptionalAuth    uint32 = 0x00080000
	TfDisallowXRP     uint32 = 0x00100000
	TfAllowXRP        uint32 = 0x00200000
)

// OfferCreate flags
const (
	TfPassive           uint32 = 0x00010000
	TfImmediateOrCancel uint32 = 0x00020000
	TfFillOrKill        uint32 = 0x00040000
	TfSell              uint32 = 0x00080000
)

// PaymentChannelClaim flags
const (
	TfRenew uint32 = 0x00010000
	TfClose uint32 = 0x00020000
)

// AccountRoot ledger flags
const (
	LsfPasswordSpent  uint32 = 0x00010000
	LsfRequireDestTag uint32 = 0x00020000
	LsfRequireAuth    uint32 = 0x00040000
	LsfDisallowXRP    uint32 = 0x00080000
	LsfDisableMaster  uint32 = 0x00100000
	LsfNoFreeze       uint32 = 0x00200000
	LsfGlobalFreeze   uint32 = 0x00400000
	LsfDefaultRipple  uint32 = 0x00800000
	LsfDepositAuth    uint32 = 0x01000000
)

// RippleState ledger flags
const (
	LsfLowReserve   uint32 = 0x00010000
	LsfHighReserve  uint32 = 0x00020000
	LsfLowAuth      uint32 = 0x00040000
	LsfHighAuth     uint32 = 0x00080000
	LsfLowNoRipple  uint32 = 0x00100000
	LsfHighNoRipple uint32 = 0x00200000
	LsfLowFreeze    uint32 = 0x00400000
	LsfHighFreeze   uint32 = 0x00800000
)

// Offer ledger flags
const (
	LsfOfferPassive uint32 = 0x00010000
	LsfOfferSell    uint32 = 0x00020000
)

type table struct {
	byName map[string]uint32
}

func newTable(withUniversal bool, byName map[string]uint32) *table {
	if withUniversal {
		byName["tfFullyCanonicalSig"] = TfFullyCanonicalSig
	}
	return &table{byName: byName}
}

// tables is built once at init and only read afterwards.
var tables = map[Entity]*table{
	Universal: newTable(true, map[string]uint32{}),
	Payment: newTable(true, map[string]uint32{
		"tfNoRippleDirect": TfNoRippleDirect,
		"tfPartialPayment": TfPartialPayment,
		"tfLimitQuality":   TfLimitQuality,
	}),
	TrustSet: newTable(true, map[string]uint32{
		"tfSetfAuth":      TfSetfAuth,
		"tfSetNoRipple":   TfSetNoRipple,
		"tfClearNoRipple": TfClearNoRipple,
		"tfSetFreeze":     TfSetFreeze,
		"tfClearFreeze":   TfClearFreeze,
	}),
	AccountSet: newTable(true, map[string]uint32{
		"tfRequireDestTag":  TfRequireDestTag,
		"tfOptionalDestTag": TfOptionalDestTag,
		"tfRequireAuth":     TfRequireAuth,
		"tfOptionalAuth":    TfOptionalAuth,
		"tfDisallowXRP":     TfDisallowXRP,
		"tfAllowXRP":        TfAllowXRP,
	}),
	OfferCreate: newTable(true, map[string]uint32{
		"tfPassive":           TfPassive,
		"tfImmediateOrCancel": TfImmediateOrCancel,
		"tfFillOrKill":        TfFillOrKill,
		"tfSell":              TfSell,
	}),
	PaymentChannelClaim: newTable(true, map[string]uint32{
		"tfRenew": TfRenew,
		"tfClose": TfClose,
	}),
	AccountRoot: newTable(false, map[string]uint32{
		"passwordSpent":         LsfPasswordSpent,
		"requireDestinationTag": LsfRequireDestTag,
		"requireAuthorization":  LsfRequireAuth,
		"disallowXRP":           LsfDisallowXRP,
		"disableMasterKey":      LsfDisableMaster,
		"noFreeze":              LsfNoFreeze,
		"globalFreeze":          LsfGlobalFreeze,
		"defaultRipple":         LsfDefaultRipple,
		"depositAuth":           LsfDepositAuth,
	}),
	RippleState: newTable(false, map[string]uint32{
		"lowReserve":   LsfLowReserve,
		"highReserve":  LsfHighReserve,
		"lowAuth":      LsfLowAuth,
		"highAuth":     LsfHighAuth,
		"lowNoRipple":  LsfLowNoRipple,
		"highNoRipple": LsfHighNoRipple,
		"lowFreeze":    LsfLowFreeze,
		"highFreeze":   LsfHighFreeze,
	}),
	Offer: newTable(false, map[string]uint32{
		"passive": LsfOfferPassive,
		"sell":    LsfOfferSell,
	}),
}
