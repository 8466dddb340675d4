package tx

// commonFields are declared by every variant.
var commonFields = []FieldSpec{
	{Name: "Account", Kind: KindAccount, Required: true},
	{Name: "Fee", Kind: KindFee},
	{Name: "Sequence", Kind: KindUInt32},
	{Name: "LastLedgerSequence", Kind: KindUInt32},
	{Name: "TicketSequence", Kind: KindUInt32},
	{Name: "SourceTag", Kind: KindUInt32},
	{Name: "NetworkID", Kind: KindUInt32},
	{Name: "Flags", Kind: KindFlags},
	{Name: "AccountTxnID", Kind: KindHash256},
	{Name: "SigningPubKey", Kind: KindBlob},
	{Name: "TxnSignature", Kind: KindBlob},
}

// variantFields lists the fields each variant declares on top of commonFields.
var variantFields = map[Type][]FieldSpec{
	TypePayment: {
		{Name: "Destination", Kind: KindDestination, Required: true},
		{Name: "Amount", Kind: KindAmount, Required: true},
		{Name: "SendMax", Kind: KindAmount},
		{Name: "DeliverMin", Kind: KindAmount},
		{Name: "InvoiceID", Kind: KindHash256},
	},
	TypeCheckCreate: {
		{Name: "Destination", Kind: KindDestination, Required: true},
		{Name: "SendMax", Kind: KindAmount, Required: true},
		{Name: "Expiration", Kind: KindTime},
		{Name: "InvoiceID", Kind: KindHash256},
	},
	TypeCheckCash: {
		{Name: "CheckID", Kind: KindHash256, Required: true},
		{Name: "Amount", Kind: KindAmount},
		{Name: "DeliverMin", Kind: KindAmount},
	},
	TypeCheckCancel: {
		{Name: "CheckID", Kind: KindHash256, Required: true},
	},
	TypeAccountDelete: {
		{Name: "Destination", Kind: KindDestination, Required: true},
	},
	TypeAccountSet: {
		{Name: "SetFlag", Kind: KindUInt32},
		{Name: "ClearFlag", Kind: KindUInt32},
		{Name: "Domain", Kind: KindBlob},
		{Name: "EmailHash", Kind: KindHash128},
		{Name: "MessageKey", Kind: KindBlob},
		{Name: "TransferRate", Kind: KindUInt32},
	},
	TypeSetRegularKey: {
		{Name: "RegularKey", Kind: KindAccount},
	},
	TypeTrustSet: {
		{Name: "LimitAmount", Kind: KindAmount, Required: true},
		{Name: "QualityIn", Kind: KindUInt32},
		{Name: "QualityOut", Kind: KindUInt32},
	},
	TypeOfferCreate: {
		{Name: "TakerGets", Kind: KindAmount, Required: true},
		{Name: "TakerPays", Kind: KindAmount, Required: true},
		{Name: "Expiration", Kind: KindTime},
		{Name: "OfferSequence", Kind: KindUInt32},
	},
	TypeOfferCancel: {
		{Name: "OfferSequence", Kind: KindUInt32, Required: true},
	},
	TypeEscrowCreate: {
		{Name: "Destination", Kind: KindDestination, Required: true},
		{Name: "Amount", Kind: KindAmount, Required: true},
		{Name: "FinishAfter", Kind: KindTime},
		{Name: "CancelAfter", Kind: KindTime},
		{Name: "Condition", Kind: KindBlob},
	},
	TypeEscrowFinish: {
		{Name: "Owner", Kind: KindAccount, Required: true},
		{Name: "OfferSequence", Kind: KindUInt32, Required: true},
		{Name: "Condition", Kind: KindBlob},
		{Name: "Fulfillment", Kind: KindBlob},
	},
	TypeEscrowCancel: {
		{Name: "Owner", Kind: KindAccount, Required: true},
		{Name: "OfferSequence", Kind: KindUInt32, Required: true},
	},
	TypeSignIn: {},
}

// specTables maps each variant to its field specs by name.
var specTables = func() map[Type]map[string]FieldSpec {
	tables := make(map[Type]map[string]FieldSpec, len(variantFields))
	for t, own := range variantFields {
		table := make(map[string]FieldSpec, len(commonFields)+len(own))
		for _, spec := range commonFields {
			table[spec.Name] = spec
		}
		for _, spec := range own {
			table[spec.Name] = spec
		}
		tables[t] = table
	}
	return tables
}()

// Fields returns the field specs a variant declares, common fields first.
func Fields(t Type) []FieldSpec {
	own, ok := variantFields[t]
	if !ok {
		return nil
	}
	out := make([]FieldSpec, 0, len(commonFields)+len(own))
	out = append(out, commonFields...)
	return append(out, own...)
}
