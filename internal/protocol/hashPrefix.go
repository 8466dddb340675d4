// Package protocol holds the ledger's hashing conventions: the domain prefixes
// prepended to serialized objects and the SHA-512Half digest applied over them.
package protocol

// makeHashPrefix combines three ASCII characters into a 4-byte prefix with the last byte set to zero.
func makeHashPrefix(a, b, c byte) [4]byte {
	return [4]byte{a, b, c, 0}
}

// Hash prefixes for the domains a wallet hashes or signs in.
var (
	HashPrefixTransactionID = makeHashPrefix('T', 'X', 'N') // Transaction ID
	HashPrefixTxSign        = makeHashPrefix('S', 'T', 'X') // TX for signing
	HashPrefixTxMultiSign   = makeHashPrefix('S', 'M', 'T') // TX for multi-sign
)
