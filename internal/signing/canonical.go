package signing

import (
	"math/big"
)

var (
	// secp256k1Order is the order of the secp256k1 curve group.
	secp256k1Order, _ = new(big.Int).SetString("FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEBAAEDCE6AF48A03BBFD25E8CD0364141", 16)
	secp256k1Half     = new(big.Int).Rsh(secp256k1Order, 1)

	// ed25519Order is the order L of the Ed25519 subgroup.
	ed25519Order, _ = new(big.Int).SetString("1000000000000000000000000000000014DEF9DEA2F79CD65812631A5CF5D3ED", 16)
)

// fullyCanonicalECDSA reports whether a DER signature is strictly encoded with
// R and S in [1, N-1] and S <= N/2. The ledger rejects anything else on
// transactions carrying tfFullyCanonicalSig.
func fullyCanonicalECDSA(sig []byte) bool {
	if len(sig) < 8 || len(sig) > 72 || sig[0] != 0x30 || int(sig[1]) != len(sig)-2 {
		return false
	}
	r, rest, ok := derInteger(sig[2:])
	if !ok {
		return false
	}
	s, rest, ok := derInteger(rest)
	if !ok || len(rest) != 0 {
		return false
	}
	if r.Sign() <= 0 || r.Cmp(secp256k1Order) >= 0 {
		return false
	}
	return s.Sign() > 0 && s.Cmp(secp256k1Half) <= 0
}

// derInteger reads one minimally encoded, non-negative DER INTEGER.
func derInteger(data []byte) (*big.Int, []byte, bool) {
	if len(data) < 2 || data[0] != 0x02 {
		return nil, nil, false
	}
	n := int(data[1])
	if n < 1 || n > 33 || len(data) < 2+n {
		return nil, nil, false
	}
	v := data[2 : 2+n]
	if v[0]&0x80 != 0 {
		return nil, nil, false
	}
	if v[0] == 0 && (n == 1 || v[1]&0x80 == 0) {
		return nil, nil, false
	}
	return new(big.Int).SetBytes(v), data[2+n:], true
}

// canonicalEd25519 reports whether the S half of a 64-byte signature is below L.
func canonicalEd25519(sig []byte) bool {
	if len(sig) != 64 {
		return false
	}
	le := sig[32:]
	be := make([]byte, 32)
	for i := range le {
		be[i] = le[31-i]
	}
	return new(big.Int).SetBytes(be).Cmp(ed25519Order) < 0
}
