package protocol

import (
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"strings"
)

// Sha512Half returns the first 32 bytes of a sha512 hash of a message
func Sha512Half(msg []byte) [32]byte {
	h := sha512.Sum512(msg)
	var result [32]byte
	copy(result[:], h[:32])
	return result
}

// TransactionID computes the identifying hash of a serialized, signed transaction.
func TransactionID(blob []byte) [32]byte {
	buf := make([]byte, 0, len(HashPrefixTransactionID)+len(blob))
	buf = append(buf, HashPrefixTransactionID[:]...)
	buf = append(buf, blob...)
	return Sha512Half(buf)
}

// TransactionIDHex is TransactionID over a hex blob, returned as uppercase hex.
func TransactionIDHex(blob string) (string, error) {
	raw, err := hex.DecodeString(blob)
	if err != nil {
		return "", fmt.Errorf("decode transaction blob: %w", err)
	}
	id := TransactionID(raw)
	return strings.ToUpper(hex.EncodeToString(id[:])), nil
}
