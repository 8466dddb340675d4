package tx

import (
	"encoding/hex"
	"fmt"

	binarycodec "github.com/Peersyst/xrpl-go/binary-codec"

	"github.com/LeJamon/goXRPLwallet/internal/protocol"
)

// wireMap is Flatten with the serialized TransactionType.
func (t *Transaction) wireMap() map[string]any {
	m := t.Flatten()
	m["TransactionType"] = t.typ.wireType()
	return m
}

// EncodeForSigning returns the canonical signing bytes: the signing prefix
// followed by the transaction without its signature fields.
func (t *Transaction) EncodeForSigning() ([]byte, error) {
	m := t.wireMap()
	delete(m, "TxnSignature")
	encoded, err := binarycodec.EncodeForSigning(m)
	if err != nil {
		return nil, fmt.Errorf("encode %s for signing: %w", t.typ, err)
	}
	raw, err := hex.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("encode %s for signing: %w", t.typ, err)
	}
	return raw, nil
}

// Encode returns the hex blob of the transaction as submitted to the network.
func (t *Transaction) Encode() (string, error) {
	blob, err := binarycodec.Encode(t.wireMap())
	if err != nil {
		return "", fmt.Errorf("encode %s: %w", t.typ, err)
	}
	return blob, nil
}

// Hash returns the transaction ID of a signed blob.
func Hash(blob string) (string, error) {
	return protocol.TransactionIDHex(blob)
}
