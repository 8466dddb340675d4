// Package signing derives wallet keys and produces transaction signatures.
// Key derivation and the signature algorithms come from xrpl-go; this package
// checks what comes back before a signature is attached to a transaction.
package signing

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	addresscodec "github.com/Peersyst/xrpl-go/address-codec"
	"github.com/Peersyst/xrpl-go/xrpl/wallet"
	"github.com/decred/dcrd/crypto/ripemd160"
)

// AccountIDSize is the size of an XRPL account ID in bytes.
const AccountIDSize = 20

// ed25519Prefix marks an Ed25519 public key.
const ed25519Prefix = "ED"

var (
	ErrInvalidKey       = errors.New("invalid key")
	ErrAccountMismatch  = errors.New("public key does not match account")
	ErrInvalidSignature = errors.New("invalid signature")
)

// Algorithm identifies the signature scheme of a key pair.
type Algorithm int

const (
	Secp256k1 Algorithm = iota
	Ed25519
)

func (a Algorithm) String() string {
	if a == Ed25519 {
		return "ed25519"
	}
	return "secp256k1"
}

// KeyPair holds hex-encoded keys and the classic address they control.
type KeyPair struct {
	PublicKey  string
	PrivateKey string
	Address    string
}

// Algorithm reports the scheme selected by the public key's prefix.
func (k KeyPair) Algorithm() Algorithm {
	if strings.HasPrefix(strings.ToUpper(k.PublicKey), ed25519Prefix) {
		return Ed25519
	}
	return Secp256k1
}

// FromSeed derives the key pair of a family seed ("s...").
func FromSeed(seed string) (KeyPair, error) {
	w, err := wallet.FromSeed(seed, "")
	if err != nil {
		return KeyPair{}, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	keys := KeyPair{
		PublicKey:  strings.ToUpper(w.PublicKey),
		PrivateKey: strings.ToUpper(w.PrivateKey),
		Address:    string(w.ClassicAddress),
	}
	if err := keys.Validate(); err != nil {
		return KeyPair{}, err
	}
	return keys, nil
}

// Validate checks that the public key hashes to the account ID of Address.
func (k KeyPair) Validate() error {
	pub, err := hex.DecodeString(k.PublicKey)
	if err != nil || len(pub) != 33 {
		return fmt.Errorf("%w: public key must be 33 bytes of hex", ErrInvalidKey)
	}
	_, want, err := addresscodec.DecodeClassicAddressToAccountID(k.Address)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	got := CalcAccountID(pub)
	if !bytes.Equal(got[:], want) {
		return fmt.Errorf("%w: %s", ErrAccountMismatch, k.Address)
	}
	return nil
}

// CalcAccountID computes the account ID from a public key as
// RIPEMD160(SHA256(publicKey)). The whole key is hashed, including the
// Ed25519 prefix byte.
func CalcAccountID(publicKey []byte) [AccountIDSize]byte {
	sha256Hash := sha256.Sum256(publicKey)

	ripemd160Hasher := ripemd160.New()
	ripemd160Hasher.Write(sha256Hash[:])
	ripemd160Hash := ripemd160Hasher.Sum(nil)

	var result [AccountIDSize]byte
	copy(result[:], ripemd160Hash)
	return result
}
