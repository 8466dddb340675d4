package signing

import (
	"context"
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/Peersyst/xrpl-go/keypairs"
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"

	"github.com/LeJamon/goXRPLwallet/internal/protocol"
)

// Signer produces a hex signature over canonical signing bytes.
type Signer interface {
	Sign(ctx context.Context, canonical []byte, keys KeyPair) (string, error)
}

// KeypairSigner signs locally with xrpl-go keypairs and verifies the result
// before returning it.
type KeypairSigner struct{}

// NewKeypairSigner returns a local signer.
func NewKeypairSigner() *KeypairSigner {
	return &KeypairSigner{}
}

// Sign implements Signer.
func (s *KeypairSigner) Sign(ctx context.Context, canonical []byte, keys KeyPair) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if keys.PrivateKey == "" {
		return "", fmt.Errorf("%w: no private key", ErrInvalidKey)
	}
	sig, err := keypairs.Sign(string(canonical), keys.PrivateKey)
	if err != nil {
		return "", fmt.Errorf("sign: %w", err)
	}
	sig = strings.ToUpper(sig)
	if err := Verify(canonical, keys.PublicKey, sig); err != nil {
		return "", err
	}
	return sig, nil
}

// Verify checks a signature over canonical signing bytes and rejects
// signatures that are valid but not in canonical form.
func Verify(canonical []byte, publicKey, signature string) error {
	pub, err := hex.DecodeString(publicKey)
	if err != nil || len(pub) != 33 {
		return fmt.Errorf("%w: public key must be 33 bytes of hex", ErrInvalidKey)
	}
	sig, err := hex.DecodeString(signature)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	if (KeyPair{PublicKey: publicKey}).Algorithm() == Ed25519 {
		if !canonicalEd25519(sig) {
			return fmt.Errorf("%w: non-canonical ed25519 signature", ErrInvalidSignature)
		}
		if !ed25519.Verify(ed25519.PublicKey(pub[1:]), canonical, sig) {
			return fmt.Errorf("%w: ed25519 verification failed", ErrInvalidSignature)
		}
		return nil
	}

	if !fullyCanonicalECDSA(sig) {
		return fmt.Errorf("%w: not a fully canonical DER signature", ErrInvalidSignature)
	}
	key, err := btcec.ParsePubKey(pub)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	parsed, err := ecdsa.ParseDERSignature(sig)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	digest := protocol.Sha512Half(canonical)
	if !parsed.Verify(digest[:], key) {
		return fmt.Errorf("%w: secp256k1 verification failed", ErrInvalidSignature)
	}
	return nil
}
