package crypto

import (
	"errors"
	"fmt"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// SignatureLength is the byte length of a recoverable signature: 64 bytes of
// (r ‖ s) followed by a 1-byte recovery id. The recovery id is the LAST byte,
// matching the secp256k1 convention used by the signing backend.
const SignatureLength = 65

// ErrInvalidSignatureLength is returned when a signature is not exactly 65 bytes.
var ErrInvalidSignatureLength = errors.New("signature must be 65 bytes")

// Sign produces a recoverable signature over an already-hashed 32-byte digest.
// The digest is signed as-is; it is never hashed again.
func Sign(digest []byte, key *PrivateKey) ([]byte, error) {
	if len(digest) != 32 {
		return nil, fmt.Errorf("digest must be 32 bytes, got %d", len(digest))
	}
	return ethcrypto.Sign(digest, key.PrivateKey)
}

// RecoverPublicKey reconstructs the signer's public key from a 65-byte
// recoverable signature and the digest it was produced over. Recovery ids
// 27/28 are normalized to 0/1 before recovery.
func RecoverPublicKey(digest, sig []byte) (*PublicKey, error) {
	if len(sig) != SignatureLength {
		return nil, ErrInvalidSignatureLength
	}
	if len(digest) != 32 {
		return nil, fmt.Errorf("digest must be 32 bytes, got %d", len(digest))
	}
	normalized := sig
	if v := sig[64]; v == 27 || v == 28 {
		normalized = append(append([]byte(nil), sig[:64]...), v-27)
	}
	if normalized[64] > 1 {
		return nil, fmt.Errorf("invalid recovery id %d", normalized[64])
	}
	pub, err := ethcrypto.SigToPub(digest, normalized)
	if err != nil {
		return nil, fmt.Errorf("recover public key: %w", err)
	}
	return &PublicKey{pub}, nil
}

// RecoverAddress recovers the signer's address directly.
func RecoverAddress(digest, sig []byte) (Address, error) {
	pub, err := RecoverPublicKey(digest, sig)
	if err != nil {
		return Address{}, err
	}
	return pub.Address(), nil
}
