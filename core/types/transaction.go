package types

import (
	"bytes"
	"encoding/binary"
	"fmt"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	"signet/crypto"
)

const (
	// IntentEncodingVersion tags the canonical intent encoding. Bump only
	// with a coordinated signer/verifier rollout.
	IntentEncodingVersion byte = 0x01

	// MaxTransferAmount bounds a single transfer. Keeps arithmetic well
	// inside native integer range.
	MaxTransferAmount int64 = 1_000_000
)

// TransactionIntent is the signed payload of a transfer: who pays whom, how
// much, and the sender's next nonce.
type TransactionIntent struct {
	Sender    crypto.Address
	Recipient crypto.Address
	Amount    int64
	Nonce     uint64
}

// CanonicalBytes is the frozen byte serialization the message hash is computed
// over: version byte, sender, recipient, amount as big-endian uint64, nonce as
// big-endian uint64. All fields are fixed width and fixed order, so the
// encoding is reproducible independent of any serializer's key ordering.
func (in *TransactionIntent) CanonicalBytes() []byte {
	buf := make([]byte, 0, 1+2*crypto.AddressLength+16)
	buf = append(buf, IntentEncodingVersion)
	buf = append(buf, in.Sender[:]...)
	buf = append(buf, in.Recipient[:]...)
	buf = binary.BigEndian.AppendUint64(buf, uint64(in.Amount))
	buf = binary.BigEndian.AppendUint64(buf, in.Nonce)
	return buf
}

// Hash returns the 32-byte Keccak256 digest of the canonical encoding. Signer
// and verifier both derive the digest through this function; nothing else may
// feed the signature.
func (in *TransactionIntent) Hash() []byte {
	return ethcrypto.Keccak256(in.CanonicalBytes())
}

// SignedTransaction pairs an intent with the recoverable signature over its
// canonical hash and the hash the client claims to have signed.
type SignedTransaction struct {
	Intent    *TransactionIntent
	Signature []byte
	Hash      []byte
}

// NewSignedTransaction hashes and signs an intent with the supplied key.
// Used by client-side tooling; the serving process only ever verifies.
func NewSignedTransaction(intent *TransactionIntent, key *crypto.PrivateKey) (*SignedTransaction, error) {
	if intent == nil {
		return nil, fmt.Errorf("nil intent")
	}
	digest := intent.Hash()
	sig, err := crypto.Sign(digest, key)
	if err != nil {
		return nil, fmt.Errorf("sign intent: %w", err)
	}
	return &SignedTransaction{Intent: intent, Signature: sig, Hash: digest}, nil
}

// RecoverSender recovers the address that produced the signature over the
// supplied hash.
func (tx *SignedTransaction) RecoverSender() (crypto.Address, error) {
	return crypto.RecoverAddress(tx.Hash, tx.Signature)
}

// VerifyHash reports whether the supplied hash matches the canonical hash of
// the intent.
func (tx *SignedTransaction) VerifyHash() bool {
	if tx.Intent == nil {
		return false
	}
	return bytes.Equal(tx.Hash, tx.Intent.Hash())
}
