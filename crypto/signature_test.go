package crypto

import (
	"errors"
	"testing"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

func testDigest(seed string) []byte {
	return ethcrypto.Keccak256([]byte(seed))
}

func TestSignAndRecoverAddress(t *testing.T) {
	key, err := GeneratePrivateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	digest := testDigest("transfer intent")

	sig, err := Sign(digest, key)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if len(sig) != SignatureLength {
		t.Fatalf("expected %d-byte signature, got %d", SignatureLength, len(sig))
	}
	if sig[64] > 1 {
		t.Fatalf("expected recovery id 0 or 1, got %d", sig[64])
	}

	recovered, err := RecoverAddress(digest, sig)
	if err != nil {
		t.Fatalf("recover: %v", err)
	}
	if recovered != key.PubKey().Address() {
		t.Fatalf("recovered %s, want %s", recovered, key.PubKey().Address())
	}
}

func TestRecoverRejectsBadLength(t *testing.T) {
	digest := testDigest("x")
	if _, err := RecoverPublicKey(digest, make([]byte, 64)); !errors.Is(err, ErrInvalidSignatureLength) {
		t.Fatalf("expected ErrInvalidSignatureLength, got %v", err)
	}
	if _, err := RecoverPublicKey(digest, make([]byte, 66)); !errors.Is(err, ErrInvalidSignatureLength) {
		t.Fatalf("expected ErrInvalidSignatureLength, got %v", err)
	}
}

func TestRecoverNormalizesLegacyRecoveryID(t *testing.T) {
	key, err := GeneratePrivateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	digest := testDigest("legacy v")
	sig, err := Sign(digest, key)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	legacy := append([]byte(nil), sig...)
	legacy[64] += 27
	recovered, err := RecoverAddress(digest, legacy)
	if err != nil {
		t.Fatalf("recover legacy form: %v", err)
	}
	if recovered != key.PubKey().Address() {
		t.Fatalf("recovered %s, want %s", recovered, key.PubKey().Address())
	}
}

func TestRecoverRejectsBadRecoveryID(t *testing.T) {
	key, err := GeneratePrivateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	digest := testDigest("bad v")
	sig, err := Sign(digest, key)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	sig[64] = 5
	if _, err := RecoverPublicKey(digest, sig); err == nil {
		t.Fatal("expected recovery id rejection")
	}
}

func TestRecoverRejectsZeroScalars(t *testing.T) {
	digest := testDigest("zero rs")
	if _, err := RecoverPublicKey(digest, make([]byte, SignatureLength)); err == nil {
		t.Fatal("expected rejection of all-zero signature")
	}
}

func TestDifferentKeysRecoverDifferentAddresses(t *testing.T) {
	a, err := GeneratePrivateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	b, err := GeneratePrivateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	digest := testDigest("shared digest")

	sigB, err := Sign(digest, b)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	recovered, err := RecoverAddress(digest, sigB)
	if err != nil {
		t.Fatalf("recover: %v", err)
	}
	if recovered == a.PubKey().Address() {
		t.Fatal("signature by b recovered a's address")
	}
	if recovered != b.PubKey().Address() {
		t.Fatalf("recovered %s, want %s", recovered, b.PubKey().Address())
	}
}
