package crypto

import (
	"crypto/ecdsa"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// AddressLength is the byte length of a ledger address.
const AddressLength = 20

// Address is a 20-byte account identifier derived from a secp256k1 public key.
type Address [AddressLength]byte

// String renders the canonical textual form: 0x followed by 40 lowercase hex digits.
func (a Address) String() string {
	return "0x" + hex.EncodeToString(a[:])
}

func (a Address) Bytes() []byte {
	return a[:]
}

// ParseAddress decodes a textual address. Input hex digits may be any case;
// the parsed Address is canonical.
func ParseAddress(s string) (Address, error) {
	var addr Address
	if !IsHexAddress(s) {
		return addr, fmt.Errorf("invalid address %q", s)
	}
	b, err := hex.DecodeString(strings.ToLower(s[2:]))
	if err != nil {
		return addr, fmt.Errorf("invalid address %q: %w", s, err)
	}
	copy(addr[:], b)
	return addr, nil
}

// IsHexAddress reports whether s is 0x followed by exactly 40 hex digits.
func IsHexAddress(s string) bool {
	if len(s) != 2+2*AddressLength {
		return false
	}
	if s[0] != '0' || (s[1] != 'x' && s[1] != 'X') {
		return false
	}
	for _, c := range s[2:] {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

// --- Key Management ---

type PrivateKey struct {
	*ecdsa.PrivateKey
}

type PublicKey struct {
	*ecdsa.PublicKey
}

func GeneratePrivateKey() (*PrivateKey, error) {
	key, err := ecdsa.GenerateKey(ethcrypto.S256(), rand.Reader)
	if err != nil {
		return nil, err
	}
	return &PrivateKey{key}, nil
}

// Bytes returns the 32-byte scalar of the private key.
func (k *PrivateKey) Bytes() []byte {
	return ethcrypto.FromECDSA(k.PrivateKey)
}

func (k *PrivateKey) PubKey() *PublicKey {
	return &PublicKey{&k.PrivateKey.PublicKey}
}

func PrivateKeyFromBytes(b []byte) (*PrivateKey, error) {
	key, err := ethcrypto.ToECDSA(b)
	if err != nil {
		return nil, err
	}
	return &PrivateKey{key}, nil
}

// Address derives the account address: Keccak256 of the 64-byte uncompressed
// point (prefix byte dropped), low-order 20 bytes.
func (k *PublicKey) Address() Address {
	var addr Address
	copy(addr[:], ethcrypto.PubkeyToAddress(*k.PublicKey).Bytes())
	return addr
}

// UncompressedBytes returns the 65-byte uncompressed point (0x04 ‖ X ‖ Y).
func (k *PublicKey) UncompressedBytes() []byte {
	return ethcrypto.FromECDSAPub(k.PublicKey)
}
