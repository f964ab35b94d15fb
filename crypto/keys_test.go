package crypto

import (
	"strings"
	"testing"
)

func TestAddressTextRoundTrip(t *testing.T) {
	key, err := GeneratePrivateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	addr := key.PubKey().Address()

	text := addr.String()
	if len(text) != 42 || !strings.HasPrefix(text, "0x") {
		t.Fatalf("unexpected address form %q", text)
	}
	if text != strings.ToLower(text) {
		t.Fatalf("address not lowercase: %q", text)
	}

	parsed, err := ParseAddress(text)
	if err != nil {
		t.Fatalf("parse canonical form: %v", err)
	}
	if parsed != addr {
		t.Fatalf("round trip mismatch: %s vs %s", parsed, addr)
	}

	upper, err := ParseAddress("0x" + strings.ToUpper(text[2:]))
	if err != nil {
		t.Fatalf("parse uppercase form: %v", err)
	}
	if upper != addr {
		t.Fatalf("case-insensitive parse mismatch")
	}
}

func TestIsHexAddress(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"0x" + strings.Repeat("ab", 20), true},
		{"0x" + strings.Repeat("AB", 20), true},
		{"0X" + strings.Repeat("ab", 20), true},
		{strings.Repeat("ab", 21), false},
		{"0x" + strings.Repeat("ab", 19), false},
		{"0x" + strings.Repeat("ab", 21), false},
		{"0x" + strings.Repeat("ab", 19) + "zz", false},
		{"", false},
		{"0x", false},
	}
	for _, tc := range tests {
		if got := IsHexAddress(tc.input); got != tc.want {
			t.Errorf("IsHexAddress(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestPrivateKeyBytesRoundTrip(t *testing.T) {
	key, err := GeneratePrivateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	restored, err := PrivateKeyFromBytes(key.Bytes())
	if err != nil {
		t.Fatalf("restore key: %v", err)
	}
	if restored.PubKey().Address() != key.PubKey().Address() {
		t.Fatalf("restored key derives a different address")
	}
}

func TestUncompressedBytesShape(t *testing.T) {
	key, err := GeneratePrivateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	pub := key.PubKey().UncompressedBytes()
	if len(pub) != 65 {
		t.Fatalf("expected 65-byte point, got %d", len(pub))
	}
	if pub[0] != 0x04 {
		t.Fatalf("expected 0x04 prefix, got %#x", pub[0])
	}
}
