package core

import (
	"encoding/json"
	"fmt"
	"os"

	"signet/core/state"
	"signet/crypto"
)

// GenesisSpec is the initial balance allocation applied to an empty ledger.
// Addresses use the canonical 0x-hex form; nonces always start at zero.
type GenesisSpec struct {
	Alloc map[string]uint64 `json:"alloc"`
}

// LoadGenesisSpec reads an allocation file from disk.
func LoadGenesisSpec(path string) (*GenesisSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read genesis file: %w", err)
	}
	spec := &GenesisSpec{}
	if err := json.Unmarshal(data, spec); err != nil {
		return nil, fmt.Errorf("parse genesis file %s: %w", path, err)
	}
	return spec, nil
}

// Apply credits every allocation entry. Fails on the first malformed address
// without touching the ledger.
func (g *GenesisSpec) Apply(ledger *state.Ledger) error {
	parsed := make(map[crypto.Address]uint64, len(g.Alloc))
	for s, amount := range g.Alloc {
		addr, err := crypto.ParseAddress(s)
		if err != nil {
			return fmt.Errorf("genesis alloc: %w", err)
		}
		parsed[addr] = amount
	}
	for addr, amount := range parsed {
		ledger.Credit(addr, amount)
	}
	return nil
}
