package state

import (
	"fmt"

	coreerr "signet/core/errors"
	"signet/crypto"
)

// Ledger holds the two co-located account mappings: balances and nonces.
// Unseen addresses read as zero for both. The Ledger is not self-locking;
// callers serialize access (the node holds one mutex across the whole
// validate-then-commit sequence).
type Ledger struct {
	balances map[crypto.Address]uint64
	nonces   map[crypto.Address]uint64
}

func NewLedger() *Ledger {
	return &Ledger{
		balances: make(map[crypto.Address]uint64),
		nonces:   make(map[crypto.Address]uint64),
	}
}

// BalanceOf returns the balance of addr, zero when unseen.
func (l *Ledger) BalanceOf(addr crypto.Address) uint64 {
	return l.balances[addr]
}

// NonceOf returns the last committed nonce of addr, zero when unseen.
func (l *Ledger) NonceOf(addr crypto.Address) uint64 {
	return l.nonces[addr]
}

// CheckNonce validates a submitted nonce: it must equal the last committed
// nonce plus one.
func (l *Ledger) CheckNonce(addr crypto.Address, submitted uint64) error {
	expected := l.nonces[addr] + 1
	if submitted != expected {
		return coreerr.InvalidNonce(expected, submitted)
	}
	return nil
}

// Transfer debits from and credits to by amount as one step. On
// InsufficientFunds no mutation is applied.
func (l *Ledger) Transfer(from, to crypto.Address, amount uint64) error {
	available := l.balances[from]
	if available < amount {
		return coreerr.InsufficientFunds(amount, available)
	}
	l.balances[from] = available - amount
	l.balances[to] += amount
	return nil
}

// AdvanceNonce increments the committed nonce of addr and returns the new
// value. Callers pair this with Transfer inside one commit scope.
func (l *Ledger) AdvanceNonce(addr crypto.Address) uint64 {
	l.nonces[addr]++
	return l.nonces[addr]
}

// Credit adds amount to addr. Used by genesis allocation only.
func (l *Ledger) Credit(addr crypto.Address, amount uint64) {
	l.balances[addr] += amount
}

// Snapshot is the persisted form of the ledger, keyed by canonical address
// strings so the on-disk encoding is stable and human-readable.
type Snapshot struct {
	Balances map[string]uint64 `json:"balances"`
	Nonces   map[string]uint64 `json:"nonces"`
}

// Snapshot copies the current state into a persistable form.
func (l *Ledger) Snapshot() *Snapshot {
	snap := &Snapshot{
		Balances: make(map[string]uint64, len(l.balances)),
		Nonces:   make(map[string]uint64, len(l.nonces)),
	}
	for addr, bal := range l.balances {
		snap.Balances[addr.String()] = bal
	}
	for addr, nonce := range l.nonces {
		snap.Nonces[addr.String()] = nonce
	}
	return snap
}

// Restore replaces the ledger contents with a previously taken snapshot.
func (l *Ledger) Restore(snap *Snapshot) error {
	if snap == nil {
		return fmt.Errorf("nil snapshot")
	}
	balances := make(map[crypto.Address]uint64, len(snap.Balances))
	for s, bal := range snap.Balances {
		addr, err := crypto.ParseAddress(s)
		if err != nil {
			return fmt.Errorf("restore balances: %w", err)
		}
		balances[addr] = bal
	}
	nonces := make(map[crypto.Address]uint64, len(snap.Nonces))
	for s, nonce := range snap.Nonces {
		addr, err := crypto.ParseAddress(s)
		if err != nil {
			return fmt.Errorf("restore nonces: %w", err)
		}
		nonces[addr] = nonce
	}
	l.balances = balances
	l.nonces = nonces
	return nil
}
