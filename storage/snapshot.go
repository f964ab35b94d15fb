package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	"signet/core/state"
)

var snapshotKey = []byte("ledger/snapshot")

// LedgerSnapshots persists the ledger snapshot as a single JSON value.
// Implements core.SnapshotStore.
type LedgerSnapshots struct {
	db Database
}

func NewLedgerSnapshots(db Database) *LedgerSnapshots {
	return &LedgerSnapshots{db: db}
}

// Load returns the stored snapshot, or nil when none has been saved yet.
func (s *LedgerSnapshots) Load() (*state.Snapshot, error) {
	data, err := s.db.Get(snapshotKey)
	if errors.Is(err, ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	snap := &state.Snapshot{}
	if err := json.Unmarshal(data, snap); err != nil {
		return nil, fmt.Errorf("decode ledger snapshot: %w", err)
	}
	return snap, nil
}

// Save stores the snapshot, replacing any previous one.
func (s *LedgerSnapshots) Save(snap *state.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode ledger snapshot: %w", err)
	}
	return s.db.Put(snapshotKey, data)
}
