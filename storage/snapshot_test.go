package storage

import (
	"errors"
	"testing"

	"signet/core/state"
)

func TestMemDBGetMissingKey(t *testing.T) {
	db := NewMemDB()
	if _, err := db.Get([]byte("absent")); !errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}
}

func TestMemDBPutGet(t *testing.T) {
	db := NewMemDB()
	if err := db.Put([]byte("k"), []byte("v")); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, err := db.Get([]byte("k"))
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != "v" {
		t.Fatalf("expected v, got %q", got)
	}
}

func TestLedgerSnapshotsLoadEmpty(t *testing.T) {
	snapshots := NewLedgerSnapshots(NewMemDB())
	snap, err := snapshots.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if snap != nil {
		t.Fatalf("expected nil snapshot for empty store, got %+v", snap)
	}
}

func TestLedgerSnapshotsRoundTrip(t *testing.T) {
	snapshots := NewLedgerSnapshots(NewMemDB())
	in := &state.Snapshot{
		Balances: map[string]uint64{"0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa": 70},
		Nonces:   map[string]uint64{"0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa": 1},
	}
	if err := snapshots.Save(in); err != nil {
		t.Fatalf("save: %v", err)
	}

	out, err := snapshots.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if out == nil {
		t.Fatal("expected snapshot, got nil")
	}
	if out.Balances["0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"] != 70 {
		t.Fatalf("unexpected balances: %v", out.Balances)
	}
	if out.Nonces["0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"] != 1 {
		t.Fatalf("unexpected nonces: %v", out.Nonces)
	}
}

func TestLedgerSnapshotsLoadCorrupt(t *testing.T) {
	db := NewMemDB()
	if err := db.Put(snapshotKey, []byte("{not json")); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, err := NewLedgerSnapshots(db).Load(); err == nil {
		t.Fatal("expected decode failure")
	}
}
