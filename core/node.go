package core

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	coreerr "signet/core/errors"
	"signet/core/state"
	"signet/core/types"
	"signet/crypto"
	"signet/observability"
)

// SnapshotStore is the persisted-state boundary. Load returns nil when no
// snapshot exists yet. The node never depends on Save for correctness; a
// failed save is logged and retried on the next commit.
type SnapshotStore interface {
	Load() (*state.Snapshot, error)
	Save(*state.Snapshot) error
}

// Node owns the ledger and serializes every validate-then-commit sequence
// behind one write lock. Balance and nonce reads take the read lock, so they
// never observe a partially applied commit.
type Node struct {
	mu        sync.RWMutex
	state     *StateProcessor
	snapshots SnapshotStore
	logger    *slog.Logger
	metrics   *observability.PipelineMetrics

	saveCh chan struct{}
	quitCh chan struct{}
	doneCh chan struct{}
}

// NewNode restores the ledger from the snapshot store, or applies the genesis
// allocation when the store is empty. genesis may be nil.
func NewNode(snapshots SnapshotStore, genesis *GenesisSpec, logger *slog.Logger) (*Node, error) {
	if logger == nil {
		logger = slog.Default()
	}
	ledger := state.NewLedger()

	snap, err := snapshots.Load()
	if err != nil {
		return nil, fmt.Errorf("load ledger snapshot: %w", err)
	}
	switch {
	case snap != nil:
		if err := ledger.Restore(snap); err != nil {
			return nil, fmt.Errorf("restore ledger snapshot: %w", err)
		}
		logger.Info("ledger restored from snapshot",
			slog.Int("accounts", len(snap.Balances)))
	case genesis != nil:
		if err := genesis.Apply(ledger); err != nil {
			return nil, fmt.Errorf("apply genesis allocation: %w", err)
		}
		logger.Info("ledger initialized from genesis",
			slog.Int("accounts", len(genesis.Alloc)))
	default:
		logger.Info("ledger initialized empty")
	}

	return &Node{
		state:     NewStateProcessor(ledger),
		snapshots: snapshots,
		logger:    logger,
		metrics:   observability.Metrics(),
		saveCh:    make(chan struct{}, 1),
		quitCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}, nil
}

// Start launches the background snapshot writer.
func (n *Node) Start() {
	go n.snapshotLoop()
}

// Close stops the snapshot writer after flushing any pending save.
func (n *Node) Close() {
	close(n.quitCh)
	<-n.doneCh
}

// SubmitTransaction runs the full pipeline under the write lock and, on
// success, schedules a background snapshot save.
func (n *Node) SubmitTransaction(env *types.TxEnvelope) (*types.Receipt, error) {
	start := time.Now()

	n.mu.Lock()
	receipt, err := n.state.ApplyTransaction(env)
	n.mu.Unlock()

	if err != nil {
		txErr, ok := coreerr.AsTxError(err)
		if !ok {
			txErr = coreerr.Internal(err)
		}
		if txErr.Code == coreerr.CodeInternal {
			n.logger.Error("transaction failed", slog.Any("error", err))
		} else {
			n.logger.Info("transaction rejected", slog.String("code", string(txErr.Code)))
		}
		n.metrics.RecordRejected(string(txErr.Code))
		return nil, txErr
	}

	n.metrics.RecordCommitted(time.Since(start))
	n.logger.Info("transaction committed",
		slog.String("recipient", receipt.Recipient.Address),
		slog.Uint64("nonce", receipt.NewNonce))
	n.scheduleSnapshot()
	return receipt, nil
}

// GetBalance validates the address format and reads the committed balance.
func (n *Node) GetBalance(address string) (uint64, error) {
	addr, err := crypto.ParseAddress(address)
	if err != nil {
		return 0, coreerr.InvalidAddress("account", address)
	}
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.state.Ledger().BalanceOf(addr), nil
}

// GetNonce validates the address format and reads the last committed nonce.
func (n *Node) GetNonce(address string) (uint64, error) {
	addr, err := crypto.ParseAddress(address)
	if err != nil {
		return 0, coreerr.InvalidAddress("account", address)
	}
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.state.Ledger().NonceOf(addr), nil
}

// scheduleSnapshot coalesces save requests: one pending signal is enough, the
// writer always persists the latest state.
func (n *Node) scheduleSnapshot() {
	select {
	case n.saveCh <- struct{}{}:
	default:
	}
}

func (n *Node) snapshotLoop() {
	defer close(n.doneCh)
	for {
		select {
		case <-n.saveCh:
			n.persistSnapshot()
		case <-n.quitCh:
			select {
			case <-n.saveCh:
				n.persistSnapshot()
			default:
			}
			return
		}
	}
}

func (n *Node) persistSnapshot() {
	n.mu.RLock()
	snap := n.state.Ledger().Snapshot()
	n.mu.RUnlock()

	if err := n.snapshots.Save(snap); err != nil {
		n.metrics.RecordSnapshotFailure()
		n.logger.Error("snapshot save failed", slog.Any("error", err))
	}
}
