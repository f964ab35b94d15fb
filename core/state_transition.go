package core

import (
	"bytes"
	"encoding/hex"
	"strings"

	coreerr "signet/core/errors"
	"signet/core/state"
	"signet/core/types"
	"signet/crypto"
)

// StateProcessor runs the ordered validation pipeline over one submitted
// transaction and, on full success, applies the balance transfer and nonce
// advance against the ledger. The check order is part of the observable
// contract: a malformed submission reports the FIRST violated rule.
//
// Callers serialize ApplyTransaction per ledger; see Node.
type StateProcessor struct {
	ledger *state.Ledger
}

func NewStateProcessor(ledger *state.Ledger) *StateProcessor {
	return &StateProcessor{ledger: ledger}
}

func (sp *StateProcessor) Ledger() *state.Ledger {
	return sp.ledger
}

// ApplyTransaction validates env through every pipeline stage and commits the
// transfer. On any rejection the ledger is left untouched.
func (sp *StateProcessor) ApplyTransaction(env *types.TxEnvelope) (*types.Receipt, error) {
	// 1. Presence. Absent envelope fields short-circuit before any parsing.
	if env == nil || env.Intent == nil || env.Signature == "" || env.MessageHash == "" {
		return nil, coreerr.MissingFields()
	}
	raw := env.Intent
	if raw.Sender == "" || raw.Recipient == "" || raw.Amount == nil || raw.Nonce == nil {
		return nil, coreerr.MissingFields()
	}

	// 2. Address format, sender before recipient.
	sender, err := crypto.ParseAddress(raw.Sender)
	if err != nil {
		return nil, coreerr.InvalidAddress("sender", raw.Sender)
	}
	recipient, err := crypto.ParseAddress(raw.Recipient)
	if err != nil {
		return nil, coreerr.InvalidAddress("recipient", raw.Recipient)
	}

	// 3. Self-transfer. ParseAddress already case-normalized both sides.
	if sender == recipient {
		return nil, coreerr.SelfTransfer()
	}

	// 4. Amount bounds.
	amount := *raw.Amount
	if amount <= 0 || amount > types.MaxTransferAmount {
		return nil, coreerr.InvalidAmount(amount)
	}

	// 5. Nonce.
	nonce := *raw.Nonce
	if err := sp.ledger.CheckNonce(sender, nonce); err != nil {
		return nil, err
	}

	intent := &types.TransactionIntent{
		Sender:    sender,
		Recipient: recipient,
		Amount:    amount,
		Nonce:     nonce,
	}

	// 6. Hash integrity: the supplied hash must equal the canonical hash of
	// the intent as submitted. Detects post-signing tampering.
	suppliedHash, err := decodeHex(env.MessageHash)
	if err != nil || !bytes.Equal(suppliedHash, intent.Hash()) {
		return nil, coreerr.InvalidHash()
	}

	// 7. Signature authenticity: the recovered signer must be the claimed
	// sender. Recovery failures are indistinguishable from wrong-key
	// signatures to the caller.
	sig, err := decodeHex(env.Signature)
	if err != nil {
		return nil, coreerr.InvalidSignature(err)
	}
	signer, err := crypto.RecoverAddress(suppliedHash, sig)
	if err != nil {
		return nil, coreerr.InvalidSignature(err)
	}
	if signer != sender {
		return nil, coreerr.InvalidSignature(nil)
	}

	// 8-9. Funds and commit. Transfer applies nothing on insufficient
	// funds, so transfer + nonce advance stay one atomic unit under the
	// caller's lock.
	if err := sp.ledger.Transfer(sender, recipient, uint64(amount)); err != nil {
		return nil, err
	}
	newNonce := sp.ledger.AdvanceNonce(sender)

	return &types.Receipt{
		SenderBalance: sp.ledger.BalanceOf(sender),
		NewNonce:      newNonce,
		Recipient: types.ReceiptRecipient{
			Address:    recipient.String(),
			NewBalance: sp.ledger.BalanceOf(recipient),
		},
	}, nil
}

func decodeHex(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	return hex.DecodeString(s)
}
