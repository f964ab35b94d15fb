package errors

import (
	stderrors "errors"
	"fmt"
)

// Code identifies the first pipeline rule a rejected transaction violated.
// Codes are part of the wire contract and never change meaning.
type Code string

const (
	CodeMissingFields     Code = "MISSING_FIELDS"
	CodeInvalidAddress    Code = "INVALID_ADDRESS"
	CodeSelfTransfer      Code = "SELF_TRANSFER"
	CodeInvalidAmount     Code = "INVALID_AMOUNT"
	CodeInvalidNonce      Code = "INVALID_NONCE"
	CodeInvalidHash       Code = "INVALID_HASH"
	CodeInvalidSignature  Code = "INVALID_SIGNATURE"
	CodeInsufficientFunds Code = "INSUFFICIENT_FUNDS"
	CodeInternal          Code = "INTERNAL_ERROR"
)

// TxError is the structured rejection returned by the validation pipeline.
// Details optionally carries diagnostic pairs (expected/received,
// required/available). Cause holds the underlying error for internal logging
// and is never serialized to callers.
type TxError struct {
	Code    Code
	Message string
	Details map[string]any
	Cause   error
}

func (e *TxError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *TxError) Unwrap() error {
	return e.Cause
}

// New builds a TxError with no diagnostic details.
func New(code Code, message string) *TxError {
	return &TxError{Code: code, Message: message}
}

// MissingFields reports an envelope with absent required fields.
func MissingFields() *TxError {
	return New(CodeMissingFields, "transaction, signature and message hash are required")
}

// InvalidAddress reports a malformed sender or recipient address.
func InvalidAddress(field, value string) *TxError {
	return &TxError{
		Code:    CodeInvalidAddress,
		Message: fmt.Sprintf("invalid %s address", field),
		Details: map[string]any{"field": field, "value": value},
	}
}

// SelfTransfer reports sender == recipient.
func SelfTransfer() *TxError {
	return New(CodeSelfTransfer, "sender and recipient must differ")
}

// InvalidAmount reports an amount outside (0, MaxTransferAmount].
func InvalidAmount(amount int64) *TxError {
	return &TxError{
		Code:    CodeInvalidAmount,
		Message: "amount must be a positive integer within the transfer cap",
		Details: map[string]any{"amount": amount},
	}
}

// InvalidNonce reports a replay or out-of-order nonce. expected is the next
// valid nonce for the sender, received the one submitted.
func InvalidNonce(expected, received uint64) *TxError {
	return &TxError{
		Code:    CodeInvalidNonce,
		Message: fmt.Sprintf("expected nonce %d, received %d", expected, received),
		Details: map[string]any{"expected": expected, "received": received},
	}
}

// InvalidHash reports a supplied message hash that does not match the
// canonical hash of the intent.
func InvalidHash() *TxError {
	return New(CodeInvalidHash, "message hash does not match transaction contents")
}

// InvalidSignature reports a signature that does not recover to the claimed
// sender, or that could not be recovered at all.
func InvalidSignature(cause error) *TxError {
	e := New(CodeInvalidSignature, "signature does not match sender")
	e.Cause = cause
	return e
}

// InsufficientFunds reports a transfer exceeding the sender's balance.
func InsufficientFunds(required, available uint64) *TxError {
	return &TxError{
		Code:    CodeInsufficientFunds,
		Message: fmt.Sprintf("required %d, available %d", required, available),
		Details: map[string]any{"required": required, "available": available},
	}
}

// Internal wraps an unexpected failure. The cause is logged server-side and
// never surfaced to the caller.
func Internal(cause error) *TxError {
	e := New(CodeInternal, "internal error")
	e.Cause = cause
	return e
}

// AsTxError extracts a *TxError from an error chain.
func AsTxError(err error) (*TxError, bool) {
	var txErr *TxError
	if stderrors.As(err, &txErr) {
		return txErr, true
	}
	return nil, false
}
