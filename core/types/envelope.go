package types

// TxEnvelope is the wire shape of a submitted transaction, before any
// validation has run. Fields stay loosely typed on purpose: the pipeline
// decides which rule a malformed submission violates, and in which order, so
// parsing must not reject anything the pipeline wants to report precisely.
type TxEnvelope struct {
	Intent      *IntentEnvelope `json:"intent"`
	Signature   string          `json:"signature"`
	MessageHash string          `json:"messageHash"`
}

// IntentEnvelope mirrors TransactionIntent with presence-preserving fields.
// Amount and Nonce are pointers so "absent" and "zero" stay distinguishable.
type IntentEnvelope struct {
	Sender    string  `json:"sender"`
	Recipient string  `json:"recipient"`
	Amount    *int64  `json:"amount"`
	Nonce     *uint64 `json:"nonce"`
}

// Receipt reports the post-commit state relevant to the submitting client.
type Receipt struct {
	SenderBalance uint64           `json:"senderBalance"`
	NewNonce      uint64           `json:"newNonce"`
	Recipient     ReceiptRecipient `json:"recipient"`
}

// ReceiptRecipient carries the credited side of a committed transfer.
type ReceiptRecipient struct {
	Address    string `json:"address"`
	NewBalance uint64 `json:"newBalance"`
}
