package rpc

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"signet/core"
	"signet/core/types"
	"signet/crypto"
	"signet/storage"
)

type testEnv struct {
	server    *httptest.Server
	senderKey *crypto.PrivateKey
	recipient crypto.Address
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	senderKey, err := crypto.GeneratePrivateKey()
	require.NoError(t, err)
	recipientKey, err := crypto.GeneratePrivateKey()
	require.NoError(t, err)

	genesis := &core.GenesisSpec{Alloc: map[string]uint64{
		senderKey.PubKey().Address().String(): 100,
	}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	node, err := core.NewNode(storage.NewLedgerSnapshots(storage.NewMemDB()), genesis, logger)
	require.NoError(t, err)
	node.Start()
	t.Cleanup(node.Close)

	server := httptest.NewServer(NewServer(node, CORSConfig{}).Router())
	t.Cleanup(server.Close)

	return &testEnv{
		server:    server,
		senderKey: senderKey,
		recipient: recipientKey.PubKey().Address(),
	}
}

func (e *testEnv) call(t *testing.T, method string, param any) (*http.Response, *RPCResponse) {
	t.Helper()
	payload, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"method":  method,
		"params":  []any{param},
		"id":      1,
	})
	require.NoError(t, err)

	resp, err := http.Post(e.server.URL, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()

	decoded := &RPCResponse{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(decoded))
	return resp, decoded
}

func (e *testEnv) signedEnvelope(t *testing.T, amount int64, nonce uint64) *types.TxEnvelope {
	t.Helper()
	intent := &types.TransactionIntent{
		Sender:    e.senderKey.PubKey().Address(),
		Recipient: e.recipient,
		Amount:    amount,
		Nonce:     nonce,
	}
	tx, err := types.NewSignedTransaction(intent, e.senderKey)
	require.NoError(t, err)
	return &types.TxEnvelope{
		Intent: &types.IntentEnvelope{
			Sender:    intent.Sender.String(),
			Recipient: intent.Recipient.String(),
			Amount:    &intent.Amount,
			Nonce:     &intent.Nonce,
		},
		Signature:   "0x" + hex.EncodeToString(tx.Signature),
		MessageHash: "0x" + hex.EncodeToString(tx.Hash),
	}
}

func decodeRejection(t *testing.T, rpcErr *RPCError) *rejectionData {
	t.Helper()
	require.NotNil(t, rpcErr)
	raw, err := json.Marshal(rpcErr.Data)
	require.NoError(t, err)
	data := &rejectionData{}
	require.NoError(t, json.Unmarshal(raw, data))
	return data
}

func TestGetBalance(t *testing.T) {
	env := newTestEnv(t)

	resp, decoded := env.call(t, "ledger_getBalance", env.senderKey.PubKey().Address().String())
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Nil(t, decoded.Error)
	require.Equal(t, float64(100), decoded.Result)

	resp, decoded = env.call(t, "ledger_getBalance", "0x123")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "INVALID_ADDRESS", decodeRejection(t, decoded.Error).Code)
}

func TestGetNonce(t *testing.T) {
	env := newTestEnv(t)

	resp, decoded := env.call(t, "ledger_getNonce", env.senderKey.PubKey().Address().String())
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Nil(t, decoded.Error)
	require.Equal(t, float64(0), decoded.Result)
}

func TestSendTransaction(t *testing.T) {
	env := newTestEnv(t)

	resp, decoded := env.call(t, "ledger_sendTransaction", env.signedEnvelope(t, 30, 1))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Nil(t, decoded.Error)

	raw, err := json.Marshal(decoded.Result)
	require.NoError(t, err)
	receipt := &types.Receipt{}
	require.NoError(t, json.Unmarshal(raw, receipt))
	require.Equal(t, uint64(70), receipt.SenderBalance)
	require.Equal(t, uint64(1), receipt.NewNonce)
	require.Equal(t, env.recipient.String(), receipt.Recipient.Address)
	require.Equal(t, uint64(30), receipt.Recipient.NewBalance)
}

func TestSendTransactionReplayRejected(t *testing.T) {
	env := newTestEnv(t)
	payload := env.signedEnvelope(t, 30, 1)

	resp, _ := env.call(t, "ledger_sendTransaction", payload)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, decoded := env.call(t, "ledger_sendTransaction", payload)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	rejection := decodeRejection(t, decoded.Error)
	require.Equal(t, "INVALID_NONCE", rejection.Code)
	require.Equal(t, float64(2), rejection.Details["expected"])
	require.Equal(t, float64(1), rejection.Details["received"])
}

// An authentication failure is distinguished from validation failures at the
// transport boundary.
func TestSendTransactionWrongSignerMapsToUnauthorized(t *testing.T) {
	env := newTestEnv(t)
	impostor, err := crypto.GeneratePrivateKey()
	require.NoError(t, err)

	intent := &types.TransactionIntent{
		Sender:    env.senderKey.PubKey().Address(),
		Recipient: env.recipient,
		Amount:    30,
		Nonce:     1,
	}
	tx, err := types.NewSignedTransaction(intent, impostor)
	require.NoError(t, err)

	resp, decoded := env.call(t, "ledger_sendTransaction", &types.TxEnvelope{
		Intent: &types.IntentEnvelope{
			Sender:    intent.Sender.String(),
			Recipient: intent.Recipient.String(),
			Amount:    &intent.Amount,
			Nonce:     &intent.Nonce,
		},
		Signature:   "0x" + hex.EncodeToString(tx.Signature),
		MessageHash: "0x" + hex.EncodeToString(tx.Hash),
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, codeUnauthorized, decoded.Error.Code)
	require.Equal(t, "INVALID_SIGNATURE", decodeRejection(t, decoded.Error).Code)
}

func TestSendTransactionInsufficientFunds(t *testing.T) {
	env := newTestEnv(t)

	resp, decoded := env.call(t, "ledger_sendTransaction", env.signedEnvelope(t, 200, 1))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	rejection := decodeRejection(t, decoded.Error)
	require.Equal(t, "INSUFFICIENT_FUNDS", rejection.Code)
	require.Equal(t, float64(200), rejection.Details["required"])
	require.Equal(t, float64(100), rejection.Details["available"])
}

func TestMethodNotFound(t *testing.T) {
	env := newTestEnv(t)
	resp, decoded := env.call(t, "ledger_unknown", "x")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, codeMethodNotFound, decoded.Error.Code)
}

func TestInvalidParams(t *testing.T) {
	env := newTestEnv(t)
	payload := []byte(`{"jsonrpc":"2.0","method":"ledger_getBalance","params":[],"id":1}`)
	resp, err := http.Post(env.server.URL, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	decoded := &RPCResponse{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(decoded))
	require.Equal(t, codeInvalidParams, decoded.Error.Code)
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t)
	resp, err := http.Get(env.server.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
