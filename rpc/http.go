package rpc

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"signet/core"
	coreerr "signet/core/errors"
)

const (
	jsonRPCVersion  = "2.0"
	maxRequestBytes = 1 << 20 // 1 MiB
)

const (
	codeParseError     = -32700
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeUnauthorized   = -32001
	codeServerError    = -32000
	codeTxRejected     = -32010
)

type Server struct {
	node *core.Node
	cors CORSConfig
}

func NewServer(node *core.Node, cors CORSConfig) *Server {
	return &Server{node: node, cors: cors}
}

// Router mounts the JSON-RPC endpoint plus health and metrics surfaces.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(CORS(s.cors))
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Post("/", s.handle)
	return r
}

func (s *Server) Start(addr string) error {
	return http.ListenAndServe(addr, s.Router())
}

type RPCRequest struct {
	JSONRPC string            `json:"jsonrpc"`
	Method  string            `json:"method"`
	Params  []json.RawMessage `json:"params"`
	ID      interface{}       `json:"id"`
}

type RPCResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *RPCError   `json:"error,omitempty"`
}

type RPCError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBytes+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, nil, codeParseError, "failed to read request body", nil)
		return
	}
	if len(body) > maxRequestBytes {
		writeError(w, http.StatusRequestEntityTooLarge, nil, codeInvalidRequest, "request body too large", nil)
		return
	}

	var req RPCRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, nil, codeParseError, "invalid JSON", nil)
		return
	}
	if req.JSONRPC != "" && req.JSONRPC != jsonRPCVersion {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidRequest, "unsupported JSON-RPC version", nil)
		return
	}

	switch req.Method {
	case "ledger_getBalance":
		s.handleGetBalance(w, &req)
	case "ledger_getNonce":
		s.handleGetNonce(w, &req)
	case "ledger_sendTransaction":
		s.handleSendTransaction(w, &req)
	default:
		writeError(w, http.StatusNotFound, req.ID, codeMethodNotFound, "method not found", nil)
	}
}

func writeError(w http.ResponseWriter, status int, id interface{}, code int, message string, data interface{}) {
	if status <= 0 {
		status = http.StatusBadRequest
	}
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	errObj := &RPCError{Code: code, Message: message}
	if data != nil {
		errObj.Data = data
	}
	resp := RPCResponse{JSONRPC: jsonRPCVersion, ID: id, Error: errObj}
	_ = json.NewEncoder(w).Encode(resp)
}

func writeResult(w http.ResponseWriter, id interface{}, result interface{}) {
	resp := RPCResponse{JSONRPC: jsonRPCVersion, ID: id, Result: result}
	_ = json.NewEncoder(w).Encode(resp)
}

// rejectionData is the structured failure surfaced to callers: the taxonomy
// code plus optional expected/received or required/available diagnostics.
type rejectionData struct {
	Code    string         `json:"code"`
	Details map[string]any `json:"details,omitempty"`
}

// writeTxError maps a pipeline rejection onto the transport. INVALID_SIGNATURE
// is the authentication failure and maps to 401; INTERNAL_ERROR to 500 with no
// internal specifics; everything else is an input-validation 400.
func writeTxError(w http.ResponseWriter, id interface{}, err error) {
	txErr, ok := coreerr.AsTxError(err)
	if !ok {
		txErr = coreerr.Internal(err)
	}
	status := http.StatusBadRequest
	code := codeTxRejected
	message := txErr.Message
	switch txErr.Code {
	case coreerr.CodeInvalidSignature:
		status = http.StatusUnauthorized
		code = codeUnauthorized
	case coreerr.CodeInternal:
		status = http.StatusInternalServerError
		code = codeServerError
		message = "internal error"
	}
	writeError(w, status, id, code, message, &rejectionData{
		Code:    string(txErr.Code),
		Details: txErr.Details,
	})
}

var errParams = errors.New("invalid params")

// singleParam decodes the one positional parameter the ledger methods take.
func singleParam(req *RPCRequest, out interface{}) error {
	if len(req.Params) != 1 {
		return errParams
	}
	if err := json.Unmarshal(req.Params[0], out); err != nil {
		return errParams
	}
	return nil
}
