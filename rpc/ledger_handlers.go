package rpc

import (
	"net/http"

	"signet/core/types"
)

func (s *Server) handleGetBalance(w http.ResponseWriter, req *RPCRequest) {
	var address string
	if err := singleParam(req, &address); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "expected a single address parameter", nil)
		return
	}
	balance, err := s.node.GetBalance(address)
	if err != nil {
		writeTxError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, balance)
}

func (s *Server) handleGetNonce(w http.ResponseWriter, req *RPCRequest) {
	var address string
	if err := singleParam(req, &address); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "expected a single address parameter", nil)
		return
	}
	nonce, err := s.node.GetNonce(address)
	if err != nil {
		writeTxError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, nonce)
}

func (s *Server) handleSendTransaction(w http.ResponseWriter, req *RPCRequest) {
	env := &types.TxEnvelope{}
	if err := singleParam(req, env); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "expected a single signed transaction parameter", nil)
		return
	}
	receipt, err := s.node.SubmitTransaction(env)
	if err != nil {
		writeTxError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, receipt)
}
