package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// RPCRequest is the JSON-RPC 2.0 request envelope used for all Solana calls.
type RPCRequest struct {
	Jsonrpc string        `json:"jsonrpc"`
	ID      string        `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params,omitempty"`
}

// RPCResponse is the JSON-RPC 2.0 response envelope.
type RPCResponse struct {
	Jsonrpc string          `json:"jsonrpc"`
	ID      string          `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *RPCError       `json:"error,omitempty"`
}

// RPCError carries the structured error returned by the RPC node. It
// implements error so callers can classify on the code instead of scraping
// the rendered message.
type RPCError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("RPC error: %d - %s", e.Code, e.Message)
}

// TransferEvent represents a confirmed native transfer submitted through one
// of the wallet providers.
type TransferEvent struct {
	Provider    string    `json:"provider"`
	From        string    `json:"from"`
	To          string    `json:"to"`
	Amount      string    `json:"amount"`
	Signature   string    `json:"signature"`
	Timestamp   time.Time `json:"timestamp"`
	ExplorerURL string    `json:"explorerUrl"`
}
