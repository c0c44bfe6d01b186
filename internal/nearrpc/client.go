// Package nearrpc speaks the single NEAR JSON-RPC method the wallet needs.
package nearrpc

import (
	"context"
	"encoding/json"
	"fmt"

	clierr "github.com/ggonzalez94/nearcli-wallet/internal/errors"
	"github.com/ggonzalez94/nearcli-wallet/internal/httpx"
	"github.com/google/uuid"
)

// WaitUntilNone asks the node to answer immediately instead of blocking
// until the transaction reaches a finality level.
const WaitUntilNone = "NONE"

type request struct {
	JSONRPC string   `json:"jsonrpc"`
	ID      string   `json:"id"`
	Method  string   `json:"method"`
	Params  txParams `json:"params"`
}

type txParams struct {
	TxHash          string `json:"tx_hash"`
	SenderAccountID string `json:"sender_account_id"`
	WaitUntil       string `json:"wait_until"`
}

type response struct {
	Result json.RawMessage `json:"result"`
	Error  json.RawMessage `json:"error"`
}

// RPCError is the error envelope returned by the node.
type RPCError struct {
	Name    string          `json:"name"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Cause   json.RawMessage `json:"cause"`
	raw     string
}

func (e *RPCError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.raw
}

type Client struct {
	http *httpx.Client
}

func New(http *httpx.Client) *Client {
	return &Client{http: http}
}

// TxStatus queries the execution outcome of txHash signed by signerID. An
// error envelope from the node is returned as *RPCError.
func (c *Client) TxStatus(ctx context.Context, rpcURL, txHash, signerID string) (json.RawMessage, error) {
	req := request{
		JSONRPC: "2.0",
		ID:      uuid.NewString(),
		Method:  "tx",
		Params: txParams{
			TxHash:          txHash,
			SenderAccountID: signerID,
			WaitUntil:       WaitUntilNone,
		},
	}
	var resp response
	if err := c.http.PostJSON(ctx, rpcURL, req, &resp); err != nil {
		return nil, err
	}
	if len(resp.Error) > 0 && string(resp.Error) != "null" {
		rpcErr := &RPCError{raw: string(resp.Error)}
		if err := json.Unmarshal(resp.Error, rpcErr); err != nil {
			return nil, clierr.Wrap(clierr.CodeUnavailable, "decode rpc error", err)
		}
		return nil, rpcErr
	}
	if len(resp.Result) == 0 || string(resp.Result) == "null" {
		return nil, clierr.New(clierr.CodeUnavailable, fmt.Sprintf("rpc returned no result for %s", txHash))
	}
	return resp.Result, nil
}
