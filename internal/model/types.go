package model

import (
	"encoding/json"
	"time"
)

const EnvelopeVersion = "v1"

type Envelope struct {
	Version  string       `json:"version"`
	Success  bool         `json:"success"`
	Data     any          `json:"data,omitempty"`
	Error    *ErrorBody   `json:"error"`
	Warnings []string     `json:"warnings,omitempty"`
	Meta     EnvelopeMeta `json:"meta"`
}

type ErrorBody struct {
	Code    int    `json:"code"`
	Type    string `json:"type"`
	Message string `json:"message"`
}

type EnvelopeMeta struct {
	RequestID string    `json:"request_id"`
	Timestamp time.Time `json:"timestamp"`
	Command   string    `json:"command"`
	Network   string    `json:"network,omitempty"`
}

// GeneratedCommand is the output of the offline `command` subcommands.
type GeneratedCommand struct {
	Network string `json:"network"`
	Command string `json:"command"`
	Nonce   string `json:"nonce,omitempty"`
}

type TransactionOutcome struct {
	Index      int             `json:"index"`
	ReceiverID string          `json:"receiver_id"`
	Outcome    json.RawMessage `json:"outcome"`
}

type Verification struct {
	TxHash   string          `json:"tx_hash"`
	SignerID string          `json:"signer_id"`
	Network  string          `json:"network"`
	RPCURL   string          `json:"rpc_url"`
	Outcome  json.RawMessage `json:"outcome"`
}

type Disconnected struct {
	Network string `json:"network"`
}

type VersionInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Long    string `json:"long,omitempty"`
}
