// Package command assembles the near-cli-rs invocations a user runs to sign
// on the wallet's behalf.
package command

import (
	"strings"

	"github.com/ggonzalez94/nearcli-wallet/internal/action"
	clierr "github.com/ggonzalez94/nearcli-wallet/internal/errors"
	"github.com/ggonzalez94/nearcli-wallet/internal/network"
	"github.com/ggonzalez94/nearcli-wallet/internal/shellquote"
)

// Separator joins continuation lines of a generated command.
const Separator = " \\\n    "

// DefaultAllowance is the NEAR allowance granted to a new function-call key.
const DefaultAllowance = "0.25"

type AddKeyRequest struct {
	AccountID   string
	PublicKey   string
	ContractID  string
	MethodNames []string
	// Allowance is in NEAR, not yoctoNEAR. Empty means DefaultAllowance.
	Allowance string
	Network   network.Network
}

type TransactionRequest struct {
	SignerID   string
	ReceiverID string
	Actions    []action.Action
	Network    network.Network
}

type SignMessageRequest struct {
	Message   string
	Recipient string
	// Nonce is already encoded (base64 of the 32 nonce bytes).
	Nonce    string
	SignerID string
	Network  network.Network
}

// AddKey grants PublicKey on AccountID: full access without a contract,
// otherwise function-call access to ContractID.
func AddKey(req AddKeyRequest) string {
	parts := []string{"near account", "add-key " + shellquote.Quote(req.AccountID)}
	if req.ContractID != "" {
		allowance := req.Allowance
		if allowance == "" {
			allowance = DefaultAllowance
		}
		parts = append(parts,
			"grant-function-call-access",
			"--allowance '"+allowance+" NEAR'",
			"--contract-account-id "+shellquote.Quote(req.ContractID),
		)
		if len(req.MethodNames) > 0 {
			parts = append(parts, "--function-names "+shellquote.Quote(strings.Join(req.MethodNames, ", ")))
		}
	} else {
		parts = append(parts, "grant-full-access")
	}
	parts = append(parts, "use-manually-provided-public-key "+req.PublicKey)
	return finish(parts, req.Network)
}

// Transaction picks the shortest command form that expresses req.Actions and
// falls back to construct-transaction, keeping the action order.
func Transaction(req TransactionRequest) (string, error) {
	if len(req.Actions) == 0 {
		return "", clierr.New(clierr.CodeUsage, "transaction has no actions")
	}
	if len(req.Actions) == 1 {
		switch a := req.Actions[0].(type) {
		case action.FunctionCall:
			return functionCall(req, a)
		case action.Transfer:
			return finish([]string{
				"near tokens",
				shellquote.Quote(req.SignerID),
				"send-near " + shellquote.Quote(req.ReceiverID) + " " + action.NEARArg(a.Deposit),
			}, req.Network), nil
		case action.AddKey:
			parts := []string{"near account", "add-key " + shellquote.Quote(req.SignerID)}
			parts = append(parts, action.PermissionArgs(a.AccessKey.Permission)...)
			parts = append(parts, "use-manually-provided-public-key "+a.PublicKey)
			return finish(parts, req.Network), nil
		}
	}
	if keys, ok := deleteKeys(req.Actions); ok {
		return finish([]string{
			"near account",
			"delete-keys " + shellquote.Quote(req.SignerID) + " public-keys " + strings.Join(keys, ","),
		}, req.Network), nil
	}

	parts := []string{
		"near transaction",
		"construct-transaction " + shellquote.Quote(req.SignerID) + " " + shellquote.Quote(req.ReceiverID),
	}
	for _, a := range req.Actions {
		clause, err := action.Compile(a)
		if err != nil {
			return "", err
		}
		parts = append(parts, clause)
	}
	parts = append(parts, "skip")
	return finish(parts, req.Network), nil
}

// SignMessage builds a NEP-413 off-chain message signing command.
func SignMessage(req SignMessageRequest) string {
	return strings.Join([]string{
		"near message sign-nep413",
		"utf8 " + shellquote.Quote(req.Message),
		"nonce " + shellquote.Quote(req.Nonce),
		"recipient " + shellquote.Quote(req.Recipient),
		"sign-as " + shellquote.Quote(req.SignerID),
		"sign-with-keychain",
		"network-config " + req.Network.String(),
	}, Separator)
}

func functionCall(req TransactionRequest, fc action.FunctionCall) (string, error) {
	args, err := action.EncodeArgs(fc.Args)
	if err != nil {
		return "", err
	}
	return finish([]string{
		"near contract",
		"call-function",
		"as-transaction " + shellquote.Quote(req.ReceiverID) + " " + shellquote.Quote(fc.MethodName),
		"json-args " + shellquote.Quote(args),
		"prepaid-gas " + action.TgasArg(fc.Gas),
		"attached-deposit " + action.NEARArg(fc.Deposit),
		"sign-as " + shellquote.Quote(req.SignerID),
	}, req.Network), nil
}

func deleteKeys(actions []action.Action) ([]string, bool) {
	keys := make([]string, 0, len(actions))
	for _, a := range actions {
		dk, ok := a.(action.DeleteKey)
		if !ok {
			return nil, false
		}
		keys = append(keys, dk.PublicKey)
	}
	return keys, true
}

func finish(parts []string, n network.Network) string {
	parts = append(parts, "network-config "+n.String(), "sign-with-keychain")
	return strings.Join(parts, Separator)
}
