package app

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/ggonzalez94/nearcli-wallet/internal/action"
	clierr "github.com/ggonzalez94/nearcli-wallet/internal/errors"
	"github.com/ggonzalez94/nearcli-wallet/internal/wallet"
)

const nonceSize = 32

// readJSONArg accepts inline JSON or @path to a JSON file.
func readJSONArg(flag, value string) ([]byte, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, clierr.New(clierr.CodeUsage, fmt.Sprintf("--%s is required", flag))
	}
	if !strings.HasPrefix(value, "@") {
		return []byte(value), nil
	}
	buf, err := os.ReadFile(strings.TrimPrefix(value, "@"))
	if err != nil {
		return nil, clierr.Wrap(clierr.CodeUsage, fmt.Sprintf("read --%s file", flag), err)
	}
	return buf, nil
}

func parseActions(value string) ([]action.Action, error) {
	raw, err := readJSONArg("actions", value)
	if err != nil {
		return nil, err
	}
	return action.DecodeList(raw)
}

type transactionInput struct {
	ReceiverID string          `json:"receiverId"`
	Actions    json.RawMessage `json:"actions"`
}

func parseTransactions(value string) ([]wallet.Transaction, error) {
	raw, err := readJSONArg("transactions", value)
	if err != nil {
		return nil, err
	}
	var items []transactionInput
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, clierr.Wrap(clierr.CodeUsage, "parse --transactions", err)
	}
	if len(items) == 0 {
		return nil, clierr.New(clierr.CodeUsage, "--transactions must list at least one transaction")
	}
	txs := make([]wallet.Transaction, 0, len(items))
	for i, item := range items {
		if strings.TrimSpace(item.ReceiverID) == "" {
			return nil, clierr.New(clierr.CodeUsage, fmt.Sprintf("transaction %d: receiverId is required", i))
		}
		actions, err := action.DecodeList(item.Actions)
		if err != nil {
			return nil, clierr.Wrap(clierr.CodeUsage, fmt.Sprintf("transaction %d", i), err)
		}
		txs = append(txs, wallet.Transaction{ReceiverID: item.ReceiverID, Actions: actions})
	}
	return txs, nil
}

// parseNonce decodes a base64 nonce, or draws a fresh random one when empty.
func parseNonce(value string) ([]byte, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		buf := make([]byte, nonceSize)
		if _, err := rand.Read(buf); err != nil {
			return nil, clierr.Wrap(clierr.CodeInternal, "generate nonce", err)
		}
		return buf, nil
	}
	buf, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return nil, clierr.Wrap(clierr.CodeUsage, "--nonce must be base64", err)
	}
	if len(buf) != nonceSize {
		return nil, clierr.New(clierr.CodeUsage, fmt.Sprintf("--nonce must decode to %d bytes, got %d", nonceSize, len(buf)))
	}
	return buf, nil
}
