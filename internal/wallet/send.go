package wallet

import (
	"context"
	"encoding/json"

	"github.com/ggonzalez94/nearcli-wallet/internal/command"
	"github.com/ggonzalez94/nearcli-wallet/internal/network"
	"github.com/ggonzalez94/nearcli-wallet/internal/prompt"
)

// SignAndSendTransaction presents the command for tx and returns the
// confirmed execution outcome.
func (w *Wallet) SignAndSendTransaction(ctx context.Context, n network.Network, tx Transaction) (json.RawMessage, error) {
	results, err := w.SignAndSendTransactions(ctx, n, []Transaction{tx})
	if err != nil {
		return nil, err
	}
	return results[0], nil
}

// SignAndSendTransactions handles txs strictly in order: each command is
// built only after the previous transaction is confirmed.
func (w *Wallet) SignAndSendTransactions(ctx context.Context, n network.Network, txs []Transaction) ([]json.RawMessage, error) {
	if err := checkNetwork(n); err != nil {
		return nil, err
	}
	accountID, err := w.signedInAccount(ctx, n)
	if err != nil {
		return nil, err
	}
	rpcURL, err := w.rpcURL(n)
	if err != nil {
		return nil, err
	}
	defer w.ui.Hide()

	results := make([]json.RawMessage, 0, len(txs))
	for i, tx := range txs {
		cmd, err := command.Transaction(command.TransactionRequest{
			SignerID:   accountID,
			ReceiverID: tx.ReceiverID,
			Actions:    tx.Actions,
			Network:    n,
		})
		if err != nil {
			return nil, err
		}
		w.log.Debug().Int("index", i).Str("receiver", tx.ReceiverID).Int("actions", len(tx.Actions)).Msg("presenting transaction")
		result, err := w.awaitTransaction(ctx, prompt.TransactionScreen(cmd), rpcURL, accountID)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}
