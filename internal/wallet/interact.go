package wallet

import (
	"context"
	"encoding/json"

	"github.com/ggonzalez94/nearcli-wallet/internal/command"
	clierr "github.com/ggonzalez94/nearcli-wallet/internal/errors"
	"github.com/ggonzalez94/nearcli-wallet/internal/keys"
	"github.com/ggonzalez94/nearcli-wallet/internal/network"
	"github.com/ggonzalez94/nearcli-wallet/internal/prompt"
	"github.com/ggonzalez94/nearcli-wallet/internal/session"
)

func (w *Wallet) present(screen prompt.Screen) {
	w.ui.Show()
	w.ui.Render(screen)
}

func (w *Wallet) readInput(ctx context.Context) (string, error) {
	v, err := w.ui.Input(ctx)
	if err != nil {
		return "", clierr.Wrap(clierr.CodeInput, "no input received", err)
	}
	return v, nil
}

func (w *Wallet) promptAccountID(ctx context.Context, screen prompt.Screen) (string, error) {
	w.present(screen)
	for {
		accountID, err := w.readInput(ctx)
		if err != nil {
			return "", err
		}
		if accountID != "" {
			return accountID, nil
		}
		w.ui.Error("Please enter an account ID")
	}
}

// awaitTransaction presents a command and loops until a pasted hash is
// confirmed on chain. Not-found results are reported inline.
func (w *Wallet) awaitTransaction(ctx context.Context, screen prompt.Screen, rpcURL, signerID string) (json.RawMessage, error) {
	w.present(screen)
	for {
		raw, err := w.readInput(ctx)
		if err != nil {
			return nil, err
		}
		if raw == "" {
			w.ui.Error("Please paste the transaction hash or explorer URL")
			continue
		}
		hash := ParseHashInput(raw)
		w.ui.Status("Verifying...")
		result, err := w.verifier.Poll(ctx, rpcURL, hash, signerID)
		if err == nil {
			w.log.Info().Str("tx_hash", hash).Str("signer", signerID).Msg("transaction verified")
			return result, nil
		}
		if !clierr.Is(err, clierr.CodeNotFound) {
			return nil, err
		}
		w.log.Warn().Err(err).Str("tx_hash", hash).Msg("transaction not found")
		w.ui.Error("Transaction not found. Please check the hash and try again.")
	}
}

func (w *Wallet) awaitSignOutput(ctx context.Context, screen prompt.Screen) (signOutput, error) {
	w.present(screen)
	for {
		raw, err := w.readInput(ctx)
		if err != nil {
			return signOutput{}, err
		}
		if raw == "" {
			w.ui.Error("Please paste the command output")
			continue
		}
		out, err := parseSignOutput(raw)
		if err == nil {
			return out, nil
		}
		w.log.Debug().Err(err).Msg("sign output rejected")
		w.ui.Error(clierr.Wrap(clierr.CodeParse, "Could not parse output", err).Error())
	}
}

// grantFunctionCallKey runs the add-key sub-flow and returns the new key
// once the grant is confirmed. Nothing is persisted here.
func (w *Wallet) grantFunctionCallKey(ctx context.Context, p SignInParams, accountID, step string) (keys.KeyPair, session.FunctionCallKey, error) {
	rpcURL, err := w.rpcURL(p.Network)
	if err != nil {
		return keys.KeyPair{}, session.FunctionCallKey{}, err
	}
	kp, err := w.keyGen()
	if err != nil {
		return keys.KeyPair{}, session.FunctionCallKey{}, clierr.Wrap(clierr.CodeInternal, "generate function call key", err)
	}
	cmd := command.AddKey(command.AddKeyRequest{
		AccountID:   accountID,
		PublicKey:   kp.PublicKey(),
		ContractID:  p.ContractID,
		MethodNames: p.MethodNames,
		Network:     p.Network,
	})
	if _, err := w.awaitTransaction(ctx, prompt.AddKeyScreen(cmd, step), rpcURL, accountID); err != nil {
		return keys.KeyPair{}, session.FunctionCallKey{}, err
	}
	methods := p.MethodNames
	if methods == nil {
		methods = []string{}
	}
	return kp, session.FunctionCallKey{PrivateKey: kp.String(), ContractID: p.ContractID, Methods: methods}, nil
}

func signMessageCommand(n network.Network, signerID string, m MessageParams) string {
	return command.SignMessage(command.SignMessageRequest{
		Message:   m.Message,
		Recipient: m.Recipient,
		Nonce:     encodeNonce(m.Nonce),
		SignerID:  signerID,
		Network:   n,
	})
}
