package wallet

import (
	"context"
	"encoding/base64"

	clierr "github.com/ggonzalez94/nearcli-wallet/internal/errors"
	"github.com/ggonzalez94/nearcli-wallet/internal/network"
	"github.com/ggonzalez94/nearcli-wallet/internal/prompt"
)

// SignIn connects an account, optionally granting a function-call key
// scoped to p.ContractID. An existing session whose key already matches the
// requested contract is returned without prompting.
func (w *Wallet) SignIn(ctx context.Context, p SignInParams) ([]Account, error) {
	if err := checkNetwork(p.Network); err != nil {
		return nil, err
	}
	existingAccount, err := w.sessions.AccountID(ctx, p.Network)
	if err != nil {
		return nil, wrapStore("read", err)
	}
	existingKey, err := w.sessions.FunctionCallKey(ctx, p.Network)
	if err != nil {
		return nil, wrapStore("read", err)
	}

	if existingAccount != "" && (p.ContractID == "" || (existingKey != nil && existingKey.ContractID == p.ContractID)) {
		publicKey, err := publicKeyOf(existingKey)
		if err != nil {
			return nil, err
		}
		w.log.Debug().Str("account", existingAccount).Str("network", p.Network.String()).Msg("reusing session")
		return []Account{{AccountID: existingAccount, PublicKey: publicKey}}, nil
	}

	defer w.ui.Hide()
	needsAccount := existingAccount == ""
	steps := newStepPlan(needsAccount, p.ContractID != "")

	accountID := existingAccount
	if needsAccount {
		button := "Connect"
		if p.ContractID != "" {
			button = "Next"
		}
		accountID, err = w.promptAccountID(ctx, prompt.AccountIDScreen("Enter your NEAR account ID", button, steps.next()))
		if err != nil {
			return nil, err
		}
	}

	if p.ContractID == "" {
		if err := w.sessions.SetAccountID(ctx, p.Network, accountID); err != nil {
			return nil, wrapStore("store", err)
		}
		return []Account{{AccountID: accountID, PublicKey: ""}}, nil
	}

	kp, fcKey, err := w.grantFunctionCallKey(ctx, p, accountID, steps.next())
	if err != nil {
		return nil, err
	}
	if err := w.sessions.SetAccountID(ctx, p.Network, accountID); err != nil {
		return nil, wrapStore("store", err)
	}
	if err := w.sessions.SetFunctionCallKey(ctx, p.Network, fcKey); err != nil {
		return nil, wrapStore("store", err)
	}
	return []Account{{AccountID: accountID, PublicKey: kp.PublicKey()}}, nil
}

// SignInAndSignMessage connects the account and signs a NEP-413 message in
// one flow, granting a function-call key when the stored one does not cover
// p.ContractID.
func (w *Wallet) SignInAndSignMessage(ctx context.Context, p SignInAndSignMessageParams) ([]SignedInAccount, error) {
	if err := checkNetwork(p.Network); err != nil {
		return nil, err
	}
	existingAccount, err := w.sessions.AccountID(ctx, p.Network)
	if err != nil {
		return nil, wrapStore("read", err)
	}
	existingKey, err := w.sessions.FunctionCallKey(ctx, p.Network)
	if err != nil {
		return nil, wrapStore("read", err)
	}

	defer w.ui.Hide()
	needsAccount := existingAccount == ""
	needsAddKey := p.ContractID != "" && (existingKey == nil || existingKey.ContractID != p.ContractID)
	steps := newStepPlan(true, needsAccount, needsAddKey)

	accountID := existingAccount
	if needsAccount {
		screen := prompt.AccountIDScreen("Enter your NEAR account ID to sign in and sign a message", "Next", steps.next())
		accountID, err = w.promptAccountID(ctx, screen)
		if err != nil {
			return nil, err
		}
	}

	cmd := signMessageCommand(p.Network, accountID, p.Message)
	output, err := w.awaitSignOutput(ctx, prompt.SignMessageScreen(cmd, steps.next()))
	if err != nil {
		return nil, err
	}

	publicKey := output.PublicKey
	if needsAddKey {
		kp, fcKey, err := w.grantFunctionCallKey(ctx, p.SignInParams, accountID, steps.next())
		if err != nil {
			return nil, err
		}
		if err := w.sessions.SetFunctionCallKey(ctx, p.Network, fcKey); err != nil {
			return nil, wrapStore("store", err)
		}
		publicKey = kp.PublicKey()
	}
	if err := w.sessions.SetAccountID(ctx, p.Network, accountID); err != nil {
		return nil, wrapStore("store", err)
	}

	return []SignedInAccount{{
		AccountID: accountID,
		PublicKey: publicKey,
		SignedMessage: SignedMessage{
			AccountID: firstNonEmpty(output.AccountID, accountID),
			PublicKey: output.PublicKey,
			Signature: output.Signature,
		},
	}}, nil
}

// SignOut clears the stored account and key for n.
func (w *Wallet) SignOut(ctx context.Context, n network.Network) error {
	if err := checkNetwork(n); err != nil {
		return err
	}
	if err := w.sessions.RemoveAccountID(ctx, n); err != nil {
		return wrapStore("remove", err)
	}
	if err := w.sessions.RemoveFunctionCallKey(ctx, n); err != nil {
		return wrapStore("remove", err)
	}
	return nil
}

// GetAccounts returns the connected account for n, or an empty list.
func (w *Wallet) GetAccounts(ctx context.Context, n network.Network) ([]Account, error) {
	if err := checkNetwork(n); err != nil {
		return nil, err
	}
	accountID, err := w.sessions.AccountID(ctx, n)
	if err != nil {
		return nil, wrapStore("read", err)
	}
	if accountID == "" {
		return []Account{}, nil
	}
	key, err := w.sessions.FunctionCallKey(ctx, n)
	if err != nil {
		return nil, wrapStore("read", err)
	}
	publicKey, err := publicKeyOf(key)
	if err != nil {
		return nil, err
	}
	return []Account{{AccountID: accountID, PublicKey: publicKey}}, nil
}

// SignMessage signs a NEP-413 message with the connected account.
func (w *Wallet) SignMessage(ctx context.Context, n network.Network, m MessageParams) (SignedMessage, error) {
	if err := checkNetwork(n); err != nil {
		return SignedMessage{}, err
	}
	accountID, err := w.signedInAccount(ctx, n)
	if err != nil {
		return SignedMessage{}, err
	}
	defer w.ui.Hide()

	output, err := w.awaitSignOutput(ctx, prompt.SignMessageScreen(signMessageCommand(n, accountID, m), ""))
	if err != nil {
		return SignedMessage{}, err
	}
	return SignedMessage{
		AccountID: firstNonEmpty(output.AccountID, accountID),
		PublicKey: output.PublicKey,
		Signature: output.Signature,
	}, nil
}

func encodeNonce(nonce []byte) string {
	return base64.StdEncoding.EncodeToString(nonce)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// SignDelegateActions is not available: delegate actions need in-process
// signing.
func (w *Wallet) SignDelegateActions(context.Context) error {
	return clierr.New(clierr.CodeUnsupported, "signDelegateActions is not supported by NEAR CLI wallet")
}
