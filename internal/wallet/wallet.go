// Package wallet drives the sign/verify protocol: it collects the account,
// hands the user a near-cli-rs command, waits for proof that it ran and
// confirms the result on chain.
package wallet

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ggonzalez94/nearcli-wallet/internal/action"
	clierr "github.com/ggonzalez94/nearcli-wallet/internal/errors"
	"github.com/ggonzalez94/nearcli-wallet/internal/keys"
	"github.com/ggonzalez94/nearcli-wallet/internal/network"
	"github.com/ggonzalez94/nearcli-wallet/internal/prompt"
	"github.com/ggonzalez94/nearcli-wallet/internal/session"
	"github.com/rs/zerolog"
)

// Verifier confirms a transaction hash on chain.
type Verifier interface {
	Poll(ctx context.Context, rpcURL, txHash, signerID string) (json.RawMessage, error)
}

type KeyGenerator func() (keys.KeyPair, error)

type Deps struct {
	Sessions session.Repository
	UI       prompt.Surface
	Verifier Verifier
	// KeyGen defaults to keys.Generate.
	KeyGen KeyGenerator
	// Providers lists RPC endpoints per network; the first non-empty one wins.
	Providers map[network.Network][]string
	Log       zerolog.Logger
}

type Wallet struct {
	sessions  session.Repository
	ui        prompt.Surface
	verifier  Verifier
	keyGen    KeyGenerator
	providers map[network.Network][]string
	log       zerolog.Logger
}

type Account struct {
	AccountID string `json:"accountId"`
	PublicKey string `json:"publicKey"`
}

type SignedMessage struct {
	AccountID string `json:"accountId"`
	PublicKey string `json:"publicKey"`
	// Signature is base64 (standard encoding) of the raw signature bytes.
	Signature string `json:"signature"`
}

type SignedInAccount struct {
	AccountID     string        `json:"accountId"`
	PublicKey     string        `json:"publicKey"`
	SignedMessage SignedMessage `json:"signedMessage"`
}

type SignInParams struct {
	Network     network.Network
	ContractID  string
	MethodNames []string
}

type MessageParams struct {
	Message   string
	Recipient string
	Nonce     []byte
}

type SignInAndSignMessageParams struct {
	SignInParams
	Message MessageParams
}

type Transaction struct {
	ReceiverID string
	Actions    []action.Action
}

func New(deps Deps) (*Wallet, error) {
	if deps.Sessions == nil {
		return nil, clierr.New(clierr.CodeInternal, "wallet requires a session repository")
	}
	if deps.UI == nil {
		return nil, clierr.New(clierr.CodeInternal, "wallet requires a prompt surface")
	}
	if deps.Verifier == nil {
		return nil, clierr.New(clierr.CodeInternal, "wallet requires a transaction verifier")
	}
	keyGen := deps.KeyGen
	if keyGen == nil {
		keyGen = keys.Generate
	}
	return &Wallet{
		sessions:  deps.Sessions,
		ui:        deps.UI,
		verifier:  deps.Verifier,
		keyGen:    keyGen,
		providers: deps.Providers,
		log:       deps.Log,
	}, nil
}

// Register constructs a wallet and hands it to the host's ready hook.
func Register(deps Deps, ready func(*Wallet)) error {
	w, err := New(deps)
	if err != nil {
		return err
	}
	if ready != nil {
		ready(w)
	}
	return nil
}

func (w *Wallet) rpcURL(n network.Network) (string, error) {
	return network.ResolveRPCURL(n, w.providers[n])
}

func (w *Wallet) signedInAccount(ctx context.Context, n network.Network) (string, error) {
	accountID, err := w.sessions.AccountID(ctx, n)
	if err != nil {
		return "", clierr.Wrap(clierr.CodeInternal, "read session", err)
	}
	if accountID == "" {
		return "", clierr.New(clierr.CodeNotSignedIn, "wallet not signed in")
	}
	return accountID, nil
}

func publicKeyOf(key *session.FunctionCallKey) (string, error) {
	if key == nil {
		return "", nil
	}
	kp, err := keys.Parse(key.PrivateKey)
	if err != nil {
		return "", clierr.Wrap(clierr.CodeInternal, "stored function call key is invalid", err)
	}
	return kp.PublicKey(), nil
}

func checkNetwork(n network.Network) error {
	parsed, err := network.Parse(string(n))
	if err != nil {
		return err
	}
	if parsed != n {
		return clierr.New(clierr.CodeUsage, fmt.Sprintf("network %q must be lower case", n))
	}
	return nil
}

func wrapStore(op string, err error) error {
	return clierr.Wrap(clierr.CodeInternal, fmt.Sprintf("%s session", op), err)
}
