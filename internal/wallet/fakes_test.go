package wallet

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	clierr "github.com/ggonzalez94/nearcli-wallet/internal/errors"
	"github.com/ggonzalez94/nearcli-wallet/internal/keys"
	"github.com/ggonzalez94/nearcli-wallet/internal/network"
	"github.com/ggonzalez94/nearcli-wallet/internal/prompt"
	"github.com/ggonzalez94/nearcli-wallet/internal/session"
	"github.com/ggonzalez94/nearcli-wallet/internal/storage"
	"github.com/rs/zerolog"
)

var errNoMoreInput = errors.New("no scripted input left")

// fakeSurface replays scripted submissions and records what was shown.
type fakeSurface struct {
	inputs  []string
	screens []prompt.Screen
	errors  []string
	events  *[]string
	shows   int
	hides   int
}

func (f *fakeSurface) Show() { f.shows++ }
func (f *fakeSurface) Hide() { f.hides++ }

func (f *fakeSurface) Render(screen prompt.Screen) {
	f.screens = append(f.screens, screen)
	*f.events = append(*f.events, "render:"+string(screen.Kind))
}

func (f *fakeSurface) Input(context.Context) (string, error) {
	if len(f.inputs) == 0 {
		return "", errNoMoreInput
	}
	v := f.inputs[0]
	f.inputs = f.inputs[1:]
	return v, nil
}

func (f *fakeSurface) Error(message string) { f.errors = append(f.errors, message) }
func (f *fakeSurface) Status(string)        {}

// fakeVerifier confirms hashes listed in found; any other hash is not found.
type fakeVerifier struct {
	found  map[string]json.RawMessage
	calls  []string
	rpcs   []string
	events *[]string
}

func (f *fakeVerifier) Poll(_ context.Context, rpcURL, txHash, signerID string) (json.RawMessage, error) {
	f.calls = append(f.calls, txHash+"@"+signerID)
	f.rpcs = append(f.rpcs, rpcURL)
	*f.events = append(*f.events, "poll:"+txHash)
	if res, ok := f.found[txHash]; ok {
		return res, nil
	}
	return nil, clierr.New(clierr.CodeNotFound, fmt.Sprintf("transaction %s not found after 5 attempts", txHash))
}

type harness struct {
	wallet   *Wallet
	ui       *fakeSurface
	verifier *fakeVerifier
	kv       *storage.Memory
	sessions session.Repository
	key      keys.KeyPair
	keyGens  int
	events   []string
}

func newHarness(t *testing.T, inputs ...string) *harness {
	t.Helper()
	key, err := keys.FromSeed(bytes.Repeat([]byte{7}, 32))
	if err != nil {
		t.Fatalf("FromSeed failed: %v", err)
	}
	h := &harness{kv: storage.NewMemory(), key: key}
	h.ui = &fakeSurface{inputs: inputs, events: &h.events}
	h.verifier = &fakeVerifier{found: map[string]json.RawMessage{}, events: &h.events}
	h.sessions = session.NewKVRepository(h.kv)
	w, err := New(Deps{
		Sessions: h.sessions,
		UI:       h.ui,
		Verifier: h.verifier,
		KeyGen: func() (keys.KeyPair, error) {
			h.keyGens++
			return h.key, nil
		},
		Providers: map[network.Network][]string{network.Testnet: {"https://rpc.example.test"}},
		Log:       zerolog.Nop(),
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	h.wallet = w
	return h
}

func (h *harness) signIn(t *testing.T, accountID string, key *session.FunctionCallKey) {
	t.Helper()
	ctx := context.Background()
	if err := h.sessions.SetAccountID(ctx, network.Testnet, accountID); err != nil {
		t.Fatalf("SetAccountID failed: %v", err)
	}
	if key != nil {
		if err := h.sessions.SetFunctionCallKey(ctx, network.Testnet, *key); err != nil {
			t.Fatalf("SetFunctionCallKey failed: %v", err)
		}
	}
}
