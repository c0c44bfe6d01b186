// Package session persists the signed-in account and the dapp function-call
// key for each network.
package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ggonzalez94/nearcli-wallet/internal/network"
	"github.com/ggonzalez94/nearcli-wallet/internal/storage"
)

// FunctionCallKey is the key material granted to a dapp contract.
type FunctionCallKey struct {
	PrivateKey string   `json:"privateKey"`
	ContractID string   `json:"contractId"`
	Methods    []string `json:"methods"`
}

// Repository is the wallet's persistence boundary. Getters return the zero
// value (and nil key) when nothing is stored.
type Repository interface {
	AccountID(ctx context.Context, n network.Network) (string, error)
	SetAccountID(ctx context.Context, n network.Network, accountID string) error
	RemoveAccountID(ctx context.Context, n network.Network) error
	FunctionCallKey(ctx context.Context, n network.Network) (*FunctionCallKey, error)
	SetFunctionCallKey(ctx context.Context, n network.Network, key FunctionCallKey) error
	RemoveFunctionCallKey(ctx context.Context, n network.Network) error
}

// AccountIDKey is the storage key of the signed-in account.
func AccountIDKey(n network.Network) string {
	return fmt.Sprintf("cli:%s:accountId", n)
}

// FunctionCallKeyKey is the storage key of the JSON function-call key.
func FunctionCallKeyKey(n network.Network) string {
	return fmt.Sprintf("cli:%s:functionCallKey", n)
}

type kvRepository struct {
	kv storage.KV
}

func NewKVRepository(kv storage.KV) Repository {
	return &kvRepository{kv: kv}
}

func (r *kvRepository) AccountID(ctx context.Context, n network.Network) (string, error) {
	v, _, err := r.kv.Get(ctx, AccountIDKey(n))
	if err != nil {
		return "", fmt.Errorf("read account id: %w", err)
	}
	return v, nil
}

func (r *kvRepository) SetAccountID(ctx context.Context, n network.Network, accountID string) error {
	if err := r.kv.Set(ctx, AccountIDKey(n), accountID); err != nil {
		return fmt.Errorf("store account id: %w", err)
	}
	return nil
}

func (r *kvRepository) RemoveAccountID(ctx context.Context, n network.Network) error {
	if err := r.kv.Remove(ctx, AccountIDKey(n)); err != nil {
		return fmt.Errorf("remove account id: %w", err)
	}
	return nil
}

func (r *kvRepository) FunctionCallKey(ctx context.Context, n network.Network) (*FunctionCallKey, error) {
	raw, ok, err := r.kv.Get(ctx, FunctionCallKeyKey(n))
	if err != nil {
		return nil, fmt.Errorf("read function call key: %w", err)
	}
	if !ok || raw == "" {
		return nil, nil
	}
	var key FunctionCallKey
	if err := json.Unmarshal([]byte(raw), &key); err != nil {
		return nil, fmt.Errorf("decode function call key: %w", err)
	}
	return &key, nil
}

func (r *kvRepository) SetFunctionCallKey(ctx context.Context, n network.Network, key FunctionCallKey) error {
	if key.Methods == nil {
		key.Methods = []string{}
	}
	buf, err := json.Marshal(key)
	if err != nil {
		return fmt.Errorf("encode function call key: %w", err)
	}
	if err := r.kv.Set(ctx, FunctionCallKeyKey(n), string(buf)); err != nil {
		return fmt.Errorf("store function call key: %w", err)
	}
	return nil
}

func (r *kvRepository) RemoveFunctionCallKey(ctx context.Context, n network.Network) error {
	if err := r.kv.Remove(ctx, FunctionCallKeyKey(n)); err != nil {
		return fmt.Errorf("remove function call key: %w", err)
	}
	return nil
}
