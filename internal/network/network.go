// Package network names the NEAR environments the wallet can target.
package network

import (
	"fmt"
	"strings"

	clierr "github.com/ggonzalez94/nearcli-wallet/internal/errors"
)

type Network string

const (
	Mainnet Network = "mainnet"
	Testnet Network = "testnet"
)

var defaultRPCByNetwork = map[Network]string{
	Mainnet: "https://rpc.mainnet.near.org",
	Testnet: "https://rpc.testnet.near.org",
}

// Parse accepts only the known network names, case-insensitively.
func Parse(v string) (Network, error) {
	switch Network(strings.ToLower(strings.TrimSpace(v))) {
	case Mainnet:
		return Mainnet, nil
	case Testnet:
		return Testnet, nil
	}
	return "", clierr.New(clierr.CodeUsage, fmt.Sprintf("unsupported network %q (expected %s|%s)", v, Mainnet, Testnet))
}

func (n Network) String() string { return string(n) }

// DefaultRPCURL returns the public archival endpoint for n.
func DefaultRPCURL(n Network) (string, bool) {
	v, ok := defaultRPCByNetwork[n]
	return v, ok
}

// ResolveRPCURL picks the first non-empty provider, falling back to the
// public endpoint for the network.
func ResolveRPCURL(n Network, providers []string) (string, error) {
	for _, p := range providers {
		if strings.TrimSpace(p) != "" {
			return strings.TrimSpace(p), nil
		}
	}
	if v, ok := DefaultRPCURL(n); ok {
		return v, nil
	}
	return "", clierr.New(clierr.CodeUsage, fmt.Sprintf("no default rpc configured for network %q; provide --rpc-url", n))
}
