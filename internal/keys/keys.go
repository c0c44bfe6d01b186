// Package keys generates and encodes the ed25519 function-call keys the
// wallet hands out to dapps.
package keys

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
	"strings"

	"github.com/mr-tron/base58"
)

// CurvePrefix tags NEAR's textual ed25519 keys and signatures.
const CurvePrefix = "ed25519:"

type KeyPair struct {
	private ed25519.PrivateKey
}

// Generate creates a fresh random key pair.
func Generate() (KeyPair, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return KeyPair{}, fmt.Errorf("generate ed25519 key: %w", err)
	}
	return KeyPair{private: priv}, nil
}

// FromSeed derives a key pair from a 32-byte seed.
func FromSeed(seed []byte) (KeyPair, error) {
	if len(seed) != ed25519.SeedSize {
		return KeyPair{}, fmt.Errorf("seed must be %d bytes, got %d", ed25519.SeedSize, len(seed))
	}
	return KeyPair{private: ed25519.NewKeyFromSeed(seed)}, nil
}

// Parse reads the serialized form produced by String.
func Parse(s string) (KeyPair, error) {
	data, err := decodePrefixed(s)
	if err != nil {
		return KeyPair{}, fmt.Errorf("parse private key: %w", err)
	}
	if len(data) != ed25519.PrivateKeySize {
		return KeyPair{}, fmt.Errorf("parse private key: expected %d bytes, got %d", ed25519.PrivateKeySize, len(data))
	}
	return KeyPair{private: ed25519.PrivateKey(data)}, nil
}

// PublicKey is the ed25519:<base58> public identifier.
func (k KeyPair) PublicKey() string {
	pub := k.private.Public().(ed25519.PublicKey)
	return CurvePrefix + base58.Encode(pub)
}

// String is the serialized private form. It is secret material.
func (k KeyPair) String() string {
	return CurvePrefix + base58.Encode(k.private)
}

// DecodeSignature strips the curve prefix, if present, and decodes base58.
func DecodeSignature(s string) ([]byte, error) {
	raw := strings.TrimPrefix(strings.TrimSpace(s), CurvePrefix)
	if raw == "" {
		return nil, fmt.Errorf("empty signature")
	}
	out, err := base58.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("decode signature: %w", err)
	}
	return out, nil
}

func decodePrefixed(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	curve, data, ok := strings.Cut(s, ":")
	if !ok {
		data = s
	} else if curve+":" != CurvePrefix {
		return nil, fmt.Errorf("unsupported key type %q", curve)
	}
	return base58.Decode(data)
}
