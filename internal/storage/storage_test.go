package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

func exerciseKV(t *testing.T, kv KV) {
	t.Helper()
	ctx := context.Background()

	if _, ok, err := kv.Get(ctx, "cli:testnet:accountId"); err != nil || ok {
		t.Fatalf("expected missing key, ok=%v err=%v", ok, err)
	}
	if err := kv.Set(ctx, "cli:testnet:accountId", "alice.testnet"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := kv.Set(ctx, "cli:testnet:accountId", "bob.testnet"); err != nil {
		t.Fatalf("Set overwrite failed: %v", err)
	}
	got, ok, err := kv.Get(ctx, "cli:testnet:accountId")
	if err != nil || !ok || got != "bob.testnet" {
		t.Fatalf("unexpected Get: %q ok=%v err=%v", got, ok, err)
	}
	if _, ok, _ := kv.Get(ctx, "cli:mainnet:accountId"); ok {
		t.Fatal("networks must not share keys")
	}
	if err := kv.Remove(ctx, "cli:testnet:accountId"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if err := kv.Remove(ctx, "cli:testnet:accountId"); err != nil {
		t.Fatalf("Remove of missing key failed: %v", err)
	}
	if _, ok, _ := kv.Get(ctx, "cli:testnet:accountId"); ok {
		t.Fatal("expected key to be removed")
	}
}

func TestMemoryKV(t *testing.T) {
	exerciseKV(t, NewMemory())
}

func TestSQLiteKV(t *testing.T) {
	dir := t.TempDir()
	store, err := OpenSQLite(filepath.Join(dir, "wallet.db"), filepath.Join(dir, "wallet.lock"), zerolog.Nop())
	if err != nil {
		t.Fatalf("OpenSQLite failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	exerciseKV(t, store)
}

func TestSQLiteKVPersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "wallet.db")
	lock := filepath.Join(dir, "nested", "wallet.lock")

	store, err := OpenSQLite(path, lock, zerolog.Nop())
	if err != nil {
		t.Fatalf("OpenSQLite failed: %v", err)
	}
	if err := store.Set(context.Background(), "k", "v"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	_ = store.Close()

	reopened, err := OpenSQLite(path, lock, zerolog.Nop())
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	t.Cleanup(func() { _ = reopened.Close() })
	got, ok, err := reopened.Get(context.Background(), "k")
	if err != nil || !ok || got != "v" {
		t.Fatalf("unexpected value after reopen: %q ok=%v err=%v", got, ok, err)
	}
}
