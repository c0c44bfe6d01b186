package app

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

const testHash = "6zgh2u9DqHHiXzdy9ouTP7oGky2T4nugqzqt9wJZwNFm"

func isolate(t *testing.T) {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmp)
	t.Setenv("XDG_DATA_HOME", tmp)
	t.Setenv("NEARCLI_VERIFY_DELAY", "0s")
	t.Setenv("NEARCLI_CLIPBOARD", "false")
}

func run(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	r := NewRunnerWithIO(strings.NewReader(stdin), &stdout, &stderr)
	code := r.Run(args)
	return code, stdout.String(), stderr.String()
}

type rpcRecorder struct {
	mu       sync.Mutex
	requests []map[string]any
}

func (r *rpcRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.requests)
}

func newRPCServer(t *testing.T, body string) (*httptest.Server, *rpcRecorder) {
	t.Helper()
	rec := &rpcRecorder{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf, _ := io.ReadAll(r.Body)
		var req map[string]any
		_ = json.Unmarshal(buf, &req)
		rec.mu.Lock()
		rec.requests = append(rec.requests, req)
		rec.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, rec
}

func TestTrimRootPath(t *testing.T) {
	if got := trimRootPath("nearcli-wallet command add-key"); got != "command add-key" {
		t.Fatalf("unexpected trim result: %s", got)
	}
}

func TestSplitCSV(t *testing.T) {
	items := splitCSV("vote, add_message ,")
	if len(items) != 2 || items[0] != "vote" || items[1] != "add_message" {
		t.Fatalf("unexpected split: %#v", items)
	}
}

func TestRunnerCommandTransaction(t *testing.T) {
	isolate(t)
	code, stdout, stderr := run(t, "",
		"command", "transaction", "--results-only",
		"--signer", "alice.testnet", "--receiver", "bob.testnet",
		"--actions", `[{"type":"Transfer","params":{"deposit":"1500000000000000000000000"}}]`,
	)
	if code != 0 {
		t.Fatalf("expected exit 0, got %d stderr=%s", code, stderr)
	}
	var out map[string]any
	if err := json.Unmarshal([]byte(stdout), &out); err != nil {
		t.Fatalf("failed to parse output json: %v output=%s", err, stdout)
	}
	want := "near tokens \\\n    'alice.testnet' \\\n    send-near 'bob.testnet' '1.5 NEAR' \\\n    network-config testnet \\\n    sign-with-keychain"
	if out["command"] != want {
		t.Fatalf("unexpected command:\n%v", out["command"])
	}
	if out["network"] != "testnet" {
		t.Fatalf("unexpected network: %v", out["network"])
	}
}

func TestRunnerCommandPlainOutputIsPasteable(t *testing.T) {
	isolate(t)
	code, stdout, stderr := run(t, "",
		"command", "transaction", "--plain", "--results-only",
		"--signer", "alice.testnet", "--receiver", "bob.testnet",
		"--actions", `[{"type":"Transfer","params":{"deposit":"1500000000000000000000000"}}]`,
	)
	if code != 0 {
		t.Fatalf("expected exit 0, got %d stderr=%s", code, stderr)
	}
	want := "near tokens \\\n    'alice.testnet' \\\n    send-near 'bob.testnet' '1.5 NEAR' \\\n    network-config testnet \\\n    sign-with-keychain\n# network=testnet\n"
	if stdout != want {
		t.Fatalf("unexpected plain output:\n%s", stdout)
	}
}

func TestRunnerCommandUnsupportedAction(t *testing.T) {
	isolate(t)
	code, _, stderr := run(t, "",
		"command", "transaction", "--results-only",
		"--signer", "alice.testnet", "--receiver", "alice.testnet",
		"--actions", `[{"type":"DeployContract","params":{"code":"AA=="}}]`,
	)
	if code != 13 {
		t.Fatalf("expected exit 13, got %d stderr=%s", code, stderr)
	}
	var env map[string]any
	if err := json.Unmarshal([]byte(stderr), &env); err != nil {
		t.Fatalf("failed to parse error envelope: %v output=%s", err, stderr)
	}
	errBody := env["error"].(map[string]any)
	if errBody["type"] != "unsupported" {
		t.Fatalf("unexpected error type: %v", errBody["type"])
	}
}

func TestRunnerCommandSignMessageGeneratesNonce(t *testing.T) {
	isolate(t)
	code, stdout, stderr := run(t, "",
		"command", "sign-message", "--results-only", "--network", "mainnet",
		"--message", "hello", "--recipient", "app.near", "--signer", "alice.near",
	)
	if code != 0 {
		t.Fatalf("expected exit 0, got %d stderr=%s", code, stderr)
	}
	var out map[string]any
	if err := json.Unmarshal([]byte(stdout), &out); err != nil {
		t.Fatalf("failed to parse output json: %v output=%s", err, stdout)
	}
	nonce, _ := out["nonce"].(string)
	if len(nonce) != 44 {
		t.Fatalf("expected base64 of 32 bytes, got %q", nonce)
	}
	if !strings.Contains(out["command"].(string), "nonce '"+nonce+"'") || !strings.Contains(out["command"].(string), "network-config mainnet") {
		t.Fatalf("unexpected command:\n%v", out["command"])
	}
}

func TestRunnerConnectThenAccounts(t *testing.T) {
	isolate(t)
	code, stdout, stderr := run(t, "alice.testnet\n", "connect", "--results-only")
	if code != 0 {
		t.Fatalf("connect: expected exit 0, got %d stderr=%s", code, stderr)
	}
	if !strings.Contains(stderr, "Connect with NEAR CLI") {
		t.Fatalf("expected prompt on stderr, got %s", stderr)
	}
	var accounts []map[string]any
	if err := json.Unmarshal([]byte(stdout), &accounts); err != nil {
		t.Fatalf("failed to parse output json: %v output=%s", err, stdout)
	}
	if len(accounts) != 1 || accounts[0]["accountId"] != "alice.testnet" || accounts[0]["publicKey"] != "" {
		t.Fatalf("unexpected accounts: %v", accounts)
	}

	code, stdout, stderr = run(t, "", "accounts", "--results-only")
	if code != 0 {
		t.Fatalf("accounts: expected exit 0, got %d stderr=%s", code, stderr)
	}
	if !strings.Contains(stdout, `"accountId": "alice.testnet"`) {
		t.Fatalf("unexpected accounts output: %s", stdout)
	}

	code, stdout, _ = run(t, "", "accounts", "--results-only", "--network", "mainnet")
	if code != 0 || strings.TrimSpace(stdout) != "[]" {
		t.Fatalf("mainnet must be empty, got code=%d %s", code, stdout)
	}

	if code, _, stderr := run(t, "", "disconnect"); code != 0 {
		t.Fatalf("disconnect: expected exit 0, got %d stderr=%s", code, stderr)
	}
	code, stdout, _ = run(t, "", "accounts", "--results-only")
	if code != 0 || strings.TrimSpace(stdout) != "[]" {
		t.Fatalf("expected no accounts after disconnect, got code=%d %s", code, stdout)
	}
}

func TestRunnerSendVerifiesOnChain(t *testing.T) {
	isolate(t)
	srv, rec := newRPCServer(t, `{"jsonrpc":"2.0","id":"1","result":{"status":{"SuccessValue":""}}}`)

	if code, _, stderr := run(t, "alice.testnet\n", "connect"); code != 0 {
		t.Fatalf("connect failed: %d %s", code, stderr)
	}
	code, stdout, stderr := run(t, "https://testnet.nearblocks.io/txns/"+testHash+"\n",
		"send", "--results-only", "--rpc-url", srv.URL,
		"--receiver", "bob.testnet",
		"--actions", `[{"type":"Transfer","params":{"deposit":"1"}}]`,
	)
	if code != 0 {
		t.Fatalf("send: expected exit 0, got %d stderr=%s", code, stderr)
	}
	var out map[string]any
	if err := json.Unmarshal([]byte(stdout), &out); err != nil {
		t.Fatalf("failed to parse output json: %v output=%s", err, stdout)
	}
	if out["receiver_id"] != "bob.testnet" || out["outcome"] == nil {
		t.Fatalf("unexpected output: %v", out)
	}
	if rec.count() != 1 {
		t.Fatalf("expected one rpc call, got %d", rec.count())
	}
	params := rec.requests[0]["params"].(map[string]any)
	if rec.requests[0]["method"] != "tx" || params["tx_hash"] != testHash || params["sender_account_id"] != "alice.testnet" || params["wait_until"] != "NONE" {
		t.Fatalf("unexpected rpc request: %v", rec.requests[0])
	}
	if !strings.Contains(stderr, "send-near 'bob.testnet'") {
		t.Fatalf("expected generated command on stderr, got %s", stderr)
	}
}

func TestRunnerSendRequiresConnection(t *testing.T) {
	isolate(t)
	code, _, stderr := run(t, "", "send", "--receiver", "bob.testnet", "--actions", `[{"type":"Transfer","params":{"deposit":"1"}}]`)
	if code != 20 {
		t.Fatalf("expected exit 20, got %d stderr=%s", code, stderr)
	}
	if !strings.Contains(stderr, "not_signed_in") {
		t.Fatalf("expected not_signed_in error, got %s", stderr)
	}
}

func TestRunnerVerifyNotFound(t *testing.T) {
	isolate(t)
	srv, rec := newRPCServer(t, `{"jsonrpc":"2.0","id":"1","error":{"name":"HANDLER_ERROR","message":"UNKNOWN_TRANSACTION"}}`)
	code, _, stderr := run(t, "", "verify", "--rpc-url", srv.URL, "--attempts", "3", "--hash", "Transaction ID: "+testHash, "--signer", "alice.testnet")
	if code != 21 {
		t.Fatalf("expected exit 21, got %d stderr=%s", code, stderr)
	}
	if rec.count() != 3 {
		t.Fatalf("expected 3 attempts, got %d", rec.count())
	}
	if !strings.Contains(stderr, "not found after 3 attempts") || !strings.Contains(stderr, "UNKNOWN_TRANSACTION") {
		t.Fatalf("unexpected error envelope: %s", stderr)
	}
}

func TestRunnerVerifyQueriesOncePerAttempt(t *testing.T) {
	isolate(t)
	var mu sync.Mutex
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		mu.Lock()
		hits++
		mu.Unlock()
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	code, _, stderr := run(t, "", "verify", "--rpc-url", srv.URL, "--attempts", "4", "--hash", testHash, "--signer", "alice.testnet")
	if code != 21 {
		t.Fatalf("expected exit 21, got %d stderr=%s", code, stderr)
	}
	mu.Lock()
	defer mu.Unlock()
	if hits != 4 {
		t.Fatalf("expected one rpc query per attempt (4), got %d", hits)
	}
}

func TestRunnerSignDelegateUnsupported(t *testing.T) {
	isolate(t)
	if code, _, stderr := run(t, "", "sign-delegate"); code != 13 {
		t.Fatalf("expected exit 13, got %d stderr=%s", code, stderr)
	}
}

func TestRunnerErrorEnvelopeIgnoresResultsOnly(t *testing.T) {
	isolate(t)
	code, _, stderr := run(t, "", "accounts", "--network", "devnet", "--results-only")
	if code != 2 {
		t.Fatalf("expected exit 2, got %d stderr=%s", code, stderr)
	}
	var env map[string]any
	if err := json.Unmarshal([]byte(stderr), &env); err != nil {
		t.Fatalf("failed to parse error envelope: %v output=%s", err, stderr)
	}
	if env["success"] != false {
		t.Fatalf("expected success=false, got %v", env["success"])
	}
}

func TestRunnerSchemaMarksInteractiveCommands(t *testing.T) {
	isolate(t)
	code, stdout, stderr := run(t, "", "schema", "connect", "--results-only")
	if code != 0 {
		t.Fatalf("expected exit 0, got %d stderr=%s", code, stderr)
	}
	var out map[string]any
	if err := json.Unmarshal([]byte(stdout), &out); err != nil {
		t.Fatalf("failed to parse output json: %v output=%s", err, stdout)
	}
	if out["interactive"] != true {
		t.Fatalf("connect must be interactive: %v", out)
	}
}
