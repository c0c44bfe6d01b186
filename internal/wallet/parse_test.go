package wallet

import (
	"strings"
	"testing"
)

func TestParseHashInput(t *testing.T) {
	hash := "6zgh2u9DqHHiXzdy9ouTP7oGky2T4nugqzqt9wJZwNFm"
	cases := []struct {
		name string
		in   string
		want string
	}{
		{name: "bare", in: hash, want: hash},
		{name: "nearblocks", in: "https://testnet.nearblocks.io/txns/" + hash, want: hash},
		{name: "explorer", in: "https://explorer.near.org/transactions/" + hash + "?tab=status", want: hash},
		{name: "cli line", in: "Transaction ID: " + hash, want: hash},
		{name: "surrounding text", in: "done\nTransaction ID:   " + hash + "\nbye", want: hash},
		{name: "no hash", in: "short", want: "short"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ParseHashInput(tc.in); got != tc.want {
				t.Fatalf("ParseHashInput(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestParseSignOutput(t *testing.T) {
	out, err := parseSignOutput("noise {not json} more\n" + signOutputFixture("bob.testnet") + "{\"signature\":\"other\"}")
	if err != nil {
		t.Fatalf("parseSignOutput failed: %v", err)
	}
	if out.Signature != "AQID" || out.PublicKey != "ed25519:owner" || out.AccountID != "bob.testnet" {
		t.Fatalf("unexpected output: %+v", out)
	}

	for _, bad := range []string{
		"nothing here",
		`{"publicKey":"ed25519:x"}`,
		`{"signature":"ed25519:abc"}`,
		`{"signature":"ed25519:0OIl","publicKey":"ed25519:x"}`,
	} {
		if _, err := parseSignOutput(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestStepPlan(t *testing.T) {
	plan := newStepPlan(true, true, false)
	if got := []string{plan.next(), plan.next()}; strings.Join(got, ",") != "Step 1 of 2,Step 2 of 2" {
		t.Fatalf("unexpected labels: %v", got)
	}
	single := newStepPlan(true, false)
	if got := single.next(); got != "" {
		t.Fatalf("single-step flows are unlabelled, got %q", got)
	}
}
