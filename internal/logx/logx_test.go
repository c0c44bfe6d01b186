package logx

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewJSONRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, "info", true)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	log.Debug().Msg("hidden")
	verifyLog := Component(log, "verify")
	verifyLog.Info().Str("tx_hash", "abc").Msg("found")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %q", buf.String())
	}
	var event map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &event); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if event["component"] != "verify" || event["tx_hash"] != "abc" || event["message"] != "found" {
		t.Fatalf("unexpected event: %v", event)
	}
}

func TestNewConsoleDefaultsToWarn(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, "", false)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	log.Info().Msg("quiet")
	log.Warn().Msg("loud")
	if strings.Contains(buf.String(), "quiet") || !strings.Contains(buf.String(), "loud") {
		t.Fatalf("unexpected console output: %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"debug": zerolog.DebugLevel,
		"INFO":  zerolog.InfoLevel,
		"warn":  zerolog.WarnLevel,
		"error": zerolog.ErrorLevel,
		"off":   zerolog.Disabled,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Fatalf("ParseLevel(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseLevel("verbose"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}
