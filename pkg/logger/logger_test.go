package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

// TestParseLevel tests level names
func TestParseLevel(t *testing.T) {
	cases := map[string]LogLevel{
		"debug":   DEBUG,
		"INFO":    INFO,
		"warning": WARN,
		" warn ":  WARN,
		"Error":   ERROR,
	}
	for in, want := range cases {
		got, ok := ParseLevel(in)
		if !ok || got != want {
			t.Errorf("ParseLevel(%q) = %s, %v", in, got, ok)
		}
	}
	if _, ok := ParseLevel("loud"); ok {
		t.Error("Expected unknown level to be rejected")
	}
}

// TestLevelFiltering tests that messages below the level are dropped
func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: WARN, Output: &buf})

	log.Infof("hidden %d", 1)
	log.Warnf("shown %d", 2)
	if strings.Contains(buf.String(), "hidden") {
		t.Errorf("Expected info to be filtered, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), "shown 2") {
		t.Errorf("Expected warning in output, got %q", buf.String())
	}

	log.SetLevel(DEBUG)
	log.Debugf("now visible")
	if !strings.Contains(buf.String(), "now visible") {
		t.Errorf("Expected debug after SetLevel, got %q", buf.String())
	}
}

// TestJSONWithField tests structured output with a context field
func TestJSONWithField(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: INFO, JSON: true, Output: &buf}).With("run", "abcd1234")

	log.Infof("compared %s", "decks")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Expected JSON log line, got %q: %v", buf.String(), err)
	}
	if entry["msg"] != "compared decks" || entry["run"] != "abcd1234" || entry["level"] != "info" {
		t.Errorf("Unexpected entry %v", entry)
	}
}
