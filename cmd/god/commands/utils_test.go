// ABOUTME: Tests for shared command helpers
// ABOUTME: ID parsing, flag validation, and JSON output
package commands

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseID(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"7", 7, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"abc", 0, true},
	}
	for _, tt := range tests {
		got, err := parseID(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("parseID(%q) = %d, %v", tt.in, got, err)
		}
	}
}

func TestValidateImportance(t *testing.T) {
	for _, n := range []int{0, 1, 5} {
		if err := validateImportance(n, "--importance"); err != nil {
			t.Errorf("validateImportance(%d) error = %v", n, err)
		}
	}
	for _, n := range []int{-1, 6} {
		if err := validateImportance(n, "--importance"); err == nil {
			t.Errorf("validateImportance(%d) should fail", n)
		}
	}
	if err := validatePositiveInt(0, "--limit"); err == nil {
		t.Error("validatePositiveInt(0) should fail")
	}
}

func TestWriteJSONAndDash(t *testing.T) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, map[string]int{"n": 1}); err != nil {
		t.Fatalf("writeJSON() error = %v", err)
	}
	if !strings.Contains(buf.String(), `"n": 1`) {
		t.Errorf("writeJSON() = %s", buf.String())
	}
	if orDash("") != "-" || orDash("x") != "x" {
		t.Error("orDash mismatch")
	}
}
