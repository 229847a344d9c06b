// ABOUTME: Tests for text helpers and star rendering
// ABOUTME: Checks width handling for wide runes
package ui

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"hello world", 8, "hello..."},
		{"line one\nline two", 20, "line one line two"},
		{"abcdef", 2, "ab"},
	}
	for _, tt := range tests {
		if got := Truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}

	wide := Truncate("日本語のテキストです", 9)
	if Width(wide) > 9 {
		t.Errorf("Truncate() wide result %q has width %d", wide, Width(wide))
	}
}

func TestParseTimeAndAgo(t *testing.T) {
	if _, ok := ParseTime("2024-08-20T10:00:00.000000Z"); !ok {
		t.Error("ParseTime() should accept the stored layout")
	}
	if _, ok := ParseTime("2024-08-20 10:00:00"); !ok {
		t.Error("ParseTime() should accept sqlite CURRENT_TIMESTAMP")
	}
	if got := Ago("garbage"); got != "garbage" {
		t.Errorf("Ago(garbage) = %q", got)
	}
	recent := time.Now().Add(-2 * time.Hour).UTC().Format(time.RFC3339Nano)
	if got := Ago(recent); !strings.Contains(got, "hours ago") {
		t.Errorf("Ago() = %q, want hours ago", got)
	}
}

func TestBytesAndCount(t *testing.T) {
	if got := Bytes(2_000_000); got != "2.0 MB" {
		t.Errorf("Bytes() = %q", got)
	}
	if got := Count(1234567); got != "1,234,567" {
		t.Errorf("Count() = %q", got)
	}
}

func TestStarsAndLines(t *testing.T) {
	if s := Stars(3); strings.Count(s, "★") != 3 || strings.Count(s, "☆") != 2 {
		t.Errorf("Stars(3) = %q", s)
	}
	if s := Stars(9); strings.Count(s, "★") != 5 {
		t.Errorf("Stars(9) = %q", s)
	}

	var buf bytes.Buffer
	Success(&buf, "saved %d", 2)
	Failure(&buf, "oops")
	if !strings.Contains(buf.String(), "saved 2") || !strings.Contains(buf.String(), "oops") {
		t.Errorf("output = %q", buf.String())
	}
}
