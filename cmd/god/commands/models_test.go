// ABOUTME: Tests for the models command
// ABOUTME: Uses a fake model client in place of the Ollama server
package commands

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestModels_MarksDefault(t *testing.T) {
	testDB(t)
	t.Setenv("GOD_MODEL", "")
	useFakeModel(t, &fakeModel{models: []string{"gemma3:1b", "llama3.2"}})

	out, err := runGod(t, "", "models")
	if err != nil {
		t.Fatalf("models error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[0], "* ") || !strings.HasSuffix(lines[0], "gemma3:1b") {
		t.Errorf("default model not marked: %q", lines[0])
	}
	if strings.Contains(lines[1], "*") {
		t.Errorf("non-default model marked: %q", lines[1])
	}
}

func TestModels_JSON(t *testing.T) {
	testDB(t)
	t.Setenv("GOD_MODEL", "llama3.2")
	useFakeModel(t, &fakeModel{})

	out, err := runGod(t, "", "--format", "json", "models")
	if err != nil {
		t.Fatalf("models error = %v", err)
	}
	var got struct {
		Models  []string `json:"models"`
		Default string   `json:"default"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("Unmarshal() error = %v\n%s", err, out)
	}
	if got.Models == nil || len(got.Models) != 0 {
		t.Errorf("models = %v, want empty list", got.Models)
	}
	if got.Default != "llama3.2" {
		t.Errorf("default = %q", got.Default)
	}
}

func TestModels_ServerDown(t *testing.T) {
	testDB(t)
	useFakeModel(t, &fakeModel{err: errors.New("connection refused")})

	if _, err := runGod(t, "", "models"); err == nil || !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("err = %v, want connection refused", err)
	}
}
