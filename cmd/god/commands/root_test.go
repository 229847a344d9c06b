// ABOUTME: Tests for the root command and its persistent flags
// ABOUTME: Covers the command tree, flag defaults, and pre-run validation
package commands

import (
	"bytes"
	"sort"
	"strings"
	"testing"
)

func TestNewRootCmd(t *testing.T) {
	cmd := NewRootCmd()

	if cmd.Use != "god" {
		t.Errorf("Use = %q, want god", cmd.Use)
	}
	if !strings.Contains(cmd.Long, "╚██████╔╝") {
		t.Error("Long should open with the banner")
	}
	if !cmd.SilenceUsage {
		t.Error("SilenceUsage should be set so errors are not buried in usage text")
	}
}

func TestRootCmd_PersistentFlags(t *testing.T) {
	flags := NewRootCmd().PersistentFlags()

	for name, want := range map[string]string{
		"verbose": "false",
		"quiet":   "false",
		"format":  "auto",
		"db":      "",
	} {
		f := flags.Lookup(name)
		if f == nil {
			t.Errorf("--%s missing", name)
			continue
		}
		if f.DefValue != want {
			t.Errorf("--%s default = %q, want %q", name, f.DefValue, want)
		}
	}
	if flags.ShorthandLookup("v") == nil || flags.ShorthandLookup("q") == nil {
		t.Error("-v and -q shorthands missing")
	}
}

func TestRootCmd_PreRunValidation(t *testing.T) {
	tests := []struct {
		args    []string
		wantErr string
	}{
		{[]string{"--quiet", "version"}, ""},
		{[]string{"--format", "table", "version"}, ""},
		{[]string{"-v", "-q", "version"}, "mutually exclusive"},
		{[]string{"--format", "yaml", "version"}, "--format must be"},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			cmd := NewRootCmd()
			cmd.SetOut(&bytes.Buffer{})
			cmd.SetErr(&bytes.Buffer{})
			cmd.SetArgs(tt.args)

			err := cmd.Execute()
			switch {
			case tt.wantErr == "" && err != nil:
				t.Errorf("unexpected error: %v", err)
			case tt.wantErr != "" && (err == nil || !strings.Contains(err.Error(), tt.wantErr)):
				t.Errorf("err = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestRootCmd_CommandTree(t *testing.T) {
	var names []string
	for _, sub := range NewRootCmd().Commands() {
		if sub.Name() == "help" || sub.Name() == "completion" {
			continue
		}
		names = append(names, sub.Name())
	}
	sort.Strings(names)

	want := []string{
		"chat", "export", "extract", "history", "import", "index", "knowledge",
		"mcp", "models", "prefs", "search", "stats", "sync", "version",
	}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Errorf("commands = %v, want %v", names, want)
	}
}

func TestRootCmd_KnowledgeAlias(t *testing.T) {
	cmd := NewRootCmd()
	found, _, err := cmd.Find([]string{"kb", "list"})
	if err != nil {
		t.Fatalf("Find(kb list) error = %v", err)
	}
	if found.Parent().Name() != "knowledge" {
		t.Errorf("kb resolved to %q", found.Parent().Name())
	}
}

func TestRootCmd_Help(t *testing.T) {
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--help"})
	_ = cmd.Execute()

	for _, want := range []string{"Available Commands:", "extract", "--db string"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("help missing %q", want)
		}
	}
}
