// ABOUTME: Tests for candidate selection and result action parsing
// ABOUTME: Covers all, cancel, index bounds, and malformed input
package core

import (
	"errors"
	"testing"
)

func TestParseSelection(t *testing.T) {
	tests := []struct {
		input   string
		want    Selection
		wantErr bool
	}{
		{"all", Selection{All: true}, false},
		{" ALL ", Selection{All: true}, false},
		{"cancel", Selection{Cancel: true}, false},
		{"2", Selection{Index: 2}, false},
		{"0", Selection{}, true},
		{"4", Selection{}, true},
		{"two", Selection{}, true},
		{"", Selection{}, true},
	}

	for _, tt := range tests {
		got, err := ParseSelection(tt.input, 3)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidSelection) {
				t.Errorf("ParseSelection(%q) error = %v, want ErrInvalidSelection", tt.input, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseSelection(%q) error = %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseSelection(%q) = %+v, want %+v", tt.input, got, tt.want)
		}
	}
}

func TestSelectionApply(t *testing.T) {
	cands := []Candidate{{Title: "a"}, {Title: "b"}, {Title: "c"}}

	if got := (Selection{All: true}).Apply(cands); len(got) != 3 {
		t.Errorf("all selected %d, want 3", len(got))
	}
	if got := (Selection{Cancel: true}).Apply(cands); len(got) != 0 {
		t.Errorf("cancel selected %d, want 0", len(got))
	}
	got := (Selection{Index: 2}).Apply(cands)
	if len(got) != 1 || got[0].Title != "b" {
		t.Errorf("index 2 selected %+v, want b", got)
	}
}

func TestParseAction(t *testing.T) {
	tests := []struct {
		input string
		want  Action
	}{
		{"view 1", Action{Verb: ActionView, Index: 1}},
		{"COPY 2", Action{Verb: ActionCopy, Index: 2}},
		{"copyall", Action{Verb: ActionCopyAll}},
		{"extract 2", Action{Verb: ActionExtract, Index: 2}},
		{"delete 1", Action{Verb: ActionDelete, Index: 1}},
		{"done", Action{Verb: ActionDone}},
		{"exit", Action{Verb: ActionDone}},
	}
	for _, tt := range tests {
		got, err := ParseAction(tt.input, 2)
		if err != nil {
			t.Errorf("ParseAction(%q) error = %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseAction(%q) = %+v, want %+v", tt.input, got, tt.want)
		}
	}

	for _, bad := range []string{"", "view", "view 3", "copy x", "launch 1"} {
		if _, err := ParseAction(bad, 2); !errors.Is(err, ErrInvalidSelection) {
			t.Errorf("ParseAction(%q) error = %v, want ErrInvalidSelection", bad, err)
		}
	}
}
