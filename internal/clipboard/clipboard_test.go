// ABOUTME: Tests for clipboard validation and hints
// ABOUTME: Does not touch the real clipboard
package clipboard

import (
	"errors"
	"strings"
	"testing"
)

func TestCopyRejectsBlank(t *testing.T) {
	for _, s := range []string{"", "   ", "\n\t"} {
		if err := (System{}).Copy(s); !errors.Is(err, ErrEmpty) {
			t.Errorf("Copy(%q) error = %v, want ErrEmpty", s, err)
		}
	}
}

func TestHint(t *testing.T) {
	if !strings.Contains(Hint("linux"), "xclip") {
		t.Errorf("Hint(linux) = %q", Hint("linux"))
	}
	if !strings.Contains(Hint("plan9"), "plan9") {
		t.Errorf("Hint(plan9) = %q", Hint("plan9"))
	}
}
