// ABOUTME: System clipboard access for copying search results
// ABOUTME: Wraps atotto/clipboard with empty-text and missing-tool errors
package clipboard

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/atotto/clipboard"
)

var (
	ErrEmpty       = errors.New("no text to copy")
	ErrUnavailable = errors.New("clipboard not available")
)

// System copies to the OS clipboard.
type System struct{}

// Copy writes text to the clipboard. Blank text is rejected.
func (System) Copy(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmpty
	}
	if clipboard.Unsupported {
		return fmt.Errorf("%w: %s", ErrUnavailable, Hint(runtime.GOOS))
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("%w: %v (%s)", ErrUnavailable, err, Hint(runtime.GOOS))
	}
	return nil
}

// Hint tells the user what to install for clipboard support on goos.
func Hint(goos string) string {
	switch goos {
	case "linux", "freebsd", "openbsd", "netbsd":
		return "install xclip, xsel, or wl-clipboard"
	case "darwin":
		return "pbcopy should be available by default"
	case "windows":
		return "clip.exe should be available by default"
	default:
		return "no clipboard tool known for " + goos
	}
}
