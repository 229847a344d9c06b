// ABOUTME: Shared utility functions for CLI commands
// ABOUTME: Output helpers, argument parsing, and tag/importance flag handling
package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/snessa7/god-cli/internal/models"
	"github.com/snessa7/god-cli/internal/ui"
)

// truncate shortens a string to maxLen display cells, adding "..." if truncated
func truncate(s string, maxLen int) string {
	return ui.Truncate(s, maxLen)
}

// writeJSON prints v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	fmt.Fprintf(w, "%s\n", data)
	return nil
}

// validatePositiveInt returns error if n is not positive
func validatePositiveInt(n int, name string) error {
	if n <= 0 {
		return fmt.Errorf("%s must be positive, got %d", name, n)
	}
	return nil
}

// validateImportance accepts 0 (unset) or 1-5.
func validateImportance(n int, name string) error {
	if n != 0 && (n < models.MinImportance || n > models.MaxImportance) {
		return fmt.Errorf("%s must be between %d and %d, got %d", name, models.MinImportance, models.MaxImportance, n)
	}
	return nil
}

// parseID reads a positive numeric id argument.
func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q: must be a positive number", s)
	}
	return id, nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
