// ABOUTME: Display-width aware text helpers
// ABOUTME: Truncation for tables and humanized times and sizes
package ui

import (
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
)

var timeLayouts = []string{
	"2006-01-02T15:04:05.000000Z07:00",
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Width returns the terminal cell width of s.
func Width(s string) int {
	return runewidth.StringWidth(s)
}

// Truncate shortens s to at most width cells, ending in "..." when cut.
// Newlines are folded to spaces first.
func Truncate(s string, width int) string {
	s = strings.Join(strings.Fields(s), " ")
	if width <= 3 {
		return runewidth.Truncate(s, width, "")
	}
	return runewidth.Truncate(s, width, "...")
}

// ParseTime reads a stored timestamp.
func ParseTime(s string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Ago renders a stored timestamp relative to now, e.g. "3 hours ago".
// Unparseable input is returned unchanged.
func Ago(ts string) string {
	t, ok := ParseTime(ts)
	if !ok {
		return ts
	}
	return humanize.Time(t)
}

// Bytes renders a size such as "1.2 MB".
func Bytes(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.Bytes(uint64(n))
}

// Count renders n with thousands separators.
func Count(n int) string {
	return humanize.Comma(int64(n))
}
