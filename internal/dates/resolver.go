// ABOUTME: Resolves a small vocabulary of date phrases into YYYY-MM-DD keys
// ABOUTME: Understands yesterday, today, this week, last <weekday>, and ISO dates
package dates

import (
	"strings"
	"time"
)

// KeyLayout is the canonical date_key format.
const KeyLayout = "2006-01-02"

// weekdays in Monday-first order; the index is the Monday=0 weekday number.
var weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// Key formats t as a date_key in t's own location.
func Key(t time.Time) string {
	return t.Format(KeyLayout)
}

// mondayIndex converts Go's Sunday=0 weekday to Monday=0.
func mondayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// Resolve maps phrase to a date_key relative to now. The second return is
// false when the phrase is not recognized; callers must not fall back to an
// unfiltered search in that case.
func Resolve(phrase string, now time.Time) (string, bool) {
	p := strings.Join(strings.Fields(strings.ToLower(phrase)), " ")
	if p == "" {
		return "", false
	}

	switch {
	case strings.Contains(p, "yesterday"):
		return Key(now.AddDate(0, 0, -1)), true
	case strings.Contains(p, "today"):
		return Key(now), true
	case strings.Contains(p, "this week"):
		return Key(now.AddDate(0, 0, -mondayIndex(now))), true
	}

	// "last" anywhere plus a weekday name anywhere; the first weekday in
	// Monday-first order wins.
	if strings.Contains(p, "last") {
		for target, name := range weekdays {
			if !strings.Contains(p, name) {
				continue
			}
			back := (mondayIndex(now) - target + 7) % 7
			if back == 0 {
				back = 7
			}
			return Key(now.AddDate(0, 0, -back)), true
		}
	}

	if t, err := time.Parse(KeyLayout, p); err == nil {
		return Key(t), true
	}
	return "", false
}
