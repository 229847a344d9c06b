// ABOUTME: Metadata collection for committed extraction candidates
// ABOUTME: Normalizes topic, summary, and importance, and derives auto-tags
package core

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/snessa7/god-cli/internal/models"
)

const (
	DefaultTopic   = "General"
	DefaultSummary = "No summary provided"

	autoTagLimit  = 3
	autoTagMinLen = 4
)

// MetadataInput is the raw answer set from the user for one candidate.
type MetadataInput struct {
	Topic      string
	Summary    string
	Importance string
	Tags       string
}

// Metadata is the normalized form stored with an extracted item.
type Metadata struct {
	Topic      string
	Summary    string
	Importance int
	AutoTags   []string
	Tags       string
}

// MetadataPrompter collects metadata for a candidate, usually interactively.
type MetadataPrompter interface {
	PromptMetadata(c Candidate) (MetadataInput, error)
}

// StaticPrompter answers every candidate with the same input.
type StaticPrompter MetadataInput

func (p StaticPrompter) PromptMetadata(Candidate) (MetadataInput, error) {
	return MetadataInput(p), nil
}

// NormalizeMetadata applies defaults and builds the final tag string for c.
func NormalizeMetadata(c Candidate, in MetadataInput) Metadata {
	md := Metadata{
		Topic:      strings.TrimSpace(in.Topic),
		Summary:    strings.TrimSpace(in.Summary),
		Importance: models.DefaultImportance,
	}
	if md.Topic == "" {
		md.Topic = DefaultTopic
	}
	if md.Summary == "" {
		md.Summary = DefaultSummary
	}
	if s := strings.TrimSpace(in.Importance); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			md.Importance = models.ClampImportance(n)
		}
	}

	md.AutoTags = append(AutoTags(c.Context), AutoTags(c.Content)...)
	md.Tags = MergeTags(md.AutoTags, in.Tags)
	return md
}

// AutoTags returns up to three lower-cased words from text that are longer
// than three characters and made only of letters.
func AutoTags(text string) []string {
	var out []string
	for _, w := range strings.Fields(strings.ToLower(text)) {
		if len(out) == autoTagLimit {
			break
		}
		if len([]rune(w)) >= autoTagMinLen && isAlpha(w) {
			out = append(out, w)
		}
	}
	return out
}

func isAlpha(w string) bool {
	for _, r := range w {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// MergeTags combines auto tags with a comma-separated user list, dropping
// blanks and duplicates in first-seen order, and joins them with ", ".
func MergeTags(auto []string, user string) string {
	seen := make(map[string]bool)
	var out []string
	add := func(t string) {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			return
		}
		seen[t] = true
		out = append(out, t)
	}
	for _, t := range auto {
		add(t)
	}
	for _, t := range strings.Split(user, ",") {
		add(t)
	}
	return strings.Join(out, ", ")
}
