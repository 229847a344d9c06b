// ABOUTME: Heuristic scanners that turn conversation turns into extraction candidates
// ABOUTME: Code snippets, action items, and custom substring matches
package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/snessa7/god-cli/internal/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrCategoryRequired is returned by custom extraction without a category.
var ErrCategoryRequired = errors.New("a category is required for custom extraction")

// Kind names an extraction heuristic.
type Kind string

const (
	KindCode    Kind = "code"
	KindActions Kind = "actions"
	KindCustom  Kind = "custom"
)

// Candidate is a staged extraction awaiting user selection.
type Candidate struct {
	Title          string `json:"title"`
	Content        string `json:"content"`
	Category       string `json:"category"`
	ExtractionType string `json:"extraction_type"`
	// Context is the text auto-tags are drawn from besides Content.
	Context   string `json:"context,omitempty"`
	Timestamp string `json:"timestamp"`
	Model     string `json:"model,omitempty"`
	// Pattern is the action phrase that matched, for action items only.
	Pattern string `json:"pattern,omitempty"`
}

var codePrefixes = []string{
	"def ", "class ", "import ", "from ", "if __name__", "print(", "return ", "for ", "while ",
}

var actionPatterns = []string{
	"todo:", "to do:", "action:", "task:", "next:", "remember to",
	"make sure to", "don't forget", "you should", "you need to",
}

const titlePreviewRunes = 50

// firstRunes returns at most n runes of s.
func firstRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// ScanCodeSnippets collects fenced and prefix-detected code lines from each
// assistant response. A turn yields one candidate if it has any code lines.
func ScanCodeSnippets(convs []models.Conversation) []Candidate {
	var out []Candidate
	for _, c := range convs {
		var block []string
		inFence := false
		for _, line := range strings.Split(c.AssistantResponse, "\n") {
			if strings.Contains(line, "```") {
				inFence = !inFence
				continue
			}
			if inFence || hasCodePrefix(line) {
				block = append(block, line)
			}
		}
		if len(block) == 0 {
			continue
		}
		out = append(out, Candidate{
			Title:          fmt.Sprintf("Code Snippet from %s", c.Timestamp),
			Content:        strings.Join(block, "\n"),
			Category:       "code",
			ExtractionType: models.TypeCodeSnippets,
			Context:        c.UserMessage,
			Timestamp:      c.Timestamp,
			Model:          c.ModelUsed,
		})
	}
	return out
}

func hasCodePrefix(line string) bool {
	trimmed := strings.TrimSpace(line)
	for _, p := range codePrefixes {
		if strings.HasPrefix(trimmed, p) {
			return true
		}
	}
	return false
}

// ScanActionItems splits each exchange into sentences on '.' and emits one
// candidate per sentence containing an action phrase. Only the first
// matching phrase is recorded for a sentence.
func ScanActionItems(convs []models.Conversation) []Candidate {
	var out []Candidate
	for _, c := range convs {
		for _, sentence := range strings.Split(c.Combined(), ".") {
			lower := strings.ToLower(sentence)
			for _, pattern := range actionPatterns {
				if !strings.Contains(lower, pattern) {
					continue
				}
				text := strings.TrimSpace(sentence)
				out = append(out, Candidate{
					Title:          fmt.Sprintf("Action Item: %s...", firstRunes(text, titlePreviewRunes)),
					Content:        text,
					Category:       "tasks",
					ExtractionType: models.TypeActionItems,
					Timestamp:      c.Timestamp,
					Model:          c.ModelUsed,
					Pattern:        pattern,
				})
				break
			}
		}
	}
	return out
}

// ScanCustom keeps whole exchanges under a user-chosen category. A non-empty
// filter keeps only exchanges containing it, case-insensitively.
func ScanCustom(convs []models.Conversation, category, filter string) ([]Candidate, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, ErrCategoryRequired
	}
	filter = strings.ToLower(strings.TrimSpace(filter))
	titled := cases.Title(language.English).String(category)

	var out []Candidate
	for _, c := range convs {
		if filter != "" && !strings.Contains(strings.ToLower(c.Combined()), filter) {
			continue
		}
		out = append(out, Candidate{
			Title:          fmt.Sprintf("%s: %s...", titled, firstRunes(c.UserMessage, titlePreviewRunes)),
			Content:        fmt.Sprintf("User: %s\n\nAssistant: %s", c.UserMessage, c.AssistantResponse),
			Category:       strings.ToLower(category),
			ExtractionType: models.TypeCustom,
			Timestamp:      c.Timestamp,
			Model:          c.ModelUsed,
		})
	}
	return out, nil
}
