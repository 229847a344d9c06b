// ABOUTME: Chat session bookkeeping around the model client
// ABOUTME: Injects knowledge into the system prompt and logs each exchange
package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/snessa7/god-cli/internal/models"
	"github.com/snessa7/god-cli/internal/storage/sqlite"
)

// Chatter sends one message to a model and returns the reply and tokens used.
type Chatter interface {
	Chat(ctx context.Context, model, system, message string) (string, int, error)
}

// NewSessionID returns an id like session_20240820_101500_1a2b3c4d.
func NewSessionID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("session_%s_%s", now.Format("20060102_150405"), suffix)
}

// ChatSession is one run of the chat REPL.
type ChatSession struct {
	ID string

	storage      *sqlite.Storage
	client       Chatter
	model        string
	systemPrompt string
}

// NewChatSession creates a session with a fresh id.
func NewChatSession(storage *sqlite.Storage, client Chatter, model, systemPrompt string) *ChatSession {
	return &ChatSession{
		ID:           NewSessionID(time.Now()),
		storage:      storage,
		client:       client,
		model:        model,
		systemPrompt: systemPrompt,
	}
}

// Model returns the model replies are requested from.
func (s *ChatSession) Model() string { return s.model }

// SetModel switches the model for later messages.
func (s *ChatSession) SetModel(model string) { s.model = model }

// Start records the session row.
func (s *ChatSession) Start(ctx context.Context) error {
	return s.storage.Sessions().Start(ctx, s.ID, s.model)
}

// Send asks the model for a reply. Failures come back as "Error: ..." text
// rather than an error, and only successful exchanges are logged.
func (s *ChatSession) Send(ctx context.Context, message string) string {
	system := s.systemPrompt
	if knowledge, err := KnowledgeContext(ctx, s.storage); err != nil {
		log.Warn("could not load system knowledge", "err", err)
	} else {
		system += knowledge
	}

	reply, tokens, err := s.client.Chat(ctx, s.model, system, message)
	if err != nil {
		return fmt.Sprintf("Error: %v", err)
	}

	conv := &models.Conversation{
		SessionID:         s.ID,
		UserMessage:       message,
		AssistantResponse: reply,
		ModelUsed:         s.model,
		TokensUsed:        tokens,
	}
	if err := s.storage.Conversations().Save(ctx, conv); err != nil {
		log.Warn("could not save conversation", "err", err)
	}
	return reply
}

// End closes the session row with its message and token totals.
func (s *ChatSession) End(ctx context.Context) error {
	return s.storage.Sessions().End(ctx, s.ID)
}
