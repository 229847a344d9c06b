// ABOUTME: Conversation and Session records for the chat log
// ABOUTME: One Conversation per exchange, one Session per process run
package models

// Conversation is a single user/assistant exchange. Rows are immutable once written.
type Conversation struct {
	ID                int64  `db:"id" json:"id" yaml:"id"`
	SessionID         string `db:"session_id" json:"session_id" yaml:"session_id"`
	UserMessage       string `db:"user_message" json:"user_message" yaml:"user_message"`
	AssistantResponse string `db:"assistant_response" json:"assistant_response" yaml:"assistant_response"`
	ModelUsed         string `db:"model_used" json:"model_used" yaml:"model_used"`
	Timestamp         string `db:"timestamp" json:"timestamp" yaml:"timestamp"`
	TokensUsed        int    `db:"tokens_used" json:"tokens_used" yaml:"tokens_used"`
}

// Combined returns the user and assistant text joined by a single space.
func (c Conversation) Combined() string {
	return c.UserMessage + " " + c.AssistantResponse
}

// Session tracks one run of the chat client.
type Session struct {
	ID            int64  `db:"id" json:"id"`
	SessionID     string `db:"session_id" json:"session_id"`
	StartTime     string `db:"start_time" json:"start_time"`
	EndTime       string `db:"end_time" json:"end_time,omitempty"`
	ModelUsed     string `db:"model_used" json:"model_used"`
	TotalMessages int    `db:"total_messages" json:"total_messages"`
	TotalTokens   int    `db:"total_tokens" json:"total_tokens"`
}

// Ended reports whether the session was closed gracefully.
func (s Session) Ended() bool {
	return s.EndTime != ""
}
