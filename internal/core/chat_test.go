// ABOUTME: Tests for chat session bookkeeping
// ABOUTME: A fake Chatter stands in for the model server
package core

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/snessa7/god-cli/internal/models"
)

type fakeChatter struct {
	reply  string
	tokens int
	err    error
	system string
	model  string
}

func (f *fakeChatter) Chat(_ context.Context, model, system, _ string) (string, int, error) {
	f.model = model
	f.system = system
	return f.reply, f.tokens, f.err
}

func TestNewSessionID(t *testing.T) {
	id := NewSessionID(time.Date(2024, 8, 20, 10, 15, 0, 0, time.UTC))
	if !regexp.MustCompile(`^session_20240820_101500_[0-9a-f]{8}$`).MatchString(id) {
		t.Errorf("NewSessionID() = %q", id)
	}
	if id == NewSessionID(time.Date(2024, 8, 20, 10, 15, 0, 0, time.UTC)) {
		t.Error("session ids should differ within the same second")
	}
}

func TestChatSessionLifecycle(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()
	if err := store.Knowledge().Add(ctx, &models.SystemKnowledge{Title: "Rules", Content: "Be kind."}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	client := &fakeChatter{reply: "Hello!", tokens: 12}
	s := NewChatSession(store, client, "gemma3:1b", "You are helpful.")
	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	if got := s.Send(ctx, "hi"); got != "Hello!" {
		t.Errorf("Send() = %q", got)
	}
	if !strings.HasPrefix(client.system, "You are helpful.\n\n=== SYSTEM KNOWLEDGE ===") {
		t.Errorf("system prompt = %q, want knowledge appended", client.system)
	}
	if client.model != "gemma3:1b" {
		t.Errorf("model = %q", client.model)
	}

	client.err = errors.New("connection refused")
	if got := s.Send(ctx, "again"); got != "Error: connection refused" {
		t.Errorf("Send() on failure = %q", got)
	}

	if err := s.End(ctx); err != nil {
		t.Fatalf("End() error = %v", err)
	}
	sess, err := store.Sessions().Get(ctx, s.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if sess.TotalMessages != 1 || sess.TotalTokens != 12 || !sess.Ended() {
		t.Errorf("session = %+v, want one saved exchange", sess)
	}
}

func TestChatSessionSetModel(t *testing.T) {
	store := newTestStorage(t)
	client := &fakeChatter{reply: "ok"}
	s := NewChatSession(store, client, "a", "")
	s.SetModel("b")
	s.Send(context.Background(), "hi")
	if s.Model() != "b" || client.model != "b" {
		t.Errorf("model = %q/%q, want b", s.Model(), client.model)
	}
}
