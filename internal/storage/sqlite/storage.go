// ABOUTME: Unified Storage layer that wraps all SQLite stores
// ABOUTME: One explicit handle passed to every component, no package-level connection
package sqlite

import (
	"context"
	"fmt"
	"os"
	"time"
)

// Storage manages all persistent data for the chat client using SQLite
type Storage struct {
	db            *DB
	conversations *ConversationStore
	sessions      *SessionStore
	extracted     *ExtractedStore
	index         *IndexStore
	knowledge     *KnowledgeStore
	preferences   *PreferenceStore
}

// Stats summarizes table sizes for the stats command.
type Stats struct {
	Path          string `json:"path"`
	SizeBytes     int64  `json:"size_bytes"`
	SchemaVersion int    `json:"schema_version"`
	Conversations int    `json:"conversations"`
	Sessions      int    `json:"sessions"`
	Extracted     int    `json:"extracted"`
	Indexed       int    `json:"indexed"`
	Knowledge     int    `json:"knowledge"`
	Preferences   int    `json:"preferences"`
}

// NewStorage initializes storage at the default XDG path
func NewStorage() (*Storage, error) {
	return NewStorageWithPath(DefaultDBPath())
}

// NewStorageWithPath initializes storage with a custom database path
func NewStorageWithPath(dbPath string) (*Storage, error) {
	db, err := Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return newStorage(db), nil
}

// NewStorageInMemory creates an in-memory storage (for testing)
func NewStorageInMemory() (*Storage, error) {
	db, err := OpenInMemory()
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory database: %w", err)
	}
	return newStorage(db), nil
}

func newStorage(db *DB) *Storage {
	return &Storage{
		db:            db,
		conversations: NewConversationStore(db),
		sessions:      NewSessionStore(db),
		extracted:     NewExtractedStore(db),
		index:         NewIndexStore(db),
		knowledge:     NewKnowledgeStore(db),
		preferences:   NewPreferenceStore(db),
	}
}

// Close closes the database connection
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SetClock replaces the time source used for stored timestamps.
func (s *Storage) SetClock(now func() time.Time) {
	s.db.SetClock(now)
}

// DB returns the underlying database handle.
func (s *Storage) DB() *DB { return s.db }

// Path returns the database file path.
func (s *Storage) Path() string { return s.db.Path() }

// Conversations returns the conversation store.
func (s *Storage) Conversations() *ConversationStore { return s.conversations }

// Sessions returns the session store.
func (s *Storage) Sessions() *SessionStore { return s.sessions }

// Extracted returns the extracted info store.
func (s *Storage) Extracted() *ExtractedStore { return s.extracted }

// Index returns the metadata index store.
func (s *Storage) Index() *IndexStore { return s.index }

// Knowledge returns the system knowledge store.
func (s *Storage) Knowledge() *KnowledgeStore { return s.knowledge }

// Preferences returns the user preference store.
func (s *Storage) Preferences() *PreferenceStore { return s.preferences }

// Stats collects row counts for every table plus the database file size.
func (s *Storage) Stats(ctx context.Context) (*Stats, error) {
	st := &Stats{Path: s.db.Path()}

	counts := []struct {
		table string
		dst   *int
	}{
		{"conversations", &st.Conversations},
		{"sessions", &st.Sessions},
		{"extracted_info", &st.Extracted},
		{"metadata_index", &st.Indexed},
		{"system_knowledge", &st.Knowledge},
		{"user_preferences", &st.Preferences},
	}
	for _, c := range counts {
		n, err := s.db.count(ctx, c.table)
		if err != nil {
			return nil, err
		}
		*c.dst = n
	}

	if v, err := s.db.Version(); err == nil {
		st.SchemaVersion = v
	}
	if info, err := os.Stat(s.db.Path()); err == nil {
		st.SizeBytes = info.Size()
	}
	return st, nil
}
