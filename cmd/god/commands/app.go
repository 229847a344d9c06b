// ABOUTME: Shared setup for commands: config, storage, and collaborators
// ABOUTME: Collaborator constructors are variables so tests can swap them
package commands

import (
	"context"
	"fmt"

	"github.com/snessa7/god-cli/internal/charm"
	"github.com/snessa7/god-cli/internal/clipboard"
	"github.com/snessa7/god-cli/internal/config"
	"github.com/snessa7/god-cli/internal/core"
	"github.com/snessa7/god-cli/internal/llm"
	"github.com/snessa7/god-cli/internal/storage/sqlite"
)

var (
	newClipboard = func() core.Clipboard { return clipboard.System{} }

	newChatClient = func(cfg *config.Config) (modelClient, error) {
		return llm.NewOllamaClient(llm.ConfigFrom(cfg))
	}

	newSnapshotStore = func(cfg *config.Config) (snapshotStore, error) {
		return charm.NewClient(charm.ConfigFrom(cfg))
	}
)

// modelClient is what the chat and models commands need from the server.
type modelClient interface {
	core.Chatter
	ListModels(ctx context.Context) ([]string, error)
}

// snapshotStore is the charm client surface the sync command uses.
type snapshotStore interface {
	ID() (string, error)
	Push(data []byte, stamp string) error
	Pull() ([]byte, error)
	Snapshot(stamp string) ([]byte, error)
	Snapshots() ([]string, error)
	Keys() ([]string, error)
	Sync() error
	Reset() error
	Close() error
}

// resolveDBPath picks --db, then the configured path, then the XDG default.
func resolveDBPath(cfg *config.Config) string {
	switch {
	case dbPath != "":
		return dbPath
	case cfg != nil && cfg.DBPath != "":
		return cfg.DBPath
	default:
		return sqlite.DefaultDBPath()
	}
}

// openApp loads config and opens storage. Callers must Close the storage.
func openApp() (*config.Config, *sqlite.Storage, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	store, err := sqlite.NewStorageWithPath(resolveDBPath(cfg))
	if err != nil {
		return nil, nil, fmt.Errorf("initializing storage: %w", err)
	}
	return cfg, store, nil
}
