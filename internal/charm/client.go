// ABOUTME: Charm KV client wrapper for syncing memory snapshots across machines
// ABOUTME: Snapshots are YAML exports stored under timestamped keys with SSH key auth
package charm

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/charm/client"
	"github.com/charmbracelet/charm/kv"
	"github.com/snessa7/god-cli/internal/config"
)

// Key layout
const (
	SnapshotPrefix = "snapshot:"
	LatestKey      = "snapshot-latest"
)

// DefaultKeep is how many timestamped snapshots Push retains.
const DefaultKeep = 10

// ErrNoSnapshot is returned by Pull when nothing has been pushed yet.
var ErrNoSnapshot = errors.New("no snapshot found in charm cloud")

// Config holds charm client configuration
type Config struct {
	Host     string
	DBName   string
	AutoSync bool
	Keep     int
}

// ConfigFrom builds a charm config from the app config.
func ConfigFrom(cfg *config.Config) *Config {
	return &Config{
		Host:     cfg.CharmHost,
		DBName:   cfg.CharmDBName,
		AutoSync: true,
		Keep:     DefaultKeep,
	}
}

// store is the subset of *kv.KV the client uses.
type store interface {
	Set(key, value []byte) error
	Get(key []byte) ([]byte, error)
	Delete(key []byte) error
	Keys() ([][]byte, error)
	Sync() error
	Reset() error
	Close() error
}

// Client wraps charm KV for snapshot storage
type Client struct {
	kv     store
	config *Config
	mu     sync.Mutex
}

// NewClient opens the charm KV database named in cfg.
func NewClient(cfg *Config) (*Client, error) {
	if cfg.Host != "" {
		// charm reads the host from the environment
		os.Setenv("CHARM_HOST", cfg.Host)
	}

	db, err := kv.OpenWithDefaults(cfg.DBName)
	if err != nil {
		return nil, fmt.Errorf("failed to open charm kv: %w", err)
	}
	return newClient(db, cfg), nil
}

func newClient(s store, cfg *Config) *Client {
	if cfg.Keep <= 0 {
		cfg.Keep = DefaultKeep
	}
	return &Client{kv: s, config: cfg}
}

// Close closes the KV database
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.kv != nil {
		err := c.kv.Close()
		c.kv = nil
		return err
	}
	return nil
}

// ID returns the charm user ID
func (c *Client) ID() (string, error) {
	cc, err := client.NewClientWithDefaults()
	if err != nil {
		return "", fmt.Errorf("failed to create charm client: %w", err)
	}
	return cc.ID()
}

// SnapshotKey returns the key for a snapshot taken at stamp.
func SnapshotKey(stamp string) string {
	return SnapshotPrefix + stamp
}

// Push stores data as the latest snapshot and as a timestamped copy, trims
// old copies beyond the keep limit, and syncs.
func (c *Client) Push(data []byte, stamp string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.kv.Set([]byte(SnapshotKey(stamp)), data); err != nil {
		return fmt.Errorf("failed to store snapshot %s: %w", stamp, err)
	}
	if err := c.kv.Set([]byte(LatestKey), data); err != nil {
		return fmt.Errorf("failed to store latest snapshot: %w", err)
	}
	if err := c.trim(); err != nil {
		return err
	}
	if c.config.AutoSync {
		return c.kv.Sync()
	}
	return nil
}

// Pull syncs and returns the latest snapshot.
func (c *Client) Pull() ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.config.AutoSync {
		if err := c.kv.Sync(); err != nil {
			return nil, fmt.Errorf("failed to sync: %w", err)
		}
	}
	data, err := c.kv.Get([]byte(LatestKey))
	if err != nil || len(data) == 0 {
		return nil, ErrNoSnapshot
	}
	return data, nil
}

// Snapshot returns the snapshot stored under stamp.
func (c *Client) Snapshot(stamp string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := c.kv.Get([]byte(SnapshotKey(stamp)))
	if err != nil || len(data) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoSnapshot, stamp)
	}
	return data, nil
}

// Snapshots lists stored snapshot stamps, oldest first.
func (c *Client) Snapshots() ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshots()
}

func (c *Client) snapshots() ([]string, error) {
	keys, err := c.kv.Keys()
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	var stamps []string
	for _, k := range keys {
		if s, ok := strings.CutPrefix(string(k), SnapshotPrefix); ok {
			stamps = append(stamps, s)
		}
	}
	sort.Strings(stamps)
	return stamps, nil
}

func (c *Client) trim() error {
	stamps, err := c.snapshots()
	if err != nil {
		return err
	}
	for len(stamps) > c.config.Keep {
		if err := c.kv.Delete([]byte(SnapshotKey(stamps[0]))); err != nil {
			return fmt.Errorf("failed to delete snapshot %s: %w", stamps[0], err)
		}
		stamps = stamps[1:]
	}
	return nil
}

// Keys returns every key in the database.
func (c *Client) Keys() ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys, err := c.kv.Keys()
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = string(k)
	}
	sort.Strings(out)
	return out, nil
}

// Sync manually triggers a sync with the cloud
func (c *Client) Sync() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.kv.Sync()
}

// Reset wipes all local data
func (c *Client) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.kv.Reset()
}
