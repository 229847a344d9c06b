// ABOUTME: Sync commands for Charm cloud backups of the memory
// ABOUTME: Push and pull YAML snapshots, plus status, wipe, and keys management
package commands

import (
	"bytes"
	"fmt"
	"time"

	"github.com/snessa7/god-cli/internal/config"
	"github.com/snessa7/god-cli/internal/storage/sqlite"
	"github.com/snessa7/god-cli/internal/ui"
	"github.com/spf13/cobra"
)

// snapshotStampLayout sorts lexically in time order.
const snapshotStampLayout = "20060102T150405"

// NewSyncCmd creates the sync command group
func NewSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Back up and restore the memory with Charm cloud",
		Long: `Back up and restore notes, knowledge, and preferences with Charm cloud.

Each push stores a YAML snapshot (the same format as 'god export') in
your Charm KV database, keeping the newest ten. Pull imports the latest
snapshot, skipping items you already have. Charm authenticates with
your SSH keys, so devices linked to the same account share backups.

Examples:
  god sync status
  god sync push
  god sync pull
  god sync snapshots
  god sync pull --snapshot 20240821T101500`,
	}

	cmd.AddCommand(newSyncStatusCmd())
	cmd.AddCommand(newSyncPushCmd())
	cmd.AddCommand(newSyncPullCmd())
	cmd.AddCommand(newSyncSnapshotsCmd())
	cmd.AddCommand(newSyncNowCmd())
	cmd.AddCommand(newSyncWipeCmd())
	cmd.AddCommand(newSyncKeysCmd())

	return cmd
}

// withSnapshots loads config and opens the charm client for fn.
func withSnapshots(fn func(cfg *config.Config, snaps snapshotStore) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	snaps, err := newSnapshotStore(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to Charm: %w", err)
	}
	defer snaps.Close()
	return fn(cfg, snaps)
}

func newSyncStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show sync status and connection info",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSnapshots(func(cfg *config.Config, snaps snapshotStore) error {
				out := cmd.OutOrStdout()
				id, err := snaps.ID()
				if err != nil {
					fmt.Fprintln(out, "Status: Not connected")
					ui.Tip(out, "Run 'god sync keys' to check your SSH keys")
					return nil
				}
				stamps, err := snaps.Snapshots()
				if err != nil {
					return err
				}

				if isJSON() {
					return writeJSON(out, map[string]any{
						"connected": true,
						"user_id":   id,
						"host":      cfg.CharmHost,
						"database":  cfg.CharmDBName,
						"snapshots": len(stamps),
					})
				}
				fmt.Fprintln(out, "Status: Connected")
				fmt.Fprintf(out, "User ID: %s\n", id)
				fmt.Fprintf(out, "Host: %s\n", cfg.CharmHost)
				fmt.Fprintf(out, "Database: %s\n", cfg.CharmDBName)
				fmt.Fprintf(out, "Snapshots: %d\n", len(stamps))
				if len(stamps) > 0 {
					fmt.Fprintf(out, "Latest: %s\n", stamps[len(stamps)-1])
				}
				return nil
			})
		},
	}
}

func newSyncPushCmd() *cobra.Command {
	var withHistory bool

	cmd := &cobra.Command{
		Use:   "push",
		Short: "Upload a snapshot of the local memory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, err := openApp()
			if err != nil {
				return err
			}
			defer store.Close()

			data, err := store.Export(cmd.Context(), withHistory)
			if err != nil {
				return err
			}
			var buf bytes.Buffer
			if err := sqlite.WriteYAML(&buf, data); err != nil {
				return err
			}

			stamp := time.Now().UTC().Format(snapshotStampLayout)
			return withSnapshots(func(_ *config.Config, snaps snapshotStore) error {
				if err := snaps.Push(buf.Bytes(), stamp); err != nil {
					return fmt.Errorf("push failed: %w", err)
				}
				if isJSON() {
					return writeJSON(cmd.OutOrStdout(), map[string]any{
						"snapshot":  stamp,
						"bytes":     buf.Len(),
						"extracted": len(data.Extracted),
						"knowledge": len(data.Knowledge),
					})
				}
				ui.Success(cmd.OutOrStdout(), "Pushed snapshot %s (%d notes, %d knowledge, %s)",
					stamp, len(data.Extracted), len(data.Knowledge), ui.Bytes(int64(buf.Len())))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&withHistory, "history", false, "Include the conversation log")
	return cmd
}

func newSyncPullCmd() *cobra.Command {
	var stamp string

	cmd := &cobra.Command{
		Use:   "pull",
		Short: "Import the latest (or a chosen) snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var raw []byte
			err := withSnapshots(func(_ *config.Config, snaps snapshotStore) error {
				var err error
				if stamp != "" {
					raw, err = snaps.Snapshot(stamp)
				} else {
					raw, err = snaps.Pull()
				}
				return err
			})
			if err != nil {
				return fmt.Errorf("pull failed: %w", err)
			}

			data, err := sqlite.ParseYAML(raw)
			if err != nil {
				return err
			}

			_, store, err := openApp()
			if err != nil {
				return err
			}
			defer store.Close()

			res, err := store.Import(cmd.Context(), data)
			if err != nil {
				return fmt.Errorf("importing snapshot: %w", err)
			}
			return printImport(cmd, res)
		},
	}

	cmd.Flags().StringVar(&stamp, "snapshot", "", "Snapshot stamp to restore (see 'god sync snapshots')")
	return cmd
}

func newSyncSnapshotsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "snapshots",
		Short: "List stored snapshots, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSnapshots(func(_ *config.Config, snaps snapshotStore) error {
				stamps, err := snaps.Snapshots()
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if isJSON() {
					if stamps == nil {
						stamps = []string{}
					}
					return writeJSON(out, stamps)
				}
				if len(stamps) == 0 {
					fmt.Fprintln(out, "No snapshots yet. Run 'god sync push'")
					return nil
				}
				for _, s := range stamps {
					when := s
					if t, err := time.Parse(snapshotStampLayout, s); err == nil {
						when = fmt.Sprintf("%s  (%s)", s, ui.Ago(t.Format(time.RFC3339)))
					}
					fmt.Fprintln(out, when)
				}
				return nil
			})
		},
	}
}

func newSyncNowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "now",
		Short: "Force immediate sync with Charm cloud",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSnapshots(func(_ *config.Config, snaps snapshotStore) error {
				if !quiet {
					fmt.Fprintln(cmd.OutOrStdout(), "Syncing...")
				}
				if err := snaps.Sync(); err != nil {
					return fmt.Errorf("sync failed: %w", err)
				}
				ui.Success(cmd.OutOrStdout(), "Sync complete")
				return nil
			})
		},
	}
}

func newSyncWipeCmd() *cobra.Command {
	var confirmed bool

	cmd := &cobra.Command{
		Use:   "wipe",
		Short: "Wipe the local Charm cache",
		Long: `Completely wipe the locally cached Charm data.

WARNING: This deletes the local copy of your snapshots. Snapshots in
the cloud remain intact and are fetched again on the next sync. Your
god-cli database is not touched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if !confirmed {
				fmt.Fprintln(out, "This will wipe ALL local Charm data!")
				fmt.Fprintln(out, "Run with --confirm to proceed")
				return nil
			}

			return withSnapshots(func(_ *config.Config, snaps snapshotStore) error {
				if err := snaps.Reset(); err != nil {
					return fmt.Errorf("failed to wipe data: %w", err)
				}
				ui.Success(out, "Local Charm data wiped")
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&confirmed, "confirm", false, "Confirm the wipe operation")
	return cmd
}

func newSyncKeysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "List keys stored in the Charm database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSnapshots(func(_ *config.Config, snaps snapshotStore) error {
				keys, err := snaps.Keys()
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if isJSON() {
					if keys == nil {
						keys = []string{}
					}
					return writeJSON(out, keys)
				}
				if len(keys) == 0 {
					fmt.Fprintln(out, "No keys found")
					return nil
				}
				for _, k := range keys {
					fmt.Fprintln(out, k)
				}
				return nil
			})
		},
	}
}
