// ABOUTME: Preference commands over the user_preferences key/value table
// ABOUTME: get, set, list, and delete; last_search is written by search
package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/snessa7/god-cli/internal/models"
	"github.com/snessa7/god-cli/internal/storage/sqlite"
	"github.com/snessa7/god-cli/internal/ui"
	"github.com/spf13/cobra"
)

// NewPrefsCmd creates the prefs command group
func NewPrefsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Read and write stored preferences",
		Long: `Read and write stored preferences.

The last_search key holds the criteria of your most recent search and
is what 'god search --last' repeats.

Examples:
  god prefs list
  god prefs get last_search
  god prefs set editor vim
  god prefs delete editor`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get <key>",
		Short: "Print one preference",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStorage(func(store *sqlite.Storage) error {
				value, err := store.Preferences().Get(cmd.Context(), args[0])
				if sqlite.IsNotFound(err) {
					return fmt.Errorf("no preference named %q", args[0])
				}
				if err != nil {
					return err
				}
				if isJSON() {
					return writeJSON(cmd.OutOrStdout(), map[string]string{args[0]: value})
				}
				fmt.Fprintln(cmd.OutOrStdout(), value)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Store a preference",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStorage(func(store *sqlite.Storage) error {
				if err := store.Preferences().Set(cmd.Context(), args[0], args[1]); err != nil {
					return err
				}
				if !quiet && !isJSON() {
					ui.Success(cmd.OutOrStdout(), "Set %s", args[0])
				}
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List every preference",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStorage(func(store *sqlite.Storage) error {
				prefs, err := store.Preferences().List(cmd.Context())
				if err != nil {
					return err
				}
				return printPrefs(cmd, prefs)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <key>",
		Short: "Remove a preference",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStorage(func(store *sqlite.Storage) error {
				err := store.Preferences().Delete(cmd.Context(), args[0])
				if sqlite.IsNotFound(err) {
					return fmt.Errorf("no preference named %q", args[0])
				}
				if err != nil {
					return err
				}
				if !quiet && !isJSON() {
					ui.Success(cmd.OutOrStdout(), "Deleted %s", args[0])
				}
				return nil
			})
		},
	})

	return cmd
}

// withStorage opens storage for the duration of fn.
func withStorage(fn func(store *sqlite.Storage) error) error {
	_, store, err := openApp()
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

func printPrefs(cmd *cobra.Command, prefs []models.Preference) error {
	out := cmd.OutOrStdout()
	if isJSON() {
		m := make(map[string]string, len(prefs))
		for _, p := range prefs {
			m[p.Key] = p.Value
		}
		return writeJSON(out, m)
	}
	if len(prefs) == 0 {
		if !quiet {
			fmt.Fprintln(out, "No preferences stored")
		}
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "KEY\tVALUE\tUPDATED\n")
	fmt.Fprintf(w, "---\t-----\t-------\n")
	for _, p := range prefs {
		fmt.Fprintf(w, "%s\t%s\t%s\n", p.Key, truncate(p.Value, 60), ui.Ago(p.UpdatedAt))
	}
	return w.Flush()
}
