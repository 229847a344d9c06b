// ABOUTME: Index commands for the metadata index behind search
// ABOUTME: rebuild re-derives every row, status compares row counts
package commands

import (
	"fmt"

	"github.com/snessa7/god-cli/internal/ui"
	"github.com/spf13/cobra"
)

// NewIndexCmd creates the index command group
func NewIndexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Inspect or rebuild the search index",
		Long: `Inspect or rebuild the metadata index used by search.

Search rebuilds the index on its own when the row counts drift, so you
only need these commands after editing the database by hand.

Examples:
  god index status
  god index rebuild`,
	}

	cmd.AddCommand(newIndexRebuildCmd())
	cmd.AddCommand(newIndexStatusCmd())
	return cmd
}

func newIndexRebuildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rebuild",
		Short: "Rebuild the index from every saved note",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, err := openApp()
			if err != nil {
				return err
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			showProgress := !quiet && !isJSON()
			n, err := store.Index().Rebuild(cmd.Context(), func(processed, total int) {
				if showProgress && (processed%100 == 0 || processed == total) {
					fmt.Fprintf(out, "\rIndexed %s/%s", ui.Count(processed), ui.Count(total))
				}
			})
			if showProgress && n > 0 {
				fmt.Fprintln(out)
			}
			if err != nil {
				return fmt.Errorf("rebuilding index: %w", err)
			}

			if isJSON() {
				return writeJSON(out, map[string]int{"indexed": n})
			}
			ui.Success(out, "Rebuilt index with %s entries", ui.Count(n))
			return nil
		},
	}
}

func newIndexStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Compare index rows with saved notes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, err := openApp()
			if err != nil {
				return err
			}
			defer store.Close()

			indexed, extracted, err := store.Index().Counts(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if isJSON() {
				return writeJSON(out, map[string]any{
					"indexed":   indexed,
					"extracted": extracted,
					"in_sync":   indexed == extracted,
				})
			}
			fmt.Fprintf(out, "Notes:   %s\n", ui.Count(extracted))
			fmt.Fprintf(out, "Indexed: %s\n", ui.Count(indexed))
			if indexed == extracted {
				ui.Success(out, "Index is in sync")
			} else {
				ui.Failure(out, "Index is out of sync")
				ui.Tip(out, "Run 'god index rebuild' or any search to fix it")
			}
			return nil
		},
	}
}
