// ABOUTME: Stats command summarizing the database
// ABOUTME: Row counts per table, file size, schema version, and index health
package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/snessa7/god-cli/internal/ui"
	"github.com/spf13/cobra"
)

// NewStatsCmd creates the stats command
func NewStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show database statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, err := openApp()
			if err != nil {
				return err
			}
			defer store.Close()

			st, err := store.Stats(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if isJSON() {
				return writeJSON(out, st)
			}

			ui.Heading(out, "god-cli memory")
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "Database\t%s\n", st.Path)
			fmt.Fprintf(w, "Size\t%s\n", ui.Bytes(st.SizeBytes))
			fmt.Fprintf(w, "Schema version\t%d\n", st.SchemaVersion)
			fmt.Fprintf(w, "Conversations\t%s\n", ui.Count(st.Conversations))
			fmt.Fprintf(w, "Sessions\t%s\n", ui.Count(st.Sessions))
			fmt.Fprintf(w, "Saved notes\t%s\n", ui.Count(st.Extracted))
			fmt.Fprintf(w, "Index entries\t%s\n", ui.Count(st.Indexed))
			fmt.Fprintf(w, "Knowledge items\t%s\n", ui.Count(st.Knowledge))
			fmt.Fprintf(w, "Preferences\t%s\n", ui.Count(st.Preferences))
			if err := w.Flush(); err != nil {
				return err
			}

			if st.Indexed != st.Extracted {
				ui.Tip(out, "Index is out of sync, run 'god index rebuild'")
			}
			return nil
		},
	}
}
