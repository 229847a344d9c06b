// ABOUTME: Export and import commands for portable snapshots of the memory
// ABOUTME: YAML round-trips; JSON and markdown are for reading elsewhere
package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/snessa7/god-cli/internal/storage/sqlite"
	"github.com/snessa7/god-cli/internal/ui"
	"github.com/spf13/cobra"
)

// NewExportCmd creates the export command
func NewExportCmd() *cobra.Command {
	var (
		output      string
		exportType  string
		withHistory bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export notes, knowledge, and preferences",
		Long: `Export notes, knowledge, and preferences to a file or stdout.

Formats: yaml (default, can be imported again), json, or markdown.
Conversation history is only included with --history.

Examples:
  god export
  god export -o backup.yaml
  god export -t markdown -o notes.md
  god export --history -t json -o everything.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, err := openApp()
			if err != nil {
				return err
			}
			defer store.Close()

			ctx := cmd.Context()
			if output != "" {
				if err := store.ExportToFile(ctx, output, exportType, withHistory); err != nil {
					return err
				}
				if !quiet {
					ui.Success(cmd.ErrOrStderr(), "Exported to %s", output)
				}
				return nil
			}

			write, err := sqlite.WriterFor(exportType)
			if err != nil {
				return err
			}
			data, err := store.Export(ctx, withHistory)
			if err != nil {
				return err
			}
			return write(cmd.OutOrStdout(), data)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringVarP(&exportType, "type", "t", "yaml", "Export format: yaml, json, or markdown")
	cmd.Flags().BoolVar(&withHistory, "history", false, "Include the conversation log")

	return cmd
}

// NewImportCmd creates the import command
func NewImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a YAML export",
		Long: `Import notes, knowledge, and preferences from a YAML export.

Items already present (same title and creation time) are skipped, so
importing the same file twice is harmless. Use - to read stdin.

Examples:
  god import backup.yaml
  cat backup.yaml | god import -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				raw []byte
				err error
			)
			if args[0] == "-" {
				raw, err = io.ReadAll(cmd.InOrStdin())
			} else {
				raw, err = os.ReadFile(args[0]) // #nosec G304
			}
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
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
				return fmt.Errorf("importing: %w", err)
			}
			return printImport(cmd, res)
		},
	}

	return cmd
}

func printImport(cmd *cobra.Command, res *sqlite.ImportResult) error {
	out := cmd.OutOrStdout()
	if isJSON() {
		return writeJSON(out, map[string]int{
			"extracted":   res.Extracted,
			"knowledge":   res.Knowledge,
			"preferences": res.Preferences,
			"skipped":     res.Skipped,
		})
	}
	ui.Success(out, "Imported %d note(s), %d knowledge item(s), %d preference(s)",
		res.Extracted, res.Knowledge, res.Preferences)
	if res.Skipped > 0 && !quiet {
		fmt.Fprintf(out, "Skipped %d item(s) already present\n", res.Skipped)
	}
	return nil
}
