// ABOUTME: Knowledge commands for reference documents injected into chats
// ABOUTME: Add files or text, list, search, edit, and delete system knowledge
package commands

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/snessa7/god-cli/internal/core"
	"github.com/snessa7/god-cli/internal/models"
	"github.com/snessa7/god-cli/internal/query"
	"github.com/snessa7/god-cli/internal/ui"
	"github.com/spf13/cobra"
)

// NewKnowledgeCmd creates the knowledge command group
func NewKnowledgeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "knowledge",
		Aliases: []string{"kb"},
		Short:   "Manage system knowledge given to the model",
		Long: `Manage system knowledge: reference documents added to the system
prompt of every chat. The five most important (then newest) items are
sent with each message. Files must be UTF-8 text up to 1 MiB.

Examples:
  god knowledge add-file notes/architecture.md --tags "design, api" --importance 5
  god knowledge add-text "Coding style" --content "Prefer small functions"
  echo "Deploys run on Fridays" | god knowledge add-text "Deploys"
  god knowledge list
  god knowledge search --tags api
  god knowledge edit 3 --title "Architecture"
  god knowledge delete 3 --yes`,
	}

	cmd.AddCommand(newKnowledgeAddFileCmd())
	cmd.AddCommand(newKnowledgeAddTextCmd())
	cmd.AddCommand(newKnowledgeListCmd())
	cmd.AddCommand(newKnowledgeSearchCmd())
	cmd.AddCommand(newKnowledgeShowCmd())
	cmd.AddCommand(newKnowledgeEditCmd())
	cmd.AddCommand(newKnowledgeDeleteCmd())
	cmd.AddCommand(newKnowledgeTypesCmd())

	return cmd
}

// importanceOrDefault treats 0 as unset and clamps anything else into 1-5.
func importanceOrDefault(n int) int {
	if n == 0 {
		return models.DefaultImportance
	}
	return models.ClampImportance(n)
}

func newKnowledgeAddFileCmd() *cobra.Command {
	var (
		title      string
		tags       string
		importance int
	)

	cmd := &cobra.Command{
		Use:   "add-file <path>",
		Short: "Add a text file as knowledge",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := core.LoadKnowledgeFile(args[0], title, normalizeTags(tags), importanceOrDefault(importance))
			if err != nil {
				return err
			}
			return addKnowledge(cmd, k)
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Title (default: file name)")
	cmd.Flags().StringVar(&tags, "tags", "", "Comma-separated tags")
	cmd.Flags().IntVar(&importance, "importance", 0, "Importance 1-5 (default 3)")
	return cmd
}

func newKnowledgeAddTextCmd() *cobra.Command {
	var (
		content    string
		tags       string
		importance int
	)

	cmd := &cobra.Command{
		Use:   "add-text <title>",
		Short: "Add custom text as knowledge (from --content or stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if content == "" && activeSession != "" {
				return fmt.Errorf("pass the text with --content when adding from chat")
			}
			if content == "" && !interactive(cmd) {
				data, err := io.ReadAll(io.LimitReader(cmd.InOrStdin(), core.MaxKnowledgeFileSize+1))
				if err != nil {
					return fmt.Errorf("reading stdin: %w", err)
				}
				if len(data) > core.MaxKnowledgeFileSize {
					return fmt.Errorf("%w: stdin is over %s", core.ErrTooLarge, ui.Bytes(core.MaxKnowledgeFileSize))
				}
				content = string(data)
			}
			if strings.TrimSpace(content) == "" {
				return fmt.Errorf("content is required: pass --content or pipe text on stdin")
			}
			return addKnowledge(cmd, &models.SystemKnowledge{
				Title:           args[0],
				Content:         content,
				SourceType:      models.SourceCustomText,
				Tags:            normalizeTags(tags),
				ImportanceLevel: importanceOrDefault(importance),
			})
		},
	}

	cmd.Flags().StringVarP(&content, "content", "c", "", "Knowledge text")
	cmd.Flags().StringVar(&tags, "tags", "", "Comma-separated tags")
	cmd.Flags().IntVar(&importance, "importance", 0, "Importance 1-5 (default 3)")
	return cmd
}

// normalizeTags trims a comma list into "a, b, c".
func normalizeTags(s string) string {
	return strings.Join(query.ParseTags(s), ", ")
}

func addKnowledge(cmd *cobra.Command, k *models.SystemKnowledge) error {
	_, store, err := openApp()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Knowledge().Add(cmd.Context(), k); err != nil {
		return fmt.Errorf("adding knowledge: %w", err)
	}

	if isJSON() {
		return writeJSON(cmd.OutOrStdout(), k)
	}
	ui.Success(cmd.OutOrStdout(), "Added knowledge #%d %s (%s, %s)", k.ID, k.Title, k.SourceType, ui.Bytes(int64(len(k.Content))))
	return nil
}

func newKnowledgeListCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List knowledge items by importance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 0 {
				return validatePositiveInt(limit, "--limit")
			}
			_, store, err := openApp()
			if err != nil {
				return err
			}
			defer store.Close()

			items, err := store.Knowledge().List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return printKnowledge(cmd, items)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum number of items (default all)")
	return cmd
}

func newKnowledgeSearchCmd() *cobra.Command {
	var (
		f    query.KnowledgeFilter
		tags string
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search knowledge by title, content, tags, or type",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f.Tags = query.ParseTags(tags)
			_, store, err := openApp()
			if err != nil {
				return err
			}
			defer store.Close()

			items, err := store.Knowledge().Search(cmd.Context(), f)
			if err != nil {
				return err
			}
			return printKnowledge(cmd, items)
		},
	}

	cmd.Flags().StringVar(&f.Title, "title", "", "Title substring")
	cmd.Flags().StringVar(&f.Content, "content", "", "Content substring")
	cmd.Flags().StringVar(&tags, "tags", "", "Comma-separated tags")
	cmd.Flags().StringVar(&f.SourceType, "type", "", "Source type, see 'god knowledge types'")
	cmd.Flags().IntVarP(&f.Limit, "limit", "n", 0, "Maximum number of items")
	return cmd
}

func newKnowledgeShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one knowledge item in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			_, store, err := openApp()
			if err != nil {
				return err
			}
			defer store.Close()

			k, err := store.Knowledge().Get(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("knowledge #%d: %w", id, err)
			}
			if isJSON() {
				return writeJSON(cmd.OutOrStdout(), k)
			}

			out := cmd.OutOrStdout()
			ui.Heading(out, k.Title)
			fmt.Fprintf(out, "Type:       %s\n", k.SourceType)
			if k.FilePath != "" {
				fmt.Fprintf(out, "File:       %s\n", k.FilePath)
			}
			fmt.Fprintf(out, "Tags:       %s\n", orDash(k.Tags))
			fmt.Fprintf(out, "Importance: %s\n", ui.Stars(k.ImportanceLevel))
			fmt.Fprintf(out, "Updated:    %s\n\n", ui.Ago(k.UpdatedAt))
			fmt.Fprintln(out, k.Content)
			return nil
		},
	}
}

func newKnowledgeEditCmd() *cobra.Command {
	var (
		title string
		tags  string
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a knowledge item's title or tags",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			titleSet := cmd.Flags().Changed("title")
			tagsSet := cmd.Flags().Changed("tags")
			if !titleSet && !tagsSet {
				return fmt.Errorf("nothing to change: pass --title and/or --tags")
			}

			_, store, err := openApp()
			if err != nil {
				return err
			}
			defer store.Close()

			ctx := cmd.Context()
			if titleSet {
				if err := store.Knowledge().UpdateTitle(ctx, id, title); err != nil {
					return fmt.Errorf("knowledge #%d: %w", id, err)
				}
			}
			if tagsSet {
				if err := store.Knowledge().UpdateTags(ctx, id, normalizeTags(tags)); err != nil {
					return fmt.Errorf("knowledge #%d: %w", id, err)
				}
			}
			if !quiet {
				ui.Success(cmd.OutOrStdout(), "Updated knowledge #%d", id)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&tags, "tags", "", "New comma-separated tags (replaces the old ones)")
	return cmd
}

func newKnowledgeDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a knowledge item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			_, store, err := openApp()
			if err != nil {
				return err
			}
			defer store.Close()

			ctx := cmd.Context()
			k, err := store.Knowledge().Get(ctx, id)
			if err != nil {
				return fmt.Errorf("knowledge #%d: %w", id, err)
			}
			if !yes {
				if !interactive(cmd) {
					return fmt.Errorf("refusing to delete %q without --yes", k.Title)
				}
				ok, err := confirm(fmt.Sprintf("Delete knowledge %q?", k.Title))
				if err != nil || !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Kept")
					return err
				}
			}
			if err := store.Knowledge().Delete(ctx, id); err != nil {
				return err
			}
			if !quiet {
				ui.Success(cmd.OutOrStdout(), "Deleted knowledge #%d %s", id, k.Title)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation prompt")
	return cmd
}

func newKnowledgeTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the source types in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, err := openApp()
			if err != nil {
				return err
			}
			defer store.Close()

			types, err := store.Knowledge().SourceTypes(cmd.Context())
			if err != nil {
				return err
			}
			if isJSON() {
				if types == nil {
					types = []string{}
				}
				return writeJSON(cmd.OutOrStdout(), types)
			}
			for _, t := range types {
				fmt.Fprintln(cmd.OutOrStdout(), t)
			}
			return nil
		},
	}
}

func printKnowledge(cmd *cobra.Command, items []models.SystemKnowledge) error {
	out := cmd.OutOrStdout()
	if isJSON() {
		if items == nil {
			items = []models.SystemKnowledge{}
		}
		return writeJSON(out, items)
	}
	if len(items) == 0 {
		if !quiet {
			fmt.Fprintln(out, "No knowledge found")
		}
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID\tTITLE\tTYPE\tSIZE\tIMPORTANCE\tTAGS\tUPDATED\n")
	fmt.Fprintf(w, "--\t-----\t----\t----\t----------\t----\t-------\n")
	for _, k := range items {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			k.ID,
			truncate(k.Title, 40),
			k.SourceType,
			ui.Bytes(int64(len(k.Content))),
			ui.Stars(k.ImportanceLevel),
			truncate(orDash(k.Tags), 30),
			ui.Ago(k.UpdatedAt))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if !quiet {
		fmt.Fprintf(out, "\nTotal: %d item(s)\n", len(items))
	}
	return nil
}
