// ABOUTME: Extract commands that turn recent conversations into saved notes
// ABOUTME: code, actions, and custom scans plus a listing of saved notes
package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/snessa7/god-cli/internal/core"
	"github.com/snessa7/god-cli/internal/models"
	"github.com/snessa7/god-cli/internal/ui"
	"github.com/spf13/cobra"
)

// activeSession is the chat session that extractions are credited to. The
// chat command sets it while slash commands run.
var activeSession string

type extractOptions struct {
	selection  string
	topic      string
	summary    string
	importance int
	tags       string
	window     int
	category   string
	filter     string
}

// NewExtractCmd creates the extract command group
func NewExtractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Save code, action items, or custom notes from recent chats",
		Long: `Scan the most recent conversations and save what you pick.

Each saved item gets a topic, summary, importance (1-5), and tags.
Auto tags come from the words in the conversation; your tags are added
after them. Without --select you pick items and fill in metadata at
the prompt. With --format json and no --select the candidates are
printed and nothing is saved.

Examples:
  god extract code
  god extract actions --select all --topic Planning --importance 4
  god extract custom --category recipes --filter pasta --select 1
  god extract list`,
	}

	cmd.AddCommand(newExtractKindCmd(core.KindCode, "code", "Save code snippets from recent chats"))
	cmd.AddCommand(newExtractKindCmd(core.KindActions, "actions", "Save action items from recent chats"))
	cmd.AddCommand(newExtractKindCmd(core.KindCustom, "custom", "Save whole exchanges under a category of your choice"))
	cmd.AddCommand(newExtractListCmd())

	return cmd
}

func newExtractKindCmd(kind core.Kind, use, short string) *cobra.Command {
	opts := &extractOptions{}

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, kind, opts)
		},
	}

	cmd.Flags().StringVar(&opts.selection, "select", "", "Items to save: all, a number, or cancel (skips the picker)")
	cmd.Flags().StringVar(&opts.topic, "topic", "", "Topic for saved items (default General)")
	cmd.Flags().StringVar(&opts.summary, "summary", "", "Summary for saved items")
	cmd.Flags().IntVar(&opts.importance, "importance", 0, "Importance 1-5 (default 3)")
	cmd.Flags().StringVar(&opts.tags, "tags", "", "Comma-separated tags added to the auto tags")
	cmd.Flags().IntVar(&opts.window, "window", 0, "How many recent conversations to scan (default from config)")
	if kind == core.KindCustom {
		cmd.Flags().StringVar(&opts.category, "category", "", "Category for the saved items (required)")
		cmd.Flags().StringVar(&opts.filter, "filter", "", "Only exchanges mentioning this text")
		_ = cmd.MarkFlagRequired("category")
	}

	return cmd
}

func (o *extractOptions) metadata() core.MetadataInput {
	in := core.MetadataInput{Topic: o.topic, Summary: o.summary, Tags: o.tags}
	if o.importance != 0 {
		in.Importance = fmt.Sprint(o.importance)
	}
	return in
}

func runExtract(cmd *cobra.Command, kind core.Kind, opts *extractOptions) error {
	if opts.window < 0 {
		return validatePositiveInt(opts.window, "--window")
	}

	cfg, store, err := openApp()
	if err != nil {
		return err
	}
	defer store.Close()

	window := opts.window
	if window == 0 {
		window = cfg.ExtractionWindow
	}
	extractor := core.NewExtractor(store, window, activeSession)

	cands, err := extractor.Scan(cmd.Context(), kind, core.ScanOptions{Category: opts.category, Filter: opts.filter})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(cands) == 0 {
		if isJSON() {
			return writeJSON(out, []models.ExtractedInfo{})
		}
		if !quiet {
			fmt.Fprintf(out, "No %s found in the last %d conversations\n", describeKind(kind), window)
		}
		return nil
	}

	var (
		sel      core.Selection
		prompter core.MetadataPrompter = core.StaticPrompter(opts.metadata())
	)
	switch {
	case opts.selection != "":
		sel, err = core.ParseSelection(opts.selection, len(cands))
		if err != nil {
			return err
		}
	case isJSON():
		return writeJSON(out, cands)
	case interactive(cmd):
		printCandidates(cmd, kind, cands)
		sel, err = promptSelection(cands)
		if err != nil {
			return err
		}
		prompter = huhPrompter{defaults: opts.metadata()}
	default:
		printCandidates(cmd, kind, cands)
		lp := newLinePrompter(cmd, opts.metadata())
		if sel, err = lp.PromptSelection(len(cands)); err != nil {
			return err
		}
		prompter = lp
	}

	if sel.Cancel {
		if !quiet && !isJSON() {
			fmt.Fprintln(out, "Extraction cancelled")
		}
		return nil
	}

	saved, err := extractor.Commit(cmd.Context(), cands, sel, prompter)
	if err != nil {
		return err
	}

	if isJSON() {
		return writeJSON(out, saved)
	}
	for _, info := range saved {
		ui.Success(out, "Saved #%d %s", info.ID, truncate(info.Title, 60))
		fmt.Fprintf(out, "   Tags: %s\n", orDash(info.Tags))
	}
	if !quiet {
		fmt.Fprintf(out, "\nSaved %d of %d item(s)\n", len(saved), len(cands))
	}
	return nil
}

func describeKind(kind core.Kind) string {
	switch kind {
	case core.KindCode:
		return "code snippets"
	case core.KindActions:
		return "action items"
	default:
		return "matching conversations"
	}
}

func printCandidates(cmd *cobra.Command, kind core.Kind, cands []core.Candidate) {
	out := cmd.OutOrStdout()
	ui.Heading(out, fmt.Sprintf("Found %d %s", len(cands), describeKind(kind)))
	for i, c := range cands {
		fmt.Fprintf(out, "\n%d. %s\n", i+1, c.Title)
		fmt.Fprintf(out, "   %s\n", truncate(c.Content, 100))
	}
	fmt.Fprintln(out)
}

func newExtractListCmd() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved notes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, err := openApp()
			if err != nil {
				return err
			}
			defer store.Close()

			items, err := store.Extracted().List(cmd.Context())
			if err != nil {
				return fmt.Errorf("listing notes: %w", err)
			}
			if category != "" {
				filtered := items[:0]
				for _, it := range items {
					if it.Category == category {
						filtered = append(filtered, it)
					}
				}
				items = filtered
			}
			return printExtracted(cmd, items)
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Only notes in this category")
	return cmd
}

// printExtracted renders notes as a numbered table, or JSON.
func printExtracted(cmd *cobra.Command, items []models.ExtractedInfo) error {
	out := cmd.OutOrStdout()
	if isJSON() {
		if items == nil {
			items = []models.ExtractedInfo{}
		}
		return writeJSON(out, items)
	}
	if len(items) == 0 {
		if !quiet {
			fmt.Fprintln(out, "No notes found")
		}
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "#\tID\tTITLE\tCATEGORY\tTOPIC\tIMPORTANCE\tTAGS\tCREATED\n")
	fmt.Fprintf(w, "-\t--\t-----\t--------\t-----\t----------\t----\t-------\n")
	for i, it := range items {
		fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			i+1,
			it.ID,
			truncate(it.Title, 40),
			it.Category,
			truncate(orDash(it.Topic), 20),
			ui.Stars(it.ImportanceLevel),
			truncate(orDash(it.Tags), 30),
			ui.Ago(it.CreatedAt))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if !quiet {
		fmt.Fprintf(out, "\nTotal: %d note(s)\n", len(items))
	}
	return nil
}
