// ABOUTME: Search command over saved notes by date, topic, category, tags, importance
// ABOUTME: Results can be viewed, copied, re-extracted, or deleted in place
package commands

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/snessa7/god-cli/internal/clipboard"
	"github.com/snessa7/god-cli/internal/core"
	"github.com/snessa7/god-cli/internal/query"
	"github.com/snessa7/god-cli/internal/ui"
	"github.com/spf13/cobra"
)

type searchOptions struct {
	date       string
	topic      string
	category   string
	tags       string
	importance int
	limit      int
	last       bool
	actions    bool
	noActions  bool
}

// NewSearchCmd creates the search command
func NewSearchCmd() *cobra.Command {
	opts := &searchOptions{}

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search saved notes",
		Long: `Search saved notes. Every criterion you give must match.

Dates accept today, yesterday, this week (its Monday), last <weekday>
(never today), or YYYY-MM-DD. Topics match as substrings, categories
match exactly, any one of the listed tags is enough, and importance is
a minimum. Results are ordered by importance, then newest first.

After the results are shown you can type:
  view N, copy N, copyall, extract N, delete N, done

Examples:
  god search --topic python
  god search --date yesterday --tags "api, auth"
  god search --category code --importance 4 --limit 5
  god search --last
  god search --topic go --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.date, "date", "", "Date phrase: today, yesterday, this week, last monday, 2024-08-20")
	cmd.Flags().StringVar(&opts.topic, "topic", "", "Topic substring")
	cmd.Flags().StringVar(&opts.category, "category", "", "Category")
	cmd.Flags().StringVar(&opts.tags, "tags", "", "Comma-separated tags, any may match")
	cmd.Flags().IntVar(&opts.importance, "importance", 0, "Minimum importance 1-5")
	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 0, "Maximum number of results")
	cmd.Flags().BoolVar(&opts.last, "last", false, "Repeat the previous search")
	cmd.Flags().BoolVar(&opts.actions, "actions", false, "Read result actions from stdin even when it is not a terminal")
	cmd.Flags().BoolVar(&opts.noActions, "no-actions", false, "Print results and exit")

	return cmd
}

func (o *searchOptions) request() core.Request {
	return core.Request{
		DatePhrase:    strings.TrimSpace(o.date),
		Topic:         strings.TrimSpace(o.topic),
		Category:      strings.TrimSpace(o.category),
		Tags:          query.ParseTags(o.tags),
		MinImportance: o.importance,
		Limit:         o.limit,
	}
}

func runSearch(cmd *cobra.Command, opts *searchOptions) error {
	if err := validateImportance(opts.importance, "--importance"); err != nil {
		return err
	}
	if opts.limit < 0 {
		return validatePositiveInt(opts.limit, "--limit")
	}

	_, store, err := openApp()
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	searcher := core.NewSearcher(store)

	req := opts.request()
	if opts.last {
		req, err = searcher.LastRequest(ctx)
		if errors.Is(err, core.ErrNoLastSearch) {
			return fmt.Errorf("no previous search to repeat, run a search first")
		}
		if err != nil {
			return err
		}
		if opts.limit > 0 {
			req.Limit = opts.limit
		}
	}

	crit, err := searcher.Criteria(req)
	if err != nil {
		return searchError(err)
	}
	if crit.IsEmpty() && interactive(cmd) && !isJSON() {
		if req, err = promptSearch(req); err != nil {
			return err
		}
	}

	items, err := searcher.Search(ctx, req)
	if err != nil {
		return searchError(err)
	}

	out := cmd.OutOrStdout()
	if isJSON() || opts.noActions {
		return printExtracted(cmd, items)
	}

	desc := core.Describe(req)
	if len(items) == 0 {
		fmt.Fprintf(out, "No results for %s\n", desc)
		return nil
	}

	ui.Heading(out, fmt.Sprintf("Search results for %s", desc))
	if err := printExtracted(cmd, items); err != nil {
		return err
	}

	if !opts.actions && !interactive(cmd) && activeSession == "" {
		return nil
	}
	results := core.NewResults(store, newClipboard(), activeSession, desc, items)
	return resultActions(cmd, results)
}

func searchError(err error) error {
	if errors.Is(err, query.ErrNoCriteria) {
		return fmt.Errorf("%w: give at least one of --date, --topic, --category, --tags, --importance", err)
	}
	return err
}

// resultActions runs the view/copy/extract/delete loop over results.
func resultActions(cmd *cobra.Command, results *core.Results) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	input := newLineReader(cmd.InOrStdin())

	for results.Len() > 0 {
		fmt.Fprint(out, "\nAction (view N, copy N, copyall, extract N, delete N, done): ")
		line, ok, err := input.Next(ctx)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out)
			return nil
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		act, err := core.ParseAction(line, results.Len())
		if err != nil {
			ui.Failure(out, "%v", err)
			continue
		}

		switch act.Verb {
		case core.ActionDone:
			return nil
		case core.ActionView:
			item, _ := results.View(act.Index)
			fmt.Fprintln(out)
			ui.Heading(out, item.Title)
			fmt.Fprintf(out, "Category:   %s\n", item.Category)
			fmt.Fprintf(out, "Topic:      %s\n", orDash(item.Topic))
			fmt.Fprintf(out, "Summary:    %s\n", orDash(item.Summary))
			fmt.Fprintf(out, "Importance: %s\n", ui.Stars(item.ImportanceLevel))
			fmt.Fprintf(out, "Tags:       %s\n", orDash(item.Tags))
			fmt.Fprintf(out, "Created:    %s\n\n", item.CreatedAt)
			fmt.Fprintln(out, ui.BoxStyle.Render(item.Content))
		case core.ActionCopy:
			if err := results.Copy(act.Index); err != nil {
				copyFailed(cmd, err)
				continue
			}
			ui.Success(out, "Copied result %d to the clipboard", act.Index)
		case core.ActionCopyAll:
			if err := results.CopyAll(); err != nil {
				copyFailed(cmd, err)
				continue
			}
			ui.Success(out, "Copied %d results to the clipboard", results.Len())
		case core.ActionExtract:
			saved, err := results.Extract(ctx, act.Index, results.Description)
			if err != nil {
				ui.Failure(out, "Extract failed: %v", err)
				continue
			}
			ui.Success(out, "Saved as #%d %s", saved.ID, truncate(saved.Title, 60))
		case core.ActionDelete:
			item, _ := results.View(act.Index)
			fmt.Fprintf(out, "Delete %q? [y/N]: ", truncate(item.Title, 50))
			answer, ok, err := input.Next(ctx)
			if err != nil {
				return err
			}
			if !ok || !isYes(answer) {
				fmt.Fprintln(out, "Kept")
				continue
			}
			removed, err := results.Delete(ctx, act.Index)
			if err != nil {
				ui.Failure(out, "Delete failed: %v", err)
				continue
			}
			ui.Success(out, "Deleted %q", truncate(removed.Title, 50))
			if results.Len() > 0 {
				if err := printExtracted(cmd, results.Items); err != nil {
					return err
				}
			}
		}
	}

	fmt.Fprintln(out, "No results left")
	return nil
}

func copyFailed(cmd *cobra.Command, err error) {
	ui.Failure(cmd.OutOrStdout(), "Copy failed: %v", err)
	if hint := clipboard.Hint(runtime.GOOS); hint != "" {
		ui.Tip(cmd.OutOrStdout(), "%s", hint)
	}
}

func isYes(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes":
		return true
	}
	return false
}
