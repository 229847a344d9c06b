// ABOUTME: Prompts for selection, metadata, and confirmations
// ABOUTME: huh forms on a terminal, plain line prompts on piped input or in chat
package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
	"github.com/snessa7/god-cli/internal/core"
	"github.com/snessa7/god-cli/internal/models"
	"github.com/snessa7/god-cli/internal/query"
	"github.com/snessa7/god-cli/internal/ui"
	"github.com/spf13/cobra"
)

// interactive reports whether the command reads from a real terminal.
func interactive(cmd *cobra.Command) bool {
	f, ok := cmd.InOrStdin().(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// runForm wraps fields in a form with help hints visible at the bottom.
func runForm(fields ...huh.Field) error {
	return huh.NewForm(huh.NewGroup(fields...)).WithShowHelp(true).Run()
}

// promptSelection asks which candidates to commit.
func promptSelection(cands []core.Candidate) (core.Selection, error) {
	opts := make([]huh.Option[string], 0, len(cands)+2)
	opts = append(opts, huh.NewOption(fmt.Sprintf("All %d items", len(cands)), "all"))
	for i, c := range cands {
		opts = append(opts, huh.NewOption(fmt.Sprintf("%d. %s", i+1, truncate(c.Title, 70)), strconv.Itoa(i+1)))
	}
	opts = append(opts, huh.NewOption("Cancel", "cancel"))

	var choice string
	sel := huh.NewSelect[string]().
		Title("Which items do you want to save?").
		Options(opts...).
		Value(&choice)
	if len(cands) > 5 {
		sel = sel.Filtering(true)
	}
	if err := runForm(sel); err != nil {
		return core.Selection{}, err
	}
	return core.ParseSelection(choice, len(cands))
}

// huhPrompter collects metadata with a form per candidate, seeded from flags.
type huhPrompter struct {
	defaults core.MetadataInput
}

func (p huhPrompter) PromptMetadata(c core.Candidate) (core.MetadataInput, error) {
	in := p.defaults
	if in.Importance == "" {
		in.Importance = strconv.Itoa(models.DefaultImportance)
	}

	importance := make([]huh.Option[string], 0, models.MaxImportance)
	for i := models.MinImportance; i <= models.MaxImportance; i++ {
		label := strconv.Itoa(i)
		switch i {
		case 1:
			label += " (low)"
		case 3:
			label += " (medium)"
		case 5:
			label += " (high)"
		}
		importance = append(importance, huh.NewOption(label, strconv.Itoa(i)))
	}

	err := runForm(
		huh.NewNote().
			Title(c.Title).
			Description(truncate(c.Content, 300)),
		huh.NewInput().
			Title("Topic").
			Description("e.g. Python, Web Development, AI").
			Placeholder(core.DefaultTopic).
			Value(&in.Topic),
		huh.NewInput().
			Title("Summary").
			Placeholder(core.DefaultSummary).
			Value(&in.Summary),
		huh.NewSelect[string]().
			Title("Importance").
			Options(importance...).
			Value(&in.Importance),
		huh.NewInput().
			Title("Tags").
			Description("comma-separated, added to the auto tags").
			Value(&in.Tags),
	)
	return in, err
}

// confirm asks a yes/no question, defaulting to no.
func confirm(title string) (bool, error) {
	var ok bool
	err := runForm(huh.NewConfirm().
		Title(title).
		Affirmative("Yes").
		Negative("No").
		Value(&ok))
	return ok, err
}

// promptSearch fills an empty search request from a form.
func promptSearch(req core.Request) (core.Request, error) {
	var tags, importance string
	err := runForm(
		huh.NewInput().
			Title("Date").
			Description("today, yesterday, this week, last friday, or YYYY-MM-DD").
			Value(&req.DatePhrase),
		huh.NewInput().
			Title("Topic").
			Value(&req.Topic),
		huh.NewInput().
			Title("Category").
			Description("code, tasks, or a custom category").
			Value(&req.Category),
		huh.NewInput().
			Title("Tags").
			Description("comma-separated").
			Value(&tags),
		huh.NewSelect[string]().
			Title("Minimum importance").
			Options(
				huh.NewOption("Any", ""),
				huh.NewOption("2+", "2"),
				huh.NewOption("3+", "3"),
				huh.NewOption("4+", "4"),
				huh.NewOption("5", "5"),
			).
			Value(&importance),
	)
	if err != nil {
		return req, err
	}
	req.Tags = query.ParseTags(tags)
	if importance != "" {
		req.MinImportance, _ = strconv.Atoi(importance)
	}
	return req, nil
}

// linePrompter asks for selection and metadata one line at a time. It is
// used when stdin is not a terminal, including inside the chat loop.
type linePrompter struct {
	ctx      context.Context
	out      io.Writer
	in       *lineReader
	defaults core.MetadataInput
}

func newLinePrompter(cmd *cobra.Command, defaults core.MetadataInput) *linePrompter {
	return &linePrompter{
		ctx:      cmd.Context(),
		out:      cmd.OutOrStdout(),
		in:       newLineReader(cmd.InOrStdin()),
		defaults: defaults,
	}
}

// ask prints label and returns the trimmed answer. End of input reads as "".
func (p *linePrompter) ask(label string) (string, bool, error) {
	fmt.Fprint(p.out, label)
	line, ok, err := p.in.Next(p.ctx)
	if err != nil || !ok {
		fmt.Fprintln(p.out)
		return "", false, err
	}
	return strings.TrimSpace(line), true, nil
}

// PromptSelection asks until the answer parses. End of input cancels.
func (p *linePrompter) PromptSelection(n int) (core.Selection, error) {
	for {
		answer, ok, err := p.ask(fmt.Sprintf("Select items to save (all, 1-%d, cancel): ", n))
		if err != nil {
			return core.Selection{}, err
		}
		if !ok {
			return core.Selection{Cancel: true}, nil
		}
		sel, err := core.ParseSelection(answer, n)
		if err == nil {
			return sel, nil
		}
		ui.Failure(p.out, "%v", err)
	}
}

func (p *linePrompter) PromptMetadata(c core.Candidate) (core.MetadataInput, error) {
	in := p.defaults
	fmt.Fprintf(p.out, "\n%s\n", ui.TitleStyle.Render(c.Title))

	fields := []struct {
		label string
		dst   *string
	}{
		{"Topic (e.g. Python, Web Development, AI): ", &in.Topic},
		{"Summary: ", &in.Summary},
		{"Importance 1-5 [3]: ", &in.Importance},
		{"Tags (comma-separated): ", &in.Tags},
	}
	for _, f := range fields {
		if *f.dst != "" {
			continue
		}
		answer, ok, err := p.ask(f.label)
		if err != nil {
			return in, err
		}
		if !ok {
			break
		}
		*f.dst = answer
	}
	return in, nil
}
