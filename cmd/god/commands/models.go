// ABOUTME: Models command listing what the Ollama server has installed
// ABOUTME: Marks the configured default model
package commands

import (
	"fmt"

	"github.com/snessa7/god-cli/internal/config"
	"github.com/snessa7/god-cli/internal/ui"
	"github.com/spf13/cobra"
)

// NewModelsCmd creates the models command
func NewModelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List models available on the Ollama server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			client, err := newChatClient(cfg)
			if err != nil {
				return err
			}

			names, err := client.ListModels(cmd.Context())
			if err != nil {
				ui.Tip(cmd.ErrOrStderr(), "Is Ollama running at %s? Start it with 'ollama serve'", cfg.OllamaURL)
				return fmt.Errorf("listing models: %w", err)
			}
			return printModels(cmd, names, cfg.DefaultModel)
		},
	}
}

func printModels(cmd *cobra.Command, names []string, current string) error {
	out := cmd.OutOrStdout()
	if isJSON() {
		if names == nil {
			names = []string{}
		}
		return writeJSON(out, map[string]any{"models": names, "default": current})
	}
	if len(names) == 0 {
		fmt.Fprintln(out, "No models installed. Try 'ollama pull gemma3:1b'")
		return nil
	}
	for _, n := range names {
		marker := "  "
		if n == current {
			marker = ui.SuccessStyle.Render("* ")
		}
		fmt.Fprintf(out, "%s%s\n", marker, n)
	}
	return nil
}
