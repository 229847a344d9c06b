// ABOUTME: Interactive chat with the local model, logging every exchange
// ABOUTME: Slash commands run any god subcommand without leaving the chat
package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-shellwords"
	"github.com/snessa7/god-cli/internal/core"
	"github.com/snessa7/god-cli/internal/ui"
	"github.com/spf13/cobra"
)

const chatHelp = `Type a message and press Enter to chat.

Commands:
  /extract code|actions|custom   Save items from recent messages
  /search --topic go             Search saved notes (then view, copy, extract, delete)
  /knowledge list                Any god command works after a slash
  /model [name]                  Show or switch the model
  /models                        List installed models
  help                           Show this help
  quit, exit, q                  Leave the chat`

// prober is implemented by clients that can check the server is reachable.
type prober interface {
	Probe(ctx context.Context) error
}

// NewChatCmd creates the chat command
func NewChatCmd() *cobra.Command {
	var model string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with the local model",
		Long: `Chat with a model served by Ollama.

Every successful exchange is saved to the conversation log, and the top
five system knowledge items are sent along with each message. Slash
commands run god subcommands inside the chat, so you can extract and
search without leaving it.

Examples:
  god chat
  god chat --model llama3.2
  GOD_OLLAMA_URL=http://gpu-box:11434 god chat`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd, model)
		},
	}

	cmd.Flags().StringVarP(&model, "model", "m", "", "Model to chat with (default from config)")
	return cmd
}

func runChat(cmd *cobra.Command, model string) error {
	if activeSession != "" {
		return fmt.Errorf("already in a chat")
	}

	cfg, store, err := openApp()
	if err != nil {
		return err
	}
	defer store.Close()

	client, err := newChatClient(cfg)
	if err != nil {
		return err
	}
	if model == "" {
		model = cfg.DefaultModel
	}

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if p, ok := client.(prober); ok {
		if err := p.Probe(ctx); err != nil {
			ui.Failure(out, "Cannot reach Ollama at %s: %v", cfg.OllamaURL, err)
			ui.Tip(out, "Start it with 'ollama serve'; messages will fail until it is up")
		}
	}

	session := core.NewChatSession(store, client, model, cfg.SystemPrompt)
	if err := session.Start(ctx); err != nil {
		return fmt.Errorf("starting session: %w", err)
	}
	activeSession = session.ID
	defer func() {
		activeSession = ""
		if err := session.End(context.WithoutCancel(ctx)); err != nil {
			log.Warn("could not close session", "session", session.ID, "err", err)
		}
	}()

	ui.Heading(out, "god-cli chat")
	fmt.Fprintf(out, "Model: %s   Session: %s\n", session.Model(), session.ID)
	ui.Tip(out, "Type 'help' for commands, 'quit' to leave")

	input := newLineReader(cmd.InOrStdin())
	db := store.Path()
	for {
		fmt.Fprint(out, "\n💬 You: ")
		line, ok, err := input.Next(ctx)
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(out, "\nGoodbye!")
			return nil
		}
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, "\nGoodbye!")
			return nil
		}

		line = strings.TrimSpace(line)
		switch {
		case line == "":
			continue
		case isQuit(line):
			fmt.Fprintln(out, "Goodbye!")
			return nil
		case strings.EqualFold(line, "help"):
			fmt.Fprintln(out, chatHelp)
		case strings.HasPrefix(line, "/"):
			if err := runSlash(cmd, input, client, session, db, line[1:]); err != nil {
				ui.Failure(out, "%v", err)
			}
		default:
			reply := session.Send(ctx, line)
			fmt.Fprintf(out, "\n🤖 %s: %s\n", session.Model(), reply)
		}
	}
}

func isQuit(s string) bool {
	switch strings.ToLower(s) {
	case "quit", "exit", "q":
		return true
	}
	return false
}

// runSlash handles one slash command. Built-ins manage the session, anything
// else runs as a god subcommand against the same database.
func runSlash(cmd *cobra.Command, input *lineReader, client modelClient, session *core.ChatSession, db, line string) error {
	args, err := shellwords.Parse(line)
	if err != nil {
		return fmt.Errorf("could not parse command: %w", err)
	}
	out := cmd.OutOrStdout()
	if len(args) == 0 {
		fmt.Fprintln(out, chatHelp)
		return nil
	}

	switch args[0] {
	case "help":
		fmt.Fprintln(out, chatHelp)
		return nil
	case "model":
		if len(args) < 2 {
			fmt.Fprintf(out, "Current model: %s\n", session.Model())
			return nil
		}
		session.SetModel(args[1])
		ui.Success(out, "Switched to %s", args[1])
		return nil
	case "models":
		names, err := client.ListModels(cmd.Context())
		if err != nil {
			return fmt.Errorf("listing models: %w", err)
		}
		return printModels(cmd, names, session.Model())
	case "chat", "mcp":
		return fmt.Errorf("/%s is not available inside a chat", args[0])
	}

	// NewRootCmd rebinds the global flags, so put them back afterwards.
	saved := struct {
		verbose, quiet bool
		format, db     string
	}{verbose, quiet, outputFormat, dbPath}
	defer func() {
		verbose, quiet, outputFormat, dbPath = saved.verbose, saved.quiet, saved.format, saved.db
	}()

	sub := NewRootCmd()
	sub.SetIn(input)
	sub.SetOut(out)
	sub.SetErr(cmd.ErrOrStderr())
	sub.SilenceErrors = true
	sub.SetArgs(append(args, "--db", db))
	return sub.ExecuteContext(cmd.Context())
}
