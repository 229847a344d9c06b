// ABOUTME: Root command, global flags, and process-wide logger setup
// ABOUTME: Every subcommand is registered here
package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	verbose      bool
	quiet        bool
	outputFormat string
	dbPath       string
)

const banner = `
 ██████╗  ██████╗ ██████╗      ██████╗██╗     ██╗
██╔════╝ ██╔═══██╗██╔══██╗    ██╔════╝██║     ██║
██║  ███╗██║   ██║██║  ██║    ██║     ██║     ██║
██║   ██║██║   ██║██║  ██║    ██║     ██║     ██║
╚██████╔╝╚██████╔╝██████╔╝    ╚██████╗███████╗██║
 ╚═════╝  ╚═════╝ ╚═════╝      ╚═════╝╚══════╝╚═╝`

// NewRootCmd creates the root command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "god",
		Short: "Chat with a local model and keep a searchable memory",
		Long: banner + `

Chat with a local Ollama model. Every exchange is saved, and you can
pull code snippets, action items, and custom notes out of recent
conversations into a searchable memory organized by date, topic,
category, tags, and importance.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose && quiet {
				return fmt.Errorf("--verbose and --quiet are mutually exclusive")
			}
			switch outputFormat {
			case "auto", "table", "json":
			default:
				return fmt.Errorf("--format must be auto, table, or json, got %q", outputFormat)
			}
			_ = godotenv.Load()
			setupLogger(cmd)
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show debug logging")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Only show errors")
	cmd.PersistentFlags().StringVar(&outputFormat, "format", "auto", "Output format: auto, table, or json")
	cmd.PersistentFlags().StringVar(&dbPath, "db", "", "Database path (default: $XDG_DATA_HOME/god-cli/god_cli.db)")

	cmd.AddCommand(NewChatCmd())
	cmd.AddCommand(NewExtractCmd())
	cmd.AddCommand(NewSearchCmd())
	cmd.AddCommand(NewKnowledgeCmd())
	cmd.AddCommand(NewIndexCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewPrefsCmd())
	cmd.AddCommand(NewExportCmd())
	cmd.AddCommand(NewImportCmd())
	cmd.AddCommand(NewSyncCmd())
	cmd.AddCommand(NewMCPCmd())
	cmd.AddCommand(NewStatsCmd())
	cmd.AddCommand(NewModelsCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// setupLogger points the default logger at stderr with the level the flags ask for.
func setupLogger(cmd *cobra.Command) {
	logger := log.NewWithOptions(cmd.ErrOrStderr(), log.Options{
		ReportTimestamp: false,
		Prefix:          "god",
	})
	switch {
	case verbose:
		logger.SetLevel(log.DebugLevel)
	case quiet:
		logger.SetLevel(log.ErrorLevel)
	default:
		logger.SetLevel(log.WarnLevel)
	}
	log.SetDefault(logger)
}

// Execute runs the root command. Interrupts cancel the command context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCmd().ExecuteContext(ctx)
}

func isJSON() bool {
	return outputFormat == "json"
}
