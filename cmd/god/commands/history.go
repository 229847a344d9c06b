// ABOUTME: History commands for the raw conversation log
// ABOUTME: List recent exchanges, show a session, and prune old rows
package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/snessa7/god-cli/internal/models"
	"github.com/snessa7/god-cli/internal/ui"
	"github.com/spf13/cobra"
)

// NewHistoryCmd creates the history command group
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse and prune the conversation log",
		Long: `Browse and prune the conversation log.

Every successful chat exchange is stored. Extraction scans read the
newest of these, so pruning old history never touches saved notes.

Examples:
  god history list
  god history list -n 50
  god history show session_20240821_101500_ab12cd34
  god history prune --keep 500`,
	}

	cmd.AddCommand(newHistoryListCmd())
	cmd.AddCommand(newHistoryShowCmd())
	cmd.AddCommand(newHistoryPruneCmd())
	return cmd
}

func newHistoryListCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent conversations, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("limit") {
				if err := validatePositiveInt(limit, "--limit"); err != nil {
					return err
				}
			}
			cfg, store, err := openApp()
			if err != nil {
				return err
			}
			defer store.Close()

			if !cmd.Flags().Changed("limit") {
				limit = cfg.MaxHistory
			}
			convs, err := store.Conversations().Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return printConversations(cmd, convs)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Number of conversations to show (default: max_history from config)")
	return cmd
}

func newHistoryShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <session-id>",
		Short: "Show every exchange of one session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, err := openApp()
			if err != nil {
				return err
			}
			defer store.Close()

			ctx := cmd.Context()
			sess, err := store.Sessions().Get(ctx, args[0])
			if err != nil {
				return fmt.Errorf("session %s: %w", args[0], err)
			}
			convs, err := store.Conversations().BySession(ctx, sess.SessionID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if isJSON() {
				if convs == nil {
					convs = []models.Conversation{}
				}
				return writeJSON(out, map[string]any{"session": sess, "conversations": convs})
			}

			ui.Heading(out, sess.SessionID)
			fmt.Fprintf(out, "Model:    %s\n", sess.ModelUsed)
			fmt.Fprintf(out, "Started:  %s\n", sess.StartTime)
			if sess.Ended() {
				fmt.Fprintf(out, "Ended:    %s\n", sess.EndTime)
				fmt.Fprintf(out, "Messages: %d, tokens: %s\n", sess.TotalMessages, ui.Count(sess.TotalTokens))
			}
			for _, c := range convs {
				fmt.Fprintf(out, "\n💬 You (%s): %s\n", ui.Ago(c.Timestamp), c.UserMessage)
				fmt.Fprintf(out, "🤖 %s: %s\n", c.ModelUsed, c.AssistantResponse)
			}
			return nil
		},
	}
}

func newHistoryPruneCmd() *cobra.Command {
	var keep int

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete all but the newest conversations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("keep") {
				return fmt.Errorf("--keep is required")
			}
			if keep < 0 {
				return fmt.Errorf("--keep must not be negative, got %d", keep)
			}
			_, store, err := openApp()
			if err != nil {
				return err
			}
			defer store.Close()

			removed, err := store.Conversations().Prune(cmd.Context(), keep)
			if err != nil {
				return err
			}
			if isJSON() {
				return writeJSON(cmd.OutOrStdout(), map[string]int64{"removed": removed})
			}
			ui.Success(cmd.OutOrStdout(), "Removed %s conversation(s), kept the newest %d", ui.Count(int(removed)), keep)
			return nil
		},
	}

	cmd.Flags().IntVar(&keep, "keep", 0, "Number of newest conversations to keep")
	return cmd
}

func printConversations(cmd *cobra.Command, convs []models.Conversation) error {
	out := cmd.OutOrStdout()
	if isJSON() {
		if convs == nil {
			convs = []models.Conversation{}
		}
		return writeJSON(out, convs)
	}
	if len(convs) == 0 {
		if !quiet {
			fmt.Fprintln(out, "No conversations yet. Start one with 'god chat'")
		}
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID\tWHEN\tMODEL\tYOU\tASSISTANT\n")
	fmt.Fprintf(w, "--\t----\t-----\t---\t---------\n")
	for _, c := range convs {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			c.ID,
			ui.Ago(c.Timestamp),
			c.ModelUsed,
			truncate(c.UserMessage, 40),
			truncate(c.AssistantResponse, 50))
	}
	return w.Flush()
}
