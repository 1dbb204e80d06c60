package main

import (
	"github.com/m2tx/session_chat/internal/console"
	"github.com/spf13/cobra"
)

var historyDelete bool

var historyCmd = &cobra.Command{
	Use:   "history <session-id>",
	Short: "Print or delete the transcript of a session",
	Long: `Print the transcript of a session, oldest turn first. With --delete the
session is removed instead. Only useful with the mongodb history backend, since
the memory backend does not outlive the process.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		sessionID := args[0]

		a, err := newStoreApp(ctx)
		if err != nil {
			return err
		}
		defer a.close(ctx)

		out := console.NewPrinter(cmd.OutOrStdout())

		if historyDelete {
			if err := a.store.Delete(ctx, sessionID); err != nil {
				return err
			}
			out.Line("Session %s deleted.", sessionID)
			return nil
		}

		transcript, err := a.store.GetOrCreate(ctx, sessionID)
		if err != nil {
			return err
		}

		turns := transcript.Turns()
		if len(turns) == 0 {
			out.Line("Session %s has no turns.", sessionID)
			return nil
		}

		for _, t := range turns {
			out.Line("[%s] %s: %s", t.CreatedAt.Format("2006-01-02 15:04:05"), t.Role, console.Sanitize(t.Content))
		}

		return nil
	},
}

func init() {
	historyCmd.Flags().BoolVar(&historyDelete, "delete", false, "delete the session instead of printing it")
}
