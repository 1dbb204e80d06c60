package main

import (
	"context"

	"github.com/m2tx/session_chat/assets"
	"github.com/m2tx/session_chat/internal/chat"
	"github.com/m2tx/session_chat/internal/console"
	"github.com/spf13/cobra"
)

var demoSessionID string

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Replay the built-in example conversation",
	Long: `Replay five scripted queries through one session. Later queries only make
sense if the assistant remembers the earlier ones, so the output shows whether
multi-turn recall works. A failed turn is reported and the rest still run.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.close(ctx)

		return runDemo(ctx, a.pipeline, demoSessionID, assets.DemoQueries(), console.NewPrinter(cmd.OutOrStdout()))
	},
}

func init() {
	demoCmd.Flags().StringVar(&demoSessionID, "session", "test_session_123", "session id used for the replay")
}

func runDemo(ctx context.Context, p *chat.Pipeline, sessionID string, queries []string, out *console.Printer) error {
	out.Line("--- Starting Chatbot Test Suite (%s) ---", p.Model())
	out.Line("Session ID: %s", sessionID)

	for i, query := range queries {
		turn := i + 1
		out.User(turn, query)

		reply, err := p.Send(ctx, sessionID, query)
		if err != nil {
			out.Error(err)
			if ctx.Err() != nil {
				return ctx.Err()
			}
			continue
		}

		out.Bot(turn, reply)
	}

	out.Line("\n--- Test Suite Completed ---")

	return nil
}
