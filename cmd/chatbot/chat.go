package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/m2tx/session_chat/internal/chat"
	"github.com/m2tx/session_chat/internal/console"
	"github.com/spf13/cobra"
)

var chatSessionID string

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive conversation",
	Long: `Start an interactive conversation in one session. Type a message and press
enter. /history prints the transcript, /reset clears it and /exit quits.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.close(ctx)

		sessionID := chatSessionID
		if sessionID == "" {
			sessionID = uuid.NewString()
		}

		return runChat(ctx, a.pipeline, sessionID, os.Stdin, cmd.OutOrStdout())
	},
}

func init() {
	chatCmd.Flags().StringVar(&chatSessionID, "session", "", "session id to continue (default is a new random id)")
}

func runChat(ctx context.Context, p *chat.Pipeline, sessionID string, in io.Reader, w io.Writer) error {
	out := console.NewPrinter(w)
	out.Line("Chat with %s (session %s). Type /exit to quit.", p.Model(), sessionID)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	turn := 0
	for {
		fmt.Fprint(w, "> ")

		var line string
		select {
		case <-ctx.Done():
			fmt.Fprintln(w)
			return nil
		case l, ok := <-lines:
			if !ok {
				fmt.Fprintln(w)
				return nil
			}
			line = strings.TrimSpace(l)
		}

		switch line {
		case "":
			continue
		case "/exit", "/quit":
			return nil
		case "/history":
			turns, err := p.History(ctx, sessionID)
			if err != nil {
				return err
			}
			for _, t := range turns {
				out.Line("%s: %s", t.Role, console.Sanitize(t.Content))
			}
			continue
		case "/reset":
			if err := p.Reset(ctx, sessionID); err != nil {
				return err
			}
			turn = 0
			out.Line("Session %s cleared.", sessionID)
			continue
		}

		reply, err := p.Send(ctx, sessionID, line)
		if err != nil {
			if !chat.IsModelError(err) {
				return err
			}
			out.Error(err)
			continue
		}
		turn++
		out.Bot(turn, reply)
	}
}
