package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/andrelmaraujo/mandacaru/core/conversation"
	coreerrors "github.com/andrelmaraujo/mandacaru/core/errors"
	"github.com/andrelmaraujo/mandacaru/core/server"
	"github.com/spf13/cobra"
)

var turnFull bool

var turnCmd = &cobra.Command{
	Use:   "turn [history.json]",
	Short: "Run one turn over a JSON history",
	Long: `Run one turn over a conversation history and print the new messages
as JSON. The history is read from the given file, or from stdin when no
file is given, either as a bare array of messages or as a /chat request
body.

Examples:
  echo '[{"role":"user","content":"Quero abrir uma padaria"}]' | mandacaru turn
  mandacaru turn conversa.json --full > conversa.json.next`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTurnCommand,
}

func init() {
	rootCmd.AddCommand(turnCmd)
	turnCmd.Flags().BoolVar(&turnFull, "full", false, "Print the whole updated history instead of only the new messages")
}

func runTurnCommand(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)

	in := cmd.InOrStdin()
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open history: %w", err)
		}
		defer f.Close()
		in = f
	}

	logger := newLogger(cfg.Log, cmd.ErrOrStderr())
	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	return runTurn(ctx, a.orchestrator, in, cmd.OutOrStdout(), turnFull)
}

// runTurn decodes a history from in, runs one turn and writes the result
// to out.
func runTurn(ctx context.Context, turner server.Turner, in io.Reader, out io.Writer, full bool) error {
	history, err := decodeHistory(in)
	if err != nil {
		return err
	}

	msgs, err := turner.Turn(ctx, history)
	if err != nil {
		return err
	}

	result := msgs
	if full {
		result = history.Append(msgs...)
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func decodeHistory(in io.Reader) (conversation.History, error) {
	raw, err := io.ReadAll(in)
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	raw = bytes.TrimSpace(raw)

	var history conversation.History
	if len(raw) > 0 && raw[0] == '{' {
		var req server.ChatRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			return nil, fmt.Errorf("%w: %v", coreerrors.ErrInvalidInput, err)
		}
		history = req.Messages
	} else if len(raw) > 0 {
		if err := json.Unmarshal(raw, &history); err != nil {
			return nil, fmt.Errorf("%w: %v", coreerrors.ErrInvalidInput, err)
		}
	}

	if err := history.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", coreerrors.ErrInvalidInput, err)
	}
	return history, nil
}
