package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/andrelmaraujo/mandacaru/core/tui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var chatLogFile string

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the personas in the terminal",
	Long: `Open an interactive chat in the terminal. The conversation starts with
a greeting from Compadre and each message you send runs one turn.

Logs are discarded unless --log-file is given, so they do not draw over
the chat screen.`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().StringVar(&chatLogFile, "log-file", "", "Write logs to this file")
}

func runChat(cmd *cobra.Command, _ []string) error {
	ctx := commandContext(cmd)

	var logOut io.Writer = io.Discard
	if chatLogFile != "" {
		f, err := os.OpenFile(chatLogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	logger := newLogger(cfg.Log, logOut)

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	p := tea.NewProgram(tui.New(ctx, a.orchestrator), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	return err
}
