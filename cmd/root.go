package cmd

import (
	"io"
	"log/slog"
	"strings"

	"github.com/andrelmaraujo/mandacaru/core/config"
	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "mandacaru",
	Short: "Mandacaru.ai - persona-based coaching for entrepreneurs",
	Long: `Mandacaru.ai routes every conversation turn to one of three personas:
Compadre encourages, Contra challenges and Arquiteto turns what it heard
into a mission or a lean canvas.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		mgr := config.NewManager(configPath)
		if err := mgr.Load(); err != nil {
			return err
		}
		cfg = mgr.Get()
		if logLevel != "" {
			cfg.Log.Level = logLevel
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./"+config.DefaultConfigFile+" if present)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override log level (debug, info, warn, error)")
}

func Execute() error {
	return rootCmd.Execute()
}

// newLogger builds the process logger from the log section of the config.
func newLogger(lc config.LogConfig, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(lc.Level)}

	var h slog.Handler
	if strings.EqualFold(lc.Format, "json") {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(h)
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}
