package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/andrelmaraujo/mandacaru/core/server"
	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the chat API over HTTP",
	Long: `Serve the chat API over HTTP.

Endpoints:
  GET  /      liveness
  POST /chat  {"messages":[{"role":"user","content":"..."}]} -> new messages

Examples:
  mandacaru serve
  mandacaru serve --addr :9000
  OPENAI_API_KEY=... mandacaru serve --log-level debug`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides server.addr)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := newLogger(cfg.Log, os.Stderr)

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	sc := cfg.Server
	if serveAddr != "" {
		sc.Addr = serveAddr
	}

	srv := server.New(a.orchestrator, server.Config{
		Addr:            sc.Addr,
		AllowedOrigins:  sc.AllowedOrigins,
		ReadTimeout:     sc.ReadTimeout,
		WriteTimeout:    sc.WriteTimeout,
		ShutdownTimeout: sc.ShutdownTimeout,
		MaxBodyBytes:    sc.MaxBodyBytes,
		Logger:          logger,
	})
	return srv.Run(ctx)
}

// cmd.Context is nil when a command is executed without ExecuteContext.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
