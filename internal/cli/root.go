package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"quizlive/internal/config"
	"quizlive/internal/logging"
)

var (
	serverURL  string
	configPath string
)

// Execute runs the CLI with a context cancelled on SIGINT/SIGTERM.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	envServer := os.Getenv("QUIZLIVE_SERVER")
	envConfig := os.Getenv("QUIZLIVE_CONFIG")
	if envConfig == "" {
		envConfig = "config/config.yaml"
	}

	cmd := &cobra.Command{
		Use:   "quizlive",
		Short: "Quiz client: authoring, solo quizzes, and live multiplayer over WebSocket",
	}

	cmd.PersistentFlags().StringVar(&serverURL, "server", envServer, "quiz server base URL (overrides config)")
	cmd.PersistentFlags().StringVar(&configPath, "config", envConfig, "path to YAML config")
	cmd.AddCommand(NewPlayCmd(&configPath, &serverURL))
	cmd.AddCommand(NewProblemsCmd(&configPath, &serverURL))
	cmd.AddCommand(NewQuizCmd(&configPath, &serverURL))
	return cmd
}

// loadConfig resolves config plus flag overrides into the effective settings.
func loadConfig(path, server string) (config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	if server != "" {
		cfg.Server.URL = server
	}
	return cfg, nil
}

// newLogger wires the root logger from config. fileOnly routes output to the
// rotating file sink exclusively, which the TUI needs so log lines do not
// fight the renderer.
func newLogger(cfg config.Config, fileOnly bool) zerolog.Logger {
	lc := logging.Config{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
		Console:    cfg.Log.Console,
	}
	if fileOnly {
		return logging.NewFileOnly(lc)
	}
	return logging.New(lc)
}
