package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"quizlive/internal/logging"
	"quizlive/internal/session"
	"quizlive/internal/tui"
)

// NewPlayCmd builds the subcommand that opens the live multiplayer shell.
func NewPlayCmd(configPath, server *string) *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Join a live multiplayer game",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath, *server)
			if err != nil {
				return err
			}
			logger := newLogger(cfg, true)

			mgr := session.NewManager(cfg.Server.URL, cfg.Server.PlayerPath, logging.Component(logger, "session"))
			defer mgr.Teardown()

			program := tea.NewProgram(tui.New(mgr), tea.WithAltScreen())
			_, err = program.Run()
			return err
		},
	}
}
