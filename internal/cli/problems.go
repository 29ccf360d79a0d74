package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"quizlive/internal/domain"
	"quizlive/internal/logging"
	"quizlive/internal/quizapi"
)

// NewProblemsCmd builds the problem-authoring subcommands, the CLI analog of
// the web app's CRUD pages.
func NewProblemsCmd(configPath, server *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "problems",
		Short: "List, inspect, create, and delete quiz problems",
	}
	cmd.AddCommand(newProblemsListCmd(configPath, server))
	cmd.AddCommand(newProblemsShowCmd(configPath, server))
	cmd.AddCommand(newProblemsCreateCmd(configPath, server))
	cmd.AddCommand(newProblemsDeleteCmd(configPath, server))
	return cmd
}

func newAPIClient(configPath, server *string) (*quizapi.Client, error) {
	cfg, err := loadConfig(*configPath, *server)
	if err != nil {
		return nil, err
	}
	logger := newLogger(cfg, false)
	return quizapi.New(cfg.Server.URL, logging.Component(logger, "quizapi")), nil
}

func newProblemsListCmd(configPath, server *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all problems",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newAPIClient(configPath, server)
			if err != nil {
				return err
			}
			problems, err := client.ListProblems(cmd.Context())
			if err != nil {
				return err
			}
			if len(problems) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No problems found")
				return nil
			}
			for _, p := range problems {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}
}

func newProblemsShowCmd(configPath, server *string) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one problem",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid problem id: %w", err)
			}
			client, err := newAPIClient(configPath, server)
			if err != nil {
				return err
			}
			problem, err := client.GetProblem(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), problem)
			return nil
		},
	}
}

func newProblemsCreateCmd(configPath, server *string) *cobra.Command {
	var (
		problemType string
		question    string
		answer      string
		choices     []string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a problem",
		RunE: func(cmd *cobra.Command, args []string) error {
			pt, err := domain.ParseProblemType(problemType)
			if err != nil {
				return err
			}
			client, err := newAPIClient(configPath, server)
			if err != nil {
				return err
			}
			created, err := client.CreateProblem(cmd.Context(), quizapi.CreateProblemRequest{
				Type:     pt,
				Question: question,
				Answer:   answer,
				Choices:  choices,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", created.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&problemType, "type", "text", "problem type: text or choice")
	cmd.Flags().StringVar(&question, "question", "", "question text")
	cmd.Flags().StringVar(&answer, "answer", "", "the correct answer")
	cmd.Flags().StringArrayVar(&choices, "choice", nil, "choice for a multiple-choice problem (repeatable)")
	_ = cmd.MarkFlagRequired("question")
	_ = cmd.MarkFlagRequired("answer")
	return cmd
}

func newProblemsDeleteCmd(configPath, server *string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a problem",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid problem id: %w", err)
			}
			client, err := newAPIClient(configPath, server)
			if err != nil {
				return err
			}
			if err := client.DeleteProblem(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", id)
			return nil
		},
	}
}
