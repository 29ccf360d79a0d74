package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"quizlive/internal/config"
	"quizlive/internal/domain"
	"quizlive/internal/logging"
	"quizlive/internal/quizapi"
)

// NewQuizCmd builds the solo quiz flow: fetch a timed question set, collect
// answers on stdin, submit before the server deadline, print the score.
func NewQuizCmd(configPath, server *string) *cobra.Command {
	return &cobra.Command{
		Use:   "quiz",
		Short: "Take a timed solo quiz",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath, *server)
			if err != nil {
				return err
			}
			logger := newLogger(cfg, false)
			client := quizapi.New(cfg.Server.URL, logging.Component(logger, "quizapi"))
			return runQuiz(cmd, cfg, client)
		},
	}
}

func runQuiz(cmd *cobra.Command, cfg config.Config, client *quizapi.Client) error {
	out := cmd.OutOrStdout()

	started, err := client.StartQuiz(cmd.Context())
	if err != nil {
		return err
	}
	if len(started.Questions) == 0 {
		fmt.Fprintln(out, "No questions available")
		return nil
	}

	deadline := started.Timeout
	if deadline.IsZero() {
		deadline = time.Now().Add(config.TTLDuration(cfg.Quiz.Timeout, 30*time.Second))
	}
	ctx, cancel := context.WithDeadline(cmd.Context(), deadline)
	defer cancel()

	fmt.Fprintf(out, "Quiz %s: %d questions, due %s\n\n",
		started.SessionID, len(started.Questions), deadline.Format("15:04:05"))

	scanner := bufio.NewScanner(cmd.InOrStdin())
	submissions := make([]quizapi.QuestionSubmission, 0, len(started.Questions))
	for i, q := range started.Questions {
		fmt.Fprintf(out, "%d) %s\n", i+1, q.Question)
		if q.Type == domain.ProblemTypeChoice {
			for j, choice := range q.Choices {
				fmt.Fprintf(out, "   %c) %s\n", 'a'+j, choice)
			}
		}
		fmt.Fprint(out, "> ")
		answer, ok := readLine(ctx, scanner)
		if !ok {
			fmt.Fprintln(out, "\nTime is up, submitting what you have")
			break
		}
		answer = strings.TrimSpace(answer)
		if q.Type == domain.ProblemTypeChoice {
			// A single letter selects the corresponding choice.
			if idx := choiceIndex(answer, len(q.Choices)); idx >= 0 {
				answer = q.Choices[idx]
			}
		}
		submissions = append(submissions, quizapi.QuestionSubmission{
			QuestionID: q.ID,
			Answer:     answer,
		})
	}

	graded, err := client.SubmitQuiz(cmd.Context(), quizapi.QuizSubmission{
		SessionID:           started.SessionID,
		QuestionSubmissions: submissions,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "\nScore: %d/%d\n", graded.Score, len(started.Questions))
	for _, result := range graded.Answers {
		mark := "✗"
		if result.Correct {
			mark = "✓"
		}
		fmt.Fprintf(out, "  %s %s\n", mark, result.Answer)
	}
	return nil
}

// readLine reads one line unless the deadline expires first.
func readLine(ctx context.Context, scanner *bufio.Scanner) (string, bool) {
	lines := make(chan string, 1)
	go func() {
		if scanner.Scan() {
			lines <- scanner.Text()
		} else {
			close(lines)
		}
	}()
	select {
	case line, ok := <-lines:
		return line, ok
	case <-ctx.Done():
		return "", false
	}
}

// choiceIndex maps a single-letter answer ("a".."d") to a choice index, or
// -1 when the answer is not a letter selection.
func choiceIndex(answer string, numChoices int) int {
	if len(answer) != 1 {
		return -1
	}
	c := answer[0]
	if c >= 'A' && c <= 'Z' {
		c += 'a' - 'A'
	}
	idx := int(c - 'a')
	if idx < 0 || idx >= numChoices {
		return -1
	}
	return idx
}
