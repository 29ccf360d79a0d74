// Package quizapi is the REST boundary client for the quiz application's
// problem-authoring and solo-quiz pages. The live-session core never calls
// it; it exists for the other CLI surfaces.
package quizapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"quizlive/internal/domain"
)

// CreateProblemRequest is the POST /problem body. Field casing matches the
// server.
type CreateProblemRequest struct {
	Type     domain.ProblemType `json:"Type"`
	Question string             `json:"Question"`
	Answer   string             `json:"Answer"`
	Choices  []string           `json:"Choices"`
}

// StartQuizResponse is the GET /quiz/start body. Timeout is the absolute
// deadline the server will accept submissions until.
type StartQuizResponse struct {
	SessionID uuid.UUID         `json:"SessionId"`
	Timeout   time.Time         `json:"Timeout"`
	Questions []domain.Question `json:"Questions"`
}

// QuestionSubmission pairs one answered question for submission.
type QuestionSubmission struct {
	QuestionID uuid.UUID `json:"QuestionId"`
	Answer     string    `json:"Answer"`
}

// QuizSubmission is the POST /quiz/submit body.
type QuizSubmission struct {
	SessionID           uuid.UUID            `json:"SessionId"`
	QuestionSubmissions []QuestionSubmission `json:"QuestionSubmissions"`
}

// QuestionResult reports the grading of one question.
type QuestionResult struct {
	ID      uuid.UUID `json:"Id"`
	Answer  string    `json:"Answer"`
	Correct bool      `json:"Correct"`
}

// SubmitQuizResponse is the POST /quiz/submit response.
type SubmitQuizResponse struct {
	Score   int              `json:"Score"`
	Answers []QuestionResult `json:"Answers"`
}

// Client talks to the quiz server's JSON API. Non-2xx responses surface as
// "Error <doing> <thing>: <status>" failures, mirroring what the web pages
// show their users.
type Client struct {
	base string
	http *http.Client
	log  zerolog.Logger
}

func New(baseURL string, logger zerolog.Logger) *Client {
	return &Client{
		base: strings.TrimSuffix(baseURL, "/"),
		http: &http.Client{Timeout: 15 * time.Second},
		log:  logger,
	}
}

// ListProblems fetches every authored problem.
func (c *Client) ListProblems(ctx context.Context) ([]domain.Problem, error) {
	var problems []domain.Problem
	if err := c.get(ctx, "/problem", "Error fetching problems", &problems); err != nil {
		return nil, err
	}
	return problems, nil
}

// GetProblem fetches one problem by id.
func (c *Client) GetProblem(ctx context.Context, id uuid.UUID) (domain.Problem, error) {
	var problem domain.Problem
	if err := c.getWith(ctx, "/problem/"+id.String(), "Error fetching problem", domain.ErrProblemNotFound, &problem); err != nil {
		return domain.Problem{}, err
	}
	return problem, nil
}

// GetProblems fetches several problems concurrently, returned in id order.
func (c *Client) GetProblems(ctx context.Context, ids []uuid.UUID) ([]domain.Problem, error) {
	problems := make([]domain.Problem, len(ids))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			p, err := c.GetProblem(ctx, id)
			if err != nil {
				return err
			}
			mu.Lock()
			problems[i] = p
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	sort.Slice(problems, func(i, j int) bool {
		return problems[i].ID.String() < problems[j].ID.String()
	})
	return problems, nil
}

// CreateProblem validates locally, then posts the new problem.
func (c *Client) CreateProblem(ctx context.Context, req CreateProblemRequest) (domain.Problem, error) {
	if err := domain.ValidateChoices(req.Type, req.Choices, req.Answer); err != nil {
		return domain.Problem{}, err
	}
	var created domain.Problem
	if err := c.post(ctx, "/problem", "Error creating problem", req, &created); err != nil {
		return domain.Problem{}, err
	}
	return created, nil
}

// DeleteProblem removes a problem by id.
func (c *Client) DeleteProblem(ctx context.Context, id uuid.UUID) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.base+"/problem/"+id.String(), nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer drain(resp)
	if resp.StatusCode == http.StatusNotFound {
		return domain.ErrProblemNotFound
	}
	if !ok2xx(resp.StatusCode) {
		return fmt.Errorf("Error deleting problem: %d", resp.StatusCode)
	}
	return nil
}

// StartQuiz opens a timed solo quiz session.
func (c *Client) StartQuiz(ctx context.Context) (StartQuizResponse, error) {
	var started StartQuizResponse
	if err := c.get(ctx, "/quiz/start", "Error fetching questions", &started); err != nil {
		return StartQuizResponse{}, err
	}
	return started, nil
}

// SubmitQuiz submits the answers for grading.
func (c *Client) SubmitQuiz(ctx context.Context, submission QuizSubmission) (SubmitQuizResponse, error) {
	var graded SubmitQuizResponse
	if err := c.post(ctx, "/quiz/submit", "Error submitting quiz", submission, &graded); err != nil {
		return SubmitQuizResponse{}, err
	}
	return graded, nil
}

func (c *Client) get(ctx context.Context, path, failure string, out any) error {
	return c.getWith(ctx, path, failure, nil, out)
}

// getWith lets endpoints with an addressable resource map 404 to a sentinel
// instead of the generic status failure.
func (c *Client) getWith(ctx context.Context, path, failure string, notFound error, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, failure, notFound, out)
}

func (c *Client) post(ctx context.Context, path, failure string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, failure, nil, out)
}

func (c *Client) do(req *http.Request, failure string, notFound error, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer drain(resp)

	c.log.Debug().Str("method", req.Method).Str("url", req.URL.String()).Int("status", resp.StatusCode).Msg("api call")
	if notFound != nil && resp.StatusCode == http.StatusNotFound {
		return notFound
	}
	if !ok2xx(resp.StatusCode) {
		return fmt.Errorf("%s: %d", failure, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func ok2xx(status int) bool {
	return status >= 200 && status < 300
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
