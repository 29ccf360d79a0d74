package domain

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxPlayerNameLength bounds the identity a player may join a live game with.
const MaxPlayerNameLength = 20

// SystemSpeaker attributes chat lines synthesized from join/leave events.
const SystemSpeaker = "System"

// SystemColor is the fixed badge color for system chat lines; FallbackColor
// is used when a chat message arrives from a name missing in the roster.
const (
	SystemColor   = "red"
	FallbackColor = "gray"
)

// Participant is one entry in the live-game roster as this client sees it.
type Participant struct {
	Name  string
	Color string
}

// ChatLine is a display-ready transcript entry derived from the event stream.
// It is never transmitted.
type ChatLine struct {
	Speaker   string
	Color     string
	Text      string
	Timestamp time.Time
}

// IsPlayerNameValid reports whether name may be used to join a live game:
// non-empty after trimming, no leading or trailing space, at most
// MaxPlayerNameLength characters, letters/digits/spaces only.
func IsPlayerNameValid(name string) bool {
	if name == "" || strings.TrimSpace(name) != name {
		return false
	}
	if len(name) > MaxPlayerNameLength {
		return false
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == ' ':
		default:
			return false
		}
	}
	return true
}

const MaxNumChoices = 4

type ProblemType string

const (
	ProblemTypeText   ProblemType = "text"
	ProblemTypeChoice ProblemType = "choice"
)

func (pt ProblemType) String() string {
	return string(pt)
}

func (pt ProblemType) IsValid() bool {
	switch pt {
	case ProblemTypeText, ProblemTypeChoice:
		return true
	}
	return false
}

// ParseProblemType normalizes and validates a user-supplied problem type.
func ParseProblemType(s string) (ProblemType, error) {
	pt := ProblemType(strings.ToLower(s))
	if !pt.IsValid() {
		return "", fmt.Errorf("invalid problem type: %s", s)
	}
	return pt, nil
}

// Problem is an authored quiz problem as served by the REST boundary.
// Field tags match the server's wire casing.
type Problem struct {
	ID       uuid.UUID   `json:"Id"`
	Type     ProblemType `json:"Type"`
	Question string      `json:"Question"`
	Choices  []string    `json:"Choices"`
	Answer   string      `json:"Answer"`
}

func (p Problem) String() string {
	return fmt.Sprintf("id: %v, type: %v, question: %v, choices: %v, answer: %v",
		p.ID, p.Type, p.Question, p.Choices, p.Answer)
}

func (p Problem) Equal(b Problem) bool {
	return p.ID == b.ID && p.Type == b.Type && p.Question == b.Question &&
		slices.Equal(p.Choices, b.Choices) && p.Answer == b.Answer
}

// Question is a Problem with the answer withheld, as served during a quiz.
type Question struct {
	ID       uuid.UUID   `json:"Id"`
	Type     ProblemType `json:"Type"`
	Question string      `json:"Question"`
	Choices  []string    `json:"Choices"`
}

// ValidateChoices enforces the authoring rules for a problem's answer and
// choices: text problems carry no choices; choice problems carry 2 to
// MaxNumChoices unique non-empty choices, one of which (case-insensitively)
// is the answer.
func ValidateChoices(problemType ProblemType, choices []string, answer string) error {
	if answer == "" {
		return errors.New("answer cannot be empty")
	}

	switch problemType {
	case ProblemTypeChoice:
		if len(choices) < 2 || len(choices) > MaxNumChoices {
			return fmt.Errorf("choice type must have at least 2 choices and at most %d choices", MaxNumChoices)
		}
		choiceFound := false
		seen := make(map[string]struct{}, len(choices))
		for _, c := range choices {
			if c == "" {
				return errors.New("choice cannot be empty")
			}
			if _, exists := seen[strings.ToLower(c)]; exists {
				return errors.New("duplicate choice found")
			}
			seen[strings.ToLower(c)] = struct{}{}
			if strings.EqualFold(c, answer) {
				choiceFound = true
			}
		}
		if !choiceFound {
			return errors.New("answer must be one of the choices")
		}
	case ProblemTypeText:
		if len(choices) != 0 {
			return errors.New("text problems cannot have choices")
		}
	default:
		return fmt.Errorf("invalid problem type: %v", problemType)
	}
	return nil
}
