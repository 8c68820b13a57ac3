package quizgen

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/quizly/quizly/internal/apperrors"
	"github.com/quizly/quizly/internal/models"
)

var (
	// A fence is three backticks, optionally with a language tag on the
	// opening one. Only a single leading and single trailing fence is removed
	leadingFence  = regexp.MustCompile("^\\s*```[^\n]*\n?")
	trailingFence = regexp.MustCompile("\n?```\\s*$")
)

// Parse turns a generation result into a structured quiz
// Raw text goes through fence stripping and JSON decoding, a structured
// result passes through as is. Parsing errors wrap the cause for logging but
// the sentinel is what handlers should match: the raw model text must never
// reach a client.
func Parse(res Result) (*models.GeneratedQuiz, error) {
	if res.Parsed != nil {
		return res.Parsed, nil
	}

	text := stripCodeFences(res.Raw)
	if text == "" {
		return nil, fmt.Errorf("%w: blank response", apperrors.ErrInvalidQuiz)
	}

	var quiz models.GeneratedQuiz
	if err := json.Unmarshal([]byte(text), &quiz); err != nil {
		return nil, fmt.Errorf("%w: not valid JSON: %v", apperrors.ErrInvalidQuiz, err)
	}

	return &quiz, nil
}

func stripCodeFences(text string) string {
	s := strings.TrimSpace(text)
	s = leadingFence.ReplaceAllString(s, "")
	s = trailingFence.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}
