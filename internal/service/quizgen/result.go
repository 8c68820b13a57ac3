package quizgen

import "github.com/quizly/quizly/internal/models"

// Result is the tagged output of a Generator
// Exactly one side is set: raw model text that still needs parsing, or an
// already structured quiz from a backend that returns one
type Result struct {
	Raw    string
	Parsed *models.GeneratedQuiz
}

func RawText(text string) Result {
	return Result{Raw: text}
}

func ParsedQuiz(quiz *models.GeneratedQuiz) Result {
	return Result{Parsed: quiz}
}
