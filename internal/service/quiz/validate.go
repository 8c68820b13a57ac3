package quiz

import (
	"fmt"
	"slices"
	"strings"

	"github.com/quizly/quizly/internal/apperrors"
	"github.com/quizly/quizly/internal/models"
)

const (
	optionsPerQuestion = 4
	maxDescriptionLen  = 150
)

// validateGenerated checks model output against the quiz contract before it
// is persisted. Field keys mirror the generated JSON so a client can point at
// the offending piece.
func validateGenerated(quiz *models.GeneratedQuiz) error {
	verr := apperrors.NewValidationError()

	if strings.TrimSpace(quiz.Title) == "" {
		verr.Add("title", "title must not be empty")
	}
	if strings.TrimSpace(quiz.Description) == "" {
		verr.Add("description", "description must not be empty")
	}
	if len(quiz.Questions) == 0 {
		verr.Add("questions", "quiz must contain at least one question")
	}

	for i, question := range quiz.Questions {
		validateQuestion(verr, i, question)
	}

	if verr.HasErrors() {
		return verr
	}
	return nil
}

func validateQuestion(verr *apperrors.ValidationError, i int, question models.GeneratedQuestion) {
	field := func(name string) string {
		return fmt.Sprintf("questions[%d].%s", i, name)
	}

	if strings.TrimSpace(question.Title) == "" {
		verr.Add(field("question_title"), "question title must not be empty")
	}

	if len(question.Options) != optionsPerQuestion {
		verr.Add(field("question_options"), fmt.Sprintf("question must have exactly %d options", optionsPerQuestion))
		return
	}

	seen := make(map[string]struct{}, optionsPerQuestion)
	for _, option := range question.Options {
		if strings.TrimSpace(option) == "" {
			verr.Add(field("question_options"), "options must not be empty")
			return
		}
		if _, ok := seen[option]; ok {
			verr.Add(field("question_options"), "options must be distinct")
			return
		}
		seen[option] = struct{}{}
	}

	if !slices.Contains(question.Options, question.Answer) {
		verr.Add(field("answer"), "answer must be one of the options")
	}
}

func validateUpdate(arg UpdateParams) error {
	verr := apperrors.NewValidationError()

	if arg.Title != nil && strings.TrimSpace(*arg.Title) == "" {
		verr.Add("title", "title must not be empty")
	}
	if arg.Description != nil && len(*arg.Description) > maxDescriptionLen {
		verr.Add("description", fmt.Sprintf("description must be at most %d characters", maxDescriptionLen))
	}

	if verr.HasErrors() {
		return verr
	}
	return nil
}
