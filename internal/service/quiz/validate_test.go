package quiz

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizly/quizly/internal/apperrors"
	"github.com/quizly/quizly/internal/models"
)

func validQuiz() *models.GeneratedQuiz {
	return &models.GeneratedQuiz{
		Title:       "Go Basics",
		Description: "Short check on the basics",
		Questions: []models.GeneratedQuestion{
			{
				Title:   "What starts a goroutine?",
				Options: []string{"go", "run", "spawn", "fork"},
				Answer:  "go",
			},
		},
	}
}

func fieldsOf(t *testing.T, err error) map[string]string {
	t.Helper()

	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	return verr.Fields
}

func Test_validateGenerated(t *testing.T) {
	t.Run("valid quiz passes", func(t *testing.T) {
		require.NoError(t, validateGenerated(validQuiz()))
	})

	t.Run("empty title", func(t *testing.T) {
		quiz := validQuiz()
		quiz.Title = "   "

		fields := fieldsOf(t, validateGenerated(quiz))
		assert.Contains(t, fields, "title")
	})

	t.Run("empty description", func(t *testing.T) {
		quiz := validQuiz()
		quiz.Description = ""

		fields := fieldsOf(t, validateGenerated(quiz))
		assert.Contains(t, fields, "description")
	})

	t.Run("no questions", func(t *testing.T) {
		quiz := validQuiz()
		quiz.Questions = nil

		fields := fieldsOf(t, validateGenerated(quiz))
		assert.Contains(t, fields, "questions")
	})

	t.Run("wrong option count", func(t *testing.T) {
		quiz := validQuiz()
		quiz.Questions[0].Options = []string{"go", "run", "spawn"}

		fields := fieldsOf(t, validateGenerated(quiz))
		assert.Contains(t, fields, "questions[0].question_options")
	})

	t.Run("duplicated options", func(t *testing.T) {
		quiz := validQuiz()
		quiz.Questions[0].Options = []string{"go", "go", "spawn", "fork"}

		fields := fieldsOf(t, validateGenerated(quiz))
		assert.Contains(t, fields, "questions[0].question_options")
	})

	t.Run("blank option", func(t *testing.T) {
		quiz := validQuiz()
		quiz.Questions[0].Options = []string{"go", " ", "spawn", "fork"}

		fields := fieldsOf(t, validateGenerated(quiz))
		assert.Contains(t, fields, "questions[0].question_options")
	})

	t.Run("answer not among options", func(t *testing.T) {
		quiz := validQuiz()
		quiz.Questions[0].Answer = "select"

		fields := fieldsOf(t, validateGenerated(quiz))
		assert.Contains(t, fields, "questions[0].answer")
	})

	t.Run("second question reported under its index", func(t *testing.T) {
		quiz := validQuiz()
		quiz.Questions = append(quiz.Questions, models.GeneratedQuestion{
			Title:   "Broken one",
			Options: []string{"a", "b", "c", "d"},
			Answer:  "nope",
		})

		fields := fieldsOf(t, validateGenerated(quiz))
		assert.Contains(t, fields, "questions[1].answer")
		assert.NotContains(t, fields, "questions[0].answer")
	})

	t.Run("all violations collected at once", func(t *testing.T) {
		quiz := validQuiz()
		quiz.Title = ""
		quiz.Description = ""
		quiz.Questions[0].Answer = "select"

		fields := fieldsOf(t, validateGenerated(quiz))
		assert.Len(t, fields, 3)
	})
}

func Test_validateUpdate(t *testing.T) {
	strPtr := func(s string) *string { return &s }

	t.Run("nil fields pass", func(t *testing.T) {
		require.NoError(t, validateUpdate(UpdateParams{}))
	})

	t.Run("reasonable values pass", func(t *testing.T) {
		require.NoError(t, validateUpdate(UpdateParams{
			Title:       strPtr("Renamed"),
			Description: strPtr("Short enough"),
		}))
	})

	t.Run("blank title fails", func(t *testing.T) {
		fields := fieldsOf(t, validateUpdate(UpdateParams{Title: strPtr("  ")}))
		assert.Contains(t, fields, "title")
	})

	t.Run("overlong description fails", func(t *testing.T) {
		long := strings.Repeat("x", 151)
		fields := fieldsOf(t, validateUpdate(UpdateParams{Description: strPtr(long)}))
		assert.Contains(t, fields, "description")
	})
}
