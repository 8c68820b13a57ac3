package quiz

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/quizly/quizly/internal/apperrors"
	"github.com/quizly/quizly/internal/models"
	"github.com/quizly/quizly/internal/repository"
)

// Builder produces a generated quiz for a video URL
type Builder interface {
	Build(ctx context.Context, url string) (*models.GeneratedQuiz, error)
}

type UpdateParams struct {
	Title       *string
	Description *string
}

// Quiz service: generation entry point plus owner scoped CRUD
type QuizService struct {
	storage repository.Storage
	builder Builder
}

func NewService(storage repository.Storage, builder Builder) *QuizService {
	return &QuizService{
		storage: storage,
		builder: builder,
	}
}

// CreateFromURL runs the generation pipeline for url and persists the result
// under the user. The generated content is validated before anything touches
// the database and the quiz with its questions lands in one transaction.
func (s *QuizService) CreateFromURL(ctx context.Context, user models.User, url string) (models.Quiz, error) {
	generated, err := s.builder.Build(ctx, url)
	if err != nil {
		return models.Quiz{}, err
	}

	if err := validateGenerated(generated); err != nil {
		return models.Quiz{}, err
	}

	var quiz models.Quiz
	err = s.storage.InTx(ctx, func(storage repository.Storage) error {
		var err error
		quiz, err = storage.Quiz().CreateQuiz(ctx, repository.CreateQuizParams{
			UserID:      user.ID,
			Title:       generated.Title,
			Description: generated.Description,
			VideoURL:    generated.VideoURL,
		})
		if err != nil {
			return err
		}

		for _, q := range generated.Questions {
			question, err := storage.Quiz().AddQuestion(ctx, repository.CreateQuestionParams{
				QuizID:  quiz.ID,
				Title:   q.Title,
				Options: q.Options,
				Answer:  q.Answer,
			})
			if err != nil {
				return err
			}
			quiz.Questions = append(quiz.Questions, question)
		}

		return nil
	})
	if err != nil {
		return models.Quiz{}, fmt.Errorf("can't save quiz. Err: %w", err)
	}

	return quiz, nil
}

// List user quizzes, newest first
func (s *QuizService) List(ctx context.Context, user models.User) ([]models.Quiz, error) {
	return s.storage.Quiz().ListUserQuizzes(ctx, user.ID)
}

// Get quiz for the user
// Someone else's quiz is apperrors.ErrQuizNotOwned, not a 404: its existence
// is not a secret, its content is
func (s *QuizService) Get(ctx context.Context, user models.User, quizID uuid.UUID) (models.Quiz, error) {
	return s.getOwned(ctx, user, quizID)
}

// Update title or description of an owned quiz, questions stay untouched
func (s *QuizService) Update(ctx context.Context, user models.User, quizID uuid.UUID, arg UpdateParams) (models.Quiz, error) {
	if _, err := s.getOwned(ctx, user, quizID); err != nil {
		return models.Quiz{}, err
	}

	if err := validateUpdate(arg); err != nil {
		return models.Quiz{}, err
	}

	return s.storage.Quiz().UpdateQuiz(ctx, quizID, repository.UpdateQuizParams{
		Title:       arg.Title,
		Description: arg.Description,
	})
}

// Delete an owned quiz, questions removed with it
func (s *QuizService) Delete(ctx context.Context, user models.User, quizID uuid.UUID) error {
	if _, err := s.getOwned(ctx, user, quizID); err != nil {
		return err
	}

	return s.storage.Quiz().DeleteQuiz(ctx, quizID)
}

func (s *QuizService) getOwned(ctx context.Context, user models.User, quizID uuid.UUID) (models.Quiz, error) {
	quiz, err := s.storage.Quiz().GetQuiz(ctx, quizID)
	if err != nil {
		return models.Quiz{}, err
	}

	if quiz.UserID != user.ID {
		return models.Quiz{}, apperrors.ErrQuizNotOwned
	}

	return quiz, nil
}
