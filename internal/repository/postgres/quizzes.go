package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/quizly/quizly/internal/apperrors"
	"github.com/quizly/quizly/internal/models"
	"github.com/quizly/quizly/internal/repository"
)

type QuizRepo struct {
	DB DBTX
}

const createQuiz = `-- name: CreateQuiz
INSERT INTO quizzes (user_id, title, description, video_url)
VALUES ($1, $2, $3, $4)
RETURNING id, user_id, title, description, video_url, created_at, updated_at
`

func (r *QuizRepo) CreateQuiz(ctx context.Context, arg repository.CreateQuizParams) (models.Quiz, error) {
	rows, _ := r.DB.Query(ctx, createQuiz, arg.UserID, arg.Title, arg.Description, arg.VideoURL)
	quiz, err := pgx.CollectOneRow(rows, rowToQuiz)
	if err != nil {
		return quiz, fmt.Errorf("db error: %w", err)
	}

	return quiz, nil
}

const addQuestion = `-- name: AddQuestion
INSERT INTO questions (quiz_id, position, question_title, question_options, answer)
VALUES ($1, (SELECT COUNT(*) FROM questions WHERE quiz_id = $1), $2, $3, $4)
RETURNING id, quiz_id, question_title, question_options, answer, created_at, updated_at
`

func (r *QuizRepo) AddQuestion(ctx context.Context, arg repository.CreateQuestionParams) (models.Question, error) {
	rows, _ := r.DB.Query(ctx, addQuestion, arg.QuizID, arg.Title, arg.Options, arg.Answer)
	question, err := pgx.CollectOneRow(rows, rowToQuestion)
	if err != nil {
		return question, fmt.Errorf("db error: %w", err)
	}

	return question, nil
}

const getQuiz = `-- name: GetQuiz
SELECT id, user_id, title, description, video_url, created_at, updated_at
FROM quizzes
WHERE id = $1
`

func (r *QuizRepo) GetQuiz(ctx context.Context, quizID uuid.UUID) (models.Quiz, error) {
	rows, _ := r.DB.Query(ctx, getQuiz, quizID)
	quiz, err := pgx.CollectOneRow(rows, rowToQuiz)

	switch {
	case err == nil:
	case errors.Is(err, pgx.ErrNoRows):
		return quiz, apperrors.ErrQuizNotFound
	default:
		return quiz, fmt.Errorf("db error: %w", err)
	}

	questions, err := r.listQuestions(ctx, quizID)
	if err != nil {
		return quiz, err
	}

	quiz.Questions = questions
	return quiz, nil
}

const listUserQuizzes = `-- name: ListUserQuizzes
SELECT id, user_id, title, description, video_url, created_at, updated_at
FROM quizzes
WHERE user_id = $1
ORDER BY created_at DESC, id
`

const listQuestionsForQuizzes = `-- name: ListQuestionsForQuizzes
SELECT id, quiz_id, question_title, question_options, answer, created_at, updated_at
FROM questions
WHERE quiz_id = ANY($1)
ORDER BY quiz_id, position
`

// List user quizzes newest first, questions preloaded with a second query
func (r *QuizRepo) ListUserQuizzes(ctx context.Context, userID uuid.UUID) ([]models.Quiz, error) {
	rows, _ := r.DB.Query(ctx, listUserQuizzes, userID)
	quizzes, err := pgx.CollectRows(rows, rowToQuiz)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	if len(quizzes) == 0 {
		return quizzes, nil
	}

	quizIDs := make([]uuid.UUID, 0, len(quizzes))
	for _, q := range quizzes {
		quizIDs = append(quizIDs, q.ID)
	}

	rows, _ = r.DB.Query(ctx, listQuestionsForQuizzes, quizIDs)
	questions, err := pgx.CollectRows(rows, rowToQuestion)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	byQuiz := make(map[uuid.UUID][]models.Question, len(quizzes))
	for _, q := range questions {
		byQuiz[q.QuizID] = append(byQuiz[q.QuizID], q)
	}
	for i := range quizzes {
		quizzes[i].Questions = byQuiz[quizzes[i].ID]
	}

	return quizzes, nil
}

const updateQuiz = `-- name: UpdateQuiz
UPDATE quizzes
SET title       = COALESCE($2, title),
    description = COALESCE($3, description),
    updated_at  = now()
WHERE id = $1
RETURNING id, user_id, title, description, video_url, created_at, updated_at
`

func (r *QuizRepo) UpdateQuiz(ctx context.Context, quizID uuid.UUID, arg repository.UpdateQuizParams) (models.Quiz, error) {
	rows, _ := r.DB.Query(ctx, updateQuiz, quizID, arg.Title, arg.Description)
	quiz, err := pgx.CollectOneRow(rows, rowToQuiz)

	switch {
	case err == nil:
	case errors.Is(err, pgx.ErrNoRows):
		return quiz, apperrors.ErrQuizNotFound
	default:
		return quiz, fmt.Errorf("db error: %w", err)
	}

	questions, err := r.listQuestions(ctx, quizID)
	if err != nil {
		return quiz, err
	}

	quiz.Questions = questions
	return quiz, nil
}

const deleteQuiz = `-- name: DeleteQuiz
DELETE FROM quizzes
WHERE id = $1
`

// Delete quiz, questions removed by the cascade
func (r *QuizRepo) DeleteQuiz(ctx context.Context, quizID uuid.UUID) error {
	tag, err := r.DB.Exec(ctx, deleteQuiz, quizID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrQuizNotFound
	}

	return nil
}

const listQuestions = `-- name: ListQuestions
SELECT id, quiz_id, question_title, question_options, answer, created_at, updated_at
FROM questions
WHERE quiz_id = $1
ORDER BY position
`

func (r *QuizRepo) listQuestions(ctx context.Context, quizID uuid.UUID) ([]models.Question, error) {
	rows, _ := r.DB.Query(ctx, listQuestions, quizID)
	questions, err := pgx.CollectRows(rows, rowToQuestion)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return questions, nil
}

func rowToQuiz(row pgx.CollectableRow) (models.Quiz, error) {
	var q models.Quiz
	err := row.Scan(&q.ID, &q.UserID, &q.Title, &q.Description, &q.VideoURL, &q.CreatedAt, &q.UpdatedAt)
	return q, err
}

func rowToQuestion(row pgx.CollectableRow) (models.Question, error) {
	var q models.Question
	err := row.Scan(&q.ID, &q.QuizID, &q.Title, &q.Options, &q.Answer, &q.CreatedAt, &q.UpdatedAt)
	return q, err
}
