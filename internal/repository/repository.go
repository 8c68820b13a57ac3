package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/quizly/quizly/internal/models"
)

type CreateUserParams struct {
	Username     string
	Email        string
	PasswordHash string
}

// User repository interface
type UserRepo interface {
	// Create user
	// Must return apperrors.ErrUserAlreadyExists if the username is taken
	// and apperrors.ErrEmailTaken if the email is registered already
	CreateUser(ctx context.Context, arg CreateUserParams) (models.User, error)

	// Get user by it's id or username
	// If user not found must return apperrors.ErrUserNotFound
	GetUserByID(ctx context.Context, userID uuid.UUID) (models.User, error)
	GetUserByUsername(ctx context.Context, username string) (models.User, error)
}

type CreateQuizParams struct {
	UserID      uuid.UUID
	Title       string
	Description string
	VideoURL    string
}

type CreateQuestionParams struct {
	QuizID  uuid.UUID
	Title   string
	Options []string
	Answer  string
}

type UpdateQuizParams struct {
	Title       *string
	Description *string
}

// Quiz repository interface
// Quiz rows always own their question rows: questions are created with the
// quiz and removed by cascade when the quiz is deleted
type QuizRepo interface {
	CreateQuiz(ctx context.Context, arg CreateQuizParams) (models.Quiz, error)
	AddQuestion(ctx context.Context, arg CreateQuestionParams) (models.Question, error)

	// Get quiz with it's questions
	// If quiz not found must return apperrors.ErrQuizNotFound
	GetQuiz(ctx context.Context, quizID uuid.UUID) (models.Quiz, error)

	// List user quizzes with questions, newest first
	ListUserQuizzes(ctx context.Context, userID uuid.UUID) ([]models.Quiz, error)

	// Update title or description (nil fields left untouched)
	UpdateQuiz(ctx context.Context, quizID uuid.UUID, arg UpdateQuizParams) (models.Quiz, error)

	DeleteQuiz(ctx context.Context, quizID uuid.UUID) error
}

// Blacklist of revoked refresh tokens
type BlacklistRepo interface {
	// Add token to the blacklist
	// Must be idempotent: blacklisting the same jti twice is not an error
	Add(ctx context.Context, token models.BlacklistedToken) error

	IsBlacklisted(ctx context.Context, jti uuid.UUID) (bool, error)
}

// Storage aggregates all repositories and runs transactions over them
type Storage interface {
	User() UserRepo
	Quiz() QuizRepo
	Blacklist() BlacklistRepo

	// Run fn in a database transaction
	// The callback receives a Storage bound to the transaction
	InTx(ctx context.Context, fn func(Storage) error) error
}
