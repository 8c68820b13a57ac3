package apperrors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrEmailTaken        = errors.New("email already registered")
	ErrUserNotFound      = errors.New("user not found")

	ErrTokenInvalid     = errors.New("token is invalid or expired")
	ErrTokenBlacklisted = errors.New("token is blacklisted")

	ErrQuizNotFound = errors.New("quiz not found")
	ErrQuizNotOwned = errors.New("quiz belongs to another user")

	// Generated content could not be turned into a quiz.
	// The detailed cause is for logs only, clients get a generic message.
	ErrInvalidQuiz = errors.New("generated quiz is not usable")

	// Audio fetcher produced no output file under any candidate extension
	ErrAudioNotFound = errors.New("audio file was not created")

	// Missing credential or backend, must be logged distinctly from generic failures
	ErrNotConfigured = errors.New("service is not configured")
)

// ValidationError enumerates per-field violations of business rules.
// Handlers render it as a structured 400 response.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for name, msg := range e.Fields {
		fields = append(fields, fmt.Sprintf("%s: %s", name, msg))
	}
	sort.Strings(fields)

	return "validation failed: " + strings.Join(fields, "; ")
}

func (e *ValidationError) Add(field string, msg string) {
	e.Fields[field] = msg
}

func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}
