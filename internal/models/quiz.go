package models

import (
	"time"

	"github.com/google/uuid"
)

type Quiz struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Title       string
	Description string
	VideoURL    string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Questions []Question
}

type Question struct {
	ID        uuid.UUID
	QuizID    uuid.UUID
	Title     string
	Options   []string
	Answer    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// GeneratedQuiz is the parsed output of the generation pipeline before it is
// validated and persisted. JSON field names follow the prompt contract.
type GeneratedQuiz struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	VideoURL    string              `json:"-"`
	Questions   []GeneratedQuestion `json:"questions"`
}

type GeneratedQuestion struct {
	Title   string   `json:"question_title"`
	Options []string `json:"question_options"`
	Answer  string   `json:"answer"`
}
