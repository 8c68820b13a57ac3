package quizgen

import (
	"context"
	"os"

	"github.com/quizly/quizly/internal/logger"
	"github.com/quizly/quizly/internal/models"
)

// Fetcher retrieves the audio of a video URL to a local temporary file
type Fetcher interface {
	Fetch(ctx context.Context, url string) (path string, err error)
}

// Transcriber produces text from an audio file
type Transcriber interface {
	Transcribe(ctx context.Context, path string) (string, error)
}

// Generator produces quiz content from a transcript
type Generator interface {
	Generate(ctx context.Context, transcript string) (Result, error)
}

// Builder runs the whole generation pipeline:
// fetch audio, transcribe, generate, parse
// One blocking sequential unit per call, safe to run concurrently because
// every run owns its temp file and shares nothing mutable
type Builder struct {
	fetcher     Fetcher
	transcriber Transcriber
	generator   Generator
	logger      logger.Logger
}

func NewBuilder(fetcher Fetcher, transcriber Transcriber, generator Generator, l logger.Logger) *Builder {
	return &Builder{
		fetcher:     fetcher,
		transcriber: transcriber,
		generator:   generator,
		logger:      l,
	}
}

// Build produces a parsed quiz for the video at url with the source URL
// attached. Persistence is the caller's business.
// The temporary audio file is removed on every exit path.
func (b *Builder) Build(ctx context.Context, url string) (*models.GeneratedQuiz, error) {
	path, err := b.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	defer b.removeTemp(path)

	transcript, err := b.transcriber.Transcribe(ctx, path)
	if err != nil {
		return nil, err
	}

	result, err := b.generator.Generate(ctx, transcript)
	if err != nil {
		return nil, err
	}

	quiz, err := Parse(result)
	if err != nil {
		return nil, err
	}

	quiz.VideoURL = url
	return quiz, nil
}

// Best effort removal: a cleanup failure must never mask the build outcome
func (b *Builder) removeTemp(path string) {
	if err := os.Remove(path); err != nil {
		b.logger.Debug("failed to remove temp audio file", "path", path, "error", err)
	}
}
