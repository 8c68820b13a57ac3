package media

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/quizly/quizly/internal/apperrors"
	"github.com/quizly/quizly/internal/logger"
)

const (
	defaultTranscriberBinary = "whisper"
	defaultTranscriberModel  = "turbo"
)

type TranscriberConfig struct {
	// Path or name of the whisper binary
	// If not set than default is used
	Binary string

	// Whisper model name, default turbo
	Model string
}

// Transcriber turns an audio file into text with the whisper CLI
type Transcriber struct {
	binary string
	model  string
	logger logger.Logger
}

// NewTranscriber checks the backend once at construction so a missing
// install fails fast instead of on the first request
func NewTranscriber(cfg TranscriberConfig, l logger.Logger) (*Transcriber, error) {
	setDefaultString := func(field *string, def string) {
		if *field == "" {
			*field = def
		}
	}
	setDefaultString(&cfg.Binary, defaultTranscriberBinary)
	setDefaultString(&cfg.Model, defaultTranscriberModel)

	if _, err := exec.LookPath(cfg.Binary); err != nil {
		return nil, fmt.Errorf("no transcription backend available, install %q: %w", cfg.Binary, apperrors.ErrNotConfigured)
	}

	return &Transcriber{
		binary: cfg.Binary,
		model:  cfg.Model,
		logger: l,
	}, nil
}

// Transcribe runs the model against the audio file and returns the text of
// the result, empty string when the backend yields none. Backend failures
// propagate to the caller unmodified, there are no local retries.
func (t *Transcriber) Transcribe(ctx context.Context, path string) (string, error) {
	outDir, err := os.MkdirTemp("", "quizly_transcript_")
	if err != nil {
		return "", fmt.Errorf("error while creating transcript dir. Err: %w", err)
	}
	defer os.RemoveAll(outDir) // nolint:errcheck

	cmd := exec.CommandContext(ctx, t.binary,
		path,
		"--model", t.model,
		"--output_format", "json",
		"--output_dir", outDir,
	)

	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("whisper failed: %w. Output: %s", err, out)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)) + ".json"
	data, err := os.ReadFile(filepath.Join(outDir, name))
	if err != nil {
		return "", fmt.Errorf("whisper produced no result file: %w", err)
	}

	var result struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return "", fmt.Errorf("error while decoding whisper result. Err: %w", err)
	}

	return strings.TrimSpace(result.Text), nil
}
