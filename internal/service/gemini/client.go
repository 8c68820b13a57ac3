package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/quizly/quizly/internal/apperrors"
	"github.com/quizly/quizly/internal/logger"
	"github.com/quizly/quizly/internal/service/quizgen"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com"
	defaultModel   = "gemini-2.5-flash"
	defaultTimeout = 120 * time.Second
)

// Instruction template prepended to the transcript
// The shape it demands is what quizgen.Parse and the quiz validation expect
const promptTemplate = `Based on the following transcript, generate a quiz in valid JSON format.

The quiz must follow this exact structure:

{
  "title": "Create a concise quiz title based on the topic of the transcript.",
  "description": "Summarize the transcript in no more than 150 characters. Do not include any quiz questions or answers.",
  "questions": [
    {
      "question_title": "The question goes here.",
      "question_options": ["Option A", "Option B", "Option C", "Option D"],
      "answer": "The correct answer from the above options"
    },
    ...
    (exactly 10 questions)
  ]
}

Requirements:
- Each question must have exactly 4 distinct answer options.
- Only one correct answer is allowed per question, and it must be present in 'question_options'.
- The output must be valid JSON and parsable as-is.
- Do not include explanations, comments, or any text outside the JSON.
- Transcript:

`

type Config struct {
	// API key for the generative language API
	// Required: the client refuses to start without it
	APIKey string

	// Model name, default gemini-2.5-flash
	Model string

	// API base URL, overridable for tests
	BaseURL string
}

// Client for the Gemini generateContent API
type Client struct {
	apiKey  string
	model   string
	baseURL string

	client *http.Client
	logger logger.Logger
}

// NewClient fails fast when the credential is missing so a misconfigured
// process never gets as far as serving requests
func NewClient(cfg Config, l logger.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is not set: %w", apperrors.ErrNotConfigured)
	}

	setDefaultString := func(field *string, def string) {
		if *field == "" {
			*field = def
		}
	}
	setDefaultString(&cfg.Model, defaultModel)
	setDefaultString(&cfg.BaseURL, defaultBaseURL)

	return &Client{
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		client:  &http.Client{Timeout: defaultTimeout},
		logger:  l,
	}, nil
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Generate asks the model for quiz content over the transcript and returns
// its text verbatim, parsing is the pipeline's next step
func (c *Client) Generate(ctx context.Context, transcript string) (quizgen.Result, error) {
	payload := generateRequest{
		Contents: []content{{Parts: []part{{Text: promptTemplate + transcript}}}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return quizgen.Result{}, fmt.Errorf("failed to encode request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return quizgen.Result{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return quizgen.Result{}, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close() // nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("generation request failed", "status_code", resp.StatusCode, "model", c.model)
		return quizgen.Result{}, fmt.Errorf("generation failed with status %d", resp.StatusCode)
	}

	var decoded generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return quizgen.Result{}, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(decoded.Candidates) == 0 {
		return quizgen.Result{}, fmt.Errorf("generation returned no candidates")
	}

	var text strings.Builder
	for _, p := range decoded.Candidates[0].Content.Parts {
		text.WriteString(p.Text)
	}

	c.logger.Debug("generation response received", "model", c.model, "length", text.Len())
	return quizgen.RawText(text.String()), nil
}
