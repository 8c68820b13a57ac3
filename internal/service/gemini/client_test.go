package gemini

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizly/quizly/internal/apperrors"
	"github.com/quizly/quizly/internal/logger"
)

func TestNewClient(t *testing.T) {
	t.Run("missing api key fails", func(t *testing.T) {
		_, err := NewClient(Config{}, logger.NewNoOpLogger())

		require.ErrorIs(t, err, apperrors.ErrNotConfigured)
	})

	t.Run("api key set ok", func(t *testing.T) {
		c, err := NewClient(Config{APIKey: "test-key"}, logger.NewNoOpLogger())

		require.NoError(t, err)
		require.NotNil(t, c)
	})
}

func TestClient_Generate(t *testing.T) {
	t.Run("returns model text", func(t *testing.T) {
		var gotPath, gotKey string
		var gotBody []byte

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotKey = r.Header.Get("x-goog-api-key")
			gotBody, _ = io.ReadAll(r.Body)

			_, _ = w.Write([]byte(`{
				"candidates": [
					{"content": {"parts": [{"text": "{\"title\": "}, {"text": "\"Split\"}"}]}}
				]
			}`))
		}))
		defer srv.Close()

		c, err := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL}, logger.NewNoOpLogger())
		require.NoError(t, err)

		result, err := c.Generate(t.Context(), "the transcript")

		require.NoError(t, err)
		assert.Equal(t, `{"title": "Split"}`, result.Raw, "parts should be joined in order")
		assert.Nil(t, result.Parsed)

		assert.Equal(t, "/v1beta/models/gemini-2.5-flash:generateContent", gotPath)
		assert.Equal(t, "test-key", gotKey)

		var decoded map[string]any
		require.NoError(t, json.Unmarshal(gotBody, &decoded))
		text := decoded["contents"].([]any)[0].(map[string]any)["parts"].([]any)[0].(map[string]any)["text"].(string)
		assert.Contains(t, text, "the transcript", "transcript should be in the prompt")
		assert.Contains(t, text, "exactly 10 questions", "prompt instructions should be in place")
	})

	t.Run("custom model in path", func(t *testing.T) {
		var gotPath string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			_, _ = w.Write([]byte(`{"candidates": [{"content": {"parts": [{"text": "ok"}]}}]}`))
		}))
		defer srv.Close()

		c, err := NewClient(Config{APIKey: "test-key", Model: "gemini-2.5-pro", BaseURL: srv.URL}, logger.NewNoOpLogger())
		require.NoError(t, err)

		_, err = c.Generate(t.Context(), "whatever")

		require.NoError(t, err)
		assert.Equal(t, "/v1beta/models/gemini-2.5-pro:generateContent", gotPath)
	})

	t.Run("non 200 fails", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer srv.Close()

		c, err := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL}, logger.NewNoOpLogger())
		require.NoError(t, err)

		_, err = c.Generate(t.Context(), "whatever")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "429")
	})

	t.Run("no candidates fails", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"candidates": []}`))
		}))
		defer srv.Close()

		c, err := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL}, logger.NewNoOpLogger())
		require.NoError(t, err)

		_, err = c.Generate(t.Context(), "whatever")

		require.Error(t, err)
	})
}
