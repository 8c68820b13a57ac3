package e2e

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stretchr/testify/require"

	"github.com/quizly/quizly/internal/handlers"
	"github.com/quizly/quizly/internal/logger"
	"github.com/quizly/quizly/internal/models"
	"github.com/quizly/quizly/internal/repository/postgres"
	"github.com/quizly/quizly/internal/service/auth"
	"github.com/quizly/quizly/internal/service/auth/tokenmanager"
	"github.com/quizly/quizly/internal/service/quiz"
	"github.com/quizly/quizly/internal/testutil"
)

// StubBuilder replaces the real generation pipeline in tests
// Returns a copy of Generated with the requested URL attached, or Err
type StubBuilder struct {
	Generated *models.GeneratedQuiz
	Err       error
}

func (b *StubBuilder) Build(_ context.Context, url string) (*models.GeneratedQuiz, error) {
	if b.Err != nil {
		return nil, b.Err
	}

	generated := *b.Generated
	generated.VideoURL = url
	return &generated, nil
}

// GeneratedQuizFixture passes quiz content validation as is
func GeneratedQuizFixture() *models.GeneratedQuiz {
	return &models.GeneratedQuiz{
		Title:       "Go Concurrency Patterns",
		Description: "Check how well you followed the talk about goroutines and channels.",
		Questions: []models.GeneratedQuestion{
			{
				Title:   "What starts a new goroutine?",
				Options: []string{"go", "run", "spawn", "fork"},
				Answer:  "go",
			},
			{
				Title:   "What does a nil channel read do?",
				Options: []string{"panics", "returns zero value", "blocks forever", "compile error"},
				Answer:  "blocks forever",
			},
		},
	}
}

type Services struct {
	AuthService *auth.AuthService
	QuizService *quiz.QuizService
	Builder     *StubBuilder
}

// Create db transaction and run server with that connection (one connection cause one transaction)
// Everything written during the test is rolled back at the end
func ServeWithTx(dbpool *pgxpool.Pool, t *testing.T, fn func(srvURL string, services Services)) {
	testutil.WithTx(dbpool, t, func(tx pgx.Tx) {
		storage := postgres.NewStorage(tx)

		tokenManager, err := tokenmanager.New(tokenmanager.Config{SecretKey: "test-secret"}, storage.Blacklist())
		require.NoError(t, err, "token manager should be created without errors")

		as, err := auth.NewService(auth.Config{}, tokenManager, storage.User())
		require.NoError(t, err, "auth service starting error", err)

		builder := &StubBuilder{Generated: GeneratedQuizFixture()}
		qs := quiz.NewService(storage, builder)

		router := handlers.NewRouter(as, qs, logger.NewNoOpLogger())

		// Run http server with the router in transaction
		srv := httptest.NewServer(router)
		defer srv.Close()

		fn(srv.URL, Services{
			AuthService: as,
			QuizService: qs,
			Builder:     builder,
		})
	})
}

// Register a user and login over HTTP
// Returned client carries the token cookies in its jar
func LoginClient(t *testing.T, srvURL string, s Services, username string, password string) *http.Client {
	t.Helper()

	_, err := s.AuthService.Register(t.Context(), auth.RegisterParams{
		Username: username,
		Email:    username + "@example.com",
		Password: password,
	})
	require.NoError(t, err, "user should be registered")

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{Jar: jar}

	data := `{"username": "` + username + `", "password": "` + password + `"}`
	resp, err := client.Post(srvURL+"/api/login", "application/json", strings.NewReader(data))
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equalf(t, http.StatusOK, resp.StatusCode, "login should succeed. Body: %s", string(body))

	return client
}

// Decode response body into map for spot checks
func DecodeBody(t *testing.T, body []byte) map[string]any {
	t.Helper()

	var decoded map[string]any
	err := json.Unmarshal(body, &decoded)
	require.NoErrorf(t, err, "body should be valid JSON: %s", string(body))
	return decoded
}
