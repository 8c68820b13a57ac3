package auth

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quizly/quizly/internal/service/auth"
	"github.com/quizly/quizly/internal/testutil"
	"github.com/quizly/quizly/tests/e2e"
)

const RegisterURL = "/api/register"

func Test_Register(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	t.Run("register ok", func(t *testing.T) {
		e2e.ServeWithTx(pg.Pool, t, func(srvURL string, _ e2e.Services) {
			data := `{
				"username": "nk",
				"email": "nk@example.com",
				"password": "StrongEnoughPassword",
				"confirmed_password": "StrongEnoughPassword"
			}`

			resp, err := http.Post(srvURL+RegisterURL, "application/json", strings.NewReader(data))
			require.NoError(t, err)
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()

			require.Equalf(t, http.StatusCreated, resp.StatusCode, "not expected code. Body: %s", string(body))
			require.JSONEq(t, `
				{
					"detail": "User created successfully!"
				}`, string(body))

			require.Equal(t, 0, len(resp.Cookies()), "register should not login the user")
		})
	})

	t.Run("password confirmation mismatch fails", func(t *testing.T) {
		e2e.ServeWithTx(pg.Pool, t, func(srvURL string, _ e2e.Services) {
			data := `{
				"username": "nk",
				"email": "nk@example.com",
				"password": "StrongEnoughPassword",
				"confirmed_password": "SomethingElseEntirely"
			}`

			resp, err := http.Post(srvURL+RegisterURL, "application/json", strings.NewReader(data))
			require.NoError(t, err)
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()

			require.Equalf(t, http.StatusBadRequest, resp.StatusCode, "not expected code. Body: %s", string(body))
			require.JSONEq(t, `
				{
					"error": "validation_failed",
					"message": "Request validation failed",
					"fields": {
						"confirmed_password": "Passwords do not match"
					}
				}`, string(body))
		})
	})

	t.Run("invalid email fails", func(t *testing.T) {
		e2e.ServeWithTx(pg.Pool, t, func(srvURL string, _ e2e.Services) {
			data := `{
				"username": "nk",
				"email": "not-an-email",
				"password": "StrongEnoughPassword",
				"confirmed_password": "StrongEnoughPassword"
			}`

			resp, err := http.Post(srvURL+RegisterURL, "application/json", strings.NewReader(data))
			require.NoError(t, err)
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()

			require.Equalf(t, http.StatusBadRequest, resp.StatusCode, "not expected code. Body: %s", string(body))
			require.JSONEq(t, `
				{
					"error": "validation_failed",
					"message": "Request validation failed",
					"fields": {
						"email": "Invalid email address"
					}
				}`, string(body))
		})
	})

	t.Run("duplicated email fails", func(t *testing.T) {
		e2e.ServeWithTx(pg.Pool, t, func(srvURL string, s e2e.Services) {
			_, err := s.AuthService.Register(t.Context(), auth.RegisterParams{
				Username: "first",
				Email:    "nk@example.com",
				Password: "StrongEnoughPassword",
			})
			require.NoError(t, err)

			data := `{
				"username": "second",
				"email": "nk@example.com",
				"password": "StrongEnoughPassword",
				"confirmed_password": "StrongEnoughPassword"
			}`

			resp, err := http.Post(srvURL+RegisterURL, "application/json", strings.NewReader(data))
			require.NoError(t, err)
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()

			require.Equalf(t, http.StatusBadRequest, resp.StatusCode, "not expected code. Body: %s", string(body))
			require.JSONEq(t, `
				{
					"error": "validation_failed",
					"message": "Request validation failed",
					"fields": {
						"email": "This email is already registered"
					}
				}`, string(body))
		})
	})
}
