package render

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Spin up a one-handler server and return status, content type and body
func serveAndGet(t *testing.T, h http.HandlerFunc, method string, reqBody string) (int, string, string) {
	t.Helper()

	ts := httptest.NewServer(h)
	defer ts.Close()

	var resp *http.Response
	var err error
	switch method {
	case http.MethodPost:
		resp, err = http.Post(ts.URL+"/", "application/json", strings.NewReader(reqBody))
	default:
		resp, err = http.Get(ts.URL + "/")
	}
	require.NoError(t, err)
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, resp.Header.Get("Content-Type"), string(body)
}

func TestRender_JSON(t *testing.T) {
	status, contentType, body := serveAndGet(t, func(w http.ResponseWriter, _ *http.Request) {
		JSON(w, map[string]any{"detail": "Login successfully!", "count": 2})
	}, http.MethodGet, "")

	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json; charset=utf-8", contentType)
	assert.JSONEq(t, `{"detail": "Login successfully!", "count": 2}`, body)
}

func TestRender_JSONWithStatus(t *testing.T) {
	status, _, body := serveAndGet(t, func(w http.ResponseWriter, _ *http.Request) {
		JSONWithStatus(w, map[string]string{"detail": "User created successfully!"}, http.StatusCreated)
	}, http.MethodGet, "")

	require.Equal(t, http.StatusCreated, status)
	assert.JSONEq(t, `{"detail": "User created successfully!"}`, body)
}

func TestRender_ServiceError(t *testing.T) {
	status, contentType, body := serveAndGet(t, func(w http.ResponseWriter, _ *http.Request) {
		ServiceError(w, "You don't have access to this quiz", http.StatusForbidden)
	}, http.MethodGet, "")

	require.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "application/json; charset=utf-8", contentType)
	assert.JSONEq(t, `{
		"error": "service_error",
		"message": "You don't have access to this quiz"
	}`, body)
}

func TestRender_FieldErrors(t *testing.T) {
	status, _, body := serveAndGet(t, func(w http.ResponseWriter, _ *http.Request) {
		FieldErrors(w, map[string]string{"email": "This email is already registered"})
	}, http.MethodGet, "")

	require.Equal(t, http.StatusBadRequest, status)
	assert.JSONEq(t, `{
		"error": "validation_failed",
		"message": "Request validation failed",
		"fields": {"email": "This email is already registered"}
	}`, body)
}

func TestRender_BindAndValidate(t *testing.T) {
	type createQuizRequest struct {
		URL string `json:"url" validate:"required,youtube_url"`
	}

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "valid request",
			body:       `{"url": "https://youtu.be/dQw4w9WgXcQ"}`,
			wantStatus: http.StatusOK,
			wantBody:   `{"accepted": true}`,
		},
		{
			name:       "broken json",
			body:       `not even close`,
			wantStatus: http.StatusBadRequest,
			wantBody: `{
				"error": "decoding_failed",
				"message": "Failed to parse JSON: invalid character 'o' in literal null (expecting 'u')"
			}`,
		},
		{
			name:       "wrong field type",
			body:       `{"url": 42}`,
			wantStatus: http.StatusBadRequest,
			wantBody: `{
				"error": "decoding_failed",
				"message": "Invalid data type for field 'url'"
			}`,
		},
		{
			name:       "missing field",
			body:       `{}`,
			wantStatus: http.StatusBadRequest,
			wantBody: `{
				"error": "validation_failed",
				"message": "Request validation failed",
				"fields": {"url": "This field is required"}
			}`,
		},
		{
			name:       "field names come from json tags",
			body:       `{"url": "https://vimeo.com/123456"}`,
			wantStatus: http.StatusBadRequest,
			wantBody: `{
				"error": "validation_failed",
				"message": "Request validation failed",
				"fields": {"url": "Not a valid YouTube video URL"}
			}`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			status, contentType, body := serveAndGet(t, func(w http.ResponseWriter, r *http.Request) {
				if _, err := BindAndValidate[createQuizRequest](w, r); err != nil {
					return // error response already rendered
				}
				JSON(w, map[string]bool{"accepted": true})
			}, http.MethodPost, tc.body)

			require.Equal(t, tc.wantStatus, status)
			assert.Equal(t, "application/json; charset=utf-8", contentType)
			assert.JSONEq(t, tc.wantBody, body)
		})
	}
}

func TestRender_ValidationMessages(t *testing.T) {
	type registerRequest struct {
		Username          string `json:"username" validate:"required,min=2,max=150"`
		Email             string `json:"email" validate:"required,email"`
		Password          string `json:"password" validate:"required,min=8"`
		ConfirmedPassword string `json:"confirmed_password" validate:"required,eqfield=Password"`
	}

	status, _, body := serveAndGet(t, func(w http.ResponseWriter, r *http.Request) {
		if _, err := BindAndValidate[registerRequest](w, r); err != nil {
			return
		}
		JSON(w, map[string]bool{"accepted": true})
	}, http.MethodPost, `{
		"username": "x",
		"email": "not-an-email",
		"password": "short",
		"confirmed_password": "different"
	}`)

	require.Equal(t, http.StatusBadRequest, status)
	assert.JSONEq(t, `{
		"error": "validation_failed",
		"message": "Request validation failed",
		"fields": {
			"username": "Value is too short (minimum 2)",
			"email": "Invalid email address",
			"password": "Value is too short (minimum 8)",
			"confirmed_password": "Passwords do not match"
		}
	}`, body)
}
