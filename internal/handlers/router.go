package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/quizly/quizly/internal/handlers/middleware"
	"github.com/quizly/quizly/internal/logger"
	"github.com/quizly/quizly/internal/models"
	"github.com/quizly/quizly/internal/service/auth"
	"github.com/quizly/quizly/internal/service/quiz"
)

// chain applies middlewares in the given order: m1(m2(...(h)))
func chain(h http.Handler, mds ...func(next http.Handler) http.Handler) http.Handler {
	for i := len(mds) - 1; i >= 0; i-- {
		h = mds[i](h)
	}
	return h
}

func NewRouter(
	authService authService,
	quizService quizService,
	logger logger.Logger,
) http.Handler {
	authMiddleware := middleware.AuthMiddleware(authService)
	withAuth := func(h http.Handler) http.Handler {
		return authMiddleware(h)
	}

	api := http.NewServeMux()

	api.Handle("POST /register", handleRegister(authService, logger))
	api.Handle("POST /login", handleLogin(authService, logger))
	api.Handle("POST /logout", withAuth(handleLogout(authService, logger)))
	api.Handle("POST /token/refresh", handleTokenRefresh(authService, logger))

	api.Handle("POST /createQuiz", withAuth(handleCreateQuiz(quizService, logger)))
	api.Handle("GET /quizzes", withAuth(handleListQuizzes(quizService, logger)))
	api.Handle("GET /quizzes/{id}", withAuth(handleGetQuiz(quizService, logger)))
	api.Handle("PATCH /quizzes/{id}", withAuth(handleUpdateQuiz(quizService, logger)))
	api.Handle("DELETE /quizzes/{id}", withAuth(handleDeleteQuiz(quizService, logger)))

	root := http.NewServeMux()
	root.Handle("/api/", http.StripPrefix("/api", api))

	handler := chain(root,
		middleware.LoggerMiddleware(logger),
	)

	return handler
}

type authService interface {
	// Register user
	// Has to return apperrors.ErrEmailTaken or apperrors.ErrUserAlreadyExists on conflicts
	Register(ctx context.Context, arg auth.RegisterParams) (models.User, error)

	// Login user with username and password
	// Has to return apperrors.ErrUserNotFound if credentials don't match
	Login(ctx context.Context, username string, password string) (models.User, models.TokenPair, error)

	// Issue a new access token for a valid refresh token
	Refresh(ctx context.Context, refresh string) (models.IssuedToken, error)

	// Blacklist the refresh token
	Revoke(ctx context.Context, refresh string) error

	// Get request and return user if it authenticated or error
	Auth(ctx context.Context, r *http.Request) (models.User, error)

	// Get refresh token string from request cookie
	ReadRefreshToken(r *http.Request) (string, error)

	// Cookie management on responses
	SetTokenCookies(w http.ResponseWriter, pair models.TokenPair)
	SetAccessCookie(w http.ResponseWriter, access models.IssuedToken)
	ClearTokenCookies(w http.ResponseWriter)
}

type quizService interface {
	CreateFromURL(ctx context.Context, user models.User, url string) (models.Quiz, error)
	List(ctx context.Context, user models.User) ([]models.Quiz, error)
	Get(ctx context.Context, user models.User, quizID uuid.UUID) (models.Quiz, error)
	Update(ctx context.Context, user models.User, quizID uuid.UUID, arg quiz.UpdateParams) (models.Quiz, error)
	Delete(ctx context.Context, user models.User, quizID uuid.UUID) error
}
