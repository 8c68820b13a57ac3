package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/quizly/quizly/internal/apperrors"
	"github.com/quizly/quizly/internal/handlers/render"
	"github.com/quizly/quizly/internal/logger"
	"github.com/quizly/quizly/internal/service/auth"
)

func handleRegister(authService authService, l logger.Logger) http.Handler {
	type request struct {
		Username          string `json:"username" validate:"required,min=2,max=150"`
		Email             string `json:"email" validate:"required,email"`
		Password          string `json:"password" validate:"required,min=8"`
		ConfirmedPassword string `json:"confirmed_password" validate:"required,eqfield=Password"`
	}
	type response struct {
		Detail string `json:"detail"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		_, err = authService.Register(r.Context(), auth.RegisterParams{
			Username: data.Username,
			Email:    data.Email,
			Password: data.Password,
		})

		switch {
		case err == nil:
			render.JSONWithStatus(w, response{Detail: "User created successfully!"}, http.StatusCreated)
		case errors.Is(err, apperrors.ErrEmailTaken):
			render.FieldErrors(w, map[string]string{"email": "This email is already registered"})
		case errors.Is(err, apperrors.ErrUserAlreadyExists):
			render.FieldErrors(w, map[string]string{"username": "This username is already taken"})
		default:
			l.Error("Failed to register user", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleLogin(authService authService, l logger.Logger) http.Handler {
	type request struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}
	type userData struct {
		ID       uuid.UUID `json:"id"`
		Username string    `json:"username"`
		Email    string    `json:"email"`
	}
	type response struct {
		Detail string   `json:"detail"`
		User   userData `json:"user"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		user, pair, err := authService.Login(r.Context(), data.Username, data.Password)

		switch {
		case err == nil:
			authService.SetTokenCookies(w, pair)
			render.JSON(w, response{
				Detail: "Login successfully!",
				User:   userData{ID: user.ID, Username: user.Username, Email: user.Email},
			})
		case errors.Is(err, apperrors.ErrUserNotFound):
			render.ServiceError(w, "Invalid username or password", http.StatusUnauthorized)
		default:
			l.Error("Failed to login user", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

// Logout blacklists the refresh token if one is present and clears both
// cookies. Always responds 200: a client without valid tokens is already
// logged out.
func handleLogout(authService authService, l logger.Logger) http.Handler {
	type response struct {
		Detail string `json:"detail"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		refresh, err := authService.ReadRefreshToken(r)
		if err == nil {
			if err := authService.Revoke(r.Context(), refresh); err != nil {
				l.Info("Failed to revoke refresh token on logout", "error", err)
			}
		}

		authService.ClearTokenCookies(w)
		render.JSON(w, response{Detail: "Successfully logged out!"})
	})
}

func handleTokenRefresh(authService authService, l logger.Logger) http.Handler {
	type response struct {
		Detail string `json:"detail"`
		Access string `json:"access"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		refresh, err := authService.ReadRefreshToken(r)
		if err != nil {
			render.ServiceError(w, "Refresh token cookie is missing", http.StatusBadRequest)
			return
		}

		access, err := authService.Refresh(r.Context(), refresh)

		switch {
		case err == nil:
			authService.SetAccessCookie(w, access)
			render.JSON(w, response{Detail: "Token refreshed", Access: access.Value})
		case errors.Is(err, apperrors.ErrTokenInvalid), errors.Is(err, apperrors.ErrTokenBlacklisted):
			render.ServiceError(w, "Refresh token is invalid or expired", http.StatusUnauthorized)
		default:
			l.Error("Failed to refresh token", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}
