package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/quizly/quizly/internal/apperrors"
	"github.com/quizly/quizly/internal/models"
	"github.com/quizly/quizly/internal/repository"
	"github.com/quizly/quizly/internal/service/auth/tokenmanager"
)

const (
	defaultAccessCookieName  = "access_token"
	defaultRefreshCookieName = "refresh_token"
	authScheme               = "Bearer"
)

// Interface to create or compare user password hashes
type PasswordHasher interface {
	// Generate Hash from password
	Hash(password string) (string, error)

	// Compare known hashedPassword and user provided password
	// Must be protected against timing attacks
	Compare(hashedPassword string, password string) error
}

type Config struct {
	// Hasher to use during registration or login
	// BcryptHasher is used if not set
	Hasher PasswordHasher

	// Cookie names for the issued tokens
	// If not set than defaults are used
	AccessCookieName  string
	RefreshCookieName string

	// Set the Secure attribute on token cookies
	// Should be on everywhere except local development
	SecureCookies bool
}

type RegisterParams struct {
	Username string
	Email    string
	Password string
}

// Auth service
// Issues and validates cookie carried JWT pairs and authenticates requests
type AuthService struct {
	token  *tokenmanager.TokenManager
	hasher PasswordHasher

	accessCookieName  string
	refreshCookieName string
	secureCookies     bool

	userRepo repository.UserRepo
}

func NewService(cfg Config, token *tokenmanager.TokenManager, userRepo repository.UserRepo) (*AuthService, error) {
	hasher := cfg.Hasher
	if hasher == nil {
		hasher = DefaultHasher
	}

	setDefaultString := func(field *string, def string) {
		if *field == "" {
			*field = def
		}
	}
	setDefaultString(&cfg.AccessCookieName, defaultAccessCookieName)
	setDefaultString(&cfg.RefreshCookieName, defaultRefreshCookieName)

	return &AuthService{
		token:             token,
		hasher:            hasher,
		accessCookieName:  cfg.AccessCookieName,
		refreshCookieName: cfg.RefreshCookieName,
		secureCookies:     cfg.SecureCookies,
		userRepo:          userRepo,
	}, nil
}

// Register new user
// Password confirmation is the handler's business, here the password is final
func (s *AuthService) Register(ctx context.Context, arg RegisterParams) (models.User, error) {
	hash, err := s.hasher.Hash(arg.Password)
	if err != nil {
		return models.User{}, fmt.Errorf("can't use this as password, error=%w", err)
	}

	user, err := s.userRepo.CreateUser(ctx, repository.CreateUserParams{
		Username:     arg.Username,
		Email:        arg.Email,
		PasswordHash: hash,
	})
	if err != nil {
		return models.User{}, err
	}

	return user, nil
}

// Login with username and password
// Returns the user and a fresh token pair or apperrors.ErrUserNotFound
func (s *AuthService) Login(ctx context.Context, username string, password string) (models.User, models.TokenPair, error) {
	user, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		// Compare against itself to keep timing close to the found case
		_ = s.hasher.Compare("", password)
		return models.User{}, models.TokenPair{}, apperrors.ErrUserNotFound
	}

	if err := s.hasher.Compare(user.HashedPassword, password); err != nil {
		return models.User{}, models.TokenPair{}, apperrors.ErrUserNotFound
	}

	pair, err := s.token.GeneratePair(user)
	if err != nil {
		return models.User{}, models.TokenPair{}, fmt.Errorf("token could not be generated, sorry. %w", err)
	}

	return user, pair, nil
}

// Refresh issues a new access token for a valid refresh token
// The refresh token itself is not rotated
func (s *AuthService) Refresh(ctx context.Context, refresh string) (models.IssuedToken, error) {
	claims, err := s.token.ParseRefresh(ctx, refresh)
	if err != nil {
		return models.IssuedToken{}, err
	}

	user, err := s.userRepo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return models.IssuedToken{}, fmt.Errorf("refresh token user: %w", apperrors.ErrTokenInvalid)
	}

	access, err := s.token.GenerateAccess(user)
	if err != nil {
		return models.IssuedToken{}, fmt.Errorf("token could not be generated, sorry. %w", err)
	}

	return access, nil
}

// Revoke adds the refresh token to the blacklist
// Best effort operation: logout swallows whatever it returns
func (s *AuthService) Revoke(ctx context.Context, refresh string) error {
	return s.token.RevokeRefresh(ctx, refresh)
}

// Auth resolves the user behind the request
// Bearer token in the Authorization header wins, the access token cookie is
// the fallback. No token at all or a bad one is apperrors.ErrTokenInvalid
func (s *AuthService) Auth(ctx context.Context, r *http.Request) (models.User, error) {
	raw := s.rawAccessToken(r)
	if raw == "" {
		return models.User{}, apperrors.ErrTokenInvalid
	}

	userID, err := s.token.ParseAccess(ctx, raw)
	if err != nil {
		return models.User{}, err
	}

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return models.User{}, fmt.Errorf("token user not found: %w", apperrors.ErrTokenInvalid)
		}
		return models.User{}, err
	}

	return user, nil
}

// Read refresh token value from it's cookie
func (s *AuthService) ReadRefreshToken(r *http.Request) (string, error) {
	cookie, err := r.Cookie(s.refreshCookieName)
	if err != nil {
		return "", fmt.Errorf("refresh cookie not set: %w", err)
	}

	return cookie.Value, nil
}

// Set both token cookies on the response
// Tokens travel in HttpOnly cookies only, never in response bodies
func (s *AuthService) SetTokenCookies(w http.ResponseWriter, pair models.TokenPair) {
	http.SetCookie(w, s.tokenCookie(s.accessCookieName, pair.Access.Value))
	http.SetCookie(w, s.tokenCookie(s.refreshCookieName, pair.Refresh.Value))
}

// Set the access token cookie only, used by the refresh endpoint
func (s *AuthService) SetAccessCookie(w http.ResponseWriter, access models.IssuedToken) {
	http.SetCookie(w, s.tokenCookie(s.accessCookieName, access.Value))
}

// Clear both token cookies regardless of what the request carried
func (s *AuthService) ClearTokenCookies(w http.ResponseWriter) {
	for _, name := range []string{s.accessCookieName, s.refreshCookieName} {
		cookie := s.tokenCookie(name, "")
		cookie.MaxAge = -1
		http.SetCookie(w, cookie)
	}
}

func (s *AuthService) tokenCookie(name string, value string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteLaxMode,
	}
}

func (s *AuthService) rawAccessToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header != "" {
		value, found := strings.CutPrefix(header, authScheme+" ")
		if found && value != "" {
			return value
		}
	}

	cookie, err := r.Cookie(s.accessCookieName)
	if err != nil {
		return ""
	}

	return cookie.Value
}
