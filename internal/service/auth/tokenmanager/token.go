package tokenmanager

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/quizly/quizly/internal/apperrors"
	"github.com/quizly/quizly/internal/models"
	"github.com/quizly/quizly/internal/repository"
)

const (
	defaultAccessTokenTTL  = 15 * time.Minute
	defaultSigningMethod   = "HS256"
	defaultRefreshTokenTTL = 24 * time.Hour

	// Token type claim values
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

type TokenClaims struct {
	jwt.RegisteredClaims
	UserID    uuid.UUID `json:"uid"`
	TokenType string    `json:"typ"`
}

// Token manager with sensible defaults
type Config struct {
	// Secret key to sign token payloads
	// Required to be set
	SecretKey string

	// JWT MAC (Message Authentication Code) algorithm
	// If not set than default is used
	Alg string

	// Access and refresh token lifetimes
	// If not set than default is used
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type TokenManager struct {
	// Secret key to sign tokens
	key string

	// JWT MAC (Message Authentication Code) algorithm
	alg jwt.SigningMethod

	// Access and refresh token lifetimes
	accessTTL  time.Duration
	refreshTTL time.Duration

	// Revoked refresh token jtis
	blacklist repository.BlacklistRepo
}

func New(cfg Config, blacklist repository.BlacklistRepo) (*TokenManager, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("secret key must not be empty")
	}

	if cfg.Alg == "" {
		cfg.Alg = defaultSigningMethod
	}

	setDefaultDuration := func(field *time.Duration, def time.Duration) {
		if *field == 0 {
			*field = def
		}
	}
	setDefaultDuration(&cfg.AccessTTL, defaultAccessTokenTTL)
	setDefaultDuration(&cfg.RefreshTTL, defaultRefreshTokenTTL)

	return &TokenManager{
		key:        cfg.SecretKey,
		alg:        jwt.GetSigningMethod(cfg.Alg),
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		blacklist:  blacklist,
	}, nil
}

// Issue access and refresh tokens for the user
// Nothing is persisted: tokens stay valid until they expire or their jti
// lands in the blacklist
func (m *TokenManager) GeneratePair(user models.User) (models.TokenPair, error) {
	var pair models.TokenPair

	access, err := m.GenerateAccess(user)
	if err != nil {
		return pair, err
	}

	refresh, err := m.generate(user, TypeRefresh, m.refreshTTL)
	if err != nil {
		return pair, err
	}

	return models.TokenPair{Access: access, Refresh: refresh}, nil
}

// Issue a fresh access token only, used by the refresh endpoint
func (m *TokenManager) GenerateAccess(user models.User) (models.IssuedToken, error) {
	return m.generate(user, TypeAccess, m.accessTTL)
}

func (m *TokenManager) generate(user models.User, tokenType string, ttl time.Duration) (models.IssuedToken, error) {
	now := time.Now().Truncate(time.Second)
	expiresAt := now.Add(ttl)

	token := jwt.NewWithClaims(
		m.alg,
		TokenClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				ID:        uuid.NewString(),
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(expiresAt),
			},
			UserID:    user.ID,
			TokenType: tokenType,
		},
	)

	signed, err := token.SignedString([]byte(m.key))
	if err != nil {
		return models.IssuedToken{}, fmt.Errorf("error while signing %s token. Err: %w", tokenType, err)
	}

	return models.IssuedToken{Value: signed, ExpiresAt: expiresAt}, nil
}

// Parse and validate access token: signature, expiry, type and blacklist
func (m *TokenManager) ParseAccess(ctx context.Context, access string) (uuid.UUID, error) {
	claims, err := m.parse(ctx, access, TypeAccess)
	if err != nil {
		return uuid.Nil, err
	}

	return claims.UserID, nil
}

// Parse and validate refresh token: signature, expiry, type and blacklist
func (m *TokenManager) ParseRefresh(ctx context.Context, refresh string) (TokenClaims, error) {
	claims, err := m.parse(ctx, refresh, TypeRefresh)
	if err != nil {
		return TokenClaims{}, err
	}

	return claims, nil
}

// Revoke refresh token by adding it's jti to the blacklist
// Revoking an already revoked token is not an error, revoking an invalid or
// expired one is
func (m *TokenManager) RevokeRefresh(ctx context.Context, refresh string) error {
	claims, err := m.parse(ctx, refresh, TypeRefresh)
	if errors.Is(err, apperrors.ErrTokenBlacklisted) {
		return nil
	}
	if err != nil {
		return err
	}

	jti, err := uuid.Parse(claims.ID)
	if err != nil {
		return fmt.Errorf("token jti is not an uuid: %w", apperrors.ErrTokenInvalid)
	}

	err = m.blacklist.Add(ctx, models.BlacklistedToken{
		JTI:       jti,
		UserID:    claims.UserID,
		RevokedAt: time.Now(),
		ExpiresAt: claims.ExpiresAt.Time,
	})
	if err != nil {
		return fmt.Errorf("error while blacklisting token. Err: %w", err)
	}

	return nil
}

func (m *TokenManager) parse(ctx context.Context, tokenString string, wantType string) (TokenClaims, error) {
	claims := TokenClaims{}

	_, err := jwt.ParseWithClaims(
		tokenString,
		&claims,
		func(t *jwt.Token) (any, error) { return []byte(m.key), nil },
		jwt.WithValidMethods([]string{m.alg.Alg()}),
	)
	if err != nil {
		return claims, fmt.Errorf("error while parsing or validating token: %v. Err: %w", err, apperrors.ErrTokenInvalid)
	}

	if claims.TokenType != wantType {
		return claims, fmt.Errorf("unexpected token type %q: %w", claims.TokenType, apperrors.ErrTokenInvalid)
	}

	jti, err := uuid.Parse(claims.ID)
	if err != nil {
		return claims, fmt.Errorf("token jti is not an uuid: %w", apperrors.ErrTokenInvalid)
	}

	blacklisted, err := m.blacklist.IsBlacklisted(ctx, jti)
	if err != nil {
		return claims, fmt.Errorf("error while checking blacklist. Err: %w", err)
	}
	if blacklisted {
		return claims, apperrors.ErrTokenBlacklisted
	}

	return claims, nil
}
