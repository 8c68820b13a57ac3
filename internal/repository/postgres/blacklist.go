package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/quizly/quizly/internal/models"
)

type BlacklistRepo struct {
	DB DBTX
}

const addBlacklistedToken = `-- name: AddBlacklistedToken
INSERT INTO blacklisted_tokens (jti, user_id, revoked_at, expires_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (jti) DO NOTHING
`

// Add token jti to the blacklist
// Idempotent: revoking the same token twice keeps the first record
func (r *BlacklistRepo) Add(ctx context.Context, token models.BlacklistedToken) error {
	_, err := r.DB.Exec(ctx, addBlacklistedToken, token.JTI, token.UserID, token.RevokedAt, token.ExpiresAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

const isBlacklisted = `-- name: IsBlacklisted
SELECT EXISTS (SELECT 1 FROM blacklisted_tokens WHERE jti = $1)
`

func (r *BlacklistRepo) IsBlacklisted(ctx context.Context, jti uuid.UUID) (bool, error) {
	var exists bool
	err := r.DB.QueryRow(ctx, isBlacklisted, jti).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}
