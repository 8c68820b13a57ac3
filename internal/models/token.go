package models

import (
	"time"

	"github.com/google/uuid"
)

// A revoked refresh token identified by its jti claim.
// The blacklist is the only token related state that is persisted.
type BlacklistedToken struct {
	JTI       uuid.UUID
	UserID    uuid.UUID
	RevokedAt time.Time
	ExpiresAt time.Time
}

type IssuedToken struct {
	Value     string
	ExpiresAt time.Time
}

// Token pair issued by TokenManager, AuthService
type TokenPair struct {
	Access  IssuedToken
	Refresh IssuedToken
}
