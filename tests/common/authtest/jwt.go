//go:build unit || e2e

package authtest

import (
	"testing"
	"time"

	"service-booking/internal/domain/user"
	"service-booking/internal/pkg/config"
	"service-booking/internal/pkg/jwt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// JWTHelper signs tokens with the same secret the app under test uses.
type JWTHelper struct {
	cfg config.JWTConfig
}

func NewJWTHelper(cfg config.JWTConfig) *JWTHelper {
	return &JWTHelper{cfg: cfg}
}

func (h *JWTHelper) GenerateToken(t *testing.T, userID uuid.UUID, role user.Role) string {
	t.Helper()
	duration, err := h.cfg.TokenDuration()
	require.NoError(t, err)
	return h.sign(t, userID, role, duration)
}

// CreateExpiredToken returns a token that expired a minute ago.
func (h *JWTHelper) CreateExpiredToken(t *testing.T, userID uuid.UUID, role user.Role) string {
	t.Helper()
	return h.sign(t, userID, role, -time.Minute)
}

func (h *JWTHelper) sign(t *testing.T, userID uuid.UUID, role user.Role, ttl time.Duration) string {
	t.Helper()
	token, err := jwt.NewService(h.cfg.Secret, ttl).GenerateToken(userID, role)
	require.NoError(t, err)
	return token
}
