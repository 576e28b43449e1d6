package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erp-mx/backend/internal/infrastructure/config"
)

func testService(expiration time.Duration) *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                "0123456789abcdef0123456789abcdef",
		AccessTokenExpiration: expiration,
		Issuer:                "erp-backend-test",
	})
}

func TestGenerateAndValidateToken(t *testing.T) {
	svc := testService(15 * time.Minute)
	userID := uuid.New()

	token, expiresAt, err := svc.GenerateToken(userID, "vendedor1", RoleSales)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), expiresAt, 2*time.Second)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "vendedor1", claims.Username)
	assert.Equal(t, RoleSales, claims.Role)

	parsed, err := claims.GetUserUUID()
	require.NoError(t, err)
	assert.Equal(t, userID, parsed)
}

func TestValidateTokenFailures(t *testing.T) {
	svc := testService(15 * time.Minute)

	t.Run("garbage token", func(t *testing.T) {
		_, err := svc.ValidateToken("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJWTService(config.JWTConfig{
			Secret:                "another-secret-another-secret-xx",
			AccessTokenExpiration: 15 * time.Minute,
			Issuer:                "erp-backend-test",
		})
		token, _, err := other.GenerateToken(uuid.New(), "u", RoleAdmin)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired token", func(t *testing.T) {
		short := testService(-time.Minute)
		token, _, err := short.GenerateToken(uuid.New(), "u", RoleAdmin)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("unknown role rejected at generation", func(t *testing.T) {
		_, _, err := svc.GenerateToken(uuid.New(), "u", Role("INTERN"))
		assert.ErrorIs(t, err, ErrUnknownRole)
	})
}

func TestRoleChecks(t *testing.T) {
	sales := &Claims{Role: RoleSales}
	assert.True(t, sales.HasRole(RoleSales))
	assert.False(t, sales.HasRole(RoleWarehouse))
	assert.True(t, sales.HasAnyRole(RoleWarehouse, RoleSales))

	super := &Claims{Role: RoleSuperAdmin}
	assert.True(t, super.HasRole(RoleFinance))
	assert.True(t, super.HasAnyRole(RoleSales))
}
