package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resto/backend/internal/infrastructure/config"
)

func newTestJWTService() *JWTService {
	cfg := config.JWTConfig{
		Secret:                "test-secret-key-at-least-32-chars",
		AccessTokenExpiration: 12 * time.Hour,
		Issuer:                "test-issuer",
	}
	return NewJWTService(cfg)
}

func newTestInput() GenerateTokenInput {
	return GenerateTokenInput{
		UserID:   uuid.New(),
		Username: "testwaiter",
		BranchID: uuid.New(),
		Role:     RoleWaiter,
	}
}

func TestNewJWTService(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:                "test-secret",
		AccessTokenExpiration: 12 * time.Hour,
		Issuer:                "test-issuer",
	}

	svc := NewJWTService(cfg)

	assert.NotNil(t, svc)
	assert.Equal(t, []byte(cfg.Secret), svc.secret)
	assert.Equal(t, cfg.AccessTokenExpiration, svc.expiration)
	assert.Equal(t, cfg.Issuer, svc.issuer)
}

func TestGenerateToken(t *testing.T) {
	svc := newTestJWTService()
	input := newTestInput()

	token, err := svc.GenerateToken(input)

	require.NoError(t, err)
	assert.NotEmpty(t, token.AccessToken)
	assert.Equal(t, "Bearer", token.TokenType)
	assert.True(t, token.ExpiresAt.After(time.Now()))
}

func TestValidateToken_Success(t *testing.T) {
	svc := newTestJWTService()
	input := newTestInput()

	token, err := svc.GenerateToken(input)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token.AccessToken)

	require.NoError(t, err)
	assert.Equal(t, input.UserID.String(), claims.UserID)
	assert.Equal(t, input.Username, claims.Username)
	assert.Equal(t, input.BranchID.String(), claims.BranchID)
	assert.Equal(t, RoleWaiter, claims.Role)
	assert.Equal(t, "test-issuer", claims.Issuer)
}

func TestValidateToken_InvalidToken(t *testing.T) {
	svc := newTestJWTService()

	_, err := svc.ValidateToken("not-a-token")

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	svc := newTestJWTService()
	input := newTestInput()

	token, err := svc.GenerateToken(input)
	require.NoError(t, err)

	other := NewJWTService(config.JWTConfig{
		Secret:                "completely-different-secret-key-32",
		AccessTokenExpiration: time.Hour,
		Issuer:                "test-issuer",
	})

	_, err = other.ValidateToken(token.AccessToken)

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_Expired(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-at-least-32-chars",
		AccessTokenExpiration: -time.Minute,
		Issuer:                "test-issuer",
	})

	token, err := svc.GenerateToken(newTestInput())
	require.NoError(t, err)

	_, err = svc.ValidateToken(token.AccessToken)

	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateToken_RejectsUnexpectedSigningMethod(t *testing.T) {
	svc := newTestJWTService()

	// Token signed with "none" must be rejected
	token := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		UserID: uuid.New().String(),
	})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.ValidateToken(signed)

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestClaims_GetUserUUID(t *testing.T) {
	userID := uuid.New()
	claims := &Claims{UserID: userID.String()}

	parsed, err := claims.GetUserUUID()

	require.NoError(t, err)
	assert.Equal(t, userID, parsed)
}

func TestClaims_IsSupervisor(t *testing.T) {
	tests := []struct {
		role     Role
		expected bool
	}{
		{RoleWaiter, false},
		{RoleKitchen, false},
		{RoleSupervisor, true},
		{RoleAdmin, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			claims := &Claims{Role: tt.role}
			assert.Equal(t, tt.expected, claims.IsSupervisor())
		})
	}
}
