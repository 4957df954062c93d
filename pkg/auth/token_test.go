package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartgrocer/grocer-backend/pkg/config"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "grocer-backend",
		ExpirationMinutes: 30,
	}
}

func TestMintAndParseAccessToken(t *testing.T) {
	cfg := testJWTConfig()
	empID := uuid.New()

	signed, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{
		EmployeeID: empID,
		Email:      "cashier@example.com",
		Position:   "Cashier",
	})
	require.NoError(t, err)

	claims, err := ParseAccessToken(cfg, signed)
	require.NoError(t, err)
	assert.Equal(t, empID, claims.EmployeeID)
	assert.Equal(t, "cashier@example.com", claims.Email)
	assert.Equal(t, "Cashier", claims.Position)
	assert.Equal(t, cfg.Issuer, claims.Issuer)
	assert.NotEmpty(t, claims.ID)
}

func TestParseAccessTokenRejectsWrongSecret(t *testing.T) {
	cfg := testJWTConfig()
	signed, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{EmployeeID: uuid.New()})
	require.NoError(t, err)

	bad := cfg
	bad.Secret = "other-secret"
	_, err = ParseAccessToken(bad, signed)
	assert.Error(t, err)
}

func TestParseAccessTokenRejectsExpired(t *testing.T) {
	cfg := testJWTConfig()
	signed, err := MintAccessToken(cfg, time.Now().Add(-2*time.Hour), AccessTokenPayload{EmployeeID: uuid.New()})
	require.NoError(t, err)

	_, err = ParseAccessToken(cfg, signed)
	assert.Error(t, err)
}

func TestMintAccessTokenRequiresEmployee(t *testing.T) {
	_, err := MintAccessToken(testJWTConfig(), time.Now(), AccessTokenPayload{})
	assert.Error(t, err)
}
