package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-timetable-api/internal/models"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
)

func TestTokenServiceRoundTrip(t *testing.T) {
	svc := NewTokenService("secret")
	token, err := svc.Sign(models.JWTClaims{UserID: "u1", Role: models.RoleAdmin}, time.Hour)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestTokenServiceRejectsInvalidTokens(t *testing.T) {
	svc := NewTokenService("secret")

	expired, err := svc.Sign(models.JWTClaims{UserID: "u1"}, -time.Minute)
	require.NoError(t, err)
	_, err = svc.ValidateToken(expired)
	assert.True(t, appErrors.Is(err, appErrors.ErrUnauthorized))

	foreign, err := NewTokenService("other").Sign(models.JWTClaims{UserID: "u1"}, time.Hour)
	require.NoError(t, err)
	_, err = svc.ValidateToken(foreign)
	assert.True(t, appErrors.Is(err, appErrors.ErrUnauthorized))

	anonymous, err := svc.Sign(models.JWTClaims{}, time.Hour)
	require.NoError(t, err)
	_, err = svc.ValidateToken(anonymous)
	assert.True(t, appErrors.Is(err, appErrors.ErrUnauthorized))

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, models.JWTClaims{UserID: "u1"})
	raw, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = svc.ValidateToken(raw)
	assert.True(t, appErrors.Is(err, appErrors.ErrUnauthorized))
}
