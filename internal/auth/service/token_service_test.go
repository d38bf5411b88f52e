package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	autherror "github.com/umar-essayed/Courses-backend/internal/errors"
)

func TestNewTokenService(t *testing.T) {
	tests := []struct {
		name           string
		accessSecret   string
		refreshSecret  string
		accessMinutes  int
		refreshMinutes int
	}{
		{
			name:           "valid parameters",
			accessSecret:   "access-secret-key",
			refreshSecret:  "refresh-secret-key",
			accessMinutes:  15,
			refreshMinutes: 1440,
		},
		{
			name:           "empty secrets",
			accessSecret:   "",
			refreshSecret:  "",
			accessMinutes:  30,
			refreshMinutes: 2880,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := NewTokenService(tt.accessSecret, tt.refreshSecret, tt.accessMinutes, tt.refreshMinutes)

			assert.NotNil(t, ts)
			assert.Equal(t, tt.accessSecret, ts.AccessTokenSecret)
			assert.Equal(t, tt.refreshSecret, ts.RefreshTokenSecret)
			assert.Equal(t, time.Duration(tt.accessMinutes)*time.Minute, ts.AccessTokenExpiry)
			assert.Equal(t, time.Duration(tt.refreshMinutes)*time.Minute, ts.RefreshTokenExpiry)
		})
	}
}

func TestTokenService_Generate(t *testing.T) {
	tests := []struct {
		name           string
		accessMinutes  int
		refreshMinutes int
		userID         string
		email          string
		role           string
	}{
		{
			name:           "student identity",
			accessMinutes:  15,
			refreshMinutes: 1440,
			userID:         "user-123",
			email:          "test@example.com",
			role:           "student",
		},
		{
			name:           "admin identity",
			accessMinutes:  30,
			refreshMinutes: 2880,
			userID:         "admin-456",
			email:          "admin@example.com",
			role:           "admin",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := NewTokenService("test-access-secret", "test-refresh-secret", tt.accessMinutes, tt.refreshMinutes)

			beforeGenerate := time.Now()
			accessToken, refreshToken, expiresAt, err := ts.Generate(tt.userID, tt.email, tt.role)
			afterGenerate := time.Now()

			require.NoError(t, err)
			assert.NotEmpty(t, accessToken)
			assert.NotEmpty(t, refreshToken)

			// The returned expiry tracks the refresh token.
			expectedExpiry := beforeGenerate.Add(ts.RefreshTokenExpiry)
			assert.True(t, expiresAt.After(expectedExpiry.Add(-time.Second)))
			assert.True(t, expiresAt.Before(afterGenerate.Add(ts.RefreshTokenExpiry).Add(time.Second)))

			accessClaims, err := ts.VerifyAccessToken(accessToken)
			require.NoError(t, err)
			assert.Equal(t, tt.userID, accessClaims.UserID)
			assert.Equal(t, tt.email, accessClaims.Email)
			assert.Equal(t, tt.role, accessClaims.Role)
			assert.NotEmpty(t, accessClaims.ID)

			refreshClaims, err := ts.VerifyRefreshToken(refreshToken)
			require.NoError(t, err)
			assert.Equal(t, tt.userID, refreshClaims.UserID)
			assert.Equal(t, tt.email, refreshClaims.Email)
			// The refresh token never carries the role; it is re-read at
			// refresh time.
			assert.Empty(t, refreshClaims.Role)

			assert.True(t, refreshClaims.ExpiresAt.Time.After(accessClaims.ExpiresAt.Time))
		})
	}
}

func TestTokenService_Generate_UniqueValues(t *testing.T) {
	ts := NewTokenService("test-access-secret", "test-refresh-secret", 15, 1440)

	_, first, _, err := ts.Generate("user-123", "test@example.com", "student")
	require.NoError(t, err)
	_, second, _, err := ts.Generate("user-123", "test@example.com", "student")
	require.NoError(t, err)

	// Two issuances for the same identity must never produce the same
	// stored token value.
	assert.NotEqual(t, first, second)
}

func TestTokenService_Verify_WrongSecret(t *testing.T) {
	ts := NewTokenService("test-access-secret", "test-refresh-secret", 15, 1440)
	other := NewTokenService("other-access-secret", "other-refresh-secret", 15, 1440)

	accessToken, refreshToken, _, err := ts.Generate("user-123", "test@example.com", "student")
	require.NoError(t, err)

	_, err = other.VerifyAccessToken(accessToken)
	assert.ErrorIs(t, err, autherror.ErrTokenInvalid)

	_, err = other.VerifyRefreshToken(refreshToken)
	assert.ErrorIs(t, err, autherror.ErrTokenInvalid)
}

func TestTokenService_Verify_CrossTokenKindRejected(t *testing.T) {
	ts := NewTokenService("test-access-secret", "test-refresh-secret", 15, 1440)

	accessToken, refreshToken, _, err := ts.Generate("user-123", "test@example.com", "student")
	require.NoError(t, err)

	// An access token is not a refresh token and vice versa.
	_, err = ts.VerifyRefreshToken(accessToken)
	assert.ErrorIs(t, err, autherror.ErrTokenInvalid)

	_, err = ts.VerifyAccessToken(refreshToken)
	assert.ErrorIs(t, err, autherror.ErrTokenInvalid)
}

func TestTokenService_Verify_Expired(t *testing.T) {
	ts := NewTokenService("test-access-secret", "test-refresh-secret", -1, -1)

	accessToken, refreshToken, _, err := ts.Generate("user-123", "test@example.com", "student")
	require.NoError(t, err)

	_, err = ts.VerifyAccessToken(accessToken)
	assert.ErrorIs(t, err, autherror.ErrTokenExpired)

	_, err = ts.VerifyRefreshToken(refreshToken)
	assert.ErrorIs(t, err, autherror.ErrTokenExpired)
}

func TestTokenService_Verify_Malformed(t *testing.T) {
	ts := NewTokenService("test-access-secret", "test-refresh-secret", 15, 1440)

	for _, token := range []string{"", "garbage", "a.b.c"} {
		_, err := ts.VerifyAccessToken(token)
		assert.ErrorIs(t, err, autherror.ErrTokenInvalid)
	}
}

func TestTokenService_Verify_RejectsUnexpectedAlg(t *testing.T) {
	ts := NewTokenService("test-access-secret", "test-refresh-secret", 15, 1440)

	// alg=none with a valid claim set must not verify.
	claims := JWTCustomClaims{
		UserID: "user-123",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ts.VerifyAccessToken(unsigned)
	assert.ErrorIs(t, err, autherror.ErrTokenInvalid)
}
