package rtc

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lingua_meet_server/internal/config"
	"lingua_meet_server/pkg/errorx"
)

func TestIssueToken(t *testing.T) {
	provider := NewTokenProvider(&config.RtcConfig{
		ApiKey:           "test-key",
		ApiSecret:        "test-secret",
		TokenExpiryHours: 1,
	})

	signed, err := provider.IssueToken("U1")
	require.NoError(t, err)
	assert.Equal(t, "test-key", provider.ApiKey())

	// Token 可以用 api secret 校验，claims 正确
	parsed, err := jwt.Parse(signed, func(token *jwt.Token) (any, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, "U1", claims["user_id"])
	assert.Equal(t, "test-key", claims["iss"])

	exp, err := claims.GetExpirationTime()
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp.Time, time.Minute)
}

func TestIssueToken_EmptyUser(t *testing.T) {
	provider := NewTokenProvider(&config.RtcConfig{ApiKey: "k", ApiSecret: "s"})
	_, err := provider.IssueToken("")
	require.Error(t, err)
	assert.Equal(t, errorx.CodeInvalidParam, errorx.GetCode(err))
}
