package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darass-team/darass-backend/internal/domain"
)

func testConfig() Config {
	return Config{
		AccessTokenSecret:    "access-secret",
		RefreshTokenSecret:   "refresh-secret",
		AccessTokenLifetime:  time.Hour,
		RefreshTokenLifetime: 24 * time.Hour,
	}
}

// expiredAccessToken mints a structurally valid access token that is already
// past its expiry.
func expiredAccessToken(t *testing.T, c *Codec, userID int64) string {
	t.Helper()
	tok, err := c.mint(userID, c.cfg.AccessTokenSecret, -time.Minute)
	require.NoError(t, err)
	return tok
}

func TestIssueAccessToken_RoundTrip(t *testing.T) {
	codec := NewCodec(testConfig())
	user := &domain.SocialLoginUser{ID: 42}

	accessToken, err := codec.IssueAccessToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, accessToken)
	assert.Equal(t, accessToken, user.AccessToken)

	subject, err := codec.ExtractSubject(accessToken)
	require.NoError(t, err)
	assert.Equal(t, int64(42), subject)
}

func TestIssueAccessToken_IdempotentReuse(t *testing.T) {
	codec := NewCodec(testConfig())
	user := &domain.SocialLoginUser{ID: 1}

	first, err := codec.IssueAccessToken(user)
	require.NoError(t, err)
	second, err := codec.IssueAccessToken(user)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestIssueRefreshToken_IdempotentReuse(t *testing.T) {
	codec := NewCodec(testConfig())
	user := &domain.SocialLoginUser{ID: 1}

	first, err := codec.IssueRefreshToken(user)
	require.NoError(t, err)
	second, err := codec.IssueRefreshToken(user)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestIssueAccessToken_ReplacesExpired(t *testing.T) {
	codec := NewCodec(testConfig())
	user := &domain.SocialLoginUser{ID: 7}
	user.AccessToken = expiredAccessToken(t, codec, user.ID)
	stale := user.AccessToken

	accessToken, err := codec.IssueAccessToken(user)
	require.NoError(t, err)

	assert.NotEqual(t, stale, accessToken)
	assert.True(t, codec.VerifyAccessToken(accessToken))
}

func TestRotateAccessToken_MintsEvenWhenStoredIsValid(t *testing.T) {
	codec := NewCodec(testConfig())
	user := &domain.SocialLoginUser{ID: 7}

	_, err := codec.IssueAccessToken(user)
	require.NoError(t, err)

	rotated, err := codec.RotateAccessToken(user)
	require.NoError(t, err)

	assert.True(t, codec.VerifyAccessToken(rotated))
	assert.Equal(t, rotated, user.AccessToken)
}

func TestRotateAccessToken_ReplacesExpired(t *testing.T) {
	codec := NewCodec(testConfig())
	user := &domain.SocialLoginUser{ID: 7}
	user.AccessToken = expiredAccessToken(t, codec, user.ID)
	stale := user.AccessToken

	rotated, err := codec.RotateAccessToken(user)
	require.NoError(t, err)

	assert.NotEqual(t, stale, rotated)
	assert.True(t, codec.VerifyAccessToken(rotated))
}

func TestVerify_CrossDomainRejection(t *testing.T) {
	codec := NewCodec(testConfig())
	user := &domain.SocialLoginUser{ID: 3}

	accessToken, err := codec.IssueAccessToken(user)
	require.NoError(t, err)
	refreshToken, err := codec.IssueRefreshToken(user)
	require.NoError(t, err)

	assert.True(t, codec.VerifyAccessToken(accessToken))
	assert.True(t, codec.VerifyRefreshToken(refreshToken))

	assert.False(t, codec.VerifyRefreshToken(accessToken))
	assert.False(t, codec.VerifyAccessToken(refreshToken))

	assert.ErrorIs(t, codec.RequireValidRefreshToken(accessToken), domain.ErrInvalidRefreshToken)
	assert.ErrorIs(t, codec.RequireValidAccessToken(refreshToken), domain.ErrInvalidAccessToken)
}

func TestVerify_Malformed(t *testing.T) {
	codec := NewCodec(testConfig())

	for _, tok := range []string{"", "garbage", "a.b.c"} {
		assert.False(t, codec.VerifyAccessToken(tok))
		assert.False(t, codec.VerifyRefreshToken(tok))
	}

	assert.ErrorIs(t, codec.RequireValidAccessToken("garbage"), domain.ErrInvalidAccessToken)
	assert.ErrorIs(t, codec.RequireValidRefreshToken("garbage"), domain.ErrInvalidRefreshToken)
}

func TestVerify_Expired(t *testing.T) {
	codec := NewCodec(testConfig())

	expired := expiredAccessToken(t, codec, 9)
	assert.False(t, codec.VerifyAccessToken(expired))
	assert.ErrorIs(t, codec.RequireValidAccessToken(expired), domain.ErrInvalidAccessToken)
}

func TestVerify_WrongSecret(t *testing.T) {
	codec := NewCodec(testConfig())

	other := NewCodec(Config{
		AccessTokenSecret:    "somebody-else",
		RefreshTokenSecret:   "somebody-else-too",
		AccessTokenLifetime:  time.Hour,
		RefreshTokenLifetime: time.Hour,
	})
	user := &domain.SocialLoginUser{ID: 5}
	foreign, err := other.IssueAccessToken(user)
	require.NoError(t, err)

	assert.False(t, codec.VerifyAccessToken(foreign))
}

func TestExtractSubject_Invalid(t *testing.T) {
	codec := NewCodec(testConfig())

	_, err := codec.ExtractSubject("garbage")
	assert.ErrorIs(t, err, domain.ErrInvalidAccessToken)

	user := &domain.SocialLoginUser{ID: 5}
	refreshToken, err := codec.IssueRefreshToken(user)
	require.NoError(t, err)

	_, err = codec.ExtractSubject(refreshToken)
	assert.ErrorIs(t, err, domain.ErrInvalidAccessToken)
}
