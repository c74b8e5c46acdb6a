package token

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/darass-team/darass-backend/internal/domain"
)

// Config holds the two independent signing domains. A token signed under the
// access secret never verifies under the refresh secret and vice versa.
type Config struct {
	AccessTokenSecret    string
	RefreshTokenSecret   string
	AccessTokenLifetime  time.Duration
	RefreshTokenLifetime time.Duration
}

// Codec creates and verifies the signed, expiring tokens issued to social
// login users. It is stateless apart from its configuration.
type Codec struct {
	cfg Config
}

// NewCodec creates a Codec from an explicit configuration.
func NewCodec(cfg Config) *Codec {
	return &Codec{cfg: cfg}
}

// IssueAccessToken returns the user's stored access token if it still
// verifies, otherwise mints a new one, stores it on the user and returns it.
// Reusing a still-valid token keeps repeated logins from invalidating a
// client's current token.
func (c *Codec) IssueAccessToken(user *domain.SocialLoginUser) (string, error) {
	if c.verify(user.AccessToken, c.cfg.AccessTokenSecret) {
		return user.AccessToken, nil
	}

	accessToken, err := c.mint(user.ID, c.cfg.AccessTokenSecret, c.cfg.AccessTokenLifetime)
	if err != nil {
		return "", err
	}
	user.AccessToken = accessToken
	return accessToken, nil
}

// IssueRefreshToken applies the same reuse-if-valid policy under the refresh
// signing domain.
func (c *Codec) IssueRefreshToken(user *domain.SocialLoginUser) (string, error) {
	if c.verify(user.RefreshToken, c.cfg.RefreshTokenSecret) {
		return user.RefreshToken, nil
	}

	refreshToken, err := c.mint(user.ID, c.cfg.RefreshTokenSecret, c.cfg.RefreshTokenLifetime)
	if err != nil {
		return "", err
	}
	user.RefreshToken = refreshToken
	return refreshToken, nil
}

// RotateAccessToken mints a brand-new access token regardless of whether the
// stored one still verifies. The refresh path uses this to always hand out a
// fresh token.
func (c *Codec) RotateAccessToken(user *domain.SocialLoginUser) (string, error) {
	accessToken, err := c.mint(user.ID, c.cfg.AccessTokenSecret, c.cfg.AccessTokenLifetime)
	if err != nil {
		return "", err
	}
	user.AccessToken = accessToken
	return accessToken, nil
}

// VerifyAccessToken reports whether the token is well-formed, signed under the
// access secret and unexpired.
func (c *Codec) VerifyAccessToken(accessToken string) bool {
	return c.verify(accessToken, c.cfg.AccessTokenSecret)
}

// VerifyRefreshToken reports whether the token is well-formed, signed under
// the refresh secret and unexpired.
func (c *Codec) VerifyRefreshToken(refreshToken string) bool {
	return c.verify(refreshToken, c.cfg.RefreshTokenSecret)
}

// RequireValidAccessToken is the enforcement-path variant of
// VerifyAccessToken.
func (c *Codec) RequireValidAccessToken(accessToken string) error {
	if !c.verify(accessToken, c.cfg.AccessTokenSecret) {
		return domain.ErrInvalidAccessToken
	}
	return nil
}

// RequireValidRefreshToken is the enforcement-path variant of
// VerifyRefreshToken.
func (c *Codec) RequireValidRefreshToken(refreshToken string) error {
	if !c.verify(refreshToken, c.cfg.RefreshTokenSecret) {
		return domain.ErrInvalidRefreshToken
	}
	return nil
}

// ExtractSubject parses an access token and returns the user id it was issued
// for.
func (c *Codec) ExtractSubject(accessToken string) (int64, error) {
	var claims jwt.RegisteredClaims
	parsed, err := jwt.ParseWithClaims(accessToken, &claims, c.keyFunc(c.cfg.AccessTokenSecret))
	if err != nil || !parsed.Valid {
		return 0, domain.ErrInvalidAccessToken
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, domain.ErrInvalidAccessToken
	}
	return id, nil
}

func (c *Codec) mint(userID int64, secret string, lifetime time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (c *Codec) verify(tokenString, secret string) bool {
	if tokenString == "" {
		return false
	}
	parsed, err := jwt.Parse(tokenString, c.keyFunc(secret))
	return err == nil && parsed.Valid
}

func (c *Codec) keyFunc(secret string) jwt.Keyfunc {
	return func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}
}
