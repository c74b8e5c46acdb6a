package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/darass-team/darass-backend/internal/domain"
	"github.com/darass-team/darass-backend/internal/oauth"
	"github.com/darass-team/darass-backend/internal/token"
)

// UserStore defines the user data access interface consumed by AuthService.
type UserStore interface {
	FindByID(ctx context.Context, id int64) (*domain.SocialLoginUser, error)
	FindByOAuthID(ctx context.Context, provider, oauthID string) (*domain.SocialLoginUser, error)
	FindByRefreshToken(ctx context.Context, refreshToken string) (*domain.SocialLoginUser, error)
	Save(ctx context.Context, user *domain.SocialLoginUser) (*domain.SocialLoginUser, error)
	UpdateTokens(ctx context.Context, id int64, accessToken, refreshToken string) error
	UpdateAccessToken(ctx context.Context, id int64, accessToken string) error
	ClearTokens(ctx context.Context, id int64) error
}

// TokenPair holds an access token and refresh token.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// AuthService coordinates the OAuth provider registry, the token codec and
// the user store to implement login, refresh and logout.
type AuthService struct {
	users     UserStore
	codec     *token.Codec
	providers *oauth.Registry
}

// NewAuthService creates a new AuthService.
func NewAuthService(users UserStore, codec *token.Codec, providers *oauth.Registry) *AuthService {
	return &AuthService{users: users, codec: codec, providers: providers}
}

// Login exchanges an OAuth authorization code for a token pair. The first
// login for a never-seen external id registers a new user; later logins reuse
// the existing row and only rotate tokens, never profile fields.
func (s *AuthService) Login(ctx context.Context, providerName, authorizationCode string) (*TokenPair, error) {
	provider, err := s.providers.Get(providerName)
	if err != nil {
		return nil, err
	}

	profile, err := provider.ExchangeCode(ctx, authorizationCode)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByOAuthID(ctx, profile.Provider, profile.OAuthID)
	if errors.Is(err, domain.ErrNotFound) {
		user, err = s.users.Save(ctx, &domain.SocialLoginUser{
			OAuthID:         profile.OAuthID,
			OAuthProvider:   profile.Provider,
			Nickname:        profile.Nickname,
			Email:           profile.Email,
			ProfileImageURL: profile.ProfileImageURL,
		})
	}
	if err != nil {
		return nil, err
	}

	accessToken, err := s.codec.IssueAccessToken(user)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.codec.IssueRefreshToken(user)
	if err != nil {
		return nil, err
	}

	if err := s.users.UpdateTokens(ctx, user.ID, accessToken, refreshToken); err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// UserByAccessToken resolves the caller from a bearer access token. Beyond
// the cryptographic check, the presented token must equal the token currently
// stored on the row: a token superseded by a later issue, or cleared by
// logout, no longer resolves.
func (s *AuthService) UserByAccessToken(ctx context.Context, accessToken string) (*domain.SocialLoginUser, error) {
	if err := s.codec.RequireValidAccessToken(accessToken); err != nil {
		return nil, err
	}

	id, err := s.codec.ExtractSubject(accessToken)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	if user.AccessToken != accessToken {
		return nil, domain.ErrInvalidAccessToken
	}
	return user, nil
}

// Refresh mints a new access token for the holder of a valid refresh token.
// Rotation is refused while the stored access token still verifies, so
// clients keep using a still-good token instead of rotating early. The
// refresh token itself is never rotated here.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	if err := s.codec.RequireValidRefreshToken(refreshToken); err != nil {
		return "", err
	}

	user, err := s.users.FindByRefreshToken(ctx, refreshToken)
	if errors.Is(err, domain.ErrNotFound) {
		return "", domain.ErrRefreshTokenNotFound
	}
	if err != nil {
		return "", err
	}

	if s.codec.VerifyAccessToken(user.AccessToken) {
		return "", domain.ErrAccessTokenStillValid
	}

	accessToken, err := s.codec.RotateAccessToken(user)
	if err != nil {
		return "", err
	}

	if err := s.users.UpdateAccessToken(ctx, user.ID, accessToken); err != nil {
		return "", err
	}
	return accessToken, nil
}

// Logout clears both stored tokens. No new tokens are issued; a later request
// carrying the old bearer fails resolution because the stored token no longer
// matches.
func (s *AuthService) Logout(ctx context.Context, user *domain.SocialLoginUser) error {
	if err := s.users.ClearTokens(ctx, user.ID); err != nil {
		return fmt.Errorf("logout user %d: %w", user.ID, err)
	}
	user.ClearTokens()
	return nil
}
