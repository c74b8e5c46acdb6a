package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/darass-team/darass-backend/internal/domain"
)

const userColumns = `id, oauth_id, oauth_provider, nickname, email, profile_image_url,
	 access_token, refresh_token, created_at, updated_at`

// UserRepository handles social login user data access operations.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByID retrieves a user by their internal ID.
func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.SocialLoginUser, error) {
	var user domain.SocialLoginUser
	err := r.db.GetContext(ctx, &user,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find user by id %d: %w", id, err)
	}
	return &user, nil
}

// FindByOAuthID retrieves a user by OAuth provider and provider-assigned id.
func (r *UserRepository) FindByOAuthID(ctx context.Context, provider, oauthID string) (*domain.SocialLoginUser, error) {
	var user domain.SocialLoginUser
	err := r.db.GetContext(ctx, &user,
		`SELECT `+userColumns+` FROM users WHERE oauth_provider = $1 AND oauth_id = $2`,
		provider, oauthID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find user by oauth id %s/%s: %w", provider, oauthID, err)
	}
	return &user, nil
}

// FindByRefreshToken retrieves the user currently holding the given refresh
// token. Cleared tokens (empty strings) never match.
func (r *UserRepository) FindByRefreshToken(ctx context.Context, refreshToken string) (*domain.SocialLoginUser, error) {
	var user domain.SocialLoginUser
	err := r.db.GetContext(ctx, &user,
		`SELECT `+userColumns+` FROM users WHERE refresh_token = $1 AND refresh_token <> ''`,
		refreshToken)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find user by refresh token: %w", err)
	}
	return &user, nil
}

// Save inserts a new user and returns the stored row with its assigned id.
// The unique constraint on (oauth_provider, oauth_id) backstops concurrent
// first logins for the same external identity.
func (r *UserRepository) Save(ctx context.Context, user *domain.SocialLoginUser) (*domain.SocialLoginUser, error) {
	var result domain.SocialLoginUser
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO users (oauth_id, oauth_provider, nickname, email, profile_image_url, access_token, refresh_token)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+userColumns,
		user.OAuthID, user.OAuthProvider, user.Nickname, user.Email,
		user.ProfileImageURL, user.AccessToken, user.RefreshToken,
	).StructScan(&result)
	if err != nil {
		return nil, fmt.Errorf("save user: %w", err)
	}
	return &result, nil
}

// UpdateTokens stores a newly issued access/refresh token pair.
func (r *UserRepository) UpdateTokens(ctx context.Context, id int64, accessToken, refreshToken string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET access_token = $2, refresh_token = $3, updated_at = NOW() WHERE id = $1`,
		id, accessToken, refreshToken)
	if err != nil {
		return fmt.Errorf("update tokens for user %d: %w", id, err)
	}
	return nil
}

// UpdateAccessToken stores a rotated access token, leaving the refresh token
// untouched.
func (r *UserRepository) UpdateAccessToken(ctx context.Context, id int64, accessToken string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET access_token = $2, updated_at = NOW() WHERE id = $1`,
		id, accessToken)
	if err != nil {
		return fmt.Errorf("update access token for user %d: %w", id, err)
	}
	return nil
}

// ClearTokens removes both stored tokens on logout.
func (r *UserRepository) ClearTokens(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET access_token = '', refresh_token = '', updated_at = NOW() WHERE id = $1`,
		id)
	if err != nil {
		return fmt.Errorf("clear tokens for user %d: %w", id, err)
	}
	return nil
}

// UpdateProfile stores a changed nickname and profile image URL.
func (r *UserRepository) UpdateProfile(ctx context.Context, id int64, nickname, profileImageURL string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET nickname = $2, profile_image_url = $3, updated_at = NOW() WHERE id = $1`,
		id, nickname, profileImageURL)
	if err != nil {
		return fmt.Errorf("update profile for user %d: %w", id, err)
	}
	return nil
}
