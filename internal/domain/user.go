package domain

import "time"

// OAuthProviderName identifies which social network issued a user's OAuthID.
type OAuthProviderName = string

const (
	OAuthProviderKakao  OAuthProviderName = "kakao"
	OAuthProviderNaver  OAuthProviderName = "naver"
	OAuthProviderGitHub OAuthProviderName = "github"
)

// SocialLoginUser is a user account keyed by an external OAuth provider's
// user id. The currently valid access and refresh tokens are stored on the
// row; an empty string means no token is active (logged out or never issued).
type SocialLoginUser struct {
	ID              int64     `json:"id" db:"id"`
	OAuthID         string    `json:"-" db:"oauth_id"`
	OAuthProvider   string    `json:"oauthProvider" db:"oauth_provider"`
	Nickname        string    `json:"nickName" db:"nickname"`
	Email           string    `json:"email" db:"email"`
	ProfileImageURL string    `json:"profileImageUrl" db:"profile_image_url"`
	AccessToken     string    `json:"-" db:"access_token"`
	RefreshToken    string    `json:"-" db:"refresh_token"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time `json:"updatedAt" db:"updated_at"`
}

// CheckGuestPassword always fails: social login users authenticate through
// their provider and carry no guest password.
func (u *SocialLoginUser) CheckGuestPassword(string) error {
	return ErrNotGuestUser
}

// ClearTokens removes both stored tokens, logging the user out everywhere.
func (u *SocialLoginUser) ClearTokens() {
	u.AccessToken = ""
	u.RefreshToken = ""
}
