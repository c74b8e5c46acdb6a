package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"golang.org/x/oauth2"
	githubOAuth "golang.org/x/oauth2/github"

	"github.com/darass-team/darass-backend/internal/domain"
)

// GitHub exchanges GitHub OAuth authorization codes for user profiles.
type GitHub struct {
	conf *oauth2.Config
}

// NewGitHub creates a GitHub provider.
func NewGitHub(clientID, clientSecret, redirectURL string) *GitHub {
	return &GitHub{
		conf: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     githubOAuth.Endpoint,
			Scopes:       []string{"user:email"},
			RedirectURL:  redirectURL,
		},
	}
}

func (g *GitHub) Name() string { return domain.OAuthProviderGitHub }

func (g *GitHub) ExchangeCode(ctx context.Context, code string) (*Profile, error) {
	token, err := g.conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: github code exchange: %v", domain.ErrInvalidAuthorizationCode, err)
	}

	info, err := fetchGitHubUserInfo(ctx, token.AccessToken)
	if err != nil {
		return nil, err
	}

	return &Profile{
		OAuthID:         strconv.FormatInt(info.ID, 10),
		Provider:        domain.OAuthProviderGitHub,
		Nickname:        info.Login,
		Email:           info.Email,
		ProfileImageURL: info.AvatarURL,
	}, nil
}

type githubUserInfo struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

func fetchGitHubUserInfo(ctx context.Context, accessToken string) (*githubUserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		"https://api.github.com/user", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/vnd.github.v3+json")

	resp, err := userInfoClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch github user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("github user info returned status %d", resp.StatusCode)
	}

	var info githubUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decode github user info: %w", err)
	}

	// GitHub hides the email on the /user payload when it is private.
	if info.Email == "" {
		email, err := fetchGitHubPrimaryEmail(ctx, accessToken)
		if err != nil {
			return nil, err
		}
		info.Email = email
	}

	return &info, nil
}

type githubEmail struct {
	Email   string `json:"email"`
	Primary bool   `json:"primary"`
}

func fetchGitHubPrimaryEmail(ctx context.Context, accessToken string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		"https://api.github.com/user/emails", nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/vnd.github.v3+json")

	resp, err := userInfoClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch github emails: %w", err)
	}
	defer resp.Body.Close()

	var emails []githubEmail
	if err := json.NewDecoder(resp.Body).Decode(&emails); err != nil {
		return "", fmt.Errorf("decode github emails: %w", err)
	}

	for _, e := range emails {
		if e.Primary {
			return e.Email, nil
		}
	}
	if len(emails) > 0 {
		return emails[0].Email, nil
	}
	return "", fmt.Errorf("no email found for github user")
}
