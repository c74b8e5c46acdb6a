package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"

	"github.com/darass-team/darass-backend/internal/domain"
)

var naverEndpoint = oauth2.Endpoint{
	AuthURL:  "https://nid.naver.com/oauth2.0/authorize",
	TokenURL: "https://nid.naver.com/oauth2.0/token",
}

// Naver exchanges Naver Login authorization codes for user profiles.
type Naver struct {
	conf *oauth2.Config
}

// NewNaver creates a Naver provider.
func NewNaver(clientID, clientSecret, redirectURL string) *Naver {
	return &Naver{
		conf: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     naverEndpoint,
			RedirectURL:  redirectURL,
		},
	}
}

func (n *Naver) Name() string { return domain.OAuthProviderNaver }

func (n *Naver) ExchangeCode(ctx context.Context, code string) (*Profile, error) {
	token, err := n.conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: naver code exchange: %v", domain.ErrInvalidAuthorizationCode, err)
	}

	info, err := fetchNaverUserInfo(ctx, token.AccessToken)
	if err != nil {
		return nil, err
	}

	return &Profile{
		OAuthID:         info.Response.ID,
		Provider:        domain.OAuthProviderNaver,
		Nickname:        info.Response.Nickname,
		Email:           info.Response.Email,
		ProfileImageURL: info.Response.ProfileImage,
	}, nil
}

type naverUserInfo struct {
	Response struct {
		ID           string `json:"id"`
		Nickname     string `json:"nickname"`
		Email        string `json:"email"`
		ProfileImage string `json:"profile_image"`
	} `json:"response"`
}

func fetchNaverUserInfo(ctx context.Context, accessToken string) (*naverUserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		"https://openapi.naver.com/v1/nid/me", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := userInfoClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch naver user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("naver user info returned status %d", resp.StatusCode)
	}

	var info naverUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decode naver user info: %w", err)
	}
	return &info, nil
}
