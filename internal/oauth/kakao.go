package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"golang.org/x/oauth2"

	"github.com/darass-team/darass-backend/internal/domain"
)

var kakaoEndpoint = oauth2.Endpoint{
	AuthURL:  "https://kauth.kakao.com/oauth/authorize",
	TokenURL: "https://kauth.kakao.com/oauth/token",
}

// Kakao exchanges Kakao Login authorization codes for user profiles.
type Kakao struct {
	conf *oauth2.Config
}

// NewKakao creates a Kakao provider.
func NewKakao(clientID, clientSecret, redirectURL string) *Kakao {
	return &Kakao{
		conf: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     kakaoEndpoint,
			Scopes:       []string{"profile_nickname", "profile_image", "account_email"},
			RedirectURL:  redirectURL,
		},
	}
}

func (k *Kakao) Name() string { return domain.OAuthProviderKakao }

func (k *Kakao) ExchangeCode(ctx context.Context, code string) (*Profile, error) {
	token, err := k.conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: kakao code exchange: %v", domain.ErrInvalidAuthorizationCode, err)
	}

	info, err := fetchKakaoUserInfo(ctx, token.AccessToken)
	if err != nil {
		return nil, err
	}

	return &Profile{
		OAuthID:         strconv.FormatInt(info.ID, 10),
		Provider:        domain.OAuthProviderKakao,
		Nickname:        info.Properties.Nickname,
		Email:           info.KakaoAccount.Email,
		ProfileImageURL: info.Properties.ProfileImage,
	}, nil
}

type kakaoUserInfo struct {
	ID         int64 `json:"id"`
	Properties struct {
		Nickname     string `json:"nickname"`
		ProfileImage string `json:"profile_image"`
	} `json:"properties"`
	KakaoAccount struct {
		Email string `json:"email"`
	} `json:"kakao_account"`
}

func fetchKakaoUserInfo(ctx context.Context, accessToken string) (*kakaoUserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		"https://kapi.kakao.com/v2/user/me", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := userInfoClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch kakao user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("kakao user info returned status %d", resp.StatusCode)
	}

	var info kakaoUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decode kakao user info: %w", err)
	}
	return &info, nil
}
