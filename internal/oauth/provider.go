package oauth

import (
	"context"
	"net/http"
	"time"

	"github.com/darass-team/darass-backend/internal/domain"
)

// Profile is the normalized identity a provider returns for an authorization
// code. Implementations return identity facts only; user creation and token
// issuance happen elsewhere.
type Profile struct {
	OAuthID         string
	Provider        string
	Nickname        string
	Email           string
	ProfileImageURL string
}

// Provider exchanges an authorization code for a normalized social profile.
type Provider interface {
	// Name returns the provider identifier used by the registry
	// (e.g. "kakao", "naver").
	Name() string

	// ExchangeCode exchanges the authorization code for provider credentials
	// and fetches the user's profile. A code rejected by the upstream
	// provider surfaces as domain.ErrInvalidAuthorizationCode.
	ExchangeCode(ctx context.Context, code string) (*Profile, error)
}

// Registry holds the configured OAuth providers and resolves them by name.
type Registry struct {
	providers map[string]Provider
}

// NewRegistry registers the given providers by name. Names must be unique.
func NewRegistry(list ...Provider) *Registry {
	m := make(map[string]Provider, len(list))
	for _, p := range list {
		m[p.Name()] = p
	}
	return &Registry{providers: m}
}

// Get returns the provider registered under name, or
// domain.ErrUnknownOAuthProvider.
func (r *Registry) Get(name string) (Provider, error) {
	p, ok := r.providers[name]
	if !ok {
		return nil, domain.ErrUnknownOAuthProvider
	}
	return p, nil
}

// userInfoClient is shared by the providers' profile fetches so a slow
// provider cannot hold a request open indefinitely.
var userInfoClient = &http.Client{Timeout: 10 * time.Second}
