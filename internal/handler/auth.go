package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/darass-team/darass-backend/internal/domain"
	"github.com/darass-team/darass-backend/internal/service"
)

// TokenRequest is the login request body.
type TokenRequest struct {
	OAuthProviderName string `json:"oauthProviderName" validate:"required"`
	AuthorizationCode string `json:"authorizationCode" validate:"required"`
}

// RefreshTokenRequest is the token refresh request body.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// AccessTokenResponse carries a freshly rotated access token.
type AccessTokenResponse struct {
	AccessToken string `json:"accessToken"`
}

// AuthHandler handles the login, refresh and logout endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Login exchanges a provider authorization code for a token pair.
func (h *AuthHandler) Login(c echo.Context) error {
	var req TokenRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	pair, err := h.auth.Login(c.Request().Context(), req.OAuthProviderName, req.AuthorizationCode)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pair)
}

// Refresh mints a new access token from a refresh token.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req RefreshTokenRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	accessToken, err := h.auth.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, AccessTokenResponse{AccessToken: accessToken})
}

// Logout clears the caller's stored tokens.
func (h *AuthHandler) Logout(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok {
		return domain.ErrMissingAccessToken
	}

	if err := h.auth.Logout(c.Request().Context(), user); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
