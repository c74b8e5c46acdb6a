package handler

import (
	"log/slog"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/darass-team/darass-backend/internal/domain"
	"github.com/darass-team/darass-backend/internal/service"
)

const contextKeyUser = "login_user"

// RequestLogger logs each HTTP request with structured fields.
func RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			slog.Info("http request",
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"status", c.Response().Status,
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
			)

			return err
		}
	}
}

// LoginRequired extracts the bearer access token, resolves the social login
// user behind it and injects the user into the echo context. Requests without
// a resolvable identity fail closed.
func LoginRequired(auth *service.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			accessToken, err := bearerToken(c)
			if err != nil {
				return err
			}

			user, err := auth.UserByAccessToken(c.Request().Context(), accessToken)
			if err != nil {
				return err
			}

			c.Set(contextKeyUser, user)
			return next(c)
		}
	}
}

// CurrentUser returns the authenticated user injected by LoginRequired.
func CurrentUser(c echo.Context) (*domain.SocialLoginUser, bool) {
	user, ok := c.Get(contextKeyUser).(*domain.SocialLoginUser)
	return user, ok
}

func bearerToken(c echo.Context) (string, error) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return "", domain.ErrMissingAccessToken
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", domain.ErrMissingAccessToken
	}
	return parts[1], nil
}
