package handler

import (
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/darass-team/darass-backend/internal/domain"
	"github.com/darass-team/darass-backend/internal/service"
)

// maxProfileImageBytes caps avatar uploads at 5 MiB.
const maxProfileImageBytes = 5 << 20

// UserHandler handles profile endpoints for authenticated users.
type UserHandler struct {
	users *service.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// Me returns the currently authenticated user.
func (h *UserHandler) Me(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok {
		return domain.ErrMissingAccessToken
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateProfile changes the caller's nickname and/or profile image from a
// multipart form. Both fields are optional; absent fields stay unchanged.
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok {
		return domain.ErrMissingAccessToken
	}

	nickname := c.FormValue("nickname")

	image, err := formProfileImage(c)
	if err != nil {
		return err
	}

	updated, err := h.users.UpdateProfile(c.Request().Context(), user, nickname, image)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

func formProfileImage(c echo.Context) (*service.ProfileImage, error) {
	fileHeader, err := c.FormFile("profileImageFile")
	if err != nil {
		// Absent file means no image change.
		return nil, nil
	}

	if fileHeader.Size > maxProfileImageBytes {
		return nil, echo.NewHTTPError(http.StatusRequestEntityTooLarge, "profile image too large")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("open profile image: %w", err)
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, maxProfileImageBytes))
	if err != nil {
		return nil, fmt.Errorf("read profile image: %w", err)
	}

	return &service.ProfileImage{Content: content, Filename: fileHeader.Filename}, nil
}
