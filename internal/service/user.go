package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/darass-team/darass-backend/internal/domain"
)

// Uploader stores profile images and returns their public URL.
type Uploader interface {
	Upload(ctx context.Context, content []byte, filename string) (string, error)
	Delete(ctx context.Context, objectURL string) error
}

// ProfileStore defines the persistence interface consumed by UserService.
type ProfileStore interface {
	UpdateProfile(ctx context.Context, id int64, nickname, profileImageURL string) error
}

// ProfileImage is an uploaded image file from a profile-update request.
type ProfileImage struct {
	Content  []byte
	Filename string
}

// UserService handles profile changes for social login users.
type UserService struct {
	users    ProfileStore
	uploader Uploader
}

// NewUserService creates a new UserService.
func NewUserService(users ProfileStore, uploader Uploader) *UserService {
	return &UserService{users: users, uploader: uploader}
}

// UpdateProfile changes the nickname and/or profile image, each only when
// given. Replacing an image deletes the previous object before the new upload
// so abandoned avatars do not accumulate in the bucket.
func (s *UserService) UpdateProfile(ctx context.Context, user *domain.SocialLoginUser, nickname string, image *ProfileImage) (*domain.SocialLoginUser, error) {
	if nickname != "" {
		user.Nickname = nickname
	}

	if image != nil {
		if user.ProfileImageURL != "" {
			if err := s.uploader.Delete(ctx, user.ProfileImageURL); err != nil {
				// The old object is orphaned but the update can proceed.
				slog.Warn("delete previous profile image", "user_id", user.ID, "error", err)
			}
		}

		imageURL, err := s.uploader.Upload(ctx, image.Content, image.Filename)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrProfileImageUpload, err)
		}
		user.ProfileImageURL = imageURL
	}

	if err := s.users.UpdateProfile(ctx, user.ID, user.Nickname, user.ProfileImageURL); err != nil {
		return nil, err
	}
	return user, nil
}
