package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Skotchmaster/flower_shop/internal/models"
	"github.com/Skotchmaster/flower_shop/internal/repo"
	"github.com/Skotchmaster/flower_shop/internal/storage"
	"github.com/Skotchmaster/flower_shop/internal/util"
)

type UserService struct {
	Repo   *repo.GormRepo
	Images storage.Uploader
}

// ProfileInput holds the fields to change; nil fields are left alone.
type ProfileInput struct {
	FullName  *string
	Address   *string
	BirthDate *time.Time
	Sex       *string
}

type UserPage struct {
	Items []models.User `json:"items"`
	Meta  util.Meta     `json:"meta"`
}

func (s *UserService) GetProfile(ctx context.Context, userID uint) (*models.UserInfo, error) {
	info, err := s.Repo.GetUserInfo(ctx, userID)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, fmt.Errorf("profile of user %d: %w", userID, ErrNotFound)
		}
		return nil, err
	}
	return info, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID uint, in ProfileInput) (*models.UserInfo, error) {
	fields := map[string]any{}
	if in.FullName != nil {
		fields["full_name"] = strings.TrimSpace(*in.FullName)
	}
	if in.Address != nil {
		fields["address"] = strings.TrimSpace(*in.Address)
	}
	if in.BirthDate != nil {
		fields["birth_date"] = in.BirthDate.UTC()
	}
	if in.Sex != nil {
		fields["sex"] = strings.TrimSpace(*in.Sex)
	}
	if len(fields) == 0 {
		return s.GetProfile(ctx, userID)
	}

	info, err := s.Repo.UpdateUserInfo(ctx, userID, fields)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, fmt.Errorf("profile of user %d: %w", userID, ErrNotFound)
		}
		return nil, err
	}
	return info, nil
}

func (s *UserService) UploadAvatar(ctx context.Context, userID uint, img Image) (*models.UserInfo, error) {
	if s.Images == nil {
		return nil, fmt.Errorf("%w: image storage is not configured", ErrValidation)
	}
	url, err := s.Images.Upload(ctx, "avatars", img.Filename, img.ContentType, img.Body)
	if err != nil {
		return nil, fmt.Errorf("upload avatar: %w: %v", ErrUpstream, err)
	}
	return s.setAvatar(ctx, userID, url)
}

func (s *UserService) setAvatar(ctx context.Context, userID uint, url string) (*models.UserInfo, error) {
	info, err := s.Repo.UpdateUserInfo(ctx, userID, map[string]any{"avatar": url})
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, fmt.Errorf("profile of user %d: %w", userID, ErrNotFound)
		}
		return nil, err
	}
	return info, nil
}

func (s *UserService) AddAddress(ctx context.Context, userID uint, description string) (*models.Address, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, fmt.Errorf("%w: address is required", ErrValidation)
	}
	addr, err := s.Repo.AddAddress(ctx, userID, description)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, fmt.Errorf("profile of user %d: %w", userID, ErrNotFound)
		}
		return nil, err
	}
	return addr, nil
}

func (s *UserService) ListAddresses(ctx context.Context, userID uint) ([]models.Address, error) {
	return s.Repo.ListAddresses(ctx, userID)
}

func (s *UserService) ListUsers(ctx context.Context, page, size int) (*UserPage, error) {
	from, limit := util.Calculate(page, size)
	total, users, err := s.Repo.ListUsers(ctx, from, limit)
	if err != nil {
		return nil, err
	}
	return &UserPage{Items: users, Meta: util.NewMeta(page, from, limit, total)}, nil
}

func (s *UserService) SetUserStatus(ctx context.Context, id uint, status string) error {
	if status != models.UserStatusActive && status != models.UserStatusInactive {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	if err := s.Repo.SetUserStatus(ctx, id, status); err != nil {
		if repo.IsNotFound(err) {
			return fmt.Errorf("user %d: %w", id, ErrNotFound)
		}
		return err
	}
	return nil
}
