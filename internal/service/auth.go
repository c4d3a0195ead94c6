package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Skotchmaster/flower_shop/internal/hash"
	"github.com/Skotchmaster/flower_shop/internal/logging"
	"github.com/Skotchmaster/flower_shop/internal/models"
	"github.com/Skotchmaster/flower_shop/internal/repo"
	"github.com/Skotchmaster/flower_shop/internal/tokens"
)

type AuthService struct {
	Repo   *repo.GormRepo
	Tokens *tokens.Issuer
	Now    func() time.Time
}

type LoginResult struct {
	UserID     uint      `json:"userId"`
	Username   string    `json:"username"`
	Type       string    `json:"type"`
	Token      string    `json:"token"`
	Expiration time.Time `json:"expiration"`
}

func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.authenticate", "username", username)

	user, err := s.Repo.GetUserByUsername(ctx, username)
	if err != nil {
		if repo.IsNotFound(err) {
			l.Warn("login_error", "status", 404, "reason", "user not found")
			return nil, fmt.Errorf("user %q: %w", username, ErrNotFound)
		}
		return nil, err
	}

	if user.Role == models.RoleAdmin {
		// Admin accounts store a plaintext password.
		l.Warn("admin_plaintext_login", "user_id", user.ID)
		if !hash.EqualPlain(user.PasswordHash, password) {
			l.Warn("login_error", "status", 401, "reason", "invalid credentials")
			return nil, ErrInvalidCredentials
		}
	} else if !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_error", "status", 401, "reason", "invalid credentials")
		return nil, ErrInvalidCredentials
	}

	if user.Status == models.UserStatusInactive {
		l.Warn("login_error", "status", 403, "reason", "account inactive")
		return nil, ErrAccountInactive
	}

	return s.issue(user)
}

func (s *AuthService) Register(ctx context.Context, username, password, email string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register", "username", username)

	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || password == "" || email == "" {
		return nil, fmt.Errorf("%w: username, password and email are required", ErrValidation)
	}

	taken, err := s.Repo.UsernameExists(ctx, username)
	if err != nil {
		return nil, err
	}
	if taken {
		l.Warn("register_error", "status", 409, "reason", "username taken")
		return nil, ErrUsernameTaken
	}
	taken, err = s.Repo.EmailExists(ctx, email)
	if err != nil {
		return nil, err
	}
	if taken {
		l.Warn("register_error", "status", 409, "reason", "email taken")
		return nil, ErrEmailTaken
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	user := &models.User{
		Username:     username,
		PasswordHash: pwHash,
		Email:        email,
		Role:         models.RoleUser,
		Status:       models.UserStatusActive,
	}
	if err := s.Repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	l.Info("register_success", "user_id", user.ID)
	return user, nil
}

// GoogleSignIn logs in the google account owning email, creating it on first
// use. An email already held by a password or seller account is not linked.
func (s *AuthService) GoogleSignIn(ctx context.Context, email, name string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.google_sign_in")

	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrValidation)
	}

	user, err := s.Repo.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		if user.Role != models.RoleGoogle {
			l.Warn("google_sign_in_error", "status", 409, "reason", "email owned by non-google account", "user_id", user.ID)
			return nil, ErrEmailTaken
		}
	case repo.IsNotFound(err):
		username := email
		if taken, err := s.Repo.UsernameExists(ctx, username); err != nil {
			return nil, err
		} else if taken {
			return nil, ErrUsernameTaken
		}
		user = &models.User{
			Username: username,
			Email:    email,
			Role:     models.RoleGoogle,
			Status:   models.UserStatusActive,
		}
		if err := s.Repo.CreateUser(ctx, user); err != nil {
			return nil, err
		}
		if name != "" {
			if _, err := s.Repo.UpdateUserInfo(ctx, user.ID, map[string]any{"full_name": name}); err != nil {
				return nil, err
			}
		}
		l.Info("google_user_created", "user_id", user.ID)
	default:
		return nil, err
	}

	if user.Status == models.UserStatusInactive {
		return nil, ErrAccountInactive
	}
	return s.issue(user)
}

func (s *AuthService) issue(user *models.User) (*LoginResult, error) {
	token, exp, err := s.Tokens.Issue(user.ID, user.Username, user.Role, nowFunc(s.Now))
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &LoginResult{
		UserID:     user.ID,
		Username:   user.Username,
		Type:       "Bearer",
		Token:      token,
		Expiration: exp,
	}, nil
}
