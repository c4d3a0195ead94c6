package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/flower_shop/internal/dbtest"
	"github.com/Skotchmaster/flower_shop/internal/hash"
	"github.com/Skotchmaster/flower_shop/internal/models"
	"github.com/Skotchmaster/flower_shop/internal/repo"
	"github.com/Skotchmaster/flower_shop/internal/tokens"
)

func newTestAuthService(t *testing.T) (*AuthService, *gorm.DB) {
	t.Helper()
	gdb := dbtest.New(t)
	return &AuthService{
		Repo: repo.New(gdb),
		Tokens: &tokens.Issuer{
			Secret:   []byte("test-jwt-secret"),
			Issuer:   "flower_shop",
			Audience: "flower_shop_clients",
			TTL:      time.Hour,
		},
	}, gdb
}

func TestRegisterAndAuthenticate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _ := newTestAuthService(t)

	user, err := svc.Register(ctx, "alice", "s3cret", "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.Equal(t, models.UserStatusActive, user.Status)
	assert.NotEqual(t, "s3cret", user.PasswordHash)

	info, err := svc.Repo.GetUserInfo(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultLoyaltyPoints, info.Points)

	res, err := svc.Authenticate(ctx, "alice", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, res.UserID)
	assert.Equal(t, "Bearer", res.Type)
	assert.WithinDuration(t, time.Now().Add(time.Hour), res.Expiration, 5*time.Second)

	claims, err := svc.Tokens.Parse(res.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "alice", claims.Name)
	assert.Equal(t, models.RoleUser, claims.Role)
}

func TestRegister_Conflicts(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, gdb := newTestAuthService(t)

	_, err := svc.Register(ctx, "alice", "pw", "alice@example.com")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "alice", "pw", "other@example.com")
	assert.ErrorIs(t, err, ErrUsernameTaken)
	assert.ErrorIs(t, err, ErrConflict)

	_, err = svc.Register(ctx, "bob", "pw", "alice@example.com")
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = svc.Register(ctx, "", "pw", "x@example.com")
	assert.ErrorIs(t, err, ErrValidation)

	assert.Equal(t, int64(1), countRows(t, gdb, &models.User{}))
	assert.Equal(t, int64(1), countRows(t, gdb, &models.UserInfo{}))
}

func TestAuthenticate_Failures(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, gdb := newTestAuthService(t)

	u, _ := dbtest.User(t, gdb, "carol", models.RoleUser)

	_, err := svc.Authenticate(ctx, "nobody", "password")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Authenticate(ctx, "carol", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = svc.Authenticate(ctx, "Carol", "password")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, svc.Repo.SetUserStatus(ctx, u.ID, models.UserStatusInactive))
	_, err = svc.Authenticate(ctx, "carol", "password")
	assert.ErrorIs(t, err, ErrAccountInactive)
}

func TestAuthenticate_AdminPlaintext(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, gdb := newTestAuthService(t)

	require.NoError(t, gdb.Create(&models.User{
		Username: "admin", PasswordHash: "plaintextpw", Email: "admin@example.com",
		Role: models.RoleAdmin, Status: models.UserStatusActive,
	}).Error)

	res, err := svc.Authenticate(ctx, "admin", "plaintextpw")
	require.NoError(t, err)
	claims, err := svc.Tokens.Parse(res.Token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, claims.Role)

	_, err = svc.Authenticate(ctx, "admin", "plaintextpw ")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// An admin whose stored value is a bcrypt hash never matches through bcrypt.
	hashed, err := hash.HashPassword("hashedpw")
	require.NoError(t, err)
	require.NoError(t, gdb.Create(&models.User{
		Username: "root", PasswordHash: hashed, Email: "root@example.com",
		Role: models.RoleAdmin, Status: models.UserStatusActive,
	}).Error)
	_, err = svc.Authenticate(ctx, "root", "hashedpw")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestGoogleSignIn(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, gdb := newTestAuthService(t)

	first, err := svc.GoogleSignIn(ctx, "dana@gmail.com", "Dana")
	require.NoError(t, err)

	var u models.User
	require.NoError(t, gdb.Where("email = ?", "dana@gmail.com").First(&u).Error)
	assert.Equal(t, models.RoleGoogle, u.Role)
	assert.Equal(t, u.ID, first.UserID)

	info, err := svc.Repo.GetUserInfo(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dana", info.FullName)

	second, err := svc.GoogleSignIn(ctx, "dana@gmail.com", "Dana")
	require.NoError(t, err)
	assert.Equal(t, first.UserID, second.UserID)
	assert.Equal(t, int64(1), countRows(t, gdb, &models.User{}))

	_, err = svc.GoogleSignIn(ctx, "", "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestGoogleSignIn_DoesNotTakeOverPasswordAccount(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, gdb := newTestAuthService(t)

	owner, err := svc.Register(ctx, "erin", "s3cret", "erin@gmail.com")
	require.NoError(t, err)

	_, err = svc.GoogleSignIn(ctx, "erin@gmail.com", "Mallory")
	require.ErrorIs(t, err, ErrEmailTaken)
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, int64(1), countRows(t, gdb, &models.User{}))

	info, err := svc.Repo.GetUserInfo(ctx, owner.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "Mallory", info.FullName)

	res, err := svc.Authenticate(ctx, "erin", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, owner.ID, res.UserID)
}
