package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/flower_shop/internal/dbtest"
	"github.com/Skotchmaster/flower_shop/internal/models"
	"github.com/Skotchmaster/flower_shop/internal/repo"
)

func TestUserService_Profile(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	gdb := dbtest.New(t)
	up := &fakeUploader{}
	svc := &UserService{Repo: repo.New(gdb), Images: up}

	u, _ := dbtest.User(t, gdb, "erin", models.RoleUser)

	name := "Erin Tran"
	sex := "female"
	info, err := svc.UpdateProfile(ctx, u.ID, ProfileInput{FullName: &name, Sex: &sex})
	require.NoError(t, err)
	assert.Equal(t, "Erin Tran", info.FullName)
	assert.Equal(t, "female", info.Sex)
	assert.Equal(t, models.DefaultLoyaltyPoints, info.Points)

	info, err = svc.UploadAvatar(ctx, u.ID, Image{Filename: "me.jpg", ContentType: "image/jpeg", Body: strings.NewReader("jpg")})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example/avatars/me.jpg", info.Avatar)

	_, err = svc.AddAddress(ctx, u.ID, "12 Le Loi, Hue")
	require.NoError(t, err)
	_, err = svc.AddAddress(ctx, u.ID, "")
	assert.ErrorIs(t, err, ErrValidation)

	addrs, err := svc.ListAddresses(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, addrs, 2)
	assert.Equal(t, "erin street 1", addrs[0].Description)

	profile, err := svc.GetProfile(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, profile.Addresses, 2)

	_, err = svc.GetProfile(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserService_Admin(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	gdb := dbtest.New(t)
	svc := &UserService{Repo: repo.New(gdb)}

	u, _ := dbtest.User(t, gdb, "frank", models.RoleUser)
	dbtest.User(t, gdb, "grace", models.RoleUser)

	page, err := svc.ListUsers(ctx, 1, 1)
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, int64(2), page.Meta.Total)

	require.NoError(t, svc.SetUserStatus(ctx, u.ID, models.UserStatusInactive))
	stored, err := svc.Repo.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, models.UserStatusInactive, stored.Status)

	assert.ErrorIs(t, svc.SetUserStatus(ctx, u.ID, "banned"), ErrInvalidStatus)
	assert.ErrorIs(t, svc.SetUserStatus(ctx, 9999, models.UserStatusActive), ErrNotFound)
}

func TestSellerService(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	gdb := dbtest.New(t)
	svc := &SellerService{Repo: repo.New(gdb)}

	u, _ := dbtest.User(t, gdb, "hana", models.RoleUser)

	_, err := svc.GetSellerProfile(ctx, u.ID)
	assert.ErrorIs(t, err, ErrSellerNotFound)

	_, err = svc.RegisterSeller(ctx, u.ID, "", "Hue")
	assert.ErrorIs(t, err, ErrValidation)

	s, err := svc.RegisterSeller(ctx, u.ID, "Hana Flowers", "3 Tran Hung Dao, Hue")
	require.NoError(t, err)
	assert.Equal(t, u.ID, s.UserID)

	_, err = svc.RegisterSeller(ctx, u.ID, "Again", "Hue")
	assert.ErrorIs(t, err, ErrConflict)

	got, err := svc.GetSellerProfile(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hana Flowers", got.ShopName)

	_, err = svc.RegisterSeller(ctx, 9999, "Ghost", "Nowhere")
	assert.ErrorIs(t, err, ErrNotFound)
}
