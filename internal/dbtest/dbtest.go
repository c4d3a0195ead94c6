// Package dbtest opens throwaway in-memory databases for tests.
package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/flower_shop/internal/db"
	"github.com/Skotchmaster/flower_shop/internal/hash"
	"github.com/Skotchmaster/flower_shop/internal/models"
)

var seq atomic.Int64

func New(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, seq.Add(1))

	gdb, err := db.Open(context.Background(), "sqlite", dsn)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(context.Background(), gdb))

	t.Cleanup(func() { _ = db.Close(gdb) })
	return gdb
}

// User inserts an active user with its profile and one address.
func User(t *testing.T, gdb *gorm.DB, username, role string) (*models.User, *models.UserInfo) {
	t.Helper()

	pw, err := hash.HashPassword("password")
	require.NoError(t, err)

	u := &models.User{
		Username:     username,
		PasswordHash: pw,
		Email:        username + "@example.com",
		Role:         role,
		Status:       models.UserStatusActive,
	}
	require.NoError(t, gdb.Create(u).Error)

	info := &models.UserInfo{UserID: u.ID, FullName: username, Points: models.DefaultLoyaltyPoints}
	require.NoError(t, gdb.Create(info).Error)
	require.NoError(t, gdb.Create(&models.Address{UserInfoID: info.ID, Description: username + " street 1"}).Error)
	return u, info
}

// Seller inserts a seller user and its shop.
func Seller(t *testing.T, gdb *gorm.DB, username, shopAddress string) (*models.User, *models.Seller) {
	t.Helper()

	u, info := User(t, gdb, username, models.RoleSeller)
	require.NoError(t, gdb.Model(info).Update("is_seller", true).Error)

	s := &models.Seller{UserID: u.ID, ShopName: username + " shop", Address: shopAddress, Role: models.RoleSeller}
	require.NoError(t, gdb.Create(s).Error)
	return u, s
}

func Flower(t *testing.T, gdb *gorm.DB, sellerID uint, name, price string, stock int) *models.FlowerInfo {
	t.Helper()

	f := &models.FlowerInfo{
		Name:              name,
		Description:       name + " bouquet",
		Price:             decimal.RequireFromString(price),
		AvailableQuantity: stock,
		SellerID:          sellerID,
	}
	require.NoError(t, gdb.Create(f).Error)
	return f
}
