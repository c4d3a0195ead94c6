package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Skotchmaster/flower_shop/internal/logging"
	"github.com/Skotchmaster/flower_shop/internal/models"
	"github.com/Skotchmaster/flower_shop/internal/repo"
)

type SellerService struct {
	Repo *repo.GormRepo
}

// RegisterSeller opens a shop for the user. The new role shows up in tokens
// issued after this call.
func (s *SellerService) RegisterSeller(ctx context.Context, userID uint, shopName, address string) (*models.Seller, error) {
	l := logging.FromContext(ctx).With("svc", "seller.register", "user_id", userID)

	shopName = strings.TrimSpace(shopName)
	address = strings.TrimSpace(address)
	if shopName == "" || address == "" {
		return nil, fmt.Errorf("%w: shop name and address are required", ErrValidation)
	}

	seller := &models.Seller{UserID: userID, ShopName: shopName, Address: address, Role: models.RoleSeller}
	if err := s.Repo.CreateSeller(ctx, seller); err != nil {
		switch {
		case errors.Is(err, repo.ErrSellerExists):
			l.Warn("register_seller_error", "status", 409, "reason", "already a seller")
			return nil, fmt.Errorf("seller for user %d: %w", userID, ErrConflict)
		case repo.IsNotFound(err):
			return nil, fmt.Errorf("user %d: %w", userID, ErrNotFound)
		default:
			return nil, err
		}
	}

	l.Info("register_seller_success", "seller_id", seller.ID)
	return seller, nil
}

func (s *SellerService) GetSellerProfile(ctx context.Context, userID uint) (*models.Seller, error) {
	seller, err := s.Repo.SellerByUserID(ctx, userID)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, ErrSellerNotFound
		}
		return nil, err
	}
	return seller, nil
}
