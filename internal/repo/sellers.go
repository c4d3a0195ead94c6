package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/flower_shop/internal/models"
)

func (r *GormRepo) GetSeller(ctx context.Context, id uint) (*models.Seller, error) {
	var s models.Seller
	if err := r.DB.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *GormRepo) SellerByUserID(ctx context.Context, userID uint) (*models.Seller, error) {
	var s models.Seller
	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// CreateSeller registers the shop and promotes its owner in one transaction.
func (r *GormRepo) CreateSeller(ctx context.Context, s *models.Seller) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Seller{}).Where("user_id = ?", s.UserID).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrSellerExists
		}

		if err := tx.Create(s).Error; err != nil {
			return err
		}

		res := tx.Model(&models.User{}).Where("id = ?", s.UserID).Update("role", models.RoleSeller)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return tx.Model(&models.UserInfo{}).Where("user_id = ?", s.UserID).Update("is_seller", true).Error
	})
}
