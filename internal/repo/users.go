package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/flower_shop/internal/models"
)

func (r *GormRepo) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.User{}).Where("username = ?", username).Count(&n).Error
	return n > 0, err
}

func (r *GormRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&n).Error
	return n > 0, err
}

// CreateUser inserts the user together with its profile row.
func (r *GormRepo) CreateUser(ctx context.Context, u *models.User) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(u).Error; err != nil {
			return err
		}
		info := models.UserInfo{UserID: u.ID, Points: models.DefaultLoyaltyPoints}
		return tx.Create(&info).Error
	})
}

func (r *GormRepo) ListUsers(ctx context.Context, offset, limit int) (int64, []models.User, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.User{}).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var users []models.User
	if err := r.DB.WithContext(ctx).Order("id ASC").Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		return 0, nil, err
	}
	return total, users, nil
}

func (r *GormRepo) SetUserStatus(ctx context.Context, id uint, status string) error {
	res := r.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) GetUserInfo(ctx context.Context, userID uint) (*models.UserInfo, error) {
	var info models.UserInfo
	err := r.DB.WithContext(ctx).
		Preload("Addresses", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Where("user_id = ?", userID).
		First(&info).Error
	if err != nil {
		return nil, err
	}
	return &info, nil
}

func (r *GormRepo) UpdateUserInfo(ctx context.Context, userID uint, fields map[string]any) (*models.UserInfo, error) {
	res := r.DB.WithContext(ctx).Model(&models.UserInfo{}).Where("user_id = ?", userID).Updates(fields)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := r.GetUserInfo(ctx, userID); err != nil {
			return nil, err
		}
	}
	return r.GetUserInfo(ctx, userID)
}

func (r *GormRepo) AddAddress(ctx context.Context, userID uint, description string) (*models.Address, error) {
	var info models.UserInfo
	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&info).Error; err != nil {
		return nil, err
	}
	addr := models.Address{UserInfoID: info.ID, Description: description}
	if err := r.DB.WithContext(ctx).Create(&addr).Error; err != nil {
		return nil, err
	}
	return &addr, nil
}

func (r *GormRepo) ListAddresses(ctx context.Context, userID uint) ([]models.Address, error) {
	var addrs []models.Address
	err := r.DB.WithContext(ctx).
		Joins("JOIN user_infos ON user_infos.id = addresses.user_info_id").
		Where("user_infos.user_id = ?", userID).
		Order("addresses.id ASC").
		Find(&addrs).Error
	return addrs, err
}

// PrimaryAddress is the buyer's oldest address.
func (r *GormRepo) PrimaryAddress(ctx context.Context, userID uint) (*models.Address, error) {
	var addr models.Address
	err := r.DB.WithContext(ctx).
		Joins("JOIN user_infos ON user_infos.id = addresses.user_info_id").
		Where("user_infos.user_id = ?", userID).
		Order("addresses.id ASC").
		First(&addr).Error
	if err != nil {
		return nil, err
	}
	return &addr, nil
}
