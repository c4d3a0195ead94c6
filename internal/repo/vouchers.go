package repo

import (
	"context"

	"github.com/Skotchmaster/flower_shop/internal/models"
)

const voucherBatchSize = 200

func (r *GormRepo) EligibleVoucherUserIDs(ctx context.Context) ([]uint, error) {
	var ids []uint
	err := r.DB.WithContext(ctx).Model(&models.User{}).
		Where("status = ? AND role IN ?", models.UserStatusActive, []string{models.RoleUser, models.RoleGoogle}).
		Order("id ASC").
		Pluck("id", &ids).Error
	return ids, err
}

func (r *GormRepo) VoucherCodeExists(ctx context.Context, sellerID uint, code string) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.UserVoucherStatus{}).
		Where("seller_id = ? AND code = ?", sellerID, code).
		Count(&n).Error
	return n > 0, err
}

func (r *GormRepo) CreateVouchers(ctx context.Context, rows []models.UserVoucherStatus) error {
	if len(rows) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).CreateInBatches(&rows, voucherBatchSize).Error
}

func (r *GormRepo) ListVouchersByUser(ctx context.Context, userID uint) ([]models.UserVoucherStatus, error) {
	var rows []models.UserVoucherStatus
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Order("end_date ASC, id ASC").Find(&rows).Error
	return rows, err
}

func (r *GormRepo) DeleteVouchers(ctx context.Context, sellerID uint, code string) (int64, error) {
	res := r.DB.WithContext(ctx).Where("seller_id = ? AND code = ?", sellerID, code).Delete(&models.UserVoucherStatus{})
	return res.RowsAffected, res.Error
}
