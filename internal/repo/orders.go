package repo

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/Skotchmaster/flower_shop/internal/models"
)

// CreateOrders inserts every order with its details and removes the
// converted cart rows, all or nothing. A cart row whose quantity no longer
// matches what was ordered aborts the transaction with ErrCartChanged.
func (r *GormRepo) CreateOrders(ctx context.Context, userID uint, orders []*models.Order, converted []CartLine) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, o := range orders {
			if err := tx.Create(o).Error; err != nil {
				return err
			}
		}
		for _, ln := range converted {
			res := tx.Where("user_id = ? AND flower_id = ? AND quantity = ?", userID, ln.FlowerID, ln.Quantity).
				Delete(&models.CartItem{})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected != 1 {
				return fmt.Errorf("%w: flower %d", ErrCartChanged, ln.FlowerID)
			}
		}
		return nil
	})
}

func (r *GormRepo) OrderByTransactionID(ctx context.Context, txnID string) (*models.Order, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).Where("transaction_id = ?", txnID).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// TransitionOrder moves an order out of from; false means another writer got there first.
func (r *GormRepo) TransitionOrder(ctx context.Context, id uint, from, to string) (bool, error) {
	res := r.DB.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *GormRepo) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).Preload("Details").First(&order, id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormRepo) ListOrdersByUser(ctx context.Context, userID uint) ([]models.Order, error) {
	var orders []models.Order
	err := r.DB.WithContext(ctx).Preload("Details").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&orders).Error
	return orders, err
}

func (r *GormRepo) ListOrdersBySeller(ctx context.Context, sellerID uint) ([]models.Order, error) {
	var orders []models.Order
	err := r.DB.WithContext(ctx).Preload("Details").
		Where("seller_id = ?", sellerID).
		Order("created_at DESC, id DESC").
		Find(&orders).Error
	return orders, err
}

func (r *GormRepo) GetOrderDetail(ctx context.Context, id uint) (*models.OrderDetail, error) {
	var d models.OrderDetail
	if err := r.DB.WithContext(ctx).First(&d, id).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *GormRepo) TransitionOrderDetail(ctx context.Context, id uint, from, to string) (bool, error) {
	res := r.DB.WithContext(ctx).Model(&models.OrderDetail{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
