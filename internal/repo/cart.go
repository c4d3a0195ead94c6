package repo

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/flower_shop/internal/models"
)

// CartLine is a cart row joined with its flower.
type CartLine struct {
	FlowerID uint            `json:"flower_id"`
	Name     string          `json:"name"`
	ImageURL string          `json:"image_url"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	SellerID uint            `json:"seller_id"`
}

// AddToCart reserves quantity flowers and merges them into the user's cart
// row. The stock decrement only succeeds while enough flowers remain.
func (r *GormRepo) AddToCart(ctx context.Context, userID, flowerID uint, quantity int) (*models.CartItem, error) {
	var item models.CartItem
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var flower models.FlowerInfo
		if err := tx.Select("id").First(&flower, flowerID).Error; err != nil {
			return err
		}

		res := tx.Model(&models.FlowerInfo{}).
			Where("id = ? AND available_quantity >= ?", flowerID, quantity).
			Update("available_quantity", gorm.Expr("available_quantity - ?", quantity))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNoStock
		}

		res = tx.Model(&models.CartItem{}).
			Where("user_id = ? AND flower_id = ?", userID, flowerID).
			Update("quantity", gorm.Expr("quantity + ?", quantity))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return tx.Where("user_id = ? AND flower_id = ?", userID, flowerID).First(&item).Error
		}

		item = models.CartItem{UserID: userID, FlowerID: flowerID, Quantity: quantity}
		return tx.Create(&item).Error
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// RemoveFromCart deletes the line and gives its quantity back to stock.
func (r *GormRepo) RemoveFromCart(ctx context.Context, userID, flowerID uint) (*models.CartItem, error) {
	var item models.CartItem
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND flower_id = ?", userID, flowerID).
			First(&item).Error; err != nil {
			return err
		}

		res := tx.Delete(&item)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return tx.Model(&models.FlowerInfo{}).
			Where("id = ?", flowerID).
			Update("available_quantity", gorm.Expr("available_quantity + ?", item.Quantity)).Error
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormRepo) CartLines(ctx context.Context, userID uint) ([]CartLine, error) {
	var lines []CartLine
	err := r.DB.WithContext(ctx).
		Table("cart_items").
		Select("cart_items.flower_id, flowers.name, flowers.image_url, flowers.price, cart_items.quantity, flowers.seller_id").
		Joins("JOIN flowers ON flowers.id = cart_items.flower_id").
		Where("cart_items.user_id = ?", userID).
		Order("cart_items.id ASC").
		Scan(&lines).Error
	return lines, err
}

func (r *GormRepo) StockOf(ctx context.Context, flowerID uint) (int, error) {
	var flower models.FlowerInfo
	if err := r.DB.WithContext(ctx).Select("id", "available_quantity").First(&flower, flowerID).Error; err != nil {
		return 0, err
	}
	return flower.AvailableQuantity, nil
}
