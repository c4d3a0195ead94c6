package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/flower_shop/internal/models"
)

func (r *GormRepo) GetFlower(ctx context.Context, id uint) (*models.FlowerInfo, error) {
	var flower models.FlowerInfo
	if err := r.DB.WithContext(ctx).First(&flower, id).Error; err != nil {
		return nil, err
	}
	return &flower, nil
}

func (r *GormRepo) ListFlowers(ctx context.Context, categoryID uint, offset, limit int) (int64, []models.FlowerInfo, error) {
	q := r.DB.WithContext(ctx).Model(&models.FlowerInfo{})
	if categoryID != 0 {
		q = q.Where("category_id = ?", categoryID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var items []models.FlowerInfo
	if err := q.Order("id ASC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *GormRepo) CreateFlower(ctx context.Context, f *models.FlowerInfo) error {
	return r.DB.WithContext(ctx).Create(f).Error
}

func (r *GormRepo) SaveFlower(ctx context.Context, f *models.FlowerInfo) error {
	return r.DB.WithContext(ctx).Save(f).Error
}

// DeleteFlower removes the flower together with every cart row reserving it.
func (r *GormRepo) DeleteFlower(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.FlowerInfo{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("flower_id = ?", id).Delete(&models.CartItem{}).Error
	})
}

func (r *GormRepo) SearchFlowers(ctx context.Context, q string, offset, limit int) (int64, []models.FlowerInfo, error) {
	like := "%" + q + "%"
	query := r.DB.WithContext(ctx).Model(&models.FlowerInfo{}).
		Where("LOWER(name) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?)", like, like)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var items []models.FlowerInfo
	if err := query.Order("id ASC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *GormRepo) FlowersByIDs(ctx context.Context, ids []uint) ([]models.FlowerInfo, error) {
	var items []models.FlowerInfo
	if len(ids) == 0 {
		return items, nil
	}
	err := r.DB.WithContext(ctx).Where("id IN ?", ids).Order("id ASC").Find(&items).Error
	return items, err
}

func (r *GormRepo) ListCategories(ctx context.Context) ([]models.Category, error) {
	var cats []models.Category
	err := r.DB.WithContext(ctx).Order("name ASC").Find(&cats).Error
	return cats, err
}

func (r *GormRepo) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	var cat models.Category
	if err := r.DB.WithContext(ctx).First(&cat, id).Error; err != nil {
		return nil, err
	}
	return &cat, nil
}

func (r *GormRepo) CreateCategory(ctx context.Context, c *models.Category) error {
	return r.DB.WithContext(ctx).Create(c).Error
}

func (r *GormRepo) CategoryExists(ctx context.Context, name string) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Category{}).Where("name = ?", name).Count(&n).Error
	return n > 0, err
}
