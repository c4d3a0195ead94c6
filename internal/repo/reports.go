package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/flower_shop/internal/models"
)

func (r *GormRepo) CreateReport(ctx context.Context, rep *models.Report) error {
	return r.DB.WithContext(ctx).Create(rep).Error
}

func (r *GormRepo) GetReport(ctx context.Context, id uint) (*models.Report, error) {
	var rep models.Report
	if err := r.DB.WithContext(ctx).First(&rep, id).Error; err != nil {
		return nil, err
	}
	return &rep, nil
}

func (r *GormRepo) ListReports(ctx context.Context, status string) ([]models.Report, error) {
	q := r.DB.WithContext(ctx).Model(&models.Report{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var reps []models.Report
	err := q.Order("id ASC").Find(&reps).Error
	return reps, err
}

// TransitionReport moves a report out of from; false means it was no longer in from.
func (r *GormRepo) TransitionReport(ctx context.Context, id uint, from, to string) (bool, error) {
	res := r.DB.WithContext(ctx).Model(&models.Report{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ResolveReport marks the report Resolved and takes penalty points from the
// reported seller's profile, never going below zero. Only Pending reports
// can be resolved, so the penalty applies once.
func (r *GormRepo) ResolveReport(ctx context.Context, id uint, penalty int) (*models.Report, *models.UserInfo, error) {
	var (
		rep  models.Report
		info models.UserInfo
	)
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&rep, id).Error; err != nil {
			return err
		}
		if rep.Status != models.StatusPending {
			return ErrReportClosed
		}

		var seller models.Seller
		if err := tx.First(&seller, rep.SellerID).Error; err != nil {
			if IsNotFound(err) {
				return ErrSellerProfileMissing
			}
			return err
		}
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", seller.UserID).First(&info).Error; err != nil {
			if IsNotFound(err) {
				return ErrSellerProfileMissing
			}
			return err
		}

		if err := tx.Model(&info).Update("points",
			gorm.Expr("CASE WHEN points >= ? THEN points - ? ELSE 0 END", penalty, penalty)).Error; err != nil {
			return err
		}
		if err := tx.Model(&rep).Update("status", models.StatusResolved).Error; err != nil {
			return err
		}

		if err := tx.First(&info, info.ID).Error; err != nil {
			return err
		}
		return tx.First(&rep, rep.ID).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return &rep, &info, nil
}
