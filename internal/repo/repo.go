package repo

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNoStock              = errors.New("not enough flowers in stock")
	ErrSellerExists         = errors.New("seller already registered")
	ErrSellerProfileMissing = errors.New("seller profile missing")
	ErrReportClosed         = errors.New("report is no longer pending")
	ErrCartChanged          = errors.New("cart changed during checkout")
)

type GormRepo struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *GormRepo {
	return &GormRepo{DB: db}
}

func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
