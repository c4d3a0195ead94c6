package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	RoleUser   = "user"
	RoleSeller = "seller"
	RoleAdmin  = "admin"
	RoleGoogle = "google"

	UserStatusActive   = "active"
	UserStatusInactive = "inactive"

	DefaultLoyaltyPoints = 100
)

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"  json:"id"`
	Username     string    `gorm:"uniqueIndex;size:100;not null" json:"username"`
	PasswordHash string    `gorm:"not null"                  json:"-"`
	Email        string    `gorm:"uniqueIndex;size:255"      json:"email"`
	Role         string    `gorm:"size:16;not null"          json:"role"`
	Status       string    `gorm:"size:16;not null"          json:"status"`
	CreatedAt    time.Time `gorm:"autoCreateTime"            json:"created_at"`
}

type UserInfo struct {
	ID        uint       `gorm:"primaryKey;autoIncrement"  json:"id"`
	UserID    uint       `gorm:"uniqueIndex;not null"      json:"user_id"`
	FullName  string     `gorm:"size:255"                  json:"full_name"`
	Address   string     `gorm:"size:512"                  json:"address"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
	Sex       string     `gorm:"size:16"                   json:"sex"`
	Avatar    string     `gorm:"size:512"                  json:"avatar"`
	Points    int        `gorm:"not null;default:100"      json:"points"`
	IsSeller  bool       `gorm:"not null;default:false"    json:"is_seller"`
	Addresses []Address  `gorm:"foreignKey:UserInfoID"     json:"addresses,omitempty"`
}

type Address struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	UserInfoID  uint   `gorm:"index;not null"           json:"user_info_id"`
	Description string `gorm:"size:512;not null"        json:"description"`
}

type Category struct {
	ID   uint   `gorm:"primaryKey;autoIncrement"     json:"id"`
	Name string `gorm:"uniqueIndex;size:100;not null" json:"name"`
}

type FlowerInfo struct {
	ID                uint            `gorm:"primaryKey;autoIncrement"         json:"id"`
	Name              string          `gorm:"size:255;not null"                json:"name"`
	Description       string          `gorm:"type:text"                        json:"description"`
	Price             decimal.Decimal `gorm:"type:decimal(10,2);not null"      json:"price"`
	AvailableQuantity int             `gorm:"not null;check:available_quantity >= 0" json:"available_quantity"`
	CategoryID        uint            `gorm:"index"                            json:"category_id"`
	SellerID          uint            `gorm:"index;not null"                   json:"seller_id"`
	ImageURL          string          `gorm:"size:512"                         json:"image_url"`
	CreatedAt         time.Time       `gorm:"autoCreateTime"                   json:"created_at"`
}

type CartItem struct {
	ID       uint `gorm:"primaryKey;autoIncrement"                 json:"id"`
	UserID   uint `gorm:"uniqueIndex:idx_cart_user_flower;not null" json:"user_id"`
	FlowerID uint `gorm:"uniqueIndex:idx_cart_user_flower;not null" json:"flower_id"`
	Quantity int  `gorm:"not null;check:quantity > 0"              json:"quantity"`
}

func (UserInfo) TableName() string          { return "user_infos" }
func (Address) TableName() string           { return "addresses" }
func (FlowerInfo) TableName() string        { return "flowers" }
func (CartItem) TableName() string          { return "cart_items" }
func (UserVoucherStatus) TableName() string { return "user_vouchers" }

type Seller struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint      `gorm:"uniqueIndex;not null"     json:"user_id"`
	ShopName  string    `gorm:"size:255;not null"        json:"shop_name"`
	Address   string    `gorm:"size:512;not null"        json:"address"`
	Role      string    `gorm:"size:16;not null"         json:"role"`
	CreatedAt time.Time `gorm:"autoCreateTime"           json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"           json:"updated_at"`
}

const (
	OrderStatusPending = "pending"
	OrderStatusPaid    = "paid"
	OrderStatusFailed  = "failed"

	PaymentMethodVNPay = "VNPay"
	DeliveryMethodGHN  = "Giao Hang Nhanh"
)

type Order struct {
	ID             uint            `gorm:"primaryKey;autoIncrement"     json:"id"`
	UserID         uint            `gorm:"index;not null"               json:"user_id"`
	SellerID       uint            `gorm:"index;not null"               json:"seller_id"`
	AddressID      uint            `gorm:"not null"                     json:"address_id"`
	Phone          string          `gorm:"size:32;not null"             json:"phone"`
	PaymentMethod  string          `gorm:"size:32;not null"             json:"payment_method"`
	DeliveryMethod string          `gorm:"size:64;not null"             json:"delivery_method"`
	Status         string          `gorm:"size:16;not null"             json:"status"`
	TransactionID  string          `gorm:"size:64;index"                json:"transaction_id"`
	PaymentURL     string          `gorm:"type:text"                    json:"payment_url,omitempty"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null"  json:"subtotal"`
	ShippingFee    decimal.Decimal `gorm:"type:decimal(12,2);not null"  json:"shipping_fee"`
	CreatedAt      time.Time       `gorm:"not null"                     json:"created_at"`
	Details        []OrderDetail   `gorm:"foreignKey:OrderID"           json:"details,omitempty"`
}

const (
	StatusPending   = "Pending"
	StatusResolved  = "Resolved"
	StatusDismissed = "Dismissed"
)

type OrderDetail struct {
	ID             uint            `gorm:"primaryKey;autoIncrement"    json:"id"`
	OrderID        uint            `gorm:"index;not null"              json:"order_id"`
	FlowerID       uint            `gorm:"not null"                    json:"flower_id"`
	SellerID       uint            `gorm:"index;not null"              json:"seller_id"`
	Price          decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Amount         int             `gorm:"not null"                    json:"amount"`
	Status         string          `gorm:"size:16;not null"            json:"status"`
	DeliveryMethod string          `gorm:"size:64;not null"            json:"delivery_method"`
	CreatedAt      time.Time       `gorm:"not null"                    json:"created_at"`
}

type Report struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      uint      `gorm:"index;not null"           json:"user_id"`
	FlowerID    uint      `gorm:"index;not null"           json:"flower_id"`
	SellerID    uint      `gorm:"index;not null"           json:"seller_id"`
	Reason      string    `gorm:"size:255;not null"        json:"reason"`
	Description string    `gorm:"type:text"                json:"description"`
	Status      string    `gorm:"size:16;not null"         json:"status"`
	CreatedAt   time.Time `gorm:"autoCreateTime"           json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"           json:"updated_at"`
}

// UserVoucherStatus is one user's copy of a shop voucher.
type UserVoucherStatus struct {
	ID             uint            `gorm:"primaryKey;autoIncrement"                     json:"id"`
	UserID         uint            `gorm:"uniqueIndex:idx_voucher_user_shop_code;not null" json:"user_id"`
	SellerID       uint            `gorm:"uniqueIndex:idx_voucher_user_shop_code;not null" json:"seller_id"`
	Code           string          `gorm:"uniqueIndex:idx_voucher_user_shop_code;size:64;not null" json:"code"`
	Discount       decimal.Decimal `gorm:"type:decimal(5,2);not null"                   json:"discount"`
	StartDate      time.Time       `gorm:"not null"                                     json:"start_date"`
	EndDate        time.Time       `gorm:"not null"                                     json:"end_date"`
	UsageLimit     int             `gorm:"not null"                                     json:"usage_limit"`
	UsageCount     int             `gorm:"not null;default:0"                           json:"usage_count"`
	RemainingCount int             `gorm:"not null"                                     json:"remaining_count"`
}

// All lists every table for AutoMigrate.
func All() []any {
	return []any{
		&User{}, &UserInfo{}, &Address{}, &Category{}, &FlowerInfo{}, &CartItem{},
		&Seller{}, &Order{}, &OrderDetail{}, &Report{}, &UserVoucherStatus{},
	}
}
