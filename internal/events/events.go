package events

import (
	"time"

	"github.com/shopspring/decimal"
)

type CartEvent struct {
	Type      string    `json:"type"`
	UserID    uint      `json:"userID"`
	FlowerID  uint      `json:"flowerID"`
	Quantity  int       `json:"quantity"`
	Timestamp time.Time `json:"timestamp"`
}

type OrderCreated struct {
	Type          string          `json:"type"`
	OrderID       uint            `json:"orderID"`
	UserID        uint            `json:"userID"`
	SellerID      uint            `json:"sellerID"`
	TransactionID string          `json:"transactionID"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	ShippingFee   decimal.Decimal `json:"shippingFee"`
	Timestamp     time.Time       `json:"timestamp"`
}

type PaymentResult struct {
	Type          string    `json:"type"`
	OrderID       uint      `json:"orderID"`
	TransactionID string    `json:"transactionID"`
	Status        string    `json:"status"`
	ResponseCode  string    `json:"responseCode"`
	Timestamp     time.Time `json:"timestamp"`
}

type ReportEvent struct {
	Type      string    `json:"type"`
	ReportID  uint      `json:"reportID"`
	SellerID  uint      `json:"sellerID"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type FlowerEvent struct {
	Type      string    `json:"type"`
	FlowerID  uint      `json:"flowerID"`
	SellerID  uint      `json:"sellerID"`
	Name      string    `json:"name"`
	Timestamp time.Time `json:"timestamp"`
}
