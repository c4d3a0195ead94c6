package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/flower_shop/internal/events"
	"github.com/Skotchmaster/flower_shop/internal/logging"
	"github.com/Skotchmaster/flower_shop/internal/metrics"
	"github.com/Skotchmaster/flower_shop/internal/models"
	"github.com/Skotchmaster/flower_shop/internal/repo"
)

type CartService struct {
	Repo    *repo.GormRepo
	Events  events.Publisher
	Metrics *metrics.Metrics
	Now     func() time.Time
}

type CartSummary struct {
	Items         []repo.CartLine `json:"items"`
	TotalQuantity int             `json:"totalQuantity"`
	TotalPrice    decimal.Decimal `json:"totalPrice"`
}

func (s *CartService) AddToCart(ctx context.Context, userID, flowerID uint, quantity int) (*models.CartItem, error) {
	l := logging.FromContext(ctx).With("svc", "cart.add", "user_id", userID, "flower_id", flowerID)

	if quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be >= 1", ErrValidation)
	}

	item, err := s.Repo.AddToCart(ctx, userID, flowerID, quantity)
	if err != nil {
		switch {
		case repo.IsNotFound(err):
			s.count("add", "not_found")
			return nil, fmt.Errorf("flower %d: %w", flowerID, ErrNotFound)
		case errors.Is(err, repo.ErrNoStock):
			s.count("add", "insufficient_stock")
			l.Warn("add_to_cart_error", "status", 409, "reason", "insufficient stock", "quantity", quantity)
			return nil, ErrInsufficientStock
		default:
			return nil, err
		}
	}
	s.count("add", "ok")

	publish(ctx, s.Events, events.TopicCart, userID, events.CartEvent{
		Type: "add_cart_item", UserID: userID, FlowerID: flowerID, Quantity: item.Quantity, Timestamp: nowFunc(s.Now),
	})
	return item, nil
}

func (s *CartService) RemoveFromCart(ctx context.Context, userID, flowerID uint) (*models.CartItem, error) {
	item, err := s.Repo.RemoveFromCart(ctx, userID, flowerID)
	if err != nil {
		if repo.IsNotFound(err) {
			s.count("remove", "not_found")
			return nil, fmt.Errorf("cart item for flower %d: %w", flowerID, ErrNotFound)
		}
		return nil, err
	}
	s.count("remove", "ok")

	publish(ctx, s.Events, events.TopicCart, userID, events.CartEvent{
		Type: "remove_cart_item", UserID: userID, FlowerID: flowerID, Quantity: item.Quantity, Timestamp: nowFunc(s.Now),
	})
	return item, nil
}

func (s *CartService) GetCart(ctx context.Context, userID uint) (*CartSummary, error) {
	lines, err := s.Repo.CartLines(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}
	return summarize(lines), nil
}

func summarize(lines []repo.CartLine) *CartSummary {
	sum := &CartSummary{Items: lines, TotalPrice: decimal.Zero}
	for _, ln := range lines {
		sum.TotalQuantity += ln.Quantity
		sum.TotalPrice = sum.TotalPrice.Add(ln.Price.Mul(decimal.NewFromInt(int64(ln.Quantity))))
	}
	return sum
}

func (s *CartService) count(op, result string) {
	if s.Metrics != nil {
		s.Metrics.CartReservations.WithLabelValues(op, result).Inc()
	}
}
