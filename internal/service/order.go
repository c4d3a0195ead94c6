package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/flower_shop/internal/events"
	"github.com/Skotchmaster/flower_shop/internal/export"
	"github.com/Skotchmaster/flower_shop/internal/logging"
	"github.com/Skotchmaster/flower_shop/internal/metrics"
	"github.com/Skotchmaster/flower_shop/internal/middleware/auth"
	"github.com/Skotchmaster/flower_shop/internal/models"
	"github.com/Skotchmaster/flower_shop/internal/payment"
	"github.com/Skotchmaster/flower_shop/internal/repo"
	"github.com/Skotchmaster/flower_shop/internal/shipping"
)

type OrderService struct {
	Repo     *repo.GormRepo
	Shipping shipping.Quoter
	Payments payment.Gateway
	Events   events.Publisher
	Metrics  *metrics.Metrics
	Now      func() time.Time
}

// CreateOrder turns the caller's cart into one pending order per seller.
// Shipping and payment are requested for every seller before anything is
// written; any failure leaves the cart and the orders table untouched.
func (s *OrderService) CreateOrder(ctx context.Context, caller auth.Identity, phone, clientIP string) ([]models.Order, error) {
	if caller.UserID == 0 {
		return nil, ErrUnauthenticated
	}
	l := logging.FromContext(ctx).With("svc", "order.create", "user_id", caller.UserID)

	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, fmt.Errorf("%w: phone number is required", ErrValidation)
	}

	lines, err := s.Repo.CartLines(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	partitions := make(map[uint][]repo.CartLine)
	for _, ln := range lines {
		partitions[ln.SellerID] = append(partitions[ln.SellerID], ln)
	}
	sellerIDs := make([]uint, 0, len(partitions))
	for id := range partitions {
		sellerIDs = append(sellerIDs, id)
	}
	sort.Slice(sellerIDs, func(i, j int) bool { return sellerIDs[i] < sellerIDs[j] })

	now := nowFunc(s.Now).UTC()
	staged := make([]*models.Order, 0, len(sellerIDs))
	intents := make([]string, 0, len(sellerIDs))
	abort := func(err error) ([]models.Order, error) {
		s.cancelIntents(ctx, intents)
		return nil, err
	}

	for _, sellerID := range sellerIDs {
		part := partitions[sellerID]

		seller, err := s.Repo.GetSeller(ctx, sellerID)
		if err != nil {
			if repo.IsNotFound(err) {
				l.Warn("create_order_error", "status", 404, "reason", "seller not found", "seller_id", sellerID)
				return abort(fmt.Errorf("%w: id %d", ErrSellerNotFound, sellerID))
			}
			return abort(err)
		}

		addr, err := s.Repo.PrimaryAddress(ctx, caller.UserID)
		if err != nil {
			if repo.IsNotFound(err) {
				return abort(ErrNoAddress)
			}
			return abort(err)
		}

		subtotal := decimal.Zero
		details := make([]models.OrderDetail, 0, len(part))
		for _, ln := range part {
			subtotal = subtotal.Add(ln.Price.Mul(decimal.NewFromInt(int64(ln.Quantity))))
			details = append(details, models.OrderDetail{
				FlowerID:       ln.FlowerID,
				SellerID:       sellerID,
				Price:          ln.Price,
				Amount:         ln.Quantity,
				Status:         models.StatusPending,
				DeliveryMethod: models.DeliveryMethodGHN,
				CreatedAt:      now,
			})
		}

		quote, err := s.Shipping.Quote(ctx, addr.Description, seller.Address)
		if err != nil {
			l.Error("create_order_error", "status", 502, "reason", "shipping quote failed", "seller_id", sellerID, "error", err)
			return abort(fmt.Errorf("%w: %w", ErrShippingQuoteFailed, err))
		}
		fee, err := shipping.Fee(quote)
		if err != nil {
			l.Error("create_order_error", "status", 502, "reason", "shipping quote invalid", "seller_id", sellerID, "error", err)
			return abort(ErrShippingQuoteInvalid)
		}

		intent, err := s.Payments.CreatePayment(ctx, payment.Request{
			Amount:      subtotal,
			Phone:       phone,
			ClientIP:    clientIP,
			Description: fmt.Sprintf("Flower shop order, seller %d", sellerID),
		})
		if err != nil {
			l.Error("create_order_error", "status", 502, "reason", "payment failed", "seller_id", sellerID, "error", err)
			return abort(fmt.Errorf("%w: %w", ErrPaymentFailed, err))
		}
		intents = append(intents, intent.TransactionID)

		staged = append(staged, &models.Order{
			UserID:         caller.UserID,
			SellerID:       sellerID,
			AddressID:      addr.ID,
			Phone:          phone,
			PaymentMethod:  s.Payments.Method(),
			DeliveryMethod: models.DeliveryMethodGHN,
			Status:         models.OrderStatusPending,
			TransactionID:  intent.TransactionID,
			PaymentURL:     intent.PaymentURL,
			Subtotal:       subtotal,
			ShippingFee:    fee,
			CreatedAt:      now,
			Details:        details,
		})
	}

	if err := ctx.Err(); err != nil {
		return abort(err)
	}
	if err := s.Repo.CreateOrders(ctx, caller.UserID, staged, lines); err != nil {
		if errors.Is(err, repo.ErrCartChanged) {
			l.Warn("create_order_error", "status", 409, "reason", "cart changed", "error", err)
			return abort(ErrCartChanged)
		}
		return abort(err)
	}

	out := make([]models.Order, len(staged))
	for i, o := range staged {
		out[i] = *o
		publish(ctx, s.Events, events.TopicOrder, o.ID, events.OrderCreated{
			Type:          "order_created",
			OrderID:       o.ID,
			UserID:        o.UserID,
			SellerID:      o.SellerID,
			TransactionID: o.TransactionID,
			Subtotal:      o.Subtotal,
			ShippingFee:   o.ShippingFee,
			Timestamp:     now,
		})
	}
	if s.Metrics != nil {
		s.Metrics.OrdersCreated.Add(float64(len(out)))
	}

	l.Info("create_order_success", "orders", len(out))
	return out, nil
}

// cancelIntents voids intents created for a checkout that was not persisted.
// Gateways without a cancel call let unpaid intents expire on their own.
func (s *OrderService) cancelIntents(ctx context.Context, txns []string) {
	c, ok := s.Payments.(payment.Canceler)
	if !ok || len(txns) == 0 {
		return
	}
	l := logging.FromContext(ctx)
	ctx = context.WithoutCancel(ctx)
	for _, txn := range txns {
		if err := c.CancelPayment(ctx, txn); err != nil {
			l.Error("cancel_payment_error", "transaction_id", txn, "error", err)
		}
	}
}

func (s *OrderService) ListOrders(ctx context.Context, userID uint) ([]models.Order, error) {
	return s.Repo.ListOrdersByUser(ctx, userID)
}

func (s *OrderService) ListSellerOrders(ctx context.Context, sellerUserID uint) ([]models.Order, error) {
	seller, err := s.sellerOf(ctx, sellerUserID)
	if err != nil {
		return nil, err
	}
	return s.Repo.ListOrdersBySeller(ctx, seller.ID)
}

// UpdateDetailStatus moves one of the seller's order lines out of Pending.
// Setting the status a line already has is a no-op.
func (s *OrderService) UpdateDetailStatus(ctx context.Context, sellerUserID, detailID uint, status string) (*models.OrderDetail, error) {
	if status != models.StatusResolved && status != models.StatusDismissed {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	seller, err := s.sellerOf(ctx, sellerUserID)
	if err != nil {
		return nil, err
	}

	d, err := s.Repo.GetOrderDetail(ctx, detailID)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, fmt.Errorf("order detail %d: %w", detailID, ErrNotFound)
		}
		return nil, err
	}
	if d.SellerID != seller.ID {
		return nil, fmt.Errorf("%w: order detail %d belongs to another shop", ErrForbidden, detailID)
	}
	if d.Status == status {
		return d, nil
	}
	if d.Status != models.StatusPending {
		return nil, fmt.Errorf("%w: detail is already %s", ErrInvalidStatus, d.Status)
	}

	ok, err := s.Repo.TransitionOrderDetail(ctx, detailID, models.StatusPending, status)
	if err != nil {
		return nil, err
	}
	d, err = s.Repo.GetOrderDetail(ctx, detailID)
	if err != nil {
		return nil, err
	}
	if !ok && d.Status != status {
		return nil, fmt.Errorf("%w: detail is already %s", ErrInvalidStatus, d.Status)
	}
	return d, nil
}

func (s *OrderService) ExportSellerOrders(ctx context.Context, sellerUserID uint, w io.Writer) error {
	orders, err := s.ListSellerOrders(ctx, sellerUserID)
	if err != nil {
		return err
	}
	return export.WriteSellerOrders(w, orders)
}

func (s *OrderService) sellerOf(ctx context.Context, userID uint) (*models.Seller, error) {
	seller, err := s.Repo.SellerByUserID(ctx, userID)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, ErrSellerNotFound
		}
		return nil, err
	}
	return seller, nil
}
