package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/Skotchmaster/flower_shop/internal/events"
	"github.com/Skotchmaster/flower_shop/internal/logging"
	"github.com/Skotchmaster/flower_shop/internal/metrics"
	"github.com/Skotchmaster/flower_shop/internal/models"
	"github.com/Skotchmaster/flower_shop/internal/payment"
	"github.com/Skotchmaster/flower_shop/internal/payment/vnpay"
	"github.com/Skotchmaster/flower_shop/internal/repo"
)

type SignatureVerifier interface {
	Verify(query url.Values) error
}

// WebhookParser verifies an asynchronous gateway notification. A nil
// Outcome means the event is authentic but carries nothing to settle.
type WebhookParser interface {
	ParseEvent(payload []byte, sigHeader string) (*payment.Outcome, error)
}

type PaymentService struct {
	Repo     *repo.GormRepo
	Verifier SignatureVerifier
	Webhook  WebhookParser
	Events   events.Publisher
	Metrics  *metrics.Metrics
	Now      func() time.Time
}

type ReturnResult struct {
	OrderID       uint   `json:"orderId"`
	TransactionID string `json:"transactionId"`
	Status        string `json:"status"`
	ResponseCode  string `json:"responseCode"`
}

// HandleReturn verifies a signed gateway redirect and settles the order it
// refers to. Nothing is read or written before the signature checks out.
func (s *PaymentService) HandleReturn(ctx context.Context, query url.Values) (*ReturnResult, error) {
	l := logging.FromContext(ctx).With("svc", "payment.handle_return")

	if s.Verifier == nil {
		s.count("invalid_signature")
		return nil, ErrSignatureMismatch
	}
	if err := s.Verifier.Verify(query); err != nil {
		s.count("invalid_signature")
		l.Warn("payment_return_error", "status", 400, "reason", "signature mismatch")
		return nil, ErrSignatureMismatch
	}

	txnRef := query.Get(vnpay.ParamTxnRef)
	code := query.Get(vnpay.ParamResponseCode)
	res, err := s.settle(ctx, l, txnRef, code == vnpay.ResponseSuccess, code)
	if err != nil {
		return nil, err
	}
	l.Info("payment_return_success", "order_id", res.OrderID, "order_status", res.Status)
	return res, nil
}

// HandleStripeWebhook settles the order behind a signed Stripe payment
// intent event. Authentic events of other types return a nil result.
func (s *PaymentService) HandleStripeWebhook(ctx context.Context, payload []byte, sigHeader string) (*ReturnResult, error) {
	l := logging.FromContext(ctx).With("svc", "payment.stripe_webhook")

	if s.Webhook == nil {
		s.count("invalid_signature")
		return nil, ErrSignatureMismatch
	}
	out, err := s.Webhook.ParseEvent(payload, sigHeader)
	if err != nil {
		if errors.Is(err, payment.ErrBadSignature) {
			s.count("invalid_signature")
			l.Warn("stripe_webhook_error", "status", 400, "reason", "signature mismatch")
			return nil, ErrSignatureMismatch
		}
		l.Warn("stripe_webhook_error", "status", 400, "reason", "malformed event", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	if out == nil {
		s.count("ignored")
		return nil, nil
	}

	res, err := s.settle(ctx, l, out.TransactionID, out.Paid, out.Code)
	if err != nil {
		return nil, err
	}
	l.Info("stripe_webhook_success", "order_id", res.OrderID, "order_status", res.Status)
	return res, nil
}

// settle moves the pending order for txnRef to paid or failed exactly once.
// Orders already past pending are reported as they are.
func (s *PaymentService) settle(ctx context.Context, l *slog.Logger, txnRef string, paid bool, code string) (*ReturnResult, error) {
	if txnRef == "" {
		s.count("order_not_found")
		return nil, ErrOrderNotFound
	}

	order, err := s.Repo.OrderByTransactionID(ctx, txnRef)
	if err != nil {
		if repo.IsNotFound(err) {
			s.count("order_not_found")
			l.Warn("payment_settle_error", "status", 404, "reason", "order not found", "txn_ref", txnRef)
			return nil, fmt.Errorf("%w: txn %s", ErrOrderNotFound, txnRef)
		}
		return nil, err
	}

	res := &ReturnResult{OrderID: order.ID, TransactionID: txnRef, Status: order.Status, ResponseCode: code}
	if order.Status != models.OrderStatusPending {
		s.count("duplicate")
		l.Info("payment_settle_duplicate", "order_id", order.ID, "order_status", order.Status)
		return res, nil
	}

	to := models.OrderStatusFailed
	if paid {
		to = models.OrderStatusPaid
	}
	ok, err := s.Repo.TransitionOrder(ctx, order.ID, models.OrderStatusPending, to)
	if err != nil {
		return nil, err
	}
	if !ok {
		current, err := s.Repo.GetOrder(ctx, order.ID)
		if err != nil {
			return nil, err
		}
		s.count("duplicate")
		res.Status = current.Status
		return res, nil
	}
	res.Status = to

	s.count(to)
	publish(ctx, s.Events, events.TopicPayment, order.ID, events.PaymentResult{
		Type:          "payment_result",
		OrderID:       order.ID,
		TransactionID: txnRef,
		Status:        to,
		ResponseCode:  code,
		Timestamp:     nowFunc(s.Now),
	})
	return res, nil
}

func (s *PaymentService) count(result string) {
	if s.Metrics != nil {
		s.Metrics.PaymentCallbacks.WithLabelValues(result).Inc()
	}
}
