package stripepay

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/client"
	"github.com/stripe/stripe-go/v78/webhook"

	"github.com/Skotchmaster/flower_shop/internal/payment"
)

// Client creates Stripe payment intents. Amounts are in VND, which has no minor unit.
type Client struct {
	sc *client.API
}

func New(key string, backends *stripe.Backends) *Client {
	sc := &client.API{}
	sc.Init(key, backends)
	return &Client{sc: sc}
}

func (c *Client) Method() string { return "Stripe" }

func (c *Client) CreatePayment(ctx context.Context, req payment.Request) (*payment.Intent, error) {
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("stripe: amount must be positive, got %s", req.Amount)
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(req.Amount.Round(0).IntPart()),
		Currency: stripe.String(string(stripe.CurrencyVND)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	if req.Description != "" {
		params.Description = stripe.String(req.Description)
	}
	params.AddMetadata("phone", req.Phone)

	pi, err := c.sc.PaymentIntents.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe: create payment intent: %w", err)
	}
	return &payment.Intent{TransactionID: pi.ID}, nil
}

// CancelPayment voids an intent that never became an order.
func (c *Client) CancelPayment(ctx context.Context, transactionID string) error {
	params := &stripe.PaymentIntentCancelParams{}
	params.Context = ctx
	if _, err := c.sc.PaymentIntents.Cancel(transactionID, params); err != nil {
		return fmt.Errorf("stripe: cancel payment intent %s: %w", transactionID, err)
	}
	return nil
}

// WebhookVerifier checks the Stripe-Signature header of webhook deliveries.
type WebhookVerifier struct {
	Secret string
}

// ParseEvent verifies payload and maps payment intent settlement events to
// an Outcome. Other event types verify fine but yield a nil Outcome.
func (v WebhookVerifier) ParseEvent(payload []byte, sigHeader string) (*payment.Outcome, error) {
	ev, err := webhook.ConstructEvent(payload, sigHeader, v.Secret)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", payment.ErrBadSignature, err)
	}

	var paid bool
	switch ev.Type {
	case "payment_intent.succeeded":
		paid = true
	case "payment_intent.payment_failed":
	default:
		return nil, nil
	}

	if ev.Data == nil {
		return nil, fmt.Errorf("stripe: event %s has no data", ev.ID)
	}
	var pi stripe.PaymentIntent
	if err := json.Unmarshal(ev.Data.Raw, &pi); err != nil {
		return nil, fmt.Errorf("stripe: decode payment intent: %w", err)
	}
	if pi.ID == "" {
		return nil, fmt.Errorf("stripe: event %s has no payment intent id", ev.ID)
	}
	return &payment.Outcome{TransactionID: pi.ID, Paid: paid, Code: string(pi.Status)}, nil
}
