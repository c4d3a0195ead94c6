package stripepay

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/webhook"

	"github.com/Skotchmaster/flower_shop/internal/payment"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		URL:               stripe.String(srv.URL),
		LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelNull},
		MaxNetworkRetries: stripe.Int64(0),
	})
	return New("sk_test_123", &stripe.Backends{API: backend, Connect: backend, Uploads: backend})
}

func TestCreatePayment(t *testing.T) {
	t.Parallel()

	var form map[string][]string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		form = r.PostForm
		assert.Equal(t, "/v1/payment_intents", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "pi_123", "object": "payment_intent"})
	})

	intent, err := c.CreatePayment(context.Background(), payment.Request{
		Amount: decimal.RequireFromString("250000"),
		Phone:  "0911",
	})
	require.NoError(t, err)
	assert.Equal(t, "pi_123", intent.TransactionID)
	assert.Equal(t, []string{"250000"}, form["amount"])
	assert.Equal(t, []string{"vnd"}, form["currency"])
	assert.Equal(t, []string{"0911"}, form["metadata[phone]"])
}

func TestCreatePayment_UpstreamError(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = w.Write([]byte(`{"error":{"type":"card_error","message":"declined"}}`))
	})

	_, err := c.CreatePayment(context.Background(), payment.Request{Amount: decimal.NewFromInt(1)})
	require.Error(t, err)
}

func TestCancelPayment(t *testing.T) {
	t.Parallel()

	var path string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "pi_1", "object": "payment_intent", "status": "canceled"})
	})

	require.NoError(t, c.CancelPayment(context.Background(), "pi_1"))
	assert.Equal(t, "/v1/payment_intents/pi_1/cancel", path)
}

const testWebhookSecret = "whsec_test_flowershop"

func signedEvent(t *testing.T, secret, eventType, intentID string) ([]byte, string) {
	t.Helper()

	status := "requires_payment_method"
	if eventType == "payment_intent.succeeded" {
		status = "succeeded"
	}
	payload := []byte(fmt.Sprintf(`{
		"id": "evt_1",
		"object": "event",
		"api_version": %q,
		"type": %q,
		"data": {"object": {"id": %q, "object": "payment_intent", "status": %q}}
	}`, stripe.APIVersion, eventType, intentID, status))
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{Payload: payload, Secret: secret})
	return payload, signed.Header
}

func TestWebhookVerifier_ParseEvent(t *testing.T) {
	t.Parallel()

	v := WebhookVerifier{Secret: testWebhookSecret}

	tests := []struct {
		name      string
		eventType string
		want      *payment.Outcome
	}{
		{"succeeded", "payment_intent.succeeded", &payment.Outcome{TransactionID: "pi_9", Paid: true, Code: "succeeded"}},
		{"failed", "payment_intent.payment_failed", &payment.Outcome{TransactionID: "pi_9", Paid: false, Code: "requires_payment_method"}},
		{"ignored type", "charge.refunded", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			payload, header := signedEvent(t, testWebhookSecret, tt.eventType, "pi_9")
			got, err := v.ParseEvent(payload, header)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWebhookVerifier_RejectsForeignSignature(t *testing.T) {
	t.Parallel()

	payload, header := signedEvent(t, "whsec_someone_else", "payment_intent.succeeded", "pi_9")
	_, err := WebhookVerifier{Secret: testWebhookSecret}.ParseEvent(payload, header)
	require.ErrorIs(t, err, payment.ErrBadSignature)

	_, err = WebhookVerifier{Secret: testWebhookSecret}.ParseEvent(payload, "")
	require.ErrorIs(t, err, payment.ErrBadSignature)
}
