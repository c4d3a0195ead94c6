package shipping

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuoteNormalizesTotal(t *testing.T) {
	t.Parallel()

	var got feeRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "tok", r.Header.Get("Token"))
		assert.Equal(t, "42", r.Header.Get("ShopId"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"code":200,"message":"Success","data":{"total":36300,"service_fee":36300}}`))
	}))
	defer srv.Close()

	g := NewGHN(srv.URL, "tok", "42", time.Second)
	quote, err := g.Quote(context.Background(), "buyer street 1", "shop street 9")
	require.NoError(t, err)

	assert.Equal(t, "shop street 9", got.FromAddress)
	assert.Equal(t, "buyer street 1", got.ToAddress)

	fee, err := Fee(quote)
	require.NoError(t, err)
	assert.True(t, fee.Equal(decimal.NewFromInt(36300)))
}

func TestQuoteWithoutFee(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code":200,"message":"Success","data":{"service_fee":1}}`))
	}))
	defer srv.Close()

	quote, err := NewGHN(srv.URL, "", "", time.Second).Quote(context.Background(), "a", "b")
	require.NoError(t, err)
	_, err = Fee(quote)
	assert.ErrorIs(t, err, ErrMissingFee)
}

func TestQuoteUpstreamError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewGHN(srv.URL, "", "", time.Second).Quote(context.Background(), "a", "b")
	assert.Error(t, err)
}

func TestQuoteCanceled(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"total_fee":1}}`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewGHN(srv.URL, "", "", time.Second).Quote(ctx, "a", "b")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFeeTypes(t *testing.T) {
	t.Parallel()

	for _, v := range []any{json.Number("15000"), "15000", float64(15000), 15000} {
		fee, err := Fee(map[string]any{FeeKey: v})
		require.NoError(t, err)
		assert.True(t, fee.Equal(decimal.NewFromInt(15000)), "%T", v)
	}
}
