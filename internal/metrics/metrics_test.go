package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareAndHandler(t *testing.T) {
	t.Parallel()

	m := New()
	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/api/flowers/:id", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/metrics", m.Handler())

	for i := 0; i < 3; i++ {
		e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/flowers/1", nil))
	}
	assert.Equal(t, 3.0, testutil.ToFloat64(m.RequestTotal.WithLabelValues(http.MethodGet, "/api/flowers/:id", "200")))

	m.OrdersCreated.Add(2)
	m.PaymentCallbacks.WithLabelValues("paid").Inc()

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "flower_shop_orders_created_total 2")
	assert.Contains(t, rec.Body.String(), `flower_shop_payment_callbacks_total{result="paid"} 1`)
}
