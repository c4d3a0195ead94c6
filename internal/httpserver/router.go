package httpserver

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/flower_shop/internal/logging"
	"github.com/Skotchmaster/flower_shop/internal/metrics"
	"github.com/Skotchmaster/flower_shop/internal/middleware/auth"
	loggingmw "github.com/Skotchmaster/flower_shop/internal/middleware/logging"
	"github.com/Skotchmaster/flower_shop/internal/models"
	"github.com/Skotchmaster/flower_shop/internal/tokens"
)

type Deps struct {
	Tokens  *tokens.Issuer
	Metrics *metrics.Metrics
	// Ready reports whether the process can serve traffic; nil means always.
	Ready func(ctx context.Context) error

	Auth    *AuthHTTP
	Catalog *CatalogHTTP
	Cart    *CartHTTP
	Order   *OrderHTTP
	Payment *PaymentHTTP
	Report  *ReportHTTP
	Voucher *VoucherHTTP
	Seller  *SellerHTTP
	User    *UserHTTP
}

// NewEcho builds the server with the shared middleware chain.
func NewEcho(base *slog.Logger, m *metrics.Metrics) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	if m != nil {
		e.Use(m.Middleware())
	}
	e.Use(loggingmw.RequestLogger(base))
	e.Use(middleware.CORS())
	return e
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready == nil {
			return c.NoContent(http.StatusOK)
		}
		if err := d.Ready(c.Request().Context()); err != nil {
			logging.FromContext(c.Request().Context()).Error("ready_check_error", "error", err)
			return c.NoContent(http.StatusServiceUnavailable)
		}
		return c.NoContent(http.StatusOK)
	})
	if d.Metrics != nil {
		e.GET("/metrics", d.Metrics.Handler())
	}

	login := auth.RequireLogin(d.Tokens)
	seller := auth.RequireRole(models.RoleSeller)
	admin := auth.RequireRole(models.RoleAdmin)

	e.POST("/login", d.Auth.Login)
	e.POST("/register", d.Auth.Register)
	e.GET("/auth/google/login", d.Auth.GoogleLogin)
	e.GET("/auth/google/callback", d.Auth.GoogleCallback)

	api := e.Group("/api")

	api.GET("/flowers", d.Catalog.ListFlowers)
	api.GET("/flowers/search", d.Catalog.SearchFlowers)
	api.GET("/flowers/:id", d.Catalog.GetFlower)
	api.POST("/flowers", d.Catalog.CreateFlower, login, seller)
	api.PUT("/flowers/:id", d.Catalog.UpdateFlower, login, auth.RequireRole(models.RoleSeller, models.RoleAdmin))
	api.DELETE("/flowers/:id", d.Catalog.DeleteFlower, login, auth.RequireRole(models.RoleSeller, models.RoleAdmin))
	api.GET("/categories", d.Catalog.ListCategories)
	api.POST("/categories", d.Catalog.CreateCategory, login, admin)

	cart := api.Group("/cart", login)
	cart.GET("", d.Cart.GetCart)
	cart.POST("/add", d.Cart.AddToCart)
	cart.DELETE("/remove/:flowerId", d.Cart.RemoveFromCart)

	order := api.Group("/order", login)
	order.POST("", d.Order.CreateOrder)
	order.GET("", d.Order.ListOrders)

	api.GET("/vnpaycontroller/vnpay_return", d.Payment.VNPayReturn)
	api.POST("/stripe/webhook", d.Payment.StripeWebhook)

	report := api.Group("/report")
	report.POST("/CreateReport", d.Report.CreateReport, login)
	report.PUT("/UpdateReportStatus/:id", d.Report.UpdateReportStatus)
	report.GET("", d.Report.ListReports, login, admin)

	voucher := api.Group("/voucher", login)
	voucher.GET("", d.Voucher.ListVouchers)
	voucher.POST("", d.Voucher.IssueVoucher, seller)
	voucher.DELETE("/:code", d.Voucher.DeleteVoucher, seller)

	sellers := api.Group("/seller", login)
	sellers.POST("/register", d.Seller.RegisterSeller)
	sellers.GET("/me", d.Seller.Me, seller)
	sellers.GET("/orders", d.Order.ListSellerOrders, seller)
	sellers.GET("/orders/export", d.Order.ExportSellerOrders, seller)
	sellers.PUT("/orders/details/:id/status", d.Order.UpdateDetailStatus, seller)

	user := api.Group("/user", login)
	user.GET("/profile", d.User.GetProfile)
	user.PUT("/profile", d.User.UpdateProfile)
	user.POST("/avatar", d.User.UploadAvatar)
	user.GET("/address", d.User.ListAddresses)
	user.POST("/address", d.User.AddAddress)

	adm := api.Group("/admin", login, admin)
	adm.GET("/users", d.User.ListUsers)
	adm.PUT("/users/:id/status", d.User.SetUserStatus)
}
