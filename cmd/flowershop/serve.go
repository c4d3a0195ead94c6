package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/Skotchmaster/flower_shop/internal/config"
	"github.com/Skotchmaster/flower_shop/internal/db"
	"github.com/Skotchmaster/flower_shop/internal/events"
	"github.com/Skotchmaster/flower_shop/internal/httpserver"
	"github.com/Skotchmaster/flower_shop/internal/metrics"
	"github.com/Skotchmaster/flower_shop/internal/oauth"
	"github.com/Skotchmaster/flower_shop/internal/payment"
	"github.com/Skotchmaster/flower_shop/internal/payment/stripepay"
	"github.com/Skotchmaster/flower_shop/internal/payment/vnpay"
	"github.com/Skotchmaster/flower_shop/internal/repo"
	"github.com/Skotchmaster/flower_shop/internal/search"
	"github.com/Skotchmaster/flower_shop/internal/service"
	"github.com/Skotchmaster/flower_shop/internal/shipping"
	"github.com/Skotchmaster/flower_shop/internal/storage"
	"github.com/Skotchmaster/flower_shop/internal/tokens"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, logger, gdb, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer func() {
				if err := db.Close(gdb); err != nil {
					logger.Error("db_close_error", "error", err)
				}
			}()

			if err := db.Migrate(ctx, gdb); err != nil {
				return err
			}
			return serve(ctx, cfg, logger, gdb)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger, gdb *gorm.DB) error {
	var pub events.Publisher = events.Noop{}
	if len(cfg.KafkaBrokers) > 0 {
		pub = events.NewProducer(cfg.KafkaBrokers)
	}
	defer func() {
		if err := pub.Close(); err != nil {
			logger.Error("kafka_close_error", "error", err)
		}
	}()

	r := repo.New(gdb)
	m := metrics.New()
	iss := &tokens.Issuer{
		Secret:   []byte(cfg.JWTSecret),
		Issuer:   cfg.JWTIssuer,
		Audience: cfg.JWTAudience,
		TTL:      cfg.JWTTTL,
	}

	catalog := &service.CatalogService{Repo: r, Events: pub}
	users := &service.UserService{Repo: r}
	if cfg.ESURL != "" {
		es, err := search.NewClient(search.Config{URL: cfg.ESURL, User: cfg.ESUser, Password: cfg.ESPassword, Index: cfg.ESIndex})
		if err != nil {
			return fmt.Errorf("elasticsearch: %w", err)
		}
		idx := search.NewIndex(es, cfg.ESIndex)
		if err := idx.Ping(ctx); err != nil {
			logger.Warn("elasticsearch_unavailable", "error", err, "fallback", "sql")
		}
		catalog.Index = idx
	}
	if cfg.S3Bucket != "" {
		s3, err := storage.NewS3(ctx, storage.Config{
			Bucket:   cfg.S3Bucket,
			Region:   cfg.S3Region,
			Key:      cfg.S3Key,
			Secret:   cfg.S3Secret,
			Endpoint: cfg.S3Endpoint,
			BaseURL:  cfg.S3URL,
		})
		if err != nil {
			return err
		}
		catalog.Images = s3
		users.Images = s3
	}

	var gateway payment.Gateway
	payments := &service.PaymentService{Repo: r, Events: pub, Metrics: m}
	switch cfg.PaymentProvider {
	case "stripe":
		gateway = stripepay.New(cfg.StripeKey, nil)
		payments.Webhook = stripepay.WebhookVerifier{Secret: cfg.StripeWebhook}
	default:
		vnp := &vnpay.Client{
			TmnCode:    cfg.VNPTmnCode,
			HashSecret: cfg.VNPHashSecret,
			PayURL:     cfg.VNPPayURL,
			ReturnURL:  cfg.VNPReturnURL,
		}
		gateway = vnp
		payments.Verifier = vnp
	}

	authHTTP := &httpserver.AuthHTTP{Svc: &service.AuthService{Repo: r, Tokens: iss}}
	if cfg.GoogleClientID != "" {
		authHTTP.Google = oauth.NewGoogle(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)
	}

	d := &httpserver.Deps{
		Tokens:  iss,
		Metrics: m,
		Ready:   func(ctx context.Context) error { return db.Ping(ctx, gdb) },
		Auth:    authHTTP,
		Catalog: &httpserver.CatalogHTTP{Svc: catalog},
		Cart:    &httpserver.CartHTTP{Svc: &service.CartService{Repo: r, Events: pub, Metrics: m}},
		Order: &httpserver.OrderHTTP{Svc: &service.OrderService{
			Repo:     r,
			Shipping: shipping.NewGHN(cfg.GHNURL, cfg.GHNToken, cfg.GHNShopID, cfg.OutboundTimeout),
			Payments: gateway,
			Events:   pub,
			Metrics:  m,
		}},
		Payment: &httpserver.PaymentHTTP{Svc: payments},
		Report:  &httpserver.ReportHTTP{Svc: &service.ReportService{Repo: r, Events: pub}},
		Voucher: &httpserver.VoucherHTTP{Svc: &service.VoucherService{Repo: r}},
		Seller:  &httpserver.SellerHTTP{Svc: &service.SellerService{Repo: r}},
		User:    &httpserver.UserHTTP{Svc: users},
	}

	e := httpserver.NewEcho(logger, m)
	httpserver.Register(e, d)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("http_listen", "addr", srv.Addr, "payment_provider", gateway.Method())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server_shutdown_error", "error", err)
	}
	logger.Info("shutdown complete")
	return nil
}
