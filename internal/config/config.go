package config

import (
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"
)

type Config struct {
	Port      string `env:"PORT" envDefault:"8080"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	DBDriver    string `env:"DB_DRIVER" envDefault:"postgres"`
	DatabaseURL string `env:"DATABASE_URL,required"`

	JWTSecret   string        `env:"JWT_SECRET,required"`
	JWTIssuer   string        `env:"JWT_ISSUER" envDefault:"flower_shop"`
	JWTAudience string        `env:"JWT_AUDIENCE" envDefault:"flower_shop_clients"`
	JWTTTL      time.Duration `env:"JWT_TTL" envDefault:"1h"`

	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`

	ESURL      string `env:"ES_URL"`
	ESUser     string `env:"ES_USER"`
	ESPassword string `env:"ES_PASSWORD"`
	ESIndex    string `env:"ES_INDEX" envDefault:"flowers"`

	S3Bucket   string `env:"S3_BUCKET"`
	S3Region   string `env:"S3_REGION" envDefault:"us-east-1"`
	S3Key      string `env:"S3_KEY"`
	S3Secret   string `env:"S3_SECRET"`
	S3Endpoint string `env:"S3_ENDPOINT"`
	S3URL      string `env:"S3_URL"`

	GoogleClientID     string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string `env:"GOOGLE_REDIRECT_URL"`

	PaymentProvider string `env:"PAYMENT_PROVIDER" envDefault:"vnpay"`
	VNPTmnCode      string `env:"VNP_TMN_CODE"`
	VNPHashSecret   string `env:"VNP_HASH_SECRET"`
	VNPPayURL       string `env:"VNP_PAY_URL" envDefault:"https://sandbox.vnpayment.vn/paymentv2/vpcpay.html"`
	VNPReturnURL    string `env:"VNP_RETURN_URL"`
	StripeKey       string `env:"STRIPE_KEY"`
	StripeWebhook   string `env:"STRIPE_WEBHOOK_SECRET"`

	GHNURL    string `env:"GHN_URL" envDefault:"https://dev-online-gateway.ghn.vn/shiip/public-api/v2/shipping-order/fee"`
	GHNToken  string `env:"GHN_TOKEN"`
	GHNShopID string `env:"GHN_SHOP_ID"`

	OutboundTimeout time.Duration `env:"OUTBOUND_TIMEOUT" envDefault:"10s"`
}

// Load reads .env when present and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	var need map[string]string
	switch cfg.PaymentProvider {
	case "vnpay":
		need = map[string]string{
			"VNP_TMN_CODE":    cfg.VNPTmnCode,
			"VNP_HASH_SECRET": cfg.VNPHashSecret,
			"VNP_RETURN_URL":  cfg.VNPReturnURL,
		}
	case "stripe":
		need = map[string]string{
			"STRIPE_KEY":            cfg.StripeKey,
			"STRIPE_WEBHOOK_SECRET": cfg.StripeWebhook,
		}
	default:
		return nil, fmt.Errorf("unknown PAYMENT_PROVIDER %q", cfg.PaymentProvider)
	}
	var missing []string
	for name, v := range need {
		if v == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("%s required for PAYMENT_PROVIDER=%s", strings.Join(missing, ", "), cfg.PaymentProvider)
	}

	return &cfg, nil
}
