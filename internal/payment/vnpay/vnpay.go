package vnpay

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/flower_shop/internal/payment"
)

const (
	ParamPrefix       = "vnp_"
	ParamSecureHash   = "vnp_SecureHash"
	ParamHashType     = "vnp_SecureHashType"
	ParamTxnRef       = "vnp_TxnRef"
	ParamResponseCode = "vnp_ResponseCode"

	ResponseSuccess = "00"
	version         = "2.1.0"
	paymentTTL      = 15 * time.Minute
)

var ErrInvalidSignature = errors.New("vnpay: invalid signature")

var vietnam = time.FixedZone("GMT+7", 7*60*60)

type Client struct {
	TmnCode    string
	HashSecret string
	PayURL     string
	ReturnURL  string
	Now        func() time.Time
}

func (c *Client) Method() string { return "VNPay" }

// Canonical builds the string VNPay signs: vnp_ params except the hash
// itself, sorted by key, query-escaped, joined with '&'. Empty values are
// skipped the same way the gateway's reference library does.
func Canonical(values url.Values) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		if !strings.HasPrefix(k, ParamPrefix) || k == ParamSecureHash || k == ParamHashType {
			continue
		}
		if values.Get(k) == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, url.QueryEscape(k)+"="+url.QueryEscape(values.Get(k)))
	}
	return strings.Join(pairs, "&")
}

func Sign(secret, data string) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write([]byte(data))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify reports whether the query carries a valid vnp_SecureHash.
func (c *Client) Verify(query url.Values) error {
	given := strings.ToLower(query.Get(ParamSecureHash))
	if given == "" {
		return ErrInvalidSignature
	}
	want := Sign(c.HashSecret, Canonical(query))
	if subtle.ConstantTimeCompare([]byte(want), []byte(given)) != 1 {
		return ErrInvalidSignature
	}
	return nil
}

// CreatePayment signs a redirect URL; the txn ref doubles as our transaction id.
func (c *Client) CreatePayment(ctx context.Context, req payment.Request) (*payment.Intent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if c.HashSecret == "" || c.TmnCode == "" || c.PayURL == "" {
		return nil, fmt.Errorf("vnpay: gateway is not configured")
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("vnpay: amount must be positive, got %s", req.Amount)
	}

	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	created := now().In(vietnam)
	txnRef := strings.ReplaceAll(uuid.NewString(), "-", "")

	ip := req.ClientIP
	if ip == "" {
		ip = "127.0.0.1"
	}
	info := req.Description
	if info == "" {
		info = "Thanh toan don hang " + txnRef
	}

	v := url.Values{}
	v.Set("vnp_Version", version)
	v.Set("vnp_Command", "pay")
	v.Set("vnp_TmnCode", c.TmnCode)
	v.Set("vnp_Amount", req.Amount.Mul(decimal.NewFromInt(100)).Round(0).String())
	v.Set("vnp_CurrCode", "VND")
	v.Set("vnp_TxnRef", txnRef)
	v.Set("vnp_OrderInfo", info)
	v.Set("vnp_OrderType", "other")
	v.Set("vnp_Locale", "vn")
	v.Set("vnp_ReturnUrl", c.ReturnURL)
	v.Set("vnp_IpAddr", ip)
	v.Set("vnp_CreateDate", created.Format("20060102150405"))
	v.Set("vnp_ExpireDate", created.Add(paymentTTL).Format("20060102150405"))

	data := Canonical(v)
	return &payment.Intent{
		TransactionID: txnRef,
		PaymentURL:    c.PayURL + "?" + data + "&" + ParamSecureHash + "=" + Sign(c.HashSecret, data),
	}, nil
}
