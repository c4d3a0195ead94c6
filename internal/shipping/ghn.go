// Package shipping quotes delivery fees from Giao Hang Nhanh.
package shipping

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

// FeeKey is the quote entry every caller relies on.
const FeeKey = "total_fee"

var ErrMissingFee = errors.New("shipping quote has no total_fee")

// Quoter prices delivery of a parcel from sellerAddress to buyerAddress.
type Quoter interface {
	Quote(ctx context.Context, buyerAddress, sellerAddress string) (map[string]any, error)
}

type GHN struct {
	url        string
	token      string
	shopID     string
	httpClient *http.Client
}

func NewGHN(url, token, shopID string, timeout time.Duration) *GHN {
	return &GHN{
		url:    url,
		token:  token,
		shopID: shopID,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

type feeRequest struct {
	ServiceTypeID int    `json:"service_type_id"`
	FromAddress   string `json:"from_address"`
	ToAddress     string `json:"to_address"`
	Weight        int    `json:"weight"`
}

type feeResponse struct {
	Code    int            `json:"code"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data"`
}

// Quote posts a fee request and returns GHN's data object. GHN reports the fee
// as "total"; it is copied to FeeKey when FeeKey itself is absent.
func (g *GHN) Quote(ctx context.Context, buyerAddress, sellerAddress string) (map[string]any, error) {
	body, err := json.Marshal(feeRequest{
		ServiceTypeID: 2,
		FromAddress:   sellerAddress,
		ToAddress:     buyerAddress,
		Weight:        1000,
	})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Token", g.token)
	req.Header.Set("ShopId", g.shopID)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ghn fee failed with status: %d", resp.StatusCode)
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	var out feeResponse
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	data := out.Data
	if data == nil {
		data = map[string]any{}
	}
	if _, ok := data[FeeKey]; !ok {
		if total, ok := data["total"]; ok {
			data[FeeKey] = total
		}
	}
	return data, nil
}

// Fee extracts FeeKey from a quote as a decimal amount.
func Fee(quote map[string]any) (decimal.Decimal, error) {
	raw, ok := quote[FeeKey]
	if !ok || raw == nil {
		return decimal.Zero, ErrMissingFee
	}
	switch v := raw.(type) {
	case json.Number:
		return decimal.NewFromString(v.String())
	case string:
		return decimal.NewFromString(v)
	case float64:
		return decimal.NewFromFloat(v), nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int64:
		return decimal.NewFromInt(v), nil
	case decimal.Decimal:
		return v, nil
	default:
		return decimal.Zero, fmt.Errorf("unexpected %s type %T", FeeKey, raw)
	}
}
