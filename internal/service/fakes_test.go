package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/flower_shop/internal/models"
	"github.com/Skotchmaster/flower_shop/internal/payment"
	"github.com/Skotchmaster/flower_shop/internal/search"
	"github.com/Skotchmaster/flower_shop/internal/shipping"
)

var fixedNow = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

type fakeQuoter struct {
	mu      sync.Mutex
	fee     any
	err     error
	missing bool
	calls   []string
	during  func()
}

func (f *fakeQuoter) Quote(ctx context.Context, buyer, seller string) (map[string]any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, seller+" -> "+buyer)
	if f.during != nil {
		f.during()
	}
	if f.err != nil {
		return nil, f.err
	}
	if f.missing {
		return map[string]any{"service_fee": 1}, nil
	}
	return map[string]any{shipping.FeeKey: f.fee}, nil
}

type fakeGateway struct {
	mu      sync.Mutex
	failAt  int
	calls   int
	amounts  []decimal.Decimal
	canceled []string
}

func (g *fakeGateway) Method() string { return models.PaymentMethodVNPay }

func (g *fakeGateway) CreatePayment(ctx context.Context, req payment.Request) (*payment.Intent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	if g.calls == g.failAt {
		return nil, errors.New("gateway unavailable")
	}
	g.amounts = append(g.amounts, req.Amount)
	txn := fmt.Sprintf("txn%d", g.calls)
	return &payment.Intent{TransactionID: txn, PaymentURL: "https://pay.example/" + txn}, nil
}

func (g *fakeGateway) CancelPayment(ctx context.Context, txn string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.canceled = append(g.canceled, txn)
	return nil
}

type published struct {
	topic string
	key   string
	event any
}

type recorder struct {
	mu     sync.Mutex
	events []published
	err    error
}

func (r *recorder) PublishEvent(ctx context.Context, topic, key string, event any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, published{topic: topic, key: key, event: event})
	return r.err
}

func (r *recorder) Close() error { return nil }

func (r *recorder) topics() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.topic
	}
	return out
}

type fakeUploader struct {
	err  error
	keys []string
}

func (u *fakeUploader) Upload(ctx context.Context, prefix, filename, contentType string, body io.Reader) (string, error) {
	if u.err != nil {
		return "", u.err
	}
	if _, err := io.ReadAll(body); err != nil {
		return "", err
	}
	key := prefix + "/" + filename
	u.keys = append(u.keys, key)
	return "https://cdn.example/" + key, nil
}

type fakeIndex struct {
	indexed []uint
	deleted []uint
	hits    []uint
	err     error
}

func (x *fakeIndex) IndexFlower(ctx context.Context, f *models.FlowerInfo) error {
	x.indexed = append(x.indexed, f.ID)
	return nil
}

func (x *fakeIndex) DeleteFlower(ctx context.Context, id uint) error {
	x.deleted = append(x.deleted, id)
	return nil
}

func (x *fakeIndex) Search(ctx context.Context, q string, from, size int) (int64, []search.Document, error) {
	if x.err != nil {
		return 0, nil, x.err
	}
	docs := make([]search.Document, len(x.hits))
	for i, id := range x.hits {
		docs[i] = search.Document{ID: id}
	}
	return int64(len(docs)), docs, nil
}

func countRows(t *testing.T, gdb *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, gdb.Model(model).Count(&n).Error)
	return n
}
