package payment

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

var ErrBadSignature = errors.New("payment: bad webhook signature")

type Request struct {
	Amount      decimal.Decimal
	Phone       string
	ClientIP    string
	Description string
}

// Intent is what the gateway hands back for one seller partition.
type Intent struct {
	TransactionID string
	PaymentURL    string
}

type Gateway interface {
	Method() string
	CreatePayment(ctx context.Context, req Request) (*Intent, error)
}

// Canceler is implemented by gateways whose intents stay open until
// explicitly voided.
type Canceler interface {
	CancelPayment(ctx context.Context, transactionID string) error
}

// Outcome is a verified asynchronous settlement notice for one intent.
type Outcome struct {
	TransactionID string
	Paid          bool
	Code          string
}
