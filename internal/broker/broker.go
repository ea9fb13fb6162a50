package broker

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"StrategyScout/internal/model"
)

// Side is the direction of an order.
type Side string

const (
	Buy  Side = "buy"
	Sell Side = "sell"
)

// SideFor maps a final signal to an order side. HOLD maps to no order.
func SideFor(sig model.Signal) (Side, bool) {
	switch sig {
	case model.SignalBuy:
		return Buy, true
	case model.SignalSell:
		return Sell, true
	default:
		return "", false
	}
}

// OrderRequest is a market order for a whole quantity of shares.
type OrderRequest struct {
	Symbol        string
	Side          Side
	Qty           decimal.Decimal
	ClientOrderID string
}

// Order is the broker's acknowledgement of a submitted order.
type Order struct {
	ID          string          `json:"id"`
	Symbol      string          `json:"symbol"`
	Side        Side            `json:"side"`
	Qty         decimal.Decimal `json:"qty"`
	Status      string          `json:"status"`
	SubmittedAt time.Time       `json:"submitted_at"`
}

// OrderSubmitter places orders with a brokerage.
type OrderSubmitter interface {
	SubmitOrder(ctx context.Context, req OrderRequest) (*Order, error)
	Name() string
}
