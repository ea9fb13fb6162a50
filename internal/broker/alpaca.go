package broker

import (
	"context"
	"fmt"

	"github.com/alpacahq/alpaca-trade-api-go/v3/alpaca"
)

// AlpacaSubmitter places market orders through the Alpaca trading API.
// Paper or live trading is decided by the base URL.
type AlpacaSubmitter struct {
	client *alpaca.Client
}

func NewAlpacaSubmitter(apiKey, apiSecret, baseURL string) *AlpacaSubmitter {
	return &AlpacaSubmitter{
		client: alpaca.NewClient(alpaca.ClientOpts{
			APIKey:    apiKey,
			APISecret: apiSecret,
			BaseURL:   baseURL,
		}),
	}
}

func (s *AlpacaSubmitter) Name() string { return "alpaca" }

// SubmitOrder places a good-til-cancelled market order.
func (s *AlpacaSubmitter) SubmitOrder(ctx context.Context, req OrderRequest) (*Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	side := alpaca.Buy
	if req.Side == Sell {
		side = alpaca.Sell
	}
	qty := req.Qty

	o, err := s.client.PlaceOrder(alpaca.PlaceOrderRequest{
		Symbol:        req.Symbol,
		Qty:           &qty,
		Side:          side,
		Type:          alpaca.Market,
		TimeInForce:   alpaca.GTC,
		ClientOrderID: req.ClientOrderID,
	})
	if err != nil {
		return nil, fmt.Errorf("alpaca place order %s %s: %w", req.Side, req.Symbol, err)
	}
	return &Order{
		ID:          o.ID,
		Symbol:      o.Symbol,
		Side:        req.Side,
		Qty:         qty,
		Status:      o.Status,
		SubmittedAt: o.SubmittedAt,
	}, nil
}
