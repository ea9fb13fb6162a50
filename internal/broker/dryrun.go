package broker

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// DryRunSubmitter accepts every order without contacting a broker.
type DryRunSubmitter struct {
	mu     sync.Mutex
	orders []Order
}

func NewDryRunSubmitter() *DryRunSubmitter { return &DryRunSubmitter{} }

func (s *DryRunSubmitter) Name() string { return "dry-run" }

func (s *DryRunSubmitter) SubmitOrder(_ context.Context, req OrderRequest) (*Order, error) {
	o := Order{
		ID:          uuid.NewString(),
		Symbol:      req.Symbol,
		Side:        req.Side,
		Qty:         req.Qty,
		Status:      "dry_run",
		SubmittedAt: time.Now().UTC(),
	}
	log.Info().Str("component", "broker").Str("symbol", req.Symbol).Str("side", string(req.Side)).
		Str("qty", req.Qty.String()).Msg("dry-run order accepted")

	s.mu.Lock()
	s.orders = append(s.orders, o)
	s.mu.Unlock()
	return &o, nil
}

// Orders returns the orders accepted so far.
func (s *DryRunSubmitter) Orders() []Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Order, len(s.orders))
	copy(out, s.orders)
	return out
}
