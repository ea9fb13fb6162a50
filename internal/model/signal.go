package model

import (
	"fmt"
	"time"
)

// Signal is a per-day trading decision.
type Signal string

const (
	SignalBuy  Signal = "BUY"
	SignalSell Signal = "SELL"
	SignalHold Signal = "HOLD"
)

// SignalPoint attaches a Signal to an index of a PriceSeries.
type SignalPoint struct {
	Index  int       `json:"index"`
	Date   time.Time `json:"date"`
	Signal Signal    `json:"signal"`
}

// StrategyKind enumerates the evaluated strategies. The declaration order is
// the tie-break priority: SMA beats MR beats BB.
type StrategyKind int

const (
	KindSMA StrategyKind = iota
	KindMR
	KindBB
)

// AllKinds lists every strategy in priority order.
var AllKinds = []StrategyKind{KindSMA, KindMR, KindBB}

func (k StrategyKind) String() string {
	switch k {
	case KindSMA:
		return "sma"
	case KindMR:
		return "mr"
	case KindBB:
		return "bb"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseStrategyKind is the inverse of String.
func ParseStrategyKind(s string) (StrategyKind, error) {
	for _, k := range AllKinds {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown strategy %q", s)
}

func (k StrategyKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *StrategyKind) UnmarshalText(b []byte) error {
	parsed, err := ParseStrategyKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
