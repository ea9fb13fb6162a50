package strategy

import (
	"errors"
	"fmt"

	"StrategyScout/internal/model"
)

// ErrNoEvaluableStrategy is returned when every strategy lacks data for a symbol.
var ErrNoEvaluableStrategy = errors.New("no strategy evaluable")

// ErrInvalidParams marks a strategy parameter set that can never be evaluated.
var ErrInvalidParams = errors.New("invalid strategy parameters")

// InsufficientDataError reports a series shorter than a strategy's window.
type InsufficientDataError struct {
	Kind     model.StrategyKind
	Required int
	Got      int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("%s: insufficient data: need %d bars, have %d", e.Kind, e.Required, e.Got)
}

func insufficient(kind model.StrategyKind, required int, series *model.PriceSeries) error {
	if series.Len() < required {
		return &InsufficientDataError{Kind: kind, Required: required, Got: series.Len()}
	}
	return nil
}
