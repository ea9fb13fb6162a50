package strategy

import "fmt"

// Params holds the tunables of all three strategies.
type Params struct {
	SMAShort    int     `yaml:"sma_short" json:"sma_short" default:"5" validate:"gte=2"`
	SMALong     int     `yaml:"sma_long" json:"sma_long" default:"20" validate:"gtfield=SMAShort"`
	MRWindow    int     `yaml:"mr_window" json:"mr_window" default:"20" validate:"gte=2"`
	MRThreshold float64 `yaml:"mr_threshold" json:"mr_threshold" default:"0.02" validate:"gt=0"`
	BBWindow    int     `yaml:"bb_window" json:"bb_window" default:"20" validate:"gte=2"`
	BBK         float64 `yaml:"bb_k" json:"bb_k" default:"2" validate:"gt=0"`
}

// DefaultParams returns the documented defaults.
func DefaultParams() Params {
	return Params{
		SMAShort:    5,
		SMALong:     20,
		MRWindow:    20,
		MRThreshold: 0.02,
		BBWindow:    20,
		BBK:         2,
	}
}

// Validate rejects parameter sets no series could satisfy.
func (p Params) Validate() error {
	if err := validateSMA(p.SMAShort, p.SMALong); err != nil {
		return err
	}
	if err := validateMR(p.MRWindow, p.MRThreshold); err != nil {
		return err
	}
	return validateBB(p.BBWindow, p.BBK)
}

// MinBars is the shortest series for which at least one strategy is evaluable.
func (p Params) MinBars() int {
	return min(p.SMALong, p.MRWindow, p.BBWindow)
}

func validateSMA(short, long int) error {
	if short < 2 {
		return fmt.Errorf("%w: sma_short must be >= 2, got %d", ErrInvalidParams, short)
	}
	if long <= short {
		return fmt.Errorf("%w: sma_short (%d) must be < sma_long (%d)", ErrInvalidParams, short, long)
	}
	return nil
}

func validateMR(window int, threshold float64) error {
	if window < 2 {
		return fmt.Errorf("%w: mr_window must be >= 2, got %d", ErrInvalidParams, window)
	}
	if !(threshold > 0) {
		return fmt.Errorf("%w: mr_threshold must be positive, got %g", ErrInvalidParams, threshold)
	}
	return nil
}

func validateBB(window int, k float64) error {
	if window < 2 {
		return fmt.Errorf("%w: bb_window must be >= 2, got %d", ErrInvalidParams, window)
	}
	if !(k > 0) {
		return fmt.Errorf("%w: bb_k must be positive, got %g", ErrInvalidParams, k)
	}
	return nil
}
