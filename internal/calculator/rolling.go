package calculator

import (
	"errors"
	"fmt"
	"math"
)

// ErrNotEnoughData is returned when a window is longer than the input.
var ErrNotEnoughData = errors.New("not enough data for window")

func checkWindow(values []float64, window int) error {
	if window <= 0 {
		return errors.New("window must be positive")
	}
	if len(values) < window {
		return fmt.Errorf("%w: need %d, have %d", ErrNotEnoughData, window, len(values))
	}
	return nil
}

// RollingMean returns the trailing mean over window, aligned with values.
// Entries before index window-1 are NaN. A flat window yields its value
// exactly, so means over different windows of a constant run compare equal.
func RollingMean(values []float64, window int) ([]float64, error) {
	if err := checkWindow(values, window); err != nil {
		return nil, err
	}
	out := make([]float64, len(values))
	for i := range values {
		if i < window-1 {
			out[i] = math.NaN()
			continue
		}
		if flat(values[i-window+1 : i+1]) {
			out[i] = values[i]
			continue
		}
		sum := 0.0
		for j := i - window + 1; j <= i; j++ {
			sum += values[j]
		}
		out[i] = sum / float64(window)
	}
	return out, nil
}

// RollingStdDev returns the trailing population standard deviation over
// window, aligned with values. Entries before index window-1 are NaN.
func RollingStdDev(values []float64, window int) ([]float64, error) {
	means, err := RollingMean(values, window)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(values))
	for i := range values {
		if i < window-1 {
			out[i] = math.NaN()
			continue
		}
		if flat(values[i-window+1 : i+1]) {
			out[i] = 0
			continue
		}
		var variance float64
		for j := i - window + 1; j <= i; j++ {
			d := values[j] - means[i]
			variance += d * d
		}
		out[i] = math.Sqrt(variance / float64(window))
	}
	return out, nil
}

func flat(window []float64) bool {
	for _, v := range window[1:] {
		if v != window[0] {
			return false
		}
	}
	return true
}
