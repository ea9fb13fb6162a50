package collector

import "fmt"

// UpstreamFetchError wraps any failure to obtain a usable series for a symbol.
type UpstreamFetchError struct {
	Symbol string
	Source string
	Err    error
}

func (e *UpstreamFetchError) Error() string {
	return fmt.Sprintf("fetch %s from %s: %v", e.Symbol, e.Source, e.Err)
}

func (e *UpstreamFetchError) Unwrap() error { return e.Err }
