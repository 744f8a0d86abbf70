package services

import (
	"errors"
	"fmt"
)

// DataUnavailableError means the provider has no usable record of a symbol,
// or could not be reached for it after retries. It is always scoped to one
// symbol: callers skip the symbol and keep the run alive.
//
// A single missing field is never a DataUnavailableError; missing fields
// surface as nil snapshot fields instead.
type DataUnavailableError struct {
	Symbol string
	Reason string
	Err    error
}

func (e *DataUnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("data unavailable for %s: %s: %v", e.Symbol, e.Reason, e.Err)
	}
	return fmt.Sprintf("data unavailable for %s: %s", e.Symbol, e.Reason)
}

func (e *DataUnavailableError) Unwrap() error { return e.Err }

// IsDataUnavailable reports whether err is a per-symbol data failure.
func IsDataUnavailable(err error) bool {
	var due *DataUnavailableError
	return errors.As(err, &due)
}
