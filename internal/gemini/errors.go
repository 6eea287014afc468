package gemini

import "fmt"

// ProviderError wraps any failure at the model boundary: network or quota
// errors, unparseable output, or output that violates the response schema.
// Provider errors are never retried automatically; they propagate to the
// request handler and surface as a 500.
type ProviderError struct {
	Op  string
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("gemini %s: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

func providerErr(op string, err error) *ProviderError {
	return &ProviderError{Op: op, Err: err}
}
