package contracts

import "fmt"

// ProviderError indicates that a completion fetch against the backend failed.
// The cached state for the file is untouched when this is returned.
type ProviderError struct {
	Provider   string
	StatusCode int
	Message    string
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("provider '%s' request failed with status code '%d': %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("provider '%s' request failed: %s", e.Provider, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
