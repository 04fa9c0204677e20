package llm

import "fmt"

// CredentialError reports a missing API key for a provider. The UI routes
// this to credential entry rather than rendering it as a failure.
type CredentialError struct {
	Provider string
}

func (e *CredentialError) Error() string {
	return fmt.Sprintf("API key required for %s", e.Provider)
}

// APIError is a non-2xx response from a vendor, carrying the vendor's
// error message when one was present in the body.
type APIError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// NewAPIError builds an APIError, substituting the provider's fixed
// fallback string when the vendor supplied no message.
func NewAPIError(provider string, status int, vendorMessage string) *APIError {
	msg := vendorMessage
	if msg == "" {
		msg = provider + " API Error"
	}
	return &APIError{Provider: provider, StatusCode: status, Message: msg}
}
