package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jwebster45206/crawl-engine/pkg/prompts"
)

// LLMService defines the interface for invoking a generative-text
// provider. The orchestrator depends only on this interface, never on a
// specific backend, so providers are interchangeable and mockable.
type LLMService interface {
	// InitModel initializes the model on startup, where the backend
	// requires it.
	InitModel(ctx context.Context, modelName string) error

	// GenerateText executes a prompt and returns the raw response text.
	// Transport and availability failures are returned as *ProviderError.
	GenerateText(ctx context.Context, prompt prompts.Prompt) (string, error)
}

// ProviderErrorKind is the closed set of classified provider failures.
type ProviderErrorKind string

const (
	ProviderOverloaded  ProviderErrorKind = "overloaded"
	ProviderRateLimited ProviderErrorKind = "rate_limited"
	ProviderUnavailable ProviderErrorKind = "unavailable"
	ProviderUnknown     ProviderErrorKind = "unknown"
)

// ProviderError is a provider failure normalized at the adapter boundary.
type ProviderError struct {
	Kind    ProviderErrorKind
	Message string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %s", e.Kind, e.Message)
}

// classifyHTTPStatus maps a non-200 provider response to a classified
// error. Adapters may override the classification for vendor-specific
// error payloads before falling back to this.
func classifyHTTPStatus(status int, body string) *ProviderError {
	switch {
	case status == http.StatusTooManyRequests:
		return &ProviderError{Kind: ProviderRateLimited, Message: body}
	case status == 529: // anthropic-style overloaded
		return &ProviderError{Kind: ProviderOverloaded, Message: body}
	case status >= 500:
		return &ProviderError{Kind: ProviderUnavailable, Message: body}
	default:
		return &ProviderError{Kind: ProviderUnknown, Message: fmt.Sprintf("status %d: %s", status, body)}
	}
}

// classifyTransportError wraps a transport-level failure, preserving
// context cancellation so callers can distinguish a caller abort from a
// provider outage.
func classifyTransportError(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return &ProviderError{Kind: ProviderUnavailable, Message: err.Error()}
}
