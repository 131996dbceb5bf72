package generator

import (
	"context"
	"time"
)

// LLMClient abstracts the hosted model so it can be swapped or mocked.
type LLMClient interface {
	Complete(ctx context.Context, prompt Prompt) (string, error)
}

// LLMSettings is the backend-independent model configuration. A nil
// Temperature or TopP leaves the backend default in place.
type LLMSettings struct {
	Provider    string
	Model       string
	APIKey      string
	BaseURL     string
	Temperature *float64
	TopP        *float64
	// Timeout bounds a single request; zero leaves it unbounded.
	Timeout time.Duration
}
