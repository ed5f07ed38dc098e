// Package ai provides the generative-text capability used to write exam papers.
package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ErrMalformedResponse is returned when the provider answered with a 200 but the
// payload does not expose generated text where it should.
var ErrMalformedResponse = errors.New("malformed provider response")

// Message represents a single prompt turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest is the input to an AI completion.
type CompletionRequest struct {
	Messages    []Message `json:"messages"`
	Model       string    `json:"model,omitempty"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature,omitempty"`
}

// CompletionResponse is the output from an AI completion.
type CompletionResponse struct {
	Content      string `json:"content"`
	Model        string `json:"model"`
	InputTokens  int    `json:"input_tokens"`
	OutputTokens int    `json:"output_tokens"`
}

// TotalTokens returns the sum of input and output tokens.
func (r CompletionResponse) TotalTokens() int {
	return r.InputTokens + r.OutputTokens
}

// Provider is a single blocking "prompt in, text out" capability.
type Provider interface {
	Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error)
	HealthCheck(ctx context.Context) error
}

// APIError is a non-200 answer from the provider. Body is kept for logs only.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("provider api error (status %d)", e.StatusCode)
}

// IsBadRequest reports whether the provider rejected the request itself.
func (e *APIError) IsBadRequest() bool {
	return e.StatusCode == http.StatusBadRequest
}

// IsAuthOrQuota reports whether the provider rejected the credential or the
// credential has run out of quota.
func (e *APIError) IsAuthOrQuota() bool {
	switch e.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusTooManyRequests:
		return true
	}
	return false
}

// UserPrompt wraps a single prompt string as a one-turn request.
func UserPrompt(prompt string) CompletionRequest {
	return CompletionRequest{
		Messages: []Message{{Role: "user", Content: prompt}},
	}
}
