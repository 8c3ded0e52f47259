package genai

import (
	"context"
	"fmt"
	"time"
)

// Adapter is the only path the engine uses to talk to the generative
// backend. Every failure mode collapses into ErrUnavailable so call sites
// can fall back deterministically without inspecting causes.
type Adapter struct {
	generator Generator
	timeout   time.Duration
}

func NewAdapter(generator Generator, timeout time.Duration) *Adapter {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Adapter{
		generator: generator,
		timeout:   timeout,
	}
}

// NewDisabledAdapter builds an adapter with no backend. Every call reports
// ErrUnavailable without a network round trip.
func NewDisabledAdapter() *Adapter {
	return &Adapter{generator: nil}
}

// Available reports whether a backend is configured at all.
func (a *Adapter) Available() bool {
	return a.generator != nil
}

// GenerateObject asks the backend for a structured answer and parses it.
// Returns ErrUnavailable (wrapping the cause) on any failure.
func (a *Adapter) GenerateObject(ctx context.Context, systemInstruction, userPrompt string) (map[string]interface{}, error) {
	if a.generator == nil {
		return nil, fmt.Errorf("%w: no generator configured", ErrUnavailable)
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	text, err := a.generator.GenerateText(ctx, systemInstruction, userPrompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	payload, err := ExtractObject(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return payload, nil
}

// GenerateInto is GenerateObject plus a typed decode.
func (a *Adapter) GenerateInto(ctx context.Context, systemInstruction, userPrompt string, out interface{}) error {
	payload, err := a.GenerateObject(ctx, systemInstruction, userPrompt)
	if err != nil {
		return err
	}
	if err := Decode(payload, out); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}
