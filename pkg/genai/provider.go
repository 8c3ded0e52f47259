package genai

import (
	"context"
	"errors"
)

// ErrUnavailable signals that the generative backend could not produce a
// usable structured answer: missing credential, network/quota failure, or
// unparseable output. Callers must treat it as "use the fallback", never as
// a reason to fail the enclosing operation.
var ErrUnavailable = errors.New("generation unavailable")

// Generator is the raw text backend. It returns the model's text output for
// a system instruction plus a context prompt.
type Generator interface {
	GenerateText(ctx context.Context, systemInstruction, userPrompt string) (string, error)
}
