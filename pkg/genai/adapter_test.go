package genai

import (
	"context"
	"errors"
	"testing"
)

type stubGenerator struct {
	text string
	err  error
}

func (s *stubGenerator) GenerateText(ctx context.Context, systemInstruction, userPrompt string) (string, error) {
	return s.text, s.err
}

func TestAdapterDisabled(t *testing.T) {
	adapter := NewDisabledAdapter()

	if adapter.Available() {
		t.Error("disabled adapter reports available")
	}
	_, err := adapter.GenerateObject(context.Background(), "sys", "user")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}

func TestAdapterBackendError(t *testing.T) {
	adapter := NewAdapter(&stubGenerator{err: errors.New("quota exceeded")}, 0)

	_, err := adapter.GenerateObject(context.Background(), "sys", "user")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("backend error must collapse into ErrUnavailable, got %v", err)
	}
}

func TestAdapterMalformedOutput(t *testing.T) {
	adapter := NewAdapter(&stubGenerator{text: "sorry, no json here"}, 0)

	_, err := adapter.GenerateObject(context.Background(), "sys", "user")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("parse failure must collapse into ErrUnavailable, got %v", err)
	}
}

func TestAdapterGenerateInto(t *testing.T) {
	adapter := NewAdapter(&stubGenerator{text: "```json\n{\"question\": \"협업 갈등을 어떻게 풀었나요?\", \"should_stop\": false}\n```"}, 0)

	var out struct {
		Question   string `json:"question"`
		ShouldStop bool   `json:"should_stop"`
	}
	if err := adapter.GenerateInto(context.Background(), "sys", "user", &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Question == "" || out.ShouldStop {
		t.Errorf("unexpected decode result: %+v", out)
	}
}
