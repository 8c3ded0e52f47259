package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

type GeminiParts struct {
	Text string `json:"text"`
}

type GeminiContent struct {
	Parts []*GeminiParts `json:"parts"`
	Role  string         `json:"role,omitempty"`
}

type GeminiGenerationConfig struct {
	ResponseMimeType string `json:"response_mime_type,omitempty"`
}

type GeminiRequest struct {
	Contents          []*GeminiContent        `json:"contents"`
	SystemInstruction *GeminiContent          `json:"system_instruction,omitempty"`
	GenerationConfig  *GeminiGenerationConfig `json:"generationConfig,omitempty"`
}

type GeminiCandidate struct {
	Content *GeminiContent `json:"content"`
}

type GeminiResponse struct {
	Candidates []*GeminiCandidate `json:"candidates"`
}

// GeminiGenerator calls the Generative Language REST API directly.
type GeminiGenerator struct {
	apiKey string
	model  string
	client *http.Client
}

func NewGeminiGenerator(apiKey, model string) *GeminiGenerator {
	return &GeminiGenerator{
		apiKey: apiKey,
		model:  model,
		client: &http.Client{},
	}
}

func (g *GeminiGenerator) GenerateText(ctx context.Context, systemInstruction, userPrompt string) (string, error) {
	payload := GeminiRequest{
		Contents: []*GeminiContent{
			{
				Parts: []*GeminiParts{{Text: userPrompt}},
				Role:  "user",
			},
		},
		SystemInstruction: &GeminiContent{
			Parts: []*GeminiParts{{Text: systemInstruction}},
		},
		GenerationConfig: &GeminiGenerationConfig{
			ResponseMimeType: "application/json",
		},
	}
	payloadJson, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf(
		"https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent",
		g.model,
	)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(payloadJson))
	if err != nil {
		return "", err
	}

	req.Header.Set("x-goog-api-key", g.apiKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return "", err
	}

	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf(
			"status error, got status %d. with response body %s",
			res.StatusCode,
			string(resBody),
		)
	}

	var geminiRes GeminiResponse
	if err := json.Unmarshal(resBody, &geminiRes); err != nil {
		return "", err
	}

	if len(geminiRes.Candidates) == 0 ||
		geminiRes.Candidates[0].Content == nil ||
		len(geminiRes.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini response did not contain text")
	}

	return geminiRes.Candidates[0].Content.Parts[0].Text, nil
}
