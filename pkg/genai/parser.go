package genai

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ExtractObject pulls the first well-formed JSON object out of model output.
// Models wrap JSON in markdown fences or prose despite instructions, so after
// cleaning fences we fall back to the outermost {...} slice of the text.
func ExtractObject(text string) (map[string]interface{}, error) {
	cleaned := bytes.TrimSpace([]byte(text))
	cleaned = bytes.TrimPrefix(cleaned, []byte("```json"))
	cleaned = bytes.TrimPrefix(cleaned, []byte("```"))
	cleaned = bytes.TrimSuffix(cleaned, []byte("```"))
	cleaned = bytes.TrimSpace(cleaned)

	var payload map[string]interface{}
	if err := json.Unmarshal(cleaned, &payload); err == nil {
		return payload, nil
	}

	start := bytes.IndexByte(cleaned, '{')
	end := bytes.LastIndexByte(cleaned, '}')
	if start == -1 || end == -1 || end <= start {
		return nil, fmt.Errorf("no JSON object found in output")
	}
	if err := json.Unmarshal(cleaned[start:end+1], &payload); err != nil {
		return nil, fmt.Errorf("parse error: %w | raw: %s", err, string(cleaned[start:end+1]))
	}
	return payload, nil
}

// Decode remaps a loosely-typed payload onto a typed decision struct via a
// JSON round trip. A type mismatch surfaces as an error so the caller can
// treat the whole payload as unusable.
func Decode(payload map[string]interface{}, out interface{}) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}
