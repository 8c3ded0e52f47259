package genai

import (
	"testing"
)

func TestExtractObject(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantKey string
		wantErr bool
	}{
		{
			name:    "plain json",
			text:    `{"question": "왜 그 방식을 선택했나요?"}`,
			wantKey: "question",
		},
		{
			name:    "fenced json",
			text:    "```json\n{\"question\": \"설명해 주세요\"}\n```",
			wantKey: "question",
		},
		{
			name:    "fenced without language tag",
			text:    "```\n{\"score_delta\": {\"logic\": 1}}\n```",
			wantKey: "score_delta",
		},
		{
			name:    "json embedded in prose",
			text:    "Here is the result:\n{\"rankLabel\": \"상위 8%\"}\nHope that helps.",
			wantKey: "rankLabel",
		},
		{
			name:    "no json at all",
			text:    "I cannot answer that.",
			wantErr: true,
		},
		{
			name:    "broken json",
			text:    `{"question": `,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, err := ExtractObject(tt.text)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got payload %v", payload)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if _, ok := payload[tt.wantKey]; !ok {
				t.Errorf("expected key %q in payload %v", tt.wantKey, payload)
			}
		})
	}
}

func TestDecode(t *testing.T) {
	type decision struct {
		Question   string  `json:"question"`
		ShouldStop bool    `json:"should_stop"`
		Score      float64 `json:"score"`
	}

	payload := map[string]interface{}{
		"question":    "가장 어려웠던 결정은 무엇이었나요?",
		"should_stop": true,
		"score":       8.5,
	}

	var out decision
	if err := Decode(payload, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Question == "" || !out.ShouldStop || out.Score != 8.5 {
		t.Errorf("unexpected decode result: %+v", out)
	}

	// A type mismatch must surface as an error, not a zero value.
	bad := map[string]interface{}{"score": "not a number"}
	if err := Decode(bad, &out); err == nil {
		t.Error("expected error on type mismatch")
	}
}
