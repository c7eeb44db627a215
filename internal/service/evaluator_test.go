package service

import (
	"testing"
	"time"

	"github.com/vireohq/prepview/config"
	"github.com/vireohq/prepview/internal/apperr"
)

func TestExtractJSONBlock(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{
			name: "bare object",
			raw:  `{"relevance": 80}`,
			want: `{"relevance": 80}`,
		},
		{
			name: "fenced json block",
			raw:  "```json\n{\"relevance\": 80}\n```",
			want: `{"relevance": 80}`,
		},
		{
			name: "fence without language tag",
			raw:  "```\n{\"relevance\": 80}\n```",
			want: `{"relevance": 80}`,
		},
		{
			name: "prose around the payload",
			raw:  `Here is the evaluation you asked for: {"relevance": 80} Hope that helps!`,
			want: `{"relevance": 80}`,
		},
		{
			name: "array payload",
			raw:  `Sure! [{"text": "q1"}, {"text": "q2"}]`,
			want: `[{"text": "q1"}, {"text": "q2"}]`,
		},
		{
			name:    "no json at all",
			raw:     "I cannot answer that.",
			wantErr: true,
		},
		{
			name:    "unterminated object",
			raw:     `{"relevance": 80`,
			wantErr: true,
		},
		{
			name:    "empty response",
			raw:     "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractJSONBlock(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("got %q, want error", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("extractJSONBlock: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecodeJSONResponse(t *testing.T) {
	var eval RawEvaluation
	raw := "```json\n{\"relevance\": 82.5, \"completeness\": 75, \"technicalAccuracy\": 88, \"communication\": 79, \"feedback\": \"good depth\"}\n```"
	if err := decodeJSONResponse(raw, &eval); err != nil {
		t.Fatalf("decodeJSONResponse: %v", err)
	}
	if eval.Relevance != 82.5 || eval.Feedback != "good depth" {
		t.Errorf("decoded = %+v, want relevance 82.5 and feedback", eval)
	}
}

func TestDecodeJSONResponseUpstreamErrors(t *testing.T) {
	for _, raw := range []string{
		"no payload here",
		`{"relevance": not-a-number}`,
	} {
		var eval RawEvaluation
		err := decodeJSONResponse(raw, &eval)
		if !apperr.Is(err, apperr.Upstream) {
			t.Errorf("decodeJSONResponse(%q) = %v, want upstream error", raw, err)
		}
	}
}

func testLLMConfig(provider string) *config.Config {
	cfg := &config.Config{}
	cfg.LLM.Provider = provider
	cfg.LLM.Timeout = time.Second
	return cfg
}

func TestNewEvaluatorUnknownProvider(t *testing.T) {
	cfg := testLLMConfig("not-a-provider")
	if _, err := NewEvaluator(cfg); err == nil {
		t.Fatal("unknown provider must be rejected")
	}
}

func TestNewEvaluatorProviderSelection(t *testing.T) {
	for _, provider := range []string{"", "gemini", "openai", "OpenAI"} {
		cfg := testLLMConfig(provider)
		ev, err := NewEvaluator(cfg)
		if err != nil {
			t.Errorf("provider %q: %v", provider, err)
			continue
		}
		if ev == nil {
			t.Errorf("provider %q: nil evaluator", provider)
		}
	}
}
