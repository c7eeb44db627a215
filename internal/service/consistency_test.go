package service

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/vireohq/prepview/config"
	"github.com/vireohq/prepview/internal/apperr"
)

func newTestEnforcer(mock *mockEvaluator) ConsistencyEnforcer {
	cfg := &config.Config{}
	cfg.LLM.Timeout = time.Second
	return NewConsistencyEnforcer(mock, cfg)
}

const longAnswer = "A reasonably detailed answer that easily clears the short-answer threshold."

func TestConsistencyEnforcerRecomputesOverall(t *testing.T) {
	mock := &mockEvaluator{
		evaluateFn: func(ctx context.Context, req EvaluationRequest) (*RawEvaluation, error) {
			return &RawEvaluation{
				Relevance:         90,
				Completeness:      85,
				TechnicalAccuracy: 88,
				Communication:     82,
				Overall:           12, // self-reported figure must be ignored
				Feedback:          "solid",
				Suggestions:       []string{"add an example"},
			}, nil
		},
	}
	enforcer := newTestEnforcer(mock)

	eval := enforcer.Evaluate(context.Background(), EvaluationRequest{AnswerText: longAnswer})

	if eval.Overall != 86 {
		t.Errorf("Overall = %d, want 86 (rounded mean of sub-scores)", eval.Overall)
	}
	if eval.Relevance != 90 || eval.Completeness != 85 || eval.TechnicalAccuracy != 88 || eval.Communication != 82 {
		t.Errorf("sub-scores = %d/%d/%d/%d, want 90/85/88/82",
			eval.Relevance, eval.Completeness, eval.TechnicalAccuracy, eval.Communication)
	}
	if eval.Feedback != "solid" {
		t.Errorf("Feedback = %q, want pass-through", eval.Feedback)
	}
}

func TestConsistencyEnforcerShortAnswerCaps(t *testing.T) {
	mock := &mockEvaluator{
		evaluateFn: func(ctx context.Context, req EvaluationRequest) (*RawEvaluation, error) {
			return &RawEvaluation{Relevance: 95, Completeness: 95, TechnicalAccuracy: 95, Communication: 95}, nil
		},
	}
	enforcer := newTestEnforcer(mock)

	eval := enforcer.Evaluate(context.Background(), EvaluationRequest{AnswerText: "short reply"})

	if eval.Relevance != 40 || eval.Completeness != 30 || eval.TechnicalAccuracy != 25 || eval.Communication != 35 {
		t.Errorf("capped sub-scores = %d/%d/%d/%d, want 40/30/25/35",
			eval.Relevance, eval.Completeness, eval.TechnicalAccuracy, eval.Communication)
	}
	if want := roundedMean(40, 30, 25, 35); eval.Overall != want {
		t.Errorf("Overall = %d, want %d", eval.Overall, want)
	}
}

func TestConsistencyEnforcerCapsLeaveLowScoresAlone(t *testing.T) {
	mock := &mockEvaluator{
		evaluateFn: func(ctx context.Context, req EvaluationRequest) (*RawEvaluation, error) {
			return &RawEvaluation{Relevance: 20, Completeness: 10, TechnicalAccuracy: 5, Communication: 15}, nil
		},
	}
	enforcer := newTestEnforcer(mock)

	eval := enforcer.Evaluate(context.Background(), EvaluationRequest{AnswerText: "short reply"})

	if eval.Relevance != 20 || eval.Completeness != 10 || eval.TechnicalAccuracy != 5 || eval.Communication != 15 {
		t.Errorf("sub-scores = %d/%d/%d/%d, caps must not raise scores",
			eval.Relevance, eval.Completeness, eval.TechnicalAccuracy, eval.Communication)
	}
}

func TestConsistencyEnforcerFallback(t *testing.T) {
	tests := []struct {
		name string
		fn   func(ctx context.Context, req EvaluationRequest) (*RawEvaluation, error)
	}{
		{
			name: "collaborator error",
			fn: func(ctx context.Context, req EvaluationRequest) (*RawEvaluation, error) {
				return nil, apperr.New(apperr.Upstream, "model unavailable")
			},
		},
		{
			name: "score above range",
			fn: func(ctx context.Context, req EvaluationRequest) (*RawEvaluation, error) {
				return &RawEvaluation{Relevance: 150, Completeness: 80, TechnicalAccuracy: 80, Communication: 80}, nil
			},
		},
		{
			name: "negative score",
			fn: func(ctx context.Context, req EvaluationRequest) (*RawEvaluation, error) {
				return &RawEvaluation{Relevance: 80, Completeness: -1, TechnicalAccuracy: 80, Communication: 80}, nil
			},
		},
		{
			name: "NaN score",
			fn: func(ctx context.Context, req EvaluationRequest) (*RawEvaluation, error) {
				return &RawEvaluation{Relevance: 80, Completeness: 80, TechnicalAccuracy: math.NaN(), Communication: 80}, nil
			},
		},
		{
			name: "infinite score",
			fn: func(ctx context.Context, req EvaluationRequest) (*RawEvaluation, error) {
				return &RawEvaluation{Relevance: 80, Completeness: 80, TechnicalAccuracy: 80, Communication: math.Inf(1)}, nil
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enforcer := newTestEnforcer(&mockEvaluator{evaluateFn: tt.fn})
			eval := enforcer.Evaluate(context.Background(), EvaluationRequest{AnswerText: longAnswer})

			if eval.Relevance != 30 || eval.Completeness != 28 || eval.TechnicalAccuracy != 22 || eval.Communication != 32 {
				t.Errorf("fallback sub-scores = %d/%d/%d/%d, want 30/28/22/32",
					eval.Relevance, eval.Completeness, eval.TechnicalAccuracy, eval.Communication)
			}
			if eval.Overall != 28 {
				t.Errorf("fallback Overall = %d, want 28", eval.Overall)
			}
			if eval.Feedback == "" {
				t.Error("fallback must explain itself in Feedback")
			}
		})
	}
}

func TestConsistencyEnforcerTimeoutContext(t *testing.T) {
	mock := &mockEvaluator{
		evaluateFn: func(ctx context.Context, req EvaluationRequest) (*RawEvaluation, error) {
			if _, ok := ctx.Deadline(); !ok {
				t.Error("collaborator call must carry a deadline")
			}
			return &RawEvaluation{Relevance: 80, Completeness: 80, TechnicalAccuracy: 80, Communication: 80}, nil
		},
	}
	enforcer := newTestEnforcer(mock)
	enforcer.Evaluate(context.Background(), EvaluationRequest{AnswerText: longAnswer})
	if mock.calls != 1 {
		t.Fatalf("collaborator calls = %d, want 1", mock.calls)
	}
}
