package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/vireohq/prepview/config"
	"github.com/vireohq/prepview/internal/apperr"
)

// EvaluationRequest carries everything the text-evaluation collaborator
// needs to score one answer against one question.
type EvaluationRequest struct {
	QuestionText    string
	AnswerText      string
	ExpectedHint    string
	SubjectAreas    []string
	ExperienceLevel string
}

// RawEvaluation is the collaborator's response before consistency
// enforcement. Scores are float64 because upstream models are sloppy about
// integers; the enforcer validates and normalizes them.
type RawEvaluation struct {
	Relevance         float64  `json:"relevance"`
	Completeness      float64  `json:"completeness"`
	TechnicalAccuracy float64  `json:"technicalAccuracy"`
	Communication     float64  `json:"communication"`
	Overall           float64  `json:"overall"`
	Feedback          string   `json:"feedback"`
	Suggestions       []string `json:"suggestions"`
}

// TranscriptEntry is one question/answer/score row of the holistic
// narrative request.
type TranscriptEntry struct {
	QuestionNumber int    `json:"questionNumber"`
	QuestionText   string `json:"question"`
	AnswerText     string `json:"answer"`
	OverallScore   int    `json:"overallScore"`
}

type NarrativeRequest struct {
	Position          string
	ExperienceLevel   string
	Transcript        []TranscriptEntry
	BehavioralSummary *BehaviorSummary
}

// NarrativeResult covers only the non-numeric fields of the final report.
// Overall score, grade and passed are never taken from the collaborator.
type NarrativeResult struct {
	Strengths         []string `json:"strengths"`
	Weaknesses        []string `json:"weaknesses"`
	Recommendations   []string `json:"recommendations"`
	NarrativeFeedback string   `json:"narrativeFeedback"`
}

type QuestionGenRequest struct {
	Position        string
	ExperienceLevel string
	SubjectAreas    []string
	Count           int
}

type GeneratedQuestion struct {
	Text         string `json:"text"`
	Category     string `json:"category"`
	ExpectedHint string `json:"expectedHint"`
}

// Evaluator is the external text-generation collaborator: per-answer
// scoring, holistic narrative, and question generation. Implementations are
// selected by config (gemini or openai).
type Evaluator interface {
	EvaluateAnswer(ctx context.Context, req EvaluationRequest) (*RawEvaluation, error)
	GenerateNarrative(ctx context.Context, req NarrativeRequest) (*NarrativeResult, error)
	GenerateQuestions(ctx context.Context, req QuestionGenRequest) ([]GeneratedQuestion, error)
}

// NewEvaluator picks the provider implementation from config.
func NewEvaluator(cfg *config.Config) (Evaluator, error) {
	switch strings.ToLower(cfg.LLM.Provider) {
	case "", "gemini":
		return NewGeminiEvaluator(cfg)
	case "openai":
		return NewOpenAIEvaluator(cfg)
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.LLM.Provider)
	}
}

// extractJSONBlock pulls the first JSON object or array out of free-form
// model output. Models wrap payloads in markdown fences or prose; the
// contract is the embedded JSON, nothing around it.
func extractJSONBlock(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if fence := strings.Index(s, "```"); fence != -1 {
		rest := s[fence+3:]
		rest = strings.TrimPrefix(rest, "json")
		if end := strings.Index(rest, "```"); end != -1 {
			s = strings.TrimSpace(rest[:end])
		}
	}
	start := strings.IndexAny(s, "{[")
	if start == -1 {
		return "", fmt.Errorf("no JSON payload in response")
	}
	var closer byte = '}'
	if s[start] == '[' {
		closer = ']'
	}
	end := strings.LastIndexByte(s, closer)
	if end <= start {
		return "", fmt.Errorf("unterminated JSON payload in response")
	}
	return s[start : end+1], nil
}

// decodeJSONResponse parses the embedded JSON payload into out. Parse
// failures are upstream errors: the collaborator broke its contract.
func decodeJSONResponse(raw string, out any) error {
	block, err := extractJSONBlock(raw)
	if err != nil {
		return apperr.Wrap(apperr.Upstream, err, "malformed collaborator response")
	}
	if err := json.Unmarshal([]byte(block), out); err != nil {
		return apperr.Wrap(apperr.Upstream, err, "collaborator response is not valid JSON")
	}
	return nil
}
