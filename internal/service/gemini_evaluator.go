package service

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog/log"
	"github.com/vireohq/prepview/config"
	"github.com/vireohq/prepview/internal/apperr"
	"google.golang.org/api/option"
)

type geminiEvaluator struct {
	model *genai.GenerativeModel
	cfg   *config.Config
}

// NewGeminiEvaluator builds the Gemini-backed Evaluator. With no API key
// configured the client stays nil and every call degrades to an upstream
// error, which the scoring paths absorb via their fallbacks.
func NewGeminiEvaluator(cfg *config.Config) (Evaluator, error) {
	if cfg.GeminiApiKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set. Gemini evaluator will be non-functional.")
		return &geminiEvaluator{cfg: cfg}, nil
	}
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiApiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	model := client.GenerativeModel("gemini-1.5-flash")
	return &geminiEvaluator{model: model, cfg: cfg}, nil
}

func (e *geminiEvaluator) generate(ctx context.Context, prompt string) (string, error) {
	if e.model == nil {
		return "", apperr.New(apperr.Upstream, "gemini client not initialized")
	}
	resp, err := e.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", apperr.Wrap(apperr.Upstream, err, "gemini request failed")
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", apperr.New(apperr.Upstream, "gemini returned no content")
	}
	var text string
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			text += string(txt)
		}
	}
	if text == "" {
		return "", apperr.New(apperr.Upstream, "gemini returned no text content")
	}
	return text, nil
}

func (e *geminiEvaluator) EvaluateAnswer(ctx context.Context, req EvaluationRequest) (*RawEvaluation, error) {
	raw, err := e.generate(ctx, buildEvaluationPrompt(req))
	if err != nil {
		return nil, err
	}
	var eval RawEvaluation
	if err := decodeJSONResponse(raw, &eval); err != nil {
		log.Warn().Err(err).Str("raw", raw).Msg("Failed to parse Gemini evaluation response")
		return nil, err
	}
	return &eval, nil
}

func (e *geminiEvaluator) GenerateNarrative(ctx context.Context, req NarrativeRequest) (*NarrativeResult, error) {
	raw, err := e.generate(ctx, buildNarrativePrompt(req))
	if err != nil {
		return nil, err
	}
	var narrative NarrativeResult
	if err := decodeJSONResponse(raw, &narrative); err != nil {
		log.Warn().Err(err).Msg("Failed to parse Gemini narrative response")
		return nil, err
	}
	return &narrative, nil
}

func (e *geminiEvaluator) GenerateQuestions(ctx context.Context, req QuestionGenRequest) ([]GeneratedQuestion, error) {
	raw, err := e.generate(ctx, buildQuestionPrompt(req))
	if err != nil {
		return nil, err
	}
	var questions []GeneratedQuestion
	if err := decodeJSONResponse(raw, &questions); err != nil {
		log.Warn().Err(err).Msg("Failed to parse Gemini question generation response")
		return nil, err
	}
	return questions, nil
}
