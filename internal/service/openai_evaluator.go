package service

import (
	"context"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"
	"github.com/vireohq/prepview/config"
	"github.com/vireohq/prepview/internal/apperr"
)

type openAIEvaluator struct {
	client *openai.Client
	model  string
}

// NewOpenAIEvaluator builds the OpenAI-backed Evaluator, selected when
// LLM_PROVIDER=openai.
func NewOpenAIEvaluator(cfg *config.Config) (Evaluator, error) {
	if cfg.OpenAIApiKey == "" {
		log.Warn().Msg("OPENAI_API_KEY is not set. OpenAI evaluator will be non-functional.")
		return &openAIEvaluator{}, nil
	}
	return &openAIEvaluator{
		client: openai.NewClient(cfg.OpenAIApiKey),
		model:  openai.GPT4oMini,
	}, nil
}

func (e *openAIEvaluator) chat(ctx context.Context, prompt string) (string, error) {
	if e.client == nil {
		return "", apperr.New(apperr.Upstream, "openai client not initialized")
	}
	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return "", apperr.Wrap(apperr.Upstream, err, "openai request failed")
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", apperr.New(apperr.Upstream, "openai returned no content")
	}
	return resp.Choices[0].Message.Content, nil
}

// chatFreeform is chat without the JSON-object response format, used where
// the payload is a JSON array (the response_format knob rejects arrays).
func (e *openAIEvaluator) chatFreeform(ctx context.Context, prompt string) (string, error) {
	if e.client == nil {
		return "", apperr.New(apperr.Upstream, "openai client not initialized")
	}
	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", apperr.Wrap(apperr.Upstream, err, "openai request failed")
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", apperr.New(apperr.Upstream, "openai returned no content")
	}
	return resp.Choices[0].Message.Content, nil
}

func (e *openAIEvaluator) EvaluateAnswer(ctx context.Context, req EvaluationRequest) (*RawEvaluation, error) {
	raw, err := e.chat(ctx, buildEvaluationPrompt(req))
	if err != nil {
		return nil, err
	}
	var eval RawEvaluation
	if err := decodeJSONResponse(raw, &eval); err != nil {
		log.Warn().Err(err).Str("raw", raw).Msg("Failed to parse OpenAI evaluation response")
		return nil, err
	}
	return &eval, nil
}

func (e *openAIEvaluator) GenerateNarrative(ctx context.Context, req NarrativeRequest) (*NarrativeResult, error) {
	raw, err := e.chat(ctx, buildNarrativePrompt(req))
	if err != nil {
		return nil, err
	}
	var narrative NarrativeResult
	if err := decodeJSONResponse(raw, &narrative); err != nil {
		log.Warn().Err(err).Msg("Failed to parse OpenAI narrative response")
		return nil, err
	}
	return &narrative, nil
}

func (e *openAIEvaluator) GenerateQuestions(ctx context.Context, req QuestionGenRequest) ([]GeneratedQuestion, error) {
	raw, err := e.chatFreeform(ctx, buildQuestionPrompt(req))
	if err != nil {
		return nil, err
	}
	var questions []GeneratedQuestion
	if err := decodeJSONResponse(raw, &questions); err != nil {
		log.Warn().Err(err).Msg("Failed to parse OpenAI question generation response")
		return nil, err
	}
	return questions, nil
}
