package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/vireohq/prepview/config"
	"github.com/vireohq/prepview/internal/apperr"
	"github.com/vireohq/prepview/internal/model"
)

// AnalysisScope tells the behavioral collaborator whether the media covers
// one answer or the whole session.
type AnalysisScope string

const (
	ScopePerAnswer    AnalysisScope = "per_answer"
	ScopeWholeSession AnalysisScope = "whole_session"
)

// AnalysisRequest references the recorded media to analyze. MediaURL points
// at an already-uploaded recording; upload handling itself is outside this
// service.
type AnalysisRequest struct {
	MediaURL        string        `json:"media_url"`
	DurationSeconds int           `json:"duration_seconds"`
	Scope           AnalysisScope `json:"scope"`
}

type analysisResponse struct {
	Confidence      float64             `json:"confidence"`
	EyeContact      float64             `json:"eyeContact"`
	SpeechClarity   float64             `json:"speechClarity"`
	OverallScore    float64             `json:"overallScore"`
	Emotions        model.EmotionScores `json:"emotions"`
	Feedback        string              `json:"feedback"`
	FrameCount      int                 `json:"frameCount"`
	AnalysisSeconds float64             `json:"analysisDuration"`
}

// BehaviorAnalyzer is the external video-analysis collaborator.
type BehaviorAnalyzer interface {
	Analyze(ctx context.Context, req AnalysisRequest) (*model.BehavioralRecord, error)
}

type httpBehaviorAnalyzer struct {
	baseURL string
	client  *http.Client
}

// NewBehaviorAnalyzer builds the HTTP client for the behavioral-signal
// service. With no URL configured every call reports upstream failure,
// which callers treat as "no measurement".
func NewBehaviorAnalyzer(cfg *config.Config) BehaviorAnalyzer {
	if cfg.Behavior.ApiURL == "" {
		log.Warn().Msg("BEHAVIOR_API_URL is not set. Behavioral analysis will be skipped.")
	}
	return &httpBehaviorAnalyzer{
		baseURL: cfg.Behavior.ApiURL,
		client:  &http.Client{Timeout: cfg.Behavior.Timeout},
	}
}

func (a *httpBehaviorAnalyzer) Analyze(ctx context.Context, req AnalysisRequest) (*model.BehavioralRecord, error) {
	if a.baseURL == "" {
		return nil, apperr.New(apperr.Upstream, "behavior analyzer not configured")
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, err, "could not encode analysis request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/analyze", bytes.NewReader(body))
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, err, "could not build analysis request")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	started := time.Now()
	resp, err := a.client.Do(httpReq)
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, err, "behavior analyzer unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperr.New(apperr.Upstream, "behavior analyzer returned status %d", resp.StatusCode)
	}

	var parsed analysisResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, apperr.Wrap(apperr.Upstream, err, "malformed behavior analyzer response")
	}
	if err := validateScore(parsed.OverallScore); err != nil {
		return nil, apperr.Wrap(apperr.Upstream, err, "behavior analyzer returned invalid overall score")
	}

	log.Info().
		Dur("latency", time.Since(started)).
		Int("frames", parsed.FrameCount).
		Float64("overall", parsed.OverallScore).
		Msg("Behavioral analysis completed")

	return &model.BehavioralRecord{
		Present:       true,
		Confidence:    parsed.Confidence,
		EyeContact:    parsed.EyeContact,
		SpeechClarity: parsed.SpeechClarity,
		OverallScore:  parsed.OverallScore,
		Emotions:      parsed.Emotions,
		Feedback:      parsed.Feedback,
	}, nil
}

func validateScore(v float64) error {
	if v < 0 || v > 100 {
		return fmt.Errorf("score %.2f out of range [0,100]", v)
	}
	return nil
}
