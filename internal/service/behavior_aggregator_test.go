package service

import (
	"math"
	"strings"
	"testing"

	"github.com/vireohq/prepview/internal/model"
)

func TestAggregateSkipsInvalidMeasurements(t *testing.T) {
	agg := NewBehaviorAggregator()

	records := []model.BehavioralRecord{
		{Present: true, Confidence: 80, EyeContact: 70, SpeechClarity: 90, OverallScore: 80,
			Emotions: model.EmotionScores{Happy: 60, Neutral: 40}},
		{Present: true, Confidence: 0, EyeContact: 0, SpeechClarity: 0, OverallScore: 0}, // failed analysis, excluded
		{Present: true, Confidence: 60, EyeContact: 50, SpeechClarity: 70, OverallScore: 60,
			Emotions: model.EmotionScores{Happy: 20, Neutral: 80}},
	}

	summary := agg.Aggregate(records)

	if summary.DerivedFromNoData {
		t.Fatal("summary must not be flagged as no-data when valid measurements exist")
	}
	if summary.ValidCount != 2 {
		t.Errorf("ValidCount = %d, want 2", summary.ValidCount)
	}
	if summary.AverageOverallScore != 70 {
		t.Errorf("AverageOverallScore = %v, want 70", summary.AverageOverallScore)
	}
	if summary.AverageConfidence != 70 {
		t.Errorf("AverageConfidence = %v, want 70", summary.AverageConfidence)
	}
	if summary.AverageEyeContact != 60 {
		t.Errorf("AverageEyeContact = %v, want 60", summary.AverageEyeContact)
	}
	if summary.EmotionMeans.Happy != 40 || summary.EmotionMeans.Neutral != 60 {
		t.Errorf("EmotionMeans happy/neutral = %v/%v, want 40/60",
			summary.EmotionMeans.Happy, summary.EmotionMeans.Neutral)
	}
	if summary.DominantEmotion != "neutral" {
		t.Errorf("DominantEmotion = %q, want neutral", summary.DominantEmotion)
	}
}

func TestAggregateNoData(t *testing.T) {
	agg := NewBehaviorAggregator()

	for _, records := range [][]model.BehavioralRecord{
		nil,
		{},
		{{Present: true, OverallScore: 0}}, // every measurement invalid
	} {
		summary := agg.Aggregate(records)
		if !summary.DerivedFromNoData {
			t.Fatal("expected no-data fallback")
		}
		if summary.ValidCount != 0 {
			t.Errorf("ValidCount = %d, want 0", summary.ValidCount)
		}
		if summary.AverageConfidence != 65 || summary.AverageEyeContact != 60 ||
			summary.AverageSpeechClarity != 65 || summary.AverageOverallScore != 60 {
			t.Errorf("fallback averages = %v/%v/%v/%v, want 65/60/65/60",
				summary.AverageConfidence, summary.AverageEyeContact,
				summary.AverageSpeechClarity, summary.AverageOverallScore)
		}
		if summary.DominantEmotion != "neutral" {
			t.Errorf("fallback DominantEmotion = %q, want neutral", summary.DominantEmotion)
		}
		if summary.Feedback == "" {
			t.Error("fallback must explain itself in Feedback")
		}
	}
}

func TestDominantEmotion(t *testing.T) {
	tests := []struct {
		name     string
		emotions model.EmotionScores
		want     string
	}{
		{"happy wins", model.EmotionScores{Happy: 55, Neutral: 40, Sad: 5}, "happy"},
		{"fearful wins", model.EmotionScores{Fearful: 48, Neutral: 45, Happy: 7}, "fearful"},
		{"all zero defaults to first channel", model.EmotionScores{}, "happy"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := dominantEmotion(tt.emotions); got != tt.want {
				t.Errorf("dominantEmotion = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSynthesizeFeedbackThresholds(t *testing.T) {
	tests := []struct {
		value float64
		want  string
	}{
		{85, "excellent"},
		{80, "excellent"},
		{79.9, "good"},
		{60, "good"},
		{59.9, "needs improvement"},
		{0, "needs improvement"},
	}
	for _, tt := range tests {
		remark := metricRemark("Confidence", tt.value)
		if !strings.Contains(remark, tt.want) {
			t.Errorf("metricRemark(%v) = %q, want to contain %q", tt.value, remark, tt.want)
		}
	}
}

func TestSynthesizeFeedbackTone(t *testing.T) {
	cautious := synthesizeFeedback(BehaviorSummary{DominantEmotion: "fearful"})
	if !strings.Contains(cautious, "practicing mock interviews") {
		t.Errorf("fearful feedback should be cautionary, got %q", cautious)
	}
	affirming := synthesizeFeedback(BehaviorSummary{DominantEmotion: "happy", AverageConfidence: 82})
	if !strings.Contains(affirming, "works in your favor") {
		t.Errorf("happy feedback should be affirming, got %q", affirming)
	}
}

func TestAggregateMeansAreFinite(t *testing.T) {
	agg := NewBehaviorAggregator()
	summary := agg.Aggregate([]model.BehavioralRecord{
		{Present: true, Confidence: 71.5, EyeContact: 66.2, SpeechClarity: 58.9, OverallScore: 64.3,
			Emotions: model.EmotionScores{Neutral: 100}},
	})
	for name, v := range map[string]float64{
		"confidence": summary.AverageConfidence,
		"eyeContact": summary.AverageEyeContact,
		"clarity":    summary.AverageSpeechClarity,
		"overall":    summary.AverageOverallScore,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Errorf("%s = %v, want a finite value", name, v)
		}
	}
}
