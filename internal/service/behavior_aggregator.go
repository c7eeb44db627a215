package service

import (
	"fmt"
	"strings"

	"github.com/vireohq/prepview/internal/model"
)

// BehaviorSummary is the session-level aggregation of per-answer behavioral
// measurements. DerivedFromNoData marks the fixed fallback used when no
// valid measurement exists.
type BehaviorSummary struct {
	AverageConfidence    float64             `json:"average_confidence"`
	AverageEyeContact    float64             `json:"average_eye_contact"`
	AverageSpeechClarity float64             `json:"average_speech_clarity"`
	AverageOverallScore  float64             `json:"average_overall_score"`
	EmotionMeans         model.EmotionScores `json:"emotion_means"`
	DominantEmotion      string              `json:"dominant_emotion"`
	Feedback             string              `json:"feedback"`
	ValidCount           int                 `json:"valid_count"`
	DerivedFromNoData    bool                `json:"derived_from_no_data"`
}

// BehaviorAggregator merges per-answer behavioral measurements into
// session-level statistics. It never fails: with no usable data it returns
// mid-range defaults flagged as such.
type BehaviorAggregator interface {
	Aggregate(records []model.BehavioralRecord) BehaviorSummary
}

type behaviorAggregator struct{}

func NewBehaviorAggregator() BehaviorAggregator {
	return &behaviorAggregator{}
}

func (a *behaviorAggregator) Aggregate(records []model.BehavioralRecord) BehaviorSummary {
	var valid []model.BehavioralRecord
	for _, r := range records {
		if r.OverallScore > 0 {
			valid = append(valid, r)
		}
	}
	if len(valid) == 0 {
		return noDataSummary()
	}

	n := float64(len(valid))
	var summary BehaviorSummary
	for _, r := range valid {
		summary.AverageConfidence += r.Confidence
		summary.AverageEyeContact += r.EyeContact
		summary.AverageSpeechClarity += r.SpeechClarity
		summary.AverageOverallScore += r.OverallScore
		summary.EmotionMeans.Happy += r.Emotions.Happy
		summary.EmotionMeans.Sad += r.Emotions.Sad
		summary.EmotionMeans.Angry += r.Emotions.Angry
		summary.EmotionMeans.Fearful += r.Emotions.Fearful
		summary.EmotionMeans.Surprised += r.Emotions.Surprised
		summary.EmotionMeans.Disgusted += r.Emotions.Disgusted
		summary.EmotionMeans.Neutral += r.Emotions.Neutral
	}
	summary.AverageConfidence /= n
	summary.AverageEyeContact /= n
	summary.AverageSpeechClarity /= n
	summary.AverageOverallScore /= n
	summary.EmotionMeans.Happy /= n
	summary.EmotionMeans.Sad /= n
	summary.EmotionMeans.Angry /= n
	summary.EmotionMeans.Fearful /= n
	summary.EmotionMeans.Surprised /= n
	summary.EmotionMeans.Disgusted /= n
	summary.EmotionMeans.Neutral /= n

	summary.ValidCount = len(valid)
	summary.DominantEmotion = dominantEmotion(summary.EmotionMeans)
	summary.Feedback = synthesizeFeedback(summary)
	return summary
}

// noDataSummary is the fixed fallback when every measurement is missing or
// has a zero overall score.
func noDataSummary() BehaviorSummary {
	return BehaviorSummary{
		AverageConfidence:    65,
		AverageEyeContact:    60,
		AverageSpeechClarity: 65,
		AverageOverallScore:  60,
		EmotionMeans:         model.EmotionScores{Neutral: 70, Happy: 15, Surprised: 5, Sad: 4, Fearful: 3, Angry: 2, Disgusted: 1},
		DominantEmotion:      "neutral",
		Feedback:             "No behavioral data was captured for this session; default mid-range values are shown.",
		ValidCount:           0,
		DerivedFromNoData:    true,
	}
}

func dominantEmotion(e model.EmotionScores) string {
	channels := []struct {
		name  string
		value float64
	}{
		{"happy", e.Happy},
		{"sad", e.Sad},
		{"angry", e.Angry},
		{"fearful", e.Fearful},
		{"surprised", e.Surprised},
		{"disgusted", e.Disgusted},
		{"neutral", e.Neutral},
	}
	best := channels[0]
	for _, c := range channels[1:] {
		if c.value > best.value {
			best = c
		}
	}
	return best.name
}

func metricRemark(name string, value float64) string {
	switch {
	case value >= 80:
		return fmt.Sprintf("%s is excellent", name)
	case value >= 60:
		return fmt.Sprintf("%s is good", name)
	default:
		return fmt.Sprintf("%s needs improvement", name)
	}
}

func synthesizeFeedback(s BehaviorSummary) string {
	parts := []string{
		metricRemark("Confidence", s.AverageConfidence),
		metricRemark("eye contact", s.AverageEyeContact),
		metricRemark("speech clarity", s.AverageSpeechClarity),
	}
	sentence := strings.Join(parts, ", ") + "."

	switch s.DominantEmotion {
	case "fearful", "sad":
		sentence += " You appeared " + s.DominantEmotion + " during much of the interview; practicing mock interviews can help you feel more at ease."
	default:
		sentence += " Your overall demeanor came across as " + s.DominantEmotion + ", which works in your favor."
	}
	return sentence
}
