package model

import (
	"time"

	"gorm.io/gorm"
)

// Evaluation holds the AI scoring of one answer. Overall is always the
// rounded mean of the four sub-scores, never the collaborator's own figure.
type Evaluation struct {
	Relevance         int      `json:"relevance"`
	Completeness      int      `json:"completeness"`
	TechnicalAccuracy int      `json:"technical_accuracy"`
	Communication     int      `json:"communication"`
	Overall           int      `json:"overall"`
	Feedback          string   `gorm:"type:text" json:"feedback"`
	Suggestions       []string `gorm:"serializer:json" json:"suggestions,omitempty"`
}

// EmotionScores is the fixed 7-channel per-answer emotion distribution.
type EmotionScores struct {
	Happy     float64 `json:"happy"`
	Sad       float64 `json:"sad"`
	Angry     float64 `json:"angry"`
	Fearful   float64 `json:"fearful"`
	Surprised float64 `json:"surprised"`
	Disgusted float64 `json:"disgusted"`
	Neutral   float64 `json:"neutral"`
}

// BehavioralRecord is the optional video-derived measurement attached to an
// answer. Present distinguishes "no measurement" from an all-zero one.
type BehavioralRecord struct {
	Present       bool          `json:"present"`
	Confidence    float64       `json:"confidence"`
	EyeContact    float64       `json:"eye_contact"`
	SpeechClarity float64       `json:"speech_clarity"`
	OverallScore  float64       `json:"overall_score"`
	Emotions      EmotionScores `gorm:"embedded;embeddedPrefix:emo_" json:"emotions"`
	Feedback      string        `gorm:"type:text" json:"feedback,omitempty"`
}

const (
	MinAnswerLen = 10
	MaxAnswerLen = 5000
)

type Answer struct {
	ID              uint             `gorm:"primarykey" json:"id"`
	SessionID       string           `gorm:"type:uuid;not null;uniqueIndex:idx_answer_session_user_question" json:"session_id"`
	UserID          string           `gorm:"not null;uniqueIndex:idx_answer_session_user_question" json:"user_id"`
	QuestionNumber  int              `gorm:"not null;uniqueIndex:idx_answer_session_user_question" json:"question_number"`
	Text            string           `gorm:"type:text;not null" json:"text"`
	DurationSeconds int              `json:"duration_seconds"`
	Evaluation      Evaluation       `gorm:"embedded;embeddedPrefix:eval_" json:"evaluation"`
	Behavioral      BehavioralRecord `gorm:"embedded;embeddedPrefix:beh_" json:"behavioral"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
	DeletedAt       gorm.DeletedAt   `gorm:"index" json:"-"`
}
