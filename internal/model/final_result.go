package model

import (
	"time"

	"gorm.io/gorm"
)

// CategoryScores are the five normalized 0-100 dimensions feeding the grade.
type CategoryScores struct {
	TechnicalKnowledge int `json:"technical_knowledge"`
	Communication      int `json:"communication"`
	ProblemSolving     int `json:"problem_solving"`
	Confidence         int `json:"confidence"`
	BehavioralSignal   int `json:"behavioral_signal"`
}

// FinalResult is the single graded report for a completed session. The
// (session_id, user_id) unique index is the idempotency guard: at most one
// result per session and owner, enforced by the database.
type FinalResult struct {
	ID                   uint           `gorm:"primarykey" json:"id"`
	SessionID            string         `gorm:"type:uuid;not null;uniqueIndex:idx_result_session_user" json:"session_id"`
	UserID               string         `gorm:"not null;uniqueIndex:idx_result_session_user" json:"user_id"`
	OverallScore         int            `gorm:"not null" json:"overall_score"`
	Categories           CategoryScores `gorm:"embedded;embeddedPrefix:cat_" json:"categories"`
	Grade                string         `gorm:"not null" json:"grade"`
	Passed               bool           `gorm:"not null" json:"passed"`
	Strengths            []string       `gorm:"serializer:json" json:"strengths,omitempty"`
	Weaknesses           []string       `gorm:"serializer:json" json:"weaknesses,omitempty"`
	Recommendations      []string       `gorm:"serializer:json" json:"recommendations,omitempty"`
	NarrativeFeedback    string         `gorm:"type:text" json:"narrative_feedback,omitempty"`
	AnsweredCount        int            `gorm:"not null" json:"answered_count"`
	TotalQuestions       int            `gorm:"not null" json:"total_questions"`
	CompletionPercentage int            `gorm:"not null" json:"completion_percentage"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
	DeletedAt            gorm.DeletedAt `gorm:"index" json:"-"`
}
