package model

import (
	"time"

	"gorm.io/gorm"
)

// SessionStatus is the lifecycle state of an interview session. Transitions
// are owned by service.Lifecycle; nothing else mutates Status.
type SessionStatus string

const (
	StatusGenerated  SessionStatus = "generated"
	StatusInProgress SessionStatus = "in_progress"
	StatusCompleted  SessionStatus = "completed"
	StatusAbandoned  SessionStatus = "abandoned"
)

type QuestionCategory string

const (
	CategoryTechnical      QuestionCategory = "technical"
	CategoryBehavioral     QuestionCategory = "behavioral"
	CategoryProblemSolving QuestionCategory = "problem_solving"
)

const (
	MinQuestionCount = 3
	MaxQuestionCount = 20
)

type InterviewSession struct {
	ID              string              `gorm:"type:uuid;primarykey" json:"id"`
	UserID          string              `gorm:"not null;index" json:"user_id"`
	Position        string              `gorm:"not null" json:"position"`
	ExperienceLevel string              `json:"experience_level"`
	SubjectAreas    []string            `gorm:"serializer:json" json:"subject_areas,omitempty"`
	QuestionCount   int                 `gorm:"not null" json:"question_count"`
	Status          SessionStatus       `gorm:"not null;default:'generated';index" json:"status"`
	StartedAt       *time.Time          `json:"started_at,omitempty"`
	CompletedAt     *time.Time          `json:"completed_at,omitempty"`
	DurationSeconds int                 `json:"duration_seconds"`
	Questions       []InterviewQuestion `json:"questions,omitempty" gorm:"foreignKey:SessionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
	DeletedAt       gorm.DeletedAt      `gorm:"index" json:"-"`
}

// InterviewQuestion numbers are unique and contiguous from 1 within a session.
type InterviewQuestion struct {
	ID           uint             `gorm:"primarykey" json:"id"`
	SessionID    string           `gorm:"type:uuid;not null;uniqueIndex:idx_question_session_number" json:"session_id"`
	Number       int              `gorm:"not null;uniqueIndex:idx_question_session_number" json:"number"`
	Text         string           `gorm:"type:text;not null" json:"text"`
	Category     QuestionCategory `gorm:"not null" json:"category"`
	ExpectedHint *string          `gorm:"type:text" json:"expected_hint,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
	DeletedAt    gorm.DeletedAt   `gorm:"index" json:"-"`
}
