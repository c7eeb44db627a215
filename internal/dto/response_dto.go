package dto

import "time"

type ErrorResponse struct {
	Error string `json:"error"`
}

type QuestionDTO struct {
	Number       int     `json:"number"`
	Text         string  `json:"text"`
	Category     string  `json:"category"`
	ExpectedHint *string `json:"expected_hint,omitempty"`
}

type SessionDetailDTO struct {
	ID              string        `json:"id"`
	UserID          string        `json:"user_id"`
	Position        string        `json:"position"`
	ExperienceLevel string        `json:"experience_level,omitempty"`
	SubjectAreas    []string      `json:"subject_areas,omitempty"`
	QuestionCount   int           `json:"question_count"`
	Status          string        `json:"status"`
	StartedAt       *time.Time    `json:"started_at,omitempty"`
	CompletedAt     *time.Time    `json:"completed_at,omitempty"`
	DurationSeconds int           `json:"duration_seconds"`
	Questions       []QuestionDTO `json:"questions,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
}

type SessionSummaryDTO struct {
	ID            string    `json:"id"`
	Position      string    `json:"position"`
	QuestionCount int       `json:"question_count"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

type EvaluationDTO struct {
	Relevance         int      `json:"relevance"`
	Completeness      int      `json:"completeness"`
	TechnicalAccuracy int      `json:"technical_accuracy"`
	Communication     int      `json:"communication"`
	Overall           int      `json:"overall"`
	Feedback          string   `json:"feedback"`
	Suggestions       []string `json:"suggestions,omitempty"`
}

type EmotionsDTO struct {
	Happy     float64 `json:"happy"`
	Sad       float64 `json:"sad"`
	Angry     float64 `json:"angry"`
	Fearful   float64 `json:"fearful"`
	Surprised float64 `json:"surprised"`
	Disgusted float64 `json:"disgusted"`
	Neutral   float64 `json:"neutral"`
}

type BehavioralDTO struct {
	Confidence    float64     `json:"confidence"`
	EyeContact    float64     `json:"eye_contact"`
	SpeechClarity float64     `json:"speech_clarity"`
	OverallScore  float64     `json:"overall_score"`
	Emotions      EmotionsDTO `json:"emotions"`
	Feedback      string      `json:"feedback,omitempty"`
}

type AnswerDTO struct {
	ID              uint           `json:"id"`
	SessionID       string         `json:"session_id"`
	QuestionNumber  int            `json:"question_number"`
	Text            string         `json:"text"`
	DurationSeconds int            `json:"duration_seconds"`
	Evaluation      EvaluationDTO  `json:"evaluation"`
	Behavioral      *BehavioralDTO `json:"behavioral,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
}

// BatchFailureDTO reports where a non-transactional batch stopped. Answers
// recorded before the failure stay persisted.
type BatchFailureDTO struct {
	QuestionNumber int    `json:"question_number"`
	Reason         string `json:"reason"`
}

type BatchSubmitResultDTO struct {
	Submitted      []AnswerDTO      `json:"submitted"`
	SubmittedCount int              `json:"submitted_count"`
	Failed         *BatchFailureDTO `json:"failed,omitempty"`
}

type CategoryScoresDTO struct {
	TechnicalKnowledge int `json:"technical_knowledge"`
	Communication      int `json:"communication"`
	ProblemSolving     int `json:"problem_solving"`
	Confidence         int `json:"confidence"`
	BehavioralSignal   int `json:"behavioral_signal"`
}

type FinalResultDTO struct {
	SessionID            string            `json:"session_id"`
	UserID               string            `json:"user_id"`
	OverallScore         int               `json:"overall_score"`
	Categories           CategoryScoresDTO `json:"categories"`
	Grade                string            `json:"grade"`
	Passed               bool              `json:"passed"`
	Strengths            []string          `json:"strengths,omitempty"`
	Weaknesses           []string          `json:"weaknesses,omitempty"`
	Recommendations      []string          `json:"recommendations,omitempty"`
	NarrativeFeedback    string            `json:"narrative_feedback,omitempty"`
	AnsweredCount        int               `json:"answered_count"`
	TotalQuestions       int               `json:"total_questions"`
	CompletionPercentage int               `json:"completion_percentage"`
	CreatedAt            time.Time         `json:"created_at"`
}
