package dto

// MediaRefDTO points at an uploaded recording for behavioral analysis.
// Upload handling itself lives outside this service.
type MediaRefDTO struct {
	URL             string `json:"url" binding:"required"`
	DurationSeconds int    `json:"duration_seconds"`
}

// SessionCreateDTO generates a new interview session in "generated" state.
type SessionCreateDTO struct {
	UserID          string   `json:"user_id" binding:"required"`
	Position        string   `json:"position" binding:"required"`
	ExperienceLevel string   `json:"experience_level"`
	SubjectAreas    []string `json:"subject_areas"`
	QuestionCount   int      `json:"question_count" binding:"required,min=3,max=20"`
}

// AnswerSubmitDTO submits one answer to one question of an in-progress
// session.
type AnswerSubmitDTO struct {
	UserID          string       `json:"user_id" binding:"required"`
	QuestionNumber  int          `json:"question_number" binding:"required,min=1"`
	Text            string       `json:"text" binding:"required"`
	DurationSeconds int          `json:"duration_seconds"`
	Media           *MediaRefDTO `json:"media,omitempty"`
}

// BatchAnswerItemDTO is one answer within a batch submission.
type BatchAnswerItemDTO struct {
	QuestionNumber  int    `json:"question_number" binding:"required,min=1"`
	Text            string `json:"text" binding:"required"`
	DurationSeconds int    `json:"duration_seconds"`
}

// BatchSubmitDTO submits several answers at once. Media, when present, is a
// single whole-session recording shared by every answer in the batch.
type BatchSubmitDTO struct {
	UserID  string               `json:"user_id" binding:"required"`
	Answers []BatchAnswerItemDTO `json:"answers" binding:"required,min=1,dive"`
	Media   *MediaRefDTO         `json:"media,omitempty"`
}

// ResultGenerateDTO asks for the final graded report of a completed session.
type ResultGenerateDTO struct {
	UserID string `json:"user_id" binding:"required"`
}
