package repository

import (
	"errors"

	"github.com/vireohq/prepview/internal/apperr"
	"github.com/vireohq/prepview/internal/model"
	"gorm.io/gorm"
)

type AnswerRepository interface {
	Create(answer *model.Answer) error
	Update(answer *model.Answer) error
	FindBySessionAndUser(sessionID, userID string) ([]model.Answer, error)
	FindByQuestion(sessionID, userID string, questionNumber int) (*model.Answer, error)
	ExistsForQuestion(sessionID, userID string, questionNumber int) (bool, error)
}

type answerRepository struct {
	db *gorm.DB
}

func NewAnswerRepository(db *gorm.DB) AnswerRepository {
	return &answerRepository{db: db}
}

// Create persists a new answer. The unique index on
// (session_id, user_id, question_number) is the authoritative duplicate
// guard; two concurrent submissions race here and exactly one wins.
func (r *answerRepository) Create(answer *model.Answer) error {
	if err := r.db.Create(answer).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.New(apperr.Duplicate,
				"answer already exists for session %s question %d", answer.SessionID, answer.QuestionNumber)
		}
		return err
	}
	return nil
}

func (r *answerRepository) Update(answer *model.Answer) error {
	return r.db.Save(answer).Error
}

func (r *answerRepository) FindBySessionAndUser(sessionID, userID string) ([]model.Answer, error) {
	var answers []model.Answer
	err := r.db.
		Where("session_id = ? AND user_id = ?", sessionID, userID).
		Order("question_number ASC").
		Find(&answers).Error
	return answers, err
}

func (r *answerRepository) FindByQuestion(sessionID, userID string, questionNumber int) (*model.Answer, error) {
	var answer model.Answer
	err := r.db.
		Where("session_id = ? AND user_id = ? AND question_number = ?", sessionID, userID, questionNumber).
		First(&answer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound,
				"no answer for session %s question %d", sessionID, questionNumber)
		}
		return nil, err
	}
	return &answer, nil
}

// ExistsForQuestion is a non-authoritative fast path; the unique index
// remains the real guard.
func (r *answerRepository) ExistsForQuestion(sessionID, userID string, questionNumber int) (bool, error) {
	var count int64
	err := r.db.Model(&model.Answer{}).
		Where("session_id = ? AND user_id = ? AND question_number = ?", sessionID, userID, questionNumber).
		Count(&count).Error
	return count > 0, err
}
