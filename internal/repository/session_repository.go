package repository

import (
	"errors"
	"time"

	"github.com/vireohq/prepview/internal/apperr"
	"github.com/vireohq/prepview/internal/model"
	"gorm.io/gorm"
)

type SessionRepository interface {
	Create(session *model.InterviewSession) error
	FindByID(id string) (*model.InterviewSession, error)
	FindByIDWithQuestions(id string) (*model.InterviewSession, error)
	FindAllByUser(userID string) ([]model.InterviewSession, error)
	Update(session *model.InterviewSession) error
	FindInProgressIdleSince(cutoff time.Time) ([]model.InterviewSession, error)
}

type sessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(session *model.InterviewSession) error {
	// Creates associated questions in the same statement batch.
	return r.db.Create(session).Error
}

func (r *sessionRepository) FindByID(id string) (*model.InterviewSession, error) {
	var session model.InterviewSession
	if err := r.db.First(&session, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "session %s not found", id)
		}
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) FindByIDWithQuestions(id string) (*model.InterviewSession, error) {
	var session model.InterviewSession
	err := r.db.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("interview_questions.number ASC")
	}).First(&session, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "session %s not found", id)
		}
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) FindAllByUser(userID string) ([]model.InterviewSession, error) {
	var sessions []model.InterviewSession
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&sessions).Error
	return sessions, err
}

func (r *sessionRepository) Update(session *model.InterviewSession) error {
	return r.db.Save(session).Error
}

// FindInProgressIdleSince lists in_progress sessions whose last update is
// older than cutoff. Used by the idle sweeper.
func (r *sessionRepository) FindInProgressIdleSince(cutoff time.Time) ([]model.InterviewSession, error) {
	var sessions []model.InterviewSession
	err := r.db.
		Where("status = ? AND updated_at < ?", model.StatusInProgress, cutoff).
		Find(&sessions).Error
	return sessions, err
}
