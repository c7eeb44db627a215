package repository

import (
	"errors"

	"github.com/vireohq/prepview/internal/apperr"
	"github.com/vireohq/prepview/internal/model"
	"gorm.io/gorm"
)

type ResultRepository interface {
	Create(result *model.FinalResult) error
	FindBySessionAndUser(sessionID, userID string) (*model.FinalResult, error)
	ExistsForSession(sessionID, userID string) (bool, error)
}

type resultRepository struct {
	db *gorm.DB
}

func NewResultRepository(db *gorm.DB) ResultRepository {
	return &resultRepository{db: db}
}

// Create persists the final report. The unique index on
// (session_id, user_id) makes result generation idempotent under races.
func (r *resultRepository) Create(result *model.FinalResult) error {
	if err := r.db.Create(result).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.New(apperr.Duplicate, "result already exists for session %s", result.SessionID)
		}
		return err
	}
	return nil
}

func (r *resultRepository) FindBySessionAndUser(sessionID, userID string) (*model.FinalResult, error) {
	var result model.FinalResult
	err := r.db.
		Where("session_id = ? AND user_id = ?", sessionID, userID).
		First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "no result for session %s", sessionID)
		}
		return nil, err
	}
	return &result, nil
}

// ExistsForSession is a fast-path check only; Create's unique index is
// authoritative.
func (r *resultRepository) ExistsForSession(sessionID, userID string) (bool, error) {
	var count int64
	err := r.db.Model(&model.FinalResult{}).
		Where("session_id = ? AND user_id = ?", sessionID, userID).
		Count(&count).Error
	return count > 0, err
}
