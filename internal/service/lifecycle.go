package service

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/vireohq/prepview/internal/apperr"
	"github.com/vireohq/prepview/internal/model"
	"github.com/vireohq/prepview/internal/repository"
)

// transitions is the exhaustive table of legal session state changes.
// Anything absent fails closed with a state error; completed and abandoned
// are terminal.
var transitions = map[model.SessionStatus]map[model.SessionStatus]bool{
	model.StatusGenerated: {
		model.StatusInProgress: true,
		model.StatusAbandoned:  true,
	},
	model.StatusInProgress: {
		model.StatusCompleted: true,
		model.StatusAbandoned: true,
	},
	model.StatusCompleted: {},
	model.StatusAbandoned: {},
}

// CanTransition reports whether from → to is a legal lifecycle transition.
func CanTransition(from, to model.SessionStatus) bool {
	return transitions[from][to]
}

// Lifecycle owns every mutation of a session's status. Nothing else in the
// system writes the status field.
type Lifecycle interface {
	Start(sessionID, userID string) (*model.InterviewSession, error)
	Complete(sessionID, userID string) (*model.InterviewSession, error)
	Abandon(sessionID, userID string) (*model.InterviewSession, error)
}

type lifecycle struct {
	sessionRepo repository.SessionRepository
}

func NewLifecycle(sessionRepo repository.SessionRepository) Lifecycle {
	return &lifecycle{sessionRepo: sessionRepo}
}

func (l *lifecycle) load(sessionID, userID string) (*model.InterviewSession, error) {
	session, err := l.sessionRepo.FindByID(sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, apperr.New(apperr.NotFound, "session %s not found", sessionID)
	}
	return session, nil
}

func (l *lifecycle) transition(session *model.InterviewSession, to model.SessionStatus) error {
	if !CanTransition(session.Status, to) {
		return apperr.New(apperr.State, "cannot move session %s from %s to %s", session.ID, session.Status, to)
	}
	session.Status = to
	return nil
}

func (l *lifecycle) Start(sessionID, userID string) (*model.InterviewSession, error) {
	session, err := l.load(sessionID, userID)
	if err != nil {
		return nil, err
	}
	if err := l.transition(session, model.StatusInProgress); err != nil {
		return nil, err
	}
	now := time.Now()
	session.StartedAt = &now
	if err := l.sessionRepo.Update(session); err != nil {
		return nil, err
	}
	log.Info().Str("sessionID", session.ID).Msg("Session started")
	return session, nil
}

func (l *lifecycle) Complete(sessionID, userID string) (*model.InterviewSession, error) {
	session, err := l.load(sessionID, userID)
	if err != nil {
		return nil, err
	}
	if err := l.transition(session, model.StatusCompleted); err != nil {
		return nil, err
	}
	now := time.Now()
	session.CompletedAt = &now
	if session.StartedAt != nil {
		session.DurationSeconds = int(now.Sub(*session.StartedAt).Seconds())
	}
	if err := l.sessionRepo.Update(session); err != nil {
		return nil, err
	}
	log.Info().Str("sessionID", session.ID).Int("durationSeconds", session.DurationSeconds).Msg("Session completed")
	return session, nil
}

func (l *lifecycle) Abandon(sessionID, userID string) (*model.InterviewSession, error) {
	session, err := l.load(sessionID, userID)
	if err != nil {
		return nil, err
	}
	if err := l.transition(session, model.StatusAbandoned); err != nil {
		return nil, err
	}
	if err := l.sessionRepo.Update(session); err != nil {
		return nil, err
	}
	log.Info().Str("sessionID", session.ID).Msg("Session abandoned")
	return session, nil
}
