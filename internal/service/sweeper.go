package service

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"github.com/vireohq/prepview/config"
	"github.com/vireohq/prepview/internal/model"
	"github.com/vireohq/prepview/internal/repository"
)

// SessionSweeper periodically abandons in_progress sessions that have been
// idle beyond the configured timeout. It goes through the same transition
// table as every other lifecycle mutation.
type SessionSweeper struct {
	sessionRepo repository.SessionRepository
	idleTimeout time.Duration
	spec        string
	cron        *cron.Cron
}

func NewSessionSweeper(sessionRepo repository.SessionRepository, cfg *config.Config) *SessionSweeper {
	return &SessionSweeper{
		sessionRepo: sessionRepo,
		idleTimeout: cfg.Session.IdleTimeout,
		spec:        cfg.Session.SweepSpec,
		cron:        cron.New(),
	}
}

func (s *SessionSweeper) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.Sweep); err != nil {
		return err
	}
	s.cron.Start()
	log.Info().Str("spec", s.spec).Dur("idleTimeout", s.idleTimeout).Msg("Session sweeper scheduled")
	return nil
}

func (s *SessionSweeper) Stop() {
	s.cron.Stop()
}

// Sweep runs one pass. Exported so an operator endpoint or test can trigger
// it outside the schedule.
func (s *SessionSweeper) Sweep() {
	cutoff := time.Now().Add(-s.idleTimeout)
	sessions, err := s.sessionRepo.FindInProgressIdleSince(cutoff)
	if err != nil {
		log.Error().Err(err).Msg("Sweeper could not list idle sessions")
		return
	}
	abandoned := 0
	for i := range sessions {
		session := &sessions[i]
		if !CanTransition(session.Status, model.StatusAbandoned) {
			continue
		}
		session.Status = model.StatusAbandoned
		if err := s.sessionRepo.Update(session); err != nil {
			log.Error().Err(err).Str("sessionID", session.ID).Msg("Sweeper failed to abandon session")
			continue
		}
		abandoned++
	}
	if abandoned > 0 {
		log.Info().Int("abandoned", abandoned).Msg("Idle sessions abandoned")
	}
}
