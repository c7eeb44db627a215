package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"github.com/vireohq/prepview/internal/apperr"
	"github.com/vireohq/prepview/internal/dto"
	"github.com/vireohq/prepview/internal/model"
	"github.com/vireohq/prepview/internal/repository"
)

// SessionService creates sessions and serves the read surface. Lifecycle
// transitions are owned by Lifecycle, not here.
type SessionService interface {
	CreateSession(ctx context.Context, req dto.SessionCreateDTO) (*dto.SessionDetailDTO, error)
	GetSession(sessionID, userID string) (*dto.SessionDetailDTO, error)
	ListSessions(userID string) ([]dto.SessionSummaryDTO, error)
}

type sessionService struct {
	sessionRepo repository.SessionRepository
	evaluator   Evaluator
}

func NewSessionService(sessionRepo repository.SessionRepository, evaluator Evaluator) SessionService {
	return &sessionService{sessionRepo: sessionRepo, evaluator: evaluator}
}

func (s *sessionService) CreateSession(ctx context.Context, req dto.SessionCreateDTO) (*dto.SessionDetailDTO, error) {
	if req.QuestionCount < model.MinQuestionCount || req.QuestionCount > model.MaxQuestionCount {
		return nil, apperr.New(apperr.Validation, "question count must be between %d and %d",
			model.MinQuestionCount, model.MaxQuestionCount)
	}

	generated, err := s.evaluator.GenerateQuestions(ctx, QuestionGenRequest{
		Position:        req.Position,
		ExperienceLevel: req.ExperienceLevel,
		SubjectAreas:    req.SubjectAreas,
		Count:           req.QuestionCount,
	})
	if err != nil {
		log.Error().Err(err).Str("position", req.Position).Msg("Question generation failed")
		return nil, err
	}
	if len(generated) < req.QuestionCount {
		return nil, apperr.New(apperr.Upstream, "generator produced %d questions, wanted %d",
			len(generated), req.QuestionCount)
	}
	generated = generated[:req.QuestionCount]

	session := &model.InterviewSession{
		ID:              uuid.NewString(),
		UserID:          req.UserID,
		Position:        req.Position,
		ExperienceLevel: req.ExperienceLevel,
		SubjectAreas:    req.SubjectAreas,
		QuestionCount:   req.QuestionCount,
		Status:          model.StatusGenerated,
	}
	for i, q := range generated {
		category := model.QuestionCategory(q.Category)
		switch category {
		case model.CategoryTechnical, model.CategoryBehavioral, model.CategoryProblemSolving:
		default:
			category = model.CategoryTechnical
		}
		var hint *string
		if q.ExpectedHint != "" {
			h := q.ExpectedHint
			hint = &h
		}
		session.Questions = append(session.Questions, model.InterviewQuestion{
			Number:       i + 1, // contiguous from 1 regardless of generator ordering
			Text:         q.Text,
			Category:     category,
			ExpectedHint: hint,
		})
	}

	if err := s.sessionRepo.Create(session); err != nil {
		log.Error().Err(err).Msg("Failed to persist generated session")
		return nil, err
	}
	log.Info().Str("sessionID", session.ID).Int("questions", len(session.Questions)).Msg("Session generated")
	return toSessionDetailDTO(session), nil
}

func (s *sessionService) GetSession(sessionID, userID string) (*dto.SessionDetailDTO, error) {
	session, err := s.sessionRepo.FindByIDWithQuestions(sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, apperr.New(apperr.NotFound, "session %s not found", sessionID)
	}
	return toSessionDetailDTO(session), nil
}

func (s *sessionService) ListSessions(userID string) ([]dto.SessionSummaryDTO, error) {
	sessions, err := s.sessionRepo.FindAllByUser(userID)
	if err != nil {
		return nil, err
	}
	summaries := make([]dto.SessionSummaryDTO, 0, len(sessions))
	for _, session := range sessions {
		var summary dto.SessionSummaryDTO
		if err := copier.Copy(&summary, &session); err != nil {
			log.Error().Err(err).Str("sessionID", session.ID).Msg("Error copying session to summary DTO")
			continue
		}
		summary.Status = string(session.Status)
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func toSessionDetailDTO(session *model.InterviewSession) *dto.SessionDetailDTO {
	var resp dto.SessionDetailDTO
	if err := copier.Copy(&resp, session); err != nil {
		log.Error().Err(err).Str("sessionID", session.ID).Msg("Error copying session to DTO")
	}
	resp.Status = string(session.Status)
	resp.Questions = make([]dto.QuestionDTO, 0, len(session.Questions))
	for _, q := range session.Questions {
		resp.Questions = append(resp.Questions, dto.QuestionDTO{
			Number:       q.Number,
			Text:         q.Text,
			Category:     string(q.Category),
			ExpectedHint: q.ExpectedHint,
		})
	}
	return &resp
}
