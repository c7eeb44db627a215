package service

import (
	"context"
	"strings"

	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"github.com/vireohq/prepview/internal/apperr"
	"github.com/vireohq/prepview/internal/dto"
	"github.com/vireohq/prepview/internal/model"
	"github.com/vireohq/prepview/internal/repository"
)

// AnswerService is the ledger of submitted answers. It enforces the
// per-question submission invariants and routes every answer through the
// quality gate and, when the gate passes, the evaluation pipeline.
type AnswerService interface {
	SubmitAnswer(ctx context.Context, sessionID string, req dto.AnswerSubmitDTO) (*dto.AnswerDTO, error)
	SubmitAll(ctx context.Context, sessionID string, req dto.BatchSubmitDTO) (*dto.BatchSubmitResultDTO, error)
	UpdateAnswer(ctx context.Context, sessionID string, req dto.AnswerSubmitDTO) (*dto.AnswerDTO, error)
	ListAnswers(sessionID, userID string) ([]dto.AnswerDTO, error)
}

type answerService struct {
	sessionRepo repository.SessionRepository
	answerRepo  repository.AnswerRepository
	gate        QualityGate
	enforcer    ConsistencyEnforcer
	analyzer    BehaviorAnalyzer
}

func NewAnswerService(
	sessionRepo repository.SessionRepository,
	answerRepo repository.AnswerRepository,
	gate QualityGate,
	enforcer ConsistencyEnforcer,
	analyzer BehaviorAnalyzer,
) AnswerService {
	return &answerService{
		sessionRepo: sessionRepo,
		answerRepo:  answerRepo,
		gate:        gate,
		enforcer:    enforcer,
		analyzer:    analyzer,
	}
}

// loadAcceptingSession fetches the session and checks it can accept answers.
func (s *answerService) loadAcceptingSession(sessionID, userID string) (*model.InterviewSession, error) {
	session, err := s.sessionRepo.FindByIDWithQuestions(sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, apperr.New(apperr.NotFound, "session %s not found", sessionID)
	}
	if session.Status != model.StatusInProgress {
		return nil, apperr.New(apperr.State, "session %s is %s, answers are only accepted in_progress", sessionID, session.Status)
	}
	return session, nil
}

func findQuestion(session *model.InterviewSession, number int) (*model.InterviewQuestion, error) {
	for i := range session.Questions {
		if session.Questions[i].Number == number {
			return &session.Questions[i], nil
		}
	}
	return nil, apperr.New(apperr.NotFound, "session %s has no question %d", session.ID, number)
}

// validateText bounds the answer length. Degenerate short answers are NOT a
// validation error: they flow through the quality gate and get stored with
// a floor score, so the candidate's non-answer is part of the record.
func validateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return apperr.New(apperr.Validation, "answer text must not be empty")
	}
	if len(text) > model.MaxAnswerLen {
		return apperr.New(apperr.Validation, "answer text exceeds %d characters", model.MaxAnswerLen)
	}
	return nil
}

// evaluate runs the quality gate and, only when it passes, the external
// evaluation pipeline. This is the only place the two are composed.
func (s *answerService) evaluate(ctx context.Context, session *model.InterviewSession, question *model.InterviewQuestion, text string) model.Evaluation {
	verdict := s.gate.Check(question.Text, text)
	if verdict.Rejected {
		log.Info().
			Str("sessionID", session.ID).
			Int("question", question.Number).
			Str("reason", verdict.Reason).
			Msg("Answer rejected by quality gate, skipping evaluator call")
		return verdict.Evaluation
	}

	hint := ""
	if question.ExpectedHint != nil {
		hint = *question.ExpectedHint
	}
	return s.enforcer.Evaluate(ctx, EvaluationRequest{
		QuestionText:    question.Text,
		AnswerText:      text,
		ExpectedHint:    hint,
		SubjectAreas:    session.SubjectAreas,
		ExperienceLevel: session.ExperienceLevel,
	})
}

// analyzeMedia fetches a behavioral measurement for the given recording.
// Failure means "no measurement", never a failed submission.
func (s *answerService) analyzeMedia(ctx context.Context, media *dto.MediaRefDTO, scope AnalysisScope) model.BehavioralRecord {
	if media == nil {
		return model.BehavioralRecord{}
	}
	record, err := s.analyzer.Analyze(ctx, AnalysisRequest{
		MediaURL:        media.URL,
		DurationSeconds: media.DurationSeconds,
		Scope:           scope,
	})
	if err != nil {
		log.Warn().Err(err).Str("mediaURL", media.URL).Msg("Behavioral analysis failed, storing answer without measurement")
		return model.BehavioralRecord{}
	}
	return *record
}

func (s *answerService) SubmitAnswer(ctx context.Context, sessionID string, req dto.AnswerSubmitDTO) (*dto.AnswerDTO, error) {
	if err := validateText(req.Text); err != nil {
		return nil, err
	}
	session, err := s.loadAcceptingSession(sessionID, req.UserID)
	if err != nil {
		return nil, err
	}
	question, err := findQuestion(session, req.QuestionNumber)
	if err != nil {
		return nil, err
	}

	// Fast path only; the unique index decides the race.
	if exists, err := s.answerRepo.ExistsForQuestion(sessionID, req.UserID, req.QuestionNumber); err == nil && exists {
		return nil, apperr.New(apperr.Duplicate, "question %d already answered", req.QuestionNumber)
	}

	answer := &model.Answer{
		SessionID:       sessionID,
		UserID:          req.UserID,
		QuestionNumber:  req.QuestionNumber,
		Text:            req.Text,
		DurationSeconds: req.DurationSeconds,
		Evaluation:      s.evaluate(ctx, session, question, req.Text),
		Behavioral:      s.analyzeMedia(ctx, req.Media, ScopePerAnswer),
	}
	if err := s.answerRepo.Create(answer); err != nil {
		return nil, err
	}
	return toAnswerDTO(answer), nil
}

// SubmitAll applies the same per-answer checks independently but shares one
// whole-session behavioral measurement across the batch. It is not
// transactional: the first hard failure aborts the remainder and answers
// created before it stay persisted.
func (s *answerService) SubmitAll(ctx context.Context, sessionID string, req dto.BatchSubmitDTO) (*dto.BatchSubmitResultDTO, error) {
	session, err := s.loadAcceptingSession(sessionID, req.UserID)
	if err != nil {
		return nil, err
	}

	shared := s.analyzeMedia(ctx, req.Media, ScopeWholeSession)

	resp := &dto.BatchSubmitResultDTO{Submitted: []dto.AnswerDTO{}}
	for _, item := range req.Answers {
		if err := s.submitBatchItem(ctx, session, item, shared, resp); err != nil {
			resp.Failed = &dto.BatchFailureDTO{
				QuestionNumber: item.QuestionNumber,
				Reason:         err.Error(),
			}
			log.Warn().Err(err).
				Str("sessionID", sessionID).
				Int("question", item.QuestionNumber).
				Int("recorded", resp.SubmittedCount).
				Msg("Batch submission aborted mid-way; prior answers remain persisted")
			break
		}
	}
	return resp, nil
}

func (s *answerService) submitBatchItem(
	ctx context.Context,
	session *model.InterviewSession,
	item dto.BatchAnswerItemDTO,
	shared model.BehavioralRecord,
	resp *dto.BatchSubmitResultDTO,
) error {
	if err := validateText(item.Text); err != nil {
		return err
	}
	question, err := findQuestion(session, item.QuestionNumber)
	if err != nil {
		return err
	}
	answer := &model.Answer{
		SessionID:       session.ID,
		UserID:          session.UserID,
		QuestionNumber:  item.QuestionNumber,
		Text:            item.Text,
		DurationSeconds: item.DurationSeconds,
		Evaluation:      s.evaluate(ctx, session, question, item.Text),
		Behavioral:      shared,
	}
	if err := s.answerRepo.Create(answer); err != nil {
		return err
	}
	resp.Submitted = append(resp.Submitted, *toAnswerDTO(answer))
	resp.SubmittedCount++
	return nil
}

// UpdateAnswer is the explicit re-evaluation path: the stored evaluation is
// otherwise immutable. The replacement text runs the full gate + evaluator
// pipeline again.
func (s *answerService) UpdateAnswer(ctx context.Context, sessionID string, req dto.AnswerSubmitDTO) (*dto.AnswerDTO, error) {
	if err := validateText(req.Text); err != nil {
		return nil, err
	}
	session, err := s.loadAcceptingSession(sessionID, req.UserID)
	if err != nil {
		return nil, err
	}
	question, err := findQuestion(session, req.QuestionNumber)
	if err != nil {
		return nil, err
	}
	answer, err := s.answerRepo.FindByQuestion(sessionID, req.UserID, req.QuestionNumber)
	if err != nil {
		return nil, err
	}

	answer.Text = req.Text
	answer.DurationSeconds = req.DurationSeconds
	answer.Evaluation = s.evaluate(ctx, session, question, req.Text)
	if req.Media != nil {
		answer.Behavioral = s.analyzeMedia(ctx, req.Media, ScopePerAnswer)
	}
	if err := s.answerRepo.Update(answer); err != nil {
		return nil, err
	}
	return toAnswerDTO(answer), nil
}

func (s *answerService) ListAnswers(sessionID, userID string) ([]dto.AnswerDTO, error) {
	answers, err := s.answerRepo.FindBySessionAndUser(sessionID, userID)
	if err != nil {
		return nil, err
	}
	dtos := make([]dto.AnswerDTO, 0, len(answers))
	for i := range answers {
		dtos = append(dtos, *toAnswerDTO(&answers[i]))
	}
	return dtos, nil
}

func toAnswerDTO(answer *model.Answer) *dto.AnswerDTO {
	var resp dto.AnswerDTO
	if err := copier.Copy(&resp, answer); err != nil {
		log.Error().Err(err).Uint("answerID", answer.ID).Msg("Error copying answer to DTO")
	}
	resp.Behavioral = nil
	if answer.Behavioral.Present {
		var beh dto.BehavioralDTO
		copier.Copy(&beh, &answer.Behavioral)
		copier.Copy(&beh.Emotions, &answer.Behavioral.Emotions)
		resp.Behavioral = &beh
	}
	return &resp
}
