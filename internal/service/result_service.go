package service

import (
	"context"
	"math"
	"time"

	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"github.com/vireohq/prepview/config"
	"github.com/vireohq/prepview/internal/apperr"
	"github.com/vireohq/prepview/internal/dto"
	"github.com/vireohq/prepview/internal/model"
	"github.com/vireohq/prepview/internal/repository"
)

// Category weights of the overall score. These are authoritative; the
// narrative collaborator contributes text only, never numbers.
const (
	weightTechnical  = 0.25
	weightComm       = 0.20
	weightProblem    = 0.25
	weightConfidence = 0.15
	weightBehavioral = 0.15
)

// Bands for deriving strengths and weaknesses from category scores.
const (
	strengthBand = 80
	weaknessBand = 60
)

const passingScore = 70

// GradeFor maps an overall score onto the fixed letter ladder.
func GradeFor(score int) string {
	switch {
	case score >= 95:
		return "A+"
	case score >= 90:
		return "A"
	case score >= 85:
		return "B+"
	case score >= 80:
		return "B"
	case score >= 75:
		return "C+"
	case score >= 70:
		return "C"
	case score >= 60:
		return "D"
	default:
		return "F"
	}
}

// ResultService compiles the single graded report of a completed session.
type ResultService interface {
	GenerateResult(ctx context.Context, sessionID, userID string) (*dto.FinalResultDTO, error)
	GetResult(sessionID, userID string) (*dto.FinalResultDTO, error)
}

type resultService struct {
	sessionRepo repository.SessionRepository
	answerRepo  repository.AnswerRepository
	resultRepo  repository.ResultRepository
	aggregator  BehaviorAggregator
	evaluator   Evaluator
	llmTimeout  time.Duration
}

func NewResultService(
	sessionRepo repository.SessionRepository,
	answerRepo repository.AnswerRepository,
	resultRepo repository.ResultRepository,
	aggregator BehaviorAggregator,
	evaluator Evaluator,
	cfg *config.Config,
) ResultService {
	return &resultService{
		sessionRepo: sessionRepo,
		answerRepo:  answerRepo,
		resultRepo:  resultRepo,
		aggregator:  aggregator,
		evaluator:   evaluator,
		llmTimeout:  cfg.LLM.Timeout,
	}
}

func (s *resultService) GenerateResult(ctx context.Context, sessionID, userID string) (*dto.FinalResultDTO, error) {
	session, err := s.sessionRepo.FindByIDWithQuestions(sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, apperr.New(apperr.NotFound, "session %s not found", sessionID)
	}
	if session.Status != model.StatusCompleted {
		return nil, apperr.New(apperr.State, "session %s is %s, results require a completed session", sessionID, session.Status)
	}

	// Fast path only; the unique index is the idempotency guard.
	if exists, err := s.resultRepo.ExistsForSession(sessionID, userID); err == nil && exists {
		return nil, apperr.New(apperr.Duplicate, "result already generated for session %s", sessionID)
	}

	answers, err := s.answerRepo.FindBySessionAndUser(sessionID, userID)
	if err != nil {
		return nil, err
	}
	if len(answers) == 0 {
		return nil, apperr.New(apperr.NotFound, "session %s has no answers to grade", sessionID)
	}

	result := s.compile(ctx, session, answers)
	if err := s.resultRepo.Create(result); err != nil {
		return nil, err
	}
	log.Info().
		Str("sessionID", sessionID).
		Int("overall", result.OverallScore).
		Str("grade", result.Grade).
		Bool("passed", result.Passed).
		Msg("Final result generated")
	return toResultDTO(result), nil
}

// compile derives the category scores, grade and narrative from the stored
// answers. It never fails: narrative degradation falls back to the
// deterministic band-derived lists.
func (s *resultService) compile(ctx context.Context, session *model.InterviewSession, answers []model.Answer) *model.FinalResult {
	var relevance, completeness, technical, communication float64
	var behavioral []model.BehavioralRecord
	for _, a := range answers {
		relevance += float64(a.Evaluation.Relevance)
		completeness += float64(a.Evaluation.Completeness)
		technical += float64(a.Evaluation.TechnicalAccuracy)
		communication += float64(a.Evaluation.Communication)
		if a.Behavioral.Present {
			behavioral = append(behavioral, a.Behavioral)
		}
	}
	n := float64(len(answers))
	relevance /= n
	completeness /= n
	technical /= n
	communication /= n

	summary := s.aggregator.Aggregate(behavioral)

	categories := model.CategoryScores{
		TechnicalKnowledge: int(math.Round(technical)),
		Communication:      int(math.Round(communication)),
		ProblemSolving:     int(math.Round((relevance + completeness) / 2)),
		Confidence:         int(math.Round(summary.AverageConfidence)),
		BehavioralSignal:   int(math.Round(summary.AverageOverallScore)),
	}

	overall := int(math.Round(
		float64(categories.TechnicalKnowledge)*weightTechnical +
			float64(categories.Communication)*weightComm +
			float64(categories.ProblemSolving)*weightProblem +
			float64(categories.Confidence)*weightConfidence +
			float64(categories.BehavioralSignal)*weightBehavioral))

	result := &model.FinalResult{
		SessionID:            session.ID,
		UserID:               session.UserID,
		OverallScore:         overall,
		Categories:           categories,
		Grade:                GradeFor(overall),
		Passed:               overall >= passingScore,
		AnsweredCount:        len(answers),
		TotalQuestions:       session.QuestionCount,
		CompletionPercentage: int(math.Round(float64(len(answers)) / float64(session.QuestionCount) * 100)),
	}

	strengths, weaknesses := bandLists(categories)
	narrative := s.narrative(ctx, session, answers, &summary)
	if narrative != nil {
		result.Strengths = narrative.Strengths
		result.Weaknesses = narrative.Weaknesses
		result.Recommendations = narrative.Recommendations
		result.NarrativeFeedback = narrative.NarrativeFeedback
	}
	// The deterministic lists back up an absent or empty narrative.
	if len(result.Strengths) == 0 {
		result.Strengths = strengths
	}
	if len(result.Weaknesses) == 0 {
		result.Weaknesses = weaknesses
	}
	if len(result.Recommendations) == 0 {
		result.Recommendations = []string{"Keep practicing interview questions in your weakest categories"}
	}
	if result.NarrativeFeedback == "" {
		result.NarrativeFeedback = "Narrative feedback was unavailable for this session. The scores above were derived from your individual answer evaluations."
	}
	return result
}

// narrative asks the collaborator for the non-numeric report fields. A nil
// return means "use the deterministic fallback".
func (s *resultService) narrative(ctx context.Context, session *model.InterviewSession, answers []model.Answer, summary *BehaviorSummary) *NarrativeResult {
	questionText := make(map[int]string, len(session.Questions))
	for _, q := range session.Questions {
		questionText[q.Number] = q.Text
	}
	transcript := make([]TranscriptEntry, 0, len(answers))
	for _, a := range answers {
		transcript = append(transcript, TranscriptEntry{
			QuestionNumber: a.QuestionNumber,
			QuestionText:   questionText[a.QuestionNumber],
			AnswerText:     a.Text,
			OverallScore:   a.Evaluation.Overall,
		})
	}

	callCtx, cancel := context.WithTimeout(ctx, s.llmTimeout)
	defer cancel()
	narrative, err := s.evaluator.GenerateNarrative(callCtx, NarrativeRequest{
		Position:          session.Position,
		ExperienceLevel:   session.ExperienceLevel,
		Transcript:        transcript,
		BehavioralSummary: summary,
	})
	if err != nil {
		log.Warn().Err(err).Str("sessionID", session.ID).Msg("Narrative collaborator failed, using derived feedback")
		return nil
	}
	return narrative
}

// bandLists derives strengths (top band) and weaknesses (bottom band) from
// the category scores.
func bandLists(c model.CategoryScores) (strengths, weaknesses []string) {
	categories := []struct {
		name  string
		score int
	}{
		{"Technical knowledge", c.TechnicalKnowledge},
		{"Communication", c.Communication},
		{"Problem solving", c.ProblemSolving},
		{"Confidence", c.Confidence},
		{"Behavioral presence", c.BehavioralSignal},
	}
	for _, cat := range categories {
		switch {
		case cat.score >= strengthBand:
			strengths = append(strengths, cat.name)
		case cat.score < weaknessBand:
			weaknesses = append(weaknesses, cat.name)
		}
	}
	return strengths, weaknesses
}

func (s *resultService) GetResult(sessionID, userID string) (*dto.FinalResultDTO, error) {
	result, err := s.resultRepo.FindBySessionAndUser(sessionID, userID)
	if err != nil {
		return nil, err
	}
	return toResultDTO(result), nil
}

func toResultDTO(result *model.FinalResult) *dto.FinalResultDTO {
	var resp dto.FinalResultDTO
	if err := copier.Copy(&resp, result); err != nil {
		log.Error().Err(err).Str("sessionID", result.SessionID).Msg("Error copying result to DTO")
	}
	copier.Copy(&resp.Categories, &result.Categories)
	return &resp
}
