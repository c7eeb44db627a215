package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/vireohq/prepview/internal/apperr"
	"github.com/vireohq/prepview/internal/model"
)

// --- in-memory session repository ---

type memSessionRepo struct {
	sessions map[string]*model.InterviewSession
	updates  int
}

func newMemSessionRepo() *memSessionRepo {
	return &memSessionRepo{sessions: map[string]*model.InterviewSession{}}
}

func (r *memSessionRepo) Create(s *model.InterviewSession) error {
	r.sessions[s.ID] = s
	return nil
}

func (r *memSessionRepo) FindByID(id string) (*model.InterviewSession, error) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, apperr.New(apperr.NotFound, "session %s not found", id)
	}
	cp := *s
	return &cp, nil
}

func (r *memSessionRepo) FindByIDWithQuestions(id string) (*model.InterviewSession, error) {
	return r.FindByID(id)
}

func (r *memSessionRepo) FindAllByUser(userID string) ([]model.InterviewSession, error) {
	var out []model.InterviewSession
	for _, s := range r.sessions {
		if s.UserID == userID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *memSessionRepo) Update(s *model.InterviewSession) error {
	r.updates++
	cp := *s
	r.sessions[s.ID] = &cp
	return nil
}

func (r *memSessionRepo) FindInProgressIdleSince(cutoff time.Time) ([]model.InterviewSession, error) {
	var out []model.InterviewSession
	for _, s := range r.sessions {
		if s.Status == model.StatusInProgress && s.UpdatedAt.Before(cutoff) {
			out = append(out, *s)
		}
	}
	return out, nil
}

// --- in-memory answer repository ---

type answerKey struct {
	session string
	user    string
	number  int
}

type memAnswerRepo struct {
	answers map[answerKey]*model.Answer
	nextID  uint
}

func newMemAnswerRepo() *memAnswerRepo {
	return &memAnswerRepo{answers: map[answerKey]*model.Answer{}}
}

func (r *memAnswerRepo) key(a *model.Answer) answerKey {
	return answerKey{a.SessionID, a.UserID, a.QuestionNumber}
}

func (r *memAnswerRepo) Create(a *model.Answer) error {
	k := r.key(a)
	if _, exists := r.answers[k]; exists {
		return apperr.New(apperr.Duplicate, "answer already exists for session %s question %d", a.SessionID, a.QuestionNumber)
	}
	r.nextID++
	a.ID = r.nextID
	cp := *a
	r.answers[k] = &cp
	return nil
}

func (r *memAnswerRepo) Update(a *model.Answer) error {
	cp := *a
	r.answers[r.key(a)] = &cp
	return nil
}

func (r *memAnswerRepo) FindBySessionAndUser(sessionID, userID string) ([]model.Answer, error) {
	var out []model.Answer
	for k, a := range r.answers {
		if k.session == sessionID && k.user == userID {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].QuestionNumber < out[j].QuestionNumber })
	return out, nil
}

func (r *memAnswerRepo) FindByQuestion(sessionID, userID string, questionNumber int) (*model.Answer, error) {
	a, ok := r.answers[answerKey{sessionID, userID, questionNumber}]
	if !ok {
		return nil, apperr.New(apperr.NotFound, "no answer for session %s question %d", sessionID, questionNumber)
	}
	cp := *a
	return &cp, nil
}

func (r *memAnswerRepo) ExistsForQuestion(sessionID, userID string, questionNumber int) (bool, error) {
	_, ok := r.answers[answerKey{sessionID, userID, questionNumber}]
	return ok, nil
}

// --- in-memory result repository ---

type resultKey struct {
	session string
	user    string
}

type memResultRepo struct {
	results map[resultKey]*model.FinalResult
}

func newMemResultRepo() *memResultRepo {
	return &memResultRepo{results: map[resultKey]*model.FinalResult{}}
}

func (r *memResultRepo) Create(res *model.FinalResult) error {
	k := resultKey{res.SessionID, res.UserID}
	if _, exists := r.results[k]; exists {
		return apperr.New(apperr.Duplicate, "result already exists for session %s", res.SessionID)
	}
	cp := *res
	r.results[k] = &cp
	return nil
}

func (r *memResultRepo) FindBySessionAndUser(sessionID, userID string) (*model.FinalResult, error) {
	res, ok := r.results[resultKey{sessionID, userID}]
	if !ok {
		return nil, apperr.New(apperr.NotFound, "no result for session %s", sessionID)
	}
	cp := *res
	return &cp, nil
}

func (r *memResultRepo) ExistsForSession(sessionID, userID string) (bool, error) {
	_, ok := r.results[resultKey{sessionID, userID}]
	return ok, nil
}

// --- mock evaluator ---

type mockEvaluator struct {
	evaluateFn  func(ctx context.Context, req EvaluationRequest) (*RawEvaluation, error)
	narrativeFn func(ctx context.Context, req NarrativeRequest) (*NarrativeResult, error)
	questionsFn func(ctx context.Context, req QuestionGenRequest) ([]GeneratedQuestion, error)
	calls       int
}

func (m *mockEvaluator) EvaluateAnswer(ctx context.Context, req EvaluationRequest) (*RawEvaluation, error) {
	m.calls++
	if m.evaluateFn != nil {
		return m.evaluateFn(ctx, req)
	}
	return &RawEvaluation{Relevance: 80, Completeness: 80, TechnicalAccuracy: 80, Communication: 80, Feedback: "fine"}, nil
}

func (m *mockEvaluator) GenerateNarrative(ctx context.Context, req NarrativeRequest) (*NarrativeResult, error) {
	if m.narrativeFn != nil {
		return m.narrativeFn(ctx, req)
	}
	return nil, apperr.New(apperr.Upstream, "narrative unavailable")
}

func (m *mockEvaluator) GenerateQuestions(ctx context.Context, req QuestionGenRequest) ([]GeneratedQuestion, error) {
	if m.questionsFn != nil {
		return m.questionsFn(ctx, req)
	}
	out := make([]GeneratedQuestion, req.Count)
	for i := range out {
		out[i] = GeneratedQuestion{Text: fmt.Sprintf("question %d", i+1), Category: "technical"}
	}
	return out, nil
}

// --- mock behavior analyzer ---

type mockAnalyzer struct {
	record *model.BehavioralRecord
	err    error
	calls  int
}

func (m *mockAnalyzer) Analyze(ctx context.Context, req AnalysisRequest) (*model.BehavioralRecord, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if m.record != nil {
		cp := *m.record
		return &cp, nil
	}
	return &model.BehavioralRecord{Present: true, OverallScore: 70, Confidence: 70}, nil
}

// --- fixtures ---

func testSession(status model.SessionStatus, questionCount int) *model.InterviewSession {
	s := &model.InterviewSession{
		ID:            "11111111-2222-3333-4444-555555555555",
		UserID:        "user-1",
		Position:      "Backend Engineer",
		QuestionCount: questionCount,
		Status:        status,
	}
	for i := 1; i <= questionCount; i++ {
		s.Questions = append(s.Questions, model.InterviewQuestion{
			Number:   i,
			Text:     fmt.Sprintf("Explain concept number %d of distributed systems design", i),
			Category: model.CategoryTechnical,
		})
	}
	return s
}
