package service

import (
	"context"
	"testing"

	"github.com/vireohq/prepview/internal/apperr"
	"github.com/vireohq/prepview/internal/dto"
	"github.com/vireohq/prepview/internal/model"
)

func createReq(count int) dto.SessionCreateDTO {
	return dto.SessionCreateDTO{
		UserID:        "user-1",
		Position:      "Backend Engineer",
		SubjectAreas:  []string{"databases", "concurrency"},
		QuestionCount: count,
	}
}

func TestCreateSession(t *testing.T) {
	repo := newMemSessionRepo()
	svc := NewSessionService(repo, &mockEvaluator{})

	session, err := svc.CreateSession(context.Background(), createReq(5))
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if session.Status != string(model.StatusGenerated) {
		t.Errorf("Status = %q, want generated", session.Status)
	}
	if session.ID == "" {
		t.Error("session must get an ID")
	}
	if len(session.Questions) != 5 {
		t.Fatalf("questions = %d, want 5", len(session.Questions))
	}
	for i, q := range session.Questions {
		if q.Number != i+1 {
			t.Errorf("questions[%d].Number = %d, numbering must be contiguous from 1", i, q.Number)
		}
	}
}

func TestCreateSessionQuestionCountBounds(t *testing.T) {
	repo := newMemSessionRepo()
	svc := NewSessionService(repo, &mockEvaluator{})

	for _, count := range []int{0, 2, 21, -1} {
		_, err := svc.CreateSession(context.Background(), createReq(count))
		if !apperr.Is(err, apperr.Validation) {
			t.Errorf("count %d: err = %v, want validation error", count, err)
		}
	}
}

func TestCreateSessionTruncatesGeneratorSurplus(t *testing.T) {
	repo := newMemSessionRepo()
	mock := &mockEvaluator{
		questionsFn: func(ctx context.Context, req QuestionGenRequest) ([]GeneratedQuestion, error) {
			out := make([]GeneratedQuestion, req.Count+4) // generator over-delivers
			for i := range out {
				out[i] = GeneratedQuestion{Text: "surplus question", Category: "behavioral"}
			}
			return out, nil
		},
	}
	svc := NewSessionService(repo, mock)

	session, err := svc.CreateSession(context.Background(), createReq(3))
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if len(session.Questions) != 3 {
		t.Errorf("questions = %d, surplus must be truncated to the requested count", len(session.Questions))
	}
}

func TestCreateSessionGeneratorShortfall(t *testing.T) {
	repo := newMemSessionRepo()
	mock := &mockEvaluator{
		questionsFn: func(ctx context.Context, req QuestionGenRequest) ([]GeneratedQuestion, error) {
			return []GeneratedQuestion{{Text: "only one", Category: "technical"}}, nil
		},
	}
	svc := NewSessionService(repo, mock)

	_, err := svc.CreateSession(context.Background(), createReq(5))
	if !apperr.Is(err, apperr.Upstream) {
		t.Fatalf("err = %v, want upstream error on shortfall", err)
	}
	if len(repo.sessions) != 0 {
		t.Error("nothing may be persisted on generation failure")
	}
}

func TestCreateSessionGeneratorFailure(t *testing.T) {
	repo := newMemSessionRepo()
	mock := &mockEvaluator{
		questionsFn: func(ctx context.Context, req QuestionGenRequest) ([]GeneratedQuestion, error) {
			return nil, apperr.New(apperr.Upstream, "model unavailable")
		},
	}
	svc := NewSessionService(repo, mock)

	_, err := svc.CreateSession(context.Background(), createReq(3))
	if !apperr.Is(err, apperr.Upstream) {
		t.Fatalf("err = %v, want upstream error", err)
	}
}

func TestCreateSessionNormalizesCategories(t *testing.T) {
	repo := newMemSessionRepo()
	mock := &mockEvaluator{
		questionsFn: func(ctx context.Context, req QuestionGenRequest) ([]GeneratedQuestion, error) {
			return []GeneratedQuestion{
				{Text: "q1", Category: "behavioral"},
				{Text: "q2", Category: "Coding Challenge"}, // unknown label
				{Text: "q3", Category: "problem_solving"},
			}, nil
		},
	}
	svc := NewSessionService(repo, mock)

	session, err := svc.CreateSession(context.Background(), createReq(3))
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	want := []string{"behavioral", "technical", "problem_solving"}
	for i, q := range session.Questions {
		if q.Category != want[i] {
			t.Errorf("questions[%d].Category = %q, want %q", i, q.Category, want[i])
		}
	}
}

func TestGetSessionOwnership(t *testing.T) {
	repo := newMemSessionRepo()
	s := testSession(model.StatusGenerated, 3)
	repo.Create(s)
	svc := NewSessionService(repo, &mockEvaluator{})

	if _, err := svc.GetSession(s.ID, "user-1"); err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if _, err := svc.GetSession(s.ID, "someone-else"); !apperr.Is(err, apperr.NotFound) {
		t.Errorf("err = %v, want not-found for foreign user", err)
	}
}

func TestListSessions(t *testing.T) {
	repo := newMemSessionRepo()
	repo.Create(testSession(model.StatusCompleted, 3))
	other := testSession(model.StatusGenerated, 3)
	other.ID = "99999999-8888-7777-6666-555555555555"
	other.UserID = "user-2"
	repo.Create(other)
	svc := NewSessionService(repo, &mockEvaluator{})

	sessions, err := svc.ListSessions("user-1")
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("len = %d, want only the owner's sessions", len(sessions))
	}
	if sessions[0].Status != string(model.StatusCompleted) {
		t.Errorf("Status = %q, want completed", sessions[0].Status)
	}
}
