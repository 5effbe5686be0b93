package app

import (
	"testing"

	"ai-interview-service/internal/domain"
)

func sampleQuestions() []domain.Question {
	return []domain.Question{
		{ID: "q1", Text: "Explain useState in React.", Difficulty: domain.DifficultyEasy, TimeLimitSeconds: 20},
		{ID: "q2", Text: "Explain Redux flow.", Difficulty: domain.DifficultyMedium, TimeLimitSeconds: 60},
		{ID: "q3", Text: "Explain scaling Node.js apps.", Difficulty: domain.DifficultyHard, TimeLimitSeconds: 120},
	}
}

func checkInvariant(t *testing.T, s *sessionState) {
	t.Helper()
	if s.currentIndex < 0 || s.currentIndex > len(s.questions) {
		t.Fatalf("currentIndex %d out of range for %d questions", s.currentIndex, len(s.questions))
	}
	if len(s.answers) != s.currentIndex {
		t.Fatalf("answers %d != currentIndex %d", len(s.answers), s.currentIndex)
	}
}

func TestStartInitializesTimers(t *testing.T) {
	s := newSessionState()
	s.start("cand-1", sampleQuestions())

	if s.status != domain.StatusInProgress {
		t.Fatalf("expected in-progress, got %s", s.status)
	}
	checkInvariant(t, s)
	for _, q := range sampleQuestions() {
		if s.remaining[q.ID] != q.TimeLimitSeconds {
			t.Fatalf("question %s: remaining %d, want %d", q.ID, s.remaining[q.ID], q.TimeLimitSeconds)
		}
	}
}

func TestStartWithNoQuestionsCompletesImmediately(t *testing.T) {
	s := newSessionState()
	s.start("cand-1", nil)
	if s.status != domain.StatusCompleted {
		t.Fatalf("expected completed, got %s", s.status)
	}
	checkInvariant(t, s)
}

func TestTickOnlyAffectsCurrentQuestion(t *testing.T) {
	s := newSessionState()
	s.start("cand-1", sampleQuestions())

	if _, ok := s.tick("q2"); ok {
		t.Fatalf("tick for non-current question must be a no-op")
	}
	if s.remaining["q2"] != 60 {
		t.Fatalf("q2 timer changed: %d", s.remaining["q2"])
	}

	remaining, ok := s.tick("q1")
	if !ok || remaining != 19 {
		t.Fatalf("expected effective tick to 19, got %d effective=%v", remaining, ok)
	}
}

func TestTickStopsAtZero(t *testing.T) {
	s := newSessionState()
	s.start("cand-1", []domain.Question{{ID: "q1", TimeLimitSeconds: 2}})

	s.tick("q1")
	if remaining, ok := s.tick("q1"); !ok || remaining != 0 {
		t.Fatalf("expected tick to zero, got %d effective=%v", remaining, ok)
	}
	if _, ok := s.tick("q1"); ok {
		t.Fatalf("tick past zero must be a no-op")
	}
}

func TestSubmitAdvancesAndCompletes(t *testing.T) {
	s := newSessionState()
	s.start("cand-1", sampleQuestions())

	for i, q := range sampleQuestions() {
		if !s.submit(domain.Answer{QuestionID: q.ID, Score: float64(i), Via: domain.ViaManual}) {
			t.Fatalf("submit %d rejected", i)
		}
		checkInvariant(t, s)
	}
	if s.status != domain.StatusCompleted {
		t.Fatalf("expected completed after last submit, got %s", s.status)
	}
	if s.submit(domain.Answer{QuestionID: "q4"}) {
		t.Fatalf("submit after completion must be rejected")
	}
	checkInvariant(t, s)
}

func TestResetTimerRestoresFullLimit(t *testing.T) {
	s := newSessionState()
	s.start("cand-1", sampleQuestions())

	s.tick("q1")
	s.tick("q1")
	if !s.resetTimer("q1") {
		t.Fatalf("reset rejected")
	}
	if s.remaining["q1"] != 20 {
		t.Fatalf("expected 20 after reset, got %d", s.remaining["q1"])
	}
	if s.resetTimer("unknown") {
		t.Fatalf("reset for unknown question must be rejected")
	}
}

func TestStartReplacesPriorSession(t *testing.T) {
	s := newSessionState()
	s.start("cand-1", sampleQuestions())
	s.submit(domain.Answer{QuestionID: "q1", Score: 7})

	s.start("cand-2", sampleQuestions()[:1])
	if s.currentIndex != 0 || len(s.answers) != 0 {
		t.Fatalf("prior progress leaked: index=%d answers=%d", s.currentIndex, len(s.answers))
	}
	if s.candidateID != "cand-2" {
		t.Fatalf("expected new candidate, got %s", s.candidateID)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	s := newSessionState()
	s.start("cand-1", sampleQuestions())
	s.tick("q1")
	s.submit(domain.Answer{QuestionID: "q1", Score: 8, Via: domain.ViaManual})

	restored, ok := restoreSession(s.snapshot())
	if !ok {
		t.Fatalf("restore rejected a valid snapshot")
	}
	if restored.currentIndex != 1 || len(restored.answers) != 1 {
		t.Fatalf("restore lost progress: index=%d answers=%d", restored.currentIndex, len(restored.answers))
	}
	if restored.remaining["q1"] != 19 {
		t.Fatalf("remaining not preserved: %d", restored.remaining["q1"])
	}
}

func TestRestoreRejectsCorruptSnapshot(t *testing.T) {
	snap := domain.SessionSnapshot{
		Status:       domain.StatusInProgress,
		Questions:    sampleQuestions(),
		CurrentIndex: 2,
		Answers:      []domain.Answer{{QuestionID: "q1"}}, // one short
	}
	if _, ok := restoreSession(snap); ok {
		t.Fatalf("expected corrupt snapshot to be rejected")
	}
}

func TestViewProjection(t *testing.T) {
	s := newSessionState()
	s.start("cand-1", sampleQuestions())
	s.submit(domain.Answer{QuestionID: "q1", Score: 8})

	view := s.view(false)
	if view.Question == nil || view.Question.ID != "q2" {
		t.Fatalf("expected q2 current, got %+v", view.Question)
	}
	if view.Remaining != 60 {
		t.Fatalf("expected 60s remaining, got %d", view.Remaining)
	}
	if view.Progress < 0.33 || view.Progress > 0.34 {
		t.Fatalf("expected progress 1/3, got %f", view.Progress)
	}
}
