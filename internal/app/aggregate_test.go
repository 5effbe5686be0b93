package app

import (
	"testing"

	"ai-interview-service/internal/domain"
)

func TestFinalScoreAverages(t *testing.T) {
	answers := make([]domain.Answer, 0, 6)
	for _, score := range []float64{10, 8, 6, 4, 2, 0} {
		answers = append(answers, domain.Answer{Score: score})
	}
	if got := FinalScore(answers); got != 5.0 {
		t.Fatalf("expected 5.0, got %v", got)
	}
}

func TestFinalScoreRoundsToOneDecimal(t *testing.T) {
	answers := []domain.Answer{{Score: 7}, {Score: 8}, {Score: 8}}
	if got := FinalScore(answers); got != 7.7 {
		t.Fatalf("expected 7.7, got %v", got)
	}
}

func TestFinalScoreEmpty(t *testing.T) {
	if got := FinalScore(nil); got != 0 {
		t.Fatalf("expected 0 for no answers, got %v", got)
	}
}

func TestSummaryMentionsCountAndAverage(t *testing.T) {
	got := Summary(6, 5.0)
	want := "Final assessment based on 6 questions. Average score: 5.0/10"
	if got != want {
		t.Fatalf("summary %q, want %q", got, want)
	}
}
