package app

import (
	"fmt"
	"math"

	"ai-interview-service/internal/domain"
)

// FinalScore averages the collected answer scores, rounded to one decimal.
// Zero answers yield zero.
func FinalScore(answers []domain.Answer) float64 {
	if len(answers) == 0 {
		return 0
	}
	sum := 0.0
	for _, a := range answers {
		sum += a.Score
	}
	return math.Round(sum/float64(len(answers))*10) / 10
}

// Summary renders the human-readable assessment line stored alongside the
// final score.
func Summary(questionCount int, finalScore float64) string {
	return fmt.Sprintf("Final assessment based on %d questions. Average score: %.1f/10", questionCount, finalScore)
}
