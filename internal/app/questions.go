package app

import (
	"context"

	"github.com/rs/zerolog"

	"ai-interview-service/internal/domain"
)

// QuestionSetRepository loads authored question sets (from cache/backing store).
type QuestionSetRepository interface {
	GetQuestionSet(ctx context.Context, setID string) (domain.QuestionSet, error)
}

// QuestionGenerator produces a tailored question set for a candidate.
type QuestionGenerator interface {
	GenerateQuestions(ctx context.Context, profile domain.Profile) ([]domain.Question, error)
}

// QuestionPlanner decides which questions an interview starts with: an
// authored set when one is requested, a generated set otherwise, and the
// canonical fallback whenever either collaborator fails. It never errors;
// an interview always has questions.
type QuestionPlanner struct {
	sets      QuestionSetRepository
	generator QuestionGenerator
	log       zerolog.Logger
}

func NewQuestionPlanner(sets QuestionSetRepository, generator QuestionGenerator, log zerolog.Logger) *QuestionPlanner {
	return &QuestionPlanner{sets: sets, generator: generator, log: log}
}

func (p *QuestionPlanner) Plan(ctx context.Context, profile domain.Profile, setID string) []domain.Question {
	if setID != "" && p.sets != nil {
		set, err := p.sets.GetQuestionSet(ctx, setID)
		if err == nil && len(set.Questions) > 0 {
			return set.Questions
		}
		p.log.Warn().Err(err).Str("set", setID).Msg("question set unavailable")
	}
	if p.generator != nil {
		questions, err := p.generator.GenerateQuestions(ctx, profile)
		if err == nil && len(questions) > 0 {
			return questions
		}
		p.log.Warn().Err(err).Msg("question generation failed, using fallback set")
	}
	return FallbackQuestions()
}

// FallbackQuestions is the canonical fixed set used when generation fails:
// two easy (20s), two medium (60s), two hard (120s).
func FallbackQuestions() []domain.Question {
	return []domain.Question{
		{ID: "q1", Text: "Explain useState in React.", Difficulty: domain.DifficultyEasy, TimeLimitSeconds: 20},
		{ID: "q2", Text: "What is Express middleware?", Difficulty: domain.DifficultyEasy, TimeLimitSeconds: 20},
		{ID: "q3", Text: "Explain Redux flow.", Difficulty: domain.DifficultyMedium, TimeLimitSeconds: 60},
		{ID: "q4", Text: "How does async/await work in JS?", Difficulty: domain.DifficultyMedium, TimeLimitSeconds: 60},
		{ID: "q5", Text: "How would you optimize a large React app?", Difficulty: domain.DifficultyHard, TimeLimitSeconds: 120},
		{ID: "q6", Text: "Explain scaling Node.js apps.", Difficulty: domain.DifficultyHard, TimeLimitSeconds: 120},
	}
}
