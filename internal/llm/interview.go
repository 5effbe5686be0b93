package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"ai-interview-service/internal/domain"
)

const scoringSystemPrompt = `You are an interview scoring assistant. Analyze the answer and provide a score from 0-10 with constructive feedback.
Important: Even if the answer is incomplete due to time constraints, provide an appropriate score and feedback based on what was written.
Consider the context - if the answer seems cut off, evaluate what's present and mention it was likely due to time limits.`

const generationSystemPrompt = `You are an expert interview question generator. Generate 6 technical interview questions for a candidate focused on Node.js and React. Return valid JSON array with id, text, difficulty (2 easy/ 2 medium/ 2 hard), and timeLimit (easy=20, medium=60, hard=120).`

const extractionSystemPrompt = `You are an expert resume parser. ONLY respond with valid JSON like {"name":"...","email":"...","phone":"..."}. Do not include any explanation or formatting.`

// ScoreAnswer asks the model to grade one answer. The returned score is range
// checked so a malformed verdict surfaces as an error, not a bogus grade.
func (c *Client) ScoreAnswer(ctx context.Context, questionText, answerText string) (domain.ScoreResult, error) {
	content, err := c.complete(ctx, []chatMessage{
		{Role: "system", Content: scoringSystemPrompt},
		{Role: "user", Content: fmt.Sprintf("Question: %s\nAnswer: %s\n\nReturn JSON format: { \"score\": number, \"feedback\": \"detailed feedback here\" }", questionText, answerText)},
	})
	if err != nil {
		return domain.ScoreResult{}, err
	}

	var result domain.ScoreResult
	if err := json.Unmarshal([]byte(stripFences(content)), &result); err != nil {
		return domain.ScoreResult{}, fmt.Errorf("parse score response: %w", err)
	}
	if result.Score < 0 || result.Score > 10 {
		return domain.ScoreResult{}, fmt.Errorf("score %.1f: %w", result.Score, domain.ErrScoreOutOfRange)
	}
	return result, nil
}

type generatedQuestion struct {
	ID         string            `json:"id"`
	Text       string            `json:"text"`
	Difficulty domain.Difficulty `json:"difficulty"`
	TimeLimit  int               `json:"timeLimit"`
}

// GenerateQuestions produces an ordered question set tailored to the
// candidate. Callers fall back to the canonical fixed set on error.
func (c *Client) GenerateQuestions(ctx context.Context, profile domain.Profile) ([]domain.Question, error) {
	content, err := c.complete(ctx, []chatMessage{
		{Role: "system", Content: generationSystemPrompt},
		{Role: "user", Content: fmt.Sprintf("Candidate Info:\nName: %s\nEmail: %s\nPhone: %s", profile.Name, profile.Email, profile.Phone)},
	})
	if err != nil {
		return nil, err
	}

	var generated []generatedQuestion
	if err := json.Unmarshal([]byte(stripFences(content)), &generated); err != nil {
		return nil, fmt.Errorf("parse generated questions: %w", err)
	}

	questions := make([]domain.Question, 0, len(generated))
	for i, g := range generated {
		q := domain.Question{
			ID:               g.ID,
			Text:             g.Text,
			Difficulty:       g.Difficulty,
			TimeLimitSeconds: g.TimeLimit,
		}
		if q.ID == "" {
			q.ID = fmt.Sprintf("q%d", i+1)
		}
		if q.TimeLimitSeconds <= 0 {
			q.TimeLimitSeconds = defaultTimeLimit(q.Difficulty)
		}
		questions = append(questions, q)
	}
	return questions, nil
}

// ExtractProfile pulls {name,email,phone} from resume text. Best-effort:
// any failure yields an empty profile, never an error.
func (c *Client) ExtractProfile(ctx context.Context, resumeText string) domain.Profile {
	content, err := c.complete(ctx, []chatMessage{
		{Role: "system", Content: extractionSystemPrompt},
		{Role: "user", Content: "RESUME TEXT:\n\n" + resumeText},
	})
	if err != nil {
		c.log.Warn().Err(err).Msg("profile extraction failed")
		return domain.Profile{}
	}
	var profile domain.Profile
	if err := json.Unmarshal([]byte(stripFences(content)), &profile); err != nil {
		c.log.Warn().Err(err).Msg("profile extraction returned invalid JSON")
		return domain.Profile{}
	}
	return profile
}

func defaultTimeLimit(d domain.Difficulty) int {
	switch d {
	case domain.DifficultyMedium:
		return 60
	case domain.DifficultyHard:
		return 120
	default:
		return 20
	}
}
