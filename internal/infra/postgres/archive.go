package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"ai-interview-service/internal/domain"
)

// CandidateArchive stores completed candidate records for later review.
type CandidateArchive struct {
	pool *pgxpool.Pool
}

func NewCandidateArchive(pool *pgxpool.Pool) *CandidateArchive {
	return &CandidateArchive{pool: pool}
}

func (a *CandidateArchive) ArchiveCandidate(ctx context.Context, rec domain.CandidateRecord) error {
	transcript, err := json.Marshal(rec.Transcript)
	if err != nil {
		return fmt.Errorf("marshal transcript: %w", err)
	}
	_, err = a.pool.Exec(ctx, `
		INSERT INTO candidate_archive (id, name, email, phone, transcript, final_score, summary)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			email = EXCLUDED.email,
			phone = EXCLUDED.phone,
			transcript = EXCLUDED.transcript,
			final_score = EXCLUDED.final_score,
			summary = EXCLUDED.summary`,
		rec.ID, rec.Name, rec.Email, rec.Phone, transcript, rec.FinalScore, rec.Summary)
	if err != nil {
		return fmt.Errorf("archive candidate: %w", err)
	}
	return nil
}
