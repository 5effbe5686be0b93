// Package snapshot persists the two durable records the engine depends on:
// the session snapshot and the candidate list. Both are overwritten whole;
// there is no versioning or migration.
package snapshot

import (
	"context"

	"ai-interview-service/internal/domain"
)

// Store is a durable backend for the two snapshot records.
type Store interface {
	SaveSession(ctx context.Context, snap domain.SessionSnapshot) error
	LoadSession(ctx context.Context) (domain.SessionSnapshot, error)
	SaveCandidates(ctx context.Context, records []domain.CandidateRecord) error
	LoadCandidates(ctx context.Context) ([]domain.CandidateRecord, error)
}
