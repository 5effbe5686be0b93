package domain

import "errors"

var (
	// ErrNoResumePending is returned when resume/restart is requested without a
	// rehydrated in-progress snapshot.
	ErrNoResumePending = errors.New("no interview session pending resume")
	// ErrCandidateNotFound is returned when a transcript mutation targets an
	// unknown candidate.
	ErrCandidateNotFound = errors.New("candidate not found")
	// ErrQuestionSetNotFound indicates question content could not be loaded.
	ErrQuestionSetNotFound = errors.New("question set not found")
	// ErrScoreOutOfRange indicates the scoring collaborator returned a score
	// outside [0,10]; the submission pipeline maps it to fallback scoring.
	ErrScoreOutOfRange = errors.New("score outside 0-10 range")
	// ErrSnapshotNotFound indicates no durable snapshot exists yet.
	ErrSnapshotNotFound = errors.New("snapshot not found")
)
