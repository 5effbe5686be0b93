package app

import (
	"sync"

	"github.com/google/uuid"

	"ai-interview-service/internal/domain"
)

// CandidateStore keeps candidate records for the running process. Transcript
// entries append monotonically; final score and summary are set once.
type CandidateStore struct {
	mu   sync.RWMutex
	list []domain.CandidateRecord
}

func NewCandidateStore() *CandidateStore {
	return &CandidateStore{}
}

// Add registers a candidate from a best-effort profile and returns the record.
func (s *CandidateStore) Add(profile domain.Profile) domain.CandidateRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := domain.CandidateRecord{
		ID:    uuid.NewString(),
		Name:  profile.Name,
		Email: profile.Email,
		Phone: profile.Phone,
	}
	s.list = append(s.list, rec)
	return rec
}

// AppendTranscript adds one entry to a candidate's transcript.
func (s *CandidateStore) AppendTranscript(candidateID string, entry domain.TranscriptEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.list {
		if s.list[i].ID == candidateID {
			s.list[i].Transcript = append(s.list[i].Transcript, entry)
			return nil
		}
	}
	return domain.ErrCandidateNotFound
}

// SetFinalScore records the aggregate once; later calls are ignored.
func (s *CandidateStore) SetFinalScore(candidateID string, score float64, summary string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.list {
		if s.list[i].ID == candidateID {
			if s.list[i].FinalScore != nil {
				return nil
			}
			v := score
			s.list[i].FinalScore = &v
			s.list[i].Summary = summary
			return nil
		}
	}
	return domain.ErrCandidateNotFound
}

// Get returns a copy of one candidate record.
func (s *CandidateStore) Get(candidateID string) (domain.CandidateRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.list {
		if s.list[i].ID == candidateID {
			return copyRecord(s.list[i]), true
		}
	}
	return domain.CandidateRecord{}, false
}

// List returns copies of all candidate records in insertion order.
func (s *CandidateStore) List() []domain.CandidateRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.CandidateRecord, 0, len(s.list))
	for i := range s.list {
		out = append(out, copyRecord(s.list[i]))
	}
	return out
}

// Restore replaces the store contents from a persisted snapshot.
func (s *CandidateStore) Restore(records []domain.CandidateRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.list = make([]domain.CandidateRecord, 0, len(records))
	for i := range records {
		s.list = append(s.list, copyRecord(records[i]))
	}
}

func copyRecord(rec domain.CandidateRecord) domain.CandidateRecord {
	out := rec
	out.Transcript = append([]domain.TranscriptEntry(nil), rec.Transcript...)
	if rec.FinalScore != nil {
		v := *rec.FinalScore
		out.FinalScore = &v
	}
	return out
}
