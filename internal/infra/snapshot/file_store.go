package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"ai-interview-service/internal/domain"
)

const (
	sessionFile    = "session.json"
	candidatesFile = "candidates.json"
)

// FileStore keeps the two snapshot records as JSON files in a directory.
// Writes go through a temp file plus rename so a crash mid-write never
// leaves a truncated record behind.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create snapshot dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) SaveSession(_ context.Context, snap domain.SessionSnapshot) error {
	return s.write(sessionFile, snap)
}

func (s *FileStore) LoadSession(_ context.Context) (domain.SessionSnapshot, error) {
	var snap domain.SessionSnapshot
	if err := s.read(sessionFile, &snap); err != nil {
		return domain.SessionSnapshot{}, err
	}
	return snap, nil
}

func (s *FileStore) SaveCandidates(_ context.Context, records []domain.CandidateRecord) error {
	return s.write(candidatesFile, records)
}

func (s *FileStore) LoadCandidates(_ context.Context) ([]domain.CandidateRecord, error) {
	var records []domain.CandidateRecord
	if err := s.read(candidatesFile, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *FileStore) write(name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	path := filepath.Join(s.dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename %s: %w", name, err)
	}
	return nil
}

func (s *FileStore) read(name string, v any) error {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return domain.ErrSnapshotNotFound
		}
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}
