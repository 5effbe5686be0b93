package memory

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"ai-interview-service/internal/domain"
)

// QuestionSetLoader fetches question content from a backing store.
type QuestionSetLoader interface {
	LoadQuestionSet(ctx context.Context, setID string) (domain.QuestionSet, error)
}

// QuestionRepository memoizes loaded question sets for a TTL so interview
// starts do not hit the backing store every time. Concurrent misses for the
// same set collapse into a single load.
type QuestionRepository struct {
	loader QuestionSetLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group

	mu    sync.RWMutex
	cache map[string]cachedSet
}

type cachedSet struct {
	set       domain.QuestionSet
	expiresAt time.Time
}

func NewQuestionRepository(loader QuestionSetLoader, ttl time.Duration) *QuestionRepository {
	return &QuestionRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		cache:  make(map[string]cachedSet),
	}
}

func (r *QuestionRepository) GetQuestionSet(ctx context.Context, setID string) (domain.QuestionSet, error) {
	now := r.clock()

	r.mu.RLock()
	if entry, ok := r.cache[setID]; ok && entry.expiresAt.After(now) {
		r.mu.RUnlock()
		return entry.set, nil
	}
	r.mu.RUnlock()

	result, err, _ := r.sf.Do(setID, func() (interface{}, error) {
		// Another caller may have filled the entry while we waited.
		now := r.clock()
		r.mu.RLock()
		if entry, ok := r.cache[setID]; ok && entry.expiresAt.After(now) {
			r.mu.RUnlock()
			return entry.set, nil
		}
		r.mu.RUnlock()

		set, err := r.loader.LoadQuestionSet(ctx, setID)
		if err != nil {
			return domain.QuestionSet{}, err
		}

		r.mu.Lock()
		r.cache[setID] = cachedSet{
			set:       set,
			expiresAt: now.Add(r.ttl),
		}
		r.mu.Unlock()
		return set, nil
	})
	if err != nil {
		return domain.QuestionSet{}, err
	}
	return result.(domain.QuestionSet), nil
}

// StaticQuestionSetLoader is a loader backed by an in-memory map (useful for
// tests and redis/postgres-less deployments).
type StaticQuestionSetLoader struct {
	sets map[string]domain.QuestionSet
}

func NewStaticQuestionSetLoader(sets map[string]domain.QuestionSet) *StaticQuestionSetLoader {
	return &StaticQuestionSetLoader{sets: sets}
}

func (l *StaticQuestionSetLoader) LoadQuestionSet(_ context.Context, setID string) (domain.QuestionSet, error) {
	if set, ok := l.sets[setID]; ok {
		return set, nil
	}
	return domain.QuestionSet{}, domain.ErrQuestionSetNotFound
}
