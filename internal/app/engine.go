package app

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"ai-interview-service/internal/domain"
)

// Scorer is the external scoring collaborator. Any error maps to the
// deterministic fallback policy; it is never surfaced to the candidate.
type Scorer interface {
	ScoreAnswer(ctx context.Context, questionText, answerText string) (domain.ScoreResult, error)
}

// Persister receives durable snapshots of the two state stores. Writes are
// best-effort: implementations log failures and never block the interview.
type Persister interface {
	SaveSession(snap domain.SessionSnapshot)
	SaveCandidates(records []domain.CandidateRecord)
	Flush()
}

// Archiver stores completed candidate records in long-term storage.
type Archiver interface {
	ArchiveCandidate(ctx context.Context, rec domain.CandidateRecord) error
}

// lockState is the per-question submission lock. A trigger must move it from
// open to locked synchronously, before any suspending call; it closes once
// the answer is applied and reopens only when the current question changes.
type lockState int

const (
	lockOpen lockState = iota
	lockLocked
	lockClosed
)

// EngineOptions configures a new Engine.
type EngineOptions struct {
	Scorer       Scorer
	Persister    Persister
	Archiver     Archiver
	Logger       zerolog.Logger
	TickInterval time.Duration
	// ServerTimer runs the internal coordinator. When false, transport tick
	// commands are expected to drive the countdown instead.
	ServerTimer bool
}

// Engine owns the session state machine and candidate store and serializes
// every mutation. Timer ticks, user submissions, and scoring completions all
// funnel through its entry points.
type Engine struct {
	mu            sync.Mutex
	session       *sessionState
	sessionGen    uint64
	lock          lockState
	resumePending bool

	candidates *CandidateStore
	scorer     Scorer
	persist    Persister
	archive    Archiver
	timer      *timerCoordinator
	log        zerolog.Logger

	subMu       sync.Mutex
	subscribers map[chan domain.SessionView]struct{}
}

func NewEngine(opts EngineOptions) *Engine {
	e := &Engine{
		session:     newSessionState(),
		candidates:  NewCandidateStore(),
		scorer:      opts.Scorer,
		persist:     opts.Persister,
		archive:     opts.Archiver,
		log:         opts.Logger,
		subscribers: make(map[chan domain.SessionView]struct{}),
	}
	if opts.ServerTimer {
		e.timer = newTimerCoordinator(opts.TickInterval, e.timerTick, e.timerExpired)
	}
	return e
}

// Candidates exposes the candidate record store.
func (e *Engine) Candidates() *CandidateStore {
	return e.candidates
}

// RegisterCandidate creates a candidate record and persists the store.
func (e *Engine) RegisterCandidate(profile domain.Profile) domain.CandidateRecord {
	rec := e.candidates.Add(profile)
	e.saveCandidates()
	return rec
}

// Start begins a new session for the candidate, discarding any prior one.
func (e *Engine) Start(candidateID string, questions []domain.Question) domain.SessionView {
	e.mu.Lock()
	e.session = newSessionState()
	e.session.start(candidateID, questions)
	e.sessionGen++
	e.resumePending = false
	e.lock = lockOpen
	completed := e.session.status == domain.StatusCompleted
	if completed {
		e.lock = lockClosed
	}
	if e.timer != nil {
		if q, ok := e.session.current(); ok {
			e.timer.StartQuestion(q.ID, e.session.remaining[q.ID])
		} else {
			e.timer.Stop()
		}
	}
	snap := e.session.snapshot()
	if completed {
		// Degenerate zero-question start: the transcript (empty) already
		// covers the whole set, so the aggregate applies immediately.
		e.finalize(candidateID, snap)
	}
	e.saveSession(snap)
	e.flush()
	view := e.viewLocked()
	e.mu.Unlock()

	e.broadcast(view)
	return view
}

// Tick advances the countdown for questionID by one second. Stale ticks are
// silent no-ops. Persistence intentionally skips ticks to bound writes.
func (e *Engine) Tick(questionID string) (remaining int, effective bool) {
	e.mu.Lock()
	if e.resumePending {
		e.mu.Unlock()
		return 0, false
	}
	remaining, effective = e.session.tick(questionID)
	var view domain.SessionView
	if effective {
		view = e.viewLocked()
	}
	e.mu.Unlock()

	if effective {
		e.broadcast(view)
	}
	return remaining, effective
}

// ResetTimer restores a question's countdown to its full limit.
func (e *Engine) ResetTimer(questionID string) bool {
	e.mu.Lock()
	if e.resumePending || !e.session.resetTimer(questionID) {
		e.mu.Unlock()
		return false
	}
	if cur, ok := e.session.current(); ok && cur.ID == questionID && e.timer != nil {
		e.timer.StartQuestion(questionID, e.session.remaining[questionID])
	}
	e.saveSession(e.session.snapshot())
	view := e.viewLocked()
	e.mu.Unlock()

	e.broadcast(view)
	return true
}

// Rehydrate loads persisted state at process start. An in-progress snapshot
// is not silently resumed: the engine surfaces a resume-or-restart decision
// and freezes timers until one is made.
func (e *Engine) Rehydrate(snap *domain.SessionSnapshot, candidates []domain.CandidateRecord) {
	if candidates != nil {
		e.candidates.Restore(candidates)
	}
	if snap == nil {
		return
	}
	restored, ok := restoreSession(*snap)
	if !ok {
		e.log.Warn().Msg("discarding invalid session snapshot")
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.session = restored
	e.sessionGen++
	switch {
	case restored.status == domain.StatusInProgress && len(restored.questions) > 0:
		e.resumePending = true
		e.lock = lockOpen
	case restored.status == domain.StatusCompleted:
		e.lock = lockClosed
	default:
		e.lock = lockOpen
	}
}

// ResumePending reports whether a rehydrated session awaits a decision.
func (e *Engine) ResumePending() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.resumePending
}

// Resume continues the rehydrated session with remaining times exactly as
// stored. Wall-clock time while the process was down is not deducted.
func (e *Engine) Resume() (domain.SessionView, error) {
	e.mu.Lock()
	if !e.resumePending {
		e.mu.Unlock()
		return domain.SessionView{}, domain.ErrNoResumePending
	}
	e.resumePending = false
	e.lock = lockOpen
	if e.timer != nil {
		if q, ok := e.session.current(); ok {
			e.timer.StartQuestion(q.ID, e.session.remaining[q.ID])
		}
	}
	view := e.viewLocked()
	e.mu.Unlock()

	e.broadcast(view)
	return view, nil
}

// Restart discards the rehydrated session and returns to idle.
func (e *Engine) Restart() domain.SessionView {
	e.mu.Lock()
	e.session = newSessionState()
	e.sessionGen++
	e.resumePending = false
	e.lock = lockOpen
	if e.timer != nil {
		e.timer.Stop()
	}
	e.saveSession(e.session.snapshot())
	e.flush()
	view := e.viewLocked()
	e.mu.Unlock()

	e.broadcast(view)
	return view
}

// View returns the current read-only projection.
func (e *Engine) View() domain.SessionView {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.viewLocked()
}

// Close stops the timer and flushes any pending snapshot write.
func (e *Engine) Close() {
	if e.timer != nil {
		e.timer.Stop()
	}
	e.flush()
}

// Subscribe returns a channel receiving session view updates. The caller
// must invoke cancel to avoid leaks.
func (e *Engine) Subscribe() (<-chan domain.SessionView, func()) {
	ch := make(chan domain.SessionView, 8)

	// Registration and the initial view are atomic with respect to broadcast:
	// the fresh buffer cannot fill before the send, and the subscriber never
	// sees a newer view ahead of the initial one. Lock order is subMu then
	// e.mu; broadcast is only ever called with e.mu released.
	e.subMu.Lock()
	e.subscribers[ch] = struct{}{}
	ch <- e.View()
	e.subMu.Unlock()

	cancel := func() {
		e.subMu.Lock()
		if _, ok := e.subscribers[ch]; ok {
			delete(e.subscribers, ch)
			close(ch)
		}
		e.subMu.Unlock()
	}
	return ch, cancel
}

func (e *Engine) broadcast(view domain.SessionView) {
	e.subMu.Lock()
	defer e.subMu.Unlock()
	for ch := range e.subscribers {
		select {
		case ch <- view:
		default:
			// Drop the oldest update so a slow client never blocks the engine.
			select {
			case <-ch:
			default:
			}
			ch <- view
		}
	}
}

// viewLocked requires e.mu.
func (e *Engine) viewLocked() domain.SessionView {
	view := e.session.view(e.resumePending)
	if rec, ok := e.candidates.Get(view.CandidateID); ok && rec.FinalScore != nil {
		view.FinalScore = rec.FinalScore
		view.Summary = rec.Summary
	}
	return view
}

// timerTick is the coordinator's tick callback.
func (e *Engine) timerTick(questionID string) (int, bool) {
	return e.Tick(questionID)
}

// timerExpired is the coordinator's one-shot timeout callback. The countdown
// has already been halted, so a concurrent manual submission can win only
// through the per-question lock.
func (e *Engine) timerExpired(questionID string) {
	e.submit(context.Background(), "", true, questionID)
}

func (e *Engine) saveSession(snap domain.SessionSnapshot) {
	if e.persist != nil {
		e.persist.SaveSession(snap)
	}
}

func (e *Engine) saveCandidates() {
	if e.persist != nil {
		e.persist.SaveCandidates(e.candidates.List())
	}
}

func (e *Engine) flush() {
	if e.persist != nil {
		e.persist.Flush()
	}
}
