package snapshot

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"ai-interview-service/internal/domain"
)

// Writer throttles snapshot writes to at most one per interval, with Flush
// forcing the pending state out immediately. Write failures are logged and
// never interrupt the interview; durability is best-effort.
//
// There is only one writer per record, so no cross-writer coordination.
type Writer struct {
	store    Store
	interval time.Duration
	log      zerolog.Logger

	mu                sync.Mutex
	lastWrite         time.Time
	pendingSession    *domain.SessionSnapshot
	pendingCandidates []domain.CandidateRecord
	timer             *time.Timer
}

func NewWriter(store Store, interval time.Duration, log zerolog.Logger) *Writer {
	if interval <= 0 {
		interval = time.Second
	}
	return &Writer{store: store, interval: interval, log: log}
}

func (w *Writer) SaveSession(snap domain.SessionSnapshot) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pendingSession = &snap
	w.maybeWriteLocked()
}

func (w *Writer) SaveCandidates(records []domain.CandidateRecord) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pendingCandidates = records
	w.maybeWriteLocked()
}

// Flush writes any pending state immediately. Called after every submit and
// at process exit so the latest transcript entry is never lost.
func (w *Writer) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.writeLocked()
}

// maybeWriteLocked requires w.mu. Writes now when outside the throttle
// window, otherwise schedules a deferred write at the window's end.
func (w *Writer) maybeWriteLocked() {
	if time.Since(w.lastWrite) >= w.interval {
		w.writeLocked()
		return
	}
	if w.timer == nil {
		delay := w.interval - time.Since(w.lastWrite)
		w.timer = time.AfterFunc(delay, w.deferredWrite)
	}
}

func (w *Writer) deferredWrite() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.timer = nil
	w.writeLocked()
}

// writeLocked requires w.mu.
func (w *Writer) writeLocked() {
	ctx := context.Background()
	if w.pendingSession != nil {
		if err := w.store.SaveSession(ctx, *w.pendingSession); err != nil {
			w.log.Error().Err(err).Msg("session snapshot write failed")
		}
		w.pendingSession = nil
	}
	if w.pendingCandidates != nil {
		if err := w.store.SaveCandidates(ctx, w.pendingCandidates); err != nil {
			w.log.Error().Err(err).Msg("candidates snapshot write failed")
		}
		w.pendingCandidates = nil
	}
	w.lastWrite = time.Now()
}
