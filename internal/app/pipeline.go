package app

import (
	"context"
	"strings"

	"ai-interview-service/internal/domain"
)

// Fallback scoring policy: applied whenever the scoring collaborator fails
// or returns an unusable score. The candidate always sees a scored answer.
const (
	feedbackAutoEmpty      = "no answer provided before time expired"
	feedbackAutoFallback   = "time expired - automated scoring failed"
	feedbackManualFallback = "automated scoring failed - needs manual review"

	fallbackManualScore = 5.0
)

// SubmitResult reports the outcome of one submission trigger.
type SubmitResult struct {
	// Applied is false when the trigger lost the per-question lock or hit a
	// session that cannot accept answers; state is then bit-for-bit unchanged.
	Applied bool
	// Fallback is true when fallback scoring was used; the presentation layer
	// shows an advisory notice, never an error.
	Fallback  bool
	Answer    domain.Answer
	Completed bool
}

// SubmitAnswer runs the answer submission pipeline for the current question:
// acquire the per-question lock, score (or short-circuit), then mutate the
// session and candidate record exactly once. Manual and timeout triggers
// race here; whichever locks first wins and the loser is a silent no-op.
func (e *Engine) SubmitAnswer(ctx context.Context, rawText string, auto bool) SubmitResult {
	return e.submit(ctx, rawText, auto, "")
}

// submit is the single mutation entry point. expectQuestionID pins a timeout
// trigger to the question it expired for; empty means "whatever is current".
func (e *Engine) submit(ctx context.Context, rawText string, auto bool, expectQuestionID string) SubmitResult {
	e.mu.Lock()
	if e.resumePending {
		e.mu.Unlock()
		return SubmitResult{}
	}
	question, ok := e.session.current()
	if !ok {
		e.mu.Unlock()
		return SubmitResult{}
	}
	if expectQuestionID != "" && question.ID != expectQuestionID {
		e.mu.Unlock()
		return SubmitResult{}
	}
	if e.lock != lockOpen {
		e.mu.Unlock()
		return SubmitResult{}
	}
	// Acquire before the suspending scoring call; this is what makes the
	// manual-vs-timeout race safe.
	e.lock = lockLocked
	lockedGen := e.sessionGen
	lockedIndex := e.session.currentIndex
	candidateID := e.session.candidateID
	e.mu.Unlock()

	answer, fallback := e.scoreAnswer(ctx, question, rawText, auto)

	e.mu.Lock()
	// The scoring call may have completed long after the world moved on
	// (restart, new session). Discard the result unless we still hold the
	// lock for the same question of the same session.
	if e.lock != lockLocked || e.sessionGen != lockedGen ||
		e.session.currentIndex != lockedIndex ||
		e.session.status != domain.StatusInProgress {
		e.mu.Unlock()
		return SubmitResult{}
	}
	e.lock = lockClosed
	if !e.session.submit(answer) {
		e.mu.Unlock()
		return SubmitResult{}
	}
	completed := e.session.status == domain.StatusCompleted
	if !completed {
		e.lock = lockOpen
	}
	// Side effects stay inside the mutex. Reopening the lock admits the next
	// trigger, and its timer start, transcript append, and snapshot write must
	// land after ours: a late StartQuestion would strand the countdown and a
	// late SaveSession would regress the durable snapshot.
	if e.timer != nil {
		if q, ok := e.session.current(); ok {
			e.timer.StartQuestion(q.ID, e.session.remaining[q.ID])
		} else {
			e.timer.Stop()
		}
	}
	if err := e.candidates.AppendTranscript(candidateID, domain.TranscriptEntry{
		Question: question.Text,
		Answer:   answer.Text,
		Score:    answer.Score,
		Feedback: answer.Feedback,
	}); err != nil {
		e.log.Warn().Err(err).Str("candidate", candidateID).Msg("transcript append failed")
	}
	snap := e.session.snapshot()
	if completed {
		e.finalize(candidateID, snap)
	}
	e.saveSession(snap)
	e.saveCandidates()
	// Forced flush after every submit: the latest transcript entry survives a
	// crash regardless of the write throttle.
	e.flush()
	view := e.viewLocked()
	e.mu.Unlock()

	e.broadcast(view)

	if fallback {
		e.log.Info().
			Str("question", question.ID).
			Bool("auto", auto).
			Msg("fallback scoring applied")
	}
	return SubmitResult{Applied: true, Fallback: fallback, Answer: answer, Completed: completed}
}

// scoreAnswer produces the Answer for a submission, calling the scoring
// collaborator unless the auto-empty short-circuit applies. Scoring failures
// of any kind collapse into the deterministic fallback.
func (e *Engine) scoreAnswer(ctx context.Context, question domain.Question, rawText string, auto bool) (domain.Answer, bool) {
	effective := strings.TrimSpace(rawText)

	via := domain.ViaManual
	if auto {
		via = domain.ViaAuto
	}

	if auto && effective == "" {
		return domain.Answer{
			QuestionID: question.ID,
			Score:      0,
			Feedback:   feedbackAutoEmpty,
			Via:        domain.ViaAutoEmpty,
		}, false
	}

	result, err := e.scorer.ScoreAnswer(ctx, question.Text, effective)
	if err == nil && (result.Score < 0 || result.Score > 10) {
		err = domain.ErrScoreOutOfRange
	}
	if err != nil {
		e.log.Warn().Err(err).Str("question", question.ID).Msg("scoring call failed")
		answer := domain.Answer{
			QuestionID: question.ID,
			Text:       effective,
			Via:        via,
		}
		if auto {
			answer.Score = 0
			answer.Feedback = feedbackAutoFallback
		} else {
			answer.Score = fallbackManualScore
			answer.Feedback = feedbackManualFallback
		}
		return answer, true
	}

	return domain.Answer{
		QuestionID: question.ID,
		Text:       effective,
		Score:      result.Score,
		Feedback:   result.Feedback,
		Via:        via,
	}, false
}

// finalize aggregates the final score, records it on the candidate, and
// archives the completed record best-effort.
func (e *Engine) finalize(candidateID string, snap domain.SessionSnapshot) {
	final := FinalScore(snap.Answers)
	summary := Summary(len(snap.Questions), final)
	if err := e.candidates.SetFinalScore(candidateID, final, summary); err != nil {
		e.log.Warn().Err(err).Str("candidate", candidateID).Msg("final score not recorded")
		return
	}
	if e.archive == nil {
		return
	}
	rec, ok := e.candidates.Get(candidateID)
	if !ok {
		return
	}
	go func() {
		if err := e.archive.ArchiveCandidate(context.Background(), rec); err != nil {
			e.log.Warn().Err(err).Str("candidate", candidateID).Msg("candidate archive failed")
		}
	}()
}
