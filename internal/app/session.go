package app

import (
	"ai-interview-service/internal/domain"
)

// sessionState holds one candidate's progression through a fixed question
// set. It is not safe for concurrent use; the Engine serializes access.
//
// Invariants, held at every observation point:
//   - 0 <= currentIndex <= len(questions)
//   - len(answers) == currentIndex
//   - remaining is defined for every question from start until replacement
type sessionState struct {
	status       domain.SessionStatus
	candidateID  string
	questions    []domain.Question
	currentIndex int
	answers      []domain.Answer
	remaining    map[string]int
}

func newSessionState() *sessionState {
	return &sessionState{
		status:    domain.StatusIdle,
		remaining: make(map[string]int),
	}
}

// start replaces any prior session wholesale. A zero-question start already
// satisfies currentIndex == len(questions), so it completes immediately.
func (s *sessionState) start(candidateID string, questions []domain.Question) {
	s.candidateID = candidateID
	s.questions = append([]domain.Question(nil), questions...)
	s.currentIndex = 0
	s.answers = nil
	s.remaining = make(map[string]int, len(questions))
	for _, q := range questions {
		s.remaining[q.ID] = q.TimeLimitSeconds
	}
	if len(questions) == 0 {
		s.status = domain.StatusCompleted
		return
	}
	s.status = domain.StatusInProgress
}

// current returns the active question, if any.
func (s *sessionState) current() (domain.Question, bool) {
	if s.status != domain.StatusInProgress || s.currentIndex >= len(s.questions) {
		return domain.Question{}, false
	}
	return s.questions[s.currentIndex], true
}

// tick decrements the current question's remaining time by one second and
// returns the value left. Ticks for a question that is no longer current, a
// depleted timer, or a non-running session are stale and leave state
// untouched, reported as effective=false.
func (s *sessionState) tick(questionID string) (remaining int, effective bool) {
	cur, ok := s.current()
	if !ok || cur.ID != questionID || s.remaining[questionID] <= 0 {
		return 0, false
	}
	s.remaining[questionID]--
	return s.remaining[questionID], true
}

// submit appends the answer for the current question and advances. The last
// submission flips the session to completed.
func (s *sessionState) submit(answer domain.Answer) bool {
	if s.status != domain.StatusInProgress || s.currentIndex >= len(s.questions) {
		return false
	}
	s.answers = append(s.answers, answer)
	s.currentIndex++
	if s.currentIndex == len(s.questions) {
		s.status = domain.StatusCompleted
	}
	return true
}

// resetTimer restores a question's countdown to its full time limit.
func (s *sessionState) resetTimer(questionID string) bool {
	for _, q := range s.questions {
		if q.ID == questionID {
			s.remaining[q.ID] = q.TimeLimitSeconds
			return true
		}
	}
	return false
}

func (s *sessionState) snapshot() domain.SessionSnapshot {
	remaining := make(map[string]int, len(s.remaining))
	for id, sec := range s.remaining {
		remaining[id] = sec
	}
	return domain.SessionSnapshot{
		Status:       s.status,
		CandidateID:  s.candidateID,
		Questions:    append([]domain.Question(nil), s.questions...),
		CurrentIndex: s.currentIndex,
		Answers:      append([]domain.Answer(nil), s.answers...),
		Remaining:    remaining,
	}
}

// restoreSession rehydrates a state machine from a snapshot. Snapshots that
// violate the core invariant are rejected so a corrupt record cannot put the
// engine into an unreachable state.
func restoreSession(snap domain.SessionSnapshot) (*sessionState, bool) {
	if snap.CurrentIndex < 0 || snap.CurrentIndex > len(snap.Questions) {
		return nil, false
	}
	if len(snap.Answers) != snap.CurrentIndex {
		return nil, false
	}
	status := snap.Status
	if status == "" {
		status = domain.StatusIdle
	}
	s := &sessionState{
		status:       status,
		candidateID:  snap.CandidateID,
		questions:    append([]domain.Question(nil), snap.Questions...),
		currentIndex: snap.CurrentIndex,
		answers:      append([]domain.Answer(nil), snap.Answers...),
		remaining:    make(map[string]int, len(snap.Questions)),
	}
	for _, q := range s.questions {
		if sec, ok := snap.Remaining[q.ID]; ok {
			s.remaining[q.ID] = sec
		} else {
			s.remaining[q.ID] = q.TimeLimitSeconds
		}
	}
	return s, true
}

func (s *sessionState) view(resumePending bool) domain.SessionView {
	view := domain.SessionView{
		Status:         s.status,
		CandidateID:    s.candidateID,
		QuestionIndex:  s.currentIndex,
		TotalQuestions: len(s.questions),
		Answers:        append([]domain.Answer(nil), s.answers...),
		ResumePending:  resumePending,
	}
	if cur, ok := s.current(); ok {
		q := cur
		view.Question = &q
		view.Remaining = s.remaining[q.ID]
	}
	if len(s.questions) > 0 {
		view.Progress = float64(s.currentIndex) / float64(len(s.questions))
	}
	return view
}
