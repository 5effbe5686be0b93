package domain

// Difficulty buckets questions by expected effort; it also decides the
// default time limit when a generator omits one.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Question is a single interview prompt. Immutable once a session starts.
type Question struct {
	ID               string     `json:"id"`
	Text             string     `json:"text"`
	Difficulty       Difficulty `json:"difficulty"`
	TimeLimitSeconds int        `json:"timeLimit"`
}

// AnswerVia records which trigger produced an answer.
type AnswerVia string

const (
	ViaManual    AnswerVia = "manual"
	ViaAuto      AnswerVia = "auto"
	ViaAutoEmpty AnswerVia = "auto-empty"
)

// Answer is the scored outcome for one question. Exactly one is created per
// question; uniqueness comes from monotonic index advancement, not lookups.
type Answer struct {
	QuestionID string    `json:"questionId"`
	Text       string    `json:"text"`
	Score      float64   `json:"score"`
	Feedback   string    `json:"feedback"`
	Via        AnswerVia `json:"via"`
}

// ScoreResult is the scoring collaborator's verdict for a single answer.
type ScoreResult struct {
	Score    float64 `json:"score"`
	Feedback string  `json:"feedback"`
}

// SessionStatus is the session lifecycle state. Transitions only move
// forward: idle -> in-progress -> completed.
type SessionStatus string

const (
	StatusIdle       SessionStatus = "idle"
	StatusInProgress SessionStatus = "in-progress"
	StatusCompleted  SessionStatus = "completed"
)

// SessionSnapshot is the durable form of session state. It is overwritten
// whole on every persisted write; there is no versioning or migration.
type SessionSnapshot struct {
	Status       SessionStatus  `json:"status"`
	CandidateID  string         `json:"candidateId"`
	Questions    []Question     `json:"questions"`
	CurrentIndex int            `json:"currentIndex"`
	Answers      []Answer       `json:"answers"`
	Remaining    map[string]int `json:"timers"`
}

// TranscriptEntry is one question/answer/score/feedback tuple in a
// candidate's transcript.
type TranscriptEntry struct {
	Question string  `json:"question"`
	Answer   string  `json:"answer"`
	Score    float64 `json:"score"`
	Feedback string  `json:"feedback"`
}

// Profile is the best-effort identity extracted from a resume. Fields are
// empty strings when extraction fails.
type Profile struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// CandidateRecord tracks one candidate across an interview attempt.
// FinalScore is set iff the transcript covers the full question set.
type CandidateRecord struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Email      string            `json:"email"`
	Phone      string            `json:"phone"`
	Transcript []TranscriptEntry `json:"transcript"`
	FinalScore *float64          `json:"finalScore,omitempty"`
	Summary    string            `json:"summary,omitempty"`
}

// QuestionSet is an ordered, named collection of questions.
type QuestionSet struct {
	ID        string     `json:"id"`
	Questions []Question `json:"questions"`
}

// SessionView is the read-only projection pushed to presentation clients.
type SessionView struct {
	Status         SessionStatus `json:"status"`
	CandidateID    string        `json:"candidateId,omitempty"`
	Question       *Question     `json:"question,omitempty"`
	QuestionIndex  int           `json:"questionIndex"`
	TotalQuestions int           `json:"totalQuestions"`
	Remaining      int           `json:"remaining"`
	Progress       float64       `json:"progress"`
	Answers        []Answer      `json:"answers"`
	FinalScore     *float64      `json:"finalScore,omitempty"`
	Summary        string        `json:"summary,omitempty"`
	ResumePending  bool          `json:"resumePending"`
}
