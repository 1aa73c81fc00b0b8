package quiz

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/example/vocabdiary/pkg/models"
)

// State is the lifecycle position of a quiz session
type State int

const (
	StateIdle State = iota
	StateQuestionsGenerated
	StateAwaitingAnswers
	StateGraded
	StateDiaryUpdateOffered
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateQuestionsGenerated:
		return "questions generated"
	case StateAwaitingAnswers:
		return "awaiting answers"
	case StateGraded:
		return "graded"
	case StateDiaryUpdateOffered:
		return "diary update offered"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// ScoreRecorder receives the score of every graded session
type ScoreRecorder interface {
	RecordScore(ctx context.Context, percent float64, total int) ([]models.Achievement, error)
}

// Session walks one quiz through
// Idle → QuestionsGenerated → AwaitingAnswers → Graded → (DiaryUpdateOffered →) Idle.
// The score is recorded exactly once, when the session is graded.
type Session struct {
	ID uuid.UUID

	recorder  ScoreRecorder
	state     State
	questions []models.Question
	answers   []string
	result    *Result
	unlocked  []models.Achievement
}

// NewSession creates an idle session
func NewSession(recorder ScoreRecorder) *Session {
	return &Session{ID: uuid.New(), recorder: recorder}
}

// State returns the current state
func (s *Session) State() State { return s.state }

// Questions returns the generated deck
func (s *Session) Questions() []models.Question { return s.questions }

// Result returns the grading result, nil before grading
func (s *Session) Result() *Result { return s.result }

// Unlocked returns the achievements unlocked by this session's score
func (s *Session) Unlocked() []models.Achievement { return s.unlocked }

func (s *Session) transition(from, to State) error {
	if s.state != from {
		return fmt.Errorf("%w: %s → %s from %s", ErrInvalidTransition, from, to, s.state)
	}
	s.state = to
	return nil
}

// Generate loads a deck into an idle session
func (s *Session) Generate(questions []models.Question) error {
	if err := s.transition(StateIdle, StateQuestionsGenerated); err != nil {
		return err
	}
	s.questions = append([]models.Question(nil), questions...)
	return nil
}

// Begin starts collecting answers
func (s *Session) Begin() error {
	return s.transition(StateQuestionsGenerated, StateAwaitingAnswers)
}

// Answer records the answer to the next unanswered question
func (s *Session) Answer(answer string) error {
	if s.state != StateAwaitingAnswers {
		return fmt.Errorf("%w: answer while %s", ErrInvalidTransition, s.state)
	}
	s.answers = append(s.answers, answer)
	return nil
}

// Grade scores the collected answers and records the score. A mismatch
// between answers and questions aborts the session back to Idle without
// recording anything.
func (s *Session) Grade(ctx context.Context) (*Result, error) {
	if s.state != StateAwaitingAnswers {
		return nil, fmt.Errorf("%w: grade while %s", ErrInvalidTransition, s.state)
	}
	res, err := GradeBatch(s.questions, s.answers)
	if err != nil {
		s.Reset()
		return nil, err
	}
	s.state = StateGraded
	s.result = res

	if s.recorder != nil {
		unlocked, err := s.recorder.RecordScore(ctx, res.Percent, res.Total)
		if err != nil {
			return res, fmt.Errorf("failed to record score: %w", err)
		}
		s.unlocked = unlocked
	}
	return res, nil
}

// OfferDiaryUpdate moves a graded session with a positive score to the diary
// update step and returns the correctly answered questions.
func (s *Session) OfferDiaryUpdate() ([]models.Question, error) {
	if s.state != StateGraded {
		return nil, fmt.Errorf("%w: offer diary update while %s", ErrInvalidTransition, s.state)
	}
	if s.result.Score == 0 {
		return nil, ErrNothingToMerge
	}
	s.state = StateDiaryUpdateOffered
	return s.result.Correct, nil
}

// Finish closes a graded session. The next quiz starts from Idle with a new ID.
func (s *Session) Finish() error {
	if s.state != StateGraded && s.state != StateDiaryUpdateOffered {
		return fmt.Errorf("%w: finish while %s", ErrInvalidTransition, s.state)
	}
	s.Reset()
	return nil
}

// Reset abandons the current quiz
func (s *Session) Reset() {
	s.ID = uuid.New()
	s.state = StateIdle
	s.questions = nil
	s.answers = nil
	s.result = nil
	s.unlocked = nil
}
